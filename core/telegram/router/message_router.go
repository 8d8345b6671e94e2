package router

import (
	"time"

	tg "github.com/yukmarkazi/cargobot/core/telegram"
	"github.com/yukmarkazi/cargobot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// Sessions is the minimal session-store surface the router needs.
type Sessions interface {
	InProgress(userID int64) bool
	Handle(c tele.Context) error
}

// TextOptions controls how plain-text updates are routed.
type TextOptions struct {
	// Canonicalize maps a localized button label to its canonical form
	// before any lookup. Nil means the text is used as-is.
	Canonicalize func(text string) string

	// Interrupt is consulted before an in-progress dialog gets the
	// update. Returning handled=true means the text was a global menu
	// button: the dialog is abandoned and the update consumed here.
	Interrupt func(c tele.Context, canonical string) (handled bool, err error)

	UnknownText    tele.HandlerFunc
	UnknownContact tele.HandlerFunc
}

// TextRoutes builds routes for text and contact updates.
//
// Precedence for text: canonicalize, then menu interrupt, then the
// active dialog step, then registered text commands, then fallback.
// Contacts go straight to the active dialog (phone prompts are the
// only place the bot asks for one).
func TextRoutes(sessions Sessions, reg *tg.Registry, opts TextOptions) []tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()
		if opts.Canonicalize != nil {
			text = opts.Canonicalize(text)
		}

		if opts.Interrupt != nil {
			handled, err := opts.Interrupt(c, text)
			if handled || err != nil {
				return handleWithSummary(c, "menu", start, "", "", func() error {
					return err
				})
			}
		}

		if sessions != nil && sessions.InProgress(c.Sender().ID) {
			return handleWithSummary(c, "dialog", start, "", "", func() error {
				return sessions.Handle(c)
			})
		}

		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil {
				name := normalizeHandlerName(key)
				return handleWithSummary(c, name, start, "", "", func() error {
					return cmd.Handler(c)
				})
			}
		}

		if reg != nil {
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "fallback", start, "", "", func() error {
					return fb(c)
				})
			}
		}

		if opts.UnknownText != nil {
			return handleWithSummary(c, "unknown_text", start, "", "", func() error {
				return opts.UnknownText(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, "skip", "ok", nil)
		return nil
	}

	contactHandler := func(c tele.Context) error {
		start := time.Now()
		if sessions != nil && sessions.InProgress(c.Sender().ID) {
			return handleWithSummary(c, "dialog_contact", start, "", "", func() error {
				return sessions.Handle(c)
			})
		}
		if opts.UnknownContact != nil {
			return handleWithSummary(c, "unexpected_contact", start, "", "", func() error {
				return opts.UnknownContact(c)
			})
		}
		logHandlerSummary(c, "unexpected_contact", start, "skip", "ok", nil)
		return nil
	}

	return []tg.Route{
		{
			Endpoint: tele.OnText,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
		},
		{
			Endpoint: tele.OnContact,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(contactHandler)),
		},
	}
}
