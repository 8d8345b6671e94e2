// Package handlers implements the bot's conversational surface: the
// menu, the multi-step dialogs, and the admin panel. It speaks Uzbek
// canonically and localizes outbound text per user.
package handlers

import (
	"context"
	"sync"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/yukmarkazi/cargobot/core/telegram/helpers"
	"github.com/yukmarkazi/cargobot/core/telegram/keyboard"
	"github.com/yukmarkazi/cargobot/core/telegram/sessions"
	"github.com/yukmarkazi/cargobot/internal/chatref"
	"github.com/yukmarkazi/cargobot/internal/i18n"
	"github.com/yukmarkazi/cargobot/internal/models"
	"github.com/yukmarkazi/cargobot/internal/publish"
	"github.com/yukmarkazi/cargobot/internal/storage"
)

// UserStore is the user repository surface the handlers need.
type UserStore interface {
	Ensure(ctx context.Context, from *tele.User) (*models.User, error)
	ByID(ctx context.Context, id int64) (*models.User, error)
	SetLang(ctx context.Context, id int64, lang string) error
	CompleteRegistration(ctx context.Context, id int64, firstName, lastName, phone, role string, completed bool) error
	SetRole(ctx context.Context, id int64, role string, completed bool) error
	SaveDriverProfile(ctx context.Context, id int64, p models.DriverProfile) error
	ApplyPro(ctx context.Context, id int64, days int, now time.Time) (time.Time, error)
	RemovePro(ctx context.Context, id int64) (bool, error)
	IDsByAudience(ctx context.Context, audience models.BroadcastAudience, now time.Time) ([]int64, error)
	Recent(ctx context.Context, limit int) ([]models.User, error)
	Count(ctx context.Context, now time.Time) (storage.Counts, error)
}

// CargoStore is the listing repository surface the handlers need.
type CargoStore interface {
	Insert(ctx context.Context, l *models.CargoListing) (int64, error)
	SetPostResult(ctx context.Context, id int64, posted []int64, failures []string) error
	ByID(ctx context.Context, id int64) (*models.CargoListing, error)
	StatsByOwner(ctx context.Context, ownerID int64, now time.Time) (storage.OwnerStats, error)
	Count(ctx context.Context, now time.Time) (storage.TotalCounts, error)
	MarketRoutes(ctx context.Context, now time.Time, days, limit int) ([]storage.RouteStats, error)
}

// ChannelStore is the channel configuration surface the handlers need.
type ChannelStore interface {
	RegionChatID(ctx context.Context, region string) (int64, bool, error)
	SetRegionChat(ctx context.Context, region string, chatID int64) error
	Regions(ctx context.Context) ([]models.RegionChannel, error)
	CatalogChatID(ctx context.Context) (int64, bool, error)
	SetCatalogChat(ctx context.Context, chatID int64) error
	MandatoryList(ctx context.Context) ([]models.MandatoryChannel, error)
	UpsertMandatory(ctx context.Context, ch models.MandatoryChannel) error
	RemoveMandatory(ctx context.Context, chatID int64) (bool, error)
}

// Resolver turns user-supplied chat references into chat IDs.
type Resolver interface {
	Resolve(value string) (int64, error)
	FromMessage(msg *tele.Message) (int64, error)
	CheckWritable(chatID int64) (bool, string)
}

// Publisher fans listings out and runs broadcasts.
type Publisher interface {
	PublishListing(ctx context.Context, l *models.CargoListing, owner *models.User, now time.Time) (posted []int64, failures []string, err error)
	Broadcast(ctx context.Context, msg tele.Editable, userIDs []int64) (sent, failed int)
}

// Options wires a Handlers instance.
type Options struct {
	Sessions sessions.Store
	Users    UserStore
	Cargo    CargoStore
	Channels ChannelStore

	AdminIDs       []int64
	SupportContact string
	NewsChannel    string
	BroadcastPace  time.Duration
}

// Handlers carries every dependency of the bot's update handlers.
// The bot-backed pieces (resolver, publisher) attach after the bot
// instance exists, before polling starts.
type Handlers struct {
	sessions sessions.Store
	users    UserStore
	cargo    CargoStore
	channels ChannelStore

	adminIDs       map[int64]struct{}
	supportContact string
	newsChannel    string
	pace           time.Duration

	mu        sync.RWMutex
	bot       *tele.Bot
	resolver  Resolver
	publisher Publisher
}

// New builds the handler set.
func New(opts Options) *Handlers {
	admins := make(map[int64]struct{}, len(opts.AdminIDs))
	for _, id := range opts.AdminIDs {
		admins[id] = struct{}{}
	}
	return &Handlers{
		sessions:       opts.Sessions,
		users:          opts.Users,
		cargo:          opts.Cargo,
		channels:       opts.Channels,
		adminIDs:       admins,
		supportContact: opts.SupportContact,
		newsChannel:    opts.NewsChannel,
		pace:           opts.BroadcastPace,
	}
}

// AttachBot wires the bot-backed dependencies once the bot exists.
func (h *Handlers) AttachBot(bot *tele.Bot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.bot = bot
	h.resolver = chatref.New(bot)
	h.publisher = publish.NewPublisher(bot, h.channels, bot.Me.Username, h.pace)
}

func (h *Handlers) getBot() *tele.Bot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.bot
}

func (h *Handlers) getResolver() Resolver {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.resolver
}

func (h *Handlers) getPublisher() Publisher {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.publisher
}

func (h *Handlers) isAdmin(userID int64) bool {
	_, ok := h.adminIDs[userID]
	return ok
}

// locked serializes a handler with the sender's session lock so a
// command cannot interleave with an in-flight dialog step.
func (h *Handlers) locked(fn tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		sender := c.Sender()
		if sender == nil {
			return fn(c)
		}
		return h.sessions.WithUser(sender.ID, func() error {
			return fn(c)
		})
	}
}

// langOf looks up the sender's display language, defaulting to Uzbek.
func (h *Handlers) langOf(c tele.Context) string {
	sender := c.Sender()
	if sender == nil {
		return models.LangUz
	}
	user, err := h.users.ByID(helpers.BuildContext(c), sender.ID)
	if err != nil {
		return models.LangUz
	}
	return user.Language()
}

// reply sends localized HTML to the current chat. Text and markup are
// authored in canonical Uzbek and rewritten per the user's language.
func (h *Handlers) reply(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	lang := h.langOf(c)
	var rm *tele.ReplyMarkup
	if len(markup) > 0 && markup[0] != nil {
		rm = i18n.LocalizeMarkup(markup[0], lang)
	}
	if rm != nil {
		return helpers.SendHTML(c, i18n.LocalizeText(text, lang), rm)
	}
	return helpers.SendHTML(c, i18n.LocalizeText(text, lang))
}

// replyHideKeyboard sends localized text and removes the reply keyboard.
func (h *Handlers) replyHideKeyboard(c tele.Context, text string) error {
	lang := h.langOf(c)
	return helpers.SendHTML(c, i18n.LocalizeText(text, lang),
		keyboard.RemoveKeyboard())
}
