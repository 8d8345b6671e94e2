package publish

import (
	"context"
	"fmt"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/yukmarkazi/cargobot/core/logger"
	"github.com/yukmarkazi/cargobot/internal/chatref"
	"github.com/yukmarkazi/cargobot/internal/models"
)

// Sender is the bot surface the dispatcher needs. *tele.Bot satisfies it.
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
	Copy(to tele.Recipient, msg tele.Editable, opts ...interface{}) (*tele.Message, error)
}

// RegionChats resolves the chat bound to a region.
type RegionChats interface {
	RegionChatID(ctx context.Context, region string) (int64, bool, error)
}

// Publisher fans listings out to region chats and runs broadcasts.
type Publisher struct {
	api         Sender
	channels    RegionChats
	botUsername string
	pace        time.Duration
}

// NewPublisher builds a dispatcher. pace throttles broadcast copies;
// zero disables pacing.
func NewPublisher(api Sender, channels RegionChats, botUsername string, pace time.Duration) *Publisher {
	return &Publisher{api: api, channels: channels, botUsername: botUsername, pace: pace}
}

// PublishListing sends a listing to its origin region chat. Listings
// go only to the chat of the region the cargo departs from; an
// unconfigured region publishes nowhere and fails nothing. Send
// failures are recorded per destination, never aborting the rest.
func (p *Publisher) PublishListing(ctx context.Context, l *models.CargoListing, owner *models.User, now time.Time) (posted []int64, failures []string, err error) {
	posted = []int64{}
	failures = []string{}

	chatID, ok, err := p.channels.RegionChatID(ctx, l.FromRegion)
	if err != nil {
		return nil, nil, fmt.Errorf("publish: resolve region chat: %w", err)
	}
	if !ok {
		logger.PUB.Warn("no chat for region, listing not posted",
			"cargo_id", l.ID, "region", l.FromRegion)
		return posted, failures, nil
	}

	text := BuildListingPost(l, owner, now)
	markup := ListingKeyboard(p.botUsername, l.ID)

	for _, target := range []int64{chatID} {
		_, sendErr := p.api.Send(tele.ChatID(target), text, markup, tele.ModeHTML, tele.NoPreview)
		if sendErr != nil {
			reason := chatref.NormalizeSendError(sendErr)
			failures = append(failures, fmt.Sprintf("%d: %s", target, reason))
			logger.PUB.Warn("listing post failed",
				"cargo_id", l.ID, "chat_id", target, "error", reason)
			continue
		}
		posted = append(posted, target)
	}

	logger.PUB.Info("listing published",
		"cargo_id", l.ID, "posted", len(posted), "failed", len(failures))
	return posted, failures, nil
}

// Broadcast copies a message to each recipient. Failed copies are
// counted and skipped; the run stops early when ctx is done.
func (p *Publisher) Broadcast(ctx context.Context, msg tele.Editable, userIDs []int64) (sent, failed int) {
	for _, id := range userIDs {
		select {
		case <-ctx.Done():
			logger.PUB.Warn("broadcast interrupted",
				"sent", sent, "failed", failed, "remaining", len(userIDs)-sent-failed)
			return sent, failed
		default:
		}
		if _, err := p.api.Copy(tele.ChatID(id), msg); err != nil {
			failed++
			continue
		}
		sent++
		if p.pace > 0 {
			time.Sleep(p.pace)
		}
	}
	logger.PUB.Info("broadcast finished", "sent", sent, "failed", failed)
	return sent, failed
}
