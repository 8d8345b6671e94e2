package handlers

import (
	"fmt"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/yukmarkazi/cargobot/core/telegram/helpers"
	"github.com/yukmarkazi/cargobot/internal/models"
	"github.com/yukmarkazi/cargobot/internal/storage"
)

// Start handles /start, with or without a deep-link payload.
func (h *Handlers) Start(c tele.Context) error {
	if passed, err := h.checkSubscriptionGate(c); err != nil || !passed {
		return err
	}

	userID := c.Sender().ID
	h.sessions.Clear(userID)

	user, err := h.users.Ensure(helpers.BuildContext(c), c.Sender())
	if err != nil {
		return err
	}

	if payload := startPayload(c); payload != "" {
		if err := h.handleStartPayload(c, payload); err != nil {
			return err
		}
		if user.ProfileCompleted {
			return h.openMainMenu(c, "Asosiy menyu.")
		}
		return h.reply(c, "Botdan to'liq foydalanish uchun /start ni oddiy yuborib ro'yxatdan o'ting.")
	}

	if !models.ValidLang(user.Lang.String) {
		return h.beginLanguageSelect(c)
	}
	if user.ProfileCompleted {
		return h.openMainMenu(c, "👋 Xush kelibsiz! Asosiy menyudan bo'limni tanlang.")
	}
	return h.beginRegistration(c)
}

func startPayload(c tele.Context) string {
	if msg := c.Message(); msg != nil && msg.Payload != "" {
		return strings.TrimSpace(msg.Payload)
	}
	parts := strings.SplitN(strings.TrimSpace(c.Text()), " ", 2)
	if len(parts) == 2 {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// handleStartPayload opens the contact card referenced by a listing
// deep link (phone_<id> or cargo_<id>).
func (h *Handlers) handleStartPayload(c tele.Context, payload string) error {
	var raw string
	switch {
	case strings.HasPrefix(payload, "phone_"):
		raw = strings.TrimPrefix(payload, "phone_")
	case strings.HasPrefix(payload, "cargo_"):
		raw = strings.TrimPrefix(payload, "cargo_")
	default:
		return nil
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return h.reply(c, "E'lon identifikatori noto'g'ri.")
	}

	ctx := helpers.BuildContext(c)
	listing, err := h.cargo.ByID(ctx, id)
	if err != nil {
		if err == storage.ErrNotFound {
			return h.reply(c, "E'lon topilmadi yoki o'chirilgan.")
		}
		return err
	}
	owner, err := h.users.ByID(ctx, listing.OwnerID)
	if err != nil {
		if err == storage.ErrNotFound {
			return h.reply(c, "Aloqa ma'lumoti topilmadi.")
		}
		return err
	}

	lines := []string{
		"📨 <b>E'lon bo'yicha aloqa</b>",
		fmt.Sprintf("📍 Yo'nalish: <b>%s -> %s</b>", safe(listing.FromRegion), safe(listing.ToRegion)),
		fmt.Sprintf("📦 Yuk: <b>%s</b>", safe(listing.CargoType)),
		fmt.Sprintf("👤 Ism: <b>%s</b>", safe(owner.DisplayName())),
		fmt.Sprintf("📞 Telefon: <b>%s</b>", safe(owner.Phone.String)),
	}

	var markup *tele.ReplyMarkup
	if username := strings.TrimSpace(owner.Username.String); username != "" {
		markup = &tele.ReplyMarkup{InlineKeyboard: [][]tele.InlineButton{
			{{Text: "✉️ Telegramda yozish", URL: "https://t.me/" + username}},
		}}
	}
	return h.reply(c, strings.Join(lines, "\n"), markup)
}
