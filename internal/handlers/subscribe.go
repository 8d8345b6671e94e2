package handlers

import (
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/yukmarkazi/cargobot/core/telegram/helpers"
	"github.com/yukmarkazi/cargobot/internal/models"
	"github.com/yukmarkazi/cargobot/internal/ui"
)

// subscribedRoles are the membership states that count as subscribed.
var subscribedRoles = map[tele.MemberStatus]struct{}{
	tele.Member:        {},
	tele.Administrator: {},
	tele.Creator:       {},
	tele.Restricted:    {},
}

// missingMandatory returns the mandatory channels the user has not
// joined. A failed membership lookup counts as not joined.
func (h *Handlers) missingMandatory(c tele.Context, userID int64) ([]models.MandatoryChannel, error) {
	channels, err := h.channels.MandatoryList(helpers.BuildContext(c))
	if err != nil {
		return nil, err
	}
	if len(channels) == 0 {
		return nil, nil
	}

	bot := h.getBot()
	if bot == nil {
		return nil, nil
	}

	var missing []models.MandatoryChannel
	for _, ch := range channels {
		member, err := bot.ChatMemberOf(&tele.Chat{ID: ch.ChatID}, &tele.User{ID: userID})
		if err != nil {
			missing = append(missing, ch)
			continue
		}
		if _, ok := subscribedRoles[member.Role]; !ok {
			missing = append(missing, ch)
		}
	}
	return missing, nil
}

func mandatorySubscribeText(channels []models.MandatoryChannel) string {
	lines := []string{
		"🔒 <b>Botdan foydalanish uchun majburiy obuna kerak</b>",
		"Quyidagi kanal(lar)ga obuna bo'ling va `✅ Tekshirish` ni bosing:",
	}
	for _, ch := range channels {
		lines = append(lines, "• "+safe(ch.DisplayTitle()))
	}
	return strings.Join(lines, "\n")
}

// checkSubscriptionGate enforces mandatory subscription for regular
// users. It returns false after sending the join prompt.
func (h *Handlers) checkSubscriptionGate(c tele.Context) (bool, error) {
	sender := c.Sender()
	if sender == nil {
		return false, nil
	}
	if h.isAdmin(sender.ID) {
		return true, nil
	}

	missing, err := h.missingMandatory(c, sender.ID)
	if err != nil {
		return false, err
	}
	if len(missing) == 0 {
		return true, nil
	}
	return false, h.reply(c, mandatorySubscribeText(missing), ui.MandatorySubscribe(missing))
}

// CheckSubCallback rechecks the subscription when the user presses the
// verify button under the join prompt.
func (h *Handlers) CheckSubCallback(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return c.Respond()
	}
	if h.isAdmin(sender.ID) {
		return c.Respond(&tele.CallbackResponse{Text: "Admin uchun obuna tekshiruvi shart emas."})
	}

	missing, err := h.missingMandatory(c, sender.ID)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		// Refresh the join buttons in case the list changed.
		_ = c.Edit(ui.MandatorySubscribe(missing))
		return c.Respond(&tele.CallbackResponse{
			Text:      "Hali barcha kanallarga obuna bo'lmadingiz.",
			ShowAlert: true,
		})
	}

	if err := c.Respond(&tele.CallbackResponse{Text: "✅ Obuna tasdiqlandi."}); err != nil {
		return err
	}

	ctx := helpers.BuildContext(c)
	user, err := h.users.Ensure(ctx, sender)
	if err != nil {
		return err
	}
	if !models.ValidLang(user.Lang.String) {
		return h.beginLanguageSelect(c)
	}
	if user.ProfileCompleted {
		return h.reply(c, "✅ Obuna tasdiqlandi. Davom etishingiz mumkin.",
			ui.MainMenu(h.isAdmin(sender.ID)))
	}
	return h.reply(c, "✅ Obuna tasdiqlandi. Endi /start ni bosing.")
}
