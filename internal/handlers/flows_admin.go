package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/yukmarkazi/cargobot/core/logger"
	"github.com/yukmarkazi/cargobot/core/telegram/format"
	"github.com/yukmarkazi/cargobot/core/telegram/helpers"
	"github.com/yukmarkazi/cargobot/internal/chatref"
	"github.com/yukmarkazi/cargobot/internal/i18n"
	"github.com/yukmarkazi/cargobot/internal/models"
	"github.com/yukmarkazi/cargobot/internal/storage"
	"github.com/yukmarkazi/cargobot/internal/ui"
)

// requireAdmin replies with a rejection and clears any session when
// the sender is not an admin.
func (h *Handlers) requireAdmin(c tele.Context) bool {
	if h.isAdmin(c.Sender().ID) {
		return true
	}
	h.sessions.Clear(c.Sender().ID)
	_ = h.reply(c, "⛔ Sizda admin huquqi yo'q.")
	return false
}

func (h *Handlers) settingsRole(c tele.Context) error {
	role, ok := i18n.RoleByLabel[i18n.Canonicalize(c.Text())]
	if !ok {
		return h.reply(c, "Rolni tugmadan tanlang.")
	}

	ctx := helpers.BuildContext(c)
	userID := c.Sender().ID
	user, err := h.users.ByID(ctx, userID)
	if err != nil {
		return h.reply(c, "Foydalanuvchi topilmadi.")
	}

	if role == models.RoleShipper {
		if err := h.users.SetRole(ctx, userID, models.RoleShipper, true); err != nil {
			return err
		}
		h.sessions.Clear(userID)
		return h.openMainMenu(c, "✅ Rolingiz yuk beruvchi qilib yangilandi.")
	}

	ready := user.DriverProfile.Ready()
	if err := h.users.SetRole(ctx, userID, models.RoleDriver, ready); err != nil {
		return err
	}
	if ready {
		h.sessions.Clear(userID)
		return h.openMainMenu(c, "✅ Rolingiz haydovchi qilib yangilandi.")
	}
	return h.beginDriverForm(c, driverModeSettings)
}

var audienceByButton = map[string]models.BroadcastAudience{
	i18n.BtnBcAll:      models.AudienceAll,
	i18n.BtnBcDrivers:  models.AudienceDrivers,
	i18n.BtnBcShippers: models.AudienceShippers,
	i18n.BtnBcPro:      models.AudiencePro,
}

func (h *Handlers) broadcastAudience(c tele.Context) error {
	if !h.requireAdmin(c) {
		return nil
	}
	audience, ok := audienceByButton[i18n.Canonicalize(c.Text())]
	if !ok {
		return h.reply(c, "Auditoriyani tugmadan tanlang.", ui.BroadcastAudience())
	}
	h.sessions.SetValue(c.Sender().ID, "audience", string(audience))
	h.sessions.SetStep(c.Sender().ID, stepBcContent)
	return h.reply(c, "Yuboriladigan xabarni yuboring (text/photo/video ham bo'lishi mumkin).", ui.Cancel())
}

func (h *Handlers) broadcastContent(c tele.Context) error {
	if !h.requireAdmin(c) {
		return nil
	}

	userID := c.Sender().ID
	audience := models.AudienceAll
	if v, ok := h.sessions.StringValue(userID, "audience"); ok {
		audience = models.BroadcastAudience(v)
	}
	h.sessions.Clear(userID)

	ctx := helpers.BuildContext(c)
	ids, err := h.users.IDsByAudience(ctx, audience, time.Now().UTC())
	if err != nil {
		return err
	}

	var sent, failed int
	if pub := h.getPublisher(); pub != nil {
		sent, failed = pub.Broadcast(ctx, c.Message(), ids)
	}
	logger.PUB.Info("broadcast done by admin",
		"admin_id", userID, "audience", string(audience), "sent", sent, "failed", failed)

	return h.reply(c,
		fmt.Sprintf("✅ Broadcast yakunlandi.\n📤 Yuborildi: <b>%d</b>\n❗ Xato: <b>%d</b>", sent, failed),
		ui.AdminPanel())
}

func (h *Handlers) proAdd(c tele.Context) error {
	if !h.requireAdmin(c) {
		return nil
	}
	parts := strings.Fields(c.Text())
	if len(parts) != 2 {
		return h.reply(c, "Format: <code>user_id kun</code>\nMasalan: <code>123456789 30</code>")
	}
	userID, ok1 := parseUserID(parts[0])
	days, err := strconv.Atoi(parts[1])
	if !ok1 || err != nil {
		return h.reply(c, "Noto'g'ri format. Raqam kiriting.")
	}
	if days <= 0 {
		return h.reply(c, "Kun soni 0 dan katta bo'lishi kerak.")
	}

	ctx := helpers.BuildContext(c)
	until, err := h.users.ApplyPro(ctx, userID, days, time.Now().UTC())
	if err != nil {
		if err == storage.ErrNotFound {
			return h.reply(c, "Foydalanuvchi topilmadi.")
		}
		return err
	}

	h.sessions.Clear(c.Sender().ID)
	if err := h.reply(c, fmt.Sprintf(
		"✅ Pro qo'shildi.\n👤 User: <code>%d</code>\n📅 Tugash sanasi: <b>%s</b>",
		userID, until.Format("02.01.2006 15:04")), ui.AdminPro()); err != nil {
		return err
	}

	// User notification is best effort.
	if bot := h.getBot(); bot != nil {
		_, _ = bot.Send(tele.ChatID(userID), fmt.Sprintf(
			"🎉 Sizga PRO status qo'shildi.\n📅 Tugash: <b>%s</b>",
			until.Format("02.01.2006 15:04")), tele.ModeHTML)
	}
	return nil
}

func (h *Handlers) proRemove(c tele.Context) error {
	if !h.requireAdmin(c) {
		return nil
	}
	userID, ok := parseUserID(c.Text())
	if !ok {
		return h.reply(c, "Faqat user_id kiriting. Masalan: <code>123456789</code>")
	}

	removed, err := h.users.RemovePro(helpers.BuildContext(c), userID)
	if err != nil {
		return err
	}
	if !removed {
		return h.reply(c, "Foydalanuvchi topilmadi.")
	}

	h.sessions.Clear(c.Sender().ID)
	if err := h.reply(c, fmt.Sprintf("✅ Pro o'chirildi: <code>%d</code>", userID), ui.AdminPro()); err != nil {
		return err
	}
	if bot := h.getBot(); bot != nil {
		_, _ = bot.Send(tele.ChatID(userID), "ℹ️ Sizning PRO statusingiz bekor qilindi.")
	}
	return nil
}

// resolveChatFromMessage runs the sender's message through the chat
// reference resolver, replying with the grammar help on failure.
func (h *Handlers) resolveChatFromMessage(c tele.Context) (int64, bool, error) {
	r := h.getResolver()
	if r == nil {
		return 0, false, h.reply(c, "Chat ID topilmadi.")
	}
	chatID, err := r.FromMessage(c.Message())
	if err != nil {
		return 0, false, h.reply(c, err.Error())
	}
	return chatID, true, nil
}

// writableReport appends the writability check outcome to a saved line.
func (h *Handlers) writableReport(savedLine string, chatID int64, withHint bool) string {
	lines := []string{savedLine}
	if r := h.getResolver(); r != nil {
		ok, status := r.CheckWritable(chatID)
		if ok {
			lines = append(lines, fmt.Sprintf("✅ Tekshiruv: %s", format.EscapeHTML(status)))
		} else {
			lines = append(lines, fmt.Sprintf("⚠️ Tekshiruv: %s", format.EscapeHTML(status)))
			if withHint {
				lines = append(lines, "Botni shu chatga admin/member qilib qo'shing va qayta tekshiring.")
			}
		}
	}
	return strings.Join(lines, "\n")
}

func (h *Handlers) channelCatalog(c tele.Context) error {
	if !h.requireAdmin(c) {
		return nil
	}
	chatID, ok, err := h.resolveChatFromMessage(c)
	if !ok {
		return err
	}
	if err := h.channels.SetCatalogChat(helpers.BuildContext(c), chatID); err != nil {
		return err
	}
	h.sessions.Clear(c.Sender().ID)
	text := h.writableReport(
		fmt.Sprintf("✅ Katalog chat saqlandi: <code>%d</code>", chatID), chatID, true)
	return h.reply(c, text, ui.AdminChannels())
}

func (h *Handlers) channelRegionSelect(c tele.Context) error {
	region := models.NormalizeRegion(c.Text())
	if region == "" {
		return h.reply(c, "Viloyatni tugmadan tanlang.", ui.Region())
	}
	h.sessions.SetValue(c.Sender().ID, "selected_region", region)
	h.sessions.SetStep(c.Sender().ID, stepChRegionChat)
	return h.reply(c, fmt.Sprintf(
		"%s uchun chatni ulang.\n"+
			"• `-100...` chat ID yuboring yoki\n"+
			"• `@username` / `https://t.me/...` link yuboring yoki\n"+
			"• Shu viloyat chatidan forward qilingan xabar yuboring.",
		format.EscapeHTML(region)), ui.Cancel())
}

func (h *Handlers) channelRegionChat(c tele.Context) error {
	if !h.requireAdmin(c) {
		return nil
	}
	chatID, ok, err := h.resolveChatFromMessage(c)
	if !ok {
		return err
	}
	region, ok := h.sessions.StringValue(c.Sender().ID, "selected_region")
	if !ok || region == "" {
		h.sessions.Clear(c.Sender().ID)
		return h.reply(c, "Xatolik: viloyat tanlanmadi.", ui.AdminChannels())
	}

	if err := h.channels.SetRegionChat(helpers.BuildContext(c), region, chatID); err != nil {
		return err
	}
	h.sessions.Clear(c.Sender().ID)
	text := h.writableReport(fmt.Sprintf(
		"✅ %s chati saqlandi: <code>%d</code>", format.EscapeHTML(region), chatID), chatID, true)
	return h.reply(c, text, ui.AdminChannels())
}

func (h *Handlers) channelRequiredAdd(c tele.Context) error {
	if !h.requireAdmin(c) {
		return nil
	}
	chatID, ok, err := h.resolveChatFromMessage(c)
	if !ok {
		return err
	}

	bot := h.getBot()
	if bot == nil {
		return h.reply(c, "Chat aniqlanmadi.")
	}
	chat, err := bot.ChatByID(chatID)
	if err != nil {
		return h.reply(c, fmt.Sprintf("❗ Qo'shishda xato: %s",
			format.EscapeHTML(chatref.NormalizeSendError(err))))
	}

	entry := models.MandatoryChannel{ChatID: chat.ID, Title: chat.Title}
	if entry.Title == "" {
		entry.Title = strings.TrimSpace(chat.FirstName + " " + chat.LastName)
	}
	if entry.Title == "" {
		entry.Title = strconv.FormatInt(chat.ID, 10)
	}
	if chat.Username != "" {
		entry.Username.String = chat.Username
		entry.Username.Valid = true
		entry.URL.String = "https://t.me/" + chat.Username
		entry.URL.Valid = true
	}

	if err := h.channels.UpsertMandatory(helpers.BuildContext(c), entry); err != nil {
		return err
	}
	h.sessions.Clear(c.Sender().ID)
	return h.reply(c, fmt.Sprintf("✅ Majburiy kanal qo'shildi: <b>%s</b> (<code>%d</code>)",
		format.EscapeHTML(entry.Title), entry.ChatID), ui.AdminChannels())
}

func (h *Handlers) channelRequiredRemove(c tele.Context) error {
	if !h.requireAdmin(c) {
		return nil
	}
	chatID, ok, err := h.resolveChatFromMessage(c)
	if !ok {
		return err
	}

	removed, err := h.channels.RemoveMandatory(helpers.BuildContext(c), chatID)
	if err != nil {
		return err
	}
	h.sessions.Clear(c.Sender().ID)
	if !removed {
		return h.reply(c, "Berilgan kanal majburiy ro'yxatda topilmadi.", ui.AdminChannels())
	}
	return h.reply(c, fmt.Sprintf("✅ Majburiy kanal o'chirildi: <code>%d</code>", chatID), ui.AdminChannels())
}
