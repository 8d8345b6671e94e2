package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/yukmarkazi/cargobot/core/telegram/helpers"
	"github.com/yukmarkazi/cargobot/internal/i18n"
	"github.com/yukmarkazi/cargobot/internal/models"
	"github.com/yukmarkazi/cargobot/internal/ui"
)

func (h *Handlers) adminPanel(c tele.Context) error {
	if !h.requireAdmin(c) {
		return nil
	}
	return h.reply(c, "🛠 <b>Admin panel</b>", ui.AdminPanel())
}

func (h *Handlers) adminStats(c tele.Context) error {
	if !h.requireAdmin(c) {
		return nil
	}

	ctx := helpers.BuildContext(c)
	now := time.Now().UTC()
	users, err := h.users.Count(ctx, now)
	if err != nil {
		return err
	}
	cargo, err := h.cargo.Count(ctx, now)
	if err != nil {
		return err
	}
	market, err := h.cargo.MarketRoutes(ctx, now, 30, 5)
	if err != nil {
		return err
	}
	overview, err := h.channelsOverviewText(ctx)
	if err != nil {
		return err
	}

	lines := []string{
		"📊 <b>Admin statistika</b>",
		"",
		fmt.Sprintf("👥 Foydalanuvchilar: <b>%d</b>", users.Total),
		fmt.Sprintf("🚛 Haydovchilar: <b>%d</b>", users.Drivers),
		fmt.Sprintf("📦 Yuk beruvchilar: <b>%d</b>", users.Shippers),
		fmt.Sprintf("💎 Pro: <b>%d</b>", users.Pro),
		"",
		fmt.Sprintf("📦 Jami yuk e'lonlari: <b>%d</b>", cargo.Total),
		fmt.Sprintf("🕒 24 soat: <b>%d</b>", cargo.Day),
		fmt.Sprintf("📅 7 kun: <b>%d</b>", cargo.Week),
		fmt.Sprintf("🗓 30 kun: <b>%d</b>", cargo.Month),
		"",
		"💰 <b>Narx-navo (30 kun, top yo'nalishlar)</b>",
	}
	if len(market) > 0 {
		lines = append(lines, marketRouteLines(market)...)
	} else {
		lines = append(lines, "Hozircha narx statistikasi uchun ma'lumot yetarli emas.")
	}
	lines = append(lines, "", overview)

	return h.reply(c, strings.Join(lines, "\n"), ui.AdminPanel())
}

func (h *Handlers) adminUsers(c tele.Context) error {
	if !h.requireAdmin(c) {
		return nil
	}

	users, err := h.users.Recent(helpers.BuildContext(c), 20)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		return h.reply(c, "Foydalanuvchilar topilmadi.", ui.AdminPanel())
	}

	now := time.Now().UTC()
	lines := []string{"📋 <b>Oxirgi foydalanuvchilar (20 ta)</b>"}
	for _, user := range users {
		status := "Oddiy"
		if user.ProActive(now) {
			status = "PRO"
		}
		name := strings.TrimSpace(
			orDash(user.FirstName.String) + " " + orDash(user.LastName.String))
		lines = append(lines, fmt.Sprintf("• <code>%d</code> | %s | %s | %s",
			user.ID, safe(name), safe(i18n.RoleLabel(user.Role.String)), status))
	}
	return h.reply(c, strings.Join(lines, "\n"), ui.AdminPanel())
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func (h *Handlers) adminBroadcastStart(c tele.Context) error {
	if !h.requireAdmin(c) {
		return nil
	}
	h.sessions.SetStep(c.Sender().ID, stepBcAudience)
	return h.reply(c, "Qaysi auditoriyaga yuborilsin?", ui.BroadcastAudience())
}

func (h *Handlers) adminProMenu(c tele.Context) error {
	if !h.requireAdmin(c) {
		return nil
	}
	return h.reply(c, "💎 Pro boshqaruvi", ui.AdminPro())
}

func (h *Handlers) adminProAddStart(c tele.Context) error {
	if !h.requireAdmin(c) {
		return nil
	}
	h.sessions.SetStep(c.Sender().ID, stepProAdd)
	return h.reply(c, "Format: <code>user_id kun</code>\nMasalan: <code>123456789 30</code>", ui.Cancel())
}

func (h *Handlers) adminProRemoveStart(c tele.Context) error {
	if !h.requireAdmin(c) {
		return nil
	}
	h.sessions.SetStep(c.Sender().ID, stepProRemove)
	return h.reply(c, "Format: <code>user_id</code>\nMasalan: <code>123456789</code>", ui.Cancel())
}

func (h *Handlers) adminChannelsMenu(c tele.Context) error {
	if !h.requireAdmin(c) {
		return nil
	}
	return h.reply(c, "🌐 Kanal/Guruh sozlash", ui.AdminChannels())
}

func (h *Handlers) adminCatalogStart(c tele.Context) error {
	if !h.requireAdmin(c) {
		return nil
	}
	h.sessions.SetStep(c.Sender().ID, stepChCatalog)
	return h.reply(c,
		"Katalog chatni ulang.\n"+
			"• `-100...` chat ID yuboring yoki\n"+
			"• `@username` / `https://t.me/...` link yuboring yoki\n"+
			"• Katalog kanal/guruhdan forward qilingan xabar yuboring.",
		ui.Cancel())
}

func (h *Handlers) adminRegionStart(c tele.Context) error {
	if !h.requireAdmin(c) {
		return nil
	}
	h.sessions.SetStep(c.Sender().ID, stepChRegionSelect)
	return h.reply(c, "Viloyatni tanlang:", ui.Region())
}

func (h *Handlers) adminChannelsList(c tele.Context) error {
	if !h.requireAdmin(c) {
		return nil
	}
	text, err := h.channelsOverviewText(helpers.BuildContext(c))
	if err != nil {
		return err
	}
	return h.reply(c, text, ui.AdminChannels())
}

func (h *Handlers) adminRequiredAddStart(c tele.Context) error {
	if !h.requireAdmin(c) {
		return nil
	}
	h.sessions.SetStep(c.Sender().ID, stepChReqAdd)
	return h.reply(c,
		"Majburiy kanalni qo'shish uchun yuboring:\n"+
			"• `-100...` chat ID yoki\n"+
			"• `@username` / `https://t.me/...` link yoki\n"+
			"• kanaldan forward xabar",
		ui.Cancel())
}

func (h *Handlers) adminRequiredRemoveStart(c tele.Context) error {
	if !h.requireAdmin(c) {
		return nil
	}
	h.sessions.SetStep(c.Sender().ID, stepChReqRemove)
	return h.reply(c,
		"Majburiy kanalni o'chirish uchun yuboring:\n"+
			"• `-100...` chat ID yoki\n"+
			"• `@username` / `https://t.me/...` link yoki\n"+
			"• kanaldan forward xabar",
		ui.Cancel())
}

func (h *Handlers) adminRequiredList(c tele.Context) error {
	if !h.requireAdmin(c) {
		return nil
	}
	text, err := h.mandatoryOverviewText(helpers.BuildContext(c))
	if err != nil {
		return err
	}
	return h.reply(c, text, ui.AdminChannels())
}

func (h *Handlers) adminGuide(c tele.Context) error {
	if !h.requireAdmin(c) {
		return nil
	}
	return h.reply(c, adminGuideText(), ui.AdminPanel())
}

func (h *Handlers) backToAdmin(c tele.Context) error {
	h.sessions.Clear(c.Sender().ID)
	if !h.requireAdmin(c) {
		return nil
	}
	return h.reply(c, "🛠 Admin panel", ui.AdminPanel())
}

// channelsOverviewText summarizes the catalog chat, the per-region
// bindings and the mandatory channel count.
func (h *Handlers) channelsOverviewText(ctx context.Context) (string, error) {
	catalogID, catalogSet, err := h.channels.CatalogChatID(ctx)
	if err != nil {
		return "", err
	}
	regions, err := h.channels.Regions(ctx)
	if err != nil {
		return "", err
	}
	mandatory, err := h.channels.MandatoryList(ctx)
	if err != nil {
		return "", err
	}

	catalogLine := "📚 Katalog chat: <b>Ulanmagan</b>"
	if catalogSet {
		catalogLine = fmt.Sprintf("📚 Katalog chat: <code>%d</code>", catalogID)
	}
	lines := []string{"🌐 <b>Kanal/Guruh ulanishi</b>", catalogLine, ""}

	connected := 0
	var missing []string
	for _, rc := range regions {
		if rc.ChatID.Valid {
			connected++
			lines = append(lines, fmt.Sprintf("✅ %s: <code>%d</code>", safe(rc.Region), rc.ChatID.Int64))
		} else {
			missing = append(missing, rc.Region)
			lines = append(lines, fmt.Sprintf("❌ %s: ulanmagan", safe(rc.Region)))
		}
	}

	lines = append(lines, "",
		fmt.Sprintf("🔢 Ulangan viloyatlar: <b>%d/%d</b>", connected, len(models.Regions)))
	if len(missing) > 0 {
		safeMissing := make([]string, len(missing))
		for i, m := range missing {
			safeMissing[i] = safe(m)
		}
		lines = append(lines, "⚠️ Ulanmagan: "+strings.Join(safeMissing, ", "))
	}
	lines = append(lines, "", fmt.Sprintf("📌 Majburiy kanallar: <b>%d</b>", len(mandatory)))

	return strings.Join(lines, "\n"), nil
}

// mandatoryOverviewText lists the required-subscription channels.
func (h *Handlers) mandatoryOverviewText(ctx context.Context) (string, error) {
	channels, err := h.channels.MandatoryList(ctx)
	if err != nil {
		return "", err
	}

	lines := []string{"📌 <b>Majburiy obuna kanallari</b>"}
	if len(channels) == 0 {
		lines = append(lines, "Hozircha majburiy kanal yo'q.")
		return strings.Join(lines, "\n"), nil
	}
	for i, ch := range channels {
		if ch.Username.Valid && ch.Username.String != "" {
			lines = append(lines, fmt.Sprintf("%d. %s | <code>%d</code> | @%s",
				i+1, safe(ch.DisplayTitle()), ch.ChatID, safe(ch.Username.String)))
		} else {
			lines = append(lines, fmt.Sprintf("%d. %s | <code>%d</code>",
				i+1, safe(ch.DisplayTitle()), ch.ChatID))
		}
	}
	return strings.Join(lines, "\n"), nil
}
