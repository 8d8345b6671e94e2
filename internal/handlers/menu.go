package handlers

import (
	"fmt"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/yukmarkazi/cargobot/core/telegram/helpers"
	"github.com/yukmarkazi/cargobot/internal/i18n"
	"github.com/yukmarkazi/cargobot/internal/models"
	"github.com/yukmarkazi/cargobot/internal/publish"
	"github.com/yukmarkazi/cargobot/internal/ui"
)

// openMainMenu shows the main keyboard with the given message.
func (h *Handlers) openMainMenu(c tele.Context, text string) error {
	return h.reply(c, text, ui.MainMenu(h.isAdmin(c.Sender().ID)))
}

// cancelDialog aborts the in-progress dialog, or just reopens the menu
// when there is nothing to cancel.
func (h *Handlers) cancelDialog(c tele.Context) error {
	userID := c.Sender().ID
	if !h.sessions.InProgress(userID) {
		return h.openMainMenu(c, "Asosiy menyu.")
	}
	h.sessions.Clear(userID)
	return h.openMainMenu(c, "❌ Jarayon bekor qilindi.")
}

// Interrupt handles global menu buttons, preempting any dialog. It is
// wired as the text router's interrupt hook. The session lock is held
// for the whole interrupt so a step handler already in flight for the
// same user finishes before the dialog is torn down.
func (h *Handlers) Interrupt(c tele.Context, canonical string) (bool, error) {
	if !i18n.IsMenuInterrupt(canonical) {
		return false, nil
	}
	err := h.sessions.WithUser(c.Sender().ID, func() error {
		if canonical == i18n.BtnCancel {
			return h.cancelDialog(c)
		}
		h.sessions.Clear(c.Sender().ID)
		return h.routeMenuButton(c, canonical)
	})
	return true, err
}

func (h *Handlers) routeMenuButton(c tele.Context, text string) error {
	switch text {
	case i18n.BtnMenuProfile:
		return h.showProfile(c)
	case i18n.BtnMenuAnalysis:
		return h.showAnalysis(c)
	case i18n.BtnMenuStats:
		return h.showStats(c)
	case i18n.BtnMenuCargo:
		return h.menuCargo(c)
	case i18n.BtnMenuDriver:
		return h.menuDriver(c)
	case i18n.BtnMenuPro:
		return h.menuPro(c)
	case i18n.BtnMenuNews:
		return h.menuNews(c)
	case i18n.BtnMenuContact:
		return h.menuContact(c)
	case i18n.BtnMenuSettings:
		return h.menuSettings(c)
	case i18n.BtnSettingsRole:
		return h.settingsRoleStart(c)
	case i18n.BtnSettingsLang:
		return h.settingsLangStart(c)
	case i18n.BtnBackMain:
		return h.backToMain(c)
	case i18n.BtnAdminPanel:
		return h.adminPanel(c)
	case i18n.BtnAdminStats:
		return h.adminStats(c)
	case i18n.BtnAdminUsers:
		return h.adminUsers(c)
	case i18n.BtnBroadcast:
		return h.adminBroadcastStart(c)
	case i18n.BtnAdminPro:
		return h.adminProMenu(c)
	case i18n.BtnProAdd:
		return h.adminProAddStart(c)
	case i18n.BtnProRemove:
		return h.adminProRemoveStart(c)
	case i18n.BtnAdminChannels:
		return h.adminChannelsMenu(c)
	case i18n.BtnChSetCatalog:
		return h.adminCatalogStart(c)
	case i18n.BtnChSetRegion:
		return h.adminRegionStart(c)
	case i18n.BtnChList:
		return h.adminChannelsList(c)
	case i18n.BtnReqAdd:
		return h.adminRequiredAddStart(c)
	case i18n.BtnReqRemove:
		return h.adminRequiredRemoveStart(c)
	case i18n.BtnReqList:
		return h.adminRequiredList(c)
	case i18n.BtnAdminGuide:
		return h.adminGuide(c)
	case i18n.BtnBackAdmin:
		return h.backToAdmin(c)
	}
	return h.openMainMenu(c, "Kerakli bo'limni menyudan tanlang.")
}

// requireCompletedProfile gates the menu sections behind mandatory
// subscription and a finished registration.
func (h *Handlers) requireCompletedProfile(c tele.Context) (*models.User, error) {
	passed, err := h.checkSubscriptionGate(c)
	if err != nil || !passed {
		return nil, err
	}
	user, err := h.users.Ensure(helpers.BuildContext(c), c.Sender())
	if err != nil {
		return nil, err
	}
	if !user.ProfileCompleted {
		return nil, h.reply(c, "Profilingiz tugallanmagan. Avval /start orqali to'ldiring.")
	}
	return user, nil
}

func (h *Handlers) showProfile(c tele.Context) error {
	user, err := h.requireCompletedProfile(c)
	if user == nil {
		return err
	}
	return h.reply(c, buildProfileText(user, time.Now().UTC()), ui.MainMenu(h.isAdmin(user.ID)))
}

func (h *Handlers) showAnalysis(c tele.Context) error {
	user, err := h.requireCompletedProfile(c)
	if user == nil {
		return err
	}

	score, missing := profileCompleteness(user)
	stats, err := h.cargo.StatsByOwner(helpers.BuildContext(c), user.ID, time.Now().UTC())
	if err != nil {
		return err
	}

	lines := []string{
		"🧠 <b>Profil tahlili</b>",
		fmt.Sprintf("📊 To'liqlik: <b>%d%%</b>", score),
		fmt.Sprintf("📦 Jami e'lonlar: <b>%d</b>", stats.Total),
		fmt.Sprintf("🗓 Oxirgi 30 kun: <b>%d</b>", stats.Last30d),
	}
	if len(missing) > 0 {
		safeMissing := make([]string, len(missing))
		for i, m := range missing {
			safeMissing[i] = safe(m)
		}
		lines = append(lines, "⚠️ Yetishmayotgan ma'lumotlar: "+strings.Join(safeMissing, ", "))
	} else {
		lines = append(lines, "✅ Profil to'liq.")
	}

	switch {
	case user.Role.String == models.RoleDriver && score < 100:
		lines = append(lines, "💡 Tavsiya: mashina parametrlarini to'liq kiritsangiz buyurtma topish ehtimoli oshadi.")
	case user.Role.String == models.RoleShipper && stats.Total == 0:
		lines = append(lines, "💡 Tavsiya: birinchi yuk e'lonini joylashtiring.")
	}

	return h.reply(c, strings.Join(lines, "\n"), ui.MainMenu(h.isAdmin(user.ID)))
}

func (h *Handlers) showStats(c tele.Context) error {
	user, err := h.requireCompletedProfile(c)
	if user == nil {
		return err
	}

	ctx := helpers.BuildContext(c)
	now := time.Now().UTC()
	mine, err := h.cargo.StatsByOwner(ctx, user.ID, now)
	if err != nil {
		return err
	}
	market, err := h.cargo.MarketRoutes(ctx, now, 30, 5)
	if err != nil {
		return err
	}

	avg := "Noma'lum"
	if mine.AvgPrice.Valid {
		avg = publish.FormatMoney(mine.AvgPrice.Float64)
	}
	lines := []string{
		"📊 <b>Statistika</b>",
		"",
		fmt.Sprintf("📦 Sizning jami e'lonlaringiz: <b>%d</b>", mine.Total),
		fmt.Sprintf("🗓 Oxirgi 30 kun: <b>%d</b>", mine.Last30d),
		fmt.Sprintf("💰 O'rtacha narx: <b>%s so'm</b>", avg),
		"",
		"💹 <b>Narx-navo (bozor, 30 kun)</b>",
	}
	if len(market) > 0 {
		lines = append(lines, marketRouteLines(market)...)
	} else {
		lines = append(lines, "Hozircha statistik ma'lumot yetarli emas.")
	}

	return h.reply(c, strings.Join(lines, "\n"), ui.MainMenu(h.isAdmin(user.ID)))
}

func (h *Handlers) menuCargo(c tele.Context) error {
	user, err := h.requireCompletedProfile(c)
	if user == nil {
		return err
	}
	if user.Role.String != models.RoleShipper {
		return h.reply(c, "📌 Yuk joylash faqat `Yuk beruvchi` roli uchun. Sozlamadan rolni almashtiring.")
	}
	return h.beginCargoForm(c)
}

func (h *Handlers) menuDriver(c tele.Context) error {
	user, err := h.requireCompletedProfile(c)
	if user == nil {
		return err
	}
	return h.beginDriverForm(c, driverModeEdit)
}

func (h *Handlers) menuPro(c tele.Context) error {
	if passed, err := h.checkSubscriptionGate(c); err != nil || !passed {
		return err
	}
	return h.reply(c, proText)
}

func (h *Handlers) menuNews(c tele.Context) error {
	if passed, err := h.checkSubscriptionGate(c); err != nil || !passed {
		return err
	}
	if h.newsChannel == "" {
		return h.reply(c, "📣 Yangiliklar bo'limi hali sozlanmagan.")
	}
	return h.reply(c, fmt.Sprintf("📣 Yangiliklar kanali:\n%s", safe(h.newsChannel)))
}

func (h *Handlers) menuContact(c tele.Context) error {
	if passed, err := h.checkSubscriptionGate(c); err != nil || !passed {
		return err
	}
	support := h.supportContact
	if support == "" {
		support = "@support"
	}
	return h.reply(c, fmt.Sprintf("☎️ Bog'lanish: %s", safe(support)))
}

func (h *Handlers) menuSettings(c tele.Context) error {
	if passed, err := h.checkSubscriptionGate(c); err != nil || !passed {
		return err
	}
	return h.reply(c, "⚙️ Sozlamalar:", ui.Settings())
}

func (h *Handlers) settingsRoleStart(c tele.Context) error {
	user, err := h.requireCompletedProfile(c)
	if user == nil {
		return err
	}
	h.sessions.SetStep(c.Sender().ID, stepSettingsRole)
	return h.reply(c, "Yangi rolni tanlang:", ui.Role())
}

func (h *Handlers) settingsLangStart(c tele.Context) error {
	return h.beginLanguageSelect(c)
}

func (h *Handlers) backToMain(c tele.Context) error {
	h.sessions.Clear(c.Sender().ID)
	return h.openMainMenu(c, "Asosiy menyu.")
}

// UnknownText answers free text outside any dialog.
func (h *Handlers) UnknownText(c tele.Context) error {
	if strings.HasPrefix(strings.TrimSpace(c.Text()), "/") {
		return h.reply(c, "Buyruq topilmadi. Menyudan foydalaning yoki /start ni bosing.")
	}
	return h.openMainMenu(c, "Kerakli bo'limni menyudan tanlang.")
}

// UnknownContact answers a contact share that no dialog asked for.
func (h *Handlers) UnknownContact(c tele.Context) error {
	return h.openMainMenu(c, "Kerakli bo'limni menyudan tanlang.")
}
