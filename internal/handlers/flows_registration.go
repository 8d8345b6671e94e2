package handlers

import (
	"database/sql"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/yukmarkazi/cargobot/core/telegram/helpers"
	"github.com/yukmarkazi/cargobot/internal/i18n"
	"github.com/yukmarkazi/cargobot/internal/models"
	"github.com/yukmarkazi/cargobot/internal/ui"
)

const registrationGreeting = "👋 Assalomu alaykum!\n" +
	"Logistik platformaga xush kelibsiz.\n\n" +
	"🧾 Ismingizni kiriting:"

// beginRegistration starts the registration dialog from its first
// question, discarding whatever session existed before.
func (h *Handlers) beginRegistration(c tele.Context) error {
	h.sessions.Clear(c.Sender().ID)
	h.sessions.SetStep(c.Sender().ID, stepRegFirstName)
	return h.replyHideKeyboard(c, registrationGreeting)
}

// beginLanguageSelect opens the language picker dialog.
func (h *Handlers) beginLanguageSelect(c tele.Context) error {
	h.sessions.Clear(c.Sender().ID)
	h.sessions.SetStep(c.Sender().ID, stepLangSelect)
	return h.reply(c, "Tilni tanlang / Выберите язык:", ui.Language())
}

func (h *Handlers) langSelect(c tele.Context) error {
	lang, ok := i18n.LangByLabel[strings.TrimSpace(c.Text())]
	if !ok {
		return h.reply(c, "Tilni tugma orqali tanlang / Выберите язык кнопкой.", ui.Language())
	}

	ctx := helpers.BuildContext(c)
	if err := h.users.SetLang(ctx, c.Sender().ID, lang); err != nil {
		return err
	}
	user, err := h.users.Ensure(ctx, c.Sender())
	if err != nil {
		return err
	}

	if user.ProfileCompleted {
		h.sessions.Clear(c.Sender().ID)
		return h.openMainMenu(c, "✅ Til saqlandi. Asosiy menyu.")
	}

	h.sessions.SetStep(c.Sender().ID, stepRegFirstName)
	return h.replyHideKeyboard(c, registrationGreeting)
}

func (h *Handlers) regFirstName(c tele.Context) error {
	text := strings.TrimSpace(c.Text())
	if len([]rune(text)) < 2 {
		return h.reply(c, "Ism kamida 2 ta harf bo'lsin. Qayta kiriting:")
	}
	h.sessions.SetValue(c.Sender().ID, "first_name", text)
	h.sessions.SetStep(c.Sender().ID, stepRegLastName)
	return h.reply(c, "🧾 Familiyangizni kiriting:")
}

func (h *Handlers) regLastName(c tele.Context) error {
	text := strings.TrimSpace(c.Text())
	if len([]rune(text)) < 2 {
		return h.reply(c, "Familiya kamida 2 ta harf bo'lsin. Qayta kiriting:")
	}
	h.sessions.SetValue(c.Sender().ID, "last_name", text)
	h.sessions.SetStep(c.Sender().ID, stepRegPhone)
	return h.reply(c, "📱 Telefon raqamingizni yuboring:", ui.Phone())
}

func (h *Handlers) regPhone(c tele.Context) error {
	var phone string
	if msg := c.Message(); msg != nil && msg.Contact != nil && msg.Contact.PhoneNumber != "" {
		phone = parsePhone(msg.Contact.PhoneNumber)
	} else {
		phone = parsePhone(c.Text())
	}
	if phone == "" {
		return h.reply(c, "Telefon formati noto'g'ri. Masalan: +998901234567")
	}

	h.sessions.SetValue(c.Sender().ID, "phone", phone)
	h.sessions.SetStep(c.Sender().ID, stepRegRole)
	return h.reply(c, "Sizning rolingizni tanlang:", ui.Role())
}

func (h *Handlers) regRole(c tele.Context) error {
	role, ok := i18n.RoleByLabel[i18n.Canonicalize(c.Text())]
	if !ok {
		return h.reply(c, "Pastdagi tugmalardan birini tanlang.")
	}

	userID := c.Sender().ID
	first, _ := h.sessions.StringValue(userID, "first_name")
	last, _ := h.sessions.StringValue(userID, "last_name")
	phone, _ := h.sessions.StringValue(userID, "phone")

	ctx := helpers.BuildContext(c)
	completed := role == models.RoleShipper
	if err := h.users.CompleteRegistration(ctx, userID, first, last, phone, role, completed); err != nil {
		return err
	}

	if role == models.RoleShipper {
		h.sessions.Clear(userID)
		return h.openMainMenu(c, "✅ Ro'yxatdan o'tish tugadi. Endi yuk joylashingiz mumkin.")
	}
	return h.beginDriverForm(c, driverModeRegistration)
}

// beginDriverForm starts the vehicle questionnaire. The entry mode is
// recorded with the session values; nothing reads it yet.
func (h *Handlers) beginDriverForm(c tele.Context, mode string) error {
	userID := c.Sender().ID
	h.sessions.Clear(userID)
	h.sessions.SetStep(userID, stepDriverCarType)
	h.sessions.SetValue(userID, "driver_mode", mode)
	return h.reply(c,
		"🚛 <b>Haydovchi anketasi</b>\nMashina turini kiriting (masalan: Fura, Isuzu, Tent, Ref).",
		ui.Cancel())
}

func (h *Handlers) driverCarType(c tele.Context) error {
	text := strings.TrimSpace(c.Text())
	if len([]rune(text)) < 2 {
		return h.reply(c, "Mashina turi juda qisqa. Qayta kiriting:")
	}
	h.sessions.SetValue(c.Sender().ID, "car_type", text)
	h.sessions.SetStep(c.Sender().ID, stepDriverCapacity)
	return h.reply(c, "⚖️ Yuk sig'imini kiriting (tonna):")
}

func (h *Handlers) driverCapacity(c tele.Context) error {
	value, ok := parsePositiveNumber(c.Text())
	if !ok {
		return h.reply(c, "Raqam kiriting. Masalan: 20")
	}
	h.sessions.SetValue(c.Sender().ID, "capacity_ton", value)
	h.sessions.SetStep(c.Sender().ID, stepDriverVolume)
	return h.reply(c, "📐 Hajmini kiriting (m3):")
}

func (h *Handlers) driverVolume(c tele.Context) error {
	value, ok := parsePositiveNumber(c.Text())
	if !ok {
		return h.reply(c, "Raqam kiriting. Masalan: 86")
	}
	h.sessions.SetValue(c.Sender().ID, "volume_m3", value)
	h.sessions.SetStep(c.Sender().ID, stepDriverRoutes)
	return h.reply(c, "📍 Qaysi yo'nalishlarda ishlaysiz? (masalan: Toshkent-Samarqand-Farg'ona)")
}

func (h *Handlers) driverRoutes(c tele.Context) error {
	text := strings.TrimSpace(c.Text())
	if len([]rune(text)) < 3 {
		return h.reply(c, "Yo'nalishni to'liqroq yozing.")
	}
	h.sessions.SetValue(c.Sender().ID, "routes", text)
	h.sessions.SetStep(c.Sender().ID, stepDriverPrice)
	return h.reply(c, "💵 1 km uchun narx (ixtiyoriy):", ui.SkipCancel())
}

func (h *Handlers) driverPrice(c tele.Context) error {
	text := i18n.Canonicalize(c.Text())
	if text != i18n.BtnSkip {
		value, ok := parsePositiveNumber(text)
		if !ok {
			return h.reply(c, "Raqam kiriting yoki `⏭ O'tkazib yuborish` ni bosing.")
		}
		h.sessions.SetValue(c.Sender().ID, "price_per_km", value)
	}
	h.sessions.SetStep(c.Sender().ID, stepDriverNote)
	return h.reply(c, "📝 Qo'shimcha izoh (ixtiyoriy):", ui.SkipCancel())
}

func (h *Handlers) driverNote(c tele.Context) error {
	userID := c.Sender().ID

	profile := models.DriverProfile{}
	if v, ok := h.sessions.StringValue(userID, "car_type"); ok {
		profile.CarType = sql.NullString{String: v, Valid: true}
	}
	if v, ok := h.sessions.Float64Value(userID, "capacity_ton"); ok {
		profile.CapacityTon = sql.NullFloat64{Float64: v, Valid: true}
	}
	if v, ok := h.sessions.Float64Value(userID, "volume_m3"); ok {
		profile.VolumeM3 = sql.NullFloat64{Float64: v, Valid: true}
	}
	if v, ok := h.sessions.StringValue(userID, "routes"); ok {
		profile.Routes = sql.NullString{String: v, Valid: true}
	}
	if v, ok := h.sessions.Float64Value(userID, "price_per_km"); ok {
		profile.PricePerKm = sql.NullFloat64{Float64: v, Valid: true}
	}
	if text := i18n.Canonicalize(c.Text()); text != i18n.BtnSkip && strings.TrimSpace(text) != "" {
		profile.Note = sql.NullString{String: strings.TrimSpace(text), Valid: true}
	}

	h.sessions.Clear(userID)
	if err := h.users.SaveDriverProfile(helpers.BuildContext(c), userID, profile); err != nil {
		return err
	}
	return h.openMainMenu(c, "✅ Haydovchi anketasi saqlandi.")
}
