package handlers

import (
	"fmt"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/yukmarkazi/cargobot/core/telegram/format"
	"github.com/yukmarkazi/cargobot/core/telegram/helpers"
	"github.com/yukmarkazi/cargobot/internal/i18n"
	"github.com/yukmarkazi/cargobot/internal/models"
	"github.com/yukmarkazi/cargobot/internal/publish"
	"github.com/yukmarkazi/cargobot/internal/ui"
)

// beginCargoForm starts the cargo listing dialog.
func (h *Handlers) beginCargoForm(c tele.Context) error {
	h.sessions.Clear(c.Sender().ID)
	h.sessions.SetStep(c.Sender().ID, stepCargoFrom)
	return h.reply(c, "📍 Yuk qayerdan yuklanadi? Viloyatni tanlang:", ui.Region())
}

func (h *Handlers) cargoFromRegion(c tele.Context) error {
	region := models.NormalizeRegion(c.Text())
	if region == "" {
		return h.reply(c, "Viloyatni tugmadan tanlang.", ui.Region())
	}
	h.sessions.SetValue(c.Sender().ID, "from_region", region)
	h.sessions.SetStep(c.Sender().ID, stepCargoTo)
	return h.reply(c, "🏁 Yuk qayerga boradi? Viloyatni tanlang:", ui.Region())
}

func (h *Handlers) cargoToRegion(c tele.Context) error {
	region := models.NormalizeRegion(c.Text())
	if region == "" {
		return h.reply(c, "Viloyatni tugmadan tanlang.", ui.Region())
	}
	h.sessions.SetValue(c.Sender().ID, "to_region", region)
	h.sessions.SetStep(c.Sender().ID, stepCargoType)
	return h.reply(c, "📦 Yuk turini kiriting (masalan: sement, mebel, oziq-ovqat):", ui.Cancel())
}

func (h *Handlers) cargoType(c tele.Context) error {
	text := strings.TrimSpace(c.Text())
	if len([]rune(text)) < 2 {
		return h.reply(c, "Yuk turini to'liqroq kiriting.")
	}
	h.sessions.SetValue(c.Sender().ID, "cargo_type", text)
	h.sessions.SetStep(c.Sender().ID, stepCargoWeight)
	return h.reply(c, "⚖️ Og'irligini kiriting (tonna):")
}

func (h *Handlers) cargoWeight(c tele.Context) error {
	value, ok := parsePositiveNumber(c.Text())
	if !ok {
		return h.reply(c, "Raqam kiriting. Masalan: 22")
	}
	h.sessions.SetValue(c.Sender().ID, "weight_ton", value)
	h.sessions.SetStep(c.Sender().ID, stepCargoVolume)
	return h.reply(c, "📐 Hajmini kiriting (m3):")
}

func (h *Handlers) cargoVolume(c tele.Context) error {
	value, ok := parsePositiveNumber(c.Text())
	if !ok {
		return h.reply(c, "Raqam kiriting. Masalan: 86")
	}
	h.sessions.SetValue(c.Sender().ID, "volume_m3", value)
	h.sessions.SetStep(c.Sender().ID, stepCargoPrice)
	return h.reply(c, "💰 Taklif narxini kiriting (so'm):")
}

func (h *Handlers) cargoPrice(c tele.Context) error {
	value, ok := parsePositiveNumber(c.Text())
	if !ok {
		return h.reply(c, "Narxni raqamda kiriting. Masalan: 2500000")
	}
	h.sessions.SetValue(c.Sender().ID, "price", value)
	h.sessions.SetStep(c.Sender().ID, stepCargoLoadDate)
	return h.reply(c, "📅 Yuklash sanasi (masalan: 25.02.2026 yoki bugun):")
}

func (h *Handlers) cargoLoadDate(c tele.Context) error {
	text := strings.TrimSpace(c.Text())
	if len([]rune(text)) < 2 {
		return h.reply(c, "Yuklash sanasini kiriting.")
	}
	// Free text like "bugun" or "ertaga ertalab" passes through as is,
	// recognizable dates get a uniform dd.mm.yyyy form on the post.
	if t, ok := helpers.ParseFlexibleDate(text); ok {
		text = t.Format("02.01.2006")
	}
	h.sessions.SetValue(c.Sender().ID, "load_date", text)
	h.sessions.SetStep(c.Sender().ID, stepCargoPayment)
	return h.reply(c, "💳 To'lov turini tanlang:", ui.Payment())
}

func (h *Handlers) cargoPayment(c tele.Context) error {
	text := i18n.Canonicalize(c.Text())
	if !i18n.ValidPayment(text) {
		return h.reply(c, "To'lov turini tugmadan tanlang.", ui.Payment())
	}
	h.sessions.SetValue(c.Sender().ID, "payment_type", text)
	h.sessions.SetStep(c.Sender().ID, stepCargoComment)
	return h.reply(c, "📝 Qo'shimcha izoh (ixtiyoriy):", ui.SkipCancel())
}

func (h *Handlers) cargoComment(c tele.Context) error {
	comment := strings.TrimSpace(c.Text())
	if i18n.Canonicalize(comment) == i18n.BtnSkip {
		comment = "-"
	}
	h.sessions.SetValue(c.Sender().ID, "comment", comment)
	h.sessions.SetStep(c.Sender().ID, stepCargoConfirm)

	listing := h.listingFromSession(c.Sender().ID)
	return h.reply(c, publish.BuildListingPreview(listing), ui.CargoConfirm())
}

func (h *Handlers) cargoConfirm(c tele.Context) error {
	text := i18n.Canonicalize(c.Text())
	if text == i18n.BtnCargoEdit {
		// Editing restarts the form from scratch, keeping no answers.
		h.sessions.Clear(c.Sender().ID)
		h.sessions.SetStep(c.Sender().ID, stepCargoFrom)
		return h.reply(c, "Tahrirlash boshlandi. Qayerdan yuklanadi?", ui.Region())
	}
	if text != i18n.BtnCargoConfirm {
		return h.reply(c, "Pastdagi tugmalardan birini tanlang.", ui.CargoConfirm())
	}

	userID := c.Sender().ID
	listing := h.listingFromSession(userID)
	h.sessions.Clear(userID)

	ctx := helpers.BuildContext(c)
	owner, err := h.users.ByID(ctx, userID)
	if err != nil {
		return h.reply(c, "Xatolik: foydalanuvchi topilmadi.")
	}

	now := time.Now().UTC()
	listing.OwnerID = userID
	listing.CreatedAt = now

	id, err := h.cargo.Insert(ctx, listing)
	if err != nil {
		return err
	}
	listing.ID = id

	var posted []int64
	var failures []string
	if pub := h.getPublisher(); pub != nil {
		posted, failures, err = pub.PublishListing(ctx, listing, owner, now)
		if err != nil {
			return err
		}
		if err := h.cargo.SetPostResult(ctx, id, posted, failures); err != nil {
			return err
		}
	}

	lines := []string{
		"✅ Yuk e'loningiz saqlandi va yuborildi.",
		fmt.Sprintf("🆔 E'lon ID: <code>%d</code>", id),
		fmt.Sprintf("📤 Yuborilgan chatlar: <b>%d</b>", len(posted)),
	}
	if len(posted) == 0 {
		lines = append(lines, "⚠️ Hech bir chat ulanmagan. Admin paneldan katalog/viloyat chat ID larni kiriting.")
	}
	if len(failures) > 0 {
		lines = append(lines, fmt.Sprintf("❗ Yuborishda xatolar: <b>%d</b>", len(failures)), "Sabab:")
		preview := failures
		if len(preview) > 3 {
			preview = preview[:3]
		}
		for _, f := range preview {
			lines = append(lines, fmt.Sprintf("• <code>%s</code>", format.EscapeHTML(f)))
		}
	}
	return h.openMainMenu(c, strings.Join(lines, "\n"))
}

// listingFromSession assembles the listing being composed from the
// dialog values gathered so far.
func (h *Handlers) listingFromSession(userID int64) *models.CargoListing {
	l := &models.CargoListing{Status: models.ListingStatusActive}
	if v, ok := h.sessions.StringValue(userID, "from_region"); ok {
		l.FromRegion = v
	}
	if v, ok := h.sessions.StringValue(userID, "to_region"); ok {
		l.ToRegion = v
	}
	if v, ok := h.sessions.StringValue(userID, "cargo_type"); ok {
		l.CargoType = v
	}
	if v, ok := h.sessions.Float64Value(userID, "weight_ton"); ok {
		l.WeightTon = v
	}
	if v, ok := h.sessions.Float64Value(userID, "volume_m3"); ok {
		l.VolumeM3 = v
	}
	if v, ok := h.sessions.Float64Value(userID, "price"); ok {
		l.Price = v
	}
	if v, ok := h.sessions.StringValue(userID, "load_date"); ok {
		l.LoadDate = v
	}
	if v, ok := h.sessions.StringValue(userID, "payment_type"); ok {
		l.PaymentType = v
	}
	if v, ok := h.sessions.StringValue(userID, "comment"); ok {
		l.Comment = v
	}
	return l
}
