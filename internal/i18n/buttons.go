package i18n

import "github.com/yukmarkazi/cargobot/internal/models"

// Language picker labels. These are shown before a language is chosen,
// so they are bilingual by construction and never translated.
const (
	LangSelectUz = "🇺🇿 O'zbekcha"
	LangSelectRu = "🇷🇺 Русский"
)

// LangByLabel maps a picker label to its language code.
var LangByLabel = map[string]string{
	LangSelectUz: models.LangUz,
	LangSelectRu: models.LangRu,
}

// Canonical (Uzbek) button labels. Every keyboard is built from these;
// display-language rewriting happens in LocalizeMarkup.
const (
	BtnCancel    = "❌ Bekor qilish"
	BtnBackMain  = "⬅️ Asosiy menyu"
	BtnBackAdmin = "🔙 Admin panel"
	BtnSkip      = "⏭ O'tkazib yuborish"

	BtnSendContact = "📲 Raqam yuborish"

	BtnMenuCargo    = "📦 Yuk joylash"
	BtnMenuDriver   = "🚛 Haydovchi anketasi"
	BtnMenuProfile  = "👤 Profilim"
	BtnMenuAnalysis = "🧠 Profil tahlili"
	BtnMenuStats    = "📊 Statistika"
	BtnMenuPro      = "💎 Pro tarif"
	BtnMenuNews     = "📣 Yangiliklar"
	BtnMenuContact  = "☎️ Bog'lanish"
	BtnMenuSettings = "⚙️ Sozlamalar"

	BtnSettingsRole = "🔄 Rolni almashtirish"
	BtnSettingsLang = "🌐 Tilni almashtirish"

	BtnAdminPanel    = "🛠 Admin panel"
	BtnBroadcast     = "📣 Habar yuborish"
	BtnAdminStats    = "📊 Tizim statistikasi"
	BtnAdminUsers    = "📋 Foydalanuvchilar"
	BtnAdminPro      = "💎 Pro boshqaruvi"
	BtnAdminChannels = "🌐 Kanal/Guruh sozlash"
	BtnAdminGuide    = "📘 Admin yo'riqnoma"

	BtnProAdd    = "➕ Pro qo'shish"
	BtnProRemove = "➖ Pro o'chirish"

	BtnChSetCatalog = "📚 Katalog chat ID"
	BtnChSetRegion  = "🗺 Viloyat chat ID"
	BtnChList       = "📋 Ulangan chatlar"
	BtnReqAdd       = "➕ Majburiy kanal qo'shish"
	BtnReqRemove    = "➖ Majburiy kanal o'chirish"
	BtnReqList      = "📌 Majburiy kanallar"

	BtnBcAll      = "👥 Barchaga"
	BtnBcDrivers  = "🚛 Haydovchilarga"
	BtnBcShippers = "📦 Yuk beruvchilarga"
	BtnBcPro      = "💎 Pro foydalanuvchilarga"

	BtnCargoConfirm = "✅ Guruhlarga yuborish"
	BtnCargoEdit    = "✏️ Tahrirlash"
)

// Role labels.
const (
	RoleLabelDriver  = "🚛 Haydovchi"
	RoleLabelShipper = "📦 Yuk beruvchi"
)

// RoleByLabel maps a canonicalized role button label to a role.
var RoleByLabel = map[string]string{
	RoleLabelDriver:  models.RoleDriver,
	RoleLabelShipper: models.RoleShipper,
}

// RoleLabel returns the canonical label for a role, or "Belgilanmagan"
// for an unset role.
func RoleLabel(role string) string {
	switch role {
	case models.RoleDriver:
		return RoleLabelDriver
	case models.RoleShipper:
		return RoleLabelShipper
	}
	return "Belgilanmagan"
}

// PaymentOptions are the three payment method buttons; the canonical
// label is also the stored value.
var PaymentOptions = []string{"💵 Naqd", "💳 Karta", "🏦 O'tkazma"}

// ValidPayment reports whether the canonicalized text is one of the
// payment options.
func ValidPayment(text string) bool {
	for _, opt := range PaymentOptions {
		if opt == text {
			return true
		}
	}
	return false
}

// MenuInterruptButtons are recognized at any point of any dialog and
// abandon it. Order mirrors the menu layout, membership is what matters.
var MenuInterruptButtons = []string{
	BtnCancel,
	BtnBackMain,
	BtnBackAdmin,
	BtnMenuCargo,
	BtnMenuDriver,
	BtnMenuProfile,
	BtnMenuAnalysis,
	BtnMenuStats,
	BtnMenuPro,
	BtnMenuNews,
	BtnMenuContact,
	BtnMenuSettings,
	BtnSettingsRole,
	BtnSettingsLang,
	BtnAdminPanel,
	BtnAdminStats,
	BtnAdminUsers,
	BtnBroadcast,
	BtnAdminPro,
	BtnProAdd,
	BtnProRemove,
	BtnAdminChannels,
	BtnChSetCatalog,
	BtnChSetRegion,
	BtnChList,
	BtnReqAdd,
	BtnReqRemove,
	BtnReqList,
	BtnAdminGuide,
}

var menuInterruptSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(MenuInterruptButtons))
	for _, b := range MenuInterruptButtons {
		set[b] = struct{}{}
	}
	return set
}()

// IsMenuInterrupt reports whether the canonical text is a global menu
// button that preempts any in-progress dialog.
func IsMenuInterrupt(canonical string) bool {
	_, ok := menuInterruptSet[canonical]
	return ok
}
