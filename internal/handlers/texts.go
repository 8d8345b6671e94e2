package handlers

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yukmarkazi/cargobot/core/telegram/format"
	"github.com/yukmarkazi/cargobot/internal/i18n"
	"github.com/yukmarkazi/cargobot/internal/models"
	"github.com/yukmarkazi/cargobot/internal/publish"
	"github.com/yukmarkazi/cargobot/internal/storage"
)

func safe(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return format.EscapeHTML(s)
}

func safeFloat(v sql.NullFloat64) string {
	if !v.Valid {
		return "-"
	}
	return strconv.FormatFloat(v.Float64, 'f', -1, 64)
}

// buildProfileText renders the /profil card.
func buildProfileText(user *models.User, now time.Time) string {
	status := "Oddiy"
	if user.ProActive(now) {
		status = "PRO"
	}
	lines := []string{
		"👤 <b>Profil ma'lumotlari</b>",
		fmt.Sprintf("🆔 ID: <code>%d</code>", user.ID),
		fmt.Sprintf("🙍 Ism: <b>%s</b>", safe(user.FirstName.String)),
		fmt.Sprintf("🙍 Familiya: <b>%s</b>", safe(user.LastName.String)),
		fmt.Sprintf("📱 Telefon: <b>%s</b>", safe(user.Phone.String)),
		fmt.Sprintf("🎯 Rol: <b>%s</b>", safe(i18n.RoleLabel(user.Role.String))),
		fmt.Sprintf("💎 Status: <b>%s</b>", status),
	}

	if user.Role.String == models.RoleDriver {
		lines = append(lines,
			"",
			"🚛 <b>Mashina ma'lumoti</b>",
			fmt.Sprintf("• Turi: %s", safe(user.CarType.String)),
			fmt.Sprintf("• Sig'imi: %s tonna", safeFloat(user.CapacityTon)),
			fmt.Sprintf("• Hajmi: %s m3", safeFloat(user.DriverProfile.VolumeM3)),
			fmt.Sprintf("• Yo'nalish: %s", safe(user.Routes.String)),
			fmt.Sprintf("• Narx/km: %s", safeFloat(user.PricePerKm)),
			fmt.Sprintf("• Izoh: %s", safe(user.Note.String)),
		)
	}
	return strings.Join(lines, "\n")
}

// profileCompleteness scores how much of the profile is filled in and
// names what is missing. Drivers are also graded on vehicle data.
func profileCompleteness(user *models.User) (int, []string) {
	type check struct {
		name string
		ok   bool
	}
	checks := []check{
		{"Ism", user.FirstName.Valid && user.FirstName.String != ""},
		{"Familiya", user.LastName.Valid && user.LastName.String != ""},
		{"Telefon", user.Phone.Valid && user.Phone.String != ""},
		{"Rol", user.Role.Valid && user.Role.String != ""},
	}
	if user.Role.String == models.RoleDriver {
		checks = append(checks,
			check{"Mashina turi", user.CarType.Valid},
			check{"Yuk sig'imi", user.CapacityTon.Valid},
			check{"Hajmi", user.DriverProfile.VolumeM3.Valid},
			check{"Yo'nalish", user.Routes.Valid},
		)
	}

	done := 0
	var missing []string
	for _, check := range checks {
		if check.ok {
			done++
		} else {
			missing = append(missing, check.name)
		}
	}
	score := 0
	if len(checks) > 0 {
		score = done * 100 / len(checks)
	}
	return score, missing
}

// marketRouteLines renders the top-routes price table shared by the
// user stats and admin stats screens.
func marketRouteLines(rows []storage.RouteStats) []string {
	lines := make([]string, 0, len(rows))
	for i, row := range rows {
		lines = append(lines, fmt.Sprintf(
			"%d. %s -> %s | %d ta | min %s | avg %s | max %s",
			i+1, safe(row.FromRegion), safe(row.ToRegion), row.Count,
			publish.FormatMoney(row.MinPrice),
			publish.FormatMoney(row.AvgPrice),
			publish.FormatMoney(row.MaxPrice)))
	}
	return lines
}

const proText = "💎 <b>PRO tarif</b>\n" +
	"PRO foydalanuvchi afzalliklari:\n" +
	"• E'lonlar ajratib ko'rsatiladi\n" +
	"• Yuqoriroq ko'rinish imkoniyati\n" +
	"• Tezkor navbat\n\n" +
	"Tariflar (misol):\n" +
	"• 7 kun\n" +
	"• 30 kun\n" +
	"• 90 kun\n\n" +
	"Ulash uchun admin bilan bog'laning."

// adminGuideText walks an admin through the panel, channel binding and
// the publication rules.
func adminGuideText() string {
	lines := []string{
		"📘 <b>Admin yo'riqnoma</b>",
		"",
		"1) Admin panelni ochish",
		"• `/admin` buyrug'i yoki `🛠 Admin panel` tugmasi.",
		"",
		"2) Habar yuborish (broadcast)",
		"• `📣 Habar yuborish` > auditoriya tanlang > xabarni yuboring.",
		"• Xabar text/photo/video bo'lishi mumkin, nusxa sifatida yuboriladi.",
		"",
		"3) Pro boshqaruvi",
		"• `💎 Pro boshqaruvi` > `➕ Pro qo'shish` > `user_id kun` yuboring.",
		"• Tezkor: `/pro_add 123456789 30`, `/pro_remove 123456789`.",
		"",
		"4) Kanal/Guruh ulash",
		"• `🌐 Kanal/Guruh sozlash` bo'limiga kiring.",
		"• `📚 Katalog chat ID` yoki `🗺 Viloyat chat ID` ni tanlang.",
		"• Chatni uch usulda ulash mumkin:",
		"  - `-100...` ko'rinishidagi chat ID,",
		"  - `@username` yoki `https://t.me/...` link,",
		"  - o'sha chatdan forward qilingan xabar.",
		"",
		"5) Majburiy obuna",
		"• `➕ Majburiy kanal qo'shish` orqali kanalni qo'shing.",
		"• Foydalanuvchi obuna bo'lmaguncha botdan foydalana olmaydi.",
		"• Adminlar tekshiruvdan ozod.",
		"",
		"6) Viloyat chatlari ro'yxati",
		"• `📋 Ulangan chatlar` hamma ulanishni ko'rsatadi.",
		"",
		"7) E'lon tarqatish qoidasi",
		"• E'lon faqat jo'nash viloyati chatiga yuboriladi.",
		"  Masalan: Andijon -> Toshkent bo'lsa, faqat Andijon chatiga tushadi.",
		"• Post ichida inline tugmalar bo'ladi: `☎️ Nomer ko'rish` va `✉️ Xabarga o'tish`.",
		"",
		"8) Muhim texnik shartlar",
		"• Bot ulanishi kerak bo'lgan kanal/guruhga admin qilib qo'shilgan bo'lishi shart.",
		"• Botda xabar yuborish huquqi bo'lishi kerak (`Post/Send messages`).",
		"• `+` yoki `joinchat` invite-linkdan chat ID olib bo'lmaydi.",
		"• Bunday holatda: botni qo'shib forward yuboring yoki `@username`/`-100...` kiriting.",
		"",
		"9) Tezkor komandalar",
		"• `/set_catalog -1001234567890`",
		"• `/set_catalog https://t.me/kanal_username`",
		"• `/set_region Toshkent -1001234567890`",
		"• `/set_region Toshkent https://t.me/toshkent_group`",
		"• `/set_region Qashqadaryo -1001234567890`",
		"• bot ichida chat ID ko'rish: `/chat_id`",
		"",
		"10) Test qilish tartibi",
		"• Oddiy akkauntdan `/start` qilib `📦 Yuk beruvchi` tanlang.",
		"• `📦 Yuk joylash` orqali e'lon yuboring.",
		"• Jo'nash viloyati chatida post chiqqanini tekshiring.",
		"• Postdagi `☎️ Nomer ko'rish` tugmasini bosib, botda aloqa chiqishini tekshiring.",
	}
	return strings.Join(lines, "\n")
}
