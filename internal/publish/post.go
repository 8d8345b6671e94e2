package publish

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/yukmarkazi/cargobot/core/telegram/format"
	"github.com/yukmarkazi/cargobot/internal/models"
)

var routeTagRe = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// MaskPhone hides the middle digits of a phone for public posts.
func MaskPhone(phone string) string {
	if phone == "" {
		return "-"
	}
	if len(phone) <= 5 {
		return phone
	}
	stars := len(phone) - 8
	if stars < 3 {
		stars = 3
	}
	return phone[:5] + strings.Repeat("*", stars) + phone[len(phone)-3:]
}

// FormatMoney renders a sum with space-separated thousands.
func FormatMoney(value float64) string {
	whole := strconv.FormatFloat(value, 'f', 0, 64)
	neg := strings.HasPrefix(whole, "-")
	digits := strings.TrimPrefix(whole, "-")
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// RouteTag builds the hashtag stem for a route: spaces become
// underscores, everything outside [a-zA-Z0-9_] is dropped.
func RouteTag(fromRegion, toRegion string) string {
	raw := strings.ReplaceAll(fromRegion+"_"+toRegion, " ", "_")
	return routeTagRe.ReplaceAllString(raw, "")
}

// StartLink is a deep link that opens the bot with a payload.
func StartLink(botUsername, payload string) string {
	return "https://t.me/" + botUsername + "?start=" + payload
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// BuildListingPreview renders the confirmation card shown to the
// owner before publication.
func BuildListingPreview(l *models.CargoListing) string {
	var b strings.Builder
	b.WriteString("📦 <b>Yuk e'loni preview</b>\n")
	fmt.Fprintf(&b, "📍 Qayerdan: <b>%s</b>\n", format.EscapeOrDash(l.FromRegion))
	fmt.Fprintf(&b, "🏁 Qayerga: <b>%s</b>\n", format.EscapeOrDash(l.ToRegion))
	fmt.Fprintf(&b, "📦 Yuk turi: <b>%s</b>\n", format.EscapeOrDash(l.CargoType))
	fmt.Fprintf(&b, "⚖️ Og'irligi: <b>%s tonna</b>\n", formatNum(l.WeightTon))
	fmt.Fprintf(&b, "📐 Hajmi: <b>%s m3</b>\n", formatNum(l.VolumeM3))
	fmt.Fprintf(&b, "💰 Narx: <b>%s so'm</b>\n", FormatMoney(l.Price))
	fmt.Fprintf(&b, "📅 Yuklash sanasi: <b>%s</b>\n", format.EscapeOrDash(l.LoadDate))
	fmt.Fprintf(&b, "💳 To'lov turi: <b>%s</b>\n", format.EscapeOrDash(l.PaymentType))
	fmt.Fprintf(&b, "📝 Izoh: <b>%s</b>\n", format.EscapeOrDash(l.Comment))
	return b.String()
}

// BuildListingPost renders the public channel post for a listing.
func BuildListingPost(l *models.CargoListing, owner *models.User, now time.Time) string {
	badge := ""
	if owner != nil && owner.ProActive(now) {
		badge = "💎 <b>PRO E'LON</b>\n"
	}
	ownerName := "Noma'lum"
	phone := ""
	if owner != nil {
		ownerName = owner.DisplayName()
		phone = owner.Phone.String
	}
	created := l.CreatedAt
	if created.IsZero() {
		created = now
	}

	var b strings.Builder
	b.WriteString("📦 <b>YANGI YUK E'LONI</b>\n")
	b.WriteString(badge)
	fmt.Fprintf(&b, "🆔 <code>%d</code>\n", l.ID)
	fmt.Fprintf(&b, "📍 <b>Qayerdan:</b> %s\n", format.EscapeOrDash(l.FromRegion))
	fmt.Fprintf(&b, "🏁 <b>Qayerga:</b> %s\n", format.EscapeOrDash(l.ToRegion))
	fmt.Fprintf(&b, "📦 <b>Yuk turi:</b> %s\n", format.EscapeOrDash(l.CargoType))
	fmt.Fprintf(&b, "⚖️ <b>Og'irlik:</b> %s tonna\n", formatNum(l.WeightTon))
	fmt.Fprintf(&b, "📐 <b>Hajm:</b> %s m3\n", formatNum(l.VolumeM3))
	fmt.Fprintf(&b, "💰 <b>Narx:</b> %s so'm\n", FormatMoney(l.Price))
	fmt.Fprintf(&b, "📅 <b>Yuklash:</b> %s\n", format.EscapeOrDash(l.LoadDate))
	fmt.Fprintf(&b, "💳 <b>To'lov:</b> %s\n", format.EscapeOrDash(l.PaymentType))
	fmt.Fprintf(&b, "📝 <b>Izoh:</b> %s\n", format.EscapeOrDash(l.Comment))
	fmt.Fprintf(&b, "👤 <b>Yuk beruvchi:</b> %s\n", format.EscapeOrDash(ownerName))
	fmt.Fprintf(&b, "📞 <b>Aloqa:</b> %s (nomer tugmada)\n", format.EscapeOrDash(MaskPhone(phone)))
	fmt.Fprintf(&b, "🕒 <i>%s</i>\n\n", created.Format("02.01.2006 15:04"))
	fmt.Fprintf(&b, "#%s #logistika #yuk", RouteTag(l.FromRegion, l.ToRegion))
	return b.String()
}

// ListingKeyboard builds the deep-link buttons attached to a post.
func ListingKeyboard(botUsername string, listingID int64) *tele.ReplyMarkup {
	id := strconv.FormatInt(listingID, 10)
	markup := &tele.ReplyMarkup{}
	markup.InlineKeyboard = [][]tele.InlineButton{
		{{Text: "☎️ Nomer ko'rish", URL: StartLink(botUsername, "phone_"+id)}},
		{{Text: "✉️ Xabarga o'tish", URL: StartLink(botUsername, "cargo_"+id)}},
	}
	return markup
}
