// Package models holds the domain entities shared by storage, flows and
// publishing: users with their driver profiles, cargo listings, and the
// channel configuration records.
package models

import (
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
)

// User roles.
const (
	RoleDriver  = "driver"
	RoleShipper = "shipper"
)

// Interface languages.
const (
	LangUz = "uz"
	LangRu = "ru"
)

// ValidLang reports whether the value is a supported language code.
func ValidLang(v string) bool {
	return v == LangUz || v == LangRu
}

// Regions is the fixed list of origin/destination regions, in the order
// they appear on the region keyboard.
var Regions = []string{
	"Andijon",
	"Buxoro",
	"Farg'ona",
	"Jizzax",
	"Namangan",
	"Navoiy",
	"Qashqadaryo",
	"Samarqand",
	"Sirdaryo",
	"Surxondaryo",
	"Toshkent",
	"Xorazm",
}

// NormalizeRegion maps free-form input onto a canonical region name,
// ignoring case and punctuation ("fargona" matches "Farg'ona").
// Returns "" when nothing matches.
func NormalizeRegion(raw string) string {
	key := regionKey(raw)
	if key == "" {
		return ""
	}
	for _, region := range Regions {
		if regionKey(region) == key {
			return region
		}
	}
	return ""
}

func regionKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DriverProfile is the vehicle sub-record of a driver user. The two
// optional fields stay NULL when the driver skips them.
type DriverProfile struct {
	CarType     sql.NullString  `db:"car_type"`
	CapacityTon sql.NullFloat64 `db:"capacity_ton"`
	VolumeM3    sql.NullFloat64 `db:"volume_m3"`
	Routes      sql.NullString  `db:"routes"`
	PricePerKm  sql.NullFloat64 `db:"price_per_km"`
	Note        sql.NullString  `db:"note"`
}

// Ready reports whether the required vehicle fields are all filled in.
// Price per km and note are optional and do not count.
func (p DriverProfile) Ready() bool {
	return p.CarType.Valid && p.CapacityTon.Valid && p.VolumeM3.Valid && p.Routes.Valid
}

// User is one bot user, created on first contact and only ever updated.
type User struct {
	ID               int64          `db:"id"`
	Username         sql.NullString `db:"username"`
	TGFirstName      sql.NullString `db:"tg_first_name"`
	TGLastName       sql.NullString `db:"tg_last_name"`
	FirstName        sql.NullString `db:"first_name"`
	LastName         sql.NullString `db:"last_name"`
	Phone            sql.NullString `db:"phone"`
	Role             sql.NullString `db:"role"`
	Lang             sql.NullString `db:"lang"`
	ProfileCompleted bool           `db:"profile_completed"`
	ProUntil         sql.NullTime   `db:"pro_until"`

	DriverProfile

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Language returns the user's language, defaulting to Uzbek when unset
// or invalid.
func (u *User) Language() string {
	if u != nil && u.Lang.Valid && ValidLang(u.Lang.String) {
		return u.Lang.String
	}
	return LangUz
}

// ProActive reports whether the user's pro subscription is active at
// the given moment.
func (u *User) ProActive(now time.Time) bool {
	return u != nil && u.ProUntil.Valid && u.ProUntil.Time.After(now)
}

// DisplayName joins the registered first and last name, falling back to
// "Noma'lum" when the user never completed registration.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName.String + " " + u.LastName.String)
	if name == "" {
		return "Noma'lum"
	}
	return name
}

// ListingStatusActive is the only status a listing gets today; kept as a
// column so moderation states can be added without a schema change.
const ListingStatusActive = "active"

// CargoListing is a posted cargo advertisement. Immutable after creation
// except for the post-result fields, written once right after publishing.
type CargoListing struct {
	ID           int64          `db:"id"`
	OwnerID      int64          `db:"owner_id"`
	FromRegion   string         `db:"from_region"`
	ToRegion     string         `db:"to_region"`
	CargoType    string         `db:"cargo_type"`
	WeightTon    float64        `db:"weight_ton"`
	VolumeM3     float64        `db:"volume_m3"`
	Price        float64        `db:"price"`
	LoadDate     string         `db:"load_date"`
	PaymentType  string         `db:"payment_type"`
	Comment      string         `db:"comment"`
	Status       string         `db:"status"`
	PostedChats  pq.Int64Array  `db:"posted_chats"`
	PostFailures pq.StringArray `db:"post_failures"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

// RegionChannel maps one region to its distribution chat. Region rows
// are seeded at startup; binding only ever updates chat_id.
type RegionChannel struct {
	Region    string        `db:"region"`
	ChatID    sql.NullInt64 `db:"chat_id"`
	UpdatedAt time.Time     `db:"updated_at"`
}

// MandatoryChannel is a channel users must join before using the bot.
type MandatoryChannel struct {
	ChatID   int64          `db:"chat_id"`
	Title    string         `db:"title"`
	Username sql.NullString `db:"username"`
	URL      sql.NullString `db:"url"`
	Position int            `db:"position"`
}

// DisplayTitle returns the channel's human label: title, then
// username, then the raw chat ID.
func (c MandatoryChannel) DisplayTitle() string {
	if strings.TrimSpace(c.Title) != "" {
		return strings.TrimSpace(c.Title)
	}
	if c.Username.Valid && strings.TrimSpace(c.Username.String) != "" {
		return strings.TrimSpace(c.Username.String)
	}
	return strconv.FormatInt(c.ChatID, 10)
}

// JoinURL returns the best link for the join button, or "" when the
// channel is private and has no invite URL stored.
func (c MandatoryChannel) JoinURL() string {
	if c.URL.Valid && strings.TrimSpace(c.URL.String) != "" {
		return strings.TrimSpace(c.URL.String)
	}
	if c.Username.Valid && strings.TrimSpace(c.Username.String) != "" {
		return "https://t.me/" + strings.TrimSpace(c.Username.String)
	}
	return ""
}

// BroadcastAudience selects which users receive a mass message.
type BroadcastAudience string

// Broadcast audiences.
const (
	AudienceAll      BroadcastAudience = "all"
	AudienceDrivers  BroadcastAudience = "drivers"
	AudienceShippers BroadcastAudience = "shippers"
	AudiencePro      BroadcastAudience = "pro"
)
