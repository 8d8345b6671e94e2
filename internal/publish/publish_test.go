package publish

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/yukmarkazi/cargobot/internal/models"
)

type fakeSender struct {
	sent    []int64
	copied  []int64
	failFor map[int64]error
}

func (f *fakeSender) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	id := recipientID(to)
	if err, ok := f.failFor[id]; ok {
		return nil, err
	}
	f.sent = append(f.sent, id)
	return &tele.Message{}, nil
}

func (f *fakeSender) Copy(to tele.Recipient, msg tele.Editable, opts ...interface{}) (*tele.Message, error) {
	id := recipientID(to)
	if err, ok := f.failFor[id]; ok {
		return nil, err
	}
	f.copied = append(f.copied, id)
	return &tele.Message{}, nil
}

func recipientID(to tele.Recipient) int64 {
	id, _ := strconv.ParseInt(to.Recipient(), 10, 64)
	return id
}

type fakeChats struct {
	byRegion map[string]int64
}

func (f *fakeChats) RegionChatID(_ context.Context, region string) (int64, bool, error) {
	id, ok := f.byRegion[region]
	return id, ok, nil
}

func TestMaskPhone(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", "-"},
		{"+9989", "+9989"},
		{"12345", "12345"},
		{"+998901234567", "+9989*****567"},
		{"123456", "12345***456"},
	}
	for _, c := range cases {
		if got := MaskPhone(c.in); got != c.want {
			t.Errorf("MaskPhone(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{950, "950"},
		{1500, "1 500"},
		{2500000, "2 500 000"},
		{-42000, "-42 000"},
	}
	for _, c := range cases {
		if got := FormatMoney(c.in); got != c.want {
			t.Errorf("FormatMoney(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestRouteTag(t *testing.T) {
	cases := []struct {
		from, to, want string
	}{
		{"Andijon", "Toshkent", "Andijon_Toshkent"},
		{"Qashqadaryo", "Farg'ona", "Qashqadaryo_Fargona"},
		{"Toshkent shahri", "Xorazm", "Toshkent_shahri_Xorazm"},
	}
	for _, c := range cases {
		if got := RouteTag(c.from, c.to); got != c.want {
			t.Errorf("RouteTag(%q, %q) = %q, want %q", c.from, c.to, got, c.want)
		}
	}
}

func TestBuildListingPost(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)
	owner := &models.User{
		FirstName: sql.NullString{String: "Aziz", Valid: true},
		LastName:  sql.NullString{String: "Karimov", Valid: true},
		Phone:     sql.NullString{String: "+998901234567", Valid: true},
		ProUntil:  sql.NullTime{Time: now.AddDate(0, 1, 0), Valid: true},
	}
	l := &models.CargoListing{
		ID:          42,
		FromRegion:  "Andijon",
		ToRegion:    "Toshkent",
		CargoType:   "Mebel",
		WeightTon:   10,
		VolumeM3:    25,
		Price:       1500000,
		LoadDate:    "ertaga",
		PaymentType: "💵 Naqd",
		Comment:     "-",
		CreatedAt:   now,
	}

	text := BuildListingPost(l, owner, now)
	for _, want := range []string{
		"💎 <b>PRO E'LON</b>",
		"<code>42</code>",
		"+9989*****567",
		"1 500 000 so'm",
		"01.03.2025 12:30",
		"#Andijon_Toshkent #logistika #yuk",
		"Aziz Karimov",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("post missing %q:\n%s", want, text)
		}
	}

	// No badge once PRO lapsed.
	owner.ProUntil.Time = now.Add(-time.Hour)
	if strings.Contains(BuildListingPost(l, owner, now), "PRO E'LON") {
		t.Error("expired PRO still shows badge")
	}
}

func TestListingKeyboardDeepLinks(t *testing.T) {
	markup := ListingKeyboard("cargo_bot", 7)
	if len(markup.InlineKeyboard) != 2 {
		t.Fatalf("rows = %d, want 2", len(markup.InlineKeyboard))
	}
	if got := markup.InlineKeyboard[0][0].URL; got != "https://t.me/cargo_bot?start=phone_7" {
		t.Errorf("phone link = %q", got)
	}
	if got := markup.InlineKeyboard[1][0].URL; got != "https://t.me/cargo_bot?start=cargo_7" {
		t.Errorf("cargo link = %q", got)
	}
}

func TestPublishListingOriginRegionOnly(t *testing.T) {
	api := &fakeSender{}
	chats := &fakeChats{byRegion: map[string]int64{
		"Andijon":  -1001,
		"Toshkent": -1002,
	}}
	p := NewPublisher(api, chats, "cargo_bot", 0)

	l := &models.CargoListing{ID: 1, FromRegion: "Andijon", ToRegion: "Toshkent", PaymentType: "💵 Naqd"}
	posted, failures, err := p.PublishListing(context.Background(), l, nil, time.Now())
	if err != nil {
		t.Fatalf("PublishListing: %v", err)
	}
	if len(posted) != 1 || posted[0] != -1001 {
		t.Errorf("posted = %v, want only origin chat -1001", posted)
	}
	if len(failures) != 0 {
		t.Errorf("failures = %v, want none", failures)
	}
	if len(api.sent) != 1 {
		t.Errorf("sends = %d, want 1", len(api.sent))
	}
}

func TestPublishListingNoRegionChat(t *testing.T) {
	api := &fakeSender{}
	p := NewPublisher(api, &fakeChats{byRegion: map[string]int64{}}, "cargo_bot", 0)

	l := &models.CargoListing{ID: 2, FromRegion: "Xorazm", ToRegion: "Buxoro"}
	posted, failures, err := p.PublishListing(context.Background(), l, nil, time.Now())
	if err != nil {
		t.Fatalf("PublishListing: %v", err)
	}
	if len(posted) != 0 || len(failures) != 0 {
		t.Errorf("posted=%v failures=%v, want both empty", posted, failures)
	}
	if posted == nil || failures == nil {
		t.Error("result slices must be non-nil for storage")
	}
}

func TestPublishListingRecordsFailure(t *testing.T) {
	api := &fakeSender{failFor: map[int64]error{-1001: errors.New("Forbidden: bot was kicked")}}
	chats := &fakeChats{byRegion: map[string]int64{"Andijon": -1001}}
	p := NewPublisher(api, chats, "cargo_bot", 0)

	l := &models.CargoListing{ID: 3, FromRegion: "Andijon", ToRegion: "Toshkent"}
	posted, failures, err := p.PublishListing(context.Background(), l, nil, time.Now())
	if err != nil {
		t.Fatalf("PublishListing: %v", err)
	}
	if len(posted) != 0 {
		t.Errorf("posted = %v, want empty", posted)
	}
	if len(failures) != 1 || !strings.HasPrefix(failures[0], "-1001: ") {
		t.Errorf("failures = %v, want one entry for chat -1001", failures)
	}
}

func TestBroadcastCounts(t *testing.T) {
	api := &fakeSender{failFor: map[int64]error{2: errors.New("Forbidden: bot was blocked by the user")}}
	p := NewPublisher(api, &fakeChats{}, "cargo_bot", 0)

	msg := &tele.Message{ID: 1, Chat: &tele.Chat{ID: 99}}
	sent, failed := p.Broadcast(context.Background(), msg, []int64{1, 2, 3})
	if sent != 2 || failed != 1 {
		t.Errorf("sent=%d failed=%d, want 2/1", sent, failed)
	}
	if len(api.copied) != 2 {
		t.Errorf("copies = %v, want recipients 1 and 3", api.copied)
	}
}

func TestBroadcastStopsOnCancel(t *testing.T) {
	api := &fakeSender{}
	p := NewPublisher(api, &fakeChats{}, "cargo_bot", 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	msg := &tele.Message{ID: 1, Chat: &tele.Chat{ID: 99}}
	sent, failed := p.Broadcast(ctx, msg, []int64{1, 2, 3})
	if sent != 0 || failed != 0 {
		t.Errorf("sent=%d failed=%d after cancel, want 0/0", sent, failed)
	}
}
