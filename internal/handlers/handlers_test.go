package handlers

import (
	"context"
	"database/sql"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/yukmarkazi/cargobot/core/telegram/sessions"
	"github.com/yukmarkazi/cargobot/internal/models"
	"github.com/yukmarkazi/cargobot/internal/storage"
)

// fakeContext implements the slice of tele.Context the handlers touch.
// Every reply lands in sent.
type fakeContext struct {
	tele.Context

	sender *tele.User
	chat   *tele.Chat
	text   string
	msg    *tele.Message

	store map[string]any
	sent  []sentMessage
}

type sentMessage struct {
	text string
	opts []interface{}
}

func newFakeContext(userID int64, text string) *fakeContext {
	return &fakeContext{
		sender: &tele.User{ID: userID},
		chat:   &tele.Chat{ID: userID, Type: tele.ChatPrivate},
		text:   text,
		store:  map[string]any{},
	}
}

func (f *fakeContext) Sender() *tele.User   { return f.sender }
func (f *fakeContext) Chat() *tele.Chat     { return f.chat }
func (f *fakeContext) Text() string         { return f.text }
func (f *fakeContext) Message() *tele.Message {
	if f.msg != nil {
		return f.msg
	}
	return &tele.Message{Sender: f.sender, Chat: f.chat, Text: f.text}
}
func (f *fakeContext) Update() tele.Update { return tele.Update{} }

// Args mimics telebot's argument split for command handlers.
func (f *fakeContext) Args() []string {
	fields := strings.Fields(f.text)
	if len(fields) > 0 && strings.HasPrefix(fields[0], "/") {
		return fields[1:]
	}
	return fields
}
func (f *fakeContext) Get(key string) any  { return f.store[key] }
func (f *fakeContext) Set(key string, v any) {
	f.store[key] = v
}

func (f *fakeContext) Send(what interface{}, opts ...interface{}) error {
	text, _ := what.(string)
	f.sent = append(f.sent, sentMessage{text: text, opts: opts})
	return nil
}

func (f *fakeContext) lastText() string {
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1].text
}

// fakeUsers is an in-memory UserStore.
type fakeUsers struct {
	users map[int64]*models.User

	savedProfiles map[int64]models.DriverProfile
	registrations int
}

func newFakeUsers(seed ...*models.User) *fakeUsers {
	f := &fakeUsers{
		users:         map[int64]*models.User{},
		savedProfiles: map[int64]models.DriverProfile{},
	}
	for _, u := range seed {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Ensure(_ context.Context, from *tele.User) (*models.User, error) {
	if u, ok := f.users[from.ID]; ok {
		return u, nil
	}
	u := &models.User{ID: from.ID}
	f.users[from.ID] = u
	return u, nil
}

func (f *fakeUsers) ByID(_ context.Context, id int64) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakeUsers) SetLang(_ context.Context, id int64, lang string) error {
	if u, ok := f.users[id]; ok {
		u.Lang = sql.NullString{String: lang, Valid: true}
	}
	return nil
}

func (f *fakeUsers) CompleteRegistration(_ context.Context, id int64, firstName, lastName, phone, role string, completed bool) error {
	u, ok := f.users[id]
	if !ok {
		u = &models.User{ID: id}
		f.users[id] = u
	}
	u.FirstName = sql.NullString{String: firstName, Valid: true}
	u.LastName = sql.NullString{String: lastName, Valid: true}
	u.Phone = sql.NullString{String: phone, Valid: true}
	u.Role = sql.NullString{String: role, Valid: true}
	u.ProfileCompleted = completed
	f.registrations++
	return nil
}

func (f *fakeUsers) SetRole(_ context.Context, id int64, role string, completed bool) error {
	if u, ok := f.users[id]; ok {
		u.Role = sql.NullString{String: role, Valid: true}
		u.ProfileCompleted = completed
	}
	return nil
}

func (f *fakeUsers) SaveDriverProfile(_ context.Context, id int64, p models.DriverProfile) error {
	f.savedProfiles[id] = p
	if u, ok := f.users[id]; ok {
		u.Role = sql.NullString{String: models.RoleDriver, Valid: true}
		u.ProfileCompleted = true
	}
	return nil
}

func (f *fakeUsers) ApplyPro(_ context.Context, id int64, days int, now time.Time) (time.Time, error) {
	u, ok := f.users[id]
	if !ok {
		return time.Time{}, storage.ErrNotFound
	}
	base := now
	if u.ProUntil.Valid && u.ProUntil.Time.After(now) {
		base = u.ProUntil.Time
	}
	until := base.AddDate(0, 0, days)
	u.ProUntil = sql.NullTime{Time: until, Valid: true}
	return until, nil
}

func (f *fakeUsers) RemovePro(_ context.Context, id int64) (bool, error) {
	u, ok := f.users[id]
	if !ok {
		return false, nil
	}
	u.ProUntil = sql.NullTime{}
	return true, nil
}

func (f *fakeUsers) IDsByAudience(_ context.Context, audience models.BroadcastAudience, now time.Time) ([]int64, error) {
	var ids []int64
	for id, u := range f.users {
		switch audience {
		case models.AudienceDrivers:
			if u.Role.String != models.RoleDriver {
				continue
			}
		case models.AudienceShippers:
			if u.Role.String != models.RoleShipper {
				continue
			}
		case models.AudiencePro:
			if !u.ProUntil.Valid || !u.ProUntil.Time.After(now) {
				continue
			}
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeUsers) Recent(_ context.Context, limit int) ([]models.User, error) {
	var out []models.User
	for _, u := range f.users {
		if len(out) == limit {
			break
		}
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUsers) Count(_ context.Context, _ time.Time) (storage.Counts, error) {
	return storage.Counts{Total: int64(len(f.users))}, nil
}

// fakeCargo is an in-memory CargoStore.
type fakeCargo struct {
	nextID   int64
	inserted []*models.CargoListing

	resultID       int64
	resultPosted   []int64
	resultFailures []string
}

func (f *fakeCargo) Insert(_ context.Context, l *models.CargoListing) (int64, error) {
	f.nextID++
	cp := *l
	cp.ID = f.nextID
	f.inserted = append(f.inserted, &cp)
	return f.nextID, nil
}

func (f *fakeCargo) SetPostResult(_ context.Context, id int64, posted []int64, failures []string) error {
	f.resultID = id
	f.resultPosted = posted
	f.resultFailures = failures
	return nil
}

func (f *fakeCargo) ByID(_ context.Context, id int64) (*models.CargoListing, error) {
	for _, l := range f.inserted {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeCargo) StatsByOwner(_ context.Context, ownerID int64, _ time.Time) (storage.OwnerStats, error) {
	var s storage.OwnerStats
	for _, l := range f.inserted {
		if l.OwnerID == ownerID {
			s.Total++
			s.Last30d++
		}
	}
	return s, nil
}

func (f *fakeCargo) Count(_ context.Context, _ time.Time) (storage.TotalCounts, error) {
	return storage.TotalCounts{Total: int64(len(f.inserted))}, nil
}

func (f *fakeCargo) MarketRoutes(_ context.Context, _ time.Time, _, _ int) ([]storage.RouteStats, error) {
	return nil, nil
}

// fakeChannels is an in-memory ChannelStore.
type fakeChannels struct {
	regions   map[string]int64
	catalog   int64
	hasCat    bool
	mandatory []models.MandatoryChannel
}

func newFakeChannels() *fakeChannels {
	return &fakeChannels{regions: map[string]int64{}}
}

func (f *fakeChannels) RegionChatID(_ context.Context, region string) (int64, bool, error) {
	id, ok := f.regions[region]
	return id, ok, nil
}

func (f *fakeChannels) SetRegionChat(_ context.Context, region string, chatID int64) error {
	f.regions[region] = chatID
	return nil
}

func (f *fakeChannels) Regions(_ context.Context) ([]models.RegionChannel, error) {
	out := make([]models.RegionChannel, 0, len(models.Regions))
	for _, region := range models.Regions {
		rc := models.RegionChannel{Region: region}
		if id, ok := f.regions[region]; ok {
			rc.ChatID = sql.NullInt64{Int64: id, Valid: true}
		}
		out = append(out, rc)
	}
	return out, nil
}

func (f *fakeChannels) CatalogChatID(_ context.Context) (int64, bool, error) {
	return f.catalog, f.hasCat, nil
}

func (f *fakeChannels) SetCatalogChat(_ context.Context, chatID int64) error {
	f.catalog, f.hasCat = chatID, true
	return nil
}

func (f *fakeChannels) MandatoryList(_ context.Context) ([]models.MandatoryChannel, error) {
	return f.mandatory, nil
}

func (f *fakeChannels) UpsertMandatory(_ context.Context, ch models.MandatoryChannel) error {
	for i, cur := range f.mandatory {
		if cur.ChatID == ch.ChatID {
			f.mandatory[i] = ch
			return nil
		}
	}
	f.mandatory = append(f.mandatory, ch)
	return nil
}

func (f *fakeChannels) RemoveMandatory(_ context.Context, chatID int64) (bool, error) {
	for i, cur := range f.mandatory {
		if cur.ChatID == chatID {
			f.mandatory = append(f.mandatory[:i], f.mandatory[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// fakePublisher records the listing it was asked to publish.
type fakePublisher struct {
	posted    []int64
	failures  []string
	published *models.CargoListing
}

func (f *fakePublisher) PublishListing(_ context.Context, l *models.CargoListing, _ *models.User, _ time.Time) ([]int64, []string, error) {
	f.published = l
	return f.posted, f.failures, nil
}

func (f *fakePublisher) Broadcast(_ context.Context, _ tele.Editable, userIDs []int64) (int, int) {
	return len(userIDs), 0
}

// testEnv bundles a wired Handlers with its fakes.
type testEnv struct {
	h        *Handlers
	users    *fakeUsers
	cargo    *fakeCargo
	channels *fakeChannels
}

func newTestEnv(seed ...*models.User) *testEnv {
	users := newFakeUsers(seed...)
	cargo := &fakeCargo{}
	channels := newFakeChannels()
	h := New(Options{
		Sessions: sessions.NewStore(),
		Users:    users,
		Cargo:    cargo,
		Channels: channels,
		AdminIDs: []int64{adminID},
	})
	h.BindFlows()
	return &testEnv{h: h, users: users, cargo: cargo, channels: channels}
}

const (
	adminID  int64 = 900
	userID   int64 = 100
	driverID int64 = 200
)

func completedShipper(id int64) *models.User {
	return &models.User{
		ID:               id,
		FirstName:        sql.NullString{String: "Ali", Valid: true},
		LastName:         sql.NullString{String: "Valiyev", Valid: true},
		Phone:            sql.NullString{String: "+998901234567", Valid: true},
		Role:             sql.NullString{String: models.RoleShipper, Valid: true},
		Lang:             sql.NullString{String: models.LangUz, Valid: true},
		ProfileCompleted: true,
	}
}
