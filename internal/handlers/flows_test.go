package handlers

import (
	"strings"
	"testing"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/yukmarkazi/cargobot/internal/i18n"
	"github.com/yukmarkazi/cargobot/internal/models"
)

// feed delivers one text message into the active dialog step.
func feed(t *testing.T, env *testEnv, id int64, text string) *fakeContext {
	t.Helper()
	c := newFakeContext(id, text)
	if err := env.h.sessions.Handle(c); err != nil {
		t.Fatalf("handle %q: %v", text, err)
	}
	return c
}

func TestRegistrationRejectsShortName(t *testing.T) {
	env := newTestEnv()
	c := newFakeContext(userID, "/start")
	if err := env.h.beginRegistration(c); err != nil {
		t.Fatal(err)
	}
	if got := env.h.sessions.CurrentStep(userID); got != stepRegFirstName {
		t.Fatalf("step = %q, want %q", got, stepRegFirstName)
	}

	reply := feed(t, env, userID, "A")
	if env.h.sessions.CurrentStep(userID) != stepRegFirstName {
		t.Fatal("short first name advanced the dialog")
	}
	if !strings.Contains(reply.lastText(), "kamida 2") {
		t.Fatalf("unexpected reply %q", reply.lastText())
	}
}

func TestRegistrationShipperCompletes(t *testing.T) {
	env := newTestEnv()
	if err := env.h.beginRegistration(newFakeContext(userID, "/start")); err != nil {
		t.Fatal(err)
	}

	feed(t, env, userID, "Alisher")
	feed(t, env, userID, "Valiyev")
	feed(t, env, userID, "+998 90 123 45 67")
	if got := env.h.sessions.CurrentStep(userID); got != stepRegRole {
		t.Fatalf("step = %q, want %q", got, stepRegRole)
	}

	feed(t, env, userID, i18n.RoleLabelShipper)

	u := env.users.users[userID]
	if u == nil || !u.ProfileCompleted {
		t.Fatal("shipper registration did not complete the profile")
	}
	if u.Phone.String != "+998901234567" {
		t.Fatalf("phone = %q, want normalized", u.Phone.String)
	}
	if env.h.sessions.InProgress(userID) {
		t.Fatal("session still in progress after registration")
	}
}

func TestRegistrationDriverContinuesToVehicleForm(t *testing.T) {
	env := newTestEnv()
	if err := env.h.beginRegistration(newFakeContext(driverID, "/start")); err != nil {
		t.Fatal(err)
	}
	feed(t, env, driverID, "Bobur")
	feed(t, env, driverID, "Karimov")
	feed(t, env, driverID, "998901112233")
	feed(t, env, driverID, i18n.RoleLabelDriver)

	if got := env.h.sessions.CurrentStep(driverID); got != stepDriverCarType {
		t.Fatalf("step = %q, want %q", got, stepDriverCarType)
	}
	if u := env.users.users[driverID]; u.ProfileCompleted {
		t.Fatal("driver profile marked complete before the vehicle form")
	}
}

func TestDriverFormSkipsLeaveNulls(t *testing.T) {
	env := newTestEnv(completedShipper(driverID))
	if err := env.h.beginDriverForm(newFakeContext(driverID, ""), driverModeEdit); err != nil {
		t.Fatal(err)
	}

	feed(t, env, driverID, "Fura")
	feed(t, env, driverID, "20")
	feed(t, env, driverID, "86")
	feed(t, env, driverID, "Toshkent-Samarqand")
	feed(t, env, driverID, i18n.BtnSkip) // price per km
	feed(t, env, driverID, i18n.BtnSkip) // note

	p, ok := env.users.savedProfiles[driverID]
	if !ok {
		t.Fatal("driver profile was not saved")
	}
	if p.PricePerKm.Valid {
		t.Fatal("skipped price_per_km should stay NULL")
	}
	if p.Note.Valid {
		t.Fatal("skipped note should stay NULL")
	}
	if p.CarType.String != "Fura" || p.CapacityTon.Float64 != 20 {
		t.Fatalf("profile = %+v", p)
	}
	if env.h.sessions.InProgress(driverID) {
		t.Fatal("session still in progress after the vehicle form")
	}
}

func TestCargoNumbersAcceptComma(t *testing.T) {
	env := newTestEnv(completedShipper(userID))
	if err := env.h.beginCargoForm(newFakeContext(userID, "")); err != nil {
		t.Fatal(err)
	}
	feed(t, env, userID, "Toshkent")
	feed(t, env, userID, "Andijon")
	feed(t, env, userID, "sement")
	feed(t, env, userID, "22,5")

	if got := env.h.sessions.CurrentStep(userID); got != stepCargoVolume {
		t.Fatalf("step = %q, want %q", got, stepCargoVolume)
	}
	if v, _ := env.h.sessions.Float64Value(userID, "weight_ton"); v != 22.5 {
		t.Fatalf("weight = %v, want 22.5", v)
	}
}

func TestCargoEditRestartsFromOrigin(t *testing.T) {
	env := newTestEnv(completedShipper(userID))
	if err := env.h.beginCargoForm(newFakeContext(userID, "")); err != nil {
		t.Fatal(err)
	}
	feed(t, env, userID, "Toshkent")
	feed(t, env, userID, "Andijon")
	feed(t, env, userID, "sement")
	feed(t, env, userID, "22")
	feed(t, env, userID, "86")
	feed(t, env, userID, "2500000")
	feed(t, env, userID, "bugun")
	feed(t, env, userID, i18n.PaymentOptions[0])
	feed(t, env, userID, i18n.BtnSkip)

	if got := env.h.sessions.CurrentStep(userID); got != stepCargoConfirm {
		t.Fatalf("step = %q, want %q", got, stepCargoConfirm)
	}

	feed(t, env, userID, i18n.BtnCargoEdit)
	if vals := env.h.sessions.Values(userID); len(vals) != 0 {
		t.Fatalf("edit kept prior answers: %v", vals)
	}
	if got := env.h.sessions.CurrentStep(userID); got != stepCargoFrom {
		t.Fatalf("edit restarted at %q, want %q", got, stepCargoFrom)
	}
}

func TestCargoConfirmPublishesAndRecordsResult(t *testing.T) {
	env := newTestEnv(completedShipper(userID))
	pub := &fakePublisher{posted: []int64{-100123}}
	env.h.publisher = pub

	if err := env.h.beginCargoForm(newFakeContext(userID, "")); err != nil {
		t.Fatal(err)
	}
	feed(t, env, userID, "Toshkent")
	feed(t, env, userID, "Andijon")
	feed(t, env, userID, "sement")
	feed(t, env, userID, "22")
	feed(t, env, userID, "86")
	feed(t, env, userID, "2500000")
	feed(t, env, userID, "2026-02-25")
	feed(t, env, userID, i18n.PaymentOptions[1])
	feed(t, env, userID, "mo'rt yuk")

	done := feed(t, env, userID, i18n.BtnCargoConfirm)

	if len(env.cargo.inserted) != 1 {
		t.Fatalf("inserted %d listings, want 1", len(env.cargo.inserted))
	}
	l := env.cargo.inserted[0]
	if l.FromRegion != "Toshkent" || l.ToRegion != "Andijon" || l.Comment != "mo'rt yuk" {
		t.Fatalf("listing = %+v", l)
	}
	if l.LoadDate != "25.02.2026" {
		t.Fatalf("load date = %q, want normalized 25.02.2026", l.LoadDate)
	}
	if l.OwnerID != userID {
		t.Fatalf("owner = %d, want %d", l.OwnerID, userID)
	}
	if pub.published == nil || pub.published.ID != l.ID {
		t.Fatal("publisher did not receive the inserted listing")
	}
	if env.cargo.resultID != l.ID || len(env.cargo.resultPosted) != 1 {
		t.Fatalf("post result = id %d posted %v", env.cargo.resultID, env.cargo.resultPosted)
	}
	if !strings.Contains(done.lastText(), "Yuborilgan chatlar: <b>1</b>") {
		t.Fatalf("summary = %q", done.lastText())
	}
	if env.h.sessions.InProgress(userID) {
		t.Fatal("session still in progress after confirm")
	}
}

func TestCargoConfirmWithoutChannelsWarns(t *testing.T) {
	env := newTestEnv(completedShipper(userID))
	env.h.publisher = &fakePublisher{posted: []int64{}, failures: []string{}}

	if err := env.h.beginCargoForm(newFakeContext(userID, "")); err != nil {
		t.Fatal(err)
	}
	feed(t, env, userID, "Toshkent")
	feed(t, env, userID, "Andijon")
	feed(t, env, userID, "sement")
	feed(t, env, userID, "22")
	feed(t, env, userID, "86")
	feed(t, env, userID, "2500000")
	feed(t, env, userID, "bugun")
	feed(t, env, userID, i18n.PaymentOptions[0])
	feed(t, env, userID, i18n.BtnSkip)
	done := feed(t, env, userID, i18n.BtnCargoConfirm)

	if !strings.Contains(done.lastText(), "Hech bir chat ulanmagan") {
		t.Fatalf("summary = %q", done.lastText())
	}
}

func TestCancelWaitsForInFlightStep(t *testing.T) {
	env := newTestEnv(completedShipper(userID))
	if err := env.h.beginCargoForm(newFakeContext(userID, "")); err != nil {
		t.Fatal(err)
	}

	entered := make(chan struct{})
	release := make(chan struct{})
	env.h.sessions.Bind(stepCargoFrom, func(c tele.Context) error {
		close(entered)
		<-release
		env.h.sessions.SetStep(c.Sender().ID, stepCargoTo)
		return nil
	})

	stepDone := make(chan error, 1)
	go func() { stepDone <- env.h.sessions.Handle(newFakeContext(userID, "Toshkent")) }()
	<-entered

	var handled bool
	cancelDone := make(chan error, 1)
	go func() {
		var err error
		handled, err = env.h.Interrupt(newFakeContext(userID, i18n.BtnCancel), i18n.BtnCancel)
		cancelDone <- err
	}()

	// The cancel must queue behind the user lock, not race the step.
	select {
	case <-cancelDone:
		t.Fatal("cancel ran while a step handler was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	if err := <-stepDone; err != nil {
		t.Fatal(err)
	}
	if err := <-cancelDone; err != nil {
		t.Fatal(err)
	}
	if !handled {
		t.Fatal("cancel button not handled as interrupt")
	}
	if env.h.sessions.InProgress(userID) {
		t.Fatalf("session survived cancel at step %q", env.h.sessions.CurrentStep(userID))
	}
}

func TestInterruptCancelClearsDialog(t *testing.T) {
	env := newTestEnv(completedShipper(userID))
	if err := env.h.beginCargoForm(newFakeContext(userID, "")); err != nil {
		t.Fatal(err)
	}
	feed(t, env, userID, "Toshkent")

	c := newFakeContext(userID, i18n.BtnCancel)
	handled, err := env.h.Interrupt(c, i18n.BtnCancel)
	if err != nil {
		t.Fatal(err)
	}
	if !handled {
		t.Fatal("cancel button not handled as interrupt")
	}
	if env.h.sessions.InProgress(userID) {
		t.Fatal("dialog survived the cancel interrupt")
	}
	if !strings.Contains(c.lastText(), "bekor qilindi") {
		t.Fatalf("reply = %q", c.lastText())
	}
}

func TestInterruptMenuButtonPreemptsDialog(t *testing.T) {
	env := newTestEnv(completedShipper(userID))
	if err := env.h.beginCargoForm(newFakeContext(userID, "")); err != nil {
		t.Fatal(err)
	}

	c := newFakeContext(userID, i18n.BtnMenuContact)
	handled, err := env.h.Interrupt(c, i18n.BtnMenuContact)
	if err != nil {
		t.Fatal(err)
	}
	if !handled {
		t.Fatal("menu button not handled as interrupt")
	}
	if env.h.sessions.InProgress(userID) {
		t.Fatal("dialog survived the menu interrupt")
	}
}

func TestInterruptIgnoresPlainText(t *testing.T) {
	env := newTestEnv(completedShipper(userID))
	handled, err := env.h.Interrupt(newFakeContext(userID, "shunchaki matn"), "shunchaki matn")
	if err != nil {
		t.Fatal(err)
	}
	if handled {
		t.Fatal("plain text treated as menu interrupt")
	}
}

func TestSettingsRoleSwitchToShipper(t *testing.T) {
	u := completedShipper(userID)
	u.Role.String = models.RoleDriver
	env := newTestEnv(u)

	if err := env.h.settingsRoleStart(newFakeContext(userID, "")); err != nil {
		t.Fatal(err)
	}
	feed(t, env, userID, i18n.RoleLabelShipper)

	if got := env.users.users[userID].Role.String; got != models.RoleShipper {
		t.Fatalf("role = %q, want shipper", got)
	}
	if env.h.sessions.InProgress(userID) {
		t.Fatal("session still in progress after role switch")
	}
}
