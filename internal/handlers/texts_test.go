package handlers

import (
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/yukmarkazi/cargobot/internal/models"
)

func TestProfileCompletenessShipper(t *testing.T) {
	score, missing := profileCompleteness(completedShipper(userID))
	if score != 100 || len(missing) != 0 {
		t.Fatalf("score = %d, missing = %v", score, missing)
	}

	u := completedShipper(userID)
	u.Phone = sql.NullString{}
	score, missing = profileCompleteness(u)
	if score != 75 {
		t.Fatalf("score = %d, want 75", score)
	}
	if len(missing) != 1 || missing[0] != "Telefon" {
		t.Fatalf("missing = %v", missing)
	}
}

func TestProfileCompletenessDriverCountsVehicle(t *testing.T) {
	u := completedShipper(driverID)
	u.Role = sql.NullString{String: models.RoleDriver, Valid: true}
	score, missing := profileCompleteness(u)
	if score != 50 {
		t.Fatalf("score = %d, want 50", score)
	}
	if len(missing) != 4 {
		t.Fatalf("missing = %v", missing)
	}

	u.CarType = sql.NullString{String: "Fura", Valid: true}
	u.CapacityTon = sql.NullFloat64{Float64: 20, Valid: true}
	u.DriverProfile.VolumeM3 = sql.NullFloat64{Float64: 86, Valid: true}
	u.Routes = sql.NullString{String: "Toshkent-Andijon", Valid: true}
	score, missing = profileCompleteness(u)
	if score != 100 || len(missing) != 0 {
		t.Fatalf("score = %d, missing = %v", score, missing)
	}
}

func TestBuildProfileTextDriverSection(t *testing.T) {
	now := time.Now()
	u := completedShipper(driverID)
	text := buildProfileText(u, now)
	if strings.Contains(text, "Mashina ma'lumoti") {
		t.Fatal("shipper profile shows the vehicle section")
	}
	if !strings.Contains(text, "Oddiy") {
		t.Fatal("non-pro user not marked Oddiy")
	}

	u.Role = sql.NullString{String: models.RoleDriver, Valid: true}
	u.CarType = sql.NullString{String: "Fura", Valid: true}
	u.ProUntil = sql.NullTime{Time: now.Add(24 * time.Hour), Valid: true}
	text = buildProfileText(u, now)
	if !strings.Contains(text, "Mashina ma'lumoti") || !strings.Contains(text, "Fura") {
		t.Fatalf("driver section missing:\n%s", text)
	}
	if !strings.Contains(text, "PRO") {
		t.Fatal("active pro user not marked PRO")
	}
}

func TestMandatorySubscribeText(t *testing.T) {
	channels := []models.MandatoryChannel{
		{ChatID: -1001, Title: "Yuk kanali"},
		{ChatID: -1002, Username: sql.NullString{String: "yuk_chat", Valid: true}},
		{ChatID: -100500},
	}
	text := mandatorySubscribeText(channels)
	for _, want := range []string{"majburiy obuna", "Yuk kanali", "yuk_chat", "-100500"} {
		if !strings.Contains(text, want) {
			t.Errorf("text missing %q:\n%s", want, text)
		}
	}
}

func TestSafeEscapesHTML(t *testing.T) {
	if got := safe("<b>x</b>"); got != "&lt;b&gt;x&lt;/b&gt;" {
		t.Fatalf("safe = %q", got)
	}
	if got := safe("  "); got != "-" {
		t.Fatalf("safe blank = %q", got)
	}
}
