package i18n

import (
	"testing"

	tele "gopkg.in/telebot.v4"

	"github.com/yukmarkazi/cargobot/internal/models"
)

func TestCanonicalizeRoundTripAllButtons(t *testing.T) {
	buttons := append([]string{}, MenuInterruptButtons...)
	buttons = append(buttons, BtnSkip, BtnSendContact, BtnCargoConfirm, BtnCargoEdit,
		RoleLabelDriver, RoleLabelShipper)
	buttons = append(buttons, PaymentOptions...)

	for _, canon := range buttons {
		displayed := LocalizeButtonText(canon, models.LangRu)
		if got := Canonicalize(displayed); got != canon {
			t.Errorf("canonicalize(%q) = %q, want %q", displayed, got, canon)
		}
		// Canonical text must map to itself too.
		if got := Canonicalize(canon); got != canon {
			t.Errorf("canonicalize(%q) = %q, want identity", canon, got)
		}
	}
}

func TestCanonicalizePassthrough(t *testing.T) {
	if got := Canonicalize("  free text "); got != "free text" {
		t.Fatalf("got %q", got)
	}
}

func TestLocalizeTextLongestFirst(t *testing.T) {
	// "Asosiy menyu." must win over its prefix "Asosiy menyu".
	if got := LocalizeText("Asosiy menyu.", models.LangRu); got != "Главное меню." {
		t.Fatalf("got %q", got)
	}
	if got := LocalizeText("❌ Jarayon bekor qilindi.", models.LangRu); got != "❌ Действие отменено." {
		t.Fatalf("got %q", got)
	}
}

func TestLocalizeTextUzIsIdentity(t *testing.T) {
	in := "Asosiy menyu."
	if got := LocalizeText(in, models.LangUz); got != in {
		t.Fatalf("got %q", got)
	}
}

func TestLocalizeMarkupPreservesStructure(t *testing.T) {
	markup := &tele.ReplyMarkup{
		ResizeKeyboard: true,
		ReplyKeyboard: [][]tele.ReplyButton{
			{{Text: BtnMenuCargo}, {Text: BtnMenuDriver}},
			{{Text: BtnCancel}},
		},
		InlineKeyboard: [][]tele.InlineButton{
			{{Text: "☎️ Nomer ko'rish", URL: "https://t.me/bot?start=phone_1"}},
		},
	}

	out := LocalizeMarkup(markup, models.LangRu)
	if out == markup {
		t.Fatal("expected a copy for ru")
	}
	if !out.ResizeKeyboard {
		t.Fatal("resize flag lost")
	}
	if got := out.ReplyKeyboard[0][0].Text; got != "📦 Разместить груз" {
		t.Fatalf("got %q", got)
	}
	if got := out.InlineKeyboard[0][0].URL; got != "https://t.me/bot?start=phone_1" {
		t.Fatalf("url changed: %q", got)
	}
	if got := out.InlineKeyboard[0][0].Text; got != "☎️ Показать номер" {
		t.Fatalf("inline text: %q", got)
	}
	// Source markup untouched.
	if markup.ReplyKeyboard[0][0].Text != BtnMenuCargo {
		t.Fatal("source markup mutated")
	}

	if got := LocalizeMarkup(markup, models.LangUz); got != markup {
		t.Fatal("uz must return the markup unchanged")
	}
}

func TestIsMenuInterrupt(t *testing.T) {
	if !IsMenuInterrupt(BtnCancel) {
		t.Fatal("cancel is an interrupt")
	}
	if IsMenuInterrupt(BtnSkip) {
		t.Fatal("skip is not an interrupt")
	}
	if IsMenuInterrupt("random text") {
		t.Fatal("free text is not an interrupt")
	}
}
