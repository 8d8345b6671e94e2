// Package i18n presents every prompt and button in the user's chosen
// language without the dialog logic branching on language. Inbound
// button presses are canonicalized back to Uzbek before any matching;
// outbound text and keyboards are rewritten to Russian on the way out.
package i18n

import (
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/yukmarkazi/cargobot/internal/models"
)

// Canonicalize maps a displayed button label back to its canonical
// form. Free text that is not a known label passes through trimmed.
func Canonicalize(text string) string {
	raw := strings.TrimSpace(text)
	if canon, ok := textCanonMap[raw]; ok {
		return canon
	}
	return raw
}

// LocalizeButtonText returns the display text of a single button label.
func LocalizeButtonText(text, lang string) string {
	if lang != models.LangRu {
		return text
	}
	if ru, ok := ruButtonTexts[text]; ok {
		return ru
	}
	return text
}

// LocalizeText applies the phrase substitution table to outbound text.
// Longest patterns are replaced first; unmapped text is left as-is.
func LocalizeText(text, lang string) string {
	if lang != models.LangRu {
		return text
	}
	out := text
	for _, p := range ruPhrases {
		out = strings.ReplaceAll(out, p.src, p.dst)
	}
	return out
}

// LocalizeMarkup returns a copy of the markup with every button's
// display text localized. Rows, URLs and callback payloads are
// preserved exactly. Returns the markup unchanged for the canonical
// language, and nil in for nil out.
func LocalizeMarkup(markup *tele.ReplyMarkup, lang string) *tele.ReplyMarkup {
	if markup == nil || lang != models.LangRu {
		return markup
	}

	out := *markup

	if len(markup.ReplyKeyboard) > 0 {
		rows := make([][]tele.ReplyButton, len(markup.ReplyKeyboard))
		for i, row := range markup.ReplyKeyboard {
			newRow := make([]tele.ReplyButton, len(row))
			for j, btn := range row {
				btn.Text = LocalizeButtonText(btn.Text, lang)
				newRow[j] = btn
			}
			rows[i] = newRow
		}
		out.ReplyKeyboard = rows
	}

	if len(markup.InlineKeyboard) > 0 {
		rows := make([][]tele.InlineButton, len(markup.InlineKeyboard))
		for i, row := range markup.InlineKeyboard {
			newRow := make([]tele.InlineButton, len(row))
			for j, btn := range row {
				btn.Text = LocalizeText(LocalizeButtonText(btn.Text, lang), lang)
				newRow[j] = btn
			}
			rows[i] = newRow
		}
		out.InlineKeyboard = rows
	}

	return &out
}
