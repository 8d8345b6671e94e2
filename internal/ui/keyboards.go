// Package ui builds the bot's reply and inline keyboards.
package ui

import (
	tele "gopkg.in/telebot.v4"

	"github.com/yukmarkazi/cargobot/core/telegram/keyboard"
	"github.com/yukmarkazi/cargobot/internal/i18n"
	"github.com/yukmarkazi/cargobot/internal/models"
)

// MainMenu is the root reply keyboard, two buttons per row.
// Admins get an extra panel button.
func MainMenu(isAdmin bool) *tele.ReplyMarkup {
	buttons := []string{
		i18n.BtnMenuCargo,
		i18n.BtnMenuDriver,
		i18n.BtnMenuProfile,
		i18n.BtnMenuAnalysis,
		i18n.BtnMenuStats,
		i18n.BtnMenuPro,
		i18n.BtnMenuNews,
		i18n.BtnMenuContact,
		i18n.BtnMenuSettings,
	}
	if isAdmin {
		buttons = append(buttons, i18n.BtnAdminPanel)
	}
	var rows [][]string
	for i := 0; i < len(buttons); i += 2 {
		end := i + 2
		if end > len(buttons) {
			end = len(buttons)
		}
		rows = append(rows, buttons[i:end])
	}
	return keyboard.ReplyButtons(rows...)
}

// Language is the language picker shown on /lang and first contact.
func Language() *tele.ReplyMarkup {
	markup := keyboard.ReplyButtons(
		[]string{i18n.LangSelectUz, i18n.LangSelectRu},
		[]string{i18n.BtnCancel},
	)
	markup.OneTimeKeyboard = true
	return markup
}

// Phone requests the user's contact with a text fallback.
func Phone() *tele.ReplyMarkup {
	return keyboard.ContactKeyboard(i18n.BtnSendContact, []string{i18n.BtnCancel})
}

// Role offers the driver/shipper choice.
func Role() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{i18n.RoleLabelDriver, i18n.RoleLabelShipper},
		[]string{i18n.BtnCancel},
	)
}

// Cancel is the single-button abort keyboard used inside dialogs.
func Cancel() *tele.ReplyMarkup {
	return keyboard.ReplyButtons([]string{i18n.BtnCancel})
}

// SkipCancel is used on optional dialog steps.
func SkipCancel() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{i18n.BtnSkip},
		[]string{i18n.BtnCancel},
	)
}

// Payment lists the accepted payment types.
func Payment() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{i18n.PaymentOptions[0], i18n.PaymentOptions[1]},
		[]string{i18n.PaymentOptions[2]},
		[]string{i18n.BtnCancel},
	)
}

// Region lists all regions three per row plus a cancel row.
func Region() *tele.ReplyMarkup {
	var rows [][]string
	for i := 0; i < len(models.Regions); i += 3 {
		end := i + 3
		if end > len(models.Regions) {
			end = len(models.Regions)
		}
		rows = append(rows, models.Regions[i:end])
	}
	rows = append(rows, []string{i18n.BtnCancel})
	return keyboard.ReplyButtons(rows...)
}

// CargoConfirm is shown with the listing preview.
func CargoConfirm() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{i18n.BtnCargoConfirm, i18n.BtnCargoEdit},
		[]string{i18n.BtnCancel},
	)
}

// Settings opens role and language switches.
func Settings() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{i18n.BtnSettingsRole},
		[]string{i18n.BtnSettingsLang},
		[]string{i18n.BtnBackMain},
	)
}

// AdminPanel is the admin root keyboard.
func AdminPanel() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{i18n.BtnBroadcast},
		[]string{i18n.BtnAdminStats, i18n.BtnAdminUsers},
		[]string{i18n.BtnAdminPro, i18n.BtnAdminChannels},
		[]string{i18n.BtnAdminGuide},
		[]string{i18n.BtnBackMain},
	)
}

// AdminPro manages PRO grants.
func AdminPro() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{i18n.BtnProAdd, i18n.BtnProRemove},
		[]string{i18n.BtnBackAdmin},
	)
}

// AdminChannels manages publication and subscription chats.
func AdminChannels() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{i18n.BtnChSetCatalog, i18n.BtnChSetRegion},
		[]string{i18n.BtnReqAdd, i18n.BtnReqRemove},
		[]string{i18n.BtnReqList},
		[]string{i18n.BtnChList},
		[]string{i18n.BtnBackAdmin},
	)
}

// BroadcastAudience picks who a broadcast goes to.
func BroadcastAudience() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{i18n.BtnBcAll},
		[]string{i18n.BtnBcDrivers, i18n.BtnBcShippers},
		[]string{i18n.BtnBcPro},
		[]string{i18n.BtnCancel},
	)
}

// MandatorySubscribe lists join links for missing channels plus the
// recheck button wired to the check_sub callback.
func MandatorySubscribe(channels []models.MandatoryChannel) *tele.ReplyMarkup {
	var rows [][]keyboard.InlineBtn
	for _, ch := range channels {
		url := ch.JoinURL()
		if url == "" {
			continue
		}
		rows = append(rows, []keyboard.InlineBtn{{Text: "📢 " + ch.DisplayTitle(), URL: url}})
	}
	rows = append(rows, []keyboard.InlineBtn{{Text: "✅ Tekshirish", Unique: "check_sub"}})
	return keyboard.InlineButtonsRows(rows...)
}
