package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	tg "github.com/yukmarkazi/cargobot/core/telegram"
	"github.com/yukmarkazi/cargobot/core/telegram/commands"
	"github.com/yukmarkazi/cargobot/core/telegram/helpers"
	"github.com/yukmarkazi/cargobot/internal/models"
	"github.com/yukmarkazi/cargobot/internal/storage"
)

// Register wires every command and the subscription callback into the
// registry. Each handler runs under the sender's session lock so it
// cannot interleave with an in-flight dialog step.
func (h *Handlers) Register(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     h.locked(h.Start),
		Description: "Botni ishga tushirish",
	})
	reg.RegisterCommand("/profil", commands.Command{
		Handler:     h.locked(h.cmdGated(h.showProfile)),
		Description: "Profil ma'lumotlari",
	})
	reg.RegisterCommand("/yuk", commands.Command{
		Handler:     h.locked(h.cmdGated(h.menuCargo)),
		Description: "Yuk e'lon qilish",
	})
	reg.RegisterCommand("/tahlil", commands.Command{
		Handler:     h.locked(h.cmdGated(h.showAnalysis)),
		Description: "Profil tahlili",
	})
	reg.RegisterCommand("/statistika", commands.Command{
		Handler:     h.locked(h.cmdGated(h.showStats)),
		Description: "Statistika",
	})
	reg.RegisterCommand("/lang", commands.Command{
		Handler:     h.locked(h.cmdGated(h.beginLanguageSelect)),
		Description: "Tilni o'zgartirish",
	})
	reg.RegisterCommand("/cancel", commands.Command{
		Handler:     h.locked(h.cancelDialog),
		Description: "Jarayonni bekor qilish",
	})
	reg.RegisterCommand("/chat_id", commands.Command{
		Handler:     h.locked(h.cmdChatID),
		Description: "Chat ID ni ko'rsatish",
	})
	reg.RegisterCommand("/admin", commands.Command{
		Handler:     h.locked(h.adminPanel),
		Description: "Admin panel",
	})
	reg.RegisterCommand("/admin_help", commands.Command{
		Handler:     h.locked(h.adminGuide),
		Description: "Admin qo'llanma",
	})

	reg.RegisterCommand("/pro_add", commands.Command{
		Handler:     h.locked(h.cmdProAdd),
		Description: "PRO berish",
		AdminOnly:   true,
		Hidden:      true,
	})
	reg.RegisterCommand("/pro_remove", commands.Command{
		Handler:     h.locked(h.cmdProRemove),
		Description: "PRO olib tashlash",
		AdminOnly:   true,
		Hidden:      true,
	})
	reg.RegisterCommand("/set_catalog", commands.Command{
		Handler:     h.locked(h.cmdSetCatalog),
		Description: "Katalog chatini ulash",
		AdminOnly:   true,
		Hidden:      true,
	})
	reg.RegisterCommand("/set_region", commands.Command{
		Handler:     h.locked(h.cmdSetRegion),
		Description: "Viloyat chatini ulash",
		AdminOnly:   true,
		Hidden:      true,
	})
	reg.RegisterCommand("/set_catalog_here", commands.Command{
		Handler:     h.locked(h.cmdSetCatalogHere),
		Description: "Shu chatni katalog qilish",
		AdminOnly:   true,
		Hidden:      true,
	})
	reg.RegisterCommand("/set_region_here", commands.Command{
		Handler:     h.locked(h.cmdSetRegionHere),
		Description: "Shu chatni viloyatga ulash",
		AdminOnly:   true,
		Hidden:      true,
	})

	_ = reg.RegisterCallback("check_sub", h.locked(h.CheckSubCallback))
}

// cmdGated wraps a private-chat handler with the mandatory subscription check.
func (h *Handlers) cmdGated(fn tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		ok, err := h.checkSubscriptionGate(c)
		if err != nil || !ok {
			return err
		}
		return fn(c)
	}
}

// cmdChatID prints chat identity info and works in any chat type.
func (h *Handlers) cmdChatID(c tele.Context) error {
	chat := c.Chat()
	if chat == nil {
		return nil
	}
	username := "yo'q"
	if chat.Username != "" {
		username = "@" + chat.Username
	}
	return h.reply(c, fmt.Sprintf(
		"🆔 <b>Chat ma'lumoti</b>\n• Chat ID: <code>%d</code>\n• Type: <code>%s</code>\n• Username: <code>%s</code>",
		chat.ID, chat.Type, username))
}

func (h *Handlers) cmdProAdd(c tele.Context) error {
	if !h.requireAdmin(c) {
		return nil
	}
	args := c.Args()
	if len(args) != 2 {
		return h.reply(c, "Format: <code>/pro_add user_id kun</code>\nMasalan: <code>/pro_add 123456789 30</code>")
	}
	userID, ok := parseUserID(args[0])
	days, err := strconv.Atoi(args[1])
	if !ok || err != nil {
		return h.reply(c, "Noto'g'ri format. Raqam kiriting.")
	}
	if days <= 0 {
		return h.reply(c, "Kun soni 0 dan katta bo'lishi kerak.")
	}

	until, err := h.users.ApplyPro(helpers.BuildContext(c), userID, days, time.Now().UTC())
	if err != nil {
		if err == storage.ErrNotFound {
			return h.reply(c, "Foydalanuvchi topilmadi.")
		}
		return err
	}
	if err := h.reply(c, fmt.Sprintf(
		"✅ Pro qo'shildi.\n👤 User: <code>%d</code>\n📅 Tugash sanasi: <b>%s</b>",
		userID, until.Format("02.01.2006 15:04"))); err != nil {
		return err
	}
	if bot := h.getBot(); bot != nil {
		_, _ = bot.Send(tele.ChatID(userID), fmt.Sprintf(
			"🎉 Sizga PRO status qo'shildi.\n📅 Tugash: <b>%s</b>",
			until.Format("02.01.2006 15:04")), tele.ModeHTML)
	}
	return nil
}

func (h *Handlers) cmdProRemove(c tele.Context) error {
	if !h.requireAdmin(c) {
		return nil
	}
	args := c.Args()
	if len(args) != 1 {
		return h.reply(c, "Format: <code>/pro_remove user_id</code>")
	}
	userID, ok := parseUserID(args[0])
	if !ok {
		return h.reply(c, "Noto'g'ri format. Raqam kiriting.")
	}

	removed, err := h.users.RemovePro(helpers.BuildContext(c), userID)
	if err != nil {
		return err
	}
	if !removed {
		return h.reply(c, "Foydalanuvchi topilmadi.")
	}
	if err := h.reply(c, fmt.Sprintf("✅ Pro o'chirildi: <code>%d</code>", userID)); err != nil {
		return err
	}
	if bot := h.getBot(); bot != nil {
		_, _ = bot.Send(tele.ChatID(userID), "ℹ️ Sizning PRO statusingiz bekor qilindi.")
	}
	return nil
}

func (h *Handlers) cmdSetCatalog(c tele.Context) error {
	if !h.requireAdmin(c) {
		return nil
	}
	args := c.Args()
	if len(args) != 1 {
		return h.reply(c, "Format: <code>/set_catalog chat</code>\n"+
			"Masalan:\n"+
			"• <code>/set_catalog -1001234567890</code>\n"+
			"• <code>/set_catalog @kanal_username</code>\n"+
			"• <code>/set_catalog https://t.me/kanal_username</code>")
	}
	r := h.getResolver()
	if r == nil {
		return h.reply(c, "Chat ID topilmadi.")
	}
	chatID, err := r.Resolve(args[0])
	if err != nil {
		return h.reply(c, err.Error())
	}
	if err := h.channels.SetCatalogChat(helpers.BuildContext(c), chatID); err != nil {
		return err
	}
	return h.reply(c, h.writableReport(
		fmt.Sprintf("✅ Katalog chati ulandi: <code>%d</code>", chatID), chatID, false))
}

func (h *Handlers) cmdSetRegion(c tele.Context) error {
	if !h.requireAdmin(c) {
		return nil
	}
	args := c.Args()
	if len(args) < 2 {
		return h.reply(c, "Format: <code>/set_region viloyat chat</code>\n"+
			"Masalan: <code>/set_region Toshkent @toshkent_yuk</code>")
	}
	ref := args[len(args)-1]
	raw := strings.ReplaceAll(strings.Join(args[:len(args)-1], " "), "_", " ")
	region := models.NormalizeRegion(raw)
	if region == "" {
		return h.reply(c, "Viloyat noto'g'ri. To'g'ri variantlar: "+strings.Join(models.Regions, ", "))
	}
	r := h.getResolver()
	if r == nil {
		return h.reply(c, "Chat ID topilmadi.")
	}
	chatID, err := r.Resolve(ref)
	if err != nil {
		return h.reply(c, err.Error())
	}
	if err := h.channels.SetRegionChat(helpers.BuildContext(c), region, chatID); err != nil {
		return err
	}
	return h.reply(c, h.writableReport(fmt.Sprintf(
		"✅ <b>%s</b> uchun chat ulandi: <code>%d</code>", region, chatID), chatID, false))
}

func (h *Handlers) cmdSetCatalogHere(c tele.Context) error {
	if !h.requireAdmin(c) {
		return nil
	}
	chat := c.Chat()
	if chat == nil || chat.Type == tele.ChatPrivate {
		return h.reply(c, "Bu buyruqni katalog kanal/guruh ichida yuboring.")
	}
	if err := h.channels.SetCatalogChat(helpers.BuildContext(c), chat.ID); err != nil {
		return err
	}
	return h.reply(c, h.writableReport(
		fmt.Sprintf("✅ Katalog chati ulandi: <code>%d</code>", chat.ID), chat.ID, false))
}

func (h *Handlers) cmdSetRegionHere(c tele.Context) error {
	if !h.requireAdmin(c) {
		return nil
	}
	chat := c.Chat()
	if chat == nil || chat.Type == tele.ChatPrivate {
		return h.reply(c, "Bu buyruqni viloyat kanal/guruh ichida yuboring.\nFormat: <code>/set_region_here Toshkent</code>")
	}
	args := c.Args()
	if len(args) == 0 {
		return h.reply(c, "Format: <code>/set_region_here Toshkent</code>")
	}
	raw := strings.ReplaceAll(strings.Join(args, " "), "_", " ")
	region := models.NormalizeRegion(raw)
	if region == "" {
		return h.reply(c, "Viloyat noto'g'ri. To'g'ri variantlar: "+strings.Join(models.Regions, ", "))
	}
	if err := h.channels.SetRegionChat(helpers.BuildContext(c), region, chat.ID); err != nil {
		return err
	}
	return h.reply(c, h.writableReport(fmt.Sprintf(
		"✅ <b>%s</b> uchun chat ulandi: <code>%d</code>", region, chat.ID), chat.ID, false))
}
