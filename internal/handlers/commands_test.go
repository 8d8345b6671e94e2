package handlers

import (
	"strings"
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestCmdChatID(t *testing.T) {
	env := newTestEnv()
	c := newFakeContext(userID, "/chat_id")
	c.chat = &tele.Chat{ID: -1001234567890, Type: tele.ChatSuperGroup, Username: "yuk_chat"}
	if err := env.h.cmdChatID(c); err != nil {
		t.Fatal(err)
	}
	got := c.lastText()
	for _, want := range []string{"-1001234567890", "supergroup", "@yuk_chat"} {
		if !strings.Contains(got, want) {
			t.Errorf("chat info missing %q:\n%s", want, got)
		}
	}
}

func TestCmdProAddRejectsNonAdmin(t *testing.T) {
	env := newTestEnv(completedShipper(userID))
	c := newFakeContext(userID, "/pro_add 100 30")
	if err := env.h.cmdProAdd(c); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(c.lastText(), "admin huquqi") {
		t.Fatalf("reply = %q", c.lastText())
	}
	if env.users.users[userID].ProUntil.Valid {
		t.Fatal("non-admin granted pro")
	}
}

func TestCmdProAddGrantsDays(t *testing.T) {
	env := newTestEnv(completedShipper(userID))
	c := newFakeContext(adminID, "/pro_add 100 30")
	if err := env.h.cmdProAdd(c); err != nil {
		t.Fatal(err)
	}
	u := env.users.users[userID]
	if !u.ProUntil.Valid {
		t.Fatal("pro was not applied")
	}
	if !strings.Contains(c.lastText(), "Pro qo'shildi") {
		t.Fatalf("reply = %q", c.lastText())
	}
}

func TestCmdProAddUsage(t *testing.T) {
	env := newTestEnv()
	c := newFakeContext(adminID, "/pro_add 100")
	if err := env.h.cmdProAdd(c); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(c.lastText(), "Format:") {
		t.Fatalf("reply = %q", c.lastText())
	}
}

func TestCmdProRemoveUnknownUser(t *testing.T) {
	env := newTestEnv()
	c := newFakeContext(adminID, "/pro_remove 555")
	if err := env.h.cmdProRemove(c); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(c.lastText(), "topilmadi") {
		t.Fatalf("reply = %q", c.lastText())
	}
}

func TestCmdSetRegionHereRejectsPrivateChat(t *testing.T) {
	env := newTestEnv()
	c := newFakeContext(adminID, "/set_region_here Toshkent")
	if err := env.h.cmdSetRegionHere(c); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(c.lastText(), "kanal/guruh ichida") {
		t.Fatalf("reply = %q", c.lastText())
	}
	if len(env.channels.regions) != 0 {
		t.Fatal("region bound from a private chat")
	}
}

func TestCmdSetRegionHereBindsCurrentChat(t *testing.T) {
	env := newTestEnv()
	c := newFakeContext(adminID, "/set_region_here qashqadaryo")
	c.chat = &tele.Chat{ID: -100777, Type: tele.ChatSuperGroup}
	if err := env.h.cmdSetRegionHere(c); err != nil {
		t.Fatal(err)
	}
	if got := env.channels.regions["Qashqadaryo"]; got != -100777 {
		t.Fatalf("bound chat = %d, want -100777", got)
	}
	if !strings.Contains(c.lastText(), "Qashqadaryo") {
		t.Fatalf("reply = %q", c.lastText())
	}
}

func TestCmdSetRegionHereInvalidRegion(t *testing.T) {
	env := newTestEnv()
	c := newFakeContext(adminID, "/set_region_here Atlantida")
	c.chat = &tele.Chat{ID: -100777, Type: tele.ChatSuperGroup}
	if err := env.h.cmdSetRegionHere(c); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(c.lastText(), "Viloyat noto'g'ri") {
		t.Fatalf("reply = %q", c.lastText())
	}
}

func TestCmdSetCatalogHereBindsCurrentChat(t *testing.T) {
	env := newTestEnv()
	c := newFakeContext(adminID, "/set_catalog_here")
	c.chat = &tele.Chat{ID: -100888, Type: tele.ChatChannel}
	if err := env.h.cmdSetCatalogHere(c); err != nil {
		t.Fatal(err)
	}
	if !env.channels.hasCat || env.channels.catalog != -100888 {
		t.Fatalf("catalog = (%d, %v)", env.channels.catalog, env.channels.hasCat)
	}
}
