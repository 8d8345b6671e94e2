package chatref

import (
	"errors"
	"testing"

	tele "gopkg.in/telebot.v4"
)

type fakeTransport struct {
	chats     map[string]*tele.Chat
	chatsByID map[int64]*tele.Chat
	member    *tele.ChatMember
	memberErr error
	lookups   int
}

func (f *fakeTransport) ChatByUsername(name string) (*tele.Chat, error) {
	f.lookups++
	if chat, ok := f.chats[name]; ok {
		return chat, nil
	}
	return nil, errors.New("telegram: chat not found")
}

func (f *fakeTransport) ChatByID(id int64) (*tele.Chat, error) {
	f.lookups++
	if chat, ok := f.chatsByID[id]; ok {
		return chat, nil
	}
	return nil, errors.New("telegram: chat not found")
}

func (f *fakeTransport) ChatMemberOf(chat, user tele.Recipient) (*tele.ChatMember, error) {
	if f.memberErr != nil {
		return nil, f.memberErr
	}
	return f.member, nil
}

func newTestResolver(api *fakeTransport) *Resolver {
	return NewWithTransport(api, &tele.User{ID: 42, Username: "cargobot"})
}

func TestParseReferenceGrammar(t *testing.T) {
	cases := []struct {
		in       string
		chatID   int64
		username string
		err      error
	}{
		{"-1001234567890", -1001234567890, "", nil},
		{"  -1001234567890  ", -1001234567890, "", nil},
		{"@abcde", 0, "@abcde", nil},
		{"@abc", 0, "", ErrBadFormat},
		{"https://t.me/c/123456789", -100123456789, "", nil},
		{"https://t.me/c/123456789/55", -100123456789, "", nil},
		{"t.me/some_channel", 0, "@some_channel", nil},
		{"https://t.me/some_channel/42", 0, "@some_channel", nil},
		{"https://t.me/+AbCdEf", 0, "", ErrInviteLink},
		{"https://t.me/joinchat/AbCdEf", 0, "", ErrInviteLink},
		{"t.me/joinchat/AbCdEf", 0, "", ErrInviteLink},
		{"", 0, "", ErrEmptyReference},
		{"0", 0, "", ErrBadFormat},
		{"not a chat", 0, "", ErrBadFormat},
	}

	for _, tc := range cases {
		chatID, username, err := ParseReference(tc.in)
		if chatID != tc.chatID || username != tc.username || !errors.Is(err, tc.err) {
			t.Errorf("ParseReference(%q) = (%d, %q, %v), want (%d, %q, %v)",
				tc.in, chatID, username, err, tc.chatID, tc.username, tc.err)
		}
	}
}

func TestResolveNumericNeedsNoLookup(t *testing.T) {
	api := &fakeTransport{}
	r := newTestResolver(api)

	for i := 0; i < 2; i++ {
		id, err := r.Resolve("-1001234567890")
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if id != -1001234567890 {
			t.Fatalf("id = %d", id)
		}
	}
	if api.lookups != 0 {
		t.Fatalf("expected zero lookups, got %d", api.lookups)
	}
}

func TestResolveUsernameLookup(t *testing.T) {
	api := &fakeTransport{chats: map[string]*tele.Chat{
		"@abcde": {ID: -100555},
	}}
	r := newTestResolver(api)

	id, err := r.Resolve("@abcde")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if id != -100555 {
		t.Fatalf("id = %d", id)
	}
	if api.lookups != 1 {
		t.Fatalf("lookups = %d", api.lookups)
	}

	if _, err := r.Resolve("@nosuchchat"); err == nil {
		t.Fatal("expected lookup failure")
	}
}

func TestResolveInviteLinkNoLookup(t *testing.T) {
	api := &fakeTransport{}
	r := newTestResolver(api)

	_, err := r.Resolve("https://t.me/+AbCdEf")
	if !errors.Is(err, ErrInviteLink) {
		t.Fatalf("err = %v", err)
	}
	if api.lookups != 0 {
		t.Fatalf("invite link must not hit transport, lookups = %d", api.lookups)
	}
}

func TestFromMessageForwardedOriginWins(t *testing.T) {
	api := &fakeTransport{}
	r := newTestResolver(api)

	msg := &tele.Message{
		Text:         "@ignored_text",
		OriginalChat: &tele.Chat{ID: -100777},
	}
	id, err := r.FromMessage(msg)
	if err != nil {
		t.Fatalf("from message: %v", err)
	}
	if id != -100777 {
		t.Fatalf("id = %d", id)
	}
	if api.lookups != 0 {
		t.Fatal("forwarded origin must not hit transport")
	}
}

func TestFromMessageFallsBackToText(t *testing.T) {
	r := newTestResolver(&fakeTransport{})
	id, err := r.FromMessage(&tele.Message{Text: "-100123"})
	if err != nil {
		t.Fatalf("from message: %v", err)
	}
	if id != -100123 {
		t.Fatalf("id = %d", id)
	}

	if _, err := r.FromMessage(&tele.Message{}); err == nil {
		t.Fatal("empty message must fail")
	}
}

func TestNormalizeSendError(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"telegram: Forbidden: bot is not a member", "Botda yozish huquqi yo'q (admin emas yoki post/send ruxsati yo'q)."},
		{"telegram: not enough rights to send text messages", "Botda yozish huquqi yo'q (admin emas yoki post/send ruxsati yo'q)."},
		{"telegram: chat not found", "Chat topilmadi (ID/link noto'g'ri yoki bot chatga qo'shilmagan)."},
		{"telegram: bot was blocked by the user", "Bot bloklangan yoki chatdan chiqarilgan."},
		{"something else entirely", "something else entirely"},
	}
	for _, tc := range cases {
		if got := NormalizeSendError(errors.New(tc.raw)); got != tc.want {
			t.Errorf("NormalizeSendError(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestCheckWritable(t *testing.T) {
	channel := &tele.Chat{ID: -100999, Type: tele.ChatChannel}
	group := &tele.Chat{ID: -100888, Type: tele.ChatSuperGroup}

	cases := []struct {
		name   string
		chat   *tele.Chat
		member *tele.ChatMember
		ok     bool
	}{
		{"left", channel, &tele.ChatMember{Role: tele.Left}, false},
		{"kicked", group, &tele.ChatMember{Role: tele.Kicked}, false},
		{"channel non-admin", channel, &tele.ChatMember{Role: tele.Member}, false},
		{"channel admin no post", channel, &tele.ChatMember{Role: tele.Administrator, Rights: tele.Rights{CanPostMessages: false}}, false},
		{"channel admin can post", channel, &tele.ChatMember{Role: tele.Administrator, Rights: tele.Rights{CanPostMessages: true}}, true},
		{"channel creator", channel, &tele.ChatMember{Role: tele.Creator}, true},
		{"group member", group, &tele.ChatMember{Role: tele.Member}, true},
		{"group restricted no send", group, &tele.ChatMember{Role: tele.Restricted, Rights: tele.Rights{CanSendMessages: false}}, false},
		{"group restricted can send", group, &tele.ChatMember{Role: tele.Restricted, Rights: tele.Rights{CanSendMessages: true}}, true},
	}

	for _, tc := range cases {
		api := &fakeTransport{
			chatsByID: map[int64]*tele.Chat{tc.chat.ID: tc.chat},
			member:    tc.member,
		}
		r := newTestResolver(api)
		ok, status := r.CheckWritable(tc.chat.ID)
		if ok != tc.ok {
			t.Errorf("%s: ok = %v (%s), want %v", tc.name, ok, status, tc.ok)
		}
		if status == "" {
			t.Errorf("%s: empty status text", tc.name)
		}
	}

	api := &fakeTransport{chatsByID: map[int64]*tele.Chat{}}
	r := newTestResolver(api)
	if ok, _ := r.CheckWritable(-1); ok {
		t.Fatal("unknown chat must not be writable")
	}
}
