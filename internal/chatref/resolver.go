package chatref

import (
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"
)

// Transport is the bot API surface the resolver needs. *tele.Bot
// satisfies it.
type Transport interface {
	ChatByID(id int64) (*tele.Chat, error)
	ChatByUsername(name string) (*tele.Chat, error)
	ChatMemberOf(chat, user tele.Recipient) (*tele.ChatMember, error)
}

// Resolver resolves chat references and checks posting rights on
// behalf of the bot identified by self.
type Resolver struct {
	api  Transport
	self *tele.User
}

// New builds a Resolver around a running bot.
func New(bot *tele.Bot) *Resolver {
	return &Resolver{api: bot, self: bot.Me}
}

// NewWithTransport wires an explicit transport and identity.
func NewWithTransport(api Transport, self *tele.User) *Resolver {
	return &Resolver{api: api, self: self}
}

// Resolve turns a textual chat reference into a chat ID. Numeric and
// internal-link references resolve without a transport round-trip;
// usernames cost one lookup.
func (r *Resolver) Resolve(value string) (int64, error) {
	chatID, username, err := ParseReference(value)
	if err != nil {
		return 0, err
	}
	if chatID != 0 {
		return chatID, nil
	}

	chat, err := r.api.ChatByUsername(username)
	if err != nil {
		return 0, fmt.Errorf(
			"`%s` chatiga ulanib bo'lmadi.\nBot shu chatga qo'shilganini va username to'g'ri ekanini tekshiring.",
			username)
	}
	return chat.ID, nil
}

// FromMessage resolves a chat reference out of an inbound message:
// the forwarded origin chat wins, then the sender chat, then the
// message text goes through Resolve.
func (r *Resolver) FromMessage(msg *tele.Message) (int64, error) {
	if msg == nil {
		return 0, ErrEmptyReference
	}
	if msg.OriginalChat != nil && msg.OriginalChat.ID != 0 {
		return msg.OriginalChat.ID, nil
	}
	if msg.SenderChat != nil && msg.SenderChat.ID != 0 {
		return msg.SenderChat.ID, nil
	}
	if msg.Text == "" {
		return 0, fmt.Errorf(
			"Chat ID topilmadi.\nID (`-100...`), `@username`, `https://t.me/...` link yoki forward xabar yuboring.")
	}
	return r.Resolve(msg.Text)
}

// NormalizeSendError turns a raw transport error into the short reason
// shown to admins and stored in delivery failure records.
func NormalizeSendError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	lowered := strings.ToLower(msg)
	switch {
	case strings.Contains(lowered, "forbidden") || strings.Contains(lowered, "not enough rights"):
		return "Botda yozish huquqi yo'q (admin emas yoki post/send ruxsati yo'q)."
	case strings.Contains(lowered, "chat not found"):
		return "Chat topilmadi (ID/link noto'g'ri yoki bot chatga qo'shilmagan)."
	case strings.Contains(lowered, "blocked"):
		return "Bot bloklangan yoki chatdan chiqarilgan."
	}
	return msg
}

// CheckWritable verifies the bot can deliver to the chat. The status
// text is user-facing either way.
func (r *Resolver) CheckWritable(chatID int64) (bool, string) {
	chat, err := r.api.ChatByID(chatID)
	if err != nil {
		return false, NormalizeSendError(err)
	}
	member, err := r.api.ChatMemberOf(chat, r.self)
	if err != nil {
		return false, NormalizeSendError(err)
	}

	if member.Role == tele.Left || member.Role == tele.Kicked {
		return false, "Bot chatda yo'q. Botni chatga qo'shing."
	}

	if chat.Type == tele.ChatChannel {
		if member.Role != tele.Administrator && member.Role != tele.Creator {
			return false, "Bu kanal uchun bot admin bo'lishi shart."
		}
		if member.Role == tele.Administrator && !member.Rights.CanPostMessages {
			return false, "Bot admin, lekin `Post messages` huquqi o'chirilgan."
		}
		return true, "Kanalga yuborish huquqi bor."
	}

	if member.Role == tele.Restricted && !member.Rights.CanSendMessages {
		return false, "Bot bu guruhda yozishga cheklangan."
	}
	return true, "Chatga yuborish huquqi bor."
}
