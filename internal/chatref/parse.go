// Package chatref turns free-form admin input (numeric IDs, @usernames,
// t.me links, forwarded messages) into a canonical chat ID, and checks
// whether the bot can actually post there.
package chatref

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var (
	usernameRe     = regexp.MustCompile(`^@[A-Za-z0-9_]{5,}$`)
	publicLinkRe   = regexp.MustCompile(`^(?:https?://)?(?:t\.me|telegram\.me)/(?:s/)?([A-Za-z0-9_]{5,})(?:/\d+)?/?(?:\?.*)?$`)
	internalLinkRe = regexp.MustCompile(`^(?:https?://)?(?:t\.me|telegram\.me)/c/(\d+)(?:/\d+)?/?(?:\?.*)?$`)
	inviteLinkRe   = regexp.MustCompile(`^(?:https?://)?(?:t\.me|telegram\.me)/(?:joinchat/|\+)[A-Za-z0-9_-]+/?$`)
)

// ErrEmptyReference is returned for blank input.
var ErrEmptyReference = errors.New("Chat ma'lumoti kiritilmadi.")

// ErrInviteLink explains that invite links cannot be resolved without
// the bot joining the chat first.
var ErrInviteLink = errors.New(
	"❗ `+` yoki `joinchat` invite-link orqali chat ID avtomatik olinmaydi.\n" +
		"Botni o'sha chatga qo'shing va:\n" +
		"• chatdan forward xabar yuboring yoki\n" +
		"• `@username` / `-100...` yuboring.")

// ErrBadFormat names the accepted reference grammars.
var ErrBadFormat = errors.New(
	"Chat formati noto'g'ri.\n" +
		"Qabul qilinadi: `-100...`, `@username`, `https://t.me/username`, `https://t.me/username/123`, `https://t.me/c/...`")

// ParseChatID parses a literal nonzero chat ID, returning 0 otherwise.
func ParseChatID(value string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id == 0 {
		return 0
	}
	return id
}

// ParseReference classifies one chat reference. Exactly one of chatID
// (nonzero), username (nonempty, with @), or err is set.
//
// Precedence: literal ID, @username, internal t.me/c link (digits get
// the -100 supergroup prefix), invite links (rejected with guidance),
// then public t.me link. Invite links go before public links because
// t.me/joinchat/... also matches the public-link pattern.
func ParseReference(value string) (chatID int64, username string, err error) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return 0, "", ErrEmptyReference
	}

	if id := ParseChatID(raw); id != 0 {
		return id, "", nil
	}

	if usernameRe.MatchString(raw) {
		return 0, raw, nil
	}

	if m := internalLinkRe.FindStringSubmatch(raw); m != nil {
		id, parseErr := strconv.ParseInt("-100"+m[1], 10, 64)
		if parseErr != nil {
			return 0, "", ErrBadFormat
		}
		return id, "", nil
	}

	if inviteLinkRe.MatchString(raw) {
		return 0, "", ErrInviteLink
	}

	if m := publicLinkRe.FindStringSubmatch(raw); m != nil {
		return 0, "@" + m[1], nil
	}

	return 0, "", ErrBadFormat
}
