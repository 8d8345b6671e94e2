package format

import "html"

// EscapeHTML escapes text for Telegram HTML parse mode.
func EscapeHTML(s string) string {
	return html.EscapeString(s)
}

// EscapeOrDash escapes text for HTML parse mode, substituting a dash
// for empty values so message cards never render blank fields.
func EscapeOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return html.EscapeString(s)
}
