// Package format holds helpers for Telegram HTML parse mode.
package format

import "html"

// Escape makes s safe to embed in an HTML-mode message.
func Escape(s string) string {
	return html.EscapeString(s)
}

// Bold wraps the escaped text in <b> tags.
func Bold(s string) string {
	return "<b>" + Escape(s) + "</b>"
}
