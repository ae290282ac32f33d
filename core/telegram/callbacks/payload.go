// Package callbacks extracts callback data from inline button presses.
package callbacks

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// Payload returns the raw callback data of the current update. Buttons built
// through telebot's unique-endpoint helpers carry a leading "\f<unique>|"; that
// prefix is folded back into "<unique>|<data>" so callers see one string.
func Payload(c tele.Context) string {
	cb := c.Callback()
	if cb == nil {
		return ""
	}
	return FromCallback(cb)
}

// FromCallback is Payload for an already extracted callback.
func FromCallback(cb *tele.Callback) string {
	if cb.Unique != "" {
		if cb.Data == "" {
			return cb.Unique
		}
		return cb.Unique + "|" + cb.Data
	}
	return strings.TrimPrefix(cb.Data, "\f")
}
