package middleware

import tele "gopkg.in/telebot.v4"

const keyAdmin = "is_admin"

// AdminOptions defines how admin-only checks should behave.
type AdminOptions struct {
	AdminID  int64
	OnReject tele.HandlerFunc
}

// AdminFlagMiddleware records whether the update comes from the admin chat so
// handlers can read it with IsAdmin. The chat decides, not the sender.
func AdminFlagMiddleware(adminID int64) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(keyAdmin, isAdminChat(c, adminID))
			return next(c)
		}
	}
}

// isAdminChat compares the update's chat with adminID. For button presses
// tele.Context resolves the chat of the message carrying the keyboard.
func isAdminChat(c tele.Context, adminID int64) bool {
	chat := c.Chat()
	return adminID != 0 && chat != nil && chat.ID == adminID
}

// IsAdmin reports the flag stored by AdminFlagMiddleware.
func IsAdmin(c tele.Context) bool {
	ok, _ := c.Get(keyAdmin).(bool)
	return ok
}

// AdminOnlyMiddleware ensures that only the admin chat can invoke downstream
// handlers. Other chats get OnReject, or nothing when it is nil.
func AdminOnlyMiddleware(opts AdminOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if !isAdminChat(c, opts.AdminID) {
				if opts.OnReject != nil {
					return opts.OnReject(c)
				}
				return nil
			}
			return next(c)
		}
	}
}
