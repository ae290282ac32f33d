package middleware

import (
	"log/slog"
	"time"

	"github.com/m3rciful/recipebot/core/logger"
	"github.com/m3rciful/recipebot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/recipebot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// LoggerMiddleware assigns the correlation id for the update and logs its receipt.
func LoggerMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		var chatID, userID int64
		if chat := c.Chat(); chat != nil {
			chatID = chat.ID
		}
		user := c.Sender()
		if user != nil {
			userID = user.ID
		}
		c.Set("rid", logger.BuildRID(c.Update().ID, chatID, userID))
		c.Set("update_start", time.Now())
		ctx := tghelpers.BuildContext(c)

		attrs := []slog.Attr{slog.String("status", "ok")}
		if user != nil && user.Username != "" {
			attrs = append(attrs, slog.String("username", logger.SanitizeLimit(user.Username, 64)))
		}
		switch {
		case c.Callback() != nil:
			attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(callbacks.Payload(c), 128)))
		case c.Message() != nil:
			msg := c.Message()
			attrs = append(attrs,
				slog.String("payload", logger.SanitizeLimit(c.Text(), 256)),
				slog.Bool("photo", msg.Photo != nil),
				slog.Bool("video", msg.Video != nil),
			)
		}
		logger.Debug(ctx, "tg", "update.received", attrs...)

		return next(c)
	}
}
