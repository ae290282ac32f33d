package helpers

import (
	"testing"

	"github.com/m3rciful/recipebot/core/logger"

	tele "gopkg.in/telebot.v4"
)

func TestBuildContextCachesMeta(t *testing.T) {
	bot, err := tele.NewBot(tele.Settings{Offline: true})
	if err != nil {
		t.Fatalf("bot: %v", err)
	}
	c := bot.NewContext(tele.Update{
		ID: 10,
		Message: &tele.Message{
			Text:   "/menu",
			Sender: &tele.User{ID: 5},
			Chat:   &tele.Chat{ID: 7},
		},
	})

	ctx := BuildContext(c)
	if got := logger.RIDFrom(ctx); got != "10:7:5" {
		t.Fatalf("rid = %q", got)
	}
	if got := logger.ChatIDFrom(ctx); got != 7 {
		t.Fatalf("chat id = %d", got)
	}

	WithHandler(c, "text")
	if got := logger.HandlerFrom(BuildContext(c)); got != "text" {
		t.Fatalf("handler = %q", got)
	}
}
