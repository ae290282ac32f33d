package middleware

import (
	"errors"
	"testing"

	tele "gopkg.in/telebot.v4"
)

func newContext(t *testing.T, senderID int64) tele.Context {
	return newChatContext(t, senderID, senderID)
}

func newChatContext(t *testing.T, chatID, senderID int64) tele.Context {
	t.Helper()
	bot, err := tele.NewBot(tele.Settings{Offline: true})
	if err != nil {
		t.Fatalf("bot: %v", err)
	}
	return bot.NewContext(tele.Update{
		ID: 1,
		Message: &tele.Message{
			Text:   "hi",
			Sender: &tele.User{ID: senderID},
			Chat:   &tele.Chat{ID: chatID, Type: chatType(chatID)},
		},
	})
}

func chatType(chatID int64) tele.ChatType {
	if chatID < 0 {
		return tele.ChatGroup
	}
	return tele.ChatPrivate
}

func TestAdminFlag(t *testing.T) {
	var seen bool
	h := AdminFlagMiddleware(42)(func(c tele.Context) error {
		seen = IsAdmin(c)
		return nil
	})
	if err := h(newContext(t, 42)); err != nil || !seen {
		t.Fatalf("admin not flagged: err=%v seen=%v", err, seen)
	}
	if err := h(newContext(t, 7)); err != nil || seen {
		t.Fatalf("non-admin flagged: err=%v seen=%v", err, seen)
	}
}

func TestAdminOnlyDropsOthers(t *testing.T) {
	called := false
	h := AdminOnlyMiddleware(AdminOptions{AdminID: 42})(func(tele.Context) error {
		called = true
		return nil
	})
	if err := h(newContext(t, 7)); err != nil || called {
		t.Fatalf("non-admin reached handler: err=%v called=%v", err, called)
	}
	if err := h(newContext(t, 42)); err != nil || !called {
		t.Fatalf("admin blocked: err=%v called=%v", err, called)
	}
}

func TestAdminIsDecidedByChat(t *testing.T) {
	var seen bool
	flag := AdminFlagMiddleware(42)(func(c tele.Context) error {
		seen = IsAdmin(c)
		return nil
	})
	if err := flag(newChatContext(t, -500, 42)); err != nil || seen {
		t.Fatalf("admin sender in group flagged: err=%v seen=%v", err, seen)
	}

	called := false
	only := AdminOnlyMiddleware(AdminOptions{AdminID: 42})(func(tele.Context) error {
		called = true
		return nil
	})
	if err := only(newChatContext(t, -500, 42)); err != nil || called {
		t.Fatalf("admin sender in group passed: err=%v called=%v", err, called)
	}

	bot, err := tele.NewBot(tele.Settings{Offline: true})
	if err != nil {
		t.Fatalf("bot: %v", err)
	}
	press := bot.NewContext(tele.Update{
		ID: 2,
		Callback: &tele.Callback{
			ID:     "cb",
			Sender: &tele.User{ID: 7},
			Data:   "edit_title_1",
			Message: &tele.Message{
				Chat: &tele.Chat{ID: 42, Type: tele.ChatPrivate},
			},
		},
	})
	if err := flag(press); err != nil || !seen {
		t.Fatalf("press in admin chat not flagged: err=%v seen=%v", err, seen)
	}
}

func TestRecoverSwallowsPanic(t *testing.T) {
	h := RecoverMiddleware(func(tele.Context) error { panic("boom") })
	if err := h(newContext(t, 1)); err != nil {
		t.Fatalf("err = %v", err)
	}
	h = RecoverMiddleware(func(tele.Context) error { return errors.New("plain") })
	if err := h(newContext(t, 1)); err == nil {
		t.Fatal("errors must pass through")
	}
}

func TestLoggerSetsRID(t *testing.T) {
	c := newContext(t, 9)
	h := LoggerMiddleware(func(c tele.Context) error { return nil })
	if err := h(c); err != nil {
		t.Fatalf("err = %v", err)
	}
	if rid, _ := c.Get("rid").(string); rid != "1:9:9" {
		t.Fatalf("rid = %q", rid)
	}
}

func TestCountersDefaultZero(t *testing.T) {
	c := newContext(t, 1)
	var msgs int
	var kb bool
	h := MessageMetricsMiddleware(func(c tele.Context) error {
		msgs, kb = GetCounters(c)
		return nil
	})
	if err := h(c); err != nil {
		t.Fatalf("err = %v", err)
	}
	if msgs != 0 || kb {
		t.Fatalf("counters = %d %v", msgs, kb)
	}
}
