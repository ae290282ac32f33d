package bot

import (
	"errors"
	"strings"
	"testing"

	coredatabase "github.com/m3rciful/recipebot/core/database"
	"github.com/m3rciful/recipebot/core/telegram/middleware"
	"github.com/m3rciful/recipebot/internal/engine"
	"github.com/m3rciful/recipebot/internal/storage"
	"github.com/m3rciful/recipebot/internal/view"

	tele "gopkg.in/telebot.v4"
)

const adminID = 100

type sent struct {
	what any
	opts *tele.SendOptions
}

// recorder captures outgoing messages instead of calling the Bot API.
type recorder struct {
	tele.Context
	out  []sent
	fail error
}

func (r *recorder) Send(what any, opts ...any) error {
	if r.fail != nil {
		return r.fail
	}
	s := sent{what: what}
	if len(opts) > 0 {
		s.opts, _ = opts[0].(*tele.SendOptions)
	}
	r.out = append(r.out, s)
	return nil
}

func newBot(t *testing.T) *tele.Bot {
	t.Helper()
	b, err := tele.NewBot(tele.Settings{Offline: true})
	if err != nil {
		t.Fatalf("bot: %v", err)
	}
	return b
}

func newHandler(t *testing.T) *Handler {
	t.Helper()
	cfg := coredatabase.Config{Path: ":memory:"}
	db, err := coredatabase.Connect(cfg)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := coredatabase.RunMigrations(db, cfg, storage.Migrations()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(engine.New(storage.New(db), nil, engine.Options{}), adminID)
}

// deliver runs u through the admin flag middleware and h, recording replies.
func deliver(t *testing.T, b *tele.Bot, h *Handler, u tele.Update) *recorder {
	t.Helper()
	rec := &recorder{Context: b.NewContext(u)}
	run := middleware.AdminFlagMiddleware(adminID)(h.Handle)
	if err := run(rec); err != nil {
		t.Fatalf("handle: %v", err)
	}
	return rec
}

func textFrom(id int64, text string) tele.Update {
	return tele.Update{Message: &tele.Message{
		Text:   text,
		Sender: &tele.User{ID: id, FirstName: "Anna", Username: "anna"},
		Chat:   &tele.Chat{ID: id},
	}}
}

func pressFrom(id int64, data string) tele.Update {
	return tele.Update{Callback: &tele.Callback{
		Data:    data,
		Sender:  &tele.User{ID: id},
		Message: &tele.Message{Chat: &tele.Chat{ID: id}},
	}}
}

func TestEventOf(t *testing.T) {
	b := newBot(t)
	ev, ok := eventOf(b.NewContext(pressFrom(1, "show_3")))
	if !ok || ev != (engine.ButtonPress{Payload: "show_3"}) {
		t.Fatalf("callback event = %#v", ev)
	}

	photo := tele.Update{Message: &tele.Message{
		Caption: "Tasty",
		Photo:   &tele.Photo{File: tele.File{FileID: "AgACph"}},
		Chat:    &tele.Chat{ID: 1},
	}}
	ev, ok = eventOf(b.NewContext(photo))
	want := engine.Message{PhotoID: "AgACph", Caption: "Tasty"}
	if !ok || ev != want {
		t.Fatalf("photo event = %#v", ev)
	}

	if _, ok := eventOf(b.NewContext(tele.Update{})); ok {
		t.Fatal("empty update must be ignored")
	}
}

func TestOutgoing(t *testing.T) {
	what, opts := outgoing(view.MainMenu("https://example.com/menu.jpg", false))
	photo, ok := what.(*tele.Photo)
	if !ok || photo.FileURL != "https://example.com/menu.jpg" || photo.Caption != view.MenuCaption {
		t.Fatalf("menu = %#v", what)
	}
	if opts.ReplyMarkup == nil || opts.ReplyMarkup.InlineKeyboard[0][0].Data != "pan" {
		t.Fatalf("menu markup = %#v", opts.ReplyMarkup)
	}

	what, opts = outgoing(view.Message{Kind: view.KindVideo, Media: "BAADvid", Text: "cap"})
	video, ok := what.(*tele.Video)
	if !ok || video.FileID != "BAADvid" || video.Caption != "cap" || opts.ReplyMarkup != nil {
		t.Fatalf("video = %#v", what)
	}

	what, opts = outgoing(view.Message{Kind: view.KindText, Text: "<b>x</b>", HTML: true})
	if what != "<b>x</b>" || opts.ParseMode != tele.ModeHTML {
		t.Fatalf("html text = %#v %#v", what, opts)
	}
}

func TestHandleMenuAndBrowse(t *testing.T) {
	b, h := newBot(t), newHandler(t)

	rec := deliver(t, b, h, textFrom(5, "Привет!"))
	if len(rec.out) != 1 || rec.out[0].what != view.MenuCaption {
		t.Fatalf("menu replies = %#v", rec.out)
	}
	for _, row := range rec.out[0].opts.ReplyMarkup.InlineKeyboard {
		for _, btn := range row {
			if btn.Data == "admin_add" {
				t.Fatal("non-admin menu offers admin_add")
			}
		}
	}

	rec = deliver(t, b, h, pressFrom(5, "oven"))
	if len(rec.out) != 1 || rec.out[0].what != "📂 Духовка" {
		t.Fatalf("list replies = %#v", rec.out)
	}
}

func TestHandleAdminAddFlow(t *testing.T) {
	b, h := newBot(t), newHandler(t)

	deliver(t, b, h, pressFrom(adminID, "add_cat_pan"))
	deliver(t, b, h, textFrom(adminID, "Pancakes"))
	rec := deliver(t, b, h, textFrom(adminID, "Flour, eggs, milk"))
	if len(rec.out) != 2 || rec.out[0].what != view.Saved {
		t.Fatalf("save replies = %#v", rec.out)
	}
	kb := rec.out[1].opts.ReplyMarkup.InlineKeyboard
	if kb[0][0].Text != "Pancakes" || !strings.HasPrefix(kb[0][0].Data, "show_") {
		t.Fatalf("list keyboard = %#v", kb)
	}

	rec = deliver(t, b, h, pressFrom(7, kb[0][0].Data))
	if len(rec.out) != 1 || rec.out[0].opts.ParseMode != tele.ModeHTML {
		t.Fatalf("detail replies = %#v", rec.out)
	}
	if got := rec.out[0].what.(string); !strings.Contains(got, "Pancakes") {
		t.Fatalf("detail = %q", got)
	}
}

func TestHandleNonAdminAddIsSilent(t *testing.T) {
	b, h := newBot(t), newHandler(t)
	rec := deliver(t, b, h, pressFrom(7, "add_cat_pan"))
	if len(rec.out) != 0 {
		t.Fatalf("replies = %#v", rec.out)
	}
	rec = deliver(t, b, h, textFrom(7, "Pancakes"))
	if len(rec.out) != 1 || rec.out[0].what != view.NotUnderstood {
		t.Fatalf("follow-up replies = %#v", rec.out)
	}
}

func TestHandleReportsSendFailure(t *testing.T) {
	b, h := newBot(t), newHandler(t)
	rec := &recorder{Context: b.NewContext(textFrom(5, "/menu")), fail: errors.New("blocked")}
	if err := h.Handle(rec); err == nil {
		t.Fatal("expected send error")
	}
}

func groupText(chatID, senderID int64, text string) tele.Update {
	return tele.Update{Message: &tele.Message{
		Text:   text,
		Sender: &tele.User{ID: senderID, FirstName: "Member"},
		Chat:   &tele.Chat{ID: chatID, Type: tele.ChatGroup},
	}}
}

func TestAdminInGroupCannotEdit(t *testing.T) {
	b, h := newBot(t), newHandler(t)

	deliver(t, b, h, pressFrom(adminID, "add_cat_pan"))
	deliver(t, b, h, textFrom(adminID, "Pancakes"))
	rec := deliver(t, b, h, textFrom(adminID, "Flour, eggs, milk"))
	id := strings.TrimPrefix(rec.out[1].opts.ReplyMarkup.InlineKeyboard[0][0].Data, "show_")

	press := tele.Update{Callback: &tele.Callback{
		Data:    "edit_title_" + id,
		Sender:  &tele.User{ID: adminID},
		Message: &tele.Message{Chat: &tele.Chat{ID: -500, Type: tele.ChatGroup}},
	}}
	if rec := deliver(t, b, h, press); len(rec.out) != 0 {
		t.Fatalf("group press replies = %#v", rec.out)
	}
	if rec := deliver(t, b, h, groupText(-500, 7, "hijacked")); len(rec.out) != 1 || rec.out[0].what != view.NotUnderstood {
		t.Fatalf("member replies = %#v", rec.out)
	}

	rec = deliver(t, b, h, pressFrom(adminID, "show_"+id))
	got, _ := rec.out[0].what.(string)
	if !strings.Contains(got, "Pancakes") || strings.Contains(got, "hijacked") {
		t.Fatalf("detail = %q", got)
	}
}

func TestHandleOtherMessageKinds(t *testing.T) {
	b, h := newBot(t), newHandler(t)

	sticker := tele.Update{Message: &tele.Message{
		Sticker: &tele.Sticker{File: tele.File{FileID: "CAACst"}},
		Sender:  &tele.User{ID: 5, FirstName: "Anna"},
		Chat:    &tele.Chat{ID: 5},
	}}
	if rec := deliver(t, b, h, sticker); len(rec.out) != 1 || rec.out[0].what != view.NotUnderstood {
		t.Fatalf("sticker replies = %#v", rec.out)
	}

	deliver(t, b, h, pressFrom(adminID, "add_cat_oven"))
	deliver(t, b, h, textFrom(adminID, "Soup"))
	rec := deliver(t, b, h, textFrom(adminID, "Water"))
	id := strings.TrimPrefix(rec.out[1].opts.ReplyMarkup.InlineKeyboard[0][0].Data, "show_")

	deliver(t, b, h, pressFrom(adminID, "edit_media_"+id))
	doc := tele.Update{Message: &tele.Message{
		Document: &tele.Document{File: tele.File{FileID: "BQACdoc"}},
		Sender:   &tele.User{ID: adminID},
		Chat:     &tele.Chat{ID: adminID},
	}}
	if rec := deliver(t, b, h, doc); len(rec.out) != 1 || rec.out[0].what != view.NeedMedia {
		t.Fatalf("document replies = %#v", rec.out)
	}
}
