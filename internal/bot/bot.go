// Package bot adapts telebot updates to the conversation engine and delivers
// the rendered replies.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"github.com/m3rciful/recipebot/core/logger"
	tg "github.com/m3rciful/recipebot/core/telegram"
	"github.com/m3rciful/recipebot/core/telegram/callbacks"
	"github.com/m3rciful/recipebot/core/telegram/commands"
	tghelpers "github.com/m3rciful/recipebot/core/telegram/helpers"
	"github.com/m3rciful/recipebot/core/telegram/keyboard"
	"github.com/m3rciful/recipebot/core/telegram/middleware"
	"github.com/m3rciful/recipebot/core/telegram/router"
	"github.com/m3rciful/recipebot/internal/engine"
	"github.com/m3rciful/recipebot/internal/view"

	tele "gopkg.in/telebot.v4"
)

const component = "service.catalog"

// Handler feeds updates to an engine.
type Handler struct {
	engine  *engine.Engine
	adminID int64
}

// New returns a Handler for e. adminID gates the admin-only commands.
func New(e *engine.Engine, adminID int64) *Handler {
	return &Handler{engine: e, adminID: adminID}
}

// Register adds the bot's slash commands to reg. Every command is served by
// the same engine entry point; the registry only decides routing and the
// command menu.
func (h *Handler) Register(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{Handler: h.Handle, Description: "Начать", Hidden: true})
	reg.RegisterCommand("/menu", commands.Command{Handler: h.Handle, Description: "Главное меню"})
	reg.RegisterCommand("/add", commands.Command{Handler: h.Handle, Description: "Добавить рецепт", AdminOnly: true})
	reg.RegisterCommand("/users", commands.Command{Handler: h.Handle, Description: "Пользователи", AdminOnly: true})
}

// Routes returns every telebot route the bot serves.
func (h *Handler) Routes(reg *tg.Registry) []tg.Route {
	routes := []tg.Route{router.CallbackRoute(h.Handle)}
	routes = append(routes, router.MessageRoutes(h.Handle)...)
	return append(routes, router.CommandRoutes(reg, router.CommandRouteOptions{AdminID: h.adminID})...)
}

// Handle runs one update through the engine and sends the replies in order.
// Engine failures are logged and answered with a generic apology.
func (h *Handler) Handle(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	from, ok := senderOf(c)
	if !ok {
		return nil
	}
	ev, ok := eventOf(c)
	if !ok {
		return nil
	}

	replies, err := h.engine.Handle(ctx, from, ev)
	if err != nil {
		logger.Error(ctx, component, "event.failed", slog.String("err", err.Error()))
		replies = []view.Message{view.Text(view.SomethingBroken)}
	}
	return send(ctx, c, replies)
}

func senderOf(c tele.Context) (engine.Sender, bool) {
	chat := c.Chat()
	if chat == nil {
		return engine.Sender{}, false
	}
	from := engine.Sender{ChatID: chat.ID, IsAdmin: middleware.IsAdmin(c)}
	if u := c.Sender(); u != nil {
		from.FirstName = u.FirstName
		from.Username = u.Username
	}
	return from, true
}

// eventOf converts the update into an engine event. Updates that are neither
// button presses nor messages are ignored.
func eventOf(c tele.Context) (engine.Event, bool) {
	if c.Callback() != nil {
		return engine.ButtonPress{Payload: callbacks.Payload(c)}, true
	}
	msg := c.Message()
	if msg == nil {
		return nil, false
	}
	ev := engine.Message{Text: msg.Text, Caption: msg.Caption}
	if msg.Photo != nil {
		ev.PhotoID = msg.Photo.FileID
	}
	if msg.Video != nil {
		ev.VideoID = msg.Video.FileID
	}
	return ev, true
}

func send(ctx context.Context, c tele.Context, replies []view.Message) error {
	for i, m := range replies {
		what, opts := outgoing(m)
		if err := c.Send(what, opts); err != nil {
			return fmt.Errorf("send reply %d/%d: %w", i+1, len(replies), err)
		}
	}
	if len(replies) == 0 {
		logger.Debug(ctx, component, "event.silent")
	}
	return nil
}

// outgoing maps a rendered message to what telebot sends.
func outgoing(m view.Message) (any, *tele.SendOptions) {
	opts := &tele.SendOptions{ReplyMarkup: markup(m.Keyboard)}
	if m.HTML {
		opts.ParseMode = tele.ModeHTML
	}
	switch m.Kind {
	case view.KindPhoto:
		return &tele.Photo{File: mediaFile(m.Media), Caption: m.Text}, opts
	case view.KindVideo:
		return &tele.Video{File: mediaFile(m.Media), Caption: m.Text}, opts
	}
	return m.Text, opts
}

// mediaFile treats http(s) references as URLs and anything else as a Telegram file id.
func mediaFile(ref string) tele.File {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return tele.FromURL(ref)
	}
	return tele.File{FileID: ref}
}

func markup(rows [][]view.Button) *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(lo.Map(rows, func(row []view.Button, _ int) []keyboard.InlineBtn {
		return lo.Map(row, func(b view.Button, _ int) keyboard.InlineBtn {
			return keyboard.InlineBtn{Text: b.Text, Data: b.Data}
		})
	})...)
}
