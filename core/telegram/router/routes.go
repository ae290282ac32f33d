// Package router binds handlers to telebot endpoints and logs one summary
// line per handled update.
package router

import (
	"log/slog"

	"github.com/m3rciful/recipebot/core/logger"
	tg "github.com/m3rciful/recipebot/core/telegram"
	"github.com/m3rciful/recipebot/core/telegram/callbacks"
	"github.com/m3rciful/recipebot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// CallbackRoute routes every inline button press to handler. The press is
// acknowledged before handler runs so the client stops its spinner even when
// handling fails; acknowledgement errors are ignored.
func CallbackRoute(handler tele.HandlerFunc) tg.Route {
	return tg.Route{
		Endpoint: tele.OnCallback,
		Handler: func(c tele.Context) error {
			if c.Callback() == nil {
				return nil
			}
			_ = c.Respond()
			payload := callbacks.Payload(c)
			return handleWithSummary(c, "callback", func() error {
				return handler(c)
			}, slog.String("payload", logger.SanitizeLimit(payload, 64)))
		},
	}
}

// MessageRoutes routes every kind of chat message to handler. Photos and
// videos get their own endpoints; the remaining media (stickers, documents,
// voice, animations) reach tele.OnMedia.
func MessageRoutes(handler tele.HandlerFunc) []tg.Route {
	wrap := func(name string) tele.HandlerFunc {
		return func(c tele.Context) error {
			return handleWithSummary(c, name, func() error { return handler(c) })
		}
	}
	return []tg.Route{
		{Endpoint: tele.OnText, Handler: wrap("text")},
		{Endpoint: tele.OnPhoto, Handler: wrap("photo")},
		{Endpoint: tele.OnVideo, Handler: wrap("video")},
		{Endpoint: tele.OnMedia, Handler: wrap("media")},
		{Endpoint: tele.OnContact, Handler: wrap("contact")},
		{Endpoint: tele.OnLocation, Handler: wrap("location")},
		{Endpoint: tele.OnDice, Handler: wrap("dice")},
	}
}

// CommandRouteOptions configures how commands are wrapped and exposed.
type CommandRouteOptions struct {
	AdminID       int64
	OnAdminReject tele.HandlerFunc
}

// CommandRoutes binds every registered command, gating admin-only ones.
func CommandRoutes(reg *tg.Registry, opts CommandRouteOptions) []tg.Route {
	if reg == nil {
		return nil
	}

	adminOnly := middleware.AdminOnlyMiddleware(middleware.AdminOptions{
		AdminID:  opts.AdminID,
		OnReject: opts.OnAdminReject,
	})

	routes := make([]tg.Route, 0, len(reg.Commands()))
	for cmd, def := range reg.Commands() {
		name, h := normalizeHandlerName(cmd), def.Handler
		if def.AdminOnly {
			h = adminOnly(h)
		}
		routes = append(routes, tg.Route{
			Endpoint: cmd,
			Handler: func(c tele.Context) error {
				return handleWithSummary(c, name, func() error { return h(c) })
			},
		})
	}

	logger.Info(logger.Background(), "tg.wire", "complete",
		slog.Int("commands", len(routes)),
	)
	return routes
}
