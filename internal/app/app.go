// Package app assembles the recipe bot from configuration.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/recipebot/core/bootstrap"
	corecmd "github.com/m3rciful/recipebot/core/cmd"
	"github.com/m3rciful/recipebot/core/logger"
	coretelegram "github.com/m3rciful/recipebot/core/telegram"
	"github.com/m3rciful/recipebot/internal/bot"
	"github.com/m3rciful/recipebot/internal/config"
	"github.com/m3rciful/recipebot/internal/engine"
	"github.com/m3rciful/recipebot/internal/storage"
)

// App owns the database handle and the engine for one bot process.
type App struct {
	cfg     *config.Config
	db      *sqlx.DB
	engine  *engine.Engine
	handler *bot.Handler
}

// LoadConfig adapts config.Load to the runner.
func LoadConfig(path string) (corecmd.ConfigCarrier, error) {
	return config.Load(path)
}

// Bootstrap initializes logging and storage and builds the engine.
func Bootstrap(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
	cfg, ok := carrier.(*config.Config)
	if !ok {
		return nil, fmt.Errorf("app: unexpected config type %T", carrier)
	}
	res, err := bootstrap.Run(bootstrap.Options{
		Config:     cfg.CoreConfig(),
		Database:   cfg.Database,
		Migrations: storage.Migrations(),
	})
	if err != nil {
		return nil, err
	}
	return New(cfg, res.DB), nil
}

// New wires the store, engine, and Telegram handler around an open database.
func New(cfg *config.Config, db *sqlx.DB) *App {
	eng := engine.New(storage.New(db), nil, engine.Options{MenuPhoto: cfg.MenuPhoto()})
	return &App{
		cfg:     cfg,
		db:      db,
		engine:  eng,
		handler: bot.New(eng, cfg.Telegram.AdminID),
	}
}

// TelegramRunOptions describes the bot runtime: middleware, routes, and commands.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	a.handler.Register(reg)
	return coretelegram.RunOptions{
		Config:      a.cfg.CoreConfig(),
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(a.cfg.CoreConfig()),
		Routes:      a.handler.Routes(reg),
		OnStop: func(ctx context.Context, _ coretelegram.Runtime) error {
			logger.Info(ctx, "service.catalog", "sessions.dropped",
				slog.Int("count", a.engine.Sessions().Len()),
			)
			return nil
		},
	}, nil
}

// Close releases the database.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
