package telegram

import (
	coreconfig "github.com/m3rciful/recipebot/core/config"
	"github.com/m3rciful/recipebot/core/telegram/middleware"
)

// DefaultMiddlewares builds the global middleware chain, outermost first.
func DefaultMiddlewares(cfg *coreconfig.Config) []Middleware {
	var adminID int64
	if cfg != nil {
		adminID = cfg.Telegram.AdminID
	}
	return []Middleware{
		{Name: "recover", Use: middleware.RecoverMiddleware},
		{Name: "logger", Use: middleware.LoggerMiddleware},
		{Name: "admin", Use: middleware.AdminFlagMiddleware(adminID)},
		{Name: "metrics", Use: middleware.MessageMetricsMiddleware},
	}
}
