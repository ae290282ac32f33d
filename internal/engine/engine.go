// Package engine implements the conversation state machine of the recipe bot.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/m3rciful/recipebot/core/logger"
	"github.com/m3rciful/recipebot/core/telegram/state"
	"github.com/m3rciful/recipebot/internal/action"
	"github.com/m3rciful/recipebot/internal/catalog"
	"github.com/m3rciful/recipebot/internal/view"
)

const component = "service.catalog"

// Store is the persistence the engine needs.
type Store interface {
	CreateRecipe(ctx context.Context, r *catalog.Recipe) error
	Recipe(ctx context.Context, id int64) (catalog.Recipe, error)
	RecipesByCategory(ctx context.Context, c catalog.Category) ([]catalog.Recipe, error)
	UpdateRecipe(ctx context.Context, id int64, patch catalog.RecipePatch) error
	DeleteRecipe(ctx context.Context, id int64) error
	EnsureUser(ctx context.Context, u catalog.User) (bool, error)
	Users(ctx context.Context) ([]catalog.User, error)
}

// Sender identifies who produced an event.
type Sender struct {
	ChatID    int64
	FirstName string
	Username  string
	IsAdmin   bool
}

// Event is an inbound update: ButtonPress or Message.
type Event interface {
	isEvent()
}

// ButtonPress is an inline button callback.
type ButtonPress struct {
	Payload string
}

// Message is a free-form message. Empty fields are absent.
type Message struct {
	Text    string
	PhotoID string
	VideoID string
	Caption string
}

func (ButtonPress) isEvent() {}
func (Message) isEvent() {}

// Options configure an Engine.
type Options struct {
	// MenuPhoto is the image shown with the main menu; empty sends text only.
	MenuPhoto string
	// Now overrides the clock used for first-seen timestamps.
	Now func() time.Time
}

// Engine interprets events against each chat's conversation state.
type Engine struct {
	store    Store
	sessions *state.Table[Conversation]
	opts     Options
}

// New builds an Engine. A nil sessions table gets a fresh one.
func New(store Store, sessions *state.Table[Conversation], opts Options) *Engine {
	if sessions == nil {
		sessions = state.NewTable[Conversation]()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{store: store, sessions: sessions, opts: opts}
}

// Sessions exposes the session table, mainly for diagnostics and tests.
func (e *Engine) Sessions() *state.Table[Conversation] {
	return e.sessions
}

// Handle processes one event and returns the messages to send back, in order.
// Events of one chat are processed one at a time.
func (e *Engine) Handle(ctx context.Context, from Sender, ev Event) ([]view.Message, error) {
	if err := e.registerUser(ctx, from); err != nil {
		return nil, err
	}

	unlock := e.sessions.Lock(from.ChatID)
	defer unlock()

	switch ev := ev.(type) {
	case ButtonPress:
		return e.handleButton(ctx, from, action.Parse(ev.Payload))
	case Message:
		if conv, ok := e.sessions.Get(from.ChatID); ok {
			return e.handleInput(ctx, from, conv, ev)
		}
		return e.handleKeyword(ctx, from, ev)
	}
	return nil, nil
}

func (e *Engine) registerUser(ctx context.Context, from Sender) error {
	created, err := e.store.EnsureUser(ctx, catalog.User{
		ChatID:    from.ChatID,
		FirstName: from.FirstName,
		Username:  from.Username,
		FirstSeen: e.opts.Now(),
	})
	if err != nil {
		return fmt.Errorf("register user %d: %w", from.ChatID, err)
	}
	if created {
		logger.Info(ctx, component, "user.registered",
			slog.Int64("chat_id", from.ChatID),
			slog.String("username", logger.SanitizeLimit(from.Username, 64)),
		)
	}
	return nil
}

func (e *Engine) handleButton(ctx context.Context, from Sender, a action.Action) ([]view.Message, error) {
	if a.Kind.AdminOnly() && !from.IsAdmin {
		logger.Debug(ctx, component, "action.unauthorized",
			slog.String("status", "skip"),
			slog.String("op", a.Kind.String()),
		)
		return nil, nil
	}

	switch a.Kind {
	case action.ListCategory:
		return e.listCategory(ctx, a.Category)
	case action.ShowRecipe:
		r, err := e.store.Recipe(ctx, a.RecipeID)
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("show recipe %d: %w", a.RecipeID, err)
		}
		return []view.Message{view.RecipeDetail(r, from.IsAdmin)}, nil
	case action.EditMenu:
		return []view.Message{view.EditMenu(a.RecipeID)}, nil
	case action.EditTitle:
		e.sessions.Set(from.ChatID, awaitEdit(AwaitingEditedTitle, a.RecipeID))
		return []view.Message{view.Text(view.AskNewTitle)}, nil
	case action.EditDescription:
		e.sessions.Set(from.ChatID, awaitEdit(AwaitingEditedDescription, a.RecipeID))
		return []view.Message{view.Text(view.AskNewDesc)}, nil
	case action.EditMedia:
		e.sessions.Set(from.ChatID, awaitEdit(AwaitingEditedMedia, a.RecipeID))
		return []view.Message{view.Text(view.AskNewMedia)}, nil
	case action.Delete:
		return e.deleteRecipe(ctx, a.RecipeID)
	case action.AddToCategory:
		e.sessions.Set(from.ChatID, awaitTitle(a.Category))
		return []view.Message{view.Text(view.AskTitle(a.Category))}, nil
	case action.AdminAdd:
		return []view.Message{view.CategoryChoice()}, nil
	case action.MainMenu:
		return []view.Message{e.mainMenu(from)}, nil
	}
	return nil, nil
}

func (e *Engine) handleKeyword(ctx context.Context, from Sender, msg Message) ([]view.Message, error) {
	text := strings.ToLower(strings.TrimSpace(msg.Text))

	switch text {
	case "/users":
		if !from.IsAdmin {
			return nil, nil
		}
		users, err := e.store.Users(ctx)
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		return []view.Message{view.UserRoster(users)}, nil
	case "/add":
		if !from.IsAdmin {
			return nil, nil
		}
		return []view.Message{view.CategoryChoice()}, nil
	}

	if text != "" && isMenuRequest(text) {
		return []view.Message{e.mainMenu(from)}, nil
	}
	return []view.Message{view.Text(view.NotUnderstood)}, nil
}

var menuTriggers = []string{"/menu", "/start", "привет"}

func isMenuRequest(text string) bool {
	for _, kw := range menuTriggers {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func (e *Engine) mainMenu(from Sender) view.Message {
	return view.MainMenu(e.opts.MenuPhoto, from.IsAdmin)
}

func (e *Engine) listCategory(ctx context.Context, c catalog.Category) ([]view.Message, error) {
	recipes, err := e.store.RecipesByCategory(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c, err)
	}
	return []view.Message{view.CategoryList(c, recipes)}, nil
}

func (e *Engine) deleteRecipe(ctx context.Context, id int64) ([]view.Message, error) {
	r, err := e.store.Recipe(ctx, id)
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load recipe %d: %w", id, err)
	}
	if err := e.store.DeleteRecipe(ctx, id); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("delete recipe %d: %w", id, err)
	}
	logger.Info(ctx, component, "recipe.deleted",
		slog.Int64("recipe_id", id),
		slog.String("category", string(r.Category)),
	)

	list, err := e.listCategory(ctx, r.Category)
	if err != nil {
		return nil, err
	}
	return append([]view.Message{view.Text(view.Deleted)}, list...), nil
}
