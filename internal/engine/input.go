package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/m3rciful/recipebot/core/logger"
	"github.com/m3rciful/recipebot/internal/catalog"
	"github.com/m3rciful/recipebot/internal/view"
)

// handleInput consumes a message for a chat that has an active conversation.
func (e *Engine) handleInput(ctx context.Context, from Sender, conv Conversation, msg Message) ([]view.Message, error) {
	logger.Debug(ctx, component, "conversation.input",
		slog.String("state", conv.Step.String()),
	)
	switch conv.Step {
	case AwaitingRecipeTitle:
		return e.acceptTitle(from, conv, msg)
	case AwaitingRecipeContent:
		return e.acceptContent(ctx, from, conv, msg)
	case AwaitingEditedTitle, AwaitingEditedDescription, AwaitingEditedMedia:
		return e.acceptEdit(ctx, from, conv, msg)
	}
	e.sessions.Clear(from.ChatID)
	return nil, nil
}

func (e *Engine) acceptTitle(from Sender, conv Conversation, msg Message) ([]view.Message, error) {
	if msg.Text == "" {
		return []view.Message{view.Text(view.AskTitleAgain)}, nil
	}
	if !e.sessions.CompareAndSwap(from.ChatID, conv, awaitContent(conv.Category, msg.Text)) {
		return nil, nil
	}
	return []view.Message{view.Text(view.AskContent)}, nil
}

// contentMedia picks the recipe body from a message: photo, then video, then
// text. ok is false when the message carries none of them.
func contentMedia(msg Message) (media catalog.Media, description string, ok bool) {
	switch {
	case msg.PhotoID != "":
		return catalog.PhotoMedia(msg.PhotoID), msg.Caption, true
	case msg.VideoID != "":
		return catalog.VideoMedia(msg.VideoID), msg.Caption, true
	case msg.Text != "":
		return catalog.TextMedia(), msg.Text, true
	}
	return catalog.Media{}, "", false
}

func (e *Engine) acceptContent(ctx context.Context, from Sender, conv Conversation, msg Message) ([]view.Message, error) {
	media, description, ok := contentMedia(msg)
	if !ok {
		return []view.Message{view.Text(view.AskContent)}, nil
	}

	r := catalog.Recipe{
		Title:       conv.Title,
		Description: description,
		Category:    conv.Category,
		Media:       media,
	}
	if err := e.store.CreateRecipe(ctx, &r); err != nil {
		return nil, fmt.Errorf("create recipe: %w", err)
	}
	e.sessions.CompareAndSwap(from.ChatID, conv, Conversation{})
	logger.Info(ctx, component, "recipe.created",
		slog.Int64("recipe_id", r.ID),
		slog.String("category", string(r.Category)),
		slog.String("media", string(r.Media.Kind)),
	)

	list, err := e.listCategory(ctx, r.Category)
	if err != nil {
		return nil, err
	}
	return append([]view.Message{view.Text(view.Saved)}, list...), nil
}

func (e *Engine) acceptEdit(ctx context.Context, from Sender, conv Conversation, msg Message) ([]view.Message, error) {
	if _, err := e.store.Recipe(ctx, conv.RecipeID); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			e.sessions.CompareAndSwap(from.ChatID, conv, Conversation{})
			return []view.Message{view.Text(view.RecipeNotFound)}, nil
		}
		return nil, fmt.Errorf("load recipe %d: %w", conv.RecipeID, err)
	}

	var (
		patch   catalog.RecipePatch
		confirm string
	)
	switch conv.Step {
	case AwaitingEditedTitle:
		if msg.Text == "" {
			return []view.Message{view.Text(view.AskNewTitle)}, nil
		}
		title := msg.Text
		patch.Title = &title
		confirm = view.TitleUpdated
	case AwaitingEditedDescription:
		if msg.Text == "" {
			return []view.Message{view.Text(view.NeedText)}, nil
		}
		desc := msg.Text
		patch.Description = &desc
		confirm = view.DescUpdated
	case AwaitingEditedMedia:
		var media catalog.Media
		switch {
		case msg.PhotoID != "":
			media = catalog.PhotoMedia(msg.PhotoID)
		case msg.VideoID != "":
			media = catalog.VideoMedia(msg.VideoID)
		default:
			return []view.Message{view.Text(view.NeedMedia)}, nil
		}
		patch.Media = &media
		if msg.Caption != "" {
			caption := msg.Caption
			patch.Description = &caption
		}
		confirm = view.MediaUpdated
	}

	if err := e.store.UpdateRecipe(ctx, conv.RecipeID, patch); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			e.sessions.CompareAndSwap(from.ChatID, conv, Conversation{})
			return []view.Message{view.Text(view.RecipeNotFound)}, nil
		}
		return nil, fmt.Errorf("update recipe %d: %w", conv.RecipeID, err)
	}
	e.sessions.CompareAndSwap(from.ChatID, conv, Conversation{})
	logger.Info(ctx, component, "recipe.updated",
		slog.Int64("recipe_id", conv.RecipeID),
		slog.String("state", conv.Step.String()),
	)

	return []view.Message{view.Text(confirm), e.mainMenu(from)}, nil
}
