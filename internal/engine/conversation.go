package engine

import "github.com/m3rciful/recipebot/internal/catalog"

// Step names the input a chat is expected to send next.
type Step int

const (
	Idle Step = iota
	AwaitingRecipeTitle
	AwaitingRecipeContent
	AwaitingEditedTitle
	AwaitingEditedDescription
	AwaitingEditedMedia
)

var stepNames = [...]string{
	Idle:                      "idle",
	AwaitingRecipeTitle:       "awaiting_recipe_title",
	AwaitingRecipeContent:     "awaiting_recipe_content",
	AwaitingEditedTitle:       "awaiting_edited_title",
	AwaitingEditedDescription: "awaiting_edited_description",
	AwaitingEditedMedia:       "awaiting_edited_media",
}

func (s Step) String() string {
	if int(s) >= 0 && int(s) < len(stepNames) {
		return stepNames[s]
	}
	return "unknown"
}

// Conversation is the per-chat state. Which fields are meaningful depends on
// Step: Category (and Title) for the add flow, RecipeID for the edit flows.
// The zero value is Idle.
type Conversation struct {
	Step     Step
	Category catalog.Category
	Title    string
	RecipeID int64
}

func awaitTitle(c catalog.Category) Conversation {
	return Conversation{Step: AwaitingRecipeTitle, Category: c}
}

func awaitContent(c catalog.Category, title string) Conversation {
	return Conversation{Step: AwaitingRecipeContent, Category: c, Title: title}
}

func awaitEdit(step Step, id int64) Conversation {
	return Conversation{Step: step, RecipeID: id}
}
