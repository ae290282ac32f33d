// Package view renders catalog objects into outbound message descriptors.
// Renderers are pure: they never talk to Telegram or the store.
package view

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/m3rciful/recipebot/core/telegram/format"
	"github.com/m3rciful/recipebot/internal/action"
	"github.com/m3rciful/recipebot/internal/catalog"
)

// Kind selects how a message is delivered.
type Kind int

const (
	KindText Kind = iota
	KindPhoto
	KindVideo
)

// Button is an inline keyboard button carrying callback data.
type Button struct {
	Text string
	Data string
}

// Message describes one outbound message. For photo and video messages Text
// is the caption and Media is a Telegram file id or an http(s) URL.
type Message struct {
	Kind     Kind
	Text     string
	Media    string
	HTML     bool
	Keyboard [][]Button
}

func btn(text string, a action.Action) Button {
	return Button{Text: text, Data: a.Payload()}
}

// Text renders a plain text message.
func Text(s string) Message {
	return Message{Kind: KindText, Text: s}
}

// MainMenu renders the promotional menu. photo may be empty, in which case the
// caption is sent as text.
func MainMenu(photo string, isAdmin bool) Message {
	rows := [][]Button{
		{btn("🍳 На сковороде", action.List(catalog.CategoryPan)), btn("🧖‍♀️ Духовка", action.List(catalog.CategoryOven))},
		{btn("🥗 Не нужна готовка", action.List(catalog.CategoryNoCook))},
	}
	if isAdmin {
		rows = append(rows, []Button{btn("➕ Добавить рецепт", action.StartAdd())})
	}
	if strings.TrimSpace(photo) == "" {
		return Message{Kind: KindText, Text: MenuCaption, Keyboard: rows}
	}
	return Message{Kind: KindPhoto, Text: MenuCaption, Media: photo, Keyboard: rows}
}

// CategoryList renders the recipes of one category as buttons.
func CategoryList(c catalog.Category, recipes []catalog.Recipe) Message {
	rows := lo.Map(recipes, func(r catalog.Recipe, _ int) []Button {
		return []Button{btn(r.Title, action.Show(r.ID))}
	})
	rows = append(rows, []Button{btn("⬅️ В главное меню", action.Menu())})
	return Message{Kind: KindText, Text: "📂 " + c.Label(), Keyboard: rows}
}

// RecipeDetail renders a recipe card. Admin viewers also get edit and delete
// buttons. The back button reuses the category payload.
func RecipeDetail(r catalog.Recipe, isAdmin bool) Message {
	var rows [][]Button
	if isAdmin {
		rows = append(rows, []Button{
			btn("✏️ Редактировать", action.Edit(r.ID)),
			btn("❌ Удалить", action.Remove(r.ID)),
		})
	}
	rows = append(rows, []Button{btn("🔙 Назад к списку", action.List(r.Category))})

	switch r.Media.Kind {
	case catalog.MediaPhoto:
		return Message{Kind: KindPhoto, Media: r.Media.Ref, Text: r.Description, Keyboard: rows}
	case catalog.MediaVideo:
		return Message{Kind: KindVideo, Media: r.Media.Ref, Text: r.Description, Keyboard: rows}
	default:
		text := format.Bold("🍽 "+r.Title) + "\n\n" + format.Escape(r.Description)
		return Message{Kind: KindText, Text: text, HTML: true, Keyboard: rows}
	}
}

// EditMenu renders the field chooser for a recipe.
func EditMenu(id int64) Message {
	return Message{
		Kind: KindText,
		Text: "Что хотите изменить?",
		Keyboard: [][]Button{
			{btn("📝 Изм. Название", action.EditTitleOf(id))},
			{btn("📄 Изм. Описание", action.EditDescriptionOf(id))},
			{btn("🖼 Изм. Фото/Видео", action.EditMediaOf(id))},
			{btn("🔙 Отмена", action.Show(id))},
		},
	}
}

// CategoryChoice renders the keyboard used to pick a category for a new recipe.
func CategoryChoice() Message {
	return Message{
		Kind: KindText,
		Text: "Куда добавляем?",
		Keyboard: [][]Button{
			{btn("На сковороде", action.AddTo(catalog.CategoryPan)), btn("Духовка", action.AddTo(catalog.CategoryOven))},
			{btn("Без готовки", action.AddTo(catalog.CategoryNoCook))},
		},
	}
}

// UserRoster renders the admin report of everyone who has used the bot.
func UserRoster(users []catalog.User) Message {
	var b strings.Builder
	b.WriteString("📊 " + format.Bold(fmt.Sprintf("Пользователи: %d", len(users))))
	b.WriteString("\n\n")
	for _, u := range users {
		handle := "—"
		if u.Username != "" {
			handle = "@" + u.Username
		}
		fmt.Fprintf(&b, "👤 %s (%s) — %s\n",
			format.Escape(u.FirstName),
			format.Escape(handle),
			u.FirstSeen.Local().Format("02.01.06"),
		)
	}
	return Message{Kind: KindText, Text: b.String(), HTML: true}
}
