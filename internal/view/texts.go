package view

import "github.com/m3rciful/recipebot/internal/catalog"

// Dialog texts.
const (
	MenuCaption = "ПП рецепты на каждый день. Выбери категорию:"

	NotUnderstood   = "Я вас не понимаю 🤷‍♂️\nНажмите /menu"
	SomethingBroken = "⚠️ Что-то пошло не так. Попробуйте ещё раз позже."

	AskContent     = "Теперь пришлите Рецепт (Текст, Фото или Видео)."
	AskTitleAgain  = "Пришлите название текстом."
	AskNewTitle    = "Введите новое название:"
	AskNewDesc     = "Введите новое описание:"
	AskNewMedia    = "Пришлите новое фото или видео:"
	NeedMedia      = "Нужно фото или видео."
	NeedText       = "Пришлите текст."
	RecipeNotFound = "Ошибка: Рецепт не найден."

	Saved        = "✅ Рецепт сохранен!"
	Deleted      = "✅ Удалено."
	TitleUpdated = "✅ Название обновлено."
	DescUpdated  = "✅ Описание обновлено."
	MediaUpdated = "✅ Медиа обновлено."
)

// AskTitle is the prompt sent when an add flow starts. It names the category
// by its key.
func AskTitle(c catalog.Category) string {
	return "Категория: " + string(c) + ". Введите Название:"
}
