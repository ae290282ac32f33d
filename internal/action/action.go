// Package action decodes inline button payloads into typed actions and
// encodes actions back into payloads for keyboards.
//
// Payload strings match what earlier versions of the bot put on buttons, so
// buttons left in old chats keep working.
package action

import (
	"strconv"
	"strings"

	"github.com/m3rciful/recipebot/internal/catalog"
)

// Kind enumerates the button actions the bot understands.
type Kind int

const (
	// Unknown is any payload that does not decode; it is ignored.
	Unknown Kind = iota
	// ListCategory lists recipes of a category. The "back to list" button on
	// a recipe card uses the same payload as the category buttons.
	ListCategory
	ShowRecipe
	EditMenu
	EditTitle
	EditDescription
	EditMedia
	Delete
	AddToCategory
	AdminAdd
	MainMenu
)

const (
	prefixShow      = "show_"
	prefixEditMenu  = "edit_menu_"
	prefixEditTitle = "edit_title_"
	prefixEditDesc  = "edit_desc_"
	prefixEditMedia = "edit_media_"
	prefixDelete    = "del_"
	prefixAddCat    = "add_cat_"

	payloadAdminAdd = "admin_add"
	payloadMainMenu = "main_menu"
)

var kindNames = map[Kind]string{
	Unknown:         "unknown",
	ListCategory:    "list_category",
	ShowRecipe:      "show_recipe",
	EditMenu:        "edit_menu",
	EditTitle:       "edit_title",
	EditDescription: "edit_description",
	EditMedia:       "edit_media",
	Delete:          "delete",
	AddToCategory:   "add_to_category",
	AdminAdd:        "admin_add",
	MainMenu:        "main_menu",
}

// String returns a stable name used in logs.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// AdminOnly reports whether the action may only be used by the admin chat.
func (k Kind) AdminOnly() bool {
	switch k {
	case EditMenu, EditTitle, EditDescription, EditMedia, Delete, AddToCategory, AdminAdd:
		return true
	}
	return false
}

// Action is a decoded button press. Category is set for ListCategory and
// AddToCategory; RecipeID for the recipe-scoped kinds.
type Action struct {
	Kind     Kind
	Category catalog.Category
	RecipeID int64
}

func List(c catalog.Category) Action { return Action{Kind: ListCategory, Category: c} }
func Show(id int64) Action { return Action{Kind: ShowRecipe, RecipeID: id} }
func Edit(id int64) Action { return Action{Kind: EditMenu, RecipeID: id} }
func EditTitleOf(id int64) Action { return Action{Kind: EditTitle, RecipeID: id} }
func EditDescriptionOf(id int64) Action { return Action{Kind: EditDescription, RecipeID: id} }
func EditMediaOf(id int64) Action { return Action{Kind: EditMedia, RecipeID: id} }
func Remove(id int64) Action { return Action{Kind: Delete, RecipeID: id} }
func AddTo(c catalog.Category) Action { return Action{Kind: AddToCategory, Category: c} }
func StartAdd() Action { return Action{Kind: AdminAdd} }
func Menu() Action { return Action{Kind: MainMenu} }

var idPrefixes = []struct {
	prefix string
	kind   Kind
}{
	{prefixShow, ShowRecipe},
	{prefixEditMenu, EditMenu},
	{prefixEditTitle, EditTitle},
	{prefixEditDesc, EditDescription},
	{prefixEditMedia, EditMedia},
	{prefixDelete, Delete},
}

// Parse decodes a callback payload. Unrecognised payloads, including ones
// with a malformed recipe id or category, decode to Unknown.
func Parse(payload string) Action {
	payload = strings.TrimSpace(payload)
	if c, ok := catalog.ParseCategory(payload); ok {
		return List(c)
	}
	for _, p := range idPrefixes {
		rest, found := strings.CutPrefix(payload, p.prefix)
		if !found {
			continue
		}
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil || id <= 0 {
			return Action{}
		}
		return Action{Kind: p.kind, RecipeID: id}
	}
	if rest, found := strings.CutPrefix(payload, prefixAddCat); found {
		if c, ok := catalog.ParseCategory(rest); ok {
			return AddTo(c)
		}
		return Action{}
	}
	switch payload {
	case payloadAdminAdd:
		return StartAdd()
	case payloadMainMenu:
		return Menu()
	}
	return Action{}
}

// Payload encodes the action as callback data. Unknown encodes to "".
func (a Action) Payload() string {
	id := strconv.FormatInt(a.RecipeID, 10)
	switch a.Kind {
	case ListCategory:
		return string(a.Category)
	case ShowRecipe:
		return prefixShow + id
	case EditMenu:
		return prefixEditMenu + id
	case EditTitle:
		return prefixEditTitle + id
	case EditDescription:
		return prefixEditDesc + id
	case EditMedia:
		return prefixEditMedia + id
	case Delete:
		return prefixDelete + id
	case AddToCategory:
		return prefixAddCat + string(a.Category)
	case AdminAdd:
		return payloadAdminAdd
	case MainMenu:
		return payloadMainMenu
	}
	return ""
}
