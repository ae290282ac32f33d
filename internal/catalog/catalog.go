// Package catalog defines the recipe catalog model shared by the store,
// the conversation engine and the renderers.
package catalog

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound reports that a referenced recipe no longer exists.
	ErrNotFound = errors.New("catalog: recipe not found")
	// ErrInvalidMedia reports a media kind/reference combination that breaks the media invariant.
	ErrInvalidMedia = errors.New("catalog: invalid media")
)

// Category is one of the fixed recipe groupings.
type Category string

const (
	CategoryPan    Category = "pan"
	CategoryOven   Category = "oven"
	CategoryNoCook Category = "no_cook"
)

// Categories lists every category in menu order.
func Categories() []Category {
	return []Category{CategoryPan, CategoryOven, CategoryNoCook}
}

// ParseCategory maps a raw category key to a Category.
func ParseCategory(raw string) (Category, bool) {
	switch Category(raw) {
	case CategoryPan, CategoryOven, CategoryNoCook:
		return Category(raw), true
	}
	return "", false
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := ParseCategory(string(c))
	return ok
}

// Label returns the human readable category name.
func (c Category) Label() string {
	switch c {
	case CategoryOven:
		return "Духовка"
	case CategoryPan:
		return "Сковорода"
	case CategoryNoCook:
		return "Без готовки"
	}
	return string(c)
}

// MediaKind says how a recipe's content is delivered.
type MediaKind string

const (
	MediaText  MediaKind = "Text"
	MediaPhoto MediaKind = "Photo"
	MediaVideo MediaKind = "Video"
)

// ParseMediaKind maps a stored media type to a MediaKind.
func ParseMediaKind(raw string) (MediaKind, bool) {
	switch MediaKind(raw) {
	case MediaText, MediaPhoto, MediaVideo:
		return MediaKind(raw), true
	}
	return "", false
}

// Media couples a media kind with the Telegram file id it points to.
// Text media never carries a reference; photo and video always do.
type Media struct {
	Kind MediaKind
	Ref  string
}

// TextMedia returns the media value of a text-only recipe.
func TextMedia() Media { return Media{Kind: MediaText} }

// PhotoMedia returns photo media referencing fileID.
func PhotoMedia(fileID string) Media { return Media{Kind: MediaPhoto, Ref: fileID} }

// VideoMedia returns video media referencing fileID.
func VideoMedia(fileID string) Media { return Media{Kind: MediaVideo, Ref: fileID} }

// Validate checks the kind/reference invariant.
func (m Media) Validate() error {
	switch m.Kind {
	case MediaText:
		if m.Ref != "" {
			return fmt.Errorf("%w: text media with reference", ErrInvalidMedia)
		}
	case MediaPhoto, MediaVideo:
		if m.Ref == "" {
			return fmt.Errorf("%w: %s without reference", ErrInvalidMedia, m.Kind)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidMedia, m.Kind)
	}
	return nil
}

// Recipe is a catalog entry.
type Recipe struct {
	ID          int64
	Title       string
	Description string
	Category    Category
	Media       Media
}

// Validate checks the fields a stored recipe must satisfy.
func (r Recipe) Validate() error {
	if !r.Category.Valid() {
		return fmt.Errorf("catalog: unknown category %q", r.Category)
	}
	return r.Media.Validate()
}

// RecipePatch carries a partial recipe update; nil fields are left untouched.
type RecipePatch struct {
	Title       *string
	Description *string
	Media       *Media
}

// Empty reports whether the patch changes nothing.
func (p RecipePatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Media == nil
}

// User is a chat that has talked to the bot at least once.
type User struct {
	ChatID    int64
	FirstName string
	Username  string
	FirstSeen time.Time
}
