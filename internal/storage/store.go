// Package storage persists recipes and users in SQLite or PostgreSQL.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/recipebot/internal/catalog"
)

// Store implements the catalog persistence on top of sqlx. Queries are
// written with ? placeholders and rebound for the connected driver.
type Store struct {
	db *sqlx.DB
}

// New wraps an open, migrated database.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

type recipeRow struct {
	ID          int64          `db:"id"`
	Title       string         `db:"title"`
	Description string         `db:"description"`
	Category    string         `db:"category"`
	FileID      sql.NullString `db:"file_id"`
	MediaType   string         `db:"media_type"`
}

func (r recipeRow) recipe() catalog.Recipe {
	kind, ok := catalog.ParseMediaKind(r.MediaType)
	if !ok {
		kind = catalog.MediaText
	}
	media := catalog.Media{Kind: kind, Ref: r.FileID.String}
	// Legacy rows may pair Text with a file id; those read back as text.
	if media.Validate() != nil {
		media = catalog.TextMedia()
	}
	return catalog.Recipe{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Category:    catalog.Category(r.Category),
		Media:       media,
	}
}

func fileID(m catalog.Media) sql.NullString {
	return sql.NullString{String: m.Ref, Valid: m.Ref != ""}
}

type userRow struct {
	ChatID     int64          `db:"chat_id"`
	Username   sql.NullString `db:"username"`
	FirstName  string         `db:"first_name"`
	FirstVisit time.Time      `db:"first_visit"`
}

const recipeColumns = "id, title, description, category, file_id, media_type"

// CreateRecipe inserts r and sets r.ID to the assigned identifier.
func (s *Store) CreateRecipe(ctx context.Context, r *catalog.Recipe) error {
	if err := r.Validate(); err != nil {
		return err
	}
	q := s.db.Rebind(`INSERT INTO recipes (title, description, category, file_id, media_type)
		VALUES (?, ?, ?, ?, ?) RETURNING id`)
	var id int64
	err := s.db.QueryRowxContext(ctx, q,
		r.Title, r.Description, string(r.Category), fileID(r.Media), string(r.Media.Kind),
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("insert recipe: %w", err)
	}
	r.ID = id
	return nil
}

// Recipe returns the recipe with the given id or catalog.ErrNotFound.
func (s *Store) Recipe(ctx context.Context, id int64) (catalog.Recipe, error) {
	var row recipeRow
	q := s.db.Rebind("SELECT " + recipeColumns + " FROM recipes WHERE id = ?")
	if err := s.db.GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catalog.Recipe{}, catalog.ErrNotFound
		}
		return catalog.Recipe{}, fmt.Errorf("select recipe %d: %w", id, err)
	}
	return row.recipe(), nil
}

// RecipesByCategory lists a category's recipes in insertion order.
func (s *Store) RecipesByCategory(ctx context.Context, c catalog.Category) ([]catalog.Recipe, error) {
	var rows []recipeRow
	q := s.db.Rebind("SELECT " + recipeColumns + " FROM recipes WHERE category = ? ORDER BY id")
	if err := s.db.SelectContext(ctx, &rows, q, string(c)); err != nil {
		return nil, fmt.Errorf("select recipes: %w", err)
	}
	out := make([]catalog.Recipe, len(rows))
	for i, row := range rows {
		out[i] = row.recipe()
	}
	return out, nil
}

// UpdateRecipe applies the non-nil fields of patch. It returns
// catalog.ErrNotFound when no recipe has that id.
func (s *Store) UpdateRecipe(ctx context.Context, id int64, patch catalog.RecipePatch) error {
	var (
		sets []string
		args []any
	)
	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Media != nil {
		if err := patch.Media.Validate(); err != nil {
			return err
		}
		sets = append(sets, "file_id = ?", "media_type = ?")
		args = append(args, fileID(*patch.Media), string(patch.Media.Kind))
	}
	if len(sets) == 0 {
		_, err := s.Recipe(ctx, id)
		return err
	}

	q := s.db.Rebind("UPDATE recipes SET " + strings.Join(sets, ", ") + " WHERE id = ?")
	res, err := s.db.ExecContext(ctx, q, append(args, id)...)
	if err != nil {
		return fmt.Errorf("update recipe %d: %w", id, err)
	}
	return expectRow(res)
}

// DeleteRecipe removes a recipe. It returns catalog.ErrNotFound when no recipe has that id.
func (s *Store) DeleteRecipe(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM recipes WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("delete recipe %d: %w", id, err)
	}
	return expectRow(res)
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

// EnsureUser records u unless its chat is already known, and reports whether
// a row was inserted. Existing rows are never modified.
func (s *Store) EnsureUser(ctx context.Context, u catalog.User) (bool, error) {
	q := s.db.Rebind(`INSERT INTO users (chat_id, username, first_name, first_visit)
		VALUES (?, ?, ?, ?) ON CONFLICT (chat_id) DO NOTHING`)
	res, err := s.db.ExecContext(ctx, q,
		u.ChatID,
		sql.NullString{String: u.Username, Valid: u.Username != ""},
		u.FirstName,
		u.FirstSeen.UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("insert user %d: %w", u.ChatID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// Users lists every registered user, earliest first.
func (s *Store) Users(ctx context.Context) ([]catalog.User, error) {
	var rows []userRow
	q := "SELECT chat_id, username, first_name, first_visit FROM users ORDER BY first_visit, chat_id"
	if err := s.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	out := make([]catalog.User, len(rows))
	for i, r := range rows {
		out[i] = catalog.User{
			ChatID:    r.ChatID,
			FirstName: r.FirstName,
			Username:  r.Username.String,
			FirstSeen: r.FirstVisit,
		}
	}
	return out, nil
}
