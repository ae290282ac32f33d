package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	coredatabase "github.com/m3rciful/recipebot/core/database"
	"github.com/m3rciful/recipebot/internal/catalog"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	cfg := coredatabase.Config{Driver: coredatabase.DriverSQLite, Path: ":memory:"}
	db, err := coredatabase.Connect(cfg)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := coredatabase.RunMigrations(db, cfg, Migrations()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(db)
}

func TestCreateAndListByCategory(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	pancakes := catalog.Recipe{Title: "Pancakes", Description: "Flour, eggs", Category: catalog.CategoryPan, Media: catalog.TextMedia()}
	pie := catalog.Recipe{Title: "Pie", Description: "Bake", Category: catalog.CategoryOven, Media: catalog.PhotoMedia("AgACph")}
	omelette := catalog.Recipe{Title: "Omelette", Category: catalog.CategoryPan, Media: catalog.VideoMedia("BAADvid")}
	for _, r := range []*catalog.Recipe{&pancakes, &pie, &omelette} {
		if err := s.CreateRecipe(ctx, r); err != nil {
			t.Fatalf("create %s: %v", r.Title, err)
		}
		if r.ID <= 0 {
			t.Fatalf("id not assigned for %s", r.Title)
		}
	}
	if pancakes.ID == pie.ID || pie.ID == omelette.ID {
		t.Fatal("ids must be unique")
	}

	pan, err := s.RecipesByCategory(ctx, catalog.CategoryPan)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pan) != 2 || pan[0].Title != "Pancakes" || pan[1].Title != "Omelette" {
		t.Fatalf("pan = %+v", pan)
	}
	if pan[1].Media != catalog.VideoMedia("BAADvid") {
		t.Fatalf("media = %+v", pan[1].Media)
	}

	none, err := s.RecipesByCategory(ctx, catalog.CategoryNoCook)
	if err != nil || len(none) != 0 {
		t.Fatalf("no_cook = %+v, %v", none, err)
	}

	got, err := s.Recipe(ctx, pie.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != pie {
		t.Fatalf("got %+v, want %+v", got, pie)
	}
}

func TestCreateRejectsInvalidMedia(t *testing.T) {
	s := newStore(t)
	r := catalog.Recipe{Title: "x", Category: catalog.CategoryPan, Media: catalog.Media{Kind: catalog.MediaPhoto}}
	if err := s.CreateRecipe(context.Background(), &r); !errors.Is(err, catalog.ErrInvalidMedia) {
		t.Fatalf("err = %v", err)
	}
}

func TestMissingRecipe(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	title := "t"
	if _, err := s.Recipe(ctx, 99); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("get: %v", err)
	}
	if err := s.UpdateRecipe(ctx, 99, catalog.RecipePatch{Title: &title}); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("update: %v", err)
	}
	if err := s.DeleteRecipe(ctx, 99); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("delete: %v", err)
	}
}

func TestUpdateRecipeFields(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	r := catalog.Recipe{Title: "Soup", Description: "Boil", Category: catalog.CategoryNoCook, Media: catalog.TextMedia()}
	if err := s.CreateRecipe(ctx, &r); err != nil {
		t.Fatalf("create: %v", err)
	}

	title := "Cold soup"
	if err := s.UpdateRecipe(ctx, r.ID, catalog.RecipePatch{Title: &title}); err != nil {
		t.Fatalf("update title: %v", err)
	}
	got, _ := s.Recipe(ctx, r.ID)
	if got.Title != "Cold soup" || got.Description != "Boil" || got.Media != catalog.TextMedia() {
		t.Fatalf("after title: %+v", got)
	}

	media := catalog.PhotoMedia("AgACnew")
	caption := "Serve chilled"
	if err := s.UpdateRecipe(ctx, r.ID, catalog.RecipePatch{Media: &media, Description: &caption}); err != nil {
		t.Fatalf("update media: %v", err)
	}
	got, _ = s.Recipe(ctx, r.ID)
	if got.Media != media || got.Description != caption || got.Title != "Cold soup" {
		t.Fatalf("after media: %+v", got)
	}

	if err := s.UpdateRecipe(ctx, r.ID, catalog.RecipePatch{}); err != nil {
		t.Fatalf("empty patch: %v", err)
	}
}

func TestDeleteRecipe(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	r := catalog.Recipe{Title: "Toast", Category: catalog.CategoryPan, Media: catalog.TextMedia()}
	if err := s.CreateRecipe(ctx, &r); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.DeleteRecipe(ctx, r.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Recipe(ctx, r.ID); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("get after delete: %v", err)
	}
	list, _ := s.RecipesByCategory(ctx, catalog.CategoryPan)
	if len(list) != 0 {
		t.Fatalf("list after delete = %+v", list)
	}
}

func TestEnsureUserOnce(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	first := time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC)

	created, err := s.EnsureUser(ctx, catalog.User{ChatID: 5, FirstName: "Anna", Username: "anna", FirstSeen: first})
	if err != nil || !created {
		t.Fatalf("first ensure: created=%v err=%v", created, err)
	}
	created, err = s.EnsureUser(ctx, catalog.User{ChatID: 5, FirstName: "Renamed", FirstSeen: first.Add(time.Hour)})
	if err != nil || created {
		t.Fatalf("second ensure: created=%v err=%v", created, err)
	}
	if _, err := s.EnsureUser(ctx, catalog.User{ChatID: 3, FirstName: "Bob", FirstSeen: first.Add(time.Minute)}); err != nil {
		t.Fatalf("ensure bob: %v", err)
	}

	users, err := s.Users(ctx)
	if err != nil {
		t.Fatalf("users: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("users = %+v", users)
	}
	anna := users[0]
	if anna.ChatID != 5 || anna.FirstName != "Anna" || anna.Username != "anna" || !anna.FirstSeen.Equal(first) {
		t.Fatalf("anna = %+v", anna)
	}
	if users[1].Username != "" {
		t.Fatalf("bob username = %q", users[1].Username)
	}
}
