// Package config loads the recipe bot configuration.
package config

import (
	"fmt"
	"strings"

	coreconfig "github.com/m3rciful/recipebot/core/config"
	coredatabase "github.com/m3rciful/recipebot/core/database"
)

// DefaultMenuPhotoURL is the picture sent with the main menu when none is configured.
const DefaultMenuPhotoURL = "https://rms4.kufar.by/v1/gallery/adim1/9556c7ec-a70a-4ffb-bef8-4fae71d15a0f.jpg"

// CatalogConfig tunes the catalog presentation.
type CatalogConfig struct {
	// MenuPhotoURL is a URL or Telegram file id; "none" sends the menu as text.
	MenuPhotoURL string `yaml:"menu_photo_url" envconfig:"MENU_PHOTO_URL"`
}

// Config is the full application configuration.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Database coredatabase.Config `yaml:"database"`
	Catalog  CatalogConfig       `yaml:"catalog"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Config
}

// MenuPhoto returns the configured menu picture, or "" for a text-only menu.
func (c *Config) MenuPhoto() string {
	if strings.EqualFold(c.Catalog.MenuPhotoURL, "none") {
		return ""
	}
	return c.Catalog.MenuPhotoURL
}

// Load reads path (optional) and the environment, then validates the result.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.Decode(path, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates every section and fills defaults.
func (c *Config) Normalize() error {
	if err := coreconfig.Normalize(&c.Config); err != nil {
		return err
	}
	if err := c.Database.Normalize(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	c.Catalog.MenuPhotoURL = strings.TrimSpace(c.Catalog.MenuPhotoURL)
	if c.Catalog.MenuPhotoURL == "" {
		c.Catalog.MenuPhotoURL = DefaultMenuPhotoURL
	}
	return nil
}
