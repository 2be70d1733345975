// Package catalog loads the read-only menu and seeds it into a FoodRepository.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"

	"kitchen/internal/models"
	"kitchen/internal/repositories"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

var ErrInvalidCatalog = errors.New("invalid catalog")

// Catalog is the parsed menu document.
type Catalog struct {
	Categories []models.Category `yaml:"categories"`
	Items      []models.FoodItem `yaml:"items"`
}

// Default parses the embedded menu.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Parse decodes and validates a menu document. Item and category positions
// follow document order.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	for i := range c.Categories {
		c.Categories[i].Position = i
	}
	for i := range c.Items {
		c.Items[i].Position = i
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	categories := make(map[string]bool, len(c.Categories))
	for _, cat := range c.Categories {
		if cat.Name == "" {
			return fmt.Errorf("%w: category without a name", ErrInvalidCatalog)
		}
		categories[cat.Name] = true
	}
	ids := make(map[string]bool, len(c.Items))
	for _, item := range c.Items {
		switch {
		case item.ID == "":
			return fmt.Errorf("%w: item %q has no id", ErrInvalidCatalog, item.Name)
		case ids[item.ID]:
			return fmt.Errorf("%w: duplicate item id %q", ErrInvalidCatalog, item.ID)
		case item.Price < 0:
			return fmt.Errorf("%w: item %q has a negative price", ErrInvalidCatalog, item.ID)
		case !categories[item.Category]:
			return fmt.Errorf("%w: item %q is in unknown category %q", ErrInvalidCatalog, item.ID, item.Category)
		}
		ids[item.ID] = true

		defaults := 0
		for _, p := range item.ProteinOptions {
			if p.Default {
				defaults++
			}
		}
		if defaults > 1 {
			return fmt.Errorf("%w: item %q has %d default proteins", ErrInvalidCatalog, item.ID, defaults)
		}
	}
	return nil
}

// Seed writes the catalog into repo unless the repository already holds items.
func Seed(repo repositories.FoodRepository, c *Catalog) error {
	n, err := repo.Count()
	if err != nil {
		return err
	}
	if n > 0 {
		log.Debug().Int64("items", n).Msg("catalog already seeded")
		return nil
	}
	for i := range c.Categories {
		if err := repo.CreateCategory(&c.Categories[i]); err != nil {
			return err
		}
	}
	for i := range c.Items {
		if err := repo.Create(&c.Items[i]); err != nil {
			return err
		}
	}
	log.Info().Int("categories", len(c.Categories)).Int("items", len(c.Items)).Msg("catalog seeded")
	return nil
}
