// Package catalog holds the static category reference list of the directory.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rainbowlistings/directory/internal/entity"
)

//go:embed categories.yaml
var defaultCategories []byte

// ErrCategoryNotFound indicates the requested name is not in the catalogue.
var ErrCategoryNotFound = errors.New("category not found")

// Catalog is an immutable, ordered set of categories.
type Catalog struct {
	categories []entity.Category
	byName     map[string]int
}

// Default returns the catalogue bundled with the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCategories)
}

// Load reads a catalogue from path, or the bundled one when path is empty.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read categories file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML list of categories and validates it.
func Parse(data []byte) (*Catalog, error) {
	var categories []entity.Category
	if err := yaml.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	if len(categories) == 0 {
		return nil, errors.New("category catalogue is empty")
	}

	byName := make(map[string]int, len(categories))
	ids := make(map[int]struct{}, len(categories))
	for i, c := range categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, fmt.Errorf("category %d has no name", c.ID)
		}
		key := strings.ToLower(name)
		if _, dup := byName[key]; dup {
			return nil, fmt.Errorf("duplicate category name %q", name)
		}
		if _, dup := ids[c.ID]; dup {
			return nil, fmt.Errorf("duplicate category id %d", c.ID)
		}
		categories[i].Name = name
		byName[key] = i
		ids[c.ID] = struct{}{}
	}

	return &Catalog{categories: categories, byName: byName}, nil
}

// All returns a copy of the categories in catalogue order.
func (c *Catalog) All() []entity.Category {
	out := make([]entity.Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// Names returns the category names in catalogue order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.categories))
	for i, cat := range c.categories {
		names[i] = cat.Name
	}
	return names
}

// Lookup finds a category by name, ignoring case and surrounding whitespace.
func (c *Catalog) Lookup(name string) (entity.Category, error) {
	idx, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return entity.Category{}, ErrCategoryNotFound
	}
	return c.categories[idx], nil
}

// Len reports the number of categories.
func (c *Catalog) Len() int {
	return len(c.categories)
}
