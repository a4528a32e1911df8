// Package catalog holds the static job-title and location option tables used by
// the search filters. A Catalog is built once at startup and never mutated, so a
// single instance is shared by every request.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yml
var defaultCatalog []byte

// TitleOption is a canonical job title with the phrasings that should also
// match when it is searched for.
type TitleOption struct {
	Value    string   `yaml:"value" json:"value"`
	Label    string   `yaml:"label" json:"label"`
	Slug     string   `yaml:"slug" json:"slug"`
	Synonyms []string `yaml:"synonyms,omitempty" json:"synonyms,omitempty"`
	Related  []string `yaml:"related,omitempty" json:"related,omitempty"`
}

// Expansions returns the synonym and related phrasings in declaration order.
func (o TitleOption) Expansions() []string {
	out := make([]string, 0, len(o.Synonyms)+len(o.Related))
	out = append(out, o.Synonyms...)
	out = append(out, o.Related...)
	return out
}

type LocationOption struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
	Slug  string `yaml:"slug" json:"slug"`
}

type Catalog struct {
	Titles    []TitleOption    `yaml:"titles" json:"titles"`
	Locations []LocationOption `yaml:"locations" json:"locations"`

	titleIdx    map[string]int
	locationIdx map[string]int
}

// Default returns the built-in tables.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		// embedded file is covered by tests
		panic(fmt.Sprintf("catalog: embedded tables invalid: %v", err))
	}
	return c
}

// Load reads tables from a YAML file. An empty path yields the built-in tables.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	c, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes, normalizes and validates tables, then builds the lookup indexes.
func Parse(b []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	var errs []string
	c.titleIdx = make(map[string]int, len(c.Titles)*3)
	slugs := map[string]bool{}
	for i := range c.Titles {
		t := &c.Titles[i]
		t.Value = strings.TrimSpace(t.Value)
		if t.Value == "" {
			errs = append(errs, fmt.Sprintf("titles[%d].value is required", i))
			continue
		}
		if strings.TrimSpace(t.Label) == "" {
			t.Label = t.Value
		}
		if strings.TrimSpace(t.Slug) == "" {
			t.Slug = Slugify(t.Label)
		}
		if slugs[t.Slug] {
			errs = append(errs, fmt.Sprintf("titles[%d].slug %q is duplicated", i, t.Slug))
			continue
		}
		slugs[t.Slug] = true
		for _, k := range []string{t.Value, t.Label, t.Slug} {
			key := Key(k)
			if _, taken := c.titleIdx[key]; !taken {
				c.titleIdx[key] = i
			}
		}
	}

	c.locationIdx = make(map[string]int, len(c.Locations)*2)
	slugs = map[string]bool{}
	for i := range c.Locations {
		l := &c.Locations[i]
		l.Value = strings.TrimSpace(l.Value)
		if l.Value == "" {
			errs = append(errs, fmt.Sprintf("locations[%d].value is required", i))
			continue
		}
		if strings.TrimSpace(l.Label) == "" {
			l.Label = l.Value
		}
		if strings.TrimSpace(l.Slug) == "" {
			l.Slug = Slugify(l.Label)
		}
		if slugs[l.Slug] {
			errs = append(errs, fmt.Sprintf("locations[%d].slug %q is duplicated", i, l.Slug))
			continue
		}
		slugs[l.Slug] = true
		for _, k := range []string{l.Slug, l.Value} {
			key := strings.ToLower(k)
			if _, taken := c.locationIdx[key]; !taken {
				c.locationIdx[key] = i
			}
		}
	}

	if len(errs) > 0 {
		return nil, errors.New("invalid catalog:\n- " + strings.Join(errs, "\n- "))
	}
	return &c, nil
}

// LookupTitle finds the title option named by raw (its value, label or slug).
func (c *Catalog) LookupTitle(raw string) (TitleOption, bool) {
	if c == nil {
		return TitleOption{}, false
	}
	i, ok := c.titleIdx[Key(raw)]
	if !ok {
		return TitleOption{}, false
	}
	return c.Titles[i], true
}

// LocationBySlug finds the location option with the given slug (or value).
func (c *Catalog) LocationBySlug(slug string) (LocationOption, bool) {
	if c == nil {
		return LocationOption{}, false
	}
	i, ok := c.locationIdx[strings.ToLower(strings.TrimSpace(slug))]
	if !ok {
		return LocationOption{}, false
	}
	return c.Locations[i], true
}

// Key folds case, whitespace and hyphens so "Backend-Engineer", "backend engineer"
// and the slug "backend-engineer" compare equal.
func Key(s string) string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == '-' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	return strings.Join(fields, " ")
}
