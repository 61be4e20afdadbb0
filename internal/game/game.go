package game

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"

	"bingo_webapp/internal/domain"

	"gopkg.in/yaml.v3"
)

// DefaultPattern is used when a session is created without a pattern name.
const DefaultPattern = "line"

var ErrUnknownPattern = errors.New("unknown pattern")

//go:embed patterns.yaml
var patternsYAML []byte

// Pattern is a named win shape. Exactly one of Cells or Alternatives is set.
type Pattern struct {
	Name         string  `yaml:"name" json:"name"`
	Display      string  `yaml:"display" json:"display"`
	Description  string  `yaml:"description" json:"description"`
	Category     string  `yaml:"category" json:"category"`
	Cells        []int   `yaml:"cells" json:"cells,omitempty"`
	Alternatives [][]int `yaml:"alternatives" json:"alternatives,omitempty"`
}

// shapes returns the index sets of which any one must be complete.
func (p *Pattern) shapes() [][]int {
	if len(p.Alternatives) > 0 {
		return p.Alternatives
	}
	return [][]int{p.Cells}
}

// Catalog is the immutable set of win patterns. Safe for concurrent use.
type Catalog struct {
	byName map[string]*Pattern
	order  []string
}

type catalogFile struct {
	Patterns []Pattern `yaml:"patterns"`
}

// ParseCatalog decodes a YAML catalog and validates every cell index.
func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode patterns: %w", err)
	}

	c := &Catalog{byName: make(map[string]*Pattern, len(f.Patterns))}
	for i := range f.Patterns {
		p := f.Patterns[i]
		if p.Name == "" {
			return nil, fmt.Errorf("pattern #%d has no name", i)
		}
		if _, dup := c.byName[p.Name]; dup {
			return nil, fmt.Errorf("duplicate pattern %q", p.Name)
		}
		if (len(p.Cells) == 0) == (len(p.Alternatives) == 0) {
			return nil, fmt.Errorf("pattern %q must define exactly one of cells or alternatives", p.Name)
		}
		for _, shape := range p.shapes() {
			if len(shape) == 0 {
				return nil, fmt.Errorf("pattern %q has an empty shape", p.Name)
			}
			for _, idx := range shape {
				if idx < 0 || idx >= domain.CardSize {
					return nil, fmt.Errorf("pattern %q: cell %d out of range", p.Name, idx)
				}
			}
		}
		c.byName[p.Name] = &p
		c.order = append(c.order, p.Name)
	}
	return c, nil
}

var defaultCatalog = mustLoadDefault()

func mustLoadDefault() *Catalog {
	c, err := ParseCatalog(patternsYAML)
	if err != nil {
		panic(err)
	}
	return c
}

// DefaultCatalog returns the process-wide catalog loaded from the embedded patterns.yaml.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

// Lookup returns the pattern by name.
func (c *Catalog) Lookup(name string) (*Pattern, error) {
	p, ok := c.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPattern, name)
	}
	return p, nil
}

// Has reports whether name is a known pattern.
func (c *Catalog) Has(name string) bool {
	_, ok := c.byName[name]
	return ok
}

// Names returns pattern names in catalog order.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.order...)
}

// List returns copies of all patterns in catalog order.
func (c *Catalog) List() []Pattern {
	out := make([]Pattern, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, *c.byName[name])
	}
	return out
}

// Categories groups pattern names by category, names sorted within a group.
func (c *Catalog) Categories() map[string][]string {
	out := make(map[string][]string)
	for _, name := range c.order {
		p := c.byName[name]
		out[p.Category] = append(out[p.Category], name)
	}
	for k := range out {
		sort.Strings(out[k])
	}
	return out
}
