package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/duelforge/duelsim/internal/game"
)

// Catalog is the immutable card template registry the engine reads from. It
// satisfies game.TemplateSource. Templates are registered once at load time
// and never mutated afterwards.
type Catalog struct {
	byID  map[string]*game.CardTemplate
	order []string
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{byID: make(map[string]*game.CardTemplate)}
}

// Add registers one template. Duplicate ids are rejected so two set files
// cannot silently shadow each other.
func (c *Catalog) Add(tmpl *game.CardTemplate) error {
	if err := validate(tmpl); err != nil {
		return err
	}
	if _, exists := c.byID[tmpl.ID]; exists {
		return fmt.Errorf("duplicate template id %q", tmpl.ID)
	}
	c.byID[tmpl.ID] = tmpl
	c.order = append(c.order, tmpl.ID)
	return nil
}

// Template looks a template up by id.
func (c *Catalog) Template(id string) (*game.CardTemplate, bool) {
	t, ok := c.byID[id]
	return t, ok
}

// List returns all templates in registration order.
func (c *Catalog) List() []*game.CardTemplate {
	out := make([]*game.CardTemplate, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// ByFaction returns all templates of one faction, in registration order.
func (c *Catalog) ByFaction(f game.Faction) []*game.CardTemplate {
	var out []*game.CardTemplate
	for _, id := range c.order {
		if t := c.byID[id]; t.Faction == f {
			out = append(out, t)
		}
	}
	return out
}

// Len reports the number of registered templates.
func (c *Catalog) Len() int {
	return len(c.byID)
}

func validate(tmpl *game.CardTemplate) error {
	switch {
	case tmpl == nil:
		return fmt.Errorf("nil template")
	case tmpl.ID == "":
		return fmt.Errorf("template missing id")
	case tmpl.Name == "":
		return fmt.Errorf("template %q missing name", tmpl.ID)
	case tmpl.Cost < 0:
		return fmt.Errorf("template %q has negative cost", tmpl.ID)
	}
	switch tmpl.Type {
	case game.CardTypeCreature:
		if tmpl.Health < 1 {
			return fmt.Errorf("creature %q needs health >= 1", tmpl.ID)
		}
		if tmpl.Attack < 0 {
			return fmt.Errorf("creature %q has negative attack", tmpl.ID)
		}
	case game.CardTypeSpell:
		if tmpl.Attack != 0 || tmpl.Health != 0 {
			return fmt.Errorf("spell %q carries creature stats", tmpl.ID)
		}
	default:
		return fmt.Errorf("template %q has unknown type %q", tmpl.ID, tmpl.Type)
	}
	return nil
}

// setFile is the on-disk shape of one card set.
type setFile struct {
	Set   string               `yaml:"set"`
	Cards []*game.CardTemplate `yaml:"cards"`
}

// LoadSet reads one YAML set file into the catalog.
func (c *Catalog) LoadSet(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read set file: %w", err)
	}
	var sf setFile
	if err := yaml.Unmarshal(raw, &sf); err != nil {
		return fmt.Errorf("parse set file %s: %w", path, err)
	}
	for _, tmpl := range sf.Cards {
		if err := c.Add(tmpl); err != nil {
			return fmt.Errorf("set %s: %w", path, err)
		}
	}
	return nil
}

// LoadDir loads every .yaml/.yml set file in a directory, in sorted filename
// order so load order is stable across platforms.
func LoadDir(dir string, logger *zap.Logger) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read set directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".yaml", ".yml":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)

	c := New()
	for _, f := range files {
		if err := c.LoadSet(f); err != nil {
			return nil, err
		}
		logger.Info("loaded card set",
			zap.String("file", f),
			zap.Int("total_templates", c.Len()),
		)
	}
	return c, nil
}
