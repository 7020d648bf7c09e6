package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/duelforge/duelsim/internal/game"
)

// DeckList is the on-disk shape of a deck: template ids with counts, plus
// the faction and tactics the deck is meant to be played with.
type DeckList struct {
	Name    string       `yaml:"name"`
	Faction game.Faction `yaml:"faction"`
	Tactics string       `yaml:"tactics"`
	Cards   []DeckEntry  `yaml:"cards"`
}

// DeckEntry is one line of a deck list.
type DeckEntry struct {
	ID    string `yaml:"id"`
	Count int    `yaml:"count"`
}

// LoadDeck reads a deck list from a YAML file.
func LoadDeck(path string) (*DeckList, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deck file: %w", err)
	}
	var dl DeckList
	if err := yaml.Unmarshal(raw, &dl); err != nil {
		return nil, fmt.Errorf("parse deck file %s: %w", path, err)
	}
	if dl.Name == "" {
		return nil, fmt.Errorf("deck file %s missing name", path)
	}
	return &dl, nil
}

// BuildDeck expands a deck list into an ordered slice of templates. The
// expansion order follows the list, so the same list always produces the
// same pre-shuffle deck.
func (c *Catalog) BuildDeck(list *DeckList) ([]*game.CardTemplate, error) {
	var deck []*game.CardTemplate
	for _, entry := range list.Cards {
		if entry.Count < 1 {
			return nil, fmt.Errorf("deck %q: entry %q has count %d", list.Name, entry.ID, entry.Count)
		}
		tmpl, ok := c.Template(entry.ID)
		if !ok {
			return nil, fmt.Errorf("deck %q: unknown template %q", list.Name, entry.ID)
		}
		for i := 0; i < entry.Count; i++ {
			deck = append(deck, tmpl)
		}
	}
	if len(deck) == 0 {
		return nil, fmt.Errorf("deck %q is empty", list.Name)
	}
	return deck, nil
}
