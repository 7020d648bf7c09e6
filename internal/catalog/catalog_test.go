package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/duelforge/duelsim/internal/game"
)

func TestAddRejectsDuplicates(t *testing.T) {
	c := New()
	tmpl := &game.CardTemplate{ID: "x", Name: "X", Cost: 1, Type: game.CardTypeCreature, Attack: 1, Health: 1}
	require.NoError(t, c.Add(tmpl))
	assert.Error(t, c.Add(tmpl))
	assert.Equal(t, 1, c.Len())
}

func TestValidateRejectsMalformedTemplates(t *testing.T) {
	cases := []struct {
		name string
		tmpl *game.CardTemplate
	}{
		{"missing id", &game.CardTemplate{Name: "X", Type: game.CardTypeCreature, Health: 1}},
		{"missing name", &game.CardTemplate{ID: "x", Type: game.CardTypeCreature, Health: 1}},
		{"zero health creature", &game.CardTemplate{ID: "x", Name: "X", Type: game.CardTypeCreature, Attack: 1}},
		{"negative cost", &game.CardTemplate{ID: "x", Name: "X", Cost: -1, Type: game.CardTypeCreature, Health: 1}},
		{"spell with stats", &game.CardTemplate{ID: "x", Name: "X", Type: game.CardTypeSpell, Attack: 2}},
		{"unknown type", &game.CardTemplate{ID: "x", Name: "X", Type: "enchantment"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, New().Add(tc.tmpl))
		})
	}
}

func TestBuiltinSetIsWellFormed(t *testing.T) {
	c := BuiltinSet()
	require.Greater(t, c.Len(), 30)

	// Every summon and deck-search reference must resolve inside the set.
	for _, tmpl := range c.List() {
		for _, eff := range tmpl.Effects {
			if eff.SummonID != "" {
				_, ok := c.Template(eff.SummonID)
				assert.True(t, ok, "card %s references unknown summon %s", tmpl.ID, eff.SummonID)
			}
		}
	}
}

func TestDefaultDecksResolveAndCount(t *testing.T) {
	c := BuiltinSet()
	for _, f := range []game.Faction{FactionEmber, FactionFrost, FactionNeutral} {
		list := DefaultDeck(f)
		require.NotNil(t, list, "no default deck for %s", f)
		deck, err := c.BuildDeck(list)
		require.NoError(t, err, "deck for %s", f)
		assert.Len(t, deck, 20, "deck for %s", f)
	}
}

func TestBuildDeckExpandsInListOrder(t *testing.T) {
	c := New()
	a := &game.CardTemplate{ID: "a", Name: "A", Cost: 1, Type: game.CardTypeCreature, Attack: 1, Health: 1}
	b := &game.CardTemplate{ID: "b", Name: "B", Cost: 1, Type: game.CardTypeCreature, Attack: 1, Health: 1}
	require.NoError(t, c.Add(a))
	require.NoError(t, c.Add(b))

	deck, err := c.BuildDeck(&DeckList{
		Name:  "test",
		Cards: []DeckEntry{{ID: "b", Count: 2}, {ID: "a", Count: 1}},
	})
	require.NoError(t, err)
	require.Len(t, deck, 3)
	assert.Equal(t, []string{"b", "b", "a"}, []string{deck[0].ID, deck[1].ID, deck[2].ID})
}

func TestBuildDeckErrors(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(&game.CardTemplate{ID: "a", Name: "A", Cost: 1, Type: game.CardTypeCreature, Attack: 1, Health: 1}))

	_, err := c.BuildDeck(&DeckList{Name: "bad", Cards: []DeckEntry{{ID: "nope", Count: 1}}})
	assert.Error(t, err, "unknown id")

	_, err = c.BuildDeck(&DeckList{Name: "bad", Cards: []DeckEntry{{ID: "a", Count: 0}}})
	assert.Error(t, err, "zero count")

	_, err = c.BuildDeck(&DeckList{Name: "bad"})
	assert.Error(t, err, "empty deck")
}

func TestLoadSetFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "set.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
set: test
cards:
  - id: tester
    name: Tester
    type: creature
    cost: 2
    attack: 2
    health: 3
    keywords: [guard]
    effects:
      - trigger: on_play
        target: ally_all
        action: buff_attack
        value: 1
  - id: zap
    name: Zap
    type: spell
    cost: 1
    effects:
      - trigger: on_play
        target: enemy_random
        action: damage
        value: 2
`), 0o644))

	c := New()
	require.NoError(t, c.LoadSet(path))
	require.Equal(t, 2, c.Len())

	tester, ok := c.Template("tester")
	require.True(t, ok)
	assert.Equal(t, game.CardTypeCreature, tester.Type)
	assert.Equal(t, []game.Keyword{game.KeywordGuard}, tester.Keywords)
	require.Len(t, tester.Effects, 1)
	assert.Equal(t, game.TriggerOnPlay, tester.Effects[0].Trigger)
	assert.Equal(t, game.ActionBuffAttack, tester.Effects[0].Action)

	zap, ok := c.Template("zap")
	require.True(t, ok)
	assert.Equal(t, game.CardTypeSpell, zap.Type)
	assert.Equal(t, game.TargetEnemyRandom, zap.Effects[0].Target)
}

func TestLoadDirSortsFiles(t *testing.T) {
	dir := t.TempDir()
	write := func(name, id string) {
		body := "set: " + name + "\ncards:\n  - {id: " + id + ", name: " + id + ", type: creature, cost: 1, attack: 1, health: 1}\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write("b.yaml", "second")
	write("a.yaml", "first")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	c, err := LoadDir(dir, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())
	ids := []string{c.List()[0].ID, c.List()[1].ID}
	assert.Equal(t, []string{"first", "second"}, ids)
}

func TestLoadDeckFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deck.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: rush
faction: ember
tactics: aggressive
cards:
  - {id: ember_recruit, count: 3}
  - {id: ember_warhound, count: 2}
`), 0o644))

	dl, err := LoadDeck(path)
	require.NoError(t, err)
	assert.Equal(t, "rush", dl.Name)
	assert.Equal(t, FactionEmber, dl.Faction)
	assert.Equal(t, "aggressive", dl.Tactics)
	require.Len(t, dl.Cards, 2)
	assert.Equal(t, 3, dl.Cards[0].Count)

	_, err = LoadDeck(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
