package game

import (
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/duelforge/duelsim/internal/game/actionlog"
	"github.com/duelforge/duelsim/internal/game/rng"
)

// templateMap is a minimal TemplateSource for tests.
type templateMap map[string]*CardTemplate

func (m templateMap) Template(id string) (*CardTemplate, bool) {
	t, ok := m[id]
	return t, ok
}

func creature(id string, cost, attack, health int, kws ...Keyword) *CardTemplate {
	return &CardTemplate{
		ID: id, Name: id, Cost: cost, Type: CardTypeCreature,
		Attack: attack, Health: health, Keywords: kws,
	}
}

func spellCard(id string, cost int, effs ...CardEffect) *CardTemplate {
	return &CardTemplate{ID: id, Name: id, Cost: cost, Type: CardTypeSpell, Effects: effs}
}

func newTestState(seed string) *GameState {
	return &GameState{
		ID:            "test-game",
		Turn:          2, // past turn 1 so summoned test cards may attack
		CurrentPlayer: "p1",
		Phase:         PhaseDraw,
		Players: map[string]*PlayerState{
			"p1": {ID: "p1", Life: StartingLife, Energy: 10, MaxEnergy: 10},
			"p2": {ID: "p2", Life: StartingLife, Energy: 10, MaxEnergy: 10},
		},
		Order: [2]string{"p1", "p2"},
		Log:   actionlog.New(),
		Seed:  seed,
	}
}

// put places a fresh instance on a player's field and backdates its summon
// turn so it is attack-eligible.
func put(g *GameState, pid string, tmpl *CardTemplate) *FieldCard {
	p := g.Players[pid]
	c := g.SummonToField(p, tmpl)
	if c == nil {
		panic("test field full")
	}
	c.SummonedTurn = g.Turn - 1
	return c
}

func newTestResolver(t *testing.T, templates TemplateSource) *Resolver {
	if templates == nil {
		templates = templateMap{}
	}
	r := NewResolver(zaptest.NewLogger(t), templates)
	r.Strict = true
	return r
}

// scriptedDecider returns canned attack choices in order and scores cards by
// a fixed table (default zero).
type scriptedDecider struct {
	choices []AttackChoice
	next    int
	scores  map[string]float64
}

func (d *scriptedDecider) ScoreCardForPlay(card *CardTemplate, g *GameState, playerID string) float64 {
	return d.scores[card.ID]
}

func (d *scriptedDecider) ChooseAttackTarget(attacker *FieldCard, g *GameState, r *rng.RNG) AttackChoice {
	if d.next >= len(d.choices) {
		return AttackChoice{TargetsPlayer: true}
	}
	choice := d.choices[d.next]
	d.next++
	return choice
}

func newTestEngine(t *testing.T, templates TemplateSource, decider Decider) *Engine {
	if templates == nil {
		templates = templateMap{}
	}
	if decider == nil {
		decider = &scriptedDecider{}
	}
	e := NewEngine(zaptest.NewLogger(t), templates, decider)
	e.resolver.Strict = true
	return e
}
