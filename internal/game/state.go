package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/duelforge/duelsim/internal/game/actionlog"
)

// Board and turn limits. Defined once; every subsystem reads these.
const (
	FieldCapacity   = 5
	HandCap         = 7
	EnergyCap       = 8
	StartingLife    = 20
	OpeningHand     = 3
	FatigueDamage   = 1
	MaxChainDepth   = 3
	TurnLimit       = 30
	deploySafetyCap = 32
)

// Phase represents the five cyclic phases of a turn.
type Phase int

const (
	PhaseDraw Phase = iota
	PhaseEnergy
	PhaseDeploy
	PhaseBattle
	PhaseEnd
)

var phaseNames = map[Phase]string{
	PhaseDraw:   "draw",
	PhaseEnergy: "energy",
	PhaseDeploy: "deploy",
	PhaseBattle: "battle",
	PhaseEnd:    "end",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("phase_%d", int(p))
}

// FieldCard is a live creature instance on a field zone. Instance identity
// is the uuid InstanceID; duplicates of one template coexist freely.
type FieldCard struct {
	InstanceID string
	TemplateID string
	Template   *CardTemplate
	Name       string
	Owner      string
	Cost       int
	Attack     int // base attack from the template
	Health     int // base health from the template

	CurrentHealth int

	// Stat modifiers. Permanent modifiers survive until the card leaves the
	// field; passive modifiers are wiped and rebuilt from the board on every
	// phase boundary.
	PermAttack    int
	PermHealth    int
	PassiveAttack int
	PassiveHealth int

	SummonedTurn    int
	Position        int
	HasAttacked     bool
	Stealth         bool
	Silenced        bool
	ReadiedThisTurn bool

	Keywords []Keyword
	Effects  []CardEffect
	Statuses []StatusEffect
}

// HasKeyword reports keyword possession ignoring silence.
func (c *FieldCard) HasKeyword(k Keyword) bool {
	for _, kw := range c.Keywords {
		if kw == k {
			return true
		}
	}
	return false
}

// ActiveKeyword reports keyword possession; silence suppresses all keywords.
func (c *FieldCard) ActiveKeyword(k Keyword) bool {
	return !c.Silenced && c.HasKeyword(k)
}

// EffectiveAttack is base attack plus permanent and passive modifiers,
// floored at zero.
func (c *FieldCard) EffectiveAttack() int {
	a := c.Attack + c.PermAttack + c.PassiveAttack
	if a < 0 {
		return 0
	}
	return a
}

// EffectiveMaxHealth is base health plus permanent and passive modifiers.
func (c *FieldCard) EffectiveMaxHealth() int {
	h := c.Health + c.PermHealth + c.PassiveHealth
	if h < 1 {
		return 1
	}
	return h
}

// Alive reports whether the card is above the death threshold.
func (c *FieldCard) Alive() bool {
	return c.CurrentHealth > 0
}

// Undamaged reports whether the card sits at its effective maximum health.
func (c *FieldCard) Undamaged() bool {
	return c.CurrentHealth >= c.EffectiveMaxHealth()
}

// Status returns the card's status of the given kind, if present.
func (c *FieldCard) Status(kind StatusKind) (*StatusEffect, bool) {
	for i := range c.Statuses {
		if c.Statuses[i].Kind == kind {
			return &c.Statuses[i], true
		}
	}
	return nil, false
}

// Branded reports whether the card carries the branded status.
func (c *FieldCard) Branded() bool {
	_, ok := c.Status(StatusBranded)
	return ok
}

// Stunned reports whether a stun status with remaining duration is present.
func (c *FieldCard) Stunned() bool {
	s, ok := c.Status(StatusStun)
	return ok && s.Duration > 0
}

// EffectsFor returns the instance's effects for a trigger. A silenced card
// has no effects.
func (c *FieldCard) EffectsFor(trigger Trigger) []CardEffect {
	if c.Silenced {
		return nil
	}
	var out []CardEffect
	for _, e := range c.Effects {
		if e.Trigger == trigger {
			out = append(out, e)
		}
	}
	return out
}

// Snapshot captures the card's externally visible stats, used by destruction
// records so a full replay renderer can show the card as it died.
func (c *FieldCard) Snapshot() map[string]any {
	return map[string]any{
		"instance_id":    c.InstanceID,
		"template_id":    c.TemplateID,
		"name":           c.Name,
		"owner":          c.Owner,
		"attack":         c.EffectiveAttack(),
		"current_health": c.CurrentHealth,
		"max_health":     c.EffectiveMaxHealth(),
		"position":       c.Position,
	}
}

// PlayerState holds one player's life, energy, and five zones.
type PlayerState struct {
	ID        string
	Life      int
	Energy    int
	MaxEnergy int
	Faction   Faction
	Tactics   string

	Deck      []*CardTemplate // ordered; drawn from the front
	Hand      []*CardTemplate
	Field     []*FieldCard // ordered, positions 0..FieldCapacity-1
	Graveyard []*CardTemplate
	Banished  []*CardTemplate // permanently excluded from graveyard scans
}

// LivingField returns the player's field cards above the death threshold.
func (p *PlayerState) LivingField() []*FieldCard {
	var out []*FieldCard
	for _, c := range p.Field {
		if c.Alive() {
			out = append(out, c)
		}
	}
	return out
}

// GraveyardCreatureCount counts creature templates in the graveyard.
// Banished cards are not in the graveyard and therefore never counted.
func (p *PlayerState) GraveyardCreatureCount() int {
	n := 0
	for _, t := range p.Graveyard {
		if t.Type == CardTypeCreature {
			n++
		}
	}
	return n
}

// GameResult is the terminal outcome of a game. Winner is empty on a draw.
type GameResult struct {
	Winner string
	Loser  string
	Draw   bool
	Reason string
	Turn   int
}

// GameState is the root aggregate of one simulation. It is created once per
// game and mutated in place by every resolver; there is exactly one writer
// at a time.
type GameState struct {
	ID            string
	Turn          int
	CurrentPlayer string
	Phase         Phase
	Players       map[string]*PlayerState
	Order         [2]string
	Log           *actionlog.Log
	Result        *GameResult
	Seed          string
	StartedAt     time.Time

	instanceCounter int
}

// instanceNamespace is the uuid namespace for field-card instance ids.
var instanceNamespace = uuid.MustParse("8f1c2a4e-6b3d-4c5e-9a7f-0d2b4e6a8c1f")

// NewInstanceID allocates a field-card instance id. Ids are uuids derived
// from the game seed and an allocation counter, so identical runs allocate
// identical ids and the action log stays byte-comparable.
func (g *GameState) NewInstanceID() string {
	g.instanceCounter++
	return uuid.NewSHA1(instanceNamespace, []byte(fmt.Sprintf("%s:%d", g.Seed, g.instanceCounter))).String()
}

// Player returns the state for a player id.
func (g *GameState) Player(id string) *PlayerState {
	return g.Players[id]
}

// Opponent returns the id of the other player.
func (g *GameState) Opponent(id string) string {
	if g.Order[0] == id {
		return g.Order[1]
	}
	return g.Order[0]
}

// Current returns the state of the player whose turn it is.
func (g *GameState) Current() *PlayerState {
	return g.Players[g.CurrentPlayer]
}

// FindFieldCard locates a field card by instance id across both players.
func (g *GameState) FindFieldCard(instanceID string) (*FieldCard, *PlayerState) {
	for _, pid := range g.Order {
		p := g.Players[pid]
		for _, c := range p.Field {
			if c.InstanceID == instanceID {
				return c, p
			}
		}
	}
	return nil, nil
}

// FieldsOwnerFirst returns both players' field slices with the given owner
// first. Global trigger scans use this ordering.
func (g *GameState) FieldsOwnerFirst(ownerID string) [][]*FieldCard {
	opp := g.Opponent(ownerID)
	return [][]*FieldCard{g.Players[ownerID].Field, g.Players[opp].Field}
}

// Finished reports whether a terminal result has been recorded.
func (g *GameState) Finished() bool {
	return g.Result != nil
}
