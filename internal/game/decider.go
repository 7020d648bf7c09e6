package game

import "github.com/duelforge/duelsim/internal/game/rng"

// AttackChoice is the outcome of an attack-target decision: a creature, or
// the defending player directly.
type AttackChoice struct {
	Target        *FieldCard
	TargetsPlayer bool
}

// Decider is the pluggable AI collaborator consulted by the deploy phase
// and by combat. Implementations must be pure: identical inputs (including
// the RNG's state) produce identical outputs, or determinism is lost.
type Decider interface {
	// ScoreCardForPlay scores a legally playable card; the engine always
	// plays the single highest-scoring card.
	ScoreCardForPlay(card *CardTemplate, g *GameState, playerID string) float64

	// ChooseAttackTarget picks an attack target for an eligible attacker.
	// Guard enforcement happens after this call and may override the choice.
	ChooseAttackTarget(attacker *FieldCard, g *GameState, r *rng.RNG) AttackChoice
}
