package ai

import (
	"go.uber.org/zap"

	"github.com/duelforge/duelsim/internal/game"
	"github.com/duelforge/duelsim/internal/game/rng"
)

// Heuristic is the default Decider. One instance serves both seats: the
// profile is looked up from the acting player's tactics on every call. It is
// stateless between calls and pure given the same state and RNG, which the
// engine requires for deterministic replays.
type Heuristic struct {
	logger *zap.Logger
}

// Profile weights the heuristic toward a play style. Profiles are selected
// by the tactics string carried on PlayerState.
type Profile struct {
	Name string

	// FaceWeight scales the value of attacking the opposing player directly.
	FaceWeight float64
	// TradeWeight scales the value of a favorable creature trade.
	TradeWeight float64
	// CurveWeight scales the preference for expensive plays.
	CurveWeight float64
}

var profiles = map[string]Profile{
	"aggressive": {Name: "aggressive", FaceWeight: 2.0, TradeWeight: 0.8, CurveWeight: 0.6},
	"control":    {Name: "control", FaceWeight: 0.5, TradeWeight: 1.6, CurveWeight: 1.2},
	"balanced":   {Name: "balanced", FaceWeight: 1.0, TradeWeight: 1.0, CurveWeight: 1.0},
}

// New returns the heuristic decider.
func New(logger *zap.Logger) *Heuristic {
	return &Heuristic{logger: logger}
}

// profileFor resolves a player's tactics string. Unknown tactics fall back
// to balanced.
func (h *Heuristic) profileFor(g *game.GameState, playerID string) Profile {
	tactics := ""
	if p := g.Player(playerID); p != nil {
		tactics = p.Tactics
	}
	if profile, ok := profiles[tactics]; ok {
		return profile
	}
	return profiles["balanced"]
}

// ScoreCardForPlay scores a legally playable card. The engine plays the
// single highest score; ties resolve to hand order, so equal scores are
// fine.
func (h *Heuristic) ScoreCardForPlay(card *game.CardTemplate, g *game.GameState, playerID string) float64 {
	profile := h.profileFor(g, playerID)
	score := float64(card.Cost) * profile.CurveWeight

	if card.Type == game.CardTypeCreature {
		score += float64(card.Attack+card.Health) * 0.5
		for _, k := range card.Keywords {
			score += keywordValue(k)
		}
		if card.HasKeyword(game.KeywordRush) {
			score += profile.FaceWeight
		}
	} else {
		// A playable spell has already passed its play conditions, so it
		// has something to do right now.
		score += float64(len(card.Effects)) * profile.TradeWeight
	}
	return score
}

func keywordValue(k game.Keyword) float64 {
	switch k {
	case game.KeywordGuard, game.KeywordLifesteal:
		return 1.0
	case game.KeywordTrample, game.KeywordPoison, game.KeywordRetaliate:
		return 0.8
	case game.KeywordStealth, game.KeywordUntargetable:
		return 0.5
	case game.KeywordRush:
		return 0.7
	}
	return 0
}

// ChooseAttackTarget picks the best creature trade, or the player's face
// when no trade is worth taking. Guard enforcement happens in the engine
// after this returns.
func (h *Heuristic) ChooseAttackTarget(attacker *game.FieldCard, g *game.GameState, r *rng.RNG) game.AttackChoice {
	profile := h.profileFor(g, attacker.Owner)
	opponent := g.Players[g.Opponent(attacker.Owner)]
	power := attacker.EffectiveAttack()

	var best *game.FieldCard
	var bestScore float64
	for _, c := range opponent.Field {
		if !c.Alive() || c.Stealth {
			continue
		}
		score := h.tradeScore(profile, attacker, c, power)
		if best == nil || score > bestScore {
			best = c
			bestScore = score
		}
	}

	faceScore := float64(power) * profile.FaceWeight
	if best == nil || faceScore > bestScore {
		return game.AttackChoice{TargetsPlayer: true}
	}
	return game.AttackChoice{Target: best}
}

// tradeScore values killing the defender, penalizes dying to the strike
// back, and slightly prefers higher-attack threats.
func (h *Heuristic) tradeScore(profile Profile, attacker, defender *game.FieldCard, power int) float64 {
	strikeBack := defender.EffectiveAttack()
	if defender.ActiveKeyword(game.KeywordRetaliate) {
		strikeBack += (strikeBack + 1) / 2
	}

	score := float64(defender.EffectiveAttack()) * 0.5
	if power >= defender.CurrentHealth {
		score += float64(defender.Cost) * profile.TradeWeight
	}
	if strikeBack >= attacker.CurrentHealth {
		score -= float64(attacker.Cost) * profile.TradeWeight
	}
	if defender.ActiveKeyword(game.KeywordGuard) {
		// A guard will soak the attack anyway; hitting it first is free.
		score += 0.5
	}
	return score
}
