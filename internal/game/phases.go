package game

import (
	"go.uber.org/zap"

	"github.com/duelforge/duelsim/internal/game/actionlog"
)

// The turn state machine. Every turn walks the same five phases in order:
// draw, energy, deploy, battle, end. AdvancePhase runs the current phase to
// completion and then transitions; the end-to-draw transition hands the turn
// to the other player.

// Engine drives games: it owns the effect resolver and the pluggable
// decider, and exposes the phase machine.
type Engine struct {
	logger   *zap.Logger
	resolver *Resolver
	decider  Decider
}

// NewEngine wires an engine from its collaborators.
func NewEngine(logger *zap.Logger, templates TemplateSource, decider Decider) *Engine {
	return &Engine{
		logger:   logger,
		resolver: NewResolver(logger, templates),
		decider:  decider,
	}
}

// Resolver exposes the engine's effect resolver for direct effect execution
// (tests, tooling).
func (e *Engine) Resolver() *Resolver {
	return e.resolver
}

// AdvancePhase executes the current phase and moves the state machine one
// step. Passive modifiers are rebuilt and deaths swept on every phase
// boundary, so each phase starts from a settled board.
func (e *Engine) AdvancePhase(g *GameState) {
	if g.Finished() {
		return
	}

	switch g.Phase {
	case PhaseDraw:
		e.runDrawPhase(g)
	case PhaseEnergy:
		e.runEnergyPhase(g)
	case PhaseDeploy:
		e.runDeployPhase(g)
	case PhaseBattle:
		e.NewBattle(g).Run()
	case PhaseEnd:
		e.runEndPhase(g)
	}
	e.settle(g)

	if g.Phase == PhaseEnd {
		g.CurrentPlayer = g.Opponent(g.CurrentPlayer)
		g.Turn++
		g.Phase = PhaseDraw
	} else {
		g.Phase++
	}
	// The turn handover is logged from the incoming player's perspective.
	g.Log.Append(g.CurrentPlayer, actionlog.TypePhaseChange, map[string]any{
		"phase": g.Phase.String(),
		"turn":  g.Turn,
	})
}

func (e *Engine) settle(g *GameState) {
	e.resolver.ReapplyPassives(g)
	e.resolver.SweepDeaths(g)
	e.resolver.CheckConsistency(g)
}

func lifeDepleted(g *GameState) bool {
	for _, pid := range g.Order {
		if g.Players[pid].Life <= 0 {
			return true
		}
	}
	return false
}

// runDrawPhase fires turn_start triggers, then draws one card. An empty deck
// deals fatigue damage instead of a card; a full hand skips the draw
// entirely.
func (e *Engine) runDrawPhase(g *GameState) {
	p := g.Current()

	e.resolver.ProcessTrigger(g, TriggerTurnStart, EffectSource{PlayerID: p.ID}, "")
	e.settle(g)
	if lifeDepleted(g) {
		return
	}

	switch {
	case len(p.Deck) == 0:
		before, after := damagePlayer(p, FatigueDamage)
		g.Log.Append(p.ID, actionlog.TypeCardDrawn, map[string]any{
			"fatigue":     true,
			"damage":      FatigueDamage,
			"life_before": clampLife(before),
			"life_after":  clampLife(after),
		})
	case len(p.Hand) >= HandCap:
		// Nothing changes; nothing is logged.
	default:
		tmpl := DeckDraw(p)
		g.Log.Append(p.ID, actionlog.TypeCardDrawn, map[string]any{
			"template_id": tmpl.ID,
			"name":        tmpl.Name,
			"via":         "draw_phase",
		})
	}
}

// runEnergyPhase grows maximum energy by one up to the cap and refills.
// Records are appended only when a value actually changed.
func (e *Engine) runEnergyPhase(g *GameState) {
	p := g.Current()

	if p.MaxEnergy < EnergyCap {
		p.MaxEnergy++
		g.Log.Append(p.ID, actionlog.TypeEnergyUpdated, map[string]any{
			"max_energy": p.MaxEnergy,
		})
	}
	if p.Energy != p.MaxEnergy {
		p.Energy = p.MaxEnergy
		g.Log.Append(p.ID, actionlog.TypeEnergyRefilled, map[string]any{
			"energy": p.Energy,
		})
	}
}

// runDeployPhase repeatedly plays the highest-scoring playable card until
// none remains. Playability is re-evaluated after every placement: each play
// changes energy, field space, and possibly play conditions.
func (e *Engine) runDeployPhase(g *GameState) {
	p := g.Current()

	for i := 0; i < deploySafetyCap; i++ {
		best := e.pickBestPlay(g, p)
		if best == nil {
			return
		}
		if !e.PlayCard(g, p.ID, best) {
			e.logger.Warn("scored card refused by play path",
				zap.String("game_id", g.ID),
				zap.String("template_id", best.ID),
			)
			return
		}
		e.settle(g)
		if lifeDepleted(g) {
			return
		}
	}
	e.resolver.invariantViolation(g, "deploy loop exceeded safety cap")
}

func (e *Engine) pickBestPlay(g *GameState, p *PlayerState) *CardTemplate {
	var best *CardTemplate
	var bestScore float64
	for _, tmpl := range p.Hand {
		if !e.playable(g, p, tmpl) {
			continue
		}
		score := e.decider.ScoreCardForPlay(tmpl, g, p.ID)
		// Ties resolve to the earlier hand position, deterministically.
		if best == nil || score > bestScore {
			best = tmpl
			bestScore = score
		}
	}
	return best
}

func (e *Engine) playable(g *GameState, p *PlayerState, tmpl *CardTemplate) bool {
	if tmpl.Cost > p.Energy {
		return false
	}
	if tmpl.Type == CardTypeCreature && len(p.Field) >= FieldCapacity {
		return false
	}
	return EvalConditions(g, tmpl.PlayConditions, p.ID)
}

// runEndPhase ticks status effects on every field card, clears per-turn
// flags, and fires turn_end triggers. Poison casualties are collected during
// the scan and destroyed only after it completes, so destruction cascades do
// not interleave with the tick order.
func (e *Engine) runEndPhase(g *GameState) {
	for _, pid := range []string{g.CurrentPlayer, g.Opponent(g.CurrentPlayer)} {
		p := g.Players[pid]
		g.Log.Append(pid, actionlog.TypeTurnEndStage, map[string]any{
			"stage": "status_tick",
		})

		var doomed []*FieldCard
		field := append([]*FieldCard(nil), p.Field...)
		for _, c := range field {
			e.tickStatuses(g, c)
			if c.CurrentHealth <= 0 && !g.Log.HasDestroyed(c.InstanceID) {
				doomed = append(doomed, c)
			}
		}
		for _, c := range doomed {
			e.resolver.DestroyCreature(g, c)
		}

		for _, c := range p.Field {
			c.HasAttacked = false
			c.ReadiedThisTurn = false
			c.Stealth = false
		}
	}
	e.settle(g)
	if lifeDepleted(g) {
		return
	}

	e.resolver.ProcessTrigger(g, TriggerTurnEnd, EffectSource{PlayerID: g.CurrentPlayer}, "")
}

// tickStatuses applies one end-of-turn tick to a card's statuses: poison
// deals its damage, durations count down, and expired entries are removed.
// Branded has no duration and never expires.
func (e *Engine) tickStatuses(g *GameState, c *FieldCard) {
	kept := c.Statuses[:0]
	for _, s := range c.Statuses {
		if s.Kind == StatusBranded {
			kept = append(kept, s)
			continue
		}
		if s.Kind == StatusPoison && s.Damage > 0 && c.Alive() {
			before := c.CurrentHealth
			c.CurrentHealth -= s.Damage
			g.Log.Append(c.Owner, actionlog.TypeKeywordTriggered, map[string]any{
				"keyword":       string(KeywordPoison),
				"tick":          true,
				"target":        c.InstanceID,
				"damage":        s.Damage,
				"health_before": before,
				"health_after":  c.CurrentHealth,
			})
		}
		s.Duration--
		if s.Duration > 0 {
			kept = append(kept, s)
		}
	}
	c.Statuses = kept
}
