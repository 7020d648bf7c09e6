package game

import (
	"go.uber.org/zap"

	"github.com/duelforge/duelsim/internal/game/actionlog"
	"github.com/duelforge/duelsim/internal/game/rng"
)

// TemplateSource supplies immutable card templates to summon-style actions.
// The resolver never mutates templates.
type TemplateSource interface {
	Template(id string) (*CardTemplate, bool)
}

// EffectSource identifies the card an effect belongs to. Template is always
// set; Card is set when the source has a live field presence. Spells acting
// from the hand carry only the template.
type EffectSource struct {
	Template *CardTemplate
	Card     *FieldCard
	PlayerID string
}

// Identity returns the id used to derive effect-level RNG state: the field
// instance id when present, otherwise the template id.
func (s EffectSource) Identity() string {
	if s.Card != nil {
		return s.Card.InstanceID
	}
	if s.Template != nil {
		return s.Template.ID
	}
	return ""
}

func (s EffectSource) name() string {
	if s.Card != nil {
		return s.Card.Name
	}
	if s.Template != nil {
		return s.Template.Name
	}
	return ""
}

// effectContext carries one effect's resolution state through the handler.
type effectContext struct {
	eff     *CardEffect
	source  EffectSource
	targets TargetSet
	value   int
	depth   int
	rng     *rng.RNG
}

// actionHandler applies one action kind against resolved targets.
type actionHandler func(r *Resolver, g *GameState, ctx *effectContext) error

// Resolver executes declared card effects against the game state. It owns
// the closed action dispatch table; adding an action kind means adding a
// constant and an entry here, never a stringly-typed fallthrough.
type Resolver struct {
	logger    *zap.Logger
	templates TemplateSource
	handlers  map[ActionKind]actionHandler
	// Strict raises on invariant violations instead of auto-correcting.
	// Development builds set it; production leaves it off.
	Strict bool
}

// NewResolver creates an effect resolver.
func NewResolver(logger *zap.Logger, templates TemplateSource) *Resolver {
	r := &Resolver{
		logger:    logger,
		templates: templates,
	}
	r.handlers = map[ActionKind]actionHandler{
		ActionDamage:              (*Resolver).handleDamage,
		ActionHeal:                (*Resolver).handleHeal,
		ActionBuffAttack:          (*Resolver).handleBuffAttack,
		ActionBuffHealth:          (*Resolver).handleBuffHealth,
		ActionDebuffAttack:        (*Resolver).handleDebuffAttack,
		ActionDebuffHealth:        (*Resolver).handleDebuffHealth,
		ActionSummon:              (*Resolver).handleSummon,
		ActionDraw:                (*Resolver).handleDraw,
		ActionSilence:             (*Resolver).handleSilence,
		ActionResurrect:           (*Resolver).handleResurrect,
		ActionStun:                (*Resolver).handleStun,
		ActionReady:               (*Resolver).handleReady,
		ActionDestroyDeckTop:      (*Resolver).handleDestroyDeckTop,
		ActionSwapAttackHealth:    (*Resolver).handleSwapAttackHealth,
		ActionHandDiscard:         (*Resolver).handleHandDiscard,
		ActionDestroyAllCreatures: (*Resolver).handleDestroyAllCreatures,
		ActionApplyBrand:          (*Resolver).handleApplyBrand,
		ActionBanish:              (*Resolver).handleBanish,
		ActionDeckSearch:          (*Resolver).handleDeckSearch,
	}
	return r
}

// ExecuteCardEffect runs exactly one declared effect end to end: activation
// condition, targeting, selection filtering, value resolution, branch or
// handler dispatch.
func (r *Resolver) ExecuteCardEffect(g *GameState, eff CardEffect, source EffectSource) {
	if !EvalCondition(g, eff.Condition, source.PlayerID) {
		return
	}
	r.executeEffect(g, &eff, source, 0)
}

// ExecuteAllCardEffects runs every effect on a card matching the trigger.
// All activation conditions are evaluated against the pre-execution snapshot
// before any effect runs, so an earlier effect on the same card can neither
// enable nor disable a later one.
func (r *Resolver) ExecuteAllCardEffects(g *GameState, source EffectSource, trigger Trigger) {
	effs := sourceEffects(source, trigger)
	if len(effs) == 0 {
		return
	}
	enabled := make([]bool, len(effs))
	for i := range effs {
		enabled[i] = EvalCondition(g, effs[i].Condition, source.PlayerID)
	}
	for i := range effs {
		if enabled[i] {
			r.executeEffect(g, &effs[i], source, 0)
		}
	}
}

func sourceEffects(source EffectSource, trigger Trigger) []CardEffect {
	if source.Card != nil {
		return source.Card.EffectsFor(trigger)
	}
	if source.Template != nil {
		return source.Template.EffectsFor(trigger)
	}
	return nil
}

// executeEffect resolves a single effect whose activation condition has
// already passed. Handler faults are contained: a panic or error in one
// handler is logged and treated as a no-op so the simulation always reaches
// a terminal result.
func (r *Resolver) executeEffect(g *GameState, eff *CardEffect, source EffectSource, depth int) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("effect handler fault",
				zap.String("game_id", g.ID),
				zap.String("action", string(eff.Action)),
				zap.String("source", source.Identity()),
				zap.Any("panic", rec),
			)
		}
	}()

	effRNG := rng.Derive(g.Seed, g.Turn, source.Identity())

	targets := r.resolveEffectTargets(g, eff, source, effRNG)
	value := ResolveValue(g, eff, source.Card, source.PlayerID)

	// A conditional branch replaces the action handler entirely. Branch
	// effects carry their own conditions; the outer activation condition is
	// not re-checked.
	if eff.Branch != nil {
		branch := eff.Branch.Else
		if EvalCondition(g, &eff.Branch.Condition, source.PlayerID) {
			branch = eff.Branch.Then
		}
		for i := range branch {
			if EvalCondition(g, branch[i].Condition, source.PlayerID) {
				r.executeEffect(g, &branch[i], source, depth)
			}
		}
		return
	}

	handler, ok := r.handlers[eff.Action]
	if !ok {
		r.logger.Warn("unknown effect action",
			zap.String("game_id", g.ID),
			zap.String("action", string(eff.Action)),
			zap.String("source", source.Identity()),
		)
		return
	}

	ctx := &effectContext{
		eff:     eff,
		source:  source,
		targets: targets,
		value:   value,
		depth:   depth,
		rng:     effRNG,
	}
	if err := handler(r, g, ctx); err != nil {
		r.logger.Error("effect resolution failed",
			zap.String("game_id", g.ID),
			zap.String("action", string(eff.Action)),
			zap.String("source", source.Identity()),
			zap.Error(err),
		)
	}
}

// resolveEffectTargets resolves the initial pool, substitutes the live
// source instance for the self specifier, and applies selection rules to the
// pool before any random pick.
func (r *Resolver) resolveEffectTargets(g *GameState, eff *CardEffect, source EffectSource, effRNG *rng.RNG) TargetSet {
	if eff.Target == TargetSelf {
		if source.Card != nil {
			return TargetSet{Cards: []*FieldCard{source.Card}}
		}
		return TargetSet{}
	}

	set, random := CandidatePool(g, eff.Target, source.PlayerID)
	set.Cards = ApplySelectionRules(set.Cards, eff.Selection, source.Card)
	if random {
		set.Cards = pickRandom(set.Cards, effRNG)
	}
	return set
}

// ProcessTrigger is the dispatch entry point other subsystems invoke when a
// trigger point is reached.
//
// on_play, on_death, on_damage_taken, and on_attack are single-card
// triggers: only the card that experienced the event reacts, and a
// trigger-event record is logged only when that card actually has at least
// one matching effect. on_spell_play and on_ally_death are player-scoped:
// every card on that player's field reacts. turn_start and turn_end are
// global: both fields are scanned, owner first. Passive effects are never
// trigger-dispatched; they are rebuilt by ReapplyPassives.
func (r *Resolver) ProcessTrigger(g *GameState, trigger Trigger, source EffectSource, triggeringID string) {
	switch trigger {
	case TriggerOnPlay, TriggerOnDeath, TriggerOnDamageTaken, TriggerOnAttack:
		effs := sourceEffects(source, trigger)
		if len(effs) == 0 {
			return
		}
		g.Log.Append(source.PlayerID, actionlog.TypeTriggerEvent, map[string]any{
			"trigger":     string(trigger),
			"source":      source.Identity(),
			"source_name": source.name(),
			"triggering":  triggeringID,
		})
		r.ExecuteAllCardEffects(g, source, trigger)

	case TriggerOnSpellPlay, TriggerOnAllyDeath:
		p := g.Players[source.PlayerID]
		if p == nil {
			return
		}
		// Snapshot the field: reactions must not pick up cards their
		// predecessors summoned mid-dispatch.
		field := append([]*FieldCard(nil), p.Field...)
		for _, c := range field {
			if !c.Alive() || len(c.EffectsFor(trigger)) == 0 {
				continue
			}
			g.Log.Append(source.PlayerID, actionlog.TypeTriggerEvent, map[string]any{
				"trigger":     string(trigger),
				"source":      c.InstanceID,
				"source_name": c.Name,
				"triggering":  triggeringID,
			})
			r.ExecuteAllCardEffects(g, EffectSource{Template: c.Template, Card: c, PlayerID: c.Owner}, trigger)
		}

	case TriggerTurnStart, TriggerTurnEnd:
		for _, field := range g.FieldsOwnerFirst(source.PlayerID) {
			snapshot := append([]*FieldCard(nil), field...)
			for _, c := range snapshot {
				if !c.Alive() || len(c.EffectsFor(trigger)) == 0 {
					continue
				}
				g.Log.Append(c.Owner, actionlog.TypeTriggerEvent, map[string]any{
					"trigger":     string(trigger),
					"source":      c.InstanceID,
					"source_name": c.Name,
				})
				r.ExecuteAllCardEffects(g, EffectSource{Template: c.Template, Card: c, PlayerID: c.Owner}, trigger)
			}
		}
	}
}

// logEffect appends the generic effect-triggered record with a map of
// target ids to before/after deltas.
func (r *Resolver) logEffect(g *GameState, ctx *effectContext, deltas map[string]any) {
	data := map[string]any{
		"action":      string(ctx.eff.Action),
		"source":      ctx.source.Identity(),
		"source_name": ctx.source.name(),
		"value":       ctx.value,
	}
	if len(deltas) > 0 {
		data["targets"] = deltas
	}
	g.Log.Append(ctx.source.PlayerID, actionlog.TypeEffectTriggered, data)
}

// DestroyCreature runs full destruction processing for a field card: the
// destruction record, the card's on_death trigger, removal to graveyard,
// and the owner's on_ally_death reactions. It is the single legal death
// path; calling it for an already-destroyed instance is a no-op.
func (r *Resolver) DestroyCreature(g *GameState, card *FieldCard) {
	if card == nil || g.Log.HasDestroyed(card.InstanceID) {
		return
	}
	owner := g.Players[card.Owner]
	if owner == nil {
		return
	}

	// The record is written before triggers run so a cascade re-entering
	// this path for the same instance short-circuits above.
	g.Log.Append(card.Owner, actionlog.TypeCreatureDestroyed, map[string]any{
		"instance_id": card.InstanceID,
		"snapshot":    card.Snapshot(),
	})

	r.ProcessTrigger(g, TriggerOnDeath, EffectSource{Template: card.Template, Card: card, PlayerID: card.Owner}, card.InstanceID)

	if removed := FieldToGraveyard(owner, card.InstanceID); removed == nil {
		// Already spliced out by a cascade between the record and here.
		r.logger.Debug("destroy requested for card no longer on field",
			zap.String("game_id", g.ID),
			zap.String("instance_id", card.InstanceID),
		)
	}

	r.ProcessTrigger(g, TriggerOnAllyDeath, EffectSource{Template: card.Template, PlayerID: card.Owner}, card.InstanceID)
}

// BanishCreature removes a field card to the banished zone. This is the only
// removal path besides DestroyCreature; no death processing runs.
func (r *Resolver) BanishCreature(g *GameState, card *FieldCard) bool {
	owner := g.Players[card.Owner]
	if owner == nil {
		return false
	}
	return FieldToBanished(owner, card.InstanceID) != nil
}

// applyDamage lowers a card's health and fires its on_damage_taken trigger
// while it survives. Death processing is the caller's concern.
func (r *Resolver) applyDamage(g *GameState, card *FieldCard, amount int) {
	if amount <= 0 {
		return
	}
	card.CurrentHealth -= amount
	if card.Alive() {
		r.ProcessTrigger(g, TriggerOnDamageTaken, EffectSource{Template: card.Template, Card: card, PlayerID: card.Owner}, card.InstanceID)
	}
}

// damagePlayer lowers a player's life. The loss condition is evaluated by
// the driver against the unclamped value; clamping to zero is display-only
// and happens in log payloads.
func damagePlayer(p *PlayerState, amount int) (before, after int) {
	before = p.Life
	p.Life -= amount
	return before, p.Life
}

func clampLife(life int) int {
	if life < 0 {
		return 0
	}
	return life
}
