package game

import (
	"fmt"

	"github.com/duelforge/duelsim/internal/game/actionlog"
)

// Action handlers. Each applies one ActionKind against the resolved targets
// in the effect context and logs the observable deltas. Handlers never
// destroy cards they merely depressed below the threshold as a side effect;
// only direct damage and destroy actions run destruction synchronously, and
// the death sweeper restores the no-lingering-dead invariant for the rest.

func (r *Resolver) handleDamage(g *GameState, ctx *effectContext) error {
	deltas := make(map[string]any)
	var killed []*FieldCard

	for _, c := range ctx.targets.Cards {
		before := c.CurrentHealth
		r.applyDamage(g, c, ctx.value)
		deltas[c.InstanceID] = map[string]any{"health_before": before, "health_after": c.CurrentHealth}
		if before > 0 && c.CurrentHealth <= 0 {
			killed = append(killed, c)
		}
	}

	if ctx.targets.TargetPlayer || ctx.targets.TargetSelf {
		pid := g.Opponent(ctx.source.PlayerID)
		if ctx.targets.TargetSelf {
			pid = ctx.source.PlayerID
		}
		before, after := damagePlayer(g.Players[pid], ctx.value)
		deltas[pid] = map[string]any{"life_before": clampLife(before), "life_after": clampLife(after)}
	}

	r.logEffect(g, ctx, deltas)

	// Direct damage destroys its own casualties synchronously.
	for _, c := range killed {
		r.DestroyCreature(g, c)
	}

	// Kill-chain continuation: fires only when this damage actually killed,
	// bounded by a fixed depth so mutually chaining effects terminate. The
	// just-killed creatures are off the field, so the chain's target pool
	// excludes them naturally.
	if ctx.eff.ChainOnKill != nil && len(killed) > 0 && ctx.depth < MaxChainDepth {
		chain := *ctx.eff.ChainOnKill
		if EvalCondition(g, chain.Condition, ctx.source.PlayerID) {
			r.executeEffect(g, &chain, ctx.source, ctx.depth+1)
		}
	}
	return nil
}

func (r *Resolver) handleHeal(g *GameState, ctx *effectContext) error {
	deltas := make(map[string]any)

	for _, c := range ctx.targets.Cards {
		before := c.CurrentHealth
		c.CurrentHealth += ctx.value
		if max := c.EffectiveMaxHealth(); c.CurrentHealth > max {
			c.CurrentHealth = max
		}
		deltas[c.InstanceID] = map[string]any{"health_before": before, "health_after": c.CurrentHealth}
	}

	if ctx.targets.TargetPlayer || ctx.targets.TargetSelf {
		pid := ctx.source.PlayerID
		if ctx.targets.TargetPlayer {
			pid = g.Opponent(ctx.source.PlayerID)
		}
		p := g.Players[pid]
		before := p.Life
		p.Life += ctx.value
		if p.Life > StartingLife {
			p.Life = StartingLife
		}
		deltas[pid] = map[string]any{"life_before": clampLife(before), "life_after": clampLife(p.Life)}
	}

	r.logEffect(g, ctx, deltas)
	return nil
}

func (r *Resolver) handleBuffAttack(g *GameState, ctx *effectContext) error {
	deltas := make(map[string]any)
	for _, c := range ctx.targets.Cards {
		before := c.EffectiveAttack()
		c.PermAttack += ctx.value
		deltas[c.InstanceID] = map[string]any{"attack_before": before, "attack_after": c.EffectiveAttack()}
	}
	r.logEffect(g, ctx, deltas)
	return nil
}

func (r *Resolver) handleBuffHealth(g *GameState, ctx *effectContext) error {
	deltas := make(map[string]any)
	for _, c := range ctx.targets.Cards {
		before := c.CurrentHealth
		c.PermHealth += ctx.value
		c.CurrentHealth += ctx.value
		deltas[c.InstanceID] = map[string]any{"health_before": before, "health_after": c.CurrentHealth}
	}
	r.logEffect(g, ctx, deltas)
	return nil
}

func (r *Resolver) handleDebuffAttack(g *GameState, ctx *effectContext) error {
	deltas := make(map[string]any)
	for _, c := range ctx.targets.Cards {
		before := c.EffectiveAttack()
		c.PermAttack -= ctx.value
		deltas[c.InstanceID] = map[string]any{"attack_before": before, "attack_after": c.EffectiveAttack()}
	}
	r.logEffect(g, ctx, deltas)
	return nil
}

// handleDebuffHealth can depress a card below the death threshold without
// going through the damage path; the sweeper picks those up.
func (r *Resolver) handleDebuffHealth(g *GameState, ctx *effectContext) error {
	deltas := make(map[string]any)
	for _, c := range ctx.targets.Cards {
		before := c.CurrentHealth
		c.PermHealth -= ctx.value
		c.CurrentHealth -= ctx.value
		deltas[c.InstanceID] = map[string]any{"health_before": before, "health_after": c.CurrentHealth}
	}
	r.logEffect(g, ctx, deltas)
	return nil
}

func (r *Resolver) handleSummon(g *GameState, ctx *effectContext) error {
	if ctx.eff.SummonID == "" {
		return fmt.Errorf("summon effect on %s has no summon_id", ctx.source.Identity())
	}
	tmpl, ok := r.templates.Template(ctx.eff.SummonID)
	if !ok {
		return fmt.Errorf("summon template %q not found", ctx.eff.SummonID)
	}
	count := ctx.value
	if count <= 0 {
		count = 1
	}
	p := g.Players[ctx.source.PlayerID]
	deltas := make(map[string]any)
	for i := 0; i < count; i++ {
		card := g.SummonToField(p, tmpl)
		if card == nil {
			break // field full
		}
		deltas[card.InstanceID] = map[string]any{"summoned": tmpl.ID, "position": card.Position}
	}
	r.logEffect(g, ctx, deltas)
	return nil
}

func (r *Resolver) handleDraw(g *GameState, ctx *effectContext) error {
	pid := ctx.source.PlayerID
	if ctx.targets.TargetPlayer {
		pid = g.Opponent(ctx.source.PlayerID)
	}
	p := g.Players[pid]
	count := ctx.value
	if count <= 0 {
		count = 1
	}
	drawn := 0
	for i := 0; i < count; i++ {
		tmpl := DeckDraw(p)
		if tmpl == nil {
			break // empty deck or hand at cap; effect draws carry no fatigue
		}
		drawn++
		g.Log.Append(pid, actionlog.TypeCardDrawn, map[string]any{
			"template_id": tmpl.ID,
			"name":        tmpl.Name,
			"via":         "effect",
		})
	}
	r.logEffect(g, ctx, map[string]any{pid: map[string]any{"drawn": drawn}})
	return nil
}

func (r *Resolver) handleSilence(g *GameState, ctx *effectContext) error {
	deltas := make(map[string]any)
	for _, c := range ctx.targets.Cards {
		c.Silenced = true
		deltas[c.InstanceID] = map[string]any{"silenced": true}
	}
	r.logEffect(g, ctx, deltas)
	return nil
}

func (r *Resolver) handleResurrect(g *GameState, ctx *effectContext) error {
	p := g.Players[ctx.source.PlayerID]
	count := ctx.value
	if count <= 0 {
		count = 1
	}
	deltas := make(map[string]any)
	for i := 0; i < count; i++ {
		card := g.GraveyardToField(p)
		if card == nil {
			break // nothing to revive or field full
		}
		deltas[card.InstanceID] = map[string]any{"resurrected": card.TemplateID, "position": card.Position}
	}
	r.logEffect(g, ctx, deltas)
	return nil
}

func (r *Resolver) handleStun(g *GameState, ctx *effectContext) error {
	dur := ctx.value
	if dur <= 0 {
		dur = 1
	}
	deltas := make(map[string]any)
	for _, c := range ctx.targets.Cards {
		if s, ok := c.Status(StatusStun); ok {
			if s.Duration < dur {
				s.Duration = dur
			}
		} else {
			c.Statuses = append(c.Statuses, StatusEffect{Kind: StatusStun, Duration: dur})
		}
		deltas[c.InstanceID] = map[string]any{"stunned": dur}
	}
	r.logEffect(g, ctx, deltas)
	return nil
}

// handleReady clears a card's attacked flag once per turn. The
// readied-this-turn latch prevents ready loops within a single turn.
func (r *Resolver) handleReady(g *GameState, ctx *effectContext) error {
	deltas := make(map[string]any)
	for _, c := range ctx.targets.Cards {
		if c.ReadiedThisTurn {
			continue
		}
		c.HasAttacked = false
		c.ReadiedThisTurn = true
		deltas[c.InstanceID] = map[string]any{"readied": true}
	}
	r.logEffect(g, ctx, deltas)
	return nil
}

func (r *Resolver) handleDestroyDeckTop(g *GameState, ctx *effectContext) error {
	pid := g.Opponent(ctx.source.PlayerID)
	if ctx.targets.TargetSelf {
		pid = ctx.source.PlayerID
	}
	p := g.Players[pid]
	count := ctx.value
	if count <= 0 {
		count = 1
	}
	var milled []string
	for i := 0; i < count; i++ {
		tmpl := DeckMill(p)
		if tmpl == nil {
			break
		}
		milled = append(milled, tmpl.ID)
	}
	r.logEffect(g, ctx, map[string]any{pid: map[string]any{"milled": milled}})
	return nil
}

// handleSwapAttackHealth exchanges a card's effective attack with its
// current health. The new values are expressed through base stats so later
// passive recomputation still applies cleanly on top.
func (r *Resolver) handleSwapAttackHealth(g *GameState, ctx *effectContext) error {
	deltas := make(map[string]any)
	for _, c := range ctx.targets.Cards {
		atk := c.EffectiveAttack()
		hp := c.CurrentHealth
		c.Attack = hp - c.PermAttack - c.PassiveAttack
		c.PermHealth += atk - c.EffectiveMaxHealth()
		c.CurrentHealth = atk
		deltas[c.InstanceID] = map[string]any{
			"attack_before": atk, "attack_after": c.EffectiveAttack(),
			"health_before": hp, "health_after": c.CurrentHealth,
		}
	}
	r.logEffect(g, ctx, deltas)
	return nil
}

func (r *Resolver) handleHandDiscard(g *GameState, ctx *effectContext) error {
	pid := g.Opponent(ctx.source.PlayerID)
	if ctx.targets.TargetSelf {
		pid = ctx.source.PlayerID
	}
	p := g.Players[pid]
	count := ctx.value
	if count <= 0 {
		count = 1
	}
	var discarded []string
	for i := 0; i < count && len(p.Hand) > 0; i++ {
		idx := ctx.rng.Choice(len(p.Hand))
		tmpl := p.Hand[idx]
		HandToGraveyard(p, tmpl)
		discarded = append(discarded, tmpl.ID)
	}
	r.logEffect(g, ctx, map[string]any{pid: map[string]any{"discarded": discarded}})
	return nil
}

// handleDestroyAllCreatures is the board wipe: every living creature on both
// fields, narrowed by the effect's selection rules, goes through full
// destruction processing in field order, current side first.
func (r *Resolver) handleDestroyAllCreatures(g *GameState, ctx *effectContext) error {
	var doomed []*FieldCard
	for _, field := range g.FieldsOwnerFirst(ctx.source.PlayerID) {
		doomed = append(doomed, ApplySelectionRules(livingOf(field), ctx.eff.Selection, ctx.source.Card)...)
	}
	deltas := make(map[string]any)
	for _, c := range doomed {
		deltas[c.InstanceID] = map[string]any{"destroyed": true}
	}
	r.logEffect(g, ctx, deltas)
	for _, c := range doomed {
		r.DestroyCreature(g, c)
	}
	return nil
}

func livingOf(field []*FieldCard) []*FieldCard {
	var out []*FieldCard
	for _, c := range field {
		if c.Alive() {
			out = append(out, c)
		}
	}
	return out
}

func (r *Resolver) handleApplyBrand(g *GameState, ctx *effectContext) error {
	deltas := make(map[string]any)
	for _, c := range ctx.targets.Cards {
		if !c.Branded() {
			c.Statuses = append(c.Statuses, StatusEffect{Kind: StatusBranded})
		}
		deltas[c.InstanceID] = map[string]any{"branded": true}
	}
	r.logEffect(g, ctx, deltas)
	return nil
}

func (r *Resolver) handleBanish(g *GameState, ctx *effectContext) error {
	deltas := make(map[string]any)
	for _, c := range ctx.targets.Cards {
		if r.BanishCreature(g, c) {
			deltas[c.InstanceID] = map[string]any{"banished": true}
		}
	}
	r.logEffect(g, ctx, deltas)
	return nil
}

func (r *Resolver) handleDeckSearch(g *GameState, ctx *effectContext) error {
	if ctx.eff.SummonID == "" {
		return fmt.Errorf("deck_search effect on %s has no summon_id", ctx.source.Identity())
	}
	p := g.Players[ctx.source.PlayerID]
	tmpl := DeckSearch(p, ctx.eff.SummonID)
	data := map[string]any{}
	if tmpl != nil {
		data[ctx.source.PlayerID] = map[string]any{"searched": tmpl.ID}
		g.Log.Append(ctx.source.PlayerID, actionlog.TypeCardDrawn, map[string]any{
			"template_id": tmpl.ID,
			"name":        tmpl.Name,
			"via":         "deck_search",
		})
	}
	r.logEffect(g, ctx, data)
	return nil
}
