package game

// Passive effects are never dispatched through triggers. They are a derived
// projection of the current board: on every phase boundary the passive
// modifier fields on all field cards are fully reset (withdrawing the
// passive health delta from current health in either direction) and then
// every currently-eligible passive effect is replayed from scratch. Recomputing
// costs O(field size x effect count) but makes passive state a pure function
// of the board, which removes the stale-modifier bug class entirely.

// ReapplyPassives resets and rebuilds passive modifiers on both fields.
// Withdrawal can leave a card at or below zero health; the caller is
// expected to run the death sweeper afterwards.
func (r *Resolver) ReapplyPassives(g *GameState) {
	for _, pid := range g.Order {
		for _, c := range g.Players[pid].Field {
			r.resetPassives(c)
		}
	}

	for _, pid := range g.Order {
		p := g.Players[pid]
		// Snapshot: a passive source destroyed mid-replay must not shift
		// the scan.
		field := append([]*FieldCard(nil), p.Field...)
		for _, src := range field {
			if !src.Alive() {
				continue
			}
			for _, eff := range src.EffectsFor(TriggerPassive) {
				if !EvalCondition(g, eff.Condition, pid) {
					continue
				}
				r.applyPassive(g, &eff, src)
			}
		}
	}
}

// resetPassives withdraws the passive modifiers symmetrically: a health
// bonus is taken back and a health penalty is returned, so reset followed by
// replay is a no-op for an unchanged board. Only the downward adjustment
// floors at zero.
func (r *Resolver) resetPassives(c *FieldCard) {
	if c.PassiveHealth != 0 {
		c.CurrentHealth -= c.PassiveHealth
		if c.PassiveHealth > 0 && c.CurrentHealth < 0 {
			c.CurrentHealth = 0
		}
	}
	c.PassiveAttack = 0
	c.PassiveHealth = 0
}

// applyPassive applies one passive effect from a live source. Passive
// actions are restricted to the stat-modifier kinds; anything else declared
// as passive is ignored.
func (r *Resolver) applyPassive(g *GameState, eff *CardEffect, src *FieldCard) {
	value := ResolveValue(g, eff, src, src.Owner)

	var targets []*FieldCard
	if eff.Target == TargetSelf {
		targets = []*FieldCard{src}
	} else {
		// Random passive targets would make the projection depend on
		// evaluation order; the whole pool is used instead.
		set, _ := CandidatePool(g, eff.Target, src.Owner)
		targets = set.Cards
	}
	targets = ApplySelectionRules(targets, eff.Selection, src)

	for _, c := range targets {
		switch eff.Action {
		case ActionBuffAttack:
			c.PassiveAttack += value
		case ActionDebuffAttack:
			c.PassiveAttack -= value
		case ActionBuffHealth:
			c.PassiveHealth += value
			c.CurrentHealth += value
		case ActionDebuffHealth:
			c.PassiveHealth -= value
			c.CurrentHealth -= value
		}
	}
}
