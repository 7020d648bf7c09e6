package game

import "go.uber.org/zap"

// The death sweeper restores the no-lingering-dead invariant: no field card
// may sit at non-positive health without having gone through destruction
// processing. Direct damage destroys its own casualties synchronously, but
// passive withdrawal, chained damage, stat debuffs, and poison ticks can
// depress a third party's health without touching the damage path; the
// sweeper is the safety net for those.

const sweepIterationCap = 64

// SweepDeaths scans both fields, current player first, for cards at or
// below zero health that have no destruction record in the log, and runs
// full destruction processing for each. Destruction can cascade into
// further deaths, so the scan repeats until a pass finds nothing. The
// already-destroyed check reads log history, not zone membership, which
// makes redundant calls safe.
func (r *Resolver) SweepDeaths(g *GameState) {
	for iter := 0; iter < sweepIterationCap; iter++ {
		var pending []*FieldCard
		for _, field := range g.FieldsOwnerFirst(g.CurrentPlayer) {
			for _, c := range field {
				if c.CurrentHealth <= 0 && !g.Log.HasDestroyed(c.InstanceID) {
					pending = append(pending, c)
				}
			}
		}
		if len(pending) == 0 {
			return
		}
		for _, c := range pending {
			r.DestroyCreature(g, c)
		}
	}

	// The cap is generous; reaching it means destruction processing kept
	// producing new corpses, which is a logic bug, not a game state.
	r.invariantViolation(g, "death sweep did not reach a fixed point")
}

// CheckConsistency verifies the sweeper-adjacent invariants: no lingering
// dead and no duplicate instance ids across zones. In strict mode a
// violation raises; otherwise it is logged and auto-corrected where
// possible.
func (r *Resolver) CheckConsistency(g *GameState) {
	seen := make(map[string]bool)
	var lingering []*FieldCard
	for _, pid := range g.Order {
		for _, c := range g.Players[pid].Field {
			if seen[c.InstanceID] {
				r.invariantViolation(g, "duplicate field instance "+c.InstanceID)
				continue
			}
			seen[c.InstanceID] = true
			if c.CurrentHealth <= 0 && !g.Log.HasDestroyed(c.InstanceID) {
				r.invariantViolation(g, "lingering dead creature "+c.InstanceID)
				lingering = append(lingering, c)
			}
		}
	}
	for _, c := range lingering {
		r.DestroyCreature(g, c)
	}
}

// invariantViolation raises loudly in strict (development) mode and logs in
// production so a live game never visibly stalls.
func (r *Resolver) invariantViolation(g *GameState, msg string) {
	if r.Strict {
		r.logger.DPanic("invariant violation",
			zap.String("game_id", g.ID),
			zap.String("detail", msg),
		)
		return
	}
	r.logger.Error("invariant violation auto-corrected",
		zap.String("game_id", g.ID),
		zap.String("detail", msg),
	)
}
