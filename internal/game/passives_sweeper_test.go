package game

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func standardBearer() *CardTemplate {
	tmpl := creature("bearer", 3, 1, 3)
	tmpl.Effects = []CardEffect{{
		Trigger: TriggerPassive, Target: TargetAllyAll,
		Action: ActionBuffAttack, Value: 1,
		Selection: []SelectionRule{{Kind: SelectExcludeSource}},
	}}
	return tmpl
}

func witherBearer() *CardTemplate {
	tmpl := creature("wither", 3, 1, 3)
	tmpl.Effects = []CardEffect{{
		Trigger: TriggerPassive, Target: TargetEnemyAll,
		Action: ActionDebuffHealth, Value: 1,
	}}
	return tmpl
}

func TestPassiveBuffAppliesToAlliesNotSource(t *testing.T) {
	g := newTestState("passive-apply")
	bearer := put(g, "p1", standardBearer())
	ally := put(g, "p1", creature("ally", 1, 2, 2))
	enemy := put(g, "p2", creature("enemy", 1, 2, 2))

	r := newTestResolver(t, nil)
	r.ReapplyPassives(g)

	if ally.EffectiveAttack() != 3 {
		t.Fatalf("ally attack = %d, want 3", ally.EffectiveAttack())
	}
	if bearer.EffectiveAttack() != 1 {
		t.Fatalf("source buffed itself: attack %d", bearer.EffectiveAttack())
	}
	if enemy.EffectiveAttack() != 2 {
		t.Fatalf("enemy got an ally buff: attack %d", enemy.EffectiveAttack())
	}
}

func TestPassiveBuffVanishesWhenSourceDies(t *testing.T) {
	g := newTestState("passive-source-dies")
	bearer := put(g, "p1", standardBearer())
	ally := put(g, "p1", creature("ally", 1, 2, 2))

	r := newTestResolver(t, nil)
	r.ReapplyPassives(g)
	if ally.EffectiveAttack() != 3 {
		t.Fatalf("setup: ally attack = %d, want 3", ally.EffectiveAttack())
	}

	bearer.CurrentHealth = 0
	r.SweepDeaths(g)
	r.ReapplyPassives(g)

	if ally.EffectiveAttack() != 2 {
		t.Fatalf("buff outlived its source: attack %d", ally.EffectiveAttack())
	}
}

func TestPassiveBuffVanishesWhenSourceSilenced(t *testing.T) {
	g := newTestState("passive-source-silenced")
	bearer := put(g, "p1", standardBearer())
	ally := put(g, "p1", creature("ally", 1, 2, 2))

	r := newTestResolver(t, nil)
	r.ReapplyPassives(g)
	bearer.Silenced = true
	r.ReapplyPassives(g)

	if ally.EffectiveAttack() != 2 {
		t.Fatalf("silenced source still projects its buff: attack %d", ally.EffectiveAttack())
	}
}

func TestPassiveHealthWithdrawalCanKill(t *testing.T) {
	// A +2 health aura keeps a damaged ally standing; when the aura source
	// dies the withdrawal drops the ally to zero and the sweeper takes it.
	auraTmpl := creature("aura", 3, 1, 3)
	auraTmpl.Effects = []CardEffect{{
		Trigger: TriggerPassive, Target: TargetAllyAll,
		Action: ActionBuffHealth, Value: 2,
		Selection: []SelectionRule{{Kind: SelectExcludeSource}},
	}}

	g := newTestState("passive-withdrawal")
	aura := put(g, "p1", auraTmpl)
	ally := put(g, "p1", creature("ally", 1, 2, 2))

	r := newTestResolver(t, nil)
	r.ReapplyPassives(g)
	if ally.CurrentHealth != 4 {
		t.Fatalf("setup: ally health = %d, want 4", ally.CurrentHealth)
	}
	ally.CurrentHealth = 2 // took 2 damage, alive only through the aura

	aura.CurrentHealth = 0
	r.SweepDeaths(g)
	r.ReapplyPassives(g)
	r.SweepDeaths(g)

	if !g.Log.HasDestroyed(ally.InstanceID) {
		t.Fatal("ally should die when the health aura withdraws")
	}
	if len(g.Players["p1"].Field) != 0 {
		t.Fatalf("field not empty after withdrawal deaths: %v", g.Players["p1"].Field)
	}
}

func TestPassiveReapplyIsIdempotent(t *testing.T) {
	g := newTestState("passive-idempotent")
	put(g, "p1", standardBearer())
	ally := put(g, "p1", creature("ally", 1, 2, 2))
	put(g, "p2", witherBearer())
	victim := put(g, "p1", creature("victim", 2, 2, 5))

	r := newTestResolver(t, nil)
	for i := 0; i < 5; i++ {
		r.ReapplyPassives(g)
	}

	if ally.EffectiveAttack() != 3 {
		t.Fatalf("repeated reapply stacked the buff: attack %d", ally.EffectiveAttack())
	}
	// The wither debuffs the ally too; what matters is that the total stays
	// one reapplication deep.
	if ally.CurrentHealth != 1 {
		t.Fatalf("repeated reapply shifted ally health: %d", ally.CurrentHealth)
	}
	if victim.CurrentHealth != 4 {
		t.Fatalf("repeated reapply drained the debuff target: health %d, want 4", victim.CurrentHealth)
	}
	if victim.PassiveHealth != -1 {
		t.Fatalf("debuff modifier stacked: %d, want -1", victim.PassiveHealth)
	}
}

func TestPassiveDebuffLiftsWhenSourceDies(t *testing.T) {
	g := newTestState("passive-debuff-lifts")
	wither := put(g, "p1", witherBearer())
	victim := put(g, "p2", creature("victim", 2, 2, 5))

	r := newTestResolver(t, nil)
	r.ReapplyPassives(g)
	if victim.CurrentHealth != 4 {
		t.Fatalf("setup: victim health = %d, want 4", victim.CurrentHealth)
	}

	wither.CurrentHealth = 0
	r.SweepDeaths(g)
	r.ReapplyPassives(g)

	if victim.CurrentHealth != 5 {
		t.Fatalf("debuff outlived its source: health %d, want 5", victim.CurrentHealth)
	}
	if victim.PassiveHealth != 0 {
		t.Fatalf("passive modifier not cleared: %d", victim.PassiveHealth)
	}
}

func TestSweepDestroysLingeringDead(t *testing.T) {
	g := newTestState("sweep")
	dead := put(g, "p1", creature("dead", 1, 1, 1))
	dead.CurrentHealth = 0
	alive := put(g, "p1", creature("alive", 1, 1, 1))

	r := newTestResolver(t, nil)
	r.SweepDeaths(g)

	if !g.Log.HasDestroyed(dead.InstanceID) {
		t.Fatal("lingering dead card not swept")
	}
	p := g.Players["p1"]
	if len(p.Field) != 1 || p.Field[0] != alive {
		t.Fatalf("field after sweep: %v", p.Field)
	}
	if len(p.Graveyard) != 1 || p.Graveyard[0].ID != "dead" {
		t.Fatalf("graveyard after sweep: %v", p.Graveyard)
	}
}

func TestSweepCascadesThroughDeathTriggers(t *testing.T) {
	// Martyr's death effect kills the bystander; one sweep must take both.
	martyrTmpl := creature("martyr", 2, 1, 1)
	martyrTmpl.Effects = []CardEffect{{
		Trigger: TriggerOnDeath, Target: TargetAllyAll,
		Action: ActionDamage, Value: 2,
	}}

	g := newTestState("sweep-cascade")
	martyr := put(g, "p1", martyrTmpl)
	bystander := put(g, "p1", creature("bystander", 1, 1, 2))
	martyr.CurrentHealth = 0

	r := newTestResolver(t, nil)
	r.SweepDeaths(g)

	if !g.Log.HasDestroyed(martyr.InstanceID) || !g.Log.HasDestroyed(bystander.InstanceID) {
		t.Fatal("cascade death not swept")
	}
	if len(g.Players["p1"].Field) != 0 {
		t.Fatalf("field not empty after cascade: %v", g.Players["p1"].Field)
	}
}

func TestConsistencyCheckDestroysLingeringDead(t *testing.T) {
	g := newTestState("consistency-autocorrect")
	dead := put(g, "p1", creature("dead", 1, 1, 1))
	dead.CurrentHealth = 0

	// Non-strict: the violation is logged and the corpse auto-corrected.
	r := NewResolver(zaptest.NewLogger(t), templateMap{})
	r.CheckConsistency(g)

	if !g.Log.HasDestroyed(dead.InstanceID) {
		t.Fatal("lingering dead card not auto-corrected")
	}
	if len(g.Players["p1"].Field) != 0 {
		t.Fatalf("field after consistency check: %v", g.Players["p1"].Field)
	}
}

func TestConsistencyCheckRaisesInStrictMode(t *testing.T) {
	g := newTestState("consistency-strict")
	dead := put(g, "p1", creature("dead", 1, 1, 1))
	dead.CurrentHealth = 0

	// A development logger turns DPanic into a real panic.
	r := NewResolver(zaptest.NewLogger(t).WithOptions(zap.Development()), templateMap{})
	r.Strict = true

	defer func() {
		if recover() == nil {
			t.Fatal("strict mode did not raise on a lingering dead card")
		}
	}()
	r.CheckConsistency(g)
}

func TestSweepIsIdempotent(t *testing.T) {
	g := newTestState("sweep-idempotent")
	dead := put(g, "p1", creature("dead", 1, 1, 1))
	dead.CurrentHealth = 0

	r := newTestResolver(t, nil)
	r.SweepDeaths(g)
	r.SweepDeaths(g)
	r.SweepDeaths(g)

	if got := len(g.Players["p1"].Graveyard); got != 1 {
		t.Fatalf("graveyard has %d copies, want 1", got)
	}
}
