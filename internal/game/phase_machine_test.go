package game

import (
	"testing"

	"github.com/duelforge/duelsim/internal/game/actionlog"
)

func TestPhaseCycleAndTurnHandover(t *testing.T) {
	g := newTestState("cycle")
	g.Players["p1"].Deck = []*CardTemplate{creature("c1", 1, 1, 1)}
	g.Players["p2"].Deck = []*CardTemplate{creature("c2", 1, 1, 1)}
	e := newTestEngine(t, nil, nil)

	want := []Phase{PhaseEnergy, PhaseDeploy, PhaseBattle, PhaseEnd, PhaseDraw}
	for _, w := range want {
		e.AdvancePhase(g)
		if g.Phase != w {
			t.Fatalf("phase = %v, want %v", g.Phase, w)
		}
	}

	if g.CurrentPlayer != "p2" {
		t.Fatalf("turn did not pass: current player %s", g.CurrentPlayer)
	}
	if g.Turn != 3 {
		t.Fatalf("turn = %d, want 3", g.Turn)
	}

	// The wraparound record carries the incoming player's id.
	changes := g.Log.OfType(actionlog.TypePhaseChange)
	last := changes[len(changes)-1]
	if last.PlayerID != "p2" {
		t.Fatalf("handover logged for %s, want incoming player p2", last.PlayerID)
	}
}

func TestDrawPhaseFatigueOnEmptyDeck(t *testing.T) {
	g := newTestState("fatigue")
	e := newTestEngine(t, nil, nil)

	e.AdvancePhase(g) // draw with empty deck

	if got := g.Players["p1"].Life; got != StartingLife-FatigueDamage {
		t.Fatalf("life = %d, want %d", got, StartingLife-FatigueDamage)
	}
	drawn := g.Log.OfType(actionlog.TypeCardDrawn)
	if len(drawn) != 1 {
		t.Fatalf("got %d draw records, want 1", len(drawn))
	}
	if drawn[0].Data["fatigue"] != true {
		t.Fatalf("fatigue sub-record missing: %v", drawn[0].Data)
	}
}

func TestDrawPhaseSkipsAtHandCap(t *testing.T) {
	g := newTestState("hand-cap")
	p := g.Players["p1"]
	p.Deck = []*CardTemplate{creature("top", 1, 1, 1)}
	for i := 0; i < HandCap; i++ {
		p.Hand = append(p.Hand, creature("held", 1, 1, 1))
	}
	e := newTestEngine(t, nil, nil)

	e.AdvancePhase(g)

	if len(p.Hand) != HandCap {
		t.Fatalf("hand grew past cap: %d", len(p.Hand))
	}
	if len(p.Deck) != 1 {
		t.Fatal("deck should be untouched when the draw is skipped")
	}
	if g.Players["p1"].Life != StartingLife {
		t.Fatal("hand-cap skip is not fatigue")
	}
	if g.Phase != PhaseEnergy {
		t.Fatalf("phase must still advance, got %v", g.Phase)
	}
}

func TestEnergyPhaseGrowsToCapAndLogsOnlyChanges(t *testing.T) {
	g := newTestState("energy")
	p := g.Players["p1"]
	p.MaxEnergy = 3
	p.Energy = 1
	g.Phase = PhaseEnergy
	e := newTestEngine(t, nil, nil)

	e.AdvancePhase(g)
	if p.MaxEnergy != 4 || p.Energy != 4 {
		t.Fatalf("energy = %d/%d, want 4/4", p.Energy, p.MaxEnergy)
	}

	// At the cap with full energy: no records at all.
	p.MaxEnergy = EnergyCap
	p.Energy = EnergyCap
	g.Phase = PhaseEnergy
	before := g.Log.Len()
	e.AdvancePhase(g)
	for _, a := range g.Log.Actions()[before:] {
		if a.Type == actionlog.TypeEnergyUpdated || a.Type == actionlog.TypeEnergyRefilled {
			t.Fatalf("logged a no-op energy record: %v", a)
		}
	}
	if p.MaxEnergy != EnergyCap {
		t.Fatalf("max energy passed the cap: %d", p.MaxEnergy)
	}
}

func TestDeployPlaysHighestScoringAffordableCard(t *testing.T) {
	cheap := creature("cheap", 1, 1, 1)
	strong := creature("strong", 3, 4, 4)
	tooDear := creature("too_dear", 9, 9, 9)

	g := newTestState("deploy")
	p := g.Players["p1"]
	p.Energy = 4
	p.MaxEnergy = 4
	p.Hand = []*CardTemplate{cheap, strong, tooDear}
	g.Phase = PhaseDeploy

	decider := &scriptedDecider{scores: map[string]float64{"cheap": 1, "strong": 5, "too_dear": 50}}
	e := newTestEngine(t, nil, decider)
	e.AdvancePhase(g)

	// strong (3) first, then cheap (1); too_dear never affordable.
	if len(p.Field) != 2 {
		t.Fatalf("field size %d, want 2", len(p.Field))
	}
	if p.Field[0].TemplateID != "strong" || p.Field[1].TemplateID != "cheap" {
		t.Fatalf("deploy order wrong: %s, %s", p.Field[0].TemplateID, p.Field[1].TemplateID)
	}
	if p.Energy != 0 {
		t.Fatalf("energy = %d, want 0", p.Energy)
	}
	if len(p.Hand) != 1 || p.Hand[0].ID != "too_dear" {
		t.Fatalf("hand should hold only the unaffordable card: %v", p.Hand)
	}
}

func TestDeployHonorsPlayConditions(t *testing.T) {
	gated := spellCard("gated", 1, CardEffect{
		Trigger: TriggerOnPlay, Target: TargetEnemyRandom,
		Action: ActionDamage, Value: 2,
	})
	gated.PlayConditions = []Condition{{Subject: SubjectEnemyFieldCount, Op: OpGTE, Value: 1}}

	g := newTestState("play-conditions")
	p := g.Players["p1"]
	p.Hand = []*CardTemplate{gated}
	g.Phase = PhaseDeploy

	e := newTestEngine(t, nil, &scriptedDecider{scores: map[string]float64{"gated": 10}})
	e.AdvancePhase(g)
	if len(p.Hand) != 1 {
		t.Fatal("spell with no legal target was played")
	}

	// With a target present the same spell goes off.
	g2 := newTestState("play-conditions-met")
	p2 := g2.Players["p1"]
	p2.Hand = []*CardTemplate{gated}
	victim := put(g2, "p2", creature("victim", 1, 1, 3))
	g2.Phase = PhaseDeploy
	e2 := newTestEngine(t, nil, &scriptedDecider{scores: map[string]float64{"gated": 10}})
	e2.AdvancePhase(g2)
	if len(p2.Hand) != 0 {
		t.Fatal("playable spell was not played")
	}
	if victim.CurrentHealth != 1 {
		t.Fatalf("spell effect did not resolve: victim at %d", victim.CurrentHealth)
	}
}

func TestSpellPlayTriggersFieldReactions(t *testing.T) {
	watcherTmpl := creature("watcher", 2, 1, 3)
	watcherTmpl.Effects = []CardEffect{{
		Trigger: TriggerOnSpellPlay, Target: TargetSelf,
		Action: ActionBuffAttack, Value: 1,
	}}
	bolt := spellCard("bolt", 1, CardEffect{
		Trigger: TriggerOnPlay, Target: TargetPlayer,
		Action: ActionDamage, Value: 1,
	})

	g := newTestState("spell-react")
	watcher := put(g, "p1", watcherTmpl)
	p := g.Players["p1"]
	p.Hand = []*CardTemplate{bolt}

	e := newTestEngine(t, nil, nil)
	if !e.PlayCard(g, "p1", bolt) {
		t.Fatal("spell play refused")
	}

	if watcher.EffectiveAttack() != 2 {
		t.Fatalf("on_spell_play reaction did not fire: attack %d", watcher.EffectiveAttack())
	}
	if len(p.Graveyard) != 1 {
		t.Fatal("spell should end in the graveyard")
	}
	if g.Players["p2"].Life != StartingLife-1 {
		t.Fatal("spell effect did not resolve")
	}
}

func TestEndPhaseTicksPoisonAndClearsFlags(t *testing.T) {
	g := newTestState("end-phase")
	g.Phase = PhaseEnd
	poisoned := put(g, "p1", creature("poisoned", 2, 2, 2))
	poisoned.Statuses = append(poisoned.Statuses, StatusEffect{Kind: StatusPoison, Duration: 2, Damage: 1})
	tired := put(g, "p1", creature("tired", 2, 2, 2))
	tired.HasAttacked = true
	tired.ReadiedThisTurn = true
	sneak := put(g, "p2", creature("sneak", 2, 2, 2, KeywordStealth))
	sneak.Stealth = true

	e := newTestEngine(t, nil, nil)
	e.AdvancePhase(g)

	if poisoned.CurrentHealth != 1 {
		t.Fatalf("poison tick: health %d, want 1", poisoned.CurrentHealth)
	}
	if s, ok := poisoned.Status(StatusPoison); !ok || s.Duration != 1 {
		t.Fatal("poison duration should decrement to 1")
	}
	if tired.HasAttacked || tired.ReadiedThisTurn || sneak.Stealth {
		t.Fatal("per-turn flags not cleared")
	}
}

func TestEndPhasePoisonDeathsCollectedAfterScan(t *testing.T) {
	g := newTestState("poison-deaths")
	g.Phase = PhaseEnd
	first := put(g, "p1", creature("first", 1, 1, 1))
	first.Statuses = append(first.Statuses, StatusEffect{Kind: StatusPoison, Duration: 1, Damage: 1})
	second := put(g, "p1", creature("second", 1, 1, 1))
	second.Statuses = append(second.Statuses, StatusEffect{Kind: StatusPoison, Duration: 1, Damage: 1})
	third := put(g, "p1", creature("third", 2, 2, 3))

	e := newTestEngine(t, nil, nil)
	e.AdvancePhase(g)

	if !g.Log.HasDestroyed(first.InstanceID) || !g.Log.HasDestroyed(second.InstanceID) {
		t.Fatal("poison casualties not destroyed")
	}
	// Both deaths happen after the scan; the survivor ends at position 0.
	if len(g.Players["p1"].Field) != 1 || g.Players["p1"].Field[0] != third {
		t.Fatalf("field after poison deaths: %v", g.Players["p1"].Field)
	}
	if third.Position != 0 {
		t.Fatalf("positions not reindexed: %d", third.Position)
	}
}

func TestBrandPersistsThroughEndPhase(t *testing.T) {
	g := newTestState("brand-persists")
	g.Phase = PhaseEnd
	marked := put(g, "p1", creature("marked", 2, 2, 4))
	marked.Statuses = append(marked.Statuses, StatusEffect{Kind: StatusBranded})

	e := newTestEngine(t, nil, nil)
	e.AdvancePhase(g)

	if !marked.Branded() {
		t.Fatal("brand must not expire at end of turn")
	}
}
