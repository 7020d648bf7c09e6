package game

import (
	"github.com/duelforge/duelsim/internal/game/actionlog"
	"github.com/duelforge/duelsim/internal/game/rng"
)

// Combat resolution. Each attack is four strictly ordered sub-stages:
// declare, damage_defender, damage_attacker, deaths. The BattleIterator
// emits one sub-stage per Step call so a presentation layer can pace
// playback; the battle phase itself just drives the iterator to completion,
// so the two entry points cannot produce different logs.

type battleStage int

const (
	stagePickAttacker battleStage = iota
	stageDeclare
	stageDamageDefender
	stageDamageAttacker
	stageDeaths
)

// BattleIterator steps one player's battle phase through individual attack
// sub-stages.
type BattleIterator struct {
	g        *GameState
	resolver *Resolver
	decider  Decider

	stage    battleStage
	attacker *FieldCard
	choice   AttackChoice
	rng      *rng.RNG

	// Pre-combat effective stats, snapshotted when damage begins so both
	// sides' damage is simultaneous rather than gated on survival.
	attackerPower  int
	defenderPower  int
	retaliateBonus int

	done bool
}

// NewBattle creates an iterator over the current player's battle phase.
func (e *Engine) NewBattle(g *GameState) *BattleIterator {
	return &BattleIterator{
		g:        g,
		resolver: e.resolver,
		decider:  e.decider,
		stage:    stagePickAttacker,
	}
}

// Run drives the iterator to completion synchronously.
func (it *BattleIterator) Run() {
	for it.Step() {
	}
}

// Done reports whether the battle phase has finished.
func (it *BattleIterator) Done() bool {
	return it.done
}

// Step executes one sub-stage and reports whether more remain.
func (it *BattleIterator) Step() bool {
	if it.done {
		return false
	}

	switch it.stage {
	case stagePickAttacker:
		it.pickAttacker()
	case stageDeclare:
		it.declare()
	case stageDamageDefender:
		it.damageDefender()
	case stageDamageAttacker:
		it.damageAttacker()
	case stageDeaths:
		it.deaths()
	}
	return !it.done
}

// eligibleAttacker re-evaluates attack eligibility fresh for one card. An
// earlier attack in the same phase can kill, stun, or ready a later
// candidate, so nothing here is precomputed per phase.
func (it *BattleIterator) eligibleAttacker(c *FieldCard) bool {
	if !c.Alive() || c.HasAttacked || c.Stunned() {
		return false
	}
	// A card summoned this turn needs rush, and silence suppresses rush.
	if c.SummonedTurn >= it.g.Turn && !c.ActiveKeyword(KeywordRush) {
		return false
	}
	return true
}

func (it *BattleIterator) pickAttacker() {
	g := it.g

	// Battle stops the moment the game is already decided; later attackers
	// do not act against a finished opponent.
	for _, pid := range g.Order {
		if g.Players[pid].Life <= 0 {
			it.done = true
			return
		}
	}

	for _, c := range g.Players[g.CurrentPlayer].Field {
		if it.eligibleAttacker(c) {
			it.attacker = c
			it.rng = rng.Derive(g.Seed, g.Turn, c.InstanceID+":attack")
			it.stage = stageDeclare
			return
		}
	}
	it.done = true
}

// declare fires the attacker's on_attack trigger, asks the decider for a
// target, and enforces guard as a hard rule.
func (it *BattleIterator) declare() {
	g := it.g
	attacker := it.attacker
	attacker.HasAttacked = true
	attacker.Stealth = false

	it.resolver.ProcessTrigger(g, TriggerOnAttack,
		EffectSource{Template: attacker.Template, Card: attacker, PlayerID: attacker.Owner}, attacker.InstanceID)
	it.resolver.ReapplyPassives(g)
	it.resolver.SweepDeaths(g)

	// The trigger can kill its own attacker; the attack is then aborted.
	if !attacker.Alive() || g.Log.HasDestroyed(attacker.InstanceID) {
		it.attacker = nil
		it.stage = stagePickAttacker
		return
	}

	it.choice = it.decider.ChooseAttackTarget(attacker, g, it.rng)
	it.choice = it.enforceGuard(it.choice)

	data := map[string]any{
		"stage":    actionlog.StageDeclare,
		"attacker": attacker.InstanceID,
	}
	if it.choice.TargetsPlayer {
		data["target_player"] = g.Opponent(attacker.Owner)
	} else if it.choice.Target != nil {
		data["target"] = it.choice.Target.InstanceID
	} else {
		// No legal target at all: the attack fizzles.
		it.attacker = nil
		it.stage = stagePickAttacker
		return
	}
	g.Log.Append(attacker.Owner, actionlog.TypeCombatStage, data)

	it.stage = stageDamageDefender
}

// enforceGuard overrides the chosen target with a guard creature whenever
// the defending side has an eligible one. Guard is a rule, not a scoring
// preference: an undamaged, unsilenced, unstealthed guard must be attacked
// before anything else on its side.
func (it *BattleIterator) enforceGuard(choice AttackChoice) AttackChoice {
	g := it.g
	defender := g.Players[g.Opponent(it.attacker.Owner)]

	var guards []*FieldCard
	for _, c := range defender.Field {
		if c.Alive() && c.ActiveKeyword(KeywordGuard) && c.Undamaged() && !c.Stealth {
			guards = append(guards, c)
		}
	}
	if len(guards) == 0 {
		return choice
	}
	if !choice.TargetsPlayer && choice.Target != nil {
		for _, gcard := range guards {
			if gcard.InstanceID == choice.Target.InstanceID {
				return choice
			}
		}
	}
	return AttackChoice{Target: guards[it.rng.Choice(len(guards))]}
}

// damageDefender snapshots both sides' pre-combat stats and applies the
// attacker's damage. Offensive keywords resolve here in fixed order:
// lifesteal, then poison, then trample.
func (it *BattleIterator) damageDefender() {
	g := it.g
	attacker := it.attacker
	owner := g.Players[attacker.Owner]
	oppID := g.Opponent(attacker.Owner)
	opponent := g.Players[oppID]

	it.attackerPower = attacker.EffectiveAttack()
	it.defenderPower = 0
	it.retaliateBonus = 0

	if it.choice.TargetsPlayer {
		before, after := damagePlayer(opponent, it.attackerPower)
		g.Log.Append(attacker.Owner, actionlog.TypeCombatStage, map[string]any{
			"stage":    actionlog.StageDamageDefender,
			"attacker": attacker.InstanceID,
		})
		g.Log.Append(attacker.Owner, actionlog.TypeAttackResolved, map[string]any{
			"attacker":    attacker.InstanceID,
			"target":      oppID,
			"damage":      it.attackerPower,
			"life_before": clampLife(before),
			"life_after":  clampLife(after),
		})
		if attacker.ActiveKeyword(KeywordLifesteal) && it.attackerPower > 0 {
			it.healOwner(owner, it.attackerPower)
		}
		it.stage = stageDamageAttacker
		return
	}

	target := it.choice.Target
	it.defenderPower = target.EffectiveAttack()
	if target.ActiveKeyword(KeywordRetaliate) {
		it.retaliateBonus = (it.defenderPower + 1) / 2
	}

	healthBefore := target.CurrentHealth
	it.resolver.applyDamage(g, target, it.attackerPower)

	g.Log.Append(attacker.Owner, actionlog.TypeCombatStage, map[string]any{
		"stage":    actionlog.StageDamageDefender,
		"attacker": attacker.InstanceID,
		"target":   target.InstanceID,
	})
	g.Log.Append(attacker.Owner, actionlog.TypeAttackResolved, map[string]any{
		"attacker":      attacker.InstanceID,
		"target":        target.InstanceID,
		"damage":        it.attackerPower,
		"health_before": healthBefore,
		"health_after":  target.CurrentHealth,
	})

	// Lifesteal heals by the damage actually dealt, so overkill does not
	// overheal.
	if attacker.ActiveKeyword(KeywordLifesteal) {
		dealt := it.attackerPower
		if healthBefore < dealt {
			dealt = healthBefore
		}
		if dealt > 0 {
			it.healOwner(owner, dealt)
		}
	}

	// Poison attaches regardless of whether the hit kills.
	if attacker.ActiveKeyword(KeywordPoison) {
		if s, ok := target.Status(StatusPoison); ok {
			if s.Duration < 2 {
				s.Duration = 2
			}
		} else {
			target.Statuses = append(target.Statuses, StatusEffect{Kind: StatusPoison, Duration: 2, Damage: 1})
		}
		g.Log.Append(attacker.Owner, actionlog.TypeKeywordTriggered, map[string]any{
			"keyword": string(KeywordPoison),
			"source":  attacker.InstanceID,
			"target":  target.InstanceID,
		})
	}

	// Trample: excess beyond the target's remaining health spills onto the
	// opposing player.
	if attacker.ActiveKeyword(KeywordTrample) {
		if excess := it.attackerPower - healthBefore; excess > 0 {
			before, after := damagePlayer(opponent, excess)
			g.Log.Append(attacker.Owner, actionlog.TypeKeywordTriggered, map[string]any{
				"keyword":     string(KeywordTrample),
				"source":      attacker.InstanceID,
				"damage":      excess,
				"life_before": clampLife(before),
				"life_after":  clampLife(after),
			})
		}
	}

	it.stage = stageDamageAttacker
}

func (it *BattleIterator) healOwner(p *PlayerState, amount int) {
	before := p.Life
	p.Life += amount
	if p.Life > StartingLife {
		p.Life = StartingLife
	}
	if p.Life != before {
		it.g.Log.Append(p.ID, actionlog.TypeKeywordTriggered, map[string]any{
			"keyword":     string(KeywordLifesteal),
			"source":      it.attacker.InstanceID,
			"life_before": clampLife(before),
			"life_after":  clampLife(p.Life),
		})
	}
}

// damageAttacker applies the defender's strike-back. It runs even when the
// defender was reduced to zero or below in the previous stage: both sides'
// damage comes from the pre-combat snapshot and lands simultaneously, so
// mutual destruction is possible.
func (it *BattleIterator) damageAttacker() {
	g := it.g
	if it.choice.TargetsPlayer {
		it.stage = stageDeaths
		return
	}

	attacker := it.attacker
	target := it.choice.Target
	strikeBack := it.defenderPower + it.retaliateBonus

	healthBefore := attacker.CurrentHealth
	it.resolver.applyDamage(g, attacker, strikeBack)

	g.Log.Append(attacker.Owner, actionlog.TypeCombatStage, map[string]any{
		"stage":    actionlog.StageDamageAttacker,
		"attacker": attacker.InstanceID,
		"target":   target.InstanceID,
	})
	g.Log.Append(target.Owner, actionlog.TypeAttackResolved, map[string]any{
		"attacker":      target.InstanceID,
		"target":        attacker.InstanceID,
		"damage":        strikeBack,
		"health_before": healthBefore,
		"health_after":  attacker.CurrentHealth,
	})
	if it.retaliateBonus > 0 {
		g.Log.Append(target.Owner, actionlog.TypeKeywordTriggered, map[string]any{
			"keyword": string(KeywordRetaliate),
			"source":  target.InstanceID,
			"bonus":   it.retaliateBonus,
		})
	}

	it.stage = stageDeaths
}

// deaths destroys both combat participants that ended at or below zero, in
// one logged batch, then sweeps for third-party casualties.
func (it *BattleIterator) deaths() {
	g := it.g
	var doomed []*FieldCard
	if it.choice.Target != nil && it.choice.Target.CurrentHealth <= 0 && !g.Log.HasDestroyed(it.choice.Target.InstanceID) {
		doomed = append(doomed, it.choice.Target)
	}
	if it.attacker.CurrentHealth <= 0 && !g.Log.HasDestroyed(it.attacker.InstanceID) {
		doomed = append(doomed, it.attacker)
	}

	if len(doomed) > 0 {
		ids := make([]string, len(doomed))
		for i, c := range doomed {
			ids[i] = c.InstanceID
		}
		g.Log.Append(it.attacker.Owner, actionlog.TypeCombatStage, map[string]any{
			"stage":     actionlog.StageDeaths,
			"destroyed": ids,
		})
		for _, c := range doomed {
			it.resolver.DestroyCreature(g, c)
		}
	}

	it.resolver.ReapplyPassives(g)
	it.resolver.SweepDeaths(g)

	it.attacker = nil
	it.choice = AttackChoice{}
	it.stage = stagePickAttacker
}
