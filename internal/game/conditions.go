package game

// Condition and dynamic-value evaluation. Side-effect-free: both "should
// this effect fire" and "may this card be played at all" route through
// EvalCondition, and repeated calls over the same snapshot must agree.

// EvalCondition evaluates a condition from the perspective of the given
// player. A nil condition is vacuously true.
func EvalCondition(g *GameState, cond *Condition, playerID string) bool {
	if cond == nil {
		return true
	}
	return compare(conditionSubject(g, cond.Subject, playerID), cond.Op, cond.Value)
}

// EvalConditions evaluates a conjunction of conditions.
func EvalConditions(g *GameState, conds []Condition, playerID string) bool {
	for i := range conds {
		if !EvalCondition(g, &conds[i], playerID) {
			return false
		}
	}
	return true
}

func conditionSubject(g *GameState, subject ConditionSubject, playerID string) int {
	self := g.Players[playerID]
	enemy := g.Players[g.Opponent(playerID)]

	switch subject {
	case SubjectGraveyardSize:
		return len(self.Graveyard)
	case SubjectAllyFieldCount:
		return len(self.LivingField())
	case SubjectCasterLife:
		return self.Life
	case SubjectOpponentLife:
		return enemy.Life
	case SubjectEnemyBrandedCnt:
		return brandedCount(enemy.LivingField())
	case SubjectAnyEnemyBranded:
		if brandedCount(enemy.LivingField()) > 0 {
			return 1
		}
		return 0
	case SubjectEnemyFieldCount:
		return len(enemy.LivingField())
	default:
		return 0
	}
}

func brandedCount(cards []*FieldCard) int {
	n := 0
	for _, c := range cards {
		if c.Branded() {
			n++
		}
	}
	return n
}

func compare(actual int, op ConditionOp, value int) bool {
	switch op {
	case OpGTE:
		return actual >= value
	case OpLTE:
		return actual <= value
	case OpLT:
		return actual < value
	case OpGT:
		return actual > value
	case OpEQ:
		return actual == value
	default:
		return false
	}
}

// ResolveValue computes an effect's effective numeric value: the static
// value, or the dynamic zone count at resolution time.
func ResolveValue(g *GameState, eff *CardEffect, source *FieldCard, playerID string) int {
	if eff.Dynamic == nil {
		return eff.Value
	}
	per := eff.Dynamic.PerCard
	if per == 0 {
		per = 1
	}
	return dynamicCount(g, eff.Dynamic, source, playerID) * per
}

func dynamicCount(g *GameState, dv *DynamicValue, source *FieldCard, playerID string) int {
	self := g.Players[playerID]
	enemy := g.Players[g.Opponent(playerID)]

	switch dv.Zone {
	case DynamicZoneGraveyard:
		if dv.Filter == DynFilterCreaturesOnly {
			return self.GraveyardCreatureCount()
		}
		return len(self.Graveyard)
	case DynamicZoneField:
		return countField(self.Field, dv.Filter, source)
	case DynamicZoneEnemyField:
		return countField(enemy.Field, dv.Filter, source)
	default:
		return 0
	}
}

func countField(cards []*FieldCard, filter DynamicFilter, source *FieldCard) int {
	n := 0
	for _, c := range cards {
		switch filter {
		case DynFilterAliveOnly:
			if !c.Alive() {
				continue
			}
		case DynFilterExcludeSelf:
			if source != nil && c.InstanceID == source.InstanceID {
				continue
			}
		case DynFilterHasBrand:
			if !c.Branded() {
				continue
			}
		case DynFilterCreaturesOnly, DynFilterNone:
			// Field cards are always creatures.
		}
		n++
	}
	return n
}
