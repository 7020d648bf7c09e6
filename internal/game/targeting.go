package game

import "github.com/duelforge/duelsim/internal/game/rng"

// Targeting and selection-rule evaluation. Everything in this file is a pure
// read of the current state: no zone is mutated and no log entry is written.

// TargetSet is the concrete result of resolving a symbolic target specifier.
// Cards is empty for player-directed specifiers; the flags tell downstream
// handlers which life total the effect addresses instead.
type TargetSet struct {
	Cards        []*FieldCard
	TargetPlayer bool // opposing player's life
	TargetSelf   bool // owning player's life
}

// CandidatePool returns the full candidate pool for a target specifier,
// before any random pick. TargetSelf deliberately yields an empty pool: the
// acting card may not have a field presence yet (an on_play effect runs
// while the card is being placed), so callers substitute the live source
// instance themselves. The boolean result reports whether the specifier is
// a random one whose pool still needs a single pick.
func CandidatePool(g *GameState, kind TargetKind, sourcePlayerID string) (TargetSet, bool) {
	self := g.Players[sourcePlayerID]
	enemy := g.Players[g.Opponent(sourcePlayerID)]

	switch kind {
	case TargetSelf:
		return TargetSet{}, false
	case TargetAllyAll:
		return TargetSet{Cards: self.LivingField()}, false
	case TargetAllyRandom:
		return TargetSet{Cards: self.LivingField()}, true
	case TargetEnemyAll:
		return TargetSet{Cards: excludeUntargetable(enemy.LivingField())}, false
	case TargetEnemyRandom:
		return TargetSet{Cards: excludeUntargetable(enemy.LivingField())}, true
	case TargetPlayer:
		return TargetSet{TargetPlayer: true}, false
	case TargetSelfPlayer:
		return TargetSet{TargetSelf: true}, false
	default:
		return TargetSet{}, false
	}
}

// ResolveTargets resolves a target specifier against the current state.
// Random specifiers consume exactly one Choice call on the supplied RNG when
// the candidate pool is non-empty.
func ResolveTargets(g *GameState, kind TargetKind, sourcePlayerID string, r *rng.RNG) TargetSet {
	set, random := CandidatePool(g, kind, sourcePlayerID)
	if random {
		set.Cards = pickRandom(set.Cards, r)
	}
	return set
}

func excludeUntargetable(cards []*FieldCard) []*FieldCard {
	var out []*FieldCard
	for _, c := range cards {
		if c.ActiveKeyword(KeywordUntargetable) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func pickRandom(pool []*FieldCard, r *rng.RNG) []*FieldCard {
	if len(pool) == 0 {
		return nil
	}
	idx := r.Choice(len(pool))
	if idx < 0 {
		return nil
	}
	return []*FieldCard{pool[idx]}
}

// ApplySelectionRules narrows a candidate pool with the effect's selection
// rules (logical AND). For random target kinds this runs on the pool before
// the random pick, so "no valid target" and "target chosen" stay mutually
// exclusive and auditable.
func ApplySelectionRules(pool []*FieldCard, rules []SelectionRule, source *FieldCard) []*FieldCard {
	if len(rules) == 0 {
		return pool
	}
	var out []*FieldCard
	for _, c := range pool {
		if matchesAllRules(c, rules, source) {
			out = append(out, c)
		}
	}
	return out
}

func matchesAllRules(c *FieldCard, rules []SelectionRule, source *FieldCard) bool {
	for _, rule := range rules {
		if !matchesRule(c, rule, source) {
			return false
		}
	}
	return true
}

func matchesRule(c *FieldCard, rule SelectionRule, source *FieldCard) bool {
	switch rule.Kind {
	case SelectHasBrand:
		return c.Branded()
	case SelectNotBrand:
		return !c.Branded()
	case SelectPropertyEq:
		return cardProperty(c, rule.Property) == rule.Value
	case SelectCostRange:
		return c.Cost >= rule.Min && (rule.Max == 0 || c.Cost <= rule.Max)
	case SelectHealthRange:
		return c.CurrentHealth >= rule.Min && (rule.Max == 0 || c.CurrentHealth <= rule.Max)
	case SelectHasKeyword:
		return c.HasKeyword(rule.Keyword)
	case SelectExcludeSource:
		return source == nil || c.InstanceID != source.InstanceID
	default:
		// Unknown rules match nothing rather than silently passing.
		return false
	}
}

func cardProperty(c *FieldCard, property string) string {
	switch property {
	case "name":
		return c.Name
	case "template_id":
		return c.TemplateID
	case "owner":
		return c.Owner
	case "faction":
		if c.Template != nil {
			return string(c.Template.Faction)
		}
		return ""
	default:
		return ""
	}
}
