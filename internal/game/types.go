package game

// CardType distinguishes the two playable card classes.
type CardType string

const (
	CardTypeCreature CardType = "creature"
	CardTypeSpell    CardType = "spell"
)

// Faction identifies a card pool / player allegiance.
type Faction string

// Keyword is a combat or targeting keyword carried by a creature template.
type Keyword string

const (
	KeywordGuard        Keyword = "guard"
	KeywordRush         Keyword = "rush"
	KeywordStealth      Keyword = "stealth"
	KeywordUntargetable Keyword = "untargetable"
	KeywordLifesteal    Keyword = "lifesteal"
	KeywordPoison       Keyword = "poison"
	KeywordTrample      Keyword = "trample"
	KeywordRetaliate    Keyword = "retaliate"
)

// Trigger names the event points at which declared card effects are
// considered for execution.
type Trigger string

const (
	TriggerOnPlay        Trigger = "on_play"
	TriggerOnDeath       Trigger = "on_death"
	TriggerOnAttack      Trigger = "on_attack"
	TriggerOnDamageTaken Trigger = "on_damage_taken"
	TriggerTurnStart     Trigger = "turn_start"
	TriggerTurnEnd       Trigger = "turn_end"
	TriggerPassive       Trigger = "passive"
	TriggerOnAllyDeath   Trigger = "on_ally_death"
	TriggerOnSpellPlay   Trigger = "on_spell_play"
)

// TargetKind is the symbolic target specifier on an effect.
type TargetKind string

const (
	TargetSelf        TargetKind = "self"
	TargetAllyAll     TargetKind = "ally_all"
	TargetAllyRandom  TargetKind = "ally_random"
	TargetEnemyAll    TargetKind = "enemy_all"
	TargetEnemyRandom TargetKind = "enemy_random"
	TargetPlayer      TargetKind = "player"      // opposing player
	TargetSelfPlayer  TargetKind = "self_player" // owning player
)

// ActionKind is the closed set of effect actions. Adding an action means
// adding a constant here and a handler in the resolver's dispatch table.
type ActionKind string

const (
	ActionDamage              ActionKind = "damage"
	ActionHeal                ActionKind = "heal"
	ActionBuffAttack          ActionKind = "buff_attack"
	ActionBuffHealth          ActionKind = "buff_health"
	ActionDebuffAttack        ActionKind = "debuff_attack"
	ActionDebuffHealth        ActionKind = "debuff_health"
	ActionSummon              ActionKind = "summon"
	ActionDraw                ActionKind = "draw"
	ActionSilence             ActionKind = "silence"
	ActionResurrect           ActionKind = "resurrect"
	ActionStun                ActionKind = "stun"
	ActionReady               ActionKind = "ready"
	ActionDestroyDeckTop      ActionKind = "destroy_deck_top"
	ActionSwapAttackHealth    ActionKind = "swap_attack_health"
	ActionHandDiscard         ActionKind = "hand_discard"
	ActionDestroyAllCreatures ActionKind = "destroy_all_creatures"
	ActionApplyBrand          ActionKind = "apply_brand"
	ActionBanish              ActionKind = "banish"
	ActionDeckSearch          ActionKind = "deck_search"
)

// ConditionSubject names the scalar a condition reads off the state.
type ConditionSubject string

const (
	SubjectGraveyardSize    ConditionSubject = "graveyard_size"
	SubjectAllyFieldCount   ConditionSubject = "ally_field_count"
	SubjectCasterLife       ConditionSubject = "caster_life"
	SubjectOpponentLife     ConditionSubject = "opponent_life"
	SubjectEnemyBrandedCnt  ConditionSubject = "enemy_branded_count"
	SubjectAnyEnemyBranded  ConditionSubject = "any_enemy_branded"
	SubjectEnemyFieldCount  ConditionSubject = "enemy_field_count"
)

// ConditionOp is a comparison operator.
type ConditionOp string

const (
	OpGTE ConditionOp = ">="
	OpLTE ConditionOp = "<="
	OpLT  ConditionOp = "<"
	OpGT  ConditionOp = ">"
	OpEQ  ConditionOp = "="
)

// Condition is a (subject, operator, value) predicate over the current
// state. A nil *Condition is vacuously true.
type Condition struct {
	Subject ConditionSubject `yaml:"subject"`
	Op      ConditionOp      `yaml:"op"`
	Value   int              `yaml:"value"`
}

// DynamicZone names a zone a dynamic value counts.
type DynamicZone string

const (
	DynamicZoneGraveyard  DynamicZone = "graveyard"
	DynamicZoneField      DynamicZone = "field"
	DynamicZoneEnemyField DynamicZone = "enemy_field"
)

// DynamicFilter narrows the cards a dynamic value counts.
type DynamicFilter string

const (
	DynFilterNone          DynamicFilter = ""
	DynFilterCreaturesOnly DynamicFilter = "creatures_only"
	DynFilterAliveOnly     DynamicFilter = "alive_only"
	DynFilterExcludeSelf   DynamicFilter = "exclude_self"
	DynFilterHasBrand      DynamicFilter = "has_brand"
)

// DynamicValue computes an effect's numeric parameter from zone contents at
// resolution time instead of a stored constant.
type DynamicValue struct {
	Zone    DynamicZone   `yaml:"zone"`
	Filter  DynamicFilter `yaml:"filter,omitempty"`
	PerCard int           `yaml:"per_card,omitempty"` // multiplier, defaults to 1
}

// SelectionKind names a post-targeting filter rule.
type SelectionKind string

const (
	SelectHasBrand      SelectionKind = "has_brand"
	SelectNotBrand      SelectionKind = "not_brand"
	SelectPropertyEq    SelectionKind = "property_eq"
	SelectCostRange     SelectionKind = "cost_range"
	SelectHealthRange   SelectionKind = "health_range"
	SelectHasKeyword    SelectionKind = "has_keyword"
	SelectExcludeSource SelectionKind = "exclude_source"
)

// SelectionRule is one predicate of the post-hoc target filter language.
// Rules on an effect compose by logical AND. For random target kinds the
// rules narrow the candidate pool before the random pick, never after.
type SelectionRule struct {
	Kind     SelectionKind `yaml:"kind"`
	Property string        `yaml:"property,omitempty"`
	Value    string        `yaml:"value,omitempty"`
	Min      int           `yaml:"min,omitempty"`
	Max      int           `yaml:"max,omitempty"`
	Keyword  Keyword       `yaml:"keyword,omitempty"`
}

// ConditionalBranch routes resolution into one of two effect lists based on
// a condition evaluated at resolution time. Branch effects do not re-check
// the outer effect's activation condition.
type ConditionalBranch struct {
	Condition Condition    `yaml:"condition"`
	Then      []CardEffect `yaml:"then,omitempty"`
	Else      []CardEffect `yaml:"else,omitempty"`
}

// CardEffect is one declared effect on a card template.
type CardEffect struct {
	Trigger     Trigger            `yaml:"trigger"`
	Target      TargetKind         `yaml:"target,omitempty"`
	Action      ActionKind         `yaml:"action,omitempty"`
	Value       int                `yaml:"value,omitempty"`
	Dynamic     *DynamicValue      `yaml:"dynamic,omitempty"`
	Condition   *Condition         `yaml:"condition,omitempty"`
	Selection   []SelectionRule    `yaml:"selection,omitempty"`
	Branch      *ConditionalBranch `yaml:"branch,omitempty"`
	ChainOnKill *CardEffect        `yaml:"chain_on_kill,omitempty"`
	// SummonID names the template created by summon/resurrect/deck_search
	// actions. Resurrect ignores it and revives from the graveyard.
	SummonID string `yaml:"summon_id,omitempty"`
}

// CardTemplate is the immutable definition of a card. Templates are supplied
// by the catalog and never mutated by the engine.
type CardTemplate struct {
	ID       string       `yaml:"id"`
	Name     string       `yaml:"name"`
	Faction  Faction      `yaml:"faction"`
	Cost     int          `yaml:"cost"`
	Type     CardType     `yaml:"type"`
	Attack   int          `yaml:"attack,omitempty"`
	Health   int          `yaml:"health,omitempty"`
	Keywords []Keyword    `yaml:"keywords,omitempty"`
	Effects  []CardEffect `yaml:"effects,omitempty"`
	// PlayConditions gate whether the card may legally be played at all,
	// preventing spells from whiffing with no legal target.
	PlayConditions []Condition `yaml:"play_conditions,omitempty"`
}

// HasKeyword reports whether the template carries the given keyword.
func (t *CardTemplate) HasKeyword(k Keyword) bool {
	for _, kw := range t.Keywords {
		if kw == k {
			return true
		}
	}
	return false
}

// EffectsFor returns the template's effects declared for the given trigger.
func (t *CardTemplate) EffectsFor(trigger Trigger) []CardEffect {
	var out []CardEffect
	for _, e := range t.Effects {
		if e.Trigger == trigger {
			out = append(out, e)
		}
	}
	return out
}

// StatusKind names a temporal status applied to a field card.
type StatusKind string

const (
	StatusPoison  StatusKind = "poison"
	StatusStun    StatusKind = "stun"
	StatusBranded StatusKind = "branded"
)

// StatusEffect is a status instance on a field card. Branded has no duration
// and persists until the card leaves the field.
type StatusEffect struct {
	Kind     StatusKind `yaml:"kind"`
	Duration int        `yaml:"duration,omitempty"`
	Damage   int        `yaml:"damage,omitempty"`
}
