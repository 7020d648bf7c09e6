package catalog

import "github.com/duelforge/duelsim/internal/game"

// Factions shipped with the built-in set.
const (
	FactionEmber   game.Faction = "ember"
	FactionFrost   game.Faction = "frost"
	FactionNeutral game.Faction = "neutral"
)

// BuiltinSet returns a catalog preloaded with the base card set. It exists
// so the simulator and the tests run without any set files on disk; external
// YAML sets layer on top via LoadSet.
func BuiltinSet() *Catalog {
	c := New()
	for _, tmpl := range baseSet() {
		// The base set is compiled in; a validation failure here is a
		// programming error, not an input error.
		if err := c.Add(tmpl); err != nil {
			panic(err)
		}
	}
	return c
}

func baseSet() []*game.CardTemplate {
	return []*game.CardTemplate{
		// Ember: aggressive tempo.
		{
			ID: "ember_recruit", Name: "Ember Recruit", Faction: FactionEmber,
			Cost: 1, Type: game.CardTypeCreature, Attack: 2, Health: 1,
			Keywords: []game.Keyword{game.KeywordRush},
		},
		{
			ID: "ember_firebrand", Name: "Firebrand Adept", Faction: FactionEmber,
			Cost: 2, Type: game.CardTypeCreature, Attack: 2, Health: 2,
			Effects: []game.CardEffect{{
				Trigger: game.TriggerOnPlay, Target: game.TargetEnemyRandom,
				Action: game.ActionDamage, Value: 1,
				ChainOnKill: &game.CardEffect{
					Target: game.TargetSelfPlayer, Action: game.ActionDraw, Value: 1,
				},
			}},
		},
		{
			ID: "ember_warhound", Name: "Cinder Warhound", Faction: FactionEmber,
			Cost: 2, Type: game.CardTypeCreature, Attack: 3, Health: 1,
			Keywords: []game.Keyword{game.KeywordTrample},
		},
		{
			ID: "ember_pyromancer", Name: "Ashen Pyromancer", Faction: FactionEmber,
			Cost: 3, Type: game.CardTypeCreature, Attack: 2, Health: 3,
			Effects: []game.CardEffect{{
				Trigger: game.TriggerOnSpellPlay, Target: game.TargetEnemyRandom,
				Action: game.ActionDamage, Value: 1,
			}},
		},
		{
			ID: "ember_flamewall", Name: "Flamewall Guardian", Faction: FactionEmber,
			Cost: 3, Type: game.CardTypeCreature, Attack: 1, Health: 5,
			Keywords: []game.Keyword{game.KeywordGuard},
			Effects: []game.CardEffect{{
				Trigger: game.TriggerOnDamageTaken, Target: game.TargetSelf,
				Action: game.ActionBuffAttack, Value: 1,
			}},
		},
		{
			ID: "ember_ashrider", Name: "Ashrider Vanguard", Faction: FactionEmber,
			Cost: 4, Type: game.CardTypeCreature, Attack: 4, Health: 3,
			Keywords: []game.Keyword{game.KeywordRush, game.KeywordTrample},
		},
		{
			ID: "ember_grave_igniter", Name: "Grave Igniter", Faction: FactionEmber,
			Cost: 4, Type: game.CardTypeCreature, Attack: 3, Health: 3,
			Effects: []game.CardEffect{{
				Trigger: game.TriggerOnPlay, Target: game.TargetSelf,
				Action:  game.ActionBuffAttack,
				Dynamic: &game.DynamicValue{Zone: game.DynamicZoneGraveyard, Filter: game.DynFilterCreaturesOnly},
			}},
		},
		{
			ID: "ember_phoenix", Name: "Emberwing Phoenix", Faction: FactionEmber,
			Cost: 5, Type: game.CardTypeCreature, Attack: 4, Health: 2,
			Effects: []game.CardEffect{{
				Trigger: game.TriggerOnDeath, Target: game.TargetSelfPlayer,
				Action: game.ActionSummon, Value: 1, SummonID: "ember_hatchling",
			}},
		},
		{
			ID: "ember_hatchling", Name: "Phoenix Hatchling", Faction: FactionEmber,
			Cost: 1, Type: game.CardTypeCreature, Attack: 1, Health: 1,
			Keywords: []game.Keyword{game.KeywordRush},
		},
		{
			ID: "ember_colossus", Name: "Cinder Colossus", Faction: FactionEmber,
			Cost: 6, Type: game.CardTypeCreature, Attack: 6, Health: 6,
			Keywords: []game.Keyword{game.KeywordTrample},
			Effects: []game.CardEffect{{
				Trigger: game.TriggerOnPlay, Target: game.TargetEnemyAll,
				Action: game.ActionDamage, Value: 1,
			}},
		},
		{
			ID: "ember_blaze", Name: "Blaze", Faction: FactionEmber,
			Cost: 2, Type: game.CardTypeSpell,
			PlayConditions: []game.Condition{{Subject: game.SubjectEnemyFieldCount, Op: game.OpGTE, Value: 1}},
			Effects: []game.CardEffect{{
				Trigger: game.TriggerOnPlay, Target: game.TargetEnemyRandom,
				Action: game.ActionDamage, Value: 3,
				ChainOnKill: &game.CardEffect{
					Target: game.TargetPlayer, Action: game.ActionDamage, Value: 1,
				},
			}},
		},
		{
			ID: "ember_rally", Name: "Rallying Cry", Faction: FactionEmber,
			Cost: 3, Type: game.CardTypeSpell,
			PlayConditions: []game.Condition{{Subject: game.SubjectAllyFieldCount, Op: game.OpGTE, Value: 1}},
			Effects: []game.CardEffect{
				{Trigger: game.TriggerOnPlay, Target: game.TargetAllyAll, Action: game.ActionBuffAttack, Value: 1},
				{
					Trigger: game.TriggerOnPlay, Target: game.TargetAllyAll,
					Action: game.ActionBuffHealth, Value: 1,
					Condition: &game.Condition{Subject: game.SubjectAllyFieldCount, Op: game.OpGTE, Value: 3},
				},
			},
		},
		{
			ID: "ember_smolder", Name: "Smoldering Rift", Faction: FactionEmber,
			Cost: 4, Type: game.CardTypeCreature, Attack: 2, Health: 4,
			Effects: []game.CardEffect{{
				Trigger: game.TriggerTurnEnd, Target: game.TargetEnemyRandom,
				Action: game.ActionDamage, Value: 1,
			}},
		},

		// Frost: control and attrition.
		{
			ID: "frost_sentinel", Name: "Frost Sentinel", Faction: FactionFrost,
			Cost: 2, Type: game.CardTypeCreature, Attack: 1, Health: 4,
			Keywords: []game.Keyword{game.KeywordGuard},
		},
		{
			ID: "frost_seer", Name: "Tidewatcher Seer", Faction: FactionFrost,
			Cost: 2, Type: game.CardTypeCreature, Attack: 1, Health: 3,
			Effects: []game.CardEffect{{
				Trigger: game.TriggerTurnStart, Target: game.TargetSelfPlayer,
				Action: game.ActionDraw, Value: 1,
				Condition: &game.Condition{Subject: game.SubjectCasterLife, Op: game.OpLTE, Value: 15},
			}},
		},
		{
			ID: "frost_icelancer", Name: "Icelancer", Faction: FactionFrost,
			Cost: 3, Type: game.CardTypeCreature, Attack: 2, Health: 3,
			Keywords: []game.Keyword{game.KeywordPoison},
		},
		{
			ID: "frost_shadowblade", Name: "Shadowblade Stalker", Faction: FactionFrost,
			Cost: 3, Type: game.CardTypeCreature, Attack: 3, Health: 2,
			Keywords: []game.Keyword{game.KeywordStealth},
		},
		{
			ID: "frost_banshee", Name: "Keening Banshee", Faction: FactionFrost,
			Cost: 3, Type: game.CardTypeCreature, Attack: 2, Health: 2,
			Effects: []game.CardEffect{{
				Trigger: game.TriggerOnDeath, Target: game.TargetEnemyAll,
				Action: game.ActionDebuffAttack, Value: 1,
			}},
		},
		{
			ID: "frost_soulwarden", Name: "Soulwarden", Faction: FactionFrost,
			Cost: 4, Type: game.CardTypeCreature, Attack: 3, Health: 4,
			Keywords: []game.Keyword{game.KeywordLifesteal},
		},
		{
			ID: "frost_gravecaller", Name: "Gravecaller", Faction: FactionFrost,
			Cost: 4, Type: game.CardTypeCreature, Attack: 2, Health: 4,
			Effects: []game.CardEffect{{
				Trigger: game.TriggerOnPlay, Target: game.TargetSelfPlayer,
				Action: game.ActionResurrect, Value: 1,
				Condition: &game.Condition{Subject: game.SubjectGraveyardSize, Op: game.OpGTE, Value: 1},
			}},
		},
		{
			ID: "frost_mirror_mage", Name: "Mirror Mage", Faction: FactionFrost,
			Cost: 4, Type: game.CardTypeCreature, Attack: 3, Health: 3,
			Effects: []game.CardEffect{{
				Trigger: game.TriggerOnPlay, Target: game.TargetEnemyRandom,
				Action:    game.ActionSwapAttackHealth,
				Selection: []game.SelectionRule{{Kind: game.SelectHealthRange, Min: 4, Max: 99}},
			}},
		},
		{
			ID: "frost_wyrm", Name: "Frostwyrm", Faction: FactionFrost,
			Cost: 5, Type: game.CardTypeCreature, Attack: 4, Health: 5,
			Keywords: []game.Keyword{game.KeywordRetaliate},
		},
		{
			ID: "frost_blizzard", Name: "Blizzard", Faction: FactionFrost,
			Cost: 4, Type: game.CardTypeSpell,
			PlayConditions: []game.Condition{{Subject: game.SubjectEnemyFieldCount, Op: game.OpGTE, Value: 2}},
			Effects: []game.CardEffect{{
				Trigger: game.TriggerOnPlay, Target: game.TargetEnemyAll,
				Action: game.ActionDamage, Value: 2,
			}},
		},
		{
			ID: "frost_glacial_prison", Name: "Glacial Prison", Faction: FactionFrost,
			Cost: 2, Type: game.CardTypeSpell,
			PlayConditions: []game.Condition{{Subject: game.SubjectEnemyFieldCount, Op: game.OpGTE, Value: 1}},
			Effects: []game.CardEffect{{
				Trigger: game.TriggerOnPlay, Target: game.TargetEnemyRandom,
				Action: game.ActionStun, Value: 2,
			}},
		},
		{
			ID: "frost_hex", Name: "Hex of Silence", Faction: FactionFrost,
			Cost: 3, Type: game.CardTypeSpell,
			PlayConditions: []game.Condition{{Subject: game.SubjectEnemyFieldCount, Op: game.OpGTE, Value: 1}},
			Effects: []game.CardEffect{{
				Trigger: game.TriggerOnPlay, Target: game.TargetEnemyRandom,
				Action: game.ActionSilence,
			}},
		},
		{
			ID: "frost_wither", Name: "Withering Gale", Faction: FactionFrost,
			Cost: 2, Type: game.CardTypeSpell,
			PlayConditions: []game.Condition{{Subject: game.SubjectEnemyFieldCount, Op: game.OpGTE, Value: 1}},
			Effects: []game.CardEffect{{
				Trigger: game.TriggerOnPlay, Target: game.TargetEnemyRandom,
				Action: game.ActionDebuffHealth, Value: 2,
			}},
		},
		{
			ID: "frost_soul_harvest", Name: "Soul Harvest", Faction: FactionFrost,
			Cost: 3, Type: game.CardTypeSpell,
			PlayConditions: []game.Condition{{Subject: game.SubjectGraveyardSize, Op: game.OpGTE, Value: 1}},
			Effects: []game.CardEffect{{
				Trigger: game.TriggerOnPlay, Target: game.TargetSelfPlayer,
				Action:  game.ActionHeal,
				Dynamic: &game.DynamicValue{Zone: game.DynamicZoneGraveyard, Filter: game.DynFilterCreaturesOnly},
			}},
		},

		// Neutral: shared toolbox.
		{
			ID: "neutral_archivist", Name: "Archivist of the Fallen", Faction: FactionNeutral,
			Cost: 2, Type: game.CardTypeCreature, Attack: 1, Health: 2,
			Effects: []game.CardEffect{{
				Trigger: game.TriggerOnAllyDeath, Target: game.TargetSelfPlayer,
				Action: game.ActionDraw, Value: 1,
			}},
		},
		{
			ID: "neutral_standard_bearer", Name: "Standard Bearer", Faction: FactionNeutral,
			Cost: 3, Type: game.CardTypeCreature, Attack: 2, Health: 2,
			Effects: []game.CardEffect{{
				Trigger: game.TriggerPassive, Target: game.TargetAllyAll,
				Action: game.ActionBuffAttack, Value: 1,
				Selection: []game.SelectionRule{{Kind: game.SelectExcludeSource}},
			}},
		},
		{
			ID: "neutral_brandmaster", Name: "Brandmaster", Faction: FactionNeutral,
			Cost: 3, Type: game.CardTypeCreature, Attack: 2, Health: 3,
			Effects: []game.CardEffect{{
				Trigger: game.TriggerOnPlay, Target: game.TargetEnemyRandom,
				Action: game.ActionApplyBrand,
			}},
		},
		{
			ID: "neutral_ravager", Name: "Pit Ravager", Faction: FactionNeutral,
			Cost: 4, Type: game.CardTypeCreature, Attack: 3, Health: 3,
			Effects: []game.CardEffect{{
				Trigger: game.TriggerOnAttack, Target: game.TargetSelf,
				Action: game.ActionBuffAttack, Value: 1,
			}},
		},
		{
			ID: "neutral_deck_raider", Name: "Deck Raider", Faction: FactionNeutral,
			Cost: 3, Type: game.CardTypeCreature, Attack: 2, Health: 2,
			Effects: []game.CardEffect{{
				Trigger: game.TriggerOnPlay, Target: game.TargetPlayer,
				Action: game.ActionDestroyDeckTop, Value: 2,
			}},
		},
		{
			ID: "neutral_executioner", Name: "Executioner of the Marked", Faction: FactionNeutral,
			Cost: 5, Type: game.CardTypeCreature, Attack: 4, Health: 4,
			Effects: []game.CardEffect{{
				Trigger: game.TriggerOnPlay, Target: game.TargetEnemyRandom,
				Action: game.ActionDamage, Value: 3,
				Condition: &game.Condition{Subject: game.SubjectAnyEnemyBranded, Op: game.OpGTE, Value: 1},
				Selection: []game.SelectionRule{{Kind: game.SelectHasBrand}},
			}},
		},
		{
			ID: "neutral_void_shepherd", Name: "Void Shepherd", Faction: FactionNeutral,
			Cost: 5, Type: game.CardTypeCreature, Attack: 3, Health: 5,
			Effects: []game.CardEffect{{
				Trigger: game.TriggerOnPlay, Target: game.TargetEnemyRandom,
				Action:    game.ActionBanish,
				Selection: []game.SelectionRule{{Kind: game.SelectCostRange, Min: 0, Max: 3}},
			}},
		},
		{
			ID: "neutral_doomsayer", Name: "Doomsayer", Faction: FactionNeutral,
			Cost: 6, Type: game.CardTypeCreature, Attack: 3, Health: 3,
			Effects: []game.CardEffect{{
				Trigger: game.TriggerOnPlay, Target: game.TargetEnemyAll,
				Action:    game.ActionDestroyAllCreatures,
				Selection: []game.SelectionRule{{Kind: game.SelectNotBrand}},
			}},
		},
		{
			ID: "neutral_mind_rot", Name: "Mind Rot", Faction: FactionNeutral,
			Cost: 2, Type: game.CardTypeSpell,
			Effects: []game.CardEffect{{
				Trigger: game.TriggerOnPlay, Target: game.TargetPlayer,
				Action: game.ActionHandDiscard, Value: 1,
			}},
		},
		{
			ID: "neutral_second_wind", Name: "Second Wind", Faction: FactionNeutral,
			Cost: 3, Type: game.CardTypeSpell,
			PlayConditions: []game.Condition{{Subject: game.SubjectAllyFieldCount, Op: game.OpGTE, Value: 1}},
			Effects: []game.CardEffect{{
				Trigger: game.TriggerOnPlay, Target: game.TargetAllyRandom,
				Action: game.ActionReady,
			}},
		},
		{
			ID: "neutral_summons", Name: "Dark Summons", Faction: FactionNeutral,
			Cost: 2, Type: game.CardTypeSpell,
			Effects: []game.CardEffect{{
				Trigger: game.TriggerOnPlay, Target: game.TargetSelfPlayer,
				Action: game.ActionDeckSearch, SummonID: "neutral_executioner",
			}},
		},
		{
			ID: "neutral_crossroads", Name: "Crossroads Pact", Faction: FactionNeutral,
			Cost: 2, Type: game.CardTypeSpell,
			Effects: []game.CardEffect{{
				Trigger: game.TriggerOnPlay,
				Branch: &game.ConditionalBranch{
					Condition: game.Condition{Subject: game.SubjectCasterLife, Op: game.OpLTE, Value: 10},
					Then: []game.CardEffect{{
						Target: game.TargetSelfPlayer, Action: game.ActionHeal, Value: 4,
					}},
					Else: []game.CardEffect{{
						Target: game.TargetSelfPlayer, Action: game.ActionDraw, Value: 1,
					}},
				},
			}},
		},
		{
			ID: "neutral_wisp", Name: "Restless Wisp", Faction: FactionNeutral,
			Cost: 1, Type: game.CardTypeCreature, Attack: 1, Health: 1,
			Keywords: []game.Keyword{game.KeywordUntargetable},
		},
	}
}

// DefaultDeck builds a 20-card list for one faction out of the built-in set,
// pairing the faction's cards with the neutral toolbox. Used by the
// simulator when no deck files are supplied.
func DefaultDeck(faction game.Faction) *DeckList {
	switch faction {
	case FactionEmber:
		return &DeckList{
			Name: "ember-default", Faction: faction, Tactics: "aggressive",
			Cards: []DeckEntry{
				{ID: "ember_recruit", Count: 2},
				{ID: "ember_firebrand", Count: 2},
				{ID: "ember_warhound", Count: 2},
				{ID: "ember_pyromancer", Count: 2},
				{ID: "ember_flamewall", Count: 2},
				{ID: "ember_ashrider", Count: 2},
				{ID: "ember_grave_igniter", Count: 1},
				{ID: "ember_phoenix", Count: 1},
				{ID: "ember_colossus", Count: 1},
				{ID: "ember_blaze", Count: 2},
				{ID: "ember_rally", Count: 1},
				{ID: "neutral_brandmaster", Count: 1},
				{ID: "neutral_ravager", Count: 1},
			},
		}
	case FactionFrost:
		return &DeckList{
			Name: "frost-default", Faction: faction, Tactics: "control",
			Cards: []DeckEntry{
				{ID: "frost_sentinel", Count: 2},
				{ID: "frost_seer", Count: 2},
				{ID: "frost_icelancer", Count: 2},
				{ID: "frost_shadowblade", Count: 1},
				{ID: "frost_banshee", Count: 2},
				{ID: "frost_soulwarden", Count: 2},
				{ID: "frost_gravecaller", Count: 1},
				{ID: "frost_wyrm", Count: 1},
				{ID: "frost_blizzard", Count: 1},
				{ID: "frost_glacial_prison", Count: 2},
				{ID: "frost_wither", Count: 1},
				{ID: "neutral_archivist", Count: 1},
				{ID: "neutral_standard_bearer", Count: 1},
				{ID: "neutral_mind_rot", Count: 1},
			},
		}
	default:
		return &DeckList{
			Name: "neutral-default", Faction: FactionNeutral, Tactics: "balanced",
			Cards: []DeckEntry{
				{ID: "neutral_wisp", Count: 2},
				{ID: "neutral_archivist", Count: 2},
				{ID: "neutral_standard_bearer", Count: 2},
				{ID: "neutral_brandmaster", Count: 2},
				{ID: "neutral_ravager", Count: 2},
				{ID: "neutral_deck_raider", Count: 2},
				{ID: "neutral_executioner", Count: 2},
				{ID: "neutral_void_shepherd", Count: 2},
				{ID: "neutral_doomsayer", Count: 1},
				{ID: "neutral_mind_rot", Count: 1},
				{ID: "neutral_second_wind", Count: 1},
				{ID: "neutral_crossroads", Count: 1},
			},
		}
	}
}
