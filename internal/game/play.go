package game

import (
	"go.uber.org/zap"

	"github.com/duelforge/duelsim/internal/game/actionlog"
)

// PlayCard spends energy and resolves one card from the player's hand.
// Creatures enter the tail of the field and fire their on_play trigger;
// spells execute their on_play effects, move to the graveyard, and then let
// the owner's field react via on_spell_play. Returns false when the play is
// illegal (not in hand, unaffordable, field full).
func (e *Engine) PlayCard(g *GameState, playerID string, tmpl *CardTemplate) bool {
	p := g.Players[playerID]
	if p == nil || !e.playable(g, p, tmpl) {
		return false
	}

	switch tmpl.Type {
	case CardTypeCreature:
		card := g.HandToField(p, tmpl)
		if card == nil {
			return false
		}
		p.Energy -= tmpl.Cost
		g.Log.Append(playerID, actionlog.TypeCardPlayed, map[string]any{
			"template_id": tmpl.ID,
			"name":        tmpl.Name,
			"card_type":   string(tmpl.Type),
			"instance_id": card.InstanceID,
			"position":    card.Position,
			"cost":        tmpl.Cost,
		})
		e.resolver.ProcessTrigger(g, TriggerOnPlay,
			EffectSource{Template: tmpl, Card: card, PlayerID: playerID}, card.InstanceID)

	case CardTypeSpell:
		p.Energy -= tmpl.Cost
		g.Log.Append(playerID, actionlog.TypeCardPlayed, map[string]any{
			"template_id": tmpl.ID,
			"name":        tmpl.Name,
			"card_type":   string(tmpl.Type),
			"cost":        tmpl.Cost,
		})
		// The spell resolves from the hand; it reaches the graveyard only
		// after its effects have run.
		e.resolver.ProcessTrigger(g, TriggerOnPlay,
			EffectSource{Template: tmpl, PlayerID: playerID}, tmpl.ID)
		SpellToGraveyard(p, tmpl)
		e.resolver.ProcessTrigger(g, TriggerOnSpellPlay,
			EffectSource{Template: tmpl, PlayerID: playerID}, tmpl.ID)

	default:
		e.logger.Warn("unknown card type",
			zap.String("game_id", g.ID),
			zap.String("template_id", tmpl.ID),
			zap.String("card_type", string(tmpl.Type)),
		)
		return false
	}

	return true
}
