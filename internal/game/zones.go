package game

// Zone transitions. These functions are the only sanctioned ways to move a
// card between zones. Each removes from exactly one source, appends to
// exactly one destination, and re-densifies field positions whenever a field
// changes shape. A transition requested on a card that is not present in the
// claimed source zone is a no-op: trigger cascades can race, and the engine
// must tolerate being asked to remove something already gone.

// NewFieldCard creates a live instance of a creature template. The instance
// id comes from the game's deterministic allocator.
func (g *GameState) NewFieldCard(tmpl *CardTemplate, owner string) *FieldCard {
	c := &FieldCard{
		InstanceID:    g.NewInstanceID(),
		TemplateID:    tmpl.ID,
		Template:      tmpl,
		Name:          tmpl.Name,
		Owner:         owner,
		Cost:          tmpl.Cost,
		Attack:        tmpl.Attack,
		Health:        tmpl.Health,
		CurrentHealth: tmpl.Health,
		SummonedTurn:  g.Turn,
		Keywords:      append([]Keyword(nil), tmpl.Keywords...),
		Effects:       append([]CardEffect(nil), tmpl.Effects...),
		Statuses:      make([]StatusEffect, 0, 2),
	}
	if tmpl.HasKeyword(KeywordStealth) {
		c.Stealth = true
	}
	return c
}

// reindexField reassigns dense 0..n-1 positions, preserving order.
func reindexField(p *PlayerState) {
	for i, c := range p.Field {
		c.Position = i
	}
}

// removeTemplate splices the first pointer-identical entry out of a template
// list. Returns the shortened list and whether the entry was found.
func removeTemplate(list []*CardTemplate, tmpl *CardTemplate) ([]*CardTemplate, bool) {
	for i, t := range list {
		if t == tmpl {
			return append(list[:i], list[i+1:]...), true
		}
	}
	return list, false
}

// DeckDraw pops the top card of the deck into the hand. Returns the drawn
// template, or nil when the deck is empty or the hand is at cap.
func DeckDraw(p *PlayerState) *CardTemplate {
	if len(p.Deck) == 0 || len(p.Hand) >= HandCap {
		return nil
	}
	top := p.Deck[0]
	p.Deck = p.Deck[1:]
	p.Hand = append(p.Hand, top)
	return top
}

// DeckMill moves the top card of the deck to the graveyard. Returns nil when
// the deck is empty.
func DeckMill(p *PlayerState) *CardTemplate {
	if len(p.Deck) == 0 {
		return nil
	}
	top := p.Deck[0]
	p.Deck = p.Deck[1:]
	p.Graveyard = append(p.Graveyard, top)
	return top
}

// DeckSearch moves the first deck card with the given template id to the
// hand. Returns nil when no copy remains or the hand is at cap.
func DeckSearch(p *PlayerState, templateID string) *CardTemplate {
	if len(p.Hand) >= HandCap {
		return nil
	}
	for i, t := range p.Deck {
		if t.ID == templateID {
			p.Deck = append(p.Deck[:i], p.Deck[i+1:]...)
			p.Hand = append(p.Hand, t)
			return t
		}
	}
	return nil
}

// HandToField removes a creature template from the hand and places a new
// instance at the tail of the field. Returns nil when the card is not in
// hand or the field is full.
func (g *GameState) HandToField(p *PlayerState, tmpl *CardTemplate) *FieldCard {
	if len(p.Field) >= FieldCapacity {
		return nil
	}
	rest, ok := removeTemplate(p.Hand, tmpl)
	if !ok {
		return nil
	}
	p.Hand = rest
	card := g.NewFieldCard(tmpl, p.ID)
	p.Field = append(p.Field, card)
	reindexField(p)
	return card
}

// SummonToField places a new instance at the tail of the field without a
// hand source (summon, resurrect). Returns nil when the field is full.
func (g *GameState) SummonToField(p *PlayerState, tmpl *CardTemplate) *FieldCard {
	if len(p.Field) >= FieldCapacity {
		return nil
	}
	card := g.NewFieldCard(tmpl, p.ID)
	p.Field = append(p.Field, card)
	reindexField(p)
	return card
}

// HandToGraveyard discards a template from the hand.
func HandToGraveyard(p *PlayerState, tmpl *CardTemplate) bool {
	rest, ok := removeTemplate(p.Hand, tmpl)
	if !ok {
		return false
	}
	p.Hand = rest
	p.Graveyard = append(p.Graveyard, tmpl)
	return true
}

// FieldToGraveyard splices a field card out by instance id and pushes its
// template to the graveyard. This is one of the two legal removal paths for
// a field card; the other is FieldToBanished.
func FieldToGraveyard(p *PlayerState, instanceID string) *FieldCard {
	return fieldRemove(p, instanceID, false)
}

// FieldToBanished splices a field card out by instance id and pushes its
// template to the banished zone, permanently excluding it from any
// graveyard-based effect.
func FieldToBanished(p *PlayerState, instanceID string) *FieldCard {
	return fieldRemove(p, instanceID, true)
}

func fieldRemove(p *PlayerState, instanceID string, banish bool) *FieldCard {
	for i, c := range p.Field {
		if c.InstanceID == instanceID {
			p.Field = append(p.Field[:i], p.Field[i+1:]...)
			reindexField(p)
			if banish {
				p.Banished = append(p.Banished, c.Template)
			} else {
				p.Graveyard = append(p.Graveyard, c.Template)
			}
			return c
		}
	}
	return nil
}

// GraveyardToField revives the most recently added creature template from
// the graveyard as a fresh instance. Returns nil when no creature is in the
// graveyard or the field is full.
func (g *GameState) GraveyardToField(p *PlayerState) *FieldCard {
	if len(p.Field) >= FieldCapacity {
		return nil
	}
	for i := len(p.Graveyard) - 1; i >= 0; i-- {
		if p.Graveyard[i].Type == CardTypeCreature {
			tmpl := p.Graveyard[i]
			p.Graveyard = append(p.Graveyard[:i], p.Graveyard[i+1:]...)
			return g.SummonToField(p, tmpl)
		}
	}
	return nil
}

// SpellToGraveyard moves a spell template from the hand to the graveyard
// after it resolves.
func SpellToGraveyard(p *PlayerState, tmpl *CardTemplate) bool {
	return HandToGraveyard(p, tmpl)
}
