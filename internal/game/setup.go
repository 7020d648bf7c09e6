package game

import (
	"time"

	"github.com/duelforge/duelsim/internal/game/actionlog"
	"github.com/duelforge/duelsim/internal/game/rng"
)

// PlayerSetup is everything needed to seat one player.
type PlayerSetup struct {
	ID      string
	Faction Faction
	Tactics string
	Deck    []*CardTemplate
}

// NewGame builds the starting state: decks shuffled with the master RNG,
// opening hands dealt, first player's draw phase pending. The setup order is
// fixed (first player's deck, then second, then hands in the same order) so
// a seed fully determines the starting position.
func NewGame(id, seed string, first, second PlayerSetup) *GameState {
	g := &GameState{
		ID:            id,
		Turn:          1,
		CurrentPlayer: first.ID,
		Phase:         PhaseDraw,
		Players:       make(map[string]*PlayerState, 2),
		Order:         [2]string{first.ID, second.ID},
		Log:           actionlog.New(),
		Seed:          seed,
		StartedAt:     time.Now(),
	}

	master := rng.New(seed)
	for _, setup := range []PlayerSetup{first, second} {
		p := &PlayerState{
			ID:      setup.ID,
			Life:    StartingLife,
			Faction: setup.Faction,
			Tactics: setup.Tactics,
			Deck:    append([]*CardTemplate(nil), setup.Deck...),
		}
		master.Shuffle(len(p.Deck), func(i, j int) {
			p.Deck[i], p.Deck[j] = p.Deck[j], p.Deck[i]
		})
		for i := 0; i < OpeningHand; i++ {
			DeckDraw(p)
		}
		g.Players[setup.ID] = p
	}

	g.Log.Append(first.ID, actionlog.TypePhaseChange, map[string]any{
		"phase": PhaseDraw.String(),
		"turn":  1,
	})
	return g
}
