package sim

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/duelforge/duelsim/internal/ai"
	"github.com/duelforge/duelsim/internal/catalog"
	"github.com/duelforge/duelsim/internal/game"
)

// stepSafetyCap bounds phase advances per game. A healthy game at the turn
// ceiling uses well under half of this.
const stepSafetyCap = 512

// Runner owns everything needed to run complete games: the catalog, the
// engine, and the terminal-result gate the phase machine itself does not
// apply.
type Runner struct {
	logger  *zap.Logger
	catalog *catalog.Catalog
	engine  *game.Engine
}

// NewRunner wires a runner over a catalog with the default heuristic AI.
func NewRunner(logger *zap.Logger, cat *catalog.Catalog) *Runner {
	return &Runner{
		logger:  logger,
		catalog: cat,
		engine:  game.NewEngine(logger, cat, ai.New(logger)),
	}
}

// Engine exposes the underlying engine for callers that drive games
// step by step (replay capture, presentation).
func (r *Runner) Engine() *game.Engine {
	return r.engine
}

// Match describes one game to run.
type Match struct {
	GameID string // allocated when empty
	Seed   string
	First  *catalog.DeckList
	Second *catalog.DeckList
}

// NewGame builds the starting state for a match without running it.
func (r *Runner) NewGame(m Match) (*game.GameState, error) {
	if m.Seed == "" {
		return nil, fmt.Errorf("match needs a seed")
	}
	gameID := m.GameID
	if gameID == "" {
		gameID = uuid.NewString()
	}

	firstDeck, err := r.catalog.BuildDeck(m.First)
	if err != nil {
		return nil, fmt.Errorf("first deck: %w", err)
	}
	secondDeck, err := r.catalog.BuildDeck(m.Second)
	if err != nil {
		return nil, fmt.Errorf("second deck: %w", err)
	}

	g := game.NewGame(gameID, m.Seed,
		game.PlayerSetup{ID: "player1", Faction: m.First.Faction, Tactics: m.First.Tactics, Deck: firstDeck},
		game.PlayerSetup{ID: "player2", Faction: m.Second.Faction, Tactics: m.Second.Tactics, Deck: secondDeck},
	)
	return g, nil
}

// Run drives a game to its terminal result. The terminal check is applied
// between steps, never inside the phase machine.
func (r *Runner) Run(g *game.GameState) (*game.GameResult, error) {
	for step := 0; step < stepSafetyCap; step++ {
		if res := game.CheckTerminal(g); res != nil {
			r.logger.Info("game finished",
				zap.String("game_id", g.ID),
				zap.String("winner", res.Winner),
				zap.String("reason", res.Reason),
				zap.Int("turn", res.Turn),
				zap.Int("log_len", g.Log.Len()),
			)
			return res, nil
		}
		r.engine.AdvancePhase(g)
	}
	return nil, fmt.Errorf("game %s exceeded step safety cap", g.ID)
}

// RunMatch is the one-shot entry point: build and run.
func (r *Runner) RunMatch(m Match) (*game.GameState, *game.GameResult, error) {
	g, err := r.NewGame(m)
	if err != nil {
		return nil, nil, err
	}
	res, err := r.Run(g)
	if err != nil {
		return g, nil, err
	}
	return g, res, nil
}
