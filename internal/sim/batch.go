package sim

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/duelforge/duelsim/internal/catalog"
)

// BatchResult aggregates a batch of games between the same two decks.
type BatchResult struct {
	Games      int
	FirstWins  int
	SecondWins int
	Draws      int
	TotalTurns int
	Errors     int
}

// AverageTurns reports the mean game length over completed games.
func (b *BatchResult) AverageTurns() float64 {
	completed := b.Games - b.Errors
	if completed == 0 {
		return 0
	}
	return float64(b.TotalTurns) / float64(completed)
}

// RunBatch plays n games between two decks, deriving a per-game seed from
// the base seed so the whole batch is reproducible from one string.
func (r *Runner) RunBatch(baseSeed string, n int, first, second *catalog.DeckList) *BatchResult {
	out := &BatchResult{Games: n}
	for i := 0; i < n; i++ {
		seed := fmt.Sprintf("%s:%04d", baseSeed, i)
		g, res, err := r.RunMatch(Match{Seed: seed, First: first, Second: second})
		if err != nil {
			out.Errors++
			r.logger.Error("batch game failed",
				zap.String("seed", seed),
				zap.Error(err),
			)
			continue
		}
		out.TotalTurns += res.Turn
		switch {
		case res.Draw:
			out.Draws++
		case res.Winner == g.Order[0]:
			out.FirstWins++
		default:
			out.SecondWins++
		}
	}
	return out
}
