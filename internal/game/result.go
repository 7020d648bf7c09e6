package game

import "github.com/duelforge/duelsim/internal/game/actionlog"

// CheckTerminal is the per-step gate the driver applies between phase
// advances. It records and returns a terminal result when either life total
// has run out, or when the turn ceiling has passed and the game resolves by
// life comparison. The phase machine itself never calls this; termination is
// the caller's responsibility.
func CheckTerminal(g *GameState) *GameResult {
	if g.Result != nil {
		return g.Result
	}

	a := g.Players[g.Order[0]]
	b := g.Players[g.Order[1]]

	switch {
	case a.Life <= 0 && b.Life <= 0:
		return recordResult(g, &GameResult{Draw: true, Reason: "mutual_defeat", Turn: g.Turn})
	case a.Life <= 0:
		return recordResult(g, &GameResult{Winner: b.ID, Loser: a.ID, Reason: "life", Turn: g.Turn})
	case b.Life <= 0:
		return recordResult(g, &GameResult{Winner: a.ID, Loser: b.ID, Reason: "life", Turn: g.Turn})
	}

	if g.Turn > TurnLimit {
		switch {
		case a.Life > b.Life:
			return recordResult(g, &GameResult{Winner: a.ID, Loser: b.ID, Reason: "turn_limit", Turn: g.Turn})
		case b.Life > a.Life:
			return recordResult(g, &GameResult{Winner: b.ID, Loser: a.ID, Reason: "turn_limit", Turn: g.Turn})
		default:
			return recordResult(g, &GameResult{Draw: true, Reason: "turn_limit", Turn: g.Turn})
		}
	}
	return nil
}

func recordResult(g *GameState, res *GameResult) *GameResult {
	g.Result = res
	data := map[string]any{
		"reason": res.Reason,
		"turn":   res.Turn,
		"draw":   res.Draw,
	}
	if !res.Draw {
		data["winner"] = res.Winner
		data["loser"] = res.Loser
	}
	g.Log.Append(res.Winner, actionlog.TypeGameOver, data)
	return res
}
