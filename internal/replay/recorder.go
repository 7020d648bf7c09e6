package replay

import (
	"os"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Recorder keeps finished replays in memory and persists them to a
// directory. It is the piece the playback server reads from.
type Recorder struct {
	logger *zap.Logger

	mu      sync.RWMutex
	replays map[string]*Replay
	saveDir string
}

// NewRecorder creates a recorder saving under dir.
func NewRecorder(logger *zap.Logger, dir string) *Recorder {
	return &Recorder{
		logger:  logger,
		replays: make(map[string]*Replay),
		saveDir: dir,
	}
}

// Add registers a finished replay in memory.
func (rr *Recorder) Add(r *Replay) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	rr.replays[r.GameID] = r
	rr.logger.Info("replay recorded",
		zap.String("game_id", r.GameID),
		zap.Int("frames", r.Size()),
	)
}

// Get returns a replay, loading it from disk when it is not in memory.
func (rr *Recorder) Get(gameID string) (*Replay, error) {
	rr.mu.RLock()
	r, ok := rr.replays[gameID]
	rr.mu.RUnlock()
	if ok {
		return r, nil
	}

	r, err := LoadFromFile(rr.saveDir, gameID)
	if err != nil {
		return nil, err
	}
	rr.mu.Lock()
	rr.replays[gameID] = r
	rr.mu.Unlock()
	return r, nil
}

// Save persists one replay to the save directory.
func (rr *Recorder) Save(gameID string) error {
	rr.mu.RLock()
	r, ok := rr.replays[gameID]
	rr.mu.RUnlock()
	if !ok {
		return os.ErrNotExist
	}
	if err := r.SaveToFile(rr.saveDir); err != nil {
		return err
	}
	rr.logger.Info("replay saved",
		zap.String("game_id", gameID),
		zap.String("dir", rr.saveDir),
	)
	return nil
}

// List returns the game ids of every replay available in memory or on disk.
func (rr *Recorder) List() []string {
	seen := make(map[string]bool)

	rr.mu.RLock()
	for id := range rr.replays {
		seen[id] = true
	}
	rr.mu.RUnlock()

	if entries, err := os.ReadDir(rr.saveDir); err == nil {
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if id, ok := strings.CutSuffix(e.Name(), ".replay"); ok {
				seen[id] = true
			}
		}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
