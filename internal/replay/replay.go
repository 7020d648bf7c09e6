package replay

import (
	"bytes"
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/duelforge/duelsim/internal/game/actionlog"
)

// A replay is the action log of one finished game plus the inputs needed to
// reproduce it: seed and deck names. Frames are the log's action records;
// playback is a cursor over them.

func init() {
	// Action payloads are map[string]any; gob needs the concrete types that
	// appear inside the interface values.
	gob.Register(map[string]any{})
	gob.Register([]any{})
	gob.Register([]string{})
}

const formatVersion = 1

// Replay holds the recorded frames of one game and a playback cursor.
type Replay struct {
	GameID string
	Seed   string
	Winner string

	mu     sync.RWMutex
	frames []actionlog.Action
	cursor int
}

// New creates an empty replay for a game.
func New(gameID, seed string) *Replay {
	return &Replay{GameID: gameID, Seed: seed}
}

// FromLog builds a replay directly from a finished game's action log.
func FromLog(gameID, seed, winner string, log *actionlog.Log) *Replay {
	r := New(gameID, seed)
	r.Winner = winner
	r.frames = log.Actions()
	return r
}

// Append records one frame.
func (r *Replay) Append(frame actionlog.Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, frame)
}

// Size reports the number of recorded frames.
func (r *Replay) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.frames)
}

// Rewind resets the playback cursor to the first frame.
func (r *Replay) Rewind() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cursor = 0
}

// Next returns the frame under the cursor and advances. Returns false at the
// end of the replay.
func (r *Replay) Next() (actionlog.Action, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cursor >= len(r.frames) {
		return actionlog.Action{}, false
	}
	frame := r.frames[r.cursor]
	r.cursor++
	return frame, true
}

// Previous steps the cursor back one frame and returns it. Returns false at
// the start of the replay.
func (r *Replay) Previous() (actionlog.Action, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cursor <= 0 {
		return actionlog.Action{}, false
	}
	r.cursor--
	return r.frames[r.cursor], true
}

// Skip moves the cursor by delta frames, clamped to the replay bounds, and
// returns the frame now under it.
func (r *Replay) Skip(delta int) (actionlog.Action, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cursor += delta
	if r.cursor < 0 {
		r.cursor = 0
	}
	if r.cursor > len(r.frames) {
		r.cursor = len(r.frames)
	}
	if r.cursor >= len(r.frames) {
		return actionlog.Action{}, false
	}
	return r.frames[r.cursor], true
}

// FrameAt returns the frame at an absolute index without moving the cursor.
func (r *Replay) FrameAt(index int) (actionlog.Action, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if index < 0 || index >= len(r.frames) {
		return actionlog.Action{}, false
	}
	return r.frames[index], true
}

// Frames returns a copy of all recorded frames.
func (r *Replay) Frames() []actionlog.Action {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]actionlog.Action(nil), r.frames...)
}

type metadata struct {
	GameID     string
	Seed       string
	Winner     string
	Timestamp  time.Time
	Version    int
	FrameCount int
}

// Encode writes the replay as gzipped gob.
func (r *Replay) Encode(w io.Writer) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	zw := gzip.NewWriter(w)
	enc := gob.NewEncoder(zw)

	meta := metadata{
		GameID:     r.GameID,
		Seed:       r.Seed,
		Winner:     r.Winner,
		Timestamp:  time.Now(),
		Version:    formatVersion,
		FrameCount: len(r.frames),
	}
	if err := enc.Encode(&meta); err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	for i := range r.frames {
		if err := enc.Encode(&r.frames[i]); err != nil {
			return fmt.Errorf("encode frame %d: %w", i, err)
		}
	}
	return zw.Close()
}

// Decode reads a replay written by Encode.
func Decode(rd io.Reader) (*Replay, error) {
	zr, err := gzip.NewReader(rd)
	if err != nil {
		return nil, fmt.Errorf("open gzip stream: %w", err)
	}
	defer zr.Close()

	dec := gob.NewDecoder(zr)
	var meta metadata
	if err := dec.Decode(&meta); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	if meta.Version != formatVersion {
		return nil, fmt.Errorf("unsupported replay version %d", meta.Version)
	}

	r := New(meta.GameID, meta.Seed)
	r.Winner = meta.Winner
	r.frames = make([]actionlog.Action, 0, meta.FrameCount)
	for i := 0; i < meta.FrameCount; i++ {
		var frame actionlog.Action
		if err := dec.Decode(&frame); err != nil {
			return nil, fmt.Errorf("decode frame %d: %w", i, err)
		}
		r.frames = append(r.frames, frame)
	}
	return r, nil
}

// Bytes encodes the replay to a byte slice, for database storage.
func (r *Replay) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FromBytes decodes a replay produced by Bytes.
func FromBytes(raw []byte) (*Replay, error) {
	return Decode(bytes.NewReader(raw))
}

// SaveToFile writes the replay under dir as <game id>.replay.
func (r *Replay) SaveToFile(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create replay directory: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, r.GameID+".replay"))
	if err != nil {
		return fmt.Errorf("create replay file: %w", err)
	}
	defer f.Close()
	return r.Encode(f)
}

// LoadFromFile reads a replay saved by SaveToFile.
func LoadFromFile(dir, gameID string) (*Replay, error) {
	f, err := os.Open(filepath.Join(dir, gameID+".replay"))
	if err != nil {
		return nil, fmt.Errorf("open replay file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}
