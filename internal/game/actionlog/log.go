// Package actionlog records every observable state change of a simulation as
// an append-only, strictly sequenced list. The log is the canonical account
// of what happened and in what order: any consumer (presentation playback,
// persistence, tests) reads it, and none of them can influence its content.
package actionlog

import (
	"encoding/json"
	"fmt"
	"time"
)

// Type enumerates the record kinds the engine emits.
type Type string

const (
	TypePhaseChange       Type = "phase_change"
	TypeCardPlayed        Type = "card_played"
	TypeCardDrawn         Type = "card_drawn"
	TypeEnergyUpdated     Type = "energy_updated"
	TypeEnergyRefilled    Type = "energy_refilled"
	TypeAttackResolved    Type = "attack_resolved"
	TypeCreatureDestroyed Type = "creature_destroyed"
	TypeEffectTriggered   Type = "effect_triggered"
	TypeTriggerEvent      Type = "trigger_event"
	TypeKeywordTriggered  Type = "keyword_triggered"
	TypeTurnEndStage      Type = "turn_end_stage"
	TypeCombatStage       Type = "combat_stage"
	TypeGameOver          Type = "game_over"
)

// Combat sub-stage names carried in TypeCombatStage payloads.
const (
	StageDeclare        = "declare"
	StageDamageDefender = "damage_defender"
	StageDamageAttacker = "damage_attacker"
	StageDeaths         = "deaths"
)

// Action is one immutable log record. Sequence equals the record's index in
// the log; replay integrity depends on the sequence being gap-free.
type Action struct {
	Sequence  int            `json:"sequence"`
	PlayerID  string         `json:"player_id"`
	Type      Type           `json:"type"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Log is the append-only record list. Records are never mutated or reordered
// after append.
type Log struct {
	actions   []Action
	destroyed map[string]bool
}

// New creates an empty log.
func New() *Log {
	return &Log{
		actions:   make([]Action, 0, 64),
		destroyed: make(map[string]bool),
	}
}

// Append assigns the next sequence number and a generation timestamp, then
// pushes the record. It returns the stored record.
func (l *Log) Append(playerID string, t Type, data map[string]any) Action {
	a := Action{
		Sequence:  len(l.actions),
		PlayerID:  playerID,
		Type:      t,
		Data:      data,
		Timestamp: time.Now(),
	}
	l.actions = append(l.actions, a)

	// Maintain the destroyed-instance index used by the death sweeper.
	if t == TypeCreatureDestroyed {
		if id, ok := data["instance_id"].(string); ok && id != "" {
			l.destroyed[id] = true
		}
	}
	return a
}

// Len returns the number of records.
func (l *Log) Len() int {
	return len(l.actions)
}

// At returns the record at the given sequence number.
func (l *Log) At(i int) (Action, bool) {
	if i < 0 || i >= len(l.actions) {
		return Action{}, false
	}
	return l.actions[i], true
}

// Actions returns a copy of all records in order.
func (l *Log) Actions() []Action {
	out := make([]Action, len(l.actions))
	copy(out, l.actions)
	return out
}

// OfType returns all records of the given type, in order.
func (l *Log) OfType(t Type) []Action {
	var out []Action
	for _, a := range l.actions {
		if a.Type == t {
			out = append(out, a)
		}
	}
	return out
}

// HasDestroyed reports whether a destruction record for the given field-card
// instance id has been appended. This is the log-history check the death
// sweeper relies on; it never consults current zone membership.
func (l *Log) HasDestroyed(instanceID string) bool {
	return l.destroyed[instanceID]
}

// canonicalAction is the timestamp-free projection used for fingerprinting.
type canonicalAction struct {
	Sequence int            `json:"sequence"`
	PlayerID string         `json:"player_id"`
	Type     Type           `json:"type"`
	Data     map[string]any `json:"data,omitempty"`
}

// Canonical serializes the log without timestamps. encoding/json emits map
// keys in sorted order, so two logs with identical contents produce
// byte-identical output; this is the determinism oracle.
func (l *Log) Canonical() ([]byte, error) {
	out := make([]canonicalAction, len(l.actions))
	for i, a := range l.actions {
		out[i] = canonicalAction{
			Sequence: a.Sequence,
			PlayerID: a.PlayerID,
			Type:     a.Type,
			Data:     a.Data,
		}
	}
	b, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize action log: %w", err)
	}
	return b, nil
}

// Verify checks the gap-free sequence invariant.
func (l *Log) Verify() error {
	for i, a := range l.actions {
		if a.Sequence != i {
			return fmt.Errorf("log sequence gap: record %d carries sequence %d", i, a.Sequence)
		}
	}
	return nil
}
