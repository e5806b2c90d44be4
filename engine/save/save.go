// Package save implements JSON serialization and deserialization of
// session state. Snapshots are plain objects; rehydration lives with the
// owning components (quest.Manager.RestoreAll, caster.Restore).
package save

import (
	"encoding/json"
	"time"

	"github.com/nathoo/arcanum/engine/caster"
	"github.com/nathoo/arcanum/engine/quest"
)

// SaveData is the JSON-serializable save format.
type SaveData struct {
	Version     string           `json:"version"`
	SavedAt     time.Time        `json:"saved_at"`
	Flags       map[string]any   `json:"flags"`
	Quests      []quest.Snapshot `json:"quests"`
	Caster      caster.Snapshot  `json:"caster"`
	Inventory   map[string]int   `json:"inventory"`
	Spells      []string         `json:"spells"`
	RNGSeed     int64            `json:"rng_seed"`
	RNGPosition int64            `json:"rng_position"`
}

// Marshal serializes save data to JSON bytes.
func Marshal(data *SaveData) ([]byte, error) {
	return json.MarshalIndent(data, "", "  ")
}

// Unmarshal deserializes JSON bytes into SaveData. This is the one place
// the core propagates parse errors: a corrupt save is not recoverable in
// place.
func Unmarshal(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, err
	}
	// Ensure maps are never nil after load.
	if sd.Flags == nil {
		sd.Flags = map[string]any{}
	}
	if sd.Inventory == nil {
		sd.Inventory = map[string]int{}
	}
	return &sd, nil
}
