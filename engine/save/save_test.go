package save

import (
	"strings"
	"testing"
	"time"

	"github.com/nathoo/arcanum/engine/caster"
	"github.com/nathoo/arcanum/engine/quest"
	"github.com/nathoo/arcanum/types"
)

func testSaveData() *SaveData {
	return &SaveData{
		Version: "1.0",
		SavedAt: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		Flags: map[string]any{
			"met_elder": true,
			"shards":    3.0,
			"mood":      "wary",
		},
		Quests: []quest.Snapshot{
			{
				QuestID:      "missing_cat",
				Status:       types.QuestActive,
				CurrentStage: "search",
				Objectives: []quest.ObjectiveSnapshot{
					{ID: "find_toys", Current: 2},
				},
				Visited: []string{"ask", "search"},
				Tracked: true,
			},
			{QuestID: "intro", Status: types.QuestCompleted},
		},
		Caster: caster.Snapshot{
			Battery:      62.5,
			MaxBattery:   100,
			RechargeRate: 30,
			Resonance:    40,
		},
		Inventory:   map[string]int{"lantern": 1, "shard": 3},
		Spells:      []string{"spark"},
		RNGSeed:     42,
		RNGPosition: 17,
	}
}

func TestSave_RoundTrip(t *testing.T) {
	data, err := Marshal(testSaveData())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	sd, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if sd.Version != "1.0" {
		t.Errorf("Version = %q", sd.Version)
	}
	if sd.Flags["met_elder"] != true || sd.Flags["shards"] != 3.0 || sd.Flags["mood"] != "wary" {
		t.Errorf("Flags = %v", sd.Flags)
	}
	if len(sd.Quests) != 2 {
		t.Fatalf("Quests = %d entries, want 2", len(sd.Quests))
	}
	active := sd.Quests[0]
	if active.QuestID != "missing_cat" || active.CurrentStage != "search" || !active.Tracked {
		t.Errorf("active quest = %+v", active)
	}
	if len(active.Objectives) != 1 || active.Objectives[0].Current != 2 {
		t.Errorf("objectives = %+v", active.Objectives)
	}
	if len(active.Visited) != 2 {
		t.Errorf("visited = %v", active.Visited)
	}
	if sd.Quests[1].Status != types.QuestCompleted {
		t.Errorf("completed quest = %+v", sd.Quests[1])
	}
	if sd.Caster.Battery != 62.5 || sd.Caster.Resonance != 40 {
		t.Errorf("caster = %+v", sd.Caster)
	}
	if sd.Inventory["shard"] != 3 {
		t.Errorf("inventory = %v", sd.Inventory)
	}
	if sd.RNGSeed != 42 || sd.RNGPosition != 17 {
		t.Errorf("rng = seed %d pos %d", sd.RNGSeed, sd.RNGPosition)
	}
}

func TestSave_HumanReadable(t *testing.T) {
	data, err := Marshal(testSaveData())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), "\n  ") {
		t.Error("expected indented JSON")
	}
}

func TestUnmarshal_CorruptData(t *testing.T) {
	if _, err := Unmarshal([]byte("{not json")); err == nil {
		t.Fatal("expected error for corrupt save")
	}
}

func TestUnmarshal_NilMapsInitialized(t *testing.T) {
	sd, err := Unmarshal([]byte(`{"version":"1.0"}`))
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if sd.Flags == nil {
		t.Error("Flags map should never be nil")
	}
	if sd.Inventory == nil {
		t.Error("Inventory map should never be nil")
	}
}
