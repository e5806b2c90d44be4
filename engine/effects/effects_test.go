package effects

import (
	"testing"

	"github.com/nathoo/arcanum/engine/caster"
	"github.com/nathoo/arcanum/engine/flags"
	"github.com/nathoo/arcanum/types"
)

// recordingStore captures inventory mutations.
type recordingStore struct {
	added   map[string]int
	removed map[string]int
}

func newRecordingStore() *recordingStore {
	return &recordingStore{added: map[string]int{}, removed: map[string]int{}}
}

func (r *recordingStore) Add(itemID string, count int)    { r.added[itemID] += count }
func (r *recordingStore) Remove(itemID string, count int) { r.removed[itemID] += count }

func testTargets() (Targets, *recordingStore) {
	inv := newRecordingStore()
	return Targets{
		Flags:     flags.NewStore(),
		Inventory: inv,
		Caster:    caster.New(caster.Config{MaxBattery: 100, Chaos: caster.DefaultChaosConfig()}),
	}, inv
}

func TestApply_Say(t *testing.T) {
	targets, _ := testTargets()
	output := Apply([]types.Effect{
		{Type: "say", Params: map[string]any{"text": "Hello."}},
		{Type: "say", Params: map[string]any{"text": "Goodbye."}},
	}, targets)

	if len(output) != 2 || output[0] != "Hello." || output[1] != "Goodbye." {
		t.Errorf("output = %v", output)
	}
}

func TestApply_SetFlag(t *testing.T) {
	targets, _ := testTargets()
	Apply([]types.Effect{
		{Type: "set_flag", Params: map[string]any{"flag": "met_elder"}},
		{Type: "set_flag", Params: map[string]any{"flag": "shards", "value": 3}},
	}, targets)

	if !targets.Flags.GetBool("met_elder") {
		t.Error("flag without value should default to true")
	}
	if targets.Flags.GetNumber("shards") != 3 {
		t.Error("flag value not applied")
	}
}

func TestApply_ClearFlag(t *testing.T) {
	targets, _ := testTargets()
	targets.Flags.Set("cursed", true)

	Apply([]types.Effect{
		{Type: "clear_flag", Params: map[string]any{"flag": "cursed"}},
	}, targets)

	if targets.Flags.Has("cursed") {
		t.Error("flag not cleared")
	}
}

func TestApply_Items(t *testing.T) {
	targets, inv := testTargets()
	Apply([]types.Effect{
		{Type: "give_item", Params: map[string]any{"item": "rope"}},
		{Type: "give_item", Params: map[string]any{"item": "shard", "count": 3.0}},
		{Type: "remove_item", Params: map[string]any{"item": "rope"}},
	}, targets)

	if inv.added["rope"] != 1 {
		t.Errorf("rope added = %d, want 1 (count defaults to 1)", inv.added["rope"])
	}
	if inv.added["shard"] != 3 {
		t.Errorf("shard added = %d, want 3", inv.added["shard"])
	}
	if inv.removed["rope"] != 1 {
		t.Errorf("rope removed = %d, want 1", inv.removed["rope"])
	}
}

func TestApply_CasterEffects(t *testing.T) {
	targets, _ := testTargets()
	Apply([]types.Effect{
		{Type: "drain_battery", Params: map[string]any{"amount": 40.0}},
		{Type: "charge_battery", Params: map[string]any{"amount": 10.0}},
		{Type: "add_resonance", Params: map[string]any{"amount": 15}},
	}, targets)

	if got := targets.Caster.Battery(); got != 70 {
		t.Errorf("battery = %v, want 70", got)
	}
	if got := targets.Caster.Resonance(); got != 15 {
		t.Errorf("resonance = %v, want 15", got)
	}
}

func TestApply_UnknownEffectIsNoOp(t *testing.T) {
	targets, inv := testTargets()
	output := Apply([]types.Effect{
		{Type: "summon_dragon", Params: map[string]any{"size": "large"}},
		{Type: "say", Params: map[string]any{"text": "still here"}},
	}, targets)

	if len(output) != 1 || output[0] != "still here" {
		t.Errorf("output = %v; unknown effect must not break the list", output)
	}
	if len(inv.added) != 0 {
		t.Error("unknown effect mutated state")
	}
}

func TestApply_NilTargetsAreSkipped(t *testing.T) {
	// Effects against absent targets do nothing rather than panic.
	output := Apply([]types.Effect{
		{Type: "set_flag", Params: map[string]any{"flag": "f"}},
		{Type: "give_item", Params: map[string]any{"item": "i"}},
		{Type: "add_resonance", Params: map[string]any{"amount": 5.0}},
		{Type: "say", Params: map[string]any{"text": "ok"}},
	}, Targets{})

	if len(output) != 1 || output[0] != "ok" {
		t.Errorf("output = %v", output)
	}
}

func TestApply_OrderPreserved(t *testing.T) {
	targets, _ := testTargets()
	// Later effects observe earlier mutations.
	Apply([]types.Effect{
		{Type: "set_flag", Params: map[string]any{"flag": "step", "value": 1}},
		{Type: "set_flag", Params: map[string]any{"flag": "step", "value": 2}},
	}, targets)

	if got := targets.Flags.GetNumber("step"); got != 2 {
		t.Errorf("step = %v, want 2 (last write wins)", got)
	}
}
