package worldstate

import (
	"log/slog"

	"github.com/nathoo/arcanum/engine/flags"
	"github.com/nathoo/arcanum/types"
)

// QuestQuery is the quest-state surface the evaluator reads.
type QuestQuery interface {
	IsQuestActive(questID string) bool
	IsQuestCompleted(questID string) bool
	IsStageState(questID, stageID string, state types.StageState) bool
	IsNodeState(questID, nodeID string, state types.StageState) bool
}

// Inventory is the read-only item query surface.
type Inventory interface {
	HasItem(itemID string, count int) bool
}

// CasterQuery exposes the caster's meters.
type CasterQuery interface {
	Battery() float64
	Resonance() float64
}

// SpellQuery reports which spells the player knows.
type SpellQuery interface {
	HasSpell(spellID string) bool
}

// FlagQuery is the flag surface the evaluator reads.
type FlagQuery interface {
	Get(key string) (any, bool)
	Truthy(key string) bool
}

// Evaluator interprets unified conditions against its four collaborator
// query surfaces. It is stateless, never mutates, and is safe to call
// redundantly; gameplay invokes it on every dialogue branch, trigger
// check, and spell-availability check.
type Evaluator struct {
	Quests    QuestQuery
	Inventory Inventory
	Caster    CasterQuery
	Spells    SpellQuery
	Flags     FlagQuery
	Logger    *slog.Logger
}

// Check evaluates a condition to a boolean. Unknown or malformed variants
// evaluate to false rather than failing, so future-versioned content
// degrades safely.
func (e *Evaluator) Check(c types.Condition) bool {
	switch c.Kind {
	case types.CondQuestActive:
		return e.Quests != nil && e.Quests.IsQuestActive(c.QuestID)

	case types.CondQuestCompleted:
		return e.Quests != nil && e.Quests.IsQuestCompleted(c.QuestID)

	case types.CondQuestStage:
		return e.Quests != nil && e.Quests.IsStageState(c.QuestID, c.StageID, c.State)

	case types.CondQuestNode:
		return e.Quests != nil && e.Quests.IsNodeState(c.QuestID, c.NodeID, c.State)

	case types.CondHasItem:
		return e.Inventory != nil && e.Inventory.HasItem(c.ItemID, c.Count)

	case types.CondResonance:
		return e.Caster != nil && compare(c.Cmp, e.Caster.Resonance(), c.Value)

	case types.CondBattery:
		return e.Caster != nil && compare(c.Cmp, e.Caster.Battery(), c.Value)

	case types.CondHasSpell:
		return e.Spells != nil && e.Spells.HasSpell(c.SpellID)

	case types.CondFlag:
		if e.Flags == nil {
			return false
		}
		if c.FlagValue == nil {
			return e.Flags.Truthy(c.Flag)
		}
		v, ok := e.Flags.Get(c.Flag)
		if !ok {
			return false
		}
		return v == flags.Normalize(c.FlagValue)

	case types.CondAnd:
		for _, child := range c.Children {
			if !e.Check(child) {
				return false
			}
		}
		return true // empty And is vacuously true

	case types.CondOr:
		for _, child := range c.Children {
			if e.Check(child) {
				return true
			}
		}
		return false // empty Or is vacuously false

	case types.CondNot:
		if c.Inner == nil {
			e.warn("not condition without inner child")
			return false
		}
		return !e.Check(*c.Inner)

	default:
		e.warn("unknown condition kind", "kind", string(c.Kind))
		return false
	}
}

// CheckAll is a convenience for AND-ing a condition list without building
// a combinator node. Empty lists pass.
func (e *Evaluator) CheckAll(conditions []types.Condition) bool {
	for _, c := range conditions {
		if !e.Check(c) {
			return false
		}
	}
	return true
}

func (e *Evaluator) warn(msg string, args ...any) {
	if e.Logger != nil {
		e.Logger.Warn(msg, args...)
		return
	}
	slog.Warn(msg, args...)
}

// compare applies one of the three supported operators. Anything else
// (including an unset Comparison) is false.
func compare(cmp types.Comparison, actual, want float64) bool {
	switch cmp {
	case types.CmpEq:
		return actual == want
	case types.CmpGte:
		return actual >= want
	case types.CmpLte:
		return actual <= want
	default:
		return false
	}
}
