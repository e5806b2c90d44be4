// Package worldstate implements the unified world-state condition algebra:
// constructors, the recursive evaluator, and the adapters that translate
// the two legacy condition representations into it.
package worldstate

import "github.com/nathoo/arcanum/types"

// QuestActive checks that a quest is in the active set.
func QuestActive(questID string) types.Condition {
	return types.Condition{Kind: types.CondQuestActive, QuestID: questID}
}

// QuestCompleted checks that a quest has been completed.
func QuestCompleted(questID string) types.Condition {
	return types.Condition{Kind: types.CondQuestCompleted, QuestID: questID}
}

// QuestStage checks a linear stage of a quest against the given state.
func QuestStage(questID, stageID string, state types.StageState) types.Condition {
	return types.Condition{Kind: types.CondQuestStage, QuestID: questID, StageID: stageID, State: state}
}

// QuestNode checks a branch node of a quest against the given state.
func QuestNode(questID, nodeID string, state types.StageState) types.Condition {
	return types.Condition{Kind: types.CondQuestNode, QuestID: questID, NodeID: nodeID, State: state}
}

// HasItem checks the inventory for at least count of an item.
// count <= 1 means "at least one".
func HasItem(itemID string, count int) types.Condition {
	return types.Condition{Kind: types.CondHasItem, ItemID: itemID, Count: count}
}

// Resonance compares the caster's resonance meter against value.
func Resonance(cmp types.Comparison, value float64) types.Condition {
	return types.Condition{Kind: types.CondResonance, Cmp: cmp, Value: value}
}

// Battery compares the caster's battery meter against value.
func Battery(cmp types.Comparison, value float64) types.Condition {
	return types.Condition{Kind: types.CondBattery, Cmp: cmp, Value: value}
}

// HasSpell checks that the player knows a spell.
func HasSpell(spellID string) types.Condition {
	return types.Condition{Kind: types.CondHasSpell, SpellID: spellID}
}

// Flag checks that a flag is set and truthy.
func Flag(key string) types.Condition {
	return types.Condition{Kind: types.CondFlag, Flag: key}
}

// FlagIs checks a flag for equality with value.
func FlagIs(key string, value any) types.Condition {
	return types.Condition{Kind: types.CondFlag, Flag: key, FlagValue: value}
}

// And is true when every child is true. Empty And is vacuously true.
func And(children ...types.Condition) types.Condition {
	return types.Condition{Kind: types.CondAnd, Children: children}
}

// Or is true when any child is true. Empty Or is vacuously false.
func Or(children ...types.Condition) types.Condition {
	return types.Condition{Kind: types.CondOr, Children: children}
}

// Not negates its single child.
func Not(inner types.Condition) types.Condition {
	return types.Condition{Kind: types.CondNot, Inner: &inner}
}
