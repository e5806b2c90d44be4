package quest

import "github.com/nathoo/arcanum/types"

// The methods below form the read-only surface the world-state evaluator
// is constructed with (worldstate.QuestQuery).

// IsQuestActive reports whether the quest is in the active set.
func (m *Manager) IsQuestActive(questID string) bool {
	_, ok := m.active[questID]
	return ok
}

// IsQuestCompleted reports whether the quest has been completed.
func (m *Manager) IsQuestCompleted(questID string) bool {
	return m.completed[questID]
}

// IsStageState checks a linear stage against the given state. A stage is
// active while it is the quest's current stage; it is completed once the
// quest has moved past it in stage order, or the quest itself completed.
func (m *Manager) IsStageState(questID, stageID string, state types.StageState) bool {
	def := m.defs[questID]

	switch state {
	case types.StageStateActive:
		st, ok := m.active[questID]
		return ok && st.CurrentStage == stageID

	case types.StageStateCompleted:
		if m.completed[questID] {
			return def == nil || findStage(def, stageID) != nil
		}
		st, ok := m.active[questID]
		if !ok || def == nil {
			return false
		}
		current := stageIndex(def, st.CurrentStage)
		target := stageIndex(def, stageID)
		return target >= 0 && current >= 0 && target < current

	default:
		return false
	}
}

// IsNodeState checks a branch node against the given state. Nodes track
// entry rather than authored order: a node is completed once it has been
// entered and left behind, regardless of where it sits in the stage list.
func (m *Manager) IsNodeState(questID, nodeID string, state types.StageState) bool {
	switch state {
	case types.StageStateActive:
		st, ok := m.active[questID]
		return ok && st.CurrentStage == nodeID

	case types.StageStateCompleted:
		if m.completed[questID] {
			return m.visited[questID] == nil || m.visited[questID][nodeID]
		}
		st, ok := m.active[questID]
		if !ok {
			return false
		}
		return m.visited[questID][nodeID] && st.CurrentStage != nodeID

	default:
		return false
	}
}

// State returns the live instance for an active quest, or nil.
func (m *Manager) State(questID string) *types.QuestState {
	return m.active[questID]
}

// ActiveQuests returns the active quest IDs in start order.
func (m *Manager) ActiveQuests() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Definition returns the cached definition, if any.
func (m *Manager) Definition(questID string) *types.QuestDef {
	return m.defs[questID]
}

func stageIndex(def *types.QuestDef, stageID string) int {
	for i := range def.Stages {
		if def.Stages[i].ID == stageID {
			return i
		}
	}
	return -1
}
