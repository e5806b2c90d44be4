package quest

import "github.com/nathoo/arcanum/types"

// At most one quest drives the HUD hint at a time. Tracking auto-adopts
// the first started quest and auto-reassigns whenever the tracked quest
// leaves the active set (see remove in quest.go).

// Tracked returns the tracked quest ID, or "" when nothing is active.
func (m *Manager) Tracked() string {
	return m.tracked
}

// SetTracked makes an active quest the tracked one. Returns false for
// quests that are not active.
func (m *Manager) SetTracked(questID string) bool {
	if _, ok := m.active[questID]; !ok {
		m.logger.Warn("track on non-active quest", "quest", questID)
		return false
	}
	m.tracked = questID
	return true
}

// TrackedObjective returns the first incomplete objective of the tracked
// quest's current stage, in authored order, or nil when there is nothing
// to surface.
func (m *Manager) TrackedObjective() *types.ObjectiveProgress {
	st, ok := m.active[m.tracked]
	if !ok {
		return nil
	}
	for _, obj := range st.Objectives {
		if !obj.Completed {
			return obj
		}
	}
	return nil
}
