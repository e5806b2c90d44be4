package quest

import (
	"context"
	"fmt"
	"time"

	"github.com/nathoo/arcanum/types"
)

// Snapshot is the plain-object save form of one quest instance.
type Snapshot struct {
	QuestID      string              `json:"quest_id"`
	Status       types.QuestStatus   `json:"status"`
	CurrentStage string              `json:"current_stage,omitempty"`
	Objectives   []ObjectiveSnapshot `json:"objectives,omitempty"`
	Visited      []string            `json:"visited,omitempty"`
	Tracked      bool                `json:"tracked,omitempty"`
	StartedAt    time.Time           `json:"started_at,omitempty"`
	CompletedAt  time.Time           `json:"completed_at,omitempty"`
}

// ObjectiveSnapshot is the save form of one objective's progress.
type ObjectiveSnapshot struct {
	ID        string `json:"id"`
	Current   int    `json:"current"`
	Completed bool   `json:"completed"`
}

// SnapshotAll returns the save form of the whole machine: one entry per
// active quest plus a minimal entry per completed quest ID.
func (m *Manager) SnapshotAll() []Snapshot {
	out := make([]Snapshot, 0, len(m.order)+len(m.completed))
	for _, questID := range m.order {
		st := m.active[questID]
		snap := Snapshot{
			QuestID:      questID,
			Status:       types.QuestActive,
			CurrentStage: st.CurrentStage,
			Tracked:      m.tracked == questID,
			StartedAt:    st.StartedAt,
		}
		for _, obj := range st.Objectives {
			snap.Objectives = append(snap.Objectives, ObjectiveSnapshot{
				ID: obj.ID, Current: obj.Current, Completed: obj.Completed,
			})
		}
		for stageID := range m.visited[questID] {
			snap.Visited = append(snap.Visited, stageID)
		}
		out = append(out, snap)
	}
	for questID := range m.completed {
		out = append(out, Snapshot{QuestID: questID, Status: types.QuestCompleted})
	}
	return out
}

// Restore rehydrates one quest instance from its snapshot, re-fetching
// the definition first. Unlike the gameplay operations this propagates
// errors: a snapshot that no longer matches its content is not
// recoverable in place.
func (m *Manager) Restore(ctx context.Context, snap Snapshot) error {
	switch snap.Status {
	case types.QuestCompleted:
		m.completed[snap.QuestID] = true
		return nil

	case types.QuestActive:
		def, err := m.definition(ctx, snap.QuestID)
		if err != nil {
			return fmt.Errorf("restoring quest %s: %w", snap.QuestID, err)
		}
		st := &types.QuestState{
			QuestID:      snap.QuestID,
			Status:       types.QuestActive,
			CurrentStage: snap.CurrentStage,
			StartedAt:    snap.StartedAt,
		}
		if !m.seedStage(st, def, snap.CurrentStage) {
			return fmt.Errorf("restoring quest %s: unknown stage %q", snap.QuestID, snap.CurrentStage)
		}
		byID := map[string]*types.ObjectiveProgress{}
		for _, obj := range st.Objectives {
			byID[obj.ID] = obj
		}
		for _, os := range snap.Objectives {
			if obj, ok := byID[os.ID]; ok {
				obj.Current = os.Current
				obj.Completed = os.Completed
			}
		}
		delete(m.completed, snap.QuestID)
		m.active[snap.QuestID] = st
		m.order = append(m.order, snap.QuestID)
		m.visited[snap.QuestID] = map[string]bool{}
		for _, stageID := range snap.Visited {
			m.visited[snap.QuestID][stageID] = true
		}
		m.markVisited(snap.QuestID, snap.CurrentStage)
		if snap.Tracked || m.tracked == "" {
			m.tracked = snap.QuestID
		}
		return nil

	default:
		return fmt.Errorf("restoring quest %s: unexpected status %q", snap.QuestID, snap.Status)
	}
}

// RestoreAll clears the machine and rehydrates every snapshot in order.
func (m *Manager) RestoreAll(ctx context.Context, snaps []Snapshot) error {
	m.active = map[string]*types.QuestState{}
	m.order = nil
	m.completed = map[string]bool{}
	m.visited = map[string]map[string]bool{}
	m.tracked = ""
	for _, snap := range snaps {
		if err := m.Restore(ctx, snap); err != nil {
			return err
		}
	}
	return nil
}
