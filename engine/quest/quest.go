// Package quest implements the quest state machine: definition loading,
// per-quest instance state, objective progress, stage advancement, and
// lifecycle events.
package quest

import (
	"context"
	"log/slog"
	"time"

	"github.com/nathoo/arcanum/engine/events"
	"github.com/nathoo/arcanum/types"
)

// Fetcher loads quest definitions by ID. Implementations are expected to
// be cache-first and to de-duplicate concurrent fetches for the same ID
// (see loader.Service).
type Fetcher interface {
	Quest(ctx context.Context, id string) (*types.QuestDef, error)
}

// Manager owns every quest instance of one play session. All mutation goes
// through its public operations; collaborators read through the query
// surface in query.go.
type Manager struct {
	fetcher  Fetcher
	bus      *events.Bus
	onChange func(types.Change)
	logger   *slog.Logger
	now      func() time.Time

	defs      map[string]*types.QuestDef
	active    map[string]*types.QuestState
	order     []string // active quest IDs in start order
	completed map[string]bool
	visited   map[string]map[string]bool // questID → stage/node IDs entered
	tracked   string
}

// NewManager creates a manager that loads definitions through fetcher and
// publishes lifecycle events on bus.
func NewManager(fetcher Fetcher, bus *events.Bus) *Manager {
	return &Manager{
		fetcher:   fetcher,
		bus:       bus,
		logger:    slog.Default(),
		now:       time.Now,
		defs:      map[string]*types.QuestDef{},
		active:    map[string]*types.QuestState{},
		completed: map[string]bool{},
		visited:   map[string]map[string]bool{},
	}
}

// SetChangeHandler registers the single change handler for quest state
// mutations (namespace "quest").
func (m *Manager) SetChangeHandler(h func(types.Change)) {
	m.onChange = h
}

// SetLogger replaces the manager's logger.
func (m *Manager) SetLogger(l *slog.Logger) {
	if l != nil {
		m.logger = l
	}
}

// SetClock replaces the time source (tests).
func (m *Manager) SetClock(now func() time.Time) {
	if now != nil {
		m.now = now
	}
}

// Start begins a quest. It returns false, with no state change, when the
// quest is already active, when it was completed and is not repeatable,
// or when the definition cannot be loaded. Fires quest-start on success.
func (m *Manager) Start(ctx context.Context, questID string) bool {
	if _, ok := m.active[questID]; ok {
		m.logger.Warn("quest already active", "quest", questID)
		return false
	}

	def, err := m.definition(ctx, questID)
	if err != nil {
		m.logger.Error("quest definition load failed", "quest", questID, "error", err)
		return false
	}

	if m.completed[questID] && !def.Repeatable {
		m.logger.Warn("quest already completed and not repeatable", "quest", questID)
		return false
	}

	st := &types.QuestState{
		QuestID:      questID,
		Status:       types.QuestActive,
		CurrentStage: def.StartStage,
		StartedAt:    m.now(),
	}
	if !m.seedStage(st, def, def.StartStage) {
		return false
	}

	// One instance per quest across all sets: restarting a repeatable
	// quest leaves the completed set.
	delete(m.completed, questID)
	m.active[questID] = st
	m.order = append(m.order, questID)
	delete(m.visited, questID) // fresh node history on (re)start
	m.markVisited(questID, def.StartStage)

	if m.tracked == "" {
		m.tracked = questID
	}

	m.notify(questID, "", string(types.QuestActive))
	m.publish(types.QuestEvent{Type: types.EventQuestStart, QuestID: questID, StageID: st.CurrentStage})
	return true
}

// TriggerObjective is the broadcast hook gameplay systems invoke (NPC
// talked to, item collected, trigger volume entered). It advances every
// matching, incomplete objective across all active quests; countable
// objectives increment by one and auto-complete at their threshold.
func (m *Manager) TriggerObjective(objType types.ObjectiveType, targetID string) {
	// Iterate a copy: completing an objective may remove quests from the
	// active set mid-walk.
	ids := make([]string, len(m.order))
	copy(ids, m.order)

	for _, questID := range ids {
		st, ok := m.active[questID]
		if !ok {
			continue
		}
		objectives := st.Objectives
		for _, obj := range objectives {
			if obj.Completed || obj.Type != objType || obj.Target != targetID {
				continue
			}
			if obj.Count > 1 {
				obj.Current++
				m.publish(types.QuestEvent{
					Type:        types.EventObjectiveProgress,
					QuestID:     questID,
					StageID:     st.CurrentStage,
					ObjectiveID: obj.ID,
					Current:     obj.Current,
					Count:       obj.Count,
				})
				if obj.Current < obj.Count {
					continue
				}
			} else {
				obj.Current = 1
			}
			if m.completeObjective(questID, st, obj) {
				// Stage advanced or quest ended; the remaining
				// objective pointers belong to the old stage.
				break
			}
		}
	}
}

// completeObjective marks the objective done, fires objective-complete,
// and evaluates stage completion. Returns true when the stage advanced or
// the quest left the active set.
func (m *Manager) completeObjective(questID string, st *types.QuestState, obj *types.ObjectiveProgress) bool {
	obj.Completed = true
	m.publish(types.QuestEvent{
		Type:        types.EventObjectiveComplete,
		QuestID:     questID,
		StageID:     st.CurrentStage,
		ObjectiveID: obj.ID,
		Current:     obj.Current,
		Count:       obj.Count,
	})

	// A stage is complete when every non-optional objective is done;
	// optional objectives never block advancement.
	for _, o := range st.Objectives {
		if !o.Optional && !o.Completed {
			return false
		}
	}

	m.publish(types.QuestEvent{Type: types.EventStageComplete, QuestID: questID, StageID: st.CurrentStage})

	def := m.defs[questID]
	if def == nil {
		m.logger.Error("no cached definition for active quest", "quest", questID)
		return false
	}
	stage := findStage(def, st.CurrentStage)
	if stage == nil {
		m.logger.Error("active quest references unknown stage", "quest", questID, "stage", st.CurrentStage)
		return false
	}

	if stage.Next == "" {
		m.Complete(questID)
		return true
	}

	old := st.CurrentStage
	if !m.seedStage(st, def, stage.Next) {
		// Unknown next stage is a content error; the quest stays put.
		return false
	}
	st.CurrentStage = stage.Next
	m.markVisited(questID, stage.Next)
	m.notify(questID, old, stage.Next)
	return true
}

// Complete moves an active quest into the completed set and fires
// quest-complete. Returns false for quests that are not active.
func (m *Manager) Complete(questID string) bool {
	st, ok := m.active[questID]
	if !ok {
		m.logger.Warn("complete on non-active quest", "quest", questID)
		return false
	}
	st.Status = types.QuestCompleted
	st.CompletedAt = m.now()
	m.remove(questID)
	m.completed[questID] = true
	m.notify(questID, string(types.QuestActive), string(types.QuestCompleted))
	m.publish(types.QuestEvent{Type: types.EventQuestComplete, QuestID: questID})
	return true
}

// Fail removes an active quest and discards its instance, firing
// quest-fail. Failed quests can be started again.
func (m *Manager) Fail(questID string) bool {
	st, ok := m.active[questID]
	if !ok {
		m.logger.Warn("fail on non-active quest", "quest", questID)
		return false
	}
	st.Status = types.QuestFailed
	m.remove(questID)
	delete(m.visited, questID)
	m.notify(questID, string(types.QuestActive), string(types.QuestFailed))
	m.publish(types.QuestEvent{Type: types.EventQuestFail, QuestID: questID})
	return true
}

// Abandon silently removes an active quest: no event, no completed-set
// insertion, so the quest is immediately restartable. Progress already
// recorded is discarded with the instance; flags and meters already
// mutated are not rolled back.
func (m *Manager) Abandon(questID string) bool {
	if _, ok := m.active[questID]; !ok {
		m.logger.Warn("abandon on non-active quest", "quest", questID)
		return false
	}
	m.remove(questID)
	delete(m.visited, questID)
	return true
}

// remove drops a quest from the active set and reassigns tracking to an
// arbitrary remaining active quest (first in start order).
func (m *Manager) remove(questID string) {
	delete(m.active, questID)
	for i, id := range m.order {
		if id == questID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	if m.tracked == questID {
		m.tracked = ""
		if len(m.order) > 0 {
			m.tracked = m.order[0]
		}
	}
}

// seedStage overwrites the instance's objective progress with fresh
// copies of the given stage's templates. Returns false (and logs) when
// the stage is not in the definition.
func (m *Manager) seedStage(st *types.QuestState, def *types.QuestDef, stageID string) bool {
	stage := findStage(def, stageID)
	if stage == nil {
		m.logger.Error("quest references unknown stage", "quest", def.ID, "stage", stageID)
		return false
	}
	st.Objectives = make([]*types.ObjectiveProgress, 0, len(stage.Objectives))
	for _, tmpl := range stage.Objectives {
		st.Objectives = append(st.Objectives, &types.ObjectiveProgress{ObjectiveDef: tmpl})
	}
	return true
}

// definition returns the cached definition or fetches it. The fetcher is
// responsible for single-flight de-duplication of concurrent loads.
func (m *Manager) definition(ctx context.Context, questID string) (*types.QuestDef, error) {
	if def, ok := m.defs[questID]; ok {
		return def, nil
	}
	def, err := m.fetcher.Quest(ctx, questID)
	if err != nil {
		return nil, err
	}
	m.defs[questID] = def
	return def, nil
}

func (m *Manager) markVisited(questID, stageID string) {
	if m.visited[questID] == nil {
		m.visited[questID] = map[string]bool{}
	}
	m.visited[questID][stageID] = true
}

func (m *Manager) publish(ev types.QuestEvent) {
	if m.bus != nil {
		m.bus.Publish(ev)
	}
}

func (m *Manager) notify(questID string, old, new string) {
	if m.onChange != nil {
		m.onChange(types.Change{Namespace: "quest", Key: questID, OldValue: old, NewValue: new})
	}
}

func findStage(def *types.QuestDef, stageID string) *types.StageDef {
	for i := range def.Stages {
		if def.Stages[i].ID == stageID {
			return &def.Stages[i]
		}
	}
	return nil
}
