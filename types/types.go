// Package types defines the shared data structures for the Arcanum engine.
// This package contains only type definitions - no logic, no methods.
package types

import "time"

// ObjectiveType is the kind of gameplay trigger that satisfies an objective.
type ObjectiveType string

const (
	ObjectiveTalk    ObjectiveType = "talk"
	ObjectiveCollect ObjectiveType = "collect"
	ObjectiveDeliver ObjectiveType = "deliver"
	ObjectiveVisit   ObjectiveType = "visit"
)

// ObjectiveDef is an objective template inside a stage.
type ObjectiveDef struct {
	ID          string
	Type        ObjectiveType
	Description string
	Target      string // entity/item/location ID that satisfies it
	Count       int    // threshold for countable objectives; 0 or 1 = single-shot
	Optional    bool   // does not block stage completion
}

// StageDef is an ordered step within a quest.
type StageDef struct {
	ID          string
	Description string
	Objectives  []ObjectiveDef
	Next        string // next stage ID; "" = final stage
}

// QuestDef is an immutable quest definition, loaded once and cached by ID.
type QuestDef struct {
	ID          string
	Name        string
	Description string
	StartStage  string
	Repeatable  bool
	Stages      []StageDef
}

// QuestStatus is the lifecycle state of a quest instance.
type QuestStatus string

const (
	QuestActive    QuestStatus = "active"
	QuestCompleted QuestStatus = "completed"
	QuestFailed    QuestStatus = "failed"
)

// ObjectiveProgress is a live copy of an objective template with progress.
type ObjectiveProgress struct {
	ObjectiveDef
	Current   int
	Completed bool
}

// QuestState is the mutable state of one started quest. Objectives always
// mirror the current stage's templates, in authored order.
type QuestState struct {
	QuestID      string
	Status       QuestStatus
	CurrentStage string
	Objectives   []*ObjectiveProgress
	StartedAt    time.Time
	CompletedAt  time.Time // zero until completed
}

// ConditionKind discriminates the unified world-state condition union.
type ConditionKind string

const (
	CondQuestActive    ConditionKind = "quest_active"
	CondQuestCompleted ConditionKind = "quest_completed"
	CondQuestStage     ConditionKind = "quest_stage"
	CondQuestNode      ConditionKind = "quest_node"
	CondHasItem        ConditionKind = "has_item"
	CondResonance      ConditionKind = "resonance"
	CondBattery        ConditionKind = "battery"
	CondHasSpell       ConditionKind = "has_spell"
	CondFlag           ConditionKind = "flag"
	CondAnd            ConditionKind = "and"
	CondOr             ConditionKind = "or"
	CondNot            ConditionKind = "not"
)

// Comparison is a numeric comparison operator. There is deliberately no
// gt/lt/neq; callers compose those with CondNot.
type Comparison string

const (
	CmpEq  Comparison = "eq"
	CmpGte Comparison = "gte"
	CmpLte Comparison = "lte"
)

// StageState qualifies a stage or node check.
type StageState string

const (
	StageStateActive    StageState = "active"
	StageStateCompleted StageState = "completed"
)

// Condition is the unified world-state condition. Only the fields meaningful
// to Kind are set; the rest stay zero so conditions are structurally
// comparable with reflect.DeepEqual.
type Condition struct {
	Kind ConditionKind

	QuestID string
	StageID string
	NodeID  string
	State   StageState

	ItemID string
	Count  int

	Cmp   Comparison
	Value float64

	SpellID string

	Flag      string
	FlagValue any // nil = presence/truthiness check, otherwise equality

	Children []Condition // and/or
	Inner    *Condition  // not
}

// ExprCondition is the legacy dialogue/beat-graph condition shape.
type ExprCondition struct {
	Operator string // "hasItem", "hasFlag", "questComplete", "stageComplete", "custom"
	Operand  string
	Value    any
	Negate   bool
}

// BTCondition is the legacy behavior-tree condition shape.
type BTCondition struct {
	Kind     string // "questStage", "hasItem", "hasFlag", "timeOfDay", "atLocation", "custom"
	QuestID  string
	StageID  string
	NodeID   string
	State    string
	ItemID   string
	Count    int
	Flag     string
	Value    any
	Name     string // custom condition name
	Hour     int
	Location string
}

// Effect is a single atomic state mutation instruction.
type Effect struct {
	Type   string
	Params map[string]any
}

// SpellDef is an immutable spell definition.
type SpellDef struct {
	ID           string
	Name         string
	Tags         []string
	BatteryCost  float64
	Effects      []Effect // applied on a clean cast
	ChaosEffects []Effect // applied when the chaos roll triggers
}

// TopicDef defines a single dialogue topic for an NPC. Requirements are
// authored in the legacy beat-graph shape and normalized at evaluation time.
type TopicDef struct {
	Text     string
	Requires []ExprCondition
	Effects  []Effect
}

// NPCDef is a talkable entity with condition-gated topics.
type NPCDef struct {
	ID     string
	Name   string
	Topics map[string]TopicDef
}

// QuestEventType identifies a quest lifecycle event.
type QuestEventType string

const (
	EventQuestStart        QuestEventType = "quest-start"
	EventQuestComplete     QuestEventType = "quest-complete"
	EventQuestFail         QuestEventType = "quest-fail"
	EventStageComplete     QuestEventType = "stage-complete"
	EventObjectiveProgress QuestEventType = "objective-progress"
	EventObjectiveComplete QuestEventType = "objective-complete"
)

// QuestEvent is emitted by the quest state machine on lifecycle transitions.
type QuestEvent struct {
	Type        QuestEventType
	QuestID     string
	StageID     string
	ObjectiveID string
	Current     int
	Count       int
}

// Change describes one state mutation for change notification.
type Change struct {
	Namespace string // "flags", "inventory", "quest", "caster"
	Key       string
	OldValue  any
	NewValue  any
}

// MinigameResult is the outcome the resonance minigame reports back.
type MinigameResult struct {
	Success         bool
	ResonanceGained float64
	AttemptsUsed    int
}
