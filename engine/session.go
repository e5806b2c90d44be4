// Package engine wires the narrative progression core together: one
// Session owns the flag store, quest machine, caster and inventory of a
// single play-through, and exposes the gameplay operations the front
// ends drive.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/nathoo/arcanum/engine/caster"
	"github.com/nathoo/arcanum/engine/dialogue"
	"github.com/nathoo/arcanum/engine/effects"
	"github.com/nathoo/arcanum/engine/events"
	"github.com/nathoo/arcanum/engine/flags"
	"github.com/nathoo/arcanum/engine/quest"
	"github.com/nathoo/arcanum/engine/save"
	"github.com/nathoo/arcanum/engine/worldstate"
	"github.com/nathoo/arcanum/types"
)

// Cast refusal reasons the session adds on top of the caster's own.
const (
	ReasonUnknownSpell = "unknown spell"
	ReasonNotLearned   = "spell not learned"
)

// Content holds the immutable authored content a session plays against.
type Content struct {
	Title   string
	Author  string
	Version string
	Intro   string
	Seed    int64

	Spells map[string]types.SpellDef
	NPCs   map[string]types.NPCDef
	Caster caster.Config
}

// Session is one play-through. Each store is owned by exactly one session
// and mutated only through its own operations; multiple sessions (tests,
// editor preview) coexist without cross-talk.
type Session struct {
	Content   *Content
	Flags     *flags.Store
	Quests    *quest.Manager
	Caster    *caster.Caster
	Inventory *Inventory
	Notifier  *events.Notifier
	Bus       *events.Bus
	Eval      *worldstate.Evaluator
	RNG       *RNG

	spellbook map[string]bool
	logger    *slog.Logger
}

// NewSession builds a session over the given content, loading quest
// definitions through fetcher.
func NewSession(content *Content, fetcher quest.Fetcher) *Session {
	s := &Session{
		Content:   content,
		Notifier:  events.NewNotifier(),
		Bus:       events.NewBus(),
		Flags:     flags.NewStore(),
		Inventory: NewInventory(),
		Caster:    caster.New(content.Caster),
		RNG:       NewRNG(content.Seed),
		spellbook: map[string]bool{},
		logger:    slog.Default(),
	}
	s.Quests = quest.NewManager(fetcher, s.Bus)

	s.Flags.SetChangeHandler(s.Notifier.Notify)
	s.Inventory.SetChangeHandler(s.Notifier.Notify)
	s.Caster.SetChangeHandler(s.Notifier.Notify)
	s.Quests.SetChangeHandler(s.Notifier.Notify)

	s.Eval = &worldstate.Evaluator{
		Quests:    s.Quests,
		Inventory: s.Inventory,
		Caster:    s.Caster,
		Spells:    s,
		Flags:     s.Flags,
	}
	return s
}

// SetLogger replaces the session's logger and those of its components.
func (s *Session) SetLogger(l *slog.Logger) {
	if l == nil {
		return
	}
	s.logger = l
	s.Quests.SetLogger(l)
	s.Caster.SetLogger(l)
	s.Eval.Logger = l
}

// Update advances the per-frame clock: battery recharges, nothing else
// moves on its own.
func (s *Session) Update(dtSeconds float64) {
	s.Caster.Tick(dtSeconds)
}

// HasSpell reports whether the player knows the spell (worldstate.SpellQuery).
func (s *Session) HasSpell(spellID string) bool {
	return s.spellbook[spellID]
}

// LearnSpell adds a content-defined spell to the spellbook.
func (s *Session) LearnSpell(spellID string) bool {
	if _, ok := s.Content.Spells[spellID]; !ok {
		s.logger.Warn("learn of unknown spell", "spell", spellID)
		return false
	}
	s.spellbook[spellID] = true
	return true
}

// KnownSpells returns the spellbook contents, sorted.
func (s *Session) KnownSpells() []string {
	out := make([]string, 0, len(s.spellbook))
	for id := range s.spellbook {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// CastSpell attempts a cast and applies the resulting effects. The
// returned output lines come from the spell's say effects.
func (s *Session) CastSpell(spellID string) (caster.CastResult, []string) {
	spell, ok := s.Content.Spells[spellID]
	if !ok {
		s.logger.Warn("cast of unknown spell", "spell", spellID)
		return caster.CastResult{Reason: ReasonUnknownSpell}, nil
	}
	if !s.HasSpell(spellID) {
		return caster.CastResult{Reason: ReasonNotLearned}, nil
	}

	result := s.Caster.Cast(&spell, s.RNG.Chance)
	if !result.OK {
		return result, nil
	}
	output := effects.Apply(result.Effects, s.effectTargets())
	return result, output
}

// Talk plays the first available topic of an NPC (sorted for
// determinism), applies its effects, and broadcasts the talk trigger.
// Returns false when the NPC is unknown or has nothing to say.
func (s *Session) Talk(npcID string) ([]string, bool) {
	npc, ok := s.Content.NPCs[npcID]
	if !ok {
		return nil, false
	}

	var output []string
	available := dialogue.AvailableTopics(&npc, s.Eval)
	if len(available) > 0 {
		sort.Strings(available)
		text, effs := dialogue.SelectTopic(&npc, available[0], s.Eval)
		if text != "" {
			output = append(output, text)
		}
		output = append(output, effects.Apply(effs, s.effectTargets())...)
	}

	s.Quests.TriggerObjective(types.ObjectiveTalk, npcID)
	if len(output) == 0 {
		return nil, len(available) > 0
	}
	return output, true
}

// Collect puts an item into the inventory and broadcasts the collect
// trigger.
func (s *Session) Collect(itemID string) {
	s.Inventory.Add(itemID, 1)
	s.Quests.TriggerObjective(types.ObjectiveCollect, itemID)
}

// Deliver hands over one held item and broadcasts the deliver trigger.
// Returns false when the item is not held.
func (s *Session) Deliver(itemID string) bool {
	if !s.Inventory.HasItem(itemID, 1) {
		return false
	}
	s.Inventory.Remove(itemID, 1)
	s.Quests.TriggerObjective(types.ObjectiveDeliver, itemID)
	return true
}

// Visit broadcasts the visit trigger for a location.
func (s *Session) Visit(locationID string) {
	s.Quests.TriggerObjective(types.ObjectiveVisit, locationID)
}

// ApplyMinigameResult forwards a minigame outcome to the caster.
func (s *Session) ApplyMinigameResult(res types.MinigameResult) {
	s.Caster.ApplyMinigameResult(res)
}

func (s *Session) effectTargets() effects.Targets {
	return effects.Targets{
		Flags:     s.Flags,
		Inventory: s.Inventory,
		Caster:    s.Caster,
		Logger:    s.logger,
	}
}

// Save serializes the full session state.
func (s *Session) Save() ([]byte, error) {
	return save.Marshal(&save.SaveData{
		Version:     s.Content.Version,
		SavedAt:     time.Now(),
		Flags:       s.Flags.Serialize(),
		Quests:      s.Quests.SnapshotAll(),
		Caster:      s.Caster.Snapshot(),
		Inventory:   s.Inventory.Items(),
		Spells:      s.KnownSpells(),
		RNGSeed:     s.RNG.Seed(),
		RNGPosition: s.RNG.Position(),
	})
}

// Load restores the full session state from save bytes. Quest
// definitions are re-fetched during rehydration; parse and content
// mismatches propagate to the caller.
func (s *Session) Load(ctx context.Context, data []byte) error {
	sd, err := save.Unmarshal(data)
	if err != nil {
		return fmt.Errorf("reading save: %w", err)
	}

	s.Flags.Load(sd.Flags)
	s.Inventory.Load(sd.Inventory)
	s.Caster.Restore(sd.Caster)
	if err := s.Quests.RestoreAll(ctx, sd.Quests); err != nil {
		return err
	}
	s.spellbook = map[string]bool{}
	for _, id := range sd.Spells {
		s.spellbook[id] = true
	}
	s.RNG = RestoreRNG(sd.RNGSeed, sd.RNGPosition)
	return nil
}
