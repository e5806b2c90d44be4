package loader

import (
	"fmt"
	"os"
	"strings"

	"github.com/nathoo/arcanum/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// Known effect types (engine/effects Apply).
var validEffectTypes = map[string]bool{
	"say":            true,
	"set_flag":       true,
	"clear_flag":     true,
	"give_item":      true,
	"remove_item":    true,
	"add_resonance":  true,
	"drain_battery":  true,
	"charge_battery": true,
}

// Legacy condition operators the worldstate adapter maps cleanly.
// Anything else still loads - the adapter degrades it to a never-true
// check at evaluation time - but it is worth a warning at authoring time.
var supportedExprOperators = map[string]bool{
	"hasItem":       true,
	"hasFlag":       true,
	"questComplete": true,
	"stageComplete": true,
}

var validObjectiveTypes = map[string]bool{
	string(types.ObjectiveTalk):    true,
	string(types.ObjectiveCollect): true,
	string(types.ObjectiveDeliver): true,
	string(types.ObjectiveVisit):   true,
}

// validate checks the compiled library for referential integrity.
func validate(lib *Library) error {
	ve := &ValidationError{}

	if lib.Content.Title == "" {
		ve.Errors = append(ve.Errors, "Game.title is required")
	}

	validateChaos(lib, ve)

	for id, def := range lib.Quests {
		validateQuest(id, def, ve)
	}

	for id, spell := range lib.Content.Spells {
		validateEffects(fmt.Sprintf("spell %q effects", id), spell.Effects, ve)
		validateEffects(fmt.Sprintf("spell %q chaos_effects", id), spell.ChaosEffects, ve)
		if spell.BatteryCost < 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("spell %q has negative battery_cost", id))
		}
	}

	for id, npc := range lib.Content.NPCs {
		for key, topic := range npc.Topics {
			where := fmt.Sprintf("npc %q topic %q", id, key)
			validateEffects(where, topic.Effects, ve)
			for _, cond := range topic.Requires {
				if !supportedExprOperators[cond.Operator] {
					ve.Warnings = append(ve.Warnings, fmt.Sprintf(
						"%s uses unsupported condition operator %q (will never pass)", where, cond.Operator))
				}
				if cond.Operator == "questComplete" || cond.Operator == "stageComplete" {
					questID, _, _ := strings.Cut(cond.Operand, ":")
					if _, ok := lib.Quests[questID]; !ok {
						ve.Warnings = append(ve.Warnings, fmt.Sprintf(
							"%s references undefined quest %q", where, questID))
					}
				}
			}
		}
	}

	// Print warnings to stderr.
	for _, w := range ve.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateChaos(lib *Library, ve *ValidationError) {
	chaos := lib.Content.Caster.Chaos
	for name, p := range map[string]float64{
		"unstable": chaos.Unstable,
		"critical": chaos.Critical,
		"empty":    chaos.Empty,
	} {
		if p < 0 || p > 1 {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"caster chaos chance %q must be within [0,1], got %v", name, p))
		}
	}
}

func validateQuest(id string, def *types.QuestDef, ve *ValidationError) {
	stageIDs := map[string]bool{}
	for _, stage := range def.Stages {
		if stage.ID == "" {
			ve.Errors = append(ve.Errors, fmt.Sprintf("quest %q has a stage without an id", id))
			continue
		}
		if stageIDs[stage.ID] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("quest %q has duplicate stage %q", id, stage.ID))
		}
		stageIDs[stage.ID] = true
	}

	if !stageIDs[def.StartStage] {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"quest %q start stage %q not found in defined stages", id, def.StartStage))
	}

	for _, stage := range def.Stages {
		if stage.Next != "" && !stageIDs[stage.Next] {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"quest %q stage %q next points to undefined stage %q", id, stage.ID, stage.Next))
		}

		objIDs := map[string]bool{}
		for _, obj := range stage.Objectives {
			where := fmt.Sprintf("quest %q stage %q objective %q", id, stage.ID, obj.ID)
			if obj.ID == "" {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"quest %q stage %q has an objective without an id", id, stage.ID))
				continue
			}
			if objIDs[obj.ID] {
				ve.Errors = append(ve.Errors, fmt.Sprintf("%s is duplicated", where))
			}
			objIDs[obj.ID] = true
			if !validObjectiveTypes[string(obj.Type)] {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"%s has unknown type %q", where, obj.Type))
			}
			if obj.Target == "" {
				ve.Errors = append(ve.Errors, fmt.Sprintf("%s has no target", where))
			}
			if obj.Count < 0 {
				ve.Errors = append(ve.Errors, fmt.Sprintf("%s has negative count", where))
			}
		}
	}
}

func validateEffects(where string, effects []types.Effect, ve *ValidationError) {
	for _, eff := range effects {
		if !validEffectTypes[eff.Type] {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"%s: unknown effect type %q", where, eff.Type))
		}
	}
}
