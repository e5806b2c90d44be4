package loader

import (
	"strings"
	"testing"

	"github.com/nathoo/arcanum/engine"
	"github.com/nathoo/arcanum/engine/caster"
	"github.com/nathoo/arcanum/types"
)

func validLibrary() *Library {
	return &Library{
		Content: &engine.Content{
			Title: "Test Game",
			Caster: caster.Config{
				MaxBattery: 100,
				Chaos:      caster.DefaultChaosConfig(),
			},
			Spells: map[string]types.SpellDef{},
			NPCs:   map[string]types.NPCDef{},
		},
		Quests: map[string]*types.QuestDef{
			"q": {
				ID:         "q",
				StartStage: "s1",
				Stages: []types.StageDef{
					{
						ID: "s1",
						Objectives: []types.ObjectiveDef{
							{ID: "o1", Type: types.ObjectiveVisit, Target: "place"},
						},
					},
				},
			},
		},
	}
}

func assertHasError(t *testing.T, err error, want string) *ValidationError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected validation error containing %q", want)
	}
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("error type = %T: %v", err, err)
	}
	for _, e := range ve.Errors {
		if strings.Contains(e, want) {
			return ve
		}
	}
	t.Fatalf("no error containing %q in %v", want, ve.Errors)
	return nil
}

func TestValidate_CleanLibrary(t *testing.T) {
	if err := validate(validLibrary()); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
}

func TestValidate_MissingTitle(t *testing.T) {
	lib := validLibrary()
	lib.Content.Title = ""
	assertHasError(t, validate(lib), "Game.title is required")
}

func TestValidate_ChaosOutOfRange(t *testing.T) {
	lib := validLibrary()
	lib.Content.Caster.Chaos.Unstable = 1.5
	assertHasError(t, validate(lib), `chaos chance "unstable"`)
}

func TestValidate_DuplicateStage(t *testing.T) {
	lib := validLibrary()
	def := lib.Quests["q"]
	def.Stages = append(def.Stages, types.StageDef{
		ID:         "s1",
		Objectives: []types.ObjectiveDef{{ID: "o2", Type: types.ObjectiveVisit, Target: "x"}},
	})
	assertHasError(t, validate(lib), `duplicate stage "s1"`)
}

func TestValidate_ObjectiveChecks(t *testing.T) {
	lib := validLibrary()
	lib.Quests["q"].Stages[0].Objectives = []types.ObjectiveDef{
		{ID: "", Type: types.ObjectiveVisit, Target: "x"},
		{ID: "o1", Type: "fly", Target: "x"},
		{ID: "o2", Type: types.ObjectiveCollect, Target: ""},
		{ID: "o3", Type: types.ObjectiveCollect, Target: "x", Count: -1},
		{ID: "o3", Type: types.ObjectiveCollect, Target: "x"},
	}

	err := validate(lib)
	for _, want := range []string{
		"objective without an id",
		`unknown type "fly"`,
		"has no target",
		"has negative count",
		"is duplicated",
	} {
		assertHasError(t, err, want)
	}
}

func TestValidate_TopicWarnings(t *testing.T) {
	// Warnings ride along on the returned error when errors exist too.
	lib := validLibrary()
	lib.Content.Title = ""
	lib.Content.NPCs["seer"] = types.NPCDef{
		ID: "seer",
		Topics: map[string]types.TopicDef{
			"prophecy": {
				Text: "x",
				Requires: []types.ExprCondition{
					{Operator: "custom", Operand: "moon_phase"},
					{Operator: "questComplete", Operand: "ghost_quest"},
				},
			},
		},
	}

	ve := assertHasError(t, validate(lib), "Game.title is required")
	var sawOperator, sawQuestRef bool
	for _, w := range ve.Warnings {
		if strings.Contains(w, `unsupported condition operator "custom"`) {
			sawOperator = true
		}
		if strings.Contains(w, `undefined quest "ghost_quest"`) {
			sawQuestRef = true
		}
	}
	if !sawOperator || !sawQuestRef {
		t.Errorf("warnings = %v", ve.Warnings)
	}
}

func TestValidate_WarningsAloneDoNotFail(t *testing.T) {
	lib := validLibrary()
	lib.Content.NPCs["seer"] = types.NPCDef{
		ID: "seer",
		Topics: map[string]types.TopicDef{
			"prophecy": {
				Text:     "x",
				Requires: []types.ExprCondition{{Operator: "custom", Operand: "m"}},
			},
		},
	}
	if err := validate(lib); err != nil {
		t.Fatalf("warnings alone should not fail validation: %v", err)
	}
}

func TestValidate_NegativeBatteryCost(t *testing.T) {
	lib := validLibrary()
	lib.Content.Spells["void"] = types.SpellDef{ID: "void", BatteryCost: -1}
	assertHasError(t, validate(lib), "negative battery_cost")
}
