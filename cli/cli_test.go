package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/nathoo/arcanum/engine"
	"github.com/nathoo/arcanum/engine/caster"
	"github.com/nathoo/arcanum/types"
)

type defFetcher map[string]*types.QuestDef

func (f defFetcher) Quest(_ context.Context, id string) (*types.QuestDef, error) {
	def, ok := f[id]
	if !ok {
		return nil, fmt.Errorf("unknown quest %q", id)
	}
	return def, nil
}

func newTestSession() *engine.Session {
	content := &engine.Content{
		Title:   "Test Game",
		Version: "1.0",
		Intro:   "Rain hammers the shutters.",
		Caster:  caster.Config{MaxBattery: 100, RechargeRate: 30, Chaos: caster.DefaultChaosConfig()},
		Spells: map[string]types.SpellDef{
			"spark": {
				ID: "spark", Name: "Spark", BatteryCost: 20,
				Effects: []types.Effect{{Type: "say", Params: map[string]any{"text": "Zap."}}},
			},
		},
		NPCs: map[string]types.NPCDef{
			"elder": {
				ID: "elder", Name: "Elder Maren",
				Topics: map[string]types.TopicDef{
					"greet": {Text: "'Welcome, child.'"},
				},
			},
		},
	}
	fetcher := defFetcher{
		"missing_cat": {
			ID: "missing_cat", Name: "The Missing Cat", StartStage: "fetch",
			Stages: []types.StageDef{
				{
					ID: "fetch",
					Objectives: []types.ObjectiveDef{
						{ID: "find_toys", Type: types.ObjectiveCollect, Target: "cat_toy",
							Count: 2, Description: "Gather the cat's toys"},
					},
				},
			},
		},
	}
	return engine.NewSession(content, fetcher)
}

// runScript feeds a script through the CLI loop and returns the output.
func runScript(t *testing.T, s *engine.Session, script string) string {
	t.Helper()
	var out bytes.Buffer
	c := New(s)
	c.In = strings.NewReader(script)
	c.Out = &out
	c.SaveDir = t.TempDir()
	c.Run()
	return out.String()
}

func TestRun_IntroAndPrompt(t *testing.T) {
	out := runScript(t, newTestSession(), "")
	if !strings.Contains(out, "Rain hammers the shutters.") {
		t.Errorf("intro missing from output:\n%s", out)
	}
	if !strings.Contains(out, "> ") {
		t.Error("prompt missing from output")
	}
}

func TestRun_QuestFlow(t *testing.T) {
	script := strings.Join([]string{
		"start missing_cat",
		"quests",
		"collect cat_toy",
		"collect cat_toy",
		"/quit",
	}, "\n")
	out := runScript(t, newTestSession(), script)

	if !strings.Contains(out, "[Quest started: The Missing Cat]") {
		t.Errorf("start event missing:\n%s", out)
	}
	if !strings.Contains(out, "* The Missing Cat (fetch)") {
		t.Errorf("tracked journal entry missing:\n%s", out)
	}
	if !strings.Contains(out, "[ ] Gather the cat's toys (0/2)") {
		t.Errorf("objective line missing:\n%s", out)
	}
	if !strings.Contains(out, "You take the cat_toy.") {
		t.Errorf("collect feedback missing:\n%s", out)
	}
	if !strings.Contains(out, "[The Missing Cat: objective complete]") {
		t.Errorf("objective event missing:\n%s", out)
	}
	if !strings.Contains(out, "[Quest complete: The Missing Cat]") {
		t.Errorf("completion event missing:\n%s", out)
	}
	if !strings.Contains(out, "[Goodbye.]") {
		t.Errorf("quit line missing:\n%s", out)
	}

	// The second collect finishes the quest; event order is objective,
	// stage, quest.
	objIdx := strings.Index(out, "objective complete")
	stageIdx := strings.Index(out, "stage complete")
	questIdx := strings.Index(out, "[Quest complete")
	if !(objIdx < stageIdx && stageIdx < questIdx) {
		t.Errorf("event order wrong (obj=%d stage=%d quest=%d):\n%s", objIdx, stageIdx, questIdx, out)
	}
}

func TestRun_TalkAndSpells(t *testing.T) {
	script := strings.Join([]string{
		"talk elder",
		"talk stranger",
		"learn spark",
		"spells",
		"cast spark",
		"cast fireball",
	}, "\n")
	out := runScript(t, newTestSession(), script)

	if !strings.Contains(out, "'Welcome, child.'") {
		t.Errorf("dialogue missing:\n%s", out)
	}
	if !strings.Contains(out, "There's no one like that to talk to.") {
		t.Errorf("unknown NPC feedback missing:\n%s", out)
	}
	if !strings.Contains(out, "You learn spark.") {
		t.Errorf("learn feedback missing:\n%s", out)
	}
	if !strings.Contains(out, "Spark (spark, 20 battery)") {
		t.Errorf("spellbook listing missing:\n%s", out)
	}
	if !strings.Contains(out, "Zap.") {
		t.Errorf("cast output missing:\n%s", out)
	}
	if !strings.Contains(out, "You've never heard of that spell.") {
		t.Errorf("unknown spell feedback missing:\n%s", out)
	}
}

func TestRun_AgainRepeats(t *testing.T) {
	script := strings.Join([]string{
		"again",
		"collect rope",
		"again",
		"g",
	}, "\n")
	out := runScript(t, newTestSession(), script)

	if !strings.Contains(out, "Nothing to repeat.") {
		t.Errorf("empty repeat feedback missing:\n%s", out)
	}
	if got := strings.Count(out, "You take the rope."); got != 3 {
		t.Errorf("collect ran %d times, want 3:\n%s", got, out)
	}
}

func TestRun_CommentsAndBlanksSkipped(t *testing.T) {
	script := strings.Join([]string{
		"# a script comment",
		"",
		"   ",
		"status",
	}, "\n")
	out := runScript(t, newTestSession(), script)

	if strings.Contains(out, "I don't understand") {
		t.Errorf("comment or blank line reached dispatch:\n%s", out)
	}
	if !strings.Contains(out, "Battery: 100/100 (full)") {
		t.Errorf("status output missing:\n%s", out)
	}
}

func TestRun_EchoInput(t *testing.T) {
	s := newTestSession()
	var out bytes.Buffer
	c := New(s)
	c.In = strings.NewReader("status\n")
	c.Out = &out
	c.EchoInput = true
	c.Run()

	if !strings.Contains(out.String(), "> status\n") {
		t.Errorf("input not echoed after prompt:\n%s", out.String())
	}
}

func TestRun_SaveLoadRoundTrip(t *testing.T) {
	s := newTestSession()
	var out bytes.Buffer
	c := New(s)
	c.Out = &out
	c.SaveDir = t.TempDir()
	c.In = strings.NewReader("collect rope\n/save slot1\n")
	c.Run()

	if !strings.Contains(out.String(), "[Game saved to slot1.]") {
		t.Fatalf("save feedback missing:\n%s", out.String())
	}

	// A fresh session picks the state back up.
	s2 := newTestSession()
	var out2 bytes.Buffer
	c2 := New(s2)
	c2.Out = &out2
	c2.SaveDir = c.SaveDir
	c2.In = strings.NewReader("/load slot1\ninventory\n")
	c2.Run()

	if !strings.Contains(out2.String(), "[Game loaded from slot1.]") {
		t.Fatalf("load feedback missing:\n%s", out2.String())
	}
	if !strings.Contains(out2.String(), "rope") {
		t.Errorf("restored inventory missing:\n%s", out2.String())
	}
}

func TestRun_LoadMissingSlot(t *testing.T) {
	out := runScript(t, newTestSession(), "/load nothing_here\n")
	if !strings.Contains(out, "Load failed") {
		t.Errorf("missing-slot feedback absent:\n%s", out)
	}
}

func TestRun_UnknownMetaCommand(t *testing.T) {
	out := runScript(t, newTestSession(), "/teapot\n")
	if !strings.Contains(out, "Unknown command: /teapot") {
		t.Errorf("unknown meta feedback absent:\n%s", out)
	}
}

func TestRun_Help(t *testing.T) {
	out := runScript(t, newTestSession(), "/help\n")
	for _, want := range []string{"/save", "start <quest>", "again (g)"} {
		if !strings.Contains(out, want) {
			t.Errorf("help missing %q:\n%s", want, out)
		}
	}
}

func TestRun_AbandonAndTrack(t *testing.T) {
	script := strings.Join([]string{
		"start missing_cat",
		"track missing_cat",
		"abandon missing_cat",
		"quests",
		"track missing_cat",
	}, "\n")
	out := runScript(t, newTestSession(), script)

	if !strings.Contains(out, "[Abandoned missing_cat.]") {
		t.Errorf("abandon feedback missing:\n%s", out)
	}
	if !strings.Contains(out, "Your journal is empty.") {
		t.Errorf("empty journal missing after abandon:\n%s", out)
	}
	if !strings.Contains(out, "You're not on that quest.") {
		t.Errorf("track of inactive quest feedback missing:\n%s", out)
	}
}
