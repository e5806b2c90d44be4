// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for the Arcanum narrative runtime.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nathoo/arcanum/engine"
	"github.com/nathoo/arcanum/types"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Session   *engine.Session
	In        io.Reader
	Out       io.Writer
	SaveDir   string
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI wired to the given session. Quest events are
// rendered as bracketed system lines as they fire.
func New(s *engine.Session) *CLI {
	home, _ := os.UserHomeDir()
	c := &CLI{
		Session: s,
		In:      os.Stdin,
		Out:     os.Stdout,
		SaveDir: filepath.Join(home, ".arcanum", "saves"),
	}
	s.Bus.Subscribe(c.printEvent)
	return c
}

// Run starts the session loop: prompt → input → dispatch → output.
func (c *CLI) Run() {
	if c.Session.Content.Intro != "" {
		c.printLine(c.Session.Content.Intro)
		c.printLine("")
	}

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		// "again" / "g" repeats the last game command.
		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		c.dispatch(input)
	}
}

// dispatch runs one game command.
func (c *CLI) dispatch(input string) {
	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "start":
		if arg == "" {
			c.printLine("Start which quest?")
			return
		}
		if !c.Session.Quests.Start(context.Background(), arg) {
			c.printLine("You can't take that on right now.")
		}

	case "abandon":
		if !c.Session.Quests.Abandon(arg) {
			c.printLine("You're not on that quest.")
		} else {
			c.printSystem(fmt.Sprintf("Abandoned %s.", arg))
		}

	case "track":
		if !c.Session.Quests.SetTracked(arg) {
			c.printLine("You're not on that quest.")
		}

	case "talk", "speak":
		if arg == "" {
			c.printLine("Talk to whom?")
			return
		}
		out, ok := c.Session.Talk(arg)
		if !ok {
			c.printLine("There's no one like that to talk to.")
			return
		}
		for _, line := range out {
			c.printLine(line)
		}

	case "collect", "take", "get":
		if arg == "" {
			c.printLine("Collect what?")
			return
		}
		c.Session.Collect(arg)
		c.printLine(fmt.Sprintf("You take the %s.", arg))

	case "deliver", "give":
		if arg == "" {
			c.printLine("Deliver what?")
			return
		}
		if !c.Session.Deliver(arg) {
			c.printLine("You don't have that.")
		} else {
			c.printLine(fmt.Sprintf("You hand over the %s.", arg))
		}

	case "visit", "go":
		if arg == "" {
			c.printLine("Go where?")
			return
		}
		c.Session.Visit(arg)
		c.printLine(fmt.Sprintf("You make your way to the %s.", arg))

	case "cast":
		c.cmdCast(arg)

	case "learn":
		if !c.Session.LearnSpell(arg) {
			c.printLine("No such spell exists.")
		} else {
			c.printLine(fmt.Sprintf("You learn %s.", arg))
		}

	case "wait", "z":
		seconds := 1.0
		if arg != "" {
			if n, err := strconv.ParseFloat(arg, 64); err == nil && n > 0 {
				seconds = n
			}
		}
		c.Session.Update(seconds)
		c.printLine("Time passes.")

	case "quests", "journal", "j":
		c.cmdQuests()

	case "spells":
		c.cmdSpells()

	case "inventory", "i":
		c.cmdInventory()

	case "status":
		c.cmdStatus()

	default:
		c.printLine("I don't understand that. Type /help for commands.")
	}
}

func (c *CLI) cmdCast(spellID string) {
	if spellID == "" {
		c.printLine("Cast what?")
		return
	}
	result, output := c.Session.CastSpell(spellID)
	if !result.OK {
		switch result.Reason {
		case engine.ReasonUnknownSpell:
			c.printLine("You've never heard of that spell.")
		case engine.ReasonNotLearned:
			c.printLine("You haven't learned that spell.")
		default:
			c.printLine(fmt.Sprintf("The cast fizzles: %s.", result.Reason))
		}
		return
	}
	if result.Chaos {
		c.printLine("The weave slips from your grasp...")
	}
	for _, line := range output {
		c.printLine(line)
	}
}

func (c *CLI) cmdQuests() {
	active := c.Session.Quests.ActiveQuests()
	if len(active) == 0 {
		c.printLine("Your journal is empty.")
		return
	}
	tracked := c.Session.Quests.Tracked()
	for _, id := range active {
		st := c.Session.Quests.State(id)
		def := c.Session.Quests.Definition(id)
		name := id
		if def != nil && def.Name != "" {
			name = def.Name
		}
		marker := " "
		if id == tracked {
			marker = "*"
		}
		c.printLine(fmt.Sprintf("%s %s (%s)", marker, name, st.CurrentStage))
		for _, obj := range st.Objectives {
			check := "[ ]"
			if obj.Completed {
				check = "[x]"
			}
			line := fmt.Sprintf("   %s %s", check, obj.Description)
			if obj.Count > 1 {
				line += fmt.Sprintf(" (%d/%d)", obj.Current, obj.Count)
			}
			c.printLine(line)
		}
	}
}

func (c *CLI) cmdSpells() {
	known := c.Session.KnownSpells()
	if len(known) == 0 {
		c.printLine("You know no spells.")
		return
	}
	for _, id := range known {
		spell := c.Session.Content.Spells[id]
		c.printLine(fmt.Sprintf("  %s (%s, %.0f battery)", spell.Name, id, spell.BatteryCost))
	}
}

func (c *CLI) cmdInventory() {
	items := c.Session.Inventory.Items()
	if len(items) == 0 {
		c.printLine("You're not carrying anything.")
		return
	}
	for id, count := range items {
		if count > 1 {
			c.printLine(fmt.Sprintf("  %s x%d", id, count))
		} else {
			c.printLine(fmt.Sprintf("  %s", id))
		}
	}
}

func (c *CLI) cmdStatus() {
	cs := c.Session.Caster
	c.printLine(fmt.Sprintf("Battery: %.0f/%.0f (%s)", cs.Battery(), cs.MaxBattery(), cs.Tier()))
	c.printLine(fmt.Sprintf("Resonance: %.0f", cs.Resonance()))
	if chance := cs.ChaosChance(); chance > 0 {
		c.printLine(fmt.Sprintf("Chaos risk: %.0f%%", chance*100))
	}
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/save":
		c.cmdSave(arg)

	case "/load":
		c.cmdLoad(arg)

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdSave(name string) {
	if name == "" {
		name = "quicksave"
	}

	data, err := c.Session.Save()
	if err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	if err := os.MkdirAll(c.SaveDir, 0o755); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	path := filepath.Join(c.SaveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	c.printSystem(fmt.Sprintf("Game saved to %s.", name))
}

func (c *CLI) cmdLoad(name string) {
	if name == "" {
		name = "quicksave"
	}

	path := filepath.Join(c.SaveDir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	if err := c.Session.Load(context.Background(), data); err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	c.printSystem(fmt.Sprintf("Game loaded from %s.", name))
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /save [name]  - Save game (default: quicksave)",
		"  /load [name]  - Load game (default: quicksave)",
		"  /quit         - Exit game",
		"  /help         - Show this help",
		"  /state        - Debug: dump current state",
		"",
		"Game commands:",
		"  start <quest>      - Take on a quest",
		"  abandon <quest>    - Drop a quest from your journal",
		"  track <quest>      - Pin a quest in the status display",
		"  talk <npc>         - Talk to someone",
		"  collect <item>     - Pick something up",
		"  deliver <item>     - Hand something over",
		"  visit <place>      - Travel somewhere",
		"  cast <spell>       - Cast a spell you know",
		"  learn <spell>      - Commit a spell to your spellbook",
		"  wait [seconds] (z) - Let time pass; battery recharges",
		"  quests (j)         - Show your quest journal",
		"  spells             - Show your spellbook",
		"  inventory (i)      - Check what you're carrying",
		"  status             - Battery, resonance, chaos risk",
		"  again (g)          - Repeat your last command",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	s := c.Session
	c.printSystem(fmt.Sprintf("Battery: %.2f  Resonance: %.2f  Tier: %s",
		s.Caster.Battery(), s.Caster.Resonance(), s.Caster.Tier()))
	c.printSystem(fmt.Sprintf("Active quests: %v", s.Quests.ActiveQuests()))
	c.printSystem(fmt.Sprintf("Tracked: %s", s.Quests.Tracked()))
	c.printSystem(fmt.Sprintf("Inventory: %v", s.Inventory.Items()))
	c.printSystem(fmt.Sprintf("Spells: %v", s.KnownSpells()))
	if flags := s.Flags.Serialize(); len(flags) > 0 {
		c.printSystem(fmt.Sprintf("Flags: %v", flags))
	}
}

// printEvent renders quest lifecycle events as system lines.
func (c *CLI) printEvent(ev types.QuestEvent) {
	name := ev.QuestID
	if def := c.Session.Quests.Definition(ev.QuestID); def != nil && def.Name != "" {
		name = def.Name
	}

	switch ev.Type {
	case types.EventQuestStart:
		c.printSystem(fmt.Sprintf("Quest started: %s", name))
	case types.EventQuestComplete:
		c.printSystem(fmt.Sprintf("Quest complete: %s", name))
	case types.EventQuestFail:
		c.printSystem(fmt.Sprintf("Quest failed: %s", name))
	case types.EventStageComplete:
		c.printSystem(fmt.Sprintf("%s: stage complete", name))
	case types.EventObjectiveComplete:
		c.printSystem(fmt.Sprintf("%s: objective complete", name))
	case types.EventObjectiveProgress:
		// Progress ticks stay quiet; the journal shows counts.
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
