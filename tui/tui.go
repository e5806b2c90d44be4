package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/arcanum/engine"
	"github.com/nathoo/arcanum/types"
)

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool // true for echoed player input
	isSystem bool // true for meta-command output
}

// eventSink buffers quest lifecycle events fired during a dispatch so the
// Update loop can append them after the command's own output.
type eventSink struct {
	lines []string
}

func (e *eventSink) drain() []string {
	out := e.lines
	e.lines = nil
	return out
}

// Model is the Bubble Tea model for the Arcanum TUI.
type Model struct {
	session *engine.Session
	events  *eventSink

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine // accumulated narrative lines (unstyled, for re-wrapping)

	width    int
	height   int
	ready    bool
	quitting bool
	lastCmd  string
	saveDir  string
}

// gameOutputMsg carries output from the session into the Update loop.
type gameOutputMsg struct {
	input    string   // echoed player input (empty for intro)
	lines    []string // output lines
	isSystem bool     // true for meta-command output
}

// New creates a TUI model wired to the given session.
func New(s *engine.Session) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	sink := &eventSink{}
	s.Bus.Subscribe(func(ev types.QuestEvent) {
		if line := formatEvent(s, ev); line != "" {
			sink.lines = append(sink.lines, line)
		}
	})

	home, _ := os.UserHomeDir()
	return Model{
		session: s,
		events:  sink,
		input:   ti,
		history: NewHistory(100),
		saveDir: filepath.Join(home, ".arcanum", "saves"),
	}
}

// Run starts the Bubble Tea program.
func Run(s *engine.Session) error {
	m := New(s)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// formatEvent renders a quest lifecycle event as a bracketed line.
func formatEvent(s *engine.Session, ev types.QuestEvent) string {
	name := ev.QuestID
	if def := s.Quests.Definition(ev.QuestID); def != nil && def.Name != "" {
		name = def.Name
	}
	switch ev.Type {
	case types.EventQuestStart:
		return fmt.Sprintf("[Quest started: %s]", name)
	case types.EventQuestComplete:
		return fmt.Sprintf("[Quest complete: %s]", name)
	case types.EventQuestFail:
		return fmt.Sprintf("[Quest failed: %s]", name)
	case types.EventStageComplete:
		return fmt.Sprintf("[Quest updated: %s]", name)
	case types.EventObjectiveComplete:
		return fmt.Sprintf("[Objective complete: %s]", name)
	default:
		return "" // progress ticks stay quiet
	}
}

// Init returns the initial command that produces the intro text.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initialOutput())
}

func (m Model) initialOutput() tea.Cmd {
	return func() tea.Msg {
		var lines []string

		c := m.session.Content
		lines = append(lines, c.Title+" v"+c.Version+" by "+c.Author)
		lines = append(lines, "")

		if c.Intro != "" {
			lines = append(lines, c.Intro)
		}

		return gameOutputMsg{lines: lines}
	}
}

// Update handles messages (key presses, window resize, game output).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 2 // 1 status bar + 1 input line
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}

		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.Prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.Next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
				m.history.ResetCursor()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case gameOutputMsg:
		m = m.appendOutput(msg)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		return m, nil
	}

	m.history.Push(input)
	m.history.ResetCursor()

	// Handle "again" / "g".
	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if m.lastCmd == "" {
			m = m.appendOutput(gameOutputMsg{
				input: input, lines: []string{"Nothing to repeat."}, isSystem: true,
			})
			return m, nil
		}
		input = m.lastCmd
	} else {
		m.lastCmd = input
	}

	// Meta-commands.
	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(gameOutputMsg{input: input, lines: output, isSystem: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	// Game command; lifecycle events fired during dispatch follow the output.
	output := m.dispatch(input)
	output = append(output, m.events.drain()...)
	m = m.appendOutput(gameOutputMsg{input: input, lines: output})
	return m, nil
}

// dispatch runs one game command and returns its output lines.
func (m *Model) dispatch(input string) []string {
	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	s := m.session
	switch cmd {
	case "start":
		if arg == "" {
			return []string{"Start which quest?"}
		}
		if !s.Quests.Start(context.Background(), arg) {
			return []string{"You can't take that on right now."}
		}
		return nil

	case "abandon":
		if !s.Quests.Abandon(arg) {
			return []string{"You're not on that quest."}
		}
		return []string{fmt.Sprintf("[Abandoned %s]", arg)}

	case "track":
		if !s.Quests.SetTracked(arg) {
			return []string{"You're not on that quest."}
		}
		return nil

	case "talk", "speak":
		if arg == "" {
			return []string{"Talk to whom?"}
		}
		out, ok := s.Talk(arg)
		if !ok {
			return []string{"There's no one like that to talk to."}
		}
		return out

	case "collect", "take", "get":
		if arg == "" {
			return []string{"Collect what?"}
		}
		s.Collect(arg)
		return []string{fmt.Sprintf("You take the %s.", arg)}

	case "deliver", "give":
		if arg == "" {
			return []string{"Deliver what?"}
		}
		if !s.Deliver(arg) {
			return []string{"You don't have that."}
		}
		return []string{fmt.Sprintf("You hand over the %s.", arg)}

	case "visit", "go":
		if arg == "" {
			return []string{"Go where?"}
		}
		s.Visit(arg)
		return []string{fmt.Sprintf("You make your way to the %s.", arg)}

	case "cast":
		return m.cmdCast(arg)

	case "learn":
		if !s.LearnSpell(arg) {
			return []string{"No such spell exists."}
		}
		return []string{fmt.Sprintf("You learn %s.", arg)}

	case "wait", "z":
		seconds := 1.0
		if arg != "" {
			if n, err := strconv.ParseFloat(arg, 64); err == nil && n > 0 {
				seconds = n
			}
		}
		s.Update(seconds)
		return []string{"Time passes."}

	case "quests", "journal", "j":
		return m.cmdQuests()

	case "spells":
		return m.cmdSpells()

	case "inventory", "i":
		return m.cmdInventory()

	case "status":
		return m.cmdStatus()

	default:
		return []string{"I don't understand that. Type /help for commands."}
	}
}

func (m *Model) cmdCast(spellID string) []string {
	if spellID == "" {
		return []string{"Cast what?"}
	}
	result, output := m.session.CastSpell(spellID)
	if !result.OK {
		switch result.Reason {
		case engine.ReasonUnknownSpell:
			return []string{"You've never heard of that spell."}
		case engine.ReasonNotLearned:
			return []string{"You haven't learned that spell."}
		default:
			return []string{fmt.Sprintf("The cast fizzles: %s.", result.Reason)}
		}
	}
	if result.Chaos {
		output = append([]string{"The weave slips from your grasp..."}, output...)
	}
	return output
}

func (m *Model) cmdQuests() []string {
	s := m.session
	active := s.Quests.ActiveQuests()
	if len(active) == 0 {
		return []string{"Your journal is empty."}
	}
	tracked := s.Quests.Tracked()
	var out []string
	for _, id := range active {
		st := s.Quests.State(id)
		def := s.Quests.Definition(id)
		name := id
		if def != nil && def.Name != "" {
			name = def.Name
		}
		marker := " "
		if id == tracked {
			marker = "*"
		}
		out = append(out, fmt.Sprintf("%s %s (%s)", marker, name, st.CurrentStage))
		for _, obj := range st.Objectives {
			check := "[ ]"
			if obj.Completed {
				check = "[x]"
			}
			line := fmt.Sprintf("   %s %s", check, obj.Description)
			if obj.Count > 1 {
				line += fmt.Sprintf(" (%d/%d)", obj.Current, obj.Count)
			}
			out = append(out, line)
		}
	}
	return out
}

func (m *Model) cmdSpells() []string {
	known := m.session.KnownSpells()
	if len(known) == 0 {
		return []string{"You know no spells."}
	}
	var out []string
	for _, id := range known {
		spell := m.session.Content.Spells[id]
		out = append(out, fmt.Sprintf("  %s (%s, %.0f battery)", spell.Name, id, spell.BatteryCost))
	}
	return out
}

func (m *Model) cmdInventory() []string {
	items := m.session.Inventory.Items()
	if len(items) == 0 {
		return []string{"You're not carrying anything."}
	}
	var out []string
	for id, count := range items {
		if count > 1 {
			out = append(out, fmt.Sprintf("  %s x%d", id, count))
		} else {
			out = append(out, fmt.Sprintf("  %s", id))
		}
	}
	return out
}

func (m *Model) cmdStatus() []string {
	cs := m.session.Caster
	out := []string{
		fmt.Sprintf("Battery: %.0f/%.0f (%s)", cs.Battery(), cs.MaxBattery(), cs.Tier()),
		fmt.Sprintf("Resonance: %.0f", cs.Resonance()),
	}
	if chance := cs.ChaosChance(); chance > 0 {
		out = append(out, fmt.Sprintf("Chaos risk: %.0f%%", chance*100))
	}
	return out
}

// appendOutput adds lines to the narrative and refreshes the viewport.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{
			text: "> " + msg.input, isInput: true,
		})
	}

	for _, line := range msg.lines {
		rl := rawLine{text: line, isSystem: msg.isSystem}
		if !msg.isSystem {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}

	// Blank line separator between turns.
	m.rawLines = append(m.rawLines, rawLine{})

	m.refreshViewport()

	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		wrapped := wordWrap(rl.text, width)

		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap wraps text to fit within the given width, breaking at word
// boundaries.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0

	for i, word := range words {
		wLen := len(word)

		if i == 0 {
			result.WriteString(word)
			lineLen = wLen
			continue
		}

		if lineLen+1+wLen > width {
			result.WriteString("\n")
			result.WriteString(word)
			lineLen = wLen
		} else {
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + wLen
		}
	}

	return result.String()
}

// View renders the full TUI layout: viewport + status bar + input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/save":
		return m.cmdSave(arg), false

	case "/load":
		return m.cmdLoad(arg), false

	case "/help":
		return m.cmdHelp(), false

	case "/state":
		return m.cmdState(), false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func (m *Model) cmdSave(name string) []string {
	if name == "" {
		name = "quicksave"
	}

	data, err := m.session.Save()
	if err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}

	if err := os.MkdirAll(m.saveDir, 0o755); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}

	path := filepath.Join(m.saveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}

	return []string{fmt.Sprintf("Game saved to %s.", name)}
}

func (m *Model) cmdLoad(name string) []string {
	if name == "" {
		name = "quicksave"
	}

	path := filepath.Join(m.saveDir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}

	if err := m.session.Load(context.Background(), data); err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}
	m.events.drain() // restore is silent; discard any events fired mid-load

	return []string{fmt.Sprintf("Game loaded from %s.", name)}
}

func (m *Model) cmdHelp() []string {
	return []string{
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
		"  track <quest>      - Pin a quest in the status bar",
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
		"",
		"Navigation: PgUp/PgDn to scroll, Up/Down for command history",
	}
}

func (m *Model) cmdState() []string {
	s := m.session
	output := []string{
		fmt.Sprintf("Battery: %.2f  Resonance: %.2f  Tier: %s",
			s.Caster.Battery(), s.Caster.Resonance(), s.Caster.Tier()),
		fmt.Sprintf("Active quests: %v", s.Quests.ActiveQuests()),
		fmt.Sprintf("Tracked: %s", s.Quests.Tracked()),
		fmt.Sprintf("Inventory: %v", s.Inventory.Items()),
		fmt.Sprintf("Spells: %v", s.KnownSpells()),
	}
	if flags := s.Flags.Serialize(); len(flags) > 0 {
		output = append(output, fmt.Sprintf("Flags: %v", flags))
	}
	return output
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
