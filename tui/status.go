package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/arcanum/engine/caster"
)

const meterWidth = 10

// batteryMeter renders the battery as a fixed-width bar, e.g. "######----".
func batteryMeter(level, max float64) string {
	if max <= 0 {
		return strings.Repeat("-", meterWidth)
	}
	filled := int(level / max * meterWidth)
	if filled > meterWidth {
		filled = meterWidth
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("#", filled) + strings.Repeat("-", meterWidth-filled)
}

// questDisplayName derives a human-readable name from a quest ID when the
// definition carries no name. "missing_cat" -> "Missing Cat".
func questDisplayName(id string) string {
	words := strings.Split(id, "_")
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// renderStatusBar produces a full-width inverted status line showing the
// tracked quest objective on the left and the caster meters on the right.
func (m Model) renderStatusBar() string {
	s := m.session

	left := " No quest tracked"
	if tracked := s.Quests.Tracked(); tracked != "" {
		name := questDisplayName(tracked)
		if def := s.Quests.Definition(tracked); def != nil && def.Name != "" {
			name = def.Name
		}
		left = " " + name
		if obj := s.Quests.TrackedObjective(); obj != nil {
			desc := obj.Description
			if desc == "" {
				desc = obj.ID
			}
			if obj.Count > 1 {
				desc = fmt.Sprintf("%s (%d/%d)", desc, obj.Current, obj.Count)
			}
			left += " | " + desc
		}
	}

	tier := s.Caster.Tier()
	right := fmt.Sprintf("B:[%s] %.0f%% | R:%.0f ",
		batteryMeter(s.Caster.Battery(), s.Caster.MaxBattery()),
		s.Caster.Battery()/s.Caster.MaxBattery()*100,
		s.Caster.Resonance())
	if tier != caster.TierFull {
		right = fmt.Sprintf("%s! ", tier) + right
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
