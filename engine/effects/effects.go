// Package effects implements centralized state mutation via the Apply
// function. Every effect type is one atomic operation; unknown effect
// types log and do nothing, so a bad content file cannot crash a cast.
package effects

import (
	"log/slog"

	"github.com/nathoo/arcanum/engine/caster"
	"github.com/nathoo/arcanum/engine/flags"
	"github.com/nathoo/arcanum/types"
)

// ItemStore is the mutable inventory surface effects apply against.
type ItemStore interface {
	Add(itemID string, count int)
	Remove(itemID string, count int)
}

// Targets bundles the state an effect list may mutate.
type Targets struct {
	Flags     *flags.Store
	Inventory ItemStore
	Caster    *caster.Caster
	Logger    *slog.Logger
}

// Apply applies effects in order and returns the output text collected
// from say effects.
func Apply(effs []types.Effect, t Targets) []string {
	var output []string

	for _, eff := range effs {
		switch eff.Type {
		case "say":
			if text, ok := eff.Params["text"].(string); ok {
				output = append(output, text)
			}

		case "set_flag":
			flag, _ := eff.Params["flag"].(string)
			if flag == "" || t.Flags == nil {
				continue
			}
			value, ok := eff.Params["value"]
			if !ok {
				value = true
			}
			t.Flags.Set(flag, value)

		case "clear_flag":
			flag, _ := eff.Params["flag"].(string)
			if flag != "" && t.Flags != nil {
				t.Flags.Delete(flag)
			}

		case "give_item":
			item, _ := eff.Params["item"].(string)
			if item != "" && t.Inventory != nil {
				t.Inventory.Add(item, countParam(eff.Params))
			}

		case "remove_item":
			item, _ := eff.Params["item"].(string)
			if item != "" && t.Inventory != nil {
				t.Inventory.Remove(item, countParam(eff.Params))
			}

		case "add_resonance":
			if t.Caster != nil {
				t.Caster.AddResonance(toFloat(eff.Params["amount"]))
			}

		case "drain_battery":
			if t.Caster != nil {
				t.Caster.DrainBattery(toFloat(eff.Params["amount"]))
			}

		case "charge_battery":
			if t.Caster != nil {
				t.Caster.ChargeBattery(toFloat(eff.Params["amount"]))
			}

		default:
			logger(t).Warn("unknown effect type", "type", eff.Type)
		}
	}

	return output
}

func logger(t Targets) *slog.Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return slog.Default()
}

func countParam(params map[string]any) int {
	n := int(toFloat(params["count"]))
	if n < 1 {
		return 1
	}
	return n
}

// toFloat converts an any value to float64, handling ints from Go code
// and float64 from JSON/Lua.
func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}
