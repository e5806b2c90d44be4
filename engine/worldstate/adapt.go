package worldstate

import (
	"log/slog"
	"strings"

	"github.com/nathoo/arcanum/types"
)

// unsupportedPrefix namespaces the synthesized flag keys that unsupported
// legacy conditions degrade to. The engine never sets keys under this
// prefix, so the resulting condition is guaranteed false: content that
// references a condition kind we cannot express blocks progression
// instead of skipping the check.
const unsupportedPrefix = "__unsupported__"

func unsupported(source, kind, detail string) types.Condition {
	slog.Warn("unsupported legacy condition, degrading to never-true flag check",
		"source", source, "kind", kind, "detail", detail)
	return Flag(unsupportedPrefix + ":" + source + ":" + kind + ":" + detail)
}

// FromExpr translates a dialogue/beat-graph condition into the unified
// representation. The translation is total: every operator, including
// unknown ones, yields a defined condition.
func FromExpr(c types.ExprCondition) types.Condition {
	var out types.Condition

	switch c.Operator {
	case "hasItem":
		out = HasItem(c.Operand, toCount(c.Value))

	case "hasFlag":
		if c.Value == nil {
			out = Flag(c.Operand)
		} else {
			out = FlagIs(c.Operand, c.Value)
		}

	case "questComplete":
		out = QuestCompleted(c.Operand)

	case "stageComplete":
		// Operand encodes "questId:stageId".
		questID, stageID, ok := strings.Cut(c.Operand, ":")
		if !ok || questID == "" || stageID == "" {
			out = unsupported("expr", "stageComplete", c.Operand)
			break
		}
		out = QuestStage(questID, stageID, types.StageStateCompleted)

	case "custom":
		out = unsupported("expr", "custom", c.Operand)

	default:
		out = unsupported("expr", c.Operator, c.Operand)
	}

	if c.Negate {
		return Not(out)
	}
	return out
}

// FromBT translates a behavior-tree condition into the unified
// representation. Total over the legacy variant set; timeOfDay,
// atLocation and custom are explicitly unsupported today.
func FromBT(c types.BTCondition) types.Condition {
	switch c.Kind {
	case "questStage":
		state := types.StageStateActive
		if c.State == string(types.StageStateCompleted) {
			state = types.StageStateCompleted
		}
		if c.NodeID != "" {
			return QuestNode(c.QuestID, c.NodeID, state)
		}
		return QuestStage(c.QuestID, c.StageID, state)

	case "hasItem":
		return HasItem(c.ItemID, c.Count)

	case "hasFlag":
		if c.Value == nil {
			return Flag(c.Flag)
		}
		return FlagIs(c.Flag, c.Value)

	case "timeOfDay":
		return unsupported("bt", "timeOfDay", "")

	case "atLocation":
		return unsupported("bt", "atLocation", c.Location)

	case "custom":
		return unsupported("bt", "custom", c.Name)

	default:
		return unsupported("bt", c.Kind, "")
	}
}

// toCount converts a loosely-typed value to an item count.
// Non-numeric values mean "at least one".
func toCount(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
