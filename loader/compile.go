package loader

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/arcanum/engine"
	"github.com/nathoo/arcanum/engine/caster"
	"github.com/nathoo/arcanum/types"
)

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getNumber returns a numeric field from a Lua table, or def if missing.
func getNumber(tbl *lua.LTable, key string, def float64) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return def
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key, 0))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// toGoValue converts a scalar Lua value to a Go value. Integral numbers
// come back as float64 to match the flag store's number normalization.
func toGoValue(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		return float64(val)
	case lua.LString:
		return string(val)
	default:
		return nil
	}
}

// tableToStrings converts a Lua array table to a []string.
func tableToStrings(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	var out []string
	tbl.ForEach(func(k, v lua.LValue) {
		if _, ok := k.(lua.LNumber); !ok {
			return
		}
		if s, ok := v.(lua.LString); ok {
			out = append(out, string(s))
		}
	})
	return out
}

// compile converts all collected Lua data into a Library.
func compile(coll *collector) (*Library, error) {
	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}

	content := &engine.Content{
		Title:   getString(coll.game, "title"),
		Author:  getString(coll.game, "author"),
		Version: getString(coll.game, "version"),
		Intro:   getString(coll.game, "intro"),
		Seed:    int64(getNumber(coll.game, "seed", 0)),
		Spells:  map[string]types.SpellDef{},
		NPCs:    map[string]types.NPCDef{},
		Caster:  compileCasterConfig(coll.casterCfg),
	}

	for _, raw := range coll.spells {
		content.Spells[raw.id] = compileSpell(raw)
	}
	for _, raw := range coll.npcs {
		content.NPCs[raw.id] = compileNPC(raw)
	}

	quests := map[string]*types.QuestDef{}
	for _, raw := range coll.quests {
		def, err := compileQuest(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling quest %s: %w", raw.id, err)
		}
		quests[def.ID] = def
	}

	return &Library{Content: content, Quests: quests}, nil
}

// compileCasterConfig builds the caster config; a missing Caster{} block
// yields the stock chaos curve and a 100-point battery.
func compileCasterConfig(tbl *lua.LTable) caster.Config {
	cfg := caster.Config{
		MaxBattery:   100,
		RechargeRate: 30,
		Chaos:        caster.DefaultChaosConfig(),
	}
	if tbl == nil {
		return cfg
	}
	cfg.MaxBattery = getNumber(tbl, "max_battery", cfg.MaxBattery)
	cfg.RechargeRate = getNumber(tbl, "recharge_rate", cfg.RechargeRate)
	if chaos := getTable(tbl, "chaos"); chaos != nil {
		cfg.Chaos.Unstable = getNumber(chaos, "unstable", cfg.Chaos.Unstable)
		cfg.Chaos.Critical = getNumber(chaos, "critical", cfg.Chaos.Critical)
		cfg.Chaos.Empty = getNumber(chaos, "empty", cfg.Chaos.Empty)
	}
	cfg.AllowTags = tableToStrings(getTable(tbl, "allow_tags"))
	cfg.BlockTags = tableToStrings(getTable(tbl, "block_tags"))
	return cfg
}

func compileSpell(raw rawDef) types.SpellDef {
	tbl := raw.table
	return types.SpellDef{
		ID:           raw.id,
		Name:         getString(tbl, "name"),
		Tags:         tableToStrings(getTable(tbl, "tags")),
		BatteryCost:  getNumber(tbl, "battery_cost", 0),
		Effects:      compileEffects(getTable(tbl, "effects")),
		ChaosEffects: compileEffects(getTable(tbl, "chaos_effects")),
	}
}

func compileNPC(raw rawDef) types.NPCDef {
	tbl := raw.table
	npc := types.NPCDef{
		ID:   raw.id,
		Name: getString(tbl, "name"),
	}
	if topicsTbl := getTable(tbl, "topics"); topicsTbl != nil {
		npc.Topics = map[string]types.TopicDef{}
		topicsTbl.ForEach(func(k, v lua.LValue) {
			key, ok := k.(lua.LString)
			if !ok {
				return
			}
			topicTbl, ok := v.(*lua.LTable)
			if !ok {
				return
			}
			npc.Topics[string(key)] = types.TopicDef{
				Text:     getString(topicTbl, "text"),
				Requires: compileExprConditions(getTable(topicTbl, "requires")),
				Effects:  compileEffects(getTable(topicTbl, "effects")),
			}
		})
	}
	return npc
}

func compileQuest(raw rawDef) (*types.QuestDef, error) {
	tbl := raw.table
	def := &types.QuestDef{
		ID:          raw.id,
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
		StartStage:  getString(tbl, "start"),
		Repeatable:  getBool(tbl, "repeatable", false),
	}

	stagesTbl := getTable(tbl, "stages")
	if stagesTbl == nil {
		return nil, fmt.Errorf("no stages defined")
	}
	stagesTbl.ForEach(func(k, v lua.LValue) {
		if _, ok := k.(lua.LNumber); !ok {
			return
		}
		if stageTbl, ok := v.(*lua.LTable); ok {
			def.Stages = append(def.Stages, compileStage(stageTbl))
		}
	})
	if len(def.Stages) == 0 {
		return nil, fmt.Errorf("no stages defined")
	}
	if def.StartStage == "" {
		def.StartStage = def.Stages[0].ID
	}
	return def, nil
}

func compileStage(tbl *lua.LTable) types.StageDef {
	stage := types.StageDef{
		ID:          getString(tbl, "id"),
		Description: getString(tbl, "description"),
		Next:        getString(tbl, "next"),
	}
	if objsTbl := getTable(tbl, "objectives"); objsTbl != nil {
		objsTbl.ForEach(func(k, v lua.LValue) {
			if _, ok := k.(lua.LNumber); !ok {
				return
			}
			if objTbl, ok := v.(*lua.LTable); ok {
				stage.Objectives = append(stage.Objectives, types.ObjectiveDef{
					ID:          getString(objTbl, "id"),
					Type:        types.ObjectiveType(getString(objTbl, "type")),
					Description: getString(objTbl, "description"),
					Target:      getString(objTbl, "target"),
					Count:       getInt(objTbl, "count"),
					Optional:    getBool(objTbl, "optional", false),
				})
			}
		})
	}
	return stage
}

// compileExprConditions reads a list of legacy beat-graph conditions as
// emitted by the Lua condition helpers.
func compileExprConditions(tbl *lua.LTable) []types.ExprCondition {
	if tbl == nil {
		return nil
	}
	var conditions []types.ExprCondition
	tbl.ForEach(func(k, v lua.LValue) {
		if _, ok := k.(lua.LNumber); !ok {
			return
		}
		condTbl, ok := v.(*lua.LTable)
		if !ok {
			return
		}
		conditions = append(conditions, types.ExprCondition{
			Operator: getString(condTbl, "operator"),
			Operand:  getString(condTbl, "operand"),
			Value:    toGoValue(condTbl.RawGetString("value")),
			Negate:   getBool(condTbl, "negate", false),
		})
	})
	return conditions
}

func compileEffects(tbl *lua.LTable) []types.Effect {
	if tbl == nil {
		return nil
	}
	var effects []types.Effect
	tbl.ForEach(func(k, v lua.LValue) {
		if _, ok := k.(lua.LNumber); !ok {
			return
		}
		effTbl, ok := v.(*lua.LTable)
		if !ok {
			return
		}
		effType := getString(effTbl, "type")
		params := map[string]any{}
		effTbl.ForEach(func(k, v lua.LValue) {
			if ks, ok := k.(lua.LString); ok {
				key := string(ks)
				if key != "type" {
					params[key] = toGoValue(v)
				}
			}
		})
		effects = append(effects, types.Effect{Type: effType, Params: params})
	})
	return effects
}
