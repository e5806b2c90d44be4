package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerConditionHelpers(L)
	registerEffectHelpers(L)
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Game { title = "...", ... }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		coll.game = tbl
		return 0
	}))

	// Caster { max_battery = 100, recharge_rate = 30, chaos = {...}, ... }
	L.SetGlobal("Caster", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		coll.casterCfg = tbl
		return 0
	}))

	// Quest "id" { ... } - curried: Quest("id") returns a function that
	// takes a table.
	L.SetGlobal("Quest", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.quests = append(coll.quests, rawDef{id: id, table: tbl})
			return 0
		}))
		return 1
	}))

	// Spell "id" { ... } - curried.
	L.SetGlobal("Spell", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.spells = append(coll.spells, rawDef{id: id, table: tbl})
			return 0
		}))
		return 1
	}))

	// NPC "id" { ... } - curried.
	L.SetGlobal("NPC", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.npcs = append(coll.npcs, rawDef{id: id, table: tbl})
			return 0
		}))
		return 1
	}))
}

// Condition helpers build the legacy beat-graph condition shape - the
// shape dialogue tooling emits. Normalization to the unified algebra
// happens at evaluation time through the worldstate adapter.
func registerConditionHelpers(L *lua.LState) {
	// HasItem("id" [, count])
	L.SetGlobal("HasItem", L.NewFunction(func(L *lua.LState) int {
		item := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("operator", lua.LString("hasItem"))
		tbl.RawSetString("operand", lua.LString(item))
		if L.GetTop() >= 2 {
			tbl.RawSetString("value", L.CheckNumber(2))
		}
		L.Push(tbl)
		return 1
	}))

	// HasFlag("flag" [, value])
	L.SetGlobal("HasFlag", L.NewFunction(func(L *lua.LState) int {
		flag := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("operator", lua.LString("hasFlag"))
		tbl.RawSetString("operand", lua.LString(flag))
		if L.GetTop() >= 2 {
			tbl.RawSetString("value", L.Get(2))
		}
		L.Push(tbl)
		return 1
	}))

	// QuestComplete("quest_id")
	L.SetGlobal("QuestComplete", L.NewFunction(func(L *lua.LState) int {
		quest := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("operator", lua.LString("questComplete"))
		tbl.RawSetString("operand", lua.LString(quest))
		L.Push(tbl)
		return 1
	}))

	// StageComplete("quest_id", "stage_id")
	L.SetGlobal("StageComplete", L.NewFunction(func(L *lua.LState) int {
		quest := L.CheckString(1)
		stage := L.CheckString(2)
		tbl := L.NewTable()
		tbl.RawSetString("operator", lua.LString("stageComplete"))
		tbl.RawSetString("operand", lua.LString(quest+":"+stage))
		L.Push(tbl)
		return 1
	}))

	// Negate(condition)
	L.SetGlobal("Negate", L.NewFunction(func(L *lua.LState) int {
		inner := L.CheckTable(1)
		inner.RawSetString("negate", lua.LTrue)
		L.Push(inner)
		return 1
	}))
}

func registerEffectHelpers(L *lua.LState) {
	// Say("text")
	L.SetGlobal("Say", L.NewFunction(func(L *lua.LState) int {
		text := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("say"))
		tbl.RawSetString("text", lua.LString(text))
		L.Push(tbl)
		return 1
	}))

	// SetFlag("flag" [, value])
	L.SetGlobal("SetFlag", L.NewFunction(func(L *lua.LState) int {
		flag := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("set_flag"))
		tbl.RawSetString("flag", lua.LString(flag))
		if L.GetTop() >= 2 {
			tbl.RawSetString("value", L.Get(2))
		}
		L.Push(tbl)
		return 1
	}))

	// ClearFlag("flag")
	L.SetGlobal("ClearFlag", L.NewFunction(func(L *lua.LState) int {
		flag := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("clear_flag"))
		tbl.RawSetString("flag", lua.LString(flag))
		L.Push(tbl)
		return 1
	}))

	// GiveItem("id" [, count])
	L.SetGlobal("GiveItem", L.NewFunction(func(L *lua.LState) int {
		item := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("give_item"))
		tbl.RawSetString("item", lua.LString(item))
		if L.GetTop() >= 2 {
			tbl.RawSetString("count", L.CheckNumber(2))
		}
		L.Push(tbl)
		return 1
	}))

	// RemoveItem("id" [, count])
	L.SetGlobal("RemoveItem", L.NewFunction(func(L *lua.LState) int {
		item := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("remove_item"))
		tbl.RawSetString("item", lua.LString(item))
		if L.GetTop() >= 2 {
			tbl.RawSetString("count", L.CheckNumber(2))
		}
		L.Push(tbl)
		return 1
	}))

	// AddResonance(amount)
	L.SetGlobal("AddResonance", L.NewFunction(func(L *lua.LState) int {
		amount := L.CheckNumber(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("add_resonance"))
		tbl.RawSetString("amount", amount)
		L.Push(tbl)
		return 1
	}))

	// DrainBattery(amount)
	L.SetGlobal("DrainBattery", L.NewFunction(func(L *lua.LState) int {
		amount := L.CheckNumber(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("drain_battery"))
		tbl.RawSetString("amount", amount)
		L.Push(tbl)
		return 1
	}))

	// ChargeBattery(amount)
	L.SetGlobal("ChargeBattery", L.NewFunction(func(L *lua.LState) int {
		amount := L.CheckNumber(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("charge_battery"))
		tbl.RawSetString("amount", amount)
		L.Push(tbl)
		return 1
	}))
}
