package scripting

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/HexColors60/RadMud/internal/game/engine"
	"github.com/HexColors60/RadMud/internal/game/world"
)

// registerModule defines the mud global in L:
//
//	mud.say(text)        speak to the room
//	mud.emote(text)      act in the room
//	mud.move(direction)  walk through an exit
//	mud.attack(name)     attack a character in the room
//	mud.random(lo, hi)   uniform integer in [lo, hi]
//	mud.roll(expr)       total of a dice expression such as "2d6+1"
//	mud.log(text)        debug log line
func (m *Manager) registerModule(L *lua.LState) {
	mod := L.NewTable()
	L.SetFuncs(mod, map[string]lua.LGFunction{
		"say": func(L *lua.LState) int {
			m.queue(engine.Effect{Kind: engine.EffectSay, Text: L.CheckString(1)})
			return 0
		},
		"emote": func(L *lua.LState) int {
			m.queue(engine.Effect{Kind: engine.EffectEmote, Text: L.CheckString(1)})
			return 0
		},
		"move": func(L *lua.LState) int {
			dir, ok := world.ParseDirection(strings.ToLower(L.CheckString(1)))
			if !ok {
				L.ArgError(1, "unknown direction")
				return 0
			}
			m.queue(engine.Effect{Kind: engine.EffectMove, Direction: dir})
			return 0
		},
		"attack": func(L *lua.LState) int {
			m.queue(engine.Effect{Kind: engine.EffectAttack, Target: L.CheckString(1)})
			return 0
		},
		"random": func(L *lua.LState) int {
			lo, hi := L.CheckInt(1), L.CheckInt(2)
			L.Push(lua.LNumber(m.roller.Between(lo, hi)))
			return 1
		},
		"roll": func(L *lua.LState) int {
			res, err := m.roller.RollExpr(L.CheckString(1))
			if err != nil {
				L.ArgError(1, err.Error())
				return 0
			}
			L.Push(lua.LNumber(res.Total()))
			return 1
		},
		"log": func(L *lua.LState) int {
			m.logger.Debug("lua", zap.String("message", L.CheckString(1)))
			return 0
		},
	})
	L.SetGlobal("mud", mod)
}

func (m *Manager) queue(fx engine.Effect) {
	m.pending = append(m.pending, fx)
}
