package scripting

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"pgregory.net/rapid"
)

func TestSandbox_DangerousGlobalsRemoved(t *testing.T) {
	L := NewSandboxedState()
	defer L.Close()
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "collectgarbage", "require"} {
		assert.Equal(t, lua.LNil, L.GetGlobal(name), name)
	}
	for _, name := range []string{"io", "os", "debug", "package"} {
		assert.Equal(t, lua.LNil, L.GetGlobal(name), name)
	}
}

func TestSandbox_SafeLibsAvailable(t *testing.T) {
	L := NewSandboxedState()
	defer L.Close()
	require.NoError(t, L.DoString(`x = string.upper("ok") .. math.max(1, 2) .. #table.concat({"a","b"})`))
	assert.Equal(t, "OK22", L.GetGlobal("x").String())
}

func TestSandbox_InstructionLimitStopsInfiniteLoop(t *testing.T) {
	L := NewSandboxedState()
	defer L.Close()
	err := runBounded(context.Background(), L, 1000, func() error {
		return L.DoString(`while true do end`)
	})
	assert.Error(t, err)
}

func TestSandbox_CancelledParentStopsScript(t *testing.T) {
	L := NewSandboxedState()
	defer L.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := runBounded(ctx, L, DefaultInstructionLimit, func() error {
		return L.DoString(`local n = 0 for i = 1, 1000000 do n = n + i end`)
	})
	assert.Error(t, err)
}

func TestProperty_SmallLoopsFitBudget(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 100).Draw(t, "n")
		L := NewSandboxedState()
		defer L.Close()
		L.SetGlobal("n", lua.LNumber(n))
		err := runBounded(context.Background(), L, DefaultInstructionLimit, func() error {
			return L.DoString(`s = 0 for i = 1, n do s = s + i end`)
		})
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		if got := int(L.GetGlobal("s").(lua.LNumber)); got != n*(n+1)/2 {
			t.Fatalf("n=%d: sum %d", n, got)
		}
	})
}
