package command

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.NotNil(t, r)
	assert.Len(t, r.Commands(), len(BuiltinCommands()))
}

func TestResolve_MovementNamesAndAliases(t *testing.T) {
	r := DefaultRegistry()
	for input, want := range map[string]string{
		"north": "north", "n": "north",
		"south": "south", "s": "south",
		"east": "east", "e": "east",
		"west": "west", "w": "west",
		"up": "up", "u": "up",
		"down": "down", "d": "down",
	} {
		cmd, ok := r.Resolve(input)
		require.True(t, ok, input)
		assert.Equal(t, want, cmd.Name, input)
		assert.Equal(t, HandlerMove, cmd.Handler, input)
	}

	_, ok := r.Resolve("teleport")
	assert.False(t, ok)
}

func TestResolve_Handlers(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		input   string
		handler string
	}{
		{"look", HandlerLook},
		{"l", HandlerLook},
		{"map", HandlerMap},
		{"sit", HandlerPosture},
		{"k", HandlerKill},
		{"get", HandlerTake},
		{"i", HandlerInventory},
		{"eq", HandlerEquipment},
		{"reload", HandlerReload},
		{"craft", HandlerCraft},
		{"'", HandlerSay},
		{":", HandlerEmote},
		{"open", HandlerOpen},
		{"give", HandlerGive},
		{"drink", HandlerDrink},
		{"quit", HandlerQuit},
		{"?", HandlerHelp},
	}

	for _, tt := range tests {
		cmd, ok := r.Resolve(tt.input)
		require.True(t, ok, "input %q not found", tt.input)
		assert.Equal(t, tt.handler, cmd.Handler, "input %q wrong handler", tt.input)
	}
}

func TestNewRegistry_DuplicateName(t *testing.T) {
	cmds := []Command{
		{Name: "test", Handler: "a"},
		{Name: "test", Handler: "b"},
	}
	_, err := NewRegistry(cmds)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate command name")
}

func TestNewRegistry_DuplicateAlias(t *testing.T) {
	cmds := []Command{
		{Name: "test1", Aliases: []string{"t"}, Handler: "a"},
		{Name: "test2", Aliases: []string{"t"}, Handler: "b"},
	}
	_, err := NewRegistry(cmds)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate alias")
}

func TestCommandsByCategory(t *testing.T) {
	r := DefaultRegistry()
	cats := r.CommandsByCategory()

	assert.Contains(t, cats, CategoryCombat)
	assert.Contains(t, cats, CategoryItems)
	assert.Contains(t, cats, CategoryCrafting)
	assert.Len(t, cats[CategoryMovement], 10)
	assert.Equal(t, "aim", cats[CategoryCombat][0].Name, "sorted within a group")
}

func TestHelp_ListsEveryCommandOnce(t *testing.T) {
	help := DefaultRegistry().Help()
	assert.True(t, strings.HasPrefix(help, "Movement:\n"))
	assert.Contains(t, help, "load <magazine> <projectile> [amount]")
	assert.Contains(t, help, "inventory (i)")
	for _, cmd := range BuiltinCommands() {
		assert.Contains(t, help, "  "+cmd.Name, cmd.Name)
	}
}

func TestPropertyAllAliasesResolveToCanonical(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := DefaultRegistry()
		cmds := r.Commands()
		idx := rapid.IntRange(0, len(cmds)-1).Draw(t, "cmd_idx")
		cmd := cmds[idx]

		resolved, ok := r.Resolve(cmd.Name)
		if !ok {
			t.Fatalf("canonical name %q did not resolve", cmd.Name)
		}
		if resolved.Name != cmd.Name {
			t.Fatalf("canonical name %q resolved to %q", cmd.Name, resolved.Name)
		}

		for _, alias := range cmd.Aliases {
			aliasResolved, ok := r.Resolve(alias)
			if !ok {
				t.Fatalf("alias %q did not resolve", alias)
			}
			if aliasResolved.Name != cmd.Name {
				t.Fatalf("alias %q resolved to %q, expected %q", alias, aliasResolved.Name, cmd.Name)
			}
		}
	})
}
