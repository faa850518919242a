package command

import (
	"fmt"
	"strings"

	"github.com/HexColors60/RadMud/internal/game/entity"
)

var scoreAbilities = []entity.Ability{
	entity.Strength,
	entity.Agility,
	entity.Perception,
	entity.Constitution,
	entity.Intelligence,
}

func (d *Dispatcher) score(c *entity.Character, _ *Command, _ ParseResult) error {
	var b strings.Builder
	race := ""
	if c.Race != nil {
		race = c.Race.Name
	}
	fmt.Fprintf(&b, "%s the %s\n", entity.Capitalize(c.Name), race)
	fmt.Fprintf(&b, "  Health  %3d/%-3d  You %s.\n", c.Health(), c.MaxHealth(), c.HealthCondition(true))
	fmt.Fprintf(&b, "  Stamina %3d/%-3d  You %s.\n", c.Stamina(), c.MaxStamina(), c.StaminaCondition())
	for _, a := range scoreAbilities {
		fmt.Fprintf(&b, "  %-13s %2d (%+d)\n", entity.Capitalize(a.String()), c.Ability(a), c.Modifier(a))
	}
	fmt.Fprintf(&b, "You are %s.\n", c.Posture)
	fmt.Fprintf(&b, "You %s and you %s.\n", c.HungerCondition(), c.ThirstCondition())
	arena := d.world.Arena()
	fmt.Fprintf(&b, "You carry %d of %d.\n", arena.CarryingWeight(c.ID), c.MaxCarry())
	for _, fx := range c.Effects {
		fmt.Fprintf(&b, "  %s (%d)\n", fx.Name, fx.Remaining)
	}
	d.world.Send(c.ID, b.String())
	return nil
}

func (d *Dispatcher) inventory(c *entity.Character, _ *Command, _ ParseResult) error {
	arena := d.world.Arena()
	ids := arena.Inventory(c.ID)
	if len(ids) == 0 {
		d.world.Send(c.ID, "You are not carrying anything.")
		return nil
	}
	var b strings.Builder
	b.WriteString("You are carrying:\n")
	for _, id := range ids {
		if it, ok := arena.Item(id); ok {
			fmt.Fprintf(&b, "    %s\n", it.Name())
		}
	}
	d.world.Send(c.ID, b.String())
	return nil
}

func (d *Dispatcher) equipment(c *entity.Character, _ *Command, _ ParseResult) error {
	arena := d.world.Arena()
	ids := arena.Equipment(c.ID)
	if len(ids) == 0 {
		d.world.Send(c.ID, "You are not using anything.")
		return nil
	}
	var b strings.Builder
	b.WriteString("You are using:\n")
	for _, id := range ids {
		if it, ok := arena.Item(id); ok {
			fmt.Fprintf(&b, "    %-12s %s\n", "<"+it.Slot.String()+">", it.Name())
		}
	}
	d.world.Send(c.ID, b.String())
	return nil
}
