// Package entity holds the characters and items of the game world together
// with the arena that owns them and the side tables relating them to rooms,
// inventories, equipment and containers.
package entity

import (
	"fmt"
	"math"
	"strings"
)

// ID addresses a character or item in the arena. Zero is never assigned.
type ID uint64

// Ability indexes the five character abilities.
type Ability int

const (
	Strength Ability = iota
	Agility
	Perception
	Constitution
	Intelligence
)

// MaxAbility is the upper bound of every ability value.
const MaxAbility = 60

var abilityNames = [...]string{"strength", "agility", "perception", "constitution", "intelligence"}

func (a Ability) String() string {
	if a < 0 || int(a) >= len(abilityNames) {
		return fmt.Sprintf("ability(%d)", int(a))
	}
	return abilityNames[a]
}

// Abilities is a full set of ability values (or modifiers), indexed by Ability.
type Abilities [5]int

// Clamp returns a with every value clamped to [0, MaxAbility].
func (a Abilities) Clamp() Abilities {
	for i, v := range a {
		a[i] = clamp(v, 0, MaxAbility)
	}
	return a
}

// AbilityModifier converts an ability value to its modifier: 0 up to 10,
// then one point every two.
func AbilityModifier(value int) int {
	if value <= 10 {
		return 0
	}
	return (value - 10) / 2
}

// AbilityLog returns base + multiplier*log10(min(modifier, 25)) truncated to
// an integer, or base when the modifier is zero.
func AbilityLog(modifier int, base, multiplier float64) int {
	result := base
	if modifier > 0 {
		m := math.Min(float64(modifier), 25)
		result += multiplier * math.Log10(m)
	}
	if result < 0 {
		return 0
	}
	return int(result)
}

// Posture is the body position of a character.
type Posture uint8

const (
	Stand Posture = iota
	Crouch
	Prone
	Sit
	Rest
)

func (p Posture) String() string {
	switch p {
	case Crouch:
		return "crouched"
	case Prone:
		return "prone"
	case Sit:
		return "sitting"
	case Rest:
		return "resting"
	}
	return "standing"
}

// ParsePosture maps a posture word to its value.
func ParsePosture(s string) (Posture, error) {
	switch strings.ToLower(s) {
	case "stand", "standing":
		return Stand, nil
	case "crouch", "crouched":
		return Crouch, nil
	case "prone":
		return Prone, nil
	case "sit", "sitting":
		return Sit, nil
	case "rest", "resting":
		return Rest, nil
	}
	return Stand, fmt.Errorf("unknown posture %q", s)
}

// Speed is the movement cooldown multiplier of a posture.
func (p Posture) Speed() int {
	switch p {
	case Crouch:
		return 2
	case Prone:
		return 3
	}
	return 1
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
