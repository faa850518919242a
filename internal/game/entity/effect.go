package entity

// EffectKind tags effects that trigger engine behaviour on expiry.
type EffectKind uint8

const (
	EffectGeneric EffectKind = iota
	// EffectClearTargets empties the characters-in-sight list on expiry.
	EffectClearTargets
)

// Effect is a timed modifier on a character, counted down in tics.
type Effect struct {
	Name          string
	Kind          EffectKind
	Remaining     int
	ExpireMessage string
	Health        int
	Stamina       int
	Abilities     Abilities
}

// Effects is the list of active effects of a character.
type Effects []Effect

// HealthModifier sums the max health modifiers of all effects.
func (e Effects) HealthModifier() int {
	total := 0
	for _, fx := range e {
		total += fx.Health
	}
	return total
}

// StaminaModifier sums the max stamina modifiers of all effects.
func (e Effects) StaminaModifier() int {
	total := 0
	for _, fx := range e {
		total += fx.Stamina
	}
	return total
}

// AbilityModifier sums the modifiers of all effects for a.
func (e Effects) AbilityModifier(a Ability) int {
	total := 0
	for _, fx := range e {
		total += fx.Abilities[a]
	}
	return total
}

// Has reports whether an effect of kind is active.
func (e Effects) Has(kind EffectKind) bool {
	for _, fx := range e {
		if fx.Kind == kind {
			return true
		}
	}
	return false
}
