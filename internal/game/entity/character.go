package entity

import (
	"github.com/HexColors60/RadMud/internal/game/world"
)

// Race describes the body of a character kind.
type Race struct {
	Name string
	// CorpseModel is the model vnum spawned when a character of this race dies.
	CorpseModel int
	// Weight is the default body weight.
	Weight int
}

// Gender selects the pronouns used in messages.
type Gender uint8

const (
	Neuter Gender = iota
	Male
	Female
)

// ParseGender maps a content keyword to its gender, Neuter when unknown.
func ParseGender(s string) Gender {
	switch s {
	case "male", "m":
		return Male
	case "female", "f":
		return Female
	}
	return Neuter
}

// Character is a player or mobile living in the world.
//
// Invariant: 0 <= health <= MaxHealth() and 0 <= stamina <= MaxStamina()
// after every mutation through the Set/Add/Rem methods.
type Character struct {
	ID          ID
	Name        string
	Description string
	Player      bool
	Gender      Gender
	Race        *Race
	Posture     Posture
	Room        world.Vnum
	Weight      int
	Aggressive  bool
	Script      string
	Effects     Effects
	// InSight holds the characters found by the last scout.
	InSight []ID
	Hunger  int
	Thirst  int

	abilities Abilities
	health    int
	stamina   int
}

// NewCharacter creates a character at full health and stamina.
//
// Precondition: race must not be nil.
// Postcondition: abilities are clamped to [0, MaxAbility]; hunger and thirst are 100.
func NewCharacter(name string, race *Race, abilities Abilities) *Character {
	c := &Character{
		Name:      name,
		Race:      race,
		Weight:    race.Weight,
		Hunger:    100,
		Thirst:    100,
		abilities: abilities.Clamp(),
	}
	c.health = c.MaxHealth()
	c.stamina = c.MaxStamina()
	return c
}

// SubjectPronoun returns he, she or it.
func (c *Character) SubjectPronoun() string {
	switch c.Gender {
	case Male:
		return "he"
	case Female:
		return "she"
	}
	return "it"
}

// ObjectPronoun returns him, her or it.
func (c *Character) ObjectPronoun() string {
	switch c.Gender {
	case Male:
		return "him"
	case Female:
		return "her"
	}
	return "it"
}

// PossessivePronoun returns his, her or its.
func (c *Character) PossessivePronoun() string {
	switch c.Gender {
	case Male:
		return "his"
	case Female:
		return "her"
	}
	return "its"
}

// IsMobile reports whether the character is not driven by a player.
func (c *Character) IsMobile() bool {
	return !c.Player
}

// BaseAbility returns the raw ability value without effects.
func (c *Character) BaseAbility(a Ability) int {
	return c.abilities[a]
}

// SetAbility sets a raw ability value.
//
// Postcondition: Returns false and changes nothing when value is outside [0, MaxAbility].
func (c *Character) SetAbility(a Ability, value int) bool {
	if value < 0 || value > MaxAbility {
		return false
	}
	c.abilities[a] = value
	return true
}

// Ability returns the ability value including effects, clamped to [0, MaxAbility].
func (c *Character) Ability(a Ability) int {
	return clamp(c.abilities[a]+c.Effects.AbilityModifier(a), 0, MaxAbility)
}

// Modifier returns the modifier of the effective ability.
func (c *Character) Modifier(a Ability) int {
	return AbilityModifier(c.Ability(a))
}

// Log returns the logarithmic modifier of the effective ability.
func (c *Character) Log(a Ability, base, multiplier float64) int {
	return AbilityLog(c.Modifier(a), base, multiplier)
}

// MaxHealth is 40 + 10*CONmod plus effects, never below zero.
func (c *Character) MaxHealth() int {
	return max(0, 40+10*AbilityModifier(c.abilities[Constitution])+c.Effects.HealthModifier())
}

// MaxStamina is 50 + 15*CONmod plus effects, never below zero.
func (c *Character) MaxStamina() int {
	return max(0, 50+15*AbilityModifier(c.abilities[Constitution])+c.Effects.StaminaModifier())
}

func (c *Character) Health() int  { return c.health }
func (c *Character) Stamina() int { return c.stamina }

// SetHealth sets health to value. Without force an out of range value is
// refused; with force it is clamped.
func (c *Character) SetHealth(value int, force bool) bool {
	return setBounded(&c.health, value, c.MaxHealth(), force)
}

// AddHealth raises health by value.
func (c *Character) AddHealth(value int, force bool) bool {
	return setBounded(&c.health, c.health+value, c.MaxHealth(), force)
}

// RemHealth lowers health by value.
func (c *Character) RemHealth(value int, force bool) bool {
	return setBounded(&c.health, c.health-value, c.MaxHealth(), force)
}

// SetStamina sets stamina to value, with the same force rules as SetHealth.
func (c *Character) SetStamina(value int, force bool) bool {
	return setBounded(&c.stamina, value, c.MaxStamina(), force)
}

// AddStamina raises stamina by value.
func (c *Character) AddStamina(value int, force bool) bool {
	return setBounded(&c.stamina, c.stamina+value, c.MaxStamina(), force)
}

// RemStamina lowers stamina by value.
func (c *Character) RemStamina(value int, force bool) bool {
	return setBounded(&c.stamina, c.stamina-value, c.MaxStamina(), force)
}

func setBounded(field *int, value, maximum int, force bool) bool {
	if value < 0 || value > maximum {
		if !force {
			return false
		}
		value = clamp(value, 0, maximum)
	}
	*field = value
	return true
}

// ViewDistance is 3 + logPER.
func (c *Character) ViewDistance() int {
	return 3 + c.Log(Perception, 0, 1)
}

// MaxCarry is 50 + 10*STRmod.
func (c *Character) MaxCarry() int {
	return 50 + 10*c.Modifier(Strength)
}

// Regenerate restores health and stamina for one tic. Sitting and resting
// regenerate faster.
func (c *Character) Regenerate() {
	logCON := c.Log(Constitution, 0, 1)
	healthPos, staminaPos := 0, 0
	switch c.Posture {
	case Sit:
		healthPos, staminaPos = 2, 3
	case Rest:
		healthPos, staminaPos = 4, 5
	}
	if c.health < c.MaxHealth() {
		c.AddHealth((1+3*logCON)*(1+2*healthPos), true)
	}
	if c.stamina < c.MaxStamina() {
		c.AddStamina((1+4*logCON)*(1+3*staminaPos), true)
	}
}

// Restore sets health and stamina to their maxima.
func (c *Character) Restore() {
	c.health = c.MaxHealth()
	c.stamina = c.MaxStamina()
}

// ConsumeNourishment lowers hunger and thirst by one hour worth.
func (c *Character) ConsumeNourishment() {
	c.Hunger = max(0, c.Hunger-10)
	c.Thirst = max(0, c.Thirst-10)
}

// Feed raises hunger by amount, capped at 100.
func (c *Character) Feed(amount int) {
	c.Hunger = min(100, c.Hunger+amount)
}

// Quench raises thirst by amount, capped at 100.
func (c *Character) Quench(amount int) {
	c.Thirst = min(100, c.Thirst+amount)
}

// AddEffect activates fx.
func (c *Character) AddEffect(fx Effect) {
	c.Effects = append(c.Effects, fx)
}

// ExpireEffects counts every effect down by one tic and removes those that
// ran out.
//
// Postcondition: Returns the expired effects in activation order; health and
// stamina are clamped to the new maxima.
func (c *Character) ExpireEffects() []Effect {
	var expired []Effect
	kept := c.Effects[:0]
	for _, fx := range c.Effects {
		fx.Remaining--
		if fx.Remaining <= 0 {
			expired = append(expired, fx)
			continue
		}
		kept = append(kept, fx)
	}
	c.Effects = kept
	if len(expired) > 0 {
		c.health = min(c.health, c.MaxHealth())
		c.stamina = min(c.stamina, c.MaxStamina())
	}
	return expired
}

// HealthCondition describes health as seen by the character itself when
// self is true, or by an observer otherwise.
func (c *Character) HealthCondition(self bool) string {
	be, have := "is", "has"
	if self {
		be, have = "are", "have"
	}
	percent := percentOf(c.health, c.MaxHealth())
	switch {
	case percent >= 100:
		return be + " in perfect health"
	case percent >= 90:
		return be + " slightly scratched"
	case percent >= 80:
		return have + " a few bruises"
	case percent >= 70:
		return have + " some cuts"
	case percent >= 60:
		return have + " several wounds"
	case percent >= 50:
		return have + " many nasty wounds"
	case percent >= 40:
		return be + " bleeding freely"
	case percent >= 30:
		return be + " covered in blood"
	case percent >= 20:
		return be + " leaking guts"
	case percent >= 10:
		return be + " almost dead"
	}
	return be + " DYING"
}

// StaminaCondition describes stamina in the second person.
func (c *Character) StaminaCondition() string {
	percent := percentOf(c.stamina, c.MaxStamina())
	switch {
	case percent >= 100:
		return "look fresh as a daisy"
	case percent >= 80:
		return "are slightly weary"
	case percent >= 60:
		return "are quite tired"
	case percent >= 40:
		return "need to rest"
	case percent >= 20:
		return "need a good night of sleep"
	}
	return "are too tired, you can't even blink your eyes"
}

// HungerCondition describes hunger in the second person.
func (c *Character) HungerCondition() string {
	switch {
	case c.Hunger >= 90:
		return "are not hungry"
	case c.Hunger >= 60:
		return "are quite hungry"
	case c.Hunger >= 30:
		return "are hungry"
	}
	return "are dying of hunger"
}

// ThirstCondition describes thirst in the second person.
func (c *Character) ThirstCondition() string {
	switch {
	case c.Thirst >= 90:
		return "are not thirsty"
	case c.Thirst >= 60:
		return "are quite thirsty"
	case c.Thirst >= 30:
		return "are thirsty"
	}
	return "are dying of thirst"
}

func percentOf(v, maximum int) int {
	if maximum <= 0 {
		return 0
	}
	return 100 * v / maximum
}
