// Package combat implements the opponent tracker and the attack arithmetic
// shared by melee and ranged combat rounds.
package combat

// Kind is the sub-type of a combat action.
type Kind int

const (
	BasicMeleeAttack Kind = iota
	BasicRangedAttack
	Flee
)

// String returns a human-readable combat kind label.
func (k Kind) String() string {
	switch k {
	case BasicMeleeAttack:
		return "fighting"
	case BasicRangedAttack:
		return "firing"
	case Flee:
		return "fleeing"
	default:
		return "unknown"
	}
}

// Hand identifies the weapon hand for the dual-wield penalty.
type Hand int

const (
	MainHand Hand = iota
	OffHand
)

// Roller is the subset of dice.Roller used by the resolver.
type Roller interface {
	D20() int
	Between(lo, hi int) int
}

// AttackResult holds the outcome of a single weapon swing or shot.
type AttackResult struct {
	// Natural is the raw d20 result.
	Natural int
	// Roll is Natural after the dual-wield penalty.
	Roll int
	// ArmorClass is the defender's AC.
	ArmorClass int
	Hit        bool
	Critical   bool
	// Damage is the final damage after bonuses and critical doubling.
	Damage int
}
