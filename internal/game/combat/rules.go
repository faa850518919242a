package combat

import (
	"math"

	"github.com/HexColors60/RadMud/internal/game/entity"
)

const (
	mainHandPenalty = 6
	offHandPenalty  = 10
)

// Wielded is a weapon held in one hand.
type Wielded struct {
	Item *entity.Item
	Slot entity.Slot
	Hand Hand
}

// ActiveWeapons returns the weapons the character can attack with, right
// hand first. ranged selects ranged weapons instead of melee ones.
func ActiveWeapons(c *entity.Character, arena *entity.Arena, ranged bool) []Wielded {
	want := entity.KindWeapon
	if ranged {
		want = entity.KindRanged
	}
	var out []Wielded
	for i, slot := range []entity.Slot{entity.SlotRightHand, entity.SlotLeftHand} {
		item, ok := arena.Equipped(c.ID, slot)
		if !ok || item.Model.Kind != want {
			continue
		}
		out = append(out, Wielded{Item: item, Slot: slot, Hand: Hand(i)})
	}
	return out
}

// DamageRange returns the min and max damage of a melee or ranged weapon.
func DamageRange(item *entity.Item) (lo, hi int, err error) {
	if item.Model.Kind == entity.KindRanged {
		spec, err := item.Model.Ranged()
		if err != nil {
			return 0, 0, err
		}
		return spec.MinDamage, spec.MaxDamage, nil
	}
	spec, err := item.Model.Weapon()
	if err != nil {
		return 0, 0, err
	}
	return spec.MinDamage, spec.MaxDamage, nil
}

// DualWieldPenalty lowers a natural roll when more than one weapon attacks.
// A natural 20 is never penalized.
//
// Postcondition: Returns a value in [0, natural].
func DualWieldPenalty(natural int, hand Hand, dualWield bool) int {
	if !dualWield || natural == 20 {
		return natural
	}
	penalty := mainHandPenalty
	if hand == OffHand {
		penalty = offHandPenalty
	}
	return max(0, natural-penalty)
}

// IsHit reports whether roll beats ac. A natural 20 always hits.
func IsHit(roll, natural, ac int) bool {
	return natural == 20 || roll >= ac
}

// ArmorClass is 10 plus worn armor absorption, shield parry in either hand,
// and the agility modifier.
func ArmorClass(c *entity.Character, arena *entity.Arena) int {
	ac := 10
	for _, id := range arena.Equipment(c.ID) {
		item, ok := arena.Item(id)
		if !ok {
			continue
		}
		switch item.Model.Kind {
		case entity.KindArmor:
			if spec, err := item.Model.Armor(); err == nil {
				ac += spec.DamageAbsorption
			}
		case entity.KindShield:
			if item.Slot == entity.SlotRightHand || item.Slot == entity.SlotLeftHand {
				if spec, err := item.Model.Shield(); err == nil {
					ac += spec.Parry
				}
			}
		}
	}
	return ac + c.Modifier(entity.Agility)
}

// TwoHandedBonus is STRmod + STRmod/2 when a single two-handed weapon is
// active, zero otherwise.
func TwoHandedBonus(c *entity.Character, weapons []Wielded) int {
	if len(weapons) != 1 || !weapons[0].Item.Model.Flags.Has(entity.FlagTwoHand) {
		return 0
	}
	mod := c.Modifier(entity.Strength)
	return mod + mod/2
}

func log10Positive(v float64) float64 {
	if v <= 0 {
		return 0
	}
	return math.Log10(v)
}

// StaminaCost is the stamina consumed by an action:
// 1 - logSTR + log10(weight) + log10(carried), plus log10(weaponWeight) when
// weapon is not nil. Placed weapons cost nothing.
//
// Postcondition: Returns >= 0.
func StaminaCost(c *entity.Character, arena *entity.Arena, weapon *entity.Item) int {
	if weapon != nil && weapon.Model.Flags.Has(entity.FlagPlaced) {
		return 0
	}
	result := 1.0 -
		float64(c.Log(entity.Strength, 0, 1)) +
		log10Positive(float64(c.Weight)) +
		log10Positive(float64(arena.CarryingWeight(c.ID)))
	if weapon != nil {
		result += log10Positive(float64(arena.ItemWeight(weapon.ID)))
	}
	return int(math.Max(0, result))
}

// Cooldown is the number of seconds between two rounds of kind:
// 5 - logSTR - logAGI + WGT + CAR + max(RHD, LHD). Flee omits the weapon term.
//
// Postcondition: Returns >= 1.
func Cooldown(c *entity.Character, arena *entity.Arena, kind Kind) int {
	wgt := 0.8
	if c.Weight > 0 {
		wgt = math.Log10(math.Min(float64(c.Weight), 320))
	}
	car := log10Positive(math.Min(float64(arena.CarryingWeight(c.ID)), 300))
	result := 5.0 -
		float64(c.Log(entity.Strength, 0, 1)) -
		float64(c.Log(entity.Agility, 0, 1)) +
		wgt + car
	if kind != Flee {
		heaviest := 0.0
		for _, w := range ActiveWeapons(c, arena, kind == BasicRangedAttack) {
			heaviest = math.Max(heaviest, log10Positive(math.Min(float64(arena.ItemWeight(w.Item.ID)), 40)))
		}
		result += heaviest
	}
	return max(1, int(result))
}

// AttackInput carries everything ResolveAttack needs about one weapon.
type AttackInput struct {
	Hand       Hand
	DualWield  bool
	ArmorClass int
	MinDamage  int
	MaxDamage  int
	// Bonus is added to the damage roll before critical doubling.
	Bonus int
}

// ResolveAttack rolls a natural d20, applies the dual-wield penalty and, on a
// hit, rolls damage in [MinDamage, MaxDamage] plus Bonus. A natural 20
// doubles the damage and marks the hit critical.
//
// Precondition: r must be non-nil.
// Postcondition: Damage is zero on a miss and >= 0 on a hit.
func ResolveAttack(r Roller, in AttackInput) AttackResult {
	natural := r.D20()
	res := AttackResult{
		Natural:    natural,
		Roll:       DualWieldPenalty(natural, in.Hand, in.DualWield),
		ArmorClass: in.ArmorClass,
	}
	res.Hit = IsHit(res.Roll, natural, in.ArmorClass)
	if !res.Hit {
		return res
	}
	damage := r.Between(in.MinDamage, in.MaxDamage) + in.Bonus
	if natural == 20 {
		damage *= 2
		res.Critical = true
	}
	res.Damage = max(0, damage)
	return res
}
