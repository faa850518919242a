package entity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSword() *Model {
	return NewWeaponModel(10, "a short sword", 4, WeaponSpec{MinDamage: 3, MaxDamage: 8}, 0)
}

func TestArena_CharacterPlacement(t *testing.T) {
	a := NewArena()
	c1 := NewCharacter("Ayla", testRace, Abilities{})
	c1.Room = 100
	c2 := NewCharacter("Bren", testRace, Abilities{})
	id1 := a.AddCharacter(c1)
	id2 := a.AddCharacter(c2)
	assert.NotZero(t, id1)
	assert.NotEqual(t, id1, id2)
	assert.Equal(t, []ID{id1}, a.CharactersIn(100))

	require.NoError(t, a.PlaceCharacter(id2, 100))
	assert.Equal(t, []ID{id1, id2}, a.CharactersIn(100))

	require.NoError(t, a.PlaceCharacter(id1, 101))
	assert.Equal(t, []ID{id2}, a.CharactersIn(100))
	assert.Equal(t, []ID{id1}, a.CharactersIn(101))

	a.DetachCharacter(id1)
	assert.Empty(t, a.CharactersIn(101))
	assert.Zero(t, c1.Room)

	err := a.PlaceCharacter(999, 100)
	assert.True(t, errors.Is(err, ErrNotFound))

	found, ok := a.FindCharacterIn(100, "bre", 0)
	require.True(t, ok)
	assert.Equal(t, id2, found.ID)
	_, ok = a.FindCharacterIn(100, "bre", id2)
	assert.False(t, ok)
}

func TestArena_ItemLocationsAreExclusive(t *testing.T) {
	a := NewArena()
	owner := a.AddCharacter(NewCharacter("Ayla", testRace, Abilities{}))
	sword := a.NewItem(newSword(), 1)

	require.NoError(t, a.PlaceItem(sword.ID, 100))
	assert.Equal(t, []ID{sword.ID}, a.ItemsIn(100))
	assert.Equal(t, InRoom, a.Location(sword.ID).Kind)

	require.NoError(t, a.GiveItem(owner, sword.ID))
	assert.Empty(t, a.ItemsIn(100))
	assert.Equal(t, []ID{sword.ID}, a.Inventory(owner))

	require.NoError(t, a.Equip(owner, SlotRightHand, sword.ID))
	assert.Empty(t, a.Inventory(owner))
	held, ok := a.Equipped(owner, SlotRightHand)
	require.True(t, ok)
	assert.Equal(t, sword.ID, held.ID)
	assert.Equal(t, SlotRightHand, sword.Slot)

	other := a.NewItem(newSword(), 1)
	assert.Error(t, a.Equip(owner, SlotRightHand, other.ID))

	a.Detach(sword.ID)
	assert.Equal(t, SlotNone, sword.Slot)
	assert.Equal(t, Nowhere, a.Location(sword.ID).Kind)
	_, ok = a.Equipped(owner, SlotRightHand)
	assert.False(t, ok)
}

func TestArena_ContainersAndWeight(t *testing.T) {
	a := NewArena()
	owner := a.AddCharacter(NewCharacter("Ayla", testRace, Abilities{}))
	bag := a.NewItem(NewContainerModel(30, "a leather bag", 1, ContainerSpec{MaxWeight: 20}), 1)
	arrows := a.NewItem(NewProjectileModel(31, "an arrow", 1, ProjectileSpec{Kind: "arrow"}), 12)
	sword := a.NewItem(newSword(), 1)

	require.NoError(t, a.PutInside(bag.ID, arrows.ID))
	require.NoError(t, a.GiveItem(owner, bag.ID))
	require.NoError(t, a.Equip(owner, SlotRightHand, sword.ID))
	assert.Error(t, a.PutInside(bag.ID, bag.ID))

	assert.Equal(t, 13, a.ItemWeight(bag.ID))
	assert.Equal(t, 17, a.CarryingWeight(owner))

	a.DestroyItem(bag.ID)
	_, ok := a.Item(arrows.ID)
	assert.False(t, ok, "contents are destroyed with the container")
	assert.Empty(t, a.Inventory(owner))
	assert.Equal(t, 4, a.CarryingWeight(owner))
}

func TestArena_Split(t *testing.T) {
	a := NewArena()
	arrows := a.NewItem(NewProjectileModel(31, "an arrow", 1, ProjectileSpec{Kind: "arrow"}), 10)
	require.NoError(t, a.PlaceItem(arrows.ID, 100))

	part, err := a.Split(arrows.ID, 4)
	require.NoError(t, err)
	assert.NotEqual(t, arrows.ID, part.ID)
	assert.Equal(t, 4, part.Quantity)
	assert.Equal(t, 6, arrows.Quantity)
	assert.Equal(t, InRoom, a.Location(arrows.ID).Kind)

	whole, err := a.Split(arrows.ID, 6)
	require.NoError(t, err)
	assert.Equal(t, arrows.ID, whole.ID)
	assert.Equal(t, Nowhere, a.Location(arrows.ID).Kind)

	_, err = a.Split(arrows.ID, 0)
	assert.Error(t, err)
}

func TestArena_RemoveCharacterDestroysHeldItems(t *testing.T) {
	a := NewArena()
	c := NewCharacter("gob", testRace, Abilities{})
	c.Room = 5
	id := a.AddCharacter(c)
	sword := a.NewItem(newSword(), 1)
	require.NoError(t, a.GiveItem(id, sword.ID))

	a.RemoveCharacter(id)
	_, ok := a.Character(id)
	assert.False(t, ok)
	_, ok = a.Item(sword.ID)
	assert.False(t, ok)
	assert.Empty(t, a.CharactersIn(5))
}

func TestArena_FindItems(t *testing.T) {
	a := NewArena()
	owner := a.AddCharacter(NewCharacter("Ayla", testRace, Abilities{}))
	sword := a.NewItem(newSword(), 1)
	require.NoError(t, a.GiveItem(owner, sword.ID))

	found, ok := a.FindInInventory(owner, "sword")
	require.True(t, ok)
	assert.Equal(t, sword.ID, found.ID)
	_, ok = a.FindInInventory(owner, "axe")
	assert.False(t, ok)
	_, ok = a.FindInRoom(1, "sword")
	assert.False(t, ok)
}

func TestArena_ReserveKeepsRestoredIDs(t *testing.T) {
	a := NewArena()
	a.RestoreItem(&Item{ID: 40, Model: newSword(), Quantity: 1})
	next := a.NewItem(newSword(), 1)
	assert.Equal(t, ID(41), next.ID)
}

func TestItem_NameWeightDecay(t *testing.T) {
	corpse := &Item{Model: NewCorpseModel(900, "a corpse", 40), Quantity: 1, Condition: 100, CustomName: "the corpse of Ayla", CustomWeight: 70}
	assert.Equal(t, "the corpse of Ayla", corpse.Name())
	assert.Equal(t, 70, corpse.Weight())
	assert.False(t, corpse.Decay())
	assert.False(t, corpse.Decay())
	assert.True(t, corpse.Decay())

	stack := &Item{Model: NewProjectileModel(31, "an arrow", 2, ProjectileSpec{}), Quantity: 3}
	assert.Equal(t, "an arrow (3)", stack.Name())
	assert.Equal(t, 6, stack.Weight())
	assert.False(t, stack.Decay(), "models without decay never rot")
}

func TestModel_TypedAccessors(t *testing.T) {
	sword := newSword()
	spec, err := sword.Weapon()
	require.NoError(t, err)
	assert.Equal(t, 8, spec.MaxDamage)
	assert.True(t, sword.Flags.Has(FlagWieldable))
	assert.True(t, sword.IsWeapon())

	_, err = sword.Armor()
	assert.ErrorIs(t, err, ErrWrongModel)
	_, err = sword.Ranged()
	assert.ErrorIs(t, err, ErrWrongModel)
	assert.True(t, sword.Matches("SHO"))
	assert.False(t, sword.Matches("a"))
}
