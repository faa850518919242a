package engine

import (
	"github.com/HexColors60/RadMud/internal/game/entity"
)

type loadPayload struct {
	magazine   entity.ID
	projectile entity.ID
	amount     int
}

type unloadPayload struct {
	item entity.ID
}

type reloadPayload struct {
	weapon   entity.ID
	magazine entity.ID
}

// NewLoad builds the loading of amount projectiles into a magazine.
func (w *World) NewLoad(actor, magazine, projectile entity.ID, amount int) *Action {
	a := w.newAction(actor, KindLoad)
	a.load = &loadPayload{magazine: magazine, projectile: projectile, amount: amount}
	a.resetSeconds(1 + max(0, amount)/2)
	return a
}

// NewUnload builds the emptying of a magazine or a ranged weapon.
func (w *World) NewUnload(actor, item entity.ID) *Action {
	a := w.newAction(actor, KindUnload)
	a.unload = &unloadPayload{item: item}
	a.resetSeconds(1)
	return a
}

// NewReload builds the insertion of a magazine into a ranged weapon.
func (w *World) NewReload(actor, weapon, magazine entity.ID) *Action {
	a := w.newAction(actor, KindReload)
	a.reload = &reloadPayload{weapon: weapon, magazine: magazine}
	a.resetSeconds(2)
	return a
}

// held returns the item when actor carries or wears it.
func (w *World) held(actor, id entity.ID) (*entity.Item, bool) {
	item, ok := w.arena.Item(id)
	if !ok {
		return nil, false
	}
	loc := w.arena.Location(id)
	if (loc.Kind != entity.InInventory && loc.Kind != entity.InEquipment) || loc.Owner != actor {
		return nil, false
	}
	return item, true
}

// loaded returns the first content of container, false when empty.
func (w *World) loaded(container entity.ID) (*entity.Item, bool) {
	for _, id := range w.arena.Contents(container) {
		if item, ok := w.arena.Item(id); ok {
			return item, true
		}
	}
	return nil, false
}

// chamberedProjectile returns the projectile stack of the magazine loaded
// in weapon.
func (w *World) chamberedProjectile(weapon *entity.Item) (*entity.Item, bool) {
	magazine, ok := w.loaded(weapon.ID)
	if !ok || magazine.Model.Kind != entity.KindMagazine {
		return nil, false
	}
	projectile, ok := w.loaded(magazine.ID)
	if !ok || projectile.Quantity <= 0 {
		return nil, false
	}
	return projectile, true
}

// consumeProjectile spends one unit of the stack.
func (w *World) consumeProjectile(projectile *entity.Item) {
	if projectile.Quantity > 1 {
		projectile.Quantity--
		w.persistItems("consume projectile", projectile.ID)
		return
	}
	w.arena.DestroyItem(projectile.ID)
	w.persistDeleted("consume projectile", projectile.ID)
}

func (a *Action) checkLoad(actor *entity.Character) error {
	p := a.load
	magazine, ok := a.world.held(actor.ID, p.magazine)
	if !ok {
		return refuse("You don't have that magazine.")
	}
	projectile, ok := a.world.held(actor.ID, p.projectile)
	if !ok {
		return refuse("You don't have those projectiles.")
	}
	mspec, err := magazine.Model.Magazine()
	if err != nil {
		return refuse("%s is not a magazine.", entity.Capitalize(magazine.Name()))
	}
	pspec, err := projectile.Model.Projectile()
	if err != nil {
		return refuse("%s cannot be loaded.", entity.Capitalize(projectile.Name()))
	}
	if mspec.Projectile != pspec.Kind {
		return refuse("%s cannot hold %s.", entity.Capitalize(magazine.Name()), projectile.Model.Name)
	}
	if p.amount <= 0 {
		return refuse("You have to load at least one projectile.")
	}
	if p.amount > projectile.Quantity {
		return refuse("You don't have that many projectiles.")
	}
	inside := 0
	if current, ok := a.world.loaded(magazine.ID); ok {
		if current.Model != projectile.Model {
			return refuse("%s already contains %s.", entity.Capitalize(magazine.Name()), current.Model.Name)
		}
		inside = current.Quantity
	}
	if mspec.Capacity > 0 && inside+p.amount > mspec.Capacity {
		return refuse("%s can hold only %d more.", entity.Capitalize(magazine.Name()), mspec.Capacity-inside)
	}
	return nil
}

func (a *Action) performLoad(actor *entity.Character) Status {
	if err := a.checkLoad(actor); err != nil {
		return a.fail(err)
	}
	w, p := a.world, a.load
	magazine, _ := w.arena.Item(p.magazine)
	projectile, _ := w.arena.Item(p.projectile)
	name := projectile.Model.Name
	if spec, err := projectile.Model.Projectile(); err == nil && spec.Kind != "" {
		name = spec.Kind
		if p.amount != 1 {
			name += "s"
		}
	}
	if current, ok := w.loaded(magazine.ID); ok {
		current.Quantity += p.amount
		if p.amount >= projectile.Quantity {
			w.arena.DestroyItem(projectile.ID)
			w.persistDeleted("load", projectile.ID)
		} else {
			projectile.Quantity -= p.amount
			w.persistItems("load", projectile.ID)
		}
		w.persistItems("load", current.ID)
	} else {
		part, err := w.arena.Split(projectile.ID, p.amount)
		if err != nil {
			return a.fail(refuse("You cannot load %s.", name))
		}
		if part.ID != projectile.ID {
			w.persistNewItem("load", part)
			w.persistItems("load", projectile.ID)
		}
		if err := w.arena.PutInside(magazine.ID, part.ID); err != nil {
			w.fatal("load magazine", err)
			return Error
		}
		w.persistItems("load", part.ID)
	}
	w.Sendf(actor.ID, "You have loaded %s with %d %s.", magazine.Model.Name, p.amount, name)
	return Finished
}

func (a *Action) checkUnload(actor *entity.Character) error {
	item, ok := a.world.held(actor.ID, a.unload.item)
	if !ok {
		return refuse("You don't have that item.")
	}
	if item.Model.Kind != entity.KindMagazine && item.Model.Kind != entity.KindRanged {
		return refuse("%s cannot be unloaded.", entity.Capitalize(item.Name()))
	}
	if _, ok := a.world.loaded(item.ID); !ok {
		return refuse("%s is already empty.", entity.Capitalize(item.Name()))
	}
	return nil
}

func (a *Action) performUnload(actor *entity.Character) Status {
	if err := a.checkUnload(actor); err != nil {
		return a.fail(err)
	}
	w := a.world
	item, _ := w.arena.Item(a.unload.item)
	for _, id := range w.arena.Contents(item.ID) {
		if err := w.arena.GiveItem(actor.ID, id); err != nil {
			w.fatal("unload", err)
			return Error
		}
		w.persistItems("unload", id)
	}
	w.Sendf(actor.ID, "You have unloaded %s.", item.Name())
	return Finished
}

func (a *Action) checkReload(actor *entity.Character) error {
	p := a.reload
	weapon, ok := a.world.held(actor.ID, p.weapon)
	if !ok {
		return refuse("You don't have that weapon.")
	}
	spec, err := weapon.Model.Ranged()
	if err != nil {
		return refuse("%s cannot be reloaded.", entity.Capitalize(weapon.Name()))
	}
	magazine, ok := a.world.held(actor.ID, p.magazine)
	if !ok {
		return refuse("You don't have that magazine.")
	}
	mspec, err := magazine.Model.Magazine()
	if err != nil || mspec.Kind != spec.Magazine {
		return refuse("%s does not fit %s.", entity.Capitalize(magazine.Name()), weapon.Name())
	}
	return nil
}

func (a *Action) performReload(actor *entity.Character) Status {
	if err := a.checkReload(actor); err != nil {
		return a.fail(err)
	}
	w, p := a.world, a.reload
	weapon, _ := w.arena.Item(p.weapon)
	magazine, _ := w.arena.Item(p.magazine)
	for _, id := range w.arena.Contents(weapon.ID) {
		if err := w.arena.GiveItem(actor.ID, id); err != nil {
			w.fatal("reload", err)
			return Error
		}
		w.persistItems("reload", id)
	}
	if err := w.arena.PutInside(weapon.ID, magazine.ID); err != nil {
		w.fatal("reload", err)
		return Error
	}
	w.persistItems("reload", magazine.ID)
	w.Sendf(actor.ID, "You have reloaded %s with %s.", weapon.Name(), magazine.Name())
	return Finished
}
