package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/HexColors60/RadMud/internal/game/combat"
	"github.com/HexColors60/RadMud/internal/game/entity"
)

// portion is the share of a resource stack a schematic consumes.
type portion struct {
	item     entity.ID
	resource string
	quantity int
}

type buildPayload struct {
	building    *entity.Building
	production  *entity.Production
	item        entity.ID
	tools       []entity.ID
	ingredients []portion
	time        int
}

// NewBuild resolves the building item, tools and ingredients of building in
// the belongings of actor.
//
// Postcondition: Returns a *CheckError naming the first missing piece.
func (w *World) NewBuild(actor entity.ID, building *entity.Building) (*Action, error) {
	item, ok := w.findHeld(actor, func(it *entity.Item) bool { return it.Model.Vnum == building.Model })
	if !ok {
		model, _ := w.catalogue.Model(building.Model)
		name := "the building material"
		if model != nil {
			name = model.Name
		}
		return nil, refuse("You don't have %s.", name)
	}
	tools, err := w.resolveTools(actor, building.Tools)
	if err != nil {
		return nil, err
	}
	ingredients, err := w.resolveIngredients(actor, building.Ingredients)
	if err != nil {
		return nil, err
	}
	a := w.newAction(actor, KindBuild)
	a.build = &buildPayload{
		building:    building,
		item:        item.ID,
		tools:       tools,
		ingredients: ingredients,
		time:        building.Time,
	}
	a.resetSeconds(max(1, building.Time))
	return a, nil
}

// NewCraft resolves the tools and ingredients of production in the
// belongings of actor.
//
// Postcondition: Returns a *CheckError naming the first missing piece.
func (w *World) NewCraft(actor entity.ID, production *entity.Production) (*Action, error) {
	tools, err := w.resolveTools(actor, production.Tools)
	if err != nil {
		return nil, err
	}
	ingredients, err := w.resolveIngredients(actor, production.Ingredients)
	if err != nil {
		return nil, err
	}
	a := w.newAction(actor, KindCraft)
	a.build = &buildPayload{
		production:  production,
		tools:       tools,
		ingredients: ingredients,
		time:        production.Time,
	}
	a.resetSeconds(max(1, production.Time))
	return a, nil
}

func (w *World) findHeld(actor entity.ID, match func(*entity.Item) bool) (*entity.Item, bool) {
	ids := append(w.arena.Inventory(actor), w.arena.Equipment(actor)...)
	for _, id := range ids {
		if item, ok := w.arena.Item(id); ok && match(item) {
			return item, true
		}
	}
	return nil, false
}

func (w *World) resolveTools(actor entity.ID, kinds []string) ([]entity.ID, error) {
	out := make([]entity.ID, 0, len(kinds))
	for _, kind := range kinds {
		tool, ok := w.findHeld(actor, func(it *entity.Item) bool {
			spec, err := it.Model.Tool()
			return err == nil && spec.Type == kind && !containsID(out, it.ID)
		})
		if !ok {
			return nil, refuse("You don't have the right tool: %s.", kind)
		}
		out = append(out, tool.ID)
	}
	return out, nil
}

func (w *World) resolveIngredients(actor entity.ID, ingredients map[string]int) ([]portion, error) {
	var out []portion
	for _, resource := range entity.SortedIngredients(ingredients) {
		needed := ingredients[resource]
		for _, id := range w.arena.Inventory(actor) {
			if needed <= 0 {
				break
			}
			item, ok := w.arena.Item(id)
			if !ok {
				continue
			}
			spec, err := item.Model.Resource()
			if err != nil || spec.Type != resource {
				continue
			}
			take := min(needed, max(1, item.Quantity))
			out = append(out, portion{item: id, resource: resource, quantity: take})
			needed -= take
		}
		if needed > 0 {
			return nil, refuse("You don't have enough of %s.", resource)
		}
	}
	return out, nil
}

func containsID(ids []entity.ID, id entity.ID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func (a *Action) checkBuild(actor *entity.Character) error {
	p := a.build
	if p.building == nil && p.production == nil {
		return refuse("You don't know what to make.")
	}
	if p.building != nil {
		if _, ok := a.world.held(actor.ID, p.item); !ok {
			return refuse("You don't have the building material anymore.")
		}
		if len(p.tools) == 0 {
			return refuse("You don't have the right tools.")
		}
	}
	for _, id := range p.tools {
		if _, ok := a.world.held(actor.ID, id); !ok {
			return refuse("You don't have the right tools.")
		}
	}
	if combat.StaminaCost(actor, a.world.arena, nil) > actor.Stamina() {
		return refuse("You are too tired right now.")
	}
	return nil
}

func (a *Action) performBuild(actor *entity.Character) Status {
	w, p := a.world, a.build
	if err := a.checkBuild(actor); err != nil {
		return a.fail(err)
	}
	for _, share := range p.ingredients {
		item, ok := w.held(actor.ID, share.item)
		if !ok || max(1, item.Quantity) < share.quantity {
			return a.fail(refuse("You don't have enough of %s.", share.resource))
		}
	}
	actor.RemStamina(combat.StaminaCost(actor, w.arena, nil), true)

	var outcome string
	if p.building != nil {
		item, _ := w.arena.Item(p.item)
		outcome = item.Name()
		if err := w.arena.PlaceItem(item.ID, actor.Room); err != nil {
			w.fatal("place building", err)
			return Error
		}
		w.persistItems("build", item.ID)
	}
	for _, share := range p.ingredients {
		item, _ := w.arena.Item(share.item)
		if max(1, item.Quantity) == share.quantity {
			w.arena.DestroyItem(item.ID)
			w.persistDeleted("consume ingredient", item.ID)
			continue
		}
		item.Quantity -= share.quantity
		w.persistItems("consume ingredient", item.ID)
	}
	for _, id := range p.tools {
		tool, ok := w.arena.Item(id)
		if !ok {
			continue
		}
		if tool.Degrade(1) {
			w.Sendf(actor.ID, "%s falls into pieces.", entity.Capitalize(tool.Name()))
			w.arena.DestroyItem(id)
			w.persistDeleted("tool broken", id)
			continue
		}
		w.persistItems("tool wear", id)
	}
	if p.building != nil {
		w.Sendf(actor.ID, "You have finished building %s.", outcome)
		w.Broadcast(actor.Room, fmt.Sprintf("%s has finished building %s.", entity.Capitalize(actor.Name), outcome), actor.ID)
		return Finished
	}
	return a.finishCraft(actor)
}

func (a *Action) finishCraft(actor *entity.Character) Status {
	w, p := a.world, a.build.production
	model, ok := w.catalogue.Model(p.Outcome)
	if !ok {
		w.fatal("production outcome missing", entity.ErrNotFound, zap.String("production", p.Name), zap.Int("model", p.Outcome))
		return Error
	}
	quantity := max(1, p.Quantity)
	var made []*entity.Item
	if model.Flags.Has(entity.FlagStackable) {
		made = append(made, w.arena.NewItem(model, quantity))
	} else {
		for range quantity {
			made = append(made, w.arena.NewItem(model, 1))
		}
	}
	dropped := false
	for _, item := range made {
		item.Maker = actor.Name
		var err error
		if w.arena.CarryingWeight(actor.ID)+w.arena.ItemWeight(item.ID) > actor.MaxCarry() {
			err = w.arena.PlaceItem(item.ID, actor.Room)
			dropped = true
		} else {
			err = w.arena.GiveItem(actor.ID, item.ID)
		}
		if err != nil {
			w.fatal("place crafted item", err, zap.Uint64("item", uint64(item.ID)), zap.String("maker", actor.Name))
		}
		w.persistNewItem("craft", item)
	}
	w.Sendf(actor.ID, "You have finished %s %s.", p.Verb, made[0].Name())
	if dropped {
		w.Send(actor.ID, "You are carrying too much, so you leave it on the ground.")
	}
	return Finished
}
