package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/HexColors60/RadMud/internal/game/engine"
	"github.com/HexColors60/RadMud/internal/game/entity"
	"github.com/HexColors60/RadMud/internal/game/world"
)

// ErrUnknownActor is returned by Dispatch when the actor is not in the arena.
var ErrUnknownActor = errors.New("command: unknown actor")

type handlerFunc func(c *entity.Character, cmd *Command, p ParseResult) error

// Dispatcher resolves input lines and applies them to the world on behalf
// of a character. It must only be used from the game loop goroutine.
type Dispatcher struct {
	world    *engine.World
	registry *Registry
	logger   *zap.Logger
	handlers map[string]handlerFunc
}

// NewDispatcher creates a Dispatcher over w using the commands of registry.
//
// Precondition: w, registry and logger must be non-nil.
func NewDispatcher(w *engine.World, registry *Registry, logger *zap.Logger) *Dispatcher {
	d := &Dispatcher{world: w, registry: registry, logger: logger}
	d.handlers = map[string]handlerFunc{
		HandlerMove:      d.move,
		HandlerLook:      d.look,
		HandlerMap:       d.drawMap,
		HandlerPosture:   d.posture,
		HandlerStop:      d.stop,
		HandlerKill:      d.kill,
		HandlerFlee:      d.flee,
		HandlerScout:     d.scout,
		HandlerOpen:      d.open,
		HandlerClose:     d.close,
		HandlerAim:       d.aim,
		HandlerFire:      d.fire,
		HandlerLoad:      d.load,
		HandlerUnload:    d.unload,
		HandlerReload:    d.reload,
		HandlerTake:      d.take,
		HandlerDrop:      d.drop,
		HandlerWield:     d.wield,
		HandlerWear:      d.wear,
		HandlerRemove:    d.remove,
		HandlerPut:       d.put,
		HandlerGive:      d.give,
		HandlerEat:       d.eat,
		HandlerDrink:     d.drink,
		HandlerInventory: d.inventory,
		HandlerEquipment: d.equipment,
		HandlerBuild:     d.build,
		HandlerCraft:     d.craft,
		HandlerSay:       d.say,
		HandlerEmote:     d.emote,
		HandlerScore:     d.score,
		HandlerHelp:      d.help,
		HandlerQuit:      d.quit,
	}
	return d
}

// errQuit is returned by the quit handler to end the session.
var errQuit = errors.New("quit")

// Dispatch parses line and runs it for the character id. Expected failures
// are reported to the character; unexpected ones are logged and reported as
// a generic failure.
//
// Postcondition: quit is true when the character asked to leave the game.
// err is non-nil only for ErrUnknownActor.
func (d *Dispatcher) Dispatch(id entity.ID, line string) (quit bool, err error) {
	c, ok := d.world.Character(id)
	if !ok {
		return false, fmt.Errorf("%w: %d", ErrUnknownActor, id)
	}
	p := Parse(line)
	if p.Command == "" {
		return false, nil
	}
	cmd, ok := d.registry.Resolve(p.Command)
	if !ok {
		d.world.Send(id, "Huh?")
		return false, nil
	}
	if !cmd.WhileDead && d.world.IsDead(id) {
		d.world.Send(id, "You are dead. Wait to be revived.")
		return false, nil
	}
	handler, ok := d.handlers[cmd.Handler]
	if !ok {
		d.logger.Error("command without handler", zap.String("command", cmd.Name), zap.String("handler", cmd.Handler))
		d.world.Send(id, "Huh?")
		return false, nil
	}

	err = handler(c, cmd, p)
	var check *engine.CheckError
	switch {
	case err == nil:
	case errors.Is(err, errQuit):
		return true, nil
	case errors.As(err, &check):
		if check.Message != "" {
			d.world.Send(id, check.Message)
		}
	default:
		d.logger.Error("command failed",
			zap.String("command", cmd.Name),
			zap.String("character", c.Name),
			zap.Error(err),
		)
		d.world.Send(id, "Something went wrong.")
	}
	return false, nil
}

func refuse(format string, args ...any) error {
	return &engine.CheckError{Message: fmt.Sprintf(format, args...)}
}

func usage(cmd *Command) error {
	return refuse("Usage: %s %s", cmd.Name, cmd.Usage)
}

// reply sends msg to c when err is nil.
func (d *Dispatcher) reply(c *entity.Character, msg string, err error) error {
	if err != nil {
		return err
	}
	d.world.Send(c.ID, msg)
	return nil
}

// start checks a and installs it as the current action of c.
func (d *Dispatcher) start(c *entity.Character, a *engine.Action, msg string) error {
	if d.world.InCombat(c.ID) {
		return refuse("You cannot do that while fighting.")
	}
	if err := a.Check(); err != nil {
		return err
	}
	d.world.SetAction(a)
	if msg != "" {
		d.world.Send(c.ID, msg)
	}
	return nil
}

// held finds a carried or equipped item of c.
func (d *Dispatcher) held(c *entity.Character, word string) (*entity.Item, error) {
	arena := d.world.Arena()
	if it, ok := arena.FindInInventory(c.ID, word); ok {
		return it, nil
	}
	if it, ok := arena.FindInEquipment(c.ID, word); ok {
		return it, nil
	}
	return nil, refuse("You don't have %s.", word)
}

func (d *Dispatcher) move(c *entity.Character, cmd *Command, _ ParseResult) error {
	dir, ok := world.ParseDirection(cmd.Name)
	if !ok {
		return fmt.Errorf("command %q is not a direction", cmd.Name)
	}
	return d.start(c, d.world.NewMove(c.ID, dir), "")
}

func (d *Dispatcher) look(c *entity.Character, _ *Command, _ ParseResult) error {
	d.world.Send(c.ID, d.world.Look(c))
	return nil
}

func (d *Dispatcher) drawMap(c *entity.Character, _ *Command, _ ParseResult) error {
	m, err := d.world.DrawMap(c)
	if errors.Is(err, engine.ErrNoRoom) {
		return refuse("You are nowhere.")
	}
	return d.reply(c, m, err)
}

func (d *Dispatcher) posture(c *entity.Character, cmd *Command, _ ParseResult) error {
	p, err := entity.ParsePosture(cmd.Name)
	if err != nil {
		return err
	}
	msg, err := d.world.SetPosture(c, p)
	return d.reply(c, msg, err)
}

func (d *Dispatcher) stop(c *entity.Character, _ *Command, _ ParseResult) error {
	if d.world.InCombat(c.ID) {
		return refuse("You cannot stop fighting, try to flee.")
	}
	msg := d.world.StopAction(c.ID)
	if msg == "" {
		return refuse("You are not doing anything.")
	}
	d.world.Send(c.ID, msg)
	return nil
}

func (d *Dispatcher) kill(c *entity.Character, cmd *Command, p ParseResult) error {
	if len(p.Args) == 0 {
		return usage(cmd)
	}
	target, ok := d.world.Arena().FindCharacterIn(c.Room, p.Args[0], c.ID)
	if !ok {
		return refuse("You don't see %s here.", p.Args[0])
	}
	msg, err := d.world.Attack(c, target)
	return d.reply(c, msg, err)
}

func (d *Dispatcher) flee(c *entity.Character, _ *Command, _ ParseResult) error {
	msg, err := d.world.Flee(c)
	return d.reply(c, msg, err)
}

func (d *Dispatcher) scout(c *entity.Character, _ *Command, _ ParseResult) error {
	return d.start(c, d.world.NewScout(c.ID), "You start scouting the area...")
}

func (d *Dispatcher) open(c *entity.Character, cmd *Command, p ParseResult) error {
	if len(p.Args) == 0 {
		return usage(cmd)
	}
	msg, err := d.world.Open(c, p.Args[0])
	return d.reply(c, msg, err)
}

func (d *Dispatcher) close(c *entity.Character, cmd *Command, p ParseResult) error {
	if len(p.Args) == 0 {
		return usage(cmd)
	}
	msg, err := d.world.Close(c, p.Args[0])
	return d.reply(c, msg, err)
}

func (d *Dispatcher) aim(c *entity.Character, cmd *Command, p ParseResult) error {
	if len(p.Args) == 0 {
		return usage(cmd)
	}
	for _, other := range d.world.CharactersInSight(c, c.ViewDistance()) {
		if entity.NameMatches(other.Name, p.Args[0]) {
			return d.start(c, d.world.NewAim(c.ID, other.ID), fmt.Sprintf("You start aiming at %s...", other.Name))
		}
	}
	return refuse("You don't see %s.", p.Args[0])
}

func (d *Dispatcher) fire(c *entity.Character, _ *Command, _ ParseResult) error {
	msg, err := d.world.Fire(c)
	return d.reply(c, msg, err)
}

func (d *Dispatcher) load(c *entity.Character, cmd *Command, p ParseResult) error {
	if len(p.Args) < 2 {
		return usage(cmd)
	}
	magazine, err := d.held(c, p.Args[0])
	if err != nil {
		return err
	}
	projectile, err := d.held(c, p.Args[1])
	if err != nil {
		return err
	}
	amount := projectile.Quantity
	if len(p.Args) > 2 {
		if amount, err = strconv.Atoi(p.Args[2]); err != nil {
			return usage(cmd)
		}
	}
	a := d.world.NewLoad(c.ID, magazine.ID, projectile.ID, amount)
	return d.start(c, a, fmt.Sprintf("You start loading %s...", magazine.Name()))
}

func (d *Dispatcher) unload(c *entity.Character, cmd *Command, p ParseResult) error {
	if len(p.Args) == 0 {
		return usage(cmd)
	}
	item, err := d.held(c, p.Args[0])
	if err != nil {
		return err
	}
	return d.start(c, d.world.NewUnload(c.ID, item.ID), fmt.Sprintf("You start unloading %s...", item.Name()))
}

func (d *Dispatcher) reload(c *entity.Character, cmd *Command, p ParseResult) error {
	if len(p.Args) < 2 {
		return usage(cmd)
	}
	weapon, err := d.held(c, p.Args[0])
	if err != nil {
		return err
	}
	magazine, err := d.held(c, p.Args[1])
	if err != nil {
		return err
	}
	a := d.world.NewReload(c.ID, weapon.ID, magazine.ID)
	return d.start(c, a, fmt.Sprintf("You start reloading %s...", weapon.Name()))
}

func (d *Dispatcher) take(c *entity.Character, cmd *Command, p ParseResult) error {
	if len(p.Args) == 0 {
		return usage(cmd)
	}
	word, from, ok := pair(p.Args, "from")
	if !ok {
		word = p.Args[0]
	}
	msg, err := d.world.Take(c, word, from)
	return d.reply(c, msg, err)
}

func (d *Dispatcher) drop(c *entity.Character, cmd *Command, p ParseResult) error {
	if len(p.Args) == 0 {
		return usage(cmd)
	}
	msg, err := d.world.Drop(c, p.Args[0])
	return d.reply(c, msg, err)
}

func (d *Dispatcher) wield(c *entity.Character, cmd *Command, p ParseResult) error {
	if len(p.Args) == 0 {
		return usage(cmd)
	}
	msg, err := d.world.Wield(c, p.Args[0])
	return d.reply(c, msg, err)
}

func (d *Dispatcher) wear(c *entity.Character, cmd *Command, p ParseResult) error {
	if len(p.Args) == 0 {
		return usage(cmd)
	}
	msg, err := d.world.Wear(c, p.Args[0])
	return d.reply(c, msg, err)
}

func (d *Dispatcher) remove(c *entity.Character, cmd *Command, p ParseResult) error {
	if len(p.Args) == 0 {
		return usage(cmd)
	}
	msg, err := d.world.Remove(c, p.Args[0])
	return d.reply(c, msg, err)
}

// pair splits "<a> [joiner] <b>" arguments.
func pair(args []string, joiner string) (string, string, bool) {
	switch {
	case len(args) >= 3 && args[1] == joiner:
		return args[0], args[2], true
	case len(args) == 2:
		return args[0], args[1], true
	}
	return "", "", false
}

func (d *Dispatcher) put(c *entity.Character, cmd *Command, p ParseResult) error {
	word, into, ok := pair(p.Args, "in")
	if !ok {
		return usage(cmd)
	}
	msg, err := d.world.Put(c, word, into)
	return d.reply(c, msg, err)
}

func (d *Dispatcher) give(c *entity.Character, cmd *Command, p ParseResult) error {
	word, to, ok := pair(p.Args, "to")
	if !ok {
		return usage(cmd)
	}
	msg, err := d.world.Give(c, word, to)
	return d.reply(c, msg, err)
}

func (d *Dispatcher) eat(c *entity.Character, cmd *Command, p ParseResult) error {
	if len(p.Args) == 0 {
		return usage(cmd)
	}
	msg, err := d.world.Eat(c, p.Args[0])
	return d.reply(c, msg, err)
}

func (d *Dispatcher) drink(c *entity.Character, cmd *Command, p ParseResult) error {
	if len(p.Args) == 0 {
		return usage(cmd)
	}
	msg, err := d.world.Drink(c, p.Args[0])
	return d.reply(c, msg, err)
}

func (d *Dispatcher) build(c *entity.Character, cmd *Command, p ParseResult) error {
	if p.RawArgs == "" {
		return usage(cmd)
	}
	building, ok := d.world.Catalogue().Building(strings.ToLower(p.RawArgs))
	if !ok {
		return refuse("You don't know how to build %s.", p.RawArgs)
	}
	a, err := d.world.NewBuild(c.ID, building)
	if err != nil {
		return err
	}
	return d.start(c, a, fmt.Sprintf("You start building %s...", building.Name))
}

func (d *Dispatcher) craft(c *entity.Character, cmd *Command, p ParseResult) error {
	if p.RawArgs == "" {
		return usage(cmd)
	}
	production, ok := d.world.Catalogue().Production(strings.ToLower(p.RawArgs))
	if !ok {
		return refuse("You don't know how to craft %s.", p.RawArgs)
	}
	a, err := d.world.NewCraft(c.ID, production)
	if err != nil {
		return err
	}
	return d.start(c, a, fmt.Sprintf("You start %s %s...", production.Verb, production.Name))
}

func (d *Dispatcher) say(c *entity.Character, cmd *Command, p ParseResult) error {
	if p.RawArgs == "" {
		return refuse("Say what?")
	}
	d.world.Broadcast(c.Room, fmt.Sprintf("%s says \"%s\".", entity.Capitalize(c.Name), p.RawArgs), c.ID)
	d.world.Sendf(c.ID, "You say \"%s\".", p.RawArgs)
	return nil
}

func (d *Dispatcher) emote(c *entity.Character, cmd *Command, p ParseResult) error {
	if p.RawArgs == "" {
		return usage(cmd)
	}
	text := fmt.Sprintf("%s %s", entity.Capitalize(c.Name), p.RawArgs)
	d.world.Broadcast(c.Room, text, c.ID)
	d.world.Send(c.ID, text)
	return nil
}

func (d *Dispatcher) help(c *entity.Character, _ *Command, _ ParseResult) error {
	d.world.Send(c.ID, d.registry.Help())
	return nil
}

func (d *Dispatcher) quit(c *entity.Character, _ *Command, _ ParseResult) error {
	if d.world.InCombat(c.ID) {
		return refuse("You cannot quit in the middle of a fight!")
	}
	d.world.StopAction(c.ID)
	d.world.Send(c.ID, "Farewell.")
	d.world.Logout(c)
	return errQuit
}
