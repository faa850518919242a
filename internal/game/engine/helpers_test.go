package engine_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/HexColors60/RadMud/internal/game/dice"
	"github.com/HexColors60/RadMud/internal/game/engine"
	"github.com/HexColors60/RadMud/internal/game/entity"
	"github.com/HexColors60/RadMud/internal/game/world"
	"github.com/HexColors60/RadMud/internal/storage"
)

const testCatalogue = `
[[race]]
name = "human"
corpse = 900
weight = 70

[[model]]
vnum = 900
name = "a corpse"
kind = "corpse"
decay = 20

[[model]]
vnum = 10
name = "a short sword"
keys = ["sword"]
kind = "weapon"
weight = 4
  [model.weapon]
  min_damage = 3
  max_damage = 8

[[model]]
vnum = 11
name = "a longbow"
keys = ["bow"]
kind = "ranged"
weight = 3
flags = ["two_hand"]
  [model.ranged]
  min_damage = 2
  max_damage = 6
  range = 5
  magazine = "quiver"

[[model]]
vnum = 12
name = "a quiver"
kind = "magazine"
weight = 1
  [model.magazine]
  kind = "quiver"
  projectile = "arrow"
  capacity = 20

[[model]]
vnum = 13
name = "an arrow"
kind = "projectile"
flags = ["stackable"]
  [model.projectile]
  kind = "arrow"
  damage_bonus = 1

[[model]]
vnum = 14
name = "a leather cap"
kind = "armor"
slot = "head"
flags = ["wearable"]
  [model.armor]
  damage_absorption = 2

[[model]]
vnum = 20
name = "a log"
kind = "resource"
weight = 5
flags = ["stackable"]
  [model.resource]
  type = "wood"

[[model]]
vnum = 21
name = "a flint"
kind = "tool"
  [model.tool]
  type = "firestarter"

[[model]]
vnum = 22
name = "a campfire"
kind = "generic"
weight = 50

[[model]]
vnum = 30
name = "a backpack"
kind = "container"
weight = 2
  [model.container]
  max_weight = 10

[[model]]
vnum = 31
name = "a can of beans"
keys = ["beans", "can"]
kind = "food"
weight = 1
flags = ["stackable"]
  [model.food]
  amount = 30

[[model]]
vnum = 32
name = "a bottle of water"
keys = ["water", "bottle"]
kind = "drink"
weight = 1
flags = ["stackable"]
  [model.drink]
  amount = 40

[[building]]
name = "campfire"
model = 22
tools = ["firestarter"]
ingredients = { wood = 2 }
time = 4

[[production]]
name = "arrows"
verb = "fletching"
outcome = 13
quantity = 5
tools = ["firestarter"]
ingredients = { wood = 1 }
time = 3
`

type inbox struct {
	got map[entity.ID][]string
}

func (n *inbox) Send(id entity.ID, text string) {
	n.got[id] = append(n.got[id], text)
}

func (n *inbox) text(id entity.ID) string {
	return strings.Join(n.got[id], "")
}

func (n *inbox) reset() {
	n.got = make(map[entity.ID][]string)
}

type clock struct {
	t time.Time
}

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

type queue struct {
	jobs []storage.Job
}

func (q *queue) Submit(job storage.Job) error {
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *queue) names() []string {
	out := make([]string, len(q.jobs))
	for i, j := range q.jobs {
		out[i] = j.Name
	}
	return out
}

type counters struct {
	performed []string
	kills     []bool
}

func (c *counters) ActionPerformed(kind, status string) {
	c.performed = append(c.performed, kind+"/"+status)
}

func (c *counters) CharacterKilled(mobile bool) {
	c.kills = append(c.kills, mobile)
}

// batchLog records the operations applied by a job.
type batchLog struct {
	ops        []string
	characters []storage.CharacterRecord
	items      []storage.ItemRecord
}

func (b *batchLog) InsertItem(_ context.Context, rec storage.ItemRecord) error {
	b.ops = append(b.ops, fmt.Sprintf("insert %d", rec.ID))
	b.items = append(b.items, rec)
	return nil
}

func (b *batchLog) UpdateItem(_ context.Context, rec storage.ItemRecord) error {
	b.ops = append(b.ops, fmt.Sprintf("update %d", rec.ID))
	b.items = append(b.items, rec)
	return nil
}

func (b *batchLog) DeleteItem(_ context.Context, id uint64) error {
	b.ops = append(b.ops, fmt.Sprintf("delete %d", id))
	return nil
}

func (b *batchLog) UpdateCharacter(_ context.Context, rec storage.CharacterRecord) error {
	b.ops = append(b.ops, "character "+rec.Name)
	b.characters = append(b.characters, rec)
	return nil
}

func (b *batchLog) Commit(context.Context) error   { return nil }
func (b *batchLog) Rollback(context.Context) error { return nil }

type fixture struct {
	world    *engine.World
	arena    *entity.Arena
	cat      *entity.Catalogue
	clock    *clock
	inbox    *inbox
	queue    *queue
	counters *counters
	area     *world.Area
	areas    *world.Manager
	roller   *dice.Roller
	logger   *zap.Logger
}

// roomAt returns the vnum of the plain cell (x, y).
func roomAt(x, y int) world.Vnum {
	return world.Vnum(100 + y*10 + x)
}

// newFixture builds a 5x5 open plain with start room (0,0). faces script the
// dice in order.
func newFixture(t *testing.T, faces ...int) *fixture {
	t.Helper()
	area := world.NewArea(1, "plain", 4, 4, 0)
	for x := 0; x <= 4; x++ {
		for y := 0; y <= 4; y++ {
			room := &world.Room{
				Vnum:  roomAt(x, y),
				Name:  fmt.Sprintf("Plain %d,%d", x, y),
				Coord: world.Coordinates{X: x, Y: y},
			}
			require.NoError(t, area.AddRoom(room))
		}
	}
	area.StartRoom = roomAt(0, 0)
	area.ConnectAdjacent()
	areas, err := world.NewManager([]*world.Area{area})
	require.NoError(t, err)
	cat, err := entity.LoadCatalogueFromBytes([]byte(testCatalogue))
	require.NoError(t, err)

	f := &fixture{
		arena:    entity.NewArena(),
		cat:      cat,
		clock:    &clock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)},
		inbox:    &inbox{got: make(map[entity.ID][]string)},
		queue:    &queue{},
		counters: &counters{},
		area:     area,
		areas:    areas,
		roller:   dice.NewRoller(dice.NewScriptedSource(faces...), zap.NewNop()),
		logger:   zap.NewNop(),
	}
	f.build()
	return f
}

// build (re)creates the world over the fixture fakes. Call it before adding
// characters.
func (f *fixture) build(extra ...engine.Option) {
	opts := []engine.Option{
		engine.WithClock(f.clock.now),
		engine.WithNotifier(f.inbox),
		engine.WithJournal(f.queue),
		engine.WithRecorder(f.counters),
		engine.WithReviveDelay(10 * time.Second),
	}
	f.world = engine.NewWorld(f.areas, f.arena, f.cat, f.roller, f.logger, append(opts, extra...)...)
}

// observe rebuilds the world over a logger recording every entry at debug
// level and above.
func (f *fixture) observe() *observer.ObservedLogs {
	core, logs := observer.New(zap.DebugLevel)
	f.logger = zap.New(core)
	f.build()
	return logs
}

func (f *fixture) human() *entity.Race {
	race, _ := f.cat.Race("human")
	return race
}

// player adds a player with the given abilities in room.
func (f *fixture) player(name string, abilities entity.Abilities, room world.Vnum) *entity.Character {
	c := entity.NewCharacter(name, f.human(), abilities)
	c.Player = true
	c.Room = room
	f.arena.AddCharacter(c)
	return c
}

// mobile adds a mobile in room.
func (f *fixture) mobile(name string, room world.Vnum) *entity.Character {
	c := entity.NewCharacter(name, f.human(), average)
	c.Room = room
	f.arena.AddCharacter(c)
	return c
}

func (f *fixture) item(t *testing.T, vnum, quantity int) *entity.Item {
	t.Helper()
	model, ok := f.cat.Model(vnum)
	require.True(t, ok, "model %d", vnum)
	return f.arena.NewItem(model, quantity)
}

func (f *fixture) give(t *testing.T, c *entity.Character, vnum, quantity int) *entity.Item {
	t.Helper()
	it := f.item(t, vnum, quantity)
	require.NoError(t, f.arena.GiveItem(c.ID, it.ID))
	return it
}

func (f *fixture) wield(t *testing.T, c *entity.Character, vnum int) *entity.Item {
	t.Helper()
	it := f.item(t, vnum, 1)
	require.NoError(t, f.arena.Equip(c.ID, entity.SlotRightHand, it.ID))
	return it
}

func (f *fixture) room(vnum world.Vnum) *world.Room {
	r, _ := f.world.Areas().Room(vnum)
	return r
}

// apply runs every queued job against a fresh batch log.
func (f *fixture) apply(t *testing.T) *batchLog {
	t.Helper()
	log := &batchLog{}
	for _, job := range f.queue.jobs {
		require.NoError(t, job.Apply(context.Background(), log), job.Name)
	}
	return log
}

func itoa(id entity.ID) string {
	return fmt.Sprint(uint64(id))
}

var (
	average = entity.Abilities{10, 10, 10, 10, 10}
	// nimble has agility 14, so armor class 12 unarmored.
	nimble = entity.Abilities{10, 14, 10, 10, 10}
)
