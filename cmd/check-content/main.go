// Package main provides a CLI that loads the world content the way the server
// does and reports every error without opening any store or listener.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/HexColors60/RadMud/internal/game/dice"
	"github.com/HexColors60/RadMud/internal/game/engine"
	"github.com/HexColors60/RadMud/internal/game/entity"
	"github.com/HexColors60/RadMud/internal/game/world"
	"github.com/HexColors60/RadMud/internal/scripting"
)

func main() {
	zonesDir := flag.String("zones", "content/zones", "path to area YAML files directory")
	modelsFile := flag.String("models", "content/models.toml", "path to the model catalogue")
	scriptsDir := flag.String("scripts", "content/scripts", "path to Lua behaviour scripts; empty skips them")
	limit := flag.Int("instruction-limit", 100000, "instruction budget of one script hook")
	flag.Parse()

	start := time.Now()
	if err := check(*zonesDir, *modelsFile, *scriptsDir, *limit); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("content ok in %s\n", time.Since(start).Round(time.Millisecond))
}

func check(zonesDir, modelsFile, scriptsDir string, limit int) error {
	logger := zap.NewNop()
	areas, err := world.LoadAreasFromDir(zonesDir)
	if err != nil {
		return err
	}
	mgr, err := world.NewManager(areas)
	if err != nil {
		return err
	}
	cat, err := entity.LoadCatalogue(modelsFile)
	if err != nil {
		return err
	}
	roller := dice.NewRoller(dice.NewSeededSource(1), logger)

	var behavior engine.Behavior = engine.NopBehavior{}
	if scriptsDir != "" {
		scripts := scripting.NewManager(limit, roller, logger)
		defer scripts.Close()
		n, err := scripts.LoadDir(scriptsDir)
		if err != nil {
			return err
		}
		fmt.Printf("scripts: %d\n", n)
		behavior = scripts
	}

	w := engine.NewWorld(mgr, entity.NewArena(), cat, roller, logger, engine.WithBehavior(behavior))
	mobiles, items, err := w.Populate()
	fmt.Printf("areas: %d rooms: %d mobiles: %d items: %d\n", mgr.AreaCount(), mgr.RoomCount(), mobiles, items)
	return err
}
