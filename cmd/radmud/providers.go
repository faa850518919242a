package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/HexColors60/RadMud/internal/config"
	"github.com/HexColors60/RadMud/internal/frontend/telnet"
	"github.com/HexColors60/RadMud/internal/game/command"
	"github.com/HexColors60/RadMud/internal/game/dice"
	"github.com/HexColors60/RadMud/internal/game/engine"
	"github.com/HexColors60/RadMud/internal/game/entity"
	"github.com/HexColors60/RadMud/internal/game/world"
	"github.com/HexColors60/RadMud/internal/gameserver"
	"github.com/HexColors60/RadMud/internal/observability"
	"github.com/HexColors60/RadMud/internal/scripting"
	"github.com/HexColors60/RadMud/internal/server"
	"github.com/HexColors60/RadMud/internal/storage"
	"github.com/HexColors60/RadMud/internal/storage/bolt"
	"github.com/HexColors60/RadMud/internal/storage/postgres"
)

// providerSet builds every service of the server from a loaded Config.
var providerSet = wire.NewSet(
	provideRoller,
	provideAreas,
	provideCatalogue,
	provideScripts,
	provideStores,
	provideBackend,
	provideAccounts,
	provideArena,
	provideJournal,
	provideMetrics,
	gameserver.NewSessions,
	provideWorld,
	provideDispatcher,
	provideHealth,
	provideLoop,
	provideHandler,
	provideAcceptor,
	provideMetricsServer,
	provideLifecycle,
)

// stores pairs the character backend with the account store of the same
// database.
type stores struct {
	backend  storage.Backend
	accounts storage.Accounts
	// pool is nil for the bolt backend.
	pool *postgres.Pool
}

func provideRoller(logger *zap.Logger) *dice.Roller {
	return dice.NewRoller(dice.NewCryptoSource(), logger)
}

func provideAreas(cfg config.Config, logger *zap.Logger) (*world.Manager, error) {
	start := time.Now()
	areas, err := world.LoadAreasFromDir(cfg.World.ZonesDir)
	if err != nil {
		return nil, fmt.Errorf("loading areas: %w", err)
	}
	mgr, err := world.NewManager(areas)
	if err != nil {
		return nil, fmt.Errorf("creating area manager: %w", err)
	}
	logger.Info("areas loaded",
		zap.Int("areas", mgr.AreaCount()),
		zap.Int("rooms", mgr.RoomCount()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return mgr, nil
}

func provideCatalogue(cfg config.Config) (*entity.Catalogue, error) {
	cat, err := entity.LoadCatalogue(cfg.World.ModelsFile)
	if err != nil {
		return nil, fmt.Errorf("loading models: %w", err)
	}
	return cat, nil
}

// provideScripts loads the mobile behaviour scripts. An empty scripts
// directory disables scripting.
func provideScripts(cfg config.Config, roller *dice.Roller, logger *zap.Logger) (engine.Behavior, func(), error) {
	if cfg.World.ScriptsDir == "" {
		logger.Info("scripting disabled")
		return engine.NopBehavior{}, func() {}, nil
	}
	mgr := scripting.NewManager(cfg.World.ScriptInstructionLimit, roller, logger)
	if _, err := mgr.LoadDir(cfg.World.ScriptsDir); err != nil {
		mgr.Close()
		return nil, nil, err
	}
	return mgr, mgr.Close, nil
}

func provideStores(ctx context.Context, cfg config.Config, logger *zap.Logger) (*stores, func(), error) {
	switch cfg.Storage.Backend {
	case "postgres":
		start := time.Now()
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Duration("elapsed", time.Since(start)),
		)
		s := &stores{
			backend:  postgres.NewBackend(pool.DB()),
			accounts: postgres.NewAccountRepository(pool.DB()),
			pool:     pool,
		}
		return s, pool.Close, nil
	default:
		store, err := bolt.Open(cfg.Storage.BoltPath, 5*time.Second)
		if err != nil {
			return nil, nil, fmt.Errorf("opening %s: %w", cfg.Storage.BoltPath, err)
		}
		logger.Info("bolt store opened", zap.String("path", cfg.Storage.BoltPath))
		cleanup := func() {
			if err := store.Close(); err != nil {
				logger.Warn("closing bolt store", zap.Error(err))
			}
		}
		return &stores{backend: store, accounts: store}, cleanup, nil
	}
}

func provideBackend(s *stores) storage.Backend { return s.backend }

func provideAccounts(s *stores) storage.Accounts { return s.accounts }

// provideArena creates the arena above every persisted ID, so restored
// characters and items keep theirs.
func provideArena(ctx context.Context, backend storage.Backend) (*entity.Arena, error) {
	maxID, err := backend.MaxID(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading highest stored id: %w", err)
	}
	arena := entity.NewArena()
	arena.Reserve(entity.ID(maxID))
	return arena, nil
}

func provideJournal(cfg config.Config, backend storage.Backend, logger *zap.Logger) *storage.Journal {
	return storage.NewJournal(backend, cfg.Storage.QueueSize, logger)
}

func provideMetrics(s *stores) *observability.Metrics {
	m := observability.NewMetrics(prometheus.NewRegistry())
	if s.pool != nil {
		m.WatchPool(s.pool.Stats)
	}
	return m
}

// provideWorld builds the world and spawns the mobiles and items of every
// area.
func provideWorld(
	cfg config.Config,
	areas *world.Manager,
	arena *entity.Arena,
	cat *entity.Catalogue,
	roller *dice.Roller,
	logger *zap.Logger,
	sessions *gameserver.Sessions,
	journal *storage.Journal,
	behavior engine.Behavior,
	metrics *observability.Metrics,
) (*engine.World, error) {
	w := engine.NewWorld(areas, arena, cat, roller, logger,
		engine.WithNotifier(sessions),
		engine.WithJournal(journal),
		engine.WithBehavior(behavior),
		engine.WithRecorder(metrics),
		engine.WithReviveDelay(cfg.Tick.ReviveDelay),
	)
	if _, _, err := w.Populate(); err != nil {
		return nil, fmt.Errorf("populating world: %w", err)
	}
	return w, nil
}

func provideDispatcher(w *engine.World, logger *zap.Logger) *command.Dispatcher {
	return command.NewDispatcher(w, command.DefaultRegistry(), logger)
}

func provideHealth(cfg config.Config, logger *zap.Logger) *gameserver.HealthServer {
	return gameserver.NewHealthServer(cfg.Admin.Addr(), logger)
}

func provideLoop(
	cfg config.Config,
	w *engine.World,
	dispatcher *command.Dispatcher,
	sessions *gameserver.Sessions,
	roller *dice.Roller,
	logger *zap.Logger,
	metrics *observability.Metrics,
	journal *storage.Journal,
	health *gameserver.HealthServer,
) *gameserver.Loop {
	return gameserver.NewLoop(gameserver.LoopConfig{
		Tic:         cfg.Tick.Tic,
		Hour:        cfg.Tick.Hour,
		PollTimeout: cfg.Tick.PollTimeout,
		StartHour:   cfg.Tick.StartHour,
		QueueSize:   cfg.Tick.QueueSize,
	}, w, dispatcher, sessions, roller, logger,
		gameserver.WithMetrics(metrics),
		gameserver.WithQueueDepth(journal),
		gameserver.WithStatus(health.SetServing),
	)
}

func provideHandler(cfg config.Config, loop *gameserver.Loop, backend storage.Backend, accounts storage.Accounts, logger *zap.Logger) *gameserver.Handler {
	return gameserver.NewHandler(loop, accounts, backend, cfg.Server.Name, logger)
}

func provideAcceptor(cfg config.Config, handler *gameserver.Handler, logger *zap.Logger) *telnet.Acceptor {
	return telnet.NewAcceptor(cfg.Telnet, handler, logger)
}

func provideMetricsServer(cfg config.Config, metrics *observability.Metrics, logger *zap.Logger) *observability.MetricsServer {
	return observability.NewMetricsServer(cfg.Admin.MetricsAddr, metrics, logger)
}

// provideLifecycle registers the services in start order. They stop in
// reverse, so the loop saves every player before the journal drains.
func provideLifecycle(
	cfg config.Config,
	logger *zap.Logger,
	journal *storage.Journal,
	loop *gameserver.Loop,
	acceptor *telnet.Acceptor,
	health *gameserver.HealthServer,
	metricsSrv *observability.MetricsServer,
) *server.Lifecycle {
	lc := server.NewLifecycle(logger, cfg.Server.ShutdownTimeout)
	lc.Add("journal", &server.FuncService{
		StartFn: func(context.Context) error { return journal.Start() },
		StopFn: func(context.Context) error {
			journal.Stop()
			return nil
		},
	})
	lc.Add("loop", loop)
	lc.Add("telnet", acceptor)
	lc.Add("health", health)
	lc.Add("metrics", metricsSrv)
	return lc
}
