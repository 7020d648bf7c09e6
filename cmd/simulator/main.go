package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/duelforge/duelsim/internal/catalog"
	"github.com/duelforge/duelsim/internal/config"
	"github.com/duelforge/duelsim/internal/game"
	"github.com/duelforge/duelsim/internal/replay"
	"github.com/duelforge/duelsim/internal/sim"
	"github.com/duelforge/duelsim/internal/store"
)

var (
	configPath = flag.String("config", "", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting simulator",
		zap.String("version", version),
		zap.String("seed", cfg.Sim.Seed),
		zap.Int("games", cfg.Sim.Games),
	)

	cat, err := loadCatalog(cfg.Sim, logger)
	if err != nil {
		logger.Fatal("failed to load card catalog", zap.Error(err))
	}
	logger.Info("card catalog ready", zap.Int("templates", cat.Len()))

	first, err := loadDeck(cat, cfg.Sim.FirstDeck, catalog.FactionEmber)
	if err != nil {
		logger.Fatal("failed to load first deck", zap.Error(err))
	}
	second, err := loadDeck(cat, cfg.Sim.SecondDeck, catalog.FactionFrost)
	if err != nil {
		logger.Fatal("failed to load second deck", zap.Error(err))
	}

	ctx := context.Background()
	var db *store.Store
	if cfg.Database.Enabled {
		db, err = store.New(ctx, cfg.Database, logger)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer db.Close()
		if err := db.Migrate(ctx); err != nil {
			logger.Fatal("failed to apply schema", zap.Error(err))
		}
	}

	runner := sim.NewRunner(logger, cat)

	if cfg.Sim.Games == 1 {
		runSingle(ctx, runner, cfg, first, second, db, logger)
		return
	}

	batch := runner.RunBatch(cfg.Sim.Seed, cfg.Sim.Games, first, second)
	logger.Info("batch complete",
		zap.Int("games", batch.Games),
		zap.Int("first_wins", batch.FirstWins),
		zap.Int("second_wins", batch.SecondWins),
		zap.Int("draws", batch.Draws),
		zap.Int("errors", batch.Errors),
		zap.Float64("avg_turns", batch.AverageTurns()),
	)
}

func runSingle(ctx context.Context, runner *sim.Runner, cfg *config.Config,
	first, second *catalog.DeckList, db *store.Store, logger *zap.Logger) {

	g, res, err := runner.RunMatch(sim.Match{
		Seed:   cfg.Sim.Seed,
		First:  first,
		Second: second,
	})
	if err != nil {
		logger.Fatal("game failed", zap.Error(err))
	}

	outcome := res.Winner
	if res.Draw {
		outcome = "draw"
	}
	logger.Info("result",
		zap.String("game_id", g.ID),
		zap.String("outcome", outcome),
		zap.String("reason", res.Reason),
		zap.Int("turns", res.Turn),
	)

	var rec *replay.Replay
	if cfg.Replay.Record {
		rec = replay.FromLog(g.ID, g.Seed, res.Winner, g.Log)
		if err := rec.SaveToFile(cfg.Replay.Dir); err != nil {
			logger.Error("failed to save replay", zap.Error(err))
		} else {
			logger.Info("replay saved",
				zap.String("dir", cfg.Replay.Dir),
				zap.Int("frames", rec.Size()),
			)
		}
	}

	if db != nil {
		if err := db.SaveResult(ctx, g, res); err != nil {
			logger.Error("failed to persist result", zap.Error(err))
		}
		if rec != nil {
			blob, err := rec.Bytes()
			if err == nil {
				err = db.SaveReplay(ctx, g.ID, blob)
			}
			if err != nil {
				logger.Error("failed to persist replay", zap.Error(err))
			}
		}
	}
}

func loadCatalog(cfg config.SimConfig, logger *zap.Logger) (*catalog.Catalog, error) {
	if cfg.CardSetDir == "" {
		return catalog.BuiltinSet(), nil
	}
	return catalog.LoadDir(cfg.CardSetDir, logger)
}

func loadDeck(cat *catalog.Catalog, path string, fallback game.Faction) (*catalog.DeckList, error) {
	if path == "" {
		return catalog.DefaultDeck(fallback), nil
	}
	return catalog.LoadDeck(path)
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
