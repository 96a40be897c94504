// hexfall is the game-state processor. It loads the baked map data,
// connects to PostgreSQL and advances unit movement by one tick at the
// configured interval.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hexfall/server/internal/config"
	"github.com/hexfall/server/internal/hex"
	"github.com/hexfall/server/internal/mapdata"
	"github.com/hexfall/server/internal/persist"
	"github.com/hexfall/server/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config
	cfgPath := "config/server.toml"
	if p := os.Getenv("HEXFALL_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	log.Info("starting",
		zap.String("server", cfg.Server.Name),
		zap.String("profile", cfg.Server.Profile))

	// 3. Connect to PostgreSQL and run migrations
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := persist.NewDB(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()

	if err := persist.RunMigrations(ctx, db.Pool); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	log.Info("database ready")

	// 4. Load the static map tables
	tiles, regions, err := mapdata.Load(cfg.Server.MapDir, log)
	if err != nil {
		return fmt.Errorf("map data: %w", err)
	}
	defer regions.Close()

	zones, err := safeZonesFromConfig(cfg.SafeZones)
	if err != nil {
		return fmt.Errorf("safe zones: %w", err)
	}
	baseMap := mapdata.NewBaseMap(tiles, regions, mapdata.NewSafeZones(tiles, zones))
	templates := world.TemplatesFromConfig(cfg.BuildingType)

	units := persist.NewUnitRepo(db)
	buildings := persist.NewBuildingRepo(db)

	// 5. Tick loop until shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Tick.Interval)
	defer ticker.Stop()

	log.Info("tick loop running", zap.Duration("interval", cfg.Tick.Interval))
	for {
		select {
		case <-stop:
			log.Info("shutting down")
			return nil
		case <-ticker.C:
			if err := tick(context.Background(), units, buildings, tiles,
				templates, baseMap, cfg.Movement, log); err != nil {
				return fmt.Errorf("tick: %w", err)
			}
		}
	}
}

// tick advances the world by one movement step: scan the stored state,
// rebuild the dynamic obstacles, run the movement pipeline and write
// the mutated units back.
func tick(ctx context.Context, unitRepo *persist.UnitRepo, buildingRepo *persist.BuildingRepo,
	tiles *mapdata.TileData, templates world.FootprintTemplates,
	baseMap *mapdata.BaseMap, mv config.MovementConfig, log *zap.Logger) error {

	start := time.Now()

	units, err := unitRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	buildings, err := buildingRepo.ListAll(ctx)
	if err != nil {
		return err
	}

	dyn := world.NewDynObstaclesFromWorld(tiles, templates, units, buildings)
	world.ProcessAllMovement(units, dyn, baseMap, mv, log)

	saved := 0
	for _, u := range units {
		if !u.Dirty {
			continue
		}
		if err := unitRepo.Save(ctx, u); err != nil {
			return err
		}
		saved++
	}

	log.Debug("tick processed",
		zap.Int("units", len(units)),
		zap.Int("buildings", len(buildings)),
		zap.Int("saved", saved),
		zap.Duration("took", time.Since(start)))
	return nil
}

func safeZonesFromConfig(zones []config.SafeZone) ([]mapdata.SafeZone, error) {
	res := make([]mapdata.SafeZone, 0, len(zones))
	for _, z := range zones {
		f, err := mapdata.FactionFromString(z.Faction)
		if err != nil {
			return nil, err
		}
		res = append(res, mapdata.SafeZone{
			Centre:  hex.Coord{X: z.X, Y: z.Y},
			Radius:  z.Radius,
			Faction: f,
		})
	}
	return res, nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}
