package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/jeldja/ProScout/internal/api"
	"github.com/jeldja/ProScout/internal/archetypes"
	"github.com/jeldja/ProScout/internal/headshots"
	"github.com/jeldja/ProScout/internal/loader"
	"github.com/jeldja/ProScout/internal/projections"
	"github.com/jeldja/ProScout/internal/services"
	"github.com/jeldja/ProScout/internal/similarity"
	"github.com/jeldja/ProScout/pkg/config"
	"github.com/jeldja/ProScout/pkg/database"
	"github.com/jeldja/ProScout/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log := logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Load stat tables
	data, err := loadDataset(cfg, log)
	if err != nil {
		log.Fatalf("Failed to load data: %v", err)
	}

	// Projections are reloaded in place on a schedule
	projectionStore, err := projections.NewStore(cfg.DataPath(cfg.ProjectionsPath), log)
	if err != nil {
		log.Fatalf("Failed to load projections: %v", err)
	}
	reloader := projections.NewReloader(projectionStore, cfg.ProjectionsReloadSchedule, log)
	if err := reloader.Start(); err != nil {
		log.Errorf("Failed to start projections reloader: %v", err)
	}
	defer reloader.Stop()

	resolver := headshots.NewResolver(headshotConfig(cfg, log), log)

	scouting, err := services.NewScoutingService(data, scoutingConfig(cfg), projectionStore, resolver, log)
	if err != nil {
		log.Fatalf("Failed to initialize scouting service: %v", err)
	}

	ctx := context.Background()

	// Redis is optional; without it every comparison is computed
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = services.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Warnf("Redis unavailable, caching disabled: %v", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}
	cache := services.NewCacheService(redisClient, cfg.CacheTTL, log)

	// The database only backs archetype run history
	var db *database.DB
	var archetypeStore *services.ArchetypeStore
	if cfg.DatabaseURL != "" {
		db, err = database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		archetypeStore = services.NewArchetypeStore(db, log)
		if err := archetypeStore.Migrate(); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		if cfg.SnapshotArchetypesOnStart {
			if _, err := archetypeStore.SaveRun(ctx, scouting.Model(), scouting.Labeled()); err != nil {
				log.Errorf("Failed to snapshot archetypes: %v", err)
			}
		}
	}

	router := api.NewRouter(cfg, api.Dependencies{
		Scouting:    scouting,
		Cache:       cache,
		Store:       archetypeStore,
		DB:          db,
		Projections: projectionStore,
		Headshots:   resolver,
		Logger:      log,
	})

	log.Info("=== REGISTERED ROUTES ===")
	for _, route := range router.Routes() {
		log.Infof("%s %s", route.Method, route.Path)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}

// loadDataset reads the current NCAA and NBA tables. The historical college
// pool is optional and skipped with a warning when its files are unusable.
func loadDataset(cfg *config.Config, log *logrus.Logger) (services.Dataset, error) {
	var data services.Dataset
	var err error

	data.CurrentNCAA, err = loader.LoadCurrentNCAA(cfg.DataPath(cfg.NCAACurrentPath), cfg.DataPath(cfg.NCAAHeaderPath))
	if err != nil {
		return data, err
	}

	data.NBA, err = loader.LoadNBA(
		cfg.DataPath(cfg.NBAStatsPath),
		cfg.DataPath(cfg.NBAAdvancedPath),
		cfg.DataPath(cfg.NBAShootingPath),
	)
	if err != nil {
		return data, err
	}

	if cfg.NCAAHistoryPath != "" && cfg.DraftedPath != "" {
		history, err := loader.LoadHistoricalNCAA(cfg.DataPath(cfg.NCAAHistoryPath), cfg.DataPath(cfg.DraftedPath))
		if err != nil {
			log.Warnf("Historical college pool disabled: %v", err)
		} else {
			data.HistoricalNCAA = history
		}
	}

	log.WithFields(logrus.Fields{
		"ncaa_rows": len(data.CurrentNCAA.Rows),
		"nba_rows":  len(data.NBA.Rows),
	}).Info("Stat tables loaded")

	return data, nil
}

func scoutingConfig(cfg *config.Config) services.ScoutingConfig {
	train := archetypes.DefaultTrainConfig()
	train.K = cfg.ArchetypeK
	train.MinMinutes = cfg.ArchetypeMinMinutes
	train.Restarts = cfg.ArchetypeRestarts
	train.Seed = cfg.ArchetypeSeed

	return services.ScoutingConfig{
		CompsK: cfg.CompsK,
		Policy: similarity.FilterPolicy{
			MinMinutes:  cfg.CompMinMinutes,
			UsageBand:   cfg.CompUsageBand / 100,
			MinPoolSize: cfg.CompMinPoolSize,
		},
		Archetypes: train,
	}
}

func headshotConfig(cfg *config.Config, log *logrus.Logger) headshots.Config {
	hc := headshots.DefaultConfig()
	hc.Timeout = cfg.HeadshotTimeout
	hc.RatePerSecond = cfg.HeadshotRatePerSecond

	if cfg.NBAHeadshotIDsPath != "" {
		ids, err := headshots.LoadNBAPersonIDs(cfg.DataPath(cfg.NBAHeadshotIDsPath))
		if err != nil {
			log.Warnf("NBA headshot ids unavailable: %v", err)
		} else {
			for name, id := range ids {
				hc.NBAPersonIDs[name] = id
			}
		}
	}
	return hc
}
