package api

import (
	"github.com/gin-gonic/gin"
	"github.com/jeldja/ProScout/internal/api/handlers"
	"github.com/jeldja/ProScout/internal/api/middleware"
	"github.com/jeldja/ProScout/internal/services"
	"github.com/jeldja/ProScout/pkg/config"
	"github.com/jeldja/ProScout/pkg/database"
	"github.com/sirupsen/logrus"
)

// Dependencies are the components the HTTP surface serves from. Cache,
// Store, DB, Projections and Headshots may be nil.
type Dependencies struct {
	Scouting    *services.ScoutingService
	Cache       *services.CacheService
	Store       *services.ArchetypeStore
	DB          *database.DB
	Projections handlers.ProjectionStatus
	Headshots   handlers.BreakerStatus
	Logger      *logrus.Logger
}

// NewRouter builds the gin engine with middleware, probes and /api/v1.
func NewRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.CORS(cfg.CorsOrigins))

	health := handlers.NewHealthHandler(deps.Scouting, deps.Projections, deps.Headshots, deps.Cache, deps.DB)
	router.GET("/health", health.GetHealth)
	router.GET("/ready", health.GetReady)

	SetupRoutes(router.Group("/api/v1"), cfg, deps)
	return router
}

// SetupRoutes configures all API routes on the given router group
func SetupRoutes(group *gin.RouterGroup, cfg *config.Config, deps Dependencies) {
	playerHandler := handlers.NewPlayerHandler(deps.Scouting)
	compsHandler := handlers.NewCompsHandler(deps.Scouting, deps.Cache, cfg.CompsK)
	archetypeHandler := handlers.NewArchetypeHandler(deps.Scouting)
	projectionHandler := handlers.NewProjectionHandler(deps.Scouting)
	featureHandler := handlers.NewFeatureHandler(deps.Scouting)
	adminHandler := handlers.NewAdminHandler(deps.Scouting, deps.Store, deps.Logger)

	group.GET("/players", playerHandler.ListPlayers)
	group.GET("/players/:name", playerHandler.GetPlayer)

	group.GET("/comps/:name", compsHandler.GetComps)
	group.GET("/comps/:name/raw", compsHandler.GetRawComps)
	group.GET("/comps/:name/college", compsHandler.GetCollegeComps)

	group.GET("/archetypes", archetypeHandler.ListArchetypes)
	group.GET("/archetypes/:id/examples", archetypeHandler.GetExamples)
	group.GET("/archetypes/player/:name", archetypeHandler.ClassifyPlayer)

	group.GET("/projections/:name", projectionHandler.GetProjection)
	group.GET("/features/:schema", featureHandler.GetColumns)

	admin := group.Group("/admin")
	admin.Use(middleware.AuthRequired(cfg.JWTSecret))
	{
		admin.POST("/archetypes/snapshot", adminHandler.SnapshotArchetypes)
		admin.GET("/archetypes/runs", adminHandler.ListRuns)
		admin.GET("/archetypes/runs/:id", adminHandler.GetRun)
		admin.GET("/archetypes/runs/:id/classify/:name", adminHandler.ClassifyWithRun)
	}
}
