// Package server assembles the HTTP engine from the domain modules.
package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	assignmentRepository "github.com/festy23/consultant_staffing/internal/assignment/repository"
	assignmentRouter "github.com/festy23/consultant_staffing/internal/assignment/router"
	assignmentService "github.com/festy23/consultant_staffing/internal/assignment/service"
	"github.com/festy23/consultant_staffing/internal/config"
	"github.com/festy23/consultant_staffing/internal/conflict"
	consultantRepository "github.com/festy23/consultant_staffing/internal/consultant/repository"
	consultantRouter "github.com/festy23/consultant_staffing/internal/consultant/router"
	consultantService "github.com/festy23/consultant_staffing/internal/consultant/service"
	documentRepository "github.com/festy23/consultant_staffing/internal/document/repository"
	documentRouter "github.com/festy23/consultant_staffing/internal/document/router"
	documentService "github.com/festy23/consultant_staffing/internal/document/service"
	"github.com/festy23/consultant_staffing/internal/events"
	"github.com/festy23/consultant_staffing/internal/health"
	"github.com/festy23/consultant_staffing/internal/metrics"
	"github.com/festy23/consultant_staffing/internal/middleware"
	scheduleRepository "github.com/festy23/consultant_staffing/internal/schedule/repository"
	scheduleRouter "github.com/festy23/consultant_staffing/internal/schedule/router"
	scheduleService "github.com/festy23/consultant_staffing/internal/schedule/service"
	teamRepository "github.com/festy23/consultant_staffing/internal/team/repository"
	teamRouter "github.com/festy23/consultant_staffing/internal/team/router"
	teamService "github.com/festy23/consultant_staffing/internal/team/service"
)

// Deps holds everything the engine is built from.
type Deps struct {
	Config config.Config
	DB     *gorm.DB
	// Publisher receives domain events. Nil discards them.
	Publisher events.Publisher
	// Cache fronts consultant lookups. Nil disables caching.
	Cache consultantRepository.CacheClient
	// Probes are reported by /health next to the database.
	Probes map[string]health.Probe
	Logger *zap.SugaredLogger
}

// NewEngine wires repositories, services and routes into a gin engine.
func NewEngine(deps Deps) *gin.Engine {
	logger := deps.Logger
	publisher := deps.Publisher
	if publisher == nil {
		publisher = events.Nop{}
	}
	emitter := events.NewEmitter(publisher, logger)
	detector := conflict.NewDetector(deps.DB, logger)

	consultantRepo := consultantRepository.New(deps.DB, logger)
	if deps.Cache != nil {
		consultantRepo = consultantRepository.NewCached(consultantRepo, deps.Cache, deps.Config.Cache.ConsultantTTL, logger)
	}
	consultants := consultantService.New(consultantRepo, logger)
	schedules := scheduleService.New(scheduleRepository.New(deps.DB, logger), deps.DB, emitter, logger)
	assignments := assignmentService.New(assignmentService.Deps{
		Repo:        assignmentRepository.New(deps.DB, logger),
		DB:          deps.DB,
		Detector:    detector,
		Schedules:   schedules,
		Consultants: consultants,
		Emitter:     emitter,
		Config:      deps.Config.Scheduling,
		Logger:      logger,
	})
	team := teamService.New(teamService.Deps{
		Repo:        teamRepository.New(deps.DB, logger),
		DB:          deps.DB,
		Detector:    detector,
		Consultants: consultants,
		Emitter:     emitter,
		Config:      deps.Config.Scheduling,
		Logger:      logger,
	})
	documents := documentService.New(documentRepository.New(deps.DB, logger), consultants, emitter, logger)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Metrics())

	r.GET("/health", health.New(deps.DB, logger, deps.Probes).Check)
	r.GET("/metrics", metrics.Handler())

	consultantRouter.RegisterRoutes(r, consultants, logger)
	scheduleRouter.RegisterRoutes(r, schedules, logger)
	assignmentRouter.RegisterRoutes(r, assignments, logger)
	teamRouter.RegisterRoutes(r, team, logger)
	documentRouter.RegisterRoutes(r, documents, logger)

	return r
}
