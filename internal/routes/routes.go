package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/handlers"
	"github.com/BruksfildServices01/clinic-scheduler/internal/metrics"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/usecase/scheduling"
)

// Deps are the process-wide singletons the routes are built from.
type Deps struct {
	Repo     domain.Repository
	Audit    *audit.Dispatcher
	Metrics  *metrics.Collector
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
}

func RegisterRoutes(r *gin.Engine, cfg *config.Config, deps Deps) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(
		middleware.RequestLogger(deps.Logger, deps.Metrics),
		middleware.CORSMiddleware(cfg.CORSOrigins),
		middleware.RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst, deps.Logger),
	)

	// ======================================================
	// USE CASES
	// ======================================================
	doctors := scheduling.NewDoctors(deps.Repo)
	workingHours := scheduling.NewWorkingHoursCalendar(deps.Repo)
	ledger := scheduling.NewAppointmentLedger(deps.Repo)
	resolver := scheduling.NewAvailabilityResolver(deps.Repo, deps.Audit, deps.Metrics, deps.Logger)

	// ======================================================
	// HANDLERS
	// ======================================================
	doctorHandler := handlers.NewDoctorHandler(doctors)
	workingHoursHandler := handlers.NewWorkingHoursHandler(workingHours, deps.Audit)
	appointmentHandler := handlers.NewAppointmentHandler(resolver, ledger, cfg.Timezone)

	// ======================================================
	// SERVICE
	// ======================================================
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": "OK"})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler(deps.Gatherer)))

	// ======================================================
	// READS
	// ======================================================
	r.GET("/doctor/:id", doctorHandler.Get)
	r.GET("/working_hours", workingHoursHandler.List)
	r.GET("/appointments", appointmentHandler.List)
	r.GET("/first_available_appointment", appointmentHandler.FirstAvailable)
	r.GET("/availability", appointmentHandler.Availability)

	// ======================================================
	// WRITES
	// ======================================================
	writes := r.Group("/")
	if cfg.JWTSecret != "" {
		writes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	}
	{
		writes.POST("/doctor", doctorHandler.Create)
		writes.POST("/working_hours", workingHoursHandler.Upsert)
		writes.POST("/appointment", appointmentHandler.Create)
	}
}
