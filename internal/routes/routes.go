package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/config"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/handlers"
	"github.com/BruksfildServices01/barber-booking/internal/logger"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	ucBooking "github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
)

// Dependencies são os singletons de infraestrutura já abertos pelo processo.
type Dependencies struct {
	Config      *config.Config
	Ledger      domain.Ledger
	Catalog     domain.Catalog
	Cache       domain.OccupancyCache
	Audit       *audit.Dispatcher
	AuditReader audit.Reader
	Metrics     *metrics.Collector
	Log         *zap.Logger
}

// Settings converte a configuração nas regras de agenda dos casos de uso.
func Settings(cfg *config.Config) (ucBooking.Settings, error) {
	hours, err := domain.ParseOperatingHours(cfg.OpenTime, cfg.CloseTime)
	if err != nil {
		return ucBooking.Settings{}, err
	}
	return ucBooking.Settings{
		Hours:      hours,
		Location:   timezone.Location(cfg.Timezone),
		MinAdvance: cfg.MinAdvance,
	}, nil
}

func NewRouter(d Dependencies) (*gin.Engine, error) {
	cfg := d.Config
	log := logger.OrNop(d.Log)

	settings, err := Settings(cfg)
	if err != nil {
		return nil, err
	}

	// ======================================================
	// USE CASES
	// ======================================================
	deps := ucBooking.Deps{
		Ledger:   d.Ledger,
		Catalog:  d.Catalog,
		Cache:    d.Cache,
		Audit:    d.Audit,
		Metrics:  d.Metrics,
		Log:      log,
		Settings: settings,
	}

	occupiedUC := ucBooking.NewOccupiedSlots(deps)
	listSlotsUC := ucBooking.NewListSlots(deps, occupiedUC)

	// ======================================================
	// HANDLERS
	// ======================================================
	availabilityHandler := handlers.NewAvailabilityHandler(listSlotsUC, occupiedUC, settings.Location, log)

	bookingHandler := handlers.NewBookingHandler(
		ucBooking.NewReserve(deps),
		ucBooking.NewTransition(deps),
		ucBooking.NewGetBooking(deps),
		ucBooking.NewListClientBookings(deps),
		ucBooking.NewListAllBookings(deps),
		ucBooking.NewListProviderBookingsByDate(deps),
		settings.Location,
		log,
	)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	// ======================================================
	// ENGINE + MIDDLEWARE GLOBAL
	// ======================================================
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log, d.Metrics))
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	api.Use(middleware.Authenticate(cfg.JWTSecret))
	{
		api.GET("/services/:id/slots", availabilityHandler.Slots)
		api.GET("/services/:id/occupied", availabilityHandler.Occupied)

		api.POST("/bookings", limiter.Middleware(log), bookingHandler.Create)
		api.GET("/bookings/:id", bookingHandler.Get)
		api.PATCH("/bookings/:id/confirm", bookingHandler.Confirm)
		api.PATCH("/bookings/:id/finalize", bookingHandler.Finalize)
		api.PATCH("/bookings/:id/cancel", bookingHandler.Cancel)

		api.GET("/me/bookings", bookingHandler.ListMine)
		api.GET("/provider/bookings", bookingHandler.ListProviderByDate)

		api.GET("/admin/bookings", bookingHandler.ListAll)
		if d.AuditReader != nil {
			api.GET("/admin/audit-logs", handlers.NewAuditLogsHandler(d.AuditReader, log).List)
		}
	}

	return r, nil
}
