package cli

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/barber-booking/internal/db"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/infra/cache"
	"github.com/BruksfildServices01/barber-booking/internal/infra/memory"
	"github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/logger"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/routes"
	ucBooking "github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
)

// app agrupa os recursos abertos por um comando. close libera na ordem
// inversa da abertura.
type app struct {
	cfg *config.Config
	log *zap.Logger

	db    *gorm.DB
	redis *redis.Client

	ledger      domain.Ledger
	catalog     domain.Catalog
	cache       domain.OccupancyCache
	audit       *audit.Dispatcher
	auditReader audit.Reader
	metrics     *metrics.Collector

	closers []func() error
}

// requirePostgres barra comandos que leem ou alteram dados persistidos: com
// STORAGE_DRIVER=memory cada processo começa com um ledger vazio.
func requirePostgres(cfg *config.Config, command string) error {
	if cfg.StorageDriver == config.StorageDriverMemory {
		return fmt.Errorf("%s: requires STORAGE_DRIVER=postgres (memory storage starts empty in every process)", command)
	}
	return nil
}

func openApp(ctx context.Context, cfg *config.Config) (*app, error) {
	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		log:     log,
		metrics: metrics.NewCollector(prometheus.NewRegistry()),
	}
	a.closers = append(a.closers, func() error {
		_ = log.Sync()
		return nil
	})

	if err := a.openStorage(); err != nil {
		a.close()
		return nil, err
	}
	if err := a.openCache(ctx); err != nil {
		a.close()
		return nil, err
	}

	return a, nil
}

func (a *app) openStorage() error {
	switch a.cfg.StorageDriver {
	case config.StorageDriverMemory:
		a.ledger = memory.NewLedger()

		catalog := memory.NewCatalog()
		id := catalog.Add(models.Service{
			ProviderID:  "provider-demo",
			Name:        "Demo",
			DurationMin: int(domain.DefaultSlotInterval.Minutes()),
		})
		a.catalog = catalog
		a.log.Warn("memory storage: nothing survives a restart", zap.String("demo_service_id", id))

		writer := audit.NewMemoryWriter()
		a.auditReader = writer
		a.audit = audit.NewDispatcher(writer, a.log, a.metrics.AuditDrop)

	default:
		db, err := dbpkg.NewDB(a.cfg)
		if err != nil {
			return err
		}
		a.db = db
		a.closers = append(a.closers, func() error { return dbpkg.Close(db) })

		a.ledger = repository.NewBookingGormRepository(db)
		a.catalog = repository.NewServiceGormRepository(db)

		writer := audit.NewGormWriter(db)
		a.auditReader = writer
		a.audit = audit.NewDispatcher(writer, a.log, a.metrics.AuditDrop)
	}

	// o dispatcher precisa drenar antes do banco fechar
	a.closers = append(a.closers, func() error {
		a.audit.Close()
		return nil
	})
	return nil
}

func (a *app) openCache(ctx context.Context) error {
	if !a.cfg.RedisEnabled() {
		a.cache = cache.Noop{}
		return nil
	}

	rdb, err := cache.NewRedisClient(ctx, a.cfg.RedisAddr, a.cfg.RedisPassword, a.cfg.RedisDB)
	if err != nil {
		return err
	}
	a.redis = rdb
	a.cache = cache.NewRedisOccupancy(rdb, a.cfg.CacheTTL)
	a.closers = append(a.closers, rdb.Close)
	return nil
}

func (a *app) close() {
	// o primeiro closer é o Sync do logger
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("shutdown", zap.Error(err))
		}
	}
	a.closers = nil
}

func (a *app) useCaseDeps() (ucBooking.Deps, error) {
	settings, err := routes.Settings(a.cfg)
	if err != nil {
		return ucBooking.Deps{}, err
	}
	return ucBooking.Deps{
		Ledger:   a.ledger,
		Catalog:  a.catalog,
		Cache:    a.cache,
		Audit:    a.audit,
		Metrics:  a.metrics,
		Log:      a.log,
		Settings: settings,
	}, nil
}

func (a *app) routerDeps() routes.Dependencies {
	return routes.Dependencies{
		Config:      a.cfg,
		Ledger:      a.ledger,
		Catalog:     a.catalog,
		Cache:       a.cache,
		Audit:       a.audit,
		AuditReader: a.auditReader,
		Metrics:     a.metrics,
		Log:         a.log,
	}
}
