package booking

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/logger"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// ======================================================
// SETTINGS
// ======================================================

// Settings são as regras de agenda compartilhadas pelos casos de uso.
type Settings struct {
	Hours      domain.OperatingHours
	Location   *time.Location
	MinAdvance time.Duration
	Now        func() time.Time
}

func (s Settings) loc() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

func (s Settings) now() time.Time {
	if s.Now == nil {
		return time.Now().In(s.loc())
	}
	return s.Now().In(s.loc())
}

// grid gera os slots do serviço para o dia de date (no fuso do negócio).
func (s Settings) grid(svc *models.Service, date time.Time) ([]time.Time, error) {
	hours, err := s.Hours.WithOverride(svc.OpenTime, svc.CloseTime)
	if err != nil {
		return nil, err
	}
	day := domain.StartOfDay(date, s.loc())
	return hours.Slots(day, domain.SlotInterval(svc.DurationMin))
}

// ======================================================
// DEPENDENCIES
// ======================================================

type Deps struct {
	Ledger   domain.Ledger
	Catalog  domain.Catalog
	Cache    domain.OccupancyCache
	Audit    *audit.Dispatcher
	Metrics  *metrics.Collector
	Log      *zap.Logger
	Settings Settings
}

type base struct {
	ledger   domain.Ledger
	catalog  domain.Catalog
	cache    domain.OccupancyCache
	audit    *audit.Dispatcher
	metrics  *metrics.Collector
	log      *zap.Logger
	settings Settings
}

func newBase(d Deps) base {
	return base{
		ledger:   d.Ledger,
		catalog:  d.Catalog,
		cache:    d.Cache,
		audit:    d.Audit,
		metrics:  d.Metrics,
		log:      logger.OrNop(d.Log),
		settings: d.Settings,
	}
}

// invalidate avança a geração do cache do dia do instante. Chamado depois da
// escrita no ledger. Falha de cache só é logada: o TTL corrige.
func (b base) invalidate(ctx context.Context, serviceID string, at time.Time) {
	if b.cache == nil {
		return
	}
	day := domain.StartOfDay(at, b.settings.loc())
	if err := b.cache.Invalidate(ctx, serviceID, day); err != nil {
		b.log.Warn("occupancy cache invalidate failed",
			zap.String("service_id", serviceID),
			zap.Time("day", day),
			zap.Error(err),
		)
	}
}
