package booking

import (
	"context"
	"time"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
)

// OccupiedSlots devolve os instantes já reservados (status diferente de
// cancelled) de um serviço num dia, na janela [início do dia, +24h).
type OccupiedSlots struct {
	base
}

func NewOccupiedSlots(d Deps) *OccupiedSlots {
	return &OccupiedSlots{base: newBase(d)}
}

func (uc *OccupiedSlots) Execute(
	ctx context.Context,
	serviceID string,
	date time.Time,
) ([]time.Time, error) {

	if serviceID == "" || date.IsZero() {
		return nil, domain.ErrInvalidArgument
	}

	start, end := domain.DayWindow(date, uc.settings.loc())

	// a geração é lida antes do ledger; o Set abaixo só vale para ela
	var (
		version   int64
		cacheable bool
	)
	if uc.cache != nil {
		snap, err := uc.cache.Get(ctx, serviceID, start)
		if err != nil {
			uc.log.Warn("occupancy cache read failed", zap.String("service_id", serviceID), zap.Error(err))
		} else {
			uc.metrics.CacheLookup(snap.Hit)
			if snap.Hit {
				return snap.Occupied, nil
			}
			version, cacheable = snap.Version, true
		}
	}

	occupied, err := uc.ledger.OccupiedBetween(ctx, serviceID, start, end)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := uc.cache.Set(ctx, serviceID, start, version, occupied); err != nil {
			uc.log.Warn("occupancy cache write failed", zap.String("service_id", serviceID), zap.Error(err))
		}
	}

	return occupied, nil
}
