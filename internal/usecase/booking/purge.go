package booking

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
)

// PurgeCancelled remove de vez reservas canceladas com horário anterior a
// before. É manutenção offline; nenhum fluxo de request apaga reservas.
type PurgeCancelled struct {
	base
}

func NewPurgeCancelled(d Deps) *PurgeCancelled {
	return &PurgeCancelled{base: newBase(d)}
}

func (uc *PurgeCancelled) Execute(ctx context.Context, before time.Time) (int, error) {
	if before.IsZero() {
		return 0, domain.ErrInvalidArgument
	}

	stale, err := uc.ledger.Find(ctx, domain.BookingFilter{
		To:       before,
		Statuses: []domain.Status{domain.StatusCancelled},
	})
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, bk := range stale {
		if err := uc.ledger.Delete(ctx, bk.ID); err != nil {
			return removed, fmt.Errorf("purge booking %s: %w", bk.ID, err)
		}
		removed++
	}

	if removed > 0 {
		uc.audit.Dispatch(audit.Event{
			ActorID:  "system",
			Action:   "bookings_purged",
			Entity:   "booking",
			Metadata: map[string]any{"count": removed, "before": before},
		})
	}
	uc.log.Info("cancelled bookings purged", zap.Int("count", removed), zap.Time("before", before))

	return removed, nil
}
