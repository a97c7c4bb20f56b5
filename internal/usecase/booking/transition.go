package booking

import (
	"context"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// Transition aplica uma mudança de status validada pela tabela de decisão.
// A escrita é compare-and-set sobre o status lido: se outro request mudou a
// reserva no meio, este falha com ErrInvalidTransition em vez de sobrescrever.
type Transition struct {
	base
}

func NewTransition(d Deps) *Transition {
	return &Transition{base: newBase(d)}
}

func (uc *Transition) Execute(
	ctx context.Context,
	caller *domain.Caller,
	bookingID string,
	target domain.Status,
) (*models.Booking, error) {

	bk, err := uc.transition(ctx, caller, bookingID, target)

	outcome := "ok"
	if err != nil {
		outcome = httperr.CodeOf(err)
		if outcome == "" {
			outcome = "error"
		}
	}
	uc.metrics.Transition(string(target), outcome)

	return bk, err
}

func (uc *Transition) Confirm(ctx context.Context, caller *domain.Caller, bookingID string) (*models.Booking, error) {
	return uc.Execute(ctx, caller, bookingID, domain.StatusConfirmed)
}

func (uc *Transition) Finalize(ctx context.Context, caller *domain.Caller, bookingID string) (*models.Booking, error) {
	return uc.Execute(ctx, caller, bookingID, domain.StatusFinalized)
}

func (uc *Transition) Cancel(ctx context.Context, caller *domain.Caller, bookingID string) (*models.Booking, error) {
	return uc.Execute(ctx, caller, bookingID, domain.StatusCancelled)
}

func (uc *Transition) transition(
	ctx context.Context,
	caller *domain.Caller,
	bookingID string,
	target domain.Status,
) (*models.Booking, error) {

	if !caller.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	if bookingID == "" || !target.Valid() {
		return nil, domain.ErrInvalidArgument
	}

	current, err := uc.ledger.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := domain.Decide(caller, current, target); err != nil {
		return nil, err
	}

	from := domain.Status(current.Status)
	updated, err := uc.ledger.UpdateStatus(ctx, bookingID, from, target)
	if err != nil {
		return nil, err
	}

	if from.OccupiesSlot() != target.OccupiesSlot() {
		uc.invalidate(ctx, updated.ServiceID, updated.AppointmentAt)
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  caller.ID,
		Action:   "booking_" + string(target),
		Entity:   "booking",
		EntityID: updated.ID,
		Metadata: map[string]any{
			"from": string(from),
			"to":   string(target),
			"role": string(caller.Role),
		},
	})

	uc.log.Info("booking status changed",
		zap.String("booking_id", updated.ID),
		zap.String("actor_id", caller.ID),
		zap.String("from", string(from)),
		zap.String("to", string(target)),
	)

	return updated, nil
}
