package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type ReserveInput struct {
	ServiceID string
	At        time.Time
}

// ======================================================
// USE CASE
// ======================================================

// Reserve cria uma reserva Pending. A exclusividade do horário é garantida
// pelo ledger na escrita; a validação prévia só cobre grade e antecedência.
type Reserve struct {
	base
}

func NewReserve(d Deps) *Reserve {
	return &Reserve{base: newBase(d)}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *Reserve) Execute(
	ctx context.Context,
	caller *domain.Caller,
	in ReserveInput,
) (*models.Booking, error) {

	bk, err := uc.reserve(ctx, caller, in)

	outcome := "created"
	if err != nil {
		outcome = httperr.CodeOf(err)
		if outcome == "" {
			outcome = "error"
		}
	}
	uc.metrics.Reservation(outcome)

	return bk, err
}

func (uc *Reserve) reserve(
	ctx context.Context,
	caller *domain.Caller,
	in ReserveInput,
) (*models.Booking, error) {

	// --------------------------------------------------
	// 1) Identidade
	// --------------------------------------------------
	if !caller.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	if in.At.IsZero() {
		return nil, domain.ErrInvalidArgument
	}

	// --------------------------------------------------
	// 2) Serviço
	// --------------------------------------------------
	svc, err := uc.catalog.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3) Instante precisa estar na grade do dia
	// --------------------------------------------------
	at := in.At.In(uc.settings.loc())

	grid, err := uc.settings.grid(svc, at)
	if err != nil {
		return nil, err
	}
	if !domain.OnGrid(grid, at) {
		return nil, domain.ErrInvalidSlot
	}

	// --------------------------------------------------
	// 4) Passado / antecedência mínima
	// --------------------------------------------------
	now := uc.settings.now()
	if at.Before(now.Add(uc.settings.MinAdvance)) {
		return nil, domain.ErrInvalidSlot
	}

	// --------------------------------------------------
	// 5) Escrita (índice único decide o vencedor)
	// --------------------------------------------------
	bk := &models.Booking{
		ID:            uuid.NewString(),
		ClientID:      caller.ID,
		ServiceID:     svc.ID,
		ProviderID:    svc.ProviderID,
		AppointmentAt: at,
		Status:        string(domain.InitialStatus()),
		CreatedAt:     now,
	}

	if err := uc.ledger.Create(ctx, bk); err != nil {
		if errors.Is(err, domain.ErrSlotTaken) {
			uc.audit.Dispatch(audit.Event{
				ActorID: caller.ID,
				Action:  "booking_conflict",
				Entity:  "booking",
				Metadata: map[string]any{
					"service_id":     svc.ID,
					"appointment_at": at,
				},
			})
			uc.log.Info("slot already taken",
				zap.String("client_id", caller.ID),
				zap.String("service_id", svc.ID),
				zap.Time("appointment_at", at),
			)
		}
		return nil, err
	}

	// --------------------------------------------------
	// 6) Efeitos colaterais
	// --------------------------------------------------
	uc.invalidate(ctx, svc.ID, at)

	uc.audit.Dispatch(audit.Event{
		ActorID:  caller.ID,
		Action:   "booking_created",
		Entity:   "booking",
		EntityID: bk.ID,
		Metadata: map[string]any{
			"service_id":     svc.ID,
			"appointment_at": at,
		},
	})

	uc.log.Info("booking created",
		zap.String("booking_id", bk.ID),
		zap.String("client_id", caller.ID),
		zap.String("service_id", svc.ID),
		zap.Time("appointment_at", at),
	)

	return bk, nil
}
