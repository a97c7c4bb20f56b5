package booking

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// ======================================================
// GET
// ======================================================

type GetBooking struct {
	base
}

func NewGetBooking(d Deps) *GetBooking {
	return &GetBooking{base: newBase(d)}
}

// Execute: visível para o dono, o prestador da reserva e admins.
func (uc *GetBooking) Execute(
	ctx context.Context,
	caller *domain.Caller,
	bookingID string,
) (*models.Booking, error) {

	if !caller.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}

	bk, err := uc.ledger.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !domain.CanView(caller, bk) {
		return nil, domain.ErrForbidden
	}
	return bk, nil
}

// ======================================================
// CLIENT
// ======================================================

type ListClientBookings struct {
	base
}

func NewListClientBookings(d Deps) *ListClientBookings {
	return &ListClientBookings{base: newBase(d)}
}

// Execute lista as reservas do próprio caller, mais recentes primeiro.
func (uc *ListClientBookings) Execute(
	ctx context.Context,
	caller *domain.Caller,
) ([]models.Booking, error) {

	if !caller.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}

	return uc.ledger.Find(ctx, domain.BookingFilter{
		ClientID:   caller.ID,
		Descending: true,
	})
}

// ======================================================
// ADMIN
// ======================================================

type ListAllBookings struct {
	base
}

func NewListAllBookings(d Deps) *ListAllBookings {
	return &ListAllBookings{base: newBase(d)}
}

func (uc *ListAllBookings) Execute(
	ctx context.Context,
	caller *domain.Caller,
	status string,
	limit int,
) ([]models.Booking, error) {

	if !caller.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	f := domain.BookingFilter{Descending: true, Limit: limit}
	if status != "" {
		s := domain.Status(status)
		if !s.Valid() {
			return nil, domain.ErrInvalidArgument
		}
		f.Statuses = []domain.Status{s}
	}

	return uc.ledger.Find(ctx, f)
}

// ======================================================
// PROVIDER AGENDA
// ======================================================

type ListProviderBookingsByDate struct {
	base
}

func NewListProviderBookingsByDate(d Deps) *ListProviderBookingsByDate {
	return &ListProviderBookingsByDate{base: newBase(d)}
}

// Execute devolve a agenda do dia em ordem crescente. Um provider só vê a
// própria agenda; admin escolhe o provider.
func (uc *ListProviderBookingsByDate) Execute(
	ctx context.Context,
	caller *domain.Caller,
	providerID string,
	date time.Time,
) ([]models.Booking, error) {

	if !caller.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	if date.IsZero() {
		return nil, domain.ErrInvalidArgument
	}

	switch caller.Role {
	case domain.RoleProvider:
		if providerID != "" && providerID != caller.ID {
			return nil, domain.ErrForbidden
		}
		providerID = caller.ID
	case domain.RoleAdmin:
		if providerID == "" {
			return nil, domain.ErrInvalidArgument
		}
	default:
		return nil, domain.ErrForbidden
	}

	start, end := domain.DayWindow(date, uc.settings.loc())

	return uc.ledger.Find(ctx, domain.BookingFilter{
		ProviderID: providerID,
		From:       start,
		To:         end,
	})
}
