package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type slotKey struct {
	serviceID string
	at        int64
}

// Ledger guarda reservas em memória com as mesmas garantias do ledger em
// postgres: unicidade de (serviço, instante) entre reservas não canceladas e
// troca de status compare-and-set.
type Ledger struct {
	mu       sync.RWMutex
	bookings map[string]models.Booking
	active   map[slotKey]string
	now      func() time.Time
}

func NewLedger() *Ledger {
	return &Ledger{
		bookings: make(map[string]models.Booking),
		active:   make(map[slotKey]string),
		now:      time.Now,
	}
}

func keyOf(serviceID string, at time.Time) slotKey {
	return slotKey{serviceID: serviceID, at: at.UnixNano()}
}

func (l *Ledger) Create(ctx context.Context, b *models.Booking) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if _, exists := l.bookings[b.ID]; exists {
		return fmt.Errorf("create booking %s: duplicate id", b.ID)
	}
	if b.Status == "" {
		b.Status = string(domain.InitialStatus())
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = l.now()
	}

	occupies := domain.Status(b.Status).OccupiesSlot()
	key := keyOf(b.ServiceID, b.AppointmentAt)
	if occupies {
		if _, taken := l.active[key]; taken {
			return domain.ErrSlotTaken
		}
		l.active[key] = b.ID
	}

	l.bookings[b.ID] = *b
	return nil
}

func (l *Ledger) Get(ctx context.Context, id string) (*models.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	b, ok := l.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	return &b, nil
}

func (l *Ledger) UpdateStatus(ctx context.Context, id string, from, to domain.Status) (*models.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	if domain.Status(b.Status) != from {
		return nil, domain.ErrInvalidTransition
	}

	key := keyOf(b.ServiceID, b.AppointmentAt)
	switch {
	case from.OccupiesSlot() && !to.OccupiesSlot():
		delete(l.active, key)
	case !from.OccupiesSlot() && to.OccupiesSlot():
		if _, taken := l.active[key]; taken {
			return nil, domain.ErrSlotTaken
		}
		l.active[key] = b.ID
	}

	b.Status = string(to)
	l.bookings[id] = b
	return &b, nil
}

func (l *Ledger) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.bookings[id]
	if !ok {
		return domain.ErrBookingNotFound
	}

	key := keyOf(b.ServiceID, b.AppointmentAt)
	if l.active[key] == id {
		delete(l.active, key)
	}
	delete(l.bookings, id)
	return nil
}

func (l *Ledger) Find(ctx context.Context, f domain.BookingFilter) ([]models.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.RLock()
	out := make([]models.Booking, 0)
	for _, b := range l.bookings {
		if matches(b, f) {
			out = append(out, b)
		}
	}
	l.mu.RUnlock()

	slices.SortFunc(out, func(a, b models.Booking) int {
		c := a.AppointmentAt.Compare(b.AppointmentAt)
		if c == 0 {
			c = a.CreatedAt.Compare(b.CreatedAt)
		}
		if f.Descending {
			return -c
		}
		return c
	})

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func matches(b models.Booking, f domain.BookingFilter) bool {
	if f.ClientID != "" && b.ClientID != f.ClientID {
		return false
	}
	if f.ServiceID != "" && b.ServiceID != f.ServiceID {
		return false
	}
	if f.ProviderID != "" && b.ProviderID != f.ProviderID {
		return false
	}
	if !f.From.IsZero() && b.AppointmentAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !b.AppointmentAt.Before(f.To) {
		return false
	}
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, domain.Status(b.Status)) {
		return false
	}
	return true
}

func (l *Ledger) OccupiedBetween(ctx context.Context, serviceID string, start, end time.Time) ([]time.Time, error) {
	bookings, err := l.Find(ctx, domain.BookingFilter{
		ServiceID: serviceID,
		From:      start,
		To:        end,
		Statuses:  []domain.Status{domain.StatusPending, domain.StatusConfirmed, domain.StatusFinalized},
	})
	if err != nil {
		return nil, err
	}

	out := make([]time.Time, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, b.AppointmentAt)
	}
	return out, nil
}

var _ domain.Ledger = (*Ledger)(nil)
