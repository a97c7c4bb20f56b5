package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Create
// --------------------------------------------------

// Create depende do índice único parcial uniq_bookings_active_slot; a
// violação é traduzida para ErrSlotTaken.
func (r *BookingGormRepository) Create(
	ctx context.Context,
	b *models.Booking,
) error {

	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Status == "" {
		b.Status = string(domain.InitialStatus())
	}

	if err := r.db.WithContext(ctx).Omit("Service").Create(b).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			return domain.ErrSlotTaken
		}
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

// --------------------------------------------------
// Read
// --------------------------------------------------

func (r *BookingGormRepository) Get(
	ctx context.Context,
	id string,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("get booking %s: %w", id, err)
	}
	return &b, nil
}

// --------------------------------------------------
// Status (compare-and-set)
// --------------------------------------------------

func (r *BookingGormRepository) UpdateStatus(
	ctx context.Context,
	id string,
	from domain.Status,
	to domain.Status,
) (*models.Booking, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND status = ?", id, string(from)).
		Update("status", string(to))
	if res.Error != nil {
		if httperr.IsUniqueViolation(res.Error) {
			return nil, domain.ErrSlotTaken
		}
		return nil, fmt.Errorf("update booking %s status: %w", id, res.Error)
	}

	// nenhuma linha: ou não existe, ou outro request mudou o status antes
	if res.RowsAffected == 0 {
		if _, err := r.Get(ctx, id); err != nil {
			return nil, err
		}
		return nil, domain.ErrInvalidTransition
	}

	return r.Get(ctx, id)
}

// --------------------------------------------------
// Delete
// --------------------------------------------------

func (r *BookingGormRepository) Delete(
	ctx context.Context,
	id string,
) error {

	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Booking{})
	if res.Error != nil {
		return fmt.Errorf("delete booking %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

// --------------------------------------------------
// Queries
// --------------------------------------------------

func (r *BookingGormRepository) Find(
	ctx context.Context,
	f domain.BookingFilter,
) ([]models.Booking, error) {

	q := r.db.WithContext(ctx).Model(&models.Booking{})

	if f.ClientID != "" {
		q = q.Where("client_id = ?", f.ClientID)
	}
	if f.ServiceID != "" {
		q = q.Where("service_id = ?", f.ServiceID)
	}
	if f.ProviderID != "" {
		q = q.Where("provider_id = ?", f.ProviderID)
	}
	if !f.From.IsZero() {
		q = q.Where("appointment_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("appointment_at < ?", f.To)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", statusStrings(f.Statuses))
	}

	if f.Descending {
		q = q.Order("appointment_at DESC").Order("created_at DESC")
	} else {
		q = q.Order("appointment_at ASC").Order("created_at ASC")
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var out []models.Booking
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("find bookings: %w", err)
	}
	return out, nil
}

func (r *BookingGormRepository) OccupiedBetween(
	ctx context.Context,
	serviceID string,
	start time.Time,
	end time.Time,
) ([]time.Time, error) {

	var out []time.Time
	if err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where(
			"service_id = ? AND status <> ? AND appointment_at >= ? AND appointment_at < ?",
			serviceID, string(domain.StatusCancelled), start, end,
		).
		Order("appointment_at ASC").
		Pluck("appointment_at", &out).Error; err != nil {
		return nil, fmt.Errorf("occupied slots for service %s: %w", serviceID, err)
	}
	return out, nil
}

func statusStrings(in []domain.Status) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, string(s))
	}
	return out
}

// Compile-time check
var _ domain.Ledger = (*BookingGormRepository)(nil)
