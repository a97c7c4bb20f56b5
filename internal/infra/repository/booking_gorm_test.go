package repository

import (
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/barber-booking/internal/db"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// Os testes abaixo precisam de um postgres real: TEST_DATABASE_URL.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := dbpkg.NewDB(&config.Config{DBUrl: url})
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbpkg.Close(db) })

	require.NoError(t, dbpkg.Migrate(db))
	return db
}

func seedService(t *testing.T, db *gorm.DB) models.Service {
	t.Helper()
	svc := models.Service{ProviderID: "provider-" + uuid.NewString()[:8], Name: "Corte", DurationMin: 30}
	require.NoError(t, NewServiceGormRepository(db).Create(t.Context(), &svc))
	return svc
}

func newBooking(svc models.Service, client string, at time.Time) *models.Booking {
	return &models.Booking{
		ClientID:      client,
		ServiceID:     svc.ID,
		ProviderID:    svc.ProviderID,
		AppointmentAt: at,
	}
}

func TestBookingGorm_CreateAndSlotTaken(t *testing.T) {
	db := openTestDB(t)
	repo := NewBookingGormRepository(db)
	svc := seedService(t, db)
	at := time.Date(2030, 3, 4, 10, 0, 0, 0, time.UTC)

	first := newBooking(svc, "c1", at)
	require.NoError(t, repo.Create(t.Context(), first))
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, string(domain.StatusPending), first.Status)

	err := repo.Create(t.Context(), newBooking(svc, "c2", at))
	assert.ErrorIs(t, err, domain.ErrSlotTaken)

	// cancelada libera o índice parcial
	_, err = repo.UpdateStatus(t.Context(), first.ID, domain.StatusPending, domain.StatusCancelled)
	require.NoError(t, err)
	require.NoError(t, repo.Create(t.Context(), newBooking(svc, "c2", at)))
}

func TestBookingGorm_ConcurrentCreateExactlyOne(t *testing.T) {
	db := openTestDB(t)
	repo := NewBookingGormRepository(db)
	svc := seedService(t, db)
	at := time.Date(2030, 3, 4, 11, 0, 0, 0, time.UTC)

	const n = 20
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Create(t.Context(), newBooking(svc, uuid.NewString(), at))
		}(i)
	}
	wg.Wait()

	var ok, taken int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrSlotTaken):
			taken++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, taken)
}

func TestBookingGorm_UpdateStatusCompareAndSet(t *testing.T) {
	db := openTestDB(t)
	repo := NewBookingGormRepository(db)
	svc := seedService(t, db)

	b := newBooking(svc, "c1", time.Date(2030, 3, 4, 12, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Create(t.Context(), b))

	got, err := repo.UpdateStatus(t.Context(), b.ID, domain.StatusPending, domain.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), got.Status)

	_, err = repo.UpdateStatus(t.Context(), b.ID, domain.StatusPending, domain.StatusConfirmed)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = repo.UpdateStatus(t.Context(), uuid.NewString(), domain.StatusPending, domain.StatusConfirmed)
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestBookingGorm_OccupiedBetweenAndFind(t *testing.T) {
	db := openTestDB(t)
	repo := NewBookingGormRepository(db)
	svc := seedService(t, db)
	day := time.Date(2030, 3, 5, 0, 0, 0, 0, time.UTC)

	for _, h := range []int{9, 10, 14} {
		require.NoError(t, repo.Create(t.Context(), newBooking(svc, "c1", day.Add(time.Duration(h)*time.Hour))))
	}
	// fora da janela
	require.NoError(t, repo.Create(t.Context(), newBooking(svc, "c1", day.Add(24*time.Hour))))

	occupied, err := repo.OccupiedBetween(t.Context(), svc.ID, day, day.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, occupied, 3)
	assert.True(t, occupied[0].Equal(day.Add(9*time.Hour)))

	found, err := repo.Find(t.Context(), domain.BookingFilter{
		ProviderID: svc.ProviderID,
		Descending: true,
		Limit:      2,
	})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.True(t, found[0].AppointmentAt.Equal(day.Add(24*time.Hour)))
}

func TestBookingGorm_Delete(t *testing.T) {
	db := openTestDB(t)
	repo := NewBookingGormRepository(db)
	svc := seedService(t, db)

	b := newBooking(svc, "c1", time.Date(2030, 3, 6, 9, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Create(t.Context(), b))

	require.NoError(t, repo.Delete(t.Context(), b.ID))
	assert.ErrorIs(t, repo.Delete(t.Context(), b.ID), domain.ErrBookingNotFound)

	_, err := repo.Get(t.Context(), b.ID)
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestServiceGorm_GetService(t *testing.T) {
	db := openTestDB(t)
	svc := seedService(t, db)
	catalog := NewServiceGormRepository(db)

	got, err := catalog.GetService(t.Context(), svc.ID)
	require.NoError(t, err)
	assert.Equal(t, svc.ProviderID, got.ProviderID)

	_, err = catalog.GetService(t.Context(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrServiceNotFound)
}
