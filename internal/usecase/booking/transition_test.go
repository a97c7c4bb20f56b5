package booking

import (
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
)

func TestTransition_HappyPath(t *testing.T) {
	f := newFixture(t)
	uc := NewTransition(f.deps)
	bk := f.reserve(t, client, "09:00")

	confirmed, err := uc.Confirm(t.Context(), provider, bk.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), confirmed.Status)

	finalized, err := uc.Finalize(t.Context(), provider, bk.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusFinalized), finalized.Status)

	// finalizada continua ocupando o horário
	occupied, err := NewOccupiedSlots(f.deps).Execute(t.Context(), f.serviceID, day)
	require.NoError(t, err)
	require.Len(t, occupied, 1)
	assert.True(t, occupied[0].Equal(at("09:00")))

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.TransitionsTotal.WithLabelValues("finalized", "ok")))
}

func TestTransition_SecondConfirmIsInvalid(t *testing.T) {
	f := newFixture(t)
	uc := NewTransition(f.deps)
	bk := f.reserve(t, client, "09:00")

	_, err := uc.Confirm(t.Context(), admin, bk.ID)
	require.NoError(t, err)

	_, err = uc.Confirm(t.Context(), admin, bk.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestTransition_CancelTwice(t *testing.T) {
	f := newFixture(t)
	uc := NewTransition(f.deps)
	bk := f.reserve(t, client, "09:00")

	cancelled, err := uc.Cancel(t.Context(), client, bk.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), cancelled.Status)

	_, err = uc.Cancel(t.Context(), client, bk.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	stored, err := f.ledger.Get(t.Context(), bk.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), stored.Status)
}

func TestTransition_OwnerCancelsConfirmedAndSlotReappears(t *testing.T) {
	f := newFixture(t)
	uc := NewTransition(f.deps)
	slotsUC := NewListSlots(f.deps, NewOccupiedSlots(f.deps))
	bk := f.reserve(t, client, "14:30")

	_, err := uc.Confirm(t.Context(), provider, bk.ID)
	require.NoError(t, err)

	slots, err := slotsUC.Execute(t.Context(), f.serviceID, day)
	require.NoError(t, err)
	assert.False(t, slotAt(t, slots, at("14:30")).Available)

	_, err = uc.Cancel(t.Context(), client, bk.ID)
	require.NoError(t, err)

	slots, err = slotsUC.Execute(t.Context(), f.serviceID, day)
	require.NoError(t, err)
	assert.True(t, slotAt(t, slots, at("14:30")).Available)
}

func TestTransition_CannotLeaveFinalized(t *testing.T) {
	f := newFixture(t)
	uc := NewTransition(f.deps)
	bk := f.reserve(t, client, "09:00")
	_, err := uc.Confirm(t.Context(), provider, bk.ID)
	require.NoError(t, err)
	_, err = uc.Finalize(t.Context(), provider, bk.ID)
	require.NoError(t, err)

	for _, c := range []*domain.Caller{client, provider, admin} {
		for _, target := range []domain.Status{domain.StatusPending, domain.StatusConfirmed, domain.StatusFinalized, domain.StatusCancelled} {
			_, err := uc.Execute(t.Context(), c, bk.ID, target)
			assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		}
	}
}

func TestTransition_Permissions(t *testing.T) {
	f := newFixture(t)
	uc := NewTransition(f.deps)
	bk := f.reserve(t, client, "09:00")

	_, err := uc.Confirm(t.Context(), client, bk.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Confirm(t.Context(), &domain.Caller{ID: "provider-2", Role: domain.RoleProvider}, bk.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Cancel(t.Context(), client2, bk.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Cancel(t.Context(), provider, bk.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Cancel(t.Context(), nil, bk.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = uc.Confirm(t.Context(), provider, "missing")
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)

	_, err = uc.Execute(t.Context(), provider, bk.ID, domain.Status("archived"))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.TransitionsTotal.WithLabelValues("cancelled", "forbidden")))
}

func TestTransition_ConcurrentConfirmAndCancelHaveOneWinner(t *testing.T) {
	for i := 0; i < 20; i++ {
		f := newFixture(t)
		uc := NewTransition(f.deps)
		bk := f.reserve(t, client, "16:00")

		var wg sync.WaitGroup
		var confirmErr, cancelErr error
		start := make(chan struct{})

		wg.Add(2)
		go func() {
			defer wg.Done()
			<-start
			_, confirmErr = uc.Confirm(t.Context(), provider, bk.ID)
		}()
		go func() {
			defer wg.Done()
			<-start
			_, cancelErr = uc.Cancel(t.Context(), client, bk.ID)
		}()
		close(start)
		wg.Wait()

		stored, err := f.ledger.Get(t.Context(), bk.ID)
		require.NoError(t, err)

		switch {
		case confirmErr == nil && cancelErr == nil:
			// confirm venceu e o cancel leu o estado já confirmado: sequencial, válido
			assert.Equal(t, string(domain.StatusCancelled), stored.Status)
		case confirmErr == nil:
			assert.True(t, errors.Is(cancelErr, domain.ErrInvalidTransition))
			assert.Equal(t, string(domain.StatusConfirmed), stored.Status)
		case cancelErr == nil:
			assert.True(t, errors.Is(confirmErr, domain.ErrInvalidTransition))
			assert.Equal(t, string(domain.StatusCancelled), stored.Status)
		default:
			t.Fatalf("both failed: confirm=%v cancel=%v", confirmErr, cancelErr)
		}
	}
}
