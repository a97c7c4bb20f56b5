package booking

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/infra/cache"
	"github.com/BruksfildServices01/barber-booking/internal/infra/memory"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

var (
	// "hoje" fixo para os testes: 1º de setembro de 2026, 07:00 UTC
	testNow = time.Date(2026, 9, 1, 7, 0, 0, 0, time.UTC)
	day     = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	client   = &domain.Caller{ID: "client-1", Role: domain.RoleClient}
	client2  = &domain.Caller{ID: "client-2", Role: domain.RoleClient}
	provider = &domain.Caller{ID: "provider-1", Role: domain.RoleProvider}
	admin    = &domain.Caller{ID: "admin-1", Role: domain.RoleAdmin}
)

func at(hhmm string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", "2026-09-01 "+hhmm, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

type fixture struct {
	deps      Deps
	ledger    *memory.Ledger
	catalog   *memory.Catalog
	auditLog  *audit.MemoryWriter
	metrics   *metrics.Collector
	serviceID string
	redis     *miniredis.Miniredis
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	hours, err := domain.ParseOperatingHours("08:00", "20:00")
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	ledger := memory.NewLedger()
	catalog := memory.NewCatalog()
	serviceID := catalog.Add(models.Service{
		ProviderID:  provider.ID,
		Name:        "Corte",
		DurationMin: 30,
		Price:       45,
	})

	writer := audit.NewMemoryWriter()
	dispatcher := audit.NewDispatcher(writer, nil, nil)
	t.Cleanup(dispatcher.Close)

	collector := metrics.NewCollector(prometheus.NewRegistry())

	return &fixture{
		deps: Deps{
			Ledger:  ledger,
			Catalog: catalog,
			Cache:   cache.NewRedisOccupancy(rdb, time.Minute),
			Audit:   dispatcher,
			Metrics: collector,
			Settings: Settings{
				Hours:    hours,
				Location: time.UTC,
				Now:      func() time.Time { return testNow },
			},
		},
		ledger:    ledger,
		catalog:   catalog,
		auditLog:  writer,
		metrics:   collector,
		serviceID: serviceID,
		redis:     mr,
	}
}

func (f *fixture) reserve(t *testing.T, caller *domain.Caller, hhmm string) *models.Booking {
	t.Helper()
	bk, err := NewReserve(f.deps).Execute(t.Context(), caller, ReserveInput{ServiceID: f.serviceID, At: at(hhmm)})
	require.NoError(t, err)
	return bk
}

func slotAt(t *testing.T, slots []Slot, when time.Time) Slot {
	t.Helper()
	for _, s := range slots {
		if s.Start.Equal(when) {
			return s
		}
	}
	t.Fatalf("no slot at %s", when)
	return Slot{}
}
