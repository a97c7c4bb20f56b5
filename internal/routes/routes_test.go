package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/config"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/infra/cache"
	"github.com/BruksfildServices01/barber-booking/internal/infra/memory"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

const secret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router    *gin.Engine
	serviceID string
	date      string
	auditLog  *audit.MemoryWriter
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		JWTSecret:      secret,
		Timezone:       "UTC",
		OpenTime:       "08:00",
		CloseTime:      "20:00",
		RateLimitRPS:   100,
		RateLimitBurst: 100,
	}

	catalog := memory.NewCatalog()
	serviceID := catalog.Add(models.Service{ProviderID: "provider-1", Name: "Corte", DurationMin: 30})

	writer := audit.NewMemoryWriter()
	dispatcher := audit.NewDispatcher(writer, nil, nil)
	t.Cleanup(dispatcher.Close)

	r, err := NewRouter(Dependencies{
		Config:      cfg,
		Ledger:      memory.NewLedger(),
		Catalog:     catalog,
		Cache:       cache.Noop{},
		Audit:       dispatcher,
		AuditReader: writer,
		Metrics:     metrics.NewCollector(prometheus.NewRegistry()),
	})
	require.NoError(t, err)

	// sempre um dia no futuro para não cair em "horário passado"
	date := time.Now().UTC().Add(48 * time.Hour).Format("2006-01-02")

	return &testServer{router: r, serviceID: serviceID, date: date, auditLog: writer}
}

func token(t *testing.T, sub, role string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func (s *testServer) do(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (s *testServer) book(t *testing.T, bearer, clock string) *httptest.ResponseRecorder {
	return s.do(t, http.MethodPost, "/api/bookings", bearer, map[string]string{
		"service_id": s.serviceID,
		"date":       s.date,
		"time":       clock,
	})
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSlots_ListAndAvailability(t *testing.T) {
	s := newTestServer(t)
	client := token(t, "client-1", "client")

	w := s.do(t, http.MethodGet, "/api/services/"+s.serviceID+"/slots?date="+s.date, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	all := decode[httpresp.ListResponse[dto.SlotDTO]](t, w)
	assert.Equal(t, 25, all.Total)
	assert.Equal(t, "08:00", all.Data[0].Time)

	require.Equal(t, http.StatusCreated, s.book(t, client, "08:30").Code)

	w = s.do(t, http.MethodGet, "/api/services/"+s.serviceID+"/slots?available=true&date="+s.date, "", nil)
	free := decode[httpresp.ListResponse[dto.SlotDTO]](t, w)
	assert.Equal(t, 24, free.Total)
	for _, slot := range free.Data {
		assert.NotEqual(t, "08:30", slot.Time)
	}

	w = s.do(t, http.MethodGet, "/api/services/"+s.serviceID+"/occupied?date="+s.date, "", nil)
	occupied := decode[httpresp.ListResponse[dto.SlotDTO]](t, w)
	require.Equal(t, 1, occupied.Total)
	assert.Equal(t, "08:30", occupied.Data[0].Time)
}

func TestSlots_BadInput(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/services/"+s.serviceID+"/slots", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/services/"+s.serviceID+"/slots?date=01/02/2026", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/services/missing/slots?date="+s.date, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "service_not_found", decode[httperr.HTTPError](t, w).Code)
}

func TestCreateBooking_Errors(t *testing.T) {
	s := newTestServer(t)
	client := token(t, "client-1", "client")

	w := s.book(t, "", "08:30")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthenticated", decode[httperr.HTTPError](t, w).Code)

	w = s.book(t, "not-a-jwt", "08:30")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.book(t, client, "08:15")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "invalid_slot", decode[httperr.HTTPError](t, w).Code)

	w = s.book(t, client, "8h")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/bookings", client, map[string]string{"date": s.date})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	require.Equal(t, http.StatusCreated, s.book(t, client, "09:00").Code)
	w = s.book(t, token(t, "client-2", "client"), "09:00")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "slot_taken", decode[httperr.HTTPError](t, w).Code)
}

func TestBookingLifecycle(t *testing.T) {
	s := newTestServer(t)
	client := token(t, "client-1", "client")
	provider := token(t, "provider-1", "provider")
	stranger := token(t, "client-2", "client")

	w := s.book(t, client, "10:00")
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[dto.BookingDTO](t, w)
	assert.Equal(t, "pending", created.Status)
	assert.Equal(t, "10:00", created.Time)
	assert.Equal(t, s.date, created.Date)

	base := "/api/bookings/" + created.ID

	w = s.do(t, http.MethodPatch, base+"/confirm", client, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPatch, base+"/confirm", provider, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "confirmed", decode[dto.BookingDTO](t, w).Status)

	w = s.do(t, http.MethodPatch, base+"/confirm", provider, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "invalid_transition", decode[httperr.HTTPError](t, w).Code)

	w = s.do(t, http.MethodGet, base, stranger, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPatch, base+"/cancel", client, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cancelled", decode[dto.BookingDTO](t, w).Status)

	w = s.do(t, http.MethodPatch, base+"/finalize", provider, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPatch, "/api/bookings/missing/cancel", client, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// horário voltou a ficar livre
	require.Equal(t, http.StatusCreated, s.book(t, stranger, "10:00").Code)
}

func TestListings(t *testing.T) {
	s := newTestServer(t)
	client := token(t, "client-1", "client")
	provider := token(t, "provider-1", "provider")
	admin := token(t, "admin-1", "admin")

	require.Equal(t, http.StatusCreated, s.book(t, client, "08:00").Code)
	require.Equal(t, http.StatusCreated, s.book(t, client, "12:00").Code)
	require.Equal(t, http.StatusCreated, s.book(t, token(t, "client-2", "client"), "09:00").Code)

	w := s.do(t, http.MethodGet, "/api/me/bookings", client, nil)
	require.Equal(t, http.StatusOK, w.Code)
	mine := decode[httpresp.ListResponse[dto.BookingDTO]](t, w)
	require.Equal(t, 2, mine.Total)
	assert.Equal(t, "12:00", mine.Data[0].Time)

	w = s.do(t, http.MethodGet, "/api/provider/bookings?date="+s.date, provider, nil)
	require.Equal(t, http.StatusOK, w.Code)
	agenda := decode[httpresp.ListResponse[dto.BookingDTO]](t, w)
	require.Equal(t, 3, agenda.Total)
	assert.Equal(t, "08:00", agenda.Data[0].Time)

	w = s.do(t, http.MethodGet, "/api/provider/bookings?date="+s.date, client, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/api/admin/bookings", client, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/api/admin/bookings?status=pending", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, decode[httpresp.ListResponse[dto.BookingDTO]](t, w).Total)

	w = s.do(t, http.MethodGet, "/api/me/bookings", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuditLogs_AdminOnly(t *testing.T) {
	s := newTestServer(t)
	client := token(t, "client-1", "client")
	require.Equal(t, http.StatusCreated, s.book(t, client, "08:00").Code)

	w := s.do(t, http.MethodGet, "/api/admin/audit-logs", client, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	require.Eventually(t, func() bool {
		return len(s.auditLog.Entries()) == 1
	}, time.Second, 10*time.Millisecond)

	w = s.do(t, http.MethodGet, "/api/admin/audit-logs?action=booking_created", token(t, "admin-1", "admin"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Total int64             `json:"total"`
		Logs  []models.AuditLog `json:"logs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.EqualValues(t, 1, body.Total)
	assert.Equal(t, "client-1", body.Logs[0].ActorID)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodGet, "/health", "", nil)

	w := s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "booking_http_requests_total")
}
