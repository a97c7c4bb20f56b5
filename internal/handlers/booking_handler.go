package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	ucBooking "github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	reserve      *ucBooking.Reserve
	transition   *ucBooking.Transition
	get          *ucBooking.GetBooking
	listMine     *ucBooking.ListClientBookings
	listAll      *ucBooking.ListAllBookings
	listProvider *ucBooking.ListProviderBookingsByDate

	loc *time.Location
	log *zap.Logger
}

func NewBookingHandler(
	reserve *ucBooking.Reserve,
	transition *ucBooking.Transition,
	get *ucBooking.GetBooking,
	listMine *ucBooking.ListClientBookings,
	listAll *ucBooking.ListAllBookings,
	listProvider *ucBooking.ListProviderBookingsByDate,
	loc *time.Location,
	log *zap.Logger,
) *BookingHandler {
	return &BookingHandler{
		reserve:      reserve,
		transition:   transition,
		get:          get,
		listMine:     listMine,
		listAll:      listAll,
		listProvider: listProvider,
		loc:          loc,
		log:          log,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	ServiceID string `json:"service_id" binding:"required"`
	Date      string `json:"date" binding:"required"`
	Time      string `json:"time" binding:"required"`
}

// ======================================================
// CREATE
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	at, err := timezone.ParseDateTime(req.Date, req.Time, h.loc)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Data ou hora inválida.")
		return
	}

	bk, err := h.reserve.Execute(c.Request.Context(), middleware.CallerFrom(c), ucBooking.ReserveInput{
		ServiceID: req.ServiceID,
		At:        at,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	httpresp.Created(c, dto.NewBookingDTO(*bk, h.loc))
}

// ======================================================
// TRANSITIONS
// ======================================================

func (h *BookingHandler) Confirm(c *gin.Context) {
	h.applyTransition(c, domain.StatusConfirmed)
}

func (h *BookingHandler) Finalize(c *gin.Context) {
	h.applyTransition(c, domain.StatusFinalized)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	h.applyTransition(c, domain.StatusCancelled)
}

func (h *BookingHandler) applyTransition(c *gin.Context, target domain.Status) {
	bk, err := h.transition.Execute(
		c.Request.Context(),
		middleware.CallerFrom(c),
		c.Param("id"),
		target,
	)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	httpresp.OK(c, dto.NewBookingDTO(*bk, h.loc))
}

// ======================================================
// READ
// ======================================================

func (h *BookingHandler) Get(c *gin.Context) {
	bk, err := h.get.Execute(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	httpresp.OK(c, dto.NewBookingDTO(*bk, h.loc))
}

func (h *BookingHandler) ListMine(c *gin.Context) {
	bookings, err := h.listMine.Execute(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	httpresp.List(c, dto.NewBookingList(bookings, h.loc))
}

func (h *BookingHandler) ListAll(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	bookings, err := h.listAll.Execute(
		c.Request.Context(),
		middleware.CallerFrom(c),
		c.Query("status"),
		limit,
	)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	httpresp.List(c, dto.NewBookingList(bookings, h.loc))
}

func (h *BookingHandler) ListProviderByDate(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Data obrigatória.")
		return
	}

	date, err := timezone.ParseDate(dateStr, h.loc)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	bookings, err := h.listProvider.Execute(
		c.Request.Context(),
		middleware.CallerFrom(c),
		c.Query("provider_id"),
		date,
	)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	httpresp.List(c, dto.NewBookingList(bookings, h.loc))
}
