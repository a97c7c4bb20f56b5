package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	ucBooking "github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
)

type AvailabilityHandler struct {
	slots    *ucBooking.ListSlots
	occupied *ucBooking.OccupiedSlots
	loc      *time.Location
	log      *zap.Logger
}

func NewAvailabilityHandler(
	slots *ucBooking.ListSlots,
	occupied *ucBooking.OccupiedSlots,
	loc *time.Location,
	log *zap.Logger,
) *AvailabilityHandler {
	return &AvailabilityHandler{slots: slots, occupied: occupied, loc: loc, log: log}
}

func (h *AvailabilityHandler) date(c *gin.Context) (time.Time, bool) {
	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Data obrigatória.")
		return time.Time{}, false
	}
	date, err := timezone.ParseDate(dateStr, h.loc)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return time.Time{}, false
	}
	return date, true
}

// Slots: GET /api/services/:id/slots?date=YYYY-MM-DD
func (h *AvailabilityHandler) Slots(c *gin.Context) {
	date, ok := h.date(c)
	if !ok {
		return
	}

	slots, err := h.slots.Execute(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	out := make([]dto.SlotDTO, 0, len(slots))
	for _, s := range slots {
		if c.Query("available") == "true" && !s.Available {
			continue
		}
		out = append(out, dto.NewSlotDTO(s.Start, s.Available, h.loc))
	}
	httpresp.List(c, out)
}

// Occupied: GET /api/services/:id/occupied?date=YYYY-MM-DD
func (h *AvailabilityHandler) Occupied(c *gin.Context) {
	date, ok := h.date(c)
	if !ok {
		return
	}

	occupied, err := h.occupied.Execute(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	out := make([]dto.SlotDTO, 0, len(occupied))
	for _, t := range occupied {
		out = append(out, dto.NewSlotDTO(t, false, h.loc))
	}
	httpresp.List(c, out)
}
