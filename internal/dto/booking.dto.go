package dto

import (
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type BookingDTO struct {
	ID            string    `json:"id"`
	ClientID      string    `json:"client_id"`
	ServiceID     string    `json:"service_id"`
	ProviderID    string    `json:"provider_id"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	AppointmentAt time.Time `json:"appointment_at"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewBookingDTO formata data e hora no fuso do negócio.
func NewBookingDTO(b models.Booking, loc *time.Location) BookingDTO {
	local := b.AppointmentAt.In(loc)
	return BookingDTO{
		ID:            b.ID,
		ClientID:      b.ClientID,
		ServiceID:     b.ServiceID,
		ProviderID:    b.ProviderID,
		Date:          local.Format("2006-01-02"),
		Time:          local.Format("15:04"),
		AppointmentAt: local,
		Status:        b.Status,
		CreatedAt:     b.CreatedAt,
	}
}

func NewBookingList(in []models.Booking, loc *time.Location) []BookingDTO {
	out := make([]BookingDTO, 0, len(in))
	for _, b := range in {
		out = append(out, NewBookingDTO(b, loc))
	}
	return out
}

type SlotDTO struct {
	Time      string    `json:"time"`
	Start     time.Time `json:"start"`
	Available bool      `json:"available"`
}

func NewSlotDTO(start time.Time, available bool, loc *time.Location) SlotDTO {
	local := start.In(loc)
	return SlotDTO{
		Time:      local.Format("15:04"),
		Start:     local,
		Available: available,
	}
}
