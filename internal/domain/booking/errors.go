package booking

import "github.com/BruksfildServices01/barber-booking/internal/httperr"

// ===============================
// Domain Errors
// ===============================

var (
	ErrUnauthenticated      = httperr.ErrBusiness("unauthenticated")
	ErrForbidden            = httperr.ErrBusiness("forbidden")
	ErrServiceNotFound      = httperr.ErrBusiness("service_not_found")
	ErrBookingNotFound      = httperr.ErrBusiness("booking_not_found")
	ErrInvalidSlot          = httperr.ErrBusiness("invalid_slot")
	ErrSlotTaken            = httperr.ErrBusiness("slot_taken")
	ErrInvalidTransition    = httperr.ErrBusiness("invalid_transition")
	ErrInvalidConfiguration = httperr.ErrBusiness("invalid_configuration")
	ErrInvalidArgument      = httperr.ErrBusiness("invalid_argument")
)
