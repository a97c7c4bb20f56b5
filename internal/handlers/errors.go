package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

// respondError traduz erros de domínio em respostas HTTP. Qualquer outro
// erro vira 500 e é logado.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		httperr.Unauthorized(c, "unauthenticated", "Faça login para continuar.")
	case errors.Is(err, domain.ErrForbidden):
		httperr.Forbidden(c, "forbidden", "Você não tem permissão para esta ação.")
	case errors.Is(err, domain.ErrServiceNotFound):
		httperr.NotFound(c, "service_not_found", "Serviço não encontrado.")
	case errors.Is(err, domain.ErrBookingNotFound):
		httperr.NotFound(c, "booking_not_found", "Agendamento não encontrado.")
	case errors.Is(err, domain.ErrSlotTaken):
		httperr.Conflict(c, "slot_taken", "Horário indisponível. Escolha outro horário.")
	case errors.Is(err, domain.ErrInvalidTransition):
		httperr.Conflict(c, "invalid_transition", "Agendamento não pode mudar para este status.")
	case errors.Is(err, domain.ErrInvalidSlot):
		httperr.Unprocessable(c, "invalid_slot", "Horário fora da grade de atendimento.")
	case errors.Is(err, domain.ErrInvalidArgument):
		httperr.BadRequest(c, "invalid_argument", "Dados inválidos.")
	case errors.Is(err, domain.ErrInvalidConfiguration):
		log.Error("invalid schedule configuration", zap.String("path", c.FullPath()), zap.Error(err))
		httperr.Internal(c, "invalid_configuration", "Expediente do serviço mal configurado.")
	default:
		log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		httperr.Internal(c, "internal_error", "Erro interno.")
	}
}
