package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	reader audit.Reader
	log    *zap.Logger
}

func NewAuditLogsHandler(reader audit.Reader, log *zap.Logger) *AuditLogsHandler {
	return &AuditLogsHandler{reader: reader, log: log}
}

// List é restrito a admins.
func (h *AuditLogsHandler) List(c *gin.Context) {
	caller := middleware.CallerFrom(c)
	if !caller.Authenticated() {
		respondError(c, h.log, domain.ErrUnauthenticated)
		return
	}
	if !caller.IsAdmin() {
		respondError(c, h.log, domain.ErrForbidden)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	q := audit.Query{
		ActorID: c.Query("actor_id"),
		Action:  c.Query("action"),
		Entity:  c.Query("entity"),
		Page:    page,
		Limit:   limit,
	}

	if fromStr := c.Query("from"); fromStr != "" {
		if from, err := time.Parse("2006-01-02", fromStr); err == nil {
			q.From = from
		}
	}
	if toStr := c.Query("to"); toStr != "" {
		if to, err := time.Parse("2006-01-02", toStr); err == nil {
			q.To = to.Add(24 * time.Hour)
		}
	}

	logs, total, err := h.reader.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(200, gin.H{
		"page":  page,
		"limit": limit,
		"total": total,
		"logs":  logs,
	})
}
