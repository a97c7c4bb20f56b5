package audit

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// Query filtra a listagem de auditoria; From/To limitam created_at.
type Query struct {
	ActorID string
	Action  string
	Entity  string
	From    time.Time
	To      time.Time

	Page  int
	Limit int
}

func (q Query) normalized() Query {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 || q.Limit > 200 {
		q.Limit = 50
	}
	return q
}

func (q Query) offset() int {
	return (q.Page - 1) * q.Limit
}

func (q Query) matches(e models.AuditLog) bool {
	if q.ActorID != "" && e.ActorID != q.ActorID {
		return false
	}
	if q.Action != "" && e.Action != q.Action {
		return false
	}
	if q.Entity != "" && e.Entity != q.Entity {
		return false
	}
	if !q.From.IsZero() && e.CreatedAt.Before(q.From) {
		return false
	}
	if !q.To.IsZero() && !e.CreatedAt.Before(q.To) {
		return false
	}
	return true
}

// Reader lista eventos gravados, mais recentes primeiro.
type Reader interface {
	List(ctx context.Context, q Query) ([]models.AuditLog, int64, error)
}
