package audit

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// MemoryWriter mantém os eventos em memória (modo STORAGE_DRIVER=memory e testes).
type MemoryWriter struct {
	mu      sync.Mutex
	entries []models.AuditLog
}

func NewMemoryWriter() *MemoryWriter {
	return &MemoryWriter{}
}

func (w *MemoryWriter) Write(_ context.Context, ev Event) error {
	entry := toModel(ev)

	w.mu.Lock()
	entry.ID = uint(len(w.entries) + 1)
	entry.CreatedAt = time.Now()
	w.entries = append(w.entries, entry)
	w.mu.Unlock()
	return nil
}

// Entries devolve uma cópia, do mais antigo para o mais recente.
func (w *MemoryWriter) Entries() []models.AuditLog {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.entries)
}

func (w *MemoryWriter) List(_ context.Context, q Query) ([]models.AuditLog, int64, error) {
	q = q.normalized()

	w.mu.Lock()
	var matched []models.AuditLog
	for i := len(w.entries) - 1; i >= 0; i-- {
		if q.matches(w.entries[i]) {
			matched = append(matched, w.entries[i])
		}
	}
	w.mu.Unlock()

	total := int64(len(matched))
	start := min(q.offset(), len(matched))
	end := min(start+q.Limit, len(matched))
	return matched[start:end], total, nil
}

var (
	_ Writer = (*MemoryWriter)(nil)
	_ Reader = (*MemoryWriter)(nil)
)
