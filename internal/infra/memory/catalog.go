package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type Catalog struct {
	mu       sync.RWMutex
	services map[string]models.Service
}

func NewCatalog(services ...models.Service) *Catalog {
	c := &Catalog{services: make(map[string]models.Service)}
	for _, s := range services {
		c.Add(s)
	}
	return c
}

// Add registra (ou substitui) um serviço e devolve o id atribuído.
func (c *Catalog) Add(s models.Service) string {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	now := time.Now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	c.mu.Lock()
	c.services[s.ID] = s
	c.mu.Unlock()
	return s.ID
}

func (c *Catalog) GetService(ctx context.Context, id string) (*models.Service, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.services[id]
	if !ok {
		return nil, domain.ErrServiceNotFound
	}
	return &s, nil
}

var _ domain.Catalog = (*Catalog)(nil)
