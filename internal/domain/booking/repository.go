package booking

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// BookingFilter descreve critérios de busca; campos zerados não filtram.
// A janela de tempo é semiaberta: [From, To).
type BookingFilter struct {
	ClientID   string
	ServiceID  string
	ProviderID string

	From time.Time
	To   time.Time

	Statuses []Status

	Descending bool
	Limit      int
}

// Ledger é o armazenamento durável de reservas.
//
// Create falha com ErrSlotTaken se já existir reserva não cancelada para o
// mesmo (serviço, instante). UpdateStatus é compare-and-set: só aplica se o
// status atual ainda for from.
type Ledger interface {
	Create(ctx context.Context, b *models.Booking) error
	Get(ctx context.Context, id string) (*models.Booking, error)
	UpdateStatus(ctx context.Context, id string, from, to Status) (*models.Booking, error)
	Delete(ctx context.Context, id string) error
	Find(ctx context.Context, f BookingFilter) ([]models.Booking, error)
	OccupiedBetween(ctx context.Context, serviceID string, start, end time.Time) ([]time.Time, error)
}

// Catalog resolve serviços; é mantido por outro colaborador.
type Catalog interface {
	GetService(ctx context.Context, id string) (*models.Service, error)
}

// OccupancySnapshot é uma leitura do cache. Version é a geração atual do
// (serviço, dia) e vale mesmo em miss: Set só é aceito sob ela.
type OccupancySnapshot struct {
	Occupied []time.Time
	Version  int64
	Hit      bool
}

// OccupancyCache guarda o conjunto de horários ocupados por (serviço, dia).
// Invalidate avança a geração; um Set com geração antiga fica inacessível,
// então uma leitura do ledger anterior a uma escrita nunca é servida depois dela.
type OccupancyCache interface {
	Get(ctx context.Context, serviceID string, day time.Time) (OccupancySnapshot, error)
	Set(ctx context.Context, serviceID string, day time.Time, version int64, occupied []time.Time) error
	Invalidate(ctx context.Context, serviceID string, day time.Time) error
}
