package booking

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
)

type Slot struct {
	Start     time.Time `json:"start"`
	Available bool      `json:"available"`
}

// ListSlots combina a grade do serviço com o conjunto ocupado do dia.
type ListSlots struct {
	base
	occupied *OccupiedSlots
}

func NewListSlots(d Deps, occupied *OccupiedSlots) *ListSlots {
	return &ListSlots{base: newBase(d), occupied: occupied}
}

func (uc *ListSlots) Execute(
	ctx context.Context,
	serviceID string,
	date time.Time,
) ([]Slot, error) {

	if serviceID == "" || date.IsZero() {
		return nil, domain.ErrInvalidArgument
	}

	svc, err := uc.catalog.GetService(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	grid, err := uc.settings.grid(svc, date)
	if err != nil {
		return nil, err
	}

	occupied, err := uc.occupied.Execute(ctx, serviceID, date)
	if err != nil {
		return nil, err
	}

	taken := make(map[int64]struct{}, len(occupied))
	for _, t := range occupied {
		taken[t.Unix()] = struct{}{}
	}

	out := make([]Slot, 0, len(grid))
	for _, start := range grid {
		_, busy := taken[start.Unix()]
		out = append(out, Slot{Start: start, Available: !busy})
	}
	return out, nil
}
