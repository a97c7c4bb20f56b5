package booking

import (
	"slices"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusFinalized Status = "finalized"
	StatusCancelled Status = "cancelled"
)

func InitialStatus() Status {
	return StatusPending
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusFinalized, StatusCancelled:
		return true
	}
	return false
}

// Terminal: nenhuma transição sai de Finalized ou Cancelled.
func (s Status) Terminal() bool {
	return s == StatusFinalized || s == StatusCancelled
}

// OccupiesSlot diz se uma reserva nesse status bloqueia o horário.
// Cancelled libera o horário; Finalized o consome para sempre.
func (s Status) OccupiesSlot() bool {
	return s != StatusCancelled
}

// ===============================
// Actors
// ===============================

// Actor é o papel que um Caller exerce em relação a uma reserva específica.
type Actor string

const (
	ActorOwner    Actor = "owner"
	ActorProvider Actor = "provider"
	ActorAdmin    Actor = "admin"
)

// ActorsOf lista os papéis do caller perante a reserva. Um mesmo caller pode
// acumular mais de um (ex.: admin que também é o cliente).
func ActorsOf(c *Caller, b *models.Booking) []Actor {
	if !c.Authenticated() || b == nil {
		return nil
	}

	var actors []Actor
	if c.ID == b.ClientID {
		actors = append(actors, ActorOwner)
	}
	if c.Role == RoleProvider && c.ID == b.ProviderID {
		actors = append(actors, ActorProvider)
	}
	if c.Role == RoleAdmin {
		actors = append(actors, ActorAdmin)
	}
	return actors
}

// ===============================
// Transition Table
// ===============================

type edge struct {
	from Status
	to   Status
}

// transitions é a tabela Actor × From × To. Arestas ausentes não existem no
// grafo; atores ausentes na lista não têm permissão.
var transitions = map[edge][]Actor{
	{StatusPending, StatusConfirmed}:   {ActorProvider, ActorAdmin},
	{StatusConfirmed, StatusFinalized}: {ActorProvider, ActorAdmin},
	{StatusPending, StatusCancelled}:   {ActorOwner},
	{StatusConfirmed, StatusCancelled}: {ActorOwner},
}

// CanTransition verifica só o grafo de status, sem olhar permissões.
func CanTransition(from, to Status) bool {
	_, ok := transitions[edge{from, to}]
	return ok
}

// AllowedActors retorna quem pode aplicar from → to (nil se a aresta não existe).
func AllowedActors(from, to Status) []Actor {
	return slices.Clone(transitions[edge{from, to}])
}

// Decide aplica a tabela à reserva no estado atual: aresta inexistente vira
// ErrInvalidTransition, ator sem permissão vira ErrForbidden.
func Decide(c *Caller, b *models.Booking, to Status) error {
	if !c.Authenticated() {
		return ErrUnauthenticated
	}

	from := Status(b.Status)
	if from.Terminal() || !CanTransition(from, to) {
		return ErrInvalidTransition
	}

	allowed := AllowedActors(from, to)
	for _, a := range ActorsOf(c, b) {
		if slices.Contains(allowed, a) {
			return nil
		}
	}
	return ErrForbidden
}

// CanView: dono, prestador da reserva ou admin.
func CanView(c *Caller, b *models.Booking) bool {
	return len(ActorsOf(c, b)) > 0
}
