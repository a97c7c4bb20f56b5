package booking

import (
	"fmt"
	"time"
)

const (
	DefaultSlotInterval = 30 * time.Minute
	DefaultOpen         = "08:00"
	DefaultClose        = "20:00"
)

// TimeOfDay é um horário de parede (HH:MM) sem data.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: time of day %q", ErrInvalidConfiguration, s)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) minutes() int {
	return t.Hour*60 + t.Minute
}

// On monta o instante desse horário na data informada (fuso da data).
func (t TimeOfDay) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour, t.Minute, 0, 0, date.Location())
}

// ===============================
// Operating Hours
// ===============================

type OperatingHours struct {
	Open  TimeOfDay
	Close TimeOfDay
}

func ParseOperatingHours(openAt, closeAt string) (OperatingHours, error) {
	o, err := ParseTimeOfDay(openAt)
	if err != nil {
		return OperatingHours{}, err
	}
	c, err := ParseTimeOfDay(closeAt)
	if err != nil {
		return OperatingHours{}, err
	}
	if o.minutes() > c.minutes() {
		return OperatingHours{}, fmt.Errorf("%w: open %s after close %s", ErrInvalidConfiguration, o, c)
	}
	return OperatingHours{Open: o, Close: c}, nil
}

// WithOverride aplica o expediente próprio de um serviço; campos vazios
// mantêm o valor atual.
func (h OperatingHours) WithOverride(openAt, closeAt string) (OperatingHours, error) {
	if openAt == "" {
		openAt = h.Open.String()
	}
	if closeAt == "" {
		closeAt = h.Close.String()
	}
	return ParseOperatingHours(openAt, closeAt)
}

// SlotInterval usa a duração do serviço, com 30 minutos de fallback.
func SlotInterval(durationMin int) time.Duration {
	if durationMin <= 0 {
		return DefaultSlotInterval
	}
	return time.Duration(durationMin) * time.Minute
}

// ===============================
// Generator
// ===============================

// GenerateSlots produz os inícios de slot de opening até closing (inclusive),
// espaçados por interval, na data e fuso de date. Cada slot é montado como
// horário de parede, então dias com troca de horário de verão não deslocam a grade.
func GenerateSlots(date time.Time, opening, closing TimeOfDay, interval time.Duration) ([]time.Time, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("%w: interval must be positive", ErrInvalidConfiguration)
	}
	if opening.minutes() > closing.minutes() {
		return nil, fmt.Errorf("%w: open %s after close %s", ErrInvalidConfiguration, opening, closing)
	}

	step := int(interval / time.Second)
	if step <= 0 {
		return nil, fmt.Errorf("%w: interval below one second", ErrInvalidConfiguration)
	}

	first := opening.minutes() * 60
	last := closing.minutes() * 60

	slots := make([]time.Time, 0, (last-first)/step+1)
	for sec := first; sec <= last; sec += step {
		slots = append(slots, time.Date(
			date.Year(), date.Month(), date.Day(),
			0, 0, sec, 0,
			date.Location(),
		))
	}
	return slots, nil
}

// Slots gera a grade de um dia para o expediente informado.
func (h OperatingHours) Slots(date time.Time, interval time.Duration) ([]time.Time, error) {
	return GenerateSlots(date, h.Open, h.Close, interval)
}

// OnGrid verifica se o instante é exatamente um dos slots gerados.
func OnGrid(slots []time.Time, at time.Time) bool {
	for _, s := range slots {
		if s.Equal(at) {
			return true
		}
	}
	return false
}

// StartOfDay é a meia-noite da data no fuso loc.
func StartOfDay(date time.Time, loc *time.Location) time.Time {
	d := date.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}

// DayWindow devolve a janela semiaberta [início do dia, início + 24h).
func DayWindow(date time.Time, loc *time.Location) (time.Time, time.Time) {
	start := StartOfDay(date, loc)
	return start, start.Add(24 * time.Hour)
}
