package models

import "time"

// Service é a oferta reservável de um prestador. Do ponto de vista do
// motor de agendamento é somente leitura.
type Service struct {
	ID string `gorm:"primaryKey;type:varchar(36)" json:"id"`

	ProviderID string `gorm:"size:64;not null;index" json:"provider_id"`

	Name        string  `gorm:"size:120;not null" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	DurationMin int     `gorm:"not null" json:"duration_min"`
	Price       float64 `gorm:"type:decimal(10,2);not null;default:0" json:"price"`

	// Expediente próprio do serviço (HH:MM). Vazio usa o padrão global.
	OpenTime  string `gorm:"size:5" json:"open_time,omitempty"`
	CloseTime string `gorm:"size:5" json:"close_time,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
