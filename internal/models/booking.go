package models

import "time"

// Booking é o registro de reserva. Depois de criado, apenas Status muda.
type Booking struct {
	ID string `gorm:"primaryKey;type:varchar(36)" json:"id"`

	ClientID string `gorm:"size:64;not null;index" json:"client_id"`

	ServiceID string   `gorm:"type:varchar(36);not null" json:"service_id"`
	Service   *Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"service,omitempty"`

	ProviderID string `gorm:"size:64;not null;index" json:"provider_id"`

	AppointmentAt time.Time `gorm:"not null" json:"appointment_at"`

	Status string `gorm:"size:20;not null;default:'pending'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
}
