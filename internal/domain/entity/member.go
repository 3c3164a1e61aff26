package entity

import "time"

// Member identidad de un cliente de la empresa. CreatedAt es la fecha de alta (join date).
type Member struct {
	ID             string
	CompanyID      string
	ExternalUserID string
	Email          string
	Username       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
