package entity

import "time"

// Company representa el tenant (comunidad/negocio) cuyos datos se sincronizan desde la plataforma externa.
type Company struct {
	ID         string
	ExternalID string // ID de la empresa en la plataforma de comercio
	Name       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
