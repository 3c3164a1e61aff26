package entity

import "time"

// Estados de una membresía tal como llegan de la plataforma.
const (
	MembershipActive     = "active"
	MembershipTrialing   = "trialing"
	MembershipPastDue    = "past_due"
	MembershipCompleted  = "completed"
	MembershipCancelled  = "cancelled"
	MembershipCanceled   = "canceled"
	MembershipExpired    = "expired"
	MembershipUnresolved = "unresolved"
	MembershipDrafted    = "drafted"
)

// Membership relación acotada en el tiempo entre un Member y un Plan.
// EndDate nil significa que sigue abierta. Invariante: StartDate <= *EndDate.
type Membership struct {
	ID                string
	CompanyID         string
	MemberID          string
	ProductID         string
	PlanID            string
	ExternalID        string
	Status            string
	StartDate         time.Time
	EndDate           *time.Time
	CancelAtPeriodEnd bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsTerminal indica si el estado es de baja (cancelada o expirada).
func (m *Membership) IsTerminal() bool {
	switch m.Status {
	case MembershipCancelled, MembershipCanceled, MembershipExpired:
		return true
	}
	return false
}

// IsCancelled acepta ambas grafías que envía la plataforma.
func (m *Membership) IsCancelled() bool {
	return m.Status == MembershipCancelled || m.Status == MembershipCanceled
}

// IsCurrent indica si el estado actual es activo o en prueba (camino rápido "ahora").
func (m *Membership) IsCurrent() bool {
	return m.Status == MembershipActive || m.Status == MembershipTrialing
}
