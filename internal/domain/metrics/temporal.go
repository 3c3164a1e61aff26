// Package metrics contiene el motor de métricas de ingresos: funciones puras sobre
// instantáneas de membresías, pagos y planes, evaluadas contra un instante de referencia.
//
// Ninguna función modifica sus entradas ni mantiene estado global. La lectura de datos
// y el cacheo viven en la capa de aplicación.
package metrics

import (
	"sort"
	"time"

	"github.com/jhoicas/Revenue-api/internal/domain/entity"
)

// MemberSet conjunto de IDs de miembro distintos. Todas las métricas cuentan miembros,
// no filas de membresía: un miembro con dos membresías simultáneas cuenta una vez.
type MemberSet map[string]struct{}

// Add agrega un miembro al conjunto.
func (s MemberSet) Add(memberID string) { s[memberID] = struct{}{} }

// Has informa si el miembro pertenece al conjunto.
func (s MemberSet) Has(memberID string) bool {
	_, ok := s[memberID]
	return ok
}

// Len cantidad de miembros distintos.
func (s MemberSet) Len() int { return len(s) }

// IDs devuelve los miembros ordenados (útil para respuestas deterministas).
func (s MemberSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// IsActiveAt es el único predicado temporal del sistema:
// StartDate <= t y (EndDate nulo o EndDate >= t). El estado no interviene.
func IsActiveAt(m *entity.Membership, t time.Time) bool {
	if m == nil || m.StartDate.After(t) {
		return false
	}
	return m.EndDate == nil || !m.EndDate.Before(t)
}

// ActiveSetAt miembros distintos con al menos una membresía activa en t.
func ActiveSetAt(memberships []*entity.Membership, t time.Time) MemberSet {
	set := MemberSet{}
	for _, m := range memberships {
		if IsActiveAt(m, t) {
			set.Add(m.MemberID)
		}
	}
	return set
}

// NewSetInWindow miembros cuya PRIMERA membresía (entre todas las suyas) inicia en [start, end).
func NewSetInWindow(memberships []*entity.Membership, start, end time.Time) MemberSet {
	set := MemberSet{}
	for memberID, first := range firstStartByMember(memberships) {
		if !first.Before(start) && first.Before(end) {
			set.Add(memberID)
		}
	}
	return set
}

// ChurnedSetInWindow miembros cuya membresía más reciente (por fecha de inicio) terminó con
// estado de baja y EndDate en [start, end). Una re-suscripción posterior a la baja pasa a
// ser la más reciente, así que ese miembro no cuenta como churn.
func ChurnedSetInWindow(memberships []*entity.Membership, start, end time.Time) MemberSet {
	set := MemberSet{}
	for memberID, list := range GroupMembershipsByMember(memberships) {
		latest := mostRecentByStart(list)
		if latest == nil || !latest.IsTerminal() || latest.EndDate == nil {
			continue
		}
		cancelledAt := *latest.EndDate
		if cancelledAt.Before(start) || !cancelledAt.Before(end) {
			continue
		}
		set.Add(memberID)
	}
	return set
}

// GroupMembershipsByMember agrupa las membresías por MemberID sin copiar los registros.
func GroupMembershipsByMember(memberships []*entity.Membership) map[string][]*entity.Membership {
	groups := make(map[string][]*entity.Membership)
	for _, m := range memberships {
		if m == nil {
			continue
		}
		groups[m.MemberID] = append(groups[m.MemberID], m)
	}
	return groups
}

// anyActiveAt informa si alguna de las membresías está activa en t.
func anyActiveAt(memberships []*entity.Membership, t time.Time) bool {
	for _, m := range memberships {
		if IsActiveAt(m, t) {
			return true
		}
	}
	return false
}

func firstStartByMember(memberships []*entity.Membership) map[string]time.Time {
	firsts := make(map[string]time.Time)
	for _, m := range memberships {
		if m == nil {
			continue
		}
		if cur, ok := firsts[m.MemberID]; !ok || m.StartDate.Before(cur) {
			firsts[m.MemberID] = m.StartDate
		}
	}
	return firsts
}

// mostRecentByStart: en empate de inicio gana la membresía abierta o la de fin más tardío.
func mostRecentByStart(list []*entity.Membership) *entity.Membership {
	var latest *entity.Membership
	for _, m := range list {
		switch {
		case latest == nil, m.StartDate.After(latest.StartDate):
			latest = m
		case m.StartDate.Equal(latest.StartDate) && endsLater(m, latest):
			latest = m
		}
	}
	return latest
}

func endsLater(a, b *entity.Membership) bool {
	if a.EndDate == nil {
		return b.EndDate != nil
	}
	return b.EndDate != nil && a.EndDate.After(*b.EndDate)
}

// monthStart primer instante del mes de t, en UTC.
func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// dayStart medianoche UTC del día de t.
func dayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
