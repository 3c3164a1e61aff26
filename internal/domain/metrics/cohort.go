package metrics

import (
	"time"

	"github.com/jhoicas/Revenue-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// MaxRetentionOffset último mes de retención calculado por cohorte (month0..month5).
const MaxRetentionOffset = 5

// NotObservable valor de retención para meses que aún no ocurrieron.
var NotObservable = decimal.NewFromInt(-1)

// Cohort retención de los miembros que se unieron en un mismo mes calendario.
type Cohort struct {
	Start     time.Time
	Key       string // 2006-01
	Label     string // Jan 2006
	Size      int
	Retention [MaxRetentionOffset + 1]decimal.Decimal
}

// Cohorts cohortes de los últimos `count` meses calendario, terminando en el mes de now.
//
// Cada cohorte agrupa a los miembros cuya primera membresía inicia en ese mes; las vacías
// se omiten. month0 = 100; para k = 1..5 se evalúa el predicado temporal en inicio+k meses,
// o NotObservable si esa fecha es posterior a now.
func Cohorts(memberships []*entity.Membership, now time.Time, count int) []Cohort {
	if count <= 0 {
		return nil
	}
	firsts := firstStartByMember(memberships)
	byMember := GroupMembershipsByMember(memberships)
	current := monthStart(now)

	cohorts := make([]Cohort, 0, count)
	for i := count - 1; i >= 0; i-- {
		start := current.AddDate(0, -i, 0)
		end := start.AddDate(0, 1, 0)

		var members []string
		for memberID, first := range firsts {
			if !first.Before(start) && first.Before(end) {
				members = append(members, memberID)
			}
		}
		if len(members) == 0 {
			continue
		}

		c := Cohort{
			Start: start,
			Key:   start.Format("2006-01"),
			Label: start.Format("Jan 2006"),
			Size:  len(members),
		}
		c.Retention[0] = hundred
		for offset := 1; offset <= MaxRetentionOffset; offset++ {
			checkDate := start.AddDate(0, offset, 0)
			if checkDate.After(now) {
				c.Retention[offset] = NotObservable
				continue
			}
			retained := 0
			for _, memberID := range members {
				if anyActiveAt(byMember[memberID], checkDate) {
					retained++
				}
			}
			c.Retention[offset] = percentOf(retained, c.Size, 1)
		}
		cohorts = append(cohorts, c)
	}
	return cohorts
}

// ── Crecimiento de miembros ──

// GrowthPoint evolución mensual de la base de miembros.
type GrowthPoint struct {
	Start   time.Time
	Key     string
	Label   string
	Members int // activos al cierre del mes (o a now en el mes en curso)
	New     int
	Churned int
}

// MemberGrowth serie mensual de los últimos `months` meses terminando en el mes de now.
func MemberGrowth(memberships []*entity.Membership, now time.Time, months int) []GrowthPoint {
	if months <= 0 {
		return nil
	}
	current := monthStart(now)
	points := make([]GrowthPoint, 0, months)
	for i := months - 1; i >= 0; i-- {
		start := current.AddDate(0, -i, 0)
		end := start.AddDate(0, 1, 0)
		ref := end.Add(-time.Nanosecond)
		if ref.After(now) {
			ref = now
		}
		points = append(points, GrowthPoint{
			Start:   start,
			Key:     start.Format("2006-01"),
			Label:   start.Format("Jan 2006"),
			Members: ActiveSetAt(memberships, ref).Len(),
			New:     NewSetInWindow(memberships, start, end).Len(),
			Churned: ChurnedSetInWindow(memberships, start, end).Len(),
		})
	}
	return points
}
