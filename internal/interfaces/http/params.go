package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	dateLayout        = "2006-01-02"
	defaultWindowDays = 30
)

// queryDate lee un parámetro YYYY-MM-DD (UTC). nil si no viene.
func queryDate(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// endOfDay último instante del día: end_date es inclusivo.
func endOfDay(t time.Time) time.Time {
	return t.AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// queryRange ventana [start_date, end_date] con end_date inclusivo hasta el final del día.
// Por defecto termina hoy y abarca los últimos 30 días.
func queryRange(c *fiber.Ctx, now time.Time) (start, end time.Time, err error) {
	s, err := queryDate(c, "start_date")
	if err != nil {
		return start, end, err
	}
	e, err := queryDate(c, "end_date")
	if err != nil {
		return start, end, err
	}

	today := now.UTC().Truncate(24 * time.Hour)
	end = endOfDay(today)
	if e != nil {
		end = endOfDay(*e)
	}
	start = end.Add(time.Nanosecond).AddDate(0, 0, -defaultWindowDays)
	if s != nil {
		start = *s
	}
	return start, end, nil
}

// queryInt entero opcional; def si no viene.
func queryInt(c *fiber.Ctx, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
