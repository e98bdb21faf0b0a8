// file: internals/helpers/dbtime/dbtime.go
package dbtime

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// DateLayout format tanggal kalender di API & query.
const DateLayout = "2006-01-02"

// Clock sumber "sekarang". Service tidak boleh baca time.Now() langsung.
type Clock interface {
	Now() time.Time
}

/* =========================
   System clock
   ========================= */

// SystemClock: waktu sistem dalam timezone sekolah (nil → UTC).
type SystemClock struct {
	Loc *time.Location
}

func (c SystemClock) Now() time.Time {
	loc := c.Loc
	if loc == nil {
		loc = time.UTC
	}
	return time.Now().In(loc)
}

/* =========================
   Fixed clock (test / replay)
   ========================= */

type FixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{t: t}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

/* =========================
   Calendar day helpers
   ========================= */

// DateOnly: ambil tanggal kalender dari t (dalam lokasi t sendiri) → 00:00 UTC.
// Semua tanggal attendance disimpan dalam bentuk ini.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate: "YYYY-MM-DD" → tanggal kalender (UTC midnight).
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", s)
	}
	return t, nil
}

// ParseOptionalDate: string kosong → nil.
func ParseOptionalDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
