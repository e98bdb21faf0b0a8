// file: internals/features/school/attendance/service/service.go
package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"sanchalak_backend/internals/features/school/attendance/directory"
	"sanchalak_backend/internals/features/school/attendance/model"
	"sanchalak_backend/internals/features/school/attendance/notification"
	"sanchalak_backend/internals/features/school/attendance/store"
	"sanchalak_backend/internals/helpers/dbtime"
)

// DefaultCorrectionWindow: batas koreksi langsung setelah marked_at.
const DefaultCorrectionWindow = 24 * time.Hour

// Notifier: sisi kirim event, implementasi utama notification.Dispatcher.
// Enqueue wajib non-blocking.
type Notifier interface {
	Enqueue(ev notification.Event) (string, bool)
}

type Deps struct {
	Store            store.Store
	Students         directory.StudentDirectory
	Classes          directory.ClassDirectory
	Notifier         Notifier // opsional
	Clock            dbtime.Clock
	CorrectionWindow time.Duration
}

// AttendanceService: marking, koreksi, dan agregasi di atas satu Store.
type AttendanceService struct {
	store    store.Store
	students directory.StudentDirectory
	classes  directory.ClassDirectory
	notifier Notifier
	clock    dbtime.Clock
	window   time.Duration
}

func NewAttendanceService(d Deps) *AttendanceService {
	if d.Store == nil {
		panic("attendance service: store is required")
	}
	if d.Students == nil || d.Classes == nil {
		panic("attendance service: student and class directory are required")
	}
	clock := d.Clock
	if clock == nil {
		clock = dbtime.SystemClock{}
	}
	window := d.CorrectionWindow
	if window <= 0 {
		window = DefaultCorrectionWindow
	}
	return &AttendanceService{
		store:    d.Store,
		students: d.Students,
		classes:  d.Classes,
		notifier: d.Notifier,
		clock:    clock,
		window:   window,
	}
}

var allowedStatuses = func() string {
	parts := make([]string, 0, len(model.AllAttendanceStatuses))
	for _, st := range model.AllAttendanceStatuses {
		parts = append(parts, string(st))
	}
	return strings.Join(parts, ", ")
}()

func invalidStatus(raw string) error {
	return validationf("invalid status %q (allowed: %s)", raw, allowedStatuses)
}

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// mapDirectoryErr: directory.ErrNotFound → ErrNotFound, selain itu apa adanya.
func mapDirectoryErr(err error, what, id string) error {
	if errors.Is(err, directory.ErrNotFound) {
		return fmt.Errorf("%w: %s %s", ErrNotFound, what, id)
	}
	return fmt.Errorf("resolve %s %s: %w", what, id, err)
}
