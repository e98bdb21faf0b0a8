// file: internals/features/school/attendance/store/store.go
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"sanchalak_backend/internals/features/school/attendance/model"
)

var (
	ErrNotFound  = errors.New("attendance store: record not found")
	ErrDuplicate = errors.New("attendance store: record already exists for student/class/date")
)

// Mutation hasil keputusan MutateFunc di dalam critical section.
//   - Apply=true      → field status/remarks/modified_* pada record sudah diubah, simpan.
//   - Proposal != nil → status/remarks TIDAK diubah; set requires_approval dan simpan proposal.
//   - keduanya kosong → no-op.
type Mutation struct {
	Apply    bool
	Proposal *model.StudentAttendanceCorrectionModel
}

// MutateFunc dipanggil dengan lock per-record sudah dipegang.
type MutateFunc func(rec *model.StudentAttendanceModel) (Mutation, error)

// Filter untuk Find. Field kosong/nil = tidak difilter.
type Filter struct {
	StudentID string
	ClassID   string
	Date      *time.Time
	StartDate *time.Time // inklusif
	EndDate   *time.Time // inklusif
	Status    model.AttendanceStatus

	Offset int
	Limit  int // <= 0 → semua
}

// Store: ledger attendance. Satu-satunya penulis record.
type Store interface {
	// Insert atomik terhadap (student, class, date); duplikat → ErrDuplicate.
	Insert(ctx context.Context, rec *model.StudentAttendanceModel) error

	FindByID(ctx context.Context, id uuid.UUID) (*model.StudentAttendanceModel, error)
	FindByKey(ctx context.Context, studentID, classID string, date time.Time) (*model.StudentAttendanceModel, error)

	// Update: read-branch-write atomik per record.
	Update(ctx context.Context, id uuid.UUID, fn MutateFunc) (*model.StudentAttendanceModel, error)

	// Find: urut date desc, marked_at desc. total = jumlah sebelum paging.
	Find(ctx context.Context, f Filter) ([]model.StudentAttendanceModel, int64, error)

	ListCorrections(ctx context.Context, attendanceID uuid.UUID) ([]model.StudentAttendanceCorrectionModel, error)
	CountPendingApproval(ctx context.Context) (int64, error)
}
