// file: internals/features/school/attendance/notification/recorder.go
package notification

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"sanchalak_backend/internals/features/school/attendance/model"
)

// Recorder menyimpan hasil tiap percobaan kirim.
type Recorder interface {
	Record(ctx context.Context, entry *model.StudentAttendanceNotificationLogModel) error
}

type GormRecorder struct {
	DB *gorm.DB
}

func NewGormRecorder(db *gorm.DB) *GormRecorder {
	return &GormRecorder{DB: db}
}

func (r *GormRecorder) Record(ctx context.Context, entry *model.StudentAttendanceNotificationLogModel) error {
	return r.DB.WithContext(ctx).Create(entry).Error
}

// DefaultMemoryLogLimit: jumlah log terakhir yang disimpan MemoryRecorder.
const DefaultMemoryLogLimit = 1000

// MemoryRecorder untuk mode memory & test. Hanya menyimpan Limit entry
// terakhir (0 = DefaultMemoryLogLimit); yang paling lama dibuang.
type MemoryRecorder struct {
	Limit int

	mu      sync.Mutex
	entries []model.StudentAttendanceNotificationLogModel
}

func NewMemoryRecorder(limit int) *MemoryRecorder {
	return &MemoryRecorder{Limit: limit}
}

func (r *MemoryRecorder) Record(_ context.Context, entry *model.StudentAttendanceNotificationLogModel) error {
	limit := r.Limit
	if limit <= 0 {
		limit = DefaultMemoryLogLimit
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) >= limit {
		n := copy(r.entries, r.entries[len(r.entries)-limit+1:])
		r.entries = r.entries[:n]
	}
	r.entries = append(r.entries, *entry)
	return nil
}

// Entries: urut dari yang paling lama.
func (r *MemoryRecorder) Entries() []model.StudentAttendanceNotificationLogModel {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.StudentAttendanceNotificationLogModel, len(r.entries))
	copy(out, r.entries)
	return out
}
