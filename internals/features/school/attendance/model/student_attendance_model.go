// file: internals/features/school/attendance/model/student_attendance_model.go
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

/* =========================
   ENUM status kehadiran
   ========================= */

type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "present"
	AttendanceStatusAbsent  AttendanceStatus = "absent"
	AttendanceStatusLate    AttendanceStatus = "late"
	AttendanceStatusExcused AttendanceStatus = "excused"
	AttendanceStatusHoliday AttendanceStatus = "holiday"
)

var AllAttendanceStatuses = []AttendanceStatus{
	AttendanceStatusPresent,
	AttendanceStatusAbsent,
	AttendanceStatusLate,
	AttendanceStatusExcused,
	AttendanceStatusHoliday,
}

// ParseAttendanceStatus: case-insensitive ("Absent" == "absent").
func ParseAttendanceStatus(s string) (AttendanceStatus, bool) {
	st := AttendanceStatus(strings.ToLower(strings.TrimSpace(s)))
	return st, st.Valid()
}

func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusLate,
		AttendanceStatusExcused, AttendanceStatusHoliday:
		return true
	}
	return false
}

// Notifiable: status yang memicu notifikasi ke wali.
func (s AttendanceStatus) Notifiable() bool {
	return s == AttendanceStatusAbsent || s == AttendanceStatusLate
}

/* =========================
   Lifecycle (turunan, tidak disimpan)
   ========================= */

type RecordState string

const (
	RecordStateMarked          RecordState = "marked"
	RecordStateModifiedDirect  RecordState = "modified_direct"
	RecordStatePendingApproval RecordState = "pending_approval"
)

/* =========================================
   MODEL: student_attendances
   ========================================= */

type StudentAttendanceModel struct {
	StudentAttendanceID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:student_attendance_id" json:"student_attendance_id"`

	// kunci unik (student, class, date), immutable setelah insert
	StudentAttendanceStudentID string    `gorm:"type:varchar(64);not null;uniqueIndex:uq_student_attendance_student_class_date,priority:1;column:student_attendance_student_id" json:"student_attendance_student_id"`
	StudentAttendanceClassID   string    `gorm:"type:varchar(64);not null;uniqueIndex:uq_student_attendance_student_class_date,priority:2;index:idx_student_attendance_class_date,priority:1;column:student_attendance_class_id" json:"student_attendance_class_id"`
	StudentAttendanceDate      time.Time `gorm:"type:date;not null;uniqueIndex:uq_student_attendance_student_class_date,priority:3;index:idx_student_attendance_class_date,priority:2;column:student_attendance_date" json:"student_attendance_date"`

	StudentAttendanceStatus  AttendanceStatus `gorm:"type:varchar(16);not null;column:student_attendance_status" json:"student_attendance_status"`
	StudentAttendanceRemarks *string          `gorm:"type:text;column:student_attendance_remarks" json:"student_attendance_remarks,omitempty"`

	// meta penandaan
	StudentAttendanceMarkedBy string    `gorm:"type:varchar(64);not null;column:student_attendance_marked_by" json:"student_attendance_marked_by"`
	StudentAttendanceMarkedAt time.Time `gorm:"type:timestamptz;not null;column:student_attendance_marked_at" json:"student_attendance_marked_at"`

	// koreksi langsung (≤ window)
	StudentAttendanceIsModified bool       `gorm:"not null;default:false;column:student_attendance_is_modified" json:"student_attendance_is_modified"`
	StudentAttendanceModifiedBy *string    `gorm:"type:varchar(64);column:student_attendance_modified_by" json:"student_attendance_modified_by,omitempty"`
	StudentAttendanceModifiedAt *time.Time `gorm:"type:timestamptz;column:student_attendance_modified_at" json:"student_attendance_modified_at,omitempty"`

	// flag durable, tidak pernah di-clear oleh modul ini
	StudentAttendanceRequiresApproval bool `gorm:"not null;default:false;index;column:student_attendance_requires_approval" json:"student_attendance_requires_approval"`

	StudentAttendanceCreatedAt time.Time `gorm:"type:timestamptz;not null;default:now();column:student_attendance_created_at" json:"student_attendance_created_at"`
	StudentAttendanceUpdatedAt time.Time `gorm:"type:timestamptz;not null;default:now();column:student_attendance_updated_at" json:"student_attendance_updated_at"`
}

func (StudentAttendanceModel) TableName() string {
	return "student_attendances"
}

func (m *StudentAttendanceModel) State() RecordState {
	switch {
	case m.StudentAttendanceRequiresApproval:
		return RecordStatePendingApproval
	case m.StudentAttendanceIsModified:
		return RecordStateModifiedDirect
	default:
		return RecordStateMarked
	}
}

// Clone: deep copy (pointer field ikut disalin).
func (m *StudentAttendanceModel) Clone() *StudentAttendanceModel {
	if m == nil {
		return nil
	}
	out := *m
	if m.StudentAttendanceRemarks != nil {
		v := *m.StudentAttendanceRemarks
		out.StudentAttendanceRemarks = &v
	}
	if m.StudentAttendanceModifiedBy != nil {
		v := *m.StudentAttendanceModifiedBy
		out.StudentAttendanceModifiedBy = &v
	}
	if m.StudentAttendanceModifiedAt != nil {
		v := *m.StudentAttendanceModifiedAt
		out.StudentAttendanceModifiedAt = &v
	}
	return &out
}
