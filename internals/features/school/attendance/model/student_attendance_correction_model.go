package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// StudentAttendanceCorrectionModel: usulan koreksi yang ditunda (di luar window).
// Ditulis bersamaan dengan flag requires_approval; append-only.
type StudentAttendanceCorrectionModel struct {
	StudentAttendanceCorrectionID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:student_attendance_correction_id" json:"student_attendance_correction_id"`
	StudentAttendanceCorrectionAttendanceID uuid.UUID `gorm:"type:uuid;not null;index;column:student_attendance_correction_attendance_id" json:"student_attendance_correction_attendance_id"`

	StudentAttendanceCorrectionProposedStatus  AttendanceStatus `gorm:"type:varchar(16);not null;column:student_attendance_correction_proposed_status" json:"student_attendance_correction_proposed_status"`
	StudentAttendanceCorrectionProposedRemarks *string          `gorm:"type:text;column:student_attendance_correction_proposed_remarks" json:"student_attendance_correction_proposed_remarks,omitempty"`

	StudentAttendanceCorrectionRequestedBy string    `gorm:"type:varchar(64);not null;column:student_attendance_correction_requested_by" json:"student_attendance_correction_requested_by"`
	StudentAttendanceCorrectionRequestedAt time.Time `gorm:"type:timestamptz;not null;column:student_attendance_correction_requested_at" json:"student_attendance_correction_requested_at"`

	// snapshot status/remarks saat request dibuat
	StudentAttendanceCorrectionPrevious datatypes.JSON `gorm:"type:jsonb;column:student_attendance_correction_previous" json:"student_attendance_correction_previous,omitempty"`
}

func (StudentAttendanceCorrectionModel) TableName() string {
	return "student_attendance_corrections"
}

// CorrectionSnapshot isi kolom previous.
type CorrectionSnapshot struct {
	Status  AttendanceStatus `json:"status"`
	Remarks *string          `json:"remarks,omitempty"`
}
