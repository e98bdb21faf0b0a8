package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type NotificationDeliveryStatus string

const (
	NotificationDelivered NotificationDeliveryStatus = "delivered"
	NotificationFailed    NotificationDeliveryStatus = "failed"
	NotificationSkipped   NotificationDeliveryStatus = "skipped" // tidak ada kontak wali
)

// StudentAttendanceNotificationLogModel: audit hasil kirim notifikasi.
// Tidak pernah dibaca di jalur transaksi marking.
type StudentAttendanceNotificationLogModel struct {
	StudentAttendanceNotificationLogID           uuid.UUID `gorm:"type:uuid;primaryKey;column:student_attendance_notification_log_id" json:"student_attendance_notification_log_id"`
	StudentAttendanceNotificationLogAttendanceID uuid.UUID `gorm:"type:uuid;not null;index;column:student_attendance_notification_log_attendance_id" json:"student_attendance_notification_log_attendance_id"`
	StudentAttendanceNotificationLogStudentID    string    `gorm:"type:varchar(64);not null;column:student_attendance_notification_log_student_id" json:"student_attendance_notification_log_student_id"`
	StudentAttendanceNotificationLogRecipient    string    `gorm:"type:varchar(255);column:student_attendance_notification_log_recipient" json:"student_attendance_notification_log_recipient"`

	StudentAttendanceNotificationLogStatus     NotificationDeliveryStatus `gorm:"type:varchar(16);not null;column:student_attendance_notification_log_status" json:"student_attendance_notification_log_status"`
	StudentAttendanceNotificationLogDeliveryID *string                    `gorm:"type:varchar(128);column:student_attendance_notification_log_delivery_id" json:"student_attendance_notification_log_delivery_id,omitempty"`
	StudentAttendanceNotificationLogError      *string                    `gorm:"type:text;column:student_attendance_notification_log_error" json:"student_attendance_notification_log_error,omitempty"`

	StudentAttendanceNotificationLogPayload   datatypes.JSON `gorm:"type:jsonb;column:student_attendance_notification_log_payload" json:"student_attendance_notification_log_payload,omitempty"`
	StudentAttendanceNotificationLogCreatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();column:student_attendance_notification_log_created_at" json:"student_attendance_notification_log_created_at"`
}

func (StudentAttendanceNotificationLogModel) TableName() string {
	return "student_attendance_notification_logs"
}
