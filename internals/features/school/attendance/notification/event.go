// file: internals/features/school/attendance/notification/event.go
package notification

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"sanchalak_backend/internals/features/school/attendance/model"
	"sanchalak_backend/internals/helpers/dbtime"
)

// Event: satu alert ke wali untuk status absent/late.
type Event struct {
	EventID      string                 `json:"event_id"`
	AttendanceID uuid.UUID              `json:"attendance_id"`
	StudentID    string                 `json:"student_id"`
	StudentName  string                 `json:"student_name"`
	ClassID      string                 `json:"class_id"`
	Recipient    string                 `json:"recipient"` // kontak wali
	Date         time.Time              `json:"date"`
	Status       model.AttendanceStatus `json:"status"`
	Remarks      *string                `json:"remarks,omitempty"`
	OccurredAt   time.Time              `json:"occurred_at"`
}

// Message teks yang dikirim ke wali.
func (e Event) Message() string {
	name := strings.TrimSpace(e.StudentName)
	if name == "" {
		name = e.StudentID
	}
	msg := fmt.Sprintf("Attendance alert: %s was marked %s on %s.",
		name, strings.ToUpper(string(e.Status)), dbtime.FormatDate(e.Date))
	if e.Remarks != nil && strings.TrimSpace(*e.Remarks) != "" {
		msg += " Remarks: " + strings.TrimSpace(*e.Remarks)
	}
	return msg
}
