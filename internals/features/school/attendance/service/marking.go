// file: internals/features/school/attendance/service/marking.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"sanchalak_backend/internals/features/school/attendance/directory"
	"sanchalak_backend/internals/features/school/attendance/model"
	"sanchalak_backend/internals/features/school/attendance/notification"
	"sanchalak_backend/internals/features/school/attendance/store"
	helper "sanchalak_backend/internals/helpers"
	"sanchalak_backend/internals/helpers/dbtime"
)

// Alasan per-entry di hasil bulk.
const (
	ReasonStudentNotFound = "Student not found"
	ReasonAlreadyMarked   = "Already marked"
	ReasonInvalidStatus   = "Invalid status"
)

type MarkInput struct {
	StudentID string
	ClassID   string
	Date      time.Time
	Status    string // case-insensitive
	Remarks   *string
}

type MarkResult struct {
	AttendanceID    uuid.UUID `json:"attendance_id"`
	Message         string    `json:"message"`
	NotificationIDs []string  `json:"notification_ids,omitempty"`
}

type BulkEntry struct {
	StudentID string
	Status    string
	Remarks   *string
}

type BulkEntryError struct {
	StudentID string `json:"student_id"`
	Reason    string `json:"reason"`
}

type BulkResult struct {
	Success bool             `json:"success"`
	Marked  int              `json:"marked"`
	Failed  int              `json:"failed"`
	Errors  []BulkEntryError `json:"errors,omitempty"`
	Message string           `json:"message"`
}

/* =========================
   Single mark
   ========================= */

func (s *AttendanceService) MarkAttendance(ctx context.Context, in MarkInput, actor string) (*MarkResult, error) {
	studentID := strings.TrimSpace(in.StudentID)
	classID := strings.TrimSpace(in.ClassID)
	actor = strings.TrimSpace(actor)

	switch {
	case studentID == "":
		return nil, validationf("student_id is required")
	case classID == "":
		return nil, validationf("class_id is required")
	case in.Date.IsZero():
		return nil, validationf("date is required")
	case actor == "":
		return nil, validationf("actor is required")
	}
	status, ok := model.ParseAttendanceStatus(in.Status)
	if !ok {
		return nil, invalidStatus(in.Status)
	}

	student, err := s.students.ResolveStudent(ctx, studentID)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			markRejectedTotal.WithLabelValues("student_not_found").Inc()
		}
		return nil, mapDirectoryErr(err, "student", studentID)
	}

	rec, err := s.insert(ctx, student, classID, dbtime.DateOnly(in.Date), status, in.Remarks, actor)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			markRejectedTotal.WithLabelValues("already_marked").Inc()
			return nil, fmt.Errorf("%w: attendance already marked for student %s in class %s on %s",
				ErrConflict, studentID, classID, dbtime.FormatDate(in.Date))
		}
		return nil, err
	}

	res := &MarkResult{
		AttendanceID: rec.StudentAttendanceID,
		Message:      fmt.Sprintf("Attendance marked as %s for %s", rec.StudentAttendanceStatus, displayName(student)),
	}
	if id := s.notify(student, rec); id != "" {
		res.NotificationIDs = []string{id}
	}
	return res, nil
}

/* =========================
   Bulk mark
   ========================= */

// BulkMarkAttendance memproses entries berurutan & independen.
// Error per-entry masuk ke result, tidak pernah dikembalikan sebagai error call.
func (s *AttendanceService) BulkMarkAttendance(ctx context.Context, classID string, date time.Time, actor string, entries []BulkEntry) (*BulkResult, error) {
	classID = strings.TrimSpace(classID)
	actor = strings.TrimSpace(actor)
	switch {
	case classID == "":
		return nil, validationf("class_id is required")
	case date.IsZero():
		return nil, validationf("date is required")
	case actor == "":
		return nil, validationf("actor is required")
	}
	day := dbtime.DateOnly(date)

	res := &BulkResult{Errors: []BulkEntryError{}}
	fail := func(studentID, reason, metric string) {
		res.Failed++
		res.Errors = append(res.Errors, BulkEntryError{StudentID: studentID, Reason: reason})
		markRejectedTotal.WithLabelValues(metric).Inc()
	}

	for _, e := range entries {
		studentID := strings.TrimSpace(e.StudentID)

		status, ok := model.ParseAttendanceStatus(e.Status)
		if !ok {
			fail(studentID, ReasonInvalidStatus, "invalid_status")
			continue
		}

		student, err := s.students.ResolveStudent(ctx, studentID)
		if err != nil {
			if errors.Is(err, directory.ErrNotFound) {
				fail(studentID, ReasonStudentNotFound, "student_not_found")
				continue
			}
			// error infrastruktur: tetap per-entry, batch jalan terus
			log.Printf("[WARN] bulk mark: resolve student %s: %v", studentID, err)
			fail(studentID, "Failed to resolve student", "directory_error")
			continue
		}

		rec, err := s.insert(ctx, student, classID, day, status, e.Remarks, actor)
		if err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				fail(studentID, ReasonAlreadyMarked, "already_marked")
				continue
			}
			log.Printf("[ERROR] bulk mark: insert student=%s class=%s date=%s: %v",
				studentID, classID, dbtime.FormatDate(day), err)
			fail(studentID, "Failed to save attendance", "store_error")
			continue
		}

		res.Marked++
		s.notify(student, rec)
	}

	res.Success = res.Failed == 0
	if res.Success {
		res.Message = fmt.Sprintf("Attendance marked for %d student(s)", res.Marked)
	} else {
		res.Message = fmt.Sprintf("Attendance marked for %d student(s), %d failed", res.Marked, res.Failed)
	}
	return res, nil
}

/* =========================
   Internals
   ========================= */

func (s *AttendanceService) insert(
	ctx context.Context,
	student *directory.Student,
	classID string,
	day time.Time,
	status model.AttendanceStatus,
	remarks *string,
	actor string,
) (*model.StudentAttendanceModel, error) {
	now := s.clock.Now().UTC()
	rec := &model.StudentAttendanceModel{
		StudentAttendanceID:        uuid.New(),
		StudentAttendanceStudentID: student.ID,
		StudentAttendanceClassID:   classID,
		StudentAttendanceDate:      day,
		StudentAttendanceStatus:    status,
		StudentAttendanceRemarks:   helper.NormalizeOptionalText(remarks),
		StudentAttendanceMarkedBy:  actor,
		StudentAttendanceMarkedAt:  now,
	}
	if err := s.store.Insert(ctx, rec); err != nil {
		return nil, err
	}
	markedTotal.WithLabelValues(string(status)).Inc()
	return rec, nil
}

// notify: hanya absent/late. Tidak pernah gagal dari sisi pemanggil.
func (s *AttendanceService) notify(student *directory.Student, rec *model.StudentAttendanceModel) string {
	if s.notifier == nil || !rec.StudentAttendanceStatus.Notifiable() {
		return ""
	}
	id, ok := s.notifier.Enqueue(notification.Event{
		EventID:      uuid.NewString(),
		AttendanceID: rec.StudentAttendanceID,
		StudentID:    student.ID,
		StudentName:  student.Name,
		ClassID:      rec.StudentAttendanceClassID,
		Recipient:    student.GuardianContact,
		Date:         rec.StudentAttendanceDate,
		Status:       rec.StudentAttendanceStatus,
		Remarks:      rec.StudentAttendanceRemarks,
		OccurredAt:   rec.StudentAttendanceMarkedAt,
	})
	if !ok {
		return ""
	}
	return id
}

func displayName(st *directory.Student) string {
	if n := strings.TrimSpace(st.Name); n != "" {
		return n
	}
	return st.ID
}
