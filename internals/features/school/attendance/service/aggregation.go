// file: internals/features/school/attendance/service/aggregation.go
package service

import (
	"context"
	"errors"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"sanchalak_backend/internals/features/school/attendance/directory"
	"sanchalak_backend/internals/features/school/attendance/model"
	"sanchalak_backend/internals/features/school/attendance/store"
	helper "sanchalak_backend/internals/helpers"
	"sanchalak_backend/internals/helpers/dbtime"
)

/* =========================
   Result types
   ========================= */

type StatusCounts struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Late    int `json:"late"`
	Excused int `json:"excused"`
	Holiday int `json:"holiday"`
}

func (c *StatusCounts) add(st model.AttendanceStatus) {
	switch st {
	case model.AttendanceStatusPresent:
		c.Present++
	case model.AttendanceStatusAbsent:
		c.Absent++
	case model.AttendanceStatusLate:
		c.Late++
	case model.AttendanceStatusExcused:
		c.Excused++
	case model.AttendanceStatusHoliday:
		c.Holiday++
	}
}

type Summary struct {
	StudentID            string                         `json:"student_id"`
	StartDate            string                         `json:"start_date"`
	EndDate              string                         `json:"end_date"`
	TotalDays            int                            `json:"total_days"`
	PresentDays          int                            `json:"present_days"`
	AbsentDays           int                            `json:"absent_days"`
	LateDays             int                            `json:"late_days"`
	ExcusedDays          int                            `json:"excused_days"`
	HolidayDays          int                            `json:"holiday_days"`
	AttendancePercentage int                            `json:"attendance_percentage"`
	Records              []model.StudentAttendanceModel `json:"records"`
}

type SheetRow struct {
	StudentID        string                 `json:"student_id"`
	StudentName      string                 `json:"student_name"`
	RollNumber       int                    `json:"roll_number"`
	Status           model.AttendanceStatus `json:"status"`
	Remarks          *string                `json:"remarks,omitempty"`
	IsMarked         bool                   `json:"is_marked"`
	AttendanceID     *uuid.UUID             `json:"attendance_id,omitempty"`
	RequiresApproval bool                   `json:"requires_approval"`
}

type ClassSheet struct {
	ClassID              string     `json:"class_id"`
	ClassName            string     `json:"class_name"`
	Date                 string     `json:"date"`
	Students             []SheetRow `json:"students"`
	TotalStudents        int        `json:"total_students"`
	PresentCount         int        `json:"present_count"`
	AbsentCount          int        `json:"absent_count"`
	LateCount            int        `json:"late_count"`
	ExcusedCount         int        `json:"excused_count"`
	HolidayCount         int        `json:"holiday_count"`
	AttendancePercentage int        `json:"attendance_percentage"`
	IsMarked             bool       `json:"is_marked"`
}

type QueryFilter struct {
	StudentID string
	ClassID   string
	Date      *time.Time
	StartDate *time.Time
	EndDate   *time.Time
	Status    string
}

type QueryResult struct {
	Records    []model.StudentAttendanceModel `json:"records"`
	Total      int64                          `json:"total"`
	Page       int                            `json:"page"`
	Limit      int                            `json:"limit"`
	TotalPages int                            `json:"total_pages"`
}

// percentage: round(part/total*100), 0 kalau total 0.
func percentage(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

/* =========================
   Summary per siswa
   ========================= */

func (s *AttendanceService) GetAttendanceSummary(ctx context.Context, studentID string, start, end time.Time) (*Summary, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return nil, validationf("student_id is required")
	}
	if start.IsZero() || end.IsZero() {
		return nil, validationf("start_date and end_date are required")
	}
	start, end = dbtime.DateOnly(start), dbtime.DateOnly(end)
	if start.After(end) {
		return nil, validationf("start_date must not be after end_date")
	}

	rows, _, err := s.store.Find(ctx, store.Filter{
		StudentID: studentID,
		StartDate: &start,
		EndDate:   &end,
	})
	if err != nil {
		return nil, err
	}

	var counts StatusCounts
	for i := range rows {
		counts.add(rows[i].StudentAttendanceStatus)
	}

	return &Summary{
		StudentID:            studentID,
		StartDate:            dbtime.FormatDate(start),
		EndDate:              dbtime.FormatDate(end),
		TotalDays:            len(rows),
		PresentDays:          counts.Present,
		AbsentDays:           counts.Absent,
		LateDays:             counts.Late,
		ExcusedDays:          counts.Excused,
		HolidayDays:          counts.Holiday,
		AttendancePercentage: percentage(counts.Present, len(rows)),
		Records:              rows,
	}, nil
}

/* =========================
   Sheet per kelas
   ========================= */

// GetClassAttendanceSheet: semua siswa terdaftar; belum ditandai → present.
func (s *AttendanceService) GetClassAttendanceSheet(ctx context.Context, classID string, date time.Time) (*ClassSheet, error) {
	classID = strings.TrimSpace(classID)
	if classID == "" {
		return nil, validationf("class_id is required")
	}
	if date.IsZero() {
		return nil, validationf("date is required")
	}
	day := dbtime.DateOnly(date)

	class, err := s.classes.ResolveClass(ctx, classID)
	if err != nil {
		return nil, mapDirectoryErr(err, "class", classID)
	}

	records, _, err := s.store.Find(ctx, store.Filter{ClassID: classID, Date: &day})
	if err != nil {
		return nil, err
	}
	byStudent := make(map[string]*model.StudentAttendanceModel, len(records))
	for i := range records {
		byStudent[records[i].StudentAttendanceStudentID] = &records[i]
	}

	rows := make([]SheetRow, 0, len(class.EnrolledStudentIDs))
	seen := make(map[string]struct{}, len(class.EnrolledStudentIDs))
	for _, sid := range class.EnrolledStudentIDs {
		if _, dup := seen[sid]; dup {
			continue
		}
		seen[sid] = struct{}{}

		row := SheetRow{StudentID: sid, StudentName: sid, Status: model.AttendanceStatusPresent}
		st, err := s.students.ResolveStudent(ctx, sid)
		switch {
		case err == nil:
			row.StudentName = displayName(st)
			row.RollNumber = st.RollNumber
		case errors.Is(err, directory.ErrNotFound):
			log.Printf("[WARN] class sheet: student %s enrolled in %s not in directory", sid, classID)
		default:
			return nil, mapDirectoryErr(err, "student", sid)
		}

		if rec, ok := byStudent[sid]; ok {
			id := rec.StudentAttendanceID
			row.Status = rec.StudentAttendanceStatus
			row.Remarks = rec.StudentAttendanceRemarks
			row.IsMarked = true
			row.AttendanceID = &id
			row.RequiresApproval = rec.StudentAttendanceRequiresApproval
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].RollNumber != rows[j].RollNumber {
			return rows[i].RollNumber < rows[j].RollNumber
		}
		if rows[i].StudentName != rows[j].StudentName {
			return rows[i].StudentName < rows[j].StudentName
		}
		return rows[i].StudentID < rows[j].StudentID
	})

	var counts StatusCounts
	for _, r := range rows {
		counts.add(r.Status)
	}

	return &ClassSheet{
		ClassID:              class.ID,
		ClassName:            class.Name,
		Date:                 dbtime.FormatDate(day),
		Students:             rows,
		TotalStudents:        len(rows),
		PresentCount:         counts.Present,
		AbsentCount:          counts.Absent,
		LateCount:            counts.Late,
		ExcusedCount:         counts.Excused,
		HolidayCount:         counts.Holiday,
		AttendancePercentage: percentage(counts.Present, len(rows)),
		IsMarked:             len(records) > 0,
	}, nil
}

/* =========================
   Query + paging
   ========================= */

func (s *AttendanceService) QueryAttendance(ctx context.Context, f QueryFilter, page, limit int) (*QueryResult, error) {
	filter := store.Filter{
		StudentID: strings.TrimSpace(f.StudentID),
		ClassID:   strings.TrimSpace(f.ClassID),
	}

	if f.Date != nil && (f.StartDate != nil || f.EndDate != nil) {
		return nil, validationf("use either date or start_date/end_date, not both")
	}
	if (f.StartDate == nil) != (f.EndDate == nil) {
		return nil, validationf("start_date and end_date must be provided together")
	}
	if f.Date != nil {
		d := dbtime.DateOnly(*f.Date)
		filter.Date = &d
	}
	if f.StartDate != nil {
		start, end := dbtime.DateOnly(*f.StartDate), dbtime.DateOnly(*f.EndDate)
		if start.After(end) {
			return nil, validationf("start_date must not be after end_date")
		}
		filter.StartDate, filter.EndDate = &start, &end
	}
	if raw := strings.TrimSpace(f.Status); raw != "" {
		st, ok := model.ParseAttendanceStatus(raw)
		if !ok {
			return nil, invalidStatus(f.Status)
		}
		filter.Status = st
	}

	p := helper.NormalizePaging(page, limit, helper.DefaultPerPage, helper.MaxPerPage)
	filter.Offset, filter.Limit = p.Offset, p.Limit

	rows, total, err := s.store.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &QueryResult{
		Records:    rows,
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: helper.TotalPages(total, p.Limit),
	}, nil
}
