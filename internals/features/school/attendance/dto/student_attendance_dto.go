// file: internals/features/school/attendance/dto/student_attendance_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"sanchalak_backend/internals/features/school/attendance/model"
	"sanchalak_backend/internals/features/school/attendance/service"
	"sanchalak_backend/internals/helpers/dbtime"
)

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

/* =========================================================
   Requests
   ========================================================= */

type MarkAttendanceRequest struct {
	StudentID string  `json:"student_id" validate:"required,max=64"`
	ClassID   string  `json:"class_id" validate:"required,max=64"`
	Date      string  `json:"date" validate:"required,datetime=2006-01-02"`
	Status    string  `json:"status" validate:"required,oneofci=present absent late excused holiday"`
	Remarks   *string `json:"remarks" validate:"omitempty,max=500"`
}

func (r *MarkAttendanceRequest) Normalize() {
	r.StudentID = strings.TrimSpace(r.StudentID)
	r.ClassID = strings.TrimSpace(r.ClassID)
	r.Date = strings.TrimSpace(r.Date)
	r.Status = strings.TrimSpace(r.Status)
	r.Remarks = trimPtr(r.Remarks)
}

func (r *MarkAttendanceRequest) ToInput() (service.MarkInput, error) {
	d, err := dbtime.ParseDate(r.Date)
	if err != nil {
		return service.MarkInput{}, err
	}
	return service.MarkInput{
		StudentID: r.StudentID,
		ClassID:   r.ClassID,
		Date:      d,
		Status:    r.Status,
		Remarks:   r.Remarks,
	}, nil
}

// Entry kosong/status salah dilaporkan per entry ("Student not found" /
// "Invalid status") oleh service, batch tetap jalan.
type BulkEntryRequest struct {
	StudentID string  `json:"student_id" validate:"omitempty,max=64"`
	Status    string  `json:"status" validate:"omitempty,max=16"`
	Remarks   *string `json:"remarks" validate:"omitempty,max=500"`
}

type BulkMarkAttendanceRequest struct {
	ClassID string             `json:"class_id" validate:"required,max=64"`
	Date    string             `json:"date" validate:"required,datetime=2006-01-02"`
	Entries []BulkEntryRequest `json:"entries" validate:"required,min=1,max=500,dive"`
}

func (r *BulkMarkAttendanceRequest) Normalize() {
	r.ClassID = strings.TrimSpace(r.ClassID)
	r.Date = strings.TrimSpace(r.Date)
	for i := range r.Entries {
		r.Entries[i].StudentID = strings.TrimSpace(r.Entries[i].StudentID)
		r.Entries[i].Status = strings.TrimSpace(r.Entries[i].Status)
		r.Entries[i].Remarks = trimPtr(r.Entries[i].Remarks)
	}
}

func (r *BulkMarkAttendanceRequest) ToEntries() []service.BulkEntry {
	out := make([]service.BulkEntry, 0, len(r.Entries))
	for _, e := range r.Entries {
		out = append(out, service.BulkEntry{StudentID: e.StudentID, Status: e.Status, Remarks: e.Remarks})
	}
	return out
}

type ModifyAttendanceRequest struct {
	Status  string  `json:"status" validate:"required,oneofci=present absent late excused holiday"`
	Remarks *string `json:"remarks" validate:"omitempty,max=500"`
}

func (r *ModifyAttendanceRequest) Normalize() {
	r.Status = strings.TrimSpace(r.Status)
	r.Remarks = trimPtr(r.Remarks)
}

func (r *ModifyAttendanceRequest) ToInput() service.ModifyInput {
	return service.ModifyInput{Status: r.Status, Remarks: r.Remarks}
}

// QueryAttendanceParams: ?student_id&class_id&date|start_date&end_date&status (+page/limit via helper)
type QueryAttendanceParams struct {
	StudentID string `query:"student_id" json:"student_id" validate:"omitempty,max=64"`
	ClassID   string `query:"class_id" json:"class_id" validate:"omitempty,max=64"`
	Date      string `query:"date" json:"date" validate:"omitempty,datetime=2006-01-02"`
	StartDate string `query:"start_date" json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `query:"end_date" json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Status    string `query:"status" json:"status" validate:"omitempty,oneofci=present absent late excused holiday"`
}

func (q *QueryAttendanceParams) ToFilter() (service.QueryFilter, error) {
	f := service.QueryFilter{
		StudentID: strings.TrimSpace(q.StudentID),
		ClassID:   strings.TrimSpace(q.ClassID),
		Status:    strings.TrimSpace(q.Status),
	}
	var err error
	if f.Date, err = dbtime.ParseOptionalDate(q.Date); err != nil {
		return f, err
	}
	if f.StartDate, err = dbtime.ParseOptionalDate(q.StartDate); err != nil {
		return f, err
	}
	if f.EndDate, err = dbtime.ParseOptionalDate(q.EndDate); err != nil {
		return f, err
	}
	return f, nil
}

type SummaryParams struct {
	StartDate string `query:"start_date" json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `query:"end_date" json:"end_date" validate:"required,datetime=2006-01-02"`
}

/* =========================================================
   Responses
   ========================================================= */

type AttendanceResponse struct {
	ID               uuid.UUID              `json:"id"`
	StudentID        string                 `json:"student_id"`
	ClassID          string                 `json:"class_id"`
	Date             string                 `json:"date"`
	Status           model.AttendanceStatus `json:"status"`
	Remarks          *string                `json:"remarks,omitempty"`
	MarkedBy         string                 `json:"marked_by"`
	MarkedAt         time.Time              `json:"marked_at"`
	IsModified       bool                   `json:"is_modified"`
	ModifiedBy       *string                `json:"modified_by,omitempty"`
	ModifiedAt       *time.Time             `json:"modified_at,omitempty"`
	RequiresApproval bool                   `json:"requires_approval"`
	State            model.RecordState      `json:"state"`
}

func FromModel(m *model.StudentAttendanceModel) AttendanceResponse {
	return AttendanceResponse{
		ID:               m.StudentAttendanceID,
		StudentID:        m.StudentAttendanceStudentID,
		ClassID:          m.StudentAttendanceClassID,
		Date:             dbtime.FormatDate(m.StudentAttendanceDate),
		Status:           m.StudentAttendanceStatus,
		Remarks:          m.StudentAttendanceRemarks,
		MarkedBy:         m.StudentAttendanceMarkedBy,
		MarkedAt:         m.StudentAttendanceMarkedAt,
		IsModified:       m.StudentAttendanceIsModified,
		ModifiedBy:       m.StudentAttendanceModifiedBy,
		ModifiedAt:       m.StudentAttendanceModifiedAt,
		RequiresApproval: m.StudentAttendanceRequiresApproval,
		State:            m.State(),
	}
}

func FromModels(rows []model.StudentAttendanceModel) []AttendanceResponse {
	out := make([]AttendanceResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

type CorrectionResponse struct {
	ID              uuid.UUID              `json:"id"`
	AttendanceID    uuid.UUID              `json:"attendance_id"`
	ProposedStatus  model.AttendanceStatus `json:"proposed_status"`
	ProposedRemarks *string                `json:"proposed_remarks,omitempty"`
	RequestedBy     string                 `json:"requested_by"`
	RequestedAt     time.Time              `json:"requested_at"`
	Previous        datatypes.JSON         `json:"previous,omitempty"`
}

func FromCorrections(rows []model.StudentAttendanceCorrectionModel) []CorrectionResponse {
	out := make([]CorrectionResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, CorrectionResponse{
			ID:              r.StudentAttendanceCorrectionID,
			AttendanceID:    r.StudentAttendanceCorrectionAttendanceID,
			ProposedStatus:  r.StudentAttendanceCorrectionProposedStatus,
			ProposedRemarks: r.StudentAttendanceCorrectionProposedRemarks,
			RequestedBy:     r.StudentAttendanceCorrectionRequestedBy,
			RequestedAt:     r.StudentAttendanceCorrectionRequestedAt,
			Previous:        r.StudentAttendanceCorrectionPrevious,
		})
	}
	return out
}

type SummaryResponse struct {
	StudentID            string               `json:"student_id"`
	StartDate            string               `json:"start_date"`
	EndDate              string               `json:"end_date"`
	TotalDays            int                  `json:"total_days"`
	PresentDays          int                  `json:"present_days"`
	AbsentDays           int                  `json:"absent_days"`
	LateDays             int                  `json:"late_days"`
	ExcusedDays          int                  `json:"excused_days"`
	HolidayDays          int                  `json:"holiday_days"`
	AttendancePercentage int                  `json:"attendance_percentage"`
	Records              []AttendanceResponse `json:"records"`
}

func FromSummary(s *service.Summary) SummaryResponse {
	return SummaryResponse{
		StudentID:            s.StudentID,
		StartDate:            s.StartDate,
		EndDate:              s.EndDate,
		TotalDays:            s.TotalDays,
		PresentDays:          s.PresentDays,
		AbsentDays:           s.AbsentDays,
		LateDays:             s.LateDays,
		ExcusedDays:          s.ExcusedDays,
		HolidayDays:          s.HolidayDays,
		AttendancePercentage: s.AttendancePercentage,
		Records:              FromModels(s.Records),
	}
}
