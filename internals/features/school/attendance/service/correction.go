// file: internals/features/school/attendance/service/correction.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"sanchalak_backend/internals/features/school/attendance/model"
	"sanchalak_backend/internals/features/school/attendance/store"
	helper "sanchalak_backend/internals/helpers"
)

type ModifyInput struct {
	Status  string  // case-insensitive
	Remarks *string // nil = remarks lama dipertahankan
}

type ModifyResult struct {
	Success          bool       `json:"success"`
	RequiresApproval bool       `json:"requires_approval"`
	Message          string     `json:"message"`
	AttendanceID     uuid.UUID  `json:"attendance_id"`
	CorrectionID     *uuid.UUID `json:"correction_id,omitempty"`
}

/*
ModifyAttendance: gerbang waktu koreksi.

	now - marked_at <= window → status/remarks diubah langsung, is_modified=true
	now - marked_at >  window → record tidak diubah, requires_approval=true,
	                             usulan disimpan sebagai correction row

Keputusan & penulisan dilakukan di dalam Store.Update (atomik per record).
*/
func (s *AttendanceService) ModifyAttendance(ctx context.Context, attendanceID uuid.UUID, in ModifyInput, actor string) (*ModifyResult, error) {
	actor = strings.TrimSpace(actor)
	if attendanceID == uuid.Nil {
		return nil, validationf("attendance id is required")
	}
	if actor == "" {
		return nil, validationf("actor is required")
	}
	status, ok := model.ParseAttendanceStatus(in.Status)
	if !ok {
		return nil, invalidStatus(in.Status)
	}
	remarks := helper.NormalizeOptionalText(in.Remarks)

	var proposal *model.StudentAttendanceCorrectionModel

	_, err := s.store.Update(ctx, attendanceID, func(rec *model.StudentAttendanceModel) (store.Mutation, error) {
		// now diambil setelah lock dipegang
		now := s.clock.Now().UTC()

		if now.Sub(rec.StudentAttendanceMarkedAt) <= s.window {
			rec.StudentAttendanceStatus = status
			if remarks != nil {
				rec.StudentAttendanceRemarks = remarks
			}
			rec.StudentAttendanceIsModified = true
			by := actor
			rec.StudentAttendanceModifiedBy = &by
			rec.StudentAttendanceModifiedAt = &now
			return store.Mutation{Apply: true}, nil
		}

		prev, err := sonic.Marshal(model.CorrectionSnapshot{
			Status:  rec.StudentAttendanceStatus,
			Remarks: rec.StudentAttendanceRemarks,
		})
		if err != nil {
			return store.Mutation{}, fmt.Errorf("snapshot previous value: %w", err)
		}
		proposal = &model.StudentAttendanceCorrectionModel{
			StudentAttendanceCorrectionID:              uuid.New(),
			StudentAttendanceCorrectionAttendanceID:    rec.StudentAttendanceID,
			StudentAttendanceCorrectionProposedStatus:  status,
			StudentAttendanceCorrectionProposedRemarks: remarks,
			StudentAttendanceCorrectionRequestedBy:     actor,
			StudentAttendanceCorrectionRequestedAt:     now,
			StudentAttendanceCorrectionPrevious:        datatypes.JSON(prev),
		}
		return store.Mutation{Proposal: proposal}, nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: attendance %s", ErrNotFound, attendanceID)
		}
		return nil, err
	}

	if proposal != nil {
		correctionTotal.WithLabelValues("pending_approval").Inc()
		id := proposal.StudentAttendanceCorrectionID
		return &ModifyResult{
			Success:          true,
			RequiresApproval: true,
			Message:          "Correction window has passed, change submitted for admin approval",
			AttendanceID:     attendanceID,
			CorrectionID:     &id,
		}, nil
	}

	correctionTotal.WithLabelValues("applied").Inc()
	return &ModifyResult{
		Success:          true,
		RequiresApproval: false,
		Message:          fmt.Sprintf("Attendance updated to %s", status),
		AttendanceID:     attendanceID,
	}, nil
}

// ListPendingCorrections: usulan koreksi tersimpan untuk satu record (urut waktu request).
func (s *AttendanceService) ListPendingCorrections(ctx context.Context, attendanceID uuid.UUID) ([]model.StudentAttendanceCorrectionModel, error) {
	rows, err := s.store.ListCorrections(ctx, attendanceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: attendance %s", ErrNotFound, attendanceID)
		}
		return nil, err
	}
	return rows, nil
}

// CountPendingApproval: jumlah record yang menunggu approval admin.
func (s *AttendanceService) CountPendingApproval(ctx context.Context) (int64, error) {
	return s.store.CountPendingApproval(ctx)
}
