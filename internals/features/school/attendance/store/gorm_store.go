// file: internals/features/school/attendance/store/gorm_store.go
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sanchalak_backend/internals/features/school/attendance/model"
)

// GormStore: Store di atas Postgres. Keunikan (student, class, date)
// dijaga unique index uq_student_attendance_student_class_date.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

// 23505 unique_violation
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func (s *GormStore) Insert(ctx context.Context, rec *model.StudentAttendanceModel) error {
	if rec.StudentAttendanceID == uuid.Nil {
		rec.StudentAttendanceID = uuid.New()
	}
	res := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "student_attendance_student_id"},
				{Name: "student_attendance_class_id"},
				{Name: "student_attendance_date"},
			},
			DoNothing: true,
		}).
		Create(rec)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return ErrDuplicate
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrDuplicate
	}
	return nil
}

func (s *GormStore) FindByID(ctx context.Context, id uuid.UUID) (*model.StudentAttendanceModel, error) {
	var rec model.StudentAttendanceModel
	err := s.DB.WithContext(ctx).
		Where("student_attendance_id = ?", id).
		Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (s *GormStore) FindByKey(ctx context.Context, studentID, classID string, date time.Time) (*model.StudentAttendanceModel, error) {
	var rec model.StudentAttendanceModel
	err := s.DB.WithContext(ctx).
		Where("student_attendance_student_id = ? AND student_attendance_class_id = ? AND student_attendance_date = ?",
			studentID, classID, date).
		Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (s *GormStore) Update(ctx context.Context, id uuid.UUID, fn MutateFunc) (*model.StudentAttendanceModel, error) {
	var out model.StudentAttendanceModel

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.StudentAttendanceModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("student_attendance_id = ?", id).
			Take(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		work := current.Clone()
		mut, err := fn(work)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		switch {
		case mut.Proposal != nil:
			mut.Proposal.StudentAttendanceCorrectionAttendanceID = id
			if mut.Proposal.StudentAttendanceCorrectionID == uuid.Nil {
				mut.Proposal.StudentAttendanceCorrectionID = uuid.New()
			}
			if err := tx.Create(mut.Proposal).Error; err != nil {
				return err
			}
			if err := tx.Model(&model.StudentAttendanceModel{}).
				Where("student_attendance_id = ?", id).
				Updates(map[string]any{
					"student_attendance_requires_approval": true,
					"student_attendance_updated_at":        now,
				}).Error; err != nil {
				return err
			}

		case mut.Apply:
			if err := tx.Model(&model.StudentAttendanceModel{}).
				Where("student_attendance_id = ?", id).
				Updates(map[string]any{
					"student_attendance_status":      work.StudentAttendanceStatus,
					"student_attendance_remarks":     work.StudentAttendanceRemarks,
					"student_attendance_is_modified": work.StudentAttendanceIsModified,
					"student_attendance_modified_by": work.StudentAttendanceModifiedBy,
					"student_attendance_modified_at": work.StudentAttendanceModifiedAt,
					"student_attendance_updated_at":  now,
				}).Error; err != nil {
				return err
			}
		}

		return tx.Where("student_attendance_id = ?", id).Take(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *GormStore) Find(ctx context.Context, f Filter) ([]model.StudentAttendanceModel, int64, error) {
	q := s.DB.WithContext(ctx).Model(&model.StudentAttendanceModel{})

	if f.StudentID != "" {
		q = q.Where("student_attendance_student_id = ?", f.StudentID)
	}
	if f.ClassID != "" {
		q = q.Where("student_attendance_class_id = ?", f.ClassID)
	}
	if f.Status != "" {
		q = q.Where("student_attendance_status = ?", f.Status)
	}
	if f.Date != nil {
		q = q.Where("student_attendance_date = ?", *f.Date)
	}
	if f.StartDate != nil {
		q = q.Where("student_attendance_date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("student_attendance_date <= ?", *f.EndDate)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = q.Order("student_attendance_date DESC").
		Order("student_attendance_marked_at DESC").
		Order("student_attendance_id ASC")
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	rows := make([]model.StudentAttendanceModel, 0)
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *GormStore) ListCorrections(ctx context.Context, attendanceID uuid.UUID) ([]model.StudentAttendanceCorrectionModel, error) {
	if _, err := s.FindByID(ctx, attendanceID); err != nil {
		return nil, err
	}
	rows := make([]model.StudentAttendanceCorrectionModel, 0)
	err := s.DB.WithContext(ctx).
		Where("student_attendance_correction_attendance_id = ?", attendanceID).
		Order("student_attendance_correction_requested_at ASC").
		Find(&rows).Error
	return rows, err
}

func (s *GormStore) CountPendingApproval(ctx context.Context) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).
		Model(&model.StudentAttendanceModel{}).
		Where("student_attendance_requires_approval = ?", true).
		Count(&n).Error
	return n, err
}
