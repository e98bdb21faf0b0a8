package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

/* =========================
   Read models (tabel milik modul direktori)
   ========================= */

type StudentRow struct {
	StudentID              string `gorm:"type:varchar(64);primaryKey;column:student_id"`
	StudentName            string `gorm:"type:varchar(120);not null;column:student_name"`
	StudentClassID         string `gorm:"type:varchar(64);column:student_class_id"`
	StudentGuardianContact string `gorm:"type:varchar(255);column:student_guardian_contact"`
	StudentRollNumber      int    `gorm:"not null;default:0;column:student_roll_number"`
}

func (StudentRow) TableName() string { return "students" }

type ClassRow struct {
	ClassID                 string         `gorm:"type:varchar(64);primaryKey;column:class_id"`
	ClassName               string         `gorm:"type:varchar(120);not null;column:class_name"`
	ClassEnrolledStudentIDs pq.StringArray `gorm:"type:text[];column:class_enrolled_student_ids"`
}

func (ClassRow) TableName() string { return "classes" }

/* =========================
   GORM directory
   ========================= */

type GormDirectory struct {
	DB *gorm.DB
}

func NewGormDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{DB: db}
}

func (d *GormDirectory) ResolveStudent(ctx context.Context, studentID string) (*Student, error) {
	var row StudentRow
	err := d.DB.WithContext(ctx).
		Where("student_id = ?", studentID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: student %s", ErrNotFound, studentID)
		}
		return nil, err
	}
	return &Student{
		ID:              row.StudentID,
		Name:            row.StudentName,
		ClassID:         row.StudentClassID,
		GuardianContact: row.StudentGuardianContact,
		RollNumber:      row.StudentRollNumber,
	}, nil
}

func (d *GormDirectory) ResolveClass(ctx context.Context, classID string) (*Class, error) {
	var row ClassRow
	err := d.DB.WithContext(ctx).
		Where("class_id = ?", classID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: class %s", ErrNotFound, classID)
		}
		return nil, err
	}
	return &Class{
		ID:                 row.ClassID,
		Name:               row.ClassName,
		EnrolledStudentIDs: []string(row.ClassEnrolledStudentIDs),
	}, nil
}
