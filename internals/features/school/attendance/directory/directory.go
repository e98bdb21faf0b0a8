// Package directory berisi kontrak direktori siswa & kelas yang dikonsumsi
// modul attendance. Data master dikelola modul lain; di sini read-only.
package directory

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("directory: not found")

type Student struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	ClassID         string `json:"class_id"`
	GuardianContact string `json:"guardian_contact"`
	RollNumber      int    `json:"roll_number"`
}

type Class struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	EnrolledStudentIDs []string `json:"enrolled_student_ids"`
}

type StudentDirectory interface {
	ResolveStudent(ctx context.Context, studentID string) (*Student, error)
}

type ClassDirectory interface {
	ResolveClass(ctx context.Context, classID string) (*Class, error)
}

// Directory gabungan, implementasi konkret biasanya memenuhi keduanya.
type Directory interface {
	StudentDirectory
	ClassDirectory
}
