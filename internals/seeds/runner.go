// file: internals/seeds/runner.go
package seeds

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sanchalak_backend/internals/features/school/attendance/directory"
)

// DirectorySeed: isi file JSON direktori siswa & kelas.
//
//	{ "students": [...], "classes": [...] }
type DirectorySeed struct {
	Students []directory.Student `json:"students"`
	Classes  []directory.Class   `json:"classes"`
}

func LoadDirectorySeed(filePath string) (*DirectorySeed, error) {
	log.Println("📥 Membaca file seed direktori:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("baca seed %s: %w", filePath, err)
	}

	var seed DirectorySeed
	if err := sonic.Unmarshal(file, &seed); err != nil {
		return nil, fmt.Errorf("decode seed %s: %w", filePath, err)
	}

	// buang entri tanpa id
	students := seed.Students[:0]
	for _, s := range seed.Students {
		s.ID = strings.TrimSpace(s.ID)
		if s.ID == "" {
			log.Printf("⚠️ seed: student tanpa id dilewati (%q)", s.Name)
			continue
		}
		students = append(students, s)
	}
	seed.Students = students

	classes := seed.Classes[:0]
	for _, c := range seed.Classes {
		c.ID = strings.TrimSpace(c.ID)
		if c.ID == "" {
			log.Printf("⚠️ seed: class tanpa id dilewati (%q)", c.Name)
			continue
		}
		classes = append(classes, c)
	}
	seed.Classes = classes

	log.Printf("✅ Seed direktori: %d student, %d class", len(seed.Students), len(seed.Classes))
	return &seed, nil
}

// MemoryDirectory dari isi seed (mode ATTENDANCE_STORE=memory).
func (s *DirectorySeed) MemoryDirectory() *directory.MemoryDirectory {
	if s == nil {
		return directory.NewMemoryDirectory(nil, nil)
	}
	return directory.NewMemoryDirectory(s.Students, s.Classes)
}

// SeedDirectoryTables mengisi tabel students & classes; baris yang sudah ada dilewati.
func SeedDirectoryTables(db *gorm.DB, filePath string) error {
	seed, err := LoadDirectorySeed(filePath)
	if err != nil {
		return err
	}

	if err := db.AutoMigrate(&directory.StudentRow{}, &directory.ClassRow{}); err != nil {
		return fmt.Errorf("migrate tabel direktori: %w", err)
	}

	inserted := 0
	for _, s := range seed.Students {
		row := directory.StudentRow{
			StudentID:              s.ID,
			StudentName:            strings.TrimSpace(s.Name),
			StudentClassID:         s.ClassID,
			StudentGuardianContact: strings.TrimSpace(s.GuardianContact),
			StudentRollNumber:      s.RollNumber,
		}
		res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
		if res.Error != nil {
			log.Printf("❌ Gagal insert student %s: %v", s.ID, res.Error)
			continue
		}
		if res.RowsAffected == 0 {
			log.Printf("ℹ️ Student %s sudah ada, lewati...", s.ID)
			continue
		}
		inserted++
	}

	for _, c := range seed.Classes {
		row := directory.ClassRow{
			ClassID:                 c.ID,
			ClassName:               strings.TrimSpace(c.Name),
			ClassEnrolledStudentIDs: pq.StringArray(c.EnrolledStudentIDs),
		}
		res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
		if res.Error != nil {
			log.Printf("❌ Gagal insert class %s: %v", c.ID, res.Error)
			continue
		}
		if res.RowsAffected == 0 {
			log.Printf("ℹ️ Class %s sudah ada, lewati...", c.ID)
			continue
		}
		inserted++
	}

	log.Printf("✅ Seed direktori selesai, %d baris baru", inserted)
	return nil
}
