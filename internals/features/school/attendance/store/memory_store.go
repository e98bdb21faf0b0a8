package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"sanchalak_backend/internals/features/school/attendance/model"
)

type recordKey struct {
	studentID string
	classID   string
	date      string
}

func keyOf(studentID, classID string, date time.Time) recordKey {
	return recordKey{studentID: studentID, classID: classID, date: date.Format("2006-01-02")}
}

// MemoryStore: implementasi Store in-process. Satu mutex melindungi
// cek-duplikat + insert dan read-branch-write di Update.
type MemoryStore struct {
	mu          sync.RWMutex
	records     map[uuid.UUID]*model.StudentAttendanceModel
	byKey       map[recordKey]uuid.UUID
	corrections map[uuid.UUID][]model.StudentAttendanceCorrectionModel
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records:     make(map[uuid.UUID]*model.StudentAttendanceModel),
		byKey:       make(map[recordKey]uuid.UUID),
		corrections: make(map[uuid.UUID][]model.StudentAttendanceCorrectionModel),
	}
}

func (s *MemoryStore) Insert(_ context.Context, rec *model.StudentAttendanceModel) error {
	if rec.StudentAttendanceID == uuid.Nil {
		rec.StudentAttendanceID = uuid.New()
	}
	k := keyOf(rec.StudentAttendanceStudentID, rec.StudentAttendanceClassID, rec.StudentAttendanceDate)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byKey[k]; exists {
		return ErrDuplicate
	}
	if _, exists := s.records[rec.StudentAttendanceID]; exists {
		return fmt.Errorf("attendance store: id %s already used", rec.StudentAttendanceID)
	}
	now := time.Now().UTC()
	rec.StudentAttendanceCreatedAt = now
	rec.StudentAttendanceUpdatedAt = now

	s.records[rec.StudentAttendanceID] = rec.Clone()
	s.byKey[k] = rec.StudentAttendanceID
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, id uuid.UUID) (*model.StudentAttendanceModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rec.Clone(), nil
}

func (s *MemoryStore) FindByKey(_ context.Context, studentID, classID string, date time.Time) (*model.StudentAttendanceModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byKey[keyOf(studentID, classID, date)]
	if !ok {
		return nil, ErrNotFound
	}
	return s.records[id].Clone(), nil
}

func (s *MemoryStore) Update(_ context.Context, id uuid.UUID, fn MutateFunc) (*model.StudentAttendanceModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}

	// fn bekerja di salinan; commit hanya kalau tidak error
	work := current.Clone()
	mut, err := fn(work)
	if err != nil {
		return nil, err
	}

	switch {
	case mut.Proposal != nil:
		p := *mut.Proposal
		if p.StudentAttendanceCorrectionID == uuid.Nil {
			p.StudentAttendanceCorrectionID = uuid.New()
		}
		p.StudentAttendanceCorrectionAttendanceID = id
		mut.Proposal.StudentAttendanceCorrectionID = p.StudentAttendanceCorrectionID
		mut.Proposal.StudentAttendanceCorrectionAttendanceID = id

		// hanya flag yang berubah, status/remarks tetap
		current.StudentAttendanceRequiresApproval = true
		current.StudentAttendanceUpdatedAt = time.Now().UTC()
		s.corrections[id] = append(s.corrections[id], p)

	case mut.Apply:
		// field immutable dipertahankan dari record asli
		work.StudentAttendanceID = current.StudentAttendanceID
		work.StudentAttendanceStudentID = current.StudentAttendanceStudentID
		work.StudentAttendanceClassID = current.StudentAttendanceClassID
		work.StudentAttendanceDate = current.StudentAttendanceDate
		work.StudentAttendanceMarkedBy = current.StudentAttendanceMarkedBy
		work.StudentAttendanceMarkedAt = current.StudentAttendanceMarkedAt
		work.StudentAttendanceCreatedAt = current.StudentAttendanceCreatedAt
		work.StudentAttendanceRequiresApproval = current.StudentAttendanceRequiresApproval
		work.StudentAttendanceUpdatedAt = time.Now().UTC()
		s.records[id] = work
	}

	return s.records[id].Clone(), nil
}

func (s *MemoryStore) Find(_ context.Context, f Filter) ([]model.StudentAttendanceModel, int64, error) {
	s.mu.RLock()
	matched := make([]model.StudentAttendanceModel, 0)
	for _, rec := range s.records {
		if matches(rec, f) {
			matched = append(matched, *rec.Clone())
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.StudentAttendanceDate.Equal(b.StudentAttendanceDate) {
			return a.StudentAttendanceDate.After(b.StudentAttendanceDate)
		}
		if !a.StudentAttendanceMarkedAt.Equal(b.StudentAttendanceMarkedAt) {
			return a.StudentAttendanceMarkedAt.After(b.StudentAttendanceMarkedAt)
		}
		return a.StudentAttendanceID.String() < b.StudentAttendanceID.String()
	})

	total := int64(len(matched))
	if f.Offset > 0 {
		if f.Offset >= len(matched) {
			return []model.StudentAttendanceModel{}, total, nil
		}
		matched = matched[f.Offset:]
	}
	if f.Limit > 0 && len(matched) > f.Limit {
		matched = matched[:f.Limit]
	}
	return matched, total, nil
}

func matches(rec *model.StudentAttendanceModel, f Filter) bool {
	if f.StudentID != "" && rec.StudentAttendanceStudentID != f.StudentID {
		return false
	}
	if f.ClassID != "" && rec.StudentAttendanceClassID != f.ClassID {
		return false
	}
	if f.Status != "" && rec.StudentAttendanceStatus != f.Status {
		return false
	}
	d := rec.StudentAttendanceDate
	if f.Date != nil && !d.Equal(*f.Date) {
		return false
	}
	if f.StartDate != nil && d.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && d.After(*f.EndDate) {
		return false
	}
	return true
}

func (s *MemoryStore) ListCorrections(_ context.Context, attendanceID uuid.UUID) ([]model.StudentAttendanceCorrectionModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.records[attendanceID]; !ok {
		return nil, ErrNotFound
	}
	out := make([]model.StudentAttendanceCorrectionModel, len(s.corrections[attendanceID]))
	copy(out, s.corrections[attendanceID])
	return out, nil
}

func (s *MemoryStore) CountPendingApproval(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, rec := range s.records {
		if rec.StudentAttendanceRequiresApproval {
			n++
		}
	}
	return n, nil
}
