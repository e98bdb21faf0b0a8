package directory

import (
	"context"
	"fmt"
	"sync"
)

// MemoryDirectory: direktori in-process (test, demo, ATTENDANCE_STORE=memory).
type MemoryDirectory struct {
	mu       sync.RWMutex
	students map[string]Student
	classes  map[string]Class
}

func NewMemoryDirectory(students []Student, classes []Class) *MemoryDirectory {
	d := &MemoryDirectory{
		students: make(map[string]Student, len(students)),
		classes:  make(map[string]Class, len(classes)),
	}
	for _, s := range students {
		d.students[s.ID] = s
	}
	for _, c := range classes {
		d.PutClass(c)
	}
	return d
}

func (d *MemoryDirectory) PutStudent(s Student) {
	d.mu.Lock()
	d.students[s.ID] = s
	d.mu.Unlock()
}

func (d *MemoryDirectory) PutClass(c Class) {
	ids := append([]string(nil), c.EnrolledStudentIDs...)
	c.EnrolledStudentIDs = ids
	d.mu.Lock()
	d.classes[c.ID] = c
	d.mu.Unlock()
}

func (d *MemoryDirectory) ResolveStudent(_ context.Context, studentID string) (*Student, error) {
	d.mu.RLock()
	s, ok := d.students[studentID]
	d.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: student %s", ErrNotFound, studentID)
	}
	return &s, nil
}

func (d *MemoryDirectory) ResolveClass(_ context.Context, classID string) (*Class, error) {
	d.mu.RLock()
	c, ok := d.classes[classID]
	d.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: class %s", ErrNotFound, classID)
	}
	c.EnrolledStudentIDs = append([]string(nil), c.EnrolledStudentIDs...)
	return &c, nil
}
