package seeds

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"sanchalak_backend/internals/features/school/attendance/directory"
)

func TestLoadDirectorySeed(t *testing.T) {
	seed, err := LoadDirectorySeed(filepath.Join("data", "directory.json"))
	if err != nil {
		t.Fatal(err)
	}
	if len(seed.Students) != 4 || len(seed.Classes) != 2 {
		t.Fatalf("unexpected seed size: %d students, %d classes", len(seed.Students), len(seed.Classes))
	}

	dir := seed.MemoryDirectory()
	cls, err := dir.ResolveClass(context.Background(), "7A")
	if err != nil {
		t.Fatal(err)
	}
	if len(cls.EnrolledStudentIDs) != 3 {
		t.Fatalf("want 3 enrolled, got %v", cls.EnrolledStudentIDs)
	}
	st, err := dir.ResolveStudent(context.Background(), "S-003")
	if err != nil {
		t.Fatal(err)
	}
	if st.GuardianContact != "" {
		t.Fatalf("S-003 has no guardian contact, got %q", st.GuardianContact)
	}
}

func TestLoadDirectorySeed_SkipsBlankIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dir.json")
	body := `{"students":[{"id":" ","name":"x"},{"id":"S1","name":"Ana"}],"classes":[{"id":"","name":"none"}]}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	seed, err := LoadDirectorySeed(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(seed.Students) != 1 || seed.Students[0].ID != "S1" || len(seed.Classes) != 0 {
		t.Fatalf("unexpected seed: %+v", seed)
	}

	if _, err := seed.MemoryDirectory().ResolveClass(context.Background(), ""); !errors.Is(err, directory.ErrNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestLoadDirectorySeed_BadFile(t *testing.T) {
	if _, err := LoadDirectorySeed(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("want error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	_ = os.WriteFile(path, []byte("{not json"), 0o600)
	if _, err := LoadDirectorySeed(path); err == nil {
		t.Fatal("want decode error")
	}
}
