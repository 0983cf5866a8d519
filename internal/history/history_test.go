package history

import (
	"path/filepath"
	"testing"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutGet(t *testing.T) {
	s := openStore(t)
	s.Put("/some/file.go", 42, 7)
	line, col, ok := s.Get("/some/file.go")
	if !ok {
		t.Fatal("Get: no position recorded")
	}
	if line != 42 || col != 7 {
		t.Errorf("Get = (%d, %d), want (42, 7)", line, col)
	}
}

func TestGetUnknownPath(t *testing.T) {
	s := openStore(t)
	if _, _, ok := s.Get("/never/seen.txt"); ok {
		t.Error("Get reported a position for an unknown path")
	}
}

func TestPutOverwrites(t *testing.T) {
	s := openStore(t)
	s.Put("/some/file.go", 1, 1)
	s.Put("/some/file.go", 9, 3)
	line, col, ok := s.Get("/some/file.go")
	if !ok || line != 9 || col != 3 {
		t.Errorf("Get = (%d, %d, %v), want the latest position (9, 3)", line, col, ok)
	}
}

func TestRelativePathsShareKey(t *testing.T) {
	s := openStore(t)
	abs, err := filepath.Abs("notes.txt")
	if err != nil {
		t.Fatal(err)
	}
	s.Put("notes.txt", 5, 0)
	line, _, ok := s.Get(abs)
	if !ok || line != 5 {
		t.Errorf("Get(%q) = (%d, %v), want the position recorded under the relative name", abs, line, ok)
	}
}

func TestNilStore(t *testing.T) {
	var s *Store
	s.Put("/x", 1, 1)
	if _, _, ok := s.Get("/x"); ok {
		t.Error("nil store returned a position")
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close on nil store: %v", err)
	}
}

func TestReopenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.Put("/persisted.md", 12, 4)
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	line, col, ok := s.Get("/persisted.md")
	if !ok || line != 12 || col != 4 {
		t.Errorf("Get after reopen = (%d, %d, %v), want (12, 4, true)", line, col, ok)
	}
}
