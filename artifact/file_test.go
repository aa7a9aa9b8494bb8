package artifact

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore_RoundTrip(t *testing.T) {
	store := NewFileStore(t.TempDir())
	if err := store.Save("s1", "step_0001.png", []byte("png")); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := store.Get("s1", "step_0001.png")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(out) != "png" {
		t.Fatalf("unexpected bytes %q", string(out))
	}
	ids, err := store.List("s1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 1 || ids[0] != "step_0001.png" {
		t.Fatalf("unexpected ids %v", ids)
	}
	if err := store.Delete("s1", "step_0001.png"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get("s1", "step_0001.png"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFileStore_UnknownSessionListsEmpty(t *testing.T) {
	store := NewFileStore(t.TempDir())
	ids, err := store.List("never-created")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected no ids, got %v", ids)
	}
	if _, err := store.Get("never-created", "a.png"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFileStore_PathsStayUnderRoot(t *testing.T) {
	root := t.TempDir()
	store := NewFileStore(root)
	if err := store.Save("../escape", "../../evil.png", []byte("x")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "escape", "evil.png")); err != nil {
		t.Fatalf("expected file inside root: %v", err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(root), "evil.png")); !os.IsNotExist(err) {
		t.Fatalf("artifact escaped the root")
	}
}
