package source

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestImageSource(t *testing.T) {
	paths := []string{"b.png", "a.png"}
	s, err := NewImageSource(paths)
	if err != nil {
		t.Fatalf("NewImageSource failed: %v", err)
	}
	defer s.Close()

	if s.Count() != 2 {
		t.Errorf("expected 2 images, got %d", s.Count())
	}
	got, err := s.Images(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("Images failed: %v", err)
	}
	// Explicit lists keep the caller's order.
	if !reflect.DeepEqual(got, paths) {
		t.Errorf("expected %v, got %v", paths, got)
	}

	if _, err := NewImageSource(nil); err == nil {
		t.Error("empty list must be rejected")
	}
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"02.png", "01.jpg", "10.JPEG", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.png"), 0755); err != nil {
		t.Fatal(err)
	}

	s, err := NewDirSource(dir)
	if err != nil {
		t.Fatalf("NewDirSource failed: %v", err)
	}
	defer s.Close()

	got, err := s.Images(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("Images failed: %v", err)
	}
	want := []string{
		filepath.Join(dir, "01.jpg"),
		filepath.Join(dir, "02.png"),
		filepath.Join(dir, "10.JPEG"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestDirSourceEmpty(t *testing.T) {
	if _, err := NewDirSource(t.TempDir()); err == nil {
		t.Error("expected an error when the directory has no images")
	}
	if _, err := NewDirSource(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("expected an error for a missing directory")
	}
}
