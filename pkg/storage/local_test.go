package storage

import (
	"context"
	"errors"
	"testing"
)

func TestLocalStorageReadWrite(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorage failed: %v", err)
	}

	content := []byte("hello: world\n")
	if err := s.Write(ctx, "reminders/reminders.yaml", content); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := s.Read(ctx, "reminders/reminders.yaml")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("Read = %q, want %q", got, content)
	}
}

func TestLocalStorageOverwrite(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorage failed: %v", err)
	}

	if err := s.Write(ctx, "blob", []byte("v1")); err != nil {
		t.Fatalf("first Write failed: %v", err)
	}
	if err := s.Write(ctx, "blob", []byte("v2")); err != nil {
		t.Fatalf("second Write failed: %v", err)
	}
	got, err := s.Read(ctx, "blob")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(got) != "v2" {
		t.Errorf("Read = %q, want v2", got)
	}
}

func TestLocalStorageNotFound(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorage failed: %v", err)
	}

	if _, err := s.Read(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Read error = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete error = %v, want ErrNotFound", err)
	}
}

func TestLocalStorageExists(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorage failed: %v", err)
	}

	ok, err := s.Exists(ctx, "blob")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if ok {
		t.Error("Exists = true for missing key")
	}

	if err := s.Write(ctx, "blob", []byte("x")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	ok, err = s.Exists(ctx, "blob")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !ok {
		t.Error("Exists = false after Write")
	}
}

func TestLocalStorageList(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorage failed: %v", err)
	}

	for _, key := range []string{"subs/a.yaml", "subs/b.yaml", "other/c.yaml"} {
		if err := s.Write(ctx, key, []byte("x")); err != nil {
			t.Fatalf("Write(%s) failed: %v", key, err)
		}
	}

	keys, err := s.List(ctx, "subs")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(keys) != 2 {
		t.Errorf("List = %v, want 2 keys", keys)
	}

	keys, err = s.List(ctx, "empty")
	if err != nil {
		t.Fatalf("List of missing prefix failed: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("List of missing prefix = %v, want empty", keys)
	}
}

func TestLocalStorageDelete(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorage failed: %v", err)
	}

	if err := s.Write(ctx, "blob", []byte("x")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := s.Delete(ctx, "blob"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Read(ctx, "blob"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Read after Delete error = %v, want ErrNotFound", err)
	}
}
