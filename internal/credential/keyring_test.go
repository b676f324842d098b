package credential

import (
	"errors"
	"testing"

	"github.com/99designs/keyring"
)

func TestStoreRoundTrip(t *testing.T) {
	s := NewStoreWith(keyring.NewArrayKeyring(nil))

	if _, err := s.Get("staging"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before Set, got %v", err)
	}

	if err := s.Set("staging", "tok-1"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := s.Set("prod", "tok-2"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	got, err := s.Get("staging")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got != "tok-1" {
		t.Errorf("expected tok-1, got %q", got)
	}

	if err := s.Delete("staging"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := s.Get("staging"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after Delete, got %v", err)
	}
	if got, _ := s.Get("prod"); got != "tok-2" {
		t.Errorf("expected prod token untouched, got %q", got)
	}
}

func TestStoreRejectsEmptyToken(t *testing.T) {
	s := NewStoreWith(keyring.NewArrayKeyring(nil))
	if err := s.Set("staging", "  "); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestDeleteMissing(t *testing.T) {
	s := NewStoreWith(keyring.NewArrayKeyring(nil))
	if err := s.Delete("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFileBackend(t *testing.T) {
	s := NewStore(Options{Backend: string(keyring.FileBackend), Dir: t.TempDir()})

	if err := s.Set("qa", "file-token"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	got, err := s.Get("qa")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got != "file-token" {
		t.Errorf("expected file-token, got %q", got)
	}
}

func TestOpenFailureIsReported(t *testing.T) {
	s := &Store{open: func() (keyring.Keyring, error) { return nil, errors.New("no backend") }}
	if _, err := s.Get("x"); err == nil {
		t.Fatal("expected error from failing opener")
	}
}
