// Package credential stores per-environment API tokens in the OS keyring.
package credential

import (
	"errors"
	"fmt"
	"strings"

	"github.com/99designs/keyring"
)

const serviceName = "jirahhh"

// ErrNotFound is returned when no token is stored for an environment.
var ErrNotFound = errors.New("no stored token")

// Options selects the keyring backend.
type Options struct {
	// Backend restricts the keyring to one backend ("file", "keychain",
	// "secret-service", "wincred", "pass"). Empty allows all of them.
	Backend string

	// Dir is where the file backend keeps its encrypted tokens.
	Dir string
}

// Store reads and writes tokens keyed by environment name.
type Store struct {
	open func() (keyring.Keyring, error)
}

// NewStore returns a Store backed by the system keyring.
func NewStore(opts Options) *Store {
	return &Store{open: func() (keyring.Keyring, error) { return openKeyring(opts) }}
}

// NewStoreWith returns a Store over an already opened keyring.
func NewStoreWith(ring keyring.Keyring) *Store {
	return &Store{open: func() (keyring.Keyring, error) { return ring, nil }}
}

func openKeyring(opts Options) (keyring.Keyring, error) {
	backends := []keyring.BackendType{
		keyring.KeychainBackend,
		keyring.SecretServiceBackend,
		keyring.WinCredBackend,
		keyring.PassBackend,
		keyring.FileBackend,
	}
	if b := strings.TrimSpace(opts.Backend); b != "" {
		backends = []keyring.BackendType{keyring.BackendType(b)}
	}
	dir := opts.Dir
	if dir == "" {
		dir = "~/.config/jirahhh/credentials"
	}

	ring, err := keyring.Open(keyring.Config{
		ServiceName:              serviceName,
		AllowedBackends:          backends,
		FileDir:                  dir,
		FilePasswordFunc:         keyring.FixedStringPrompt("jirahhh-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

func key(env string) string { return "token:" + env }

// Get returns the token stored for env.
func (s *Store) Get(env string) (string, error) {
	ring, err := s.open()
	if err != nil {
		return "", err
	}
	item, err := ring.Get(key(env))
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", fmt.Errorf("%w for environment '%s'", ErrNotFound, env)
	}
	if err != nil {
		return "", fmt.Errorf("getting token for %q: %w", env, err)
	}
	return string(item.Data), nil
}

// Set stores token for env, replacing any existing one.
func (s *Store) Set(env, token string) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("token is empty")
	}
	ring, err := s.open()
	if err != nil {
		return err
	}
	err = ring.Set(keyring.Item{
		Key:         key(env),
		Data:        []byte(token),
		Label:       "jirahhh token (" + env + ")",
		Description: "Jira API token",
	})
	if err != nil {
		return fmt.Errorf("setting token for %q: %w", env, err)
	}
	return nil
}

// Delete removes the token stored for env.
func (s *Store) Delete(env string) error {
	ring, err := s.open()
	if err != nil {
		return err
	}
	if _, err := ring.Get(key(env)); errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("%w for environment '%s'", ErrNotFound, env)
	}
	if err := ring.Remove(key(env)); err != nil {
		return fmt.Errorf("deleting token for %q: %w", env, err)
	}
	return nil
}
