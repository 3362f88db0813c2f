package recipients

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DefaultRecipient is used when no recipients file exists yet.
const DefaultRecipient = "exemplo@destinatario.com"

var (
	// ErrLoadFailure is returned when the recipients file exists but cannot be read or decoded.
	ErrLoadFailure = errors.New("recipients load failure")

	// ErrInvalidAddress is returned when an empty address is added.
	ErrInvalidAddress = errors.New("invalid recipient address")
)

// Store persists the ordered recipients list as a JSON array of strings.
// The file is always read and written whole.
type Store struct {
	path     string
	fallback string
	logger   *slog.Logger
	mu       sync.Mutex
}

// NewStore creates a store for the file at path. An empty fallback selects DefaultRecipient.
func NewStore(path, fallback string, logger *slog.Logger) *Store {
	if fallback == "" {
		fallback = DefaultRecipient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		path:     path,
		fallback: fallback,
		logger:   logger.With(slog.String("component", "recipients_store")),
	}
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Default returns the recipient used when the file is absent.
func (s *Store) Default() string {
	return s.fallback
}

// Load returns the persisted list. An absent file yields the default
// recipient. An unreadable or corrupt file yields an empty list together
// with ErrLoadFailure so callers can report it and carry on.
func (s *Store) Load() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Save replaces the persisted list.
func (s *Store) Save(list []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(list)
}

// Add appends addr to the current list and persists it. Duplicates are kept.
// When the current file is corrupt the new list starts empty.
func (s *Store) Add(addr string) ([]string, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, ErrInvalidAddress
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load()
	if err != nil {
		s.logger.Warn("replacing unreadable recipients file", slog.String("error", err.Error()))
	}
	list = append(list, addr)
	if err := s.save(list); err != nil {
		return nil, err
	}
	return list, nil
}

// Reset restores the list to the default recipient only.
func (s *Store) Reset() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := []string{s.fallback}
	if err := s.save(list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Store) load() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{s.fallback}, nil
	}
	if err != nil {
		return []string{}, fmt.Errorf("%w: %v", ErrLoadFailure, err)
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return []string{}, fmt.Errorf("%w: %s: %v", ErrLoadFailure, s.path, err)
	}
	if list == nil {
		list = []string{}
	}
	return list, nil
}

// save writes to a temporary file in the same directory and renames it into place.
func (s *Store) save(list []string) error {
	if list == nil {
		list = []string{}
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode recipients: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".recipients-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write recipients: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync recipients: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close recipients: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace recipients file: %w", err)
	}

	s.logger.Info("recipients saved",
		slog.String("path", s.path),
		slog.Int("count", len(list)))
	return nil
}
