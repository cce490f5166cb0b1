package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

const settingsFile = "settings.json"

// FileStore keeps settings as a JSON file and record stores as msgpack
// blobs under a single directory. All files are 0600; a mutex serializes
// read-modify-write cycles.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.readSettings()
	if err != nil {
		return "", err
	}
	return m[key], nil
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.readSettings()
	if err != nil {
		return err
	}
	m[key] = value
	return s.writeSettings(m)
}

func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.readSettings()
	if err != nil {
		return err
	}
	delete(m, key)
	return s.writeSettings(m)
}

// ImportRecords appends records to the named store's blob. Records are
// encoded with msgpack; the blob is a single encoded slice rewritten on
// every import.
func (s *FileStore) ImportRecords(storeName string, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.readRecords(storeName)
	if err != nil {
		return err
	}
	existing = append(existing, records...)

	blob, err := msgpack.Marshal(existing)
	if err != nil {
		return fmt.Errorf("encode records for %s: %w", storeName, err)
	}
	return os.WriteFile(s.recordsPath(storeName), blob, 0o600)
}

// LoadRecords returns the full contents of a named record store.
func (s *FileStore) LoadRecords(storeName string) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readRecords(storeName)
}

func (s *FileStore) readSettings() (map[string]string, error) {
	m := make(map[string]string)
	data, err := os.ReadFile(filepath.Join(s.dir, settingsFile))
	if errors.Is(err, os.ErrNotExist) {
		return m, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("settings file corrupt: %w", err)
	}
	return m, nil
}

func (s *FileStore) writeSettings(m map[string]string) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, settingsFile), data, 0o600)
}

func (s *FileStore) readRecords(storeName string) ([]Record, error) {
	data, err := os.ReadFile(s.recordsPath(storeName))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var records []Record
	if err := msgpack.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("record store %s corrupt: %w", storeName, err)
	}
	return records, nil
}

func (s *FileStore) recordsPath(storeName string) string {
	return filepath.Join(s.dir, "records_"+storeName+".bin")
}
