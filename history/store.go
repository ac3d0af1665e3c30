package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

const (
	historyFile = "history"
	keyFile     = "key"
)

// Store is an encrypted history file, newest item first. A Store is safe for
// concurrent use within one process.
type Store struct {
	mu   sync.Mutex
	path string
	keys *Keyring
}

// Open opens the history kept in dir, creating the directory if needed.
// The history file and its key are created on the first write.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	s := Store{
		path: filepath.Join(dir, historyFile),
		keys: NewKeyring(filepath.Join(dir, keyFile)),
	}
	return &s, nil
}

// Path returns the location of the history file.
func (s *Store) Path() string {
	return s.path
}

// Load returns all items, newest first. A missing history file is empty
// history. Undecryptable or malformed history returns an error wrapping
// ErrCorrupt.
func (s *Store) Load() ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() ([]Item, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("history: %w", err)
	}
	pt, err := s.keys.Open(string(b))
	if err != nil {
		return nil, err
	}
	var items []Item
	if err := json.Unmarshal(pt, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return items, nil
}

// Save replaces the history with items.
func (s *Store) Save(items []Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(items)
}

func (s *Store) save(items []Item) error {
	b, err := encode(items)
	if err != nil {
		return err
	}
	sealed, err := s.keys.Seal(b)
	if err != nil {
		return err
	}
	if err := writeFile(s.path, []byte(sealed)); err != nil {
		return fmt.Errorf("history: %w", err)
	}
	return nil
}

// Add records an item as the newest.
func (s *Store) Add(it Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.load()
	if err != nil {
		return err
	}
	items = append([]Item{it}, items...)
	return s.save(items)
}

// Get finds the item with the given ID.
func (s *Store) Get(id string) (Item, bool, error) {
	items, err := s.Load()
	if err != nil {
		return Item{}, false, err
	}
	for _, it := range items {
		if it.ID == id {
			return it, true, nil
		}
	}
	return Item{}, false, nil
}

// Delete removes the item with the given ID and reports whether there was one.
func (s *Store) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.load()
	if err != nil {
		return false, err
	}
	k := 0
	for _, it := range items {
		if it.ID != id {
			items[k] = it
			k++
		}
	}
	if k == len(items) {
		return false, nil
	}
	return true, s.save(items[:k])
}

// Clear removes all history. The key is kept.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("history: %w", err)
	}
	return nil
}

// Rotate generates a new key and re-encrypts the history under it.
func (s *Store) Rotate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.load()
	if err != nil {
		return err
	}
	b, err := encode(items)
	if err != nil {
		return err
	}
	key, err := newKey()
	if err != nil {
		return err
	}
	sealed, err := seal(key, b)
	if err != nil {
		return err
	}
	// Stage the new history before replacing the key so that a failure leaves
	// the old pair intact.
	tmp, err := stageFile(s.path, []byte(sealed))
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	s.keys.mu.Lock()
	err = writeKey(s.keys.path, key)
	if err == nil {
		s.keys.key = key
	}
	s.keys.mu.Unlock()
	if err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("history: %w", err)
	}
	return nil
}

func encode(items []Item) ([]byte, error) {
	if items == nil {
		items = []Item{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return b, nil
}

// writeFile atomically replaces the file at path with data, readable only by
// the owner.
func writeFile(path string, data []byte) error {
	tmp, err := stageFile(path, data)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// stageFile writes data to a new temporary file beside path and returns its
// name.
func stageFile(path string, data []byte) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return "", err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
