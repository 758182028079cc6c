package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// FileStore keeps the user catalog in memory and rewrites the whole JSON file on change.
type FileStore struct {
	path  string
	mu    sync.RWMutex
	users map[string]*User
}

func NewFileStore(path string) (*FileStore, error) {
	fs := &FileStore{
		path:  path,
		users: make(map[string]*User),
	}

	if err := fs.load(); err != nil {
		return nil, err
	}

	return fs, nil
}

func (fs *FileStore) load() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	f, err := os.Open(fs.path)
	if errors.Is(err, os.ErrNotExist) {
		// first run, created on the first save
		return nil
	}
	if err != nil {
		return fmt.Errorf("open user file: %w", err)
	}
	defer f.Close()

	var list []*User
	if err := json.NewDecoder(f).Decode(&list); err != nil {
		return fmt.Errorf("parse user file %s: %w", fs.path, err)
	}

	for _, u := range list {
		fs.users[u.Username] = u
	}
	return nil
}

// persist writes to a temporary file and renames it over the catalog. Callers hold mu.
func (fs *FileStore) persist() error {
	if err := os.MkdirAll(filepath.Dir(fs.path), 0o755); err != nil {
		return fmt.Errorf("create user file directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(fs.path), ".users-*.json")
	if err != nil {
		return fmt.Errorf("write user file: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fs.sorted()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write user file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write user file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("write user file: %w", err)
	}
	if err := os.Rename(tmp.Name(), fs.path); err != nil {
		return fmt.Errorf("write user file: %w", err)
	}
	return nil
}

func (fs *FileStore) sorted() []*User {
	list := make([]*User, 0, len(fs.users))
	for _, u := range fs.users {
		list = append(list, u)
	}
	slices.SortFunc(list, func(a, b *User) int { return strings.Compare(a.Username, b.Username) })
	return list
}

func (fs *FileStore) GetUser(username string) (*User, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	u, ok := fs.users[username]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}
	return u.clone(), nil
}

func (fs *FileStore) SaveUser(u *User) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	prev, had := fs.users[u.Username]
	fs.users[u.Username] = u.clone()
	if err := fs.persist(); err != nil {
		if had {
			fs.users[u.Username] = prev
		} else {
			delete(fs.users, u.Username)
		}
		return err
	}
	return nil
}

func (fs *FileStore) DeleteUser(username string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	prev, ok := fs.users[username]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}

	delete(fs.users, username)
	if err := fs.persist(); err != nil {
		fs.users[username] = prev
		return err
	}
	return nil
}

func (fs *FileStore) ListUsers() ([]*User, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	list := fs.sorted()
	for i, u := range list {
		list[i] = u.clone()
	}
	return list, nil
}
