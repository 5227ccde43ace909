// Package store holds the file-backed record stores consumed by the
// core: one file per user under the user-db directory, one JSON
// document per project under the project-db directory.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/netgrid/backend/internal/model"
)

var ErrUserNotFound = errors.New("user not found")

const (
	builtinAdminUsername = "admin"
	builtinUserUsername  = "user"
	builtinPassword      = "moxa"
)

// userRecord is the on-disk shape. Password is sealed; the in-memory
// model.User carries the recovered plaintext.
type userRecord struct {
	ID             int        `json:"id"`
	Username       string     `json:"username"`
	SealedPassword string     `json:"sealedPassword"`
	Role           model.Role `json:"role"`
	Profiles       []string   `json:"profiles"`
}

// UserStore persists users one file each, named <id>_<username>.
type UserStore struct {
	dir    string
	cipher *passwordCipher
}

func NewUserStore(dir, passwordKey string) (*UserStore, error) {
	cipher, err := newPasswordCipher(passwordKey)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create user db dir: %w", err)
	}
	return &UserStore{dir: dir, cipher: cipher}, nil
}

// LoadAll reads every user file, unsealing passwords. Results are
// ordered by id so callers see a stable set.
func (s *UserStore) LoadAll() ([]model.User, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read user db dir: %w", err)
	}

	users := make([]model.User, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		user, err := s.readFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// Save writes the user record, assigning the next free id when the
// record carries the unassigned marker.
func (s *UserStore) Save(user model.User) (model.User, error) {
	if strings.TrimSpace(user.Username) == "" {
		return model.User{}, fmt.Errorf("username is required")
	}
	if user.ID == model.UnassignedUserID {
		next, err := s.nextID()
		if err != nil {
			return model.User{}, err
		}
		user.ID = next
	}

	sealed, err := s.cipher.Seal(user.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("seal password: %w", err)
	}
	record := userRecord{
		ID:             user.ID,
		Username:       user.Username,
		SealedPassword: sealed,
		Role:           user.Role,
		Profiles:       user.Profiles,
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return model.User{}, err
	}
	if err := os.WriteFile(s.filePath(user.ID, user.Username), data, 0o600); err != nil {
		return model.User{}, fmt.Errorf("write user file: %w", err)
	}
	return user, nil
}

// Delete removes the record identified by the id + username pair.
func (s *UserStore) Delete(id int, username string) error {
	err := os.Remove(s.filePath(id, username))
	if errors.Is(err, os.ErrNotExist) {
		return ErrUserNotFound
	}
	return err
}

// EnsureBuiltins creates the default admin/basic user pair on first
// run. Existing records are left alone.
func (s *UserStore) EnsureBuiltins() error {
	users, err := s.LoadAll()
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return nil
	}

	builtins := []model.User{
		{ID: model.UnassignedUserID, Username: builtinAdminUsername, Password: builtinPassword, Role: model.RoleAdmin},
		{ID: model.UnassignedUserID, Username: builtinUserUsername, Password: builtinPassword, Role: model.RoleUser},
	}
	for _, u := range builtins {
		if _, err := s.Save(u); err != nil {
			return err
		}
	}
	return nil
}

func (s *UserStore) filePath(id int, username string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%d_%s", id, username))
}

func (s *UserStore) readFile(path string) (model.User, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.User{}, fmt.Errorf("read user file: %w", err)
	}
	var record userRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return model.User{}, fmt.Errorf("decode user file %s: %w", filepath.Base(path), err)
	}
	password, err := s.cipher.Open(record.SealedPassword)
	if err != nil {
		return model.User{}, fmt.Errorf("user file %s: %w", filepath.Base(path), err)
	}
	return model.User{
		ID:       record.ID,
		Username: record.Username,
		Password: password,
		Role:     record.Role,
		Profiles: record.Profiles,
	}, nil
}

func (s *UserStore) nextID() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("read user db dir: %w", err)
	}
	next := 0
	for _, entry := range entries {
		name := entry.Name()
		idx := strings.Index(name, "_")
		if idx <= 0 {
			continue
		}
		id, err := strconv.Atoi(name[:idx])
		if err != nil {
			continue
		}
		if id >= next {
			next = id + 1
		}
	}
	return next, nil
}
