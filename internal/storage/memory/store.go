// Package memory is a process-local storage.UserStore for development and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hongminglow/care-admin/internal/models"
	"github.com/hongminglow/care-admin/internal/storage"
)

var _ storage.UserStore = (*Store)(nil)

// Store keeps users in a map guarded by a mutex.
type Store struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]models.User
}

// NewUserStore returns an empty store.
func NewUserStore() *Store {
	return &Store{users: make(map[int64]models.User)}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() {}

func (s *Store) CreateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return models.User{}, storage.ErrAlreadyExists
		}
	}
	s.nextID++
	user.ID = s.nextID
	user.Roles = cloneRoles(user.Roles)
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	s.users[user.ID] = user
	return copyUser(user), nil
}

func (s *Store) FindByID(_ context.Context, id int64) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return copyUser(user), nil
}

func (s *Store) FindByUsername(_ context.Context, username string) (models.User, error) {
	return s.find(func(u models.User) bool { return u.Username == username })
}

func (s *Store) FindByEmail(_ context.Context, email string) (models.User, error) {
	return s.find(func(u models.User) bool { return u.Email == email })
}

func (s *Store) FindByUsernameOrEmail(_ context.Context, identifier string) (models.User, error) {
	return s.find(func(u models.User) bool { return u.Username == identifier || u.Email == identifier })
}

func (s *Store) ListUsers(_ context.Context, limit, offset int) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]int64, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := []models.User{}
	for i := offset; i < len(ids) && len(out) < limit; i++ {
		out = append(out, copyUser(s.users[ids[i]]))
	}
	return out, nil
}

func (s *Store) UpdateRoles(_ context.Context, id int64, roles []string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	user.Roles = cloneRoles(roles)
	s.users[id] = user
	return copyUser(user), nil
}

func (s *Store) DeleteUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *Store) find(match func(models.User) bool) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if match(user) {
			return copyUser(user), nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func copyUser(u models.User) models.User {
	u.Roles = cloneRoles(u.Roles)
	return u
}

func cloneRoles(roles []string) []string {
	out := make([]string, len(roles))
	copy(out, roles)
	return out
}
