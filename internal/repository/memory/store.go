// Package memory provides an in-memory UserStore that records every update.
// It backs unit tests of the upgrade workflow and needs no database.
package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/dtroode/levelkeeper/internal/model"
)

var (
	_ model.UserStore  = (*Store)(nil)
	_ model.Transactor = (*Store)(nil)
)

type txKey struct{}

// Store keeps users in a map. Transactions snapshot the map and restore it on rollback.
type Store struct {
	mu      sync.Mutex
	users   map[string]model.User
	updates []model.User
}

func NewStore(users ...model.User) *Store {
	s := &Store{users: make(map[string]model.User, len(users))}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *Store) Add(_ context.Context, user model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; ok {
		return fmt.Errorf("user %q: %w", user.ID, model.ErrConflict)
	}
	s.users[user.ID] = user
	return nil
}

func (s *Store) Get(_ context.Context, id string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return model.User{}, fmt.Errorf("user %q: %w", id, model.ErrNotFound)
	}
	return user, nil
}

func (s *Store) GetAll(_ context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := slices.Collect(maps.Values(s.users))
	slices.SortFunc(users, func(a, b model.User) int { return strings.Compare(a.ID, b.ID) })
	if users == nil {
		users = []model.User{}
	}
	return users, nil
}

// Update overwrites the stored user and records the call, including calls
// that are later rolled back.
func (s *Store) Update(_ context.Context, user model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.updates = append(s.updates, user)
	if _, ok := s.users[user.ID]; !ok {
		return fmt.Errorf("user %q: %w", user.ID, model.ErrNotFound)
	}
	s.users[user.ID] = user
	return nil
}

func (s *Store) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.users)
	return nil
}

func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.users), nil
}

// Updates returns the users passed to Update, in call order.
func (s *Store) Updates() []model.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.updates)
}

// WithinTransaction runs fn against the store and restores the previous
// contents if fn fails or panics. Nested calls join the outer transaction.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(bool); ok {
		return fn(ctx)
	}

	s.mu.Lock()
	snapshot := maps.Clone(s.users)
	s.mu.Unlock()

	rollback := func() {
		s.mu.Lock()
		s.users = snapshot
		s.mu.Unlock()
	}

	defer func() {
		if p := recover(); p != nil {
			rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		rollback()
		return err
	}
	return nil
}
