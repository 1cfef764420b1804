// Package memory is an in-process Store used by tests and DATA_BACKEND=memory.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"accountbook/internal/core"
	"accountbook/internal/storage"
)

type Store struct {
	mu           sync.Mutex
	nextTxID     int64
	nextUserID   int64
	transactions map[int64]core.Transaction
	users        map[core.OwnerID]*userRecord
	categories   map[core.OwnerID][]core.Category
}

type userRecord struct {
	user           core.User
	lastRemindedOn core.Date
}

var _ storage.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		transactions: make(map[int64]core.Transaction),
		users:        make(map[core.OwnerID]*userRecord),
		categories:   make(map[core.OwnerID][]core.Category),
	}
}

func (s *Store) Close() error { return nil }

// AddTransaction stores the row under a monotonic id that is never reused.
func (s *Store) AddTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	if t.Amount <= 0 {
		return core.Transaction{}, core.ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextTxID++
	t.ID = s.nextTxID
	s.transactions[t.ID] = t
	return t, nil
}

func (s *Store) UpdateTransaction(_ context.Context, t core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.transactions[t.ID]
	if !ok || cur.Owner != t.Owner {
		return fmt.Errorf("update transaction %d: %w", t.ID, core.ErrNotFound)
	}
	s.transactions[t.ID] = t
	return nil
}

func (s *Store) DeleteTransaction(_ context.Context, owner core.OwnerID, id int64) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.transactions[id]
	if !ok || cur.Owner != owner {
		return core.Transaction{}, fmt.Errorf("delete transaction %d: %w", id, core.ErrNotFound)
	}
	delete(s.transactions, id)
	return cur, nil
}

func (s *Store) TransactionByID(_ context.Context, owner core.OwnerID, id int64) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.transactions[id]
	if !ok || cur.Owner != owner {
		return core.Transaction{}, fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	return cur, nil
}

// ListTransactions implements stats.Source
func (s *Store) ListTransactions(_ context.Context, q core.TransactionQuery) ([]core.Transaction, error) {
	s.mu.Lock()
	out := make([]core.Transaction, 0)
	for _, t := range s.transactions {
		if q.Matches(t) {
			out = append(out, t)
		}
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) AddCategory(_ context.Context, owner core.OwnerID, c core.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.Kind = core.Custom
	s.categories[owner] = append(s.categories[owner], c)
	return nil
}

func (s *Store) CustomCategories(_ context.Context, owner core.OwnerID) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Category(nil), s.categories[owner]...), nil
}

func (s *Store) CreateUser(_ context.Context, u core.User) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.users {
		if rec.user.Name == u.Name {
			return core.User{}, storage.ErrDuplicateName
		}
		if strings.EqualFold(rec.user.Email, u.Email) {
			return core.User{}, storage.ErrDuplicateEmail
		}
	}
	s.nextUserID++
	u.ID = core.OwnerID(s.nextUserID)
	s.users[u.ID] = &userRecord{user: u}
	return u, nil
}

func (s *Store) UserByID(_ context.Context, id core.OwnerID) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[id]
	if !ok {
		return core.User{}, fmt.Errorf("user %d: %w", id, core.ErrNotFound)
	}
	return rec.user, nil
}

func (s *Store) UserByEmail(_ context.Context, email string) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.users {
		if strings.EqualFold(rec.user.Email, email) {
			return rec.user, nil
		}
	}
	return core.User{}, fmt.Errorf("user %q: %w", email, core.ErrNotFound)
}

func (s *Store) RenameUser(_ context.Context, id core.OwnerID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[id]
	if !ok {
		return fmt.Errorf("rename user %d: %w", id, core.ErrNotFound)
	}
	for otherID, other := range s.users {
		if otherID != id && other.user.Name == name {
			return storage.ErrDuplicateName
		}
	}
	rec.user.Name = name
	return nil
}

func (s *Store) UpdateSettings(_ context.Context, id core.OwnerID, settings core.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[id]
	if !ok {
		return fmt.Errorf("update settings for user %d: %w", id, core.ErrNotFound)
	}
	rec.user.Settings = settings
	return nil
}

func (s *Store) DeleteUser(_ context.Context, id core.OwnerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return fmt.Errorf("delete user %d: %w", id, core.ErrNotFound)
	}
	delete(s.users, id)
	delete(s.categories, id)
	for txID, t := range s.transactions {
		if t.Owner == id {
			delete(s.transactions, txID)
		}
	}
	return nil
}

func (s *Store) ReminderCandidates(_ context.Context) ([]storage.ReminderCandidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []storage.ReminderCandidate
	for _, rec := range s.users {
		if rec.user.Settings.ReminderEnabled {
			out = append(out, storage.ReminderCandidate{User: rec.user, LastRemindedOn: rec.lastRemindedOn})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].User.ID < out[j].User.ID })
	return out, nil
}

func (s *Store) MarkReminded(_ context.Context, id core.OwnerID, day core.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[id]
	if !ok {
		return fmt.Errorf("mark reminded %d: %w", id, core.ErrNotFound)
	}
	rec.lastRemindedOn = day
	return nil
}
