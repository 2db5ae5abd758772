package memory

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/google/uuid"

	"github.com/hongminglow/user-records/internal/models"
	"github.com/hongminglow/user-records/internal/storage"
)

var _ storage.UserStore = (*Store)(nil)

// Store keeps user documents in process memory, in insertion order.
type Store struct {
	mu    sync.RWMutex
	order []string
	docs  map[string]map[string]any
}

// NewUserStore returns an empty Store.
func NewUserStore() *Store {
	return &Store{docs: make(map[string]map[string]any)}
}

// List returns every user in insertion order.
func (s *Store) List(ctx context.Context) ([]models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]models.User, 0, len(s.order))
	for _, id := range s.order {
		users = append(users, models.User{ID: id, Fields: maps.Clone(s.docs[id])})
	}
	return users, nil
}

// FindByID fetches a user by id. Ids that are not UUIDs are rejected
// with an error distinct from storage.ErrNotFound.
func (s *Store) FindByID(ctx context.Context, id string) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	uid, err := uuid.Parse(id)
	if err != nil {
		return models.User{}, fmt.Errorf("invalid user id %q: %w", id, err)
	}
	id = uid.String()
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return models.User{ID: id, Fields: maps.Clone(doc)}, nil
}

// Insert validates and stores a new user under a fresh id.
func (s *Store) Insert(ctx context.Context, user models.User) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	if err := storage.Validate(user); err != nil {
		return models.User{}, err
	}
	id := uuid.NewString()
	doc := maps.Clone(user.Fields)
	delete(doc, models.FieldID)

	s.mu.Lock()
	for _, existing := range s.docs {
		if existing[models.FieldName] == doc[models.FieldName] {
			s.mu.Unlock()
			return models.User{}, &storage.ValidationError{Field: models.FieldName, Reason: "duplicate key"}
		}
	}
	s.docs[id] = doc
	s.order = append(s.order, id)
	s.mu.Unlock()

	return models.User{ID: id, Fields: maps.Clone(doc)}, nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error {
	return nil
}

// Close is a no-op kept for parity with the postgres store.
func (s *Store) Close() {}
