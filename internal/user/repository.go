package user

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrGoogleIDTaken = errors.New("google account already linked")
)

type Repository interface {
	GetByID(ctx context.Context, id string) (User, error)
	GetByGoogleID(ctx context.Context, googleID string) (User, error)
	Create(ctx context.Context, user User) (User, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) (User, error)
	Count(ctx context.Context) (int, error)
}

// InMemoryRepository is used by tests and local runs without Postgres.
type InMemoryRepository struct {
	mu    sync.RWMutex
	users []User
}

func NewInMemoryRepository(seed []User) *InMemoryRepository {
	repo := &InMemoryRepository{users: make([]User, 0, len(seed))}
	repo.users = append(repo.users, seed...)
	return repo
}

func (r *InMemoryRepository) GetByID(_ context.Context, id string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *InMemoryRepository) GetByGoogleID(_ context.Context, googleID string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.GoogleID != "" && u.GoogleID == googleID {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *InMemoryRepository) Create(_ context.Context, user User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if user.GoogleID != "" && u.GoogleID == user.GoogleID {
			return User{}, ErrGoogleIDTaken
		}
	}
	r.users = append(r.users, user)
	return user, nil
}

func (r *InMemoryRepository) TouchLastLogin(_ context.Context, id string, at time.Time) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.users {
		if r.users[i].ID == id {
			r.users[i].LastLogin = at
			return r.users[i], nil
		}
	}
	return User{}, ErrNotFound
}

func (r *InMemoryRepository) Count(context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users), nil
}
