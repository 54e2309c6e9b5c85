package list

import (
	"context"
	"sort"
	"sync"
)

type Repository interface {
	// ListByOwner returns the owner's lists, newest first.
	ListByOwner(ctx context.Context, ownerID string, includeArchived bool) ([]List, error)
	LatestActive(ctx context.Context, ownerID string) (List, error)
	GetByID(ctx context.Context, ownerID, id string) (List, error)
	Create(ctx context.Context, l List) (List, error)
	// Update applies fn to the stored list atomically; the change is
	// discarded when fn returns an error.
	Update(ctx context.Context, ownerID, id string, fn func(*List) error) (List, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type InMemoryRepository struct {
	mu    sync.Mutex
	lists []List
}

func NewInMemoryRepository(seed []List) *InMemoryRepository {
	repo := &InMemoryRepository{lists: make([]List, 0, len(seed))}
	for _, l := range seed {
		repo.lists = append(repo.lists, clone(l))
	}
	return repo
}

func clone(l List) List {
	items := make([]Item, len(l.Items))
	copy(items, l.Items)
	for i := range items {
		items[i].Product = nil
	}
	l.Items = items
	return l
}

func (r *InMemoryRepository) ListByOwner(_ context.Context, ownerID string, includeArchived bool) ([]List, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]List, 0)
	for _, l := range r.lists {
		if l.OwnerID != ownerID || (!includeArchived && l.Status == StatusArchived) {
			continue
		}
		out = append(out, clone(l))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *InMemoryRepository) LatestActive(ctx context.Context, ownerID string) (List, error) {
	lists, _ := r.ListByOwner(ctx, ownerID, false)
	for _, l := range lists {
		if l.Status == StatusActive {
			return l, nil
		}
	}
	return List{}, ErrNotFound
}

func (r *InMemoryRepository) find(ownerID, id string) int {
	for i, l := range r.lists {
		if l.ID == id && l.OwnerID == ownerID {
			return i
		}
	}
	return -1
}

func (r *InMemoryRepository) GetByID(_ context.Context, ownerID, id string) (List, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.find(ownerID, id); i >= 0 {
		return clone(r.lists[i]), nil
	}
	return List{}, ErrNotFound
}

func (r *InMemoryRepository) Create(_ context.Context, l List) (List, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists = append(r.lists, clone(l))
	return clone(l), nil
}

func (r *InMemoryRepository) Update(_ context.Context, ownerID, id string, fn func(*List) error) (List, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.find(ownerID, id)
	if i < 0 {
		return List{}, ErrNotFound
	}
	l := clone(r.lists[i])
	if err := fn(&l); err != nil {
		return List{}, err
	}
	r.lists[i] = clone(l)
	return l, nil
}

func (r *InMemoryRepository) Delete(_ context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.find(ownerID, id)
	if i < 0 {
		return ErrNotFound
	}
	r.lists = append(r.lists[:i], r.lists[i+1:]...)
	return nil
}
