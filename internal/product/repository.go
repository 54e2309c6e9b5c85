package product

import (
	"context"
	"sort"
	"sync"
)

type Repository interface {
	List(ctx context.Context, ownerID string) ([]Product, error)
	GetByID(ctx context.Context, ownerID, id string) (Product, error)
	GetMany(ctx context.Context, ownerID string, ids []string) ([]Product, error)
	Create(ctx context.Context, p Product) (Product, error)
	// Update applies fn to the stored product atomically; nothing is written
	// when fn returns an error.
	Update(ctx context.Context, ownerID, id string, fn func(*Product) error) (Product, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// InMemoryRepository keeps products in a slice. Used by tests.
type InMemoryRepository struct {
	mu       sync.RWMutex
	products []Product
}

func NewInMemoryRepository(seed []Product) *InMemoryRepository {
	repo := &InMemoryRepository{products: make([]Product, 0, len(seed))}
	repo.products = append(repo.products, seed...)
	return repo
}

func (r *InMemoryRepository) List(_ context.Context, ownerID string) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Product, 0)
	for _, p := range r.products {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, ownerID, id string) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.products {
		if p.ID == id && p.OwnerID == ownerID {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

func (r *InMemoryRepository) GetMany(_ context.Context, ownerID string, ids []string) ([]Product, error) {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Product, 0, len(ids))
	for _, p := range r.products {
		if _, ok := want[p.ID]; ok && p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) Create(_ context.Context, p Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = append(r.products, p)
	return p, nil
}

func (r *InMemoryRepository) Update(_ context.Context, ownerID, id string, fn func(*Product) error) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.products {
		if r.products[i].ID != id || r.products[i].OwnerID != ownerID {
			continue
		}
		p := r.products[i]
		if err := fn(&p); err != nil {
			return Product{}, err
		}
		r.products[i] = p
		return p, nil
	}
	return Product{}, ErrNotFound
}

func (r *InMemoryRepository) Delete(_ context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.products {
		if r.products[i].ID == id && r.products[i].OwnerID == ownerID {
			r.products = append(r.products[:i], r.products[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
