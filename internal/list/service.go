package list

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wichananm65/grocery-list-backend/internal/product"
	"golang.org/x/sync/singleflight"
)

// Products is the catalog lookup used to validate and populate items.
type Products interface {
	Get(ctx context.Context, ownerID, id string) (product.Product, error)
	GetMany(ctx context.Context, ownerID string, ids []string) (map[string]product.Product, error)
}

type Service struct {
	repo     Repository
	products Products
	now      func() time.Time
	newID    func() string
	// active collapses concurrent Active calls per owner.
	active singleflight.Group
}

func NewService(repo Repository, products Products) *Service {
	return &Service{repo: repo, products: products, now: time.Now, newID: uuid.NewString}
}

func (s *Service) List(ctx context.Context, ownerID string, includeArchived bool) ([]List, error) {
	lists, err := s.repo.ListByOwner(ctx, ownerID, includeArchived)
	if err != nil {
		return nil, err
	}
	if err := s.populate(ctx, ownerID, lists); err != nil {
		return nil, err
	}
	return lists, nil
}

func (s *Service) Create(ctx context.Context, ownerID, name string) (List, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName
	}
	if !validName(name) {
		return List{}, ErrInvalidName
	}
	return s.repo.Create(ctx, s.newList(ownerID, name))
}

func (s *Service) newList(ownerID, name string) List {
	return List{
		ID:        s.newID(),
		OwnerID:   ownerID,
		Name:      name,
		Status:    StatusActive,
		Items:     []Item{},
		CreatedAt: s.now().UTC(),
	}
}

// Active returns the most recent active list, creating one when the owner
// has none. Concurrent first calls for the same owner share one lookup, so
// only one list is created.
func (s *Service) Active(ctx context.Context, ownerID string) (List, error) {
	v, err, _ := s.active.Do(ownerID, func() (any, error) {
		return s.findOrCreateActive(ctx, ownerID)
	})
	if err != nil {
		return List{}, err
	}
	return v.(List), nil
}

func (s *Service) findOrCreateActive(ctx context.Context, ownerID string) (List, error) {
	l, err := s.repo.LatestActive(ctx, ownerID)
	if errors.Is(err, ErrNotFound) {
		return s.repo.Create(ctx, s.newList(ownerID, DefaultActiveName))
	}
	if err != nil {
		return List{}, err
	}
	return s.populateOne(ctx, ownerID, l)
}

func (s *Service) Get(ctx context.Context, ownerID, id string) (List, error) {
	l, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return List{}, err
	}
	return s.populateOne(ctx, ownerID, l)
}

func (s *Service) Patch(ctx context.Context, ownerID, id string, req PatchRequest) (List, error) {
	if req.Name != nil && !validName(*req.Name) {
		return List{}, ErrInvalidName
	}
	if req.Status != nil && !req.Status.Valid() {
		return List{}, ErrInvalidStatus
	}
	return s.mutate(ctx, ownerID, id, func(l *List) error {
		if req.Name != nil {
			l.Name = strings.TrimSpace(*req.Name)
		}
		if req.Status != nil {
			l.Status = *req.Status
		}
		return nil
	})
}

func (s *Service) SetStatus(ctx context.Context, ownerID, id string, status Status) (List, error) {
	return s.Patch(ctx, ownerID, id, PatchRequest{Status: &status})
}

func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	return s.repo.Delete(ctx, ownerID, id)
}

func (s *Service) AddItem(ctx context.Context, ownerID, id string, req AddItemRequest) (List, error) {
	if req.Quantity.Invalid {
		return List{}, ErrInvalidQuantity
	}
	if req.ProductID == "" && strings.TrimSpace(req.CustomName) == "" {
		return List{}, ErrItemTargetRequired
	}
	if req.ProductID != "" {
		if _, err := s.products.Get(ctx, ownerID, req.ProductID); err != nil {
			return List{}, err
		}
	}
	return s.mutate(ctx, ownerID, id, func(l *List) error {
		_, err := l.AddItem(req.ProductID, req.CustomName, req.Quantity.Or(0), s.newID)
		return err
	})
}

func (s *Service) UpdateItem(ctx context.Context, ownerID, id, itemID string, req UpdateItemRequest) (List, error) {
	if req.Quantity.Invalid {
		return List{}, ErrInvalidQuantity
	}
	return s.mutate(ctx, ownerID, id, func(l *List) error {
		return l.UpdateItem(itemID, req.Quantity.Or(0), req.IsPurchased)
	})
}

func (s *Service) RemoveItem(ctx context.Context, ownerID, id, itemID string) (List, error) {
	return s.mutate(ctx, ownerID, id, func(l *List) error {
		l.RemoveItem(itemID)
		return nil
	})
}

func (s *Service) ClearCompleted(ctx context.Context, ownerID, id string) (List, error) {
	return s.mutate(ctx, ownerID, id, func(l *List) error {
		l.ClearCompleted()
		return nil
	})
}

func (s *Service) mutate(ctx context.Context, ownerID, id string, fn func(*List) error) (List, error) {
	l, err := s.repo.Update(ctx, ownerID, id, fn)
	if err != nil {
		return List{}, err
	}
	return s.populateOne(ctx, ownerID, l)
}

func (s *Service) populateOne(ctx context.Context, ownerID string, l List) (List, error) {
	lists := []List{l}
	if err := s.populate(ctx, ownerID, lists); err != nil {
		return List{}, err
	}
	return lists[0], nil
}

// populate resolves item products with one lookup across all lists.
func (s *Service) populate(ctx context.Context, ownerID string, lists []List) error {
	seen := map[string]struct{}{}
	ids := make([]string, 0)
	for i := range lists {
		for _, id := range lists[i].productIDs() {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	if len(ids) == 0 {
		return nil
	}

	found, err := s.products.GetMany(ctx, ownerID, ids)
	if err != nil {
		return err
	}
	for i := range lists {
		for j := range lists[i].Items {
			it := &lists[i].Items[j]
			if p, ok := found[it.ProductID]; ok {
				p := p
				it.Product = &p
			}
		}
	}
	return nil
}
