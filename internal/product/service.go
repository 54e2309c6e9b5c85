package product

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) List(ctx context.Context, ownerID string) ([]Product, error) {
	return s.repo.List(ctx, ownerID)
}

func (s *Service) Get(ctx context.Context, ownerID, id string) (Product, error) {
	return s.repo.GetByID(ctx, ownerID, id)
}

// GetMany returns the owner's products keyed by id; unknown ids are absent.
func (s *Service) GetMany(ctx context.Context, ownerID string, ids []string) (map[string]Product, error) {
	found, err := s.repo.GetMany(ctx, ownerID, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Product, len(found))
	for _, p := range found {
		out[p.ID] = p
	}
	return out, nil
}

// Create assumes the payload was validated.
func (s *Service) Create(ctx context.Context, ownerID string, payload Payload) (Product, error) {
	p := New(ownerID)
	payload.Apply(&p)
	p.ID = uuid.NewString()
	p.CreatedAt = s.now().UTC()
	return s.repo.Create(ctx, p)
}

func (s *Service) Update(ctx context.Context, ownerID, id string, payload Payload) (Product, error) {
	return s.repo.Update(ctx, ownerID, id, func(p *Product) error {
		payload.Apply(p)
		return nil
	})
}

func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	return s.repo.Delete(ctx, ownerID, id)
}
