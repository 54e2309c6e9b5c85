package suggest

import (
	"context"
	"math/rand/v2"

	"github.com/wichananm65/grocery-list-backend/internal/list"
	"github.com/wichananm65/grocery-list-backend/internal/llm"
	"github.com/wichananm65/grocery-list-backend/internal/product"
	"go.uber.org/zap"
)

type Products interface {
	List(ctx context.Context, ownerID string) ([]product.Product, error)
}

type Lists interface {
	Get(ctx context.Context, ownerID, id string) (list.List, error)
}

type Service struct {
	products Products
	lists    Lists
	model    llm.Client
	shuffle  func(n int, swap func(i, j int))
	log      *zap.Logger
}

// NewService builds the suggestion service. A nil model selects the mock
// strategy that picks random products.
func NewService(products Products, lists Lists, model llm.Client, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{products: products, lists: lists, model: model, shuffle: rand.Shuffle, log: log}
}

func (s *Service) Mock() bool { return s.model == nil }

func (s *Service) Suggest(ctx context.Context, ownerID string, req Request) ([]Suggestion, error) {
	candidates, err := s.candidates(ctx, ownerID, req.ListID)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return []Suggestion{}, nil
	}
	if s.Mock() {
		return s.mock(candidates), nil
	}

	text, err := s.model.Generate(ctx, buildPrompt(candidates))
	if err != nil {
		return nil, err
	}
	out, err := parseSuggestions(text, candidates)
	if err != nil {
		return nil, err
	}
	s.log.Debug("ai suggestions", zap.String("userId", ownerID), zap.Int("candidates", len(candidates)), zap.Int("suggestions", len(out)))
	return out, nil
}

// candidates returns the owner's products minus those already on the list.
func (s *Service) candidates(ctx context.Context, ownerID, listID string) ([]product.Product, error) {
	products, err := s.products.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if listID == "" {
		return products, nil
	}

	l, err := s.lists.Get(ctx, ownerID, listID)
	if err != nil {
		return nil, err
	}
	onList := make(map[string]bool, len(l.Items))
	for _, it := range l.Items {
		if it.ProductID != "" {
			onList[it.ProductID] = true
		}
	}
	out := products[:0]
	for _, p := range products {
		if !onList[p.ID] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Service) mock(products []product.Product) []Suggestion {
	shuffled := append([]product.Product(nil), products...)
	s.shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	if len(shuffled) > MockCount {
		shuffled = shuffled[:MockCount]
	}
	out := make([]Suggestion, 0, len(shuffled))
	for _, p := range shuffled {
		out = append(out, Suggestion{Product: p.ID, ProductName: p.Name, Reason: MockReason})
	}
	return out
}
