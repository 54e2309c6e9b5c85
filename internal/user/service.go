package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidProfile = errors.New("google profile has no id or email")

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	if id == "" {
		return User{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// FindOrCreateGoogleUser returns the user linked to the Google account,
// updating its last login, or creates it on first sign-in.
func (s *Service) FindOrCreateGoogleUser(ctx context.Context, p Profile) (User, error) {
	if p.GoogleID == "" || p.Email == "" {
		return User{}, ErrInvalidProfile
	}
	now := s.now().UTC()

	existing, err := s.repo.GetByGoogleID(ctx, p.GoogleID)
	if err == nil {
		return s.repo.TouchLastLogin(ctx, existing.ID, now)
	}
	if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	created, err := s.repo.Create(ctx, User{
		ID:        uuid.NewString(),
		GoogleID:  p.GoogleID,
		Email:     strings.ToLower(strings.TrimSpace(p.Email)),
		Name:      strings.TrimSpace(p.Name),
		Picture:   p.Picture,
		LastLogin: now,
		CreatedAt: now,
	})
	if errors.Is(err, ErrGoogleIDTaken) {
		// lost a race with a concurrent first sign-in
		existing, err := s.repo.GetByGoogleID(ctx, p.GoogleID)
		if err != nil {
			return User{}, err
		}
		return s.repo.TouchLastLogin(ctx, existing.ID, now)
	}
	return created, err
}
