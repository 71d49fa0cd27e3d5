package shop

import (
	"context"

	"shopcart/internal/domain"
	"shopcart/internal/repository/state"
)

func (s *Service) Preferences(ctx context.Context, shopKey string) (p domain.Preferences, err error) {
	ctx, done := s.begin(ctx, "preferences", shopKey)
	defer func() { done(err) }()

	snap, err := s.load(ctx, shopKey)
	if err != nil {
		return domain.Preferences{}, err
	}
	return snap.Preferences, nil
}

func (s *Service) SetPreferences(ctx context.Context, shopKey string, p domain.Preferences) (err error) {
	ctx, done := s.begin(ctx, "set_preferences", shopKey)
	defer func() { done(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(ctx, shopKey,
		write{Key: state.KeyIsAdmin, Value: p.IsAdmin},
		write{Key: state.KeySearchTerm, Value: p.SearchTerm},
	)
}
