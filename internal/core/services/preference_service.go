package services

import (
	"context"
	"fmt"

	"github.com/skycastapp/skycast/internal/core/domain"
)

// PreferenceService is the stateless facade over the two preference
// backends. Routing is a pure function of the identity passed per call:
// an account identity goes to relational storage, the guest identity to
// the local file store. The two backends are never merged.
type PreferenceService struct {
	accounts domain.AccountPreferenceRepository
	guest    domain.GuestPreferenceStore
}

func NewPreferenceService(accounts domain.AccountPreferenceRepository, guest domain.GuestPreferenceStore) *PreferenceService {
	return &PreferenceService{
		accounts: accounts,
		guest:    guest,
	}
}

// GetPreferences returns the identity's record, falling back to the
// defaults when none is stored.
func (s *PreferenceService) GetPreferences(ctx context.Context, id domain.Identity) (domain.Preferences, error) {
	if !id.IsAccount() {
		return s.guest.GetPreferences(ctx), nil
	}

	prefs, err := s.accounts.GetPreferences(ctx, id.AccountID)
	if err != nil {
		return domain.Preferences{}, fmt.Errorf("preference service: get preferences: %w", err)
	}
	return prefs, nil
}

func (s *PreferenceService) SetPreferences(ctx context.Context, id domain.Identity, prefs domain.Preferences) error {
	if !id.IsAccount() {
		s.guest.SetPreferences(ctx, prefs)
		return nil
	}

	if err := s.accounts.SetPreferences(ctx, id.AccountID, prefs); err != nil {
		return fmt.Errorf("preference service: set preferences: %w", err)
	}
	return nil
}

func (s *PreferenceService) ListFavorites(ctx context.Context, id domain.Identity) ([]string, error) {
	if !id.IsAccount() {
		return s.guest.ListFavorites(ctx), nil
	}

	favorites, err := s.accounts.ListFavorites(ctx, id.AccountID)
	if err != nil {
		return nil, fmt.Errorf("preference service: list favorites: %w", err)
	}
	return favorites, nil
}

// AddFavorite is idempotent: adding a city twice equals adding it once.
func (s *PreferenceService) AddFavorite(ctx context.Context, id domain.Identity, city string) error {
	if !id.IsAccount() {
		s.guest.AddFavorite(ctx, city)
		return nil
	}

	if err := s.accounts.AddFavorite(ctx, id.AccountID, city); err != nil {
		return fmt.Errorf("preference service: add favorite: %w", err)
	}
	return nil
}

// RemoveFavorite succeeds whether or not the city is present.
func (s *PreferenceService) RemoveFavorite(ctx context.Context, id domain.Identity, city string) error {
	if !id.IsAccount() {
		s.guest.RemoveFavorite(ctx, city)
		return nil
	}

	if err := s.accounts.RemoveFavorite(ctx, id.AccountID, city); err != nil {
		return fmt.Errorf("preference service: remove favorite: %w", err)
	}
	return nil
}

// ToggleFavorite adds the city when absent and removes it when present,
// reporting whether the city ended up pinned.
func (s *PreferenceService) ToggleFavorite(ctx context.Context, id domain.Identity, city string) (bool, error) {
	favorites, err := s.ListFavorites(ctx, id)
	if err != nil {
		return false, err
	}

	for _, fav := range favorites {
		if fav == city {
			return false, s.RemoveFavorite(ctx, id, city)
		}
	}

	return true, s.AddFavorite(ctx, id, city)
}
