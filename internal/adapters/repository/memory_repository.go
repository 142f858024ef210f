package repository

import (
	"context"
	"sync"

	"github.com/skycastapp/skycast/internal/core/domain"
)

// InMemoryUserRepository backs tests and offline runs.
type InMemoryUserRepository struct {
	mu    sync.RWMutex
	store map[string]*domain.User
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		store: make(map[string]*domain.User),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.store {
		if u.Username == user.Username {
			return domain.ErrUsernameTaken
		}
	}

	clone := *user
	r.store[user.ID] = &clone
	return nil
}

func (r *InMemoryUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.store {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.store[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

// InMemoryPreferenceRepository mirrors the account backend contract for
// tests: idempotent favorites in insertion order, defaults when no record
// exists.
type InMemoryPreferenceRepository struct {
	mu        sync.RWMutex
	prefs     map[string]domain.Preferences
	favorites map[string][]string
}

func NewInMemoryPreferenceRepository() *InMemoryPreferenceRepository {
	return &InMemoryPreferenceRepository{
		prefs:     make(map[string]domain.Preferences),
		favorites: make(map[string][]string),
	}
}

func (r *InMemoryPreferenceRepository) GetPreferences(ctx context.Context, accountID string) (domain.Preferences, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	prefs, ok := r.prefs[accountID]
	if !ok {
		return domain.DefaultPreferences(), nil
	}
	return prefs, nil
}

func (r *InMemoryPreferenceRepository) SetPreferences(ctx context.Context, accountID string, prefs domain.Preferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs[accountID] = prefs
	return nil
}

func (r *InMemoryPreferenceRepository) ListFavorites(ctx context.Context, accountID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cities := r.favorites[accountID]
	out := make([]string, len(cities))
	copy(out, cities)
	return out, nil
}

func (r *InMemoryPreferenceRepository) AddFavorite(ctx context.Context, accountID, city string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, fav := range r.favorites[accountID] {
		if fav == city {
			return nil
		}
	}
	r.favorites[accountID] = append(r.favorites[accountID], city)
	return nil
}

func (r *InMemoryPreferenceRepository) RemoveFavorite(ctx context.Context, accountID, city string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cities := r.favorites[accountID]
	for i, fav := range cities {
		if fav == city {
			r.favorites[accountID] = append(cities[:i], cities[i+1:]...)
			return nil
		}
	}
	return nil
}
