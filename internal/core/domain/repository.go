package domain

import (
	"context"
)

type UserRepository interface {
	// Create persists a new account. Username uniqueness is enforced by
	// the storage layer and surfaces as ErrUsernameTaken.
	Create(ctx context.Context, user *User) error

	// GetByUsername retrieves an account by its unique username.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// GetByID retrieves an account by its identifier.
	GetByID(ctx context.Context, id string) (*User, error)
}

// AccountPreferenceRepository is the relational backend behind the
// preference facade. Storage failures propagate: silent loss of account
// data is not acceptable.
type AccountPreferenceRepository interface {
	// GetPreferences returns the stored record, or the defaults when the
	// account has none.
	GetPreferences(ctx context.Context, accountID string) (Preferences, error)

	// SetPreferences upserts the record keyed by account id.
	SetPreferences(ctx context.Context, accountID string, prefs Preferences) error

	// ListFavorites returns favorite city names in insertion order,
	// without duplicates.
	ListFavorites(ctx context.Context, accountID string) ([]string, error)

	// AddFavorite is a no-op when the city is already present.
	AddFavorite(ctx context.Context, accountID, city string) error

	// RemoveFavorite succeeds even when the city is absent.
	RemoveFavorite(ctx context.Context, accountID, city string) error
}

// GuestPreferenceStore is the file backend for the anonymous identity.
// Implementations degrade to defaults on any storage fault and never
// return an error: the guest path prioritizes availability over
// durability.
type GuestPreferenceStore interface {
	GetPreferences(ctx context.Context) Preferences
	SetPreferences(ctx context.Context, prefs Preferences)
	ListFavorites(ctx context.Context) []string
	AddFavorite(ctx context.Context, city string)
	RemoveFavorite(ctx context.Context, city string)
}
