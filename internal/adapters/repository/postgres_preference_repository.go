package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/skycastapp/skycast/internal/core/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresPreferenceRepository is the account preference backend.
// Preferences live on the users row; favorites in favorite_cities with a
// UNIQUE(user_id, city_name) constraint and a serial id that preserves
// insertion order on reads.
type PostgresPreferenceRepository struct {
	db *sqlx.DB
}

func NewPostgresPreferenceRepository(db *sqlx.DB) *PostgresPreferenceRepository {
	return &PostgresPreferenceRepository{db: db}
}

func (r *PostgresPreferenceRepository) GetPreferences(ctx context.Context, accountID string) (domain.Preferences, error) {
	query := `SELECT default_city, is_metric FROM users WHERE id = $1`

	var prefs domain.Preferences

	err := r.db.QueryRowContext(ctx, query, accountID).Scan(&prefs.DefaultCity, &prefs.Metric)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.DefaultPreferences(), nil
		}
		return domain.Preferences{}, fmt.Errorf("repository: get preferences failed: %w", err)
	}

	if prefs.DefaultCity == "" {
		prefs.DefaultCity = domain.DefaultPreferences().DefaultCity
	}

	return prefs, nil
}

func (r *PostgresPreferenceRepository) SetPreferences(ctx context.Context, accountID string, prefs domain.Preferences) error {
	query := `
        UPDATE users
        SET default_city = $1, is_metric = $2, updated_at = NOW()
        WHERE id = $3`

	res, err := r.db.ExecContext(ctx, query, prefs.DefaultCity, prefs.Metric, accountID)
	if err != nil {
		return fmt.Errorf("repository: set preferences failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("repository: set preferences failed: %w", err)
	}
	if rows == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

func (r *PostgresPreferenceRepository) ListFavorites(ctx context.Context, accountID string) ([]string, error) {
	query := `
        SELECT city_name FROM favorite_cities
        WHERE user_id = $1
        ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("repository: list favorites failed: %w", err)
	}
	defer rows.Close()

	var cities []string
	for rows.Next() {
		var city string
		if err := rows.Scan(&city); err != nil {
			return nil, fmt.Errorf("repository: scan favorite failed: %w", err)
		}
		cities = append(cities, city)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: iterate favorites failed: %w", err)
	}

	return cities, nil
}

func (r *PostgresPreferenceRepository) AddFavorite(ctx context.Context, accountID, city string) error {
	// ON CONFLICT keeps the operation idempotent: re-adding an existing
	// favorite is a no-op, not an error.
	query := `
        INSERT INTO favorite_cities (user_id, city_name)
        VALUES ($1, $2)
        ON CONFLICT (user_id, city_name) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, accountID, city); err != nil {
		return fmt.Errorf("repository: add favorite failed: %w", err)
	}

	return nil
}

func (r *PostgresPreferenceRepository) RemoveFavorite(ctx context.Context, accountID, city string) error {
	query := `DELETE FROM favorite_cities WHERE user_id = $1 AND city_name = $2`

	if _, err := r.db.ExecContext(ctx, query, accountID, city); err != nil {
		return fmt.Errorf("repository: remove favorite failed: %w", err)
	}

	return nil
}
