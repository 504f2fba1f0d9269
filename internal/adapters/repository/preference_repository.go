package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/flowboard/core/internal/ports"
)

// PreferenceRepositoryImpl implements the PreferenceRepository interface
type PreferenceRepositoryImpl struct {
	db *sqlx.DB
}

// NewPreferenceRepository creates a new preference repository
func NewPreferenceRepository(db *sqlx.DB) ports.PreferenceRepository {
	return &PreferenceRepositoryImpl{db: db}
}

func (r *PreferenceRepositoryImpl) Get(ctx context.Context, userID uuid.UUID) (*ports.Preferences, error) {
	query := `
		SELECT user_id, display_name, role, last_viewed_page, last_project_id, updated_at
		FROM user_preferences WHERE user_id = $1`

	var prefs ports.Preferences
	err := r.db.GetContext(ctx, &prefs, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Missing row is not an error; callers get an empty record.
			return &ports.Preferences{UserID: userID}, nil
		}
		return nil, fmt.Errorf("get preferences: %w", err)
	}

	return &prefs, nil
}

func (r *PreferenceRepositoryImpl) Upsert(ctx context.Context, prefs *ports.Preferences) error {
	query := `
		INSERT INTO user_preferences (user_id, display_name, role, last_viewed_page, last_project_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET display_name = EXCLUDED.display_name,
			role = EXCLUDED.role,
			last_viewed_page = EXCLUDED.last_viewed_page,
			last_project_id = EXCLUDED.last_project_id,
			updated_at = CURRENT_TIMESTAMP
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		prefs.UserID, prefs.DisplayName, prefs.Role,
		prefs.LastViewedPage, prefs.LastProjectID,
	).Scan(&prefs.UpdatedAt)

	if err != nil {
		return fmt.Errorf("upsert preferences: %w", err)
	}

	return nil
}
