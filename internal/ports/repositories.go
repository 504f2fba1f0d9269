package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/flowboard/core/internal/domain/entities"
)

// UserRepository defines the interface for staff data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter UserFilter) ([]*entities.User, error)
}

// ProjectRepository defines the interface for project data operations
type ProjectRepository interface {
	Create(ctx context.Context, project *entities.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Project, error)
	Update(ctx context.Context, project *entities.Project) error
	SetArchived(ctx context.Context, id uuid.UUID, archived bool) error
	List(ctx context.Context, includeArchived bool) ([]*entities.Project, error)
}

// TaskRepository defines the interface for task data operations
type TaskRepository interface {
	Create(ctx context.Context, task *entities.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Task, error)
	GetByProject(ctx context.Context, projectID uuid.UUID) ([]*entities.Task, error)
	List(ctx context.Context) ([]*entities.Task, error)
	Update(ctx context.Context, task *entities.Task) error
	UpdateProgress(ctx context.Context, id uuid.UUID, progress entities.Progress) error
	UpdateReview(ctx context.Context, id uuid.UUID, stage entities.Stage, progress entities.Progress, status entities.ReviewStatus, rejectionComment *string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// AuthRepository defines the interface for refresh-token operations
type AuthRepository interface {
	CreateRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, tokenHash string) (*RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error
	CreatePasswordReset(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	ConsumePasswordReset(ctx context.Context, tokenHash string) (uuid.UUID, error)
	CleanupExpiredTokens(ctx context.Context) error
}

// PreferenceRepository stores the per-user UI continuity snapshot that the
// browser kept in local storage: display name, role snapshot, last viewed
// page and last selected project. Not an authoritative store.
type PreferenceRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (*Preferences, error)
	Upsert(ctx context.Context, prefs *Preferences) error
}

// UserFilter narrows staff listings.
type UserFilter struct {
	Role   *entities.UserRole
	Status *entities.UserStatus
	Search *string
}

// RefreshToken represents a refresh token record
type RefreshToken struct {
	ID        int        `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	TokenHash string     `json:"token_hash" db:"token_hash"`
	ExpiresAt time.Time  `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	RevokedAt *time.Time `json:"revoked_at" db:"revoked_at"`
}

// IsExpired checks if the refresh token is expired
func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// IsRevoked checks if the refresh token is revoked
func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

// IsValid checks if the refresh token is valid
func (rt *RefreshToken) IsValid() bool {
	return !rt.IsExpired() && !rt.IsRevoked()
}

// Preferences is the UI continuity record, one row per user.
type Preferences struct {
	UserID         uuid.UUID  `json:"user_id" db:"user_id"`
	DisplayName    string     `json:"display_name" db:"display_name"`
	Role           string     `json:"role" db:"role"`
	LastViewedPage string     `json:"last_viewed_page" db:"last_viewed_page"`
	LastProjectID  *uuid.UUID `json:"last_project_id" db:"last_project_id"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}
