package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/flowboard/core/internal/infrastructure/logger"
	"github.com/flowboard/core/internal/ports"
)

// PreferenceService manages the per-user UI continuity record: last viewed
// page and last selected project, plus a display-name/role snapshot kept
// current at sign-in.
type PreferenceService struct {
	prefRepo ports.PreferenceRepository
	userRepo ports.UserRepository
	logger   *logger.Logger
}

// NewPreferenceService creates a new preference service
func NewPreferenceService(prefRepo ports.PreferenceRepository, userRepo ports.UserRepository, logger *logger.Logger) *PreferenceService {
	return &PreferenceService{
		prefRepo: prefRepo,
		userRepo: userRepo,
		logger:   logger,
	}
}

// Get returns the user's continuity record, empty if none was saved yet.
func (s *PreferenceService) Get(ctx context.Context, userID uuid.UUID) (*ports.Preferences, error) {
	return s.prefRepo.Get(ctx, userID)
}

// Update stores the navigation fields of the continuity record. The
// identity snapshot is refreshed from the user store at the same time.
func (s *PreferenceService) Update(ctx context.Context, userID uuid.UUID, req ports.UpdatePreferencesRequest) (*ports.Preferences, error) {
	prefs, err := s.prefRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.LastViewedPage != "" {
		prefs.LastViewedPage = req.LastViewedPage
	}
	if req.LastProjectID != nil {
		prefs.LastProjectID = req.LastProjectID
	}

	if user, err := s.userRepo.GetByID(ctx, userID); err == nil {
		prefs.DisplayName = user.FullName()
		prefs.Role = string(user.Role)
	}

	if err := s.prefRepo.Upsert(ctx, prefs); err != nil {
		return nil, err
	}

	return prefs, nil
}
