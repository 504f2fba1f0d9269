package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/flowboard/core/internal/domain/entities"
	"github.com/flowboard/core/internal/ports"
)

// In-memory repository fakes. Each fake guards its map with a mutex so the
// concurrency-minded board tests stay honest.

type fakeTaskRepo struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*entities.Task
	order []uuid.UUID

	failProgress     bool
	failDelete       bool
	onUpdateProgress func()
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[uuid.UUID]*entities.Task)}
}

func (r *fakeTaskRepo) Create(_ context.Context, task *entities.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *task
	r.tasks[task.ID] = &cp
	r.order = append(r.order, task.ID)
	return nil
}

func (r *fakeTaskRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, entities.ErrTaskNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTaskRepo) GetByProject(_ context.Context, projectID uuid.UUID) ([]*entities.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.Task
	for _, id := range r.order {
		if t, ok := r.tasks[id]; ok && t.ProjectID == projectID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) List(_ context.Context) ([]*entities.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.Task
	for _, id := range r.order {
		if t, ok := r.tasks[id]; ok {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) Update(_ context.Context, task *entities.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[task.ID]; !ok {
		return entities.ErrTaskNotFound
	}
	cp := *task
	r.tasks[task.ID] = &cp
	return nil
}

func (r *fakeTaskRepo) UpdateProgress(_ context.Context, id uuid.UUID, progress entities.Progress) error {
	if r.onUpdateProgress != nil {
		r.onUpdateProgress()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failProgress {
		return errors.New("storage unavailable")
	}
	t, ok := r.tasks[id]
	if !ok {
		return entities.ErrTaskNotFound
	}
	t.Progress = progress
	return nil
}

func (r *fakeTaskRepo) UpdateReview(_ context.Context, id uuid.UUID, stage entities.Stage, progress entities.Progress, status entities.ReviewStatus, rejectionComment *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return entities.ErrTaskNotFound
	}
	t.Stage = stage
	t.Progress = progress
	t.Status = status
	t.RejectionComment = rejectionComment
	return nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failDelete {
		return errors.New("storage unavailable")
	}
	if _, ok := r.tasks[id]; !ok {
		return entities.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

type fakeProjectRepo struct {
	mu       sync.Mutex
	projects map[uuid.UUID]*entities.Project
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: make(map[uuid.UUID]*entities.Project)}
}

func (r *fakeProjectRepo) Create(_ context.Context, project *entities.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *project
	r.projects[project.ID] = &cp
	return nil
}

func (r *fakeProjectRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok {
		return nil, entities.ErrProjectNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProjectRepo) Update(_ context.Context, project *entities.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[project.ID]; !ok {
		return entities.ErrProjectNotFound
	}
	cp := *project
	r.projects[project.ID] = &cp
	return nil
}

func (r *fakeProjectRepo) SetArchived(_ context.Context, id uuid.UUID, archived bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok {
		return entities.ErrProjectNotFound
	}
	p.IsArchived = archived
	return nil
}

func (r *fakeProjectRepo) List(_ context.Context, includeArchived bool) ([]*entities.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.Project
	for _, p := range r.projects {
		if !includeArchived && p.IsArchived {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entities.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entities.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, entities.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, entities.ErrUserNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return entities.ErrUserNotFound
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return entities.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return entities.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, filter ports.UserFilter) ([]*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.User
	for _, u := range r.users {
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		if filter.Status != nil && u.Status != *filter.Status {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

type fakeAuthRepo struct {
	mu      sync.Mutex
	tokens  map[string]*ports.RefreshToken
	resets  map[string]uuid.UUID
	nextID  int
	expires map[string]time.Time
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{
		tokens:  make(map[string]*ports.RefreshToken),
		resets:  make(map[string]uuid.UUID),
		expires: make(map[string]time.Time),
	}
}

func (r *fakeAuthRepo) CreateRefreshToken(_ context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.tokens[tokenHash] = &ports.RefreshToken{
		ID:        r.nextID,
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	return nil
}

func (r *fakeAuthRepo) GetRefreshToken(_ context.Context, tokenHash string) (*ports.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[tokenHash]
	if !ok {
		return nil, errors.New("refresh token not found")
	}
	cp := *t
	return &cp, nil
}

func (r *fakeAuthRepo) RevokeRefreshToken(_ context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tokens[tokenHash]; ok && t.RevokedAt == nil {
		now := time.Now()
		t.RevokedAt = &now
	}
	return nil
}

func (r *fakeAuthRepo) RevokeAllUserTokens(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, t := range r.tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeAuthRepo) CreatePasswordReset(_ context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resets[tokenHash] = userID
	r.expires[tokenHash] = expiresAt
	return nil
}

func (r *fakeAuthRepo) ConsumePasswordReset(_ context.Context, tokenHash string) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	userID, ok := r.resets[tokenHash]
	if !ok || time.Now().After(r.expires[tokenHash]) {
		return uuid.Nil, errors.New("password reset token invalid or expired")
	}
	delete(r.resets, tokenHash)
	return userID, nil
}

func (r *fakeAuthRepo) CleanupExpiredTokens(_ context.Context) error { return nil }

type fakePrefRepo struct {
	mu    sync.Mutex
	prefs map[uuid.UUID]*ports.Preferences
}

func newFakePrefRepo() *fakePrefRepo {
	return &fakePrefRepo{prefs: make(map[uuid.UUID]*ports.Preferences)}
}

func (r *fakePrefRepo) Get(_ context.Context, userID uuid.UUID) (*ports.Preferences, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.prefs[userID]
	if !ok {
		return &ports.Preferences{UserID: userID}, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakePrefRepo) Upsert(_ context.Context, prefs *ports.Preferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *prefs
	cp.UpdatedAt = time.Now()
	r.prefs[prefs.UserID] = &cp
	return nil
}
