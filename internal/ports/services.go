package ports

import (
	"time"

	"github.com/google/uuid"

	"github.com/flowboard/core/internal/domain/entities"
)

// Request/Response Types

// Auth related types
type SignUpRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	FirstName   string `json:"first_name" validate:"required,max=100"`
	LastName    string `json:"last_name" validate:"required,max=100"`
	Phone       string `json:"phone" validate:"omitempty,max=30"`
	Designation string `json:"designation" validate:"omitempty,max=100"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	TokenType    string         `json:"token_type"`
	ExpiresIn    int64          `json:"expires_in"`
	User         *entities.User `json:"user"`
}

type Claims struct {
	UserID string            `json:"user_id"`
	Email  string            `json:"email"`
	Role   entities.UserRole `json:"role"`
}

// Staff related types
type CreateUserRequest struct {
	FirstName   string            `json:"first_name" validate:"required,max=100"`
	LastName    string            `json:"last_name" validate:"required,max=100"`
	Email       string            `json:"email" validate:"required,email"`
	Password    string            `json:"password" validate:"required,min=8"`
	Phone       string            `json:"phone" validate:"omitempty,max=30"`
	Address     entities.Address  `json:"address"`
	Role        entities.UserRole `json:"role" validate:"required,oneof=admin staff"`
	Designation string            `json:"designation" validate:"omitempty,max=100"`
}

type UpdateUserRequest struct {
	FirstName   *string              `json:"first_name" validate:"omitempty,max=100"`
	LastName    *string              `json:"last_name" validate:"omitempty,max=100"`
	Phone       *string              `json:"phone" validate:"omitempty,max=30"`
	Address     *entities.Address    `json:"address"`
	Role        *entities.UserRole   `json:"role" validate:"omitempty,oneof=admin staff"`
	Designation *string              `json:"designation" validate:"omitempty,max=100"`
	Status      *entities.UserStatus `json:"status" validate:"omitempty,oneof=pending active inactive"`
}

// Project related types
type CreateProjectRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"omitempty,max=1000"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

// Task related types
type CreateTaskRequest struct {
	ProjectID   uuid.UUID         `json:"project_id" validate:"required"`
	Content     string            `json:"content" validate:"required,max=500"`
	Description string            `json:"description" validate:"omitempty,max=2000"`
	Priority    entities.Priority `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time        `json:"due_date"`
	AssignedTo  []string          `json:"assigned_to"`
	FileLinks   []string          `json:"file_links" validate:"omitempty,dive,url"`
}

type UpdateTaskRequest struct {
	Content     *string            `json:"content" validate:"omitempty,max=500"`
	Description *string            `json:"description" validate:"omitempty,max=2000"`
	Priority    *entities.Priority `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time         `json:"due_date"`
	AssignedTo  []string           `json:"assigned_to"`
	FileLinks   []string           `json:"file_links" validate:"omitempty,dive,url"`
}

// Board related types
type MoveTaskRequest struct {
	TaskID    uuid.UUID         `json:"task_id" validate:"required"`
	From      entities.Progress `json:"from" validate:"required,oneof=todo inProgress completed"`
	FromIndex int               `json:"from_index" validate:"min=0"`
	To        entities.Progress `json:"to" validate:"required,oneof=todo inProgress completed"`
	ToIndex   int               `json:"to_index" validate:"min=0"`
}

type RejectTaskRequest struct {
	Comment string `json:"comment" validate:"required"`
}

// Dashboard / report types
type DashboardFilter struct {
	ProjectID *uuid.UUID
	Member    *string
}

type StatusSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type MemberWorkload struct {
	Name      string `json:"name"`
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
}

type DashboardReport struct {
	TotalTasks           int              `json:"total_tasks"`
	CompletedTasks       int              `json:"completed_tasks"`
	CompletionPercentage int              `json:"completion_percentage"`
	StatusDistribution   []StatusSlice    `json:"status_distribution"`
	UpcomingDeadlines    []*entities.Task `json:"upcoming_deadlines"`
	MemberWorkload       []MemberWorkload `json:"member_workload"`
}

// Timeline types. Positions are day offsets within the requested month so
// any client can render Gantt bars without date math of its own.
type TimelineBar struct {
	TaskID     uuid.UUID         `json:"task_id"`
	Name       string            `json:"name"`
	Priority   entities.Priority `json:"priority"`
	OffsetDays int               `json:"offset_days"`
	SpanDays   int               `json:"span_days"`
	Hidden     bool              `json:"hidden"`
}

type TimelineProject struct {
	ProjectID   uuid.UUID     `json:"project_id"`
	ProjectName string        `json:"project_name"`
	Bars        []TimelineBar `json:"bars"`
}

type TimelineReport struct {
	Month     time.Time         `json:"month"`
	TotalDays int               `json:"total_days"`
	Projects  []TimelineProject `json:"projects"`
}

// Preference types
type UpdatePreferencesRequest struct {
	LastViewedPage string     `json:"last_viewed_page" validate:"omitempty,max=200"`
	LastProjectID  *uuid.UUID `json:"last_project_id"`
}

// Response types for common structures
type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
