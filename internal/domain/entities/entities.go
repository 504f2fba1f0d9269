package entities

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Common errors
var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrUnknownStage    = errors.New("unknown stage")
	ErrUnknownColumn   = errors.New("unknown board column")
	ErrStageTerminal   = errors.New("stage is terminal")
	ErrEmptyComment    = errors.New("rejection comment must not be empty")
	ErrEmptyTitle      = errors.New("task title must not be empty")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrProjectArchived = errors.New("project is archived")
	ErrUserInactive    = errors.New("user account is not active")
	ErrTaskNotInColumn = errors.New("task not found in column")
)

// ReviewStatus is the outcome of the most recent admin review of a task's
// current stage.
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleStaff UserRole = "staff"
)

// UserStatus is the account lifecycle state. Sign-up creates a pending
// account; an admin activates or deactivates it.
type UserStatus string

const (
	UserStatusPending  UserStatus = "pending"
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// Task is the central entity of the workflow board.
//
// Stage is the authoritative pipeline position; Progress is the column the
// task renders in. The expected correspondence (Stage.Column() == Progress)
// is a soft invariant only: drag moves update Progress without touching
// Stage, which is intentional product behavior (parking a task visually
// without advancing its review stage).
type Task struct {
	ID               uuid.UUID      `json:"id" db:"id"`
	ProjectID        uuid.UUID      `json:"project_id" db:"project_id"`
	Content          string         `json:"content" db:"content"`
	Description      string         `json:"description" db:"description"`
	Priority         Priority       `json:"priority" db:"priority"`
	DueDate          *time.Time     `json:"due_date" db:"due_date"`
	AssignedTo       pq.StringArray `json:"assigned_to" db:"assigned_to"`
	FileLinks        pq.StringArray `json:"file_links" db:"file_links"`
	Stage            Stage          `json:"stage" db:"stage"`
	Progress         Progress       `json:"progress" db:"progress"`
	Status           ReviewStatus   `json:"status" db:"status"`
	RejectionComment *string        `json:"rejection_comment" db:"rejection_comment"`
	CreatedAt        time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at" db:"updated_at"`
}

// Project groups tasks. Projects are never hard-deleted; archiving hides
// them from active listings.
type Project struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	IsArchived  bool      `json:"is_archived" db:"is_archived"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Address holds the nested postal fields of a staff record. Columns are
// selected as "address.street" etc so sqlx fills the nested struct.
type Address struct {
	Street  string `json:"street" db:"street"`
	City    string `json:"city" db:"city"`
	State   string `json:"state" db:"state"`
	Country string `json:"country" db:"country"`
	Zipcode string `json:"zipcode" db:"zipcode"`
}

// User is a staff record. The ID is shared with the auth identity.
type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	FirstName    string     `json:"first_name" db:"first_name"`
	LastName     string     `json:"last_name" db:"last_name"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Phone        string     `json:"phone" db:"phone"`
	Address      Address    `json:"address" db:"address"`
	Role         UserRole   `json:"role" db:"role"`
	Designation  string     `json:"designation" db:"designation"`
	Status       UserStatus `json:"status" db:"status"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// NewTask builds a task in its creation-form state: stage forced to
// requirement, progress to todo, review status to pending.
func NewTask(projectID uuid.UUID, content string) (*Task, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyTitle
	}
	now := time.Now()
	return &Task{
		ID:         uuid.New(),
		ProjectID:  projectID,
		Content:    content,
		Priority:   PriorityMedium,
		AssignedTo: pq.StringArray{},
		FileLinks:  pq.StringArray{},
		Stage:      StageRequirement,
		Progress:   ProgressTodo,
		Status:     ReviewPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// ProgressMatchesStage reports whether the stored progress column matches
// the one the stage implies. A mismatch is not an error, only drift worth
// logging.
func (t *Task) ProgressMatchesStage() bool {
	return t.Progress == t.Stage.Column()
}

// IsOverdue reports whether the due date has passed and the task is not done.
func (t *Task) IsOverdue() bool {
	if t.DueDate == nil {
		return false
	}
	return time.Now().After(*t.DueDate) && t.Stage != StageCompleted
}

// IsDueSoon reports whether the due date falls within the next seven days
// and the task is not already overdue.
func (t *Task) IsDueSoon() bool {
	if t.DueDate == nil || t.IsOverdue() {
		return false
	}
	return t.DueDate.Before(time.Now().AddDate(0, 0, 7))
}

// MarkEdited resets the review status after a content edit. Stage is never
// touched by an edit; a rejected task goes back to pending so it can be
// re-reviewed.
func (t *Task) MarkEdited() {
	t.Status = ReviewPending
	t.RejectionComment = nil
	t.UpdatedAt = time.Now()
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

func (s ReviewStatus) IsValid() bool {
	switch s {
	case ReviewPending, ReviewApproved, ReviewRejected:
		return true
	default:
		return false
	}
}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

func (r UserRole) IsValid() bool {
	return r == UserRoleAdmin || r == UserRoleStaff
}

func (s UserStatus) IsValid() bool {
	switch s {
	case UserStatusPending, UserStatusActive, UserStatusInactive:
		return true
	default:
		return false
	}
}
