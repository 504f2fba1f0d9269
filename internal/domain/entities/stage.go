package entities

// Stage is a task's position in the fixed seven-step delivery pipeline.
type Stage string

const (
	StageRequirement   Stage = "requirement"
	StageDesign        Stage = "design"
	StageCoding        Stage = "coding"
	StageReview        Stage = "review"
	StageTesting       Stage = "testing"
	StageDocumentation Stage = "documentation"
	StageCompleted     Stage = "completed"
)

// Pipeline is the authoritative stage order. Approval advances a task one
// position at a time; there is no path backwards.
var Pipeline = []Stage{
	StageRequirement,
	StageDesign,
	StageCoding,
	StageReview,
	StageTesting,
	StageDocumentation,
	StageCompleted,
}

// Progress is the kanban column a task visually occupies. It is stored
// independently of Stage: drag moves mutate Progress alone, so the two can
// drift apart (see Task.ProgressMatchesStage).
type Progress string

const (
	ProgressTodo       Progress = "todo"
	ProgressInProgress Progress = "inProgress"
	ProgressCompleted  Progress = "completed"
)

// DisplayBucket collapses the seven stages into the three labels the
// dashboard renders.
type DisplayBucket string

const (
	BucketTodo       DisplayBucket = "To Do"
	BucketInProgress DisplayBucket = "In Progress"
	BucketCompleted  DisplayBucket = "Completed"
)

func (s Stage) IsValid() bool {
	for _, v := range Pipeline {
		if s == v {
			return true
		}
	}
	return false
}

// Next returns the stage that follows s in the pipeline.
// The terminal stage has no successor.
func (s Stage) Next() (Stage, error) {
	if !s.IsValid() {
		return "", ErrUnknownStage
	}
	if s == StageCompleted {
		return "", ErrStageTerminal
	}
	for i, v := range Pipeline {
		if s == v {
			return Pipeline[i+1], nil
		}
	}
	return "", ErrUnknownStage
}

// IsTerminal reports whether s is the final pipeline stage.
func (s Stage) IsTerminal() bool {
	return s == StageCompleted
}

// Column returns the progress bucket a task at stage s should occupy.
// requirement maps to todo, completed to completed, everything in between to
// inProgress. Unknown stages degrade to inProgress so a bad row never breaks
// a board render; callers that care should check IsValid and log.
func (s Stage) Column() Progress {
	switch s {
	case StageRequirement:
		return ProgressTodo
	case StageCompleted:
		return ProgressCompleted
	default:
		return ProgressInProgress
	}
}

// Bucket returns the display label for s, with the same safe default as
// Column.
func (s Stage) Bucket() DisplayBucket {
	switch s {
	case StageRequirement:
		return BucketTodo
	case StageCompleted:
		return BucketCompleted
	default:
		return BucketInProgress
	}
}

func (p Progress) IsValid() bool {
	switch p {
	case ProgressTodo, ProgressInProgress, ProgressCompleted:
		return true
	default:
		return false
	}
}
