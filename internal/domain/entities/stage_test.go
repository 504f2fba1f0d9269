package entities

import (
	"errors"
	"testing"
)

func TestStageNext(t *testing.T) {
	tests := []struct {
		name    string
		stage   Stage
		want    Stage
		wantErr error
	}{
		{"requirement advances to design", StageRequirement, StageDesign, nil},
		{"design advances to coding", StageDesign, StageCoding, nil},
		{"coding advances to review", StageCoding, StageReview, nil},
		{"review advances to testing", StageReview, StageTesting, nil},
		{"testing advances to documentation", StageTesting, StageDocumentation, nil},
		{"documentation advances to completed", StageDocumentation, StageCompleted, nil},
		{"completed has no successor", StageCompleted, "", ErrStageTerminal},
		{"unknown stage", Stage("shipping"), "", ErrUnknownStage},
		{"empty stage", Stage(""), "", ErrUnknownStage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.stage.Next()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Next() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Next() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStageNextCoversWholePipeline(t *testing.T) {
	// Walking the pipeline from the first stage must visit every stage
	// exactly once and terminate.
	visited := map[Stage]bool{}
	s := Pipeline[0]
	visited[s] = true

	for !s.IsTerminal() {
		next, err := s.Next()
		if err != nil {
			t.Fatalf("Next(%q) error = %v", s, err)
		}
		if visited[next] {
			t.Fatalf("stage %q visited twice", next)
		}
		visited[next] = true
		s = next
	}

	if len(visited) != len(Pipeline) {
		t.Errorf("walk visited %d stages, want %d", len(visited), len(Pipeline))
	}
}

func TestStageColumn(t *testing.T) {
	tests := []struct {
		stage Stage
		want  Progress
	}{
		{StageRequirement, ProgressTodo},
		{StageDesign, ProgressInProgress},
		{StageCoding, ProgressInProgress},
		{StageReview, ProgressInProgress},
		{StageTesting, ProgressInProgress},
		{StageDocumentation, ProgressInProgress},
		{StageCompleted, ProgressCompleted},
		{Stage("garbage"), ProgressInProgress},
	}

	for _, tt := range tests {
		if got := tt.stage.Column(); got != tt.want {
			t.Errorf("Column(%q) = %q, want %q", tt.stage, got, tt.want)
		}
	}
}

func TestStageBucket(t *testing.T) {
	tests := []struct {
		stage Stage
		want  DisplayBucket
	}{
		{StageRequirement, BucketTodo},
		{StageCoding, BucketInProgress},
		{StageCompleted, BucketCompleted},
		{Stage("garbage"), BucketInProgress},
	}

	for _, tt := range tests {
		if got := tt.stage.Bucket(); got != tt.want {
			t.Errorf("Bucket(%q) = %q, want %q", tt.stage, got, tt.want)
		}
	}
}

func TestNewTaskStartingState(t *testing.T) {
	task, err := NewTask(mustUUID(t), "Write the kickoff doc")
	if err != nil {
		t.Fatalf("NewTask() error = %v", err)
	}

	if task.Stage != StageRequirement {
		t.Errorf("Stage = %q, want %q", task.Stage, StageRequirement)
	}
	if task.Progress != ProgressTodo {
		t.Errorf("Progress = %q, want %q", task.Progress, ProgressTodo)
	}
	if task.Status != ReviewPending {
		t.Errorf("Status = %q, want %q", task.Status, ReviewPending)
	}
}

func TestNewTaskRejectsBlankTitle(t *testing.T) {
	for _, content := range []string{"", "   ", "\t\n"} {
		if _, err := NewTask(mustUUID(t), content); !errors.Is(err, ErrEmptyTitle) {
			t.Errorf("NewTask(%q) error = %v, want ErrEmptyTitle", content, err)
		}
	}
}

func TestMarkEditedResetsReview(t *testing.T) {
	task, err := NewTask(mustUUID(t), "Fix the login flow")
	if err != nil {
		t.Fatal(err)
	}
	task.Stage = StageCoding
	task.Status = ReviewRejected
	comment := "needs error handling"
	task.RejectionComment = &comment

	task.MarkEdited()

	if task.Status != ReviewPending {
		t.Errorf("Status = %q, want pending", task.Status)
	}
	if task.RejectionComment != nil {
		t.Error("RejectionComment not cleared")
	}
	if task.Stage != StageCoding {
		t.Errorf("Stage = %q, edit must not touch stage", task.Stage)
	}
}
