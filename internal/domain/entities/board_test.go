package entities

import (
	"testing"

	"github.com/google/uuid"
)

func mustUUID(t *testing.T) uuid.UUID {
	t.Helper()
	return uuid.New()
}

func makeTask(t *testing.T, content string, progress Progress) *Task {
	t.Helper()
	task, err := NewTask(uuid.New(), content)
	if err != nil {
		t.Fatal(err)
	}
	task.Progress = progress
	return task
}

func TestBucketTasks(t *testing.T) {
	a := makeTask(t, "a", ProgressTodo)
	b := makeTask(t, "b", ProgressInProgress)
	c := makeTask(t, "c", ProgressCompleted)
	d := makeTask(t, "d", Progress("bogus"))

	cols := BucketTasks([]*Task{a, b, c, d})

	if len(cols[ProgressTodo]) != 1 || cols[ProgressTodo][0] != a {
		t.Errorf("todo column = %v", cols[ProgressTodo])
	}
	if len(cols[ProgressInProgress]) != 2 {
		t.Errorf("inProgress column should hold b plus the bogus-progress task, got %d", len(cols[ProgressInProgress]))
	}
	if len(cols[ProgressCompleted]) != 1 || cols[ProgressCompleted][0] != c {
		t.Errorf("completed column = %v", cols[ProgressCompleted])
	}
}

func TestReorderWithinColumn(t *testing.T) {
	a := makeTask(t, "a", ProgressTodo)
	b := makeTask(t, "b", ProgressTodo)
	c := makeTask(t, "c", ProgressTodo)
	cols := BucketTasks([]*Task{a, b, c})

	if err := cols.Reorder(ProgressTodo, 0, 2); err != nil {
		t.Fatalf("Reorder() error = %v", err)
	}

	got := cols[ProgressTodo]
	want := []*Task{b, c, a}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d = %q, want %q", i, got[i].Content, want[i].Content)
		}
	}

	// Reorder never changes progress values.
	for _, task := range got {
		if task.Progress != ProgressTodo {
			t.Errorf("task %q progress = %q after reorder", task.Content, task.Progress)
		}
	}
}

func TestReorderClampsTargetIndex(t *testing.T) {
	a := makeTask(t, "a", ProgressTodo)
	b := makeTask(t, "b", ProgressTodo)
	cols := BucketTasks([]*Task{a, b})

	if err := cols.Reorder(ProgressTodo, 0, 99); err != nil {
		t.Fatalf("Reorder() error = %v", err)
	}
	if cols[ProgressTodo][1] != a {
		t.Error("out-of-range target should clamp to end of column")
	}
}

func TestTransferUpdatesProgressNotStage(t *testing.T) {
	a := makeTask(t, "a", ProgressTodo)
	a.Stage = StageRequirement
	cols := BucketTasks([]*Task{a})

	moved, err := cols.Transfer(ProgressTodo, 0, ProgressInProgress, 0)
	if err != nil {
		t.Fatalf("Transfer() error = %v", err)
	}

	if moved.Progress != ProgressInProgress {
		t.Errorf("Progress = %q, want inProgress", moved.Progress)
	}
	if moved.Stage != StageRequirement {
		t.Errorf("Stage = %q, drag must not advance the pipeline", moved.Stage)
	}
	if len(cols[ProgressTodo]) != 0 {
		t.Error("task still present in source column")
	}
	if len(cols[ProgressInProgress]) != 1 {
		t.Error("task missing from destination column")
	}
}

func TestTransferUnknownColumn(t *testing.T) {
	cols := NewBoardColumns()
	if _, err := cols.Transfer(Progress("nope"), 0, ProgressTodo, 0); err != ErrUnknownColumn {
		t.Errorf("error = %v, want ErrUnknownColumn", err)
	}
}

func TestSnapshotRevertRoundTrip(t *testing.T) {
	a := makeTask(t, "a", ProgressTodo)
	b := makeTask(t, "b", ProgressTodo)
	c := makeTask(t, "c", ProgressInProgress)
	cols := BucketTasks([]*Task{a, b, c})

	snapshot := cols.Snapshot()

	if _, err := cols.Transfer(ProgressTodo, 1, ProgressCompleted, 0); err != nil {
		t.Fatal(err)
	}

	// Revert: the snapshot sequences are intact.
	if len(snapshot[ProgressTodo]) != 2 {
		t.Fatalf("snapshot todo column mutated, len = %d", len(snapshot[ProgressTodo]))
	}
	if len(snapshot[ProgressCompleted]) != 0 {
		t.Fatalf("snapshot completed column mutated, len = %d", len(snapshot[ProgressCompleted]))
	}
	if snapshot[ProgressTodo][1] != b {
		t.Error("snapshot lost task ordering")
	}
}

func TestFindAndRemove(t *testing.T) {
	a := makeTask(t, "a", ProgressTodo)
	b := makeTask(t, "b", ProgressCompleted)
	cols := BucketTasks([]*Task{a, b})

	col, idx, ok := cols.Find(b.ID)
	if !ok || col != ProgressCompleted || idx != 0 {
		t.Fatalf("Find() = (%q, %d, %v)", col, idx, ok)
	}

	cols.Remove(b.ID)
	if _, _, ok := cols.Find(b.ID); ok {
		t.Error("task still findable after Remove")
	}

	if _, _, ok := cols.Find(uuid.New()); ok {
		t.Error("Find returned true for unknown id")
	}
}

func TestFilterMatches(t *testing.T) {
	task := makeTask(t, "Implement OAuth Login", ProgressInProgress)
	task.Stage = StageCoding
	task.Status = ReviewPending
	task.Priority = PriorityHigh

	tests := []struct {
		name   string
		filter TaskFilterSpec
		want   bool
	}{
		{"empty filter matches everything", TaskFilterSpec{}, true},
		{"stage match", TaskFilterSpec{Stage: StageCoding}, true},
		{"stage mismatch", TaskFilterSpec{Stage: StageDesign}, false},
		{"status match", TaskFilterSpec{Status: ReviewPending}, true},
		{"priority mismatch", TaskFilterSpec{Priority: PriorityLow}, false},
		{"search is case-insensitive", TaskFilterSpec{Search: "oauth"}, true},
		{"search mismatch", TaskFilterSpec{Search: "billing"}, false},
		{"all criteria AND together", TaskFilterSpec{Stage: StageCoding, Status: ReviewPending, Priority: PriorityHigh, Search: "login"}, true},
		{"one failing criterion fails the conjunction", TaskFilterSpec{Stage: StageCoding, Status: ReviewApproved}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(task); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterApplyDoesNotMutate(t *testing.T) {
	a := makeTask(t, "alpha", ProgressTodo)
	b := makeTask(t, "beta", ProgressTodo)
	cols := BucketTasks([]*Task{a, b})

	filtered := cols.Apply(TaskFilterSpec{Search: "alpha"})

	if len(filtered[ProgressTodo]) != 1 || filtered[ProgressTodo][0] != a {
		t.Errorf("filtered todo column = %v", filtered[ProgressTodo])
	}
	if len(cols[ProgressTodo]) != 2 {
		t.Error("Apply mutated the receiver")
	}

	// Clearing the filter restores the full board.
	restored := cols.Apply(TaskFilterSpec{})
	if len(restored[ProgressTodo]) != 2 {
		t.Error("empty filter did not restore full column")
	}
}
