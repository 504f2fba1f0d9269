package entities

import (
	"strings"

	"github.com/google/uuid"
)

// BoardColumns is the kanban board state: one ordered task sequence per
// progress column. Ordering within a column is drag position — session
// state only, never persisted.
type BoardColumns map[Progress][]*Task

// NewBoardColumns returns an empty board with all three columns present.
func NewBoardColumns() BoardColumns {
	return BoardColumns{
		ProgressTodo:       {},
		ProgressInProgress: {},
		ProgressCompleted:  {},
	}
}

// BucketTasks distributes tasks into columns by their stored progress value.
// A task with an unrecognized progress lands in inProgress, mirroring the
// display fallback for unknown stages.
func BucketTasks(tasks []*Task) BoardColumns {
	cols := NewBoardColumns()
	for _, t := range tasks {
		col := t.Progress
		if !col.IsValid() {
			col = ProgressInProgress
		}
		cols[col] = append(cols[col], t)
	}
	return cols
}

// Snapshot deep-copies the column structure (task pointers are shared; the
// sequences are not). Used to revert a failed cross-column move.
func (b BoardColumns) Snapshot() BoardColumns {
	cp := make(BoardColumns, len(b))
	for col, seq := range b {
		cp[col] = append([]*Task(nil), seq...)
	}
	return cp
}

// Find returns the column and index currently holding taskID.
func (b BoardColumns) Find(taskID uuid.UUID) (Progress, int, bool) {
	for col, seq := range b {
		for i, t := range seq {
			if t.ID == taskID {
				return col, i, true
			}
		}
	}
	return "", 0, false
}

// Remove deletes taskID from whichever column holds it.
func (b BoardColumns) Remove(taskID uuid.UUID) {
	for col, seq := range b {
		for i, t := range seq {
			if t.ID == taskID {
				b[col] = append(seq[:i:i], seq[i+1:]...)
				return
			}
		}
	}
}

// Reorder splices the task at fromIdx to toIdx within a single column.
func (b BoardColumns) Reorder(col Progress, fromIdx, toIdx int) error {
	seq, ok := b[col]
	if !ok {
		return ErrUnknownColumn
	}
	if fromIdx < 0 || fromIdx >= len(seq) {
		return ErrTaskNotInColumn
	}
	task := seq[fromIdx]
	seq = append(seq[:fromIdx:fromIdx], seq[fromIdx+1:]...)
	if toIdx < 0 {
		toIdx = 0
	}
	if toIdx > len(seq) {
		toIdx = len(seq)
	}
	seq = append(seq[:toIdx:toIdx], append([]*Task{task}, seq[toIdx:]...)...)
	b[col] = seq
	return nil
}

// Transfer removes the task at fromIdx in the source column and inserts it
// at toIdx in the destination column. The task's Progress field is updated
// to the destination; Stage is deliberately left alone.
func (b BoardColumns) Transfer(from Progress, fromIdx int, to Progress, toIdx int) (*Task, error) {
	src, ok := b[from]
	if !ok {
		return nil, ErrUnknownColumn
	}
	dst, ok := b[to]
	if !ok {
		return nil, ErrUnknownColumn
	}
	if fromIdx < 0 || fromIdx >= len(src) {
		return nil, ErrTaskNotInColumn
	}
	task := src[fromIdx]
	b[from] = append(src[:fromIdx:fromIdx], src[fromIdx+1:]...)
	if toIdx < 0 {
		toIdx = 0
	}
	if toIdx > len(dst) {
		toIdx = len(dst)
	}
	b[to] = append(dst[:toIdx:toIdx], append([]*Task{task}, dst[toIdx:]...)...)
	task.Progress = to
	return task, nil
}

// TaskFilterSpec is the read-side board filter: every zero-valued field
// matches all tasks. Search matches the task content case-insensitively.
type TaskFilterSpec struct {
	Stage    Stage
	Status   ReviewStatus
	Priority Priority
	Search   string
}

// Matches applies the filter conjunction from the board's filter bar.
func (f TaskFilterSpec) Matches(t *Task) bool {
	if f.Stage != "" && t.Stage != f.Stage {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.Search != "" && !containsFold(t.Content, f.Search) {
		return false
	}
	return true
}

// Apply returns a filtered copy of the columns, preserving order. The
// receiver is never mutated.
func (b BoardColumns) Apply(f TaskFilterSpec) BoardColumns {
	out := make(BoardColumns, len(b))
	for col, seq := range b {
		filtered := make([]*Task, 0, len(seq))
		for _, t := range seq {
			if f.Matches(t) {
				filtered = append(filtered, t)
			}
		}
		out[col] = filtered
	}
	return out
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
