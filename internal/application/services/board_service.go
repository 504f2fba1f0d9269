package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/flowboard/core/internal/domain/entities"
	"github.com/flowboard/core/internal/infrastructure/logger"
	"github.com/flowboard/core/internal/ports"
)

// MoveOutcome describes how a move request ended.
type MoveOutcome string

const (
	// MoveApplied means the splice stuck and, for cross-column moves, the
	// new progress value was persisted.
	MoveApplied MoveOutcome = "applied"
	// MoveReverted means persistence failed and the board was restored
	// from its pre-move snapshot.
	MoveReverted MoveOutcome = "reverted"
	// MoveDiscarded means the board was reloaded while the write was in
	// flight, so the stale result was thrown away.
	MoveDiscarded MoveOutcome = "discarded"
)

// MoveResult is returned by MoveTask: the outcome plus the board as it
// stands after the move settled.
type MoveResult struct {
	Outcome MoveOutcome           `json:"outcome"`
	Columns entities.BoardColumns `json:"columns"`
}

// boardState is one project's live board: the column sequences plus an epoch
// counter bumped on every reload so in-flight writes can detect staleness.
type boardState struct {
	columns entities.BoardColumns
	epoch   uint64
}

// BoardService owns the in-memory kanban state, one board per project.
// Ordering within a column is session state; only the progress value of a
// task survives a restart. Cross-column moves are optimistic: the splice is
// applied immediately and rolled back if the progress write fails.
type BoardService struct {
	taskRepo ports.TaskRepository
	logger   *logger.Logger

	mu     sync.Mutex
	boards map[uuid.UUID]*boardState
}

// NewBoardService creates a new board service
func NewBoardService(taskRepo ports.TaskRepository, logger *logger.Logger) *BoardService {
	return &BoardService{
		taskRepo: taskRepo,
		logger:   logger,
		boards:   make(map[uuid.UUID]*boardState),
	}
}

// Load rebuilds a project's board from storage, bucketing tasks by their
// stored progress. Any in-flight move against the old board is invalidated.
func (s *BoardService) Load(ctx context.Context, projectID uuid.UUID) (entities.BoardColumns, error) {
	tasks, err := s.taskRepo.GetByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load board: %w", err)
	}

	for _, t := range tasks {
		if !t.ProgressMatchesStage() {
			s.logger.LogStageDrift(t.ID.String(), string(t.Stage), string(t.Progress))
		}
	}

	cols := entities.BucketTasks(tasks)

	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.boards[projectID]
	if !ok {
		state = &boardState{}
		s.boards[projectID] = state
	}
	state.columns = cols
	state.epoch++

	return cols.Snapshot(), nil
}

// MoveTask handles a drag between board positions.
//
// A same-column move only reorders the session sequence and touches nothing
// persistent. A cross-column move splices optimistically, then writes the
// new progress; if the write fails the snapshot is restored, and if the
// board was reloaded while the write was in flight the result is discarded.
// Stage is never changed by a move.
func (s *BoardService) MoveTask(ctx context.Context, projectID uuid.UUID, req ports.MoveTaskRequest) (*MoveResult, error) {
	s.mu.Lock()
	state, ok := s.boards[projectID]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("board not loaded for project %s", projectID)
	}

	col, idx, found := state.columns.Find(req.TaskID)
	if !found || col != req.From || idx != req.FromIndex {
		s.mu.Unlock()
		return nil, entities.ErrTaskNotInColumn
	}

	if req.From == req.To {
		err := state.columns.Reorder(req.From, req.FromIndex, req.ToIndex)
		cols := state.columns.Snapshot()
		s.mu.Unlock()
		if err != nil {
			return nil, err
		}
		return &MoveResult{Outcome: MoveApplied, Columns: cols}, nil
	}

	snapshot := state.columns.Snapshot()
	epoch := state.epoch

	task, err := state.columns.Transfer(req.From, req.FromIndex, req.To, req.ToIndex)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.mu.Unlock()

	writeErr := s.taskRepo.UpdateProgress(ctx, task.ID, req.To)

	s.mu.Lock()
	defer s.mu.Unlock()

	if state.epoch != epoch {
		// Board was reloaded mid-flight; the reload already reflects
		// whatever the write left behind.
		s.logger.Debug("Move result discarded after board reload", "task_id", task.ID, "project_id", projectID)
		return &MoveResult{Outcome: MoveDiscarded, Columns: state.columns.Snapshot()}, nil
	}

	if writeErr != nil {
		state.columns = snapshot
		task.Progress = req.From
		s.logger.Warn("Move persistence failed, board reverted",
			"error", writeErr, "task_id", task.ID, "from", req.From, "to", req.To)
		return &MoveResult{Outcome: MoveReverted, Columns: state.columns.Snapshot()}, nil
	}

	return &MoveResult{Outcome: MoveApplied, Columns: state.columns.Snapshot()}, nil
}

// DeleteTask removes a task from storage first, then from the board. The
// board is untouched when the delete fails.
func (s *BoardService) DeleteTask(ctx context.Context, projectID, taskID uuid.UUID) (entities.BoardColumns, error) {
	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.boards[projectID]
	if !ok {
		return entities.NewBoardColumns(), nil
	}

	state.columns.Remove(taskID)
	return state.columns.Snapshot(), nil
}

// Filter returns a filtered view of the loaded board. The underlying
// sequences are never mutated, so clearing the filter restores the full
// board as-is.
func (s *BoardService) Filter(projectID uuid.UUID, spec entities.TaskFilterSpec) (entities.BoardColumns, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.boards[projectID]
	if !ok {
		return nil, fmt.Errorf("board not loaded for project %s", projectID)
	}

	return state.columns.Apply(spec), nil
}

// Refresh replaces a single task's row in the loaded board after an
// out-of-band change (edit, approval). Column position is preserved when
// the progress did not change; otherwise the task is re-bucketed at the end
// of its new column.
func (s *BoardService) Refresh(projectID uuid.UUID, task *entities.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.boards[projectID]
	if !ok {
		return
	}

	col, idx, found := state.columns.Find(task.ID)
	if found && col == task.Progress {
		state.columns[col][idx] = task
		return
	}

	state.columns.Remove(task.ID)
	target := task.Progress
	if !target.IsValid() {
		target = entities.ProgressInProgress
	}
	state.columns[target] = append(state.columns[target], task)
}
