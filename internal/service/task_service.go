package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bitzerlab/ordertrack/internal/entity"
	"github.com/bitzerlab/ordertrack/internal/repository"
)

// TaskService manages timed work tasks.
type TaskService struct {
	taskRepo      *repository.TaskRepository
	operationRepo *repository.OperationRepository
	userRepo      *repository.UserRepository
}

func NewTaskService(
	taskRepo *repository.TaskRepository,
	operationRepo *repository.OperationRepository,
	userRepo *repository.UserRepository,
) *TaskService {
	return &TaskService{
		taskRepo:      taskRepo,
		operationRepo: operationRepo,
		userRepo:      userRepo,
	}
}

// CreateTaskRequest is the POST /operations/{id}/tasks body. Everything but
// the process type is optional at creation time.
type CreateTaskRequest struct {
	ProcessType    entity.ProcessType `json:"process_type"`
	OperatorUserID *int64             `json:"operator_user_id"`
	StartAt        *time.Time         `json:"start_at"`
	EndAt          *time.Time         `json:"end_at"`
	NumBenches     *int64             `json:"num_benches"`
	NumMachines    *int64             `json:"num_machines"`
	GoodPieces     *int64             `json:"good_pieces"`
	BadPieces      *int64             `json:"bad_pieces"`
	Notes          *string            `json:"notes"`
}

// UpdateTaskRequest is the PUT/PATCH body. The operator pair travels
// together: linking snapshots the personnel number, unlinking clears both.
// The edit dialog also sends start_at/end_at as a pair.
type UpdateTaskRequest struct {
	ProcessType    Nullable[entity.ProcessType] `json:"process_type"`
	OperatorUserID Nullable[int64]              `json:"operator_user_id"`
	StartAt        Nullable[time.Time]          `json:"start_at"`
	EndAt          Nullable[time.Time]          `json:"end_at"`
	NumBenches     Nullable[int64]              `json:"num_benches"`
	NumMachines    Nullable[int64]              `json:"num_machines"`
	GoodPieces     Nullable[int64]              `json:"good_pieces"`
	BadPieces      Nullable[int64]              `json:"bad_pieces"`
	Notes          Nullable[string]             `json:"notes"`
}

// Get returns one task by id.
func (s *TaskService) Get(ctx context.Context, id int64) (*entity.Task, error) {
	return s.taskRepo.FindByID(ctx, id)
}

// ListByOperation returns the tasks under an operation.
func (s *TaskService) ListByOperation(ctx context.Context, operationID int64) ([]entity.Task, error) {
	return s.taskRepo.ListByOperationID(ctx, operationID)
}

// Create validates and inserts a task under the given operation.
func (s *TaskService) Create(ctx context.Context, operationID int64, req *CreateTaskRequest) (*entity.Task, error) {
	if !req.ProcessType.Valid() {
		return nil, validationf("Invalid process type %q", req.ProcessType)
	}
	if _, err := s.operationRepo.FindByID(ctx, operationID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, validationf("Operation %d not found", operationID)
		}
		return nil, err
	}
	if err := checkTimestamps(req.StartAt, req.EndAt); err != nil {
		return nil, err
	}
	for _, count := range []*int64{req.NumBenches, req.NumMachines, req.GoodPieces, req.BadPieces} {
		if count != nil && *count < 0 {
			return nil, validationf("Counts cannot be negative")
		}
	}

	task := &entity.Task{
		OperationID: operationID,
		ProcessType: req.ProcessType,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
		NumBenches:  req.NumBenches,
		NumMachines: req.NumMachines,
		GoodPieces:  req.GoodPieces,
		BadPieces:   req.BadPieces,
	}

	if req.Notes != nil {
		notes, err := normalizeNotes(*req.Notes)
		if err != nil {
			return nil, err
		}
		task.Notes = notes
	}

	if req.OperatorUserID != nil {
		user, err := s.userRepo.FindByID(ctx, *req.OperatorUserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, validationf("Operator %d not found", *req.OperatorUserID)
			}
			return nil, err
		}
		task.OperatorUserID = &user.ID
		task.OperatorBitzerID = user.BitzerID
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return s.taskRepo.FindByID(ctx, task.ID)
}

// Update applies a field-level patch and returns the updated task.
func (s *TaskService) Update(ctx context.Context, id int64, req *UpdateTaskRequest) (*entity.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	values := map[string]interface{}{}

	if req.ProcessType.Set {
		if !req.ProcessType.Valid || !req.ProcessType.Value.Valid() {
			return nil, validationf("Invalid process type")
		}
		values["process_type"] = req.ProcessType.Value
	}

	if req.OperatorUserID.Set {
		if req.OperatorUserID.Valid {
			user, err := s.userRepo.FindByID(ctx, req.OperatorUserID.Value)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return nil, validationf("Operator %d not found", req.OperatorUserID.Value)
				}
				return nil, err
			}
			values["operator_user_id"] = user.ID
			values["operator_bitzer_id"] = user.BitzerID
		} else {
			values["operator_user_id"] = nil
			values["operator_bitzer_id"] = nil
		}
	}

	// Timestamp ordering is checked against the state the patch produces.
	start, end := task.StartAt, task.EndAt
	if req.StartAt.Set {
		start = req.StartAt.Ptr()
		values["start_at"] = start
	}
	if req.EndAt.Set {
		end = req.EndAt.Ptr()
		values["end_at"] = end
	}
	if err := checkTimestamps(start, end); err != nil {
		return nil, err
	}

	setCount := func(column string, field Nullable[int64]) error {
		if !field.Set {
			return nil
		}
		if field.Valid && field.Value < 0 {
			return validationf("Counts cannot be negative")
		}
		values[column] = field.Ptr()
		return nil
	}
	for column, field := range map[string]Nullable[int64]{
		"num_benches":  req.NumBenches,
		"num_machines": req.NumMachines,
		"good_pieces":  req.GoodPieces,
		"bad_pieces":   req.BadPieces,
	} {
		if err := setCount(column, field); err != nil {
			return nil, err
		}
	}

	if req.Notes.Set {
		if req.Notes.Valid {
			notes, err := normalizeNotes(req.Notes.Value)
			if err != nil {
				return nil, err
			}
			values["notes"] = notes
		} else {
			values["notes"] = nil
		}
	}

	if len(values) > 0 {
		if err := s.taskRepo.Updates(ctx, id, values); err != nil {
			return nil, fmt.Errorf("update task: %w", err)
		}
	}
	return s.taskRepo.FindByID(ctx, id)
}

func checkTimestamps(start, end *time.Time) error {
	if start == nil && end != nil {
		return validationf("End timestamp requires a start timestamp")
	}
	if start != nil && end != nil && end.Before(*start) {
		return validationf("End timestamp cannot be before start timestamp")
	}
	return nil
}

// normalizeNotes trims notes and maps empty text to null.
func normalizeNotes(raw string) (*string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	if len(trimmed) > entity.NotesMaxLen {
		return nil, validationf("Notes exceed %d characters", entity.NotesMaxLen)
	}
	return &trimmed, nil
}
