package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bitzerlab/ordertrack/internal/entity"
	"github.com/bitzerlab/ordertrack/internal/repository"
)

// OperationService manages operations under orders.
type OperationService struct {
	operationRepo *repository.OperationRepository
	orderRepo     *repository.OrderRepository
	machineRepo   *repository.MachineRepository
	taskSvc       *TaskService
}

func NewOperationService(
	operationRepo *repository.OperationRepository,
	orderRepo *repository.OrderRepository,
	machineRepo *repository.MachineRepository,
	taskSvc *TaskService,
) *OperationService {
	return &OperationService{
		operationRepo: operationRepo,
		orderRepo:     orderRepo,
		machineRepo:   machineRepo,
		taskSvc:       taskSvc,
	}
}

// CreateOperationRequest is the POST /operations body. The client resolves
// the order number to an internal id before submitting.
type CreateOperationRequest struct {
	OrderID       int64  `json:"order_id"`
	OperationCode string `json:"operation_code"`
	MachineID     *int64 `json:"machine_id"`
}

// UpdateOperationRequest is the PATCH body; machine_id null clears the
// machine assignment ("no machine" is a valid state).
type UpdateOperationRequest struct {
	OperationCode Nullable[string] `json:"operation_code"`
	MachineID     Nullable[int64]  `json:"machine_id"`
}

// List returns all operations.
func (s *OperationService) List(ctx context.Context) ([]entity.Operation, error) {
	return s.operationRepo.List(ctx)
}

// Get returns one operation by id.
func (s *OperationService) Get(ctx context.Context, id int64) (*entity.Operation, error) {
	return s.operationRepo.FindByID(ctx, id)
}

// ListByOrderNumber returns the operations under the order with the given
// order number.
func (s *OperationService) ListByOrderNumber(ctx context.Context, orderNumber int64) ([]entity.Operation, error) {
	order, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	return s.operationRepo.ListByOrderID(ctx, order.ID)
}

// ResolveID maps (order_number, operation_code) to an operation id; the
// task dialog uses it when only human-friendly identifiers are at hand.
func (s *OperationService) ResolveID(ctx context.Context, orderNumber int64, operationCode string) (int64, error) {
	order, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return 0, err
	}
	operation, err := s.operationRepo.FindByOrderAndCode(ctx, order.ID, operationCode)
	if err != nil {
		return 0, err
	}
	return operation.ID, nil
}

// Create validates and inserts a new operation.
func (s *OperationService) Create(ctx context.Context, req *CreateOperationRequest) (*entity.Operation, error) {
	code := strings.TrimSpace(req.OperationCode)
	if code == "" {
		return nil, validationf("Operation code is required")
	}
	if req.OrderID <= 0 {
		return nil, validationf("Order id is required")
	}

	order, err := s.orderRepo.FindByID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, validationf("Order %d not found", req.OrderID)
		}
		return nil, err
	}

	if _, err := s.operationRepo.FindByOrderAndCode(ctx, order.ID, code); err == nil {
		return nil, validationf("Operation code already exists for this order")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if req.MachineID != nil {
		if _, err := s.machineRepo.FindByID(ctx, *req.MachineID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, validationf("Machine %d not found", *req.MachineID)
			}
			return nil, err
		}
	}

	operation := &entity.Operation{
		OrderID:       order.ID,
		OperationCode: code,
		MachineID:     req.MachineID,
	}
	if err := s.operationRepo.Create(ctx, operation); err != nil {
		return nil, fmt.Errorf("create operation: %w", err)
	}
	return s.operationRepo.FindByID(ctx, operation.ID)
}

// Update applies a field-level patch and returns the updated operation.
func (s *OperationService) Update(ctx context.Context, id int64, req *UpdateOperationRequest) (*entity.Operation, error) {
	operation, err := s.operationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	values := map[string]interface{}{}

	if req.OperationCode.Set {
		if !req.OperationCode.Valid || strings.TrimSpace(req.OperationCode.Value) == "" {
			return nil, validationf("Operation code is required")
		}
		code := strings.TrimSpace(req.OperationCode.Value)
		if code != operation.OperationCode {
			if _, err := s.operationRepo.FindByOrderAndCode(ctx, operation.OrderID, code); err == nil {
				return nil, validationf("Operation code already exists for this order")
			} else if !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
		}
		values["operation_code"] = code
	}

	if req.MachineID.Set {
		if req.MachineID.Valid {
			if _, err := s.machineRepo.FindByID(ctx, req.MachineID.Value); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return nil, validationf("Machine %d not found", req.MachineID.Value)
				}
				return nil, err
			}
			values["machine_id"] = req.MachineID.Value
		} else {
			values["machine_id"] = nil
		}
	}

	if len(values) > 0 {
		if err := s.operationRepo.Updates(ctx, id, values); err != nil {
			return nil, fmt.Errorf("update operation: %w", err)
		}
	}
	return s.operationRepo.FindByID(ctx, id)
}

// Pieces returns the good/bad piece totals over the operation's tasks.
func (s *OperationService) Pieces(ctx context.Context, id int64) (*entity.PieceSummary, error) {
	if _, err := s.operationRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return s.operationRepo.PieceSummary(ctx, id)
}

// ListTasks returns the tasks logged against an operation.
func (s *OperationService) ListTasks(ctx context.Context, id int64) ([]entity.Task, error) {
	if _, err := s.operationRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return s.taskSvc.ListByOperation(ctx, id)
}
