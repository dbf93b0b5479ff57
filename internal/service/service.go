// Package service holds the business rules between the HTTP handlers and
// the repositories: validation, reference resolution, snapshotting and
// cache management.
package service

import (
	"fmt"

	"github.com/bitzerlab/ordertrack/internal/config"
	"github.com/bitzerlab/ordertrack/internal/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ValidationError marks errors the caller can fix: the handler layer maps
// them to 400 with the message as the detail body.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

func validationf(format string, args ...interface{}) error {
	return ValidationError(fmt.Sprintf(format, args...))
}

// Services is the service collection.
type Services struct {
	Order     *OrderService
	Operation *OperationService
	Task      *TaskService
	Machine   *MachineService
	User      *UserService
	Auth      *AuthService
}

// NewServices wires the services.
func NewServices(repos *repository.Repositories, rdb *redis.Client, cfg *config.Config, logger *zap.Logger) *Services {
	taskSvc := NewTaskService(repos.Task, repos.Operation, repos.User)
	return &Services{
		Order:     NewOrderService(repos.Order),
		Operation: NewOperationService(repos.Operation, repos.Order, repos.Machine, taskSvc),
		Task:      taskSvc,
		Machine:   NewMachineService(repos.Machine, rdb, logger),
		User:      NewUserService(repos.User),
		Auth:      NewAuthService(repos.User, cfg),
	}
}
