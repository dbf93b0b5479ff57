// Package repository wraps gorm access to the order tracking tables.
package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories is the repository collection wired from one gorm handle.
type Repositories struct {
	Order     *OrderRepository
	Operation *OperationRepository
	Task      *TaskRepository
	Machine   *MachineRepository
	User      *UserRepository
}

// NewRepositories creates the repository collection.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Order:     NewOrderRepository(db),
		Operation: NewOperationRepository(db),
		Task:      NewTaskRepository(db),
		Machine:   NewMachineRepository(db),
		User:      NewUserRepository(db),
	}
}
