// Package handler exposes the REST API. The wire contract is the one the
// legacy clients already speak: bare entity JSON on success, a
// {"detail": "..."} body on failure.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/bitzerlab/ordertrack/internal/repository"
	"github.com/bitzerlab/ordertrack/internal/service"
	"github.com/gin-gonic/gin"
)

// Handlers is the handler collection.
type Handlers struct {
	Order     *OrderHandler
	Operation *OperationHandler
	Task      *TaskHandler
	Machine   *MachineHandler
	User      *UserHandler
	Auth      *AuthHandler
	Admin     *AdminHandler
}

// NewHandlers creates the handler collection.
func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Order:     NewOrderHandler(svc.Order),
		Operation: NewOperationHandler(svc.Operation, svc.Task),
		Task:      NewTaskHandler(svc.Task),
		Machine:   NewMachineHandler(svc.Machine),
		User:      NewUserHandler(svc.User),
		Auth:      NewAuthHandler(svc.Auth),
		Admin:     NewAdminHandler(svc.Order, svc.Machine, svc.User),
	}
}

// Detail writes the error body the clients parse for a message.
func Detail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"detail": message})
}

// RespondError maps service errors onto the wire: validation failures are
// the caller's fault, missing records are 404, everything else is 500.
func RespondError(c *gin.Context, err error) {
	var ve service.ValidationError
	switch {
	case errors.As(err, &ve):
		Detail(c, http.StatusBadRequest, ve.Error())
	case errors.Is(err, repository.ErrNotFound):
		Detail(c, http.StatusNotFound, "Not found")
	default:
		Detail(c, http.StatusInternalServerError, err.Error())
	}
}

// PathID parses a numeric path parameter.
func PathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		Detail(c, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// GetUserID returns the authenticated user id from the context.
func GetUserID(c *gin.Context) int64 {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(int64); ok {
		return id
	}
	return 0
}
