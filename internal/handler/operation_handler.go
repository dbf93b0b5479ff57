package handler

import (
	"net/http"
	"strconv"

	"github.com/bitzerlab/ordertrack/internal/service"
	"github.com/gin-gonic/gin"
)

// OperationHandler serves the /operations endpoints, including the task
// sub-collection.
type OperationHandler struct {
	svc     *service.OperationService
	taskSvc *service.TaskService
}

func NewOperationHandler(svc *service.OperationService, taskSvc *service.TaskService) *OperationHandler {
	return &OperationHandler{svc: svc, taskSvc: taskSvc}
}

// List handles GET /operations.
func (h *OperationHandler) List(c *gin.Context) {
	operations, err := h.svc.List(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, operations)
}

// Get handles GET /operations/{id} and the legacy GET /operation/{id}.
func (h *OperationHandler) Get(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	operation, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, operation)
}

// ListByOrder handles GET /orders/{order_number}/operations.
func (h *OperationHandler) ListByOrder(c *gin.Context) {
	orderNumber, ok := PathID(c, "ref")
	if !ok {
		return
	}
	operations, err := h.svc.ListByOrderNumber(c.Request.Context(), orderNumber)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, operations)
}

// ResolveID handles GET /operations/get_id?order_number=&operation_code=.
func (h *OperationHandler) ResolveID(c *gin.Context) {
	orderNumber, err := strconv.ParseInt(c.Query("order_number"), 10, 64)
	if err != nil || orderNumber <= 0 {
		Detail(c, http.StatusBadRequest, "Invalid order_number")
		return
	}
	code := c.Query("operation_code")
	if code == "" {
		Detail(c, http.StatusBadRequest, "operation_code is required")
		return
	}

	id, err := h.svc.ResolveID(c.Request.Context(), orderNumber, code)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

// Create handles POST /operations.
func (h *OperationHandler) Create(c *gin.Context) {
	var req service.CreateOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Detail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	operation, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, operation)
}

// Update handles PATCH /operations/{id}.
func (h *OperationHandler) Update(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}

	var req service.UpdateOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Detail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	operation, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, operation)
}

// Pieces handles GET /operations/{id}/pieces.
func (h *OperationHandler) Pieces(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	summary, err := h.svc.Pieces(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ListTasks handles GET /operations/{id}/tasks.
func (h *OperationHandler) ListTasks(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	tasks, err := h.svc.ListTasks(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// CreateTask handles POST /operations/{id}/tasks.
func (h *OperationHandler) CreateTask(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}

	var req service.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Detail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	task, err := h.taskSvc.Create(c.Request.Context(), id, &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}
