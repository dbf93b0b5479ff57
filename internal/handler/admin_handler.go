package handler

import (
	"net/http"

	"github.com/bitzerlab/ordertrack/internal/service"
	"github.com/gin-gonic/gin"
)

// AdminHandler serves the admin-only subtree: user management, machine
// import and the orders export.
type AdminHandler struct {
	orderSvc   *service.OrderService
	machineSvc *service.MachineService
	userSvc    *service.UserService
}

func NewAdminHandler(orderSvc *service.OrderService, machineSvc *service.MachineService, userSvc *service.UserService) *AdminHandler {
	return &AdminHandler{orderSvc: orderSvc, machineSvc: machineSvc, userSvc: userSvc}
}

// ListUsers handles GET /admin/users (includes inactive accounts).
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.userSvc.List(c.Request.Context(), false)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// CreateUser handles POST /admin/users.
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Detail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.userSvc.Create(c.Request.Context(), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// UpdateUser handles PATCH /admin/users/{id}.
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}

	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Detail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.userSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateMachine handles PATCH /admin/machines/{id}.
func (h *AdminHandler) UpdateMachine(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}

	var req service.UpdateMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Detail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	machine, err := h.machineSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, machine)
}

// ImportMachines handles POST /admin/machines/import with a CSV file part.
func (h *AdminHandler) ImportMachines(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		Detail(c, http.StatusBadRequest, "Missing file upload")
		return
	}
	defer file.Close()

	result, err := h.machineSvc.ImportCSV(c.Request.Context(), file)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ExportOrders handles GET /admin/export/orders and streams an xlsx file.
func (h *AdminHandler) ExportOrders(c *gin.Context) {
	f, filename, err := h.orderSvc.Export(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := f.Write(c.Writer); err != nil {
		// Headers are gone at this point; just note it.
		c.Error(err)
	}
}
