package handler

import (
	"net/http"

	"github.com/bitzerlab/ordertrack/internal/service"
	"github.com/gin-gonic/gin"
)

// MachineHandler serves the /machines endpoints.
type MachineHandler struct {
	svc *service.MachineService
}

func NewMachineHandler(svc *service.MachineService) *MachineHandler {
	return &MachineHandler{svc: svc}
}

// List handles GET /machines, optionally filtered with ?active=true.
func (h *MachineHandler) List(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	machines, err := h.svc.List(c.Request.Context(), activeOnly)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, machines)
}

// Get handles GET /machines/{id}.
func (h *MachineHandler) Get(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	machine, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, machine)
}
