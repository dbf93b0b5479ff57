package handler

import (
	"github.com/bitzerlab/ordertrack/internal/middleware"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the API. The public surface is intentionally open:
// the auth stub only gates /auth/me and the /admin subtree. Singular
// /operation/{id} and /task/{id} are legacy aliases older client revisions
// still call; they serve the same handlers as the plural paths.
func RegisterRoutes(r *gin.Engine, h *Handlers, jwtSecret string) {
	r.GET("/orders", h.Order.List)
	r.POST("/orders", h.Order.Create)
	r.GET("/orders/:ref", h.Order.Get)
	r.PATCH("/orders/:ref", h.Order.Update)
	r.GET("/orders/:ref/operations", h.Operation.ListByOrder)

	r.GET("/operations", h.Operation.List)
	r.POST("/operations", h.Operation.Create)
	r.GET("/operations/get_id", h.Operation.ResolveID)
	r.GET("/operations/:id", h.Operation.Get)
	r.PATCH("/operations/:id", h.Operation.Update)
	r.GET("/operations/:id/pieces", h.Operation.Pieces)
	r.GET("/operations/:id/tasks", h.Operation.ListTasks)
	r.POST("/operations/:id/tasks", h.Operation.CreateTask)
	r.GET("/operation/:id", h.Operation.Get)

	r.GET("/tasks/:id", h.Task.Get)
	r.PUT("/tasks/:id", h.Task.Update)
	r.PATCH("/tasks/:id", h.Task.Update)
	r.GET("/task/:id", h.Task.Get)

	r.GET("/machines", h.Machine.List)
	r.GET("/machines/:id", h.Machine.Get)

	r.GET("/users", h.User.List)

	auth := r.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.GET("/me", middleware.JWTAuth(jwtSecret), h.Auth.Me)
		auth.POST("/logout", middleware.JWTAuth(jwtSecret), h.Auth.Logout)
	}

	admin := r.Group("/admin", middleware.JWTAuth(jwtSecret), middleware.RequireAdmin())
	{
		admin.GET("/users", h.Admin.ListUsers)
		admin.POST("/users", h.Admin.CreateUser)
		admin.PATCH("/users/:id", h.Admin.UpdateUser)
		admin.PATCH("/machines/:id", h.Admin.UpdateMachine)
		admin.POST("/machines/import", h.Admin.ImportMachines)
		admin.GET("/export/orders", h.Admin.ExportOrders)
	}
}
