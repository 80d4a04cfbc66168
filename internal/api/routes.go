package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// RegisterRoutes attaches all routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"message": "Task Management System API"})
	})

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", s.Register)
	api.POST("/auth/login", s.Login)
	api.POST("/auth/seed", s.SeedUsers)

	// Everything below requires a valid token and a live user behind it.
	authed := api.Group("", middleware.JWTWithConfig(middleware.JWTConfig{
		SigningKey: s.secret,
	}), s.loadActor)

	authed.GET("/auth/profile", s.GetProfile)
	authed.PUT("/auth/profile", s.UpdateProfile)

	// Admin user management
	authed.GET("/auth/users", s.ListUsers, s.requireAdmin)
	authed.GET("/auth/users/:userId", s.GetUserByID, s.requireAdmin)
	authed.DELETE("/auth/users/:userId", s.RemoveUser, s.requireAdmin)
	authed.GET("/auth/users/:userId/tasks", s.GetUserTasks, s.requireAdmin)
	authed.POST("/auth/admin/register", s.AdminRegister, s.requireAdmin)

	tasks := authed.Group("/tasks")
	tasks.GET("", s.ListTasks)
	tasks.GET("/stats", s.TaskStats)
	tasks.GET("/users", s.TaskUsers)
	tasks.GET("/:id", s.GetTask)
	tasks.POST("", s.CreateTask)
	tasks.PATCH("/:id/status", s.UpdateTaskStatus)
	tasks.PUT("/:id", s.UpdateTask, s.requireAdmin)
	tasks.PATCH("/:id/assignee", s.UpdateTaskAssignee, s.requireAdmin)
	tasks.DELETE("/:id", s.DeleteTask, s.requireAdmin)

	projects := authed.Group("/projects")
	projects.GET("", s.ListProjects)
	projects.GET("/:id", s.GetProject)
	projects.POST("", s.CreateProject)
	projects.PUT("/:id", s.UpdateProject)
	projects.DELETE("/:id", s.DeleteProject, s.requireAdmin)
}
