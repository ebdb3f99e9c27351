package http

import (
	"time"

	"github.com/labstack/echo/v4"

	"task-manager.com/task-manager/internal/clock"
	middleware "task-manager.com/task-manager/internal/http/middlewares"
)

func Register(e *echo.Echo, h *Handler, rateLimitPerMinute int) {
	e.Use(middleware.RateLimiter(rateLimitPerMinute, time.Minute, clock.RealClock{}))

	e.POST("/tasks", h.CreateTask)
	e.GET("/tasks", h.ListTasks)
	e.GET("/tasks/:id", h.GetTask)
	e.PATCH("/tasks/:id", h.UpdateTask)
	e.POST("/tasks/:id/complete", h.CompleteTask)
	e.DELETE("/tasks/:id", h.DeleteTask)

	e.GET("/stats", h.Stats)

	e.GET("/preferences", h.GetPreferences)
	e.PUT("/preferences", h.UpdatePreferences)

	e.GET("/reminders", h.ListReminders)
	e.GET("/reminders/stream", h.StreamReminders)
}
