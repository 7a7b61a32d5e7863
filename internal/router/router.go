package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/taskhive/backend/api/handler"
)

type Handlers struct {
	Auth    *apiHandler.AuthHandler
	Project *apiHandler.ProjectHandler
	Task    *apiHandler.TaskHandler
	Health  *apiHandler.HealthHandler
}

type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

func New(handlers Handlers, auth Middleware, loginLimit Middleware) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Credential endpoints (rate limited, unauthenticated)
	r.POST("/api/auth/register", loginLimit(handlers.Auth.Register))
	r.POST("/api/auth/login", loginLimit(handlers.Auth.Login))
	r.GET("/api/auth/profile", auth(handlers.Auth.Profile))

	// Projects
	r.GET("/api/projects", auth(handlers.Project.List))
	r.POST("/api/projects", auth(handlers.Project.Create))
	r.GET("/api/projects/{projectId}", auth(handlers.Project.Get))
	r.PUT("/api/projects/{projectId}", auth(handlers.Project.Update))
	r.DELETE("/api/projects/{projectId}", auth(handlers.Project.Delete))

	// Tasks, always nested under their project
	r.GET("/api/projects/{projectId}/tasks", auth(handlers.Task.List))
	r.POST("/api/projects/{projectId}/tasks", auth(handlers.Task.Create))
	r.GET("/api/projects/{projectId}/tasks/{taskId}", auth(handlers.Task.Get))
	r.PUT("/api/projects/{projectId}/tasks/{taskId}", auth(handlers.Task.Update))
	r.DELETE("/api/projects/{projectId}/tasks/{taskId}", auth(handlers.Task.Delete))

	return r
}
