package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/tidylist/backend/api/handler"
)

type Handlers struct {
	Auth   *apiHandler.AuthHandler
	Todo   *apiHandler.TodoHandler
	Health *apiHandler.HealthHandler
}

// Middleware aliases a fasthttp handler wrapper.
type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

// New wires the HTTP surface. Every todo and dashboard route sits
// behind the session guard; the login page carries the inverse guard.
func New(handlers Handlers, guard, loginGuard Middleware) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	r.GET("/login", loginGuard(handlers.Auth.LoginPage))
	r.POST("/login", handlers.Auth.Login)

	r.GET("/dashboard", guard(handlers.Auth.Dashboard))
	r.POST("/dashboard", guard(handlers.Auth.Logout))

	r.GET("/todos", guard(handlers.Todo.List))
	r.POST("/todos", guard(handlers.Todo.Create))
	r.POST("/todo/delete/{id}", guard(handlers.Todo.Delete))

	return r
}
