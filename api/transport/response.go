package transport

import "github.com/tidylist/backend/domain"

// ErrorResponse is the user-facing failure payload. It never carries
// internal detail (stack traces, query text), only a display message.
type ErrorResponse struct {
	Error string `json:"error"`
}

// TodoListResponse is the payload for GET /todos.
type TodoListResponse struct {
	Todos []domain.Todo   `json:"todos"`
	User  domain.Identity `json:"user"`
}

// DashboardResponse is the payload for the authenticated landing page.
type DashboardResponse struct {
	Email string `json:"email"`
}

// LoginPageResponse is the placeholder body for the login form view;
// markup rendering is out of scope for this service.
type LoginPageResponse struct {
	Form string `json:"form"`
}
