package handler

import (
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/tidylist/backend/api/transport"
	"github.com/tidylist/backend/domain"
	"github.com/tidylist/backend/internal/middleware"
	"github.com/tidylist/backend/pkg/httpcontext"
	todoUC "github.com/tidylist/backend/usecase/todo"
)

const todosPath = "/todos"

type TodoHandler struct {
	baseHandler
	uc *todoUC.UseCase
}

func NewTodoHandler(uc *todoUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TodoHandler {
	return &TodoHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// List serves GET /todos behind the guard: the caller's todos, newest
// first, together with the identity the view renders for.
func (h *TodoHandler) List(ctx *fasthttp.RequestCtx) {
	identity, ok := middleware.IdentityFromRequest(ctx)
	if !ok {
		middleware.Redirect(ctx, middleware.LoginPath)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	todos, err := h.uc.List(stdCtx, identity)
	if err != nil {
		h.respondFailure(ctx, err)
		return
	}
	if todos == nil {
		todos = []domain.Todo{}
	}

	h.respondJSON(ctx, http.StatusOK, transport.TodoListResponse{
		Todos: todos,
		User:  *identity,
	})
}

// Create serves POST /todos: validate the submitted title and redirect
// back to the list on success.
func (h *TodoHandler) Create(ctx *fasthttp.RequestCtx) {
	identity, ok := middleware.IdentityFromRequest(ctx)
	if !ok {
		middleware.Redirect(ctx, middleware.LoginPath)
		return
	}

	title := transport.ParseTodoForm(ctx)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if _, err := h.uc.Create(stdCtx, identity, title); err != nil {
		h.respondFailure(ctx, err)
		return
	}

	middleware.Redirect(ctx, todosPath)
}

// Delete serves POST /todo/delete/{id}. A todo owned by another user is
// reported exactly like a missing one.
func (h *TodoHandler) Delete(ctx *fasthttp.RequestCtx) {
	identity, ok := middleware.IdentityFromRequest(ctx)
	if !ok {
		middleware.Redirect(ctx, middleware.LoginPath)
		return
	}

	raw, _ := ctx.UserValue("id").(string)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.respondFailure(ctx, domain.ErrTodoNotFound)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Delete(stdCtx, identity, id); err != nil {
		h.respondFailure(ctx, err)
		return
	}

	middleware.Redirect(ctx, todosPath)
}
