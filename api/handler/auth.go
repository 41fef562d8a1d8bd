package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/tidylist/backend/api/transport"
	"github.com/tidylist/backend/internal/middleware"
	"github.com/tidylist/backend/internal/session"
	"github.com/tidylist/backend/pkg/httpcontext"
	authUC "github.com/tidylist/backend/usecase/auth"
)

const dashboardPath = "/dashboard"

type AuthHandler struct {
	baseHandler
	uc       *authUC.UseCase
	sessions *session.Store
}

func NewAuthHandler(uc *authUC.UseCase, sessions *session.Store, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		sessions:    sessions,
	}
}

// LoginPage serves GET /login. The authenticated-visitor redirect is
// handled by the inverse guard in front of this handler.
func (h *AuthHandler) LoginPage(ctx *fasthttp.RequestCtx) {
	h.respondJSON(ctx, http.StatusOK, transport.LoginPageResponse{Form: "login"})
}

// Login serves POST /login: delegate credentials to the identity
// provider, bind the verified identity into a freshly committed session
// cookie, and send the browser to the dashboard. On failure no cookie
// is set and the provider's message is returned as {error}.
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	req := transport.ParseLoginForm(ctx)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	identity, err := h.uc.SignIn(stdCtx, req.Email, req.Password)
	if err != nil {
		h.respondFailure(ctx, err)
		return
	}

	sess := h.sessions.Load(ctx)
	sess.SetUser(*identity)
	if err := h.sessions.Commit(ctx, sess); err != nil {
		h.logger.Error("session commit failed", zap.Error(err))
		h.respondFailure(ctx, err)
		return
	}

	middleware.Redirect(ctx, dashboardPath)
}

// Dashboard serves GET /dashboard behind the guard.
func (h *AuthHandler) Dashboard(ctx *fasthttp.RequestCtx) {
	identity, ok := middleware.IdentityFromRequest(ctx)
	if !ok {
		middleware.Redirect(ctx, middleware.LoginPath)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.DashboardResponse{Email: identity.Email})
}

// Logout serves POST /dashboard: destroy the session cookie and return
// to the login page. Destroying an already-empty session is fine.
func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	sess := h.sessions.Load(ctx)
	h.sessions.Destroy(ctx, sess)
	middleware.Redirect(ctx, middleware.LoginPath)
}
