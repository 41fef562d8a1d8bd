package middleware

import (
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/tidylist/backend/domain"
	"github.com/tidylist/backend/internal/session"
)

// IdentityKey is the request user-value key carrying the *domain.Identity
// resolved by RequireIdentity.
const IdentityKey = "identity"

// LoginPath is where unauthenticated visitors are sent.
const LoginPath = "/login"

// Redirect issues a 302 with a literal relative Location. fasthttp's
// RequestCtx.Redirect resolves the target against the request URI and
// writes an absolute URL with a forced http scheme, which breaks behind
// a TLS-terminating proxy; the contract here is a bare path.
func Redirect(ctx *fasthttp.RequestCtx, path string) {
	ctx.Response.Header.Set(fasthttp.HeaderLocation, path)
	ctx.SetStatusCode(fasthttp.StatusFound)
}

// RequireIdentity gates a handler on a valid session. Requests without a
// verified identity are redirected to the login page; the redirect is
// silent on purpose so protected routes do not reveal anything about
// themselves. The guard only reads the cookie, it never commits.
func RequireIdentity(store *session.Store, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			sess := store.Load(ctx)
			if !sess.Authenticated() {
				logger.Debug("unauthenticated request",
					zap.ByteString("path", ctx.Path()))
				Redirect(ctx, LoginPath)
				return
			}

			ctx.SetUserValue(IdentityKey, sess.User)
			next(ctx)
		}
	}
}

// RedirectIfAuthenticated is the inverse guard for the login page: a
// visitor who already holds a valid session is sent forward instead of
// being offered a second login.
func RedirectIfAuthenticated(store *session.Store, to string) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			if store.Load(ctx).Authenticated() {
				Redirect(ctx, to)
				return
			}
			next(ctx)
		}
	}
}

// IdentityFromRequest returns the identity stashed by RequireIdentity.
func IdentityFromRequest(ctx *fasthttp.RequestCtx) (*domain.Identity, bool) {
	identity, ok := ctx.UserValue(IdentityKey).(*domain.Identity)
	return identity, ok && identity != nil && identity.ID != ""
}
