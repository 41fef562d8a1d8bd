package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/tidylist/backend/api/transport"
	"github.com/tidylist/backend/domain"
	"github.com/tidylist/backend/pkg/httpcontext"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload interface{}) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

// respondFailure renders a handler-boundary failure as a 200 response
// with an {error} payload. Internal detail never crosses this boundary:
// anything but a user-facing classification collapses to a generic
// retryable message.
func (h baseHandler) respondFailure(ctx *fasthttp.RequestCtx, err error) {
	h.respondJSON(ctx, http.StatusOK, transport.ErrorResponse{Error: userMessage(err)})
}

func userMessage(err error) string {
	var dErr *domain.Error
	if errors.As(err, &dErr) {
		switch dErr.Code {
		case domain.ErrCodeInvalid, domain.ErrCodeUnauthorized, domain.ErrCodeNotFound:
			return dErr.Message
		}
	}
	return domain.ErrStoreFailure.Message
}
