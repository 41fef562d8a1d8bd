// Package identity talks to the external identity provider. The
// provider owns credentials end to end; this client only exchanges an
// email/password pair for a verified identity.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/tidylist/backend/domain"
)

const passwordGrantPath = "/auth/v1/token?grant_type=password"

// Config mirrors config.IdentityConfig without importing the config package.
type Config struct {
	URL       string
	APIKey    string
	JWTSecret string
	Timeout   time.Duration
}

// Client is the identity provider client.
type Client struct {
	http    *fasthttp.Client
	baseURL string
	apiKey  string
	secret  []byte
	timeout time.Duration
	logger  *zap.Logger
}

// New builds an identity client. The provider is treated as an opaque
// collaborator: no password hashing or storage happens here.
func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		http:    &fasthttp.Client{},
		baseURL: cfg.URL,
		apiKey:  cfg.APIKey,
		secret:  []byte(cfg.JWTSecret),
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInResponse struct {
	AccessToken string `json:"access_token"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
	ErrorDescription string `json:"error_description"`
	Message          string `json:"msg"`
}

// SignIn exchanges credentials for a verified identity. Provider
// rejections surface the provider's own message (it does not reveal
// which of email/password was wrong); transport failures surface a
// generic retryable error.
func (c *Client) SignIn(ctx context.Context, email, password string) (*domain.Identity, error) {
	body, err := json.Marshal(signInRequest{Email: email, Password: password})
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "encode sign-in request", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + passwordGrantPath)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("apikey", c.apiKey)
	req.SetBody(body)

	if err := c.http.DoDeadline(req, resp, c.deadline(ctx)); err != nil {
		c.logger.Warn("identity provider unreachable", zap.Error(err))
		return nil, domain.WrapError(domain.ErrCodeUnavailable, "sign-in failed, please try again", err)
	}

	var parsed signInResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, domain.WrapError(domain.ErrCodeUnavailable, "sign-in failed, please try again", err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, domain.NewError(domain.ErrCodeUnauthorized, providerMessage(parsed))
	}

	return c.identityFromResponse(parsed)
}

// identityFromResponse verifies the provider's access token when a
// provider JWT secret is configured and takes the identity from the
// verified claims; without a secret it falls back to the response body.
func (c *Client) identityFromResponse(parsed signInResponse) (*domain.Identity, error) {
	if len(c.secret) == 0 {
		if parsed.User.ID == "" {
			return nil, domain.NewError(domain.ErrCodeUnavailable, "sign-in failed, please try again")
		}
		return &domain.Identity{ID: parsed.User.ID, Email: parsed.User.Email}, nil
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(parsed.AccessToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		c.logger.Warn("provider token rejected", zap.Error(err))
		return nil, domain.NewError(domain.ErrCodeUnavailable, "sign-in failed, please try again")
	}

	id, _ := claims["sub"].(string)
	mail, _ := claims["email"].(string)
	if id == "" {
		return nil, domain.NewError(domain.ErrCodeUnavailable, "sign-in failed, please try again")
	}
	return &domain.Identity{ID: id, Email: mail}, nil
}

func (c *Client) deadline(ctx context.Context) time.Time {
	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	return deadline
}

func providerMessage(parsed signInResponse) string {
	switch {
	case parsed.ErrorDescription != "":
		return parsed.ErrorDescription
	case parsed.Message != "":
		return parsed.Message
	default:
		return "invalid login credentials"
	}
}
