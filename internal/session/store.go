package session

import (
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/tidylist/backend/domain"
)

// CookieConfig is the fixed cookie policy. HttpOnly, SameSite=Lax and
// Path=/ are not configurable; Secure tracks the deployment mode.
type CookieConfig struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

// Store is the per-request session facade: it materializes a session
// from the incoming cookie and writes the outgoing cookie on commit or
// destroy. It holds no per-request state and is safe for concurrent use.
type Store struct {
	codec  *Codec
	cookie CookieConfig
	logger *zap.Logger
}

// NewStore builds a session store over a codec and cookie policy.
func NewStore(codec *Codec, cookie CookieConfig, logger *zap.Logger) *Store {
	if cookie.Name == "" {
		cookie.Name = "__session"
	}
	if cookie.MaxAge <= 0 {
		cookie.MaxAge = 30 * 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{codec: codec, cookie: cookie, logger: logger}
}

// Load reads the session cookie from the request. A missing, malformed
// or tampered cookie yields a fresh empty session; this path never
// fails and never reveals whether a cookie was present.
func (s *Store) Load(ctx *fasthttp.RequestCtx) *domain.Session {
	raw := ctx.Request.Header.Cookie(s.cookie.Name)
	if len(raw) == 0 {
		return &domain.Session{}
	}

	data, ok := s.codec.Verify(string(raw))
	if !ok {
		s.logger.Debug("session cookie rejected", zap.String("cookie", s.cookie.Name))
		return &domain.Session{}
	}
	return &data
}

// Commit re-signs the session and attaches the Set-Cookie header to the
// response. Call it once per request that mutates session state, after
// all mutations.
func (s *Store) Commit(ctx *fasthttp.RequestCtx, session *domain.Session) error {
	value, err := s.codec.Sign(*session)
	if err != nil {
		return err
	}

	cookie := s.newCookie()
	defer fasthttp.ReleaseCookie(cookie)
	cookie.SetValue(value)
	cookie.SetMaxAge(int(s.cookie.MaxAge.Seconds()))

	ctx.Response.Header.SetCookie(cookie)
	return nil
}

// Destroy attaches a Set-Cookie header that expires the cookie
// immediately, independent of the signed payload. It is idempotent: an
// already-empty or already-destroyed session still produces a valid
// clearing cookie.
func (s *Store) Destroy(ctx *fasthttp.RequestCtx, session *domain.Session) {
	if session != nil {
		session.Clear()
	}

	cookie := s.newCookie()
	defer fasthttp.ReleaseCookie(cookie)
	cookie.SetValue("")
	cookie.SetMaxAge(0)
	cookie.SetExpire(fasthttp.CookieExpireDelete)

	ctx.Response.Header.SetCookie(cookie)
}

func (s *Store) newCookie() *fasthttp.Cookie {
	cookie := fasthttp.AcquireCookie()
	cookie.SetKey(s.cookie.Name)
	cookie.SetPath("/")
	cookie.SetHTTPOnly(true)
	cookie.SetSameSite(fasthttp.CookieSameSiteLaxMode)
	cookie.SetSecure(s.cookie.Secure)
	return cookie
}
