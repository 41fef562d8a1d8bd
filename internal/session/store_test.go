package session

import (
	"strings"
	"testing"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/tidylist/backend/domain"
)

func newTestStore(t *testing.T, secure bool) *Store {
	t.Helper()
	return NewStore(newTestCodec(t), CookieConfig{
		Name:   "__session",
		MaxAge: 30 * 24 * time.Hour,
		Secure: secure,
	}, nil)
}

func newRequestCtx(method, uri string) *fasthttp.RequestCtx {
	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(uri)

	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, nil, nil)
	return ctx
}

func responseCookie(t *testing.T, ctx *fasthttp.RequestCtx, name string) *fasthttp.Cookie {
	t.Helper()
	cookie := fasthttp.AcquireCookie()
	cookie.SetKey(name)
	if !ctx.Response.Header.Cookie(cookie) {
		fasthttp.ReleaseCookie(cookie)
		t.Fatalf("response carries no %q cookie", name)
	}
	return cookie
}

func TestLoadWithoutCookieYieldsEmptySession(t *testing.T) {
	store := newTestStore(t, false)
	ctx := newRequestCtx("GET", "/todos")

	sess := store.Load(ctx)
	if sess == nil {
		t.Fatalf("load returned nil session")
	}
	if sess.Authenticated() {
		t.Fatalf("fresh session reported authenticated")
	}
}

func TestCommitThenLoadRoundTrips(t *testing.T) {
	store := newTestStore(t, false)

	login := newRequestCtx("POST", "/login")
	sess := store.Load(login)
	sess.SetUser(domain.Identity{ID: "auth-9", Email: "u@example.com"})
	if err := store.Commit(login, sess); err != nil {
		t.Fatalf("commit: %v", err)
	}

	cookie := responseCookie(t, login, "__session")
	defer fasthttp.ReleaseCookie(cookie)

	next := newRequestCtx("GET", "/todos")
	next.Request.Header.SetCookie("__session", string(cookie.Value()))

	loaded := store.Load(next)
	if !loaded.Authenticated() {
		t.Fatalf("round-tripped session not authenticated")
	}
	if loaded.User.ID != "auth-9" || loaded.User.Email != "u@example.com" {
		t.Fatalf("unexpected identity: %+v", loaded.User)
	}
}

func TestCommitCookiePolicy(t *testing.T) {
	store := newTestStore(t, true)

	ctx := newRequestCtx("POST", "/login")
	sess := store.Load(ctx)
	sess.SetUser(domain.Identity{ID: "auth-1"})
	if err := store.Commit(ctx, sess); err != nil {
		t.Fatalf("commit: %v", err)
	}

	cookie := responseCookie(t, ctx, "__session")
	defer fasthttp.ReleaseCookie(cookie)

	if !cookie.HTTPOnly() {
		t.Fatalf("cookie not HttpOnly")
	}
	if !cookie.Secure() {
		t.Fatalf("cookie not Secure in production mode")
	}
	if cookie.SameSite() != fasthttp.CookieSameSiteLaxMode {
		t.Fatalf("cookie SameSite = %d, want Lax", cookie.SameSite())
	}
	if got := string(cookie.Path()); got != "/" {
		t.Fatalf("cookie path = %q, want /", got)
	}
	if cookie.MaxAge() != int((30 * 24 * time.Hour).Seconds()) {
		t.Fatalf("cookie max-age = %d", cookie.MaxAge())
	}
}

func TestCommitNotSecureOutsideProduction(t *testing.T) {
	store := newTestStore(t, false)

	ctx := newRequestCtx("POST", "/login")
	if err := store.Commit(ctx, &domain.Session{}); err != nil {
		t.Fatalf("commit: %v", err)
	}

	cookie := responseCookie(t, ctx, "__session")
	defer fasthttp.ReleaseCookie(cookie)
	if cookie.Secure() {
		t.Fatalf("cookie Secure outside production mode")
	}
}

func TestLoadTamperedCookieIndistinguishableFromNone(t *testing.T) {
	store := newTestStore(t, false)

	login := newRequestCtx("POST", "/login")
	sess := store.Load(login)
	sess.SetUser(domain.Identity{ID: "auth-9"})
	if err := store.Commit(login, sess); err != nil {
		t.Fatalf("commit: %v", err)
	}
	cookie := responseCookie(t, login, "__session")
	defer fasthttp.ReleaseCookie(cookie)

	tampered := []byte(string(cookie.Value()))
	tampered[0] ^= 0x01

	ctx := newRequestCtx("GET", "/todos")
	ctx.Request.Header.SetCookie("__session", string(tampered))

	loaded := store.Load(ctx)
	if loaded.Authenticated() {
		t.Fatalf("tampered cookie produced an authenticated session")
	}
	if loaded.User != nil || !loaded.IssuedAt.IsZero() {
		t.Fatalf("tampered cookie leaked session data: %+v", loaded)
	}
}

func TestDestroyExpiresCookieAndIsIdempotent(t *testing.T) {
	store := newTestStore(t, false)

	ctx := newRequestCtx("POST", "/dashboard")
	sess := store.Load(ctx)
	sess.SetUser(domain.Identity{ID: "auth-9"})

	store.Destroy(ctx, sess)
	if sess.Authenticated() {
		t.Fatalf("destroyed session still authenticated")
	}

	cookie := responseCookie(t, ctx, "__session")
	if len(cookie.Value()) != 0 {
		t.Fatalf("clearing cookie carries a value: %q", cookie.Value())
	}
	if !cookie.Expire().Before(time.Now()) {
		t.Fatalf("clearing cookie does not expire in the past: %v", cookie.Expire())
	}
	fasthttp.ReleaseCookie(cookie)

	// Destroying an already-empty session must still produce a valid
	// clearing cookie and never panic.
	again := newRequestCtx("POST", "/dashboard")
	store.Destroy(again, &domain.Session{})
	cookie = responseCookie(t, again, "__session")
	fasthttp.ReleaseCookie(cookie)

	store.Destroy(newRequestCtx("POST", "/dashboard"), nil)
}

func TestLoadGarbageCookieValues(t *testing.T) {
	store := newTestStore(t, false)

	for _, value := range []string{"x", "a.b", strings.Repeat("A", 4096)} {
		ctx := newRequestCtx("GET", "/todos")
		ctx.Request.Header.SetCookie("__session", value)
		if store.Load(ctx).Authenticated() {
			t.Fatalf("garbage cookie %q authenticated", value)
		}
	}
}
