package transport

import "github.com/valyala/fasthttp"

// LoginRequest carries the credentials submitted by the login form.
type LoginRequest struct {
	Email    string
	Password string
}

// ParseLoginForm reads the login form fields from a POST body.
func ParseLoginForm(ctx *fasthttp.RequestCtx) LoginRequest {
	args := ctx.PostArgs()
	return LoginRequest{
		Email:    string(args.Peek("email")),
		Password: string(args.Peek("password")),
	}
}

// ParseTodoForm reads the todo creation form field from a POST body.
// The title is returned untrimmed; validation owns the trimming contract.
func ParseTodoForm(ctx *fasthttp.RequestCtx) string {
	return string(ctx.PostArgs().Peek("title"))
}
