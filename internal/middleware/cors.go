package middleware

import "github.com/valyala/fasthttp"

// CORS applies the cross-origin headers the browser client needs and
// short-circuits preflight requests.
func CORS(origin string) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if origin == "" {
		origin = "*"
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			ctx.Response.Header.Set(fasthttp.HeaderAccessControlAllowOrigin, origin)
			ctx.Response.Header.Set(fasthttp.HeaderAccessControlAllowMethods, "GET, POST, PUT, DELETE, OPTIONS")
			ctx.Response.Header.Set(fasthttp.HeaderAccessControlAllowHeaders, "Content-Type, Authorization")
			ctx.Response.Header.Set(fasthttp.HeaderAccessControlAllowCredentials, "true")

			if string(ctx.Method()) == fasthttp.MethodOptions {
				ctx.SetStatusCode(fasthttp.StatusOK)
				return
			}
			next(ctx)
		}
	}
}
