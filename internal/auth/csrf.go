package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

// CSRFTokenHeader is the header clients echo the token back in.
const CSRFTokenHeader = "X-CSRF-Token"

// CSRFMiddleware protects requests that carry the session cookie. Requests
// without it cannot ride on a browser session, so they are passed through.
// Safe methods receive a fresh token in the X-CSRF-Token response header.
func CSRFMiddleware(secret []byte, secure bool, sessionCookie string) gin.HandlerFunc {
	protect := csrf.Protect(
		secret,
		csrf.Secure(secure),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteStrictMode),
		csrf.Path("/"),
		csrf.RequestHeader(CSRFTokenHeader),
		csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler)),
	)

	return func(c *gin.Context) {
		if _, err := c.Request.Cookie(sessionCookie); err != nil {
			c.Next()
			return
		}
		if plaintext(c.Request, secure) {
			c.Request = csrf.PlaintextHTTPRequest(c.Request)
		}

		passed := false
		handler := protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Header(CSRFTokenHeader, csrf.Token(r))
			c.Request = r
			c.Next()
		}))
		handler.ServeHTTP(c.Writer, c.Request)

		// The error handler already wrote the 403.
		if !passed {
			c.Abort()
		}
	}
}

// plaintext reports whether the request reached us over plain HTTP. Only
// HTTPS requests get gorilla/csrf's strict Referer check.
func plaintext(r *http.Request, secure bool) bool {
	if !secure {
		return true
	}
	return r.TLS == nil && r.Header.Get("X-Forwarded-Proto") != "https"
}

func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"error":"CSRF token invalid or missing"}`))
}
