package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csrfRouter(reached *bool) *gin.Engine {
	secret := make([]byte, 32)
	r := gin.New()
	r.Use(CSRFMiddleware(secret, false, "bookhive_session"))
	handler := func(c *gin.Context) {
		*reached = true
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
	r.GET("/books/", handler)
	r.POST("/reviews/", handler)
	return r
}

func TestCSRFMiddleware_NoSessionCookiePassesThrough(t *testing.T) {
	reached := false
	r := csrfRouter(&reached)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/reviews/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, reached)
}

func TestCSRFMiddleware_SafeMethodGetsToken(t *testing.T) {
	reached := false
	r := csrfRouter(&reached)

	req := httptest.NewRequest(http.MethodGet, "/books/", nil)
	req.AddCookie(&http.Cookie{Name: "bookhive_session", Value: "abc"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, reached)
	assert.NotEmpty(t, w.Header().Get(CSRFTokenHeader))
}

func TestCSRFMiddleware_UnsafeMethodWithoutTokenRejected(t *testing.T) {
	reached := false
	r := csrfRouter(&reached)

	req := httptest.NewRequest(http.MethodPost, "/reviews/", nil)
	req.AddCookie(&http.Cookie{Name: "bookhive_session", Value: "abc"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, reached)
	assert.Contains(t, w.Body.String(), "CSRF")
}

func TestCSRFMiddleware_UnsafeMethodWithTokenAccepted(t *testing.T) {
	reached := false
	r := csrfRouter(&reached)
	session := &http.Cookie{Name: "bookhive_session", Value: "abc"}

	get := httptest.NewRequest(http.MethodGet, "/books/", nil)
	get.AddCookie(session)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, get)
	require.Equal(t, http.StatusOK, w.Code)
	token := w.Header().Get(CSRFTokenHeader)
	require.NotEmpty(t, token)

	reached = false
	post := httptest.NewRequest(http.MethodPost, "/reviews/", nil)
	post.AddCookie(session)
	for _, cookie := range w.Result().Cookies() {
		post.AddCookie(cookie)
	}
	post.Header.Set(CSRFTokenHeader, token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, post)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, reached)
}

func TestCSRFMiddleware_TokenFromAnotherSessionRejected(t *testing.T) {
	reached := false
	r := csrfRouter(&reached)

	get := httptest.NewRequest(http.MethodGet, "/books/", nil)
	get.AddCookie(&http.Cookie{Name: "bookhive_session", Value: "abc"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, get)
	token := w.Header().Get(CSRFTokenHeader)
	require.NotEmpty(t, token)

	reached = false
	post := httptest.NewRequest(http.MethodPost, "/reviews/", nil)
	post.AddCookie(&http.Cookie{Name: "bookhive_session", Value: "abc"})
	post.Header.Set(CSRFTokenHeader, token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, post)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, reached)
}

func TestPlaintext(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/reviews/", nil)
	assert.True(t, plaintext(req, false))
	assert.True(t, plaintext(req, true))

	req.Header.Set("X-Forwarded-Proto", "https")
	assert.False(t, plaintext(req, true))
	assert.True(t, plaintext(req, false))
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeadersMiddleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}
