package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/bookhive/internal/auth"
	"github.com/mrlokans/bookhive/internal/errs"
	"github.com/mrlokans/bookhive/internal/validate"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the body of deletions and other actions without a resource.
type MessageResponse struct {
	Message string `json:"message"`
}

var requestValidator = validate.New()

// statusFor maps a domain error kind to its HTTP status.
func statusFor(kind errs.Kind) int {
	switch kind {
	case errs.Validation, errs.Conflict:
		return http.StatusBadRequest
	case errs.Unauthorized:
		return http.StatusUnauthorized
	case errs.Forbidden:
		return http.StatusForbidden
	case errs.NotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// respondError writes err with the status of its kind. Errors outside the
// domain taxonomy are logged and answered with a generic message.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	kind := errs.KindOf(err)
	status := statusFor(kind)
	if status == http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(ContextKeyRequestID)),
			zap.Error(err))
	}
	c.JSON(status, ErrorResponse{Error: errs.Message(err)})
}

func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, MessageResponse{Message: message})
}

// decodeJSON decodes the body into req. An empty body leaves req at its zero value.
func decodeJSON(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		return errs.Wrap(errs.Validation, err, "invalid request body")
	}
	return nil
}

// bindJSON decodes the body into req and validates its `validate` tags.
func bindJSON(c *gin.Context, req any) error {
	if err := decodeJSON(c, req); err != nil {
		return err
	}
	return requestValidator.Struct(req)
}

// parseIDParam extracts a positive integer ID from the URL path.
func parseIDParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, errs.New(errs.Validation, "invalid "+name)
	}
	return uint(id), nil
}

// actingUser returns the session user when logged in, otherwise the user_id
// sent in the request body.
func actingUser(c *gin.Context, bodyUserID uint) (uint, error) {
	if id := auth.GetUserID(c); id != 0 {
		return id, nil
	}
	if bodyUserID == 0 {
		return 0, errs.New(errs.Validation, "user_id is required")
	}
	return bodyUserID, nil
}

// requireSelf rejects requests where a logged-in user acts on another user's data.
func requireSelf(c *gin.Context, userID uint) error {
	if id := auth.GetUserID(c); id != 0 && id != userID {
		return errs.New(errs.Forbidden, "you can only change your own data")
	}
	return nil
}
