package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mock_http "github.com/mrlokans/bookhive/internal/http/mocks"
)

func TestHealthController_Status(t *testing.T) {
	tests := []struct {
		name           string
		pinger         func(c *gomock.Controller) Pinger
		expectedCode   int
		expectedStatus string
		expectedCheck  string
	}{
		{
			name: "healthy when database answers",
			pinger: func(c *gomock.Controller) Pinger {
				p := mock_http.NewMockPinger(c)
				p.EXPECT().Ping(gomock.Any()).Return(nil)
				return p
			},
			expectedCode:   http.StatusOK,
			expectedStatus: "healthy",
			expectedCheck:  "ok",
		},
		{
			name: "unhealthy when ping fails",
			pinger: func(c *gomock.Controller) Pinger {
				p := mock_http.NewMockPinger(c)
				p.EXPECT().Ping(gomock.Any()).Return(errors.New("sql: database is closed"))
				return p
			},
			expectedCode:   http.StatusServiceUnavailable,
			expectedStatus: "unhealthy",
			expectedCheck:  "error: sql: database is closed",
		},
		{
			name:           "healthy without a database",
			pinger:         func(c *gomock.Controller) Pinger { return nil },
			expectedCode:   http.StatusOK,
			expectedStatus: "healthy",
			expectedCheck:  "not configured",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := gomock.NewController(t)
			defer c.Finish()

			controller := NewHealthController(tt.pinger(c), "1.0.0")
			router := gin.New()
			router.GET("/health", controller.Status)

			w := performRequest(router, http.MethodGet, "/health", "")

			assert.Equal(t, tt.expectedCode, w.Code)
			var response HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.expectedStatus, response.Status)
			assert.Equal(t, "1.0.0", response.Version)
			assert.Equal(t, tt.expectedCheck, response.Checks["database"])
			assert.NotEmpty(t, response.Time)
		})
	}
}

func TestHealthController_Ping(t *testing.T) {
	router := gin.New()
	router.GET("/ping", NewHealthController(nil, "").Ping)

	w := performRequest(router, http.MethodGet, "/ping", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}
