package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/merial523/graduate-git/internal/config"
	"github.com/merial523/graduate-git/internal/model"
	"github.com/merial523/graduate-git/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret"

func newRouter(ranks ...model.UserRank) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret}}
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", AuthMiddleware(cfg), RoleMiddleware(ranks...), func(c *gin.Context) {
		util.Success(c, util.GetUserFromContext(c).UserID)
	})
	return r
}

func token(t *testing.T, id uint, rank model.UserRank) string {
	t.Helper()
	u := &model.User{Rank: rank, Email: "u@example.com"}
	u.ID = id
	s, err := util.GenerateJWT(u, testSecret, time.Hour)
	require.NoError(t, err)
	return s
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter(model.Staff)

	tests := []struct {
		name   string
		header string
		query  string
		want   int
	}{
		{"missing token", "", "", http.StatusUnauthorized},
		{"garbage token", "Bearer nope", "", http.StatusUnauthorized},
		{"bearer header", "Bearer " + token(t, 7, model.Staff), "", http.StatusOK},
		{"query token", "", token(t, 7, model.Staff), http.StatusOK},
		{"wrong rank", "Bearer " + token(t, 7, model.Visitor), "", http.StatusForbidden},
		{"administer always passes", "Bearer " + token(t, 1, model.Administer), "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/ping"
			if tt.query != "" {
				target += "?token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRequestID(t *testing.T) {
	r := newRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Len(t, w.Header().Get(util.RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(util.RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(util.RequestIDHeader))
}
