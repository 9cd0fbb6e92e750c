package util

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/merial523/graduate-git/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{BaseModel: model.BaseModel{ID: 7}, Rank: model.Moderator, Email: "m@example.com"}
	token, err := GenerateJWT(user, "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, model.Moderator, claims.Rank)

	_, err = ParseJWT(token, "other-secret")
	assert.Error(t, err)
}

func TestJWTExpired(t *testing.T) {
	token, err := GenerateJWT(&model.User{Rank: model.Staff}, "secret", -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT(token, "secret")
	assert.Error(t, err)
}

func TestRankValidator(t *testing.T) {
	require.NoError(t, RegisterValidators())

	type req struct {
		Rank model.UserRank `binding:"required,rank"`
	}
	assert.NoError(t, binding.Validator.ValidateStruct(&req{Rank: model.Staff}))
	assert.Error(t, binding.Validator.ValidateStruct(&req{Rank: "owner"}))
}

func TestParamID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	var got uint
	var ok bool
	r.GET("/items/:id", func(c *gin.Context) {
		got, ok = ParamID(c, "id")
		c.Status(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/42", nil))
	assert.True(t, ok)
	assert.Equal(t, uint(42), got)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/abc", nil))
	assert.False(t, ok)
}
