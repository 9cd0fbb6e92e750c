package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/merial523/graduate-git/internal/config"
	"github.com/merial523/graduate-git/internal/model"
	"github.com/merial523/graduate-git/internal/util"
	"github.com/merial523/graduate-git/pkg/logger"
	"go.uber.org/zap"
)

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			logger.Log.Debug("JWT parse failed",
				zap.String("request_id", c.GetString(util.RequestIDKey)),
				zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		util.SetUserToContext(c, claims)
		c.Next()
	}
}

// RoleMiddleware administer 拥有全部权限，直接放行
func RoleMiddleware(ranks ...model.UserRank) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		allowed := user.Rank == model.Administer
		for _, rank := range ranks {
			if user.Rank == rank {
				allowed = true
				break
			}
		}

		if !allowed {
			util.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
