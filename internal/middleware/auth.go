package middleware

import (
	"instagram-clone-backend/internal/errors"
	"instagram-clone-backend/internal/util"
	"strings"

	"github.com/gin-gonic/gin"
)

const viewerKey = "user_id"

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if !(len(parts) == 2 && parts[0] == "Bearer") {
		return "", false
	}
	return parts[1], true
}

// AuthMiddleware 要求携带有效令牌，将观察者ID写入上下文
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "需要认证"))
			c.Abort()
			return
		}

		userID, err := util.ValidateToken(token)
		if err != nil {
			errors.HandleError(c, errors.Wrap(errors.ErrUnauthorized, "无效或过期的令牌", err))
			c.Abort()
			return
		}

		c.Set(viewerKey, userID)
		c.Next()
	}
}

// OptionalAuthMiddleware 为只读路径提供观察者上下文：
// 没有令牌或令牌无效时继续以匿名身份访问，所有观察者相关标记为 false
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if userID, err := util.ValidateToken(token); err == nil {
				c.Set(viewerKey, userID)
			}
		}
		c.Next()
	}
}
