package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/wordstack/pkg/auth"
	"github.com/d60-Lab/wordstack/pkg/logger"
	"github.com/d60-Lab/wordstack/pkg/response"
)

const (
	ActorIDKey = "actor_id"
	ClaimsKey  = "claims"
)

// Auth 从 Authorization: Bearer 或会话 cookie 中解析访问令牌。
// required=false 时令牌缺失或无效都按匿名继续；required=true 时返回 401。
func Auth(v *auth.Verifier, cookieName string, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := v.Verify(tokenFrom(c, cookieName))
		if err != nil {
			if required {
				response.Unauthorized(c, "authentication required")
				c.Abort()
				return
			}
			if err != auth.ErrMissingToken {
				logger.Debug("ignore invalid token", zap.String("path", c.FullPath()), zap.Error(err))
			}
			c.Next()
			return
		}
		c.Set(ActorIDKey, claims.Subject)
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// ActorID 当前请求的用户 ID，匿名时为空
func ActorID(c *gin.Context) string {
	return c.GetString(ActorIDKey)
}

func tokenFrom(c *gin.Context, cookieName string) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if scheme, token, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	if cookieName != "" {
		if v, err := c.Cookie(cookieName); err == nil {
			return v
		}
	}
	return ""
}
