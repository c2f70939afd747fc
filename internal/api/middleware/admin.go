package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/wordstack/pkg/response"
)

type AdminChecker interface {
	IsAdmin(ctx context.Context, actorID string) (bool, error)
}

// RequireAdmin 需放在 Auth(required) 之后
func RequireAdmin(checker AdminChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := ActorID(c)
		if actorID == "" {
			response.Unauthorized(c, "authentication required")
			c.Abort()
			return
		}
		ok, err := checker.IsAdmin(c.Request.Context(), actorID)
		if err != nil {
			response.InternalError(c, err)
			c.Abort()
			return
		}
		if !ok {
			response.Forbidden(c, "admin only")
			c.Abort()
			return
		}
		c.Next()
	}
}
