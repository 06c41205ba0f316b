package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"inkwell/internal/auth"
)

const sessionClaimsKey = "sessionClaims"

// SessionCookieName 是会话令牌所在的 Cookie 名。
const SessionCookieName = "session_token"

// SessionMiddleware 解析会话令牌（Cookie 或 Bearer 头）并把声明注入上下文。
// 不在这里做拒绝：是否放行由角色门控决定。
func SessionMiddleware(authService *auth.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := extractToken(c)
		if raw != "" {
			if claims, err := authService.ValidateToken(raw); err == nil {
				c.Set(sessionClaimsKey, claims)
			}
		}
		c.Next()
	}
}

// SessionFromContext 返回请求的会话声明；未登录时为 nil。
func SessionFromContext(c *gin.Context) *auth.SessionClaims {
	if value, ok := c.Get(sessionClaimsKey); ok {
		if claims, ok := value.(*auth.SessionClaims); ok {
			return claims
		}
	}
	return nil
}

// SetSession 只用于测试，直接注入会话声明。
func SetSession(c *gin.Context, claims *auth.SessionClaims) {
	c.Set(sessionClaimsKey, claims)
}

func extractToken(c *gin.Context) string {
	if token, err := c.Cookie(SessionCookieName); err == nil && token != "" {
		return token
	}

	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
