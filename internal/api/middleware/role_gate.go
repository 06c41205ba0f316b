package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"inkwell/internal/auth"
)

const (
	signInPath = "/sign-in"
	homePath   = "/"
)

// RouteSets 按权限等级划分受保护路径。
// 模式按路径段匹配，以冒号开头的段是通配符（如 /v1/blogs/edit/:id）。
type RouteSets struct {
	Superadmin []string
	Admin      []string
	User       []string
	// Excluded 中的路径完全跳过门控（登录、健康检查、指标）。
	Excluded []string
}

// DefaultRouteSets 返回本服务的路由分级。
func DefaultRouteSets() RouteSets {
	return RouteSets{
		Superadmin: []string{},
		Admin: []string{
			"/v1/blogs/create",
			"/v1/blogs/edit/:id",
			"/v1/blogs/delete/:id",
			"/v1/tags/create",
			"/v1/assets/upload",
		},
		User: []string{
			"/v1/blogs",
			"/v1/blogs/read/:id",
			"/v1/blogs/tag/:id",
			"/v1/tags",
			"/v1/tags/:id",
			"/v1/auth/session",
			"/v1/ws",
		},
		Excluded: []string{
			signInPath,
			"/health",
			"/metrics",
			"/v1/auth/login",
			"/v1/auth/oauth",
			"/v1/auth/logout",
		},
	}
}

// RoleGateMiddleware 是整个请求面的准入状态机：
// 无会话 → 跳转登录页；已登录访问 /sign-in → 跳转首页；
// 命中某一等级的路径集时按角色等级判定，不足则跳转登录页。
func RoleGateMiddleware(routes RouteSets) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		claims := SessionFromContext(c)

		if matchAny(routes.Excluded, path) {
			if claims != nil && path == signInPath {
				c.Redirect(http.StatusSeeOther, homePath)
				c.Abort()
				return
			}
			c.Next()
			return
		}

		if claims == nil {
			c.Redirect(http.StatusSeeOther, signInPath)
			c.Abort()
			return
		}

		required := classify(routes, path)
		if !claims.Role.AtLeast(required) {
			c.Redirect(http.StatusSeeOther, signInPath)
			c.Abort()
			return
		}

		c.Next()
	}
}

// classify 返回路径要求的最低角色；未命中任何集合的路径只要求登录。
func classify(routes RouteSets, path string) auth.Role {
	switch {
	case matchAny(routes.Superadmin, path):
		return auth.RoleSuperadmin
	case matchAny(routes.Admin, path):
		return auth.RoleAdmin
	default:
		return auth.RoleUser
	}
}

func matchAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if matchRoute(pattern, path) {
			return true
		}
	}
	return false
}

// matchRoute 按段比较路径与模式，冒号开头的段匹配任意值。
func matchRoute(pattern, path string) bool {
	patternSegments := splitSegments(pattern)
	pathSegments := splitSegments(path)

	if len(patternSegments) != len(pathSegments) {
		return false
	}

	for i, segment := range patternSegments {
		if strings.HasPrefix(segment, ":") {
			continue
		}
		if segment != pathSegments[i] {
			return false
		}
	}
	return true
}

func splitSegments(s string) []string {
	parts := strings.Split(s, "/")
	segments := parts[:0]
	for _, part := range parts {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}
