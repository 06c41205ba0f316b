package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"inkwell/internal/api/middleware"
	"inkwell/internal/auth"
	"inkwell/internal/errcode"
	"inkwell/internal/store"
)

// AuthHandler 处理口令登录、外部登录建档、会话查询与退出。
type AuthHandler struct {
	users        userStore
	authService  *auth.AuthService
	logger       *slog.Logger
	cookieDomain string
}

// NewAuthHandler 构造认证处理器。
func NewAuthHandler(users userStore, authService *auth.AuthService, logger *slog.Logger, cookieDomain string) *AuthHandler {
	return &AuthHandler{
		users:        users,
		authService:  authService,
		logger:       logger,
		cookieDomain: cookieDomain,
	}
}

type loginRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required"`
}

type sessionResponse struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	Role     auth.Role `json:"role"`
}

type tokenResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresIn   int             `json:"expires_in"`
	User        sessionResponse `json:"user"`
}

// Login 校验口令并签发会话令牌。
// password 为 NULL 的账号由外部方式创建，口令登录一律拒绝。
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	logger := h.loggerFromContext(c).With(slog.String("username", req.Username))

	user, err := h.users.FetchUserByName(ctx, req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			logger.Info("login failed: user not found")
			Unauthorized(c)
			return
		}
		logger.Error("login query failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	if err := auth.VerifyPassword(user.Password, req.Password); err != nil {
		switch {
		case errors.Is(err, auth.ErrWrongAuthMethod):
			logger.Info("login failed: wrong authentication method")
		case errors.Is(err, auth.ErrPasswordMismatch):
			logger.Info("login failed: password mismatch")
		default:
			logger.Error("login verify failed", slog.Any("error", err))
		}
		Unauthorized(c)
		return
	}

	h.issueSession(c, user.ID, user.Username, auth.Role(user.Role))
}

type oauthRequest struct {
	ID       string `json:"id" binding:"required"`
	Username string `json:"username" binding:"required,min=1,max=64"`
}

// OAuthSignIn 处理外部提供方登录：首次登录建档（角色 user、口令为 NULL），
// 然后签发与口令登录相同的会话令牌。端点由内部密钥保护。
func (h *AuthHandler) OAuthSignIn(c *gin.Context) {
	var req oauthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	logger := h.loggerFromContext(c).With(slog.String("external_id", req.ID))

	user, err := h.users.EnsureUser(ctx, req.ID, req.Username)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			logger.Info("oauth sign-in conflict: username taken", slog.Int("code", errcode.Conflict))
			Conflict(c, "username already taken")
			return
		}
		logger.Error("oauth sign-in failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	h.issueSession(c, user.ID, user.Username, auth.Role(user.Role))
}

// Session 返回令牌中携带的授权视图，不回查用户表。
func (h *AuthHandler) Session(c *gin.Context) {
	claims := middleware.SessionFromContext(c)
	if claims == nil {
		Unauthorized(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data": sessionResponse{
			ID:       claims.UserID,
			Username: claims.Username,
			Role:     claims.Role,
		},
	})
}

// Logout 清除会话 Cookie。令牌本身到期自动失效。
func (h *AuthHandler) Logout(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		MaxAge:   -1,
		Path:     "/",
		Secure:   h.isHTTPSRequest(c),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Domain:   h.getCookieDomain(),
	})
	c.Status(http.StatusOK)
}

func (h *AuthHandler) issueSession(c *gin.Context, userID, username string, role auth.Role) {
	logger := h.loggerFromContext(c).With(slog.String("user_id", userID))

	token, err := h.authService.GenerateToken(userID, username, role)
	if err != nil {
		logger.Error("generate session token failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	h.setSessionCookie(c, token)
	logger.Info("session issued", slog.String("role", string(role)))
	c.JSON(http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(h.authService.TokenTTL().Seconds()),
		User: sessionResponse{
			ID:       userID,
			Username: username,
			Role:     role,
		},
	})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	maxAge := int(h.authService.TokenTTL().Seconds())
	if maxAge <= 0 {
		maxAge = int(time.Hour.Seconds())
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		MaxAge:   maxAge,
		Path:     "/",
		Secure:   h.isHTTPSRequest(c),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Domain:   h.getCookieDomain(),
		Expires:  time.Now().Add(h.authService.TokenTTL()),
	})
}

func (h *AuthHandler) loggerFromContext(c *gin.Context) *slog.Logger {
	if logger := middleware.LoggerFromContext(c); logger != nil {
		return logger
	}
	if h.logger != nil {
		return h.logger
	}
	return slog.Default()
}

func (h *AuthHandler) isHTTPSRequest(c *gin.Context) bool {
	if c.Request == nil {
		return false
	}
	if c.Request.TLS != nil {
		return true
	}
	return strings.EqualFold(c.Request.Header.Get("X-Forwarded-Proto"), "https")
}

func (h *AuthHandler) getCookieDomain() string { return strings.TrimSpace(h.cookieDomain) }
