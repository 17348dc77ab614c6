package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"cash-flow/internal/finance"
	"cash-flow/internal/models"
	"cash-flow/internal/store"
	"cash-flow/internal/util"

	"github.com/gin-gonic/gin"
)

// KeyApp is the gin context key holding *AppContext.
const KeyApp = "appContext"

// AppContext is what an authenticated request knows about its caller.
type AppContext struct {
	User      *models.User
	Email     string
	Language  finance.Language
	SessionID string
}

// CurrentApp returns the AppContext set by AuthMiddleware.
func CurrentApp(c *gin.Context) (*AppContext, bool) {
	v, ok := c.Get(KeyApp)
	if !ok {
		return nil, false
	}
	app, ok := v.(*AppContext)
	return app, ok && app != nil && app.User != nil
}

// BearerToken extracts the token from the header, ?token= or the cl_token cookie.
func BearerToken(c *gin.Context) string {
	// 1) Header: Authorization: Bearer xxx
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	// 2) URL 查询参数 ?token=xxx（用于导出下载等无法自定义 Header 的场景）
	if t := c.Query("token"); t != "" {
		return t
	}

	// 3) Cookie cl_token
	if cookie, err := c.Cookie("cl_token"); err == nil {
		return cookie
	}
	return ""
}

// AuthMiddleware 校验 JWT 和对应的会话，并在 context 里放入当前用户。
func AuthMiddleware(jwtSecret string, st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := BearerToken(c)
		if tokenStr == "" {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "未登录")
			c.Abort()
			return
		}

		claims, err := util.ParseToken(jwtSecret, tokenStr)
		if err != nil || claims.SessionID() == "" {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "登录已失效，请重新登录")
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		sess, err := st.ActiveSession(ctx, claims.SessionID(), time.Now())
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				util.Error(c, http.StatusUnauthorized, util.CodeAuth, "登录已失效，请重新登录")
			} else {
				util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "查询会话失败")
			}
			c.Abort()
			return
		}

		user, err := st.UserByID(ctx, sess.UserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				util.Error(c, http.StatusUnauthorized, util.CodeAuth, "用户不存在")
			} else {
				util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "查询用户失败")
			}
			c.Abort()
			return
		}

		c.Set(KeyApp, &AppContext{
			User:      user,
			Email:     user.Email,
			Language:  finance.ParseLanguage(user.Language),
			SessionID: sess.ID,
		})
		c.Next()
	}
}
