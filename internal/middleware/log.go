package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"cash-flow/internal/logger"
	"cash-flow/internal/models"
	"cash-flow/internal/store"
	"cash-flow/internal/util"

	"github.com/gin-gonic/gin"
)

const maxAuditBody = 2000

// AuditMiddleware 记录登录用户的写操作；路径和动作 AES 加密后入库。
func AuditMiddleware(st *store.Store, encryptKey string, log *slog.Logger) gin.HandlerFunc {
	log = logger.Component(log, logger.ComponentAudit)
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		// 读取请求体
		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}

		c.Next()

		// 只记录登录用户的操作
		app, ok := CurrentApp(c)
		if !ok {
			return
		}
		userID := app.User.ID

		path := c.Request.URL.Path
		action := c.Request.Method + " " + path
		if len(bodyBytes) > 0 && len(bodyBytes) < maxAuditBody {
			action += " " + redactBody(bodyBytes)
		}

		encPath, _ := util.EncryptString(encryptKey, path)
		encAction, _ := util.EncryptString(encryptKey, action)

		entry := models.AuditLog{
			UserID:    &userID,
			Method:    c.Request.Method,
			PathEnc:   encPath,
			ActionEnc: encAction,
			Status:    c.Writer.Status(),
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}
		if err := st.RecordAudit(c.Request.Context(), &entry); err != nil {
			log.Warn("write audit log failed", logger.FieldError, err)
		}
	}
}

// redactBody drops password fields from a JSON body; non-JSON bodies are omitted.
func redactBody(body []byte) string {
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		return ""
	}
	for k := range m {
		if strings.Contains(strings.ToLower(k), "password") {
			m[k] = "***"
		}
	}
	b, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	return string(b)
}
