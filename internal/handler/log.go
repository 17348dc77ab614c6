package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"cash-flow/internal/finance"
	"cash-flow/internal/store"
	"cash-flow/internal/util"

	"github.com/gin-gonic/gin"
)

// LogHandler 负责操作日志查询接口
type LogHandler struct {
	Store      *store.Store
	EncryptKey string
}

func NewLogHandler(st *store.Store, encryptKey string) *LogHandler {
	return &LogHandler{Store: st, EncryptKey: encryptKey}
}

// decryptField 解密失败时原样返回密文。
func (h *LogHandler) decryptField(cipherStr string) string {
	plain, err := util.DecryptString(h.EncryptKey, cipherStr)
	if err != nil {
		return cipherStr
	}
	return plain
}

type logResp struct {
	ID        uint      `json:"id"`
	Method    string    `json:"method"`
	Path      string    `json:"path"`
	Action    string    `json:"action"`
	Status    int       `json:"status"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

// ListLogs 列出当前用户的操作日志（分页 + 日期范围）
func (h *LogHandler) ListLogs(c *gin.Context) {
	app, ok := currentApp(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if size <= 0 || size > 100 {
		size = 20
	}

	filter := store.AuditFilter{UserID: app.User.ID, Page: page, Size: size}

	// start / end 为 YYYY-MM-DD，end 当天包含在内
	if raw := strings.TrimSpace(c.Query("start")); raw != "" {
		d, err := finance.ParseDay(raw)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "开始日期格式错误")
			return
		}
		filter.From = d.Time()
	}
	if raw := strings.TrimSpace(c.Query("end")); raw != "" {
		d, err := finance.ParseDay(raw)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "结束日期格式错误")
			return
		}
		filter.To = d.AddDays(1).Time()
	}

	logs, total, err := h.Store.AuditLogs(c.Request.Context(), filter)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "查询失败")
		return
	}

	items := make([]logResp, 0, len(logs))
	for _, l := range logs {
		items = append(items, logResp{
			ID:        l.ID,
			Method:    l.Method,
			Path:      h.decryptField(l.PathEnc),
			Action:    h.decryptField(l.ActionEnc),
			Status:    l.Status,
			IP:        l.IP,
			UserAgent: l.UserAgent,
			CreatedAt: l.CreatedAt,
		})
	}

	util.Success(c, util.Response{
		"items": items,
		"total": total,
		"page":  page,
		"size":  size,
	})
}
