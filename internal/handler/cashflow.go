package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"cash-flow/internal/finance"
	"cash-flow/internal/logger"
	"cash-flow/internal/models"
	"cash-flow/internal/store"
	"cash-flow/internal/util"

	"github.com/gin-gonic/gin"
)

type CashFlowHandler struct {
	Store *store.Store
	Clock finance.Clock
	Log   *slog.Logger
}

func NewCashFlowHandler(st *store.Store, clock finance.Clock, log *slog.Logger) *CashFlowHandler {
	return &CashFlowHandler{Store: st, Clock: clock, Log: logger.Component(log, logger.ComponentHTTP)}
}

type createCashFlowReq struct {
	Direction string     `json:"direction"`
	Amount    flexString `json:"amount"`
	Category  string     `json:"category"`
	Remark    string     `json:"remark"`
	Date      string     `json:"date"` // 可选，默认今天
	Time      string     `json:"time"` // 可选，默认当前时间
}

// Create 新增一笔收入或支出。金额无法解析时按 0 记账。
func (h *CashFlowHandler) Create(c *gin.Context) {
	app, ok := currentApp(c)
	if !ok {
		return
	}

	var req createCashFlowReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "参数错误")
		return
	}

	dir, err := finance.ParseDirection(req.Direction)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "direction must be income or expense")
		return
	}
	if err := util.ValidateCategory(req.Category); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	if err := util.ValidateRemark(req.Remark); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	today := h.Clock.Today()
	day := today
	if strings.TrimSpace(req.Date) != "" {
		day, err = util.ValidateDate(strings.TrimSpace(req.Date))
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
			return
		}
		if day.After(today) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "日期不能晚于今天")
			return
		}
	}

	clock := strings.TrimSpace(req.Time)
	if clock == "" {
		clock = h.Clock.TimeOfDay()
	}

	// known categories are stored under their canonical key
	category := strings.TrimSpace(req.Category)
	if cat := finance.Normalize(category); finance.Allowed(cat, dir) {
		category = string(cat)
	}

	amount := finance.CoerceAmount(req.Amount.String())
	entry := finance.NewEntry(dir, amount, category, strings.TrimSpace(req.Remark), day, clock)
	row := models.CashFlowFromEntry(app.Email, entry)

	if err := h.Store.InsertCashFlow(c.Request.Context(), &row); err != nil {
		h.Log.Error("insert cash flow failed", logger.FieldEmail, app.Email, logger.FieldError, err)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, err.Error())
		return
	}

	util.Success(c, util.Response{"cashflow": row})
}

// List 返回当前用户的记录，可用 ?date=YYYY-MM-DD 只看某一天。
func (h *CashFlowHandler) List(c *gin.Context) {
	app, ok := currentApp(c)
	if !ok {
		return
	}

	rows, err := h.Store.CashFlowsByOwner(c.Request.Context(), app.Email)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "查询记录失败")
		return
	}
	entries := models.Entries(rows)

	if raw := strings.TrimSpace(c.Query("date")); raw != "" {
		day, err := util.ValidateDate(raw)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
			return
		}
		entries = finance.FilterDay(entries, day)
	}

	util.Success(c, util.Response{
		"entries": entries,
		"totals":  finance.Totals(entries),
	})
}

// Delete 删除一条记录，同时刷新当天的支出汇总。
func (h *CashFlowHandler) Delete(c *gin.Context) {
	app, ok := currentApp(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.Store.DeleteCashFlow(c.Request.Context(), app.Email, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "记录不存在")
			return
		}
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "删除失败")
		return
	}

	util.Success(c, util.Response{"id": id})
}
