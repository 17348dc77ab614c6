package handler

import (
	"errors"
	"net/http"

	"cash-flow/internal/budget"
	"cash-flow/internal/store"
	"cash-flow/internal/util"

	"github.com/gin-gonic/gin"
)

// LimitHandler sets the daily cap and runs the over-limit check.
type LimitHandler struct {
	Store   *store.Store
	Checker *budget.Checker
}

func NewLimitHandler(st *store.Store, checker *budget.Checker) *LimitHandler {
	return &LimitHandler{Store: st, Checker: checker}
}

func (h *LimitHandler) GetLimit(c *gin.Context) {
	app, ok := currentApp(c)
	if !ok {
		return
	}
	l, err := h.Store.DailyLimitFor(c.Request.Context(), app.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, budget.Message(app.Language, budget.MsgLimitUnavailable))
			return
		}
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, err.Error())
		return
	}
	util.Success(c, util.Response{"limit": l})
}

// SetLimit 设置每日支出上限，已发送的提醒状态保持不变
func (h *LimitHandler) SetLimit(c *gin.Context) {
	app, ok := currentApp(c)
	if !ok {
		return
	}
	v, ok := bindValue(c)
	if !ok {
		return
	}
	l, err := h.Store.SetDailyLimit(c.Request.Context(), app.Email, v)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, err.Error())
		return
	}
	util.Success(c, util.Response{"limit": l})
}

// Check 比较今天的支出和每日上限，超出时只提醒一次
func (h *LimitHandler) Check(c *gin.Context) {
	app, ok := currentApp(c)
	if !ok {
		return
	}

	res, err := h.Checker.Check(c.Request.Context(), app.Email, app.Language)
	switch {
	case err == nil:
		util.Success(c, util.Response{"result": res})
	case errors.Is(err, store.ErrNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, budget.Message(app.Language, budget.MsgLimitUnavailable))
	case errors.Is(err, budget.ErrAcknowledgeFailed):
		util.Error(c, http.StatusServiceUnavailable, util.CodeUnavailable, budget.Message(app.Language, budget.MsgAcknowledgeFailed))
	case errors.Is(err, budget.ErrLimitUnavailable), errors.Is(err, budget.ErrOutflowUnavailable):
		util.Error(c, http.StatusServiceUnavailable, util.CodeUnavailable, budget.Message(app.Language, budget.MsgLimitUnavailable))
	default:
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, err.Error())
	}
}
