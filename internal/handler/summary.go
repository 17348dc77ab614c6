package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"cash-flow/internal/finance"
	"cash-flow/internal/logger"
	"cash-flow/internal/models"
	"cash-flow/internal/store"
	"cash-flow/internal/util"

	"github.com/gin-gonic/gin"
)

const maxLookbackDays = 366

// SummaryHandler serves the read-only views over a user's entries.
// Every call re-reads the store.
type SummaryHandler struct {
	Store        *store.Store
	Clock        finance.Clock
	LookbackDays int
	Log          *slog.Logger
}

func NewSummaryHandler(st *store.Store, clock finance.Clock, lookbackDays int, log *slog.Logger) *SummaryHandler {
	return &SummaryHandler{
		Store:        st,
		Clock:        clock,
		LookbackDays: lookbackDays,
		Log:          logger.Component(log, logger.ComponentHTTP),
	}
}

func (h *SummaryHandler) entries(c *gin.Context, email string) ([]finance.Entry, bool) {
	rows, err := h.Store.CashFlowsByOwner(c.Request.Context(), email)
	if err != nil {
		h.Log.Error("load cash flows failed", logger.FieldEmail, email, logger.FieldError, err)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "查询记录失败")
		return nil, false
	}
	return models.Entries(rows), true
}

// Summary 全部记录的收入、支出和结余
func (h *SummaryHandler) Summary(c *gin.Context) {
	app, ok := currentApp(c)
	if !ok {
		return
	}
	entries, ok := h.entries(c, app.Email)
	if !ok {
		return
	}
	util.Success(c, util.Response{"summary": finance.Totals(entries)})
}

// Today 今天的收入和支出（首页饼图）
func (h *SummaryHandler) Today(c *gin.Context) {
	app, ok := currentApp(c)
	if !ok {
		return
	}
	entries, ok := h.entries(c, app.Email)
	if !ok {
		return
	}
	today := h.Clock.Today()
	util.Success(c, util.Response{
		"date":    today,
		"summary": finance.TotalsOn(entries, today),
	})
}

// Buckets 最近 N 天按日期分组的记录，?timed=true 时只保留带时间的记录
func (h *SummaryHandler) Buckets(c *gin.Context) {
	app, ok := currentApp(c)
	if !ok {
		return
	}

	days := h.LookbackDays
	if raw := strings.TrimSpace(c.Query("days")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > maxLookbackDays {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "days must be between 0 and 366")
			return
		}
		days = n
	}

	entries, ok := h.entries(c, app.Email)
	if !ok {
		return
	}

	buckets, skipped := finance.BucketByDay(entries, finance.BucketOptions{
		Now:         h.Clock.Time(),
		Location:    h.Clock.Location,
		Days:        days,
		RequireTime: queryBool(c, "timed"),
	})
	h.logSkipped(app.Email, skipped)

	util.Success(c, util.Response{
		"days":    days,
		"buckets": buckets,
		"skipped": len(skipped),
	})
}

// Calendar 某月每天的收入和支出，?month=YYYY-MM，默认本月
func (h *SummaryHandler) Calendar(c *gin.Context) {
	app, ok := currentApp(c)
	if !ok {
		return
	}

	month := h.Clock.Today()
	if raw := strings.TrimSpace(c.Query("month")); raw != "" {
		m, err := finance.ParseMonth(raw)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "month must be YYYY-MM")
			return
		}
		month = m
	}

	entries, ok := h.entries(c, app.Email)
	if !ok {
		return
	}
	inMonth := finance.FilterMonth(entries, month)
	buckets, skipped := finance.BucketByDay(inMonth, finance.BucketOptions{Now: h.Clock.Time(), Location: h.Clock.Location})
	h.logSkipped(app.Email, skipped)

	util.Success(c, util.Response{
		"month":   month.MonthKey(),
		"days":    finance.Calendar(buckets),
		"summary": finance.Totals(inMonth),
	})
}

// Breakdown 按分类汇总，?direction=income|expense，可选 ?date=YYYY-MM-DD
func (h *SummaryHandler) Breakdown(c *gin.Context) {
	app, ok := currentApp(c)
	if !ok {
		return
	}

	dir := finance.Expense
	if raw := c.Query("direction"); raw != "" {
		d, err := finance.ParseDirection(raw)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "direction must be income or expense")
			return
		}
		dir = d
	}

	entries, ok := h.entries(c, app.Email)
	if !ok {
		return
	}
	if raw := strings.TrimSpace(c.Query("date")); raw != "" {
		day, err := util.ValidateDate(raw)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
			return
		}
		entries = finance.FilterDay(entries, day)
	}

	lang := app.Language
	if raw := c.Query("lang"); raw != "" {
		lang = finance.ParseLanguage(raw)
	}

	util.Success(c, util.Response{
		"direction":  dir,
		"categories": finance.Breakdown(entries, dir, lang),
	})
}

func (h *SummaryHandler) logSkipped(email string, skipped []finance.SkippedEntry) {
	for _, s := range skipped {
		h.Log.Warn("entry with unreadable date skipped",
			logger.FieldEmail, email,
			"id", s.Entry.ID,
			"date", s.Entry.Date,
			logger.FieldError, s.Err,
		)
	}
}
