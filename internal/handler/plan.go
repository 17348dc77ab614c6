package handler

import (
	"errors"
	"net/http"

	"cash-flow/internal/finance"
	"cash-flow/internal/models"
	"cash-flow/internal/store"
	"cash-flow/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// PlanHandler manages the monthly budget and the savings target.
type PlanHandler struct {
	Store *store.Store
	Clock finance.Clock
}

func NewPlanHandler(st *store.Store, clock finance.Clock) *PlanHandler {
	return &PlanHandler{Store: st, Clock: clock}
}

type valueReq struct {
	Value flexString `json:"value"`
}

// bindValue reads {"value": ...} as a non-negative amount.
func bindValue(c *gin.Context) (decimal.Decimal, bool) {
	var req valueReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Value.Missing() {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "value is required")
		return decimal.Zero, false
	}
	v, err := finance.ParseAmount(req.Value.String())
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "value must be a non-negative number")
		return decimal.Zero, false
	}
	return finance.Round2(v), true
}

func (h *PlanHandler) planFor(c *gin.Context, email string) (*models.Plan, bool) {
	p, err := h.Store.PlanFor(c.Request.Context(), email)
	if errors.Is(err, store.ErrNotFound) {
		return &models.Plan{Email: email, LimitValue: decimal.Zero, TargetValue: decimal.Zero}, true
	}
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "查询计划失败")
		return nil, false
	}
	return p, true
}

func (h *PlanHandler) GetPlan(c *gin.Context) {
	app, ok := currentApp(c)
	if !ok {
		return
	}
	p, ok := h.planFor(c, app.Email)
	if !ok {
		return
	}
	util.Success(c, util.Response{"plan": p})
}

func (h *PlanHandler) SetLimit(c *gin.Context) {
	app, ok := currentApp(c)
	if !ok {
		return
	}
	v, ok := bindValue(c)
	if !ok {
		return
	}
	p, err := h.Store.SetPlanLimit(c.Request.Context(), app.Email, v)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, err.Error())
		return
	}
	util.Success(c, util.Response{"plan": p})
}

func (h *PlanHandler) SetTarget(c *gin.Context) {
	app, ok := currentApp(c)
	if !ok {
		return
	}
	v, ok := bindValue(c)
	if !ok {
		return
	}
	p, err := h.Store.SetPlanTarget(c.Request.Context(), app.Email, v)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, err.Error())
		return
	}
	util.Success(c, util.Response{"plan": p})
}

// PlanProgress compares this month's figures with the plan.
type PlanProgress struct {
	Month         string          `json:"month"`
	Limit         decimal.Decimal `json:"limit"`
	Spent         decimal.Decimal `json:"spent"`
	Remaining     decimal.Decimal `json:"remaining"`
	PercentUsed   decimal.Decimal `json:"percent_used"`
	Target        decimal.Decimal `json:"target"`
	Saved         decimal.Decimal `json:"saved"`
	TargetPct     decimal.Decimal `json:"target_percent"`
	OverBudget    bool            `json:"over_budget"`
	TargetReached bool            `json:"target_reached"`
}

var hundred = decimal.NewFromInt(100)

func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return finance.Round2(part.Mul(hundred).Div(whole))
}

// ComputeProgress builds the progress view from the month's summary.
func ComputeProgress(month finance.Day, plan *models.Plan, sum finance.Summary) PlanProgress {
	return PlanProgress{
		Month:         month.MonthKey(),
		Limit:         plan.LimitValue,
		Spent:         sum.Expenses,
		Remaining:     plan.LimitValue.Sub(sum.Expenses),
		PercentUsed:   percentOf(sum.Expenses, plan.LimitValue),
		Target:        plan.TargetValue,
		Saved:         sum.Balance,
		TargetPct:     percentOf(sum.Balance, plan.TargetValue),
		OverBudget:    plan.LimitValue.IsPositive() && sum.Expenses.GreaterThan(plan.LimitValue),
		TargetReached: plan.TargetValue.IsPositive() && sum.Balance.GreaterThanOrEqual(plan.TargetValue),
	}
}

// Progress 本月支出占预算的比例、本月结余占储蓄目标的比例
func (h *PlanHandler) Progress(c *gin.Context) {
	app, ok := currentApp(c)
	if !ok {
		return
	}
	p, ok := h.planFor(c, app.Email)
	if !ok {
		return
	}
	rows, err := h.Store.CashFlowsByOwner(c.Request.Context(), app.Email)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "查询记录失败")
		return
	}

	month := h.Clock.Today()
	sum := finance.Totals(finance.FilterMonth(models.Entries(rows), month))
	util.Success(c, util.Response{"progress": ComputeProgress(month, p, sum)})
}
