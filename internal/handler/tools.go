package handler

import (
	"errors"
	"net/http"
	"strconv"

	"cash-flow/internal/finance"
	"cash-flow/internal/util"

	"github.com/gin-gonic/gin"
)

type ToolsHandler struct{}

func NewToolsHandler() *ToolsHandler {
	return &ToolsHandler{}
}

type loanReq struct {
	Principal  flexString `json:"principal"`
	AnnualRate flexString `json:"annual_rate"`
	Years      flexString `json:"years"`
}

// Loan 贷款等额本息计算
func (h *ToolsHandler) Loan(c *gin.Context) {
	var req loanReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "参数错误")
		return
	}

	principal, err1 := finance.ParseAmount(req.Principal.String())
	rate, err2 := finance.ParseAmount(req.AnnualRate.String())
	years, err3 := strconv.Atoi(req.Years.String())
	if err := errors.Join(err1, err2, err3); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, finance.ErrInvalidLoan.Error())
		return
	}

	quote, err := finance.MonthlyPayment(finance.Loan{Principal: principal, AnnualRate: rate, Years: years})
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	util.Success(c, util.Response{"quote": quote})
}
