package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"cash-flow/internal/finance"
	"cash-flow/internal/logger"
	"cash-flow/internal/models"
	"cash-flow/internal/store"
	"cash-flow/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// Relay messages. Mobile clients match on these strings.
const (
	MsgInvalidCredentials = "Invalid credentials"
	MsgFieldsRequired     = "All fields are required."
	MsgInvalidNumbers     = "Cash In and Cash Out must be valid numbers."
	MsgInvalidDailyLimit  = "Daily limit must be a valid number."
	MsgSubmitFailed       = "An error occurred while submitting the data."
)

// RelayStore is what the relay needs from persistence.
type RelayStore interface {
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	InsertCashFlow(ctx context.Context, row *models.CashFlow) error
	SetDailyLimit(ctx context.Context, email string, v decimal.Decimal) (*models.DailyLimit, error)
}

// RelayHandler serves the unauthenticated endpoints the mobile client posts to.
// Responses are bare JSON with a "message" field on error, not the API envelope.
type RelayHandler struct {
	Store RelayStore
	Log   *slog.Logger
}

func NewRelayHandler(st RelayStore, log *slog.Logger) *RelayHandler {
	return &RelayHandler{Store: st, Log: logger.Component(log, logger.ComponentRelay)}
}

func relayError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

// Recovery turns a panic inside a relay route into the generic 500 message.
func (h *RelayHandler) Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		h.Log.Error("relay panic", logger.FieldError, fmt.Sprint(recovered))
		relayError(c, http.StatusInternalServerError, MsgSubmitFailed)
		c.Abort()
	})
}

type relayLoginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login checks username/password and returns the user row.
func (h *RelayHandler) Login(c *gin.Context) {
	var req relayLoginReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		relayError(c, http.StatusBadRequest, MsgInvalidCredentials)
		return
	}

	user, err := h.Store.UserByEmail(c.Request.Context(), req.Username)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.Log.Error("relay login lookup failed", logger.FieldError, err)
		}
		relayError(c, http.StatusBadRequest, MsgInvalidCredentials)
		return
	}
	if !util.CheckPassword(req.Password, user.Password) {
		relayError(c, http.StatusBadRequest, MsgInvalidCredentials)
		return
	}

	c.JSON(http.StatusOK, user)
}

type relayCashFlowReq struct {
	CashIn   flexString `json:"cashIn"`
	CashOut  flexString `json:"cashOut"`
	Date     flexString `json:"date"`
	Category flexString `json:"category"`
	Email    flexString `json:"email"`
	Remark   flexString `json:"remark"`
}

func (r relayCashFlowReq) missing() bool {
	for _, f := range []flexString{r.CashIn, r.CashOut, r.Date, r.Category, r.Email, r.Remark} {
		if f.Missing() {
			return true
		}
	}
	return false
}

// CashFlow validates and stores one entry.
func (h *RelayHandler) CashFlow(c *gin.Context) {
	var req relayCashFlowReq
	if err := c.ShouldBindJSON(&req); err != nil {
		relayError(c, http.StatusBadRequest, MsgFieldsRequired)
		return
	}
	if req.missing() {
		relayError(c, http.StatusBadRequest, MsgFieldsRequired)
		return
	}

	in, errIn := finance.ParseAmount(req.CashIn.String())
	out, errOut := finance.ParseAmount(req.CashOut.String())
	if errIn != nil || errOut != nil {
		relayError(c, http.StatusBadRequest, MsgInvalidNumbers)
		return
	}

	// readable dates are stored as YYYY-MM-DD so daily totals can match them
	date := req.Date.String()
	if d, err := finance.ParseDay(date); err == nil {
		date = d.String()
	}

	row := &models.CashFlow{
		CashIn:   in,
		CashOut:  out,
		Category: req.Category.String(),
		Remark:   req.Remark.Raw,
		Date:     date,
		Email:    store.NormalizeEmail(req.Email.String()),
	}
	if err := h.Store.InsertCashFlow(c.Request.Context(), row); err != nil {
		h.Log.Warn("relay insert failed", logger.FieldEmail, row.Email, logger.FieldError, err)
		relayError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, row)
}

type relayTargetReq struct {
	Email      flexString `json:"email"`
	DailyLimit flexString `json:"dailyLimit"`
}

// Target stores the caller's daily limit.
func (h *RelayHandler) Target(c *gin.Context) {
	var req relayTargetReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Email.Missing() || req.DailyLimit.Missing() {
		relayError(c, http.StatusBadRequest, MsgFieldsRequired)
		return
	}

	limit, err := finance.ParseAmount(req.DailyLimit.String())
	if err != nil {
		relayError(c, http.StatusBadRequest, MsgInvalidDailyLimit)
		return
	}

	email := store.NormalizeEmail(strings.TrimSpace(req.Email.Raw))
	row, err := h.Store.SetDailyLimit(c.Request.Context(), email, limit)
	if err != nil {
		h.Log.Warn("relay target failed", logger.FieldEmail, email, logger.FieldError, err)
		relayError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, row)
}
