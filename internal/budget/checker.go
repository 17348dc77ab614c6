package budget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cash-flow/internal/finance"
	"cash-flow/internal/logger"
	"cash-flow/internal/models"

	"github.com/shopspring/decimal"
)

var (
	ErrLimitUnavailable   = errors.New("failed to retrieve the daily limit")
	ErrOutflowUnavailable = errors.New("failed to retrieve today's expenses")
	ErrAcknowledgeFailed  = errors.New("failed to mark notification as acknowledged")
)

// LimitStore is the persistence the checker needs.
type LimitStore interface {
	DailyLimitFor(ctx context.Context, email string) (*models.DailyLimit, error)
	ResetDailyLimit(ctx context.Context, email string, day finance.Day) error
	ClaimNotification(ctx context.Context, email string, day finance.Day) (bool, error)
	OutflowOn(ctx context.Context, email string, day finance.Day) (decimal.Decimal, error)
}

// Alert is sent once per user and day when spending first exceeds the limit.
type Alert struct {
	Email    string           `json:"email"`
	Date     finance.Day      `json:"date"`
	Limit    decimal.Decimal  `json:"limit"`
	Spent    decimal.Decimal  `json:"spent"`
	Language finance.Language `json:"language"`
	Message  string           `json:"message"`
}

// Notifier delivers alerts.
type Notifier interface {
	Notify(ctx context.Context, a Alert) error
}

type Status string

const (
	StatusWithin          Status = "within_limit"
	StatusExceeded        Status = "exceeded"
	StatusAlreadyNotified Status = "already_notified"
)

// Result describes one check.
type Result struct {
	Status  Status          `json:"status"`
	Alerted bool            `json:"alerted"`
	Limit   decimal.Decimal `json:"limit"`
	Spent   decimal.Decimal `json:"spent"`
	Date    finance.Day     `json:"date"`
	Message string          `json:"message"`
}

// Checker compares today's outflow with the user's daily limit.
type Checker struct {
	store    LimitStore
	notifier Notifier
	clock    finance.Clock
	log      *slog.Logger
}

func NewChecker(store LimitStore, notifier Notifier, clock finance.Clock, log *slog.Logger) *Checker {
	return &Checker{
		store:    store,
		notifier: notifier,
		clock:    clock,
		log:      logger.Component(log, logger.ComponentBudget),
	}
}

// Check runs the daily limit flow for email. A fetch failure of the limit or of
// today's outflow ends the check with ErrLimitUnavailable or ErrOutflowUnavailable.
func (c *Checker) Check(ctx context.Context, email string, lang finance.Language) (Result, error) {
	row, err := c.store.DailyLimitFor(ctx, email)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrLimitUnavailable, err)
	}

	today := c.clock.Today()
	stored, _ := finance.ParseDay(row.Date) // never-set date counts as stale
	state := finance.LimitState{Limit: row.LimitValue, Notified: row.Notification, Date: stored}

	state, reset := state.Rollover(today)
	if reset {
		if err := c.store.ResetDailyLimit(ctx, email, today); err != nil {
			c.log.WarnContext(ctx, "reset daily limit flag failed", logger.FieldEmail, email, logger.FieldError, err)
		}
	}

	res := Result{Limit: state.Limit, Date: today}
	if state.Notified {
		res.Status = StatusAlreadyNotified
		res.Message = Message(lang, MsgAlreadyNotified)
		return res, nil
	}

	spent, err := c.store.OutflowOn(ctx, email, today)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrOutflowUnavailable, err)
	}
	res.Spent = spent

	outcome := finance.AdvanceLimit(state, today, spent)
	if !outcome.Exceeded {
		res.Status = StatusWithin
		res.Message = Message(lang, MsgWithinLimit)
		return res, nil
	}

	res.Status = StatusExceeded
	res.Message = Message(lang, MsgExceeded)
	if !outcome.Alert {
		return res, nil
	}

	// the flag is claimed before delivery so a concurrent check cannot alert twice
	claimed, err := c.store.ClaimNotification(ctx, email, today)
	if err != nil {
		return res, fmt.Errorf("%w: %w", ErrAcknowledgeFailed, err)
	}
	if !claimed {
		return res, nil
	}

	alert := Alert{
		Email:    email,
		Date:     today,
		Limit:    state.Limit,
		Spent:    spent,
		Language: lang,
		Message:  res.Message,
	}
	if err := c.notifier.Notify(ctx, alert); err != nil {
		c.log.ErrorContext(ctx, "deliver limit alert failed", logger.FieldEmail, email, logger.FieldError, err)
	}
	res.Alerted = true

	c.log.InfoContext(ctx, "daily limit exceeded",
		logger.FieldEmail, email,
		"limit", state.Limit.String(),
		"spent", spent.String(),
	)
	return res, nil
}
