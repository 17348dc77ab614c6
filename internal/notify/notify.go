package notify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"cash-flow/internal/budget"
	"cash-flow/internal/logger"
)

// LimitExceededMessage is the payload published for an over-limit alert.
type LimitExceededMessage struct {
	Email     string    `json:"email"`
	Date      string    `json:"date"`
	Limit     string    `json:"limit"`
	Spent     string    `json:"spent"`
	Language  string    `json:"language"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLimitExceededMessage(a budget.Alert, at time.Time) LimitExceededMessage {
	return LimitExceededMessage{
		Email:     a.Email,
		Date:      a.Date.String(),
		Limit:     a.Limit.StringFixed(2),
		Spent:     a.Spent.StringFixed(2),
		Language:  string(a.Language),
		Message:   a.Message,
		Timestamp: at,
	}
}

func (m LimitExceededMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LogNotifier writes alerts to the application log.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: logger.Component(log, logger.ComponentNotify)}
}

func (n *LogNotifier) Notify(ctx context.Context, a budget.Alert) error {
	n.log.WarnContext(ctx, a.Message,
		logger.FieldEmail, a.Email,
		"date", a.Date.String(),
		"limit", a.Limit.StringFixed(2),
		"spent", a.Spent.StringFixed(2),
	)
	return nil
}

// Multi fans an alert out to several notifiers and joins their errors.
type Multi []budget.Notifier

func (m Multi) Notify(ctx context.Context, a budget.Alert) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, a); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
