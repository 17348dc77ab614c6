package budget

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cash-flow/internal/finance"
	"cash-flow/internal/logger"
	"cash-flow/internal/models"

	"github.com/shopspring/decimal"
)

type fakeStore struct {
	mu sync.Mutex

	limit    *models.DailyLimit
	limitErr error
	spent    decimal.Decimal
	spentErr error
	resetErr error

	outflowCalls int
	resets       int
}

func (f *fakeStore) DailyLimitFor(ctx context.Context, email string) (*models.DailyLimit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.limitErr != nil {
		return nil, f.limitErr
	}
	cp := *f.limit
	return &cp, nil
}

func (f *fakeStore) ResetDailyLimit(ctx context.Context, email string, day finance.Day) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets++
	if f.resetErr != nil {
		return f.resetErr
	}
	f.limit.Notification = false
	f.limit.Date = day.String()
	return nil
}

func (f *fakeStore) ClaimNotification(ctx context.Context, email string, day finance.Day) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.limit.Notification {
		return false, nil
	}
	f.limit.Notification = true
	f.limit.Date = day.String()
	return true, nil
}

func (f *fakeStore) OutflowOn(ctx context.Context, email string, day finance.Day) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outflowCalls++
	return f.spent, f.spentErr
}

type recordingNotifier struct {
	mu     sync.Mutex
	alerts []Alert
}

func (n *recordingNotifier) Notify(ctx context.Context, a Alert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, a)
	return nil
}

var now = time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC)

func newChecker(s *fakeStore, n Notifier) *Checker {
	return NewChecker(s, n, finance.FixedClock(now), logger.Discard())
}

func TestCheck_ExceededAlertsExactlyOnce(t *testing.T) {
	s := &fakeStore{
		limit: &models.DailyLimit{Email: "a@b.com", LimitValue: decimal.NewFromInt(100), Date: "2024-03-15"},
		spent: decimal.NewFromInt(101),
	}
	n := &recordingNotifier{}
	c := newChecker(s, n)

	res, err := c.Check(context.Background(), "a@b.com", finance.English)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if res.Status != StatusExceeded || !res.Alerted {
		t.Errorf("result = %+v, want exceeded + alerted", res)
	}
	if res.Message != "You have exceeded your daily cash out limit!" {
		t.Errorf("message = %q", res.Message)
	}
	if !s.limit.Notification {
		t.Error("notification flag should be persisted")
	}
	if len(n.alerts) != 1 || !n.alerts[0].Spent.Equal(decimal.NewFromInt(101)) {
		t.Fatalf("alerts = %+v, want exactly one", n.alerts)
	}

	// second check on the same day stays quiet and skips the outflow query
	calls := s.outflowCalls
	res, err = c.Check(context.Background(), "a@b.com", finance.English)
	if err != nil {
		t.Fatalf("second Check: %v", err)
	}
	if res.Status != StatusAlreadyNotified || res.Alerted {
		t.Errorf("second result = %+v", res)
	}
	if s.outflowCalls != calls {
		t.Error("outflow should not be queried once notified")
	}
	if len(n.alerts) != 1 {
		t.Errorf("alerts = %d, want 1", len(n.alerts))
	}
}

func TestCheck_WithinLimit(t *testing.T) {
	s := &fakeStore{
		limit: &models.DailyLimit{LimitValue: decimal.NewFromInt(100), Date: "2024-03-15"},
		spent: decimal.NewFromInt(100),
	}
	n := &recordingNotifier{}

	res, err := newChecker(s, n).Check(context.Background(), "a@b.com", finance.Chinese)
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != StatusWithin || res.Alerted || len(n.alerts) != 0 {
		t.Errorf("result = %+v alerts = %d", res, len(n.alerts))
	}
	if res.Message != Message(finance.Chinese, MsgWithinLimit) {
		t.Errorf("message = %q, want localized", res.Message)
	}
}

func TestCheck_RolloverResetsFlag(t *testing.T) {
	s := &fakeStore{
		limit: &models.DailyLimit{LimitValue: decimal.NewFromInt(50), Notification: true, Date: "2024-03-14"},
		spent: decimal.NewFromInt(80),
	}
	n := &recordingNotifier{}

	res, err := newChecker(s, n).Check(context.Background(), "a@b.com", finance.English)
	if err != nil {
		t.Fatal(err)
	}
	if s.resets != 1 {
		t.Errorf("resets = %d, want 1", s.resets)
	}
	if !res.Alerted || len(n.alerts) != 1 {
		t.Errorf("a new day should alert again: %+v", res)
	}
	if s.limit.Date != "2024-03-15" {
		t.Errorf("date = %s, want 2024-03-15", s.limit.Date)
	}
}

func TestCheck_ResetFailureIsNotFatal(t *testing.T) {
	s := &fakeStore{
		limit:    &models.DailyLimit{LimitValue: decimal.NewFromInt(50), Date: "2024-03-10"},
		spent:    decimal.NewFromInt(10),
		resetErr: errors.New("disk full"),
	}
	res, err := newChecker(s, &recordingNotifier{}).Check(context.Background(), "a@b.com", finance.English)
	if err != nil {
		t.Fatalf("reset failure should only be logged: %v", err)
	}
	if res.Status != StatusWithin {
		t.Errorf("status = %s", res.Status)
	}
}

func TestCheck_FetchFailures(t *testing.T) {
	s := &fakeStore{limitErr: errors.New("boom")}
	if _, err := newChecker(s, &recordingNotifier{}).Check(context.Background(), "a@b.com", finance.English); !errors.Is(err, ErrLimitUnavailable) {
		t.Errorf("err = %v, want ErrLimitUnavailable", err)
	}

	s = &fakeStore{
		limit:    &models.DailyLimit{LimitValue: decimal.NewFromInt(50), Date: "2024-03-15"},
		spentErr: errors.New("timeout"),
	}
	if _, err := newChecker(s, &recordingNotifier{}).Check(context.Background(), "a@b.com", finance.English); !errors.Is(err, ErrOutflowUnavailable) {
		t.Errorf("err = %v, want ErrOutflowUnavailable", err)
	}
}

func TestCheck_ConcurrentChecksAlertOnce(t *testing.T) {
	s := &fakeStore{
		limit: &models.DailyLimit{LimitValue: decimal.NewFromInt(10), Date: "2024-03-15"},
		spent: decimal.NewFromInt(20),
	}
	n := &recordingNotifier{}
	c := newChecker(s, n)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.Check(context.Background(), "a@b.com", finance.English)
		}()
	}
	wg.Wait()

	if len(n.alerts) != 1 {
		t.Errorf("alerts = %d, want 1", len(n.alerts))
	}
}

func TestMessageFallback(t *testing.T) {
	if Message(finance.Language("fr"), MsgExceeded) != "You have exceeded your daily cash out limit!" {
		t.Error("unknown language should fall back to English")
	}
}
