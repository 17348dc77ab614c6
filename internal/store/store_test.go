package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"cash-flow/internal/config"
	"cash-flow/internal/database"
	"cash-flow/internal/finance"
	"cash-flow/internal/models"

	"github.com/shopspring/decimal"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Init(config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "store.db"),
	})
	if err != nil {
		t.Fatalf("初始化数据库失败: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("迁移失败: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return New(db)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func expense(email, amount, date string) *models.CashFlow {
	return &models.CashFlow{
		CashIn:   decimal.Zero,
		CashOut:  dec(amount),
		Category: "Food",
		Date:     date,
		Email:    email,
	}
}

// ============ 用户 ============

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, &models.User{Email: "Amy@Example.com", Password: "x"}); err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}
	err := s.CreateUser(ctx, &models.User{Email: "amy@example.com ", Password: "y"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("重复邮箱应返回 ErrEmailTaken，实际 %v", err)
	}

	u, err := s.UserByEmail(ctx, "AMY@example.com")
	if err != nil {
		t.Fatalf("按邮箱查询失败: %v", err)
	}
	if u.Email != "amy@example.com" || u.Language != "en" {
		t.Errorf("用户数据错误: %+v", u)
	}

	if _, err := s.UserByEmail(ctx, "nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("不存在的用户应返回 ErrNotFound，实际 %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	u := &models.User{Email: "p@example.com", Password: "old"}
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatal(err)
	}

	phone, pw := "0123456789", "new-hash"
	got, err := s.UpdateProfile(ctx, u.ID, ProfileUpdate{PhoneNumber: &phone, PasswordHash: &pw})
	if err != nil {
		t.Fatalf("更新失败: %v", err)
	}
	if got.PhoneNumber != phone || got.Password != pw {
		t.Errorf("更新结果错误: %+v", got)
	}

	if err := s.SetLanguage(ctx, u.ID, "zh"); err != nil {
		t.Fatal(err)
	}
	got, _ = s.UserByID(ctx, u.ID)
	if got.Language != "zh" {
		t.Errorf("language = %s, 期望 zh", got.Language)
	}

	if _, err := s.UpdateProfile(ctx, 9999, ProfileUpdate{PhoneNumber: &phone}); !errors.Is(err, ErrNotFound) {
		t.Errorf("不存在的用户应返回 ErrNotFound，实际 %v", err)
	}
}

// ============ 收支记录与每日汇总 ============

func TestInsertCashFlow_RollupOnEveryRowOfTheDay(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	email := "r@example.com"

	for _, row := range []*models.CashFlow{
		expense(email, "10.5", "2024-03-01"),
		expense(email, "20", "2024-03-01"),
		expense(email, "7", "2024-03-02"),
		{CashIn: dec("100"), CashOut: decimal.Zero, Category: "Salary", Date: "2024-03-01", Email: email},
	} {
		if err := s.InsertCashFlow(ctx, row); err != nil {
			t.Fatalf("插入失败: %v", err)
		}
	}

	rows, err := s.CashFlowsOn(ctx, email, finance.NewDay(2024, 3, 1))
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("期望 3 条记录，实际 %d", len(rows))
	}
	for _, r := range rows {
		if !r.DailyExpenses.Equal(dec("30.5")) {
			t.Errorf("row %d daily_expenses = %s, 期望 30.5", r.ID, r.DailyExpenses)
		}
	}

	spent, err := s.OutflowOn(ctx, email, finance.NewDay(2024, 3, 2))
	if err != nil || !spent.Equal(dec("7")) {
		t.Errorf("OutflowOn = %s, %v; 期望 7", spent, err)
	}
}

func TestInsertCashFlow_ConcurrentInsertsKeepRollupCurrent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	email := "c@example.com"

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.InsertCashFlow(ctx, expense(email, "1", "2024-03-01"))
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("并发插入失败: %v", err)
		}
	}

	rows, _ := s.CashFlowsOn(ctx, email, finance.NewDay(2024, 3, 1))
	for _, r := range rows {
		if !r.DailyExpenses.Equal(dec("5")) {
			t.Errorf("row %d daily_expenses = %s, 期望 5", r.ID, r.DailyExpenses)
		}
	}
}

func TestDeleteCashFlow(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	email := "d@example.com"

	a := expense(email, "10", "2024-03-01")
	b := expense(email, "15", "2024-03-01")
	_ = s.InsertCashFlow(ctx, a)
	_ = s.InsertCashFlow(ctx, b)

	if err := s.DeleteCashFlow(ctx, "other@example.com", a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("不能删除别人的记录，实际 %v", err)
	}
	if err := s.DeleteCashFlow(ctx, email, a.ID); err != nil {
		t.Fatalf("删除失败: %v", err)
	}

	rows, _ := s.CashFlowsByOwner(ctx, email)
	if len(rows) != 1 || rows[0].ID != b.ID {
		t.Fatalf("删除后剩余记录错误: %+v", rows)
	}
	if !rows[0].DailyExpenses.Equal(dec("15")) {
		t.Errorf("删除后 daily_expenses = %s, 期望 15", rows[0].DailyExpenses)
	}
}

// ============ 预算计划 ============

func TestPlanUpsert(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	email := "plan@example.com"

	if _, err := s.PlanFor(ctx, email); !errors.Is(err, ErrNotFound) {
		t.Errorf("初始应无计划，实际 %v", err)
	}

	if _, err := s.SetPlanLimit(ctx, email, dec("3000")); err != nil {
		t.Fatal(err)
	}
	p, err := s.SetPlanTarget(ctx, email, dec("500"))
	if err != nil {
		t.Fatal(err)
	}
	if !p.LimitValue.Equal(dec("3000")) || !p.TargetValue.Equal(dec("500")) {
		t.Errorf("upsert 不应覆盖另一个字段: %+v", p)
	}

	p, _ = s.SetPlanLimit(ctx, email, dec("2500"))
	if !p.LimitValue.Equal(dec("2500")) || !p.TargetValue.Equal(dec("500")) {
		t.Errorf("第二次 upsert 结果错误: %+v", p)
	}

	var count int64
	s.DB().Model(&models.Plan{}).Where("email = ?", email).Count(&count)
	if count != 1 {
		t.Errorf("每个用户只能有一条计划，实际 %d", count)
	}
}

// ============ 每日限额 ============

func TestDailyLimitLifecycle(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	email := "lim@example.com"
	today := finance.NewDay(2024, 3, 15)

	if err := s.ResetDailyLimit(ctx, email, today); !errors.Is(err, ErrNotFound) {
		t.Errorf("无限额时应返回 ErrNotFound，实际 %v", err)
	}

	if _, err := s.SetDailyLimit(ctx, email, dec("100")); err != nil {
		t.Fatal(err)
	}
	claimed, err := s.ClaimNotification(ctx, email, today)
	if err != nil || !claimed {
		t.Fatalf("第一次标记应成功: claimed=%v err=%v", claimed, err)
	}
	if claimed, _ := s.ClaimNotification(ctx, email, today); claimed {
		t.Error("同一天不应重复标记")
	}

	// changing the limit keeps the flag
	l, _ := s.SetDailyLimit(ctx, email, dec("120"))
	if !l.Notification || l.Date != "2024-03-15" || !l.LimitValue.Equal(dec("120")) {
		t.Errorf("限额更新结果错误: %+v", l)
	}

	n, err := s.ResetStaleLimits(ctx, today)
	if err != nil || n != 0 {
		t.Errorf("当天的标记不应被重置: n=%d err=%v", n, err)
	}
	n, _ = s.ResetStaleLimits(ctx, today.AddDays(1))
	if n != 1 {
		t.Errorf("跨天后应重置 1 条，实际 %d", n)
	}
	l, _ = s.DailyLimitFor(ctx, email)
	if l.Notification || l.Date != "2024-03-16" {
		t.Errorf("重置后状态错误: %+v", l)
	}
}

// ============ 会话 ============

func TestSessions(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	u := &models.User{Email: "s@example.com", Password: "x"}
	_ = s.CreateUser(ctx, u)

	now := time.Now()
	live := &models.Session{ID: "live", UserID: u.ID, ExpiresAt: now.Add(time.Hour)}
	old := &models.Session{ID: "old", UserID: u.ID, ExpiresAt: now.Add(-time.Hour)}
	for _, sess := range []*models.Session{live, old} {
		if err := s.CreateSession(ctx, sess); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := s.ActiveSession(ctx, "live", now); err != nil {
		t.Errorf("有效会话查询失败: %v", err)
	}
	if _, err := s.ActiveSession(ctx, "old", now); !errors.Is(err, ErrNotFound) {
		t.Errorf("过期会话应返回 ErrNotFound，实际 %v", err)
	}

	if err := s.RevokeSession(ctx, "live"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ActiveSession(ctx, "live", now); !errors.Is(err, ErrNotFound) {
		t.Errorf("注销后的会话不应有效，实际 %v", err)
	}

	n, err := s.PurgeExpiredSessions(ctx, now)
	if err != nil || n != 2 {
		t.Errorf("应清理 2 个会话: n=%d err=%v", n, err)
	}
}
