package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cash-flow/internal/finance"
	"cash-flow/internal/logger"
	"cash-flow/internal/models"
	"cash-flow/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ============ flexString ============

func TestFlexString(t *testing.T) {
	tests := []struct {
		in      string
		raw     string
		missing bool
	}{
		{`{"v": "12.5"}`, "12.5", false},
		{`{"v": 12.5}`, "12.5", false},
		{`{"v": 0}`, "0", false},
		{`{"v": ""}`, "", true},
		{`{"v": "   "}`, "   ", true},
		{`{"v": null}`, "", true},
		{`{}`, "", true},
	}
	for _, tt := range tests {
		var body struct {
			V flexString `json:"v"`
		}
		if err := json.Unmarshal([]byte(tt.in), &body); err != nil {
			t.Fatalf("%s: %v", tt.in, err)
		}
		if body.V.Raw != tt.raw || body.V.Missing() != tt.missing {
			t.Errorf("%s: raw=%q missing=%v, want %q %v", tt.in, body.V.Raw, body.V.Missing(), tt.raw, tt.missing)
		}
	}
}

// ============ Relay ============

type fakeRelayStore struct {
	users     map[string]*models.User
	inserted  []models.CashFlow
	insertErr error
	panicOn   bool
}

func (f *fakeRelayStore) UserByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := f.users[store.NormalizeEmail(email)]; ok {
		return u, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeRelayStore) InsertCashFlow(_ context.Context, row *models.CashFlow) error {
	if f.panicOn {
		panic("driver exploded")
	}
	if f.insertErr != nil {
		return f.insertErr
	}
	row.ID = uint(len(f.inserted) + 1)
	f.inserted = append(f.inserted, *row)
	return nil
}

func (f *fakeRelayStore) SetDailyLimit(_ context.Context, email string, v decimal.Decimal) (*models.DailyLimit, error) {
	return &models.DailyLimit{Email: email, LimitValue: v}, nil
}

func relayEngine(st RelayStore) *gin.Engine {
	h := NewRelayHandler(st, logger.Discard())
	r := gin.New()
	r.Use(h.Recovery())
	r.POST("/login", h.Login)
	r.POST("/cashflow", h.CashFlow)
	r.POST("/target", h.Target)
	return r
}

func post(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func messageOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("响应不是 JSON: %s", w.Body.String())
	}
	return body.Message
}

const validCashFlow = `{"cashIn":"0","cashOut":"45.5","date":"2024-03-15","category":"Food","email":"A@b.com","remark":"lunch"}`

func TestRelayCashFlow_StoresRow(t *testing.T) {
	st := &fakeRelayStore{}
	w := post(relayEngine(st), "/cashflow", validCashFlow)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if len(st.inserted) != 1 {
		t.Fatalf("inserted = %d, 期望 1", len(st.inserted))
	}
	row := st.inserted[0]
	if row.Email != "a@b.com" || !row.CashOut.Equal(decimal.RequireFromString("45.5")) || !row.CashIn.IsZero() {
		t.Errorf("row = %+v", row)
	}
}

func TestRelayCashFlow_NormalizesDate(t *testing.T) {
	tests := []struct {
		sent string
		want string
	}{
		{"2024-03-15T08:30:00Z", "2024-03-15"},
		{"2024/3/5", "2024-03-05"},
		{"next tuesday", "next tuesday"},
	}
	for _, tt := range tests {
		st := &fakeRelayStore{}
		body := strings.Replace(validCashFlow, `"2024-03-15"`, `"`+tt.sent+`"`, 1)
		if w := post(relayEngine(st), "/cashflow", body); w.Code != http.StatusOK {
			t.Fatalf("%s: status = %d", tt.sent, w.Code)
		}
		if got := st.inserted[0].Date; got != tt.want {
			t.Errorf("%s: date = %q, 期望 %q", tt.sent, got, tt.want)
		}
	}
}

func TestRelayCashFlow_Errors(t *testing.T) {
	tests := []struct {
		name   string
		st     *fakeRelayStore
		body   string
		status int
		msg    string
	}{
		{"bad json", &fakeRelayStore{}, `{`, 400, MsgFieldsRequired},
		{"null field", &fakeRelayStore{}, strings.Replace(validCashFlow, `"lunch"`, `null`, 1), 400, MsgFieldsRequired},
		{"negative", &fakeRelayStore{}, strings.Replace(validCashFlow, `"45.5"`, `"-1"`, 1), 400, MsgInvalidNumbers},
		{"store error", &fakeRelayStore{insertErr: errors.New("duplicate key")}, validCashFlow, 400, "duplicate key"},
		{"panic", &fakeRelayStore{panicOn: true}, validCashFlow, 500, MsgSubmitFailed},
	}
	for _, tt := range tests {
		w := post(relayEngine(tt.st), "/cashflow", tt.body)
		if w.Code != tt.status {
			t.Errorf("[%s] status = %d, 期望 %d", tt.name, w.Code, tt.status)
		}
		if got := messageOf(t, w); got != tt.msg {
			t.Errorf("[%s] message = %q, 期望 %q", tt.name, got, tt.msg)
		}
	}
}

func TestRelayTarget(t *testing.T) {
	r := relayEngine(&fakeRelayStore{})

	w := post(r, "/target", `{"email":"a@b.com","dailyLimit":"abc"}`)
	if w.Code != http.StatusBadRequest || messageOf(t, w) != MsgInvalidDailyLimit {
		t.Errorf("非数字限额: %d %s", w.Code, w.Body.String())
	}
	w = post(r, "/target", `{"email":"a@b.com"}`)
	if w.Code != http.StatusBadRequest || messageOf(t, w) != MsgFieldsRequired {
		t.Errorf("缺少字段: %d %s", w.Code, w.Body.String())
	}
	w = post(r, "/target", `{"email":"a@b.com","dailyLimit":250}`)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"limit_value":"250"`) {
		t.Errorf("设置限额: %d %s", w.Code, w.Body.String())
	}
}

func TestRelayLogin_UnknownUser(t *testing.T) {
	w := post(relayEngine(&fakeRelayStore{}), "/login", `{"username":"ghost@b.com","password":"x"}`)
	if w.Code != http.StatusBadRequest || messageOf(t, w) != MsgInvalidCredentials {
		t.Errorf("login = %d %s", w.Code, w.Body.String())
	}
}

// ============ 计划进度 ============

func TestComputeProgress(t *testing.T) {
	d := decimal.RequireFromString
	month := finance.NewDay(2024, 3, 1)

	p := ComputeProgress(month, &models.Plan{LimitValue: d("400"), TargetValue: d("0")},
		finance.Summary{Income: d("300"), Expenses: d("500"), Balance: d("-200")})
	if !p.OverBudget || !p.PercentUsed.Equal(d("125")) || !p.Remaining.Equal(d("-100")) {
		t.Errorf("超预算: %+v", p)
	}
	if !p.TargetPct.IsZero() || p.TargetReached {
		t.Errorf("没有目标时不应有进度: %+v", p)
	}

	p = ComputeProgress(month, &models.Plan{}, finance.Summary{})
	if !p.PercentUsed.IsZero() || p.OverBudget || p.Month != "2024-03" {
		t.Errorf("空计划: %+v", p)
	}
}

// ============ 导出 ============

func TestExportRows_Localized(t *testing.T) {
	entries := []finance.Entry{
		{ID: 1, In: decimal.Zero, Out: decimal.RequireFromString("12.5"), Category: "Food", Remark: "noodles", Date: "2024-03-15", Time: "12:00:00"},
		{ID: 2, In: decimal.NewFromInt(100), Out: decimal.Zero, Category: "Salary", Date: "2024-03-14"},
	}

	zh := ExportRows(entries, finance.Chinese)
	if len(zh) != 3 || zh[0][0] != "日期" {
		t.Fatalf("rows = %v", zh)
	}
	if got := zh[1]; got[2] != "支出" || got[3] != "食品" || got[4] != "12.50" {
		t.Errorf("row 1 = %v", got)
	}

	en := ExportRows(entries, finance.Language("fr"))
	if en[0][0] != "Date" || en[2][2] != "Income" || en[2][4] != "100.00" {
		t.Errorf("fallback rows = %v", en)
	}
}

func TestBuildWorkbook(t *testing.T) {
	f, err := BuildWorkbook([][]string{{"Date", "Amount"}, {"2024-03-15", "9.90"}})
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if got, _ := f.GetCellValue(sheetName, "B2"); got != "9.90" {
		t.Errorf("B2 = %q", got)
	}
	if idx, _ := f.GetSheetIndex("Sheet1"); idx != -1 {
		t.Error("default sheet should be renamed")
	}
}
