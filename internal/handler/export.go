package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"

	"cash-flow/internal/finance"
	"cash-flow/internal/models"
	"cash-flow/internal/store"
	"cash-flow/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

type ExportHandler struct {
	Store *store.Store
	Clock finance.Clock
}

func NewExportHandler(st *store.Store, clock finance.Clock) *ExportHandler {
	return &ExportHandler{Store: st, Clock: clock}
}

var exportHeaders = map[finance.Language][]string{
	finance.English: {"Date", "Time", "Type", "Category", "Amount", "Remark"},
	finance.Chinese: {"日期", "时间", "类型", "类别", "金额", "备注"},
}

var directionLabels = map[finance.Language]map[finance.Direction]string{
	finance.English: {finance.Income: "Income", finance.Expense: "Expense"},
	finance.Chinese: {finance.Income: "收入", finance.Expense: "支出"},
}

// ExportRows renders entries as table rows in lang, header first.
func ExportRows(entries []finance.Entry, lang finance.Language) [][]string {
	headers, ok := exportHeaders[lang]
	if !ok {
		lang = finance.English
		headers = exportHeaders[lang]
	}
	rows := make([][]string, 0, len(entries)+1)
	rows = append(rows, headers)
	for _, e := range entries {
		dir := e.Direction()
		rows = append(rows, []string{
			e.Date,
			e.Time,
			directionLabels[lang][dir],
			finance.Label(finance.Normalize(e.Category), lang),
			finance.FormatAmount(e.Amount(dir)),
			e.Remark,
		})
	}
	return rows
}

// loadExport reads the caller's entries, optionally limited by ?month=YYYY-MM.
func (h *ExportHandler) loadExport(c *gin.Context) ([][]string, bool) {
	app, ok := currentApp(c)
	if !ok {
		return nil, false
	}

	rows, err := h.Store.CashFlowsByOwner(c.Request.Context(), app.Email)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "查询失败")
		return nil, false
	}
	entries := models.Entries(rows)

	if raw := strings.TrimSpace(c.Query("month")); raw != "" {
		m, err := finance.ParseMonth(raw)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "month must be YYYY-MM")
			return nil, false
		}
		entries = finance.FilterMonth(entries, m)
	}

	return ExportRows(entries, app.Language), true
}

func (h *ExportHandler) filename(ext string) string {
	return fmt.Sprintf("attachment; filename=\"cashflow_%s.%s\"", h.Clock.Time().Format("20060102"), ext)
}

// ExportCSV 导出为 CSV
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	table, ok := h.loadExport(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", h.filename("csv"))
	c.Status(http.StatusOK)

	// UTF-8 BOM（让 Excel 正确识别中文）
	_, _ = c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	w := csv.NewWriter(c.Writer)
	_ = w.WriteAll(table)
}

// ExportXLSX 导出为 XLSX
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	table, ok := h.loadExport(c)
	if !ok {
		return
	}

	f, err := BuildWorkbook(table)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "创建工作表失败")
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", h.filename("xlsx"))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "导出失败")
	}
}

const sheetName = "CashFlow"

var columnWidths = []float64{12, 10, 10, 15, 12, 30}

// BuildWorkbook writes table to a single-sheet workbook.
func BuildWorkbook(table [][]string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	for r, row := range table {
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, r+1)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, err
			}
		}
	}

	for i, w := range columnWidths {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheetName, name, name, w); err != nil {
			return nil, err
		}
	}
	return f, nil
}
