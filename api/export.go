package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"katha/models"
	"katha/stats"
)

// ExportHandler 导出处理器
type ExportHandler struct {
	*Deps
}

// NewExportHandler 创建导出处理器
func NewExportHandler(d *Deps) *ExportHandler {
	return &ExportHandler{Deps: d}
}

var exportHeaders = []string{"ID", "Date", "Category", "Amount", "Merchant", "Location", "Description"}

// monthExpenses 查询某月支出，失败时已写入响应
func (h *ExportHandler) monthExpenses(c *gin.Context, userID uint) ([]models.Expense, int, int, bool) {
	month, year := monthOrCurrent(c, h.now())
	start, end := stats.MonthRange(month, year)

	var expenses []models.Expense
	err := h.DB.WithContext(c.Request.Context()).
		Preload("Category").
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Order("date DESC").
		Find(&expenses).Error
	if err != nil {
		InternalError(c, err)
		return nil, 0, 0, false
	}
	return expenses, month, year, true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func exportRow(e models.Expense) []string {
	return []string{
		fmt.Sprintf("%d", e.ID),
		e.Date.Local().Format("2006-01-02 15:04:05"),
		e.CategoryName(),
		fmt.Sprintf("%.2f", e.Amount),
		deref(e.Merchant),
		deref(e.Location),
		deref(e.Description),
	}
}

// ExportCSV 导出某月支出为 CSV
// @Summary 导出支出 CSV
// @Description month/year 缺省为当前月份
// @Tags 导出
// @Produce text/csv
// @Security BearerAuth
// @Param month query int false "月份 1-12"
// @Param year query int false "年份"
// @Success 200 {file} file "CSV 文件"
// @Failure 401 {object} ErrorResponse "未授权"
// @Router /api/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	expenses, month, year, ok := h.monthExpenses(c, user.ID)
	if !ok {
		return
	}

	buf := new(bytes.Buffer)
	// 添加 BOM 以便 Excel 正确识别 UTF-8
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)
	if err := writer.Write(exportHeaders); err != nil {
		InternalError(c, err)
		return
	}
	for _, e := range expenses {
		if err := writer.Write(exportRow(e)); err != nil {
			InternalError(c, err)
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, err)
		return
	}

	filename := fmt.Sprintf("expenses_%d-%02d.csv", year, month)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportExcel 导出某月支出为 Excel，末行为合计
// @Summary 导出支出 Excel
// @Tags 导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param month query int false "月份 1-12"
// @Param year query int false "年份"
// @Success 200 {file} file "xlsx 文件"
// @Failure 401 {object} ErrorResponse "未授权"
// @Router /api/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	expenses, month, year, ok := h.monthExpenses(c, user.ID)
	if !ok {
		return
	}

	f, err := buildExpenseWorkbook(expenses, time.Month(month).String()+" "+fmt.Sprint(year))
	if err != nil {
		InternalError(c, err)
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		InternalError(c, err)
		return
	}

	filename := fmt.Sprintf("expenses_%d-%02d.xlsx", year, month)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// buildExpenseWorkbook 生成支出工作簿
func buildExpenseWorkbook(expenses []models.Expense, sheetName string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		f.Close()
		return nil, err
	}

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "center"},
		Border:    border,
	})
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})

	// 设置列宽
	_ = f.SetColWidth(sheetName, "A", "A", 8)
	_ = f.SetColWidth(sheetName, "B", "B", 20)
	_ = f.SetColWidth(sheetName, "C", "C", 18)
	_ = f.SetColWidth(sheetName, "D", "D", 12)
	_ = f.SetColWidth(sheetName, "E", "F", 18)
	_ = f.SetColWidth(sheetName, "G", "G", 30)

	// 写入表头
	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
	}
	_ = f.SetCellStyle(sheetName, "A1", "G1", headerStyle)

	// 写入数据
	var total float64
	for i, e := range expenses {
		row := i + 2
		values := []interface{}{
			e.ID,
			e.Date.Local().Format("2006-01-02 15:04:05"),
			e.CategoryName(),
			e.Amount,
			deref(e.Merchant),
			deref(e.Location),
			deref(e.Description),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheetName, cell, v)
		}
		_ = f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("G%d", row), dataStyle)
		total += e.Amount
	}

	// 合计行
	summaryRow := len(expenses) + 2
	_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow), "Total")
	_ = f.MergeCell(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("C%d", summaryRow))
	_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", summaryRow), total)
	_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", summaryRow), fmt.Sprintf("%d records", len(expenses)))
	_ = f.MergeCell(sheetName, fmt.Sprintf("E%d", summaryRow), fmt.Sprintf("G%d", summaryRow))
	_ = f.SetCellStyle(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("G%d", summaryRow), summaryStyle)

	return f, nil
}
