package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"p9e.in/leakwatch/logger"
	"p9e.in/leakwatch/models"
)

const leakSheet = "Leaks"

var exportHeaders = []string{
	"ID", "Title", "Status", "Leak Type", "Severity", "Location",
	"Latitude", "Longitude", "Validated", "Images", "Reporter ID", "Created", "Updated",
}

// ExportLeaks godoc
// @Summary Download every leak as an XLSX workbook (admin)
// @Security BearerAuth
// @Success 200 {file} file
// @Failure 401,403 {object} messageResponse
// @Router /api/admin/leaks/export [get]
func (h *Handler) ExportLeaks(w http.ResponseWriter, r *http.Request) {
	log := logger.WithContext(r.Context(), h.log)

	leaks, err := h.store.GetLeaks(r.Context())
	if err != nil {
		log.Error("fetch leaks for export", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Failed to fetch leaks")
		return
	}

	now := time.Now()
	f, err := createLeakWorkbook(leaks, now)
	if err != nil {
		log.Error("build leak workbook", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Failed to generate Excel file")
		return
	}
	defer f.Close()

	buffer, err := f.WriteToBuffer()
	if err != nil {
		log.Error("write leak workbook", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Failed to write Excel file")
		return
	}

	filename := fmt.Sprintf("leaks_%s.xlsx", now.Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buffer.Len()))

	w.WriteHeader(http.StatusOK)
	w.Write(buffer.Bytes())
}

// createLeakWorkbook lays out a title row, a generation timestamp, a header
// row on row 4 and one row per leak from row 5.
func createLeakWorkbook(leaks []models.Leak, generated time.Time) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(leakSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	f.SetCellValue(leakSheet, "A1", "Leak Reports")
	f.SetCellStyle(leakSheet, "A1", "A1", titleStyle)
	f.SetRowHeight(leakSheet, 1, 30)
	f.SetCellValue(leakSheet, "A2", fmt.Sprintf("Generated: %s", generated.Format("2006-01-02 15:04:05")))

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 4)
		f.SetCellValue(leakSheet, cell, header)
		f.SetCellStyle(leakSheet, cell, cell, headerStyle)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(exportHeaders))
	f.SetColWidth(leakSheet, "A", lastCol, 18)

	for i := range leaks {
		l := &leaks[i]
		pt := l.Point()
		reporter := ""
		if l.UserID != nil {
			reporter = fmt.Sprintf("%d", *l.UserID)
		}
		row := []interface{}{
			l.ID, l.Title, l.Status, l.LeakType, l.Severity, l.Location,
			pt.Lat, pt.Lng, l.IsValidated, strings.Join(l.Images, ", "), reporter,
			l.CreatedAt.Format("2006-01-02 15:04:05"), l.UpdatedAt.Format("2006-01-02 15:04:05"),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+5)
		if err := f.SetSheetRow(leakSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}
