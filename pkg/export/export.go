// Package export renders the inventory page state into downloadable files.
// The columns are scraped from the card display state so the file mirrors
// exactly what the page shows.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/infrazen/console/pkg/domain"
	"github.com/infrazen/console/pkg/logger"
)

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

const (
	summarySheet = "Сводка"
	detailSheet  = "Ресурсы"
)

var (
	summaryHeader = []string{"Провайдер", "Ресурсов", "Стоимость в месяц, ₽", "RAM, МБ"}
	detailHeader  = []string{"Провайдер", "Ресурс", "Статус", "Регион", "Стоимость в месяц, ₽", "RAM, МБ"}
)

// Export builds the requested format. A workbook failure degrades to the CSV
// fallback instead of failing the download.
func Export(sections []domain.ProviderSection, format Format) (domain.File, error) {
	if format == FormatCSV {
		return CSV(sections), nil
	}

	file, err := XLSX(sections)
	if err != nil {
		slog.Error("building workbook, falling back to csv", logger.Err(err))
		return CSV(sections), nil
	}
	return file, nil
}

// XLSX builds a workbook with a summary sheet and a per-card detail sheet.
// An inventory with zero cards still produces a valid summary-only workbook.
func XLSX(sections []domain.ProviderSection) (domain.File, error) {
	f := excelize.NewFile()

	f.SetSheetName(f.GetSheetName(0), summarySheet)
	writeRow(f, summarySheet, 1, summaryHeader)
	for i, row := range summaryRows(sections) {
		writeRow(f, summarySheet, i+2, row)
	}

	if hasCards(sections) {
		if _, err := f.NewSheet(detailSheet); err != nil {
			return domain.File{}, fmt.Errorf("creating detail sheet: %v", err)
		}
		writeRow(f, detailSheet, 1, detailHeader)
		for i, row := range detailRows(sections) {
			writeRow(f, detailSheet, i+2, row)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return domain.File{}, fmt.Errorf("writing workbook: %v", err)
	}

	return domain.File{
		Name: exportName("xlsx"),
		MIME: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data: buf.Bytes(),
	}, nil
}

// CSV builds a BOM-prefixed CSV with the same column semantics: the summary
// block followed by the detail block.
func CSV(sections []domain.ProviderSection) domain.File {
	var buf bytes.Buffer
	buf.WriteString("\xEF\xBB\xBF")

	w := csv.NewWriter(&buf)
	w.Write(summaryHeader)
	for _, row := range summaryRows(sections) {
		w.Write(row)
	}

	if hasCards(sections) {
		w.Write(nil)
		w.Write(detailHeader)
		for _, row := range detailRows(sections) {
			w.Write(row)
		}
	}
	w.Flush()

	return domain.File{
		Name: exportName("csv"),
		MIME: "text/csv; charset=utf-8",
		Data: buf.Bytes(),
	}
}

func summaryRows(sections []domain.ProviderSection) [][]string {
	rows := make([][]string, 0, len(sections))
	for _, s := range sections {
		var cost float64
		var ram int
		for _, c := range s.Cards {
			cost += c.MonthlyCost
			ram += c.RAMMB
		}
		rows = append(rows, []string{
			s.Provider,
			strconv.Itoa(len(s.Cards)),
			formatCost(cost),
			strconv.Itoa(ram),
		})
	}
	return rows
}

func detailRows(sections []domain.ProviderSection) [][]string {
	var rows [][]string
	for _, s := range sections {
		for _, c := range s.Cards {
			rows = append(rows, []string{
				s.Provider,
				c.Name,
				c.Status,
				c.Region,
				formatCost(c.MonthlyCost),
				strconv.Itoa(c.RAMMB),
			})
		}
	}
	return rows
}

func hasCards(sections []domain.ProviderSection) bool {
	for _, s := range sections {
		if len(s.Cards) > 0 {
			return true
		}
	}
	return false
}

func formatCost(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func writeRow(f *excelize.File, sheet string, row int, values []string) {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			continue
		}
		f.SetCellValue(sheet, cell, v)
	}
}

func exportName(ext string) string {
	return "infrazen-resources-" + time.Now().Format("2006-01-02") + "." + ext
}
