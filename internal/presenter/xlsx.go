package presenter

import (
	"fmt"

	"SwingHunter/internal/logger"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the screening table.
const SheetName = "Screening"

var xlsxHeader = []any{"Ticker", "Close", "Label", "RSI", "Volume Ratio", "MA20"}

// ExportXLSX writes the summary table to a workbook and returns its bytes.
// An empty report yields a workbook holding only the no-data notice.
func ExportXLSX(r Report) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logger.L().Error().Err(err).Msg("close workbook")
		}
	}()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if r.Empty() {
		if err := f.SetCellStr(SheetName, "A1", NoDataNotice); err != nil {
			return nil, err
		}
		return writeWorkbook(f)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#cfe2f3"}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &xlsxHeader); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(SheetName, "A1", "F1", headerStyle); err != nil {
		return nil, fmt.Errorf("apply header style: %w", err)
	}

	labelStyles := map[string]int{}
	for i, row := range r.Rows {
		line := i + 2
		start, err := excelize.CoordinatesToCellName(1, line)
		if err != nil {
			return nil, err
		}
		values := []any{row.Ticker, row.Close, row.Label, row.RSI, row.VolumeRatio, row.MA20}
		if err := f.SetSheetRow(SheetName, start, &values); err != nil {
			return nil, err
		}

		styleID, ok := labelStyles[row.Color]
		if !ok {
			styleID, err = f.NewStyle(&excelize.Style{
				Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{row.Color}},
				Font: &excelize.Font{Color: "#000000"},
			})
			if err != nil {
				return nil, fmt.Errorf("label style: %w", err)
			}
			labelStyles[row.Color] = styleID
		}
		cell, err := excelize.CoordinatesToCellName(3, line)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(SheetName, cell, cell, styleID); err != nil {
			return nil, fmt.Errorf("apply label style: %w", err)
		}
	}

	_ = f.SetColWidth(SheetName, "C", "C", 20)
	_ = f.SetColWidth(SheetName, "E", "E", 14)
	return writeWorkbook(f)
}

func writeWorkbook(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
