package writer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/delimited-converter/internal/types"
)

// DefaultSheetName is the worksheet created by excelize.NewFile.
const DefaultSheetName = "Sheet1"

// ExcelWriter writes a workbook with one worksheet, one spreadsheet row per
// table row. Every cell is stored as a string so values are not reinterpreted.
//
// The workbook is always OOXML, including for ".xls" targets.
type ExcelWriter struct {
	// SheetName is the worksheet name. Empty means DefaultSheetName.
	SheetName string
}

// Format implements Writer.
func (e *ExcelWriter) Format() types.Format {
	return types.FormatExcel
}

// Write implements Writer.
func (e *ExcelWriter) Write(w io.Writer, table *types.RowTable) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := e.SheetName
	if sheet == "" {
		sheet = DefaultSheetName
	}
	if sheet != DefaultSheetName {
		if err := f.SetSheetName(DefaultSheetName, sheet); err != nil {
			return fmt.Errorf("failed to name worksheet: %w", err)
		}
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to open worksheet: %w", err)
	}

	rowNum := 1
	if table.Header != nil {
		if err := setRow(sw, rowNum, table.Header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		rowNum++
	}
	for i, row := range table.Rows {
		if err := setRow(sw, rowNum, row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
		rowNum++
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush worksheet: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// setRow writes cells as strings starting at column A of rowNum.
func setRow(sw *excelize.StreamWriter, rowNum int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}

	values := make([]interface{}, len(cells))
	for i, v := range cells {
		values[i] = v
	}
	return sw.SetRow(cell, values)
}
