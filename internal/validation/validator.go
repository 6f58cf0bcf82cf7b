// =============================================================================
// Delimited Converter - Row Width Validation Module
// =============================================================================
//
// This module enforces the row-width invariant of a RowTable: after it runs,
// every data row has the same number of cells as the header (or as the table
// width when there is no header).
//
// POLICIES:
//   pad      (default) Width is the widest of the header and all rows. Short
//            rows and a short header get empty cells appended. Nothing is lost.
//   truncate Width is the header length, or the first row's length without a
//            header. Long rows are cut, short rows are padded.
//   reject   Width as for truncate. The first mismatched row fails with a
//            RowLengthError that names its source line.
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/delimited-converter/internal/types"
)

// =============================================================================
// VALIDATION ERROR STRUCTURE
// =============================================================================

// RowLengthError describes a row whose cell count does not match the table width.
type RowLengthError struct {
	// Row is the 1-based index of the data row.
	Row int

	// Line is the 1-based source line, or 0 when unknown.
	Line int

	// Expected is the table width.
	Expected int

	// Actual is the row's cell count.
	Actual int
}

// Error implements the error interface.
func (e *RowLengthError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: expected %d fields, found %d", e.Line, e.Expected, e.Actual)
	}
	return fmt.Sprintf("row %d: expected %d fields, found %d", e.Row, e.Expected, e.Actual)
}

// =============================================================================
// VALIDATION RESULT STRUCTURE
// =============================================================================

// Result summarizes what Normalize changed.
type Result struct {
	// Width is the final cell count of every row.
	Width int

	// PaddedRows is the number of rows that received empty cells.
	PaddedRows int

	// TruncatedRows is the number of rows that lost cells.
	TruncatedRows int

	// PaddedHeader is true when the header itself was padded.
	PaddedHeader bool
}

// Changed reports whether any row was modified.
func (r Result) Changed() bool {
	return r.PaddedRows > 0 || r.TruncatedRows > 0 || r.PaddedHeader
}

// =============================================================================
// VALIDATION FUNCTIONS
// =============================================================================

// Normalize applies the row policy to the table in place.
//
// PARAMETERS:
//   - table: The parsed table. Rows are rewritten in place.
//   - policy: The row policy. Empty means RowPolicyPad.
//
// RETURNS:
//   - A Result describing the changes.
//   - A RowLengthError (kind types.KindRowLength) under RowPolicyReject, or an
//     error for an unknown policy.
func Normalize(table *types.RowTable, policy types.RowPolicy) (Result, error) {
	switch policy {
	case "", types.RowPolicyPad:
		return pad(table), nil
	case types.RowPolicyTruncate:
		return truncate(table), nil
	case types.RowPolicyReject:
		return reject(table)
	}
	return Result{}, types.NewError(types.KindInvalidRequest, "", "unknown row policy %q", policy)
}

// ParsePolicy converts a configuration value to a RowPolicy.
func ParsePolicy(value string) (types.RowPolicy, error) {
	policy := types.RowPolicy(strings.ToLower(strings.TrimSpace(value)))
	if !policy.Valid() {
		return "", fmt.Errorf("unknown row policy %q (want pad, truncate or reject)", value)
	}
	if policy == "" {
		policy = types.RowPolicyPad
	}
	return policy, nil
}

func pad(table *types.RowTable) Result {
	width := len(table.Header)
	for _, row := range table.Rows {
		if len(row) > width {
			width = len(row)
		}
	}

	result := Result{Width: width}
	if table.Header != nil && len(table.Header) < width {
		table.Header = padRow(table.Header, width)
		result.PaddedHeader = true
	}
	for i, row := range table.Rows {
		if len(row) < width {
			table.Rows[i] = padRow(row, width)
			result.PaddedRows++
		}
	}
	return result
}

func truncate(table *types.RowTable) Result {
	width := table.Width()
	result := Result{Width: width}

	for i, row := range table.Rows {
		switch {
		case len(row) > width:
			table.Rows[i] = row[:width:width]
			result.TruncatedRows++
		case len(row) < width:
			table.Rows[i] = padRow(row, width)
			result.PaddedRows++
		}
	}
	return result
}

func reject(table *types.RowTable) (Result, error) {
	width := table.Width()

	for i, row := range table.Rows {
		if len(row) != width {
			cause := &RowLengthError{
				Row:      i + 1,
				Line:     table.LineOf(i),
				Expected: width,
				Actual:   len(row),
			}
			return Result{}, types.WrapError(types.KindRowLength, "", cause)
		}
	}
	return Result{Width: width}, nil
}

// padRow returns row extended with empty cells to width.
func padRow(row []string, width int) []string {
	padded := make([]string, width)
	copy(padded, row)
	return padded
}
