// =============================================================================
// Delimited Converter - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - csvparser
//   - validation
//   - writer
//   - converter
//
// =============================================================================

package types

import (
	"path/filepath"
	"strings"
	"time"
)

// =============================================================================
// CONVERSION REQUEST
// =============================================================================

// ConversionRequest describes a single file conversion.
// It is built once per call and passed by value.
type ConversionRequest struct {
	// InputPath is the delimited text file to read.
	InputPath string

	// OutputPath is the file to write. Its extension selects the format.
	OutputPath string

	// Delimiter is the explicit field separator.
	// Zero means the delimiter is detected from the file content.
	// A space means "runs of whitespace".
	Delimiter rune

	// HasHeaders makes the first row the header row.
	HasHeaders bool

	// RowPolicy decides what happens to rows with a mismatched cell count.
	// Empty means RowPolicyPad.
	RowPolicy RowPolicy

	// Encoding is the text encoding of the input file.
	// Empty means UTF-8.
	Encoding string

	// OutputDelimiter is the separator used when writing CSV.
	// Zero means comma.
	OutputDelimiter rune

	// SheetName is the worksheet name used when writing Excel.
	// Empty means "Sheet1".
	SheetName string
}

// =============================================================================
// ROW TABLE
// =============================================================================

// RowTable is the in-memory tabular data shared between the parser and
// the output writers.
type RowTable struct {
	// Header is the header row. It is nil when the input has no headers.
	Header []string

	// Rows contains the data rows, in file order.
	Rows [][]string

	// LineNumbers holds the 1-based source line of each data row.
	// Used for error reporting; may be nil for tables built in memory.
	LineNumbers []int
}

// HasHeader reports whether the table carries a header row.
func (t *RowTable) HasHeader() bool {
	return t.Header != nil
}

// Width returns the cell count of the header, or of the first row when
// there is no header.
func (t *RowTable) Width() int {
	if t.Header != nil {
		return len(t.Header)
	}
	if len(t.Rows) > 0 {
		return len(t.Rows[0])
	}
	return 0
}

// LineOf returns the source line of data row i, or 0 when unknown.
func (t *RowTable) LineOf(i int) int {
	if i < len(t.LineNumbers) {
		return t.LineNumbers[i]
	}
	return 0
}

// =============================================================================
// ROW POLICY
// =============================================================================

// RowPolicy controls how rows with a mismatched cell count are handled.
type RowPolicy string

const (
	// RowPolicyPad pads short rows (and a short header) with empty cells up
	// to the widest row. No data is dropped.
	RowPolicyPad RowPolicy = "pad"

	// RowPolicyTruncate cuts long rows and pads short ones to the header width.
	RowPolicyTruncate RowPolicy = "truncate"

	// RowPolicyReject fails the conversion on the first mismatched row.
	RowPolicyReject RowPolicy = "reject"
)

// Valid reports whether p is a known policy. The empty policy is valid and
// means RowPolicyPad.
func (p RowPolicy) Valid() bool {
	switch p {
	case "", RowPolicyPad, RowPolicyTruncate, RowPolicyReject:
		return true
	}
	return false
}

// =============================================================================
// OUTPUT FORMATS
// =============================================================================

// Format is one of the supported output formats.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatExcel Format = "excel"
)

// Extension returns the file extension written for the format.
func (f Format) Extension() string {
	if f == FormatExcel {
		return ".xlsx"
	}
	return ".csv"
}

// FormatForPath maps an output path to its format by extension.
// The second return value is false for unsupported extensions.
func FormatForPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, true
	case ".xlsx", ".xls":
		return FormatExcel, true
	}
	return "", false
}

// ParseFormat maps a configuration value ("csv", "excel", "xlsx") to a Format.
func ParseFormat(name string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "csv":
		return FormatCSV, true
	case "excel", "xlsx", "xls":
		return FormatExcel, true
	}
	return "", false
}

// =============================================================================
// BATCH RESULT
// =============================================================================

// Entry is the outcome of converting one file in a batch.
type Entry struct {
	// InputPath is the file that was converted.
	InputPath string

	// OutputPath is the file written on success, or the intended target on failure.
	OutputPath string

	// Err is nil on success.
	Err error
}

// Succeeded reports whether the entry is a success.
func (e Entry) Succeeded() bool {
	return e.Err == nil
}

// Kind returns the machine-readable failure reason, or "" on success.
func (e Entry) Kind() ErrorKind {
	if e.Err == nil {
		return ""
	}
	return KindOf(e.Err)
}

// BatchResult covers every matched file of one batch run, in enumeration order.
type BatchResult struct {
	// RunID identifies the batch run in logs and summary files.
	RunID string

	// InputDir and OutputDir are the folders the batch ran against.
	InputDir  string
	OutputDir string

	StartTime time.Time
	EndTime   time.Time

	// Entries holds one entry per matched file.
	Entries []Entry
}

// Outcome returns the entry for an input path.
func (r *BatchResult) Outcome(inputPath string) (Entry, bool) {
	for _, e := range r.Entries {
		if e.InputPath == inputPath {
			return e, true
		}
	}
	return Entry{}, false
}

// Successful returns the number of successful conversions.
func (r *BatchResult) Successful() int {
	n := 0
	for _, e := range r.Entries {
		if e.Succeeded() {
			n++
		}
	}
	return n
}

// Failed returns the number of failed conversions.
func (r *BatchResult) Failed() int {
	return len(r.Entries) - r.Successful()
}

// Failures returns the failed entries in enumeration order.
func (r *BatchResult) Failures() []Entry {
	var failed []Entry
	for _, e := range r.Entries {
		if !e.Succeeded() {
			failed = append(failed, e)
		}
	}
	return failed
}
