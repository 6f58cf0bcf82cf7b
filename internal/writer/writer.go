// =============================================================================
// Delimited Converter - Output Writer Module
// =============================================================================
//
// This module writes a RowTable to disk in one of a closed set of formats:
//   - CSV   (.csv)          RFC 4180 quoting via encoding/csv
//   - Excel (.xlsx, .xls)   a single worksheet via excelize
//
// The format is chosen by a pure mapping from the output path's extension
// (types.FormatForPath). Each format implements the Writer interface.
//
// ATOMIC WRITES:
//   Output is written to a hidden temporary file next to the target
//   (".<name>.<uuid>.tmp"), synced, and renamed over the target. On any
//   failure the temporary file is removed, so the target is either the
//   previous file or the complete new one.
//
// =============================================================================

package writer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/ginjaninja78/delimited-converter/internal/types"
)

// Writer encodes a RowTable into w.
type Writer interface {
	// Write emits the header (when present) followed by all rows.
	Write(w io.Writer, table *types.RowTable) error

	// Format returns the format the writer produces.
	Format() types.Format
}

// Options carries per-format settings.
type Options struct {
	// CSVDelimiter is the output separator for CSV. Zero means comma.
	CSVDelimiter rune

	// SheetName is the worksheet name for Excel. Empty means "Sheet1".
	SheetName string
}

// New returns the writer for a format.
func New(format types.Format, opts Options) (Writer, error) {
	switch format {
	case types.FormatCSV:
		return &CSVWriter{Delimiter: opts.CSVDelimiter}, nil
	case types.FormatExcel:
		return &ExcelWriter{SheetName: opts.SheetName}, nil
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

// ForPath returns the writer selected by the extension of path.
//
// RETURNS:
//   - The writer for ".csv", ".xlsx" or ".xls" (case-insensitive).
//   - An UnsupportedFormatError for any other extension.
func ForPath(path string, opts Options) (Writer, error) {
	format, ok := types.FormatForPath(path)
	if !ok {
		return nil, types.NewError(types.KindUnsupportedFormat, path,
			"unsupported output extension %q (want .csv, .xlsx or .xls)", filepath.Ext(path))
	}
	return New(format, opts)
}

// =============================================================================
// FILE OUTPUT
// =============================================================================

// WriteFile writes table to path atomically using w.
//
// PARAMETERS:
//   - path: The output file. Its directory is created if missing.
//   - table: The data to write.
//   - w: The format writer.
//
// RETURNS:
//   - A WriteError if any step fails. The target is left untouched in that case.
func WriteFile(path string, table *types.RowTable, w Writer) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return types.WrapError(types.KindWrite, path, fmt.Errorf("failed to create output directory: %w", err))
	}

	tmpPath := TempPath(path)
	file, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return types.WrapError(types.KindWrite, path, fmt.Errorf("failed to create temporary file: %w", err))
	}

	// Remove the temporary file on every failure path.
	defer func() {
		if err != nil {
			file.Close()
			os.Remove(tmpPath)
		}
	}()

	if err = w.Write(file, table); err != nil {
		return types.WrapError(types.KindWrite, path, err)
	}
	if err = file.Sync(); err != nil {
		return types.WrapError(types.KindWrite, path, fmt.Errorf("failed to sync output: %w", err))
	}
	if err = file.Close(); err != nil {
		return types.WrapError(types.KindWrite, path, fmt.Errorf("failed to close output: %w", err))
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return types.WrapError(types.KindWrite, path, fmt.Errorf("failed to move output into place: %w", err))
	}

	return nil
}

// TempPath returns a unique hidden sibling path for path.
func TempPath(path string) string {
	dir, name := filepath.Split(path)
	return filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", name, uuid.New().String()))
}
