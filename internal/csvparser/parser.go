// =============================================================================
// Delimited Converter - Row Parser Module
// =============================================================================
//
// This module splits decoded delimited text into rows. It handles:
//   - Any single-character delimiter (comma, pipe, tab, semicolon, ...)
//   - Whitespace-run delimited files (columns separated by one or more blanks)
//   - Quoted fields, including quoted delimiters and embedded newlines
//   - An optional header row
//
// The parser does not trim or otherwise rewrite cell values, so a table
// written back out as CSV reproduces the original cells.
//
// =============================================================================

package csvparser

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/ginjaninja78/delimited-converter/internal/types"
)

// Whitespace is the delimiter value meaning "runs of blanks".
// It matches delimiter.Whitespace.
const Whitespace = ' '

// Settings controls how text is split into rows.
type Settings struct {
	// Delimiter is the resolved field separator. Must not be zero.
	Delimiter rune

	// HasHeaders makes the first row the header row.
	HasHeaders bool
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse splits content into a RowTable.
//
// PARAMETERS:
//   - content: The decoded file content.
//   - settings: The resolved delimiter and header flag.
//
// RETURNS:
//   - The parsed table. Blank lines are skipped.
//   - A ParseError if the content is malformed, or an EmptyInputError if it
//     holds no rows.
func Parse(content string, settings Settings) (*types.RowTable, error) {
	var (
		rows  [][]string
		lines []int
		err   error
	)

	if settings.Delimiter == Whitespace {
		rows, lines = splitWhitespace(content)
	} else {
		rows, lines, err = readDelimited(content, settings.Delimiter)
		if err != nil {
			return nil, err
		}
	}

	if len(rows) == 0 {
		return nil, types.NewError(types.KindEmptyInput, "", "no rows found")
	}

	table := &types.RowTable{Rows: rows, LineNumbers: lines}
	if settings.HasHeaders {
		table.Header = rows[0]
		table.Rows = rows[1:]
		table.LineNumbers = lines[1:]
	}

	return table, nil
}

// readDelimited reads content with encoding/csv.
//
// The reader is configured the same way for every file:
//   - FieldsPerRecord = -1: ragged rows are returned as-is and handled later
//     by the row policy
//   - LazyQuotes: stray quotes inside unquoted fields are kept literally
//   - no TrimLeadingSpace: cells are preserved exactly
func readDelimited(content string, delim rune) ([][]string, []int, error) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = false

	var (
		rows  [][]string
		lines []int
	)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, nil, types.NewError(types.KindParse, "", "line %d: %v", parseErr.Line, parseErr.Err)
			}
			// Invalid delimiter and similar reader configuration errors.
			return nil, nil, types.WrapError(types.KindParse, "", err)
		}

		line, _ := reader.FieldPos(0)
		rows = append(rows, record)
		lines = append(lines, line)
	}

	return rows, lines, nil
}

// splitWhitespace splits each non-blank line on runs of spaces and tabs.
// Quoting is not interpreted in this mode.
func splitWhitespace(content string) ([][]string, []int) {
	var (
		rows  [][]string
		lines []int
	)

	for i, line := range strings.Split(content, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		rows = append(rows, fields)
		lines = append(lines, i+1)
	}

	return rows, lines
}
