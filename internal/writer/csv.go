package writer

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/ginjaninja78/delimited-converter/internal/types"
)

// CSVWriter writes RFC 4180 CSV with LF line endings. Fields containing the
// delimiter, a quote, or a line break are quoted; quotes are doubled.
type CSVWriter struct {
	// Delimiter is the output separator. Zero means comma.
	Delimiter rune
}

// Format implements Writer.
func (c *CSVWriter) Format() types.Format {
	return types.FormatCSV
}

// Write implements Writer.
func (c *CSVWriter) Write(w io.Writer, table *types.RowTable) error {
	buf := bufio.NewWriter(w)
	cw := csv.NewWriter(buf)
	if c.Delimiter != 0 {
		cw.Comma = c.Delimiter
	}

	if table.Header != nil {
		if err := cw.Write(table.Header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	for i, row := range table.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Flush()
}
