// =============================================================================
// Delimited Converter - Converter Module
// =============================================================================
//
// This module contains the core conversion logic. It runs the conversion
// pipeline for a single file, from reading the delimited text to writing the
// CSV or Excel output.
//
// CONVERSION PIPELINE:
//   1. Read the input file
//   2. Decode the text (UTF-8 by default, strictly validated)
//   3. Resolve the delimiter (explicit, or detected from a sample)
//   4. Split the text into rows, separating the header row if requested
//   5. Apply the row policy (pad / truncate / reject)
//   6. Select the output format from the output path's extension
//   7. Write the output file atomically
//
// The batch runner (batch.go) drives this pipeline for every matching file in
// a folder.
//
// =============================================================================

package converter

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ginjaninja78/delimited-converter/internal/csvparser"
	"github.com/ginjaninja78/delimited-converter/internal/delimiter"
	"github.com/ginjaninja78/delimited-converter/internal/types"
	"github.com/ginjaninja78/delimited-converter/internal/validation"
	"github.com/ginjaninja78/delimited-converter/internal/writer"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Stats contains statistics about one conversion.
type Stats struct {
	// Delimiter is the delimiter used to split the input.
	Delimiter rune

	// Detected is true when the delimiter was detected rather than given.
	Detected bool

	// Rows is the number of data rows written (excluding the header).
	Rows int

	// Columns is the final row width.
	Columns int

	// Format is the output format.
	Format types.Format

	// ProcessingTime is the time taken by the conversion.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Settings holds converter-wide options.
type Settings struct {
	// SampleLines is the number of lines inspected by delimiter detection.
	// Zero means delimiter.DefaultSampleLines.
	SampleLines int
}

// Converter converts delimited text files to CSV or Excel.
// It holds no per-file state and is safe for concurrent use.
type Converter struct {
	settings Settings
	logger   *zap.Logger
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a Converter.
//
// PARAMETERS:
//   - settings: Converter-wide options.
//   - logger: The log sink. A nil logger discards all output.
func New(settings Settings, logger *zap.Logger) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if settings.SampleLines <= 0 {
		settings.SampleLines = delimiter.DefaultSampleLines
	}
	return &Converter{settings: settings, logger: logger}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Convert runs the conversion pipeline for one file.
//
// RETURNS:
//   - The output path on success.
//   - A *types.Error on failure. Its Kind is one of FileNotFoundError,
//     ReadError, EncodingError, EmptyInputError, ParseError, RowLengthError,
//     UnsupportedFormatError, WriteError or InvalidRequestError.
func (c *Converter) Convert(req types.ConversionRequest) (string, error) {
	_, err := c.ConvertWithStats(req)
	if err != nil {
		return "", err
	}
	return req.OutputPath, nil
}

// ConvertWithStats is Convert, also returning conversion statistics.
func (c *Converter) ConvertWithStats(req types.ConversionRequest) (*Stats, error) {
	startTime := time.Now()
	log := c.logger.With(zap.String("input", req.InputPath), zap.String("output", req.OutputPath))

	stats, err := c.convert(req, log)
	if err != nil {
		err = withPath(err, req.InputPath)
		log.Error("Conversion failed", zap.Error(err))
		return nil, err
	}

	stats.ProcessingTime = time.Since(startTime)
	log.Info("Converted file",
		zap.Int("rows", stats.Rows),
		zap.Int("columns", stats.Columns),
		zap.String("format", string(stats.Format)),
		zap.Duration("elapsed", stats.ProcessingTime),
	)
	return stats, nil
}

func (c *Converter) convert(req types.ConversionRequest, log *zap.Logger) (*Stats, error) {
	if !req.RowPolicy.Valid() {
		return nil, types.NewError(types.KindInvalidRequest, req.InputPath, "unknown row policy %q", req.RowPolicy)
	}

	// =========================================================================
	// STEP 1: READ INPUT
	// =========================================================================

	data, err := readInput(req.InputPath)
	if err != nil {
		return nil, err
	}

	// =========================================================================
	// STEP 2: DECODE
	// =========================================================================

	content, err := decode(data, req.Encoding)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, types.NewError(types.KindEmptyInput, req.InputPath, "file has no content")
	}

	// =========================================================================
	// STEP 3: RESOLVE DELIMITER
	// =========================================================================

	stats := &Stats{Delimiter: req.Delimiter}
	if stats.Delimiter == 0 {
		stats.Delimiter, err = delimiter.Detect(delimiter.Sample(content, c.settings.SampleLines))
		if err != nil {
			return nil, err
		}
		stats.Detected = true
		log.Info("Detected delimiter", zap.String("delimiter", delimiter.Name(stats.Delimiter)))
	}

	// =========================================================================
	// STEP 4: PARSE ROWS
	// =========================================================================

	table, err := csvparser.Parse(content, csvparser.Settings{
		Delimiter:  stats.Delimiter,
		HasHeaders: req.HasHeaders,
	})
	if err != nil {
		return nil, err
	}
	log.Debug("Parsed rows", zap.Int("rows", len(table.Rows)), zap.Bool("header", table.HasHeader()))

	// =========================================================================
	// STEP 5: APPLY ROW POLICY
	// =========================================================================

	result, err := validation.Normalize(table, req.RowPolicy)
	if err != nil {
		return nil, err
	}
	if result.Changed() {
		log.Warn("Rows with mismatched field counts were adjusted",
			zap.Int("padded", result.PaddedRows),
			zap.Int("truncated", result.TruncatedRows),
			zap.Bool("header_padded", result.PaddedHeader),
		)
	}

	// =========================================================================
	// STEP 6: SELECT OUTPUT FORMAT
	// =========================================================================

	w, err := writer.ForPath(req.OutputPath, writer.Options{
		CSVDelimiter: req.OutputDelimiter,
		SheetName:    req.SheetName,
	})
	if err != nil {
		return nil, err
	}

	// =========================================================================
	// STEP 7: WRITE OUTPUT
	// =========================================================================

	if err := writer.WriteFile(req.OutputPath, table, w); err != nil {
		return nil, err
	}

	stats.Rows = len(table.Rows)
	stats.Columns = result.Width
	stats.Format = w.Format()
	return stats, nil
}

// DetectDelimiter reads and decodes a file and reports the delimiter the
// pipeline would pick for it. Nothing is written.
func (c *Converter) DetectDelimiter(path, encoding string) (rune, error) {
	data, err := readInput(path)
	if err != nil {
		return 0, err
	}
	content, err := decode(data, encoding)
	if err != nil {
		return 0, withPath(err, path)
	}
	d, err := delimiter.Detect(delimiter.Sample(content, c.settings.SampleLines))
	if err != nil {
		return 0, withPath(err, path)
	}
	return d, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// readInput reads the whole input file.
func readInput(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, types.NewError(types.KindFileNotFound, path, "input file not found")
		}
		return nil, types.WrapError(types.KindRead, path, err)
	}
	if info.IsDir() {
		return nil, types.NewError(types.KindRead, path, "input path is a directory")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, types.WrapError(types.KindRead, path, err)
	}
	return data, nil
}

// withPath fills in the path of a *types.Error that was raised without one.
func withPath(err error, path string) error {
	var e *types.Error
	if errors.As(err, &e) && e.Path == "" {
		e.Path = path
	}
	return err
}
