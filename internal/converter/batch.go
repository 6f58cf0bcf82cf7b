package converter

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ginjaninja78/delimited-converter/internal/types"
	"github.com/ginjaninja78/delimited-converter/pkg/utils"
)

// BatchOptions describes a folder conversion.
type BatchOptions struct {
	// InputDir is scanned for files to convert. It must exist.
	InputDir string

	// OutputDir receives the converted files. It is created if missing.
	OutputDir string

	// Extensions selects input files by extension, case-insensitive.
	// Empty means utils.DefaultExtensions.
	Extensions []string

	// OutputFormat selects the output extension (.csv or .xlsx).
	// Empty means CSV.
	OutputFormat types.Format

	// Recursive also scans subdirectories of InputDir. Outputs are still
	// written flat into OutputDir.
	Recursive bool

	// Concurrency is the number of files converted at once.
	// Zero or one means sequential processing.
	Concurrency int

	// The remaining fields are applied to every file's ConversionRequest.
	HasHeaders      bool
	Delimiter       rune
	RowPolicy       types.RowPolicy
	Encoding        string
	OutputDelimiter rune
	SheetName       string
}

// BatchConvert converts every matching file in opts.InputDir.
//
// RETURNS:
//   - A BatchResult with one entry per matched file, in enumeration order.
//     Per-file failures are recorded in the result and never stop the run.
//   - A DirectoryNotFoundError if InputDir does not exist or cannot be read.
//     The output folder is not touched in that case.
func (c *Converter) BatchConvert(opts BatchOptions) (*types.BatchResult, error) {
	result := &types.BatchResult{
		RunID:     uuid.New().String(),
		InputDir:  opts.InputDir,
		OutputDir: opts.OutputDir,
		StartTime: time.Now(),
	}
	log := c.logger.With(zap.String("run_id", result.RunID))

	// =========================================================================
	// STEP 1: DISCOVER INPUT FILES
	// =========================================================================

	fm := utils.NewFileManager(opts.InputDir, opts.OutputDir, opts.Extensions, opts.Recursive)

	inputFiles, err := fm.DiscoverInputFiles()
	if err != nil {
		log.Error("Cannot read input folder", zap.String("input_dir", opts.InputDir), zap.Error(err))
		return nil, err
	}

	// =========================================================================
	// STEP 2: PREPARE OUTPUT
	// =========================================================================

	if err := fm.EnsureOutputDir(); err != nil {
		// Every file will fail to write and be recorded individually.
		log.Warn("Cannot create output folder", zap.String("output_dir", opts.OutputDir), zap.Error(err))
	}

	format := opts.OutputFormat
	if format == "" {
		format = types.FormatCSV
	}

	result.Entries = make([]types.Entry, len(inputFiles))
	for i, input := range inputFiles {
		result.Entries[i] = types.Entry{
			InputPath:  input,
			OutputPath: fm.OutputPathFor(input, format.Extension()),
		}
	}

	log.Info("Starting batch conversion",
		zap.String("input_dir", opts.InputDir),
		zap.String("output_dir", opts.OutputDir),
		zap.Strings("extensions", fm.Extensions),
		zap.Int("files", len(inputFiles)),
	)

	// =========================================================================
	// STEP 3: CONVERT FILES
	// =========================================================================

	limit := opts.Concurrency
	if limit < 1 {
		limit = 1
	}
	var g errgroup.Group
	g.SetLimit(limit)

	total := len(result.Entries)
	for i := range result.Entries {
		i := i
		entry := &result.Entries[i]
		g.Go(func() error {
			log.Info("Processing file",
				zap.Int("index", i+1),
				zap.Int("total", total),
				zap.String("file", filepath.Base(entry.InputPath)),
			)
			entry.Err = c.convertIsolated(types.ConversionRequest{
				InputPath:       entry.InputPath,
				OutputPath:      entry.OutputPath,
				Delimiter:       opts.Delimiter,
				HasHeaders:      opts.HasHeaders,
				RowPolicy:       opts.RowPolicy,
				Encoding:        opts.Encoding,
				OutputDelimiter: opts.OutputDelimiter,
				SheetName:       opts.SheetName,
			})
			return nil
		})
	}
	g.Wait()

	// =========================================================================
	// STEP 4: SUMMARY
	// =========================================================================

	result.EndTime = time.Now()
	for _, e := range result.Failures() {
		log.Error("Failed to process file",
			zap.String("file", filepath.Base(e.InputPath)),
			zap.String("kind", string(e.Kind())),
			zap.Error(e.Err),
		)
	}
	log.Info("Conversion complete",
		zap.Int("successful", result.Successful()),
		zap.Int("failed", result.Failed()),
		zap.Duration("elapsed", result.EndTime.Sub(result.StartTime)),
	)

	return result, nil
}

// convertIsolated converts one file, recovering a panic as an error.
func (c *Converter) convertIsolated(req types.ConversionRequest) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while converting: %v", r)
		}
	}()

	_, err = c.Convert(req)
	return err
}
