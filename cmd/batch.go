// =============================================================================
// Delimited Converter - Batch Command
// =============================================================================
//
// This file defines the 'batch' command, which converts every matching file
// in the input folder. It orchestrates the batch pipeline.
//
// COMMAND USAGE:
//   converter batch [flags]
//
// FLAGS:
//   --input       : Folder to scan (default from config, "data")
//   --output      : Folder for converted files (default from config, "output")
//   --ext         : File extension to select, repeatable (default .dat .log .txt)
//   --format      : csv | excel
//   --recursive   : Also scan subdirectories
//   --concurrency : Number of files converted at once (default 1)
//   --summary     : Write a summary report to the output folder
//   plus the per-file flags of the 'convert' command.
//
// PROCESSING PIPELINE:
//   1. Load configuration and apply flag overrides
//   2. Discover input files
//   3. Convert each file (a failing file never stops the run)
//   4. Print results in discovery order
//   5. Optionally write the summary report
//
// The command exits with an error when any file failed.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/delimited-converter/internal/config"
	"github.com/ginjaninja78/delimited-converter/internal/converter"
	"github.com/ginjaninja78/delimited-converter/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	batchFlags inputFlags

	// inputDir overrides input_dir.
	inputDir string

	// outputDir overrides output_dir.
	outputDir string

	// extensions overrides file_extensions.
	extensions []string

	// outputFormat overrides output_format.
	outputFormat string

	// recursive overrides recursive.
	recursive bool

	// concurrency overrides max_concurrency.
	concurrency int

	// writeSummary overrides write_summary.
	writeSummary bool
)

// =============================================================================
// BATCH COMMAND DEFINITION
// =============================================================================

// batchCmd represents the 'batch' command.
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Convert every matching file in a folder",
	Long: `The batch command scans the input folder for files with one of the
selected extensions and converts each of them into the output folder.

Each file is processed independently. A file that fails to convert is
reported and skipped, and processing continues with the remaining files.
Results are listed in the order the files were discovered.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		applyBatchFlags(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger, cleanup, err := newLogger(cfg, verbose, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer cleanup()

		return runBatch(cmd.OutOrStdout(), cfg, logger)
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVarP(&inputDir, "input", "i", "", "Folder to scan for input files")
	batchCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Folder for converted files")
	batchCmd.Flags().StringSliceVar(&extensions, "ext", nil, "File extension to convert (repeatable)")
	batchCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "Output format: csv or excel")
	batchCmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Also scan subdirectories")
	batchCmd.Flags().IntVarP(&concurrency, "concurrency", "c", 0, "Number of files converted at once")
	batchCmd.Flags().BoolVar(&writeSummary, "summary", false, "Write a summary report to the output folder")

	batchFlags.register(batchCmd)
}

// applyBatchFlags copies every flag the user set onto cfg.
func applyBatchFlags(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("input") {
		cfg.InputDir = inputDir
	}
	if changed("output") {
		cfg.OutputDir = outputDir
	}
	if changed("ext") {
		cfg.FileExtensions = extensions
	}
	if changed("format") {
		cfg.OutputFormat = outputFormat
	}
	if changed("recursive") {
		cfg.Recursive = recursive
	}
	if changed("concurrency") {
		cfg.MaxConcurrency = concurrency
	}
	if changed("summary") {
		cfg.WriteSummary = writeSummary
	}
	batchFlags.apply(cmd, cfg)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runBatch converts the input folder with the settings in cfg.
func runBatch(out io.Writer, cfg *config.Config, logger *zap.Logger) error {
	fmt.Fprintln(out, "=== Delimited Converter ===")
	fmt.Fprintf(out, "Scanning %s for %v files...\n", cfg.InputDir, utils.NormalizeExtensions(cfg.FileExtensions))

	conv := converter.New(converter.Settings{SampleLines: cfg.SampleLines}, logger)
	result, err := conv.BatchConvert(converter.BatchOptions{
		InputDir:        cfg.InputDir,
		OutputDir:       cfg.OutputDir,
		Extensions:      cfg.FileExtensions,
		OutputFormat:    cfg.Format(),
		Recursive:       cfg.Recursive,
		Concurrency:     cfg.MaxConcurrency,
		HasHeaders:      cfg.HasHeaders,
		Delimiter:       cfg.InputDelimiter(),
		RowPolicy:       cfg.Policy(),
		Encoding:        cfg.Encoding,
		OutputDelimiter: cfg.OutputDelimiter(),
		SheetName:       cfg.SheetName,
	})
	if err != nil {
		return fmt.Errorf("failed to discover input files: %w", err)
	}

	if len(result.Entries) == 0 {
		fmt.Fprintln(out, "No matching files found in the input directory.")
		return nil
	}

	// =========================================================================
	// RESULTS
	// =========================================================================

	for _, e := range result.Entries {
		if e.Succeeded() {
			printSuccess(out, "%s -> %s", filepath.Base(e.InputPath), e.OutputPath)
		} else {
			printFailure(out, "%s: %v", filepath.Base(e.InputPath), e.Err)
		}
	}

	fmt.Fprintln(out, "\n=== Processing Complete ===")
	fmt.Fprintf(out, "Total files:     %d\n", len(result.Entries))
	fmt.Fprintf(out, "Successful:      %d\n", result.Successful())
	fmt.Fprintf(out, "Errors:          %d\n", result.Failed())
	fmt.Fprintf(out, "Time elapsed:    %s\n", result.EndTime.Sub(result.StartTime))

	if cfg.WriteSummary {
		path, err := utils.WriteSummaryLog(result, cfg.OutputDir)
		if err != nil {
			logger.Warn("Failed to write summary report", zap.Error(err))
		} else {
			fmt.Fprintf(out, "Summary written to %s\n", path)
		}
	}

	if result.Failed() > 0 {
		return fmt.Errorf("%d of %d file(s) failed to convert", result.Failed(), len(result.Entries))
	}
	return nil
}
