// =============================================================================
// Delimited Converter - Convert Command
// =============================================================================
//
// This file defines the 'convert' command, which converts a single delimited
// text file. The output format is chosen from the output file's extension.
//
// COMMAND USAGE:
//   converter convert <input> <output> [flags]
//
// FLAGS:
//   --delimiter     : Input delimiter (empty = detect). Names: tab, pipe, ...
//   --headers       : Treat the first row as the header row
//   --row-policy    : pad | truncate | reject
//   --encoding      : Input text encoding (default utf-8)
//   --csv-delimiter : Delimiter written to CSV output
//   --sheet         : Worksheet name for Excel output
//
// These flags are shared with the 'batch' command and override the values
// from the configuration file.
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
	"github.com/ginjaninja78/delimited-converter/internal/delimiter"
	"github.com/ginjaninja78/delimited-converter/internal/types"
)

// =============================================================================
// SHARED INPUT FLAGS
// =============================================================================

// inputFlags are the per-file options accepted by both convert and batch.
type inputFlags struct {
	delimiter    string
	headers      bool
	rowPolicy    string
	encoding     string
	csvDelimiter string
	sheet        string
}

// register adds the flags to cmd.
func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.delimiter, "delimiter", "d", "", "Input delimiter: a character or tab, comma, semicolon, pipe, space (default: detect)")
	cmd.Flags().BoolVar(&f.headers, "headers", false, "Treat the first row as the header row")
	cmd.Flags().StringVar(&f.rowPolicy, "row-policy", "", "Rows with a wrong field count: pad, truncate or reject (default pad)")
	cmd.Flags().StringVar(&f.encoding, "encoding", "", "Input text encoding, e.g. utf-8, windows-1252, utf-16le (default utf-8)")
	cmd.Flags().StringVar(&f.csvDelimiter, "csv-delimiter", "", "Delimiter written to CSV output (default \",\")")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "Worksheet name for Excel output (default Sheet1)")
}

// apply copies every flag the user set onto cfg.
func (f *inputFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("delimiter") {
		cfg.Delimiter = f.delimiter
	}
	if changed("headers") {
		cfg.HasHeaders = f.headers
	}
	if changed("row-policy") {
		cfg.RowPolicy = f.rowPolicy
	}
	if changed("encoding") {
		cfg.Encoding = f.encoding
	}
	if changed("csv-delimiter") {
		cfg.CSVDelimiter = f.csvDelimiter
	}
	if changed("sheet") {
		cfg.SheetName = f.sheet
	}
}

// =============================================================================
// CONVERT COMMAND DEFINITION
// =============================================================================

var convertFlags inputFlags

// convertCmd represents the 'convert' command.
var convertCmd = &cobra.Command{
	Use:   "convert <input> <output>",
	Short: "Convert one delimited text file to CSV or Excel",
	Long: `The convert command reads one delimited text file and writes it to the
output path. An output ending in .csv produces CSV; .xlsx or .xls produces an
Excel workbook. Any other extension is rejected.

The output is written to a temporary file first and renamed into place, so an
existing output file is either left untouched or fully replaced.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		convertFlags.apply(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger, cleanup, err := newLogger(cfg, verbose, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer cleanup()

		return runConvert(cmd.OutOrStdout(), cfg, logger, args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertFlags.register(convertCmd)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runConvert converts one file with the settings in cfg.
func runConvert(out io.Writer, cfg *config.Config, logger *zap.Logger, input, output string) error {
	conv := converter.New(converter.Settings{SampleLines: cfg.SampleLines}, logger)

	stats, err := conv.ConvertWithStats(requestFor(cfg, input, output))
	if err != nil {
		printFailure(out, "%s: %v", filepath.Base(input), err)
		return err
	}

	printSuccess(out, "%s -> %s", filepath.Base(input), output)
	fmt.Fprintf(out, "Delimiter:       %s\n", delimiter.Name(stats.Delimiter))
	fmt.Fprintf(out, "Rows:            %d\n", stats.Rows)
	fmt.Fprintf(out, "Columns:         %d\n", stats.Columns)
	fmt.Fprintf(out, "Time elapsed:    %s\n", stats.ProcessingTime)
	return nil
}

// requestFor builds a ConversionRequest from the configuration.
func requestFor(cfg *config.Config, input, output string) types.ConversionRequest {
	return types.ConversionRequest{
		InputPath:       input,
		OutputPath:      output,
		Delimiter:       cfg.InputDelimiter(),
		HasHeaders:      cfg.HasHeaders,
		RowPolicy:       cfg.Policy(),
		Encoding:        cfg.Encoding,
		OutputDelimiter: cfg.OutputDelimiter(),
		SheetName:       cfg.SheetName,
	}
}
