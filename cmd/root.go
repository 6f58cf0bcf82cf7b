// =============================================================================
// Delimited Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (converter)
//   ├── convertCmd (converter convert <input> <output>)
//   ├── batchCmd   (converter batch)
//   ├── detectCmd  (converter detect <file>)
//   └── versionCmd (converter version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the configuration file shared by the subcommands
//   3. Setting up logging (see logger.go)
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/delimited-converter/internal/config"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "converter",
	Short: "Delimited Converter - Turn delimited text files into CSV or Excel",
	Long: `Delimited Converter reads delimited text files (comma, tab, semicolon,
pipe or whitespace separated) and writes them out as CSV or Excel workbooks.

Key Features:
  - Automatic delimiter detection from a sample of each file
  - Optional header row handling
  - Configurable handling of rows with missing or extra fields
  - Batch mode that converts a whole folder and isolates per-file failures

Example Usage:
  converter convert data.txt data.csv     # Convert one file
  converter convert data.txt data.xlsx    # Convert one file to Excel
  converter batch --input ./data          # Convert every .dat/.log/.txt file
  converter detect data.txt               # Show the detected delimiter`,

	// Errors are printed once by Execute.
	SilenceErrors: true,
	SilenceUsage:  true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	// --config flag: the main configuration file. A missing file at the
	// default path is not an error; defaults are used instead.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	// --verbose flag: enables debug logging.
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// loadConfig loads the main configuration. The file is required only when
// --config was given explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	explicit := cmd.Flags().Changed("config")
	cfg, err := config.Load(cfgFile, !explicit)
	if err != nil {
		return nil, fmt.Errorf("failed to load main config: %w", err)
	}
	return cfg, nil
}
