// =============================================================================
// Delimited Converter - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Delimited Converter CLI application.
// It delegates command execution to the cmd package.
//
// USAGE:
//   converter convert <in> <out> - Convert one delimited text file to CSV or Excel
//   converter batch              - Convert every matching file in a folder
//   converter detect <file>      - Print the detected delimiter of a file
//   converter version            - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Conversion pipeline (not for external import)
//   - pkg/           : Shared file-handling utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/delimited-converter/cmd"
)

func main() {
	cmd.Execute()
}
