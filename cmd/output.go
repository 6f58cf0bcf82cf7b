package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// printSuccess writes a "✓ ..." result line.
func printSuccess(out io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(out, "  %s %s\n", color.GreenString("✓"), fmt.Sprintf(format, args...))
}

// printFailure writes a "✗ ..." result line.
func printFailure(out io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(out, "  %s %s\n", color.New(color.FgRed, color.Bold).Sprint("✗"), fmt.Sprintf(format, args...))
}
