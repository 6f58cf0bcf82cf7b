// =============================================================================
// Delimited Converter - Version Command
// =============================================================================
//
// This file defines the 'version' command. The version comes from ldflags
// when set, otherwise from the module build information embedded by the Go
// toolchain (`go install ...@v1.2.3` or a VCS checkout).
//
// COMMAND USAGE:
//   converter version
//
// OUTPUT:
//   Delimited Converter
//   Version:    v1.2.3
//   Commit:     3f2a9c1 (modified)
//   Build Date: 2024-01-01T10:00:00Z
//   Go Version: go1.24.11
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// These variables can be set at build time, e.g.
//   go build -ldflags "-X 'github.com/ginjaninja78/delimited-converter/cmd.Version=v1.0.0'"
var (
	// Version overrides the module version from the build information.
	Version = ""

	// BuildDate overrides the VCS commit time from the build information.
	BuildDate = ""
)

// buildDetails is what the version command prints.
type buildDetails struct {
	Version   string
	Commit    string
	Modified  bool
	BuildDate string
	GoVersion string
}

// resolveBuild merges the ldflags values with the embedded build information.
// info may be nil when the binary carries none.
func resolveBuild(info *debug.BuildInfo) buildDetails {
	d := buildDetails{
		Version:   Version,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}

	if info != nil {
		if d.Version == "" && info.Main.Version != "(devel)" {
			d.Version = info.Main.Version
		}
		if info.GoVersion != "" {
			d.GoVersion = info.GoVersion
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				d.Commit = s.Value
			case "vcs.time":
				if d.BuildDate == "" {
					d.BuildDate = s.Value
				}
			case "vcs.modified":
				d.Modified = s.Value == "true"
			}
		}
	}

	if d.Version == "" {
		d.Version = "dev"
	}
	if d.BuildDate == "" {
		d.BuildDate = "unknown"
	}
	if len(d.Commit) > 7 {
		d.Commit = d.Commit[:7]
	}
	return d
}

// print writes the details in the version command's layout.
func (d buildDetails) print(out io.Writer) {
	fmt.Fprintln(out, "Delimited Converter")
	fmt.Fprintf(out, "Version:    %s\n", d.Version)
	if d.Commit != "" {
		commit := d.Commit
		if d.Modified {
			commit += " (modified)"
		}
		fmt.Fprintf(out, "Commit:     %s\n", commit)
	}
	fmt.Fprintf(out, "Build Date: %s\n", d.BuildDate)
	fmt.Fprintf(out, "Go Version: %s\n", d.GoVersion)
}

// versionCmd represents the 'version' command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the application version",
	Long:  `Display the application version, commit, build date, and Go runtime version.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		info, _ := debug.ReadBuildInfo()
		resolveBuild(info).print(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
