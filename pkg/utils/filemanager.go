// =============================================================================
// Delimited Converter - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for the batch runner:
//   - Input file discovery by extension (flat or recursive)
//   - Output directory management
//   - Output file naming, with collision handling
//   - Processing summary reports
//
// =============================================================================

package utils

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ginjaninja78/delimited-converter/internal/types"
)

// DefaultExtensions are the input extensions used when none are configured.
var DefaultExtensions = []string{".dat", ".log", ".txt"}

// SummaryPattern matches the report files written by WriteSummaryLog. They
// are never picked up as input, even when input and output share a folder.
const SummaryPattern = "conversion_summary_*.txt"

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for one batch run.
type FileManager struct {
	// InputDir is the directory scanned for input files.
	InputDir string

	// OutputDir is the directory where output files are placed.
	OutputDir string

	// Extensions are the normalized input extensions (lowercase, leading dot).
	Extensions []string

	// Recursive scans subdirectories of InputDir too.
	Recursive bool

	// taken tracks output names already handed out, by lowercase base name.
	taken map[string]bool
}

// NewFileManager creates a new FileManager. Extensions are normalized; an
// empty list means DefaultExtensions.
func NewFileManager(inputDir, outputDir string, extensions []string, recursive bool) *FileManager {
	exts := NormalizeExtensions(extensions)
	if len(exts) == 0 {
		exts = NormalizeExtensions(DefaultExtensions)
	}
	return &FileManager{
		InputDir:   inputDir,
		OutputDir:  outputDir,
		Extensions: exts,
		Recursive:  recursive,
		taken:      make(map[string]bool),
	}
}

// NormalizeExtensions lowercases extensions, adds a missing leading dot, and
// drops blanks and duplicates. Order is preserved.
func NormalizeExtensions(extensions []string) []string {
	seen := make(map[string]bool)
	var result []string

	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" || ext == "." {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if !seen[ext] {
			seen[ext] = true
			result = append(result, ext)
		}
	}

	return result
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// CheckInputDir verifies that InputDir exists and is a directory.
//
// RETURNS:
//   - A DirectoryNotFoundError otherwise.
func (fm *FileManager) CheckInputDir() error {
	info, err := os.Stat(fm.InputDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return types.NewError(types.KindDirectoryNotFound, fm.InputDir, "input folder does not exist")
		}
		return types.WrapError(types.KindDirectoryNotFound, fm.InputDir, err)
	}
	if !info.IsDir() {
		return types.NewError(types.KindDirectoryNotFound, fm.InputDir, "input path is not a directory")
	}
	return nil
}

// EnsureOutputDir creates OutputDir if it doesn't exist.
func (fm *FileManager) EnsureOutputDir() error {
	if err := os.MkdirAll(fm.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fm.OutputDir, err)
	}
	return nil
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverInputFiles lists the files in InputDir whose extension
// (case-insensitive) is one of Extensions.
//
// RETURNS:
//   - File paths in lexical order. In recursive mode a directory's files are
//     listed before its subdirectories are entered, in lexical order.
//   - A DirectoryNotFoundError if the directory cannot be read.
func (fm *FileManager) DiscoverInputFiles() ([]string, error) {
	if err := fm.CheckInputDir(); err != nil {
		return nil, err
	}

	if fm.Recursive {
		return fm.discoverRecursive()
	}

	entries, err := os.ReadDir(fm.InputDir)
	if err != nil {
		return nil, types.WrapError(types.KindDirectoryNotFound, fm.InputDir, err)
	}

	var files []string
	for _, entry := range entries {
		path := filepath.Join(fm.InputDir, entry.Name())
		if fm.matches(path) && isFile(path) {
			files = append(files, path)
		}
	}
	return files, nil
}

// discoverRecursive walks InputDir and all subdirectories.
func (fm *FileManager) discoverRecursive() ([]string, error) {
	var files []string

	var walk func(dir string) error
	walk = func(dir string) error {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}

		var subdirs []string
		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			if entry.IsDir() {
				subdirs = append(subdirs, path)
				continue
			}
			if fm.matches(path) && isFile(path) {
				files = append(files, path)
			}
		}

		sort.Strings(subdirs)
		for _, sub := range subdirs {
			if err := walk(sub); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(fm.InputDir); err != nil {
		return nil, types.WrapError(types.KindDirectoryNotFound, fm.InputDir, err)
	}
	return files, nil
}

func (fm *FileManager) matches(path string) bool {
	if isSummary, _ := filepath.Match(SummaryPattern, filepath.Base(path)); isSummary {
		return false
	}

	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range fm.Extensions {
		if ext == want {
			return true
		}
	}
	return false
}

// isFile reports whether path is a regular file, following symlinks.
func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// OutputPathFor returns the output path for an input file: the input's base
// name with ext, inside OutputDir.
//
// When an earlier input already claimed that name (e.g. "report.txt" and
// "report.dat"), the source extension is folded into the name:
// "report_dat.csv". Names are compared case-insensitively.
func (fm *FileManager) OutputPathFor(inputPath, ext string) string {
	base := filepath.Base(inputPath)
	srcExt := filepath.Ext(base)
	stem := strings.TrimSuffix(base, srcExt)

	name := stem + ext
	if fm.taken[strings.ToLower(name)] {
		name = fmt.Sprintf("%s_%s%s", stem, strings.TrimPrefix(srcExt, "."), ext)
		for i := 2; fm.taken[strings.ToLower(name)]; i++ {
			name = fmt.Sprintf("%s_%s_%d%s", stem, strings.TrimPrefix(srcExt, "."), i, ext)
		}
	}
	fm.taken[strings.ToLower(name)] = true

	return filepath.Join(fm.OutputDir, name)
}

// =============================================================================
// PROCESSING SUMMARY
// =============================================================================

// WriteSummaryLog writes a processing summary for a batch to outputDir.
//
// RETURNS:
//   - The path to the summary file.
//   - An error if writing fails.
func WriteSummaryLog(result *types.BatchResult, outputDir string) (string, error) {
	timestamp := RunTimestamp(result.EndTime)
	summaryPath := filepath.Join(outputDir, strings.Replace(SummaryPattern, "*", timestamp, 1))

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	duration := result.EndTime.Sub(result.StartTime)
	fmt.Fprintf(writer, "Delimited Converter - Conversion Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Run ID:         %s\n"+
		"  Input Folder:   %s\n"+
		"  Output Folder:  %s\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n\n"+
		"Statistics:\n"+
		"  Total Files:    %d\n"+
		"  Successful:     %d\n"+
		"  Failed:         %d\n\n",
		result.RunID,
		result.InputDir,
		result.OutputDir,
		result.StartTime.Format("2006-01-02 15:04:05"),
		result.EndTime.Format("2006-01-02 15:04:05"),
		duration.String(),
		len(result.Entries),
		result.Successful(),
		result.Failed())

	if result.Successful() > 0 {
		writer.WriteString("Successful Files:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, e := range result.Entries {
			if e.Succeeded() {
				fmt.Fprintf(writer, "  %s -> %s\n", e.InputPath, e.OutputPath)
			}
		}
		writer.WriteString("\n")
	}

	if result.Failed() > 0 {
		writer.WriteString("Failed Files:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, e := range result.Failures() {
			fmt.Fprintf(writer, "  File:  %s\n", e.InputPath)
			fmt.Fprintf(writer, "  Kind:  %s\n", e.Kind())
			fmt.Fprintf(writer, "  Error: %v\n\n", e.Err)
		}
	}

	writer.WriteString("================================================================================\n" +
		"End of Summary\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}

	return summaryPath, nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// RunTimestamp formats a time for file names.
func RunTimestamp(t time.Time) string {
	return t.Format("20060102_150405")
}
