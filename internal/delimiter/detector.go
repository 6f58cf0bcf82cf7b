// =============================================================================
// Delimited Converter - Delimiter Detector
// =============================================================================
//
// This module guesses the field separator of a delimited text file from a
// small sample of its lines.
//
// CANDIDATES (in tie-break priority order):
//   ','  comma
//   '\t' tab
//   ';'  semicolon
//   '|'  pipe
//   ' '  whitespace run (one or more blanks between fields)
//
// SCORING:
//   1. Number of sample lines containing the candidate (higher wins)
//   2. Variance of the per-line counts (lower wins)
//   3. Priority order above
//
//   Occurrences inside quoted fields are not counted. A candidate
//   must appear in more than one line to qualify, unless the sample has a
//   single line. When nothing qualifies the default (comma) is returned.
//
// =============================================================================

package delimiter

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ginjaninja78/delimited-converter/internal/types"
)

const (
	// Default is returned when no candidate is convincing.
	Default = ','

	// Whitespace stands for "runs of spaces or tabs".
	Whitespace = ' '

	// DefaultSampleLines is the number of lines inspected when no sample size
	// is configured.
	DefaultSampleLines = 5
)

// Candidates lists the supported delimiters in tie-break priority order.
var Candidates = []rune{',', '\t', ';', '|', Whitespace}

// score holds the statistics of one candidate over the sample.
type score struct {
	delim    rune
	lines    int
	variance float64
}

// better reports whether s beats o. Candidates are compared in priority
// order, so equal scores keep the earlier candidate.
func (s score) better(o score) bool {
	if s.lines != o.lines {
		return s.lines > o.lines
	}
	return s.variance < o.variance
}

// Detect returns the most likely delimiter for the sample lines.
//
// RETURNS:
//   - The detected delimiter, or Default when no candidate qualifies.
//   - An EmptyInputError if the sample has no non-blank lines.
func Detect(sample []string) (rune, error) {
	lines := make([]string, 0, len(sample))
	for _, line := range sample {
		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	if len(lines) == 0 {
		return 0, types.NewError(types.KindEmptyInput, "", "sample contains no lines")
	}

	minLines := 2
	if len(lines) == 1 {
		minLines = 1
	}

	var best *score
	for _, delim := range Candidates {
		s := measure(delim, lines)
		if s.lines < minLines {
			continue
		}
		if best == nil || s.better(*best) {
			cur := s
			best = &cur
		}
	}

	if best == nil {
		return Default, nil
	}
	return best.delim, nil
}

// Sample returns up to n non-blank lines from the start of content.
// A non-positive n means DefaultSampleLines.
func Sample(content string, n int) []string {
	if n <= 0 {
		n = DefaultSampleLines
	}

	lines := make([]string, 0, n)
	for len(lines) < n && content != "" {
		line := content
		if idx := strings.IndexByte(content, '\n'); idx >= 0 {
			line, content = content[:idx], content[idx+1:]
		} else {
			content = ""
		}
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// measure counts delim in every line and returns the candidate's score.
func measure(delim rune, lines []string) score {
	counts := make([]float64, len(lines))
	present := 0
	var sum float64

	for i, line := range lines {
		c := countUnquoted(line, delim)
		counts[i] = float64(c)
		sum += counts[i]
		if c > 0 {
			present++
		}
	}

	mean := sum / float64(len(lines))
	var variance float64
	for _, c := range counts {
		variance += (c - mean) * (c - mean)
	}
	variance /= float64(len(lines))

	return score{delim: delim, lines: present, variance: variance}
}

// countUnquoted counts delim in line, skipping double-quoted fields.
// For Whitespace it counts the gaps between fields.
//
// Quotes follow encoding/csv with LazyQuotes: a quote opens a quoted field
// only at the start of a field, and closes it only when followed by the
// delimiter or the end of the line. Any other quote is literal text.
func countUnquoted(line string, delim rune) int {
	if delim == Whitespace {
		return countGaps(stripQuoted(line))
	}

	count := 0
	scanFields([]rune(line), func(r rune) bool { return r == delim }, func(r rune, quoted bool) {
		if r == delim && !quoted {
			count++
		}
	})
	return count
}

// countGaps counts whitespace runs between non-blank fields.
func countGaps(line string) int {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return 0
	}
	return len(fields) - 1
}

// stripQuoted replaces quoted fields with a single placeholder so their
// blanks are not counted.
func stripQuoted(line string) string {
	var b strings.Builder
	inQuoted := false
	scanFields([]rune(line), unicode.IsSpace, func(r rune, quoted bool) {
		if !quoted {
			b.WriteRune(r)
		} else if !inQuoted {
			b.WriteByte('x')
		}
		inQuoted = quoted
	})
	return b.String()
}

// scanFields walks line and calls visit for every rune with whether it lies
// inside a quoted field. Opening and closing quotes are reported as quoted.
func scanFields(line []rune, isSep func(rune) bool, visit func(r rune, quoted bool)) {
	fieldStart := true
	inQuotes := false

	for i := 0; i < len(line); i++ {
		r := line[i]

		if inQuotes {
			visit(r, true)
			if r != '"' {
				continue
			}
			if i+1 < len(line) && line[i+1] == '"' {
				// Escaped quote.
				i++
				visit(line[i], true)
				continue
			}
			if i+1 == len(line) || line[i+1] == '\r' || isSep(line[i+1]) {
				inQuotes = false
			}
			continue
		}

		switch {
		case r == '"' && fieldStart:
			inQuotes = true
			fieldStart = false
			visit(r, true)
		case isSep(r):
			fieldStart = true
			visit(r, false)
		default:
			fieldStart = false
			visit(r, false)
		}
	}
}

// =============================================================================
// DELIMITER NAMES
// =============================================================================

// Parse converts a configured delimiter into a rune.
// Accepted forms: a single character, or one of the names "comma", "tab",
// "\t", "semicolon", "pipe", "space", "whitespace". An empty string returns
// 0, meaning "detect".
func Parse(value string) (rune, error) {
	switch strings.ToLower(value) {
	case "":
		return 0, nil
	case "\\t", "tab":
		return '\t', nil
	case "comma":
		return ',', nil
	case "semicolon":
		return ';', nil
	case "pipe":
		return '|', nil
	case "space", "whitespace":
		return Whitespace, nil
	}

	runes := []rune(value)
	if len(runes) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", value)
	}
	switch runes[0] {
	case '"', '\r', '\n':
		return 0, fmt.Errorf("delimiter %q is not allowed", value)
	}
	return runes[0], nil
}

// Name returns a readable name for a delimiter, for logs and CLI output.
func Name(delim rune) string {
	switch delim {
	case ',':
		return "comma"
	case '\t':
		return "tab"
	case ';':
		return "semicolon"
	case '|':
		return "pipe"
	case Whitespace:
		return "whitespace"
	case 0:
		return "auto"
	}
	return fmt.Sprintf("%q", delim)
}
