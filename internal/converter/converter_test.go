package converter

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ginjaninja78/delimited-converter/internal/types"
)

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestConvertWithHeaders(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "input.txt", "a,b,c\n1,2,3\n4,5,6\n")
	output := filepath.Join(dir, "output.csv")

	c := New(Settings{}, zaptest.NewLogger(t))
	got, err := c.Convert(types.ConversionRequest{InputPath: input, OutputPath: output, HasHeaders: true})
	require.NoError(t, err)
	assert.Equal(t, output, got)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "a,b,c\n1,2,3\n4,5,6\n", string(data))
}

func TestConvertStats(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "input.txt", "a|b|c\n1|2|3\n4|5|6\n")

	c := New(Settings{}, nil)
	stats, err := c.ConvertWithStats(types.ConversionRequest{
		InputPath:  input,
		OutputPath: filepath.Join(dir, "out.csv"),
		HasHeaders: true,
	})
	require.NoError(t, err)

	assert.Equal(t, '|', stats.Delimiter)
	assert.True(t, stats.Detected)
	assert.Equal(t, 2, stats.Rows)
	assert.Equal(t, 3, stats.Columns)
	assert.Equal(t, types.FormatCSV, stats.Format)
}

func TestConvertDetectsDelimiter(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"Tab", "x\ty\n1\t2\n"},
		{"Semicolon", "x;y\n1;2\n"},
		{"Pipe", "x|y\n1|2\n"},
		{"Whitespace", "x    y\n1  2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			input := writeInput(t, dir, "in.dat", tt.content)
			output := filepath.Join(dir, "out.csv")

			_, err := New(Settings{}, nil).Convert(types.ConversionRequest{InputPath: input, OutputPath: output})
			require.NoError(t, err)
			assert.Equal(t, [][]string{{"x", "y"}, {"1", "2"}}, readCSV(t, output))
		})
	}
}

func TestConvertExplicitDelimiter(t *testing.T) {
	dir := t.TempDir()
	// Detection would pick the comma here.
	input := writeInput(t, dir, "in.txt", "a,1;b,2\nc,3;d,4\n")
	output := filepath.Join(dir, "out.csv")

	_, err := New(Settings{}, nil).Convert(types.ConversionRequest{InputPath: input, OutputPath: output, Delimiter: ';'})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a,1", "b,2"}, {"c,3", "d,4"}}, readCSV(t, output))
}

func TestConvertRoundTripKeepsEmptyCells(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "in.txt", "id\tname\tnote\n1\t\tx\n2\t\"a\tb\"\t\n\t\t\n")
	output := filepath.Join(dir, "out.csv")

	_, err := New(Settings{}, nil).Convert(types.ConversionRequest{InputPath: input, OutputPath: output, Delimiter: '\t'})
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"id", "name", "note"},
		{"1", "", "x"},
		{"2", "a\tb", ""},
		{"", "", ""},
	}, readCSV(t, output))
}

func TestConvertIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "in.txt", "name;quote\nann;\"she said \"\"hi\"\"\"\nbob;\"multi\nline\"\n")
	output := filepath.Join(dir, "out.csv")

	c := New(Settings{}, nil)
	req := types.ConversionRequest{InputPath: input, OutputPath: output, HasHeaders: true}

	_, err := c.Convert(req)
	require.NoError(t, err)
	first, err := os.ReadFile(output)
	require.NoError(t, err)

	_, err = c.Convert(req)
	require.NoError(t, err)
	second, err := os.ReadFile(output)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestConvertExcel(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "in.txt", "a;b\n1;2\n3;4\n")
	output := filepath.Join(dir, "out.xlsx")

	_, err := New(Settings{}, nil).Convert(types.ConversionRequest{
		InputPath:  input,
		OutputPath: output,
		HasHeaders: true,
		SheetName:  "Converted",
	})
	require.NoError(t, err)

	f, err := excelize.OpenFile(output)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Converted")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {"1", "2"}, {"3", "4"}}, rows)
}

func TestConvertRowPolicies(t *testing.T) {
	content := "a,b,c\n1,2\n3,4,5,6\n"

	t.Run("Pad", func(t *testing.T) {
		dir := t.TempDir()
		input := writeInput(t, dir, "in.txt", content)
		output := filepath.Join(dir, "out.csv")

		_, err := New(Settings{}, nil).Convert(types.ConversionRequest{InputPath: input, OutputPath: output, HasHeaders: true})
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"a", "b", "c", ""}, {"1", "2", "", ""}, {"3", "4", "5", "6"}}, readCSV(t, output))
	})

	t.Run("Truncate", func(t *testing.T) {
		dir := t.TempDir()
		input := writeInput(t, dir, "in.txt", content)
		output := filepath.Join(dir, "out.csv")

		_, err := New(Settings{}, nil).Convert(types.ConversionRequest{
			InputPath: input, OutputPath: output, HasHeaders: true, RowPolicy: types.RowPolicyTruncate,
		})
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"a", "b", "c"}, {"1", "2", ""}, {"3", "4", "5"}}, readCSV(t, output))
	})

	t.Run("Reject", func(t *testing.T) {
		dir := t.TempDir()
		input := writeInput(t, dir, "in.txt", content)
		output := filepath.Join(dir, "out.csv")

		_, err := New(Settings{}, nil).Convert(types.ConversionRequest{
			InputPath: input, OutputPath: output, HasHeaders: true, RowPolicy: types.RowPolicyReject,
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrRowLength))
		assert.Contains(t, err.Error(), "line 2")
		assert.NoFileExists(t, output)
	})
}

func TestConvertErrors(t *testing.T) {
	dir := t.TempDir()
	good := writeInput(t, dir, "good.txt", "a,b\n1,2\n")

	tests := []struct {
		name   string
		req    types.ConversionRequest
		target error
	}{
		{
			name:   "Missing input",
			req:    types.ConversionRequest{InputPath: filepath.Join(dir, "missing.txt"), OutputPath: filepath.Join(dir, "o1.csv")},
			target: types.ErrFileNotFound,
		},
		{
			name:   "Directory input",
			req:    types.ConversionRequest{InputPath: dir, OutputPath: filepath.Join(dir, "o2.csv")},
			target: types.ErrRead,
		},
		{
			name:   "Empty input",
			req:    types.ConversionRequest{InputPath: writeInput(t, dir, "empty.txt", ""), OutputPath: filepath.Join(dir, "o3.csv")},
			target: types.ErrEmptyInput,
		},
		{
			name:   "Blank lines only with explicit delimiter",
			req:    types.ConversionRequest{InputPath: writeInput(t, dir, "blank.txt", "\n \n\n"), OutputPath: filepath.Join(dir, "o4.csv"), Delimiter: ','},
			target: types.ErrEmptyInput,
		},
		{
			name:   "Invalid UTF-8",
			req:    types.ConversionRequest{InputPath: writeInput(t, dir, "latin1.txt", "caf\xe9,1\n"), OutputPath: filepath.Join(dir, "o5.csv")},
			target: types.ErrEncoding,
		},
		{
			name:   "Unknown encoding",
			req:    types.ConversionRequest{InputPath: good, OutputPath: filepath.Join(dir, "o6.csv"), Encoding: "klingon"},
			target: types.ErrEncoding,
		},
		{
			name:   "Unsupported output extension",
			req:    types.ConversionRequest{InputPath: good, OutputPath: filepath.Join(dir, "o7.json")},
			target: types.ErrUnsupportedFormat,
		},
		{
			name:   "Output directory is a file",
			req:    types.ConversionRequest{InputPath: good, OutputPath: filepath.Join(good, "o8.csv")},
			target: types.ErrWrite,
		},
	}

	c := New(Settings{}, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Convert(tt.req)
			require.Error(t, err)
			assert.Empty(t, got)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)

			var convErr *types.Error
			require.True(t, errors.As(err, &convErr))
			assert.NotEmpty(t, convErr.Path)
		})
	}
}

func TestConvertDecodesLegacyEncoding(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "latin1.txt", "caf\xe9;na\xefve\n1;2\n")
	output := filepath.Join(dir, "out.csv")

	_, err := New(Settings{}, nil).Convert(types.ConversionRequest{
		InputPath: input, OutputPath: output, Encoding: "windows-1252",
	})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"café", "naïve"}, {"1", "2"}}, readCSV(t, output))
}

func TestConvertStripsUTF8BOM(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "bom.txt", "\xef\xbb\xbfa,b\n1,2\n")
	output := filepath.Join(dir, "out.csv")

	_, err := New(Settings{}, nil).Convert(types.ConversionRequest{InputPath: input, OutputPath: output, HasHeaders: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, readCSV(t, output)[0])
}

func TestConvertLogsDetectedDelimiter(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	dir := t.TempDir()
	input := writeInput(t, dir, "in.txt", "a|b\n1|2\n")

	_, err := New(Settings{}, zap.New(core)).Convert(types.ConversionRequest{
		InputPath: input, OutputPath: filepath.Join(dir, "out.csv"),
	})
	require.NoError(t, err)

	detected := logs.FilterMessage("Detected delimiter").All()
	require.Len(t, detected, 1)
	assert.Equal(t, "pipe", detected[0].ContextMap()["delimiter"])
	assert.Equal(t, 1, logs.FilterMessage("Converted file").Len())
}

func TestDecode(t *testing.T) {
	out, err := decode([]byte("plain"), "UTF-8")
	require.NoError(t, err)
	assert.Equal(t, "plain", out)

	_, err = decode([]byte("ok\xffbad"), "")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "offset 2"))

	// UTF-16LE with BOM is picked up even when UTF-8 is configured.
	out, err = decode([]byte{0xFF, 0xFE, 'h', 0, 'i', 0}, "")
	require.NoError(t, err)
	assert.Equal(t, "hi", out)

	out, err = decode([]byte{0xFE, 0xFF, 0, 'h', 0, 'i'}, "")
	require.NoError(t, err)
	assert.Equal(t, "hi", out)

	// A real U+FFFD in the input is kept.
	out, err = decode([]byte{0xFF, 0xFE, 0xFD, 0xFF}, "")
	require.NoError(t, err)
	assert.Equal(t, "\uFFFD", out)

	out, err = decode([]byte("\x82\xa0"), "shift_jis")
	require.NoError(t, err)
	assert.Equal(t, "あ", out)
}

func TestDecodeRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		encoding string
	}{
		{"UTF-16 odd byte count", []byte{0xFF, 0xFE, 'a', 0, ',', 0, 'b'}, ""},
		{"UTF-16 lone surrogate", []byte{0xFF, 0xFE, 'a', 0, 0x00, 0xD8, ',', 0}, ""},
		{"UTF-16BE odd byte count", []byte{0xFE, 0xFF, 0, 'a', 0}, "utf-8"},
		{"Invalid Shift_JIS", []byte("a,\x82\xff\n"), "shift_jis"},
		{"Invalid UTF-8 under an alias", []byte("a,\xff\n"), "unicode-1-1-utf-8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := decode(tt.data, tt.encoding)
			require.Error(t, err)
			assert.Empty(t, out)
			assert.Equal(t, types.KindEncoding, types.KindOf(err))
		})
	}
}

func TestConvertRejectsCorruptUTF16(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "in.txt", string([]byte{0xFF, 0xFE, 'a', 0, ',', 0, 'b'}))
	output := filepath.Join(dir, "out.csv")

	_, err := New(Settings{}, nil).Convert(types.ConversionRequest{InputPath: input, OutputPath: output})
	assert.True(t, errors.Is(err, types.ErrEncoding))
	assert.NoFileExists(t, output)
}

func TestConvertSkipsLeadingBlankLines(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "in.txt", "\n\n\n\n\n\na;b\n1;2\n")
	output := filepath.Join(dir, "out.csv")

	stats, err := New(Settings{}, nil).ConvertWithStats(types.ConversionRequest{
		InputPath: input, OutputPath: output, HasHeaders: true,
	})
	require.NoError(t, err)
	assert.Equal(t, ';', stats.Delimiter)
	assert.Equal(t, [][]string{{"a", "b"}, {"1", "2"}}, readCSV(t, output))
}

func TestConvertRejectsUnknownRowPolicy(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "in.txt", "a,b\n")

	_, err := New(Settings{}, nil).Convert(types.ConversionRequest{
		InputPath: input, OutputPath: filepath.Join(dir, "out.csv"), RowPolicy: "drop",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrInvalidRequest))
	assert.Equal(t, types.KindInvalidRequest, types.KindOf(err))
}

func TestDetectDelimiter(t *testing.T) {
	dir := t.TempDir()
	c := New(Settings{}, nil)

	d, err := c.DetectDelimiter(writeInput(t, dir, "semi.txt", "a;b;c\n1;2;3\n"), "")
	require.NoError(t, err)
	assert.Equal(t, ';', d)

	d, err = c.DetectDelimiter(writeInput(t, dir, "inches.txt", "item\tsize\n12\" ruler\t5\n6\" ruler\t3\n"), "")
	require.NoError(t, err)
	assert.Equal(t, '\t', d)

	_, err = c.DetectDelimiter(writeInput(t, dir, "blank.txt", "\n\n"), "")
	assert.True(t, errors.Is(err, types.ErrEmptyInput))

	_, err = c.DetectDelimiter(filepath.Join(dir, "missing.txt"), "")
	assert.True(t, errors.Is(err, types.ErrFileNotFound))
}
