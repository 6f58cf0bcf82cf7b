package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/delimited-converter/internal/types"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "data", cfg.InputDir)
	assert.Equal(t, "output", cfg.OutputDir)
	assert.Equal(t, []string{".dat", ".log", ".txt"}, cfg.FileExtensions)
	assert.Equal(t, "utf-8", cfg.Encoding)
	assert.Equal(t, 5, cfg.SampleLines)
	assert.Equal(t, types.RowPolicyPad, cfg.Policy())
	assert.Equal(t, types.FormatCSV, cfg.Format())
	assert.Equal(t, ',', cfg.OutputDelimiter())
	assert.Equal(t, rune(0), cfg.InputDelimiter())
	assert.Equal(t, 1, cfg.MaxConcurrency)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
input_dir: ./in
output_dir: ./out
file_extensions: [".tsv"]
has_headers: true
delimiter: tab
row_policy: reject
output_format: excel
sheet_name: Data
max_concurrency: 3
log_level: debug
`)

	cfg, err := Load(path, false)
	require.NoError(t, err)

	assert.Equal(t, "./in", cfg.InputDir)
	assert.Equal(t, "./out", cfg.OutputDir)
	assert.Equal(t, []string{".tsv"}, cfg.FileExtensions)
	assert.True(t, cfg.HasHeaders)
	assert.Equal(t, '\t', cfg.InputDelimiter())
	assert.Equal(t, types.RowPolicyReject, cfg.Policy())
	assert.Equal(t, types.FormatExcel, cfg.Format())
	assert.Equal(t, "Data", cfg.SheetName)
	assert.Equal(t, 3, cfg.MaxConcurrency)
	assert.Equal(t, "debug", cfg.LogLevel)

	// Unset values still get defaults.
	assert.Equal(t, "utf-8", cfg.Encoding)
	assert.Equal(t, ",", cfg.CSVDelimiter)
}

func TestLoadMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	cfg, err := Load(missing, true)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(missing, false)
	assert.Error(t, err)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"Bad YAML", "input_dir: [unclosed"},
		{"Bad delimiter", "delimiter: ';;'"},
		{"Whitespace output delimiter", "csv_delimiter: space"},
		{"Bad row policy", "row_policy: drop"},
		{"Bad format", "output_format: json"},
		{"Bad log level", "log_level: loud"},
		{"Negative concurrency", "max_concurrency: -2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content), false)
			assert.Error(t, err)
		})
	}
}
