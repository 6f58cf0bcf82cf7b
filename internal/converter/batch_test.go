package converter

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ginjaninja78/delimited-converter/internal/types"
)

func TestBatchConvertIsolatesFailures(t *testing.T) {
	input := t.TempDir()
	output := filepath.Join(t.TempDir(), "out")

	good := writeInput(t, input, "good.txt", "a,b\n1,2\n")
	bad := writeInput(t, input, "bad.txt", "a,b\n\xff\xfe\x00garbage\n")

	c := New(Settings{}, zaptest.NewLogger(t))
	result, err := c.BatchConvert(BatchOptions{
		InputDir:   input,
		OutputDir:  output,
		Extensions: []string{".txt"},
		HasHeaders: true,
	})
	require.NoError(t, err)
	require.Len(t, result.Entries, 2)

	goodEntry, ok := result.Outcome(good)
	require.True(t, ok)
	assert.True(t, goodEntry.Succeeded())
	assert.Equal(t, filepath.Join(output, "good.csv"), goodEntry.OutputPath)
	assert.FileExists(t, goodEntry.OutputPath)

	badEntry, ok := result.Outcome(bad)
	require.True(t, ok)
	assert.False(t, badEntry.Succeeded())
	assert.Equal(t, types.KindEncoding, badEntry.Kind())
	assert.NoFileExists(t, filepath.Join(output, "bad.csv"))

	assert.Equal(t, 1, result.Successful())
	assert.Equal(t, 1, result.Failed())
	assert.NotEmpty(t, result.RunID)
	assert.False(t, result.EndTime.Before(result.StartTime))
}

func TestBatchConvertMissingInputFolder(t *testing.T) {
	root := t.TempDir()
	output := filepath.Join(root, "out")

	result, err := New(Settings{}, nil).BatchConvert(BatchOptions{
		InputDir:  filepath.Join(root, "does-not-exist"),
		OutputDir: output,
	})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, types.ErrDirectoryNotFound))

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr), "output folder must not be created")
}

func TestBatchConvertInputIsAFile(t *testing.T) {
	file := writeInput(t, t.TempDir(), "plain.txt", "a\n")

	_, err := New(Settings{}, nil).BatchConvert(BatchOptions{InputDir: file, OutputDir: t.TempDir()})
	assert.True(t, errors.Is(err, types.ErrDirectoryNotFound))
}

func TestBatchConvertSelectsExtensionsCaseInsensitively(t *testing.T) {
	input := t.TempDir()
	writeInput(t, input, "b.TXT", "x,y\n")
	writeInput(t, input, "a.dat", "x,y\n")
	writeInput(t, input, "c.log", "x,y\n")
	writeInput(t, input, "skip.csv", "x,y\n")
	require.NoError(t, os.Mkdir(filepath.Join(input, "nested.txt"), 0755))

	result, err := New(Settings{}, nil).BatchConvert(BatchOptions{
		InputDir:   input,
		OutputDir:  t.TempDir(),
		Extensions: []string{"txt", ".DAT"},
	})
	require.NoError(t, err)

	var names []string
	for _, e := range result.Entries {
		names = append(names, filepath.Base(e.InputPath))
	}
	assert.Equal(t, []string{"a.dat", "b.TXT"}, names)
}

func TestBatchConvertDefaultExtensions(t *testing.T) {
	input := t.TempDir()
	writeInput(t, input, "one.dat", "x\n")
	writeInput(t, input, "two.log", "x\n")
	writeInput(t, input, "three.txt", "x\n")
	writeInput(t, input, "four.csv", "x\n")

	result, err := New(Settings{}, nil).BatchConvert(BatchOptions{InputDir: input, OutputDir: t.TempDir()})
	require.NoError(t, err)
	assert.Len(t, result.Entries, 3)
	assert.Equal(t, 3, result.Successful())
}

func TestBatchConvertDistinctOutputsForSharedStem(t *testing.T) {
	input := t.TempDir()
	output := t.TempDir()
	writeInput(t, input, "report.dat", "a,b\n1,2\n")
	writeInput(t, input, "report.txt", "a;b\n3;4\n")

	result, err := New(Settings{}, nil).BatchConvert(BatchOptions{
		InputDir:   input,
		OutputDir:  output,
		Extensions: []string{".txt", ".dat"},
	})
	require.NoError(t, err)
	require.Len(t, result.Entries, 2)

	assert.Equal(t, filepath.Join(output, "report.csv"), result.Entries[0].OutputPath)
	assert.Equal(t, filepath.Join(output, "report_txt.csv"), result.Entries[1].OutputPath)
	assert.Equal(t, [][]string{{"a", "b"}, {"1", "2"}}, readCSV(t, result.Entries[0].OutputPath))
	assert.Equal(t, [][]string{{"a", "b"}, {"3", "4"}}, readCSV(t, result.Entries[1].OutputPath))
}

func TestBatchConvertExcelFormat(t *testing.T) {
	input := t.TempDir()
	output := t.TempDir()
	writeInput(t, input, "sheet.txt", "a\tb\n1\t2\n")

	result, err := New(Settings{}, nil).BatchConvert(BatchOptions{
		InputDir:     input,
		OutputDir:    output,
		OutputFormat: types.FormatExcel,
	})
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)
	require.NoError(t, result.Entries[0].Err)
	assert.Equal(t, filepath.Join(output, "sheet.xlsx"), result.Entries[0].OutputPath)
	assert.FileExists(t, result.Entries[0].OutputPath)
}

func TestBatchConvertRecursive(t *testing.T) {
	input := t.TempDir()
	output := t.TempDir()
	writeInput(t, input, "top.txt", "x,y\n")
	require.NoError(t, os.Mkdir(filepath.Join(input, "sub"), 0755))
	writeInput(t, filepath.Join(input, "sub"), "inner.txt", "x,y\n")

	flat, err := New(Settings{}, nil).BatchConvert(BatchOptions{InputDir: input, OutputDir: output})
	require.NoError(t, err)
	assert.Len(t, flat.Entries, 1)

	deep, err := New(Settings{}, nil).BatchConvert(BatchOptions{InputDir: input, OutputDir: output, Recursive: true})
	require.NoError(t, err)
	require.Len(t, deep.Entries, 2)
	assert.Equal(t, filepath.Join(output, "inner.csv"), deep.Entries[1].OutputPath)
	assert.Equal(t, 2, deep.Successful())
}

func TestBatchConvertConcurrentKeepsOrder(t *testing.T) {
	input := t.TempDir()
	output := t.TempDir()
	names := []string{"f01.txt", "f02.txt", "f03.txt", "f04.txt", "f05.txt", "f06.txt", "f07.txt", "f08.txt"}
	for _, name := range names {
		writeInput(t, input, name, "k|v\n1|2\n")
	}
	writeInput(t, input, "f04b.txt", "")

	result, err := New(Settings{}, nil).BatchConvert(BatchOptions{
		InputDir:    input,
		OutputDir:   output,
		Concurrency: 4,
		HasHeaders:  true,
	})
	require.NoError(t, err)
	require.Len(t, result.Entries, len(names)+1)

	for i, e := range result.Entries {
		if i > 0 {
			assert.Less(t, result.Entries[i-1].InputPath, e.InputPath)
		}
	}
	assert.Equal(t, len(names), result.Successful())

	failures := result.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "f04b.txt", filepath.Base(failures[0].InputPath))
	assert.Equal(t, types.KindEmptyInput, failures[0].Kind())
}

func TestBatchConvertEmptyFolder(t *testing.T) {
	output := filepath.Join(t.TempDir(), "created")

	result, err := New(Settings{}, nil).BatchConvert(BatchOptions{InputDir: t.TempDir(), OutputDir: output})
	require.NoError(t, err)
	assert.Empty(t, result.Entries)
	assert.DirExists(t, output)
}
