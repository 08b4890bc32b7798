package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/penwyp/go-counter-recovery/internal/core/model"
	"github.com/penwyp/go-counter-recovery/internal/testing/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileScanner(t *testing.T) {
	baseDir := "/tmp/test"
	scanner := NewFileScanner(baseDir)

	assert.NotNil(t, scanner)
	assert.Equal(t, baseDir, scanner.BaseDir())
	assert.Equal(t, model.SampleExt, scanner.ext)
}

func TestDaysSortedAndFiltered(t *testing.T) {
	gen := fixtures.NewMonthGenerator(t.TempDir())
	for _, day := range []string{"15", "02", "30"} {
		require.NoError(t, gen.AddDay(day))
	}
	_, err := gen.AddFile("notes.txt", "not a day")
	require.NoError(t, err)

	days, err := NewFileScanner(gen.BaseDir()).Days()

	require.NoError(t, err)
	assert.Equal(t, []string{"02", "15", "30"}, days)
}

func TestDaysMissingRoot(t *testing.T) {
	_, err := NewFileScanner(filepath.Join(t.TempDir(), "2023-08")).Days()

	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestScanEmptyDirectory(t *testing.T) {
	files, err := NewFileScanner(t.TempDir()).Scan()

	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestScanNonExistentDirectory(t *testing.T) {
	_, err := NewFileScanner("/path/that/does/not/exist").Scan()

	assert.Error(t, err)
}

func TestScanExtensionIsCaseSensitive(t *testing.T) {
	gen := fixtures.NewMonthGenerator(t.TempDir())
	want := []string{}
	for _, f := range []struct {
		rel    string
		sample bool
	}{
		{"01/S00001.CSV", true},
		{"01/RESULTS/S00002.CSV", true},
		{"01/RESULTS/deep/er/S00003.CSV", true},
		{"01/S00004.csv", false},
		{"01/S00005.Csv", false},
		{"01/summary.txt", false},
		{"02/S00006.CSV.bak", false},
	} {
		path, err := gen.AddFile(f.rel, "x")
		require.NoError(t, err)
		if f.sample {
			want = append(want, path)
		}
	}

	files, err := NewFileScanner(gen.BaseDir()).Scan()

	require.NoError(t, err)
	assert.ElementsMatch(t, want, files)
}

func TestScanDay(t *testing.T) {
	gen := fixtures.NewMonthGenerator(t.TempDir())
	day1, err := gen.AddSamples("01", "LabA", 3)
	require.NoError(t, err)
	_, err = gen.AddSamples("02", "LabB", 2)
	require.NoError(t, err)
	require.NoError(t, gen.AddDay("03"))

	scanner := NewFileScanner(gen.BaseDir())

	files, err := scanner.ScanDay("01")
	require.NoError(t, err)
	assert.ElementsMatch(t, day1, files)

	files, err = scanner.ScanDay("03")
	require.NoError(t, err)
	assert.Empty(t, files)

	all, err := scanner.Scan()
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestSymlinkedDayDirectory(t *testing.T) {
	gen := fixtures.NewMonthGenerator(t.TempDir())
	day1, err := gen.AddSamples("01", "LabA", 2)
	require.NoError(t, err)

	elsewhere := fixtures.NewMonthGenerator(t.TempDir())
	_, err = elsewhere.AddSamples("archive", "LabB", 3)
	require.NoError(t, err)
	require.NoError(t, os.Symlink(filepath.Join(elsewhere.BaseDir(), "archive"), filepath.Join(gen.BaseDir(), "02")))
	// Links to files are not days
	require.NoError(t, os.Symlink(day1[0], filepath.Join(gen.BaseDir(), "03")))

	scanner := NewFileScanner(gen.BaseDir())

	days, err := scanner.Days()
	require.NoError(t, err)
	assert.Equal(t, []string{"01", "02"}, days)

	linked, err := scanner.ScanDay("02")
	require.NoError(t, err)
	require.Len(t, linked, 3)
	for _, path := range linked {
		assert.True(t, strings.HasPrefix(path, filepath.Join(gen.BaseDir(), "02")+string(filepath.Separator)), path)
	}

	all, err := scanner.Scan()
	require.NoError(t, err)
	assert.ElementsMatch(t, append(append([]string{}, day1...), linked...), all)
}
