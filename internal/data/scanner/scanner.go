package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/penwyp/go-counter-recovery/internal/core/model"
	"github.com/penwyp/go-counter-recovery/internal/util"
)

// FileScanner finds counter exports under a month directory
type FileScanner struct {
	baseDir string
	ext     string
}

// NewFileScanner creates a new FileScanner instance
func NewFileScanner(baseDir string) *FileScanner {
	return &FileScanner{
		baseDir: baseDir,
		ext:     model.SampleExt,
	}
}

// BaseDir returns the month root
func (s *FileScanner) BaseDir() string {
	return s.baseDir
}

// Days lists the day subdirectories of the month root in sorted order.
// Symlinks to directories count as days.
func (s *FileScanner) Days() ([]string, error) {
	days, _, err := s.days()
	if err != nil {
		return nil, err
	}
	util.LogDebug("Listed day directories", util.F("dir", s.baseDir), util.F("days", len(days)))
	return days, nil
}

// days returns every day and, separately, the days that are symlinks
func (s *FileScanner) days() ([]string, []string, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list day directories: %w", err)
	}

	var days, linked []string
	for _, entry := range entries {
		switch {
		case entry.IsDir():
			days = append(days, entry.Name())
		case entry.Type()&fs.ModeSymlink != 0:
			info, err := os.Stat(filepath.Join(s.baseDir, entry.Name()))
			if err != nil || !info.IsDir() {
				continue
			}
			days = append(days, entry.Name())
			linked = append(linked, entry.Name())
		}
	}
	sort.Strings(days)
	return days, linked, nil
}

// Scan returns every sample file under the month root, including those
// under symlinked day directories
func (s *FileScanner) Scan() ([]string, error) {
	files, err := s.scan(s.baseDir)
	if err != nil {
		return nil, err
	}

	_, linked, err := s.days()
	if err != nil {
		return nil, err
	}
	for _, day := range linked {
		dayFiles, err := s.ScanDay(day)
		if err != nil {
			return nil, err
		}
		files = append(files, dayFiles...)
	}
	return files, nil
}

// ScanDay returns every sample file under one day directory
func (s *FileScanner) ScanDay(day string) ([]string, error) {
	return s.scan(filepath.Join(s.baseDir, day))
}

// IsSample reports whether path has the sample export extension
func (s *FileScanner) IsSample(path string) bool {
	return filepath.Ext(path) == s.ext
}

func (s *FileScanner) scan(dir string) ([]string, error) {
	start := time.Now()
	var files []string
	dirCount := 0
	totalCount := 0

	// DirFS resolves dir itself when it is a symlink; links below it are
	// not followed
	err := fs.WalkDir(os.DirFS(dir), ".", func(rel string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if d.IsDir() {
			dirCount++
			return nil
		}

		totalCount++
		if s.IsSample(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	util.LogDebug(fmt.Sprintf("File scan completed: duration %v, scanned %d directories, %d files, found %d samples",
		time.Since(start), dirCount, totalCount, len(files)))

	return files, nil
}
