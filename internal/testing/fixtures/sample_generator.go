package fixtures

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// headerLines precede the operator line in a counter export. The operator
// line is always the 13th line of the file.
var headerLines = []string{
	"Instrument;CELL-DYN Emerald",
	"Serial Number;010372",
	"Software Version;2.5.1",
	"Sequence Number;%d",
	"Date;%s",
	"Time;10:%02d:00",
	"Mode;Open",
	"Sample Type;Patient",
	"Specimen;Whole Blood",
	"ID;%s",
	"Name;",
	"Comment;",
}

var resultLines = []string{
	"WBC;7.21;10^3/uL",
	"RBC;4.87;10^6/uL",
	"HGB;14.2;g/dL",
	"PLT;251;10^3/uL",
}

// MonthGenerator writes a month of counter exports under baseDir
type MonthGenerator struct {
	baseDir string
	seq     int
}

// NewMonthGenerator creates a generator rooted at baseDir
func NewMonthGenerator(baseDir string) *MonthGenerator {
	return &MonthGenerator{baseDir: baseDir}
}

// BaseDir returns the month root
func (g *MonthGenerator) BaseDir() string {
	return g.baseDir
}

// SampleContent renders a full export whose operator line names lab
func SampleContent(seq int, day, lab string) string {
	lines := make([]string, 0, len(headerLines)+1+len(resultLines))
	for _, h := range headerLines {
		switch {
		case strings.HasPrefix(h, "Sequence"):
			lines = append(lines, fmt.Sprintf(h, seq))
		case strings.HasPrefix(h, "Date"):
			lines = append(lines, fmt.Sprintf(h, day))
		case strings.HasPrefix(h, "Time"):
			lines = append(lines, fmt.Sprintf(h, seq%60))
		case strings.HasPrefix(h, "ID"):
			lines = append(lines, fmt.Sprintf(h, fmt.Sprintf("S%05d", seq)))
		default:
			lines = append(lines, h)
		}
	}
	lines = append(lines, "Operator;"+lab)
	lines = append(lines, resultLines...)
	return strings.Join(lines, "\r\n") + "\r\n"
}

// AddDay creates an empty day directory
func (g *MonthGenerator) AddDay(day string) error {
	return os.MkdirAll(filepath.Join(g.baseDir, day), 0755)
}

// AddSamples writes n exports for lab under day/RESULTS and returns their paths
func (g *MonthGenerator) AddSamples(day, lab string, n int) ([]string, error) {
	dir := filepath.Join(g.baseDir, day, "RESULTS")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	paths := make([]string, 0, n)
	for i := 0; i < n; i++ {
		g.seq++
		path := filepath.Join(dir, fmt.Sprintf("S%05d.CSV", g.seq))
		if err := os.WriteFile(path, []byte(SampleContent(g.seq, day, lab)), 0644); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// AddTruncatedSample writes an export cut off before the operator line
func (g *MonthGenerator) AddTruncatedSample(day string) (string, error) {
	dir := filepath.Join(g.baseDir, day)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	g.seq++
	path := filepath.Join(dir, fmt.Sprintf("S%05d.CSV", g.seq))
	content := strings.Join(headerLines[:5], "\n") + "\n"
	return path, os.WriteFile(path, []byte(content), 0644)
}

// AddFile writes an arbitrary file relative to the month root
func (g *MonthGenerator) AddFile(rel, content string) (string, error) {
	path := filepath.Join(g.baseDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	return path, os.WriteFile(path, []byte(content), 0644)
}
