package parser

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/penwyp/go-counter-recovery/internal/core/cache"
	"github.com/penwyp/go-counter-recovery/internal/util"
)

// The operator line of a counter export. Row 9 holds the sample ID.
const (
	LabRow         = 12
	FieldSeparator = ";"
)

var (
	// ErrShortSampleFile is returned for exports with fewer than LabRow+1 lines
	ErrShortSampleFile = errors.New("sample file has no operator line")
	// ErrMissingLab is returned when the operator line is blank. An operator
	// line whose last field is empty is not an error: the lab is "".
	ErrMissingLab = errors.New("sample file has a blank operator line")
)

// Parser extracts the lab identifier from counter exports. Each path is read
// at most once per Parser. A Parser backed by a LabCache also skips files
// that are unchanged since an earlier Parser read them.
type Parser struct {
	cache map[string]string
	labs  *cache.LabCache
}

// NewParser creates a new Parser instance.
func NewParser() *Parser {
	return &Parser{
		cache: make(map[string]string),
	}
}

// NewCachedParser creates a Parser that shares labs with other runs
func NewCachedParser(labs *cache.LabCache) *Parser {
	p := NewParser()
	p.labs = labs
	return p
}

// ExtractLab returns the lab identifier recorded in the export at path: the
// last semicolon-separated field of the first comma-separated column of line
// 13.
func (p *Parser) ExtractLab(path string) (string, error) {
	if lab, ok := p.cache[path]; ok {
		return lab, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open sample file: %w", err)
	}
	defer file.Close()

	var fp cache.Fingerprint
	if p.labs != nil {
		info, err := file.Stat()
		if err != nil {
			return "", fmt.Errorf("failed to stat sample file: %w", err)
		}
		fp = cache.FingerprintOf(info)
		if lab, ok := p.labs.Get(path, fp); ok {
			p.cache[path] = lab
			return lab, nil
		}
	}

	line, err := readLine(file, LabRow)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}

	lab, err := labFromLine(line)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}

	util.LogDebug("Extracted lab", util.F("file", path), util.F("lab", lab))
	p.cache[path] = lab
	if p.labs != nil {
		p.labs.Set(path, fp, lab)
	}
	return lab, nil
}

// Cached reports how many files have been read
func (p *Parser) Cached() int {
	return len(p.cache)
}

// Paths returns every path this Parser has resolved
func (p *Parser) Paths() map[string]struct{} {
	paths := make(map[string]struct{}, len(p.cache))
	for path := range p.cache {
		paths[path] = struct{}{}
	}
	return paths
}

func readLine(r io.Reader, index int) (string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	n := 0
	for scanner.Scan() {
		if n == index {
			return strings.TrimSuffix(scanner.Text(), "\r"), nil
		}
		n++
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("%w: %d lines", ErrShortSampleFile, n)
}

func labFromLine(line string) (string, error) {
	if line == "" {
		return "", ErrMissingLab
	}

	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	fields, err := r.Read()
	if err != nil {
		return "", fmt.Errorf("malformed operator line %q: %w", line, err)
	}

	parts := strings.Split(fields[0], FieldSeparator)
	return parts[len(parts)-1], nil
}
