package dataset

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strings"

	"tunelint/internal/logging"
	"tunelint/internal/tokens"
)

// maxLineBytes caps a single dataset line. Fine-tuning records routinely
// exceed bufio's 64 KiB default, so the scan buffer grows up to this limit.
const maxLineBytes = 16 * 1024 * 1024

// TokenStats aggregates per-record token counts over the valid records of a
// file. Min starts at a sentinel and is normalized to 0 when no valid record
// was seen.
type TokenStats struct {
	Min   int     `json:"min_tokens"`
	Max   int     `json:"max_tokens"`
	Total int     `json:"total_tokens"`
	Avg   float64 `json:"avg_tokens"`
}

// FileReport is the aggregate validation result for one dataset file.
type FileReport struct {
	Path       string     `json:"path"`
	Valid      bool       `json:"valid"`
	TotalLines int        `json:"total_lines"`
	ValidLines int        `json:"valid_lines"`
	Errors     []string   `json:"errors"`
	Warnings   []string   `json:"warnings"`
	Tokens     TokenStats `json:"token_stats"`
}

// Scan validates the dataset at path in one sequential line-by-line pass and
// returns the aggregate report. It never returns a Go error: fatal
// conditions (missing file, I/O failure mid-read) are recorded in the report
// and the partial state accumulated so far is returned as-is.
func Scan(path string, est tokens.Estimator) *FileReport {
	rep := &FileReport{
		Path:     path,
		Valid:    true,
		Errors:   []string{},
		Warnings: []string{},
		Tokens:   TokenStats{Min: math.MaxInt},
	}

	f, err := os.Open(path)
	if err != nil {
		rep.Valid = false
		if os.IsNotExist(err) {
			rep.Errors = append(rep.Errors, fmt.Sprintf("File not found: %s", path))
		} else {
			rep.Errors = append(rep.Errors, fmt.Sprintf("Error reading file: %v", err))
		}
		finalize(rep)
		return rep
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	line := 0
	for sc.Scan() {
		line++
		rep.TotalLines = line

		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}

		rec, res := DecodeRecord(line, []byte(text))
		if res.Valid {
			rep.ValidLines++
			n := rec.Tokens(est)
			if n < rep.Tokens.Min {
				rep.Tokens.Min = n
			}
			if n > rep.Tokens.Max {
				rep.Tokens.Max = n
			}
			rep.Tokens.Total += n
		} else {
			rep.Valid = false
			rep.Errors = append(rep.Errors, res.Errors...)
		}
		rep.Warnings = append(rep.Warnings, res.Warnings...)
	}
	if err := sc.Err(); err != nil {
		rep.Valid = false
		rep.Errors = append(rep.Errors, fmt.Sprintf("Error reading file: %v", err))
	}

	finalize(rep)
	logging.New("scan").Debug("scanned dataset",
		"path", path,
		"total_lines", rep.TotalLines,
		"valid_lines", rep.ValidLines,
		"errors", len(rep.Errors),
		"warnings", len(rep.Warnings))
	return rep
}

// finalize computes the average and normalizes the min sentinel.
func finalize(rep *FileReport) {
	if rep.ValidLines > 0 {
		rep.Tokens.Avg = float64(rep.Tokens.Total) / float64(rep.ValidLines)
	}
	if rep.Tokens.Min == math.MaxInt {
		rep.Tokens.Min = 0
	}
}
