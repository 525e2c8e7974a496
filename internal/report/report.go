// Package report renders a dataset.FileReport for humans (text or Markdown)
// or machines (JSON). Rendering is presentation only: nothing here changes
// validity or the process exit status.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"tunelint/internal/config"
	"tunelint/internal/dataset"
	"tunelint/internal/format"
)

// maxShown caps the errors and warnings printed in full; the rest collapse
// into a "... and N more" line.
const maxShown = 10

// Render writes the human-readable report.
func Render(w io.Writer, rep *dataset.FileReport, limits config.Limits, mode format.Mode) {
	name := filepath.Base(rep.Path)
	if mode == format.Markdown {
		fmt.Fprintf(w, "## Validation report: %s\n\n", name)
	} else {
		rule := strings.Repeat("=", 60)
		fmt.Fprintf(w, "%s\nVALIDATION REPORT: %s\n%s\n", rule, name, rule)
	}

	status := "VALID"
	if !rep.Valid {
		status = "INVALID"
	}
	fmt.Fprintf(w, "Status: %s\n", status)
	fmt.Fprintf(w, "Total lines: %d\n", rep.TotalLines)
	fmt.Fprintf(w, "Valid examples: %d\n", rep.ValidLines)

	if rep.ValidLines > 0 {
		fmt.Fprintf(w, "\nToken statistics:\n")
		tb := format.NewTable(mode)
		tb.Header("Metric", "Value")
		tb.Row("Min tokens per example", rep.Tokens.Min)
		tb.Row("Max tokens per example", rep.Tokens.Max)
		tb.Row("Average tokens per example", format.FmtAvg(rep.Tokens.Avg))
		tb.Row("Total tokens", format.FmtTokens(rep.Tokens.Total))
		tb.AlignRight(2)
		fmt.Fprintln(w, tb.String())

		if rep.Tokens.Max > limits.MaxTokensSoft {
			fmt.Fprintf(w, "Warning: some examples exceed %d tokens\n", limits.MaxTokensSoft)
		}
		if rep.Tokens.Max > limits.MaxTokensHard {
			fmt.Fprintf(w, "Warning: some examples exceed %d tokens\n", limits.MaxTokensHard)
		}
	}

	renderList(w, "ERRORS", rep.Errors)
	renderList(w, "WARNINGS", rep.Warnings)

	fmt.Fprintf(w, "\nRecommendations:\n")
	if rep.ValidLines < limits.MinExamples {
		fmt.Fprintf(w, "  - Consider adding more training examples (minimum %d recommended)\n", limits.MinExamples)
	}
	if rep.ValidLines > 0 {
		if rep.Tokens.Avg < float64(limits.AvgTokensShort) {
			fmt.Fprintf(w, "  - Examples seem quite short - consider adding more detail\n")
		} else if rep.Tokens.Avg > float64(limits.AvgTokensLong) {
			fmt.Fprintf(w, "  - Examples are quite long - consider breaking into smaller parts\n")
		}
	}
	if len(rep.Errors) == 0 {
		fmt.Fprintf(w, "  %s File format is valid and ready for fine-tuning\n", format.BoolMark(true))
	}
}

func renderList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s (%d):\n", title, len(items))
	for i, item := range items {
		if i == maxShown {
			break
		}
		fmt.Fprintf(w, "  - %s\n", item)
	}
	if n := len(items) - maxShown; n > 0 {
		fmt.Fprintf(w, "  ... and %d more\n", n)
	}
}

// Envelope is the machine-readable report payload.
type Envelope struct {
	ReportID    string              `json:"report_id"`
	GeneratedAt time.Time           `json:"generated_at"`
	Report      *dataset.FileReport `json:"report"`
}

// NewEnvelope wraps a FileReport with a fresh report ID and timestamp.
func NewEnvelope(rep *dataset.FileReport) Envelope {
	return Envelope{
		ReportID:    uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Report:      rep,
	}
}

// RenderJSON writes the report as indented JSON.
func RenderJSON(w io.Writer, rep *dataset.FileReport) error {
	data, err := json.MarshalIndent(NewEnvelope(rep), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
