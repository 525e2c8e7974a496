package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tunelint/internal/dataset"
	"tunelint/internal/format"
	"tunelint/internal/report"
	"tunelint/internal/tokens"
)

var (
	validateConfigPath string
	validateFormat     string
	validateJSON       bool
)

var validateCmd = &cobra.Command{
	Use:   "validate <dataset.jsonl>",
	Short: "Validate a single JSONL dataset and print a report",
	Long: `Validate one line-delimited JSON dataset for chat fine-tuning.

Every line must be a JSON object with a non-empty "messages" list of
role/content turns. All problems in the file are reported in one run;
the exit code is 1 if any line is structurally invalid.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateConfigPath, "config", "", "Path to a limits file (YAML or JSON)")
	validateCmd.Flags().StringVar(&validateFormat, "format", "text", "Report format (text, markdown)")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Emit the report as JSON instead of text")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	limits, err := loadLimits(validateConfigPath)
	if err != nil {
		return err
	}
	mode, ok := format.ParseMode(validateFormat)
	if !ok {
		return fmt.Errorf("unknown report format %q", validateFormat)
	}

	rep := dataset.Scan(args[0], tokens.Estimator{Overhead: limits.TokenOverhead})

	if validateJSON {
		if err := report.RenderJSON(cmd.OutOrStdout(), rep); err != nil {
			return err
		}
	} else {
		report.Render(cmd.OutOrStdout(), rep, limits, mode)
	}

	if !rep.Valid {
		return fmt.Errorf("validation failed: %d error(s) in %s", len(rep.Errors), args[0])
	}
	return nil
}
