package main

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"tunelint/internal/dataset"
	"tunelint/internal/format"
	"tunelint/internal/tokens"
)

var (
	batchConfigPath string
	batchFormat     string
	batchParallel   int
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Validate every *.jsonl dataset under a directory",
	Long: `Validate all *.jsonl files under a directory and print a summary table.

Files are scanned in parallel (bounded by --parallel); each individual file
is still processed in a single sequential pass. The exit code is 1 if any
dataset fails validation.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVar(&batchConfigPath, "config", "", "Path to a limits file (YAML or JSON)")
	batchCmd.Flags().StringVar(&batchFormat, "format", "text", "Summary format (text, markdown)")
	batchCmd.Flags().IntVar(&batchParallel, "parallel", 4, "Max datasets scanned concurrently")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	limits, err := loadLimits(batchConfigPath)
	if err != nil {
		return err
	}
	mode, ok := format.ParseMode(batchFormat)
	if !ok {
		return fmt.Errorf("unknown summary format %q", batchFormat)
	}
	if batchParallel < 1 {
		return fmt.Errorf("--parallel must be at least 1")
	}

	root := args[0]
	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".jsonl" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk %s: %w", root, err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no .jsonl files under %s", root)
	}

	est := tokens.Estimator{Overhead: limits.TokenOverhead}
	start := time.Now()

	reports := make([]*dataset.FileReport, len(files))
	var g errgroup.Group
	g.SetLimit(batchParallel)
	for i, path := range files {
		g.Go(func() error {
			reports[i] = dataset.Scan(path, est)
			return nil
		})
	}
	_ = g.Wait()

	tb := format.NewTable(mode)
	tb.Header("Dataset", "Valid", "Lines", "Examples", "Errors", "Warnings", "Max tokens")
	var totalLines, totalValid, totalErrs, totalWarns, invalid int
	for _, rep := range reports {
		name, relErr := filepath.Rel(root, rep.Path)
		if relErr != nil {
			name = rep.Path
		}
		tb.Row(
			format.Truncate(name, 50),
			format.BoolMark(rep.Valid),
			rep.TotalLines,
			rep.ValidLines,
			len(rep.Errors),
			len(rep.Warnings),
			format.FmtTokens(rep.Tokens.Max),
		)
		totalLines += rep.TotalLines
		totalValid += rep.ValidLines
		totalErrs += len(rep.Errors)
		totalWarns += len(rep.Warnings)
		if !rep.Valid {
			invalid++
		}
	}
	tb.Footer("TOTAL", "", totalLines, totalValid, totalErrs, totalWarns, "")
	tb.AlignRight(3, 4, 5, 6, 7)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, tb.String())
	fmt.Fprintf(out, "Validated %d datasets in %s\n", len(files), format.FmtDuration(time.Since(start)))

	if invalid > 0 {
		return fmt.Errorf("%d of %d datasets failed validation", invalid, len(files))
	}
	return nil
}
