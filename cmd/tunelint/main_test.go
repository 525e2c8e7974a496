package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tunelint/internal/report"
)

// runCLI executes the root command in-process with fresh flag state.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	validateConfigPath, validateFormat, validateJSON = "", "text", false
	batchConfigPath, batchFormat, batchParallel = "", "text", 4

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func writeDataset(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const goodRecord = `{"messages":[{"role":"user","content":"Hi"},{"role":"assistant","content":"Hello!"}]}` + "\n"
const badRecord = `{"messages":[{"role":"moderator","content":"x"}]}` + "\n"

func TestValidate_ValidDataset(t *testing.T) {
	path := writeDataset(t, t.TempDir(), "good.jsonl", goodRecord)

	out, err := runCLI(t, "validate", path)
	if err != nil {
		t.Fatalf("expected success, got: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Status: VALID") {
		t.Errorf("expected VALID status:\n%s", out)
	}
}

func TestValidate_InvalidDataset(t *testing.T) {
	path := writeDataset(t, t.TempDir(), "bad.jsonl", badRecord)

	out, err := runCLI(t, "validate", path)
	if err == nil {
		t.Fatal("expected a validation error")
	}
	if !strings.Contains(out, "Status: INVALID") {
		t.Errorf("expected INVALID status:\n%s", out)
	}
	if !strings.Contains(out, "Invalid role 'moderator' in message 0") {
		t.Errorf("expected role error in report:\n%s", out)
	}
}

func TestValidate_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent.jsonl")

	out, err := runCLI(t, "validate", path)
	if err == nil {
		t.Fatal("expected an error for missing file")
	}
	if !strings.Contains(out, "File not found") {
		t.Errorf("expected file-not-found in report:\n%s", out)
	}
}

func TestValidate_ArgumentCount(t *testing.T) {
	if _, err := runCLI(t, "validate"); err == nil {
		t.Error("expected error for zero arguments")
	}
	if _, err := runCLI(t, "validate", "a.jsonl", "b.jsonl"); err == nil {
		t.Error("expected error for two arguments")
	}
}

func TestValidate_JSONOutput(t *testing.T) {
	path := writeDataset(t, t.TempDir(), "good.jsonl", goodRecord)

	out, err := runCLI(t, "validate", "--json", path)
	if err != nil {
		t.Fatalf("expected success, got: %v\n%s", err, out)
	}
	var env report.Envelope
	if err := json.Unmarshal([]byte(out), &env); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}
	if env.Report == nil || !env.Report.Valid || env.Report.ValidLines != 1 {
		t.Errorf("unexpected report payload: %+v", env.Report)
	}
}

func TestValidate_ConfigOverridesThresholds(t *testing.T) {
	dir := t.TempDir()
	path := writeDataset(t, dir, "good.jsonl", goodRecord)
	cfg := writeDataset(t, dir, "limits.yaml", "max_tokens_soft: 1\nmax_tokens_hard: 2\n")

	out, err := runCLI(t, "validate", "--config", cfg, path)
	if err != nil {
		t.Fatalf("expected success, got: %v\n%s", err, out)
	}
	if !strings.Contains(out, "exceed 1 tokens") || !strings.Contains(out, "exceed 2 tokens") {
		t.Errorf("expected lowered thresholds to fire:\n%s", out)
	}
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir, "good.jsonl", goodRecord)
	writeDataset(t, dir, "bad.jsonl", badRecord)
	writeDataset(t, dir, "ignored.txt", "not a dataset")

	out, err := runCLI(t, "batch", dir)
	if err == nil {
		t.Fatal("expected batch failure with one invalid dataset")
	}
	if !strings.Contains(err.Error(), "1 of 2 datasets failed") {
		t.Errorf("unexpected error: %v", err)
	}
	for _, want := range []string{"good.jsonl", "bad.jsonl", "TOTAL"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in summary:\n%s", want, out)
		}
	}
	if strings.Contains(out, "ignored.txt") {
		t.Errorf("non-jsonl files must be skipped:\n%s", out)
	}
}

func TestBatch_AllValid(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir, "a.jsonl", goodRecord)
	writeDataset(t, dir, "b.jsonl", goodRecord+goodRecord)

	out, err := runCLI(t, "batch", dir)
	if err != nil {
		t.Fatalf("expected success, got: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Validated 2 datasets") {
		t.Errorf("missing summary line:\n%s", out)
	}
}
