package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tunelint/internal/config"
)

func TestDefault(t *testing.T) {
	l := config.Default()
	if l.MaxTokensSoft != 4000 || l.MaxTokensHard != 8000 {
		t.Errorf("context thresholds: got %d/%d, want 4000/8000", l.MaxTokensSoft, l.MaxTokensHard)
	}
	if l.TokenOverhead != 0.1 {
		t.Errorf("token overhead: got %v, want 0.1", l.TokenOverhead)
	}
	if l.MinExamples != 10 || l.AvgTokensShort != 50 || l.AvgTokensLong != 2000 {
		t.Errorf("quality thresholds: got %+v", l)
	}
}

func TestLoad_YAMLPartialMergesDefaults(t *testing.T) {
	data := []byte("max_tokens_soft: 2000\nmin_examples: 100\n")
	got, err := config.Load(data, ".yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := config.Default()
	want.MaxTokensSoft = 2000
	want.MinExamples = 100
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("limits mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_JSON(t *testing.T) {
	data := []byte(`{"max_tokens_hard": 32000, "token_overhead": 0.25}`)
	got, err := config.Load(data, ".json")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.MaxTokensHard != 32000 || got.TokenOverhead != 0.25 {
		t.Errorf("got %+v", got)
	}
	if got.MaxTokensSoft != 4000 {
		t.Errorf("soft threshold should default, got %d", got.MaxTokensSoft)
	}
}

func TestLoad_DetectByContent(t *testing.T) {
	if got, err := config.Load([]byte(`{"min_examples": 5}`), ""); err != nil || got.MinExamples != 5 {
		t.Errorf("JSON detect: got %+v, err %v", got, err)
	}
	if got, err := config.Load([]byte("min_examples: 7\n"), ""); err != nil || got.MinExamples != 7 {
		t.Errorf("YAML detect: got %+v, err %v", got, err)
	}
}

func TestLoad_BadInput(t *testing.T) {
	if _, err := config.Load([]byte("{not json"), ".json"); err == nil {
		t.Error("expected error for malformed JSON")
	}
	if _, err := config.Load([]byte("min_examples: [1, 2"), ".yaml"); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "limits.yml")
	if err := os.WriteFile(path, []byte("avg_tokens_long: 4096\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := config.LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if got.AvgTokensLong != 4096 {
		t.Errorf("got %d, want 4096", got.AvgTokensLong)
	}

	if _, err := config.LoadFromPath(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
