// Package config holds the tunable validation limits. The token thresholds
// are uncalibrated heuristics, so they live in configuration rather than in
// code.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Limits are the dataset quality thresholds applied at report time plus the
// token-estimate overhead factor. Zero-valued fields fall back to defaults
// when loading from a file, so a partial config only overrides what it names.
type Limits struct {
	// TokenOverhead is the per-character correction factor of the token
	// heuristic.
	TokenOverhead float64 `yaml:"token_overhead" json:"token_overhead"`
	// MaxTokensSoft flags records above the smaller context limit.
	MaxTokensSoft int `yaml:"max_tokens_soft" json:"max_tokens_soft"`
	// MaxTokensHard flags records above the larger context limit. Both flags
	// fire independently when exceeded.
	MaxTokensHard int `yaml:"max_tokens_hard" json:"max_tokens_hard"`
	// MinExamples is the smallest dataset size that avoids a too-few-examples
	// recommendation.
	MinExamples int `yaml:"min_examples" json:"min_examples"`
	// AvgTokensShort and AvgTokensLong bound the recommended average example
	// size.
	AvgTokensShort int `yaml:"avg_tokens_short" json:"avg_tokens_short"`
	AvgTokensLong  int `yaml:"avg_tokens_long" json:"avg_tokens_long"`
}

// Default returns the stock limits.
func Default() Limits {
	return Limits{
		TokenOverhead:  0.1,
		MaxTokensSoft:  4000,
		MaxTokensHard:  8000,
		MinExamples:    10,
		AvgTokensShort: 50,
		AvgTokensLong:  2000,
	}
}

// LoadFromPath reads a limits file (YAML or JSON) and merges it over the
// defaults. Format is detected by extension (.yaml/.yml/.json) or by content
// (leading '{' means JSON).
func LoadFromPath(path string) (Limits, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Limits{}, fmt.Errorf("read limits: %w", err)
	}
	return Load(data, filepath.Ext(path))
}

// Load parses limits from bytes. ext is the file extension for the format
// hint; empty means detect from content.
func Load(data []byte, ext string) (Limits, error) {
	var l Limits

	ext = strings.ToLower(ext)
	if ext == ".yml" {
		ext = ".yaml"
	}
	if ext == "" {
		if strings.HasPrefix(strings.TrimSpace(string(data)), "{") {
			ext = ".json"
		} else {
			ext = ".yaml"
		}
	}

	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &l); err != nil {
			return Limits{}, fmt.Errorf("parse limits json: %w", err)
		}
	case ".yaml":
		if err := yaml.Unmarshal(data, &l); err != nil {
			return Limits{}, fmt.Errorf("parse limits yaml: %w", err)
		}
	default:
		return Limits{}, fmt.Errorf("unsupported limits format %q", ext)
	}

	return merge(l), nil
}

// merge fills zero-valued fields from the defaults.
func merge(l Limits) Limits {
	def := Default()
	if l.TokenOverhead == 0 {
		l.TokenOverhead = def.TokenOverhead
	}
	if l.MaxTokensSoft == 0 {
		l.MaxTokensSoft = def.MaxTokensSoft
	}
	if l.MaxTokensHard == 0 {
		l.MaxTokensHard = def.MaxTokensHard
	}
	if l.MinExamples == 0 {
		l.MinExamples = def.MinExamples
	}
	if l.AvgTokensShort == 0 {
		l.AvgTokensShort = def.AvgTokensShort
	}
	if l.AvgTokensLong == 0 {
		l.AvgTokensLong = def.AvgTokensLong
	}
	return l
}
