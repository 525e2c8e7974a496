// Package mcp exposes dataset validation as MCP tools over stdio, so agent
// frontends can lint fine-tuning data without shelling out to the CLI.
package mcp

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"tunelint/internal/config"
	"tunelint/internal/dataset"
	"tunelint/internal/report"
	"tunelint/internal/tokens"
)

// Server wraps the MCP SDK server around the validation pipeline.
type Server struct {
	MCPServer *sdkmcp.Server
	Limits    config.Limits
}

// NewServer creates an MCP server with the validation tools registered.
// limits applies to every tool call unless a call overrides it.
func NewServer(limits config.Limits, version string) *Server {
	s := &Server{Limits: limits}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "tunelint", Version: version},
		nil,
	)
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "validate_dataset",
		Description: "Validate a JSONL fine-tuning dataset. Returns the full report: validity, per-line errors and warnings, and token statistics.",
	}, s.handleValidateDataset)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "count_tokens",
		Description: "Approximate the token count of a text string using the same heuristic the validator applies to dataset records.",
	}, s.handleCountTokens)
}

type validateDatasetInput struct {
	Path       string `json:"path" jsonschema:"path to the JSONL dataset file"`
	LimitsPath string `json:"limits_path,omitempty" jsonschema:"optional path to a limits file (YAML or JSON) overriding the server defaults"`
}

type validateDatasetOutput struct {
	ReportID string              `json:"report_id"`
	Report   *dataset.FileReport `json:"report"`
}

type countTokensInput struct {
	Text string `json:"text" jsonschema:"text to count tokens for"`
}

type countTokensOutput struct {
	Tokens int `json:"tokens"`
}

func (s *Server) handleValidateDataset(ctx context.Context, _ *sdkmcp.CallToolRequest, input validateDatasetInput) (*sdkmcp.CallToolResult, validateDatasetOutput, error) {
	if input.Path == "" {
		return nil, validateDatasetOutput{}, fmt.Errorf("path is required")
	}

	limits := s.Limits
	if input.LimitsPath != "" {
		l, err := config.LoadFromPath(input.LimitsPath)
		if err != nil {
			return nil, validateDatasetOutput{}, fmt.Errorf("load limits: %w", err)
		}
		limits = l
	}

	est := tokens.Estimator{Overhead: limits.TokenOverhead}
	rep := dataset.Scan(input.Path, est)
	env := report.NewEnvelope(rep)

	// An invalid dataset is still a successful tool call; the report carries
	// the diagnostics.
	return nil, validateDatasetOutput{ReportID: env.ReportID, Report: rep}, nil
}

func (s *Server) handleCountTokens(ctx context.Context, _ *sdkmcp.CallToolRequest, input countTokensInput) (*sdkmcp.CallToolResult, countTokensOutput, error) {
	est := tokens.Estimator{Overhead: s.Limits.TokenOverhead}
	return nil, countTokensOutput{Tokens: est.Count(input.Text)}, nil
}
