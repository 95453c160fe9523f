package mock

import (
	"context"

	"github.com/pseudomancer/pseudomancer/internal/llm"
)

// Provider is a test double implementing llm.Provider.
type Provider struct {
	NameValue string
	AnalyzeFn func(ctx context.Context, code string) (*llm.AnalysisResult, error)
}

func (p *Provider) Name() string {
	if p.NameValue != "" {
		return p.NameValue
	}
	return "mock"
}

func (p *Provider) Analyze(ctx context.Context, code string) (*llm.AnalysisResult, error) {
	if p.AnalyzeFn != nil {
		return p.AnalyzeFn(ctx, code)
	}
	return &llm.AnalysisResult{
		FunctionName: "mock_function",
		Comment:      "mock analysis",
	}, nil
}
