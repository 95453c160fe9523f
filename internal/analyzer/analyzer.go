// Package analyzer ties inference and rewriting into one analysis pass.
package analyzer

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/pseudomancer/pseudomancer/internal/llm"
	"github.com/pseudomancer/pseudomancer/internal/observability"
	"github.com/pseudomancer/pseudomancer/internal/report"
	"github.com/pseudomancer/pseudomancer/internal/rewrite"
)

// Report is the outcome of one analysis pass over a single function.
type Report struct {
	Result    *llm.AnalysisResult
	Renames   []rewrite.Applied
	Header    string
	Rewritten string
}

// Output returns the annotated pseudocode: comment header plus rewritten text.
func (r *Report) Output() string {
	return r.Header + r.Rewritten
}

// Analyzer runs the analysis pass. Metrics and Logger are optional.
type Analyzer struct {
	provider llm.Provider
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// New constructs an Analyzer over the given provider.
func New(provider llm.Provider, metrics *observability.Metrics, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{provider: provider, metrics: metrics, logger: logger}
}

// Analyze submits code to the provider and applies the returned rename
// suggestions. On any failure the input is left untouched and no partial
// report is produced.
func (a *Analyzer) Analyze(ctx context.Context, code string) (*Report, error) {
	start := time.Now()

	result, err := a.provider.Analyze(ctx, code)
	if err != nil {
		a.metrics.RecordAnalysis(outcome(err), time.Since(start), 0)
		a.logger.Warn("analysis failed", zap.String("provider", a.provider.Name()), zap.Error(err))
		return nil, err
	}

	rewritten, applied, err := rewrite.Apply(code, result.Variables)
	if err != nil {
		a.metrics.RecordAnalysis(outcome(err), time.Since(start), 0)
		return nil, err
	}

	a.metrics.RecordAnalysis("ok", time.Since(start), len(applied))
	a.logger.Info("analysis complete",
		zap.String("function", result.FunctionName),
		zap.Int("renames", len(applied)),
		zap.Duration("took", time.Since(start)))

	return &Report{
		Result:    result,
		Renames:   applied,
		Header:    report.Header(result),
		Rewritten: rewritten,
	}, nil
}

// outcome maps a failure to its metrics label.
func outcome(err error) string {
	var q *llm.QueryError
	var p *llm.ParseError
	var r *rewrite.PatternError
	switch {
	case errors.As(err, &q):
		return "query_failed"
	case errors.As(err, &p):
		return "parse_failed"
	case errors.As(err, &r):
		return "rewrite_failed"
	default:
		return "unknown"
	}
}
