package llm

import "context"

// RenameSuggestion is a single variable renaming proposed by the model. Slice
// order is significant: it is the order renames must be applied in, and the
// model is trusted to emit an order in which a new name never collides with a
// not-yet-renamed original.
type RenameSuggestion struct {
	OriginalName string `json:"original_name"`
	NewName      string `json:"new_name"`
}

// AnalysisResult is the decoded analysis payload for one function.
type AnalysisResult struct {
	FunctionName string             `json:"function_name"`
	Comment      string             `json:"comment"`
	Variables    []RenameSuggestion `json:"variables"`
}

// Provider defines the contract for code analysis backends.
type Provider interface {
	Name() string
	Analyze(ctx context.Context, code string) (*AnalysisResult, error)
}
