package llm

import "fmt"

// QueryError indicates the endpoint could not be queried: unreachable host,
// malformed base URL, or a non-success HTTP status.
type QueryError struct {
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed: %v", e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// ParseError indicates the endpoint answered but the response did not match
// the expected shape. An empty analysis payload (what the endpoint returns for
// empty input) surfaces here.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("response parse failed: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
