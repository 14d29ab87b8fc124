package search

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
)

// Evaluation is the outcome of evaluating a query. Exactly one of Matches or
// Fetch is used: a nil Fetch means Matches is the final, synchronous result.
type Evaluation[T any] struct {
	Matches []T
	Fetch   func(ctx context.Context) ([]T, error)
}

// Evaluator computes matches for a query in place of local filtering.
type Evaluator[T any] interface {
	Evaluate(query string) Evaluation[T]
}

// EvaluatorFunc adapts a plain function to Evaluator.
type EvaluatorFunc[T any] func(query string) Evaluation[T]

// Evaluate calls f(query).
func (f EvaluatorFunc[T]) Evaluate(query string) Evaluation[T] {
	return f(query)
}

// Filter returns, in their original order, the candidates whose text contains
// query. Matching is case-folded and unanchored; there is no typo tolerance.
func Filter[T any](candidates []T, query string, text func(T) string) []T {
	fold := cases.Fold()
	q := fold.String(query)

	matches := make([]T, 0, len(candidates))
	for _, c := range candidates {
		if strings.Contains(fold.String(text(c)), q) {
			matches = append(matches, c)
		}
	}
	return matches
}
