// Package tags implements namespaced tag search: query parsing, the
// namespace fallback and the delegated name lookup.
package tags

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/text/cases"

	"github.com/nhath/foodlog/internal/ui/components/search"
)

// Separator splits a namespace from a tag name.
const Separator = ":"

// ErrNoLookup is returned when a namespaced query has no lookup to run.
var ErrNoLookup = errors.New("tags: no lookup configured")

// Tag is a namespaced label. A Tag with an empty Name stands for the
// namespace itself while the user is still choosing one.
type Tag struct {
	Namespace string `json:"namespace"`
	Name      string `json:"name"`
}

// String renders ns:name, or ns: for a bare namespace.
func (t Tag) String() string {
	return t.Namespace + Separator + t.Name
}

// IsNamespace reports whether t is a bare namespace.
func (t Tag) IsNamespace() bool {
	return t.Name == ""
}

// Parse splits text into a Tag. ok is false unless both halves are present.
func Parse(text string) (Tag, bool) {
	ns, name, ok := ParseQuery(text)
	if !ok {
		return Tag{}, false
	}
	return Tag{Namespace: ns, Name: name}, true
}

// ParseQuery splits q at the first separator. An empty namespace counts as
// no namespace and an empty remainder as no remainder; ok is true only when
// both are present. ns is the text before the separator, or all of q.
func ParseQuery(q string) (ns, rest string, ok bool) {
	ns, rest, found := strings.Cut(strings.TrimSpace(q), Separator)
	ns = strings.TrimSpace(ns)
	rest = strings.TrimSpace(rest)
	if !found || ns == "" || rest == "" {
		return ns, "", false
	}
	return ns, rest, true
}

// Lookup finds tags in namespace ns whose name contains partial.
type Lookup func(ctx context.Context, ns, partial string) ([]Tag, error)

// Evaluator drives the search control for tag queries.
type Evaluator struct {
	Namespaces []string
	Lookup     Lookup
}

// Evaluate delegates namespaced queries to Lookup and answers everything
// else by prefix-filtering the namespace list.
func (e Evaluator) Evaluate(query string) search.Evaluation[Tag] {
	ns, rest, ok := ParseQuery(query)
	if !ok {
		return search.Evaluation[Tag]{Matches: e.namespacesWithPrefix(ns)}
	}

	lookup := e.Lookup
	return search.Evaluation[Tag]{Fetch: func(ctx context.Context) ([]Tag, error) {
		if lookup == nil {
			return nil, ErrNoLookup
		}
		return lookup(ctx, ns, rest)
	}}
}

func (e Evaluator) namespacesWithPrefix(prefix string) []Tag {
	fold := cases.Fold()
	p := fold.String(prefix)

	out := make([]Tag, 0, len(e.Namespaces))
	for _, ns := range e.Namespaces {
		if strings.HasPrefix(fold.String(ns), p) {
			out = append(out, Tag{Namespace: ns})
		}
	}
	return out
}
