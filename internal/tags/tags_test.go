package tags

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		query    string
		ns, rest string
		ok       bool
	}{
		{"meal:breakfast", "meal", "breakfast", true},
		{"meal:break:fast", "meal", "break:fast", true},
		{" meal : br ", "meal", "br", true},
		{"meal:", "meal", "", false},
		{"meal", "meal", "", false},
		{":breakfast", "", "", false},
		{":", "", "", false},
		{"", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			ns, rest, ok := ParseQuery(tt.query)
			assert.Equal(t, tt.ns, ns)
			assert.Equal(t, tt.rest, rest)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestTagString(t *testing.T) {
	assert.Equal(t, "meal:lunch", Tag{Namespace: "meal", Name: "lunch"}.String())
	assert.Equal(t, "meal:", Tag{Namespace: "meal"}.String())
	assert.True(t, Tag{Namespace: "meal"}.IsNamespace())

	tag, ok := Parse("mood:tired")
	require.True(t, ok)
	assert.Equal(t, Tag{Namespace: "mood", Name: "tired"}, tag)

	_, ok = Parse("tired")
	assert.False(t, ok)
}

func TestEvaluatorNamespaceFallback(t *testing.T) {
	called := false
	e := Evaluator{
		Namespaces: []string{"meal", "Mood", "place"},
		Lookup: func(context.Context, string, string) ([]Tag, error) {
			called = true
			return nil, nil
		},
	}

	tests := []struct {
		query string
		want  []Tag
	}{
		{"m", []Tag{{Namespace: "meal"}, {Namespace: "Mood"}}},
		{"MO", []Tag{{Namespace: "Mood"}}},
		{"meal:", []Tag{{Namespace: "meal"}}},
		{"pl", []Tag{{Namespace: "place"}}},
		{"x", []Tag{}},
		{":", []Tag{{Namespace: "meal"}, {Namespace: "Mood"}, {Namespace: "place"}}},
		{":lunch", []Tag{{Namespace: "meal"}, {Namespace: "Mood"}, {Namespace: "place"}}},
	}
	for _, tt := range tests {
		ev := e.Evaluate(tt.query)
		assert.Nil(t, ev.Fetch, "query %q must not be delegated", tt.query)
		assert.Equal(t, tt.want, ev.Matches, "query %q", tt.query)
	}
	assert.False(t, called)
}

func TestEvaluatorDelegatesNamespacedQueries(t *testing.T) {
	var gotNS, gotPartial string
	e := Evaluator{Lookup: func(_ context.Context, ns, partial string) ([]Tag, error) {
		gotNS, gotPartial = ns, partial
		return []Tag{{Namespace: ns, Name: "breakfast"}}, nil
	}}

	ev := e.Evaluate("meal:br")
	require.NotNil(t, ev.Fetch)
	assert.Nil(t, ev.Matches)

	found, err := ev.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Tag{{Namespace: "meal", Name: "breakfast"}}, found)
	assert.Equal(t, "meal", gotNS)
	assert.Equal(t, "br", gotPartial)
}

func TestEvaluatorWithoutLookup(t *testing.T) {
	ev := Evaluator{}.Evaluate("meal:br")
	require.NotNil(t, ev.Fetch)
	_, err := ev.Fetch(context.Background())
	assert.ErrorIs(t, err, ErrNoLookup)
}

type fakeSource struct {
	tags  []Tag
	err   error
	calls int
}

func (s *fakeSource) SearchTags(context.Context, string, string, int) ([]Tag, error) {
	s.calls++
	return s.tags, s.err
}

type mapCache map[string][]Tag

func (c mapCache) Get(_ context.Context, key string) ([]Tag, bool) {
	v, ok := c[key]
	return v, ok
}

func (c mapCache) Set(_ context.Context, key string, t []Tag) { c[key] = t }

func (c mapCache) Clear(context.Context) error {
	for k := range c {
		delete(c, k)
	}
	return nil
}

func TestServiceLookup(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{tags: []Tag{{Namespace: "meal", Name: "brunch"}}}
	cache := mapCache{}
	svc := NewService(src, cache, 5)

	got, err := svc.Lookup(ctx, "Meal", "BR")
	require.NoError(t, err)
	assert.Equal(t, src.tags, got)
	assert.Contains(t, cache, CacheKey("meal", "br"))

	_, err = svc.Lookup(ctx, "meal", "br")
	require.NoError(t, err)
	assert.Equal(t, 1, src.calls)

	svc.Invalidate(ctx)
	assert.Empty(t, cache)
}

func TestServiceLookupError(t *testing.T) {
	src := &fakeSource{err: errors.New("db down")}
	svc := NewService(src, nil, 0)

	_, err := svc.Lookup(context.Background(), "meal", "br")
	require.ErrorIs(t, err, src.err)
	assert.Contains(t, err.Error(), "meal:br")
	svc.Invalidate(context.Background())
}
