package tspool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const callQuery = `(call_expression function: (identifier) @callee) @call`

func TestQueryWithCache(t *testing.T) {
	source := []byte(`it("a", () => {}); test("b", () => {});`)

	tree, err := Parse(context.Background(), LanguageJavaScript, source)
	require.NoError(t, err)
	defer tree.Close()

	results, err := QueryWithCache(tree.RootNode(), source, LanguageJavaScript, callQuery)
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, result := range results {
		require.NotNil(t, result.Node)
		assert.Contains(t, result.Captures, "callee")
		assert.Contains(t, result.Captures, "call")
	}

	// The compiled query survives in the cache and is reusable after a clear.
	ClearQueryCache()
	again, err := QueryWithCache(tree.RootNode(), source, LanguageJavaScript, callQuery)
	require.NoError(t, err)
	assert.Len(t, again, 2)
}

func TestQueryWithCache_InvalidQuery(t *testing.T) {
	source := []byte(`it("a", () => {});`)

	tree, err := Parse(context.Background(), LanguageJavaScript, source)
	require.NoError(t, err)
	defer tree.Close()

	_, err = QueryWithCache(tree.RootNode(), source, LanguageJavaScript, `(nonsense_node) @x`)
	assert.Error(t, err)
}

func TestParse_AllLanguages(t *testing.T) {
	sources := map[Language][]byte{
		LanguageJavaScript: []byte(`it("a", () => {});`),
		LanguageTypeScript: []byte(`const x: number = 1;`),
		LanguageTSX:        []byte(`const el = <div />;`),
	}

	for lang, source := range sources {
		tree, err := Parse(context.Background(), lang, source)
		require.NoError(t, err, "language %s", lang)
		assert.False(t, tree.RootNode().HasError(), "language %s", lang)
		tree.Close()
	}
}
