package jest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvital/jestbridge/pkg/domain"
)

func TestDiscoverPositions_Basic(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, "a.test.ts", `describe("A", () => {
	it("b", () => {});
});
`)

	adapter := newTestAdapter(t, Config{})
	tree, err := adapter.DiscoverPositions(context.Background(), path)
	require.NoError(t, err)

	require.Equal(t, domain.KindFile, tree.Kind)
	assert.Equal(t, path, tree.Path)
	require.Len(t, tree.Children, 1)

	ns := tree.Children[0]
	assert.Equal(t, domain.KindNamespace, ns.Kind)
	assert.Equal(t, `"A"`, ns.Name)
	require.Len(t, ns.Children, 1)

	test := ns.Children[0]
	assert.Equal(t, domain.KindTest, test.Kind)
	assert.Equal(t, `"b"`, test.Name)
	assert.Empty(t, test.Children)
	assert.Equal(t, path+`::"A"::"b"`, test.ID().String())
}

func TestDiscoverPositions_SingleQuotedNamesKeepQuotes(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, "a.test.ts", `describe('A', () => {
	it('b', () => {});
});
`)

	adapter := newTestAdapter(t, Config{})
	tree, err := adapter.DiscoverPositions(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, tree.Children, 1)
	require.Len(t, tree.Children[0].Children, 1)
	assert.Equal(t, path+`::'A'::'b'`, tree.Children[0].Children[0].ID().String())
}

func TestDiscoverPositions_NoMatchesYieldsEmptyRoot(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, "a.test.ts", `const x = 1;
function helper() { return x; }
`)

	adapter := newTestAdapter(t, Config{})
	tree, err := adapter.DiscoverPositions(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, domain.KindFile, tree.Kind)
	assert.Empty(t, tree.Children)
}

func TestDiscoverPositions_Nesting(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, "a.test.ts", `describe("outer", () => {
	describe("inner", () => {
		it("deep", () => {});
	});
	it("shallow", () => {});
});
test("top", () => {});
`)

	adapter := newTestAdapter(t, Config{})
	tree, err := adapter.DiscoverPositions(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, tree.Children, 2)

	outer := tree.Children[0]
	assert.Equal(t, `"outer"`, outer.Name)
	require.Len(t, outer.Children, 2)

	inner := outer.Children[0]
	assert.Equal(t, domain.KindNamespace, inner.Kind)
	require.Len(t, inner.Children, 1)
	assert.Equal(t, path+`::"outer"::"inner"::"deep"`, inner.Children[0].ID().String())

	assert.Equal(t, `"shallow"`, outer.Children[1].Name)
	assert.Equal(t, domain.KindTest, outer.Children[1].Kind)

	top := tree.Children[1]
	assert.Equal(t, domain.KindTest, top.Kind)
	assert.Equal(t, path+`::"top"`, top.ID().String())
}

func TestDiscoverPositions_ModifierCallees(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, "a.test.ts", `describe.skip("A", () => {
	it.only("b", () => {});
	test.todo
});
`)

	adapter := newTestAdapter(t, Config{})
	tree, err := adapter.DiscoverPositions(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, tree.Children, 1)
	ns := tree.Children[0]
	assert.Equal(t, domain.KindNamespace, ns.Kind)
	require.Len(t, ns.Children, 1)
	assert.Equal(t, `"b"`, ns.Children[0].Name)
}

func TestDiscoverPositions_CallbackShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		source    string
		wantCount int
	}{
		{
			name:      "arrow function is matched",
			source:    `it("a", () => {});`,
			wantCount: 1,
		},
		{
			name:      "anonymous function expression is matched",
			source:    `it("a", function () {});`,
			wantCount: 1,
		},
		{
			name:      "comment before the callback is skipped",
			source:    `it("a", /* flaky on CI */ () => {});`,
			wantCount: 1,
		},
		{
			name:      "named function expression is not matched",
			source:    `it("a", function helper() {});`,
			wantCount: 0,
		},
		{
			name:      "missing callback is not matched",
			source:    `it("a");`,
			wantCount: 0,
		},
		{
			name:      "non-function second argument is not matched",
			source:    `it("a", 42);`,
			wantCount: 0,
		},
		{
			name:      "unrelated call with matching shape is not matched",
			source:    `register("a", () => {});`,
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeTestFile(t, "a.test.ts", tt.source)
			adapter := newTestAdapter(t, Config{})

			tree, err := adapter.DiscoverPositions(context.Background(), path)
			require.NoError(t, err)
			assert.Len(t, tree.Children, tt.wantCount)
		})
	}
}

func TestDiscoverPositions_EachCallee(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, "a.test.ts", `describe.each([1, 2])("group", () => {
	it.each([3, 4])("case", () => {});
});
`)

	adapter := newTestAdapter(t, Config{})
	tree, err := adapter.DiscoverPositions(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, tree.Children, 1)
	ns := tree.Children[0]
	assert.Equal(t, domain.KindNamespace, ns.Kind)
	require.Len(t, ns.Children, 1)
	assert.Equal(t, domain.KindTest, ns.Children[0].Kind)
}

func TestDiscoverPositions_TemplateStringName(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, "a.test.ts", "it(`templated`, () => {});")

	adapter := newTestAdapter(t, Config{})
	tree, err := adapter.DiscoverPositions(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, tree.Children, 1)
	assert.Equal(t, "`templated`", tree.Children[0].Name)
}

func TestDiscoverPositions_JavaScriptFile(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, "a.spec.js", `describe("js", () => {
	it("works", () => {});
});
`)

	adapter := newTestAdapter(t, Config{})
	tree, err := adapter.DiscoverPositions(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, tree.CountTests())
}

func TestDiscoverPositions_UnreadableFile(t *testing.T) {
	t.Parallel()

	adapter := newTestAdapter(t, Config{})
	_, err := adapter.DiscoverPositions(context.Background(), "/does/not/exist.test.ts")
	assert.Error(t, err)
}

func TestUnquoteName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "double quotes", text: `"foo"`, want: "foo"},
		{name: "single quotes", text: `'foo'`, want: "foo"},
		{name: "backticks", text: "`foo`", want: "foo"},
		{name: "escaped single quote", text: `'it\'s'`, want: "it's"},
		{name: "regex metacharacters survive", text: `'foo (bar)'`, want: "foo (bar)"},
		{name: "too short", text: "x", want: "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, UnquoteName(tt.text))
		})
	}
}
