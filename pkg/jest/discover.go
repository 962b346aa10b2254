package jest

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/jestbridge/pkg/domain"
	"github.com/specvital/jestbridge/pkg/parser"
	"github.com/specvital/jestbridge/pkg/parser/tspool"
	"github.com/specvital/jestbridge/pkg/source"
)

// declarationQuery matches every call of the form fn("name", ...) where fn
// is an identifier, a member access, or itself a call (describe.each(...)).
// Callee filtering and the second-argument shape check happen Go-side so one
// compiled query serves both the namespace and test patterns.
const declarationQuery = `(call_expression
  function: [(identifier) (member_expression) (call_expression)] @callee
  arguments: (arguments . [(string) (template_string)] @name)) @definition`

var (
	namespaceCalleePattern = regexp.MustCompile(`^describe`)
	testCalleePattern      = regexp.MustCompile(`^(it|test)`)
)

type declaration struct {
	kind domain.Kind
	name string
	rng  domain.Range
}

// DiscoverPositions parses path and returns its position tree:
// file → namespace → test, nested by lexical containment of the defining
// spans. A parseable file with no test declarations still yields a root
// file position with no children. Parse or read failures return an error
// and no partial tree.
//
// Only declarations whose second argument is an arrow function or an
// anonymous function expression are recognized; named function expressions
// and missing callbacks are deliberately not matched.
func (a *Adapter) DiscoverPositions(ctx context.Context, path string) (*domain.Position, error) {
	src, err := source.ReadFileCapped(path, a.maxFileSize)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	lang := parser.DetectLanguage(path)
	tree, err := tspool.Parse(ctx, lang, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()
	rootNode := tree.RootNode()

	matches, err := tspool.QueryWithCache(rootNode, src, lang, declarationQuery)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", path, err)
	}

	declarations := collectDeclarations(matches, src)

	root := &domain.Position{
		Kind:  domain.KindFile,
		Name:  filepath.Base(path),
		Path:  path,
		Range: parser.GetRange(rootNode),
	}
	root.SetID(domain.PositionID{Path: path})

	buildTree(root, declarations)

	return root, nil
}

func collectDeclarations(matches []tspool.QueryResult, src []byte) []declaration {
	var declarations []declaration
	for _, m := range matches {
		callee := m.Captures["callee"]
		name := m.Captures["name"]
		definition := m.Captures["definition"]
		if callee == nil || name == nil || definition == nil {
			continue
		}

		kind, ok := classifyCallee(parser.GetNodeText(callee, src))
		if !ok {
			continue
		}

		if !hasFunctionCallback(definition.ChildByFieldName("arguments")) {
			continue
		}

		declarations = append(declarations, declaration{
			kind: kind,
			name: parser.GetNodeText(name, src),
			rng:  parser.GetRange(definition),
		})
	}

	// Outer declarations first so containment nesting sees parents before
	// children. Query match order is close to document order already, but
	// not guaranteed.
	sort.SliceStable(declarations, func(i, j int) bool {
		a, b := declarations[i].rng, declarations[j].rng
		if a.StartLine != b.StartLine {
			return a.StartLine < b.StartLine
		}
		if a.StartCol != b.StartCol {
			return a.StartCol < b.StartCol
		}
		if a.EndLine != b.EndLine {
			return a.EndLine > b.EndLine
		}
		return a.EndCol > b.EndCol
	})

	return declarations
}

func classifyCallee(callee string) (domain.Kind, bool) {
	switch {
	case namespaceCalleePattern.MatchString(callee):
		return domain.KindNamespace, true
	case testCalleePattern.MatchString(callee):
		return domain.KindTest, true
	default:
		return "", false
	}
}

// hasFunctionCallback reports whether the argument after the name is an
// arrow function or an anonymous function expression. Comment nodes in the
// argument list are skipped. The node type for anonymous functions differs
// across grammar versions, so both spellings are accepted.
func hasFunctionCallback(args *sitter.Node) bool {
	if args == nil {
		return false
	}

	seenName := false
	for i := 0; i < int(args.NamedChildCount()); i++ {
		child := args.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		if !seenName {
			seenName = true
			continue
		}
		switch child.Type() {
		case "arrow_function":
			return true
		case "function", "function_expression":
			return child.ChildByFieldName("name") == nil
		default:
			return false
		}
	}
	return false
}

// buildTree nests declarations under root by span containment. Namespaces
// become containers; tests are always leaves.
func buildTree(root *domain.Position, declarations []declaration) {
	stack := []*domain.Position{root}

	for _, d := range declarations {
		for len(stack) > 1 && !stack[len(stack)-1].Range.Contains(d.rng) {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1]

		pos := &domain.Position{
			Kind:  d.kind,
			Name:  d.name,
			Path:  root.Path,
			Range: d.rng,
		}
		pos.SetID(parent.ID().Child(d.name))
		parent.Children = append(parent.Children, pos)

		if d.kind == domain.KindNamespace {
			stack = append(stack, pos)
		}
	}
}

// UnquoteName strips the source quoting from a captured declaration name.
func UnquoteName(text string) string {
	if len(text) < 2 {
		return text
	}

	if text[0] == '`' && text[len(text)-1] == '`' {
		return text[1 : len(text)-1]
	}

	// Handle single-quoted JavaScript strings.
	// Go's strconv.Unquote only handles double-quoted strings, so we need to
	// convert single-quoted strings to double-quoted format first:
	// 1. Remove outer single quotes and get the inner content
	// 2. Unescape JavaScript's escaped single quotes (\' -> ')
	// 3. Escape any double quotes for Go's strconv.Unquote
	// 4. Wrap in double quotes and parse with strconv.Unquote
	if text[0] == '\'' && text[len(text)-1] == '\'' {
		inner := text[1 : len(text)-1]
		inner = strings.ReplaceAll(inner, `\'`, `'`)
		escaped := strings.ReplaceAll(inner, `"`, `\"`)
		converted := `"` + escaped + `"`
		if s, err := strconv.Unquote(converted); err == nil {
			return s
		}
		return text
	}

	if s, err := strconv.Unquote(text); err == nil {
		return s
	}

	return text
}
