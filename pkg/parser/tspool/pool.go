// Package tspool provides tree-sitter parsers for the JavaScript language
// family.
//
// This package centralizes parser management to:
//   - Provide consistent parser creation across components
//   - Ensure thread-safe language initialization
//
// Note: Parser pooling is disabled due to tree-sitter cancellation flag issues.
// When a context is cancelled during ParseCtx, the parser's internal cancel flag
// is set but not properly reset, causing subsequent parses to fail with
// "operation limit was hit". Creating fresh parsers avoids this issue.
//
// Thread-safety: Parsers returned by Get are NOT safe for concurrent use.
// Each goroutine must Get its own parser or use the Parse helper.
package tspool

import (
	"context"
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Language identifies a grammar this bridge can parse.
type Language string

// Supported grammars.
const (
	LanguageJavaScript Language = "javascript"
	LanguageTypeScript Language = "typescript"
	LanguageTSX        Language = "tsx"
)

var (
	jsLang  *sitter.Language
	tsLang  *sitter.Language
	tsxLang *sitter.Language

	langOnce sync.Once
)

func initLanguages() {
	langOnce.Do(func() {
		jsLang = javascript.GetLanguage()
		tsLang = typescript.GetLanguage()
		tsxLang = tsx.GetLanguage()
	})
}

// GetLanguage returns the tree-sitter language for the given grammar.
func GetLanguage(lang Language) *sitter.Language {
	initLanguages()
	switch lang {
	case LanguageJavaScript:
		return jsLang
	case LanguageTSX:
		return tsxLang
	default:
		return tsLang
	}
}

// Get returns a parser for the given language.
// The returned parser is NOT safe for concurrent use.
// Caller MUST call parser.Close() when done to free resources.
func Get(lang Language) *sitter.Parser {
	initLanguages()
	parser := sitter.NewParser()
	parser.SetLanguage(GetLanguage(lang))
	return parser
}

// Parse parses source using a fresh parser.
// Caller MUST call tree.Close() to free resources.
func Parse(ctx context.Context, lang Language, source []byte) (*sitter.Tree, error) {
	parser := Get(lang)
	defer parser.Close()

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse %s failed: %w", lang, err)
	}

	return tree, nil
}
