// Package parser wraps the tree-sitter plumbing shared by discovery:
// language detection, node text extraction, and source ranges.
package parser

import (
	"path/filepath"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/jestbridge/pkg/domain"
	"github.com/specvital/jestbridge/pkg/parser/tspool"
)

// DetectLanguage determines the grammar based on file extension.
func DetectLanguage(filename string) tspool.Language {
	ext := filepath.Ext(filename)
	switch ext {
	case ".js", ".jsx", ".coffee":
		return tspool.LanguageJavaScript
	case ".tsx":
		return tspool.LanguageTSX
	default:
		return tspool.LanguageTypeScript
	}
}

// GetNodeText returns the source text for the given AST node.
// Returns empty string if the node's byte range exceeds the source length.
// Uses defensive bounds checking and panic recovery to handle edge cases.
func GetNodeText(node *sitter.Node, source []byte) (result string) {
	start := node.StartByte()
	end := node.EndByte()
	sourceLen := uint32(len(source))

	// Validate bounds before calling tree-sitter C code
	if start > sourceLen || end > sourceLen {
		return ""
	}

	// Call Content() with panic recovery to handle unexpected slice bounds issues
	// This can occur when tree-sitter's internal C code attempts to access memory
	// beyond the slice capacity, particularly in concurrent scenarios with parser reuse
	defer func() {
		if r := recover(); r != nil {
			// Return empty string on panic, matching the documented behavior
			result = ""
		}
	}()

	return node.Content(source)
}

// GetRange converts a tree-sitter node span to a [domain.Range].
// Lines and columns stay 0-based, matching the runner's report locations.
func GetRange(node *sitter.Node) domain.Range {
	start := node.StartPoint()
	end := node.EndPoint()

	return domain.Range{
		StartLine: int(start.Row),
		StartCol:  int(start.Column),
		EndLine:   int(end.Row),
		EndCol:    int(end.Column),
	}
}
