package lang

import (
	_ "embed"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	ts "github.com/smacker/go-tree-sitter/typescript/typescript"
)

//go:embed queries/typescript/imports.scm
var typescriptImportsQuery string

// TypeScript implements the Language interface for .ts sources.
type TypeScript struct{}

// TSX implements the Language interface for .tsx sources.
type TSX struct{}

func init() {
	Register(&TypeScript{})
	Register(&TSX{})
}

func (t *TypeScript) Name() string {
	return "typescript"
}

func (t *TypeScript) Extensions() []string {
	return []string{".ts", ".mts", ".cts"}
}

func (t *TypeScript) TreeSitterLang() *sitter.Language {
	return ts.GetLanguage()
}

func (t *TypeScript) ImportsQuery() string {
	return typescriptImportsQuery
}

func (t *TSX) Name() string {
	return "tsx"
}

func (t *TSX) Extensions() []string {
	return []string{".tsx"}
}

func (t *TSX) TreeSitterLang() *sitter.Language {
	return tsx.GetLanguage()
}

func (t *TSX) ImportsQuery() string {
	return typescriptImportsQuery
}
