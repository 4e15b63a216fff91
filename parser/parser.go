// Package parser provides tree-sitter parsing of TypeScript sources.
package parser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arjunmahishi/trpcgen/lang"
	"github.com/arjunmahishi/trpcgen/types"
	sitter "github.com/smacker/go-tree-sitter"
)

const defaultLanguage = "typescript"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// SyntaxError reports the first error node of a parsed file.
type SyntaxError struct {
	Path    string
	Line    int
	Column  int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
}

// Source is an immutable parsed file.
type Source struct {
	Path    string
	Content []byte
	Tree    *sitter.Tree
	Lang    lang.Language
}

// Root returns the program node.
func (s *Source) Root() *sitter.Node {
	return s.Tree.RootNode()
}

// Text returns the source text covered by n.
func (s *Source) Text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(s.Content)
}

// Slice returns the source text in [start, end).
func (s *Source) Slice(start, end uint32) string {
	if int(end) > len(s.Content) || start > end {
		return ""
	}
	return string(s.Content[start:end])
}

// Position returns the 1-based line and column where n starts.
func (s *Source) Position(n *sitter.Node) types.Position {
	p := n.StartPoint()
	return types.Position{Line: int(p.Row) + 1, Column: int(p.Column) + 1}
}

// Dir returns the directory containing the source file.
func (s *Source) Dir() string {
	return filepath.Dir(s.Path)
}

// Parser wraps one tree-sitter parser per language. It is not safe for
// concurrent use.
type Parser struct {
	parsers map[string]*sitter.Parser
}

// New creates a new Parser.
func New() *Parser {
	return &Parser{parsers: make(map[string]*sitter.Parser)}
}

func (p *Parser) parserFor(language lang.Language) *sitter.Parser {
	sp, ok := p.parsers[language.Name()]
	if !ok {
		sp = sitter.NewParser()
		sp.SetLanguage(language.TreeSitterLang())
		p.parsers[language.Name()] = sp
	}
	return sp
}

// languageFor picks the grammar by file extension, defaulting to TypeScript.
func languageFor(path string) (lang.Language, error) {
	if language := lang.ByExtension(strings.ToLower(filepath.Ext(path))); language != nil {
		return language, nil
	}
	language := lang.Get(defaultLanguage)
	if language == nil {
		return nil, errors.New(defaultLanguage + " language not registered")
	}
	return language, nil
}

// ParseSource parses content as the file at path.
func (p *Parser) ParseSource(path string, content []byte) (*Source, error) {
	language, err := languageFor(path)
	if err != nil {
		return nil, err
	}

	content = bytes.TrimPrefix(content, utf8BOM)
	tree, err := p.parserFor(language).ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	src := &Source{Path: path, Content: content, Tree: tree, Lang: language}
	if src.Root().HasError() {
		return nil, src.syntaxError()
	}
	return src, nil
}

// ParseFile reads and parses a file.
func (p *Parser) ParseFile(path string) (*Source, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return p.ParseSource(path, content)
}

// ParseExpression parses text as a standalone expression. The returned node
// belongs to the returned source, whose content wraps text in a declaration.
func (p *Parser) ParseExpression(text string) (*Source, *sitter.Node, error) {
	src, err := p.ParseSource("<expression>", []byte("const __schema = "+text+";"))
	if err != nil {
		return nil, nil, err
	}
	for _, stmt := range NamedChildren(src.Root()) {
		if stmt.Type() != "lexical_declaration" {
			continue
		}
		for _, decl := range NamedChildren(stmt) {
			if decl.Type() != "variable_declarator" {
				continue
			}
			if value := decl.ChildByFieldName("value"); value != nil {
				return src, value, nil
			}
		}
	}
	return nil, nil, &SyntaxError{Path: "<expression>", Line: 1, Column: 1, Message: "not an expression"}
}

func (s *Source) syntaxError() *SyntaxError {
	n := firstErrorNode(s.Root())
	if n == nil {
		return &SyntaxError{Path: s.Path, Line: 1, Column: 1, Message: "invalid syntax"}
	}

	pos := s.Position(n)
	msg := "unexpected " + strings.TrimSpace(firstLine(s.Text(n)))
	if n.IsMissing() {
		msg = "missing " + n.Type()
	} else if s.Text(n) == "" {
		msg = "unexpected end of input"
	}
	return &SyntaxError{Path: s.Path, Line: pos.Line, Column: pos.Column, Message: msg}
}

func firstErrorNode(n *sitter.Node) *sitter.Node {
	if n == nil || !n.HasError() && !n.IsMissing() {
		return nil
	}
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if found := firstErrorNode(n.Child(i)); found != nil {
			return found
		}
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// Query represents a compiled tree-sitter query.
type Query struct {
	query        *sitter.Query
	captureNames []string
}

// Capture is a single node captured by a query.
type Capture struct {
	Name string
	Node *sitter.Node
	Text string
}

// NewQuery compiles a tree-sitter query string.
func NewQuery(queryStr string, language lang.Language) (*Query, error) {
	q, err := sitter.NewQuery([]byte(queryStr), language.TreeSitterLang())
	if err != nil {
		return nil, fmt.Errorf("compile query: %w", err)
	}

	captureCount := int(q.CaptureCount())
	captureNames := make([]string, captureCount)
	for i := 0; i < captureCount; i++ {
		captureNames[i] = q.CaptureNameForId(uint32(i))
	}

	return &Query{
		query:        q,
		captureNames: captureNames,
	}, nil
}

// Run executes the query on a source and returns captures in match order.
func (q *Query) Run(src *Source) []Capture {
	cursor := sitter.NewQueryCursor()
	cursor.Exec(q.query, src.Root())

	var captures []Capture
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		for _, capture := range match.Captures {
			node := capture.Node
			captures = append(captures, Capture{
				Name: q.captureName(capture.Index),
				Node: node,
				Text: node.Content(src.Content),
			})
		}
	}

	return captures
}

func (q *Query) captureName(index uint32) string {
	if int(index) >= len(q.captureNames) {
		return fmt.Sprintf("capture_%d", index)
	}
	return q.captureNames[index]
}
