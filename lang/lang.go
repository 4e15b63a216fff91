// Package lang holds the registry of source languages trpcgen can parse.
package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Language defines the interface for a supported source language.
type Language interface {
	// Name returns the language identifier (e.g., "typescript").
	Name() string

	// Extensions returns file extensions for this language (e.g., [".ts"]).
	Extensions() []string

	// TreeSitterLang returns the tree-sitter language grammar.
	TreeSitterLang() *sitter.Language

	// ImportsQuery returns the tree-sitter query capturing module specifiers
	// of import and re-export statements as @source.
	ImportsQuery() string
}

// registry holds all registered languages.
var registry = make(map[string]Language)

// Register adds a language to the registry.
// This is typically called from init() functions in language implementation files.
func Register(lang Language) {
	registry[lang.Name()] = lang
}

// Get returns a language by name, or nil if not found.
func Get(name string) Language {
	return registry[name]
}

// ByExtension finds a language by file extension.
func ByExtension(ext string) Language {
	for _, lang := range registry {
		for _, e := range lang.Extensions() {
			if e == ext {
				return lang
			}
		}
	}
	return nil
}
