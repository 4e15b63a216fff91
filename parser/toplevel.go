package parser

import sitter "github.com/smacker/go-tree-sitter"

// TopLevel is a top-level declaration unwrapped from any export statement.
type TopLevel struct {
	// Node is the declaration itself (class_declaration, lexical_declaration, ...).
	Node *sitter.Node

	// Statement is the program child holding the declaration.
	Statement *sitter.Node

	Exported bool
	Default  bool

	// Decorators attached to the export statement or to the declaration.
	Decorators []*sitter.Node
}

// TopLevel returns the top-level declarations of the file in source order.
func (s *Source) TopLevel() []TopLevel {
	var out []TopLevel
	for _, stmt := range NamedChildren(s.Root()) {
		entry := TopLevel{Statement: stmt, Node: stmt}

		if stmt.Type() == "export_statement" {
			entry.Exported = true
			entry.Default = HasChildToken(stmt, "default")
			entry.Decorators = ChildrenOfType(stmt, "decorator")
			entry.Node = stmt.ChildByFieldName("declaration")
			if entry.Node == nil {
				entry.Node = stmt.ChildByFieldName("value")
			}
			if entry.Node == nil {
				continue
			}
		}

		if entry.Node.Type() == "ambient_declaration" {
			entry.Node = FirstNamedChild(entry.Node)
			if entry.Node == nil {
				continue
			}
		}

		entry.Decorators = append(entry.Decorators, ChildrenOfType(entry.Node, "decorator")...)
		out = append(out, entry)
	}
	return out
}

// IsClass reports whether the declaration is a class.
func (t TopLevel) IsClass() bool {
	switch t.Node.Type() {
	case "class_declaration", "abstract_class_declaration", "class":
		return true
	}
	return false
}

// ClassName returns the declared class name, or "default" for an anonymous
// default-exported class.
func (s *Source) ClassName(t TopLevel) string {
	if name := t.Node.ChildByFieldName("name"); name != nil {
		return s.Text(name)
	}
	if t.Default {
		return "default"
	}
	return ""
}

// ClassBody returns the class_body node of a class declaration.
func ClassBody(class *sitter.Node) *sitter.Node {
	if body := class.ChildByFieldName("body"); body != nil {
		return body
	}
	for _, child := range NamedChildren(class) {
		if child.Type() == "class_body" {
			return child
		}
	}
	return nil
}

// Method is a class method with the decorators written above it.
type Method struct {
	Node       *sitter.Node
	Name       string
	Decorators []*sitter.Node
}

// Methods returns the methods of a class body in source order. Decorators
// may be parsed as siblings preceding the method or as its own children;
// both are collected.
func (s *Source) Methods(body *sitter.Node) []Method {
	var out []Method
	var pending []*sitter.Node
	for _, member := range NamedChildren(body) {
		switch member.Type() {
		case "decorator":
			pending = append(pending, member)
			continue
		case "method_definition":
			name, ok := s.PropertyName(member.ChildByFieldName("name"))
			if ok {
				decorators := append(pending, ChildrenOfType(member, "decorator")...)
				out = append(out, Method{Node: member, Name: name, Decorators: decorators})
			}
		}
		pending = nil
	}
	return out
}

// FindClass returns the top-level class with the given name.
func (s *Source) FindClass(name string) (TopLevel, bool) {
	for _, decl := range s.TopLevel() {
		if decl.IsClass() && s.ClassName(decl) == name {
			return decl, true
		}
	}
	return TopLevel{}, false
}
