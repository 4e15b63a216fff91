// Package types defines shared data types for trpcgen.
package types

// Position represents a location in a source file.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// DeclarationKind classifies a top-level declaration.
type DeclarationKind int

const (
	UnknownDeclaration DeclarationKind = iota
	VariableDeclaration
	ClassDeclaration
	InterfaceDeclaration
	EnumDeclaration
	FunctionDeclaration
	TypeAliasDeclaration
)

func (k DeclarationKind) String() string {
	switch k {
	case VariableDeclaration:
		return "variable"
	case ClassDeclaration:
		return "class"
	case InterfaceDeclaration:
		return "interface"
	case EnumDeclaration:
		return "enum"
	case FunctionDeclaration:
		return "function"
	case TypeAliasDeclaration:
		return "type alias"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind by its display name.
func (k DeclarationKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ResolvedDeclaration is the result of resolving a name in a file.
type ResolvedDeclaration struct {
	Path  string          `json:"path"`
	Name  string          `json:"name"` // name as declared in Path
	Start uint32          `json:"start"`
	End   uint32          `json:"end"`
	Kind  DeclarationKind `json:"kind"`
}

// ProcedureKind is the RPC verb of a procedure.
type ProcedureKind string

const (
	Query    ProcedureKind = "query"
	Mutation ProcedureKind = "mutation"
)

// ProcedureMetadata describes one decorated router method.
type ProcedureMetadata struct {
	Name   string        `json:"name"`
	Kind   ProcedureKind `json:"kind"`
	Input  string        `json:"input,omitempty"`
	Output string        `json:"output,omitempty"`

	// InputRef and OutputRef are set when the schema is a bare identifier
	// that can be imported instead of inlined. A set ref equals the schema text.
	InputRef  string `json:"input_ref,omitempty"`
	OutputRef string `json:"output_ref,omitempty"`

	// Identifiers lists the names referenced by the input and output schemas,
	// in order of first appearance, without the validator namespace.
	Identifiers []string `json:"identifiers,omitempty"`
}

// HasInput reports whether the procedure declares an input schema.
func (p ProcedureMetadata) HasInput() bool { return p.Input != "" }

// HasOutput reports whether the procedure declares an output schema.
func (p ProcedureMetadata) HasOutput() bool { return p.Output != "" }

// RouterMetadata describes one decorated router class.
type RouterMetadata struct {
	Name        string              `json:"name"`
	Alias       string              `json:"alias,omitempty"`
	File        string              `json:"file"`
	Procedures  []ProcedureMetadata `json:"procedures"`
	Middlewares []string            `json:"middlewares,omitempty"`
}

// TransformerInfo describes the data transformer registered with the module.
type TransformerInfo struct {
	Package string `json:"package"`
	Name    string `json:"name"`
	Default bool   `json:"default"`
}

// ModuleOptions are the options passed to TRPCModule.forRoot.
type ModuleOptions struct {
	Context        string `json:"context,omitempty"`
	AutoSchemaFile string `json:"auto_schema_file,omitempty"`
	Transformer    string `json:"transformer,omitempty"`

	// ContextFile is the file the context class is imported from, when it
	// is a relative import.
	ContextFile string `json:"context_file,omitempty"`
}

// ContextProperty is one property a middleware adds to the request context.
type ContextProperty struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// MiddlewareInfo describes a middleware class.
type MiddlewareInfo struct {
	Name       string            `json:"name"`
	File       string            `json:"file"`
	Properties []ContextProperty `json:"properties"`
}

// ContextInfo describes a context factory class.
type ContextInfo struct {
	Name       string `json:"name"`
	File       string `json:"file"`
	ReturnType string `json:"return_type"`
}

// SchemaLocations maps an identifier to the file path or package specifier
// it can be imported from.
type SchemaLocations map[string]string

// Names returns the set of importable identifiers.
func (l SchemaLocations) Names() map[string]struct{} {
	names := make(map[string]struct{}, len(l))
	for name := range l {
		names[name] = struct{}{}
	}
	return names
}

// SkippedFile is a candidate file that was excluded from a run.
type SkippedFile struct {
	File     string   `json:"file"`
	Position Position `json:"position"`
	Message  string   `json:"message"`
}

// FileJob represents a file to be processed.
type FileJob struct {
	AbsPath     string
	DisplayPath string
}
