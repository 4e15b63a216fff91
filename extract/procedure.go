package extract

import (
	"github.com/arjunmahishi/trpcgen/parser"
	"github.com/arjunmahishi/trpcgen/schema"
	"github.com/arjunmahishi/trpcgen/types"
)

var procedureKinds = map[string]types.ProcedureKind{
	"Query":    types.Query,
	"Mutation": types.Mutation,
}

// Procedures returns the @Query and @Mutation methods of the named class.
// A method with several procedure decorators yields one entry per decorator.
func Procedures(src *parser.Source, className string) []types.ProcedureMetadata {
	class, ok := src.FindClass(className)
	if !ok {
		return nil
	}
	return procedures(src, class)
}

func procedures(src *parser.Source, class parser.TopLevel) []types.ProcedureMetadata {
	var out []types.ProcedureMetadata
	for _, method := range src.Methods(parser.ClassBody(class.Node)) {
		if name := method.Node.ChildByFieldName("name"); name == nil || name.Type() != "property_identifier" {
			continue
		}
		for _, n := range method.Decorators {
			d, ok := parseDecorator(src, n)
			if !ok {
				continue
			}
			kind, ok := procedureKinds[d.Name]
			if !ok {
				continue
			}
			out = append(out, procedure(src, method.Name, kind, d))
		}
	}
	return out
}

func procedure(src *parser.Source, name string, kind types.ProcedureKind, d decorator) types.ProcedureMetadata {
	p := types.ProcedureMetadata{Name: name, Kind: kind}

	opts := d.firstObjectArg()
	if opts == nil {
		return p
	}

	input := property(src, opts, "input")
	output := property(src, opts, "output")
	if input != nil {
		p.Input = src.Text(input)
		if parser.IsIdentifier(input) {
			p.InputRef = p.Input
		}
	}
	if output != nil {
		p.Output = src.Text(output)
		if parser.IsIdentifier(output) {
			p.OutputRef = p.Output
		}
	}

	p.Identifiers = schema.IdentifiersOf(src, schema.DefaultNamespace, input, output)
	return p
}
