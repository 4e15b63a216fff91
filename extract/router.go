package extract

import (
	"github.com/arjunmahishi/trpcgen/parser"
	"github.com/arjunmahishi/trpcgen/types"
)

// Routers returns every top-level class decorated with @Router, in source
// order, together with its procedures and middleware names.
func Routers(src *parser.Source) []types.RouterMetadata {
	var routers []types.RouterMetadata
	for _, decl := range src.TopLevel() {
		if !decl.IsClass() {
			continue
		}
		d, ok := findDecorator(src, decl.Decorators, "Router")
		if !ok {
			continue
		}

		router := types.RouterMetadata{
			Name:        src.ClassName(decl),
			File:        src.Path,
			Procedures:  procedures(src, decl),
			Middlewares: useMiddlewares(src, decl),
		}
		if opts := d.firstObjectArg(); opts != nil {
			if alias, ok := src.StringValue(property(src, opts, "alias")); ok {
				router.Alias = alias
			}
		}
		if router.Procedures == nil {
			router.Procedures = []types.ProcedureMetadata{}
		}
		routers = append(routers, router)
	}
	return routers
}
