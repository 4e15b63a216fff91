package trpcgen

import (
	"github.com/arjunmahishi/trpcgen/parser"
	"github.com/arjunmahishi/trpcgen/resolve"
	"github.com/arjunmahishi/trpcgen/types"
)

// schemaLocations maps every name a generated module could import to the
// file or package it comes from. Relative imports of router files always
// win; package imports and exported variables only fill gaps.
func (r *run) schemaLocations(sources []*parser.Source) types.SchemaLocations {
	locations := make(types.SchemaLocations)
	for _, src := range sources {
		imports, err := r.resolver.ImportMap(src.Path)
		if err != nil {
			r.log.Warn().Err(err).Str("file", src.Path).Msg("failed to build import map")
		}
		for local, decl := range imports {
			locations[local] = decl.Path
		}

		for _, ext := range resolve.ExternalImports(src) {
			if _, ok := locations[ext.Local]; !ok {
				locations[ext.Local] = ext.Package
			}
		}

		for _, name := range resolve.ExportedVariables(src) {
			if _, ok := locations[name]; !ok {
				locations[name] = src.Path
			}
		}
	}

	r.log.Debug().Int("count", len(locations)).Msg("built schema locations")
	return locations
}
