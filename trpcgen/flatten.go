package trpcgen

import (
	"github.com/arjunmahishi/trpcgen/schema"
	"github.com/arjunmahishi/trpcgen/types"
)

// flatten inlines every schema reference the generated module cannot
// import. References that are importable stay as they are.
func (r *run) flatten(routers []types.RouterMetadata, locations types.SchemaLocations) {
	importable := locations.Names()
	f := schema.New(r.resolver, schema.Options{
		MaxDepth:   r.opts.MaxSchemaDepth,
		Namespace:  r.opts.Namespace,
		Importable: importable,
		Logger:     r.log,
	})

	for i := range routers {
		router := &routers[i]
		for j := range router.Procedures {
			r.flattenProcedure(f, &router.Procedures[j], router.File, importable)
		}
	}
}

func (r *run) flattenProcedure(f *schema.Flattener, p *types.ProcedureMetadata, origin string, importable map[string]struct{}) {
	changed := r.flattenSchema(f, &p.Input, &p.InputRef, origin)
	if r.flattenSchema(f, &p.Output, &p.OutputRef, origin) {
		changed = true
	}

	// Nested references the first pass left behind are resolved one by one.
	for _, name := range p.Identifiers {
		if _, ok := importable[name]; ok {
			continue
		}
		resolved, err := f.Flatten(name, origin)
		if err != nil || resolved == name {
			continue
		}
		if r.substitute(&p.Input, &p.InputRef, name, resolved) {
			changed = true
		}
		if r.substitute(&p.Output, &p.OutputRef, name, resolved) {
			changed = true
		}
	}

	if changed || r.opts.Namespace != schema.DefaultNamespace {
		p.Identifiers = r.identifiers(p.Input, p.Output)
	}
}

func (r *run) flattenSchema(f *schema.Flattener, text, ref *string, origin string) bool {
	if *text == "" {
		return false
	}
	flattened, err := f.Flatten(*text, origin)
	if err != nil {
		r.log.Warn().Err(err).Str("schema", *text).Msg("failed to flatten schema")
		return false
	}
	if flattened == *text {
		return false
	}
	*text = flattened
	*ref = ""
	return true
}

func (r *run) substitute(text, ref *string, name, replacement string) bool {
	if *text == "" {
		return false
	}
	out, ok := schema.Substitute(r.arena.Parser(), *text, name, replacement)
	if !ok {
		return false
	}
	*text = out
	*ref = ""
	return true
}

// identifiers recollects the names referenced by both schemas, in order of
// first appearance.
func (r *run) identifiers(input, output string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, text := range []string{input, output} {
		if text == "" {
			continue
		}
		for _, name := range schema.Identifiers(r.arena.Parser(), text, r.opts.Namespace) {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	return out
}
