package generator

import (
	"path/filepath"
	"strings"

	"github.com/arjunmahishi/trpcgen/types"
)

// importGroup is one schema import statement.
type importGroup struct {
	Path  string
	Names []string
}

// groupImports collects the schema names referenced by the procedures that
// have a known location, grouped by import path. Paths keep their first
// appearance order and names their first-seen order.
func groupImports(routers []types.RouterMetadata, locations types.SchemaLocations, outputPath string) []importGroup {
	outputDir := filepath.Dir(outputPath)

	var groups []importGroup
	index := make(map[string]int)
	seen := make(map[string]bool)
	for _, router := range routers {
		for _, p := range router.Procedures {
			for _, name := range p.Identifiers {
				if seen[name] {
					continue
				}
				seen[name] = true
				location, ok := locations[name]
				if !ok {
					continue
				}
				path := ImportPath(outputDir, location)
				i, ok := index[path]
				if !ok {
					i = len(groups)
					index[path] = i
					groups = append(groups, importGroup{Path: path})
				}
				groups[i].Names = append(groups[i].Names, name)
			}
		}
	}
	return groups
}

// ImportPath returns the module specifier that imports location from
// outputDir. Package specifiers are used verbatim when the output directory
// is absolute.
func ImportPath(outputDir, location string) string {
	if filepath.IsAbs(outputDir) && !filepath.IsAbs(location) {
		return location
	}

	rel, err := filepath.Rel(outputDir, location)
	if err != nil {
		rel = location
	}
	rel = filepath.ToSlash(rel)
	if trimmed := strings.TrimSuffix(rel, ".ts"); trimmed != rel {
		rel = trimmed
	} else {
		rel = strings.TrimSuffix(rel, ".tsx")
	}

	if strings.HasPrefix(rel, ".") || strings.HasPrefix(rel, "/") {
		return rel
	}
	return "./" + rel
}
