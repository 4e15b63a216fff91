package trpcgen

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/arjunmahishi/trpcgen/extract"
	"github.com/arjunmahishi/trpcgen/parser"
	"github.com/rs/zerolog"
)

// candidateModules are checked, relative to the base directory, when
// package.json does not lead to the root module.
var candidateModules = []string{
	"src/main.ts",
	"src/app.module.ts",
	"lib/main.ts",
	"lib/app.module.ts",
	"app.module.ts",
}

// siblingModules are checked next to a package.json entry point.
var siblingModules = []string{"app.module.ts", "main.module.ts"}

type packageJSON struct {
	Source string `json:"source"`
	Main   string `json:"main"`
}

// FindRootModule locates the file calling TRPCModule.forRoot below base.
// package.json "source" and "main" are tried first, then a fixed list of
// conventional locations.
func FindRootModule(base string, log zerolog.Logger) (string, error) {
	p := parser.New()

	entry, err := packageEntryPoint(base)
	if err != nil {
		return "", err
	}
	if entry != "" {
		log.Debug().Str("entry", entry).Msg("found entry point in package.json")
		if module, ok := moduleNear(p, entry); ok {
			return module, nil
		}
	}

	searched := make([]string, 0, len(candidateModules))
	for _, candidate := range candidateModules {
		path := filepath.Join(base, candidate)
		searched = append(searched, path)
		log.Trace().Str("candidate", path).Msg("checking candidate")
		if hasModule(p, path) {
			return path, nil
		}
	}

	return "", &Error{
		Kind:        KindModuleNotFound,
		Message:     "could not find a module calling TRPCModule.forRoot",
		Suggestions: append(searched, "use --entrypoint to point at the module"),
	}
}

func packageEntryPoint(base string) (string, error) {
	path := filepath.Join(base, "package.json")
	content, err := os.ReadFile(path)
	if err != nil {
		return "", nil
	}

	var pkg packageJSON
	if err := json.Unmarshal(content, &pkg); err != nil {
		return "", &Error{Kind: KindInvalidPackage, Message: "invalid JSON", Path: path, Err: err}
	}

	if pkg.Source != "" {
		if source := filepath.Join(base, pkg.Source); exists(source) {
			return source, nil
		}
	}
	if pkg.Main != "" {
		main := filepath.Join(base, pkg.Main)
		ts := strings.TrimSuffix(main, filepath.Ext(main)) + ".ts"
		if exists(ts) {
			return ts, nil
		}
		if exists(main) {
			return main, nil
		}
	}
	return "", nil
}

func moduleNear(p *parser.Parser, entry string) (string, bool) {
	if hasModule(p, entry) {
		return entry, true
	}
	dir := filepath.Dir(entry)
	for _, name := range siblingModules {
		if path := filepath.Join(dir, name); hasModule(p, path) {
			return path, true
		}
	}
	return "", false
}

func hasModule(p *parser.Parser, path string) bool {
	src, err := p.ParseFile(path)
	if err != nil {
		return false
	}
	_, ok := extract.ModuleOptions(src)
	return ok
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
