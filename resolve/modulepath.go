package resolve

import (
	"os"
	"path/filepath"
	"strings"
)

// ResolveModulePath maps a module specifier, relative to dir, to a file on
// disk. Candidates are tried in order: the literal path when it is a regular
// file, path.ts, path.tsx, the extension swapped to .ts and .tsx,
// path/index.ts, path/index.tsx and finally the literal path if it exists.
func ResolveModulePath(dir, spec string) (string, bool) {
	base := spec
	if !filepath.IsAbs(spec) {
		base = filepath.Join(dir, spec)
	}

	if isFile(base) {
		return base, true
	}

	candidates := []string{base + ".ts", base + ".tsx"}
	if ext := filepath.Ext(base); ext != "" {
		stem := strings.TrimSuffix(base, ext)
		candidates = append(candidates, stem+".ts", stem+".tsx")
	}
	candidates = append(candidates,
		filepath.Join(base, "index.ts"),
		filepath.Join(base, "index.tsx"),
	)

	for _, candidate := range candidates {
		if isFile(candidate) {
			return candidate, true
		}
	}

	if _, err := os.Stat(base); err == nil {
		return base, true
	}
	return "", false
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
