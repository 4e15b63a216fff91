package trpcgen

import "github.com/rs/zerolog"

// DefaultOutputPath is where the server module is written when no output is
// configured.
const DefaultOutputPath = "./@generated"

// GenerateOptions configures the Generate and Render functions.
type GenerateOptions struct {
	// Dir is the working directory used to discover the root module and to
	// resolve relative paths. If empty, current directory is used.
	Dir string

	// EntryPoint is the file holding TRPCModule.forRoot. If empty, it is
	// discovered from Dir. Routers are scanned below its directory.
	EntryPoint string

	// Output is a directory receiving server.ts, or a .ts/.tsx file path.
	// Defaults to DefaultOutputPath.
	Output string

	// RouterPattern selects router files relative to the scan root.
	// Defaults to scanner.DefaultPattern.
	RouterPattern string

	// MaxImportDepth bounds re-export resolution.
	// If 0, resolve.DefaultMaxDepth is used.
	MaxImportDepth int

	// MaxSchemaDepth bounds nested schema inlining.
	// If 0, schema.DefaultMaxDepth is used.
	MaxSchemaDepth int

	// Namespace is the validator namespace identifier. Defaults to "z".
	Namespace string

	SingleQuotes bool
	NoSemicolons bool

	// MaxBytes skips router files larger than this size.
	// If 0, no size limit is enforced.
	MaxBytes int64

	Logger zerolog.Logger
}

// InspectOptions configures the Inspect function.
type InspectOptions struct {
	// Path is the root directory to scan for files.
	// If empty, current directory is used.
	Path string

	// File is a single file to inspect.
	// If set, Path is ignored.
	File string

	// Pattern selects the files to inspect. Defaults to "**/*.ts".
	Pattern string

	// Jobs is the number of parallel workers.
	// If 0, defaults to number of CPUs.
	Jobs int

	// MaxBytes skips files larger than this size.
	// If 0, no size limit is enforced.
	MaxBytes int64

	Logger zerolog.Logger
}
