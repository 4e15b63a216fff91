package trpcgen

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/stretchr/testify/require"
)

func TestDataDriven(t *testing.T) {
	datadriven.Walk(t, "testdata", func(t *testing.T, path string) {
		tmpDir := t.TempDir()

		datadriven.RunTest(t, path, func(t *testing.T, d *datadriven.TestData) string {
			switch d.Cmd {
			case "file":
				return handleFile(t, d, tmpDir)
			case "generate":
				return handleGenerate(t, d, tmpDir)
			case "summary":
				return handleSummary(t, d, tmpDir)
			case "discover":
				return handleDiscover(t, tmpDir)
			case "inspect":
				return handleInspect(t, d, tmpDir)
			default:
				t.Fatalf("unknown command: %s", d.Cmd)
				return ""
			}
		})
	})
}

// handleFile creates a file in the temp directory
func handleFile(t *testing.T, d *datadriven.TestData, tmpDir string) string {
	var name string
	d.ScanArgs(t, "name", &name)

	absPath := filepath.Join(tmpDir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(absPath), 0755))
	require.NoError(t, os.WriteFile(absPath, []byte(d.Input), 0644))
	return ""
}

func generateOptions(t *testing.T, d *datadriven.TestData, tmpDir string) GenerateOptions {
	opts := GenerateOptions{Dir: tmpDir}
	if d.HasArg("entry") {
		d.ScanArgs(t, "entry", &opts.EntryPoint)
	}
	if d.HasArg("output") {
		d.ScanArgs(t, "output", &opts.Output)
	}
	if d.HasArg("pattern") {
		d.ScanArgs(t, "pattern", &opts.RouterPattern)
	}
	if d.HasArg("namespace") {
		d.ScanArgs(t, "namespace", &opts.Namespace)
	}
	opts.SingleQuotes = d.HasArg("single-quotes")
	opts.NoSemicolons = d.HasArg("no-semicolons")
	return opts
}

// handleGenerate renders the server module without writing it.
func handleGenerate(t *testing.T, d *datadriven.TestData, tmpDir string) string {
	result, err := Render(generateOptions(t, d, tmpDir))
	if err != nil {
		return formatError(err)
	}
	return result.Content
}

// handleSummary writes the server module and reports the run.
func handleSummary(t *testing.T, d *datadriven.TestData, tmpDir string) string {
	result, err := Generate(generateOptions(t, d, tmpDir))
	if err != nil {
		return formatError(err)
	}

	written, err := os.ReadFile(result.OutputPath)
	require.NoError(t, err)
	require.Equal(t, result.Content, string(written))
	require.NotEmpty(t, result.RunID)

	lines := []string{
		"root module: " + relPath(tmpDir, result.RootModule),
		"output: " + relPath(tmpDir, result.OutputPath),
		fmt.Sprintf("routers: %d", result.RouterCount),
		fmt.Sprintf("procedures: %d", result.ProcedureCount),
	}
	for _, skip := range result.Skipped {
		lines = append(lines, "skipped: "+skip.File)
	}
	return strings.Join(lines, "\n")
}

func handleDiscover(t *testing.T, tmpDir string) string {
	path, err := FindRootModule(tmpDir, testLogger(t))
	if err != nil {
		return formatError(err)
	}
	return relPath(tmpDir, path)
}

func handleInspect(t *testing.T, d *datadriven.TestData, tmpDir string) string {
	opts := InspectOptions{Path: tmpDir, Jobs: 2}
	if d.HasArg("pattern") {
		d.ScanArgs(t, "pattern", &opts.Pattern)
	}

	reports, err := Inspect(opts)
	if err != nil {
		return formatError(err)
	}
	if len(reports) == 0 {
		return "(nothing found)"
	}

	var lines []string
	for _, report := range reports {
		lines = append(lines, "file "+report.File)
		if report.Error != "" {
			lines = append(lines, "  error")
		}
		for _, r := range report.Routers {
			lines = append(lines, fmt.Sprintf("  router %s (%d procedures)", r.Name, len(r.Procedures)))
		}
		for _, mw := range report.Middlewares {
			props := make([]string, 0, len(mw.Properties))
			for _, p := range mw.Properties {
				props = append(props, p.Name+": "+p.Type)
			}
			lines = append(lines, fmt.Sprintf("  middleware %s { %s }", mw.Name, strings.Join(props, ", ")))
		}
		for _, ctx := range report.Contexts {
			lines = append(lines, fmt.Sprintf("  context %s %s", ctx.Name, ctx.ReturnType))
		}
		if m := report.Module; m != nil {
			lines = append(lines, fmt.Sprintf("  module context=%s (%s) transformer=%s schema=%s",
				orNone(m.Context), orNone(m.ContextFile), orNone(m.Transformer), orNone(m.AutoSchemaFile)))
		}
	}
	return strings.Join(lines, "\n")
}

func formatError(err error) string {
	var runErr *Error
	if errors.As(err, &runErr) {
		return fmt.Sprintf("error: %s: %s", runErr.Kind, runErr.Message)
	}
	return fmt.Sprintf("error: %s", err)
}

func relPath(tmpDir, path string) string {
	rel, err := filepath.Rel(tmpDir, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
