package output

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/arjunmahishi/trpcgen/trpcgen"
	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen, color.Bold)
	red    = color.New(color.FgRed, color.Bold)
	orange = color.New(color.FgYellow, color.Bold)
	cyan   = color.New(color.FgCyan)
	dim    = color.New(color.Faint)
)

// Reporter prints human readable results.
type Reporter struct {
	out    io.Writer
	errOut io.Writer
}

// NewReporter creates a reporter printing results to out and diagnostics
// to errOut.
func NewReporter(out, errOut io.Writer) *Reporter {
	return &Reporter{out: out, errOut: errOut}
}

// Summary prints the outcome of a generation run.
func (r *Reporter) Summary(result *trpcgen.GenerationResult) {
	r.Skipped(result)
	green.Fprint(r.out, "✓ ")
	fmt.Fprintf(r.out, "Generated %s\n", result.OutputPath)
	fmt.Fprintf(r.out, "  Routers:    %d\n", result.RouterCount)
	fmt.Fprintf(r.out, "  Procedures: %d\n", result.ProcedureCount)
	fmt.Fprintf(r.out, "  Duration:   %s\n", result.Duration.Round(1e6))
}

// Skipped warns about the files left out of a run.
func (r *Reporter) Skipped(result *trpcgen.GenerationResult) {
	for _, skip := range result.Skipped {
		r.Warning(fmt.Sprintf("skipped %s:%d:%d: %s", skip.File, skip.Position.Line, skip.Position.Column, skip.Message))
	}
}

// DryRun prints the outcome of a dry run and the diff against the existing
// output.
func (r *Reporter) DryRun(result *trpcgen.GenerationResult, diff trpcgen.Diff) {
	r.Skipped(result)
	fmt.Fprintln(r.out)
	green.Fprint(r.out, "✓ ")
	fmt.Fprintln(r.out, "Dry run completed successfully")
	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "  Routers:    %d\n", result.RouterCount)
	fmt.Fprintf(r.out, "  Procedures: %d\n", result.ProcedureCount)
	fmt.Fprintln(r.out)

	if !diff.HasChanges {
		dim.Fprint(r.out, "  • ")
		fmt.Fprintln(r.out, "No changes detected")
		return
	}

	fmt.Fprintf(r.out, "  Changes: %s added, %s removed\n\n",
		color.GreenString("+%d", diff.LinesAdded),
		color.RedString("-%d", diff.LinesRemoved))
	r.Diff(diff.Unified)
}

// Diff prints a unified diff with added lines in green, removed lines in
// red and hunk headers in cyan.
func (r *Reporter) Diff(unified string) {
	for _, line := range strings.Split(strings.TrimSuffix(unified, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			fmt.Fprintln(r.out, line)
		case strings.HasPrefix(line, "+"):
			color.New(color.FgGreen).Fprintln(r.out, line)
		case strings.HasPrefix(line, "-"):
			color.New(color.FgRed).Fprintln(r.out, line)
		case strings.HasPrefix(line, "@@"):
			cyan.Fprintln(r.out, line)
		default:
			fmt.Fprintln(r.out, line)
		}
	}
}

// Warning prints a one-line warning.
func (r *Reporter) Warning(message string) {
	orange.Fprint(r.errOut, "! ")
	fmt.Fprintln(r.errOut, message)
}

// Error prints a failure with the suggestions of run errors.
func (r *Reporter) Error(err error) {
	red.Fprint(r.errOut, "✗ ")
	var runErr *trpcgen.Error
	if !errors.As(err, &runErr) {
		fmt.Fprintln(r.errOut, err)
		return
	}

	fmt.Fprintln(r.errOut, runErr.Error())
	for _, s := range runErr.Suggestions {
		dim.Fprint(r.errOut, "  → ")
		fmt.Fprintln(r.errOut, s)
	}
}

// Cycles prints circular import chains.
func (r *Reporter) Cycles(file string, cycles []string) {
	if len(cycles) == 0 {
		green.Fprint(r.out, "✓ ")
		fmt.Fprintf(r.out, "No circular imports reachable from %s\n", file)
		return
	}
	orange.Fprint(r.out, "! ")
	fmt.Fprintf(r.out, "%d circular import(s) reachable from %s\n", len(cycles), file)
	for _, cycle := range cycles {
		fmt.Fprintf(r.out, "  %s\n", cycle)
	}
}
