package trpcgen

import (
	"os"
	"strings"

	"github.com/arjunmahishi/trpcgen/types"
	"github.com/pmezard/go-difflib/difflib"
)

// Diff compares a generated module with the file currently on disk.
type Diff struct {
	HasChanges   bool   `json:"hasChanges"`
	FilesChanged int    `json:"filesChanged"`
	LinesAdded   int    `json:"linesAdded"`
	LinesRemoved int    `json:"linesRemoved"`
	Unified      string `json:"-"`
}

// DryRunReport is the machine readable outcome of a dry run.
type DryRunReport struct {
	Success        bool                `json:"success"`
	RouterCount    int                 `json:"routerCount"`
	ProcedureCount int                 `json:"procedureCount"`
	Diff           *Diff               `json:"diff,omitempty"`
	ParseErrors    []types.SkippedFile `json:"parseErrors,omitempty"`
}

// NewDryRunReport summarises a rendered run and its diff.
func NewDryRunReport(result *GenerationResult, diff Diff) DryRunReport {
	return DryRunReport{
		Success:        true,
		RouterCount:    result.RouterCount,
		ProcedureCount: result.ProcedureCount,
		Diff:           &diff,
		ParseErrors:    result.Skipped,
	}
}

// DiffOutput diffs content against the file at path. A missing file counts
// as empty.
func DiffOutput(path, content string) (Diff, error) {
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return Diff{}, err
	}
	return diffText(string(existing), content, "server.ts")
}

func diffText(before, after, name string) (Diff, error) {
	if before == after {
		return Diff{}, nil
	}

	unified, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(before),
		B:        splitLines(after),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  3,
	})
	if err != nil {
		return Diff{}, err
	}

	d := Diff{HasChanges: true, FilesChanged: 1, Unified: unified}
	for _, line := range strings.Split(unified, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			d.LinesAdded++
		case strings.HasPrefix(line, "-"):
			d.LinesRemoved++
		}
	}
	return d, nil
}

// splitLines splits text into lines that keep their terminators.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	} else {
		lines[len(lines)-1] += "\n"
	}
	return lines
}
