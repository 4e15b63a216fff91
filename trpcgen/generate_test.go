package trpcgen

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/arjunmahishi/trpcgen/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) zerolog.Logger {
	return zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
}

func TestServerPath(t *testing.T) {
	tests := []struct {
		output string
		want   string
	}{
		{"/out", "/out/server.ts"},
		{"/out/@generated", "/out/@generated/server.ts"},
		{"/out/api.ts", "/out/api.ts"},
		{"/out/api.TSX", "/out/api.TSX"},
		{"/out/api.js", "/out/api.js/server.ts"},
	}
	for _, tc := range tests {
		assert.Equal(t, filepath.FromSlash(tc.want), ServerPath(filepath.FromSlash(tc.output)), tc.output)
	}
}

func TestDiffText(t *testing.T) {
	d, err := diffText("a\nb\n", "a\nb\n", "server.ts")
	require.NoError(t, err)
	assert.False(t, d.HasChanges)
	assert.Zero(t, d.FilesChanged)

	d, err = diffText("a\nb\nc\n", "a\nB\nc\nd\n", "server.ts")
	require.NoError(t, err)
	assert.True(t, d.HasChanges)
	assert.Equal(t, 1, d.FilesChanged)
	assert.Equal(t, 2, d.LinesAdded)
	assert.Equal(t, 1, d.LinesRemoved)
	assert.Contains(t, d.Unified, "--- a/server.ts")
	assert.Contains(t, d.Unified, "+++ b/server.ts")

	d, err = diffText("", "x\ny\n", "server.ts")
	require.NoError(t, err)
	assert.Equal(t, 2, d.LinesAdded)
	assert.Zero(t, d.LinesRemoved)
}

func TestDiffOutputMissingFile(t *testing.T) {
	d, err := DiffOutput(filepath.Join(t.TempDir(), "server.ts"), "line\n")
	require.NoError(t, err)
	assert.True(t, d.HasChanges)
	assert.Equal(t, 1, d.LinesAdded)
}

func TestGenerateIsRepeatable(t *testing.T) {
	dir := t.TempDir()
	write := func(rel, content string) {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	write("app.module.ts", "@Module({ imports: [TRPCModule.forRoot({})] })\nexport class AppModule {}\n")
	write("a.router.ts", "@Router()\nexport class ARouter {\n  @Query({ input: Input })\n  a() {}\n}\nconst Input = z.object({ id: z.number() });\n")

	opts := GenerateOptions{Dir: dir, Logger: testLogger(t)}
	first, err := Generate(opts)
	require.NoError(t, err)
	second, err := Generate(opts)
	require.NoError(t, err)

	assert.Equal(t, first.Content, second.Content)
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Contains(t, first.Content, "a: publicProcedure.input(z.object({ id: z.number() })).query(")

	d, err := DiffOutput(second.OutputPath, second.Content)
	require.NoError(t, err)
	assert.False(t, d.HasChanges)
}

func TestErrorDetail(t *testing.T) {
	err := &Error{
		Kind:        KindNoRouters,
		Message:     "no routers",
		Path:        "/proj",
		Suggestions: []string{"add one"},
	}
	assert.Equal(t, "/proj: no routers", err.Error())
	assert.Equal(t, "/proj: no routers\n  add one", err.Detail())
}

func TestDryRunReportJSON(t *testing.T) {
	diff, err := diffText("a\nb\n", "a\nc\nd\n", "server.ts")
	require.NoError(t, err)

	result := &GenerationResult{RouterCount: 2, ProcedureCount: 5}
	data, err := json.Marshal(NewDryRunReport(result, diff))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"success": true,
		"routerCount": 2,
		"procedureCount": 5,
		"diff": {"hasChanges": true, "filesChanged": 1, "linesAdded": 2, "linesRemoved": 1}
	}`, string(data))

	result.Skipped = []types.SkippedFile{{File: "bad.router.ts", Position: types.Position{Line: 1, Column: 7}, Message: "unexpected ="}}
	data, err = json.Marshal(NewDryRunReport(result, Diff{}))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "parseErrors")
	assert.NotContains(t, decoded, "parse_errors")
	assert.Equal(t, false, decoded["diff"].(map[string]any)["hasChanges"])
}
