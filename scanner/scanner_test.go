package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, root, rel string, size int) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0644))
}

func displayPaths(t *testing.T, s *Scanner) []string {
	t.Helper()
	jobs, err := s.Collect()
	require.NoError(t, err)
	paths := make([]string, 0, len(jobs))
	for _, job := range jobs {
		require.True(t, filepath.IsAbs(job.AbsPath))
		paths = append(paths, job.DisplayPath)
	}
	return paths
}

func TestCollect(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{
		"b.router.ts",
		"a.router.ts",
		"src/users/user.router.ts",
		"src/users/user.service.ts",
		"src/posts/post.router.ts",
		"node_modules/pkg/x.router.ts",
		".hidden/y.router.ts",
		"src/.z.router.ts",
		"dist/out.router.ts",
	} {
		touch(t, root, rel, 10)
	}

	s, err := New(Config{Root: root})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"a.router.ts",
		"b.router.ts",
		"src/posts/post.router.ts",
		"src/users/user.router.ts",
	}, displayPaths(t, s))
}

func TestCollectCustomPattern(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "src/routers/user.ts", 10)
	touch(t, root, "src/other/user.ts", 10)
	touch(t, root, "src/routers/nested/deep.ts", 10)

	s, err := New(Config{Root: root, Pattern: "src/routers/*.ts"})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/routers/user.ts"}, displayPaths(t, s))
}

func TestCollectMaxBytes(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "small.router.ts", 10)
	touch(t, root, "large.router.ts", 4096)

	s, err := New(Config{Root: root, MaxBytes: 1024})
	require.NoError(t, err)
	assert.Equal(t, []string{"small.router.ts"}, displayPaths(t, s))
}

func TestInvalidPattern(t *testing.T) {
	_, err := New(Config{Root: ".", Pattern: "[unclosed"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid router pattern")
}

func TestMatch(t *testing.T) {
	s, err := New(Config{})
	require.NoError(t, err)
	assert.True(t, s.Match("user.router.ts"))
	assert.True(t, s.Match("a/b/c/user.router.ts"))
	assert.False(t, s.Match("a/b/user.router.tsx"))
	assert.False(t, s.Match("user.service.ts"))
}

func TestCollectSingle(t *testing.T) {
	s, err := New(Config{})
	require.NoError(t, err)
	job, err := s.CollectSingle("some/dir/file.ts")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(job.AbsPath))
	assert.Equal(t, "file.ts", job.DisplayPath)
}
