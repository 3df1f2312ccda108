package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

var sources = map[string]string{
	"Good.java":        `public class Good { public static void main(String[] args) { int x = 5; System.out.println(x); } }`,
	"pkg/Bad.java":     `public class Bad { public static void main(String[] args) { y = 2; } }`,
	"pkg/Broken.java":  `public class Broken { `,
	".hidden/Old.java": `public class Old { `,
	"notes.txt":        `not java`,
}

func TestScan(t *testing.T) {
	dir := writeTree(t, sources)
	s := New(WithWorkers(2))
	defer s.Close()

	result := s.Scan(context.Background(), Request{Path: dir})
	require.Equal(t, StatusCompleted, result.Status, result.Error)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 3, result.Progress)
	assert.Equal(t, 100, result.ProgressPercent())

	require.Len(t, result.Files, 3)
	good, bad, broken := result.Files[0], result.Files[1], result.Files[2]

	assert.Equal(t, filepath.Join(dir, "Good.java"), good.Path)
	assert.Zero(t, good.Errors())
	assert.Equal(t, []string{"Good"}, good.Classes)

	assert.Equal(t, filepath.Join(dir, "pkg", "Bad.java"), bad.Path)
	assert.NotZero(t, bad.Counts["semantic"])

	assert.Equal(t, filepath.Join(dir, "pkg", "Broken.java"), broken.Path)
	assert.True(t, broken.Gated)
	assert.NotZero(t, broken.Counts["structural"])
	assert.Empty(t, broken.Classes)

	assert.Len(t, result.Failed(), 2)
	assert.Equal(t, bad.Counts["semantic"]+broken.Counts["semantic"], result.Totals()["semantic"])
}

func TestScanInclude(t *testing.T) {
	dir := writeTree(t, sources)
	s := New()
	defer s.Close()

	result := s.Scan(context.Background(), Request{Path: dir, Include: []string{"*.txt"}})
	require.Len(t, result.Files, 1)
	assert.Equal(t, filepath.Join(dir, "notes.txt"), result.Files[0].Path)
}

func TestScanSingleFile(t *testing.T) {
	dir := writeTree(t, sources)
	s := New()
	defer s.Close()

	result := s.Scan(context.Background(), Request{Path: filepath.Join(dir, "Good.java")})
	require.Len(t, result.Files, 1)
	assert.Equal(t, StatusCompleted, result.Status)
}

func TestScanMissingPath(t *testing.T) {
	s := New()
	defer s.Close()

	result := s.Scan(context.Background(), Request{Path: filepath.Join(t.TempDir(), "nope")})
	assert.Equal(t, StatusFailed, result.Status)
	assert.Contains(t, result.Error, "nope")
}

func TestScanCancelled(t *testing.T) {
	dir := writeTree(t, sources)
	s := New(WithWorkers(1))
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result := s.Scan(ctx, Request{Path: dir})
	assert.Equal(t, StatusFailed, result.Status)
	assert.Equal(t, context.Canceled.Error(), result.Error)
}

func TestSubmit(t *testing.T) {
	dir := writeTree(t, sources)
	s := New()
	defer s.Close()

	id := s.Submit(Request{Path: dir})
	require.NotEmpty(t, id)

	require.Eventually(t, func() bool {
		r, ok := s.Get(id)
		return ok && r.Status == StatusCompleted
	}, 5*time.Second, 10*time.Millisecond)

	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)
	assert.Len(t, list[0].Files, 3)

	_, ok := s.Get("unknown")
	assert.False(t, ok)
}
