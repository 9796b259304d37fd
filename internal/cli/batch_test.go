package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBatchDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func TestBatchCommand_RendersDirectory(t *testing.T) {
	dir := writeBatchDir(t, map[string]string{
		"a.bb":       "[b]a[/b]",
		"b.bb":       "[i]b[/i]",
		"ignored.md": "not bbcode",
	})

	stdout, _, err := execute(t, "", "batch", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Rendered 2, cached 0, failed 0")

	a, err := os.ReadFile(filepath.Join(dir, "a.html"))
	require.NoError(t, err)
	assert.Equal(t, "<strong>a</strong>", string(a))

	b, err := os.ReadFile(filepath.Join(dir, "b.html"))
	require.NoError(t, err)
	assert.Equal(t, "<em>b</em>", string(b))

	_, err = os.Stat(filepath.Join(dir, "ignored.html"))
	assert.True(t, os.IsNotExist(err), "non-.bb files must be skipped")
}

func TestBatchCommand_CacheHitsOnSecondRun(t *testing.T) {
	dir := writeBatchDir(t, map[string]string{"a.bb": "[b]a[/b]"})
	cache := filepath.Join(t.TempDir(), "cache.db")

	stdout, _, err := execute(t, "", "batch", dir, "--cache", cache)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Rendered 1, cached 0, failed 0")

	stdout, _, err = execute(t, "", "batch", dir, "--cache", cache)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Rendered 0, cached 1, failed 0")
}

func TestBatchCommand_CacheMissAfterInputChange(t *testing.T) {
	dir := writeBatchDir(t, map[string]string{"a.bb": "one"})
	cache := filepath.Join(t.TempDir(), "cache.db")

	_, _, err := execute(t, "", "batch", dir, "--cache", cache)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.bb"), []byte("two"), 0644))

	stdout, _, err := execute(t, "", "batch", dir, "--cache", cache)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Rendered 1, cached 0, failed 0")

	out, err := os.ReadFile(filepath.Join(dir, "a.html"))
	require.NoError(t, err)
	assert.Equal(t, "two", string(out))
}

func TestBatchCommand_NotADirectory(t *testing.T) {
	_, _, err := execute(t, "", "batch", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestBatchCommand_EmptyDirectory(t *testing.T) {
	stdout, _, err := execute(t, "", "batch", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, stdout, "Rendered 0, cached 0, failed 0")
}

func TestBatchCommand_JSON(t *testing.T) {
	dir := writeBatchDir(t, map[string]string{"a.bb": "x"})

	stdout, _, err := execute(t, "", "batch", dir, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   BatchResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, BatchResult{Rendered: 1}, resp.Data)
}

func TestBatchCommand_CachePathFromConfig(t *testing.T) {
	dir := writeBatchDir(t, map[string]string{"a.bb": "x"})
	cache := filepath.Join(t.TempDir(), "cache.db")
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("cache_path: "+cache+"\n"), 0644))

	_, _, err := execute(t, "", "batch", dir, "--config", cfgPath)
	require.NoError(t, err)

	_, err = os.Stat(cache)
	assert.NoError(t, err, "cache database from config must be created")
}
