package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and captured output streams.
func execute(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	if stdin != "" {
		cmd.SetIn(strings.NewReader(stdin))
	}
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCommand_InvalidFormat(t *testing.T) {
	_, _, err := execute(t, "", "render", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestRenderCommand_File(t *testing.T) {
	in := filepath.Join(t.TempDir(), "post.bb")
	require.NoError(t, os.WriteFile(in, []byte("[b]hi[/b]"), 0644))

	stdout, _, err := execute(t, "", "render", in)
	require.NoError(t, err)
	assert.Equal(t, "<strong>hi</strong>\n", stdout)
}

func TestRenderCommand_Stdin(t *testing.T) {
	stdout, _, err := execute(t, "[i]x[/i]", "render")
	require.NoError(t, err)
	assert.Equal(t, "<em>x</em>\n", stdout)
}

func TestRenderCommand_OutputFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "post.bb")
	out := filepath.Join(dir, "post.html")
	require.NoError(t, os.WriteFile(in, []byte("[b]hi[/b]"), 0644))

	stdout, _, err := execute(t, "", "render", in, "-o", out)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "<strong>hi</strong>", string(data))
}

func TestRenderCommand_JSON(t *testing.T) {
	stdout, _, err := execute(t, "[b]hi[/b]", "render", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   RenderResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "<strong>hi</strong>", resp.Data.HTML)
	assert.Equal(t, len("[b]hi[/b]"), resp.Data.InputBytes)
}

func TestRenderCommand_MissingFile(t *testing.T) {
	_, _, err := execute(t, "", "render", filepath.Join(t.TempDir(), "nope.bb"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRenderCommand_WithConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("image_placeholder: (gone)\n"), 0644))

	stdout, _, err := execute(t, "[img][/img]", "render", "--config", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "(gone)\n", stdout)
}

func TestRenderCommand_BadConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("max_passes: -2\n"), 0644))

	_, _, err := execute(t, "x", "render", "--config", cfgPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRenderCommand_TooManyArgs(t *testing.T) {
	_, _, err := execute(t, "", "render", "a.bb", "b.bb")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts at most 1 arg")
}
