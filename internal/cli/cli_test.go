package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const g6COO = "6\n0 1\n0 2\n1 2\n2 3\n2 4\n4 5\n"

func writeG6(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "g6.coo")
	require.NoError(t, os.WriteFile(path, []byte(g6COO), 0644))
	return path
}

func TestNewCommand_FlagSurface(t *testing.T) {
	cmd := NewCommand("bfs")
	for _, name := range []string{"binary", "matrix-market", "undirected", "print", "validate", "source", "config"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag %s", name)
	}
	b, _ := cmd.Flags().GetBool("binary")
	assert.False(t, b)
}

func TestRun_BFSOverCOOUndirected(t *testing.T) {
	path := writeG6(t)
	f := &flags{undirected: true, source: 0, sourceSet: true, printVertex: true}

	var out bytes.Buffer
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	runErr := run(context.Background(), "bfs", path, f)

	w.Close()
	os.Stdout = old
	_, _ = out.ReadFrom(r)

	require.NoError(t, runErr)
	assert.Contains(t, out.String(), "0\t0")
}

func TestRun_UnknownAlgorithm(t *testing.T) {
	path := writeG6(t)
	f := &flags{undirected: true}
	err := run(context.Background(), "not-an-algo", path, f)
	assert.Error(t, err)
}

func TestRun_MissingFile(t *testing.T) {
	f := &flags{}
	err := run(context.Background(), "bfs", "/nonexistent/path/to/graph.coo", f)
	assert.Error(t, err)
}

func TestResolveInputPath_NoConfigIsPassthrough(t *testing.T) {
	path, cleanup, err := resolveInputPath(context.Background(), "some/path.coo", &flags{})
	require.NoError(t, err)
	defer cleanup()
	assert.Equal(t, "some/path.coo", path)
}
