package ulpcl

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validPackSource = `@language: "en-US"
@lcid: "1033"
{
@content {
#greeting: "Hello!"
}
}
`

func writePackAt(t *testing.T, dir, name, source string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))
	return path
}

func TestSequentialDispatcherCounts(t *testing.T) {
	dir := t.TempDir()
	good := writePackAt(t, dir, "good.ulp", validPackSource)
	bad := writePackAt(t, dir, "bad.ulp", "not a pack at all")

	opts := &Options{OutputDirectory: dir, Model: ErrorModelSoft}
	compiler := NewCompiler(opts, noopLogger{})
	dispatcher := NewDispatcher(compiler, opts)

	dispatcher.Dispatch(good)
	dispatcher.Dispatch(bad)
	dispatcher.Wait()

	counters := dispatcher.Counters()
	assert.Equal(t, 1, counters.Succeeded)
	assert.Equal(t, 1, counters.Failed)

	_, statErr := os.Stat(outputFilePath(dir, good))
	assert.NoError(t, statErr)
}

func TestParallelDispatcherCounts(t *testing.T) {
	dir := t.TempDir()
	var goodPaths []string
	for i := 0; i < 6; i++ {
		goodPaths = append(goodPaths, writePackAt(t, dir, fmt.Sprintf("pack-%d.ulp", i), validPackSource))
	}
	bad := writePackAt(t, dir, "bad.ulp", "not a pack at all")

	opts := &Options{OutputDirectory: dir, Model: ErrorModelSoft, Threads: 2}
	compiler := NewCompiler(opts, noopLogger{})
	dispatcher := NewDispatcher(compiler, opts)
	require.IsType(t, &parallelDispatcher{}, dispatcher)

	for _, p := range goodPaths {
		dispatcher.Dispatch(p)
	}
	dispatcher.Dispatch(bad)
	dispatcher.Wait()

	counters := dispatcher.Counters()
	assert.Equal(t, len(goodPaths), counters.Succeeded)
	assert.Equal(t, 1, counters.Failed)
}

func TestNewDispatcherPicksSequentialWhenThreadsDisabled(t *testing.T) {
	opts := &Options{Threads: 0}
	dispatcher := NewDispatcher(NewCompiler(opts, noopLogger{}), opts)
	assert.IsType(t, &sequentialDispatcher{}, dispatcher)
}
