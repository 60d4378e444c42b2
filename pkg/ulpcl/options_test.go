package ulpcl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempPack(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("@language: \"en\"\n"), 0o644))
	return path
}

func collectWarnings(warnings *[]string) WarnFunc {
	return func(format string, args ...any) {
		*warnings = append(*warnings, sprintf(format, args...))
	}
}

func TestNewOptionsDefaults(t *testing.T) {
	dir := t.TempDir()
	a := writeTempPack(t, dir, "a.ulp")

	opts, err := NewOptions(OptionsConfig{InputFiles: []string{a}}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{a}, opts.InputFiles)
	assert.Equal(t, threadsDisabled, opts.Threads)
	assert.Equal(t, ErrorModelSoft, opts.Model)
	assert.NotEmpty(t, opts.OutputDirectory)
}

func TestNewOptionsRejectsDuplicateAndInvalidInputFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeTempPack(t, dir, "a.ulp")
	notPack := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(notPack, []byte("irrelevant"), 0o644))
	missing := filepath.Join(dir, "missing.ulp")

	var warnings []string
	opts, err := NewOptions(OptionsConfig{
		InputFiles: []string{a, a, notPack, missing},
	}, collectWarnings(&warnings))
	require.NoError(t, err)

	assert.Equal(t, []string{a}, opts.InputFiles)
	assert.Len(t, warnings, 3)
}

func TestNewOptionsInputDirectorySkipsSubdirsAndNonPacks(t *testing.T) {
	dir := t.TempDir()
	a := writeTempPack(t, dir, "a.ulp")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	opts, err := NewOptions(OptionsConfig{InputDirectories: []string{dir}}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{a}, opts.InputFiles)
}

func TestNewOptionsOutputDirectoryCreatedWhenMissing(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")

	opts, err := NewOptions(OptionsConfig{OutputDirectory: out}, nil)
	require.NoError(t, err)
	assert.Equal(t, out, opts.OutputDirectory)

	info, statErr := os.Stat(out)
	require.NoError(t, statErr)
	assert.True(t, info.IsDir())
}

func TestNewOptionsThreadsDisableAndAuto(t *testing.T) {
	dir := t.TempDir()
	a := writeTempPack(t, dir, "a.ulp")

	disabled, err := NewOptions(OptionsConfig{InputFiles: []string{a}, Threads: "disable"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, disabled.Threads)

	auto, err := NewOptions(OptionsConfig{InputFiles: []string{a}, Threads: "auto"}, nil)
	require.NoError(t, err)
	assert.Equal(t, ChooseThreadCount(1), auto.Threads)
}

func TestNewOptionsThreadsInvalidIgnoredAndWarned(t *testing.T) {
	var warnings []string
	opts, err := NewOptions(OptionsConfig{Threads: "3"}, collectWarnings(&warnings))
	require.NoError(t, err)
	assert.Equal(t, threadsDisabled, opts.Threads)
	assert.Len(t, warnings, 1)
}

func TestNewOptionsErrorModel(t *testing.T) {
	strict, err := NewOptions(OptionsConfig{ErrorModel: "strict"}, nil)
	require.NoError(t, err)
	assert.Equal(t, ErrorModelStrict, strict.Model)

	var warnings []string
	unsupported, err := NewOptions(OptionsConfig{ErrorModel: "bogus"}, collectWarnings(&warnings))
	require.NoError(t, err)
	assert.Equal(t, ErrorModelSoft, unsupported.Model)
	assert.Len(t, warnings, 1)
}

func TestChooseThreadCountBuckets(t *testing.T) {
	assert.Equal(t, ClampThreadCount(1), ChooseThreadCount(1))
	assert.Equal(t, ClampThreadCount(2), ChooseThreadCount(5))
	assert.Equal(t, ClampThreadCount(4), ChooseThreadCount(9))
	assert.Equal(t, ClampThreadCount(8), ChooseThreadCount(17))
}

func TestIsThreadCountSupported(t *testing.T) {
	for _, n := range []int{1, 2, 4, 8} {
		assert.True(t, isThreadCountSupported(n))
	}
	for _, n := range []int{0, 3, 5, 16} {
		assert.False(t, isThreadCountSupported(n))
	}
}
