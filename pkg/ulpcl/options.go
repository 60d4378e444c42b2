package ulpcl

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// Thread-count sentinels used while resolving the --threads flag. Options.Threads never holds
// threadsUnknown or threadsAuto once NewOptions returns; it holds threadsDisabled or a concrete,
// validated count.
const (
	threadsUnknown  = -1
	threadsAuto     = -2
	threadsDisabled = 0
)

// Options is the fully-resolved, immutable configuration for a compilation run. It plays the
// role program_options played in program.hpp, but as an explicit value threaded through
// constructors instead of a package-level singleton: nothing here is global state, so tests and
// concurrent dispatch runs never share or race over it.
type Options struct {
	InputFiles           []string
	OutputDirectory      string
	Threads              int
	Model                ErrorModel
	DiscardEmptyMessages bool
	GenerateSymbolFile   bool
	Verbose              bool
}

// OptionsConfig is the raw, not-yet-validated shape of a compilation request, typically
// populated straight from CLI flags (cmd/ulpcl/main.go). NewOptions resolves it into an Options,
// warning about and discarding anything invalid rather than failing the whole run.
type OptionsConfig struct {
	InputFiles           []string
	InputDirectories     []string
	OutputDirectory      string
	Threads              string
	ErrorModel           string
	DiscardEmptyMessages bool
	GenerateSymbolFile   bool
	Verbose              bool
}

// WarnFunc receives a formatted warning produced while resolving options, mirroring the
// unconditional rtlog warnings that _Options_parser emits for every discarded or duplicate
// argument in program.cpp.
type WarnFunc func(format string, args ...any)

func warnf(warn WarnFunc, format string, args ...any) {
	if warn != nil {
		warn(format, args...)
	}
}

// NewOptions validates and resolves cfg into an Options, applying the same defaults program.cpp
// applies once argument parsing finishes: an empty output directory becomes the working
// directory, an unset thread count becomes disabled, and an unset error model becomes soft.
func NewOptions(cfg OptionsConfig, warn WarnFunc) (*Options, error) {
	opts := &Options{
		Threads: threadsUnknown,
		Model:   errorModelUnset,
	}

	for _, f := range cfg.InputFiles {
		addInputFile(opts, f, warn)
	}
	for _, d := range cfg.InputDirectories {
		addInputDirectory(opts, d, warn)
	}

	if err := resolveOutputDirectory(opts, cfg.OutputDirectory, warn); err != nil {
		return nil, err
	}
	resolveThreads(opts, cfg.Threads, warn)
	resolveErrorModel(opts, cfg.ErrorModel, warn)

	opts.DiscardEmptyMessages = cfg.DiscardEmptyMessages
	opts.GenerateSymbolFile = cfg.GenerateSymbolFile
	opts.Verbose = cfg.Verbose

	if opts.OutputDirectory == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("ulpcl: resolve working directory: %w", err)
		}
		opts.OutputDirectory = wd
	}
	if opts.Threads == threadsUnknown {
		opts.Threads = threadsDisabled
	} else if opts.Threads == threadsAuto {
		opts.Threads = ChooseThreadCount(len(opts.InputFiles))
	}
	if opts.Model == errorModelUnset {
		opts.Model = ErrorModelSoft
	}

	return opts, nil
}

// errorModelUnset is a private sentinel distinguishing "not specified yet" from ErrorModelSoft
// during resolution; it never escapes NewOptions.
const errorModelUnset ErrorModel = 255

func isInputFileIncluded(files []string, path string) bool {
	for _, f := range files {
		if f == path {
			return true
		}
	}
	return false
}

func addInputFile(opts *Options, value string, warn WarnFunc) {
	if isInputFileIncluded(opts.InputFiles, value) {
		warnf(warn, "the input file '%s' specified more than once", value)
		return
	}
	info, err := os.Stat(value)
	if err != nil || info.IsDir() {
		warnf(warn, "the input file '%s' does not exist, ignored", value)
		return
	}
	if filepath.Ext(value) != ".ulp" {
		warnf(warn, "the input file '%s' has invalid extension, ignored", value)
		return
	}
	opts.InputFiles = append(opts.InputFiles, value)
}

func addInputDirectory(opts *Options, dir string, warn WarnFunc) {
	info, err := os.Stat(dir)
	if err != nil {
		warnf(warn, "the input directory '%s' does not exist, ignored", dir)
		return
	}
	if !info.IsDir() {
		warnf(warn, "the input directory '%s' is not a directory, ignored", dir)
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		warnf(warn, "the input directory '%s' could not be read, ignored", dir)
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".ulp" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if isInputFileIncluded(opts.InputFiles, path) {
			warnf(warn, "the input file '%s' already specified, ignored", path)
			continue
		}
		opts.InputFiles = append(opts.InputFiles, path)
	}
}

func resolveOutputDirectory(opts *Options, value string, warn WarnFunc) error {
	if value == "" {
		return nil
	}
	if opts.OutputDirectory != "" {
		warnf(warn, "output directory specified more than once, ignored")
		return nil
	}

	info, err := os.Stat(value)
	switch {
	case err == nil:
		if !info.IsDir() {
			warnf(warn, "the output directory '%s' is not a directory, ignored", value)
			return nil
		}
	case os.IsNotExist(err):
		if mkErr := os.MkdirAll(value, 0o755); mkErr != nil {
			warnf(warn, "failed to create the output directory '%s', ignored", value)
			return nil
		}
	default:
		return fmt.Errorf("ulpcl: stat output directory %q: %w", value, err)
	}

	opts.OutputDirectory = value
	return nil
}

// ClampThreadCount repeatedly halves count until it is no greater than the number of logical
// CPUs available, since the only valid thread counts are powers of two up to 8.
func ClampThreadCount(count int) int {
	max := runtime.NumCPU()
	for count > max {
		count >>= 1
	}
	return count
}

// ChooseThreadCount picks a worker count from the number of packs being compiled, then clamps
// it to the machine's hardware concurrency.
func ChooseThreadCount(inputFiles int) int {
	var count int
	switch {
	case inputFiles <= 4:
		count = 1
	case inputFiles <= 8:
		count = 2
	case inputFiles <= 16:
		count = 4
	default:
		count = 8
	}
	return ClampThreadCount(count)
}

func isThreadCountSupported(count int) bool {
	switch count {
	case 1, 2, 4, 8:
		return true
	default:
		return false
	}
}

func resolveThreads(opts *Options, value string, warn WarnFunc) {
	if value == "" {
		return
	}
	if opts.Threads != threadsUnknown {
		warnf(warn, "number of threads specified more than once, ignored")
		return
	}

	switch strings.ToLower(value) {
	case "disable":
		opts.Threads = threadsDisabled
	case "auto":
		opts.Threads = threadsAuto
	default:
		count, err := strconv.Atoi(value)
		if err != nil || value == "" {
			warnf(warn, "invalid number of threads, ignored")
			return
		}
		if !isThreadCountSupported(count) {
			warnf(warn, "requested number of threads is not supported, ignored")
			return
		}
		if count > runtime.NumCPU() {
			clamped := ClampThreadCount(count)
			warnf(warn, "requested too many threads, trimmed to %d", clamped)
			count = clamped
		}
		opts.Threads = count
	}
}

func resolveErrorModel(opts *Options, value string, warn WarnFunc) {
	if value == "" {
		return
	}
	if opts.Model != errorModelUnset {
		warnf(warn, "error model specified more than once, ignored")
		return
	}

	switch strings.ToLower(value) {
	case "soft", "default":
		opts.Model = ErrorModelSoft
	case "strict":
		opts.Model = ErrorModelStrict
	default:
		warnf(warn, "unsupported error model, ignored")
	}
}
