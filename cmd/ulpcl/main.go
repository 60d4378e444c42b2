// Command ulpcl compiles localization packs ('.ulp' files) into binary message catalogs
// ('.umc' files), optionally alongside a '.sym' symbol file for each pack.
package main

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"go.ulpcl.dev/pkg/ulpcl"
)

var (
	inputFiles      []string
	inputDirs       []string
	outputDir       string
	threads         string
	errorModel      string
	discardEmpty    bool
	generateSymbols bool
	verbose         bool
	showVersion     bool
)

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	if showVersion {
		fmt.Printf("ULPCL version %s compiled on %s\n", ulpcl.Version, ulpcl.CompilationDate)
		return nil
	}

	opts, err := ulpcl.NewOptions(ulpcl.OptionsConfig{
		InputFiles:           inputFiles,
		InputDirectories:     inputDirs,
		OutputDirectory:      outputDir,
		Threads:              threads,
		ErrorModel:           errorModel,
		DiscardEmptyMessages: discardEmpty,
		GenerateSymbolFile:   generateSymbols,
		Verbose:              verbose,
	}, func(format string, args ...any) {
		fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
	})
	if err != nil {
		return err
	}

	if len(opts.InputFiles) == 0 {
		fmt.Fprintln(os.Stderr, "Warning: No input files specified")
		return nil
	}

	zl, err := newZapLogger(opts.Verbose)
	if err != nil {
		return err
	}
	defer zl.Sync()

	logger := ulpcl.NewLogger(opts.Threads > 0, zl)
	compiler := ulpcl.NewCompiler(opts, logger)

	startBuild(compiler, opts, logger)
	return nil
}

func newZapLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	cfg.DisableStacktrace = true
	return cfg.Build()
}

func startBuild(compiler *ulpcl.Compiler, opts *ulpcl.Options, logger ulpcl.Logger) {
	fmt.Printf("Build started at %s...\n", time.Now().Format("15:04:05"))
	start := time.Now()

	dispatcher := ulpcl.NewDispatcher(compiler, opts)
	for _, input := range opts.InputFiles {
		dispatcher.Dispatch(input)
	}
	dispatcher.Wait()
	counters := dispatcher.Counters()

	fmt.Printf("\n----- Build: %d succeeded, %d failed\n", counters.Succeeded, counters.Failed)
	fmt.Printf("----- Build completed at %s (took %.5fs)\n", time.Now().Format("15:04:05"), time.Since(start).Seconds())
}
