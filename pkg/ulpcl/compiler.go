package ulpcl

import (
	"fmt"
	"time"
)

// Compiler drives a single pack from source bytes to a compiled '.umc' (and, optionally, '.sym')
// file. It plays the role compile_input_file played in compiler.cpp, as an explicit value rather
// than a free function closing over global program state.
type Compiler struct {
	opts   *Options
	logger Logger
}

// NewCompiler returns a Compiler bound to opts, writing its progress to logger.
func NewCompiler(opts *Options, logger Logger) *Compiler {
	return &Compiler{opts: opts, logger: logger}
}

// CompileResult reports the outcome of compiling a single pack.
type CompileResult struct {
	Pack     string
	OutPath  string
	Counters ReportCounters
	Success  bool
}

// CompilePack lexes, parses and emits one '.ulp' pack, producing its '.umc' catalog (and '.sym'
// symbol file, if configured). Grounded on compile_input_file in compiler.cpp.
func (c *Compiler) CompilePack(path string) CompileResult {
	var counters ReportCounters
	rep := newReporter(&counters, c.logger, path)
	defer c.logger.RequestFlush(path)

	c.logger.Infof(path, "pack: '%s'", path)
	out := outputFilePath(c.opts.OutputDirectory, path)
	start := time.Now()

	success := c.run(path, out, rep)

	if success {
		c.logger.Infof(path, "----- generated '%s'", out)
		c.logger.Infof(path, "----- compilation succeeded (took %.5fs)", time.Since(start).Seconds())
	} else {
		c.logger.Infof(path, "----- compilation failed, %s, %s",
			pluralize(counters.Errors, "error", "errors"), pluralize(counters.Warnings, "warning", "warnings"))
	}

	return CompileResult{Pack: path, OutPath: out, Counters: counters, Success: success}
}

func (c *Compiler) run(path, out string, rep *reporter) bool {
	stream, ok := AnalyzeInputFile(path, c.opts.Model, rep, c.logger)
	if !ok {
		return false
	}
	if len(stream) == 0 {
		return true
	}

	tree, ok := ParseTokenStream(stream, path, c.opts, rep, c.logger)
	if !ok {
		return false
	}

	file := createUmcFile(out, rep)
	if !file.isOpen() {
		return false
	}
	defer file.flushAndClose()

	if c.opts.GenerateSymbolFile {
		symbols, ok := compileParseTreeAndGenerateSymbols(file, tree, rep)
		if !ok {
			return false
		}
		return GenerateSymbolFile(c.opts.OutputDirectory, path, symbols, rep)
	}

	return compileParseTree(file, tree, rep)
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
