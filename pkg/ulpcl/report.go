package ulpcl

import "fmt"

// ErrorModel controls whether a fixed set of conditions surface as warnings or as errors.
type ErrorModel uint8

const (
	// ErrorModelSoft halts on errors but allows warnings. This is the default.
	ErrorModelSoft ErrorModel = iota
	// ErrorModelStrict upgrades empty-messages/empty-groups/empty-packs/empty-file to errors.
	ErrorModelStrict
)

// ReportCounters accumulates the errors and warnings raised while compiling a single pack.
// A pack succeeds only if Errors remains zero once compilation finishes.
type ReportCounters struct {
	Errors   int
	Warnings int
}

// Failed reports whether the pack should be considered a compilation failure.
func (r *ReportCounters) Failed() bool {
	return r.Errors > 0
}

// reportLoc formats a location tuple the way diagnostics expect: "(line, column)", or "(?, ?)"
// when no location applies.
func reportLoc(loc *TokenLocation) string {
	if loc == nil {
		return "(?, ?)"
	}
	return fmt.Sprintf("(%d, %d)", loc.Line, loc.Column)
}

// diagnostic is a fully-formatted error or warning message bound to an optional location.
type diagnostic struct {
	loc     *TokenLocation
	isError bool
	code    string
	text    string
}

func (d diagnostic) String() string {
	kind := "warning"
	if d.isError {
		kind = "error"
	}
	return fmt.Sprintf("%s: %s %s: %s", reportLoc(d.loc), kind, d.code, d.text)
}

// reporter bumps ReportCounters and forwards the formatted diagnostic to a Logger, mirroring
// the original's _Report_error/_Report_warning helpers (runtime.hpp).
type reporter struct {
	counters *ReportCounters
	logger   Logger
	pack     string
}

func newReporter(counters *ReportCounters, logger Logger, pack string) *reporter {
	return &reporter{counters: counters, logger: logger, pack: pack}
}

func (r *reporter) errorAt(loc *TokenLocation, code, format string, args ...any) {
	r.counters.Errors++
	d := diagnostic{loc: loc, isError: true, code: code, text: fmt.Sprintf(format, args...)}
	if r.logger != nil {
		r.logger.Errorf(r.pack, "%s", d.String())
	}
}

func (r *reporter) warnAt(loc *TokenLocation, code, format string, args ...any) {
	r.counters.Warnings++
	d := diagnostic{loc: loc, isError: false, code: code, text: fmt.Sprintf(format, args...)}
	if r.logger != nil {
		r.logger.Warnf(r.pack, "%s", d.String())
	}
}
