package ulpcl

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Logger is the sink every compilation phase writes its diagnostics and progress notes to. It
// is keyed by pack path rather than by the compiling goroutine, since goroutine identity is not
// a stable, observable concept in Go the way a thread id was in the original implementation.
type Logger interface {
	Debugf(pack, format string, args ...any)
	Infof(pack, format string, args ...any)
	Warnf(pack, format string, args ...any)
	Errorf(pack, format string, args ...any)

	// RequestFlush asks the logger to emit any messages it has queued for pack. Direct loggers
	// treat this as a no-op, since they never queue anything.
	RequestFlush(pack string)

	// Sync flushes the underlying zap core. Callers should defer this once at startup.
	Sync() error
}

// NewLogger builds either a direct or a buffered Logger, mirroring compilation_logger::startup:
// a buffered logger is used whenever the dispatcher runs packs concurrently, so that interleaved
// writes from separate packs do not tear each other's lines apart.
func NewLogger(buffered bool, zl *zap.Logger) Logger {
	sugar := zl.Sugar()
	if buffered {
		return &bufferedLogger{sugar: sugar, queues: make(map[string][]logLine)}
	}
	return &directLogger{sugar: sugar}
}

type logLevel uint8

const (
	levelDebug logLevel = iota
	levelInfo
	levelWarn
	levelError
)

type logLine struct {
	level logLevel
	pack  string
	text  string
}

func (l logLine) emit(sugar *zap.SugaredLogger) {
	switch l.level {
	case levelDebug:
		sugar.Debugw(l.text, "pack", l.pack)
	case levelInfo:
		sugar.Infow(l.text, "pack", l.pack)
	case levelWarn:
		sugar.Warnw(l.text, "pack", l.pack)
	case levelError:
		sugar.Errorw(l.text, "pack", l.pack)
	}
}

// directLogger writes every message straight to zap as it arrives. Grounded on _Direct_logger
// in logger.cpp, which writes straight through with no buffering.
type directLogger struct {
	sugar *zap.SugaredLogger
}

func (d *directLogger) Debugf(pack, format string, args ...any) {
	logLine{levelDebug, pack, sprintf(format, args...)}.emit(d.sugar)
}

func (d *directLogger) Infof(pack, format string, args ...any) {
	logLine{levelInfo, pack, sprintf(format, args...)}.emit(d.sugar)
}

func (d *directLogger) Warnf(pack, format string, args ...any) {
	logLine{levelWarn, pack, sprintf(format, args...)}.emit(d.sugar)
}

func (d *directLogger) Errorf(pack, format string, args ...any) {
	logLine{levelError, pack, sprintf(format, args...)}.emit(d.sugar)
}

func (d *directLogger) RequestFlush(string) {
	// buffering not supported, nothing to do
}

func (d *directLogger) Sync() error {
	return d.sugar.Sync()
}

// bufferedLogger queues messages per pack path and only writes them out when RequestFlush is
// called for that pack, keeping one pack's diagnostics from interleaving with another's when
// several packs compile concurrently. Grounded on _Buffered_logger in logger.cpp, whose queue
// was keyed by thread::id; here it is keyed by the pack path instead, since that is the unit of
// concurrent work the dispatcher hands out (dispatcher.go), not the goroutine running it.
type bufferedLogger struct {
	mu     sync.Mutex
	sugar  *zap.SugaredLogger
	queues map[string][]logLine
}

func (b *bufferedLogger) enqueue(line logLine) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queues[line.pack] = append(b.queues[line.pack], line)
}

func (b *bufferedLogger) Debugf(pack, format string, args ...any) {
	b.enqueue(logLine{levelDebug, pack, sprintf(format, args...)})
}

func (b *bufferedLogger) Infof(pack, format string, args ...any) {
	b.enqueue(logLine{levelInfo, pack, sprintf(format, args...)})
}

func (b *bufferedLogger) Warnf(pack, format string, args ...any) {
	b.enqueue(logLine{levelWarn, pack, sprintf(format, args...)})
}

func (b *bufferedLogger) Errorf(pack, format string, args ...any) {
	b.enqueue(logLine{levelError, pack, sprintf(format, args...)})
}

func (b *bufferedLogger) RequestFlush(pack string) {
	b.mu.Lock()
	lines := b.queues[pack]
	delete(b.queues, pack)
	b.mu.Unlock()

	for _, line := range lines {
		line.emit(b.sugar)
	}
}

func (b *bufferedLogger) Sync() error {
	return b.sugar.Sync()
}

func sprintf(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
