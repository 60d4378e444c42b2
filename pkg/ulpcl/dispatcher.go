package ulpcl

import (
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// CompilationCounters tallies how many packs a dispatcher run succeeded or failed to compile.
type CompilationCounters struct {
	Succeeded int
	Failed    int
}

// Dispatcher schedules pack compilation, either inline or across a bounded pool of goroutines.
// Grounded on _Dispatcher_base / compilation_dispatcher in dispatcher.hpp.
type Dispatcher interface {
	Dispatch(path string)
	Wait()
	Counters() CompilationCounters
}

// sequentialDispatcher runs every pack on the calling goroutine. Grounded on
// _Sequential_dispatcher in dispatcher.cpp.
type sequentialDispatcher struct {
	compiler *Compiler
	counters CompilationCounters
}

func newSequentialDispatcher(compiler *Compiler) *sequentialDispatcher {
	return &sequentialDispatcher{compiler: compiler}
}

func (d *sequentialDispatcher) Dispatch(path string) {
	if d.compiler.CompilePack(path).Success {
		d.counters.Succeeded++
	} else {
		d.counters.Failed++
	}
}

func (d *sequentialDispatcher) Wait() {}

func (d *sequentialDispatcher) Counters() CompilationCounters {
	return d.counters
}

// parallelDispatcher spreads compilation across a bounded worker pool, standing in for the
// original's thread_pool/waitable_event pair. errgroup.Group's SetLimit plays the part of the
// thread pool; Wait() plays the part of the waitable_event completion signal. Grounded on
// _Parallel_dispatcher in dispatcher.cpp, with atomic counters in place of
// _Parallel_dispatcher::_Atomic_counters.
type parallelDispatcher struct {
	compiler  *Compiler
	group     *errgroup.Group
	succeeded int64
	failed    int64
}

func newParallelDispatcher(compiler *Compiler, threads int) *parallelDispatcher {
	group := &errgroup.Group{}
	group.SetLimit(threads)
	return &parallelDispatcher{compiler: compiler, group: group}
}

func (d *parallelDispatcher) Dispatch(path string) {
	d.group.Go(func() error {
		if d.compiler.CompilePack(path).Success {
			atomic.AddInt64(&d.succeeded, 1)
		} else {
			atomic.AddInt64(&d.failed, 1)
		}
		return nil
	})
}

func (d *parallelDispatcher) Wait() {
	_ = d.group.Wait()
}

func (d *parallelDispatcher) Counters() CompilationCounters {
	return CompilationCounters{
		Succeeded: int(atomic.LoadInt64(&d.succeeded)),
		Failed:    int(atomic.LoadInt64(&d.failed)),
	}
}

// NewDispatcher picks a sequential or parallel Dispatcher based on opts.Threads, mirroring
// compilation_dispatcher::_Create.
func NewDispatcher(compiler *Compiler, opts *Options) Dispatcher {
	if opts.Threads > 0 {
		return newParallelDispatcher(compiler, opts.Threads)
	}
	return newSequentialDispatcher(compiler)
}
