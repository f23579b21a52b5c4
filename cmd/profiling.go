package cmd

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"

	"github.com/spiffcs/explore/internal/log"
)

// startProfiling starts the CPU profile and execution trace named in opts.
// The returned stop function ends them and writes the heap profile; it is
// safe to call when nothing was started.
func startProfiling(opts *Options) (stop func(), err error) {
	var cpuFile, traceFile *os.File

	stop = func() {
		if traceFile != nil {
			trace.Stop()
			closeProfile(traceFile)
			traceFile = nil
		}
		if cpuFile != nil {
			pprof.StopCPUProfile()
			closeProfile(cpuFile)
			cpuFile = nil
		}
		if opts.MemProfile != "" {
			writeHeapProfile(opts.MemProfile)
		}
	}

	if opts.CPUProfile != "" {
		f, err := os.Create(opts.CPUProfile)
		if err != nil {
			return nil, fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			closeProfile(f)
			return nil, fmt.Errorf("could not start CPU profile: %w", err)
		}
		cpuFile = f
	}

	if opts.Trace != "" {
		f, err := os.Create(opts.Trace)
		if err != nil {
			stop()
			return nil, fmt.Errorf("could not create trace: %w", err)
		}
		if err := trace.Start(f); err != nil {
			closeProfile(f)
			stop()
			return nil, fmt.Errorf("could not start trace: %w", err)
		}
		traceFile = f
	}

	return stop, nil
}

func writeHeapProfile(path string) {
	f, err := os.Create(path)
	if err != nil {
		log.Warn("could not create memory profile", "error", err)
		return
	}
	defer closeProfile(f)

	runtime.GC() // up-to-date statistics
	if err := pprof.WriteHeapProfile(f); err != nil {
		log.Warn("could not write memory profile", "error", err)
	}
}

func closeProfile(f *os.File) {
	if err := f.Close(); err != nil {
		log.Warn("could not close profile", "file", f.Name(), "error", err)
	}
}
