// Package parallel splits element loops of the numeric kernels across goroutines.
//
// The autodiff core itself is single-threaded; only the array kernels
// underneath it fan out, and every call returns after all chunks finish.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls how kernels split their work.
type Config struct {
	Enabled      bool // Whether kernels may use more than one goroutine.
	NumWorkers   int  // Upper bound on goroutines per call.
	MinChunkSize int  // Minimum elements per goroutine.
}

// DefaultConfig returns a config sized to the machine.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 4096,
	}
}

// Sequential is a config that never spawns goroutines.
var Sequential = Config{}

// ForRange calls f on disjoint [start, end) chunks covering [0, n).
// Chunks never overlap, so f may write to its own range of an output slice.
func ForRange(n int, f func(start, end int), cfg Config) {
	if n <= 0 {
		return
	}
	if !cfg.Enabled || cfg.NumWorkers < 2 || n < 2*cfg.MinChunkSize {
		f(0, n)
		return
	}

	chunk := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize)
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			f(s, e)
		}(start, end)
	}
	wg.Wait()
}

// For executes f(i) for i in [0, n).
func For(n int, f func(i int), cfg Config) {
	ForRange(n, func(start, end int) {
		for i := start; i < end; i++ {
			f(i)
		}
	}, cfg)
}
