package kernel

import (
	"context"
	"runtime"
	"sync/atomic"

	"github.com/gekko3d/sparks/particlert/rt/core"

	"golang.org/x/sync/errgroup"
)

// GroupSize is the number of invocations per work group.
const GroupSize = 64

// Groups returns how many work groups cover n slots.
func Groups(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + GroupSize - 1) / GroupSize
}

type DispatchOptions struct {
	// Workers bounds how many groups run at once. <= 0 means runtime.NumCPU().
	Workers int
}

// Stats summarises one dispatch.
type Stats struct {
	Groups  int
	Spawned int
	Ticked  int
}

// Dispatch runs k once for every slot of buf. Groups run in parallel, every
// invocation owns exactly one slot. Trailing invocations of the last group that
// fall past the end of the buffer do nothing.
//
// If ctx is cancelled the remaining groups are abandoned and ctx.Err() is
// returned; slots already processed keep their new state.
func Dispatch(ctx context.Context, k Kernel, buf *core.Buffer, opts DispatchOptions) (Stats, error) {
	if k == nil {
		return Stats{}, ErrNilKernel
	}
	n := buf.Len()
	groups := Groups(n)
	stats := Stats{Groups: groups}
	if groups == 0 {
		return stats, nil
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var spawned, ticked, completed atomic.Int64
	particles := buf.Slice()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for group := 0; group < groups; group++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var s, t int64
			start := group * GroupSize
			for local := 0; local < GroupSize; local++ {
				idx := start + local
				if idx >= n {
					break
				}
				if Invoke(k, uint32(idx), &particles[idx]) == Spawned {
					s++
				} else {
					t++
				}
			}
			spawned.Add(s)
			ticked.Add(t)
			completed.Add(1)
			return nil
		})
	}
	err := g.Wait()
	if err == nil && completed.Load() < int64(groups) {
		err = ctx.Err()
	}

	stats.Spawned = int(spawned.Load())
	stats.Ticked = int(ticked.Load())
	return stats, err
}
