package preset

import (
	"fmt"
	"sync"
	"time"
)

// EvalTimeout bounds a single preset evaluation. Presets are a handful of
// calls; anything slower is a runaway loop.
const EvalTimeout = 2 * time.Second

type evalResult struct {
	preset *Preset
	errors []EvalError
	err    error
}

// waitWithTimeout waits for ch or EvalTimeout, whichever comes first.
// Results from a generation older than the current one are discarded.
func waitWithTimeout(
	ch <-chan evalResult,
	gen uint64,
	mu *sync.Mutex,
	currentGen *uint64,
) (*Preset, []EvalError, error) {
	timer := time.NewTimer(EvalTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()

		if gen != current {
			return nil, nil, fmt.Errorf("preset evaluation superseded by newer request")
		}
		return res.preset, res.errors, res.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("preset evaluation timed out after %s", EvalTimeout)
	}
}
