package classifier

import (
	"context"
	"sync"
)

type LoadFunc func(ctx context.Context) (Inferencer, error)

// Handle is a lazily loaded Inferencer shared by every request of the
// process. The loader runs at most once; a load error is kept and returned on
// every later call instead of retrying.
type Handle struct {
	load LoadFunc

	once sync.Once
	inf  Inferencer
	err  error
}

func NewHandle(load LoadFunc) *Handle {
	return &Handle{load: load}
}

// Load runs the loader if it has not run yet and returns its outcome.
func (h *Handle) Load(ctx context.Context) (Inferencer, error) {
	h.once.Do(func() {
		h.inf, h.err = h.load(ctx)
	})
	return h.inf, h.err
}

func (h *Handle) Infer(ctx context.Context, text string) (Prediction, error) {
	inf, err := h.Load(ctx)
	if err != nil {
		return Prediction{}, err
	}
	return inf.Infer(ctx, text)
}
