package app

import (
	"sync/atomic"

	"callcast/ports"
)

type handlerOptions struct {
	latestOnly bool
	model      string
	sinks      []ports.PredictionSink
}

// Option configures a handler
type Option func(*handlerOptions)

// WithLatestOnly drops replies that arrive after a newer trigger of the same
// handler. Without it the last reply to arrive wins the output.
func WithLatestOnly() Option {
	return func(o *handlerOptions) { o.latestOnly = true }
}

// WithModel asks the service for a specific forecasting model. Upload ignores it.
func WithModel(model string) Option {
	return func(o *handlerOptions) { o.model = model }
}

// WithSinks registers consumers of successful prediction sets. Upload ignores it.
func WithSinks(sinks ...ports.PredictionSink) Option {
	return func(o *handlerOptions) { o.sinks = append(o.sinks, sinks...) }
}

func buildOptions(opts []Option) handlerOptions {
	var o handlerOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// generation numbers triggers so stale continuations can be recognised.
type generation struct {
	enabled bool
	n       atomic.Uint64
}

func (g *generation) next() uint64 {
	return g.n.Add(1)
}

func (g *generation) current(v uint64) bool {
	return !g.enabled || g.n.Load() == v
}
