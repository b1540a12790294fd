// Package resource keeps the state of a remotely fetched value: the data, an
// in-flight flag and the last error, with manual refetch.
package resource

import (
	"context"
	"errors"
	"sync"

	slogctx "github.com/veqryn/slog-context"
)

// UnknownErrorMessage is reported when a failure carries no message.
const UnknownErrorMessage = "An unknown error occurred"

// NoParams is the parameter type of producers taking no parameters.
type NoParams struct{}

// Producer fetches the value for the given parameters.
type Producer[T, P any] func(ctx context.Context, params P) (T, error)

// Alerter shows a failure to the user. Alert blocks until the notification
// has been delivered.
type Alerter interface {
	Alert(ctx context.Context, title, message string)
}

// State is a snapshot of a Resource. Data is nil until a fetch succeeded and
// Error is empty unless the latest fetch failed. While Loading is true
// neither says anything about the fetch in flight.
type State[T any] struct {
	Data    *T
	Loading bool
	Error   string
}

type Options[T, P any] struct {
	Fn     Producer[T, P] // required
	Params P              // parameters of the automatic first fetch
	Skip   bool           // suppresses the automatic first fetch

	Alerter  Alerter
	OnChange func(State[T])
}

type Resource[T, P any] struct {
	fn       Producer[T, P]
	params   P
	skip     bool
	alerter  Alerter
	onChange func(State[T])

	activate sync.Once

	mu    sync.Mutex
	state State[T]
	seq   uint64
}

var ErrNoProducer = errors.New("resource: producer is required")

func New[T, P any](opts Options[T, P]) (*Resource[T, P], error) {
	if opts.Fn == nil {
		return nil, ErrNoProducer
	}

	alerter := opts.Alerter
	if alerter == nil {
		alerter = LogAlerter{}
	}

	return &Resource[T, P]{
		fn:       opts.Fn,
		params:   opts.Params,
		skip:     opts.Skip,
		alerter:  alerter,
		onChange: opts.OnChange,
		state:    State[T]{Loading: !opts.Skip},
	}, nil
}

// Activate runs the automatic first fetch with the initial parameters.
// Only the first call has an effect, and nothing but Refetch fetches again.
func (r *Resource[T, P]) Activate(ctx context.Context) {
	r.activate.Do(func() {
		if r.skip {
			return
		}
		r.fetch(ctx, r.params)
	})
}

// Refetch fetches again with params and returns once the producer settled.
func (r *Resource[T, P]) Refetch(ctx context.Context, params P) {
	r.fetch(ctx, params)
}

// Reset drops the data and the error. Fetches still in flight are
// discarded when they settle.
func (r *Resource[T, P]) Reset() {
	r.mu.Lock()
	r.seq++
	r.state = State[T]{}
	snapshot := r.state
	r.mu.Unlock()

	r.notify(snapshot)
}

// State returns a snapshot of the current state.
func (r *Resource[T, P]) State() State[T] {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.state
}

// fetch keeps stale Data visible while loading. Only the most recently
// issued fetch may change the state once the producer settled; earlier ones
// are dropped without alerting.
func (r *Resource[T, P]) fetch(ctx context.Context, params P) {
	seq := r.begin()
	defer r.finish(seq)

	data, err := r.fn(ctx, params)
	if err != nil {
		message := errorMessage(err)
		if !r.settle(seq, nil, message) {
			slogctx.Debug(ctx, "Dropped a stale resource failure", "error", message)
			return
		}

		slogctx.Warn(ctx, "Failed to fetch resource", "error", err)
		r.alerter.Alert(ctx, "Error", message)
		return
	}

	if !r.settle(seq, &data, "") {
		slogctx.Debug(ctx, "Dropped a stale resource response")
	}
}

func (r *Resource[T, P]) begin() uint64 {
	r.mu.Lock()
	r.seq++
	seq := r.seq
	r.state.Loading = true
	r.state.Error = ""
	snapshot := r.state
	r.mu.Unlock()

	r.notify(snapshot)

	return seq
}

// settle records the outcome of fetch seq and reports whether it was the
// latest one.
func (r *Resource[T, P]) settle(seq uint64, data *T, message string) bool {
	r.mu.Lock()
	if seq != r.seq {
		r.mu.Unlock()
		return false
	}
	if data != nil {
		r.state.Data = data
	}
	r.state.Error = message
	snapshot := r.state
	r.mu.Unlock()

	r.notify(snapshot)

	return true
}

func (r *Resource[T, P]) finish(seq uint64) {
	r.mu.Lock()
	if seq != r.seq {
		r.mu.Unlock()
		return
	}
	r.state.Loading = false
	snapshot := r.state
	r.mu.Unlock()

	r.notify(snapshot)
}

func (r *Resource[T, P]) notify(s State[T]) {
	if r.onChange != nil {
		r.onChange(s)
	}
}

func errorMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}

	return UnknownErrorMessage
}
