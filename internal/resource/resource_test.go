package resource_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkcm/auth-session/internal/resource"
)

type user struct {
	ID   string
	Name string
}

type params map[string]any

type alert struct {
	title, message string
}

type recordingAlerter struct {
	mu     sync.Mutex
	alerts []alert
}

func (a *recordingAlerter) Alert(_ context.Context, title, message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.alerts = append(a.alerts, alert{title: title, message: message})
}

func (a *recordingAlerter) Alerts() []alert {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]alert(nil), a.alerts...)
}

// countingProducer returns a producer recording the params of every call.
func countingProducer[T any](value T, err error) (resource.Producer[T, params], func() []params) {
	var mu sync.Mutex
	var calls []params

	fn := func(_ context.Context, p params) (T, error) {
		mu.Lock()
		calls = append(calls, p)
		mu.Unlock()
		return value, err
	}

	return fn, func() []params {
		mu.Lock()
		defer mu.Unlock()
		return append([]params(nil), calls...)
	}
}

func TestNew_RequiresProducer(t *testing.T) {
	_, err := resource.New(resource.Options[user, params]{})
	assert.ErrorIs(t, err, resource.ErrNoProducer)
}

func TestResource_SkipPerformsNoFetch(t *testing.T) {
	fn, calls := countingProducer(user{ID: "u1"}, nil)
	r, err := resource.New(resource.Options[user, params]{Fn: fn, Skip: true})
	require.NoError(t, err)

	r.Activate(context.Background())

	assert.Empty(t, calls())
	assert.Empty(t, cmp.Diff(resource.State[user]{}, r.State()))

	r.Refetch(context.Background(), params{"page": 2})

	assert.Equal(t, []params{{"page": 2}}, calls())
	assert.Empty(t, cmp.Diff(resource.State[user]{Data: &user{ID: "u1"}}, r.State()))
}

func TestResource_ActivateFetchesOnceWithInitialParams(t *testing.T) {
	fn, calls := countingProducer(user{ID: "u1"}, nil)
	r, err := resource.New(resource.Options[user, params]{Fn: fn, Params: params{"query": "loft", "limit": 6}})
	require.NoError(t, err)

	assert.True(t, r.State().Loading, "a resource about to fetch starts loading")

	r.Activate(context.Background())
	r.Activate(context.Background())

	assert.Equal(t, []params{{"query": "loft", "limit": 6}}, calls())

	r.Refetch(context.Background(), params{"query": "villa"})

	assert.Equal(t, []params{{"query": "loft", "limit": 6}, {"query": "villa"}}, calls())
}

func TestResource_FetchSuccess(t *testing.T) {
	fn, _ := countingProducer(user{ID: "u1", Name: "Ann"}, nil)
	alerter := &recordingAlerter{}
	r, err := resource.New(resource.Options[user, params]{Fn: fn, Alerter: alerter})
	require.NoError(t, err)

	r.Activate(context.Background())

	want := resource.State[user]{Data: &user{ID: "u1", Name: "Ann"}, Loading: false, Error: ""}
	assert.Empty(t, cmp.Diff(want, r.State()))
	assert.Empty(t, alerter.Alerts())
}

func TestResource_FetchFailure(t *testing.T) {
	fn, _ := countingProducer(user{}, errors.New("network down"))
	alerter := &recordingAlerter{}
	r, err := resource.New(resource.Options[user, params]{Fn: fn, Alerter: alerter})
	require.NoError(t, err)

	r.Activate(context.Background())

	want := resource.State[user]{Data: nil, Loading: false, Error: "network down"}
	assert.Empty(t, cmp.Diff(want, r.State()))
	assert.Equal(t, []alert{{title: "Error", message: "network down"}}, alerter.Alerts())
}

func TestResource_FailureKeepsPreviousData(t *testing.T) {
	fail := false
	fn := func(_ context.Context, _ params) (user, error) {
		if fail {
			return user{}, errors.New("timeout")
		}
		return user{ID: "u1"}, nil
	}

	r, err := resource.New(resource.Options[user, params]{Fn: fn, Alerter: &recordingAlerter{}})
	require.NoError(t, err)

	r.Activate(context.Background())
	fail = true
	r.Refetch(context.Background(), nil)

	want := resource.State[user]{Data: &user{ID: "u1"}, Loading: false, Error: "timeout"}
	assert.Empty(t, cmp.Diff(want, r.State()))

	fail = false
	r.Refetch(context.Background(), nil)

	assert.Empty(t, cmp.Diff(resource.State[user]{Data: &user{ID: "u1"}}, r.State()), "a successful refetch clears the error")
}

func TestResource_FailureWithoutMessage(t *testing.T) {
	fn, _ := countingProducer(user{}, errors.New(""))
	alerter := &recordingAlerter{}
	r, err := resource.New(resource.Options[user, params]{Fn: fn, Alerter: alerter})
	require.NoError(t, err)

	r.Activate(context.Background())

	assert.Equal(t, resource.UnknownErrorMessage, r.State().Error)
	assert.Equal(t, []alert{{title: "Error", message: resource.UnknownErrorMessage}}, alerter.Alerts())
}

func TestResource_LoadingKeepsStaleData(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	calls := 0
	fn := func(_ context.Context, _ params) (user, error) {
		calls++
		if calls == 2 {
			close(started)
			<-release
			return user{ID: "u2"}, nil
		}
		return user{ID: "u1"}, nil
	}

	r, err := resource.New(resource.Options[user, params]{Fn: fn})
	require.NoError(t, err)
	r.Activate(context.Background())

	done := make(chan struct{})
	go func() {
		r.Refetch(context.Background(), nil)
		close(done)
	}()

	<-started
	assert.Empty(t, cmp.Diff(resource.State[user]{Data: &user{ID: "u1"}, Loading: true}, r.State()))

	close(release)
	<-done
	assert.Empty(t, cmp.Diff(resource.State[user]{Data: &user{ID: "u2"}}, r.State()))
}

func TestResource_StaleResponsesAreDropped(t *testing.T) {
	releaseFirst := make(chan struct{})
	firstStarted := make(chan struct{})

	fn := func(_ context.Context, p params) (user, error) {
		if p["call"] == 1 {
			close(firstStarted)
			<-releaseFirst
			return user{}, errors.New("stale failure")
		}
		return user{ID: "latest"}, nil
	}

	alerter := &recordingAlerter{}
	r, err := resource.New(resource.Options[user, params]{Fn: fn, Skip: true, Alerter: alerter})
	require.NoError(t, err)

	firstDone := make(chan struct{})
	go func() {
		r.Refetch(context.Background(), params{"call": 1})
		close(firstDone)
	}()
	<-firstStarted

	r.Refetch(context.Background(), params{"call": 2})
	assert.Empty(t, cmp.Diff(resource.State[user]{Data: &user{ID: "latest"}}, r.State()))

	close(releaseFirst)
	<-firstDone

	assert.Empty(t, cmp.Diff(resource.State[user]{Data: &user{ID: "latest"}}, r.State()))
	assert.Empty(t, alerter.Alerts())
}

func TestResource_OlderFetchDoesNotClearLoading(t *testing.T) {
	release := map[int]chan struct{}{1: make(chan struct{}), 2: make(chan struct{})}
	started := map[int]chan struct{}{1: make(chan struct{}), 2: make(chan struct{})}

	fn := func(_ context.Context, p params) (user, error) {
		call, _ := p["call"].(int)
		close(started[call])
		<-release[call]
		return user{ID: map[int]string{1: "first", 2: "second"}[call]}, nil
	}

	r, err := resource.New(resource.Options[user, params]{Fn: fn, Skip: true})
	require.NoError(t, err)

	done := map[int]chan struct{}{1: make(chan struct{}), 2: make(chan struct{})}
	refetch := func(call int) {
		r.Refetch(context.Background(), params{"call": call})
		close(done[call])
	}

	go refetch(1)
	<-started[1]
	go refetch(2)
	<-started[2]

	close(release[1])
	<-done[1]
	assert.Empty(t, cmp.Diff(resource.State[user]{Loading: true}, r.State()))

	close(release[2])
	<-done[2]
	assert.Empty(t, cmp.Diff(resource.State[user]{Data: &user{ID: "second"}}, r.State()))
}

func TestResource_Reset(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})

	fn := func(_ context.Context, p params) (user, error) {
		if p["call"] == 2 {
			close(started)
			<-release
			return user{}, errors.New("late failure")
		}
		return user{ID: "u1"}, nil
	}

	alerter := &recordingAlerter{}
	r, err := resource.New(resource.Options[user, params]{Fn: fn, Params: params{"call": 1}, Alerter: alerter})
	require.NoError(t, err)
	r.Activate(context.Background())
	require.NotNil(t, r.State().Data)

	done := make(chan struct{})
	go func() {
		r.Refetch(context.Background(), params{"call": 2})
		close(done)
	}()
	<-started

	r.Reset()
	assert.Empty(t, cmp.Diff(resource.State[user]{}, r.State()))

	close(release)
	<-done

	assert.Empty(t, cmp.Diff(resource.State[user]{}, r.State()), "a fetch issued before the reset is discarded")
	assert.Empty(t, alerter.Alerts())
}

func TestResource_OnChange(t *testing.T) {
	fn, _ := countingProducer(user{ID: "u1"}, nil)

	var states []resource.State[user]
	r, err := resource.New(resource.Options[user, params]{
		Fn:       fn,
		OnChange: func(s resource.State[user]) { states = append(states, s) },
	})
	require.NoError(t, err)

	r.Activate(context.Background())

	want := []resource.State[user]{
		{Loading: true},
		{Data: &user{ID: "u1"}, Loading: true},
		{Data: &user{ID: "u1"}},
	}
	assert.Empty(t, cmp.Diff(want, states))
}

func TestWriterAlerter(t *testing.T) {
	var buf bytes.Buffer
	a := resource.NewWriterAlerter(&buf)

	a.Alert(context.Background(), "Error", "network down")

	assert.Equal(t, "Error: network down\n", buf.String())
}
