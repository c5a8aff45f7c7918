package live

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/stylelens/stylelens/internal/api"
	"github.com/stylelens/stylelens/internal/errors"
)

type stubSource struct {
	mu     sync.Mutex
	frames [][]byte
	next   int
	closed bool
}

func (s *stubSource) Capture(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		return nil, errors.New(errors.ErrCodeLiveCaptureFailed, "no frames")
	}
	frame := s.frames[s.next]
	if s.next < len(s.frames)-1 {
		s.next++
	}
	return frame, nil
}

func (s *stubSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *stubSource) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

type stubAnalyzer struct {
	mu      sync.Mutex
	calls   int
	block   chan struct{} // when set, Analyze waits on it
	started chan struct{} // signals each Analyze entry
}

func (a *stubAnalyzer) AnalyzeFrame(ctx context.Context, frame []byte) (*api.Analysis, error) {
	a.mu.Lock()
	a.calls++
	a.mu.Unlock()
	if a.started != nil {
		a.started <- struct{}{}
	}
	if a.block != nil {
		<-a.block
	}
	return &api.Analysis{ID: "a1", Score: 8}, nil
}

func (a *stubAnalyzer) callCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

func collectResults(t *testing.T) (func(Result), func() []Result) {
	t.Helper()
	var mu sync.Mutex
	var results []Result
	record := func(r Result) {
		mu.Lock()
		results = append(results, r)
		mu.Unlock()
	}
	snapshot := func() []Result {
		mu.Lock()
		defer mu.Unlock()
		return append([]Result(nil), results...)
	}
	return record, snapshot
}

func TestRunner_AnalyzesAndStops(t *testing.T) {
	source := &stubSource{frames: [][]byte{[]byte("frame-1")}}
	analyzer := &stubAnalyzer{started: make(chan struct{}, 16)}
	record, snapshot := collectResults(t)

	runner, err := NewRunner(RunnerConfig{
		Source:   source,
		Analyzer: analyzer,
		Interval: 10 * time.Millisecond,
		Rate:     rate.Inf,
		OnResult: record,
	})
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() { errCh <- runner.Start(context.Background()) }()

	// Wait for the immediate first analysis.
	select {
	case <-analyzer.started:
	case <-time.After(2 * time.Second):
		t.Fatal("analysis never started")
	}

	runner.Stop()
	require.NoError(t, <-errCh)
	assert.True(t, source.isClosed(), "stopping must release the capture source")

	results := snapshot()
	require.NotEmpty(t, results)
	assert.Equal(t, "a1", results[0].Analysis.ID)
}

func TestRunner_BusyGuard(t *testing.T) {
	// Two distinct frames so fingerprinting cannot be the reason a tick
	// is skipped.
	source := &stubSource{frames: [][]byte{[]byte("frame-1"), []byte("frame-2")}}
	analyzer := &stubAnalyzer{
		block:   make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	record, snapshot := collectResults(t)

	runner, err := NewRunner(RunnerConfig{
		Source:   source,
		Analyzer: analyzer,
		Interval: 5 * time.Millisecond,
		Rate:     rate.Inf,
		OnResult: record,
	})
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() { errCh <- runner.Start(context.Background()) }()

	select {
	case <-analyzer.started:
	case <-time.After(2 * time.Second):
		t.Fatal("analysis never started")
	}

	// The first analysis is blocked; let several ticks fire.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, analyzer.callCount(), "ticks must not overlap an in-flight analysis")

	skipped := 0
	for _, r := range snapshot() {
		if r.Skipped {
			skipped++
		}
	}
	assert.Greater(t, skipped, 0, "dropped ticks must be reported as skipped")

	close(analyzer.block)
	runner.Stop()
	require.NoError(t, <-errCh)
}

func TestRunner_SkipsUnchangedFrame(t *testing.T) {
	source := &stubSource{frames: [][]byte{[]byte("same-frame")}}
	analyzer := &stubAnalyzer{started: make(chan struct{}, 16)}
	record, snapshot := collectResults(t)

	runner, err := NewRunner(RunnerConfig{
		Source:   source,
		Analyzer: analyzer,
		Interval: 5 * time.Millisecond,
		Rate:     rate.Inf,
		OnResult: record,
	})
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() { errCh <- runner.Start(context.Background()) }()

	select {
	case <-analyzer.started:
	case <-time.After(2 * time.Second):
		t.Fatal("analysis never started")
	}
	time.Sleep(50 * time.Millisecond)
	runner.Stop()
	require.NoError(t, <-errCh)

	assert.Equal(t, 1, analyzer.callCount(), "an unchanged frame must not be re-analyzed")

	skipped := 0
	for _, r := range snapshot() {
		if r.Skipped {
			skipped++
		}
	}
	assert.Greater(t, skipped, 0)
}

func TestRunner_RateLimit(t *testing.T) {
	// Every frame differs, but the limiter only allows the initial burst.
	frames := make([][]byte, 10)
	for i := range frames {
		frames[i] = []byte{byte(i)}
	}
	source := &stubSource{frames: frames}
	analyzer := &stubAnalyzer{started: make(chan struct{}, 16)}
	record, _ := collectResults(t)

	runner, err := NewRunner(RunnerConfig{
		Source:   source,
		Analyzer: analyzer,
		Interval: 5 * time.Millisecond,
		Rate:     rate.Every(time.Hour),
		OnResult: record,
	})
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() { errCh <- runner.Start(context.Background()) }()

	select {
	case <-analyzer.started:
	case <-time.After(2 * time.Second):
		t.Fatal("analysis never started")
	}
	time.Sleep(50 * time.Millisecond)
	runner.Stop()
	require.NoError(t, <-errCh)

	assert.Equal(t, 1, analyzer.callCount())
}

func TestRunner_ContextCancel(t *testing.T) {
	source := &stubSource{frames: [][]byte{[]byte("frame-1")}}
	analyzer := &stubAnalyzer{}

	runner, err := NewRunner(RunnerConfig{
		Source:   source,
		Analyzer: analyzer,
		Interval: 5 * time.Millisecond,
		Rate:     rate.Inf,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- runner.Start(ctx) }()

	cancel()
	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop on context cancel")
	}
	assert.True(t, source.isClosed())
}

func TestRunner_StartTwice(t *testing.T) {
	source := &stubSource{frames: [][]byte{[]byte("frame-1")}}
	analyzer := &stubAnalyzer{}

	runner, err := NewRunner(RunnerConfig{
		Source:   source,
		Analyzer: analyzer,
		Interval: 5 * time.Millisecond,
		Rate:     rate.Inf,
	})
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() { errCh <- runner.Start(context.Background()) }()
	time.Sleep(20 * time.Millisecond)

	err = runner.Start(context.Background())
	require.Error(t, err)
	var slErr *errors.StyleLensError
	require.ErrorAs(t, err, &slErr)
	assert.Equal(t, errors.ErrCodeLiveAlreadyRunning, slErr.Code)

	runner.Stop()
	require.NoError(t, <-errCh)
}

func TestRunner_StopBeforeStart(t *testing.T) {
	// A Stop that wins the race with Start must not be lost: the loop
	// has to end anyway instead of running until the context dies.
	source := &stubSource{frames: [][]byte{[]byte("frame-1")}}
	analyzer := &stubAnalyzer{}

	runner, err := NewRunner(RunnerConfig{
		Source:   source,
		Analyzer: analyzer,
		Interval: time.Hour,
		Rate:     rate.Inf,
	})
	require.NoError(t, err)

	runner.Stop()

	errCh := make(chan error, 1)
	go func() { errCh <- runner.Start(context.Background()) }()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("loop kept running after an early Stop")
	}
	assert.True(t, source.isClosed())
}

func TestRunner_ConcurrentStops(t *testing.T) {
	// Many Stops racing the running loop must neither panic on a double
	// channel close nor leave the loop alive.
	source := &stubSource{frames: [][]byte{[]byte("frame-1")}}
	analyzer := &stubAnalyzer{started: make(chan struct{}, 16)}

	runner, err := NewRunner(RunnerConfig{
		Source:   source,
		Analyzer: analyzer,
		Interval: time.Millisecond,
		Rate:     rate.Inf,
	})
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() { errCh <- runner.Start(context.Background()) }()

	select {
	case <-analyzer.started:
	case <-time.After(2 * time.Second):
		t.Fatal("analysis never started")
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runner.Stop()
		}()
	}

	stopsDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(stopsDone)
	}()

	select {
	case <-stopsDone:
	case <-time.After(2 * time.Second):
		t.Fatal("concurrent Stops did not all return")
	}

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("loop kept running after Stop")
	}
	assert.True(t, source.isClosed())
}

func TestNewRunner_RequiresSource(t *testing.T) {
	_, err := NewRunner(RunnerConfig{Analyzer: &stubAnalyzer{}})
	require.Error(t, err)
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.jpg")
	second := filepath.Join(dir, "b.jpg")
	require.NoError(t, os.WriteFile(first, []byte("aaa"), 0o600))
	require.NoError(t, os.WriteFile(second, []byte("bbb"), 0o600))

	source := NewFileSource(first, second)
	ctx := context.Background()

	frame, err := source.Capture(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("aaa"), frame)

	frame, err = source.Capture(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("bbb"), frame)

	// The last frame repeats once the sequence is exhausted.
	frame, err = source.Capture(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("bbb"), frame)

	require.NoError(t, source.Close())
	_, err = source.Capture(ctx)
	require.Error(t, err)
}
