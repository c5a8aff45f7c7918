package live

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zeebo/blake3"
	"golang.org/x/time/rate"

	"github.com/stylelens/stylelens/internal/api"
	"github.com/stylelens/stylelens/internal/errors"
	"github.com/stylelens/stylelens/internal/log"
)

// DefaultInterval is how often a frame is captured when the caller does
// not choose one.
const DefaultInterval = 5 * time.Second

// Analyzer is the slice of the API client the runner needs.
type Analyzer interface {
	AnalyzeFrame(ctx context.Context, frame []byte) (*api.Analysis, error)
}

// Result is one completed tick. Skipped results carry no analysis.
type Result struct {
	Analysis *api.Analysis
	Skipped  bool
	Err      error
	At       time.Time
}

// RunnerConfig holds configuration for the live analysis loop.
type RunnerConfig struct {
	Source   FrameSource
	Analyzer Analyzer
	Interval time.Duration // capture cadence (default: 5s)
	Rate     rate.Limit    // analysis calls per second (default: one per 10s)
	Logger   *log.Logger
	OnResult func(Result) // called from the loop goroutine
}

// Runner drives the live analysis loop: capture a frame each tick,
// analyze it, report the result. The loop is bound to the source's
// lifetime; stopping the runner closes the source.
//
// Two guards keep the loop polite. A busy flag drops ticks while an
// analysis is still in flight, so a slow backend can never stack
// requests. A frame fingerprint skips the analysis when the captured
// frame is identical to the previous one.
type Runner struct {
	source   FrameSource
	analyzer Analyzer
	interval time.Duration
	limiter  *rate.Limiter
	logger   *log.Logger
	onResult func(Result)

	busy     atomic.Bool
	lastHash [32]byte
	hasHash  bool

	startMu  sync.Mutex
	running  bool
	stopOnce sync.Once
	stopChan chan struct{}
	done     chan struct{}
}

// NewRunner creates a live analysis runner.
func NewRunner(cfg RunnerConfig) (*Runner, error) {
	if cfg.Source == nil {
		return nil, errors.New(errors.ErrCodeLiveSourceUnavailable, "frame source is required")
	}
	if cfg.Analyzer == nil {
		return nil, errors.New(errors.ErrCodeLiveCaptureFailed, "analyzer is required")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Rate == 0 {
		cfg.Rate = rate.Every(10 * time.Second)
	}
	if cfg.Logger == nil {
		cfg.Logger = log.DefaultLogger()
	}
	if cfg.OnResult == nil {
		cfg.OnResult = func(Result) {}
	}

	return &Runner{
		source:   cfg.Source,
		analyzer: cfg.Analyzer,
		interval: cfg.Interval,
		limiter:  rate.NewLimiter(cfg.Rate, 1),
		logger:   cfg.Logger,
		onResult: cfg.OnResult,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Start runs the loop until Stop is called or ctx is cancelled. It
// returns once the loop has fully wound down and the source is closed.
// A runner runs at most once.
func (r *Runner) Start(ctx context.Context) error {
	r.startMu.Lock()
	if r.running {
		r.startMu.Unlock()
		return errors.New(errors.ErrCodeLiveAlreadyRunning, "live analysis is already running")
	}
	r.running = true
	r.startMu.Unlock()

	r.logger.Info("starting live analysis", "interval", r.interval)

	var wg sync.WaitGroup
	tick := func() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.tick(ctx)
		}()
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	defer close(r.done)
	defer r.source.Close()
	defer wg.Wait()

	// First frame immediately; waiting a full interval before any
	// feedback makes the command feel dead.
	tick()

	for {
		select {
		case <-ticker.C:
			tick()
		case <-r.stopChan:
			r.logger.Info("stopping live analysis")
			return nil
		case <-ctx.Done():
			r.logger.Info("context cancelled, stopping live analysis")
			return ctx.Err()
		}
	}
}

// Stop ends the loop and waits for it to finish. It is safe to call from
// any goroutine, more than once, and even before Start: a Stop that wins
// the race with Start makes the eventual Start return immediately.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() { close(r.stopChan) })

	r.startMu.Lock()
	started := r.running
	r.startMu.Unlock()
	if started {
		<-r.done
	}
}

func (r *Runner) tick(ctx context.Context) {
	if !r.busy.CompareAndSwap(false, true) {
		r.logger.Debug("analysis still in flight, skipping tick")
		r.onResult(Result{Skipped: true, At: time.Now()})
		return
	}
	defer r.busy.Store(false)

	frame, err := r.source.Capture(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		r.logger.WithError(err).Warn("frame capture failed")
		r.onResult(Result{Err: err, At: time.Now()})
		return
	}

	hash := blake3.Sum256(frame)
	if r.hasHash && hash == r.lastHash {
		r.logger.Debug("frame unchanged, skipping analysis")
		r.onResult(Result{Skipped: true, At: time.Now()})
		return
	}

	if !r.limiter.Allow() {
		r.logger.Debug("analysis rate limit reached, skipping tick")
		r.onResult(Result{Skipped: true, At: time.Now()})
		return
	}

	analysis, err := r.analyzer.AnalyzeFrame(ctx, frame)
	if err != nil {
		r.onResult(Result{Err: err, At: time.Now()})
		return
	}

	r.lastHash = hash
	r.hasHash = true
	r.onResult(Result{Analysis: analysis, At: time.Now()})
}
