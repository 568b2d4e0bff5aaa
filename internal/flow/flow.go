// Package flow runs timed screen transitions ("show the image after 3s,
// move on after 6s") that die with the screen that owns them.
package flow

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"
)

// Step is an action fired After the run starts.
type Step struct {
	Name  string
	After time.Duration
	Do    func(ctx context.Context)
}

// Run is a scheduled sequence. Steps fire in order of their offsets; once the
// run is canceled no further step fires.
type Run struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu    sync.Mutex
	fired []string
}

// Schedule starts steps in a single goroutine. The run stops early when ctx
// is done or Cancel is called.
func Schedule(ctx context.Context, logger *slog.Logger, steps ...Step) *Run {
	ctx, cancel := context.WithCancel(ctx)
	r := &Run{cancel: cancel, done: make(chan struct{})}

	ordered := slices.Clone(steps)
	slices.SortStableFunc(ordered, func(a, b Step) int {
		return cmp.Compare(a.After, b.After)
	})

	go r.loop(ctx, logger, ordered)
	return r
}

func (r *Run) loop(ctx context.Context, logger *slog.Logger, steps []Step) {
	defer close(r.done)
	defer r.cancel()

	start := time.Now()
	for _, step := range steps {
		timer := time.NewTimer(max(step.After-time.Since(start), 0))
		select {
		case <-ctx.Done():
			timer.Stop()
			logger.Debug("Transition canceled", slog.String("pending", step.Name))
			return
		case <-timer.C:
		}
		// cancellation wins over a timer that fired at the same moment
		if ctx.Err() != nil {
			return
		}
		logger.Debug("Transition step", slog.String("step", step.Name))
		if step.Do != nil {
			step.Do(ctx)
		}
		r.mu.Lock()
		r.fired = append(r.fired, step.Name)
		r.mu.Unlock()
	}
}

// Cancel stops the run. Steps that have not fired never will. Safe to call
// more than once and from inside a step.
func (r *Run) Cancel() {
	r.cancel()
}

// Done is closed once the run has finished or been canceled.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the run is over.
func (r *Run) Wait() {
	<-r.done
}

// Fired returns the names of the steps that ran, in order.
func (r *Run) Fired() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.fired)
}

// Durations configures the built-in sequences.
type Durations struct {
	SplashImage    time.Duration `mapstructure:"splashImage"`
	Onboarding     time.Duration `mapstructure:"onboarding"`
	CategoryReveal time.Duration `mapstructure:"categoryReveal"`
	SurpriseReveal time.Duration `mapstructure:"surpriseReveal"`
}

// DefaultDurations are the app's stock timings.
func DefaultDurations() Durations {
	return Durations{
		SplashImage:    3 * time.Second,
		Onboarding:     6 * time.Second,
		CategoryReveal: 5 * time.Second,
		SurpriseReveal: 5 * time.Second,
	}
}

// Splash swaps the loader animation for the image, then hands over to
// onboarding.
func Splash(d Durations, showImage, toOnboarding func(ctx context.Context)) []Step {
	return []Step{
		{Name: "splash-image", After: d.SplashImage, Do: showImage},
		{Name: "onboarding", After: d.Onboarding, Do: toOnboarding},
	}
}

// CategoryReveal moves from the loading screen to the random pick.
func CategoryReveal(d Durations, reveal func(ctx context.Context)) []Step {
	return []Step{{Name: "category-reveal", After: d.CategoryReveal, Do: reveal}}
}

// SurpriseReveal moves from the hourglass to the final result.
func SurpriseReveal(d Durations, reveal func(ctx context.Context)) []Step {
	return []Step{{Name: "surprise-reveal", After: d.SurpriseReveal, Do: reveal}}
}
