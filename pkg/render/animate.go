package render

import (
	"context"
	"math"
	"time"
)

// DefaultAnimationStep is how far the cursor parameter moves per frame
const DefaultAnimationStep = 0.005

// Mode decides what happens when the parameter reaches 1
type Mode int

const (
	// Loop wraps the parameter back to 0
	Loop Mode = iota
	// Once stops at 1
	Once
)

// Animator advances the cursor parameter t through [0, 1]
type Animator struct {
	Step float64
	Mode Mode
}

func NewAnimator(step float64, mode Mode) *Animator {
	if step <= 0 || step > 1 {
		step = DefaultAnimationStep
	}
	return &Animator{Step: step, Mode: mode}
}

// Advance returns the parameter for the next frame and whether the animation is over.
// A Loop animation at 1 goes back to 0; it never finishes.
func (a *Animator) Advance(t float64) (float64, bool) {
	if t >= 1 {
		if a.Mode == Loop {
			return 0, false
		}
		return 1, true
	}
	next := math.Min(1, math.Max(0, t)+a.Step)
	return next, false
}

// Frames returns n successive parameters starting at start, stopping early for Once
func (a *Animator) Frames(start float64, n int) []float64 {
	frames := make([]float64, 0, n)
	t := start
	for i := 0; i < n; i++ {
		frames = append(frames, t)
		next, done := a.Advance(t)
		if done {
			break
		}
		t = next
	}
	return frames
}

// Run calls frame once per tick with the current parameter until ctx is cancelled,
// frame returns an error, or a Once animation completes. It returns the last parameter.
func (a *Animator) Run(ctx context.Context, interval time.Duration, start float64, frame func(t float64) error) (float64, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	t := start
	for {
		if err := ctx.Err(); err != nil {
			return t, err
		}
		select {
		case <-ctx.Done():
			return t, ctx.Err()
		case <-ticker.C:
			if err := frame(t); err != nil {
				return t, err
			}
			next, done := a.Advance(t)
			if done {
				return t, nil
			}
			t = next
		}
	}
}
