package puzzle

import (
	"context"
	"time"

	"go.uber.org/zap"

	"escaperoom/pkg/models"
)

const DefaultStepDelay = time.Second

const Congratulations = "Congratulations! You've mastered the essentials of Vanilla JavaScript. " +
	"Welcome to the world of React, where you'll build powerful and dynamic web applications. Let's dive in!"

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseStepping
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseStepping:
		return "stepping"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// StepEvent reports one completed step. Phase is the walker state after the
// step: stepping while steps remain, done after the last one.
type StepEvent struct {
	Index int
	Total int
	Step  string
	Phase Phase
}

func NavigationLine(step string) string {
	return "Navigating: " + step
}

// Walker moves through directions one step per Delay.
type Walker struct {
	Delay  time.Duration // zero means DefaultStepDelay
	Logger *zap.Logger
	OnStep func(StepEvent)
}

// Walk waits Delay, logs and reports the step, then moves on; steps never
// overlap. An empty list finishes at once with no events. Walk only stops
// early when ctx is done.
func (w *Walker) Walk(ctx context.Context, directions []models.Direction) (string, error) {
	delay := w.Delay
	if delay <= 0 {
		delay = DefaultStepDelay
	}
	logger := w.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	total := len(directions)
	for i, d := range directions {
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}

		logger.Info(NavigationLine(d.Step), zap.Int("index", i), zap.Int("total", total))

		if w.OnStep != nil {
			phase := PhaseStepping
			if i+1 == total {
				phase = PhaseDone
			}
			w.OnStep(StepEvent{Index: i, Total: total, Step: d.Step, Phase: phase})
		}
	}
	return Congratulations, nil
}
