// Package train runs training loops over autodiff graphs.
//
// A Loop owns the Tape: it hands it to the user's step function, records the
// returned loss and resets the tape afterwards, so every step builds its
// graph from scratch and nothing accumulates across steps. Panics raised by
// the engine (shape errors, released graphs, Base.Step) are converted to
// errors at this boundary.
package train

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"k8s.io/klog/v2"

	"github.com/born-ml/qualia/internal/autodiff"
)

// StepFunc builds the graph for one step on tape, runs backward and the
// optimizer step, and returns the loss to record.
type StepFunc func(tape *autodiff.Tape, step int) float64

// OnStepFn is called after every step with the recorded loss. Returning an
// error stops the loop.
type OnStepFn func(step int, loss float64) error

// Loop configures a training run.
type Loop struct {
	// Steps is the number of steps to run.
	Steps int

	// Tape is handed to every step and reset after it. Nil creates one.
	Tape *autodiff.Tape

	// Logger receives progress at V(1). The zero value discards.
	Logger klog.Logger

	// LogEvery is the number of steps between V(1) progress logs
	// (default: Steps/10).
	LogEvery int

	// ProgressBar enables a terminal progress bar written to Output.
	ProgressBar bool

	// Output receives the progress bar (default: os.Stderr).
	Output io.Writer

	onStep []OnStepFn
}

// OnStep registers a hook called after every step, in registration order.
func (l *Loop) OnStep(fn OnStepFn) *Loop {
	l.onStep = append(l.onStep, fn)
	return l
}

// Run executes the loop. It returns the history so far along with the first
// error raised by a step or a hook.
func (l *Loop) Run(step StepFunc) (*History, error) {
	if l.Steps <= 0 {
		return nil, errors.Errorf("train.Loop: invalid number of steps %d", l.Steps)
	}
	tape := l.Tape
	if tape == nil {
		tape = autodiff.NewTape(autodiff.WithLogger(l.Logger))
	}
	logEvery := l.LogEvery
	if logEvery <= 0 {
		logEvery = max(l.Steps/10, 1)
	}
	bar := l.newProgressBar()

	history := &History{Losses: make([]float64, 0, l.Steps)}
	start := time.Now()
	defer func() { history.Elapsed = time.Since(start) }()

	for i := 0; i < l.Steps; i++ {
		var loss float64
		err := exceptions.TryCatch[error](func() {
			defer tape.Reset()
			loss = step(tape, i)
		})
		if err != nil {
			return history, errors.WithMessagef(err, "train step %d", i)
		}
		history.Losses = append(history.Losses, loss)

		for _, hook := range l.onStep {
			if err := hook(i, loss); err != nil {
				return history, errors.WithMessagef(err, "OnStep hook at step %d", i)
			}
		}
		if bar != nil {
			bar.Describe(fmt.Sprintf("Training (loss %.4g)", loss))
			_ = bar.Add(1)
		}
		if (i+1)%logEvery == 0 || i+1 == l.Steps {
			l.Logger.V(1).Info("training", "step", humanize.Comma(int64(i+1)), "of", humanize.Comma(int64(l.Steps)), "loss", loss)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return history, nil
}

func (l *Loop) newProgressBar() *progressbar.ProgressBar {
	if !l.ProgressBar {
		return nil
	}
	out := l.Output
	if out == nil {
		out = os.Stderr
	}
	return progressbar.NewOptions(l.Steps,
		progressbar.OptionSetDescription("Training"),
		progressbar.OptionSetWriter(out),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("steps"),
		progressbar.OptionSetTheme(progressbar.ThemeUnicode),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionOnCompletion(func() { _, _ = fmt.Fprintln(out) }),
	)
}
