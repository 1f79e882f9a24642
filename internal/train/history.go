package train

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// History records the losses of a training run.
type History struct {
	Losses  []float64
	Elapsed time.Duration
}

// Len returns the number of recorded steps.
func (h *History) Len() int { return len(h.Losses) }

// Last returns the loss of the final step, NaN if there was none.
func (h *History) Last() float64 {
	if len(h.Losses) == 0 {
		return math.NaN()
	}
	return h.Losses[len(h.Losses)-1]
}

// Mean returns the mean loss of the last n steps (all steps if n <= 0).
func (h *History) Mean(n int) float64 {
	if len(h.Losses) == 0 {
		return math.NaN()
	}
	if n <= 0 || n > len(h.Losses) {
		n = len(h.Losses)
	}
	tail := h.Losses[len(h.Losses)-n:]
	return floats.Sum(tail) / float64(n)
}

// Report summarizes the run in one line.
func (h *History) Report() string {
	rate := 0.0
	if h.Elapsed > 0 {
		rate = float64(len(h.Losses)) / h.Elapsed.Seconds()
	}
	return fmt.Sprintf("%s steps in %s (%s), last loss %.6g, mean loss %.6g",
		humanize.Comma(int64(len(h.Losses))), h.Elapsed.Round(time.Millisecond),
		humanize.SIWithDigits(rate, 1, "steps/s"), h.Last(), h.Mean(0))
}

// Plot saves a line chart of the losses to path; the image format follows
// the extension (.png, .svg, .pdf).
func (h *History) Plot(path, title string) error {
	if len(h.Losses) == 0 {
		return errors.New("no losses to plot")
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "step"
	p.Y.Label.Text = "loss"

	points := make(plotter.XYs, len(h.Losses))
	for i, loss := range h.Losses {
		points[i].X = float64(i + 1)
		points[i].Y = loss
	}
	line, err := plotter.NewLine(points)
	if err != nil {
		return errors.Wrap(err, "failed to build loss line")
	}
	p.Add(line, plotter.NewGrid())
	return errors.Wrapf(p.Save(8*vg.Inch, 4*vg.Inch, path), "failed to save plot to %q", path)
}
