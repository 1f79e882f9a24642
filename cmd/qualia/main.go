// Package main provides the qualia CLI: it fits a small regression network
// with any of the built-in optimizers.
package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/janpfeifer/must"
	"k8s.io/klog/v2"

	"github.com/born-ml/qualia/autodiff"
	"github.com/born-ml/qualia/internal/serialization"
	"github.com/born-ml/qualia/nn"
	"github.com/born-ml/qualia/optim"
	"github.com/born-ml/qualia/tensor"
	"github.com/born-ml/qualia/train"
)

const version = "v0.1.0-dev"

var (
	flagOptimizer   = flag.String("optimizer", "adam", "Optimizer to use: "+strings.Join(optim.Names(), ", "))
	flagLR          = flag.Float64("lr", 0, "Learning rate; 0 selects the optimizer's default.")
	flagWeightDecay = flag.Float64("weight_decay", 0, "Multiplicative weight decay applied before each update.")
	flagMomentum    = flag.Float64("momentum", 0, "SGD momentum.")
	flagSteps       = flag.Int("steps", 2000, "Number of training steps.")
	flagHidden      = flag.Int("hidden", 16, "Width of the hidden layer.")
	flagSamples     = flag.Int("samples", 64, "Number of training samples of sin(x) on [-pi, pi].")
	flagSeed        = flag.Uint64("seed", 42, "Random seed for initialization.")
	flagProgress    = flag.Bool("progress", true, "Display a progress bar.")
	flagCheckpoint  = flag.String("checkpoint", "", "If set, save model and optimizer state to this .qualia file after fitting.")
	flagPlot        = flag.String("plot", "", "If set, save a chart of the training loss to this file (.png, .svg or .pdf).")
	flagResume      = flag.Bool("resume", false, "Restore model and optimizer state from -checkpoint before fitting.")
)

func usage() {
	out := flag.CommandLine.Output()
	_, _ = fmt.Fprintf(out, "qualia %s: autodiff and optimizers for Go\n\n", version)
	_, _ = fmt.Fprintf(out, "Usage:\n  qualia version\n  qualia [flags] fit\n\nFlags:\n")
	flag.PrintDefaults()
}

func main() {
	klog.InitFlags(nil)
	flag.Usage = usage
	flag.Parse()

	switch flag.Arg(0) {
	case "version":
		fmt.Printf("qualia %s\n", version)
	case "fit":
		must.M(fit())
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func fit() error {
	rng := rand.New(rand.NewPCG(*flagSeed, 0))
	x, y := sineDataset(*flagSamples)

	model := nn.NewSequential(
		nn.NewLinear(1, *flagHidden, rng, nn.WithName("hidden")),
		nn.NewTanh(),
		nn.NewLinear(*flagHidden, 1, rng, nn.WithName("output")),
	)
	opt, err := optim.New(*flagOptimizer, model, optim.Options{
		Config:   optim.Config{LR: *flagLR, WeightDecay: *flagWeightDecay, Logger: klog.Background()},
		Momentum: *flagMomentum,
	})
	if err != nil {
		return err
	}
	stateful, _ := opt.(optim.Stateful)
	startStep := 0
	if *flagResume && *flagCheckpoint != "" {
		meta, err := serialization.LoadCheckpoint(*flagCheckpoint, model, stateful)
		if err != nil {
			return err
		}
		startStep = meta.Step
		klog.Infof("resumed from %s at step %d (loss %g)", *flagCheckpoint, meta.Step, meta.Loss)
	}
	klog.Infof("fitting sin(x) with %d parameters, optimizer %s (lr=%g)",
		nn.NumParameters(model), *flagOptimizer, opt.LR())

	loop := &train.Loop{
		Steps:       *flagSteps,
		Logger:      klog.Background(),
		ProgressBar: *flagProgress,
	}
	history, err := loop.Run(func(tape *autodiff.Tape, _ int) float64 {
		opt.ZeroGrad()
		loss := nn.MSELoss(model.Forward(tape.Constant(x)), tape.Constant(y))
		loss.Backward()
		opt.Step()
		return loss.Item()
	})
	if err != nil {
		return err
	}
	fmt.Println(history.Report())
	if *flagPlot != "" {
		if err := history.Plot(*flagPlot, "fit sin(x) with "+*flagOptimizer); err != nil {
			return err
		}
	}
	if *flagCheckpoint == "" {
		return nil
	}
	return serialization.SaveCheckpoint(*flagCheckpoint, model, stateful, serialization.CheckpointMeta{
		Step:      startStep + history.Len(),
		Loss:      history.Last(),
		Optimizer: strings.ToLower(*flagOptimizer),
	})
}

// sineDataset samples n evenly spaced points of sin on [-pi, pi] as (n, 1)
// columns.
func sineDataset(n int) (x, y *tensor.Array) {
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := range xs {
		xs[i] = -math.Pi + 2*math.Pi*float64(i)/float64(max(n-1, 1))
		ys[i] = math.Sin(xs[i])
	}
	return tensor.MustFromSlice(xs, n, 1), tensor.MustFromSlice(ys, n, 1)
}
