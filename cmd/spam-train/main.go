package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gookit/color"

	"github.com/cognicore/spamfilter/internal/logging"
	"github.com/cognicore/spamfilter/pkg/spamfilter/bridge"
	"github.com/cognicore/spamfilter/pkg/spamfilter/config"
	"github.com/cognicore/spamfilter/pkg/spamfilter/dataset"
	"github.com/cognicore/spamfilter/pkg/spamfilter/pipeline"
	"github.com/cognicore/spamfilter/pkg/spamfilter/store/backend"
	"github.com/cognicore/spamfilter/pkg/spamfilter/training"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "spam-train: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("spam-train", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath  = fs.String("config", "", "Config YAML (optional)")
		datasetPath = fs.String("dataset", "", "Labeled corpus, CSV or JSONL (overrides training.dataset)")
		modelPath   = fs.String("model", "", "Model location (overrides model.path)")
		backendName = fs.String("backend", "", "Model store: file, sqlite, badger or memory")
		interactive = fs.Bool("interactive", false, "Classify messages from stdin after training")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *datasetPath != "" {
		cfg.Training.Dataset = *datasetPath
	}
	if *modelPath != "" {
		cfg.Model.Path = *modelPath
	}
	if *backendName != "" {
		cfg.Model.Backend = *backendName
	}
	if *interactive {
		cfg.Training.Interactive = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logging.New(cfg.Logging.Level, cfg.Logging.Format, stderr)

	stops, err := config.StoplistManager(cfg.Training.Stoplist)
	if err != nil {
		return err
	}

	st, err := backend.Open(ctx, cfg.Model.Backend, cfg.Model.Path)
	if err != nil {
		return fmt.Errorf("open model store: %w", err)
	}
	defer st.Close()

	wf := &training.Workflow{
		Source: dataset.FileSource{
			Path:      cfg.Training.Dataset,
			Encoding:  cfg.Training.Encoding,
			StripHTML: cfg.Training.StripHTML,
		},
		Sink:     st,
		Options:  pipeline.Options{Stoplist: stops, Alpha: cfg.Training.Alpha},
		TestSize: cfg.Training.TestSize,
		Seed:     cfg.Training.Seed,
		Out:      stdout,
		Log:      log.WithField("component", "training"),
	}
	res, err := wf.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "\nModel saved as: %s (%s)\n", cfg.Model.Path, res.Artifact.ID)

	if !cfg.Training.Interactive {
		return nil
	}
	err = training.Interactive(ctx, stdin, stdout, res.Pipeline, renderPrediction)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func renderPrediction(p pipeline.Prediction) string {
	style := color.Green
	if p.Label == bridge.SpamLabel {
		style = color.Red
	}
	return fmt.Sprintf("Prediction -> %s (%.4f)", style.Sprint(p.Label), p.Confidence)
}
