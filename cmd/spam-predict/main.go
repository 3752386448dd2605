// Command spam-predict classifies one message and prints "label|confidence".
//
//	spam-predict "WINNER!! claim your prize"
//
// The model location comes from SPAMFILTER_CONFIG (a YAML file) and the
// usual SPAMFILTER_* overrides. Every argument is message text, so there
// are no flags.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cognicore/spamfilter/internal/logging"
	"github.com/cognicore/spamfilter/pkg/spamfilter/config"
	"github.com/cognicore/spamfilter/pkg/spamfilter/inference"
	"github.com/cognicore/spamfilter/pkg/spamfilter/store/backend"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load(os.Getenv("SPAMFILTER_CONFIG"))
	if err != nil {
		fmt.Fprintf(stderr, "spam-predict: %v\n", err)
		fmt.Fprintln(stdout, inference.ErrorLine)
		return 1
	}
	log := logging.New(cfg.Logging.Level, cfg.Logging.Format, stderr)

	st, err := backend.OpenReadOnly(ctx, cfg.Model.Backend, cfg.Model.Path)
	if err != nil {
		log.WithError(err).Error("Open model store failed")
		fmt.Fprintln(stdout, inference.ErrorLine)
		return 1
	}
	defer st.Close()

	return inference.Run(ctx, args, st, stdout, log.WithField("component", "inference"))
}
