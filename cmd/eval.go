package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nourai/nourai/internal/app"
	"github.com/nourai/nourai/internal/config"
	"github.com/nourai/nourai/internal/eval"
)

// runEval executes the offline evaluation harness against the live
// pipeline and prints a report.
func runEval(args []string) error {
	fs := flag.NewFlagSet("eval", flag.ContinueOnError)
	casesPath := fs.String("cases", "eval_cases.json", "path to the JSON evaluation cases file")
	jsonOut := fs.Bool("json", false, "emit the full report as JSON instead of text")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parsing eval flags: %w", err)
	}

	logger := initLogger()

	cases, err := eval.LoadCases(*casesPath)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	runner, err := eval.NewRunner(a.Engine, logger)
	if err != nil {
		return fmt.Errorf("creating eval runner: %w", err)
	}

	report, err := runner.Run(ctx, cases)
	if err != nil {
		return fmt.Errorf("running evaluation: %w", err)
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		return nil
	}

	return report.WriteText(os.Stdout)
}
