package cmd

import (
	"context"
	"flag"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/nourai/nourai/internal/app"
	"github.com/nourai/nourai/internal/config"
	"github.com/nourai/nourai/internal/rag"
)

// runAsk answers a single question and prints the answer with its sources.
func runAsk(args []string) error {
	fs := flag.NewFlagSet("ask", flag.ContinueOnError)
	topK := fs.Int("top-k", 0, "number of chunks to retrieve (0 = configured default)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parsing ask flags: %w", err)
	}

	question := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if question == "" {
		return fmt.Errorf("usage: nourai ask [--top-k N] <question>")
	}

	logger := initLogger()

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

	resp, err := a.Engine.Answer(ctx, question, *topK, nil)
	if err != nil {
		return fmt.Errorf("answering question: %w", err)
	}

	printAnswer(resp)
	return nil
}

func printAnswer(resp *rag.Response) {
	fmt.Println("RESPUESTA:")
	fmt.Println(resp.Answer)

	if len(resp.Sources) == 0 {
		return
	}

	fmt.Println()
	fmt.Println("FUENTES:")
	for i, src := range resp.Sources {
		fmt.Printf("  %d. %s (%s, %s) - similitud %s\n",
			i+1, src.Title, src.Organization, formatYear(src.Year), src.Similarity)
	}
}

func formatYear(year *int) string {
	if year == nil {
		return "s/f"
	}
	return fmt.Sprintf("%d", *year)
}
