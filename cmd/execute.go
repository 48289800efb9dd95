// Package cmd contains the CLI entry points: command routing, flag
// parsing, and the wiring between configuration and the application.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/nourai/nourai/internal/log"
)

// Version information (injected at build time via ldflags).
var (
	AppVersion = "0.1.0"
	BuildTime  = "unknown"
	GitCommit  = "unknown"
)

// Execute is the main entry point for the nourai CLI.
// It handles flag parsing and command routing; all application logic
// lives here so main.go stays a minimal entry point.
func Execute() error {
	if len(os.Args) < 2 {
		printHelp()
		return nil
	}

	switch os.Args[1] {
	case "version", "--version", "-v":
		return printVersionInfo()
	case "help", "--help", "-h":
		printHelp()
		return nil
	case "serve":
		return runServe(os.Args[2:])
	case "ask":
		return runAsk(os.Args[2:])
	case "ingest":
		return runIngest(os.Args[2:])
	case "chats":
		return runChats(os.Args[2:])
	case "eval":
		return runEval(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printHelp()
		return fmt.Errorf("unknown command %q", os.Args[1])
	}
}

// initLogger initializes the structured logger.
//
// Log level is controlled by the DEBUG environment variable:
//   - DEBUG set (any value): debug level logging
//   - DEBUG not set: info level logging
//
// Logs go to stderr so stdout stays clean for command output.
func initLogger() log.Logger {
	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}

	logger := log.NewWithWriter(os.Stderr, log.Config{Level: level})
	slog.SetDefault(logger)
	return logger
}

// printVersionInfo displays version information.
func printVersionInfo() error {
	fmt.Printf("Nourai v%s\n", AppVersion)
	fmt.Printf("Build: %s\n", BuildTime)
	fmt.Printf("Commit: %s\n", GitCommit)
	return nil
}

// printHelp displays the help message for the nourai CLI.
func printHelp() {
	fmt.Println("Nourai - Nutrition question answering over scientific documents")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  nourai <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  serve     Start the HTTP API server")
	fmt.Println("  ask       Ask a single question from the command line")
	fmt.Println("  ingest    Index PDF documents into the vector store")
	fmt.Println("  chats     List or delete stored conversations")
	fmt.Println("  eval      Run the offline evaluation harness")
	fmt.Println("  version   Show version information")
	fmt.Println("  help      Show this help message")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  NOURAI_PROVIDER      AI provider: ollama (default) or gemini")
	fmt.Println("  GEMINI_API_KEY       Required when the provider is gemini")
	fmt.Println("  DATABASE_URL         PostgreSQL connection URL")
	fmt.Println("  DEBUG                Enable debug logging")
}
