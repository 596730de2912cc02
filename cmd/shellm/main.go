package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/okzu/shellm/internal/infrastructure/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root, err := cli.NewRootCmd(ctx, scanOptions(os.Args[1:]))
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	if err := root.ExecuteContext(ctx); err != nil {
		exit(err)
	}
}

func exit(err error) {
	var exitErr *cli.ExitError
	switch {
	case errors.As(err, &exitErr):
		if exitErr.Err != nil {
			fmt.Fprintln(os.Stderr, "error:", exitErr.Err)
		}
		os.Exit(exitErr.Code)
	case errors.Is(err, context.Canceled):
		os.Exit(130)
	default:
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// scanOptions pulls --config and --verbose out of the raw args. Both shape
// the container, which is built before cobra parses anything.
func scanOptions(args []string) cli.Options {
	opts := cli.Options{Verbose: isVerbose()}
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; {
		case arg == "-v" || arg == "--verbose":
			opts.Verbose = true
		case arg == "--config" && i+1 < len(args):
			opts.ConfigPath = args[i+1]
			i++
		case strings.HasPrefix(arg, "--config="):
			opts.ConfigPath = strings.TrimPrefix(arg, "--config=")
		}
	}
	return opts
}

func isVerbose() bool {
	return strings.EqualFold(os.Getenv("SHELLM_DEBUG"), "1") || strings.EqualFold(os.Getenv("SHELLM_DEBUG"), "true")
}
