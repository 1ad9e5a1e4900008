package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"lpscout/internal/lpctl"
)

func main() {
	var (
		apiBase = flag.String("api", "", "pool server base URL (env: LPSCOUT_API)")
		outFmt  = flag.String("output", "text", "Output format: text|json")
	)
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		lpctl.Usage(os.Stderr)
		os.Exit(2)
	}

	base := strings.TrimSpace(*apiBase)
	if base == "" {
		base = strings.TrimSpace(os.Getenv("LPSCOUT_API"))
	}
	if base == "" {
		base = "http://localhost:3001"
	}

	format := lpctl.Format(strings.ToLower(strings.TrimSpace(*outFmt)))
	if format != lpctl.FormatText && format != lpctl.FormatJSON {
		fmt.Fprintf(os.Stderr, "unknown output format: %s\n", *outFmt)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := lpctl.Context{
		Client: &lpctl.Client{BaseURL: base},
		Output: format,
		Out:    os.Stdout,
		Err:    os.Stderr,
	}
	if err := lpctl.Dispatch(ctx, c, args); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
