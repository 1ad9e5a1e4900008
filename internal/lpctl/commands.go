package lpctl

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"lpscout/internal/models"
	"lpscout/internal/strategy"
)

type Context struct {
	Client *Client
	Output Format
	Out    io.Writer
	Err    io.Writer
}

func Usage(w io.Writer) {
	fmt.Fprint(w, `lpctl <command> [flags]

Global Flags:
  --api       pool server base URL (env: LPSCOUT_API, default http://localhost:3001)
  --output    text|json (default text)

Commands:
  pools               table of cached pools
    --watch DURATION  re-render every DURATION (e.g. 20m)
  strategy <address>  LP strategy for one cached pool
`)
}

func Dispatch(ctx context.Context, c Context, args []string) error {
	if len(args) == 0 {
		Usage(c.Err)
		return errors.New("missing command")
	}
	switch args[0] {
	case "pools":
		return poolsCmd(ctx, c, args[1:])
	case "strategy":
		return strategyCmd(ctx, c, args[1:])
	case "help", "-h", "--help":
		Usage(c.Out)
		return nil
	default:
		Usage(c.Err)
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func poolsCmd(ctx context.Context, c Context, args []string) error {
	fs := flag.NewFlagSet("pools", flag.ContinueOnError)
	fs.SetOutput(c.Err)
	watch := fs.Duration("watch", 0, "re-render interval (0 renders once)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	render := func() error {
		pools, err := c.Client.FetchPools(ctx)
		if err != nil {
			return fmt.Errorf("load pools: %w", err)
		}
		if c.Output == FormatJSON {
			return WriteJSON(c.Out, pools)
		}
		return RenderPools(c.Out, pools)
	}

	if err := render(); err != nil {
		return err
	}
	if *watch <= 0 {
		return nil
	}
	ticker := time.NewTicker(*watch)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			fmt.Fprintln(c.Out)
			if err := render(); err != nil {
				fmt.Fprintln(c.Err, err.Error())
			}
		}
	}
}

func strategyCmd(ctx context.Context, c Context, args []string) error {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return errors.New("usage: lpctl strategy <address>")
	}
	address := strings.TrimSpace(args[0])

	pools, err := c.Client.FetchPools(ctx)
	if err != nil {
		return fmt.Errorf("load pools: %w", err)
	}
	pool, ok := findPool(pools, address)
	if !ok {
		return fmt.Errorf("pool %s is not in the cached list", address)
	}
	rec := strategy.Derive(pool)
	if c.Output == FormatJSON {
		return WriteJSON(c.Out, rec)
	}
	return RenderRecommendation(c.Out, pool, rec)
}

func findPool(pools []models.Pool, address string) (models.Pool, bool) {
	for _, p := range pools {
		if p.Address == address {
			return p, true
		}
	}
	return models.Pool{}, false
}
