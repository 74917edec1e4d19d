package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"linkpreview/internal/pkg/logger"
	"linkpreview/internal/pkg/urlvalidator"
	"linkpreview/internal/service/preview"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	var (
		rawURL       = flag.String("url", "", "Page URL to preview (http:// or https://)")
		timeout      = flag.Duration("timeout", preview.DefaultTimeout, "Fetch timeout")
		maxRedirects = flag.Int("max-redirects", preview.DefaultMaxRedirects, "Maximum redirects to follow")
		allowPrivate = flag.Bool("allow-private", false, "Allow fetching private and loopback addresses")
		logLevel     = flag.String("log-level", "warn", "Log level")
	)
	flag.Parse()

	if *rawURL == "" && flag.NArg() > 0 {
		*rawURL = flag.Arg(0)
	}

	log := logger.NewWithFormat(*logLevel, "text", os.Stderr)

	if reason := urlvalidator.Check(*rawURL); reason != "" {
		fmt.Fprintf(os.Stderr, "%s (%s)\n", urlvalidator.InvalidURLMessage, reason)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := preview.DefaultFetcherOptions()
	opts.Timeout = *timeout
	opts.MaxRedirects = *maxRedirects
	opts.BlockPrivateNetworks = !*allowPrivate

	svc := preview.NewService(preview.NewHTTPFetcher(opts, log), log)

	start := time.Now()
	metadata, err := svc.Preview(ctx, *rawURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to fetch link preview: %v\n", err)
		os.Exit(1)
	}
	log.Debug("Preview complete", "duration", time.Since(start))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(metadata); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode metadata: %v\n", err)
		os.Exit(1)
	}
}
