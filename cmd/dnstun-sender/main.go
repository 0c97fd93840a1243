// Command dnstun-sender reads a local file (or standard input) and streams
// it to a dnstun-receiver over DNS-over-TCP, one chunk per query packet.
//
// Usage:
//
//	dnstun-sender [-u UPSTREAM_DNS_IP] [-s MILLISECONDS] BASE_HOST DST_FILEPATH [SRC_FILEPATH]
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dnstun/dnstun/internal/logging"
	"github.com/dnstun/dnstun/internal/tunnel"
)

const usageSynopsis = "usage: dnstun-sender [-u UPSTREAM_DNS_IP] [-s MILLISECONDS] BASE_HOST DST_FILEPATH [SRC_FILEPATH]"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var (
		upstream   = flag.String("u", "", "upstream DNS server IPv4 literal; overrides resolver discovery")
		sleepMs    = flag.Int("s", 1000, "pre-close sleep in milliseconds, non-negative")
		jsonLogs   = flag.Bool("json-logs", false, "emit structured JSON logs instead of text")
		debug      = flag.Bool("debug", false, "enable debug-level logging")
	)
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, usageSynopsis)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *sleepMs < 0 {
		flag.Usage()
		return fmt.Errorf("dnstun-sender: -s must be a non-negative integer, got %d", *sleepMs)
	}

	args := flag.Args()
	if len(args) < 2 || len(args) > 3 {
		flag.Usage()
		return fmt.Errorf("dnstun-sender: expected BASE_HOST and DST_FILEPATH, got %d positional argument(s)", len(args))
	}

	host := args[0]
	destPath := args[1]
	var srcPath string
	if len(args) == 3 {
		srcPath = args[2]
	}

	if err := tunnel.ValidateHost(host); err != nil {
		return fmt.Errorf("dnstun-sender: invalid BASE_HOST %q: %w", host, err)
	}

	level := "INFO"
	if *debug {
		level = "DEBUG"
	}
	logger := logging.Configure(logging.Config{
		Level:            level,
		Structured:       *jsonLogs,
		StructuredFormat: "json",
	})

	logger.Info("dnstun-sender starting",
		"host", host,
		"dest_path", destPath,
		"src_path", srcPathOrStdin(srcPath),
		"upstream", upstreamOrAuto(*upstream),
	)

	err := tunnel.Send(tunnel.SenderConfig{
		Host:             host,
		DestPath:         destPath,
		SourcePath:       srcPath,
		Upstream:         *upstream,
		SleepBeforeClose: time.Duration(*sleepMs) * time.Millisecond,
		Hooks:            loggingHooks{logger: logger},
		Logger:           logger,
	})
	if err != nil {
		logger.Error("transfer failed", "error", err)
		return fmt.Errorf("dnstun-sender: %w", err)
	}

	logger.Info("dnstun-sender transfer complete")
	return nil
}

func srcPathOrStdin(path string) string {
	if path == "" {
		return "<stdin>"
	}
	return path
}

func upstreamOrAuto(upstream string) string {
	if upstream == "" {
		return "<auto: /etc/resolv.conf>"
	}
	return upstream
}
