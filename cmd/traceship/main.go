package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/traceship/internal/cliconfig"
	"github.com/bft-labs/traceship/internal/spanio"
	"github.com/bft-labs/traceship/pkg/log"
	"github.com/bft-labs/traceship/pkg/state"
	"github.com/bft-labs/traceship/pkg/traceship"
)

const longHelp = `
Ship traces to a collector in size-bounded batches.

traceship reads span records (one JSON object per line) from a file or
stdin, groups them into traces, serializes them as msgpack or JSON, and
POSTs them to the collector in payloads no larger than the configured
ceiling. Use --follow to keep tailing a span file as it grows.

Configure via file ($HOME/.traceship/config.toml), TRACESHIP_* env vars,
or flags; flags win.
`

var exampleUsage = strings.TrimSpace(`
  traceship --collector-url http://localhost:8126 --input spans.ndjson
  cat spans.ndjson | traceship --collector-url http://localhost:8126 --format json
  traceship --collector-url http://localhost:8126 --input spans.ndjson --follow
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	root := &cobra.Command{
		Use:     "traceship",
		Short:   "Ship traces to a collector in size-bounded batches",
		Long:    strings.TrimSpace(longHelp),
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Build set of changed flags
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			// Load config file first (default $HOME/.traceship/config.toml),
			// then env, then flag overrides via the changed map.
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}
			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := log.NewZerologAdapter(cfg.LogLevel)

			shipper, err := traceship.New(traceship.Config{
				CollectorURL:    cfg.CollectorURL,
				Format:          cfg.Format,
				MaxPayloadBytes: cfg.MaxPayloadBytes,
				HTTPTimeout:     cfg.HTTPTimeout,
				AuthKey:         cfg.AuthKey,
				MaxAttempts:     cfg.MaxAttempts,
			}, traceship.WithLogger(logger))
			if err != nil {
				return fmt.Errorf("create shipper: %w", err)
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			if cfg.Follow {
				return followAndShip(ctx, cfg, shipper, logger)
			}
			return shipOnce(ctx, cfg, shipper, logger)
		},
	}

	f := root.Flags()
	f.StringVar(&cfgPath, "config", "", "path to TOML config file (default $HOME/.traceship/config.toml)")
	f.StringVar(&cfg.CollectorURL, "collector-url", cfg.CollectorURL, "base URL of the trace collector")
	f.StringVar(&cfg.AuthKey, "auth-key", cfg.AuthKey, "collector API key")
	f.StringVar(&cfg.Format, "format", cfg.Format, "wire format: json or msgpack")
	f.IntVar(&cfg.MaxPayloadBytes, "max-payload-bytes", cfg.MaxPayloadBytes, "maximum serialized size of one batch")
	f.IntVar(&cfg.MaxAttempts, "max-attempts", cfg.MaxAttempts, "send attempts per batch")
	f.DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "HTTP request timeout")
	f.StringVar(&cfg.Input, "input", cfg.Input, "span file to read, or - for stdin")
	f.BoolVar(&cfg.Follow, "follow", cfg.Follow, "keep tailing the span file for new records")
	f.StringVar(&cfg.StateDir, "state-dir", cfg.StateDir, "directory for the follow position file (disabled when empty)")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// shipOnce reads all span records from the input and ships them in one pass.
func shipOnce(ctx context.Context, cfg cliconfig.Config, shipper *traceship.Shipper, logger log.Logger) error {
	in := os.Stdin
	if cfg.Input != "-" {
		file, err := os.Open(cfg.Input)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer file.Close()
		in = file
	}

	traces, err := spanio.ReadTraces(in, logger)
	if err != nil {
		return err
	}

	report, err := shipper.ShipTraces(ctx, traces)
	if err != nil {
		return fmt.Errorf("ship traces: %w", err)
	}
	logger.Info("done",
		log.Int("batches", report.Batches),
		log.Int("traces", report.Traces),
		log.Int("bytes", report.Bytes))
	return nil
}

// followAndShip tails the span file, shipping each group of newly
// appended traces until interrupted.
func followAndShip(ctx context.Context, cfg cliconfig.Config, shipper *traceship.Shipper, logger log.Logger) error {
	follower := spanio.NewFollower(cfg.Input, 0, logger)
	if cfg.StateDir != "" {
		follower.UseState(state.NewFileRepository(cfg.StateDir))
	}

	logger.Info("following span file", log.String("path", cfg.Input))
	err := follower.Run(ctx, func(traces []traceship.Trace) error {
		report, shipErr := shipper.ShipTraces(ctx, traces)
		if shipErr != nil {
			return fmt.Errorf("ship traces: %w", shipErr)
		}
		logger.Info("shipped",
			log.Int("batches", report.Batches),
			log.Int("traces", report.Traces),
			log.Int("bytes", report.Bytes))
		return nil
	})
	if err != nil && ctx.Err() != nil {
		logger.Info("received signal, stopping")
		return nil
	}
	return err
}
