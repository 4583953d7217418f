package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"rateconv/internal/aggregator"
	"rateconv/internal/config"
	"rateconv/internal/conversion"
	"rateconv/internal/exchangerate"
	"rateconv/internal/fetcher"
	"rateconv/internal/logger"
	"rateconv/internal/metrics"
	"rateconv/internal/ratelimit"
)

// app carries the wired components shared by every command.
type app struct {
	cfg        *config.Config
	metrics    *metrics.Metrics
	aggregator *aggregator.Aggregator
	converter  *conversion.Converter
}

func (a *app) wire(cfg *config.Config) {
	client := fetcher.NewHTTPClient(fetcher.ClientOptions{
		BaseURL:    cfg.ExchangeAPIBaseURL,
		Timeout:    cfg.HTTPTimeout,
		RetryCount: cfg.RetryCount,
	})
	limiter := ratelimit.NewLimiter(map[ratelimit.API]rate.Limit{
		ratelimit.APIExchangeRate: rate.Limit(cfg.RequestsPerSecond),
	})
	rates := exchangerate.NewRatesFetcher(client, limiter)

	a.cfg = cfg
	a.metrics = metrics.New()
	a.aggregator = aggregator.New(rates,
		aggregator.WithMaxConcurrency(cfg.MaxConcurrency),
		aggregator.WithMetrics(a.metrics))
	a.converter = conversion.NewConverter(rates, a.metrics)
}

// NewRootCommand builds the rateconv command tree.
func NewRootCommand() *cobra.Command {
	var configFile, logLevel string
	a := &app{}

	root := &cobra.Command{
		Use:           "rateconv",
		Short:         "Convert currencies using live exchange rates",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			if err := logger.Initialize(cfg.LogLevel); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.wire(cfg)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	root.AddCommand(
		newConvertCommand(a),
		newRatesCommand(a),
		newShellCommand(a),
	)

	return root
}

// Execute runs the command tree with args, printing any failure to stderr
// as a user-facing message.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(stderr, conversion.Message(err))
	}
	return err
}
