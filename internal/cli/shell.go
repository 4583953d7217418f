package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"rateconv/internal/conversion"
	"rateconv/internal/currency"
	"rateconv/internal/display"
	"rateconv/internal/logger"
	"rateconv/internal/session"
)

const shellHelp = `Commands:
  convert AMOUNT [FROM TO]  convert using the current pair, or set it first
  from CODE | to CODE       change one side of the pair
  swap                      swap source and target
  rates                     fetch and print the full rate table
  history                   list previous conversions, newest first
  help                      show this help
  quit                      leave the shell
`

func newShellCommand(a *app) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive converter keeping a conversion history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if metricsAddr != "" {
				stop := serveMetrics(a, metricsAddr)
				defer stop()
			}

			sh := &shell{app: a, out: cmd.OutOrStdout()}
			return sh.run(cmd.Context(), cmd.InOrStdin())
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")

	return cmd
}

// serveMetrics starts the metrics endpoint and returns a function that stops it.
func serveMetrics(a *app, addr string) func() {
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.metrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Errorw("metrics server stopped", "addr", addr, "error", err)
		}
	}()
	logger.Log.Infow("serving metrics", "addr", addr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

// shell reads commands line by line and renders after every transition.
type shell struct {
	app   *app
	out   io.Writer
	state session.State
}

func (s *shell) run(ctx context.Context, in io.Reader) error {
	from, to := "USD", "INR"
	if codes := s.app.cfg.Currencies; len(codes) >= 2 {
		from, to = codes[0], codes[1]
	}
	s.state = session.New(from, to)

	fmt.Fprintf(s.out, "Converting %s → %s. Type \"help\" for commands.\n", from, to)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			break
		}
		if ctx.Err() != nil {
			return nil
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}
		s.dispatch(ctx, fields[0], fields[1:])
	}

	fmt.Fprintln(s.out)
	return scanner.Err()
}

func (s *shell) dispatch(ctx context.Context, name string, args []string) {
	switch name {
	case "convert":
		s.convert(ctx, args)
	case "from", "to":
		if len(args) != 1 {
			fmt.Fprintf(s.out, "usage: %s CODE\n", name)
			return
		}
		code, err := currency.Normalize(args[0])
		if err != nil {
			fmt.Fprintf(s.out, "Invalid currency: %q\n", args[0])
			return
		}
		if name == "from" {
			s.state = s.state.WithFrom(code)
		} else {
			s.state = s.state.WithTo(code)
		}
		s.renderPair()
	case "swap":
		s.state = s.state.Swap()
		s.renderPair()
	case "rates":
		codes := s.app.cfg.Currencies
		result := s.app.aggregator.FetchAll(ctx, codes)
		if err := display.WriteTable(s.out, result, codes); err != nil {
			logger.Log.Errorw("failed to write rate table", "error", err)
		}
	case "history":
		if err := display.WriteHistory(s.out, s.state.History()); err != nil {
			logger.Log.Errorw("failed to write history", "error", err)
		}
	case "help":
		fmt.Fprint(s.out, shellHelp)
	default:
		fmt.Fprintf(s.out, "Unknown command %q. Type \"help\" for commands.\n", name)
	}
}

func (s *shell) convert(ctx context.Context, args []string) {
	switch len(args) {
	case 1:
		s.state = s.state.WithAmount(args[0])
	case 3:
		s.state = s.state.WithAmount(args[0]).WithFrom(strings.ToUpper(args[1])).WithTo(strings.ToUpper(args[2]))
	default:
		fmt.Fprintln(s.out, "usage: convert AMOUNT [FROM TO]")
		return
	}

	conv, err := s.app.converter.Convert(ctx, s.state.Amount(), s.state.From(), s.state.To())
	if err != nil {
		s.state = s.state.WithResult(conversion.Message(err))
	} else {
		s.state = s.state.Record(conv)
	}
	fmt.Fprintln(s.out, s.state.Result())
}

func (s *shell) renderPair() {
	fmt.Fprintf(s.out, "Converting %s → %s\n", s.state.From(), s.state.To())
}
