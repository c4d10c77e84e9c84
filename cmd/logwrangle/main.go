package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vegasq/logwrangle/internal/config"
	"github.com/vegasq/logwrangle/internal/logging"
	"github.com/vegasq/logwrangle/output"
	"github.com/vegasq/logwrangle/session"
)

// globalOptions holds the persistent flags shared by every sub-command.
type globalOptions struct {
	configPath  string
	engine      string
	format      string
	inputFormat string
	logLevel    string
	timezone    string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		logging.Error().Err(err).Msg("An error occurred")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:   "logwrangle",
		Short: "Answer questions about a music streaming event log with SQL",
		Long: `logwrangle loads an event log (JSON Lines, JSON array or Parquet) into an
embedded SQL engine, registers it as a temporary view and answers a catalog
of questions about it: plays per hour, pages visited by logged-out users,
female user count, top artist and songs played between home page visits.

Results go to stdout, logs to stderr.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "path to a YAML config file (default: $"+config.ConfigPathEnvVar+" or ./logwrangle.yaml)")
	pf.StringVar(&opts.engine, "engine", "", fmt.Sprintf("query engine %v", session.Engines()))
	pf.StringVarP(&opts.format, "format", "f", "", "output format: table, json, jsonl, csv")
	pf.StringVar(&opts.inputFormat, "input-format", "", "input format: auto, json, parquet")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level: trace, debug, info, warn, error, disabled")
	pf.StringVar(&opts.timezone, "timezone", "", "IANA time zone for get_hour (default: local)")

	root.AddCommand(
		newRunCmd(opts),
		newQueryCmd(opts),
		newSchemaCmd(opts),
		newQuestionsCmd(opts),
	)
	return root
}

// loadConfig layers explicitly set flags and the optional file argument on
// top of the file and environment configuration, then starts logging.
func loadConfig(cmd *cobra.Command, opts *globalOptions, args []string) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("engine") {
		cfg.Engine.Name = opts.engine
	}
	if flags.Changed("format") {
		cfg.Output.Format = opts.format
	}
	if flags.Changed("input-format") {
		cfg.Input.Format = opts.inputFormat
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = opts.logLevel
	}
	if flags.Changed("timezone") {
		cfg.Analysis.Timezone = opts.timezone
	}
	if len(args) > 0 {
		cfg.Input.Path = args[0]
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
		Output: cmd.ErrOrStderr(),
	})
	return cfg, nil
}

// withSession starts a session, loads the input as the configured view and
// calls fn. The session is stopped however fn returns.
func withSession(cmd *cobra.Command, cfg *config.Config, fn func(ctx context.Context, s *session.Session) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	formatter, err := output.New(cfg.Output.Format, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	s, err := session.NewBuilder().
		AppName(cfg.App.Name).
		Engine(cfg.Engine.Name).
		DSN(cfg.Engine.DSN).
		Threads(cfg.Engine.Threads).
		MaxMemory(cfg.Engine.MaxMemory).
		Output(formatter).
		Build(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Stop(); err != nil {
			logging.Warn().Err(err).Msg("Failed to stop session")
		}
	}()

	r, err := s.Read().Format(cfg.Input.Format)
	if err != nil {
		return err
	}
	df, err := r.Load(ctx, cfg.Input.Path)
	if err != nil {
		return err
	}
	if err := df.CreateOrReplaceTempView(ctx, cfg.Input.View); err != nil {
		return err
	}

	return fn(ctx, s)
}
