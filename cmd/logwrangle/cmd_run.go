package main

import (
	"context"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/vegasq/logwrangle/internal/config"
	"github.com/vegasq/logwrangle/internal/logging"
	"github.com/vegasq/logwrangle/query"
	"github.com/vegasq/logwrangle/session"
)

type runOptions struct {
	all        bool
	questions  []string
	keepGoing  bool
	userID     string
	rows       int
	noTruncate bool
}

func newRunCmd(global *globalOptions) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Answer the catalog questions",
		Long: `Loads the event log and answers the default questions in order. Use
--question to pick questions (see "logwrangle questions") or --all for the
whole catalog.

By default the run stops at the first failing question; --keep-going runs
the rest and reports every failure at the end.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, global, args)
			if err != nil {
				return err
			}
			opts.apply(cmd, cfg)
			return withSession(cmd, cfg, func(ctx context.Context, s *session.Session) error {
				return runQuestions(ctx, cmd, cfg, s, opts.all)
			})
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.all, "all", false, "answer every question in the catalog")
	f.StringSliceVarP(&opts.questions, "question", "q", nil, "question id to answer (repeatable)")
	f.BoolVar(&opts.keepGoing, "keep-going", false, "continue after a failing question")
	f.StringVar(&opts.userID, "user-id", "", "user id for the user-activity question")
	f.IntVar(&opts.rows, "rows", 0, "maximum rows shown per result")
	f.BoolVar(&opts.noTruncate, "no-truncate", false, "do not truncate long table cells")
	return cmd
}

func (o *runOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("question") {
		cfg.Analysis.Questions = o.questions
	}
	if flags.Changed("keep-going") {
		cfg.Analysis.KeepGoing = o.keepGoing
	}
	if flags.Changed("user-id") {
		cfg.Analysis.UserID = o.userID
	}
	if flags.Changed("rows") && o.rows > 0 {
		cfg.Analysis.ShowRows = o.rows
	}
	if o.noTruncate {
		cfg.Analysis.Truncate = false
	}
}

func runQuestions(ctx context.Context, cmd *cobra.Command, cfg *config.Config, s *session.Session, all bool) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ids := cfg.Analysis.Questions
	if all {
		ids = nil
		for _, q := range query.Questions() {
			ids = append(ids, q.ID)
		}
	}
	if len(ids) == 0 {
		ids = query.Defaults()
	}

	var titles io.Writer
	if cfg.Output.Format == "table" {
		titles = cmd.OutOrStdout()
	}

	r := query.NewRunner(s, query.Options{
		Params: query.Params{
			View:   cfg.Input.View,
			UserID: cfg.Analysis.UserID,
		},
		Location:  loc,
		ShowRows:  cfg.Analysis.ShowRows,
		Truncate:  cfg.Analysis.Truncate,
		KeepGoing: cfg.Analysis.KeepGoing,
		Titles:    titles,
	})
	if err := r.Run(ctx, ids...); err != nil {
		return err
	}

	if slices.Contains(ids, "hourly-plays") {
		counts, err := r.HourlyPlays(ctx)
		if err != nil {
			return err
		}
		var peak query.HourCount
		for _, c := range counts {
			if c.Plays > peak.Plays {
				peak = c
			}
		}
		logging.Info().Int("hour", peak.Hour).Int64("plays", peak.Plays).Int("hours", len(counts)).Msg("Busiest hour")
	}
	return nil
}
