package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/vegasq/logwrangle/query"
	"github.com/vegasq/logwrangle/session"
)

func newQueryCmd(global *globalOptions) *cobra.Command {
	var (
		sqlText    string
		rows       int
		noTruncate bool
	)
	cmd := &cobra.Command{
		Use:   "query [file]",
		Short: "Run an ad-hoc SQL query against the loaded view",
		Long: `Loads the event log as the configured view (user_log_table by default) and
runs one SQL query. The helper functions get_hour(ts) and home_flag(page) are
available.

Example:
  logwrangle query -s "SELECT level, COUNT(*) AS n FROM user_log_table GROUP BY level" data.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if sqlText == "" {
				return errors.New("missing query: use --sql")
			}
			cfg, err := loadConfig(cmd, global, args)
			if err != nil {
				return err
			}
			if rows <= 0 {
				rows = cfg.Analysis.ShowRows
			}
			loc, err := cfg.Location()
			if err != nil {
				return err
			}

			return withSession(cmd, cfg, func(ctx context.Context, s *session.Session) error {
				helpers := query.Helpers(loc)
				for _, name := range helpers.Names() {
					f, _ := helpers.Get(name)
					if err := s.RegisterFunction(ctx, query.Definition(f)); err != nil {
						return err
					}
				}

				df, err := s.SQL(ctx, sqlText)
				if err != nil {
					return err
				}
				return df.Show(ctx, rows, cfg.Analysis.Truncate && !noTruncate)
			})
		},
	}

	f := cmd.Flags()
	f.StringVarP(&sqlText, "sql", "s", "", "SQL query to run")
	f.IntVar(&rows, "rows", 0, "maximum rows shown")
	f.BoolVar(&noTruncate, "no-truncate", false, "do not truncate long table cells")
	return cmd
}
