package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vegasq/logwrangle/output"
	"github.com/vegasq/logwrangle/reader"
	"github.com/vegasq/logwrangle/session"
)

func newSchemaCmd(global *globalOptions) *cobra.Command {
	var physical bool
	cmd := &cobra.Command{
		Use:   "schema [file]",
		Short: "Print the schema of the loaded view",
		Long: `Prints the column names and types the engine inferred for the event log as
a tree. With --physical, prints the Parquet file schema instead (Parquet
input only).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, global, args)
			if err != nil {
				return err
			}

			if physical {
				formatter, err := output.New(cfg.Output.Format, cmd.OutOrStdout())
				if err != nil {
					return err
				}
				return printPhysicalSchema(cmd, cfg.Input.Path, formatter)
			}

			return withSession(cmd, cfg, func(ctx context.Context, s *session.Session) error {
				df, err := s.SQL(ctx, "SELECT * FROM "+cfg.Input.View)
				if err != nil {
					return err
				}
				schema, err := df.Schema(ctx)
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), schema.TreeString())
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&physical, "physical", false, "print the Parquet file schema")
	return cmd
}

// printPhysicalSchema writes one row per Parquet leaf column. For glob
// patterns the first match is described.
func printPhysicalSchema(cmd *cobra.Command, pattern string, formatter output.Formatter) error {
	path := pattern
	if reader.IsGlob(pattern) {
		matches, err := reader.Glob(pattern)
		if err != nil {
			return err
		}
		path = matches[0]
		if len(matches) > 1 {
			fmt.Fprintf(cmd.ErrOrStderr(), "# Showing schema from: %s (%d files matched)\n", path, len(matches))
		}
	}

	format, err := reader.DetectFormat(path)
	if err != nil {
		return err
	}
	if format != reader.FormatParquet {
		return fmt.Errorf("--physical needs a parquet file, got %s", path)
	}

	infos, err := reader.ExtractSchemaInfo(path)
	if err != nil {
		return err
	}

	t := &output.Table{Columns: []string{"name", "type", "physical_type", "logical_type", "required", "optional", "repeated"}}
	for _, field := range infos {
		t.Rows = append(t.Rows, []interface{}{
			field.Name,
			field.Type,
			field.PhysicalType,
			field.LogicalType,
			field.Required,
			field.Optional,
			field.Repeated,
		})
	}
	return formatter.Format(t)
}
