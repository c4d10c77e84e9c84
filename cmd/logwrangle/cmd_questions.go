package main

import (
	"github.com/spf13/cobra"

	"github.com/vegasq/logwrangle/output"
	"github.com/vegasq/logwrangle/query"
)

func newQuestionsCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "questions",
		Short: "List the question catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter, err := output.New(global.format, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if tf, ok := formatter.(*output.TableFormatter); ok {
				tf.SetTruncate(0)
			}

			t := &output.Table{Columns: []string{"id", "default", "title"}}
			for _, q := range query.Questions() {
				t.Rows = append(t.Rows, []interface{}{q.ID, q.Default, q.Title})
			}
			return formatter.Format(t)
		},
	}
}
