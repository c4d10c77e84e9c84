// Package session runs SQL over event logs through an embedded engine.
//
// A Session pins a single connection to DuckDB (the default) or SQLite, so
// temp tables, temp views and scalar functions registered on it stay visible
// to every later query:
//
//	s, err := session.NewBuilder().AppName("Wrangling Data").Build(ctx)
//	if err != nil {
//		return err
//	}
//	defer s.Stop()
//
//	df, err := s.Read().JSON(ctx, "./data/sparkify_log_small.json")
//	...
//	err = df.CreateOrReplaceTempView(ctx, "user_log_table")
//	...
//	pages, err := s.SQL(ctx, "SELECT DISTINCT page FROM user_log_table")
//	...
//	err = pages.Show(ctx, 20, true)
//
// DataFrames are lazy: the query runs when Show, Collect, Count or Schema is
// called. Query planning and execution belong to the engine.
package session
