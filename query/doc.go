// Package query answers the event log questions.
//
// Each Question is a short list of SQL steps over the event view, written in
// the SQL both engines accept. A step either shows its result or
// materializes it as a temp view for later steps. The Runner registers the
// helper functions a question needs (get_hour, home_flag) on first use:
//
//	r := query.NewRunner(s, query.Options{Titles: os.Stdout})
//	if err := r.Run(ctx); err != nil {
//		return err
//	}
//
// Questions that are not run by default can be named explicitly:
//
//	err := r.Run(ctx, "row-count", "user-activity")
package query
