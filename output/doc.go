// Package output renders query results.
//
// Results arrive as a Table with ordered columns. Three formatters are
// provided:
//
//   - TableFormatter: a bordered grid with truncated cells, like DataFrame.show()
//   - JSONFormatter: JSON Lines, one object per row
//   - CSVFormatter: a header row in column order, then one record per row
//
// # Basic Usage
//
//	f, err := output.New("table", os.Stdout)
//	if err != nil {
//	    return err
//	}
//	if err := f.Format(&output.Table{
//	    Columns: []string{"artist", "play_count"},
//	    Rows:    [][]interface{}{{"Coldplay", int64(4)}},
//	}); err != nil {
//	    return err
//	}
//
// # Type Handling
//
// NULL prints as "null" in tables, as JSON null and as an empty CSV field.
// CSV values starting with a formula character are quoted with a leading
// apostrophe.
package output
