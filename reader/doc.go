// Package reader decodes event log files into rows.
//
// Event logs are stored as JSON Lines, as a JSON array of objects, or as
// Apache Parquet. Rows are returned as maps keyed by column name so that
// sparse records (logged-out users carry no name or gender) need no schema
// up front.
//
// # Basic Usage
//
//	rows, err := reader.ReadFile("sparkify_log_small.json", reader.FormatAuto)
//	if err != nil {
//	    return err
//	}
//
// # Multi-file Operations
//
// Glob patterns read every match; each row gains a "_file" column:
//
//	rows, err := reader.ReadMultipleFiles("logs/2018-*.json", reader.FormatJSON)
//
// # Relations
//
// Load pairs rows with ordered, typed columns, which is what an engine needs
// to create a table:
//
//	rel, err := reader.Load("events.parquet", reader.FormatAuto)
//	for _, c := range rel.Columns {
//	    fmt.Println(c.Name, c.Type)
//	}
//
// Parquet decoding uses github.com/parquet-go/parquet-go and JSON decoding
// uses github.com/goccy/go-json.
package reader
