package reader

import (
	"errors"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatAuto, false},
		{"auto", FormatAuto, false},
		{"JSON", FormatJSON, false},
		{"ndjson", FormatJSON, false},
		{"parquet", FormatParquet, false},
		{"avro", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("error should wrap ErrUnsupportedFormat, got %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"data/sparkify_log_small.json", FormatJSON, false},
		{"events.JSONL", FormatJSON, false},
		{"events.ndjson", FormatJSON, false},
		{"events.parquet", FormatParquet, false},
		{"events.csv", "", true},
		{"events", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := DetectFormat(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DetectFormat(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("DetectFormat(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestResolve_ExplicitWins(t *testing.T) {
	got, err := Resolve("events.log", FormatJSON)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != FormatJSON {
		t.Errorf("Resolve() = %q, want %q", got, FormatJSON)
	}
}
