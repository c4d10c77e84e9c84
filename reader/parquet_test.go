package reader

import (
	"testing"
)

func TestReader_ReadAllNormalizesValues(t *testing.T) {
	artist := "Coldplay"
	path := writeParquet(t, t.TempDir(), "events.parquet", []eventRow{
		{UserID: "30", Page: "NextSong", TS: 1538352117000, Status: 200, Length: 277.89, Paid: true, Artist: &artist},
		{UserID: "", Page: "Home", TS: 1538352125000, Status: 307},
	})

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}
	defer func() { _ = r.Close() }()

	if r.NumRows() != 2 {
		t.Errorf("NumRows() = %d, want 2", r.NumRows())
	}

	rows, err := r.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("ReadAll() returned %d rows, want 2", len(rows))
	}

	first := rows[0]
	if v, ok := first["status"].(int64); !ok || v != 200 {
		t.Errorf("status = %#v, want int64(200)", first["status"])
	}
	if v, ok := first["ts"].(int64); !ok || v != 1538352117000 {
		t.Errorf("ts = %#v, want int64(1538352117000)", first["ts"])
	}
	if v, ok := first["userId"].(string); !ok || v != "30" {
		t.Errorf("userId = %#v, want \"30\"", first["userId"])
	}
	if v, ok := first["artist"].(string); !ok || v != "Coldplay" {
		t.Errorf("artist = %#v, want \"Coldplay\"", first["artist"])
	}
}

func TestNormalizeParquetValue(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want interface{}
	}{
		{"int32", int32(7), int64(7)},
		{"uint32", uint32(7), int64(7)},
		{"float32", float32(1.5), float64(1.5)},
		{"bytes", []byte("Home"), "Home"},
		{"passthrough", "Help", "Help"},
		{"nil", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeParquetValue(tt.in); got != tt.want {
				t.Errorf("normalizeParquetValue(%#v) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}

	nested := normalizeParquetValue(map[string]interface{}{"codes": []interface{}{int32(1), []byte("x")}})
	codes := nested.(map[string]interface{})["codes"].([]interface{})
	if codes[0] != int64(1) || codes[1] != "x" {
		t.Errorf("nested values = %#v", codes)
	}
}
