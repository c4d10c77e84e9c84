package reader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []map[string]interface{}
		wantErr bool
	}{
		{
			name:  "empty input",
			input: "  \n",
			want:  []map[string]interface{}{},
		},
		{
			name: "json lines with blank line",
			input: `{"userId":"1046","ts":1513720872284,"length":219.08853}

{"userId":"","page":"Home"}
`,
			want: []map[string]interface{}{
				{"userId": "1046", "ts": int64(1513720872284), "length": 219.08853},
				{"userId": "", "page": "Home"},
			},
		},
		{
			name:  "array of objects",
			input: `[{"status":200},{"status":307,"auth":null}]`,
			want: []map[string]interface{}{
				{"status": int64(200)},
				{"status": int64(307), "auth": nil},
			},
		},
		{
			name:  "nested values are normalized",
			input: `{"tags":[1,2.5],"loc":{"zip":12345}}`,
			want: []map[string]interface{}{
				{
					"tags": []interface{}{int64(1), 2.5},
					"loc":  map[string]interface{}{"zip": int64(12345)},
				},
			},
		},
		{
			name:  "exponent is a float",
			input: `{"n":1e3}`,
			want:  []map[string]interface{}{{"n": float64(1000)}},
		},
		{
			name:    "scalar record",
			input:   "42\n",
			wantErr: true,
		},
		{
			name:    "null record",
			input:   "null\n",
			wantErr: true,
		},
		{
			name:    "truncated object",
			input:   `{"userId":"1"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeJSON(strings.NewReader(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadJSONFile_NotFound(t *testing.T) {
	_, err := ReadJSONFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
