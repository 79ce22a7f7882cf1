package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePattern(t *testing.T) {
	tests := []struct {
		name      string
		pattern   string
		wantPath  []segment
		wantQuery []queryParam
		wantErr   bool
	}{
		{
			name:     "root",
			pattern:  "/",
			wantPath: nil,
		},
		{
			name:     "static",
			pattern:  "/items/all",
			wantPath: []segment{{value: "items"}, {value: "all"}},
		},
		{
			name:     "dynamic angle",
			pattern:  "/items/<id>",
			wantPath: []segment{{value: "items"}, {value: "id", dynamic: true}},
		},
		{
			name:     "dynamic brace",
			pattern:  "/items/{id}",
			wantPath: []segment{{value: "items"}, {value: "id", dynamic: true}},
		},
		{
			name:     "trailing",
			pattern:  "/files/<path..>",
			wantPath: []segment{{value: "files"}, {value: "path", dynamic: true, trailing: true}},
		},
		{
			name:      "query static and dynamic",
			pattern:   "/search?exact=yes&q=<query>&flag",
			wantPath:  []segment{{value: "search"}},
			wantQuery: []queryParam{{key: "exact", value: "yes"}, {key: "q", value: "query", dynamic: true}, {key: "flag"}},
		},
		{
			name:    "missing leading slash",
			pattern: "items",
			wantErr: true,
		},
		{
			name:    "empty pattern",
			pattern: "",
			wantErr: true,
		},
		{
			name:    "segment after trailing",
			pattern: "/files/<path..>/meta",
			wantErr: true,
		},
		{
			name:    "unnamed dynamic segment",
			pattern: "/items/<>",
			wantErr: true,
		},
		{
			name:    "duplicate variable",
			pattern: "/items/<id>/sub/<id>",
			wantErr: true,
		},
		{
			name:    "duplicate variable across path and query",
			pattern: "/items/<id>?id=<id>",
			wantErr: true,
		},
		{
			name:    "malformed segment",
			pattern: "/items/<id",
			wantErr: true,
		},
		{
			name:    "empty query parameter",
			pattern: "/search?&q=<query>",
			wantErr: true,
		},
		{
			name:    "trailing query parameter",
			pattern: "/search?q=<rest..>",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, query, err := parsePattern(tt.pattern)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, path)
			assert.Equal(t, tt.wantQuery, query)
		})
	}
}

func TestDefaultRank(t *testing.T) {
	tests := []struct {
		pattern string
		want    int
	}{
		{"/items/all?exact=yes", -6},
		{"/items/all?q=<query>", -5},
		{"/items/all", -4},
		{"/items/<id>?exact=yes", -3},
		{"/items/<id>?q=<query>", -2},
		{"/items/<id>", -1},
		{"/<a>/<b>?exact=yes", 0},
		{"/<a>/<b>?q=<query>", 1},
		{"/<a>/<b>", 2},
		{"/", -4},
		{"/files/<path..>", -1},
		{"/<path..>", 2},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			path, query, err := parsePattern(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, defaultRank(path, query))
		})
	}
}
