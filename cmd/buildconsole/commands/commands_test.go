package commands

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/graph-gophers/graphql-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAssignments(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		want    map[string]string
		wantErr bool
	}{
		{
			name: "none",
		},
		{
			name:  "pairs",
			pairs: []string{"FOO=bar", "EMPTY=", "URL=http://x/?a=b"},
			want:  map[string]string{"FOO": "bar", "EMPTY": "", "URL": "http://x/?a=b"},
		},
		{
			name:  "later wins",
			pairs: []string{"A=1", "A=2"},
			want:  map[string]string{"A": "2"},
		},
		{
			name:    "missing equals",
			pairs:   []string{"FOO"},
			wantErr: true,
		},
		{
			name:    "missing name",
			pairs:   []string{"=bar"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAssignments(tt.pairs)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type okResolver struct{}

func (okResolver) Ok() string { return "ok" }

func TestRouter(t *testing.T) {
	schema, err := graphql.ParseSchema(`schema { query: Query } type Query { ok: String! }`, &okResolver{})
	require.NoError(t, err)

	handler := loggingMiddleware(zerolog.Nop())(newRouter(schema))

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "health",
			method:     http.MethodGet,
			path:       "/health",
			wantStatus: http.StatusOK,
			wantBody:   "ok",
		},
		{
			name:       "graphql",
			method:     http.MethodPost,
			path:       "/graphql",
			body:       `{"query":"{ ok }"}`,
			wantStatus: http.StatusOK,
			wantBody:   `{"data":{"ok":"ok"}}`,
		},
		{
			name:       "graphql requires post",
			method:     http.MethodGet,
			path:       "/graphql",
			wantStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, strings.TrimSpace(rec.Body.String()))
			}
		})
	}
}
