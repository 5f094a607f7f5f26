package di

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/graph-gophers/graphql-go"
	"github.com/savaki/buildconsole/internal/environmentdetails"
	"github.com/savaki/buildconsole/internal/envvars"
	"github.com/savaki/buildconsole/internal/query"
	"github.com/savaki/buildconsole/internal/services"
	"github.com/savaki/buildconsole/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvideAppConfig_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buildconsole.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
profiles:
  dev:
    base_url: http://from-file/api/v1
    token: file-token
`), 0o600))

	tests := []struct {
		name        string
		opts        []Option
		wantBaseURL string
		wantToken   string
	}{
		{
			name:        "file values",
			opts:        []Option{WithConfigFile(path)},
			wantBaseURL: "http://from-file/api/v1",
			wantToken:   "file-token",
		},
		{
			name:        "flags win",
			opts:        []Option{WithConfigFile(path), WithBaseURL("http://from-flag/api/v1"), WithToken("flag-token")},
			wantBaseURL: "http://from-flag/api/v1",
			wantToken:   "flag-token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			container, err := New("dev", tt.opts...)
			require.NoError(t, err)

			config := MustGet[*services.Config](container)
			assert.Equal(t, tt.wantBaseURL, config.BaseURL)
			assert.Equal(t, tt.wantToken, config.Token)
			assert.Equal(t, services.DefaultPageSize, config.PageSize)
		})
	}
}

func TestProvideAppConfig_Env(t *testing.T) {
	t.Setenv("BUILDCONSOLE_BASE_URL", "http://from-env/api/v1")

	container, err := New("default")
	require.NoError(t, err)

	config := MustGet[*services.Config](container)
	assert.Equal(t, "http://from-env/api/v1", config.BaseURL)
}

func TestNew_CoreWiring(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok","data":{"id":7,"environment_id":1,"status":"COMPLETED","size":0,
			"specification":{"spec":{"name":"env","variables":{"FOO":"bar"}}}}}`))
	}))
	defer server.Close()

	container, err := New("default", WithBaseURL(server.URL))
	require.NoError(t, err)

	client := MustGet[*query.Client](container)
	defer client.Close()

	slice := MustGet[*envvars.Slice](container)
	s := MustGet[*store.Store](container)
	require.NotNil(t, s)

	resp, err := environmentdetails.GetBuild.Fetch(t.Context(), client, environmentdetails.Args{BuildID: 7})
	require.NoError(t, err)
	assert.Equal(t, 7, resp.Data.ID)
	assert.Equal(t, map[string]string{"FOO": "bar"}, slice.Variables())

	schema := MustGet[*graphql.Schema](container)
	assert.NotNil(t, schema)
}
