package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/savaki/buildconsole/internal/errors"
	"github.com/savaki/buildconsole/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() context.Context {
	return zerolog.Nop().WithContext(context.Background())
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := New(testContext(), Config{})
	assert.ErrorIs(t, err, errors.ErrBaseURLRequired)
}

func TestClient_URL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		path    string
		want    string
	}{
		{
			name:    "plain join",
			baseURL: "http://localhost:8080/api/v1",
			path:    "/build/1/packages?page=1&size=10",
			want:    "http://localhost:8080/api/v1/build/1/packages?page=1&size=10",
		},
		{
			name:    "trailing slash on base",
			baseURL: "http://localhost:8080/api/v1/",
			path:    "/build/2",
			want:    "http://localhost:8080/api/v1/build/2",
		},
		{
			name:    "relative path",
			baseURL: "http://localhost:8080",
			path:    "build/3",
			want:    "http://localhost:8080/build/3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(testContext(), Config{BaseURL: tt.baseURL})
			require.NoError(t, err)
			assert.Equal(t, tt.want, client.URL(tt.path))
		})
	}
}

func TestClient_Get(t *testing.T) {
	var gotAuth, gotQuery, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok","data":[{"id":1,"name":"numpy","version":"1.26.4","channel":{"id":1,"name":"conda-forge"}}],"page":1,"size":10,"count":1}`))
	}))
	defer server.Close()

	client, err := New(testContext(), Config{BaseURL: server.URL + "/api/v1", Token: "secret"})
	require.NoError(t, err)

	var resp models.Response[[]models.Dependency]
	err = client.Get(testContext(), "/build/1/packages?page=1&size=10", &resp)
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "/api/v1/build/1/packages", gotPath)
	assert.Equal(t, "page=1&size=10", gotQuery)
	assert.Equal(t, models.StatusOK, resp.Status)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "numpy", resp.Data[0].Name)
	assert.Equal(t, "conda-forge", resp.Data[0].Channel.Name)
	require.NotNil(t, resp.Count)
	assert.Equal(t, 1, *resp.Count)
}

func TestClient_GetErrors(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantCode   int
		wantMsg    string
	}{
		{
			name:       "not found",
			statusCode: http.StatusNotFound,
			body:       `{"status":"error","message":"build does not exist"}`,
			wantCode:   http.StatusNotFound,
			wantMsg:    "build does not exist",
		},
		{
			name:       "server error without body",
			statusCode: http.StatusInternalServerError,
			wantCode:   http.StatusInternalServerError,
		},
		{
			name:       "error envelope with ok status",
			statusCode: http.StatusOK,
			body:       `{"status":"error","message":"not allowed"}`,
			wantCode:   http.StatusOK,
			wantMsg:    "not allowed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, err := New(testContext(), Config{BaseURL: server.URL})
			require.NoError(t, err)

			var out models.Response[models.Build]
			err = client.Get(testContext(), "/build/1", &out)

			var statusErr *StatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, tt.wantCode, statusErr.StatusCode)
			assert.Equal(t, tt.wantMsg, statusErr.Message)
		})
	}
}

func TestClient_GetRetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok","data":{"id":4,"status":"COMPLETED","specification":{}}}`))
	}))
	defer server.Close()

	client, err := New(testContext(), Config{BaseURL: server.URL, RetryMax: 2, RetryWait: time.Millisecond})
	require.NoError(t, err)

	var out models.Response[models.Build]
	require.NoError(t, client.Get(testContext(), "/build/4", &out))
	assert.Equal(t, 2, attempts)
	assert.Equal(t, models.BuildStatusCompleted, out.Data.Status)
}
