package envvars

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/savaki/buildconsole/internal/api"
	"github.com/savaki/buildconsole/internal/environmentdetails"
	"github.com/savaki/buildconsole/internal/errors"
	"github.com/savaki/buildconsole/internal/models"
	"github.com/savaki/buildconsole/internal/query"
	"github.com/savaki/buildconsole/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fulfilled(payload any) store.Action {
	return store.Action{
		Type:    query.ActionFulfilled,
		Payload: payload,
		Meta:    query.Meta{Endpoint: environmentdetails.GetBuild.Name},
	}
}

func newTestStore() (*store.Store, *Slice) {
	slice := New(zerolog.Nop(), environmentdetails.GetBuild.MatchFulfilled)
	return store.New(zerolog.Nop(), slice), slice
}

func TestSlice_InitialState(t *testing.T) {
	_, slice := newTestStore()
	assert.Equal(t, map[string]string{}, slice.Variables())
}

func TestSlice_Update(t *testing.T) {
	s, slice := newTestStore()

	s.Dispatch(slice.Update(map[string]string{"A": "1", "B": "2"}))
	s.Dispatch(slice.Update(map[string]string{"X": "y"}))

	assert.Equal(t, map[string]string{"X": "y"}, slice.Variables())
	assert.Equal(t, "environmentVariables/updateEnvironmentVariables", slice.UpdateType())
}

func TestSlice_UpdateNil(t *testing.T) {
	s, slice := newTestStore()

	s.Dispatch(slice.Update(map[string]string{"A": "1"}))
	s.Dispatch(slice.Update(nil))

	assert.Equal(t, map[string]string{}, slice.Variables())
}

func TestSlice_VariablesIsACopy(t *testing.T) {
	s, slice := newTestStore()
	s.Dispatch(slice.Update(map[string]string{"A": "1"}))

	got := slice.Variables()
	got["A"] = "changed"

	assert.Equal(t, "1", slice.Variables()["A"])
}

func TestSlice_BuildFulfilled(t *testing.T) {
	tests := []struct {
		name    string
		prior   map[string]string
		payload any
		want    map[string]string
	}{
		{
			name:  "inline variables replace prior content",
			prior: map[string]string{"OLD": "x"},
			payload: environmentdetails.BuildResponse{
				Data: models.Build{Specification: models.Specification{
					Spec: &models.Spec{Variables: map[string]string{"A": "1"}},
				}},
			},
			want: map[string]string{"A": "1"},
		},
		{
			name:  "pointer payload",
			prior: map[string]string{},
			payload: &environmentdetails.BuildResponse{
				Data: models.Build{Specification: models.Specification{
					Spec: &models.Spec{Variables: map[string]string{"A": "1"}},
				}},
			},
			want: map[string]string{"A": "1"},
		},
		{
			name:  "lockfile specification has no spec",
			prior: map[string]string{"OLD": "x"},
			payload: environmentdetails.BuildResponse{
				Data: models.Build{Specification: models.Specification{
					Lockfile: []byte(`{"version":1}`),
				}},
			},
			want: map[string]string{},
		},
		{
			name:  "spec without variables",
			prior: map[string]string{"OLD": "x"},
			payload: environmentdetails.BuildResponse{
				Data: models.Build{Specification: models.Specification{
					Spec: &models.Spec{Name: "env"},
				}},
			},
			want: map[string]string{},
		},
		{
			name:    "unexpected payload degrades to empty",
			prior:   map[string]string{"OLD": "x"},
			payload: "garbage",
			want:    map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, slice := newTestStore()
			s.Dispatch(slice.Update(tt.prior))

			s.Dispatch(fulfilled(tt.payload))

			assert.Equal(t, tt.want, slice.Variables())
		})
	}
}

func TestSlice_UnexpectedPayloadLogged(t *testing.T) {
	var buf bytes.Buffer
	slice := New(zerolog.New(&buf), environmentdetails.GetBuild.MatchFulfilled)
	s := store.New(zerolog.Nop(), slice)

	s.Dispatch(fulfilled(42))

	assert.Equal(t, map[string]string{}, slice.Variables())
	assert.Contains(t, buf.String(), errors.ErrUnexpectedResponse.Error())
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

func TestSlice_IgnoresOtherEndpoints(t *testing.T) {
	s, slice := newTestStore()
	s.Dispatch(slice.Update(map[string]string{"KEEP": "1"}))

	s.Dispatch(store.Action{
		Type:    query.ActionFulfilled,
		Payload: environmentdetails.BuildResponse{},
		Meta:    query.Meta{Endpoint: "getBuildPackages"},
	})
	s.Dispatch(store.Action{
		Type: query.ActionRejected,
		Meta: query.Meta{Endpoint: environmentdetails.GetBuild.Name},
	})

	assert.Equal(t, map[string]string{"KEEP": "1"}, slice.Variables())
}

func TestSlice_UpdatedByBuildFetch(t *testing.T) {
	tests := []struct {
		name string
		body string
		want map[string]string
	}{
		{
			name: "inline variables",
			body: `{"status":"ok","data":{"id":1,"status":"COMPLETED","specification":{"spec":{"name":"env","variables":{"A":"1"}}}}}`,
			want: map[string]string{"A": "1"},
		},
		{
			name: "lockfile",
			body: `{"status":"ok","data":{"id":1,"status":"COMPLETED","specification":{"lockfile":{"version":1,"package":[]}}}}`,
			want: map[string]string{},
		},
		{
			name: "no variables",
			body: `{"status":"ok","data":{"id":1,"status":"COMPLETED","specification":{"spec":{"name":"env"}}}}`,
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			ctx := zerolog.Nop().WithContext(context.Background())
			transport, err := api.New(ctx, api.Config{BaseURL: server.URL})
			require.NoError(t, err)

			s, slice := newTestStore()
			s.Dispatch(slice.Update(map[string]string{"OLD": "x"}))
			client := query.NewClient(ctx, transport, s)
			defer client.Close()

			_, err = environmentdetails.GetBuild.Fetch(ctx, client, environmentdetails.Args{BuildID: 1})
			require.NoError(t, err)

			// no waiting: the store is updated before the fetch is observed as complete
			assert.Equal(t, tt.want, slice.Variables())
		})
	}
}

func TestSlice_ListenersSeeUpdatedState(t *testing.T) {
	s, slice := newTestStore()

	var seen map[string]string
	s.Subscribe(func(action store.Action) {
		if action.Type == slice.UpdateType() {
			seen = slice.Variables()
		}
	})

	s.Dispatch(slice.Update(map[string]string{"X": "y"}))
	assert.Equal(t, map[string]string{"X": "y"}, seen)
}
