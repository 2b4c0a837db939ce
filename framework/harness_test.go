package framework

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTestHarnessWaitsForService(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(404))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		var out bytes.Buffer
		h, err := NewTestHarness(context.Background(), server.URL+"/", time.Second, time.Second, nil, &out)
		require.NoError(t, err)
		assert.Equal(t, server.URL, h.ServiceBaseURL())
		assert.Contains(t, out.String(), "Connecting to service at "+server.URL)
		r := <-requestsCh
		assert.Equal(t, http.MethodGet, r.Request.Method)
	})
}

func TestNewTestHarnessTimesOutOnServerErrors(t *testing.T) {
	httphelpers.WithServer(httphelpers.HandlerWithStatus(503), func(server *httptest.Server) {
		_, err := NewTestHarness(context.Background(), server.URL, time.Second, time.Millisecond*50, nil, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "503")
	})
}

func TestNewTestHarnessRejectsBadURL(t *testing.T) {
	_, err := NewTestHarness(context.Background(), "not a url", time.Second, time.Second, nil, nil)
	assert.Error(t, err)
}

func TestResolveURL(t *testing.T) {
	h := NewTestHarnessForClient("http://localhost:8000/", nil, nil)
	assert.Equal(t, "http://localhost:8000/users", h.ResolveURL("/users"))
	assert.Equal(t, "http://localhost:8000/api/users", h.ResolveURL("api/users/"))
	assert.Equal(t, "http://localhost:8000", h.ResolveURL(""))
	assert.Equal(t, "http://other:9000/users", h.ResolveURL("http://other:9000/users/"))
}
