package usertests

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AleksandrSamusev/user-api-contract-tests/fixtures"
	"github.com/AleksandrSamusev/user-api-contract-tests/framework"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/require"
)

func jsonHandler(status int, body string) http.Handler {
	return httphelpers.HandlerWithResponse(status, http.Header{"Content-Type": {"application/json"}}, []byte(body))
}

// runWithStubService runs action as a single test named "test", with a client pointing at a
// server that uses handler.
func runWithStubService(t *testing.T, handler http.Handler, action func(*T)) framework.Results {
	return runWithStubServiceOptions(t, handler, SuiteOptions{}, action)
}

func runWithStubServiceOptions(t *testing.T, handler http.Handler, opts SuiteOptions, action func(*T)) framework.Results {
	catalog, err := fixtures.Default()
	require.NoError(t, err)
	if opts.Emails == nil {
		opts.Emails = NewEmailGenerator()
	}

	var results framework.Results
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		env := &environment{
			catalog: catalog,
			client:  NewUserClient(server.URL+"/users", server.Client(), nil),
			opts:    opts,
		}
		results = framework.Run(context.Background(), nil, nil, func(c *framework.Context) {
			c.Run("test", func(c *framework.Context) {
				action(newTestScope(c, env))
			})
		})
	})
	return results
}
