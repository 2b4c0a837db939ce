package usertests

import (
	"context"

	"github.com/AleksandrSamusev/user-api-contract-tests/fixtures"
	"github.com/AleksandrSamusev/user-api-contract-tests/framework"
)

// RunTestSuite runs every section of the User API suite against the service the harness is
// connected to, and returns the results.
func RunTestSuite(
	ctx context.Context,
	harness *framework.TestHarness,
	catalog *fixtures.Catalog,
	opts SuiteOptions,
	filter framework.Filter,
	testLogger framework.TestLogger,
) framework.Results {
	if opts.Emails == nil {
		opts.Emails = NewEmailGenerator()
	}
	env := &environment{
		catalog: catalog,
		client: NewUserClient(
			harness.ResolveURL(catalog.UserEndpoints.Base),
			harness.HTTPClient(),
			harness.Logger(),
		),
		opts: opts,
	}

	return framework.Run(ctx, filter, testLogger, func(c *framework.Context) {
		t := newTestScope(c, env)

		t.Run("create", DoCreateTests)
		t.Run("get", DoGetTests)
		t.Run("update", DoUpdateTests)
		t.Run("delete", DoDeleteTests)
	})
}
