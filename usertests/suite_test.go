package usertests

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/AleksandrSamusev/user-api-contract-tests/fixtures"
	"github.com/AleksandrSamusev/user-api-contract-tests/framework"
	"github.com/AleksandrSamusev/user-api-contract-tests/mockapi"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nullUpdateWarnings = []string{
	"update/field: email/REJECT: Null value",
	"update/field: firstName/REJECT: Null value",
	"update/field: lastName/REJECT: Null value",
	"update/field: phoneNumber/REJECT: Null value",
}

func runAgainstMock(t *testing.T, opts SuiteOptions, filter framework.Filter) framework.Results {
	catalog, err := fixtures.Default()
	require.NoError(t, err)

	var results framework.Results
	httphelpers.WithServer(mockapi.NewRouter(catalog.UserEndpoints.Base), func(server *httptest.Server) {
		harness := framework.NewTestHarnessForClient(server.URL, server.Client(), nil)
		results = RunTestSuite(context.Background(), harness, catalog, opts, filter, nil)
	})
	return results
}

func describeFailures(results framework.Results) string {
	var b strings.Builder
	for _, f := range results.Failures {
		b.WriteString(f.TestID.String() + "\n")
		for _, err := range f.Errors {
			b.WriteString("  " + err.Error() + "\n")
		}
	}
	return b.String()
}

func warningIDs(results framework.Results) []string {
	var ret []string
	for _, w := range results.Warnings {
		ret = append(ret, w.TestID.String())
	}
	sort.Strings(ret)
	return ret
}

func TestWholeSuitePassesAgainstReferenceService(t *testing.T) {
	results := runAgainstMock(t, SuiteOptions{}, nil)

	require.True(t, results.OK(), describeFailures(results))
	assert.Equal(t, nullUpdateWarnings, warningIDs(results))
	for _, w := range results.Warnings {
		require.Len(t, w.Warnings, 1)
		assert.Contains(t, w.Warnings[0], "ignored null value instead of rejecting it")
	}
}

func TestStrictNullTurnsWarningsIntoFailures(t *testing.T) {
	results := runAgainstMock(t, SuiteOptions{StrictNull: true}, nil)

	var failed []string
	for _, id := range results.FailedIDs() {
		failed = append(failed, id.String())
	}
	sort.Strings(failed)
	assert.Equal(t, nullUpdateWarnings, failed)
	assert.Len(t, results.Warnings, 0)
}

func TestFilterSelectsOneSection(t *testing.T) {
	var filters framework.RegexFilters
	require.NoError(t, filters.MustMatch.Set("delete"))
	results := runAgainstMock(t, SuiteOptions{}, filters.AsFilter)

	require.True(t, results.OK(), describeFailures(results))
	for _, r := range results.Tests {
		if len(r.TestID.Path) > 0 && !r.Skipped {
			assert.Equal(t, "delete", r.TestID.Path[0])
		}
	}
}

func TestSuiteFailsAndCleansUpWhenServiceRejectsEverything(t *testing.T) {
	catalog, err := fixtures.Default()
	require.NoError(t, err)

	handler, requests := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(http.StatusInternalServerError))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		harness := framework.NewTestHarnessForClient(server.URL, server.Client(), nil)
		var filters framework.RegexFilters
		require.NoError(t, filters.MustMatch.Set("create/business logic"))
		results := RunTestSuite(context.Background(), harness, catalog, SuiteOptions{}, filters.AsFilter, nil)

		assert.False(t, results.OK())
		assert.Len(t, results.FailedIDs(), 2)
	})

	// No IDs were ever returned, so nothing is deleted.
	for {
		select {
		case r := <-requests:
			assert.NotEqual(t, http.MethodDelete, r.Request.Method)
			continue
		default:
		}
		break
	}
}
