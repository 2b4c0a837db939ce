package usertests

import (
	"context"

	"github.com/AleksandrSamusev/user-api-contract-tests/fixtures"
	"github.com/AleksandrSamusev/user-api-contract-tests/framework"
)

// SuiteOptions adjusts how strictly the suite treats known divergences.
type SuiteOptions struct {
	// StrictNull makes a null field value that the service accepts with 200 a failure instead
	// of a warning.
	StrictNull bool

	// Emails generates the unique emails injected into payloads. Defaults to NewEmailGenerator().
	Emails EmailSource
}

type environment struct {
	catalog *fixtures.Catalog
	client  *UserClient
	opts    SuiteOptions
}

// T represents a test or subtest in the User API test suite.
//
// It implements the same basic functionality as Go's testing.T, but in an environment that is
// outside of the Go test runner, and with some extra features such as debug logging and
// deferred teardown that are provided by the lower-level framework package.
//
// To make test assertions, use the assert and require packages, passing the *T as if it were a
// *testing.T. Many of the request helpers have assertions built in, causing the test to fail
// immediately if the service does not respond at all, to reduce boilerplate in tests.
type T struct {
	context *framework.Context
	env     *environment
}

func newTestScope(context *framework.Context, env *environment) *T {
	return &T{context: context, env: env}
}

// Errorf is called by assertions to log a test failure. It does not cause an immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

// FailNow is called by assertions when a test should fail and immediately exit. The methods in
// the require package call FailNow.
func (t *T) FailNow() {
	t.context.FailNow()
}

// Run runs a subtest. This is equivalent to the Run method of testing.T.
func (t *T) Run(name string, action func(*T)) {
	t.context.Run(name, func(c *framework.Context) {
		action(newTestScope(c, t.env))
	})
}

// Step runs one named stage of the current test. Unlike Run it does not create a subtest: a
// failure in a step is a failure of the enclosing test, and a FailNow ends the whole test.
func (t *T) Step(name string, action func()) {
	t.Debug("STEP: %s", name)
	action()
}

// Debug logs some debug output for the test. The output will be passed to the test logger at
// the end of the test.
func (t *T) Debug(format string, args ...interface{}) {
	t.context.Debug(format, args...)
}

func (t *T) DebugLogger() framework.Logger {
	return t.context.DebugLogger()
}

// Warn records a tolerated divergence. The test still passes, but the warning is listed in
// the summary.
func (t *T) Warn(format string, args ...interface{}) {
	t.context.Warn(format, args...)
}

// Defer schedules an action to run when this test and all of its subtests are finished.
func (t *T) Defer(action func()) {
	t.context.Defer(action)
}

func (t *T) ID() framework.TestID {
	return t.context.ID()
}

// Ctx is the context.Context for requests made by this test.
func (t *T) Ctx() context.Context {
	return t.context.Ctx()
}

// Catalog returns the fixture data driving the suite.
func (t *T) Catalog() *fixtures.Catalog {
	return t.env.catalog
}

// Client returns the client for the User API, logging to this test's debug output.
func (t *T) Client() *UserClient {
	return t.env.client.WithLogger(t.DebugLogger())
}

// UniqueEmail returns an email address that no other test in any concurrent run will use.
func (t *T) UniqueEmail(prefix string) string {
	return t.env.opts.Emails(prefix)
}
