// Package framework contains the low-level test harness infrastructure that is not specific to
// the User API: the test context tree, results, filters, loggers and the harness that holds the
// connection to the service under test.
//
// The general model is:
//
// 1. The harness checks that the service under test is reachable at its base URL, and provides
// the HTTP client that tests use to talk to it.
//
// 2. There is a general notion of a test context which is similar to Go's *testing.T, allowing
// pieces of test logic to be associated with a test identifier and to accumulate
// success/failure results. Contexts form a tree; a context can register deferred actions that
// run when it ends, which is how per-section teardown is implemented.
//
// The domain-specific code that knows what is being tested provides a test API on top of the
// test context.
package framework
