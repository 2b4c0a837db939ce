// Package usertests contains the User API contract tests themselves and their supporting API.
//
// Test harness infrastructure that is not specific to the User API, such as the test context
// tree and the connection to the service under test, is in the lower-level framework package.
// The scenario data comes from the fixtures package.
package usertests
