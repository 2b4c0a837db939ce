package framework

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestFailedIDsListsLeavesOnly(t *testing.T) {
	results := Run(context.Background(), nil, nil, func(c *Context) {
		c.Run("group", func(c *Context) {
			c.Run("ok", func(c *Context) {})
			c.Run("bad", func(c *Context) { c.Errorf("x") })
		})
		c.Run("setup", func(c *Context) { c.Errorf("y") })
	})
	assert.Equal(t, []TestID{id("group", "bad"), id("setup")}, results.FailedIDs())
}

func TestPrintResultsReportsFailuresAndWarnings(t *testing.T) {
	color.NoColor = true
	results := Results{
		Tests: []TestResult{{TestID: id("a")}, {TestID: id("b")}},
		Failures: []TestResult{
			{TestID: id("a"), Errors: []error{errors.New("line one\nline two")}},
		},
		Warnings: []TestResult{
			{TestID: id("b"), Warnings: []string{"null was ignored"}},
		},
	}
	var buf bytes.Buffer
	PrintResults(&buf, results)
	assert.Equal(t, "WARNINGS (1):\n  b\n    null was ignored\n\n"+
		"FAILED TESTS (1 of 2):\n  a\n    line one\n    line two\n", buf.String())
}

func TestPrintResultsAllPassed(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	PrintResults(&buf, Results{Tests: []TestResult{{TestID: id("a")}, {TestID: TestID{}}}})
	assert.Equal(t, "All tests passed (1 run)\n", buf.String())
}
