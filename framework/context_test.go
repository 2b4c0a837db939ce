package framework

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTestLogger struct {
	started  []string
	skipped  []string
	finished map[string]bool
	warnings []string
}

func (r *recordingTestLogger) TestStarted(id TestID)          { r.started = append(r.started, id.String()) }
func (r *recordingTestLogger) TestError(id TestID, err error) {}
func (r *recordingTestLogger) TestWarning(id TestID, message string) {
	r.warnings = append(r.warnings, id.String()+": "+message)
}
func (r *recordingTestLogger) TestFinished(id TestID, failed bool, debugOutput CapturedOutput) {
	if r.finished == nil {
		r.finished = make(map[string]bool)
	}
	r.finished[id.String()] = failed
}
func (r *recordingTestLogger) TestSkipped(id TestID, reason string) {
	r.skipped = append(r.skipped, id.String())
}

func TestSoftErrorsAreAllCollected(t *testing.T) {
	results := Run(context.Background(), nil, nil, func(c *Context) {
		c.Run("soft", func(c *Context) {
			c.Errorf("first")
			c.Errorf("second")
		})
	})
	require.Len(t, results.Failures, 1)
	assert.Equal(t, "soft", results.Failures[0].TestID.String())
	require.Len(t, results.Failures[0].Errors, 2)
	assert.EqualError(t, results.Failures[0].Errors[0], "first")
	assert.EqualError(t, results.Failures[0].Errors[1], "second")
}

func TestFailNowStopsOnlyTheCurrentTest(t *testing.T) {
	reachedAfterFail := false
	ranSibling := false
	results := Run(context.Background(), nil, nil, func(c *Context) {
		c.Run("hard", func(c *Context) {
			c.Errorf("boom")
			c.FailNow()
			reachedAfterFail = true
		})
		c.Run("sibling", func(c *Context) {
			ranSibling = true
		})
	})
	assert.False(t, reachedAfterFail)
	assert.True(t, ranSibling)
	require.Len(t, results.Failures, 1)
	assert.Equal(t, "hard", results.Failures[0].TestID.String())
}

func TestUnexpectedPanicIsRecordedAsFailure(t *testing.T) {
	results := Run(context.Background(), nil, nil, func(c *Context) {
		c.Run("panics", func(c *Context) {
			panic("oops")
		})
	})
	require.Len(t, results.Failures, 1)
	require.Len(t, results.Failures[0].Errors, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "unexpected panic in test: oops")
}

func TestDeferredActionsRunInReverseOrderEvenAfterFailure(t *testing.T) {
	var calls []string
	Run(context.Background(), nil, nil, func(c *Context) {
		c.Run("group", func(c *Context) {
			c.Defer(func() { calls = append(calls, "first") })
			c.Defer(func() { calls = append(calls, "second") })
			c.Errorf("failed")
			c.FailNow()
		})
	})
	assert.Equal(t, []string{"second", "first"}, calls)
}

func TestPanicInDeferredActionDoesNotStopOtherDefers(t *testing.T) {
	ranFirst := false
	results := Run(context.Background(), nil, nil, func(c *Context) {
		c.Run("group", func(c *Context) {
			c.Defer(func() { ranFirst = true })
			c.Defer(func() { panic("cleanup broke") })
		})
	})
	assert.True(t, ranFirst)
	require.Len(t, results.Failures, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "cleanup broke")
}

func TestSkipIsNotAFailure(t *testing.T) {
	logger := &recordingTestLogger{}
	results := Run(context.Background(), nil, logger, func(c *Context) {
		c.Run("skipped", func(c *Context) {
			c.SkipWithReason("not today")
		})
	})
	assert.True(t, results.OK())
	assert.Equal(t, []string{"skipped"}, logger.skipped)
}

func TestWarningsAreReportedWithoutFailing(t *testing.T) {
	logger := &recordingTestLogger{}
	results := Run(context.Background(), nil, logger, func(c *Context) {
		c.Run("warns", func(c *Context) {
			c.Warn("value %q was ignored", "x")
		})
	})
	assert.True(t, results.OK())
	require.Len(t, results.Warnings, 1)
	assert.Equal(t, []string{`value "x" was ignored`}, results.Warnings[0].Warnings)
	assert.Equal(t, []string{`warns: value "x" was ignored`}, logger.warnings)
	assert.False(t, logger.finished["warns"])
}

func TestFilterExcludesTest(t *testing.T) {
	logger := &recordingTestLogger{}
	ran := map[string]bool{}
	filter := func(id TestID) bool { return id.String() != "a/excluded" }
	Run(context.Background(), filter, logger, func(c *Context) {
		c.Run("a", func(c *Context) {
			c.Run("excluded", func(c *Context) { ran["excluded"] = true })
			c.Run("included", func(c *Context) { ran["included"] = true })
		})
	})
	assert.Equal(t, map[string]bool{"included": true}, ran)
	assert.Equal(t, []string{"a/excluded"}, logger.skipped)
}

func TestCancelledRunSkipsRemainingTests(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ranSecond := false
	Run(ctx, nil, nil, func(c *Context) {
		c.Run("first", func(c *Context) { cancel() })
		c.Run("second", func(c *Context) { ranSecond = true })
	})
	assert.False(t, ranSecond)
}

func TestSubtestIDsDoNotShareStorage(t *testing.T) {
	var ids []TestID
	Run(context.Background(), nil, nil, func(c *Context) {
		c.Run("parent", func(c *Context) {
			c.Run("a", func(c *Context) { ids = append(ids, c.ID()) })
			c.Run("b", func(c *Context) { ids = append(ids, c.ID()) })
		})
	})
	require.Len(t, ids, 2)
	assert.Equal(t, "parent/a", ids[0].String())
	assert.Equal(t, "parent/b", ids[1].String())
}
