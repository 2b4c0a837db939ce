package framework

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
)

type environment struct {
	ctx        context.Context
	results    Results
	testLogger TestLogger
	filter     Filter
}

// Context is the framework-level state of one test in the tree. It records soft failures
// (Errorf), hard failures (FailNow), skips, warnings and deferred cleanup actions.
type Context struct {
	env         *environment
	id          TestID
	debugLogger CapturingLogger
	failed      bool
	skipped     bool
	skipReason  string
	errors      []error
	warnings    []string
	defers      []func()
}

// Run executes the root action and returns the results of every test that was run beneath it.
// The supplied context.Context is made available to tests through Context.Ctx so that
// blocking operations end when the run is cancelled.
func Run(
	ctx context.Context,
	filter Filter,
	testLogger TestLogger,
	action func(*Context),
) Results {
	if ctx == nil {
		ctx = context.Background()
	}
	if testLogger == nil {
		testLogger = nullTestLogger{}
	}
	env := &environment{
		ctx:        ctx,
		filter:     filter,
		testLogger: testLogger,
	}
	c := &Context{env: env}
	c.run(action)
	return env.results
}

func (c *Context) run(action func(*Context)) {
	defer func() {
		r := recover()
		c.runDefers()
		if r != nil {
			if !c.skipped {
				c.failed = true
				var addError error
				if _, ok := r.(*Context); ok {
					if len(c.errors) == 0 {
						addError = errors.New("test failed with no failure message")
					}
				} else {
					addError = fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
				}
				if addError != nil {
					c.errors = append(c.errors, addError)
					c.env.testLogger.TestError(c.id, addError)
				}
			}
		}
		result := TestResult{TestID: c.id, Errors: c.errors, Warnings: c.warnings, Skipped: c.skipped}
		c.env.results.Tests = append(c.env.results.Tests, result)
		if c.failed {
			c.env.results.Failures = append(c.env.results.Failures, result)
		}
		if len(c.warnings) > 0 {
			c.env.results.Warnings = append(c.env.results.Warnings, result)
		}
	}()

	action(c)
}

// runDefers calls deferred actions in reverse order. A panic in one of them is recorded as a
// failure of this test but does not prevent the remaining actions from running.
func (c *Context) runDefers() {
	for len(c.defers) > 0 {
		d := c.defers[len(c.defers)-1]
		c.defers = c.defers[:len(c.defers)-1]
		func() {
			defer func() {
				if r := recover(); r != nil {
					if _, ok := r.(*Context); ok {
						return
					}
					c.Errorf("unexpected panic in deferred action: %+v", r)
				}
			}()
			d()
		}()
	}
}

func (c *Context) ID() TestID {
	return c.id
}

// Ctx returns the context.Context of the whole run.
func (c *Context) Ctx() context.Context {
	return c.env.ctx
}

// Run runs a subtest, unless the filter excludes it or the run has been cancelled.
func (c *Context) Run(name string, action func(*Context)) {
	id := c.id.Plus(name)

	c.env.testLogger.TestStarted(id)
	if c.env.filter != nil && !c.env.filter(id) {
		c.env.testLogger.TestSkipped(id, "excluded by filter parameters")
		return
	}
	if err := c.env.ctx.Err(); err != nil {
		c.env.testLogger.TestSkipped(id, "test run was cancelled")
		return
	}
	c1 := &Context{
		id:  id,
		env: c.env,
	}
	c1.run(action)
	if c1.skipped {
		c.env.testLogger.TestSkipped(id, c1.skipReason)
	} else {
		c.env.testLogger.TestFinished(id, c1.failed, c1.debugLogger.Output())
	}
}

func (c *Context) Errorf(format string, args ...interface{}) {
	c.failed = true
	err := fmt.Errorf(format, args...)
	c.errors = append(c.errors, err)
	c.env.testLogger.TestError(c.id, err)
}

func (c *Context) FailNow() {
	panic(c)
}

func (c *Context) Skip() {
	c.skipped = true
	panic(c)
}

func (c *Context) SkipWithReason(reason string) {
	c.skipReason = reason
	c.Skip()
}

// Warn records a divergence that does not fail the test but should be reported.
func (c *Context) Warn(message string, args ...interface{}) {
	w := fmt.Sprintf(message, args...)
	c.warnings = append(c.warnings, w)
	c.debugLogger.Printf("WARNING: %s", w)
	c.env.testLogger.TestWarning(c.id, w)
}

// Defer schedules an action to run when this test ends, whether it passed, failed or panicked.
func (c *Context) Defer(action func()) {
	c.defers = append(c.defers, action)
}

func (c *Context) Debug(message string, args ...interface{}) {
	c.debugLogger.Printf(message, args...)
}

func (c *Context) DebugLogger() Logger {
	return &c.debugLogger
}
