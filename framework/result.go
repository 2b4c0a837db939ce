package framework

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

type Results struct {
	Tests    []TestResult
	Failures []TestResult
	Warnings []TestResult
}

type TestResult struct {
	TestID   TestID
	Errors   []error
	Warnings []string
	Skipped  bool
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

type TestID struct {
	Path []string
}

// Plus returns the ID of a subtest. The parent's path is copied so that sibling IDs never
// share a backing array.
func (t TestID) Plus(name string) TestID {
	path := make([]string, 0, len(t.Path)+1)
	path = append(path, t.Path...)
	return TestID{Path: append(path, name)}
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

// PrintResults writes a summary of the run: warnings first, then failures with their errors.
func PrintResults(out io.Writer, results Results) {
	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow)
	green := color.New(color.FgGreen, color.Bold)

	if len(results.Warnings) > 0 {
		yellow.Fprintf(out, "WARNINGS (%d):\n", len(results.Warnings))
		for _, w := range results.Warnings {
			fmt.Fprintf(out, "  %s\n", w.TestID)
			for _, msg := range w.Warnings {
				fmt.Fprintf(out, "    %s\n", msg)
			}
		}
		fmt.Fprintln(out)
	}

	if results.OK() {
		green.Fprintf(out, "All tests passed (%d run)\n", countRun(results))
		return
	}
	red.Fprintf(out, "FAILED TESTS (%d of %d):\n", len(results.Failures), countRun(results))
	for _, f := range results.Failures {
		fmt.Fprintf(out, "  %s\n", f.TestID)
		for _, err := range f.Errors {
			for _, line := range strings.Split(err.Error(), "\n") {
				fmt.Fprintf(out, "    %s\n", line)
			}
		}
	}
}

// countRun counts leaf tests that actually ran; the root and group nodes are excluded by
// counting only IDs that are not a prefix of a later ID.
func countRun(results Results) int {
	n := 0
	for i, t := range results.Tests {
		if t.Skipped || len(t.TestID.Path) == 0 {
			continue
		}
		isParent := false
		prefix := t.TestID.String() + "/"
		for _, other := range results.Tests[:i] {
			if strings.HasPrefix(other.TestID.String(), prefix) {
				isParent = true
				break
			}
		}
		if !isParent {
			n++
		}
	}
	return n
}

// FailedIDs returns the IDs of failed leaf tests, in the order they ran.
func (r Results) FailedIDs() []TestID {
	var ret []TestID
	for i, f := range r.Failures {
		prefix := f.TestID.String() + "/"
		isParent := false
		for _, other := range r.Failures[:i] {
			if strings.HasPrefix(other.TestID.String(), prefix) {
				isParent = true
				break
			}
		}
		if !isParent && len(f.TestID.Path) > 0 {
			ret = append(ret, f.TestID)
		}
	}
	return ret
}
