package framework

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Filter is a function that can determine whether to run a specific test or not.
type Filter func(TestID) bool

// RegexFilters selects tests in the same way as the -run and -skip flags of "go test": a pattern
// is split on slashes and each part is matched against the corresponding element of the test
// path. A group is run if the leading parts of a -run pattern match it, so that its subtests
// can be reached.
type RegexFilters struct {
	MustMatch    RegexList
	MustNotMatch RegexList
}

func (r RegexFilters) AsFilter(id TestID) bool {
	if r.MustNotMatch.anySkips(id.Path) {
		return false
	}
	return !r.MustMatch.IsDefined() || r.MustMatch.anySelects(id.Path)
}

type RegexList struct {
	patterns []pathPattern
}

type pathPattern struct {
	source string
	parts  []*regexp.Regexp
}

func (r RegexList) String() string {
	var ss []string
	for _, p := range r.patterns {
		ss = append(ss, `"`+p.source+`"`)
	}
	return strings.Join(ss, " or ")
}

// Set is called by the command line parser
func (r *RegexList) Set(value string) error {
	p := pathPattern{source: value}
	for _, part := range strings.Split(value, "/") {
		rx, err := regexp.Compile(part)
		if err != nil {
			return fmt.Errorf("invalid regex: %w", err)
		}
		p.parts = append(p.parts, rx)
	}
	r.patterns = append(r.patterns, p)
	return nil
}

func (r RegexList) IsDefined() bool {
	return len(r.patterns) != 0
}

func (r RegexList) anySelects(path []string) bool {
	for _, p := range r.patterns {
		if p.matchesLevels(path) {
			return true
		}
	}
	return false
}

// anySkips only excludes a test once every part of a pattern has been matched, so a -skip
// aimed at a subtest does not exclude its parent.
func (r RegexList) anySkips(path []string) bool {
	for _, p := range r.patterns {
		if len(path) >= len(p.parts) && p.matchesLevels(path) {
			return true
		}
	}
	return false
}

func (p pathPattern) matchesLevels(path []string) bool {
	for i, elem := range path {
		if i >= len(p.parts) {
			break
		}
		if !p.parts[i].MatchString(elem) {
			return false
		}
	}
	return true
}

// PrintFilterDescription tells the user which tests the -run and -skip patterns will exclude.
func PrintFilterDescription(out io.Writer, filters RegexFilters) {
	if filters.MustMatch.IsDefined() || filters.MustNotMatch.IsDefined() {
		fmt.Fprintln(out, "Some tests will be skipped based on the filter criteria for this test run:")
		if filters.MustMatch.IsDefined() {
			fmt.Fprintf(out, "  skip any not matching %s\n", filters.MustMatch)
		}
		if filters.MustNotMatch.IsDefined() {
			fmt.Fprintf(out, "  skip any matching %s\n", filters.MustNotMatch)
		}
		fmt.Fprintln(out)
	}
}
