package main

import (
	"flag"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/AleksandrSamusev/user-api-contract-tests/framework"

	"github.com/alessio/shellescape"
)

const (
	defaultRequestTimeout = time.Second * 10
	defaultStartupTimeout = time.Second * 10
)

type commandParams struct {
	serviceURL     string
	dataFile       string
	filters        framework.RegexFilters
	requestTimeout time.Duration
	startupTimeout time.Duration
	strictNull     bool
	debug          bool
	debugAll       bool
}

// Read parses the command line. Problems are written to errOut; the return value is false if
// the program should not continue.
func (c *commandParams) Read(args []string, errOut io.Writer) bool {
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.StringVar(&c.serviceURL, "url", "", "root URL of the User API service")
	fs.StringVar(&c.dataFile, "data", "", "scenario catalog file, JSON or YAML (default: built-in catalog)")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.DurationVar(&c.requestTimeout, "timeout", defaultRequestTimeout, "timeout for each request")
	fs.DurationVar(&c.startupTimeout, "startup-timeout", defaultStartupTimeout, "how long to wait for the service to respond")
	fs.BoolVar(&c.strictNull, "strict-null", false, "treat a null value accepted with status 200 as a failure instead of a warning")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")

	if err := fs.Parse(args[1:]); err != nil {
		return false
	}
	if c.serviceURL == "" {
		fmt.Fprintln(errOut, "-url is required")
		fs.Usage()
		return false
	}
	return true
}

// rerunCommand builds a command line that runs only the given tests again, with the same
// service and data parameters.
func (c *commandParams) rerunCommand(program string, failed []framework.TestID) string {
	var b commandBuilder
	b.add(program, "-url", c.serviceURL)
	if c.dataFile != "" {
		b.add("-data", c.dataFile)
	}
	if c.strictNull {
		b.add("-strict-null")
	}
	for _, id := range failed {
		parts := make([]string, 0, len(id.Path))
		for _, p := range id.Path {
			parts = append(parts, "^"+pathElementPattern(p)+"$")
		}
		b.add("-run", strings.Join(parts, "/"))
	}
	return b.String()
}

// pathElementPattern matches exactly one test name. A slash would be read as a level separator
// by the -run flag, so it is written as an escape sequence.
func pathElementPattern(name string) string {
	return strings.ReplaceAll(regexp.QuoteMeta(name), "/", `\x2f`)
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
