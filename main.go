package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/AleksandrSamusev/user-api-contract-tests/fixtures"
	"github.com/AleksandrSamusev/user-api-contract-tests/framework"
	"github.com/AleksandrSamusev/user-api-contract-tests/usertests"
)

func main() {
	var params commandParams
	if !params.Read(os.Args, os.Stderr) {
		os.Exit(1)
	}

	catalog, err := loadCatalog(params.dataFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid scenario data: %s\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mainDebugLogger := framework.NullLogger()
	if params.debugAll {
		mainDebugLogger = log.New(os.Stdout, "", log.LstdFlags)
	}

	harness, err := framework.NewTestHarness(
		ctx,
		params.serviceURL,
		params.requestTimeout,
		params.startupTimeout,
		mainDebugLogger,
		os.Stdout,
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Test service error: %s\n", err)
		os.Exit(1)
	}

	fmt.Println()
	framework.PrintFilterDescription(os.Stdout, params.filters)

	fmt.Println("Running test suite")

	testLogger := &ConsoleTestLogger{
		Out:                  os.Stdout,
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	results := usertests.RunTestSuite(
		ctx,
		harness,
		catalog,
		usertests.SuiteOptions{StrictNull: params.strictNull},
		params.filters.AsFilter,
		testLogger,
	)

	fmt.Println()
	framework.PrintResults(os.Stdout, results)
	if ctx.Err() != nil {
		fmt.Println("Test run was interrupted")
		os.Exit(1)
	}
	if !results.OK() {
		fmt.Println()
		fmt.Println("To run only the failed tests again:")
		fmt.Println("  " + params.rerunCommand(os.Args[0], results.FailedIDs()))
		os.Exit(1)
	}
}

func loadCatalog(path string) (*fixtures.Catalog, error) {
	if path == "" {
		return fixtures.Default()
	}
	return fixtures.Load(path)
}
