package framework

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const serviceQueryInterval = time.Millisecond * 100

// TestHarness holds the connection details for the service under test.
type TestHarness struct {
	serviceBaseURL string
	client         *http.Client
	logger         Logger
}

// NewTestHarness creates a TestHarness instance, and verifies that the service under test is
// responding by querying its root URL until it gets any HTTP response below 500 or the startup
// timeout elapses.
func NewTestHarness(
	ctx context.Context,
	serviceBaseURL string,
	requestTimeout time.Duration,
	startupTimeout time.Duration,
	debugLogger Logger,
	startupOutput io.Writer,
) (*TestHarness, error) {
	if debugLogger == nil {
		debugLogger = NullLogger()
	}
	if _, err := url.ParseRequestURI(serviceBaseURL); err != nil {
		return nil, fmt.Errorf("invalid service URL %q: %w", serviceBaseURL, err)
	}

	h := &TestHarness{
		serviceBaseURL: strings.TrimSuffix(serviceBaseURL, "/"),
		client:         &http.Client{Timeout: requestTimeout},
		logger:         debugLogger,
	}

	if err := h.awaitService(ctx, startupTimeout, startupOutput); err != nil {
		return nil, err
	}
	return h, nil
}

// NewTestHarnessForClient creates a TestHarness without the startup query. It is meant for
// callers that already know the service is up, such as tests using httptest servers.
func NewTestHarnessForClient(serviceBaseURL string, client *http.Client, debugLogger Logger) *TestHarness {
	if client == nil {
		client = http.DefaultClient
	}
	if debugLogger == nil {
		debugLogger = NullLogger()
	}
	return &TestHarness{
		serviceBaseURL: strings.TrimSuffix(serviceBaseURL, "/"),
		client:         client,
		logger:         debugLogger,
	}
}

func (h *TestHarness) awaitService(ctx context.Context, timeout time.Duration, output io.Writer) error {
	if output == nil {
		output = io.Discard
	}
	fmt.Fprintf(output, "Connecting to service at %s", h.serviceBaseURL)

	deadline := time.Now().Add(timeout)
	for {
		fmt.Fprintf(output, ".")
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.serviceBaseURL, nil)
		if err != nil {
			return err
		}
		resp, err := h.client.Do(req)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode < 500 {
				fmt.Fprintln(output)
				h.logger.Printf("Service responded with status %d", resp.StatusCode)
				return nil
			}
			err = fmt.Errorf("service returned status code %d", resp.StatusCode)
		}
		if !time.Now().Before(deadline) {
			fmt.Fprintln(output)
			return fmt.Errorf("timed out, result of last query was: %w", err)
		}
		select {
		case <-ctx.Done():
			fmt.Fprintln(output)
			return ctx.Err()
		case <-time.After(serviceQueryInterval):
		}
	}
}

func (h *TestHarness) ServiceBaseURL() string {
	return h.serviceBaseURL
}

func (h *TestHarness) HTTPClient() *http.Client {
	return h.client
}

func (h *TestHarness) Logger() Logger {
	return h.logger
}

// ResolveURL turns an endpoint path from the fixture data into an absolute URL. Absolute URLs
// are returned unchanged; anything else is joined onto the service base URL.
func (h *TestHarness) ResolveURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return strings.TrimSuffix(path, "/")
	}
	if path == "" || path == "/" {
		return h.serviceBaseURL
	}
	return h.serviceBaseURL + "/" + strings.Trim(path, "/")
}
