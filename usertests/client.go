package usertests

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"unicode/utf8"

	"github.com/AleksandrSamusev/user-api-contract-tests/framework"
	"github.com/AleksandrSamusev/user-api-contract-tests/servicedef"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// ErrMalformedBody is wrapped by Response.BodyErr when the service returned something that
// is not JSON.
var ErrMalformedBody = errors.New("response body is not valid JSON")

// UserClient issues requests against the User API's base endpoint. Each call makes exactly one
// attempt.
type UserClient struct {
	baseURL string
	http    *http.Client
	logger  framework.Logger
}

// Response is the outcome of one request. Body is the parsed JSON body; if the body could not
// be parsed, Body is null and BodyErr says why. An empty body is a null Body with no error.
type Response struct {
	Method  string
	URL     string
	Status  int
	Raw     []byte
	Body    ldvalue.Value
	BodyErr error
}

func NewUserClient(baseURL string, httpClient *http.Client, logger framework.Logger) *UserClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = framework.NullLogger()
	}
	return &UserClient{baseURL: baseURL, http: httpClient, logger: logger}
}

// WithLogger returns a copy of the client that writes request logs to the given logger.
func (c *UserClient) WithLogger(logger framework.Logger) *UserClient {
	c1 := *c
	c1.logger = logger
	return &c1
}

// Create sends POST {base}.
func (c *UserClient) Create(ctx context.Context, payload ldvalue.Value) (Response, error) {
	return c.Do(ctx, http.MethodPost, "", payload)
}

// Get sends GET {base}/{id}.
func (c *UserClient) Get(ctx context.Context, id string) (Response, error) {
	return c.Do(ctx, http.MethodGet, userPath(id), nil)
}

// List sends GET {base}, with a sortBy query parameter if sortBy is not empty.
func (c *UserClient) List(ctx context.Context, sortBy string) (Response, error) {
	path := ""
	if sortBy != "" {
		path = "?" + url.Values{servicedef.SortQueryParam: []string{sortBy}}.Encode()
	}
	return c.Do(ctx, http.MethodGet, path, nil)
}

// Update sends PUT {base}/{id}.
func (c *UserClient) Update(ctx context.Context, id string, payload ldvalue.Value) (Response, error) {
	return c.Do(ctx, http.MethodPut, userPath(id), payload)
}

// Delete sends DELETE {base}/{id}.
func (c *UserClient) Delete(ctx context.Context, id string) (Response, error) {
	return c.Do(ctx, http.MethodDelete, userPath(id), nil)
}

func userPath(id string) string {
	return "/" + url.PathEscape(id)
}

// Do sends a request to the base URL plus path. A nil body sends no body; anything else is
// encoded as JSON. The returned error is only for transport failures: any HTTP status is a
// successful exchange.
func (c *UserClient) Do(ctx context.Context, method, path string, body interface{}) (Response, error) {
	resp := Response{Method: method, URL: c.baseURL + path}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return resp, fmt.Errorf("encoding request body: %w", err)
		}
		c.logger.Printf(">> %s %s %s", method, resp.URL, string(data))
		reqBody = bytes.NewReader(data)
	} else {
		c.logger.Printf(">> %s %s", method, resp.URL)
	}

	req, err := http.NewRequestWithContext(ctx, method, resp.URL, reqBody)
	if err != nil {
		return resp, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	httpResp, err := c.http.Do(req)
	if err != nil {
		c.logger.Printf("<< request failed: %s", err)
		return resp, fmt.Errorf("%s %s: %w", method, resp.URL, err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	resp.Status = httpResp.StatusCode
	resp.Raw, err = io.ReadAll(httpResp.Body)
	if err != nil {
		return resp, fmt.Errorf("reading response body of %s %s: %w", method, resp.URL, err)
	}
	c.logger.Printf("<< %d %s", resp.Status, string(resp.Raw))

	resp.Body = ldvalue.Null()
	if len(bytes.TrimSpace(resp.Raw)) > 0 {
		var parsed ldvalue.Value
		if err := json.Unmarshal(resp.Raw, &parsed); err != nil {
			resp.BodyErr = fmt.Errorf("%w (status %d): %q", ErrMalformedBody, resp.Status, truncate(string(resp.Raw), 200))
		} else {
			resp.Body = parsed
		}
	}
	return resp, nil
}

// Data is the "data" property of the response envelope.
func (r Response) Data() ldvalue.Value {
	return r.Body.GetByKey(servicedef.PropData)
}

// CreatedID is the text of data.id, or "" if there is none.
func (r Response) CreatedID() string {
	id := r.Data().GetByKey(servicedef.PropID)
	if !isTruthy(id) {
		return ""
	}
	return valueText(id)
}

func (r Response) String() string {
	return fmt.Sprintf("%s %s -> %d %s", r.Method, r.URL, r.Status, truncate(string(r.Raw), 500))
}

// truncate shortens s to at most max bytes without splitting a UTF-8 sequence.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
