package fixtures

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func parsePayload(t *testing.T, s string) Payload {
	var p Payload
	require.NoError(t, json.Unmarshal([]byte(s), &p))
	return p
}

func TestRawValuePrefersValueProperty(t *testing.T) {
	p := parsePayload(t, `{"other": "x", "value": "John"}`)
	assert.Equal(t, "John", p.RawValue().StringValue())
}

func TestRawValueFallsBackToFirstPropertyInDocumentOrder(t *testing.T) {
	p := parsePayload(t, `{"zeta": "first", "alpha": "second"}`)
	assert.Equal(t, "first", p.RawValue().StringValue())
}

func TestRawValueOfNullValueIsNull(t *testing.T) {
	p := parsePayload(t, `{"value": null}`)
	assert.True(t, p.RawValue().IsNull())
}

func TestRawValueKeepsNonStringTypes(t *testing.T) {
	p := parsePayload(t, `{"value": 12345}`)
	v := p.RawValue()
	assert.True(t, v.IsNumber())
	assert.Equal(t, 12345, v.IntValue())
}

func TestExpectedErrorSubstitutesLabel(t *testing.T) {
	e := Expectation{Error: ldvalue.NewOptionalString("{{field}} is required")}
	assert.Equal(t, "First name is required", e.ExpectedError("First name"))
}

func TestIDParamsText(t *testing.T) {
	assert.Equal(t, "abc-123", IDParams{ID: ldvalue.String("abc-123")}.Text())
	assert.Equal(t, "42", IDParams{ID: ldvalue.Int(42)}.Text())
}

func TestDefaultCatalogIsValid(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	assert.Equal(t, "/users", c.UserEndpoints.Base)
	assert.Equal(t, "John", c.ValidBase().GetByKey("firstName").StringValue())
	assert.Equal(t, 409, c.ConflictScenario().Expected.Status.IntValue())
	assert.NotEmpty(t, c.SharedSortingScenarios)
}

func TestValidateReportsEveryProblemWithItsPath(t *testing.T) {
	_, err := Parse([]byte(`{
		"userEndpoints": {"base": ""},
		"sharedNameScenarios": {
			"negative": [{"testName": "", "payload": {"value": null}}]
		},
		"sharedSortingScenarios": [{"testName": "x", "queryParam": "q", "field": "f", "order": "up"}]
	}`))
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "userEndpoints.base: must not be empty")
	assert.Contains(t, msg, "contractExpectations.successResponse: must list at least one property")
	assert.Contains(t, msg, "sharedUserScenarios.positive: must contain the valid base user")
	assert.Contains(t, msg, "sharedNameScenarios.negative[0].testName: must not be empty")
	assert.Contains(t, msg, "sharedNameScenarios.negative[0].expected.error: must be defined for a negative scenario")
	assert.Contains(t, msg, `sharedSortingScenarios[0].order: must be "asc" or "desc", got "up"`)
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	_, err := Parse([]byte(`{"userEndpoints": `))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed fixture JSON")
}

func TestLoadYAMLFile(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	data, err := json.Marshal(c)
	require.NoError(t, err)

	// JSON is a subset of YAML, so the encoded catalog is also a valid YAML document.
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c.UserEndpoints, loaded.UserEndpoints)
	require.Len(t, loaded.SharedNameScenarios.Negative, len(c.SharedNameScenarios.Negative))
	for i, s := range c.SharedNameScenarios.Negative {
		got := loaded.SharedNameScenarios.Negative[i].Payload
		assert.True(t, s.Payload.Value().Equal(got.Value()), "payload of %q", s.TestName)
		assert.True(t, s.Payload.RawValue().Equal(got.RawValue()), "raw value of %q", s.TestName)
	}
}

func TestLoadYAMLBlockStyle(t *testing.T) {
	doc := `
sharedNameScenarios:
  positive:
    - testName: first key wins
      payload:
        zeta: first
        alpha: second
`
	data, err := yamlToJSON([]byte(doc))
	require.NoError(t, err)
	var c Catalog
	require.NoError(t, json.Unmarshal(data, &c))
	require.Len(t, c.SharedNameScenarios.Positive, 1)
	assert.Equal(t, "first", c.SharedNameScenarios.Positive[0].Payload.RawValue().StringValue())
}

func TestYAMLAnchorsAreResolved(t *testing.T) {
	doc := `
base: &b
  x: 1
copy: *b
`
	data, err := yamlToJSON([]byte(doc))
	require.NoError(t, err)
	assert.JSONEq(t, `{"base": {"x": 1}, "copy": {"x": 1}}`, string(data))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading fixture file")
}
