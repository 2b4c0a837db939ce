package usertests

import (
	"net/http"
	"strings"

	"github.com/AleksandrSamusev/user-api-contract-tests/fixtures"
	"github.com/AleksandrSamusev/user-api-contract-tests/servicedef"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// RequireResponse fails the test immediately if the request could not be completed. It is
// meant to wrap a UserClient call directly: t.RequireResponse(t.Client().Get(ctx, id)).
func (t *T) RequireResponse(resp Response, err error) Response {
	require.NoError(t, err, "request to the service failed")
	return resp
}

// RequireStatus fails the test immediately if the response status is not the expected one.
// The response body is included in the failure so the service's explanation is visible.
func RequireStatus(t *T, resp Response, expected int) {
	if resp.Status != expected {
		require.Fail(t, "unexpected response status",
			"expected %d but got %d\n%s", expected, resp.Status, resp)
	}
}

// RequireJSONBody fails the test immediately if the body could not be parsed as JSON.
func RequireJSONBody(t *T, resp Response) ldvalue.Value {
	require.NoError(t, resp.BodyErr, "response to %s %s", resp.Method, resp.URL)
	return resp.Body
}

// CheckContract verifies that obj has every required property. It does not stop at the first
// missing property, so one run reports all of them.
func CheckContract(t *T, obj ldvalue.Value, required []string, where string) {
	if obj.Type() != ldvalue.ObjectType {
		assert.Fail(t, "contract check failed", "%s is not a JSON object: %s", where, obj.JSONString())
		return
	}
	keys := obj.Keys()
	for _, prop := range required {
		assert.Contains(t, keys, prop, "%s is missing required property %q", where, prop)
	}
}

// errorList returns the strings in the "errors" array of an error envelope.
func errorList(body ldvalue.Value) []string {
	errs := body.GetByKey(servicedef.PropErrors)
	ret := make([]string, 0, errs.Count())
	for i := 0; i < errs.Count(); i++ {
		ret = append(ret, valueText(errs.GetByIndex(i)))
	}
	return ret
}

// CheckErrorContains verifies that some entry of the errors array contains expected. A
// substring match allows services that add context around their messages.
func CheckErrorContains(t *T, body ldvalue.Value, expected string) {
	errs := errorList(body)
	for _, e := range errs {
		if strings.Contains(e, expected) {
			return
		}
	}
	assert.Fail(t, "expected error message not found",
		"expected error list to contain: %q\nactual errors: %s", expected,
		body.GetByKey(servicedef.PropErrors).JSONString())
}

// CheckErrorExact verifies that the errors array has an entry exactly equal to expected.
func CheckErrorExact(t *T, body ldvalue.Value, expected string) {
	assert.Contains(t, errorList(body), expected, "actual errors: %s",
		body.GetByKey(servicedef.PropErrors).JSONString())
}

// CheckPersisted fetches the user and compares the stored value of field with expected, both
// normalized.
func CheckPersisted(t *T, id string, field FieldConfig, expected ldvalue.Value) {
	resp := t.RequireResponse(t.Client().Get(t.Ctx(), id))
	RequireStatus(t, resp, http.StatusOK)
	data := RequireJSONBody(t, resp).GetByKey(servicedef.PropData)

	stored := data.GetByKey(field.Key)
	where := "data." + field.Key
	if field.IsAddressField() {
		stored = data.GetByKey(servicedef.PropAddress).GetByKey(field.Key)
		where = "data.address." + field.Key
	}
	assert.Equal(t, normalizedText(field.Key, expected), normalizedText(field.Key, stored),
		"stored value of %s does not match what was sent", where)
}

// checkRejected applies the policy for negative field scenarios: the service must answer 400
// with the scenario's templated message. The one exception is a null value that the service
// accepts with 200 by ignoring it; that is reported as a warning unless StrictNull is set.
func checkRejected(t *T, resp Response, field FieldConfig, scenario fixtures.Scenario) {
	raw := scenario.Payload.RawValue()
	if raw.IsNull() && resp.Status == http.StatusOK {
		if t.env.opts.StrictNull {
			assert.Fail(t, "null value was accepted",
				"field %s ignored a null value with status 200 instead of rejecting it", field.Key)
		} else {
			t.Warn("field %s ignored null value instead of rejecting it", field.Key)
		}
		return
	}
	RequireStatus(t, resp, http.StatusBadRequest)
	body := RequireJSONBody(t, resp)
	if scenario.Expected.Error.IsDefined() {
		CheckErrorContains(t, body, scenario.Expected.ExpectedError(field.Label))
	}
}
