package usertests

import (
	"regexp"
	"testing"

	"github.com/AleksandrSamusev/user-api-contract-tests/fixtures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func makeBase() ldvalue.Value {
	return ldvalue.Parse([]byte(`{
		"firstName": "John",
		"lastName": "Doe",
		"email": "john.doe@example.com",
		"phoneNumber": "+12025550143",
		"address": {"streetAddress": "123 Main St", "city": "Springfield", "countryCode": "US"}
	}`))
}

func TestExpandTopLevelField(t *testing.T) {
	base := makeBase()
	field := FieldConfig{Key: "firstName", Label: "First name"}

	p := ExpandScenario(base, field, ldvalue.String("Mary-Jane"), "unique@test.com")

	assert.Equal(t, "Mary-Jane", p.GetByKey("firstName").StringValue())
	assert.Equal(t, "unique@test.com", p.GetByKey("email").StringValue())
	assert.Equal(t, "Doe", p.GetByKey("lastName").StringValue())
	assert.Equal(t, base.GetByKey("address").JSONString(), p.GetByKey("address").JSONString())
	assert.Equal(t, "John", base.GetByKey("firstName").StringValue(), "base must not be modified")
}

func TestExpandAddressField(t *testing.T) {
	base := makeBase()
	field := FieldConfig{Key: "city", Label: "City"}

	p := ExpandScenario(base, field, ldvalue.Null(), "unique@test.com")

	address := p.GetByKey("address")
	require.Equal(t, ldvalue.ObjectType, address.Type())
	assert.True(t, address.GetByKey("city").IsNull())
	assert.Contains(t, address.Keys(), "city")
	assert.Equal(t, "123 Main St", address.GetByKey("streetAddress").StringValue())
	assert.NotContains(t, p.Keys(), "city")
	assert.Equal(t, "Springfield", base.GetByKey("address").GetByKey("city").StringValue())
}

func TestExpandEmailFieldUsesScenarioValue(t *testing.T) {
	field := FieldConfig{Key: "email", Label: "Email address"}

	p := ExpandScenario(makeBase(), field, ldvalue.String("user@"), "unique@test.com")

	assert.Equal(t, "user@", p.GetByKey("email").StringValue())
}

func TestExpandNonStringValue(t *testing.T) {
	field := FieldConfig{Key: "firstName", Label: "First name"}

	p := ExpandScenario(makeBase(), field, ldvalue.Int(12345), "unique@test.com")

	assert.Equal(t, ldvalue.NumberType, p.GetByKey("firstName").Type())
	assert.Equal(t, 12345, p.GetByKey("firstName").IntValue())
}

func TestExpandScenarioWithFirstKeyPayload(t *testing.T) {
	var s fixtures.Scenario
	require.NoError(t, s.Payload.UnmarshalJSON([]byte(`{"streetAddress": "456 Oak Avenue"}`)))
	field := FieldConfig{Key: "streetAddress", Label: "Street address"}

	p := ExpandScenario(makeBase(), field, s.Payload.RawValue(), "unique@test.com")

	assert.Equal(t, "456 Oak Avenue", p.GetByKey("address").GetByKey("streetAddress").StringValue())
}

func TestEmailGenerator(t *testing.T) {
	gen := NewEmailGenerator()
	pattern := regexp.MustCompile(`^update\.[0-9]+\.[0-9a-f]{12}@test\.com$`)

	a, b := gen("update"), gen("update")

	assert.Regexp(t, pattern, a)
	assert.Regexp(t, pattern, b)
	assert.NotEqual(t, a, b)
}

func TestIsTruthy(t *testing.T) {
	for _, v := range []ldvalue.Value{ldvalue.Null(), ldvalue.Bool(false), ldvalue.Int(0), ldvalue.String("")} {
		assert.False(t, isTruthy(v), v.JSONString())
	}
	for _, v := range []ldvalue.Value{ldvalue.Bool(true), ldvalue.Int(7), ldvalue.String("abc"),
		ldvalue.ArrayOf(), ldvalue.ObjectBuild().Build()} {
		assert.True(t, isTruthy(v), v.JSONString())
	}
}

func TestNormalizedText(t *testing.T) {
	assert.Equal(t, "anna", normalizedText("firstName", ldvalue.String("  anna ")))
	assert.Equal(t, "Anna", normalizedText("firstName", ldvalue.String("Anna")))
	assert.Equal(t, "mixed.case@example.com", normalizedText("email", ldvalue.String(" Mixed.Case@Example.COM ")))
	assert.Equal(t, "42", normalizedText("apartment", ldvalue.Int(42)))
	assert.Equal(t, "null", normalizedText("city", ldvalue.Null()))
}
