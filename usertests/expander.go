package usertests

import (
	"fmt"
	"strings"
	"time"

	"github.com/AleksandrSamusev/user-api-contract-tests/fixtures"
	"github.com/AleksandrSamusev/user-api-contract-tests/servicedef"

	"github.com/google/uuid"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const uniqueEmailDomain = "test.com"

// FieldConfig ties a user property to the scenarios that exercise it and to the label the
// service uses for it in error messages.
type FieldConfig struct {
	Key       string
	Label     string
	Scenarios fixtures.ScenarioSet
}

// IsAddressField reports whether the property lives under the nested address object.
func (f FieldConfig) IsAddressField() bool {
	return servicedef.IsAddressField(f.Key)
}

// EmailSource returns a new email address for each call. The prefix makes the address
// recognizable in the service's data.
type EmailSource func(prefix string) string

// NewEmailGenerator returns an EmailSource whose addresses combine the current time with a
// random suffix, so that concurrent runs against the same service do not collide.
func NewEmailGenerator() EmailSource {
	return func(prefix string) string {
		suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
		return fmt.Sprintf("%s.%d.%s@%s", prefix, time.Now().UnixMilli(), suffix, uniqueEmailDomain)
	}
}

// ExpandScenario builds the request payload for one field scenario: base with its email
// replaced by email and the field under test replaced by raw. Address fields are replaced
// inside the nested address object. When the field under test is the email itself, raw wins.
func ExpandScenario(base ldvalue.Value, field FieldConfig, raw ldvalue.Value, email string) ldvalue.Value {
	payload := withProperty(base, servicedef.PropEmail, ldvalue.String(email))
	if field.IsAddressField() {
		address := withProperty(base.GetByKey(servicedef.PropAddress), field.Key, raw)
		return withProperty(payload, servicedef.PropAddress, address)
	}
	return withProperty(payload, field.Key, raw)
}

// withProperty returns a copy of obj with one property set. obj itself is never modified; a
// non-object obj is treated as an empty object.
func withProperty(obj ldvalue.Value, key string, value ldvalue.Value) ldvalue.Value {
	b := ldvalue.ObjectBuild()
	if obj.Type() == ldvalue.ObjectType {
		for _, k := range obj.Keys() {
			if k != key {
				b.Set(k, obj.GetByKey(k))
			}
		}
	}
	b.Set(key, value)
	return b.Build()
}

// valueText is the text form of a JSON value as a string comparison sees it: strings are
// used as they are, anything else by its JSON representation.
func valueText(v ldvalue.Value) string {
	if v.IsString() {
		return v.StringValue()
	}
	return v.JSONString()
}

// isTruthy follows JavaScript truthiness, which is what decides whether an ID was returned.
func isTruthy(v ldvalue.Value) bool {
	switch v.Type() {
	case ldvalue.NullType:
		return false
	case ldvalue.BoolType:
		return v.BoolValue()
	case ldvalue.NumberType:
		return v.Float64Value() != 0
	case ldvalue.StringType:
		return v.StringValue() != ""
	default:
		return true
	}
}

// normalizedText is the form in which a submitted value is compared with the stored one:
// trimmed, and lower-cased as well for emails.
func normalizedText(key string, v ldvalue.Value) string {
	s := strings.TrimSpace(valueText(v))
	if key == servicedef.PropEmail {
		s = strings.ToLower(s)
	}
	return s
}
