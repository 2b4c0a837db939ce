// Package fixtures loads the declarative catalog of scenarios that drives the User API test
// suite. The catalog is decoded into typed structs and validated once, so a malformed entry
// stops the run at startup instead of surfacing as a confusing test failure.
package fixtures

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/AleksandrSamusev/user-api-contract-tests/servicedef"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Catalog is the whole fixture document.
type Catalog struct {
	UserEndpoints              Endpoints            `json:"userEndpoints"`
	ContractExpectations       ContractExpectations `json:"contractExpectations"`
	SharedUserScenarios        ScenarioSet          `json:"sharedUserScenarios"`
	SharedNameScenarios        ScenarioSet          `json:"sharedNameScenarios"`
	SharedEmailScenarios       ScenarioSet          `json:"sharedEmailScenarios"`
	SharedPhoneNumberScenarios ScenarioSet          `json:"sharedPhoneNumberScenarios"`
	AddressScenarios           AddressScenarios     `json:"addressScenarios"`
	SharedSortingScenarios     []SortScenario       `json:"sharedSortingScenarios"`
	GetScenarios               IDScenarioSet        `json:"getScenarios"`
	DeleteScenarios            IDScenarioSet        `json:"deleteScenarios"`
}

type Endpoints struct {
	Base string `json:"base"`
}

// ContractExpectations lists the property names that response envelopes must contain.
type ContractExpectations struct {
	SuccessResponse []string `json:"successResponse"`
	UserObject      []string `json:"userObject"`
	AddressObject   []string `json:"addressObject"`
	ErrorResponse   []string `json:"errorResponse"`
}

type AddressScenarios struct {
	StreetAddress ScenarioSet `json:"streetAddressScenarios"`
	Apartment     ScenarioSet `json:"apartmentScenarios"`
	City          ScenarioSet `json:"cityScenarios"`
	State         ScenarioSet `json:"stateScenarios"`
	PostalCode    ScenarioSet `json:"postalCodeScenarios"`
	CountryCode   ScenarioSet `json:"countryCodeScenarios"`
}

type ScenarioSet struct {
	Positive []Scenario `json:"positive"`
	Negative []Scenario `json:"negative"`
}

// Scenario is one named payload with its expected outcome.
type Scenario struct {
	TestName string      `json:"testName"`
	Payload  Payload     `json:"payload"`
	Expected Expectation `json:"expected"`
}

// Expectation is the outcome a scenario asserts. Either field may be absent.
type Expectation struct {
	Status ldvalue.OptionalInt    `json:"status"`
	Error  ldvalue.OptionalString `json:"error"`
}

// Payload is a scenario's JSON object. It remembers the first key in document order, because
// a payload without a "value" property contributes its first property's value.
type Payload struct {
	value    ldvalue.Value
	firstKey string
}

type SortScenario struct {
	TestName   string `json:"testName"`
	QueryParam string `json:"queryParam"`
	Field      string `json:"field"`
	Order      string `json:"order"`
}

type IDScenarioSet struct {
	Negative []IDScenario `json:"negative"`
}

// IDScenario exercises an endpoint that takes a user ID in its path.
type IDScenario struct {
	TestName string      `json:"testName"`
	Params   IDParams    `json:"params"`
	Expected Expectation `json:"expected"`
}

type IDParams struct {
	ID ldvalue.Value `json:"id"`
}

// FieldPlaceholder is replaced by a field's label in expected error templates.
const FieldPlaceholder = "{{field}}"

func (p *Payload) UnmarshalJSON(data []byte) error {
	var v ldvalue.Value
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	p.value = v
	p.firstKey = ""
	if v.Type() != ldvalue.ObjectType {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return err
	}
	if dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		p.firstKey, _ = tok.(string)
	}
	return nil
}

func (p Payload) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.value)
}

// Value returns the whole payload object.
func (p Payload) Value() ldvalue.Value {
	return p.value
}

// RawValue is the value a field scenario injects: the "value" property if it is present and
// not null, otherwise the first property of the payload.
func (p Payload) RawValue() ldvalue.Value {
	if v := p.value.GetByKey("value"); !v.IsNull() {
		return v
	}
	if p.firstKey == "" {
		return ldvalue.Null()
	}
	return p.value.GetByKey(p.firstKey)
}

// ExpectedError returns the scenario's error template with the placeholder replaced by label.
func (e Expectation) ExpectedError(label string) string {
	return strings.ReplaceAll(e.Error.StringValue(), FieldPlaceholder, label)
}

// Text is the ID as it appears in a URL path.
func (p IDParams) Text() string {
	if p.ID.IsString() {
		return p.ID.StringValue()
	}
	return p.ID.JSONString()
}

// ValidBase is the canonical valid user that field scenarios are merged into.
func (c *Catalog) ValidBase() ldvalue.Value {
	return c.SharedUserScenarios.Positive[0].Payload.Value()
}

// ConflictScenario is the scenario whose email must be rejected the second time it is used.
func (c *Catalog) ConflictScenario() Scenario {
	return c.SharedUserScenarios.Negative[0]
}

// Validate checks every entry the suite depends on and reports all problems at once, each
// prefixed with its location in the document.
func (c *Catalog) Validate() error {
	var errs []error
	fail := func(path, format string, args ...interface{}) {
		errs = append(errs, fmt.Errorf("%s: %s", path, fmt.Sprintf(format, args...)))
	}

	if strings.TrimSpace(c.UserEndpoints.Base) == "" {
		fail("userEndpoints.base", "must not be empty")
	}

	ce := c.ContractExpectations
	for _, entry := range []struct {
		name string
		list []string
	}{
		{"successResponse", ce.SuccessResponse},
		{"userObject", ce.UserObject},
		{"addressObject", ce.AddressObject},
		{"errorResponse", ce.ErrorResponse},
	} {
		if len(entry.list) == 0 {
			fail("contractExpectations."+entry.name, "must list at least one property")
		}
	}

	users := c.SharedUserScenarios
	if len(users.Positive) == 0 {
		fail("sharedUserScenarios.positive", "must contain the valid base user")
	} else {
		base := users.Positive[0].Payload.Value()
		if base.Type() != ldvalue.ObjectType {
			fail("sharedUserScenarios.positive[0].payload", "must be an object")
		} else if base.GetByKey(servicedef.PropAddress).Type() != ldvalue.ObjectType {
			fail("sharedUserScenarios.positive[0].payload.address", "must be an object")
		}
	}
	if len(users.Negative) == 0 {
		fail("sharedUserScenarios.negative", "must contain the duplicate-email scenario")
	} else {
		s := users.Negative[0]
		if !s.Payload.Value().GetByKey(servicedef.PropEmail).IsString() {
			fail("sharedUserScenarios.negative[0].payload.email", "must be a string")
		}
		if !s.Expected.Error.IsDefined() {
			fail("sharedUserScenarios.negative[0].expected.error", "must be defined")
		}
	}

	for _, named := range c.fieldScenarioSets() {
		validateScenarioSet(named.path, named.set, fail)
	}

	for i, s := range c.SharedSortingScenarios {
		path := fmt.Sprintf("sharedSortingScenarios[%d]", i)
		if s.TestName == "" {
			fail(path+".testName", "must not be empty")
		}
		if s.QueryParam == "" {
			fail(path+".queryParam", "must not be empty")
		}
		if s.Field == "" {
			fail(path+".field", "must not be empty")
		}
		if s.Order != OrderAsc && s.Order != OrderDesc {
			fail(path+".order", "must be %q or %q, got %q", OrderAsc, OrderDesc, s.Order)
		}
	}

	validateIDScenarios("getScenarios.negative", c.GetScenarios.Negative, fail)
	validateIDScenarios("deleteScenarios.negative", c.DeleteScenarios.Negative, fail)

	return errors.Join(errs...)
}

type namedScenarioSet struct {
	path string
	set  ScenarioSet
}

func (c *Catalog) fieldScenarioSets() []namedScenarioSet {
	return []namedScenarioSet{
		{"sharedNameScenarios", c.SharedNameScenarios},
		{"sharedEmailScenarios", c.SharedEmailScenarios},
		{"sharedPhoneNumberScenarios", c.SharedPhoneNumberScenarios},
		{"addressScenarios.streetAddressScenarios", c.AddressScenarios.StreetAddress},
		{"addressScenarios.apartmentScenarios", c.AddressScenarios.Apartment},
		{"addressScenarios.cityScenarios", c.AddressScenarios.City},
		{"addressScenarios.stateScenarios", c.AddressScenarios.State},
		{"addressScenarios.postalCodeScenarios", c.AddressScenarios.PostalCode},
		{"addressScenarios.countryCodeScenarios", c.AddressScenarios.CountryCode},
	}
}

func validateScenarioSet(path string, set ScenarioSet, fail func(string, string, ...interface{})) {
	check := func(kind string, list []Scenario, needError bool) {
		for i, s := range list {
			p := fmt.Sprintf("%s.%s[%d]", path, kind, i)
			if s.TestName == "" {
				fail(p+".testName", "must not be empty")
			}
			v := s.Payload.Value()
			if v.Type() != ldvalue.ObjectType || v.Count() == 0 {
				fail(p+".payload", "must be a non-empty object")
			}
			if needError && !s.Expected.Error.IsDefined() {
				fail(p+".expected.error", "must be defined for a negative scenario")
			}
		}
	}
	check("positive", set.Positive, false)
	check("negative", set.Negative, true)
}

func validateIDScenarios(path string, list []IDScenario, fail func(string, string, ...interface{})) {
	for i, s := range list {
		p := fmt.Sprintf("%s[%d]", path, i)
		if s.TestName == "" {
			fail(p+".testName", "must not be empty")
		}
		if s.Params.ID.IsNull() {
			fail(p+".params.id", "must be defined")
		}
		if !s.Expected.Status.IsDefined() {
			fail(p+".expected.status", "must be defined")
		}
		if !s.Expected.Error.IsDefined() {
			fail(p+".expected.error", "must be defined")
		}
	}
}
