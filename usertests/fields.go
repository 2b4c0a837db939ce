package usertests

import "github.com/AleksandrSamusev/user-api-contract-tests/fixtures"

// CreateFields are the properties exercised by the creation validation matrix, with the
// labels the service uses for them in error messages.
func CreateFields(c *fixtures.Catalog) []FieldConfig {
	return append(UpdateFields(c),
		FieldConfig{Key: "streetAddress", Label: "Street address", Scenarios: c.AddressScenarios.StreetAddress},
		FieldConfig{Key: "apartment", Label: "Apartment", Scenarios: c.AddressScenarios.Apartment},
		FieldConfig{Key: "city", Label: "City", Scenarios: c.AddressScenarios.City},
		FieldConfig{Key: "state", Label: "State", Scenarios: c.AddressScenarios.State},
		FieldConfig{Key: "postalCode", Label: "Postal code", Scenarios: c.AddressScenarios.PostalCode},
		FieldConfig{Key: "countryCode", Label: "Country code", Scenarios: c.AddressScenarios.CountryCode},
	)
}

// UpdateFields are the top-level properties exercised by the update matrix.
func UpdateFields(c *fixtures.Catalog) []FieldConfig {
	return []FieldConfig{
		{Key: "firstName", Label: "First name", Scenarios: c.SharedNameScenarios},
		{Key: "lastName", Label: "Last name", Scenarios: c.SharedNameScenarios},
		{Key: "email", Label: "Email address", Scenarios: c.SharedEmailScenarios},
		{Key: "phoneNumber", Label: "Phone number", Scenarios: c.SharedPhoneNumberScenarios},
	}
}
