package mockapi

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/AleksandrSamusev/user-api-contract-tests/servicedef"
)

// fieldRule describes how one user property is validated. Values are trimmed before any rule
// other than the type check is applied.
type fieldRule struct {
	key      string
	label    string
	optional bool
	minLen   int
	maxLen   int
	pattern  *regexp.Regexp
	message  string
}

var (
	namePattern     = regexp.MustCompile(`^[\p{L} '-]+$`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern    = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
	cityPattern     = regexp.MustCompile(`^[\p{L} -]+$`)
	statePattern    = regexp.MustCompile(`^[A-Za-z]{2}$`)
	postalPattern   = regexp.MustCompile(`^[0-9]{5}(-[0-9]{4})?$`)
	countryPattern  = regexp.MustCompile(`^[A-Za-z]{2}$`)
	nameLengthError = "must be between 2 and 50 characters"
)

var userRules = []fieldRule{
	{key: "firstName", label: "First name", minLen: 2, maxLen: 50, pattern: namePattern,
		message: "can only contain letters, spaces, hyphens and apostrophes"},
	{key: "lastName", label: "Last name", minLen: 2, maxLen: 50, pattern: namePattern,
		message: "can only contain letters, spaces, hyphens and apostrophes"},
	{key: "email", label: "Email address", pattern: emailPattern, message: "must be a valid email"},
	{key: "phoneNumber", label: "Phone number", pattern: phonePattern, message: "must be a valid phone number"},
}

var addressRules = []fieldRule{
	{key: "streetAddress", label: "Street address", maxLen: 100},
	{key: "apartment", label: "Apartment", optional: true, maxLen: 20},
	{key: "city", label: "City", pattern: cityPattern, message: "can only contain letters, spaces and hyphens"},
	{key: "state", label: "State", pattern: statePattern, message: "must be a 2-letter code"},
	{key: "postalCode", label: "Postal code", pattern: postalPattern, message: "must be a valid postal code"},
	{key: "countryCode", label: "Country code", pattern: countryPattern,
		message: "must be a valid ISO 3166-1 alpha-2 code"},
}

// check returns the first validation error for the value, or "" if it is valid. A nil value
// means the property was absent or null.
func (r fieldRule) check(value interface{}) string {
	if value == nil {
		if r.optional {
			return ""
		}
		return r.label + " is required"
	}
	s, ok := value.(string)
	if !ok {
		return r.label + " must be a string"
	}
	s = strings.TrimSpace(s)
	if s == "" {
		if r.optional {
			return ""
		}
		return r.label + " is required"
	}
	n := utf8.RuneCountInString(s)
	if r.minLen > 0 && r.maxLen > 0 && (n < r.minLen || n > r.maxLen) {
		return fmt.Sprintf("%s %s", r.label, nameLengthError)
	}
	if r.maxLen > 0 && n > r.maxLen {
		return fmt.Sprintf("%s must not exceed %d characters", r.label, r.maxLen)
	}
	if r.pattern != nil && !r.pattern.MatchString(s) {
		return r.label + " " + r.message
	}
	return ""
}

// validate checks a decoded request body and returns every problem found. The address may be
// absent, in which case each of its required properties is reported.
func validate(body map[string]interface{}) []string {
	var errs []string
	for _, r := range userRules {
		if msg := r.check(body[r.key]); msg != "" {
			errs = append(errs, msg)
		}
	}
	address, ok := body[servicedef.PropAddress].(map[string]interface{})
	if !ok && body[servicedef.PropAddress] != nil {
		return append(errs, "Address must be an object")
	}
	for _, r := range addressRules {
		if msg := r.check(address[r.key]); msg != "" {
			errs = append(errs, msg)
		}
	}
	return errs
}

// toUser builds the stored form of a validated body: trimmed, with the email lower-cased.
func toUser(id string, body map[string]interface{}) servicedef.User {
	address, _ := body[servicedef.PropAddress].(map[string]interface{})
	text := func(m map[string]interface{}, key string) string {
		s, _ := m[key].(string)
		return strings.TrimSpace(s)
	}
	u := servicedef.User{
		ID:          id,
		FirstName:   text(body, "firstName"),
		LastName:    text(body, "lastName"),
		Email:       strings.ToLower(text(body, servicedef.PropEmail)),
		PhoneNumber: text(body, "phoneNumber"),
		Address: servicedef.Address{
			StreetAddress: text(address, "streetAddress"),
			City:          text(address, "city"),
			State:         text(address, "state"),
			PostalCode:    text(address, "postalCode"),
			CountryCode:   text(address, "countryCode"),
		},
	}
	if apt := text(address, "apartment"); apt != "" {
		u.Address.Apartment = &apt
	}
	return u
}

// mergeForUpdate overlays the non-null properties of body onto the stored user, so that a PUT
// which leaves a property out or sends null for it keeps the stored value.
func mergeForUpdate(existing servicedef.User, body map[string]interface{}) map[string]interface{} {
	address := map[string]interface{}{
		"streetAddress": existing.Address.StreetAddress,
		"city":          existing.Address.City,
		"state":         existing.Address.State,
		"postalCode":    existing.Address.PostalCode,
		"countryCode":   existing.Address.CountryCode,
	}
	if existing.Address.Apartment != nil {
		address["apartment"] = *existing.Address.Apartment
	}
	merged := map[string]interface{}{
		"firstName":   existing.FirstName,
		"lastName":    existing.LastName,
		"email":       existing.Email,
		"phoneNumber": existing.PhoneNumber,
	}
	for k, v := range body {
		if v == nil || k == servicedef.PropAddress || k == servicedef.PropID {
			continue
		}
		merged[k] = v
	}
	if newAddress, ok := body[servicedef.PropAddress].(map[string]interface{}); ok {
		for k, v := range newAddress {
			if v != nil {
				address[k] = v
			}
		}
	} else if body[servicedef.PropAddress] != nil {
		merged[servicedef.PropAddress] = body[servicedef.PropAddress]
		return merged
	}
	merged[servicedef.PropAddress] = address
	return merged
}
