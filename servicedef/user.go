// Package servicedef describes the HTTP surface of the User API: resource shapes, response
// envelopes and the fixed messages the service is expected to return.
package servicedef

const (
	// MessageUserCreated is the message of a successful POST.
	MessageUserCreated = "User successfully created"
	// MessageSuccess is the message of a successful PUT or DELETE.
	MessageSuccess = "Success"

	// SortQueryParam is the query parameter of GET {base} that selects the sort order.
	SortQueryParam = "sortBy"

	PropMessage = "message"
	PropData    = "data"
	PropErrors  = "errors"
	PropID      = "id"
	PropAddress = "address"
	PropEmail   = "email"

	PropFirstName = "firstName"
)

// Address is the nested address object of a user.
type Address struct {
	StreetAddress string  `json:"streetAddress"`
	Apartment     *string `json:"apartment"`
	City          string  `json:"city"`
	State         string  `json:"state"`
	PostalCode    string  `json:"postalCode"`
	CountryCode   string  `json:"countryCode"`
}

// User is the resource as returned by GET {base}/{id}.
type User struct {
	ID          string  `json:"id"`
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	Email       string  `json:"email"`
	PhoneNumber string  `json:"phoneNumber"`
	Address     Address `json:"address"`
}

// DataResponse is the success envelope of POST, GET and list requests.
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// MessageResponse is the success envelope of PUT and DELETE.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the envelope of every 4xx response.
type ErrorResponse struct {
	Errors []string `json:"errors"`
}

// AddressFields are the user properties that live under the nested address object.
var AddressFields = []string{
	"streetAddress",
	"apartment",
	"city",
	"state",
	"postalCode",
	"countryCode",
}

// IsAddressField reports whether key names a property of the nested address object.
func IsAddressField(key string) bool {
	for _, f := range AddressFields {
		if f == key {
			return true
		}
	}
	return false
}
