package types

// Address is the flat value record produced at the adapter boundary. The
// backend's nested country object is collapsed into the two-letter code.
type Address struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	StreetAddress1 string `json:"street_address1"`
	StreetAddress2 string `json:"street_address2,omitempty"`
	City           string `json:"city"`
	PostalCode     string `json:"postal_code"`
	Country        string `json:"country"`
	Phone          string `json:"phone,omitempty"`
}
