package valueobject

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Address is an immutable postal address used for branches, clients and organisations.
// Street and city are required; everything else is optional.
type Address struct {
	street     string
	suburb     string
	city       string
	state      string
	country    string
	postalCode string
}

// AddressOption configures optional address parts
type AddressOption func(*Address)

// WithSuburb sets the suburb
func WithSuburb(suburb string) AddressOption {
	return func(a *Address) { a.suburb = strings.TrimSpace(suburb) }
}

// WithState sets the state or province
func WithState(state string) AddressOption {
	return func(a *Address) { a.state = strings.TrimSpace(state) }
}

// WithCountry sets the country
func WithCountry(country string) AddressOption {
	return func(a *Address) { a.country = strings.TrimSpace(country) }
}

// WithPostalCode sets the postal code
func WithPostalCode(postalCode string) AddressOption {
	return func(a *Address) { a.postalCode = strings.TrimSpace(postalCode) }
}

// NewAddress creates a validated Address
func NewAddress(street, city string, opts ...AddressOption) (Address, error) {
	addr := Address{
		street: strings.TrimSpace(street),
		city:   strings.TrimSpace(city),
	}
	for _, opt := range opts {
		opt(&addr)
	}

	if addr.street == "" {
		return Address{}, fmt.Errorf("street cannot be empty")
	}
	if len(addr.street) > 200 {
		return Address{}, fmt.Errorf("street cannot exceed 200 characters")
	}
	if addr.city == "" {
		return Address{}, fmt.Errorf("city cannot be empty")
	}
	if len(addr.city) > 100 {
		return Address{}, fmt.Errorf("city cannot exceed 100 characters")
	}
	if len(addr.postalCode) > 20 {
		return Address{}, fmt.Errorf("postal code cannot exceed 20 characters")
	}
	return addr, nil
}

// RestoreAddress rebuilds an address from storage without validation
func RestoreAddress(street, suburb, city, state, country, postalCode string) Address {
	return Address{
		street:     street,
		suburb:     suburb,
		city:       city,
		state:      state,
		country:    country,
		postalCode: postalCode,
	}
}

func (a Address) Street() string     { return a.street }
func (a Address) Suburb() string     { return a.suburb }
func (a Address) City() string       { return a.city }
func (a Address) State() string      { return a.state }
func (a Address) Country() string    { return a.country }
func (a Address) PostalCode() string { return a.postalCode }

// IsEmpty reports whether no street or city is set
func (a Address) IsEmpty() bool {
	return a.street == "" && a.city == ""
}

// FullAddress returns the single-line form sent to the geocoder
func (a Address) FullAddress() string {
	parts := make([]string, 0, 6)
	for _, p := range []string{a.street, a.suburb, a.city, a.state, a.postalCode, a.country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Equals compares all address parts
func (a Address) Equals(other Address) bool {
	return a == other
}

// String implements fmt.Stringer
func (a Address) String() string {
	return a.FullAddress()
}

type addressJSON struct {
	Street     string `json:"street"`
	Suburb     string `json:"suburb,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	Country    string `json:"country,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(addressJSON{
		Street:     a.street,
		Suburb:     a.suburb,
		City:       a.city,
		State:      a.state,
		Country:    a.country,
		PostalCode: a.postalCode,
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (a *Address) UnmarshalJSON(data []byte) error {
	var v addressJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*a = RestoreAddress(v.Street, v.Suburb, v.City, v.State, v.Country, v.PostalCode)
	return nil
}
