// Package common holds request and response shapes shared by the
// application services.
package common

import (
	"github.com/loro/backend/internal/domain/shared"
	"github.com/loro/backend/internal/domain/shared/valueobject"
)

// AddressRequest is a postal address in a request body
type AddressRequest struct {
	Street     string `json:"street" binding:"required,max=200"`
	Suburb     string `json:"suburb" binding:"max=100"`
	City       string `json:"city" binding:"required,max=100"`
	State      string `json:"state" binding:"max=100"`
	Country    string `json:"country" binding:"max=100"`
	PostalCode string `json:"postal_code" binding:"max=20"`
}

// ToAddress validates the request and builds the value object
func (r AddressRequest) ToAddress() (valueobject.Address, error) {
	addr, err := valueobject.NewAddress(r.Street, r.City,
		valueobject.WithSuburb(r.Suburb),
		valueobject.WithState(r.State),
		valueobject.WithCountry(r.Country),
		valueobject.WithPostalCode(r.PostalCode),
	)
	if err != nil {
		return valueobject.Address{}, shared.WrapDomainError("INVALID_ADDRESS", "Invalid address", err)
	}
	return addr, nil
}

// AddressResponse is a postal address in a response body
type AddressResponse struct {
	Street      string `json:"street"`
	Suburb      string `json:"suburb,omitempty"`
	City        string `json:"city"`
	State       string `json:"state,omitempty"`
	Country     string `json:"country,omitempty"`
	PostalCode  string `json:"postal_code,omitempty"`
	FullAddress string `json:"full_address"`
}

// ToAddressResponse converts an address value object
func ToAddressResponse(a valueobject.Address) AddressResponse {
	return AddressResponse{
		Street:      a.Street(),
		Suburb:      a.Suburb(),
		City:        a.City(),
		State:       a.State(),
		Country:     a.Country(),
		PostalCode:  a.PostalCode(),
		FullAddress: a.FullAddress(),
	}
}

// LocationRequest is a GPS fix
type LocationRequest struct {
	Lat float64 `json:"lat" binding:"min=-90,max=90"`
	Lng float64 `json:"lng" binding:"min=-180,max=180"`
}

// ToCoordinates validates the fix
func (r LocationRequest) ToCoordinates() (valueobject.Coordinates, error) {
	c, err := valueobject.NewCoordinates(r.Lat, r.Lng)
	if err != nil {
		return valueobject.Coordinates{}, shared.WrapDomainError("INVALID_COORDINATES", "Invalid coordinates", err)
	}
	return c, nil
}

// OptionalCoordinates converts a nil-able location
func OptionalCoordinates(r *LocationRequest) (*valueobject.Coordinates, error) {
	if r == nil {
		return nil, nil
	}
	c, err := r.ToCoordinates()
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListRequest carries the common list query parameters
type ListRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,max=50"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search   string `form:"search" binding:"max=100"`
}

// ToFilter converts the request into a normalized shared.Filter
func (r ListRequest) ToFilter() shared.Filter {
	f := shared.DefaultFilter()
	f.Page = r.Page
	f.PageSize = r.PageSize
	f.Search = r.Search
	if r.OrderBy != "" {
		f.OrderBy = r.OrderBy
	}
	if r.OrderDir != "" {
		f.OrderDir = r.OrderDir
	}
	return f.Normalize(shared.DefaultPageSize)
}
