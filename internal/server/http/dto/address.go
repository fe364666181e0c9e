package dto

// AddressRequest is the body of the add-address endpoint.
type AddressRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
}

// AddressResponse is the single-address envelope.
type AddressResponse struct {
	Success bool         `json:"success"`
	Address *AddressView `json:"address,omitempty"`
}

// AddressesResponse is the listing envelope.
type AddressesResponse struct {
	Success   bool          `json:"success"`
	Addresses []AddressView `json:"addresses"`
}

// ProductsResponse is the catalog listing envelope.
type ProductsResponse struct {
	Success  bool          `json:"success"`
	Products []ProductView `json:"products"`
}
