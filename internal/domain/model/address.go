package model

import "time"

// Address is a saved delivery address. Orders reference addresses by id and
// never embed a copy.
type Address struct {
	ID        int64
	UserID    int64
	FirstName string
	LastName  string
	Email     string
	Street    string
	City      string
	State     string
	ZipCode   string
	Country   string
	Phone     string
	CreatedAt time.Time
}
