package services

import "errors"

var (
	// ErrProductNotFound is returned when an order names a product that does
	// not exist.
	ErrProductNotFound = errors.New("product not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrWrongPassword   = errors.New("wrong password")
)
