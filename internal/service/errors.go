package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found, including
	// when it belongs to a different user
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCredentials is returned on login failure. The same error
	// covers an unknown email and a wrong password so the response does
	// not reveal which accounts exist.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken is returned when registering with an email that
	// already has an account
	ErrEmailTaken = errors.New("an account with this email already exists")

	// ErrDuplicateCustomer is returned when a customer with the same
	// name, firm and email already exists for the user
	ErrDuplicateCustomer = errors.New("customer already exists")
)
