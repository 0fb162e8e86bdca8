package services

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("all fields are required")
	ErrEmailTaken = errors.New("email is already registered")
	ErrBadCreds   = errors.New("invalid email or password")
	ErrBadToken   = errors.New("invalid or expired token")
	ErrEmptyCart  = errors.New("cart is empty")
)
