package service

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")

	// ErrCannotBind deliberately collapses every bind precondition failure
	// (missing quote, wrong broker, not accepted, lost race) into one
	// indistinguishable signal.
	ErrCannotBind = errors.New("cannot bind policy from quote")
)
