// Package services defines the business logic for order placement, balances,
// and panel queries. This file centralizes common service-level error values
// so that they can be consistently returned by service methods and checked by
// callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing messages or HTTP status codes is performed at the
// handler layer.
package services

import "errors"

var (
	// ErrNoSession indicates step input arrived for a (chat, user) pair with
	// no active order session. The caller must start an order first.
	ErrNoSession = errors.New("no active order session")

	// ErrCooldownActive is returned when a user triggers order starts faster
	// than the configured cooldown allows.
	ErrCooldownActive = errors.New("cooldown active")

	// ErrInvalidAmount is returned when an admin credit amount is not a
	// positive integer.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInvalidMarkup is returned when a markup override is negative.
	ErrInvalidMarkup = errors.New("markup percent must not be negative")

	// ErrOrderNotFound indicates no order matches the given identifier.
	ErrOrderNotFound = errors.New("order not found")
)
