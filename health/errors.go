package health

import "errors"

var (
	// ErrIndicatorNotFound indicates the named indicator is not registered.
	ErrIndicatorNotFound = errors.New("health: indicator not found")

	// ErrGroupNotFound indicates the named group does not exist.
	ErrGroupNotFound = errors.New("health: group not found")

	// ErrInvalidRegistration indicates a registration that names no check,
	// or names both a bare check and an Indicator.
	ErrInvalidRegistration = errors.New("health: invalid indicator registration")
)
