package domain

import "errors"

var (
	ErrPropertyNotFound = errors.New("property not found")
	ErrIdentityNotFound = errors.New("identity not found")
	ErrInvalidCatalog   = errors.New("invalid catalog data")
	ErrInvalidFilter    = errors.New("invalid filter parameters")
	ErrInvalidView      = errors.New("invalid view")
	ErrNotInDetail      = errors.New("property is not open in the detail view")
	ErrSessionNotFound  = errors.New("session not found")

	// User-precondition violations. These are surfaced to the user as a
	// notice and are not system errors.
	ErrLoginRequired = errors.New("please log in to continue")
	ErrEmptyMessage  = errors.New("message text must not be blank")
)
