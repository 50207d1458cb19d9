package domain

import "errors"

var (
	// ErrNoActiveDocument is returned when a grep is requested without a document
	ErrNoActiveDocument = errors.New("no active document")
	// ErrMissingName is returned when save or delete is called with an empty name
	ErrMissingName = errors.New("missing name")
	// ErrConfigNotFound is returned when loading an unknown configuration
	ErrConfigNotFound = errors.New("config not found")
	// ErrMalformedImport is returned when import text can't be used
	ErrMalformedImport = errors.New("malformed import")
)
