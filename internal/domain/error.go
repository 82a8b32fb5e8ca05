package domain

import "errors"

var (
	ErrLocationNotFound = errors.New("location not found")
	ErrGeocodeTimeout   = errors.New("geocoding request timed out")
	ErrMalformedDate    = errors.New("malformed date")
	ErrMissingDate      = errors.New("missing date")
	ErrMissingColumn    = errors.New("missing required column")
)
