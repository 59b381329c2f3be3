// Package service wraps the booking engine for the front ends.  A Venue
// pairs one ledger with one mutex, so every front end (the interactive
// terminal or the HTTP API) goes through the same serialized entry points,
// and publishes booking events once a change is committed.
package service

import "errors"

// ErrVenueNotFound is returned by Registry.Get for unknown venue IDs.
// Handlers should translate this into an HTTP 404 response.
var ErrVenueNotFound = errors.New("venue not found")

// ErrInvalidTitle is returned when a venue is created without a title.
var ErrInvalidTitle = errors.New("movie title is required")
