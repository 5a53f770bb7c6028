package exception

import "errors"

var (
	ErrVenueLiveNotImplemented = errors.New("venue: live trading not implemented")
	ErrVenueUnexpectedStatus   = errors.New("venue: unexpected response status")
	ErrVenueDecodeResponseBody = errors.New("venue: decode response body")
	ErrVenueMissingCredentials = errors.New("venue: missing credentials")
)
