package ideas

import "errors"

var (
	// ErrMalformedBody means the request body is not a JSON object.
	ErrMalformedBody = errors.New("malformed request body")
	// ErrMissingFields covers every validation failure of a submission.
	ErrMissingFields = errors.New("some of the fields are missing")
	// ErrMissingID means no _id was supplied for a lookup.
	ErrMissingID = errors.New("_id is required")
	// ErrInvalidID means the supplied _id is not a store identifier.
	ErrInvalidID = errors.New("invalid _id")
	// ErrNotFound means no idea has the requested _id.
	ErrNotFound = errors.New("idea not found")
)
