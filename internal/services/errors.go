package services

import "errors"

// Sentinel errors for missing referenced entities. Handlers map these to 404;
// everything else bubbles up as an opaque store failure.
var (
	ErrClientNotFound  = errors.New("client not found")
	ErrProductNotFound = errors.New("product not found")
	ErrInvoiceNotFound = errors.New("invoice not found")
)

// ValidationError reports a business-rule violation detected before any
// write occurs. Field names match the wire names used by the API.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Field + ": " + e.Reason
}

// AsValidation unwraps err into a ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
