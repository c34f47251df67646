package punchout

import "github.com/crowdfox/oci-srm-server-mock/internal/domain/shared"

// Error codes specific to the punch-out lifecycle. The generic NOT_FOUND
// and CONCURRENCY_CONFLICT codes from the shared package are reused as-is.
const (
	// ErrCodeMalformedCallUp marks call-up data that cannot be turned into
	// an order document: missing call-up, missing required field, or an
	// unparsable price.
	ErrCodeMalformedCallUp = "MALFORMED_CALL_UP"
	// ErrCodeUpstreamFailure marks a transport or read failure while
	// contacting the confirmation endpoint.
	ErrCodeUpstreamFailure = "UPSTREAM_FAILURE"
)

// NewProcessNotFoundError reports an unknown process id.
func NewProcessNotFoundError(id string) *shared.DomainError {
	return shared.NewDomainErrorf(shared.ErrNotFound.Code, "Could not find process %s", id)
}

// NewMalformedCallUpError reports call-up data unusable for confirmation.
func NewMalformedCallUpError(format string, args ...any) *shared.DomainError {
	return shared.NewDomainErrorf(ErrCodeMalformedCallUp, format, args...)
}
