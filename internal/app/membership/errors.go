// internal/app/membership/errors.go
package membership

import "errors"

// Stable error taxonomy for membership operations. Callers classify with
// errors.Is; the HTTP layer maps each kind to a status code and a wire kind
// string via Kind.
var (
	ErrGroupNotFound          = errors.New("group not found")
	ErrNotAuthorized          = errors.New("not authorized")
	ErrInvalidState           = errors.New("operation not valid in current membership state")
	ErrRateLimited            = errors.New("too many requests, try again later")
	ErrConcurrentModification = errors.New("group was modified concurrently, retry")
	ErrLastAdminProtected     = errors.New("the last admin cannot leave or be removed")
	ErrStoreUnavailable       = errors.New("group storage unavailable")
)

// Kind returns the wire identifier for a membership error, or "internal" for
// anything outside the taxonomy.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrGroupNotFound):
		return "group_not_found"
	case errors.Is(err, ErrNotAuthorized):
		return "not_authorized"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrConcurrentModification):
		return "concurrent_modification"
	case errors.Is(err, ErrLastAdminProtected):
		return "last_admin_protected"
	case errors.Is(err, ErrStoreUnavailable):
		return "store_unavailable"
	default:
		return "internal"
	}
}

// isDomainErr reports whether err is already one of the taxonomy errors
// (possibly wrapped), as opposed to a transport failure from the store.
func isDomainErr(err error) bool {
	for _, sentinel := range []error{
		ErrGroupNotFound,
		ErrNotAuthorized,
		ErrInvalidState,
		ErrRateLimited,
		ErrConcurrentModification,
		ErrLastAdminProtected,
		ErrStoreUnavailable,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
