package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so the service layer can translate them uniformly at the boundary.
//
// ErrNotFound marks an absent record, attachment list, or blob: an explicit
// "absent" result, distinct from a broken request. ErrInvalidArgument marks a
// request the system cannot interpret, such as an unknown attachment kind;
// it is surfaced immediately with no retry.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
)
