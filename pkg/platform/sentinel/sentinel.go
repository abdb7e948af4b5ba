package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors.
//
//   - ErrNotFound: record does not exist in the store
//   - ErrConflict: the row changed underneath a compare-and-set update
//   - ErrInvalidReference: a foreign key points at a missing owner
//   - ErrUnavailable: backing service temporarily unavailable
//
// Validation failures are not sentinels; they travel as validation.Violations.
var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrInvalidReference = errors.New("invalid reference")
	ErrUnavailable      = errors.New("unavailable")
)
