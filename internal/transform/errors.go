package transform

import "errors"

var (
	// ErrRegionNotFound is returned when the disabled region cannot be located,
	// e.g. the marker is missing, the file was already transformed, or the
	// anchor group was renamed.
	ErrRegionNotFound = errors.New("disabled region not found")
	// ErrAmbiguousRegion is returned when the region pattern matches more than once.
	ErrAmbiguousRegion = errors.New("disabled region matched more than once")
	// ErrSubBlockNotFound is returned when no group with the target name exists
	// inside the disabled region.
	ErrSubBlockNotFound = errors.New("named group not found in disabled region")
	// ErrAmbiguousSubBlock is returned when the target name matches more than one group.
	ErrAmbiguousSubBlock = errors.New("named group matched more than once")
	// ErrUnbalancedSubBlock is returned when a group header has no matching close.
	ErrUnbalancedSubBlock = errors.New("named group has no matching close")
	// ErrInvalidOptions is returned for options the transformer cannot work with.
	ErrInvalidOptions = errors.New("invalid transform options")
)
