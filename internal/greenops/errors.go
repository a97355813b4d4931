package greenops

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors for equivalency calculations.
var (
	// ErrInvalidUnit indicates an unrecognized carbon unit.
	ErrInvalidUnit = constError("invalid carbon unit")

	// ErrNegativeValue indicates a negative carbon value.
	ErrNegativeValue = constError("negative carbon value")

	// ErrCalculationOverflow indicates a value too large (or not finite) to
	// calculate with.
	ErrCalculationOverflow = constError("calculation overflow")
)
