package shade

import "errors"

var (
	// ErrUnknownVariant is returned when a variant value or name does not
	// name one of the three shading variants.
	ErrUnknownVariant = errors.New("shade: unknown variant")

	// ErrBindingMismatch reports that a shader's uniform layout or
	// input/output locations disagree with the binding contract the host
	// pipeline establishes. It is fatal at pipeline construction.
	ErrBindingMismatch = errors.New("shade: binding mismatch")

	// ErrOutputSize is returned by Dispatch when the output slice length
	// differs from the input slice length.
	ErrOutputSize = errors.New("shade: output length does not match input length")
)
