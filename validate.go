package mdhtml

import "pkt.systems/mdhtml/internal/classify"

var (
	// ErrInvalidUTF8 reports invalid UTF-8 input.
	ErrInvalidUTF8 = classify.ErrInvalidUTF8
	// ErrBinaryInput reports input that appears to be binary.
	ErrBinaryInput = classify.ErrBinaryInput
	// ErrNestingTooDeep reports block quotes or list items nested deeper
	// than MaxNestingDepth.
	ErrNestingTooDeep = classify.ErrNestingTooDeep
)

// MaxNestingDepth is the deepest container nesting Exec accepts.
const MaxNestingDepth = classify.MaxNestingDepth

// ValidateInput returns an error if the input is not valid UTF-8 or appears binary.
func ValidateInput(src []byte) error {
	return classify.Validate(src)
}
