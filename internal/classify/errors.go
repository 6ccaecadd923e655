package classify

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// ErrInvalidUTF8 reports invalid UTF-8 input.
	ErrInvalidUTF8 = errors.New("invalid utf-8 input")
	// ErrBinaryInput reports input that appears to be binary.
	ErrBinaryInput = errors.New("binary input detected")
	// ErrNestingTooDeep reports block quotes or list items nested deeper
	// than MaxNestingDepth.
	ErrNestingTooDeep = errors.New("container nesting too deep")
)

// MaxNestingDepth bounds the recursion into container interiors.
const MaxNestingDepth = 64

const (
	minBinarySample = 64
	maxControlPct   = 2
)

// Error is a fatal classification failure.
type Error struct {
	// Line is the 1-based input line, or 0 when the failure concerns the
	// input as a whole.
	Line int
	Err  error
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("classify: line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("classify: %v", e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Validate returns an error if src is not valid UTF-8 or appears binary.
func Validate(src []byte) error {
	if !utf8.Valid(src) {
		return ErrInvalidUTF8
	}
	var total, control int
	for _, b := range src {
		total++
		if b == 0x00 {
			return ErrBinaryInput
		}
		if isControlByte(b) {
			control++
		}
	}
	if total >= minBinarySample && control*100 >= total*maxControlPct {
		return ErrBinaryInput
	}
	return nil
}

func isControlByte(b byte) bool {
	if b < 0x09 {
		return true
	}
	if b > 0x0D && b < 0x20 {
		return true
	}
	return b == 0x7F
}
