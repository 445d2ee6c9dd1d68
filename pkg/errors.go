package g13

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrMissingArgument is returned when no input profile was given
	ErrMissingArgument = errors.New("no filename supplied")

	// ErrMissingResource is returned when the key translation table cannot be read
	ErrMissingResource = errors.New("keydef file does not exist or is not a valid file")

	// ErrInvalidFormat is returned for output formats other than "mzip" and "bind"
	ErrInvalidFormat = errors.New("invalid format specified")

	// ErrMalformedInput is returned when a profile document lacks the expected structure
	ErrMalformedInput = errors.New("malformed profile")
)

// An UnresolvedReference is a warning about an assignment that refers to a
// macro that does not exist in the profile. The assignment is dropped.
type UnresolvedReference struct {
	Assignment Assignment
}

func (u UnresolvedReference) Error() string {
	return fmt.Sprintf("assignment %s/%s refers to unknown macro %s", u.Assignment.Bank, u.Assignment.Slot, u.Assignment.MacroID)
}

func malformed(format string, args ...interface{}) error {
	return errors.Wrapf(ErrMalformedInput, format, args...)
}
