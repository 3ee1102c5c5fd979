package pluginapi

import "fmt"

// ArityMismatchError is returned by a function that received the wrong
// number of arguments.
type ArityMismatchError struct {
	Expected int
	Found    int
}

// Error implements the error interface.
func (e *ArityMismatchError) Error() string {
	return fmt.Sprintf("invalid argument count: expected %d, found %d", e.Expected, e.Found)
}

// OtherError carries any other failure a function reports, including
// failures of the function's own external dependencies.
type OtherError struct {
	Message string
}

// Error implements the error interface.
func (e *OtherError) Error() string {
	return e.Message
}

// Errorf formats a message into an *OtherError.
func Errorf(format string, a ...any) error {
	return &OtherError{Message: fmt.Sprintf(format, a...)}
}

// CheckArity returns an *ArityMismatchError unless len(args) == expected.
func CheckArity(args []float64, expected int) error {
	if len(args) != expected {
		return &ArityMismatchError{Expected: expected, Found: len(args)}
	}
	return nil
}
