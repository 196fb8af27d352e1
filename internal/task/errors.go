package task

import "errors"

// UnavailableMessage is shown when a source cannot produce the initial list.
const UnavailableMessage = "Could not reach the zen garden."

var ErrSourceUnavailable = errors.New("source unavailable")

// SourceError is the only failure a source reports. Message is user-facing;
// Err carries the cause for logs.
type SourceError struct {
	Message string
	Err     error
}

func Unavailable(err error) *SourceError {
	return &SourceError{Message: UnavailableMessage, Err: err}
}

func (e *SourceError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

func (e *SourceError) Is(target error) bool {
	return target == ErrSourceUnavailable
}

// DisplayMessage extracts the user-facing text from any load failure.
func DisplayMessage(err error) string {
	var se *SourceError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return UnavailableMessage
}
