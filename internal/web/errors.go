package web

import (
	"errors"
	"fmt"
)

// NotFoundError reports that a media file is absent from the store.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("media %q not found", e.Name)
}

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

// MalformedRangeError reports a Range header that is not of the form
// bytes=<start>-[<end>].
type MalformedRangeError struct {
	Header string
	Reason string
}

func (e *MalformedRangeError) Error() string {
	return fmt.Sprintf("malformed range %q: %s", e.Header, e.Reason)
}

func IsMalformedRange(err error) bool {
	var e *MalformedRangeError
	return errors.As(err, &e)
}

// UnsatisfiableRangeError reports a well-formed range that does not overlap
// the resource.
type UnsatisfiableRangeError struct {
	Header string
	Size   int64
}

func (e *UnsatisfiableRangeError) Error() string {
	return fmt.Sprintf("range %q not satisfiable for %d bytes", e.Header, e.Size)
}

func IsUnsatisfiableRange(err error) bool {
	var e *UnsatisfiableRangeError
	return errors.As(err, &e)
}

// StreamWriteError reports that the client stopped accepting bytes mid-stream.
// Headers are already sent by then, so it can only be logged.
type StreamWriteError struct {
	Written int64
	Err     error
}

func (e *StreamWriteError) Error() string {
	return fmt.Sprintf("stream aborted after %d bytes: %v", e.Written, e.Err)
}

func (e *StreamWriteError) Unwrap() error { return e.Err }

func IsStreamWrite(err error) bool {
	var e *StreamWriteError
	return errors.As(err, &e)
}
