package catalog

import (
	"errors"
	"strconv"
)

// Structural failures. They short-circuit an operation; content problems are
// reported as Defects on a ValidationResult instead.
var (
	ErrSyntax           = errors.New("invalid uri syntax")
	ErrUnknownComponent = errors.New("cannot find endpoint with scheme")
	ErrMissingSyntax    = errors.New("no syntax defined in the json schema")
	ErrIncapable        = errors.New("cannot parse uri with unresolved placeholder")
	ErrSchemaNotFound   = errors.New("schema not found")
	ErrInvalidSchema    = errors.New("invalid schema document")
)

// EndpointError carries the operation and input that failed.
type EndpointError struct {
	Op  string
	URI string
	Err error
}

func (e *EndpointError) Error() string {
	if e.URI == "" {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + " " + strconv.Quote(e.URI) + ": " + e.Err.Error()
}

func (e *EndpointError) Unwrap() error { return e.Err }

func endpointErr(op, uri string, err error) error {
	var ee *EndpointError
	if errors.As(err, &ee) {
		return err
	}
	return &EndpointError{Op: op, URI: uri, Err: err}
}
