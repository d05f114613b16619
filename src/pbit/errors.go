package pbit

import (
	"errors"
	"fmt"
)

// -----------------------------------------------------------------------------
// Error taxonomy for the template pipeline. Callers match with errors.Is /
// errors.As; the assembler never returns a partial archive alongside an error.
// -----------------------------------------------------------------------------

var (
	// ErrInputEmpty is returned when the report table has zero rows. A
	// header-only DATATABLE literal is rejected by the consumer, so the
	// pipeline refuses up front.
	ErrInputEmpty = errors.New("report table has no rows")

	// ErrSchemaMismatch is returned when a row's field count or types
	// disagree with the declared column schema.
	ErrSchemaMismatch = errors.New("row does not match declared column schema")
)

// -----------------------------------------------------------------------------

// EncodeError reports a part whose payload could not be serialized, naming
// the archive path it was destined for.
type EncodeError struct {
	Path string
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encoding part %q failed: %v", e.Path, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}
