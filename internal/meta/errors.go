package meta

import "fmt"

// FormatError reports a field whose value could not be parsed as the
// expected type.
type FormatError struct {
	Label string
	Value string
	Err   error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unparsable value for %s: %q", e.Label, e.Value)
}

func (e *FormatError) Unwrap() error { return e.Err }

// UnsupportedValueError reports a value outside one of the closed
// enumerations (satellite, instrument, projection, datum, resample
// method, data type).
type UnsupportedValueError struct {
	Field string
	Value string
}

func (e *UnsupportedValueError) Error() string {
	return fmt.Sprintf("unsupported %s value: %q", e.Field, e.Value)
}

// NotFoundError reports a band field record referencing an identifier
// with no prior creation record.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("band info not found for ID %s", e.ID)
}

// ProjectionError reports a coordinate-transform setup or bounds failure.
type ProjectionError struct {
	Op  string
	Err error
}

func (e *ProjectionError) Error() string {
	return fmt.Sprintf("projection %s failed: %v", e.Op, e.Err)
}

func (e *ProjectionError) Unwrap() error { return e.Err }

// DataTypeError reports an element type outside the supported set of a
// raster operation.
type DataTypeError struct {
	Op       string
	DataType DataType
}

func (e *DataTypeError) Error() string {
	return fmt.Sprintf("%s does not support data type %s", e.Op, e.DataType)
}

// SubprocessError reports a fallback utility launch failure or non-zero
// exit.
type SubprocessError struct {
	Cmd string
	Err error
}

func (e *SubprocessError) Error() string {
	return fmt.Sprintf("running %s: %v", e.Cmd, e.Err)
}

func (e *SubprocessError) Unwrap() error { return e.Err }
