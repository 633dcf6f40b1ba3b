package model

import "fmt"

// DecodeError means a source file or row could not be understood.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("decode: %v", e.Err)
	}
	return fmt.Sprintf("decode %v: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError means output bytes could not be produced or written.
type EncodeError struct {
	Path string
	Err  error
}

func (e *EncodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("encode: %v", e.Err)
	}
	return fmt.Sprintf("encode %v: %v", e.Path, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// SchemaError means a row's field is missing or holds a value outside the
// range its kind allows. Value is empty when the field is absent.
type SchemaError struct {
	Row   int
	Field string
	Value string
}

func (e *SchemaError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("row %v: missing required field %q", e.Row, e.Field)
	}
	return fmt.Sprintf("row %v: field %q out of range: %v", e.Row, e.Field, e.Value)
}
