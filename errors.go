package yamlast

import "reflect"

// An UnmarshalerError represents an error from calling an UnmarshalJSON or
// UnmarshalText method during Decode.
type UnmarshalerError struct {
	Type reflect.Type
	Err  error
}

func (e *UnmarshalerError) Error() string {
	return "yamlast: error calling unmarshaler for type " + e.Type.String() + ": " + e.Err.Error()
}

func (e *UnmarshalerError) Unwrap() error { return e.Err }
