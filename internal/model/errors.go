package model

import "errors"

// LoadError reports that the artifact could not be turned into a handle.
// It is fatal: the service must not start serving without a model.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string { return "load model " + e.Path + ": " + e.Err.Error() }

func (e *LoadError) Unwrap() error { return e.Err }

// IsLoadError reports whether err is, or wraps, a LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}

// InferError reports that the engine rejected the input matrix or failed
// while evaluating it.
type InferError struct {
	Msg string
	Err error
}

func (e *InferError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	if e.Msg == "" {
		return e.Err.Error()
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *InferError) Unwrap() error { return e.Err }

// IsInferError reports whether err is, or wraps, an InferError.
func IsInferError(err error) bool {
	var ie *InferError
	return errors.As(err, &ie)
}
