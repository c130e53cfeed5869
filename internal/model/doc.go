// Package model owns the inference artifact. It is structured into small
// files by concern:
//
//   - matrix.go: Matrix, the row-major float32 value passed in and out of a handle.
//   - policy.go: ExecutionPolicy and its defaults (single-threaded, sequential).
//   - errors.go: LoadError, InferError and their predicates.
//   - handle.go: the Handle interface consumed by the prediction pipeline.
//   - onnx.go: ONNXHandle, the ONNX Runtime backed implementation.
//
// A handle is created once at startup and is immutable afterwards; Infer may
// be called from any number of goroutines.
package model
