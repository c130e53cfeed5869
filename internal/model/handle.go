package model

import "fmt"

// Handle abstracts a loaded model. Implementations must be safe for
// concurrent Infer calls and must not mutate their own state while doing so.
type Handle interface {
	// Infer runs one forward pass over m and returns one output row per input row.
	Infer(m Matrix) (Matrix, error)
	// InputWidth is the number of columns Infer expects.
	InputWidth() int
}

// TensorInfo describes one model input or output.
type TensorInfo struct {
	Name  string  `json:"name"`
	Shape []int64 `json:"shape"`
	Type  string  `json:"type"`
}

// Info summarizes a loaded handle for diagnostics.
type Info struct {
	Path        string          `json:"path"`
	Inputs      []TensorInfo    `json:"inputs"`
	Outputs     []TensorInfo    `json:"outputs"`
	InputName   string          `json:"input_name"`
	OutputName  string          `json:"output_name"`
	InputWidth  int             `json:"input_width"`
	OutputWidth int             `json:"output_width"`
	Policy      ExecutionPolicy `json:"policy"`
}

// checkInput validates m against the expected column count before it
// reaches the engine.
func checkInput(m Matrix, width int) error {
	if err := m.check(); err != nil {
		return &InferError{Msg: "invalid input matrix", Err: err}
	}
	if m.Rows == 0 {
		return &InferError{Msg: "input matrix has no rows"}
	}
	if m.Cols != width {
		return &InferError{Msg: fmt.Sprintf("input matrix has %d columns, model expects %d", m.Cols, width)}
	}
	return nil
}
