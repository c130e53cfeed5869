package model

import "fmt"

// ExecutionPolicy controls how much parallelism the engine may use inside a
// single Infer call.
type ExecutionPolicy struct {
	// Threads used to run independent graph nodes concurrently. 0 leaves the engine default.
	InterOpThreads int `json:"inter_op_threads"`
	// Threads used inside a single operator. 0 leaves the engine default.
	IntraOpThreads int `json:"intra_op_threads"`
	// Run graph nodes one after another.
	Sequential bool `json:"sequential"`
}

// DefaultPolicy pins inference to one thread in sequential mode so that
// request concurrency is handled by the HTTP server, not inside each call.
func DefaultPolicy() ExecutionPolicy {
	return ExecutionPolicy{InterOpThreads: 1, IntraOpThreads: 1, Sequential: true}
}

// Validate rejects policies the engine cannot honor.
func (p ExecutionPolicy) Validate() error {
	if p.InterOpThreads < 0 {
		return fmt.Errorf("inter-op threads must be >= 0, got %d", p.InterOpThreads)
	}
	if p.IntraOpThreads < 0 {
		return fmt.Errorf("intra-op threads must be >= 0, got %d", p.IntraOpThreads)
	}
	if !p.Sequential {
		return fmt.Errorf("parallel execution mode is not supported by the onnxruntime binding")
	}
	return nil
}

func (p ExecutionPolicy) String() string {
	mode := "sequential"
	if !p.Sequential {
		mode = "parallel"
	}
	return fmt.Sprintf("inter=%d intra=%d mode=%s", p.InterOpThreads, p.IntraOpThreads, mode)
}
