package model

import (
	"errors"
	"fmt"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"predictd/internal/common/fsutil"
)

// LoadOptions configures Load. The zero value is not usable: callers pass at
// least a Policy, usually DefaultPolicy().
type LoadOptions struct {
	Policy ExecutionPolicy
	// Path to the onnxruntime shared library. Empty uses the binding's default lookup.
	LibraryPath string
	// Names of the graph input/output to bind. Empty selects the first declared one.
	InputName  string
	OutputName string
	// Output column count for artifacts that declare a dynamic width.
	OutputWidth int
}

// ONNXHandle is a Handle backed by an ONNX Runtime session. It owns the
// session and holds a reference on the process-wide runtime environment.
type ONNXHandle struct {
	session    *ort.DynamicAdvancedSession
	options    *ort.SessionOptions
	info       Info
	outputRank int
	outputType ort.TensorElementDataType
	closeOnce  sync.Once
}

var (
	envMu   sync.Mutex
	envRefs int
)

func acquireEnvironment(libPath string) error {
	envMu.Lock()
	defer envMu.Unlock()
	if envRefs == 0 && !ort.IsInitialized() {
		if libPath != "" {
			ort.SetSharedLibraryPath(libPath)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			return fmt.Errorf("initialize onnxruntime: %w", err)
		}
	}
	envRefs++
	return nil
}

func releaseEnvironment() {
	envMu.Lock()
	defer envMu.Unlock()
	if envRefs == 0 {
		return
	}
	envRefs--
	if envRefs == 0 {
		_ = ort.DestroyEnvironment()
	}
}

// Load opens the artifact at path and prepares a session configured with
// opts.Policy. Relative paths are resolved against the directory holding the
// running executable, not the working directory. Every failure is a *LoadError.
func Load(path string, opts LoadOptions) (*ONNXHandle, error) {
	resolved, err := fsutil.ResolveFromInstallDir(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	st, err := os.Stat(resolved)
	if err != nil {
		return nil, &LoadError{Path: resolved, Err: err}
	}
	if st.IsDir() {
		return nil, &LoadError{Path: resolved, Err: errors.New("is a directory")}
	}
	if err := opts.Policy.Validate(); err != nil {
		return nil, &LoadError{Path: resolved, Err: err}
	}
	if err := acquireEnvironment(opts.LibraryPath); err != nil {
		return nil, &LoadError{Path: resolved, Err: err}
	}
	h, err := newONNXHandle(resolved, opts)
	if err != nil {
		releaseEnvironment()
		return nil, &LoadError{Path: resolved, Err: err}
	}
	return h, nil
}

func newONNXHandle(path string, opts LoadOptions) (*ONNXHandle, error) {
	inputs, outputs, err := ort.GetInputOutputInfo(path)
	if err != nil {
		return nil, fmt.Errorf("read model metadata: %w", err)
	}
	in, err := pickTensor(inputs, opts.InputName, "input")
	if err != nil {
		return nil, err
	}
	out, err := pickTensor(outputs, opts.OutputName, "output")
	if err != nil {
		return nil, err
	}
	if in.DataType != ort.TensorElementDataTypeFloat {
		return nil, fmt.Errorf("input %q has element type %v, want float32", in.Name, in.DataType)
	}
	if !outputTypeSupported(out.DataType) {
		return nil, fmt.Errorf("output %q has element type %v, want float32, float64, int32 or int64", out.Name, out.DataType)
	}
	if len(in.Dimensions) != 2 {
		return nil, fmt.Errorf("input %q has rank %d, want 2", in.Name, len(in.Dimensions))
	}
	inWidth := int(in.Dimensions[1])
	if inWidth <= 0 {
		return nil, fmt.Errorf("input %q declares a dynamic column count", in.Name)
	}
	rank, outWidth, err := outputLayout(out, opts.OutputWidth)
	if err != nil {
		return nil, err
	}

	so, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("create session options: %w", err)
	}
	if err := applyPolicy(so, opts.Policy); err != nil {
		_ = so.Destroy()
		return nil, err
	}
	session, err := ort.NewDynamicAdvancedSession(path, []string{in.Name}, []string{out.Name}, so)
	if err != nil {
		_ = so.Destroy()
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &ONNXHandle{
		session:    session,
		options:    so,
		outputRank: rank,
		outputType: out.DataType,
		info: Info{
			Path:        path,
			Inputs:      describeTensors(inputs),
			Outputs:     describeTensors(outputs),
			InputName:   in.Name,
			OutputName:  out.Name,
			InputWidth:  inWidth,
			OutputWidth: outWidth,
			Policy:      opts.Policy,
		},
	}, nil
}

// applyPolicy maps the execution policy onto session options. Sequential
// mode is the runtime default and needs no call.
func applyPolicy(so *ort.SessionOptions, p ExecutionPolicy) error {
	if p.IntraOpThreads > 0 {
		if err := so.SetIntraOpNumThreads(p.IntraOpThreads); err != nil {
			return fmt.Errorf("set intra-op threads: %w", err)
		}
	}
	if p.InterOpThreads > 0 {
		if err := so.SetInterOpNumThreads(p.InterOpThreads); err != nil {
			return fmt.Errorf("set inter-op threads: %w", err)
		}
	}
	return nil
}

func pickTensor(infos []ort.InputOutputInfo, name, kind string) (ort.InputOutputInfo, error) {
	if len(infos) == 0 {
		return ort.InputOutputInfo{}, fmt.Errorf("model declares no %ss", kind)
	}
	if name == "" {
		return infos[0], nil
	}
	for _, info := range infos {
		if info.Name == name {
			return info, nil
		}
	}
	return ort.InputOutputInfo{}, fmt.Errorf("model has no %s named %q", kind, name)
}

// outputTypeSupported reports whether Infer can read an output of type dt.
// Non-float outputs, such as classifier labels, are cast to float32.
func outputTypeSupported(dt ort.TensorElementDataType) bool {
	switch dt {
	case ort.TensorElementDataTypeFloat, ort.TensorElementDataTypeDouble,
		ort.TensorElementDataTypeInt32, ort.TensorElementDataTypeInt64:
		return true
	}
	return false
}

// outputLayout returns the output rank and column count. A rank-1 output is
// one value per row.
func outputLayout(out ort.InputOutputInfo, override int) (int, int, error) {
	switch len(out.Dimensions) {
	case 1:
		if override > 1 {
			return 0, 0, fmt.Errorf("output %q is rank 1, cannot have width %d", out.Name, override)
		}
		return 1, 1, nil
	case 2:
		declared := int(out.Dimensions[1])
		switch {
		case declared > 0 && override > 0 && declared != override:
			return 0, 0, fmt.Errorf("output %q declares width %d, configured %d", out.Name, declared, override)
		case declared > 0:
			return 2, declared, nil
		case override > 0:
			return 2, override, nil
		default:
			return 0, 0, fmt.Errorf("output %q declares a dynamic width; set output_width", out.Name)
		}
	default:
		return 0, 0, fmt.Errorf("output %q has rank %d, want 1 or 2", out.Name, len(out.Dimensions))
	}
}

func describeTensors(infos []ort.InputOutputInfo) []TensorInfo {
	out := make([]TensorInfo, 0, len(infos))
	for _, info := range infos {
		out = append(out, TensorInfo{
			Name:  info.Name,
			Shape: append([]int64(nil), info.Dimensions...),
			Type:  fmt.Sprint(info.DataType),
		})
	}
	return out
}

// InputWidth implements Handle.
func (h *ONNXHandle) InputWidth() int { return h.info.InputWidth }

// OutputWidth is the number of values produced per row.
func (h *ONNXHandle) OutputWidth() int { return h.info.OutputWidth }

// Describe returns the artifact's declared inputs and outputs and the policy in effect.
func (h *ONNXHandle) Describe() Info { return h.info }

// Infer implements Handle. Tensors are allocated per call so concurrent
// callers never share buffers.
func (h *ONNXHandle) Infer(m Matrix) (Matrix, error) {
	if err := checkInput(m, h.info.InputWidth); err != nil {
		return Matrix{}, err
	}
	rows := int64(m.Rows)
	input, err := ort.NewTensor(ort.NewShape(rows, int64(m.Cols)), append([]float32(nil), m.Data...))
	if err != nil {
		return Matrix{}, &InferError{Msg: "create input tensor", Err: err}
	}
	defer input.Destroy()

	outShape := ort.NewShape(rows, int64(h.info.OutputWidth))
	if h.outputRank == 1 {
		outShape = ort.NewShape(rows)
	}
	var data []float32
	switch h.outputType {
	case ort.TensorElementDataTypeDouble:
		data, err = runAs[float64](h.session, input, outShape)
	case ort.TensorElementDataTypeInt64:
		data, err = runAs[int64](h.session, input, outShape)
	case ort.TensorElementDataTypeInt32:
		data, err = runAs[int32](h.session, input, outShape)
	default:
		data, err = runAs[float32](h.session, input, outShape)
	}
	if err != nil {
		return Matrix{}, err
	}
	res := Matrix{Rows: m.Rows, Cols: h.info.OutputWidth, Data: data}
	if err := res.check(); err != nil {
		return Matrix{}, &InferError{Msg: "unexpected output shape", Err: err}
	}
	return res, nil
}

// runAs runs one pass with an output tensor of element type T and returns
// its values as float32.
func runAs[T ort.TensorData](s *ort.DynamicAdvancedSession, input ort.ArbitraryTensor, shape ort.Shape) ([]float32, error) {
	output, err := ort.NewEmptyTensor[T](shape)
	if err != nil {
		return nil, &InferError{Msg: "create output tensor", Err: err}
	}
	defer output.Destroy()

	if err := s.Run([]ort.ArbitraryTensor{input}, []ort.ArbitraryTensor{output}); err != nil {
		return nil, &InferError{Msg: "inference failed", Err: err}
	}
	return toFloat32(output.GetData()), nil
}

func toFloat32[T ort.TensorData](src []T) []float32 {
	dst := make([]float32, len(src))
	for i, v := range src {
		dst[i] = float32(v)
	}
	return dst
}

// Close releases the session and drops the environment reference. It is
// safe to call more than once.
func (h *ONNXHandle) Close() error {
	var err error
	h.closeOnce.Do(func() {
		if h.session != nil {
			err = h.session.Destroy()
		}
		if h.options != nil {
			if e := h.options.Destroy(); e != nil && err == nil {
				err = e
			}
		}
		releaseEnvironment()
	})
	return err
}
