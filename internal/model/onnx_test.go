package model

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ort "github.com/yalue/onnxruntime_go"
)

func TestLoad_MissingArtifact(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.onnx"), LoadOptions{Policy: DefaultPolicy()})
	require.Error(t, err)
	assert.True(t, IsLoadError(err))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_DirectoryIsRejected(t *testing.T) {
	_, err := Load(t.TempDir(), LoadOptions{Policy: DefaultPolicy()})
	require.Error(t, err)
	assert.True(t, IsLoadError(err))
	assert.Contains(t, err.Error(), "is a directory")
}

func TestLoad_ParallelPolicyRejected(t *testing.T) {
	p := filepath.Join(t.TempDir(), "m.onnx")
	require.NoError(t, os.WriteFile(p, []byte("not a model"), 0o644))
	_, err := Load(p, LoadOptions{Policy: ExecutionPolicy{InterOpThreads: 1, IntraOpThreads: 1}})
	require.Error(t, err)
	assert.True(t, IsLoadError(err))
	assert.Contains(t, err.Error(), "parallel")
}

// onnxFixture loads the artifact named by PREDICTD_TEST_MODEL using the
// runtime library named by PREDICTD_ORT_LIB. The artifact must take a
// [N,6] float input.
func onnxFixture(t *testing.T) *ONNXHandle {
	t.Helper()
	modelPath, lib := os.Getenv("PREDICTD_TEST_MODEL"), os.Getenv("PREDICTD_ORT_LIB")
	if modelPath == "" || lib == "" {
		t.Skip("PREDICTD_TEST_MODEL and PREDICTD_ORT_LIB not set")
	}
	h, err := Load(modelPath, LoadOptions{Policy: DefaultPolicy(), LibraryPath: lib})
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })
	return h
}

func TestOutputTypeSupported(t *testing.T) {
	for _, dt := range []ort.TensorElementDataType{
		ort.TensorElementDataTypeFloat,
		ort.TensorElementDataTypeDouble,
		ort.TensorElementDataTypeInt32,
		ort.TensorElementDataTypeInt64,
	} {
		assert.True(t, outputTypeSupported(dt), "%v", dt)
	}
	assert.False(t, outputTypeSupported(ort.TensorElementDataTypeString))
	assert.False(t, outputTypeSupported(ort.TensorElementDataTypeBool))
}

func TestToFloat32_CastsLabels(t *testing.T) {
	assert.Equal(t, []float32{0, 1, 2}, toFloat32([]int64{0, 1, 2}))
	assert.Equal(t, []float32{-3}, toFloat32([]int32{-3}))
	assert.Equal(t, []float32{0.5}, toFloat32([]float64{0.5}))
	assert.Empty(t, toFloat32([]int64{}))
}

func TestONNXHandle_InferRowAligned(t *testing.T) {
	h := onnxFixture(t)
	require.Equal(t, 6, h.InputWidth())

	m := Matrix{Rows: 2, Cols: 6, Data: []float32{
		1, 2, 3, 1000, 10.5, 20.5,
		0.1, 0.2, 0.3, 2000, 11.5, 21.5,
	}}
	out, err := h.Infer(m)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Rows)
	assert.Equal(t, h.OutputWidth(), out.Cols)

	again, err := h.Infer(m)
	require.NoError(t, err)
	assert.Equal(t, out.Data, again.Data)
}

func TestONNXHandle_RejectsBadInput(t *testing.T) {
	h := onnxFixture(t)
	_, err := h.Infer(NewMatrix(0, 6))
	assert.True(t, IsInferError(err))
	_, err = h.Infer(NewMatrix(1, 5))
	assert.True(t, IsInferError(err))
}

func TestONNXHandle_ConcurrentInfer(t *testing.T) {
	h := onnxFixture(t)
	m := Matrix{Rows: 1, Cols: 6, Data: []float32{1, 2, 3, 1000, 10.5, 20.5}}
	want, err := h.Infer(m)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := h.Infer(m)
			if err != nil {
				errs <- err
				return
			}
			assert.Equal(t, want.Data, got.Data)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent infer: %v", err)
	}
}

func TestONNXHandle_DescribeAndClose(t *testing.T) {
	h := onnxFixture(t)
	info := h.Describe()
	assert.NotEmpty(t, info.InputName)
	assert.NotEmpty(t, info.OutputName)
	assert.Equal(t, DefaultPolicy(), info.Policy)
	assert.NoError(t, h.Close())
	assert.NoError(t, h.Close())
}
