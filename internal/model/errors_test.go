package model

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadErrorWrapsCause(t *testing.T) {
	err := fmt.Errorf("startup: %w", &LoadError{Path: "/m.onnx", Err: os.ErrNotExist})
	assert.True(t, IsLoadError(err))
	assert.False(t, IsInferError(err))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Contains(t, err.Error(), "load model /m.onnx")
}

func TestInferErrorMessage(t *testing.T) {
	assert.Equal(t, "input matrix has no rows", (&InferError{Msg: "input matrix has no rows"}).Error())
	assert.Equal(t, "inference failed: boom", (&InferError{Msg: "inference failed", Err: errors.New("boom")}).Error())
	assert.Equal(t, "boom", (&InferError{Err: errors.New("boom")}).Error())
	assert.True(t, IsInferError(fmt.Errorf("x: %w", &InferError{Msg: "y"})))
}

func TestCheckInput(t *testing.T) {
	assert.NoError(t, checkInput(NewMatrix(1, 6), 6))

	err := checkInput(NewMatrix(0, 6), 6)
	assert.True(t, IsInferError(err))
	assert.Contains(t, err.Error(), "no rows")

	err = checkInput(NewMatrix(2, 5), 6)
	assert.True(t, IsInferError(err))
	assert.Contains(t, err.Error(), "5 columns, model expects 6")

	err = checkInput(Matrix{Rows: 2, Cols: 6, Data: make([]float32, 6)}, 6)
	assert.True(t, IsInferError(err))
}
