package model

import "fmt"

// Matrix is a dense row-major float32 matrix.
type Matrix struct {
	Rows int
	Cols int
	Data []float32
}

// NewMatrix allocates a zeroed rows x cols matrix.
func NewMatrix(rows, cols int) Matrix {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return Matrix{Rows: rows, Cols: cols, Data: make([]float32, rows*cols)}
}

// At returns the element at row i, column j.
func (m Matrix) At(i, j int) float32 { return m.Data[i*m.Cols+j] }

// Set stores v at row i, column j.
func (m Matrix) Set(i, j int, v float32) { m.Data[i*m.Cols+j] = v }

// Row returns row i as a slice sharing the matrix storage.
func (m Matrix) Row(i int) []float32 { return m.Data[i*m.Cols : (i+1)*m.Cols] }

// ToRows copies the matrix into a nested slice, one inner slice per row.
func (m Matrix) ToRows() [][]float32 {
	out := make([][]float32, m.Rows)
	for i := range out {
		row := make([]float32, m.Cols)
		copy(row, m.Row(i))
		out[i] = row
	}
	return out
}

// check reports whether Data is consistent with Rows and Cols.
func (m Matrix) check() error {
	if m.Rows < 0 || m.Cols < 0 {
		return fmt.Errorf("negative dimensions %dx%d", m.Rows, m.Cols)
	}
	if len(m.Data) != m.Rows*m.Cols {
		return fmt.Errorf("data length %d does not match shape %dx%d", len(m.Data), m.Rows, m.Cols)
	}
	return nil
}
