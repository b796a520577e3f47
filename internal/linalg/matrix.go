package linalg

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"gonum.org/v1/gonum/mat"
)

type Matrix struct {
	m *mat.Dense
}

func NewMatrix(r, c int) (*Matrix, error) {
	if r <= 0 || c <= 0 {
		return nil, ErrEmpty
	}
	return &Matrix{m: mat.NewDense(r, c, nil)}, nil
}

// MatrixFromColumns builds a len(cols[0]) x len(cols) matrix. Every column
// must have the same length.
func MatrixFromColumns(cols ...[]float64) (*Matrix, error) {
	if len(cols) == 0 || len(cols[0]) == 0 {
		return nil, ErrEmpty
	}
	rows := len(cols[0])
	for j, col := range cols {
		if len(col) != rows {
			return nil, fmt.Errorf("%w: column %d has %d rows, want %d", ErrDimensionMismatch, j, len(col), rows)
		}
	}

	d := mat.NewDense(rows, len(cols), nil)
	for j, col := range cols {
		d.SetCol(j, col)
	}
	return &Matrix{m: d}, nil
}

func (m *Matrix) Dims() (r, c int) {
	return m.m.Dims()
}

func (m *Matrix) check(i, j int) error {
	r, c := m.Dims()
	if i < 0 || i >= r || j < 0 || j >= c {
		return fmt.Errorf("%w: (%d, %d) not in %dx%d", ErrIndexOutOfRange, i, j, r, c)
	}
	return nil
}

func (m *Matrix) At(i, j int) (float64, error) {
	if err := m.check(i, j); err != nil {
		return 0, err
	}
	return m.m.At(i, j), nil
}

func (m *Matrix) Set(i, j int, value float64) error {
	if err := m.check(i, j); err != nil {
		return err
	}
	m.m.Set(i, j, value)
	return nil
}

// Row returns a copy of row i.
func (m *Matrix) Row(i int) ([]float64, error) {
	if err := m.check(i, 0); err != nil {
		return nil, err
	}
	return mat.Row(nil, i, m.m), nil
}

// Transpose returns a new matrix; the receiver is left untouched.
func (m *Matrix) Transpose() *Matrix {
	return &Matrix{m: mat.DenseCopyOf(m.m.T())}
}

func (m *Matrix) Fprint(w io.Writer) error {
	r, c := m.Dims()
	row := make([]string, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			row[j] = fmt.Sprintf("%f", m.m.At(i, j))
		}
		if _, err := fmt.Fprintln(w, strings.Join(row, ", ")); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile reports a failed close as well as a failed write.
func (m *Matrix) WriteFile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	w := bufio.NewWriter(f)
	if err := m.Fprint(w); err != nil {
		return err
	}
	return w.Flush()
}
