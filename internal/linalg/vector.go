// Package linalg holds small dense vector and matrix helpers backed by gonum.
package linalg

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrDimensionMismatch = errors.New("linalg: dimension mismatch")
	ErrIndexOutOfRange   = errors.New("linalg: index out of range")
	ErrEmpty             = errors.New("linalg: zero length")
)

type Vector struct {
	v *mat.VecDense
}

func NewVector(n int) (*Vector, error) {
	if n <= 0 {
		return nil, ErrEmpty
	}
	return &Vector{v: mat.NewVecDense(n, nil)}, nil
}

// VectorFrom copies data into a new vector.
func VectorFrom(data []float64) (*Vector, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	buf := make([]float64, len(data))
	copy(buf, data)
	return &Vector{v: mat.NewVecDense(len(buf), buf)}, nil
}

func (v *Vector) Len() int {
	return v.v.Len()
}

func (v *Vector) At(i int) (float64, error) {
	if i < 0 || i >= v.Len() {
		return 0, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, v.Len())
	}
	return v.v.AtVec(i), nil
}

func (v *Vector) Set(i int, value float64) error {
	if i < 0 || i >= v.Len() {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, v.Len())
	}
	v.v.SetVec(i, value)
	return nil
}

// Raw returns a copy of the elements.
func (v *Vector) Raw() []float64 {
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.v.AtVec(i)
	}
	return out
}

// AddScaled stores a + factor*b in dst. All three must have the same length.
func AddScaled(dst, a, b *Vector, factor float64) error {
	if a.Len() != b.Len() || dst.Len() != a.Len() {
		return fmt.Errorf("%w: dst=%d a=%d b=%d", ErrDimensionMismatch, dst.Len(), a.Len(), b.Len())
	}
	dst.v.AddScaledVec(a.v, factor, b.v)
	return nil
}

func (v *Vector) String() string {
	parts := make([]string, v.Len())
	for i := range parts {
		parts[i] = fmt.Sprintf("%f", v.v.AtVec(i))
	}
	return strings.Join(parts, ", ")
}

func (v *Vector) Fprint(w io.Writer) error {
	_, err := fmt.Fprintln(w, v.String())
	return err
}
