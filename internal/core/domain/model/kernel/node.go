package kernel

import (
	"errors"
	"fmt"
	"math"

	"freightsim/internal/pkg/errs"
	"freightsim/internal/pkg/guard"
)

// Node is the index of a location in the freight network, in [0, N).
type Node int

// Validate checks that the node lies inside a network of nodeCount nodes.
func (n Node) Validate(nodeCount int) error {
	if n < 0 || int(n) >= nodeCount {
		return errs.NewValueIsOutOfRangeError("node", int(n), 0, nodeCount-1)
	}
	return nil
}

// String returns the node index in decimal.
func (n Node) String() string {
	return fmt.Sprintf("%d", int(n))
}

// ErrMatrixIsNotConstructed is returned when a zero value Matrix is used.
var ErrMatrixIsNotConstructed = errs.NewValueIsRequiredError("matrix must be created via NewMatrix")

// Matrix is an immutable square matrix indexed [origin][destination].
// Every entry is finite and non-negative.
//
// Example:
//
//	travel, err := kernel.NewMatrix("travelTimes", [][]float64{
//	    {0, 2.2},
//	    {3.0, 0},
//	})
//	d := travel.At(0, 1) // 2.2
type Matrix struct {
	size   int
	values []float64
	guard  guard.ConstructorGuard
}

// NewMatrix copies rows into a Matrix. All problems are reported at once:
// a non-square shape and every negative, NaN or infinite entry.
func NewMatrix(name string, rows [][]float64) (Matrix, error) {
	size := len(rows)
	var problems []error

	for i, row := range rows {
		if len(row) != size {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
				name, fmt.Errorf("row %d has %d entries, want %d", i, len(row), size)))
		}
	}
	if len(problems) > 0 {
		return Matrix{}, errors.Join(problems...)
	}

	m := Matrix{
		size:   size,
		values: make([]float64, 0, size*size),
		guard:  guard.NewConstructorGuard(),
	}
	for i, row := range rows {
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				problems = append(problems, errs.NewValueIsOutOfRangeError(
					fmt.Sprintf("%s[%d][%d]", name, i, j), v, 0.0, math.MaxFloat64))
			}
			m.values = append(m.values, v)
		}
	}
	if len(problems) > 0 {
		return Matrix{}, errors.Join(problems...)
	}

	return m, nil
}

// Validate returns ErrMatrixIsNotConstructed for a zero value Matrix.
func (m Matrix) Validate() error {
	return m.guard.Validate(ErrMatrixIsNotConstructed)
}

// Size returns the number of rows (and columns).
func (m Matrix) Size() int {
	return m.size
}

// At returns the entry for the (from, to) pair. It panics when either node is
// outside the matrix, like a slice index would.
func (m Matrix) At(from, to Node) float64 {
	if int(from) >= m.size || int(to) >= m.size || from < 0 || to < 0 {
		panic(fmt.Sprintf("kernel: matrix index [%d][%d] out of range for size %d", from, to, m.size))
	}
	return m.values[int(from)*m.size+int(to)]
}

// Rows returns a copy of the matrix as nested slices.
func (m Matrix) Rows() [][]float64 {
	rows := make([][]float64, m.size)
	for i := range rows {
		rows[i] = append([]float64(nil), m.values[i*m.size:(i+1)*m.size]...)
	}
	return rows
}

// ZeroDiagonal reports an error for every non-zero diagonal entry.
func (m Matrix) ZeroDiagonal(name string) error {
	var problems []error
	for i := range m.size {
		if v := m.values[i*m.size+i]; v != 0 {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
				fmt.Sprintf("%s[%d][%d]", name, i, i), fmt.Errorf("diagonal entry %v must be 0", v)))
		}
	}
	return errors.Join(problems...)
}

// Ratio is a KPI value that may be undefined because its denominator is zero.
type Ratio struct {
	Value   float64
	Defined bool
}

// NewRatio returns numerator/denominator, undefined when the denominator is zero.
func NewRatio(numerator, denominator float64) Ratio {
	if denominator == 0 {
		return Ratio{}
	}
	return Ratio{Value: numerator / denominator, Defined: true}
}

// Get returns the value and whether it is defined.
func (r Ratio) Get() (float64, bool) {
	return r.Value, r.Defined
}

// Ptr returns nil for an undefined ratio, a pointer to the value otherwise.
func (r Ratio) Ptr() *float64 {
	if !r.Defined {
		return nil
	}
	v := r.Value
	return &v
}

// String renders the value with four decimals, or "undefined".
func (r Ratio) String() string {
	if !r.Defined {
		return "undefined"
	}
	return fmt.Sprintf("%.4f", r.Value)
}
