package kernel_test

import (
	"math"
	"testing"

	"freightsim/internal/core/domain/model/kernel"
	"freightsim/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode_Validate(t *testing.T) {
	tests := []struct {
		name    string
		node    kernel.Node
		count   int
		wantErr bool
	}{
		{name: "first node", node: 0, count: 3},
		{name: "last node", node: 2, count: 3},
		{name: "negative node", node: -1, count: 3, wantErr: true},
		{name: "node past the end", node: 3, count: 3, wantErr: true},
		{name: "empty network", node: 0, count: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.node.Validate(tt.count)

			if tt.wantErr {
				assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewMatrix(t *testing.T) {
	t.Run("should create a square matrix", func(t *testing.T) {
		m, err := kernel.NewMatrix("travel", [][]float64{{0, 2.2}, {3, 0}})

		require.NoError(t, err)
		require.NoError(t, m.Validate())
		assert.Equal(t, 2, m.Size())
		assert.Equal(t, 2.2, m.At(0, 1))
		assert.Equal(t, 3.0, m.At(1, 0))
	})

	t.Run("should reject a ragged matrix", func(t *testing.T) {
		_, err := kernel.NewMatrix("travel", [][]float64{{0, 1}, {1}})

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "row 1 has 1 entries, want 2")
	})

	t.Run("should report every bad entry at once", func(t *testing.T) {
		_, err := kernel.NewMatrix("rates", [][]float64{{0, -1}, {math.NaN(), math.Inf(1)}})

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.Contains(t, err.Error(), "rates[0][1]")
		assert.Contains(t, err.Error(), "rates[1][0]")
		assert.Contains(t, err.Error(), "rates[1][1]")
	})

	t.Run("should copy the input rows", func(t *testing.T) {
		rows := [][]float64{{0, 1}, {1, 0}}
		m := newMatrix(t, "travel", rows)

		rows[0][1] = 42
		out := m.Rows()
		out[1][0] = 42

		assert.Equal(t, 1.0, m.At(0, 1))
		assert.Equal(t, 1.0, m.At(1, 0))
	})

	t.Run("should fail validation for zero value", func(t *testing.T) {
		var m kernel.Matrix

		assert.Equal(t, kernel.ErrMatrixIsNotConstructed, m.Validate())
	})

	t.Run("should panic on out of range access", func(t *testing.T) {
		m := newMatrix(t, "travel", [][]float64{{0}})

		assert.Panics(t, func() { m.At(0, 1) })
	})
}

func TestMatrix_ZeroDiagonal(t *testing.T) {
	t.Run("should accept a zero diagonal", func(t *testing.T) {
		m := newMatrix(t, "travel", [][]float64{{0, 5}, {5, 0}})

		assert.NoError(t, m.ZeroDiagonal("travel"))
	})

	t.Run("should name every non-zero diagonal entry", func(t *testing.T) {
		m := newMatrix(t, "travel", [][]float64{{1, 5}, {5, 2}})

		err := m.ZeroDiagonal("travel")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "travel[0][0]")
		assert.Contains(t, err.Error(), "travel[1][1]")
	})
}

func TestRatio(t *testing.T) {
	t.Run("should be undefined for a zero denominator", func(t *testing.T) {
		r := kernel.NewRatio(3, 0)

		_, ok := r.Get()
		assert.False(t, ok)
		assert.Nil(t, r.Ptr())
		assert.Equal(t, "undefined", r.String())
	})

	t.Run("should divide otherwise", func(t *testing.T) {
		r := kernel.NewRatio(1, 4)

		v, ok := r.Get()
		assert.True(t, ok)
		assert.Equal(t, 0.25, v)
		require.NotNil(t, r.Ptr())
		assert.Equal(t, 0.25, *r.Ptr())
		assert.Equal(t, "0.2500", r.String())
	})
}

func newMatrix(t *testing.T, name string, rows [][]float64) kernel.Matrix {
	t.Helper()
	m, err := kernel.NewMatrix(name, rows)
	require.NoError(t, err)
	return m
}
