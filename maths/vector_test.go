package maths

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// TestDenseVectorOperations 测试稠密向量的基本操作。
func TestDenseVectorOperations(t *testing.T) {
	v1 := NewDenseVectorWithData([]float64{1, 2, 3})
	if v1.Length() != 3 {
		t.Errorf("Expected length 3, got %d", v1.Length())
	}
	if v1.Get(1) != 2 {
		t.Errorf("Expected Get(1) to be 2, got %f", v1.Get(1))
	}
	v2 := NewDenseVectorWithData([]float64{4, 5, 6})

	v1.Add(v2)
	if v1.Get(0) != 5 || v1.Get(1) != 7 || v1.Get(2) != 9 {
		t.Errorf("Vector Add failed. Got %v", v1.ToDense())
	}
	v1.Scale(-2)
	if v1.MaxAbs() != 18 {
		t.Errorf("MaxAbs = %f, want 18", v1.MaxAbs())
	}
	// ToDense 返回副本
	d := v1.ToDense()
	d[0] = 0
	if v1.Get(0) != -10 {
		t.Errorf("ToDense should return a copy")
	}
	v3 := NewDenseVector(3)
	v1.Copy(v3)
	if v3.Get(2) != -18 {
		t.Errorf("Copy failed: %v", v3.ToDense())
	}
	v3.Zero()
	if v3.MaxAbs() != 0 {
		t.Errorf("Zero failed: %v", v3.ToDense())
	}
}

// TestMaxAbsNaN NaN 必须被传播
func TestMaxAbsNaN(t *testing.T) {
	v := NewDenseVectorWithData([]float64{1, math.NaN(), 3})
	if !math.IsNaN(v.MaxAbs()) {
		t.Errorf("MaxAbs should propagate NaN, got %f", v.MaxAbs())
	}
}

// TestDenseMatrixOperations 测试稠密矩阵基本操作与 gonum 转换。
func TestDenseMatrixOperations(t *testing.T) {
	m := FromGonum(mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6}))
	if m.Rows() != 3 || m.Cols() != 2 || m.IsSquare() {
		t.Fatalf("unexpected shape %dx%d", m.Rows(), m.Cols())
	}
	y := m.MatrixVectorMultiply(NewDenseVectorWithData([]float64{1, -1}))
	for i, want := range []float64{-1, -1, -1} {
		if y.Get(i) != want {
			t.Errorf("y[%d]=%f, want %f", i, y.Get(i), want)
		}
	}
	m.SwapRows(0, 2)
	if m.Get(0, 0) != 5 || m.Get(2, 1) != 2 {
		t.Errorf("SwapRows failed: row0=(%f, %f)", m.Get(0, 0), m.Get(0, 1))
	}
	m.Increment(1, 1, 10)
	if m.Get(1, 1) != 14 {
		t.Errorf("Increment failed: %f", m.Get(1, 1))
	}

	back := FromGonum(mat.NewDense(3, 2, []float64{5, 6, 3, 14, 1, 2}).T())
	if back.Rows() != 2 || back.Get(1, 0) != 6 || back.Get(0, 1) != 3 {
		t.Errorf("FromGonum transpose mismatch: %dx%d", back.Rows(), back.Cols())
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			if back.Get(j, i) != m.Get(i, j) {
				t.Errorf("element (%d,%d): %f != %f", j, i, back.Get(j, i), m.Get(i, j))
			}
		}
	}
}
