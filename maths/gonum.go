package maths

import "gonum.org/v1/gonum/mat"

// FromGonum 将 gonum 矩阵复制为稠密矩阵
func FromGonum(a mat.Matrix) Matrix {
	r, c := a.Dims()
	m := NewDenseMatrix(r, c).(*denseMatrix)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m.data[i*c+j] = a.At(i, j)
		}
	}
	return m
}
