package maths

import "fmt"

// denseMatrix 稠密矩阵实现（行优先，全量存储所有元素）
type denseMatrix struct {
	*DataManager
	rows, cols int
}

// NewDenseMatrix 创建指定维度的空稠密矩阵
func NewDenseMatrix(rows, cols int) Matrix {
	if rows < 0 || cols < 0 {
		panic("invalid matrix dimensions: cannot be negative")
	}
	return &denseMatrix{
		DataManager: NewDataManager(rows * cols),
		rows:        rows,
		cols:        cols,
	}
}

// index 行列转线性索引（越界panic）
func (m *denseMatrix) index(row, col int) int {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		panic(fmt.Sprintf("matrix index out of range: row=%d, col=%d (rows=%d, cols=%d)", row, col, m.rows, m.cols))
	}
	return row*m.cols + col
}

// Rows 返回矩阵行数
func (m *denseMatrix) Rows() int { return m.rows }

// Cols 返回矩阵列数
func (m *denseMatrix) Cols() int { return m.cols }

// IsSquare 判断是否为方阵
func (m *denseMatrix) IsSquare() bool { return m.rows == m.cols }

// Get 获取指定行列元素值
func (m *denseMatrix) Get(row, col int) float64 { return m.data[m.index(row, col)] }

// Set 设置指定行列元素值
func (m *denseMatrix) Set(row, col int, value float64) { m.data[m.index(row, col)] = value }

// Increment 增量更新矩阵元素
func (m *denseMatrix) Increment(row, col int, value float64) { m.data[m.index(row, col)] += value }

// Copy 复制自身数据到目标矩阵
func (m *denseMatrix) Copy(a Matrix) {
	if a.Rows() != m.rows || a.Cols() != m.cols {
		panic(fmt.Sprintf("dimension mismatch: source %dx%d, target %dx%d", m.rows, m.cols, a.Rows(), a.Cols()))
	}
	switch target := a.(type) {
	case *denseMatrix:
		// 同类型直接复制
		m.DataManager.Copy(target.DataManager)
	default:
		for i := 0; i < m.rows; i++ {
			for j := 0; j < m.cols; j++ {
				target.Set(i, j, m.Get(i, j))
			}
		}
	}
}

// SwapRows 交换两行
func (m *denseMatrix) SwapRows(row1, row2 int) {
	if row1 == row2 {
		return
	}
	r1 := m.data[m.index(row1, 0) : m.index(row1, 0)+m.cols]
	r2 := m.data[m.index(row2, 0) : m.index(row2, 0)+m.cols]
	for j := range r1 {
		r1[j], r2[j] = r2[j], r1[j]
	}
}

// MatrixVectorMultiply 矩阵向量乘法（A*x，返回新向量）
func (m *denseMatrix) MatrixVectorMultiply(x Vector) Vector {
	if x.Length() != m.cols {
		panic(fmt.Sprintf("vector dimension mismatch: x length=%d, matrix cols=%d", x.Length(), m.cols))
	}
	result := NewDenseVector(m.rows)
	for i := 0; i < m.rows; i++ {
		sum := 0.0
		row := m.data[i*m.cols : (i+1)*m.cols]
		for j, v := range row {
			sum += v * x.Get(j)
		}
		result.Set(i, sum)
	}
	return result
}
