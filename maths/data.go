package maths

import "math"

// DataManager 一维数据管理器（底层存储核心）
type DataManager struct {
	data []float64
}

// NewDataManager 创建一个指定长度的新的 DataManager。
func NewDataManager(length int) *DataManager {
	return &DataManager{data: make([]float64, length)}
}

// NewDataManagerWithData 使用给定的数据切片创建一个新的 DataManager。
// 注意：不复制 data，修改会相互影响。
func NewDataManagerWithData(data []float64) *DataManager {
	return &DataManager{data: data}
}

// Length 返回数据的长度。
func (dm *DataManager) Length() int { return len(dm.data) }

// Get 返回指定索引处的值。
func (dm *DataManager) Get(index int) float64 { return dm.data[index] }

// Set 设置指定索引处的值。
func (dm *DataManager) Set(index int, value float64) { dm.data[index] = value }

// Increment 增加指定索引处的值。
func (dm *DataManager) Increment(index int, value float64) { dm.data[index] += value }

// DataCopy 返回数据切片的副本。
func (dm *DataManager) DataCopy() []float64 {
	cpy := make([]float64, len(dm.data))
	copy(cpy, dm.data)
	return cpy
}

// Zero 将所有元素设置为零。
func (dm *DataManager) Zero() { clear(dm.data) }

// MaxAbs 绝对值最大值
func (dm *DataManager) MaxAbs() float64 {
	m := 0.0
	for _, v := range dm.data {
		if a := math.Abs(v); a > m || math.IsNaN(a) {
			m = a
		}
	}
	return m
}

// Copy 将数据复制到另一个 DataManager。
func (dm *DataManager) Copy(target *DataManager) {
	if dm.Length() != target.Length() {
		panic("DataManager.Copy: length mismatch")
	}
	copy(target.data, dm.data)
}
