package maths

// denseVector 稠密向量实现
// 基于 DataManager 实现 Vector 接口
type denseVector struct {
	*DataManager
}

// NewDenseVector 创建新的稠密向量
func NewDenseVector(length int) Vector {
	return &denseVector{DataManager: NewDataManager(length)}
}

// NewDenseVectorWithData 从现有数据创建稠密向量（共享底层切片）
func NewDenseVectorWithData(data []float64) Vector {
	return &denseVector{DataManager: NewDataManagerWithData(data)}
}

// Copy 将自身值复制到 a 向量
func (v *denseVector) Copy(a Vector) {
	switch target := a.(type) {
	case *denseVector:
		v.DataManager.Copy(target.DataManager)
	default:
		// 其他实现逐个元素复制
		for i := 0; i < v.Length(); i++ {
			a.Set(i, v.Get(i))
		}
	}
}

// ToDense 转换为稠密切片
func (v *denseVector) ToDense() []float64 {
	return v.DataManager.DataCopy()
}

// Scale 向量缩放
func (v *denseVector) Scale(scalar float64) {
	for i := range v.DataManager.data {
		v.DataManager.data[i] *= scalar
	}
}

// Add 向量加法
func (v *denseVector) Add(other Vector) {
	if other.Length() != v.Length() {
		panic("vector dimension mismatch")
	}
	for i := 0; i < v.Length(); i++ {
		v.Increment(i, other.Get(i))
	}
}
