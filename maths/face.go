package maths

// Epsilon 主元判零阈值
const Epsilon = 1e-300

// Vector 稠密向量接口
type Vector interface {
	// 基础属性方法
	Length() int // 获取向量长度

	// 数据访问方法
	Get(index int) float64              // 获取指定索引元素值
	Set(index int, value float64)       // 设置指定索引元素值
	Increment(index int, value float64) // 增量更新元素（value累加）

	// 数据操作和转换方法
	ToDense() []float64 // 转换为稠密切片（副本）

	// 数据修改方法
	Zero()         // 清空向量为零向量
	Copy(a Vector) // 复制自身数据到目标向量a

	// 数学运算方法
	Scale(scalar float64) // 向量缩放（所有元素乘scalar）
	Add(other Vector)     // 向量加法（自身 += 另一个向量）
	MaxAbs() float64      // 绝对值最大的元素的绝对值
}

// Matrix 稠密矩阵接口
type Matrix interface {
	// 基础属性方法
	Rows() int      // 获取矩阵行数
	Cols() int      // 获取矩阵列数
	IsSquare() bool // 判断是否为方阵（行数=列数）

	// 数据访问方法
	Get(row, col int) float64              // 获取指定行列元素值
	Set(row, col int, value float64)       // 设置指定行列元素值
	Increment(row, col int, value float64) // 增量更新元素

	// 数据修改方法
	Zero()                   // 清空矩阵为零矩阵
	Copy(a Matrix)           // 复制自身数据到目标矩阵a
	SwapRows(row1, row2 int) // 交换两行

	// 数学运算方法
	MatrixVectorMultiply(x Vector) Vector // 矩阵向量乘法（返回A*x）
}

// LU 接口定义了 LU 分解和求解线性方程组的操作。
type LU interface {
	Decompose(matrix Matrix) error // 对输入方阵执行LU分解（PA=LU）
	SolveReuse(b, x Vector) error  // 重用向量求解Ax=b（利用LU分解结果）
}
