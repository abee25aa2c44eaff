package types

// 约束常量定义
const (
	ConstraintCount = 2 // 每段约束数量（初值与初始斜率）
)

// 默认参数常量定义
var (
	Tolerance     = 1e-9  // 残差收敛容差（最大绝对值）
	StepTolerance = 1e-13 // 系数更新收敛容差（相对）
	FuncTolerance = 1e-12 // 残差平方和相对下降容差
	RCond         = 1e-13 // SVD 截断秩的相对奇异值阈值
	MaxIterations = 50    // 最大最小二乘迭代次数
	Damping       = 1e-8  // LM 初始阻尼系数
	MaxDamping    = 1e12  // LM 最大阻尼系数
	ELMSeed       = 0     // ELM 基函数随机权重种子
)

// 参考算例默认值
var (
	DefaultPoints   = 100                // 每段记录点数 N（网格 N+1 点）
	DefaultOrder    = 60                 // 基函数数量 m
	DefaultBasis    = BasisCP            // 基函数类型
	DefaultTSpan    = [2]float64{0, 100} // 时间范围
	DefaultSegments = 10                 // 分段数
	DefaultY0       = 1.0                // y(t0)
	DefaultY0d      = 0.0                // y'(t0)
	DefaultOmega    = 1.0                // 角频率 w
)
