package types

import (
	"fmt"
	"math"
)

// IC 当前分段起点状态，按值传递
type IC struct {
	Y0  float64 `yaml:"y0" json:"y0"`   // y(t0)
	Y0d float64 `yaml:"y0d" json:"y0d"` // y'(t0)
}

// Finite 是否为有限值
func (ic IC) Finite() bool {
	return !math.IsNaN(ic.Y0) && !math.IsInf(ic.Y0, 0) && !math.IsNaN(ic.Y0d) && !math.IsInf(ic.Y0d, 0)
}

// SegmentConfig 分段配置，整个运行期间不变
type SegmentConfig struct {
	Length float64   // 分段长度 tstep
	N      int       // 记录点数（网格 N+1 点）
	M      int       // 基函数数量
	Basis  BasisType // 基函数类型
	NC     int       // 约束数量
	Seed   int64     // ELM 随机权重种子
}

// Validate 校验分段配置
func (c SegmentConfig) Validate() error {
	switch {
	case !c.Basis.Valid():
		return fmt.Errorf("%w: 不支持的基函数类型 %v", ErrConfiguration, c.Basis)
	case c.N < 1:
		return fmt.Errorf("%w: N 必须为正, 当前 %d", ErrConfiguration, c.N)
	case c.M < 1:
		return fmt.Errorf("%w: m 必须为正, 当前 %d", ErrConfiguration, c.M)
	case !(c.Length > 0) || math.IsInf(c.Length, 0):
		return fmt.Errorf("%w: 分段长度必须为正, 当前 %g", ErrConfiguration, c.Length)
	case c.NC != ConstraintCount:
		return fmt.Errorf("%w: 约束数量必须为 %d, 当前 %d", ErrConfiguration, ConstraintCount, c.NC)
	}
	return nil
}

// Method 最小二乘迭代方法
type Method string

const (
	MethodGaussNewton        Method = "gauss-newton"        // SVD 最小二乘步
	MethodLevenbergMarquardt Method = "levenberg-marquardt" // 阻尼法方程 + LU
)

// SolverConfig 分段求解器配置
type SolverConfig struct {
	Method  Method  `yaml:"method" json:"method"`
	Tol     float64 `yaml:"tol" json:"tol"`           // 残差最大绝对值容差
	XTol    float64 `yaml:"xtol" json:"xtol"`         // 系数更新相对容差
	FTol    float64 `yaml:"ftol" json:"ftol"`         // 残差平方和相对下降容差
	RCond   float64 `yaml:"rcond" json:"rcond"`       // SVD 截断阈值
	MaxIter int     `yaml:"max_iter" json:"max_iter"` // 最大迭代次数
	Damping float64 `yaml:"damping" json:"damping"`   // LM 初始阻尼
}

// DefaultSolverConfig 默认求解器配置
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		Method:  MethodGaussNewton,
		Tol:     Tolerance,
		XTol:    StepTolerance,
		FTol:    FuncTolerance,
		RCond:   RCond,
		MaxIter: MaxIterations,
		Damping: Damping,
	}
}

// Validate 校验求解器配置
func (c SolverConfig) Validate() error {
	switch c.Method {
	case MethodGaussNewton, MethodLevenbergMarquardt:
	default:
		return fmt.Errorf("%w: 未知最小二乘方法 %q", ErrConfiguration, c.Method)
	}
	if c.MaxIter < 1 {
		return fmt.Errorf("%w: 最大迭代次数必须为正, 当前 %d", ErrConfiguration, c.MaxIter)
	}
	if c.Tol < 0 || c.XTol < 0 || c.FTol < 0 || c.RCond < 0 || c.Damping < 0 {
		return fmt.Errorf("%w: 容差不能为负", ErrConfiguration)
	}
	return nil
}

// Problem 问题级配置
type Problem struct {
	N      int          `yaml:"n" json:"n"`           // 每段记录点数
	M      int          `yaml:"m" json:"m"`           // 基函数数量
	Basis  BasisType    `yaml:"basis" json:"basis"`   // 基函数类型
	TSpan  [2]float64   `yaml:"tspan" json:"tspan"`   // [t_start, t_end]
	NStep  int          `yaml:"nstep" json:"nstep"`   // 分段数
	IC     IC           `yaml:"ic" json:"ic"`         // 问题级初值
	W      float64      `yaml:"w" json:"w"`           // 角频率
	Seed   int64        `yaml:"seed" json:"seed"`     // ELM 种子
	Solver SolverConfig `yaml:"solver" json:"solver"` // 求解器配置
}

// DefaultProblem 参考算例
func DefaultProblem() Problem {
	return Problem{
		N:      DefaultPoints,
		M:      DefaultOrder,
		Basis:  DefaultBasis,
		TSpan:  DefaultTSpan,
		NStep:  DefaultSegments,
		IC:     IC{Y0: DefaultY0, Y0d: DefaultY0d},
		W:      DefaultOmega,
		Seed:   int64(ELMSeed),
		Solver: DefaultSolverConfig(),
	}
}

// Validate 校验问题配置
func (p Problem) Validate() error {
	if p.NStep < 1 {
		return fmt.Errorf("%w: Nstep 必须为正, 当前 %d", ErrConfiguration, p.NStep)
	}
	if !(p.TSpan[1] > p.TSpan[0]) || math.IsInf(p.TSpan[0], 0) || math.IsInf(p.TSpan[1], 0) {
		return fmt.Errorf("%w: 时间范围无效 %v", ErrConfiguration, p.TSpan)
	}
	if math.IsNaN(p.W) || math.IsInf(p.W, 0) || p.W < 0 {
		return fmt.Errorf("%w: 角频率无效 %g", ErrConfiguration, p.W)
	}
	if !p.IC.Finite() {
		return fmt.Errorf("%w: 初值无效 %+v", ErrNumerical, p.IC)
	}
	if err := p.Segment().Validate(); err != nil {
		return err
	}
	return p.Solver.Validate()
}

// Segment 由问题配置导出分段配置
func (p Problem) Segment() SegmentConfig {
	return SegmentConfig{
		Length: p.StepLength(),
		N:      p.N,
		M:      p.M,
		Basis:  p.Basis,
		NC:     ConstraintCount,
		Seed:   p.Seed,
	}
}

// StepLength 分段长度
func (p Problem) StepLength() float64 {
	if p.NStep < 1 {
		return 0
	}
	return (p.TSpan[1] - p.TSpan[0]) / float64(p.NStep)
}
