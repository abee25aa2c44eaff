package residual

import (
	"fmt"
	"math"

	"tfc/expression"
	"tfc/types"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Oscillator 谐振子残差 L(xi, IC) = y'' + w²·y
type Oscillator struct {
	grid *expression.Grid
	w    float64
	jac  *mat.Dense // ∂L/∂xi，与 xi、IC 无关
}

// NewOscillator 在网格上构建残差泛函
func NewOscillator(grid *expression.Grid, w float64) (*Oscillator, error) {
	if grid == nil {
		return nil, fmt.Errorf("%w: 缺少网格", types.ErrConfiguration)
	}
	if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
		return nil, fmt.Errorf("%w: 角频率无效 %g", types.ErrConfiguration, w)
	}
	py, _, pydd := grid.Partials()
	var jac mat.Dense
	jac.Scale(w*w, py)
	jac.Add(&jac, pydd)
	return &Oscillator{grid: grid, w: w, jac: &jac}, nil
}

// Grid 残差网格
func (o *Oscillator) Grid() *expression.Grid { return o.grid }

// Omega 角频率
func (o *Oscillator) Omega() float64 { return o.w }

// Residual 在网格每个点上计算 y'' + w²·y
func (o *Oscillator) Residual(xi []float64, ic types.IC) ([]float64, error) {
	if err := o.checkInput(xi, ic); err != nil {
		return nil, err
	}
	y := o.grid.Y(xi, ic)
	res := o.grid.Ydd(xi, ic)
	floats.AddScaled(res, o.w*o.w, y)
	if !finite(res) {
		return nil, fmt.Errorf("%w: 残差中出现 NaN/Inf", types.ErrNumerical)
	}
	return res, nil
}

// Jacobian 精确雅可比 ∂L/∂xi（问题对 xi 线性，返回常量矩阵的副本）
func (o *Oscillator) Jacobian(xi []float64, ic types.IC) (*mat.Dense, error) {
	if err := o.checkInput(xi, ic); err != nil {
		return nil, err
	}
	return mat.DenseCopyOf(o.jac), nil
}

// checkInput 系数长度等于基函数数量，系数与初值必须为有限值
func (o *Oscillator) checkInput(xi []float64, ic types.IC) error {
	if _, m := o.jac.Dims(); len(xi) != m {
		return fmt.Errorf("%w: 系数长度 %d 与基函数数量 %d 不一致", types.ErrConfiguration, len(xi), m)
	}
	if !finite(xi) {
		return fmt.Errorf("%w: 系数中出现 NaN/Inf", types.ErrNumerical)
	}
	if !ic.Finite() {
		return fmt.Errorf("%w: 初值中出现 NaN/Inf %+v", types.ErrNumerical, ic)
	}
	return nil
}

func finite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
