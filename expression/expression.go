package expression

import (
	"fmt"
	"math"

	"tfc/basis"
	"tfc/types"
)

// identityTol 切换函数在 t0 处构成单位阵的容差
const identityTol = 1e-12

// Expression TFC 约束表达式
//
//	y(t, xi, IC) = H(t)·xi + φ1(t)(IC.Y0 − H(t0)·xi) + φ2(t)(IC.Y0d − H'(t0)·xi)
//
// 对任意 xi 都满足 y(t0) = IC.Y0、y'(t0) = IC.Y0d。IC 作为参数传入，
// 表达式与其导数在各分段和各次迭代之间无需重建。
type Expression struct {
	basis *basis.Basis
	t0    float64
	h0    []float64 // H(t0)
	dh0   []float64 // H'(t0)
	sw    []Switch
}

// New 创建约束表达式；未给出切换函数时使用 φ1 = 1、φ2 = t − t0
func New(b *basis.Basis, t0 float64, sw ...Switch) (*Expression, error) {
	if b == nil {
		return nil, fmt.Errorf("%w: 缺少基函数", types.ErrConfiguration)
	}
	if len(sw) == 0 {
		sw = []Switch{Constant(), Linear(t0)}
	}
	if len(sw) != types.ConstraintCount {
		return nil, fmt.Errorf("%w: 约束数量 %d 与切换函数数量 %d 不一致",
			types.ErrConfiguration, types.ConstraintCount, len(sw))
	}
	// 约束矩阵 [[φ1, φ2], [φ1', φ2']](t0) 必须为单位阵
	for j, s := range sw {
		if s.Phi == nil || s.Dphi == nil || s.D2phi == nil {
			return nil, fmt.Errorf("%w: 切换函数 %d 不完整", types.ErrConfiguration, j+1)
		}
		row := [2]float64{s.Phi(t0), s.Dphi(t0)}
		for i, v := range row {
			want := 0.0
			if i == j {
				want = 1
			}
			if math.Abs(v-want) > identityTol || math.IsNaN(v) {
				return nil, fmt.Errorf("%w: 切换函数 %d 在 t0 处不满足约束 (第 %d 项 = %g)",
					types.ErrConfiguration, j+1, i, v)
			}
		}
	}
	h0, dh0, _ := b.Point(t0)
	return &Expression{basis: b, t0: t0, h0: h0, dh0: dh0, sw: sw}, nil
}

// Basis 基函数求值器
func (e *Expression) Basis() *basis.Basis { return e.basis }

// T0 约束点
func (e *Expression) T0() float64 { return e.t0 }

// Size 系数数量
func (e *Expression) Size() int { return e.basis.Size() }

// Y 在任意点集上求 y
func (e *Expression) Y(t, xi []float64, ic types.IC) []float64 {
	return e.Grid(t).Y(xi, ic)
}

// Yd 在任意点集上求 y'
func (e *Expression) Yd(t, xi []float64, ic types.IC) []float64 {
	return e.Grid(t).Yd(xi, ic)
}

// Ydd 在任意点集上求 y''
func (e *Expression) Ydd(t, xi []float64, ic types.IC) []float64 {
	return e.Grid(t).Ydd(xi, ic)
}
