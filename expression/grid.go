package expression

import (
	"fmt"

	"tfc/types"

	"gonum.org/v1/gonum/mat"
)

// Grid 固定点集上的预计算结果
// 表达式对 xi 线性，∂y/∂xi、∂y'/∂xi、∂y''/∂xi 与 xi、IC 无关，
// 每个分段几何相同时只需计算一次。
type Grid struct {
	t    []float64
	py   *mat.Dense // H − φ1·H(t0)ᵀ − φ2·H'(t0)ᵀ
	pyd  *mat.Dense
	pydd *mat.Dense
	phi  [3][2][]float64 // [导数阶][切换函数][点]
}

// Grid 在点集 t 上预计算
func (e *Expression) Grid(t []float64) *Grid {
	h, dh, d2h := e.basis.Matrices(t)
	g := &Grid{t: append([]float64(nil), t...)}
	for j, s := range e.sw {
		g.phi[0][j], g.phi[1][j], g.phi[2][j] = s.eval(t)
	}
	g.py = e.partial(h, g.phi[0])
	g.pyd = e.partial(dh, g.phi[1])
	g.pydd = e.partial(d2h, g.phi[2])
	return g
}

// partial 原地减去切换函数修正项
func (e *Expression) partial(h *mat.Dense, phi [2][]float64) *mat.Dense {
	r, c := h.Dims()
	for i := 0; i < r; i++ {
		for k := 0; k < c; k++ {
			h.Set(i, k, h.At(i, k)-phi[0][i]*e.h0[k]-phi[1][i]*e.dh0[k])
		}
	}
	return h
}

// Points 点集
func (g *Grid) Points() []float64 { return g.t }

// Len 点数
func (g *Grid) Len() int { return len(g.t) }

// Partials ∂y/∂xi、∂y'/∂xi、∂y''/∂xi（只读）
func (g *Grid) Partials() (py, pyd, pydd mat.Matrix) { return g.py, g.pyd, g.pydd }

// eval 计算 P·xi + φ1·Y0 + φ2·Y0d
func (g *Grid) eval(p *mat.Dense, phi [2][]float64, xi []float64, ic types.IC) []float64 {
	_, c := p.Dims()
	if len(xi) != c {
		panic(fmt.Sprintf("expression: 系数长度 %d 与基函数数量 %d 不一致", len(xi), c))
	}
	out := mat.NewVecDense(len(g.t), nil)
	out.MulVec(p, mat.NewVecDense(len(xi), xi))
	y := out.RawVector().Data
	for i := range y {
		y[i] += phi[0][i]*ic.Y0 + phi[1][i]*ic.Y0d
	}
	return y
}

// Y 约束表达式
func (g *Grid) Y(xi []float64, ic types.IC) []float64 { return g.eval(g.py, g.phi[0], xi, ic) }

// Yd 一阶导数
func (g *Grid) Yd(xi []float64, ic types.IC) []float64 { return g.eval(g.pyd, g.phi[1], xi, ic) }

// Ydd 二阶导数
func (g *Grid) Ydd(xi []float64, ic types.IC) []float64 { return g.eval(g.pydd, g.phi[2], xi, ic) }

// At 一次求出 y、y'、y''
func (g *Grid) At(xi []float64, ic types.IC) (y, yd, ydd []float64) {
	return g.Y(xi, ic), g.Yd(xi, ic), g.Ydd(xi, ic)
}
