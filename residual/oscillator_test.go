package residual

import (
	"math"
	"testing"

	"tfc/basis"
	"tfc/expression"
	"tfc/lsq"
	"tfc/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func newGrid(t *testing.T, m, n int, length float64) *expression.Grid {
	t.Helper()
	b, err := basis.New(types.BasisCP, m, 0, length)
	require.NoError(t, err)
	e, err := expression.New(b, 0)
	require.NoError(t, err)
	return e.Grid(b.Grid(n))
}

// TestResidualLinear L(xi) = J·xi + L(0)
func TestResidualLinear(t *testing.T) {
	g := newGrid(t, 10, 21, 2)
	o, err := NewOscillator(g, 1.5)
	require.NoError(t, err)
	ic := types.IC{Y0: 1, Y0d: -0.5}
	xi := []float64{0.3, -0.1, 0.2, 0.05, -0.02, 0.01, 0, 0.004, -0.001, 0.0005}

	r0, err := o.Residual(make([]float64, 10), ic)
	require.NoError(t, err)
	r, err := o.Residual(xi, ic)
	require.NoError(t, err)
	j, err := o.Jacobian(xi, ic)
	require.NoError(t, err)

	var jx mat.VecDense
	jx.MulVec(j, mat.NewVecDense(len(xi), xi))
	for i := range r {
		assert.InDelta(t, r0[i]+jx.AtVec(i), r[i], 1e-12)
	}
	// xi = 0 时 y = Y0 + Y0d·t，残差为 w²·y
	pts := g.Points()
	for i, ti := range pts {
		assert.InDelta(t, 1.5*1.5*(1-0.5*ti), r0[i], 1e-12)
	}
	assert.Equal(t, 1.5, o.Omega())
	assert.Same(t, g, o.Grid())
}

// TestResidualExactSolution 用插值 cos 的系数得到接近零的残差
func TestResidualExactSolution(t *testing.T) {
	g := newGrid(t, 30, 61, 3)
	o, err := NewOscillator(g, 1)
	require.NoError(t, err)
	ic := types.IC{Y0: 1, Y0d: 0}
	// 最小二乘拟合 cos 在网格上的值，残差应很小
	py, _, _ := g.Partials()
	target := make([]float64, g.Len())
	for i, ti := range g.Points() {
		target[i] = math.Cos(ti) - 1
	}
	var svd mat.SVD
	require.True(t, svd.Factorize(py, mat.SVDThin))
	var xi mat.VecDense
	svd.SolveVecTo(&xi, mat.NewVecDense(len(target), target), svd.Rank(1e-13))
	res, err := o.Residual(xi.RawVector().Data, ic)
	require.NoError(t, err)
	assert.Less(t, maxAbs(res), 1e-6)
}

// TestResidualNumerical NaN/Inf 被报告而不是被掩盖
func TestResidualNumerical(t *testing.T) {
	g := newGrid(t, 6, 7, 1)
	o, err := NewOscillator(g, 1)
	require.NoError(t, err)

	_, err = o.Residual([]float64{0, 0, math.NaN(), 0, 0, 0}, types.IC{Y0: 1})
	require.ErrorIs(t, err, types.ErrNumerical)
	_, err = o.Residual(make([]float64, 6), types.IC{Y0: math.Inf(1)})
	require.ErrorIs(t, err, types.ErrNumerical)
	_, err = o.Jacobian(make([]float64, 6), types.IC{Y0d: math.NaN()})
	require.ErrorIs(t, err, types.ErrNumerical)

	// w² 溢出
	huge, err := NewOscillator(g, 1e200)
	require.NoError(t, err)
	_, err = huge.Residual(make([]float64, 6), types.IC{Y0: 1})
	require.ErrorIs(t, err, types.ErrNumerical)
}

// TestResidualLength 系数长度不符返回配置错误
func TestResidualLength(t *testing.T) {
	g := newGrid(t, 6, 7, 1)
	o, err := NewOscillator(g, 1)
	require.NoError(t, err)

	_, err = o.Residual(make([]float64, 5), types.IC{Y0: 1})
	require.ErrorIs(t, err, types.ErrConfiguration)
	_, err = o.Jacobian(make([]float64, 7), types.IC{Y0: 1})
	require.ErrorIs(t, err, types.ErrConfiguration)

	// 长度错误的热启动经求解器传出
	s, err := lsq.New(types.DefaultSolverConfig())
	require.NoError(t, err)
	_, err = s.Solve(o, make([]float64, 4), types.IC{Y0: 1})
	require.ErrorIs(t, err, types.ErrConfiguration)
}

// TestNewOscillatorConfiguration 非法角频率
func TestNewOscillatorConfiguration(t *testing.T) {
	g := newGrid(t, 4, 5, 1)
	for _, w := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, err := NewOscillator(g, w)
		require.ErrorIs(t, err, types.ErrConfiguration)
	}
	_, err := NewOscillator(nil, 1)
	require.ErrorIs(t, err, types.ErrConfiguration)
}

func maxAbs(v []float64) float64 {
	m := 0.0
	for _, x := range v {
		m = math.Max(m, math.Abs(x))
	}
	return m
}
