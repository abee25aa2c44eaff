package lsq

import (
	"math"
	"testing"

	"tfc/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// residualFunc 只提供残差的问题
type residualFunc func(xi []float64, ic types.IC) ([]float64, error)

func (f residualFunc) Residual(xi []float64, ic types.IC) ([]float64, error) { return f(xi, ic) }

// linear r = A·x − b，带解析雅可比
type linear struct {
	a *mat.Dense
	b []float64
}

func (l linear) Residual(xi []float64, _ types.IC) ([]float64, error) {
	var r mat.VecDense
	r.MulVec(l.a, mat.NewVecDense(len(xi), xi))
	out := r.RawVector().Data
	for i := range out {
		out[i] -= l.b[i]
	}
	return out, nil
}

func (l linear) Jacobian([]float64, types.IC) (*mat.Dense, error) { return mat.DenseCopyOf(l.a), nil }

// exponential r_i = a·exp(b·t_i) − y_i，带解析雅可比
type exponential struct{ t, y []float64 }

func newExponential(a, b float64) exponential {
	e := exponential{}
	for i := 0; i < 12; i++ {
		ti := 0.25 * float64(i)
		e.t = append(e.t, ti)
		e.y = append(e.y, a*math.Exp(b*ti))
	}
	return e
}

func (e exponential) Residual(xi []float64, _ types.IC) ([]float64, error) {
	r := make([]float64, len(e.t))
	for i, ti := range e.t {
		r[i] = xi[0]*math.Exp(xi[1]*ti) - e.y[i]
	}
	return r, nil
}

func (e exponential) Jacobian(xi []float64, _ types.IC) (*mat.Dense, error) {
	j := mat.NewDense(len(e.t), 2, nil)
	for i, ti := range e.t {
		ex := math.Exp(xi[1] * ti)
		j.Set(i, 0, ex)
		j.Set(i, 1, xi[0]*ti*ex)
	}
	return j, nil
}

// rosenbrock 残差形式，无解析雅可比
var rosenbrock = residualFunc(func(x []float64, _ types.IC) ([]float64, error) {
	return []float64{10 * (x[1] - x[0]*x[0]), 1 - x[0]}, nil
})

func newSolver(t *testing.T, mutate func(*types.SolverConfig)) *Solver {
	t.Helper()
	cfg := types.DefaultSolverConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := New(cfg)
	require.NoError(t, err)
	require.Equal(t, cfg, s.Config())
	return s
}

// TestGaussNewtonLinear 线性问题一步到位，且 xi0 不被修改
func TestGaussNewtonLinear(t *testing.T) {
	p := linear{
		a: mat.NewDense(4, 3, []float64{
			2, 1, 0,
			1, 3, 1,
			0, 1, 4,
			1, 0, 1,
		}),
	}
	want := []float64{1, -2, 0.5}
	var b mat.VecDense
	b.MulVec(p.a, mat.NewVecDense(3, want))
	p.b = b.RawVector().Data

	s := newSolver(t, nil)
	xi0 := []float64{0, 0, 0}
	res, err := s.Solve(p, xi0, types.IC{})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0}, xi0)
	assert.LessOrEqual(t, res.Iterations, 2)
	assert.Less(t, res.Residual, 1e-9)
	assert.InDeltaSlice(t, want, res.Xi, 1e-10)
	assert.GreaterOrEqual(t, res.Elapsed.Nanoseconds(), int64(0))
}

// TestRankDeficient 重复列由 SVD 截断处理，残差仍收敛
func TestRankDeficient(t *testing.T) {
	p := linear{
		a: mat.NewDense(3, 3, []float64{
			1, 1, 0,
			2, 2, 1,
			0, 0, 3,
		}),
		b: []float64{2, 5, 3},
	}
	res, err := newSolver(t, nil).Solve(p, make([]float64, 3), types.IC{})
	require.NoError(t, err)
	assert.Less(t, res.Residual, 1e-9)
	// 最小范数解平分重复列
	assert.InDelta(t, res.Xi[0], res.Xi[1], 1e-10)
}

// TestFiniteDifferenceFallback 未提供雅可比时使用中心差分
func TestFiniteDifferenceFallback(t *testing.T) {
	e := newExponential(2, -1)
	res, err := newSolver(t, nil).Solve(residualFunc(e.Residual), []float64{1.5, -0.5}, types.IC{})
	require.NoError(t, err)
	assert.InDelta(t, 2, res.Xi[0], 1e-8)
	assert.InDelta(t, -1, res.Xi[1], 1e-8)
	assert.Less(t, res.Iterations, 20)
}

// arctan r = atan(x)，从 1.5 出发的完整牛顿步会越过零点并使残差变大
var arctan = residualFunc(func(x []float64, _ types.IC) ([]float64, error) {
	return []float64{math.Atan(x[0])}, nil
})

// TestBacktracking 残差变大的完整步被回溯，不会当作收敛
func TestBacktracking(t *testing.T) {
	res, err := newSolver(t, nil).Solve(arctan, []float64{1.5}, types.IC{})
	require.NoError(t, err)
	assert.LessOrEqual(t, math.Abs(math.Atan(res.Xi[0])), types.Tolerance)
	assert.LessOrEqual(t, res.Residual, types.Tolerance)

	// 第一次迭代只走了回溯步
	s := newSolver(t, func(c *types.SolverConfig) { c.MaxIter = 1 })
	_, err = s.Solve(arctan, []float64{1.5}, types.IC{})
	require.ErrorIs(t, err, types.ErrConvergence)

	s = newSolver(t, func(c *types.SolverConfig) {
		c.Method = types.MethodLevenbergMarquardt
		c.MaxIter = 200
	})
	res, err = s.Solve(arctan, []float64{1.5}, types.IC{})
	require.NoError(t, err)
	assert.LessOrEqual(t, res.Residual, types.Tolerance)
}

// TestStalled 雅可比为零而残差非零时返回 ConvergenceError
func TestStalled(t *testing.T) {
	flat := jacobianFunc{
		residualFunc: func([]float64, types.IC) ([]float64, error) { return []float64{1, -1}, nil },
		jac:          mat.NewDense(2, 2, nil),
	}
	for _, method := range []types.Method{types.MethodGaussNewton, types.MethodLevenbergMarquardt} {
		t.Run(string(method), func(t *testing.T) {
			s := newSolver(t, func(c *types.SolverConfig) { c.Method = method })
			_, err := s.Solve(flat, []float64{0, 0}, types.IC{})
			require.ErrorIs(t, err, types.ErrConvergence)
			var cerr *types.ConvergenceError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, 1, cerr.Iterations)
			assert.Equal(t, 1.0, cerr.Residual)
		})
	}
}

// TestLevenbergMarquardt 阻尼法方程 + LU
func TestLevenbergMarquardt(t *testing.T) {
	s := newSolver(t, func(c *types.SolverConfig) {
		c.Method = types.MethodLevenbergMarquardt
		c.MaxIter = 200
	})
	res, err := s.Solve(newExponential(2, -1), []float64{1, 0}, types.IC{})
	require.NoError(t, err)
	assert.InDelta(t, 2, res.Xi[0], 1e-6)
	assert.InDelta(t, -1, res.Xi[1], 1e-6)

	// 零阻尼配置同样可以工作
	s = newSolver(t, func(c *types.SolverConfig) {
		c.Method = types.MethodLevenbergMarquardt
		c.Damping = 0
		c.MaxIter = 200
	})
	res, err = s.Solve(rosenbrock, []float64{-1.2, 1}, types.IC{})
	require.NoError(t, err)
	assert.InDelta(t, 1, res.Xi[0], 1e-5)
	assert.InDelta(t, 1, res.Xi[1], 1e-5)
}

// TestConvergenceError 迭代上限内未收敛
func TestConvergenceError(t *testing.T) {
	cubic := residualFunc(func(x []float64, _ types.IC) ([]float64, error) {
		return []float64{x[0]*x[0]*x[0] - 8}, nil
	})
	s := newSolver(t, func(c *types.SolverConfig) { c.MaxIter = 1 })
	_, err := s.Solve(cubic, []float64{10}, types.IC{})
	require.ErrorIs(t, err, types.ErrConvergence)
	var cerr *types.ConvergenceError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 1, cerr.Iterations)
	assert.Greater(t, cerr.Residual, 1.0)

	// 放宽上限后收敛
	s = newSolver(t, nil)
	res, err := s.Solve(cubic, []float64{10}, types.IC{})
	require.NoError(t, err)
	assert.InDelta(t, 2, res.Xi[0], 1e-9)
}

// TestAlreadyConverged 初值满足容差时不迭代
func TestAlreadyConverged(t *testing.T) {
	res, err := newSolver(t, nil).Solve(rosenbrock, []float64{1, 1}, types.IC{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Iterations)
	assert.Equal(t, []float64{1, 1}, res.Xi)
}

// TestErrors 配置、维度与数值错误
func TestErrors(t *testing.T) {
	cfg := types.DefaultSolverConfig()
	cfg.Method = "newton"
	_, err := New(cfg)
	require.ErrorIs(t, err, types.ErrConfiguration)

	s := newSolver(t, nil)
	_, err = s.Solve(rosenbrock, nil, types.IC{})
	require.ErrorIs(t, err, types.ErrConfiguration)

	wrong := jacobianFunc{
		residualFunc: func(x []float64, _ types.IC) ([]float64, error) { return []float64{x[0] - 1, x[1]}, nil },
		jac:          mat.NewDense(3, 2, nil),
	}
	_, err = s.Solve(wrong, []float64{0, 0}, types.IC{})
	require.ErrorIs(t, err, types.ErrConfiguration)

	nan := residualFunc(func(x []float64, _ types.IC) ([]float64, error) {
		return []float64{math.Sqrt(x[0] - 5)}, nil
	})
	_, err = s.Solve(nan, []float64{0}, types.IC{})
	require.ErrorIs(t, err, types.ErrNumerical)
}

type jacobianFunc struct {
	residualFunc
	jac *mat.Dense
}

func (j jacobianFunc) Jacobian([]float64, types.IC) (*mat.Dense, error) { return j.jac, nil }

func BenchmarkGaussNewton(b *testing.B) {
	p := newExponential(2, -1)
	s, _ := New(types.DefaultSolverConfig())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.Solve(p, []float64{1, 0}, types.IC{})
	}
}
