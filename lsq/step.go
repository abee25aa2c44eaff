package lsq

import (
	"errors"
	"fmt"
	"math"

	"tfc/maths"
	"tfc/types"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// minDamping LM 阻尼下限
const minDamping = 1e-15

// maxBacktrack 高斯-牛顿步长减半次数上限
const maxBacktrack = 30

// gaussNewton 高斯-牛顿步：截断 SVD 求 J·δ = −r 的最小范数最小二乘解
// 完整步不能使残差平方和下降时步长减半回溯，回溯失败则不更新 xi。
func (s *Solver) gaussNewton(p Problem, st *state, ic types.IC) (move, error) {
	j, err := jacobian(p, st.xi, ic, len(st.r))
	if err != nil {
		return move{}, err
	}
	var svd mat.SVD
	if !svd.Factorize(j, mat.SVDThin) {
		return move{}, fmt.Errorf("%w: 雅可比 SVD 分解失败", types.ErrNumerical)
	}
	rank := svd.Rank(s.cfg.RCond)
	if rank == 0 {
		// 雅可比为零，无下降方向
		return move{}, nil
	}
	neg := make([]float64, len(st.r))
	floats.ScaleTo(neg, -1, st.r)
	var delta mat.VecDense
	svd.SolveVecTo(&delta, mat.NewVecDense(len(neg), neg), rank)
	d := delta.RawVector().Data
	if !finite(d) {
		return move{}, fmt.Errorf("%w: 高斯-牛顿更新量中出现 NaN/Inf", types.ErrNumerical)
	}

	size := maxAbs(d)
	trial := make([]float64, len(d))
	alpha := 1.0
	for k := 0; k <= maxBacktrack; k++ {
		floats.AddScaledTo(trial, st.xi, alpha, d)
		r, err := evaluate(p, trial, ic)
		switch {
		case errors.Is(err, types.ErrNumerical):
			// 试探点溢出，按拒绝处理
		case err != nil:
			return move{}, err
		default:
			if cost := floats.Dot(r, r); cost < st.cost {
				copy(st.xi, trial)
				st.r = r
				st.cost = cost
				return move{step: alpha * size, accepted: true, full: k == 0}, nil
			}
		}
		if k == 0 && s.small(size, st.xi) {
			// 舍入误差内的完整步，xi 已是驻点
			return move{step: size, full: true}, nil
		}
		alpha /= 2
	}
	return move{}, nil
}

// levenbergMarquardt LM 步：(JᵀJ + λ·s·I)·δ = −Jᵀr，LU 求解
// 试探步使残差下降则接受并减小阻尼，否则增大阻尼重试，阻尼超过上限则不更新 xi。
func (s *Solver) levenbergMarquardt(p Problem, st *state, ic types.IC) (move, error) {
	j, err := jacobian(p, st.xi, ic, len(st.r))
	if err != nil {
		return move{}, err
	}
	n := len(st.xi)
	var jtj mat.Dense
	jtj.Mul(j.T(), j)
	normal := maths.FromGonum(&jtj)
	rhs := maths.FromGonum(j.T()).MatrixVectorMultiply(maths.NewDenseVectorWithData(st.r))
	rhs.Scale(-1)

	// 阻尼尺度取 JᵀJ 对角线最大值，零列同样被正则化
	scale := 0.0
	for i := 0; i < n; i++ {
		scale = math.Max(scale, normal.Get(i, i))
	}
	if scale == 0 {
		return move{}, nil
	}

	a := maths.NewDenseMatrix(n, n)
	delta := maths.NewDenseVector(n)
	trial := maths.NewDenseVector(n)
	current := maths.NewDenseVectorWithData(st.xi)
	lu, err := maths.NewLU(n)
	if err != nil {
		return move{}, fmt.Errorf("%w: %v", types.ErrConfiguration, err)
	}

	rejected := false
	for ; st.lambda <= types.MaxDamping; rejected = true {
		normal.Copy(a)
		for i := 0; i < n; i++ {
			a.Increment(i, i, st.lambda*scale)
		}
		if err := lu.Decompose(a); err != nil {
			st.lambda *= 10
			continue
		}
		if err := lu.SolveReuse(rhs, delta); err != nil {
			st.lambda *= 10
			continue
		}
		step := delta.MaxAbs()
		if math.IsNaN(step) || math.IsInf(step, 0) {
			return move{}, fmt.Errorf("%w: LM 更新量中出现 NaN/Inf", types.ErrNumerical)
		}
		current.Copy(trial)
		trial.Add(delta)
		x := trial.ToDense()
		r, err := evaluate(p, x, ic)
		if errors.Is(err, types.ErrNumerical) {
			// 试探点溢出，按拒绝处理
			st.lambda *= 10
			continue
		}
		if err != nil {
			return move{}, err
		}
		if cost := floats.Dot(r, r); cost < st.cost {
			copy(st.xi, x)
			st.r = r
			st.cost = cost
			st.lambda = math.Max(st.lambda/10, minDamping)
			return move{step: step, accepted: true, full: !rejected}, nil
		}
		st.lambda *= 10
	}
	s.log.Debug("阻尼达到上限", "lambda", st.lambda)
	st.lambda = types.MaxDamping
	return move{}, nil
}

// finiteDifference 中心差分雅可比
func finiteDifference(p Problem, xi []float64, ic types.IC, rows int) (*mat.Dense, error) {
	var ferr error
	f := func(y, x []float64) {
		if ferr != nil {
			return
		}
		r, err := p.Residual(x, ic)
		if err != nil {
			ferr = err
			return
		}
		copy(y, r)
	}
	j := mat.NewDense(rows, len(xi), nil)
	fd.Jacobian(j, f, xi, &fd.JacobianSettings{Formula: fd.Central})
	if ferr != nil {
		return nil, ferr
	}
	return j, nil
}
