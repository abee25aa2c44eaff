package lsq

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"tfc/types"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Problem 残差向量 r(xi, IC)
type Problem interface {
	Residual(xi []float64, ic types.IC) ([]float64, error)
}

// Jacobian 可提供解析雅可比 ∂r/∂xi 的问题，未实现时使用中心差分
type Jacobian interface {
	Problem
	Jacobian(xi []float64, ic types.IC) (*mat.Dense, error)
}

// Result 单次求解结果
type Result struct {
	Xi         []float64     // 收敛系数
	Iterations int           // 迭代次数
	Residual   float64       // 残差最大绝对值
	Step       float64       // 最后一次更新最大绝对值
	Elapsed    time.Duration // 墙钟耗时
}

// Option 求解器选项
type Option func(*Solver)

// WithLogger 设置日志
func WithLogger(log *slog.Logger) Option {
	return func(s *Solver) {
		if log != nil {
			s.log = log
		}
	}
}

// Solver 迭代非线性最小二乘求解器，调用之间无状态
type Solver struct {
	cfg types.SolverConfig
	log *slog.Logger
}

// New 创建求解器
func New(cfg types.SolverConfig, opts ...Option) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Solver{cfg: cfg, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("component", "lsq")
	return s, nil
}

// Config 求解器配置
func (s *Solver) Config() types.SolverConfig { return s.cfg }

// Solve 从 xi0 出发最小化 ‖r(xi, ic)‖²，xi0 不会被修改
func (s *Solver) Solve(p Problem, xi0 []float64, ic types.IC) (Result, error) {
	start := time.Now()
	if len(xi0) == 0 {
		return Result{}, fmt.Errorf("%w: 系数向量为空", types.ErrConfiguration)
	}
	xi := append([]float64(nil), xi0...)
	r, err := evaluate(p, xi, ic)
	if err != nil {
		return Result{}, err
	}
	st := &state{xi: xi, r: r, cost: floats.Dot(r, r), lambda: math.Max(s.cfg.Damping, minDamping)}
	res := Result{Residual: maxAbs(r)}
	if res.Residual <= s.cfg.Tol {
		res.Xi = xi
		res.Elapsed = time.Since(start)
		return res, nil
	}

	for iter := 1; iter <= s.cfg.MaxIter; iter++ {
		prev := st.cost
		var mv move
		switch s.cfg.Method {
		case types.MethodLevenbergMarquardt:
			mv, err = s.levenbergMarquardt(p, st, ic)
		default:
			mv, err = s.gaussNewton(p, st, ic)
		}
		if err != nil {
			return Result{}, err
		}
		res.Iterations = iter
		res.Residual = maxAbs(st.r)
		res.Step = mv.step
		s.log.Debug("迭代", "iter", iter, "residual", res.Residual, "step", mv.step,
			"cost", st.cost, "accepted", mv.accepted, "full", mv.full)

		if s.converged(iter, mv, prev, st) {
			res.Xi = st.xi
			res.Elapsed = time.Since(start)
			return res, nil
		}
		if !mv.accepted {
			// 状态不变，后续迭代结果相同
			s.log.Debug("无法继续下降", "iter", iter, "residual", res.Residual)
			break
		}
	}
	return Result{}, &types.ConvergenceError{Iterations: res.Iterations, Residual: res.Residual, Step: res.Step}
}

// converged 残差低于容差即收敛；更新量与残差平方和判据只对完整步长生效
func (s *Solver) converged(iter int, mv move, prev float64, st *state) bool {
	if maxAbs(st.r) <= s.cfg.Tol {
		return true
	}
	if !mv.full {
		return false
	}
	if s.small(mv.step, st.xi) {
		return true
	}
	return mv.accepted && iter >= 2 && prev-st.cost <= s.cfg.FTol*prev
}

// small 更新量相对 xi 可忽略
func (s *Solver) small(step float64, xi []float64) bool {
	return step <= s.cfg.XTol*(maxAbs(xi)+s.cfg.XTol)
}

// move 一次迭代的结果
type move struct {
	step     float64 // 更新量最大绝对值
	accepted bool    // 残差平方和下降，xi 已更新
	full     bool    // 未经回溯或阻尼拒绝的完整步
}

// state 迭代中间量
type state struct {
	xi     []float64
	r      []float64
	cost   float64 // ‖r‖²
	lambda float64 // LM 阻尼
}

// jacobian 解析雅可比优先，否则中心差分
func jacobian(p Problem, xi []float64, ic types.IC, rows int) (*mat.Dense, error) {
	if jp, ok := p.(Jacobian); ok {
		j, err := jp.Jacobian(xi, ic)
		if err != nil {
			return nil, err
		}
		if r, c := j.Dims(); r != rows || c != len(xi) {
			return nil, fmt.Errorf("%w: 雅可比维度 %d×%d 与残差 %d×%d 不一致", types.ErrConfiguration, r, c, rows, len(xi))
		}
		return j, nil
	}
	return finiteDifference(p, xi, ic, rows)
}

// evaluate 计算残差并检查 NaN/Inf
func evaluate(p Problem, xi []float64, ic types.IC) ([]float64, error) {
	r, err := p.Residual(xi, ic)
	if err != nil {
		return nil, err
	}
	if len(r) == 0 {
		return nil, fmt.Errorf("%w: 残差向量为空", types.ErrConfiguration)
	}
	if !finite(r) {
		return nil, fmt.Errorf("%w: 残差中出现 NaN/Inf", types.ErrNumerical)
	}
	return r, nil
}

func maxAbs(v []float64) float64 {
	m := 0.0
	for _, x := range v {
		if math.IsNaN(x) {
			return math.NaN()
		}
		m = math.Max(m, math.Abs(x))
	}
	return m
}

func finite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
