package tfc

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"tfc/basis"
	"tfc/expression"
	"tfc/lsq"
	"tfc/residual"
	"tfc/types"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Observer 分段求解过程回调
type Observer interface {
	Init(p types.Problem, runID uuid.UUID) // 运行开始
	Update(seg SegmentResult)              // 分段完成
	Error(err error)                       // 运行失败
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

// WithObserver 追加观察者
func WithObserver(obs ...Observer) Option {
	return func(s *Solver) { s.observers = append(s.observers, obs...) }
}

// WithTracer 设置链路追踪
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Solver) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithWarmStart 是否以上一段收敛系数作为下一段初值
func WithWarmStart(warm bool) Option {
	return func(s *Solver) { s.warmStart = warm }
}

// WithSwitching 自定义切换函数（默认 φ1 = 1，φ2 = t − t0）
func WithSwitching(sw ...expression.Switch) Option {
	return func(s *Solver) { s.switching = sw }
}

// Solver 分段推进求解器
// 基函数、约束表达式、网格矩阵与残差泛函只构建一次，所有分段共用。
type Solver struct {
	problem   types.Problem
	segment   types.SegmentConfig
	expr      *expression.Expression
	grid      *expression.Grid
	osc       *residual.Oscillator
	lsq       *lsq.Solver
	log       *slog.Logger
	tracer    trace.Tracer
	observers []Observer
	warmStart bool
	switching []expression.Switch
}

// New 校验问题配置并构建共享结构
func New(p types.Problem, opts ...Option) (*Solver, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	s := &Solver{
		problem:   p,
		segment:   p.Segment(),
		log:       slog.Default(),
		tracer:    otel.Tracer("tfc"),
		warmStart: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("component", "march")

	seg := s.segment
	b, err := basis.New(seg.Basis, seg.M, 0, seg.Length, basis.WithSeed(seg.Seed))
	if err != nil {
		return nil, err
	}
	if s.expr, err = expression.New(b, 0, s.switching...); err != nil {
		return nil, err
	}
	s.grid = s.expr.Grid(b.Grid(seg.N + 1))
	if s.osc, err = residual.NewOscillator(s.grid, p.W); err != nil {
		return nil, err
	}
	if s.lsq, err = lsq.New(p.Solver, lsq.WithLogger(s.log)); err != nil {
		return nil, err
	}
	return s, nil
}

// Problem 问题配置
func (s *Solver) Problem() types.Problem { return s.problem }

// Segment 分段配置
func (s *Solver) Segment() types.SegmentConfig { return s.segment }

// Expression 约束表达式（局部时间，t0 = 0）
func (s *Solver) Expression() *expression.Expression { return s.expr }

// Grid 局部网格（N+1 点）
func (s *Solver) Grid() *expression.Grid { return s.grid }

// Run 逐段求解
// 状态流转：初始化 → 求解分段 → 记录 → 更新约束 → … → 完成。
// 上下文只在分段之间检查，不会中断正在进行的最小二乘求解。
func (s *Solver) Run(ctx context.Context) (*Solution, error) {
	p, seg := s.problem, s.segment
	id := uuid.New()
	ctx, span := s.tracer.Start(ctx, "tfc.Run", trace.WithAttributes(
		attribute.String("run_id", id.String()),
		attribute.String("basis", seg.Basis.String()),
		attribute.Int("n", seg.N),
		attribute.Int("m", seg.M),
		attribute.Int("nstep", p.NStep),
	))
	defer span.End()

	log := s.log.With("run_id", id.String())
	log.Info("开始求解", "basis", seg.Basis, "n", seg.N, "m", seg.M, "nstep", p.NStep,
		"tspan", p.TSpan, "w", p.W, "method", p.Solver.Method)
	for _, obs := range s.observers {
		obs.Init(p, id)
	}

	// 初始化
	sol := newSolution(seg.N, p.NStep, id)
	xi0 := make([]float64, seg.M)
	ic := p.IC
	offset := p.TSpan[0]
	start := time.Now()

	fail := func(i int, err error) (*Solution, error) {
		err = &types.SegmentError{Segment: i, Time: offset, Err: err}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Error("求解失败", "segment", i, "code", types.Classify(err), "err", err)
		for _, obs := range s.observers {
			obs.Error(err)
		}
		return nil, err
	}

	for i := 0; i < p.NStep; i++ {
		if err := ctx.Err(); err != nil {
			return fail(i, err)
		}
		res, err := s.solveSegment(ctx, i, offset, xi0, ic)
		if err != nil {
			return fail(i, err)
		}
		sol.record(res)
		log.Debug("分段完成", "segment", i, "t", offset, "iterations", res.Iterations,
			"residual", res.Residual, "elapsed", res.Elapsed)
		for _, obs := range s.observers {
			obs.Update(res)
		}

		// 更新约束
		ic = res.Final
		offset = res.Offset + s.grid.Points()[seg.N]
		if s.warmStart {
			xi0 = res.Xi
		}
	}

	log.Info("求解完成", "elapsed", time.Since(start), "solve_time", sol.TotalTime(),
		"max_residual", sol.MaxResidual())
	return sol, nil
}

// solveSegment 求解并记录一个分段
func (s *Solver) solveSegment(ctx context.Context, i int, offset float64, xi0 []float64, ic types.IC) (SegmentResult, error) {
	_, span := s.tracer.Start(ctx, "tfc.Segment", trace.WithAttributes(
		attribute.Int("segment", i),
		attribute.Float64("offset", offset),
	))
	defer span.End()

	out, err := s.lsq.Solve(s.osc, xi0, ic)
	if err != nil {
		return SegmentResult{}, err
	}
	y, yd, ydd := s.grid.At(out.Xi, ic)
	r, err := s.osc.Residual(out.Xi, ic)
	if err != nil {
		return SegmentResult{}, err
	}

	n := s.segment.N
	res := SegmentResult{
		Index:      i,
		Offset:     offset,
		IC:         ic,
		Final:      types.IC{Y0: y[n], Y0d: yd[n]},
		T:          make([]float64, n),
		Y:          y[:n],
		Yd:         yd[:n],
		Ydd:        ydd[:n],
		Res:        make([]float64, n),
		Xi:         out.Xi,
		Iterations: out.Iterations,
		Elapsed:    out.Elapsed,
	}
	for k, t := range s.grid.Points()[:n] {
		res.T[k] = offset + t
	}
	for k, v := range r {
		a := math.Abs(v)
		if k < n {
			res.Res[k] = a
		}
		res.Residual = math.Max(res.Residual, a)
	}
	if !res.Final.Finite() {
		return SegmentResult{}, fmt.Errorf("%w: 分段终点状态 %+v", types.ErrNumerical, res.Final)
	}
	span.SetAttributes(attribute.Int("iterations", out.Iterations), attribute.Float64("residual", res.Residual))
	return res, nil
}
