package tfc

import (
	"time"

	"tfc/types"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// SegmentResult 单个分段的求解结果（不含分段最后一个网格点）
type SegmentResult struct {
	Index      int           // 分段索引
	Offset     float64       // 分段起点全局时间
	IC         types.IC      // 分段起点约束
	Final      types.IC      // 分段终点状态，作为下一段约束
	T          []float64     // 全局时间
	Y          []float64     // y
	Yd         []float64     // y'
	Ydd        []float64     // y''
	Res        []float64     // |y'' + w²y|
	Xi         []float64     // 收敛系数
	Iterations int           // 最小二乘迭代次数
	Residual   float64       // 网格上残差最大绝对值（含最后一点）
	Elapsed    time.Duration // 求解耗时
}

// Solution 整个运行的结果缓冲区
// 矩阵均为 N × Nstep，行是分段内的点，列是分段。
type Solution struct {
	RunID      uuid.UUID
	N          int
	NStep      int
	T          *mat.Dense
	Y          *mat.Dense
	Yd         *mat.Dense
	Ydd        *mat.Dense
	Res        *mat.Dense
	Err        *mat.Dense // Validate 之后有效
	Time       []time.Duration
	Iterations []int
	Final      []types.IC // 每段终点状态
}

// newSolution 预先分配全部缓冲区
func newSolution(n, nstep int, id uuid.UUID) *Solution {
	return &Solution{
		RunID:      id,
		N:          n,
		NStep:      nstep,
		T:          mat.NewDense(n, nstep, nil),
		Y:          mat.NewDense(n, nstep, nil),
		Yd:         mat.NewDense(n, nstep, nil),
		Ydd:        mat.NewDense(n, nstep, nil),
		Res:        mat.NewDense(n, nstep, nil),
		Err:        mat.NewDense(n, nstep, nil),
		Time:       make([]time.Duration, nstep),
		Iterations: make([]int, nstep),
		Final:      make([]types.IC, nstep),
	}
}

// record 写入第 seg.Index 列
func (s *Solution) record(seg SegmentResult) {
	i := seg.Index
	s.T.SetCol(i, seg.T)
	s.Y.SetCol(i, seg.Y)
	s.Yd.SetCol(i, seg.Yd)
	s.Ydd.SetCol(i, seg.Ydd)
	s.Res.SetCol(i, seg.Res)
	s.Time[i] = seg.Elapsed
	s.Iterations[i] = seg.Iterations
	s.Final[i] = seg.Final
}

// Flatten 按列展开为一维数组（时间顺序）
func Flatten(m mat.Matrix) []float64 {
	r, c := m.Dims()
	out := make([]float64, 0, r*c)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			out = append(out, m.At(i, j))
		}
	}
	return out
}

// TotalTime 所有分段求解耗时之和
func (s *Solution) TotalTime() time.Duration {
	var total time.Duration
	for _, d := range s.Time {
		total += d
	}
	return total
}

// MaxResidual 记录点上残差最大值
func (s *Solution) MaxResidual() float64 { return floats.Max(Flatten(s.Res)) }

// MaxError 记录点上误差最大值
func (s *Solution) MaxError() float64 { return floats.Max(Flatten(s.Err)) }
