package tfc

import (
	"math"

	"tfc/types"
)

// Analytic 谐振子解析解 y(t) = A·cos(w·t + Φ)
// 按等价形式 y0·cos(w(t−t0)) + (y0d/w)·sin(w(t−t0)) 计算，y0 = 0 时同样有限；
// w = 0 时退化为 y0 + y0d·(t−t0)。
func Analytic(t0 float64, ic types.IC, w float64) func(t float64) float64 {
	if w == 0 {
		return func(t float64) float64 { return ic.Y0 + ic.Y0d*(t-t0) }
	}
	return func(t float64) float64 {
		s, c := math.Sincos(w * (t - t0))
		return ic.Y0*c + ic.Y0d/w*s
	}
}

// Validate 用问题级初值计算逐点误差 |y − y_true|，写入 sol.Err 并返回最大值
func Validate(sol *Solution, p types.Problem) float64 {
	exact := Analytic(p.TSpan[0], p.IC, p.W)
	worst := 0.0
	for i := 0; i < sol.N; i++ {
		for j := 0; j < sol.NStep; j++ {
			e := math.Abs(sol.Y.At(i, j) - exact(sol.T.At(i, j)))
			sol.Err.Set(i, j, e)
			worst = math.Max(worst, e)
		}
	}
	return worst
}
