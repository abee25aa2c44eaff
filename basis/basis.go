package basis

import (
	"fmt"
	"math"
	"math/rand"

	"tfc/types"

	"gonum.org/v1/gonum/mat"
)

// Basis 基函数求值器
// 在 [x0, xf] 上按常数映射 z = z0 + c(x-x0) 将坐标变换到基函数的自然定义域，
// 导数按链式法则乘以 c 与 c²。创建后只读，可被多个分段共享。
type Basis struct {
	kind   types.BasisType
	m      int     // 基函数数量
	x0, xf float64 // 物理域
	z0, zf float64 // 自然定义域
	c      float64 // 映射常数 (zf-z0)/(xf-x0)
	w, b   []float64
}

// Option 求值器选项
type Option func(*Basis)

// WithSeed 设置 ELM 随机权重的种子
func WithSeed(seed int64) Option {
	return func(b *Basis) {
		if b.kind.IsELM() {
			b.initELM(seed)
		}
	}
}

// New 创建基函数求值器
func New(kind types.BasisType, m int, x0, xf float64, opts ...Option) (*Basis, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: 不支持的基函数类型 %v", types.ErrConfiguration, kind)
	}
	if m < 1 {
		return nil, fmt.Errorf("%w: 基函数数量必须为正, 当前 %d", types.ErrConfiguration, m)
	}
	if !(xf > x0) || math.IsInf(x0, 0) || math.IsInf(xf, 0) {
		return nil, fmt.Errorf("%w: 定义域无效 [%g, %g]", types.ErrConfiguration, x0, xf)
	}
	z0, zf := kind.Domain()
	b := &Basis{
		kind: kind,
		m:    m,
		x0:   x0,
		xf:   xf,
		z0:   z0,
		zf:   zf,
		c:    (zf - z0) / (xf - x0),
	}
	if kind.IsELM() {
		b.initELM(int64(types.ELMSeed))
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// initELM 生成 ELM 的权重与偏置，均匀分布于 [-1, 1]
func (b *Basis) initELM(seed int64) {
	rng := rand.New(rand.NewSource(seed))
	b.w = make([]float64, b.m)
	b.b = make([]float64, b.m)
	for i := range b.w {
		b.w[i] = 2*rng.Float64() - 1
	}
	for i := range b.b {
		b.b[i] = 2*rng.Float64() - 1
	}
}

// Kind 基函数类型
func (b *Basis) Kind() types.BasisType { return b.kind }

// Size 基函数数量
func (b *Basis) Size() int { return b.m }

// Domain 物理域
func (b *Basis) Domain() (x0, xf float64) { return b.x0, b.xf }

// Scale 映射常数 c
func (b *Basis) Scale() float64 { return b.c }

// Map 物理坐标映射到自然定义域
func (b *Basis) Map(x float64) float64 { return b.z0 + b.c*(x-b.x0) }

// Grid 生成 n 个配点，首尾分别为 x0 与 xf
func (b *Basis) Grid(n int) []float64 {
	if n < 1 {
		return nil
	}
	x := make([]float64, n)
	if n == 1 {
		x[0] = b.x0
		return x
	}
	for k := range x {
		var z float64
		switch b.kind.Grid() {
		case types.GridLobatto:
			// 切比雪夫-高斯-洛巴托点，端点加密
			z = b.z0 + (b.zf-b.z0)*(1-math.Cos(math.Pi*float64(k)/float64(n-1)))/2
		default:
			z = b.z0 + (b.zf-b.z0)*float64(k)/float64(n-1)
		}
		x[k] = b.x0 + (z-b.z0)/b.c
	}
	x[0], x[n-1] = b.x0, b.xf
	return x
}

// Point 单点求值，返回 H、dH/dx、d²H/dx² 三行
func (b *Basis) Point(x float64) (h, dh, d2h []float64) {
	h = make([]float64, b.m)
	dh = make([]float64, b.m)
	d2h = make([]float64, b.m)
	b.row(x, h, dh, d2h)
	return h, dh, d2h
}

// row 在 x 处填充三行，导数已换算到物理坐标
func (b *Basis) row(x float64, h, dh, d2h []float64) {
	z := b.Map(x)
	switch b.kind {
	case types.BasisCP:
		chebyshev(z, h, dh, d2h)
	case types.BasisLeP:
		legendre(z, h, dh, d2h)
	case types.BasisFS:
		fourier(z, h, dh, d2h)
	default:
		elm(b.kind, b.w, b.b, z, h, dh, d2h)
	}
	c2 := b.c * b.c
	for j := range dh {
		dh[j] *= b.c
		d2h[j] *= c2
	}
}

// Matrices 在点集上求值，返回 (len(x) × m) 的 H、dH、d²H
func (b *Basis) Matrices(x []float64) (h, dh, d2h *mat.Dense) {
	n := len(x)
	hd := make([]float64, n*b.m)
	dhd := make([]float64, n*b.m)
	d2hd := make([]float64, n*b.m)
	for i, xi := range x {
		lo, hi := i*b.m, (i+1)*b.m
		b.row(xi, hd[lo:hi], dhd[lo:hi], d2hd[lo:hi])
	}
	return mat.NewDense(n, b.m, hd), mat.NewDense(n, b.m, dhd), mat.NewDense(n, b.m, d2hd)
}

// H 基函数矩阵
func (b *Basis) H(x []float64) *mat.Dense {
	h, _, _ := b.Matrices(x)
	return h
}

// DH 一阶导数矩阵
func (b *Basis) DH(x []float64) *mat.Dense {
	_, dh, _ := b.Matrices(x)
	return dh
}

// D2H 二阶导数矩阵
func (b *Basis) D2H(x []float64) *mat.Dense {
	_, _, d2h := b.Matrices(x)
	return d2h
}
