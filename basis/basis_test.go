package basis

import (
	"math"
	"testing"

	"tfc/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// TestNewConfiguration 非法配置返回 ErrConfiguration
func TestNewConfiguration(t *testing.T) {
	_, err := New(types.BasisUnknown, 10, 0, 1)
	require.ErrorIs(t, err, types.ErrConfiguration)
	_, err = New(types.BasisType(99), 10, 0, 1)
	require.ErrorIs(t, err, types.ErrConfiguration)
	_, err = New(types.BasisCP, 0, 0, 1)
	require.ErrorIs(t, err, types.ErrConfiguration)
	_, err = New(types.BasisCP, 5, 1, 1)
	require.ErrorIs(t, err, types.ErrConfiguration)
}

// TestChebyshevValues 与 T_k(z) = cos(k·acos z) 比对
func TestChebyshevValues(t *testing.T) {
	b, err := New(types.BasisCP, 12, -1, 1)
	require.NoError(t, err)
	for _, z := range []float64{-1, -0.7, -0.1, 0.3, 0.95, 1} {
		h, dh, _ := b.Point(z)
		for k := range h {
			assert.InDelta(t, math.Cos(float64(k)*math.Acos(z)), h[k], 1e-12, "T_%d(%g)", k, z)
		}
		// T'_k(±1) = (±1)^{k+1} k²
		if z == 1 {
			for k := range dh {
				assert.InDelta(t, float64(k*k), dh[k], 1e-9, "T'_%d(1)", k)
			}
		}
	}
}

// TestLegendreValues 与低阶显式公式比对
func TestLegendreValues(t *testing.T) {
	b, err := New(types.BasisLeP, 4, -1, 1)
	require.NoError(t, err)
	z := 0.37
	h, dh, d2h := b.Point(z)
	assert.InDelta(t, (3*z*z-1)/2, h[2], 1e-14)
	assert.InDelta(t, (5*z*z*z-3*z)/2, h[3], 1e-14)
	assert.InDelta(t, 3*z, dh[2], 1e-14)
	assert.InDelta(t, (15*z*z-3)/2, dh[3], 1e-14)
	assert.InDelta(t, 3, d2h[2], 1e-14)
	assert.InDelta(t, 15*z, d2h[3], 1e-14)
}

// TestDerivativesFiniteDifference 所有基函数族的导数与中心差分一致（含映射缩放）
func TestDerivativesFiniteDifference(t *testing.T) {
	kinds := []types.BasisType{
		types.BasisCP, types.BasisLeP, types.BasisFS,
		types.BasisELMTanh, types.BasisELMSigmoid, types.BasisELMSin,
	}
	for _, kind := range kinds {
		t.Run(kind.String(), func(t *testing.T) {
			b, err := New(kind, 9, 2, 7)
			require.NoError(t, err)
			const step = 1e-5
			for _, x := range []float64{2.3, 4.1, 6.6} {
				hp, dhp, _ := b.Point(x + step)
				hm, dhm, _ := b.Point(x - step)
				_, dh, d2h := b.Point(x)
				for j := 0; j < b.Size(); j++ {
					fd1 := (hp[j] - hm[j]) / (2 * step)
					fd2 := (dhp[j] - dhm[j]) / (2 * step)
					assert.InDelta(t, fd1, dh[j], 1e-6*(1+math.Abs(fd1)), "dH col %d at %g", j, x)
					assert.InDelta(t, fd2, d2h[j], 1e-6*(1+math.Abs(fd2)), "d2H col %d at %g", j, x)
				}
			}
		})
	}
}

// TestGrid 配点首尾与单调性
func TestGrid(t *testing.T) {
	for _, kind := range []types.BasisType{types.BasisCP, types.BasisFS, types.BasisELMTanh} {
		b, err := New(kind, 5, 0, 10)
		require.NoError(t, err)
		x := b.Grid(101)
		require.Len(t, x, 101)
		assert.Equal(t, 0.0, x[0])
		assert.Equal(t, 10.0, x[100])
		for i := 1; i < len(x); i++ {
			assert.Greater(t, x[i], x[i-1])
		}
	}
	b, _ := New(types.BasisCP, 5, 0, 10)
	assert.Equal(t, []float64{0}, b.Grid(1))
	assert.Nil(t, b.Grid(0))
	// 洛巴托点关于区间中心对称
	x := b.Grid(7)
	for i := range x {
		assert.InDelta(t, 10-x[i], x[len(x)-1-i], 1e-12)
	}
}

// TestDeterministic 相同参数两次求值结果完全一致
func TestDeterministic(t *testing.T) {
	for _, kind := range []types.BasisType{types.BasisCP, types.BasisELMSigmoid} {
		b1, err := New(kind, 20, 0, 10, WithSeed(7))
		require.NoError(t, err)
		b2, err := New(kind, 20, 0, 10, WithSeed(7))
		require.NoError(t, err)
		x := b1.Grid(31)
		h1, dh1, d2h1 := b1.Matrices(x)
		h2, dh2, d2h2 := b1.Matrices(x)
		h3 := b2.H(x)
		assert.True(t, mat.Equal(h1, h2))
		assert.True(t, mat.Equal(dh1, dh2))
		assert.True(t, mat.Equal(d2h1, d2h2))
		assert.True(t, mat.Equal(h1, h3))
	}
}

// TestMatricesMatchPoint 网格矩阵的行与单点求值一致
func TestMatricesMatchPoint(t *testing.T) {
	b, err := New(types.BasisCP, 15, 0, 10)
	require.NoError(t, err)
	x := b.Grid(11)
	h, dh, d2h := b.Matrices(x)
	r, c := h.Dims()
	require.Equal(t, 11, r)
	require.Equal(t, 15, c)
	ph, pdh, pd2h := b.Point(x[4])
	assert.Equal(t, ph, mat.Row(nil, 4, h))
	assert.Equal(t, pdh, mat.Row(nil, 4, b.DH(x)))
	assert.Equal(t, pd2h, mat.Row(nil, 4, b.D2H(x)))
	assert.Equal(t, mat.Row(nil, 4, dh), pdh)
	assert.Equal(t, mat.Row(nil, 4, d2h), pd2h)
	assert.InDelta(t, 0.2, b.Scale(), 1e-15)
}

func BenchmarkMatrices(b *testing.B) {
	bs, _ := New(types.BasisCP, 60, 0, 10)
	x := bs.Grid(101)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bs.Matrices(x)
	}
}
