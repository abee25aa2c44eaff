package basis

import (
	"math"

	"tfc/types"
)

// chebyshev 第一类切比雪夫多项式 T_k(z) 及其对 z 的一、二阶导数
//
//	T_{k+1}   = 2z T_k - T_{k-1}
//	T'_{k+1}  = 2T_k + 2z T'_k - T'_{k-1}
//	T''_{k+1} = 4T'_k + 2z T''_k - T''_{k-1}
func chebyshev(z float64, h, dh, d2h []float64) {
	m := len(h)
	h[0], dh[0], d2h[0] = 1, 0, 0
	if m == 1 {
		return
	}
	h[1], dh[1], d2h[1] = z, 1, 0
	for k := 1; k+1 < m; k++ {
		h[k+1] = 2*z*h[k] - h[k-1]
		dh[k+1] = 2*h[k] + 2*z*dh[k] - dh[k-1]
		d2h[k+1] = 4*dh[k] + 2*z*d2h[k] - d2h[k-1]
	}
}

// legendre 勒让德多项式 P_k(z) 及其导数
//
//	(k+1)P_{k+1} = (2k+1) z P_k - k P_{k-1}
func legendre(z float64, h, dh, d2h []float64) {
	m := len(h)
	h[0], dh[0], d2h[0] = 1, 0, 0
	if m == 1 {
		return
	}
	h[1], dh[1], d2h[1] = z, 1, 0
	for k := 1; k+1 < m; k++ {
		a, c, d := float64(2*k+1), float64(k), float64(k+1)
		h[k+1] = (a*z*h[k] - c*h[k-1]) / d
		dh[k+1] = (a*(h[k]+z*dh[k]) - c*dh[k-1]) / d
		d2h[k+1] = (a*(2*dh[k]+z*d2h[k]) - c*d2h[k-1]) / d
	}
}

// fourier 傅里叶级数 [1, cos z, sin z, cos 2z, sin 2z, ...]
func fourier(z float64, h, dh, d2h []float64) {
	h[0], dh[0], d2h[0] = 1, 0, 0
	for j := 1; j < len(h); j++ {
		k := float64((j + 1) / 2)
		s, c := math.Sincos(k * z)
		if j%2 == 1 {
			h[j], dh[j], d2h[j] = c, -k*s, -k*k*c
		} else {
			h[j], dh[j], d2h[j] = s, k*c, -k*k*s
		}
	}
}

// elm 极限学习机基函数 σ(w z + b)
func elm(kind types.BasisType, w, b []float64, z float64, h, dh, d2h []float64) {
	for j := range h {
		s := w[j]*z + b[j]
		var f, f1, f2 float64
		switch kind {
		case types.BasisELMTanh:
			f = math.Tanh(s)
			f1 = 1 - f*f
			f2 = -2 * f * f1
		case types.BasisELMSigmoid:
			f = 1 / (1 + math.Exp(-s))
			f1 = f * (1 - f)
			f2 = f1 * (1 - 2*f)
		case types.BasisELMSin:
			f, f1 = math.Sincos(s)
			f2 = -f
		}
		h[j], dh[j], d2h[j] = f, w[j]*f1, w[j]*w[j]*f2
	}
}
