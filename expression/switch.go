package expression

// Switch 切换函数及其一、二阶导数
type Switch struct {
	Phi   func(t float64) float64
	Dphi  func(t float64) float64
	D2phi func(t float64) float64
}

// Constant φ(t) = 1，对应初值约束
func Constant() Switch {
	return Switch{
		Phi:   func(float64) float64 { return 1 },
		Dphi:  func(float64) float64 { return 0 },
		D2phi: func(float64) float64 { return 0 },
	}
}

// Linear φ(t) = t - t0，对应初始斜率约束
func Linear(t0 float64) Switch {
	return Switch{
		Phi:   func(t float64) float64 { return t - t0 },
		Dphi:  func(float64) float64 { return 1 },
		D2phi: func(float64) float64 { return 0 },
	}
}

// eval 在点集上求值
func (s Switch) eval(t []float64) (phi, dphi, d2phi []float64) {
	phi = make([]float64, len(t))
	dphi = make([]float64, len(t))
	d2phi = make([]float64, len(t))
	for i, ti := range t {
		phi[i], dphi[i], d2phi[i] = s.Phi(ti), s.Dphi(ti), s.D2phi(ti)
	}
	return phi, dphi, d2phi
}
