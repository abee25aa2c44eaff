package types

import (
	"fmt"
	"math"
)

// BasisType 基函数类型
type BasisType int

// 基函数类型常量定义
const (
	BasisUnknown    BasisType = iota // 未知类型
	BasisCP                          // 切比雪夫多项式
	BasisLeP                         // 勒让德多项式
	BasisFS                          // 傅里叶级数
	BasisELMTanh                     // 极限学习机 tanh
	BasisELMSigmoid                  // 极限学习机 sigmoid
	BasisELMSin                      // 极限学习机 sin
)

// basisTypeString 基函数映射
var basisTypeString = map[BasisType]struct {
	Name   string     // 名称
	Domain [2]float64 // 自然定义域 [z0, zf]
	Grid   GridType   // 配点方式
}{
	BasisUnknown:    {Name: "Unknown"},
	BasisCP:         {Name: "CP", Domain: [2]float64{-1, 1}, Grid: GridLobatto},
	BasisLeP:        {Name: "LeP", Domain: [2]float64{-1, 1}, Grid: GridLobatto},
	BasisFS:         {Name: "FS", Domain: [2]float64{-math.Pi, math.Pi}, Grid: GridUniform},
	BasisELMTanh:    {Name: "ELMTanh", Domain: [2]float64{0, 1}, Grid: GridUniform},
	BasisELMSigmoid: {Name: "ELMSigmoid", Domain: [2]float64{0, 1}, Grid: GridUniform},
	BasisELMSin:     {Name: "ELMSin", Domain: [2]float64{0, 1}, Grid: GridUniform},
}

var mapBasisName = map[string]BasisType{
	"CP":         BasisCP,
	"LeP":        BasisLeP,
	"FS":         BasisFS,
	"ELMTanh":    BasisELMTanh,
	"ELMSigmoid": BasisELMSigmoid,
	"ELMSin":     BasisELMSin,
}

// GridType 配点方式
type GridType int

const (
	GridLobatto GridType = iota // 切比雪夫-高斯-洛巴托点
	GridUniform                 // 均匀分布点
)

// String 返回基函数类型的字符串表示
func (t BasisType) String() string {
	if bt, ok := basisTypeString[t]; ok {
		return bt.Name
	}
	return "Unknown"
}

// Domain 基函数自然定义域
func (t BasisType) Domain() (z0, zf float64) {
	bt := basisTypeString[t]
	return bt.Domain[0], bt.Domain[1]
}

// Grid 配点方式
func (t BasisType) Grid() GridType { return basisTypeString[t].Grid }

// IsELM 是否为极限学习机基函数
func (t BasisType) IsELM() bool {
	return t == BasisELMTanh || t == BasisELMSigmoid || t == BasisELMSin
}

// Valid 是否为已支持类型
func (t BasisType) Valid() bool {
	return t != BasisUnknown && basisTypeString[t].Name != ""
}

// GetNameBasis 通过名称获取类型
func GetNameBasis(name string) (BasisType, error) {
	if t, ok := mapBasisName[name]; ok {
		return t, nil
	}
	return BasisUnknown, fmt.Errorf("%w: 未知基函数类型 %q", ErrConfiguration, name)
}

// MarshalText 文本编码
func (t BasisType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: 未知基函数类型 %d", ErrConfiguration, int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText 文本解码
func (t *BasisType) UnmarshalText(text []byte) (err error) {
	*t, err = GetNameBasis(string(text))
	return err
}
