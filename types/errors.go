package types

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// 错误分类哨兵
var (
	// ErrConfiguration 配置错误：基函数类型未知、N/m/Nstep 非正、约束数与切换函数数不一致等
	ErrConfiguration = errors.New("tfc: configuration error")
	// ErrConvergence 最小二乘迭代达到上限仍未满足容差
	ErrConvergence = errors.New("tfc: convergence error")
	// ErrNumerical 残差、系数或传递的初值中出现 NaN/Inf
	ErrNumerical = errors.New("tfc: numerical error")
)

// ConvergenceError 收敛失败详情
type ConvergenceError struct {
	Iterations int     // 已执行迭代次数
	Residual   float64 // 最终残差最大绝对值
	Step       float64 // 最后一次系数更新最大绝对值
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%v: %d 次迭代后残差 %.3e 更新量 %.3e", ErrConvergence, e.Iterations, e.Residual, e.Step)
}

func (e *ConvergenceError) Unwrap() error { return ErrConvergence }

// SegmentError 记录失败的分段
type SegmentError struct {
	Segment int     // 分段索引
	Time    float64 // 分段起始全局时间
	Err     error
}

func (e *SegmentError) Error() string {
	return fmt.Sprintf("分段 %d (t=%g) 求解失败: %v", e.Segment, e.Time, e.Err)
}

func (e *SegmentError) Unwrap() error { return e.Err }

// Code 错误分类代码，用于日志与退出码
type Code string

const (
	CodeUnknown       Code = "unknown"
	CodeConfiguration Code = "configuration"
	CodeConvergence   Code = "convergence"
	CodeNumerical     Code = "numerical"
	CodeCancel        Code = "cancel"
	CodeIO            Code = "io"
)

// Classify 将错误归类
func Classify(err error) Code {
	switch {
	case err == nil:
		return CodeUnknown
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		return CodeCancel
	case errors.Is(err, ErrConfiguration):
		return CodeConfiguration
	case errors.Is(err, ErrConvergence):
		return CodeConvergence
	case errors.Is(err, ErrNumerical):
		return CodeNumerical
	}
	var perr *os.PathError
	if errors.As(err, &perr) {
		return CodeIO
	}
	return CodeUnknown
}

// ExitCode 进程退出码
func (c Code) ExitCode() int {
	switch c {
	case CodeConfiguration:
		return 2
	case CodeConvergence:
		return 3
	case CodeNumerical:
		return 4
	case CodeCancel:
		return 5
	case CodeIO:
		return 6
	}
	return 1
}
