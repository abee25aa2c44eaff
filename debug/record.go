package debug

import (
	"encoding/json"
	"io"
	"log/slog"

	"tfc"
	"tfc/types"

	"github.com/google/uuid"
)

// Segment 分段摘要
type Segment struct {
	Index      int      `json:"index"`
	Offset     float64  `json:"offset"`
	IC         types.IC `json:"ic"`
	Final      types.IC `json:"final"`
	Iterations int      `json:"iterations"`
	Residual   float64  `json:"residual"`
	Seconds    float64  `json:"seconds"`
}

// Record 记录一次运行
type Record struct {
	RunID    uuid.UUID     `json:"run_id"`
	Problem  types.Problem `json:"problem"`
	Segments []Segment     `json:"segments"`
	Time     []float64     `json:"t"`   // 时间列
	Y        []float64     `json:"y"`   // y
	Yd       []float64     `json:"yd"`  // y'
	Ydd      []float64     `json:"ydd"` // y''
	Res      []float64     `json:"res"` // |L|
	Err      []float64     `json:"err"` // |y − y_true|
	Failure  string        `json:"error,omitempty"`

	log *slog.Logger
}

var _ tfc.Observer = (*Record)(nil)

// NewRecord 创建记录，log 为 nil 时使用 slog.Default()
func NewRecord(log *slog.Logger) *Record {
	if log == nil {
		log = slog.Default()
	}
	return &Record{log: log.With("component", "debug")}
}

// logger 零值记录回退到默认日志
func (list *Record) logger() *slog.Logger {
	if list.log == nil {
		list.log = slog.Default().With("component", "debug")
	}
	return list.log
}

// Init 初始化
func (list *Record) Init(p types.Problem, runID uuid.UUID) {
	list.RunID = runID
	list.Problem = p
	list.Segments = make([]Segment, 0, p.NStep)
	list.Failure = ""
}

// Update 记录分段
func (list *Record) Update(seg tfc.SegmentResult) {
	list.Segments = append(list.Segments, Segment{
		Index:      seg.Index,
		Offset:     seg.Offset,
		IC:         seg.IC,
		Final:      seg.Final,
		Iterations: seg.Iterations,
		Residual:   seg.Residual,
		Seconds:    seg.Elapsed.Seconds(),
	})
}

// Error 记录失败原因
func (list *Record) Error(err error) {
	list.Failure = err.Error()
	list.logger().Error("运行失败", "run_id", list.RunID, "err", err)
}

// Fill 从结果缓冲区展开曲线（按时间顺序）
func (list *Record) Fill(sol *tfc.Solution) {
	list.RunID = sol.RunID
	list.Time = tfc.Flatten(sol.T)
	list.Y = tfc.Flatten(sol.Y)
	list.Yd = tfc.Flatten(sol.Yd)
	list.Ydd = tfc.Flatten(sol.Ydd)
	list.Res = tfc.Flatten(sol.Res)
	list.Err = tfc.Flatten(sol.Err)
}

// Render 输出 JSON
func (list *Record) Render(w io.Writer) error { return json.NewEncoder(w).Encode(list) }
