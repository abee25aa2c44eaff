package debug

import (
	"fmt"
	"image/color"
	"math"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// 图片文件名
const (
	SolutionPNG = "solution.png"
	ResidualPNG = "residual.png"
	ErrorPNG    = "error.png"
)

// logFloor 对数坐标下限，精确为零的点取该值
const logFloor = 1e-20

// Plot 在 dir 下输出三张图：解曲线、残差（对数）、误差（对数）
func (list *Record) Plot(dir string) error {
	if len(list.Time) == 0 {
		return fmt.Errorf("debug: 没有可绘制的数据")
	}
	figures := []struct {
		file  string
		title string
		label string
		data  []float64
		log   bool
	}{
		{SolutionPNG, "Solution", "y", list.Y, false},
		{ResidualPNG, "Residual", "|L|", list.Res, true},
		{ErrorPNG, "Error", "|y - y_true|", list.Err, true},
	}
	for _, f := range figures {
		p := plot.New()
		p.Title.Text = f.title
		p.X.Label.Text = "t"
		p.Y.Label.Text = f.label
		if f.log {
			p.Y.Scale = plot.LogScale{}
			p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
		}
		line, err := plotter.NewLine(points(list.Time, f.data, f.log))
		if err != nil {
			return err
		}
		line.LineStyle.Width = vg.Points(1)
		line.LineStyle.Color = color.RGBA{R: 25, G: 135, B: 199, A: 255}
		p.Add(line)
		if f.log && p.Y.Min == p.Y.Max {
			// 常数曲线在对数坐标下需要非零跨度
			p.Y.Min /= 10
			p.Y.Max *= 10
		}
		if err := p.Save(8*vg.Inch, 4*vg.Inch, filepath.Join(dir, f.file)); err != nil {
			return err
		}
	}
	return nil
}

// points 组装坐标，对数坐标时截断到 logFloor
func points(t, v []float64, log bool) plotter.XYs {
	xys := make(plotter.XYs, len(t))
	for i := range t {
		y := v[i]
		if log {
			y = math.Max(y, logFloor)
		}
		xys[i].X, xys[i].Y = t[i], y
	}
	return xys
}
