package debug

import (
	"fmt"
	"io"
	"math"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// Charts 曲线绘制
type Charts struct {
	*Record
}

// newLine 统一的折线图配置
func newLine(title, subtitle string, logY bool) *charts.Line {
	yAxis := opts.YAxis{Scale: opts.Bool(true)}
	if logY {
		yAxis.Type = "log"
	}
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
		charts.WithLegendOpts(opts.Legend{
			Type:   "scroll",
			Orient: "vertical",
			Right:  "10",
			Top:    "20",
			Bottom: "20",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			SplitNumber: 20,
		}),
		charts.WithYAxisOpts(yAxis),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			XAxisIndex: []int{0},
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)
	return line
}

// lineData 曲线数据，对数坐标时截断到 logFloor
func lineData(v []float64, logY bool) []opts.LineData {
	items := make([]opts.LineData, len(v))
	for i, x := range v {
		if logY {
			x = math.Max(x, logFloor)
		}
		items[i].Value = x
	}
	return items
}

// Render 输出 HTML 页面
func (c *Charts) Render(w io.Writer) error {
	if c.Record == nil || len(c.Time) == 0 {
		return fmt.Errorf("debug: 没有可绘制的数据")
	}
	xs := make([]string, len(c.Time))
	for i, t := range c.Time {
		xs[i] = fmt.Sprintf("%.4g", t)
	}
	sub := fmt.Sprintf("%s m=%d N=%d Nstep=%d w=%g", c.Problem.Basis, c.Problem.M, c.Problem.N, c.Problem.NStep, c.Problem.W)

	lineY := newLine("解曲线", sub, false)
	lineY.SetXAxis(xs).
		AddSeries("y", lineData(c.Y, false), charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)})).
		AddSeries("y'", lineData(c.Yd, false), charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))

	lineR := newLine("残差", "|y'' + w²y|", true)
	lineR.SetXAxis(xs).
		AddSeries("|L|", lineData(c.Res, true), charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))

	lineE := newLine("误差", "|y - y_true|", true)
	lineE.SetXAxis(xs).
		AddSeries("err", lineData(c.Err, true), charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))

	page := components.NewPage()
	page.SetPageTitle("TFC " + c.RunID.String())
	page.AddCharts(lineY, lineR, lineE)
	return page.Render(w)
}

// Handler 发布到网页
func (c *Charts) Handler(w http.ResponseWriter, _ *http.Request) {
	if err := c.Render(w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
