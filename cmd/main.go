package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"tfc"
	"tfc/debug"
	"tfc/load"
	"tfc/types"
)

// options 命令行参数
type options struct {
	config    string
	out       string
	logFormat string
	logLevel  string
	dump      bool
	plot      bool
	html      bool
	csv       bool
	json      bool
	metrics   bool
	coldStart bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run 返回进程退出码
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("tfc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var opt options
	fs.StringVar(&opt.config, "config", "", "YAML 问题文件")
	fs.StringVar(&opt.out, "out", ".", "输出目录")
	fs.StringVar(&opt.logFormat, "log-format", "text", "日志格式 text|json")
	fs.StringVar(&opt.logLevel, "log-level", "info", "日志级别 debug|info|warn|error")
	fs.BoolVar(&opt.dump, "dump-config", false, "只输出合并后的问题配置")
	fs.BoolVar(&opt.plot, "png", true, "输出 PNG 图")
	fs.BoolVar(&opt.html, "html", false, "输出 HTML 曲线页面")
	fs.BoolVar(&opt.csv, "csv", false, "输出 CSV")
	fs.BoolVar(&opt.json, "json", false, "输出 JSON 记录")
	fs.BoolVar(&opt.metrics, "metrics", false, "输出 prometheus 文本指标")
	fs.BoolVar(&opt.coldStart, "cold-start", false, "每段从零系数开始")

	// 问题参数，显式给出时覆盖配置文件
	def := types.DefaultProblem()
	n := fs.Int("n", def.N, "每段记录点数 N")
	m := fs.Int("m", def.M, "基函数数量 m")
	basis := fs.String("basis", def.Basis.String(), "基函数类型 CP|LeP|FS|ELMTanh|ELMSigmoid|ELMSin")
	tstart := fs.Float64("tstart", def.TSpan[0], "起始时间")
	tend := fs.Float64("tend", def.TSpan[1], "结束时间")
	nstep := fs.Int("nstep", def.NStep, "分段数")
	y0 := fs.Float64("y0", def.IC.Y0, "y(t0)")
	y0d := fs.Float64("y0d", def.IC.Y0d, "y'(t0)")
	w := fs.Float64("w", def.W, "角频率")
	seed := fs.Int64("seed", def.Seed, "ELM 随机种子")
	method := fs.String("method", string(def.Solver.Method), "最小二乘方法 gauss-newton|levenberg-marquardt")
	tol := fs.Float64("tol", def.Solver.Tol, "残差容差")
	maxIter := fs.Int("max-iter", def.Solver.MaxIter, "最大迭代次数")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return types.CodeConfiguration.ExitCode()
	}

	log, err := newLogger(stderr, opt.logFormat, opt.logLevel)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return types.Classify(err).ExitCode()
	}
	slog.SetDefault(log)
	log = log.With("component", "cmd")

	p := def
	if opt.config != "" {
		if p, err = load.File(opt.config); err != nil {
			log.Error("加载配置失败", "file", opt.config, "code", types.Classify(err), "err", err)
			return types.Classify(err).ExitCode()
		}
	}
	var flagErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "n":
			p.N = *n
		case "m":
			p.M = *m
		case "basis":
			if p.Basis, err = types.GetNameBasis(*basis); err != nil {
				flagErr = err
			}
		case "tstart":
			p.TSpan[0] = *tstart
		case "tend":
			p.TSpan[1] = *tend
		case "nstep":
			p.NStep = *nstep
		case "y0":
			p.IC.Y0 = *y0
		case "y0d":
			p.IC.Y0d = *y0d
		case "w":
			p.W = *w
		case "seed":
			p.Seed = *seed
		case "method":
			p.Solver.Method = types.Method(*method)
		case "tol":
			p.Solver.Tol = *tol
		case "max-iter":
			p.Solver.MaxIter = *maxIter
		}
	})
	if flagErr == nil {
		flagErr = p.Validate()
	}
	if flagErr != nil {
		log.Error("参数无效", "code", types.Classify(flagErr), "err", flagErr)
		return types.Classify(flagErr).ExitCode()
	}
	if opt.dump {
		if err := load.Export(stdout, p); err != nil {
			log.Error("导出配置失败", "err", err)
			return types.CodeIO.ExitCode()
		}
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := solve(ctx, p, opt, log, stdout); err != nil {
		code := types.Classify(err)
		log.Error("运行失败", "code", code, "err", err)
		return code.ExitCode()
	}
	return 0
}

// solve 求解、校验并写出结果
func solve(ctx context.Context, p types.Problem, opt options, log *slog.Logger, stdout io.Writer) error {
	if err := os.MkdirAll(opt.out, 0o755); err != nil {
		return err
	}
	rec := debug.NewRecord(log)
	obs := []tfc.Observer{rec}
	var met *debug.Metrics
	if opt.metrics {
		met = debug.NewMetrics()
		obs = append(obs, met)
	}
	s, err := tfc.New(p, tfc.WithObserver(obs...), tfc.WithWarmStart(!opt.coldStart))
	if err != nil {
		return err
	}
	sol, solveErr := s.Run(ctx)
	// 失败时仍写出指标
	if met != nil {
		if err := met.WriteFile(filepath.Join(opt.out, "tfc.prom")); err != nil {
			return err
		}
	}
	if solveErr != nil {
		return solveErr
	}
	maxErr := tfc.Validate(sol, p)
	rec.Fill(sol)
	fmt.Fprintf(stdout, "run %s: %d segments, solve time %s, max |L| %.3e, max error %.3e\n",
		sol.RunID, sol.NStep, sol.TotalTime(), sol.MaxResidual(), maxErr)

	if opt.plot {
		if err := rec.Plot(opt.out); err != nil {
			return err
		}
	}
	write := func(name string, render func(io.Writer) error) error {
		path := filepath.Join(opt.out, name)
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := render(f); err != nil {
			f.Close()
			return err
		}
		log.Info("已写出", "file", path)
		return f.Close()
	}
	if opt.csv {
		if err := write("tfc.csv", rec.WriteCSV); err != nil {
			return err
		}
	}
	if opt.json {
		if err := write("tfc.json", rec.Render); err != nil {
			return err
		}
	}
	if opt.html {
		c := &debug.Charts{Record: rec}
		if err := write("tfc.html", c.Render); err != nil {
			return err
		}
	}
	return nil
}

// newLogger 按格式与级别创建日志
func newLogger(w io.Writer, format, level string) (*slog.Logger, error) {
	var lv slog.Level
	if err := lv.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("%w: 日志级别 %q", types.ErrConfiguration, level)
	}
	hopts := &slog.HandlerOptions{Level: lv}
	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(w, hopts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, hopts)), nil
	}
	return nil, fmt.Errorf("%w: 日志格式 %q", types.ErrConfiguration, format)
}
