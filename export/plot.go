package export

import (
	"bufio"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"enginecycle/coating"
	"enginecycle/engine"
	"enginecycle/model"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	plotWidth  = 10 * vg.Inch
	plotHeight = 8 * vg.Inch
)

var boundaryColor = color.Gray{Y: 128}

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Padding = vg.Points(6)
	p.Y.Label.Padding = vg.Points(6)
	p.Add(plotter.NewGrid())
	return p
}

func addLine(p *plot.Plot, xs, ys []float64, i int, name string) error {
	pts := make(plotter.XYs, len(xs))
	for j := range xs {
		pts[j].X = xs[j]
		pts[j].Y = ys[j]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.LineStyle.Width = vg.Points(2)
	line.LineStyle.Color = plotutil.Color(i)
	p.Add(line)
	if name != "" {
		p.Legend.Add(name, line)
	}
	return nil
}

// addStrokeBoundaries 在 180/360/540 度处画竖直虚线
func addStrokeBoundaries(p *plot.Plot, lo, hi float64) error {
	for _, s := range engine.Strokes[1:] {
		x := float64(s) * engine.StrokeAngle
		line, err := plotter.NewLine(plotter.XYs{{X: x, Y: lo}, {X: x, Y: hi}})
		if err != nil {
			return err
		}
		line.LineStyle.Color = boundaryColor
		line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		p.Add(line)
	}
	return nil
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create directory: %w", err)
	}
	return nil
}

// savePanels 上下排列多个子图并输出 PNG
func savePanels(plots []*plot.Plot, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	rows := make([][]*plot.Plot, len(plots))
	for i, p := range plots {
		rows[i] = []*plot.Plot{p}
	}
	c := vgimg.New(plotWidth, plotHeight)
	dc := draw.New(c)
	tiles := draw.Tiles{
		Rows:      len(plots),
		Cols:      1,
		PadTop:    vg.Points(6),
		PadBottom: vg.Points(6),
		PadLeft:   vg.Points(6),
		PadRight:  vg.Points(12),
		PadY:      vg.Points(12),
	}
	canvases := plot.Align(rows, tiles, dc)
	for i := range rows {
		rows[i][0].Draw(canvases[i][0])
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	defer f.Close()
	bw := bufio.NewWriter(f)
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(bw); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return bw.Flush()
}

func savePlot(p *plot.Plot, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	return p.Save(plotWidth, plotHeight/2, path)
}

// PlotCycle 温度和压力随曲轴转角的变化, 上下两个子图
func PlotCycle(trace *model.Trace, path string) error {
	if trace == nil || len(trace.Points) == 0 {
		return ErrEmptyData
	}
	n := len(trace.Points)
	angles, temps, bars := make([]float64, n), make([]float64, n), make([]float64, n)
	for i, pt := range trace.Points {
		angles[i] = pt.Angle
		temps[i] = pt.Temperature
		bars[i] = pt.Pressure / 1e5
	}

	top := newPlot(fmt.Sprintf("Engine Cycle at %g RPM", trace.RPM), "", fmt.Sprintf("Temperature (%s)", trace.Unit))
	if err := addLine(top, angles, temps, 0, "Temperature"); err != nil {
		return err
	}
	if err := addStrokeBoundaries(top, floats.Min(temps), floats.Max(temps)); err != nil {
		return err
	}

	bottom := newPlot("", "Crank Angle (degrees)", "Pressure (bar)")
	if err := addLine(bottom, angles, bars, 1, "Pressure"); err != nil {
		return err
	}
	if err := addStrokeBoundaries(bottom, floats.Min(bars), floats.Max(bars)); err != nil {
		return err
	}
	for _, p := range []*plot.Plot{top, bottom} {
		p.X.Min, p.X.Max = 0, engine.CycleAngle
	}
	return savePanels([]*plot.Plot{top, bottom}, path)
}

// PlotTransient 瞬态温度和压力随时间的变化
func PlotTransient(series []model.TransientPoint, path string) error {
	if len(series) == 0 {
		return ErrEmptyData
	}
	n := len(series)
	times, temps, bars := make([]float64, n), make([]float64, n), make([]float64, n)
	for i, pt := range series {
		times[i] = pt.Time
		temps[i] = pt.Temperature
		bars[i] = pt.Pressure / 1e5
	}
	top := newPlot("Transient Heat Transfer", "", "Temperature (°C)")
	if err := addLine(top, times, temps, 0, ""); err != nil {
		return err
	}
	bottom := newPlot("", "Time (seconds)", "Pressure (bar)")
	if err := addLine(bottom, times, bars, 1, ""); err != nil {
		return err
	}
	return savePanels([]*plot.Plot{top, bottom}, path)
}

// PlotHeatFlux 不同导热系数下的热流密度
func PlotHeatFlux(family []*coating.FluxSeries, path string) error {
	if len(family) == 0 {
		return ErrEmptyData
	}
	p := newPlot("Heat Flux through Piston Coating", "Time [s]", "Heat Flux [W/m²]")
	for i, s := range family {
		if err := addLine(p, s.Time, s.Flux, i, fmt.Sprintf("k = %g W/mK", s.Conductivity)); err != nil {
			return err
		}
	}
	p.Legend.Top = true
	return savePlot(p, path)
}

// PlotHistory 优化过程中的最优得分
func PlotHistory(history []float64, path string) error {
	if len(history) == 0 {
		return ErrEmptyData
	}
	iterations := make([]float64, len(history))
	for i := range history {
		iterations[i] = float64(i)
	}
	p := newPlot("Optimization Progress", "Iteration", "Best Score")
	if err := addLine(p, iterations, history, 0, ""); err != nil {
		return err
	}
	return savePlot(p, path)
}
