package calculator

import (
	"errors"
	"fmt"
	"math"

	"enginecycle/engine"
	"enginecycle/model"

	"gonum.org/v1/gonum/interp"
)

const (
	MinResamplePoints = 10
	MaxResamplePoints = 720
)

var (
	ErrResampleRange = errors.New("number of steps must be between 10 and 720")
	ErrInvalidStep   = errors.New("sampling step must be in (0, 720]")
	ErrEmptyTrace    = errors.New("empty trace")
)

// table 按曲轴转角对温度和压力分段线性插值, 超出范围时取端点值
type table struct {
	temperature interp.PiecewiseLinear
	pressure    interp.PiecewiseLinear
}

func newTable(trace *model.Trace) (*table, error) {
	if trace == nil || len(trace.Points) == 0 {
		return nil, ErrEmptyTrace
	}
	angles, temps, pressures := columns(trace)
	t := &table{}
	if err := t.temperature.Fit(angles, temps); err != nil {
		return nil, fmt.Errorf("fit temperature: %w", err)
	}
	if err := t.pressure.Fit(angles, pressures); err != nil {
		return nil, fmt.Errorf("fit pressure: %w", err)
	}
	return t, nil
}

func columns(trace *model.Trace) (angles, temps, pressures []float64) {
	angles = make([]float64, len(trace.Points))
	temps = make([]float64, len(trace.Points))
	pressures = make([]float64, len(trace.Points))
	for i, p := range trace.Points {
		angles[i] = p.Angle
		temps[i] = p.Temperature
		pressures[i] = p.Pressure
	}
	return
}

// Resample 将高分辨率循环插值到 [0, 720] 上等分的 n 个点
func Resample(e *engine.Engine, trace *model.Trace, n int) (*model.Trace, error) {
	if n < MinResamplePoints || n > MaxResamplePoints {
		return nil, fmt.Errorf("resample to %d points: %w", n, ErrResampleRange)
	}
	tab, err := newTable(trace)
	if err != nil {
		return nil, err
	}
	res := &model.Trace{
		Kind:   trace.Kind,
		RPM:    trace.RPM,
		Unit:   trace.Unit,
		Points: make([]model.CyclePoint, n),
	}
	for i, theta := range span(0, engine.CycleAngle, n) {
		res.Points[i] = model.CyclePoint{
			Angle:       theta,
			Volume:      e.NormalizedVolume(theta),
			Temperature: tab.temperature.Predict(theta),
			Pressure:    tab.pressure.Predict(theta),
			Time:        e.TimeAt(theta),
			Stroke:      engine.WhichStroke(theta).String(),
		}
	}
	return res, nil
}

// StepSize 重采样后相邻两点的转角间隔
func StepSize(n int) float64 {
	return engine.CycleAngle / float64(n)
}

// SampleEvery 以 step 为间隔采样 [0, 720) , 时间由转角和转速换算并保留 4 位小数
func SampleEvery(e *engine.Engine, trace *model.Trace, step float64) ([]model.SampleRow, error) {
	if step <= 0 || step > engine.CycleAngle {
		return nil, fmt.Errorf("sample every %v deg: %w", step, ErrInvalidStep)
	}
	tab, err := newTable(trace)
	if err != nil {
		return nil, err
	}
	cycleTime := e.CycleTime()

	var rows []model.SampleRow
	for i := 0; ; i++ {
		theta := float64(i) * step
		if theta >= engine.CycleAngle-1e-9 {
			break
		}
		rows = append(rows, model.SampleRow{
			Time:        Round(theta*cycleTime/engine.CycleAngle, 4),
			Angle:       theta,
			Temperature: tab.temperature.Predict(theta),
			Pressure:    tab.pressure.Predict(theta) / 1e5,
			Stroke:      engine.WhichStroke(theta).String(),
		})
	}
	return rows, nil
}

func Round(x float64, digits int) float64 {
	pow := math.Pow(10, float64(digits))
	return math.Round(x*pow) / pow
}
