package calculator

import (
	"enginecycle/engine"
	"enginecycle/model"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summarize 采样数据的关键指标
func Summarize(e *engine.Engine, rows []model.SampleRow, step float64) model.Summary {
	s := model.Summary{
		RPM:            e.RPM,
		CycleDuration:  e.CycleTime(),
		SamplePoints:   len(rows),
		SampleInterval: step,
	}
	if len(rows) == 0 {
		return s
	}
	temps, pressures := sampleColumns(rows)
	s.PeakTemperature = floats.Max(temps)
	s.MinTemperature = floats.Min(temps)
	s.MeanTemperature = stat.Mean(temps, nil)
	s.PeakPressure = floats.Max(pressures)
	s.MinPressure = floats.Min(pressures)
	s.MeanPressure = stat.Mean(pressures, nil)
	return s
}

// StrokeSummary 各冲程的均值/最小值/最大值, 没有采样点的冲程不输出
func StrokeSummary(rows []model.SampleRow) []model.StrokeStat {
	grouped := make(map[string][]model.SampleRow, len(engine.Strokes))
	for _, r := range rows {
		grouped[r.Stroke] = append(grouped[r.Stroke], r)
	}

	var res []model.StrokeStat
	for _, stroke := range engine.Strokes {
		group, ok := grouped[stroke.String()]
		if !ok {
			continue
		}
		temps, pressures := sampleColumns(group)
		res = append(res, model.StrokeStat{
			Stroke:          stroke.String(),
			MeanTemperature: Round(stat.Mean(temps, nil), 4),
			MinTemperature:  Round(floats.Min(temps), 4),
			MaxTemperature:  Round(floats.Max(temps), 4),
			MeanPressure:    Round(stat.Mean(pressures, nil), 4),
			MinPressure:     Round(floats.Min(pressures), 4),
			MaxPressure:     Round(floats.Max(pressures), 4),
		})
	}
	return res
}

// Peak 循环内的最高温度和最高压力
func Peak(trace *model.Trace) (temperature, pressure float64) {
	_, temps, pressures := columns(trace)
	if len(temps) == 0 {
		return 0, 0
	}
	return floats.Max(temps), floats.Max(pressures)
}

func sampleColumns(rows []model.SampleRow) (temps, pressures []float64) {
	temps = make([]float64, len(rows))
	pressures = make([]float64, len(rows))
	for i, r := range rows {
		temps[i] = r.Temperature
		pressures[i] = r.Pressure
	}
	return
}

// Bounds 循环内温度和压力的上下限
func Bounds(trace *model.Trace) (minT, maxT, minP, maxP float64) {
	_, temps, pressures := columns(trace)
	if len(temps) == 0 {
		return
	}
	return floats.Min(temps), floats.Max(temps), floats.Min(pressures), floats.Max(pressures)
}
