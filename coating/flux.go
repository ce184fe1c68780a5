package coating

import (
	"errors"
	"math"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var ErrInvalidDiameter = errors.New("please enter a valid numerical value for diameter")

// FluxSeries 某一导热系数下的热流密度和传热量随时间的变化
type FluxSeries struct {
	Conductivity float64   // W/(m·K)
	Time         []float64 // s
	Flux         []float64 // W/m²
	Rate         []float64 // W
}

type TemperatureStats struct {
	MaxTemperature  float64
	MinTemperature  float64
	MeanTemperature float64
}

type FluxStats struct {
	MaxFlux         float64
	MinFlux         float64
	MaxTransferRate float64
}

// HeatFlux q = k * ΔT / δ, Q = q * A, ΔT 取同一时刻最高温度与最低温度之差
func HeatFlux(l *TemperatureLog, k, diameter float64) (*FluxSeries, error) {
	if diameter <= 0 || math.IsNaN(diameter) {
		return nil, ErrInvalidDiameter
	}
	if l == nil || len(l.Samples) == 0 {
		return nil, ErrEmptyLog
	}
	area := PistonArea(diameter)
	series := &FluxSeries{
		Conductivity: k,
		Time:         l.Times(),
		Flux:         make([]float64, len(l.Samples)),
		Rate:         make([]float64, len(l.Samples)),
	}
	for i, s := range l.Samples {
		series.Flux[i] = k * (s.Maximum - s.Minimum) / DefaultThickness
		series.Rate[i] = series.Flux[i] * area
	}
	return series, nil
}

// HeatFluxFamily 对每个导热系数分别计算
func HeatFluxFamily(l *TemperatureLog, ks []float64, diameter float64) ([]*FluxSeries, error) {
	if len(ks) == 0 {
		return nil, ErrNoConductivity
	}
	res := make([]*FluxSeries, 0, len(ks))
	for _, k := range ks {
		s, err := HeatFlux(l, k, diameter)
		if err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	log.WithFields(log.Fields{
		"samples":  len(l.Samples),
		"k":        ks,
		"diameter": diameter,
	}).Info("热流密度计算完成")
	return res, nil
}

func (l *TemperatureLog) Stats() TemperatureStats {
	maxT, minT, avg := make([]float64, len(l.Samples)), make([]float64, len(l.Samples)), make([]float64, len(l.Samples))
	for i, s := range l.Samples {
		maxT[i], minT[i], avg[i] = s.Maximum, s.Minimum, s.Average
	}
	return TemperatureStats{
		MaxTemperature:  floats.Max(maxT),
		MinTemperature:  floats.Min(minT),
		MeanTemperature: stat.Mean(avg, nil),
	}
}

// FamilyStats 所有导热系数下的热流极值
func FamilyStats(family []*FluxSeries) FluxStats {
	res := FluxStats{
		MaxFlux:         math.Inf(-1),
		MinFlux:         math.Inf(1),
		MaxTransferRate: math.Inf(-1),
	}
	for _, s := range family {
		res.MaxFlux = math.Max(res.MaxFlux, floats.Max(s.Flux))
		res.MinFlux = math.Min(res.MinFlux, floats.Min(s.Flux))
		res.MaxTransferRate = math.Max(res.MaxTransferRate, floats.Max(s.Rate))
	}
	return res
}
