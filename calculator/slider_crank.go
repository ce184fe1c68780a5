package calculator

import (
	"fmt"
	"math"

	"enginecycle/engine"
	"enginecycle/model"
)

// SliderCrankParams 固定步长多变过程模型参数, 温度单位 K
type SliderCrankParams struct {
	RefPressure     float64 // Pa
	AmbientTemp     float64 // 机体温度
	PeakTemp        float64
	PeakPressure    float64 // Pa
	PolytropicIndex float64
	CombustionStart float64 // deg
	CombustionEnd   float64 // deg
	WiebeA          float64
	WiebeM          float64
	Step            float64 // deg
}

func DefaultSliderCrankParams() SliderCrankParams {
	return SliderCrankParams{
		RefPressure:     101325,
		AmbientTemp:     350,
		PeakTemp:        1026.85,
		PeakPressure:    3.5e6,
		PolytropicIndex: 1.35,
		CombustionStart: 360,
		CombustionEnd:   390,
		WiebeA:          5,
		WiebeM:          2,
		Step:            10,
	}
}

// CalculateSliderCrank 按曲柄连杆容积计算 0 ~ 720 deg 的温度和压力
func CalculateSliderCrank(e *engine.Engine, p SliderCrankParams) (*model.Trace, error) {
	if p.Step <= 0 || p.Step > engine.CycleAngle {
		return nil, fmt.Errorf("slider crank step %v: %w", p.Step, ErrInvalidPoints)
	}
	if p.CombustionEnd <= p.CombustionStart {
		return nil, fmt.Errorf("%w: combustion must end after it starts", ErrInvalidParams)
	}
	vRef := e.ReferenceVolume
	n := p.PolytropicIndex
	span := p.CombustionEnd - p.CombustionStart

	count := int(math.Floor(engine.CycleAngle/p.Step+1e-9)) + 1
	trace := &model.Trace{
		Kind:   KindSliderCrank,
		RPM:    e.RPM,
		Unit:   UnitKelvin,
		Points: make([]model.CyclePoint, 0, count),
	}
	for i := 0; i < count; i++ {
		theta := float64(i) * p.Step
		v := e.SliderCrankVolume(theta)
		var t, pr float64
		switch {
		case theta < p.CombustionStart:
			t = p.AmbientTemp * math.Pow(vRef/v, n-1)
			pr = p.RefPressure * math.Pow(vRef/v, n)
		case theta <= p.CombustionEnd:
			x := (theta - p.CombustionStart) / span
			t = p.PeakTemp*x + p.AmbientTemp*(1-x)
			pr = p.PeakPressure * math.Exp(-p.WiebeA*math.Pow(x, p.WiebeM))
		default:
			t = p.PeakTemp * math.Pow(v/vRef, n-1)
			pr = p.PeakPressure * math.Pow(v/vRef, n)
		}
		trace.Points = append(trace.Points, model.CyclePoint{
			Angle:       theta,
			Volume:      v,
			Temperature: t,
			Pressure:    pr,
			Time:        e.TimeAt(theta),
			Stroke:      engine.WhichStroke(theta).String(),
		})
	}
	return trace, nil
}
