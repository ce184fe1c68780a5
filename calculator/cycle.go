package calculator

import (
	"errors"
	"fmt"
	"math"

	"enginecycle/engine"
	"enginecycle/model"

	"gonum.org/v1/gonum/floats"
)

const (
	KelvinOffset = 273.15

	KindCycle       = "cycle"
	KindSliderCrank = "slider_crank"
	UnitCelsius     = "°C"
	UnitKelvin      = "K"
)

var (
	ErrInvalidPoints = errors.New("a cycle needs at least two points")
	ErrInvalidParams = errors.New("invalid cycle parameters")
)

type CycleParams struct {
	AmbientTemp      float64 // K
	InitialTemp      float64 // K, 含残余废气的温升
	InitialPressure  float64 // Pa
	IntakePressure   float64 // 进气压力 / 初始压力
	CompressionIndex float64

	// 燃烧
	CombustionStart float64 // deg
	CombustionSpan  float64 // deg
	PeakTemp        float64 // K
	WiebeA          float64
	WiebeM          float64

	// 排气
	ExhaustStart float64 // deg
	BlowdownSpan float64 // deg
}

func DefaultCycleParams() CycleParams {
	ambient := 298.0
	return CycleParams{
		AmbientTemp:      ambient,
		InitialTemp:      ambient + 15,
		InitialPressure:  101325,
		IntakePressure:   0.95,
		CompressionIndex: 1.35,
		CombustionStart:  355,
		CombustionSpan:   40,
		PeakTemp:         2800,
		WiebeA:           DefaultWiebeA,
		WiebeM:           DefaultWiebeM,
		ExhaustStart:     540,
		BlowdownSpan:     60,
	}
}

// Apply 用前端参数覆盖, 零值保持不变
func (p *CycleParams) Apply(env model.Env) {
	if env.AmbientTemp > 0 {
		p.AmbientTemp = env.AmbientTemp
		p.InitialTemp = env.AmbientTemp + 15
	}
	if env.InitialPressure > 0 {
		p.InitialPressure = env.InitialPressure
	}
	if env.CombustionStart > 0 {
		p.CombustionStart = env.CombustionStart
	}
	if env.CombustionSpan > 0 {
		p.CombustionSpan = env.CombustionSpan
	}
	if env.PeakTemp > 0 {
		p.PeakTemp = env.PeakTemp
	}
	if env.ExhaustStart > 0 {
		p.ExhaustStart = env.ExhaustStart
	}
	if env.BlowdownSpan > 0 {
		p.BlowdownSpan = env.BlowdownSpan
	}
}

func (p CycleParams) Validate() error {
	switch {
	case p.InitialTemp <= 0 || p.InitialPressure <= 0 || p.PeakTemp <= 0:
		return fmt.Errorf("%w: temperatures and pressure must be positive", ErrInvalidParams)
	case p.CombustionSpan <= 0 || p.BlowdownSpan <= 0:
		return fmt.Errorf("%w: combustion and blowdown durations must be positive", ErrInvalidParams)
	case p.ExhaustStart+p.BlowdownSpan >= engine.CycleAngle:
		return fmt.Errorf("%w: blowdown must end before %v deg", ErrInvalidParams, engine.CycleAngle)
	}
	return nil
}

// CompressionEndTemp 压缩终了(上止点)温度, K
func (p CycleParams) CompressionEndTemp(e *engine.Engine) float64 {
	ratio := e.NormalizedVolume(engine.StrokeAngle) / e.NormalizedVolume(2*engine.StrokeAngle)
	return p.InitialTemp * math.Pow(ratio, p.CompressionIndex-1)
}

// Check 结合发动机参数检查, 峰值温度需高于压缩终了温度
func (p CycleParams) Check(e *engine.Engine) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if tc := p.CompressionEndTemp(e); p.PeakTemp <= tc {
		return fmt.Errorf("%w: peak temperature %v K must exceed compression end temperature %.2f K", ErrInvalidParams, p.PeakTemp, tc)
	}
	return nil
}

// CalculateEngineCycle 计算一个四冲程循环内的温度和压力
// 曲轴转角在 [0, 720] 上等分为 n 个点, 温度以 °C 输出
func CalculateEngineCycle(e *engine.Engine, p CycleParams, n int) (*model.Trace, error) {
	if n < 2 {
		return nil, fmt.Errorf("calculate cycle with %d points: %w", n, ErrInvalidPoints)
	}
	if err := p.Check(e); err != nil {
		return nil, err
	}
	angles := span(0, engine.CycleAngle, n)
	temps := make([]float64, n)
	pressures := make([]float64, n)
	volumes := make([]float64, n)
	for i, theta := range angles {
		volumes[i] = e.NormalizedVolume(theta)
	}

	// 进气结束(下止点)时的参考状态
	vRef := e.NormalizedVolume(engine.StrokeAngle)
	tRef := p.InitialTemp
	pRef := p.InitialPressure

	blowdownEnd := p.ExhaustStart + p.BlowdownSpan
	for i, theta := range angles {
		switch {
		case theta <= engine.StrokeAngle:
			temps[i] = p.InitialTemp
			pressures[i] = p.InitialPressure * p.IntakePressure

		case theta <= 2*engine.StrokeAngle:
			ratio := vRef / volumes[i]
			temps[i] = tRef * math.Pow(ratio, p.CompressionIndex-1)
			pressures[i] = pRef * math.Pow(ratio, p.CompressionIndex)

		case theta <= p.ExhaustStart:
			if theta >= p.CombustionStart && theta <= p.CombustionStart+p.CombustionSpan {
				temps[i], pressures[i] = p.combustion(theta, temps[i-1], pressures[i-1], volumes[i-1], volumes[i])
			} else {
				temps[i], pressures[i] = p.expansion(temps[i-1], pressures[i-1], volumes[i-1], volumes[i])
			}

		case theta <= blowdownEnd:
			temps[i], pressures[i] = p.blowdown(theta, temps[i-1], pressures[i-1], volumes[i-1], volumes[i])

		default:
			remaining := (theta - blowdownEnd) / (engine.CycleAngle - blowdownEnd)
			rate := 0.02 + 0.03*remaining
			temps[i] = temps[i-1]*(1-rate) + (p.InitialTemp+120)*rate
			pressures[i] = pressures[i-1]*(1-rate) + p.InitialPressure*1.1*rate
		}
	}

	for i, theta := range angles {
		if !finite(temps[i]) || !finite(pressures[i]) || pressures[i] <= 0 {
			return nil, fmt.Errorf("%w: non-physical state at %.2f deg", ErrInvalidParams, theta)
		}
	}

	trace := &model.Trace{
		Kind:   KindCycle,
		RPM:    e.RPM,
		Unit:   UnitCelsius,
		Points: make([]model.CyclePoint, n),
	}
	for i, theta := range angles {
		trace.Points[i] = model.CyclePoint{
			Angle:       theta,
			Volume:      volumes[i],
			Temperature: temps[i] - KelvinOffset,
			Pressure:    pressures[i],
			Time:        e.TimeAt(theta),
			Stroke:      engine.WhichStroke(theta).String(),
		}
	}
	return trace, nil
}

// 燃烧段: 温升随已燃分数增加, 散热损失随温差增大
func (p CycleParams) combustion(theta, tPrev, pPrev, vPrev, v float64) (float64, float64) {
	burned := Wiebe(theta, p.CombustionStart, p.CombustionSpan, p.WiebeA, p.WiebeM)
	heatLoss := 0.15 + 0.05*(tPrev-p.AmbientTemp)/p.PeakTemp
	t := tPrev + (p.PeakTemp-tPrev)*burned*(1-heatLoss)
	gamma := 1.38 - 0.08*(t/p.PeakTemp)
	return t, pPrev * (t / tPrev) * math.Pow(vPrev/v, gamma)
}

// 膨胀段: 多变指数随温度降低而升高
func (p CycleParams) expansion(tPrev, pPrev, vPrev, v float64) (float64, float64) {
	n := 1.3 - 0.05*(tPrev/p.PeakTemp)
	ratio := v / vPrev
	heatLoss := 0.02 * (tPrev - p.AmbientTemp) / p.PeakTemp
	t := tPrev * math.Pow(ratio, 1-n) * (1 - heatLoss)
	return t, pPrev * (t / tPrev) / ratio
}

// 自由排气段: logistic 衰减到排气目标状态
func (p CycleParams) blowdown(theta, tPrev, pPrev, vPrev, v float64) (float64, float64) {
	progress := (theta - p.ExhaustStart) / p.BlowdownSpan
	decay := 1 / (1 + math.Exp(6*(progress-0.5)))
	t := tPrev*decay + (p.InitialTemp+150)*(1-decay)
	base := pPrev * (t / tPrev) / (v / vPrev)
	return t, base*decay + p.InitialPressure*1.2*(1-decay)
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// span 等分 [start, stop], 末点固定为 stop
func span(start, stop float64, n int) []float64 {
	res := floats.Span(make([]float64, n), start, stop)
	res[n-1] = stop
	return res
}
