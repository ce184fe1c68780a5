package calculator

import (
	"errors"
	"math"
	"testing"

	"enginecycle/engine"
	"enginecycle/model"
)

func TestTable(t *testing.T) {
	trace := &model.Trace{Points: []model.CyclePoint{
		{Angle: 0, Temperature: 0, Pressure: 1},
		{Angle: 10, Temperature: 100, Pressure: 2},
		{Angle: 20, Temperature: 50, Pressure: 4},
	}}
	tab, err := newTable(trace)
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		x, wantT, wantP float64
	}{
		{-5, 0, 1},
		{0, 0, 1},
		{5, 50, 1.5},
		{10, 100, 2},
		{15, 75, 3},
		{25, 50, 4},
	}
	for _, c := range cases {
		if got := tab.temperature.Predict(c.x); math.Abs(got-c.wantT) > 1e-12 {
			t.Errorf("temperature(%v) = %v, want %v", c.x, got, c.wantT)
		}
		if got := tab.pressure.Predict(c.x); math.Abs(got-c.wantP) > 1e-12 {
			t.Errorf("pressure(%v) = %v, want %v", c.x, got, c.wantP)
		}
	}
	if _, err := newTable(&model.Trace{}); !errors.Is(err, ErrEmptyTrace) {
		t.Errorf("empty trace err = %v", err)
	}
}

func TestResample(t *testing.T) {
	e := engine.NewEngine()
	full, err := CalculateEngineCycle(e, DefaultCycleParams(), 720)
	if err != nil {
		t.Fatal(err)
	}
	res, err := Resample(e, full, 72)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Points) != 72 {
		t.Fatalf("points = %d, want 72", len(res.Points))
	}
	if res.Points[0].Temperature != full.Points[0].Temperature {
		t.Errorf("first point changed: %v", res.Points[0].Temperature)
	}
	if res.Points[71].Angle != 720 || res.Points[71].Temperature != full.Points[719].Temperature {
		t.Errorf("last point = %+v", res.Points[71])
	}
	for _, n := range []int{9, 721} {
		if _, err := Resample(e, full, n); !errors.Is(err, ErrResampleRange) {
			t.Errorf("Resample(%d) err = %v", n, err)
		}
	}
	if s := StepSize(72); s != 10 {
		t.Errorf("step size = %v, want 10", s)
	}
}

func TestSampleEvery(t *testing.T) {
	e := engine.NewEngine()
	if err := e.SetRPM(1200); err != nil {
		t.Fatal(err)
	}
	full, err := CalculateEngineCycle(e, DefaultCycleParams(), 720)
	if err != nil {
		t.Fatal(err)
	}
	rows, err := SampleEvery(e, full, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 72 {
		t.Fatalf("rows = %d, want 72", len(rows))
	}
	if rows[0].Time != 0 || rows[71].Angle != 710 {
		t.Errorf("range = %+v .. %+v", rows[0], rows[71])
	}
	// 1200 rpm 时一个循环 0.1 s, 10 deg 对应 0.0014 s (保留 4 位小数)
	if rows[1].Time != 0.0014 {
		t.Errorf("time of 10 deg = %v, want 0.0014", rows[1].Time)
	}
	if math.Abs(rows[0].Pressure-0.95*101325/1e5) > 1e-12 {
		t.Errorf("intake pressure = %v bar", rows[0].Pressure)
	}

	strokes := StrokeSummary(rows)
	if len(strokes) != 4 {
		t.Fatalf("strokes = %d, want 4", len(strokes))
	}
	for i, s := range engine.Strokes {
		if strokes[i].Stroke != s.String() {
			t.Errorf("stroke %d = %s, want %s", i, strokes[i].Stroke, s)
		}
	}
	if strokes[0].MinTemperature != strokes[0].MaxTemperature {
		t.Errorf("intake temperature should be constant: %+v", strokes[0])
	}
	if strokes[2].MaxTemperature <= strokes[1].MaxTemperature {
		t.Errorf("power stroke should be hottest: %+v", strokes)
	}

	sum := Summarize(e, rows, 10)
	if sum.SamplePoints != 72 || sum.SampleInterval != 10 || math.Abs(sum.CycleDuration-0.1) > 1e-12 {
		t.Errorf("summary = %+v", sum)
	}
	if sum.PeakTemperature < sum.MeanTemperature || sum.MeanTemperature < sum.MinTemperature {
		t.Errorf("summary ordering = %+v", sum)
	}

	if _, err := SampleEvery(e, full, 0); !errors.Is(err, ErrInvalidStep) {
		t.Errorf("step 0 err = %v", err)
	}
	if _, err := SampleEvery(e, nil, 10); !errors.Is(err, ErrEmptyTrace) {
		t.Errorf("nil trace err = %v", err)
	}
}

func TestTransient(t *testing.T) {
	p := DefaultTransientParams()
	if v := p.Temperature(0); v != p.InitialTemp {
		t.Errorf("T(0) = %v", v)
	}
	if v := p.Pressure(0); math.Abs(v-p.InitialPress) > 1e-9 {
		t.Errorf("P(0) = %v", v)
	}
	// 一个时间常数后温差衰减到 1/e
	tau := p.TimeConstant()
	want := p.AmbientTemp + (p.InitialTemp-p.AmbientTemp)/math.E
	if v := p.Temperature(tau); math.Abs(v-want) > 1e-9 {
		t.Errorf("T(tau) = %v, want %v", v, want)
	}
	series, err := p.Series(1000, 11)
	if err != nil {
		t.Fatal(err)
	}
	if len(series) != 11 || series[10].Time != 1000 {
		t.Fatalf("series = %+v", series)
	}
	for i := 1; i < len(series); i++ {
		if series[i].Temperature >= series[i-1].Temperature || series[i].Pressure >= series[i-1].Pressure {
			t.Errorf("series not decaying at %d: %+v", i, series[i])
		}
	}
	if _, err := p.Series(0, 10); !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("zero duration err = %v", err)
	}
}

func TestCalculator(t *testing.T) {
	c := NewCalculator(DefaultConfig())
	trace, err := c.Cycle()
	if err != nil {
		t.Fatal(err)
	}
	if len(trace.Points) != 720 {
		t.Errorf("points = %d", len(trace.Points))
	}
	data, err := c.Sampled()
	if err != nil {
		t.Fatal(err)
	}
	if len(data.Rows) != 72 || len(data.Strokes) != 4 {
		t.Errorf("sampled = %d rows %d strokes", len(data.Rows), len(data.Strokes))
	}
	if _, err := c.Resampled(5); !errors.Is(err, ErrResampleRange) {
		t.Errorf("resample 5 err = %v", err)
	}
	if err := c.SetEnv(model.Env{RPM: -1}); err == nil {
		t.Error("negative rpm accepted")
	}
	if err := c.SetEnv(model.Env{RPM: 3000}); err != nil {
		t.Fatal(err)
	}
	if c.GetEngine().RPM != 3000 {
		t.Errorf("rpm = %v", c.GetEngine().RPM)
	}
	series, err := c.Transient()
	if err != nil || len(series) != 100 {
		t.Errorf("transient = %d points, err %v", len(series), err)
	}
}

func TestCalculatorSetEnvIsAtomic(t *testing.T) {
	c := NewCalculator(DefaultConfig())
	cases := []model.Env{
		{RPM: 3000, CompressionRatio: 0.5},
		{RPM: 3000, PeakTemp: 10},
		{RPM: 3000, Points: -1},
	}
	for _, env := range cases {
		if err := c.SetEnv(env); err == nil {
			t.Errorf("%+v accepted", env)
		}
		if rpm := c.GetEngine().RPM; rpm != 1200 {
			t.Errorf("rpm after failed %+v = %v, want 1200", env, rpm)
		}
	}
	if !errors.Is(c.SetEnv(model.Env{PeakTemp: 10}), ErrInvalidParams) {
		t.Error("low peak temperature not reported as invalid params")
	}
	if c.cycle.PeakTemp != 2800 {
		t.Errorf("peak temperature = %v, want 2800", c.cycle.PeakTemp)
	}
	trace, err := c.Cycle()
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range trace.Points {
		if math.IsNaN(p.Temperature) || math.IsInf(p.Temperature, 0) || p.Pressure <= 0 {
			t.Fatalf("invalid state at %v deg: %+v", p.Angle, p)
		}
	}
	if trace, err := c.SliderCrank(); err != nil || len(trace.Points) != 73 {
		t.Errorf("slider crank = %v, %v", trace, err)
	}
}
