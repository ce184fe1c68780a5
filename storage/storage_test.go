package storage

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"enginecycle/calculator"
	"enginecycle/engine"
	"enginecycle/model"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewRun(t *testing.T) {
	trace, err := calculator.CalculateEngineCycle(engine.NewEngine(), calculator.DefaultCycleParams(), 720)
	if err != nil {
		t.Fatal(err)
	}
	r, err := NewRun(trace, model.Env{RPM: 1200, PeakTemp: 2800})
	if err != nil {
		t.Fatal(err)
	}
	if r.Kind != calculator.KindCycle || r.Points != 720 || r.RPM != 1200 {
		t.Errorf("run = %+v", r)
	}
	if r.PeakTemperature <= r.MinTemperature || r.PeakPressure <= r.MinPressure {
		t.Errorf("bounds = %+v", r)
	}
	env, err := r.Env()
	if err != nil || env.PeakTemp != 2800 {
		t.Errorf("env = %+v, %v", env, err)
	}
	trace.Points[3].Temperature = math.Inf(1)
	if _, err := NewRun(trace, model.Env{}); !errors.Is(err, ErrInvalidRun) {
		t.Errorf("infinite temperature err = %v", err)
	}
	if _, err := NewRun(&model.Trace{}, model.Env{}); !errors.Is(err, calculator.ErrEmptyTrace) {
		t.Errorf("empty trace err = %v", err)
	}
}

func TestStore(t *testing.T) {
	s := openStore(t)
	for _, rpm := range []float64{1000, 2000, 3000} {
		r := &Run{Kind: calculator.KindCycle, RPM: rpm, Points: 720}
		if err := s.SaveRun(r); err != nil {
			t.Fatal(err)
		}
		if r.ID == 0 {
			t.Error("id not assigned")
		}
	}
	runs, err := s.RecentRuns(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 || runs[0].RPM != 3000 || runs[1].RPM != 2000 {
		t.Errorf("recent = %+v", runs)
	}

	r, err := s.GetRun(runs[1].ID)
	if err != nil {
		t.Fatal(err)
	}
	if r.RPM != 2000 {
		t.Errorf("get = %+v", r)
	}
	if _, err := s.GetRun(100); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("missing run err = %v", err)
	}
}
