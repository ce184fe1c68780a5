package engine

import (
	"errors"
	"math"
	"testing"
)

func TestNormalizedVolume(t *testing.T) {
	e := NewEngine()
	if v := e.NormalizedVolume(0); math.Abs(v-1) > 1e-12 {
		t.Errorf("TDC volume = %v, want 1", v)
	}
	if v := e.NormalizedVolume(180); math.Abs(v-e.CompressionRatio) > 1e-12 {
		t.Errorf("BDC volume = %v, want %v", v, e.CompressionRatio)
	}
	if v := e.NormalizedVolume(360); math.Abs(v-1) > 1e-12 {
		t.Errorf("second TDC volume = %v, want 1", v)
	}
}

func TestSliderCrankVolume(t *testing.T) {
	e := NewEngine()
	if v := e.SliderCrankVolume(0); math.Abs(v-e.ClearanceVolume) > 1e-15 {
		t.Errorf("TDC volume = %v, want clearance %v", v, e.ClearanceVolume)
	}
	// 下止点: cos(2θ) = 1, 只剩 2r 的行程
	want := e.ClearanceVolume + math.Pi*e.Bore*e.Bore/4*2*e.CrankRadius()
	if v := e.SliderCrankVolume(180); math.Abs(v-want) > 1e-12 {
		t.Errorf("BDC volume = %v, want %v", v, want)
	}
}

func TestTiming(t *testing.T) {
	e := NewEngine()
	if err := e.SetRPM(1000); err != nil {
		t.Fatal(err)
	}
	if w := e.AngularVelocity(); w != 6000 {
		t.Errorf("angular velocity = %v, want 6000", w)
	}
	if ct := e.CycleTime(); math.Abs(ct-0.12) > 1e-12 {
		t.Errorf("cycle time = %v, want 0.12", ct)
	}
	if ts := e.TimeAt(720); math.Abs(ts-0.12) > 1e-12 {
		t.Errorf("time at 720 = %v, want 0.12", ts)
	}
}

func TestSettersRejectInvalid(t *testing.T) {
	e := NewEngine()
	if err := e.SetRPM(0); !errors.Is(err, ErrInvalidRPM) {
		t.Errorf("SetRPM(0) err = %v", err)
	}
	if err := e.SetCompressionRatio(1); !errors.Is(err, ErrInvalidCompressionRatio) {
		t.Errorf("SetCompressionRatio(1) err = %v", err)
	}
	if err := e.SetGeometry(0.08, -1, 0.06); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("SetGeometry err = %v", err)
	}
	if e.RPM != 1200 || e.CompressionRatio != 10 {
		t.Errorf("invalid input changed engine: %+v", e)
	}
}

func TestWhichStroke(t *testing.T) {
	cases := map[float64]Stroke{
		0:   Intake,
		179: Intake,
		180: Compression,
		359: Compression,
		360: Power,
		540: Exhaust,
		720: Exhaust,
	}
	for theta, want := range cases {
		if got := WhichStroke(theta); got != want {
			t.Errorf("WhichStroke(%v) = %v, want %v", theta, got, want)
		}
	}
}
