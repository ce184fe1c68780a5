package coating

import (
	"errors"
	"math"
	"strings"
	"testing"
)

const sampleLog = "\tTime [s]\tMinimum [°C]\tMaximum [°C]\tAverage [°C]\n" +
	"0\t0\t20\t21\t20.5\n" +
	"1\t1\t20\t25\t22\n" +
	"2\t2\t21\t30\t25\n"

func TestParseConductivities(t *testing.T) {
	ks, err := ParseConductivities("50, 100,150")
	if err != nil {
		t.Fatal(err)
	}
	if len(ks) != 3 || ks[0] != 50 || ks[2] != 150 {
		t.Errorf("ks = %v", ks)
	}
	if _, err := ParseConductivities(" , "); !errors.Is(err, ErrNoConductivity) {
		t.Errorf("empty err = %v", err)
	}
	if _, err := ParseConductivities("50, abc"); err == nil {
		t.Error("invalid value accepted")
	}
}

func TestReadTemperatureLog(t *testing.T) {
	l, err := ReadTemperatureLog(strings.NewReader(sampleLog))
	if err != nil {
		t.Fatal(err)
	}
	if len(l.Samples) != 3 {
		t.Fatalf("samples = %d", len(l.Samples))
	}
	if s := l.Samples[2]; s.Time != 2 || s.Minimum != 21 || s.Maximum != 30 || s.Average != 25 {
		t.Errorf("last sample = %+v", s)
	}
	stats := l.Stats()
	if stats.MaxTemperature != 30 || stats.MinTemperature != 20 || math.Abs(stats.MeanTemperature-22.5) > 1e-12 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestReadTemperatureLogWithoutIndexHeader(t *testing.T) {
	// 表头没有索引列的空单元格
	content := "Time [s]\tMinimum [°C]\tMaximum [°C]\tAverage [°C]\n" +
		"0\t0\t20\t21\t20.5\n" +
		"1\t1\t20\t25\t22\n"
	l, err := ReadTemperatureLog(strings.NewReader(content))
	if err != nil {
		t.Fatal(err)
	}
	if s := l.Samples[1]; s.Time != 1 || s.Minimum != 20 || s.Maximum != 25 || s.Average != 22 {
		t.Errorf("sample = %+v", s)
	}
}

func TestReadTemperatureLogMissingColumns(t *testing.T) {
	_, err := ReadTemperatureLog(strings.NewReader("\tTime [s]\tAverage [°C]\n0\t0\t20\n"))
	if err == nil {
		t.Fatal("missing columns accepted")
	}
	if !strings.Contains(err.Error(), ColumnMinimum) || !strings.Contains(err.Error(), ColumnMaximum) {
		t.Errorf("error does not name missing columns: %v", err)
	}
	if _, err := ReadTemperatureLogFile("log.xlsx"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("xlsx err = %v", err)
	}
}

func TestHeatFlux(t *testing.T) {
	l, err := ReadTemperatureLog(strings.NewReader(sampleLog))
	if err != nil {
		t.Fatal(err)
	}
	family, err := HeatFluxFamily(l, []float64{50, 100}, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	// ΔT = 9, k = 100, δ = 1 mm
	if q := family[1].Flux[2]; math.Abs(q-9e5) > 1e-6 {
		t.Errorf("flux = %v, want 9e5", q)
	}
	area := math.Pi * 0.05 * 0.05
	if r := family[1].Rate[2]; math.Abs(r-9e5*area) > 1e-6 {
		t.Errorf("rate = %v, want %v", r, 9e5*area)
	}
	stats := FamilyStats(family)
	if math.Abs(stats.MaxFlux-9e5) > 1e-6 || math.Abs(stats.MinFlux-5e4) > 1e-6 {
		t.Errorf("stats = %+v", stats)
	}
	if _, err := HeatFlux(l, 50, 0); !errors.Is(err, ErrInvalidDiameter) {
		t.Errorf("zero diameter err = %v", err)
	}
}

func TestBounds(t *testing.T) {
	c := Coating{Thickness: 0.5, Conductivity: 2, SpecificHeat: 800, CTE: 8e-6}
	if !DefaultBounds.Within(c) {
		t.Errorf("%+v should be within bounds", c)
	}
	c.Thickness = 3
	if DefaultBounds.Within(c) {
		t.Errorf("%+v should be out of bounds", c)
	}
	if got := FromVector("x", c.Vector()); got.Thickness != 3 || got.CTE != 8e-6 {
		t.Errorf("round trip = %+v", got)
	}
}
