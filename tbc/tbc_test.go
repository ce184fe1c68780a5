package tbc

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"enginecycle/coating"
)

func syntheticDataset(n int) *Dataset {
	d := &Dataset{}
	for i := 0; i < n; i++ {
		f := float64(i) / float64(n-1)
		thickness := 0.1 + 1.9*f
		k := 1 + 3*math.Mod(f*7, 1)
		cp := 500 + 500*math.Mod(f*3, 1)
		cte := 5e-6 + 7e-6*math.Mod(f*5, 1)
		d.Features = append(d.Features, []float64{thickness, k, cp, cte})
		d.Metrics = append(d.Metrics, []float64{
			1000 * thickness / k,
			cte * 1e7,
			1 / k,
			thickness / 2,
		})
	}
	return d
}

func TestObjective(t *testing.T) {
	metrics := [][]float64{
		{0, 0, 0, 0},
		{10, 10, 10, 10},
	}
	y := Objective(metrics, DefaultWeights)
	if y[0] != 0 {
		t.Errorf("y[0] = %v, want 0", y[0])
	}
	want := 0.4 - 0.3 + 0.2 - 0.1
	if math.Abs(y[1]-want) > 1e-12 {
		t.Errorf("y[1] = %v, want %v", y[1], want)
	}
	// 常数列不参与
	y = Objective([][]float64{{1, 1, 1, 1}, {1, 1, 1, 1}}, DefaultWeights)
	if y[0] != 0 || y[1] != 0 {
		t.Errorf("constant metrics = %v", y)
	}
}

func TestPreprocess(t *testing.T) {
	d := &Dataset{}
	for i := 1; i <= 9; i++ {
		d.Features = append(d.Features, []float64{float64(i)})
		d.Metrics = append(d.Metrics, []float64{float64(i)})
	}
	d.Features = append(d.Features, []float64{1000})
	d.Metrics = append(d.Metrics, []float64{math.NaN()})
	d.Features[0][0] = math.Inf(1)

	res := Preprocess(d)
	if !math.IsInf(d.Features[0][0], 1) {
		t.Error("preprocess modified its input")
	}
	last := res.Features[9][0]
	if last >= 1000 || last <= 9 {
		t.Errorf("outlier clipped to %v", last)
	}
	for i := 1; i < 9; i++ {
		if res.Features[i][0] != float64(i+1) {
			t.Errorf("row %d changed to %v", i, res.Features[i][0])
		}
	}
	if v := res.Features[0][0]; math.IsInf(v, 0) || math.IsNaN(v) {
		t.Errorf("infinite value kept: %v", v)
	}
	if v := res.Metrics[9][0]; math.IsNaN(v) || v < 1 || v > 9 {
		t.Errorf("missing value filled with %v", v)
	}
}

func TestReadDataset(t *testing.T) {
	var b strings.Builder
	b.WriteString("Thickness,Thermal_Conductivity,Specific_Heat_Capacity,CTE,Fatigue_Life,Von_Mises_Stress,Heat_Flux_Reduction,Cracking_Probability\n")
	b.WriteString("0.5,2,800,8e-6,1000,200,0.3,0.1\n")
	b.WriteString("1.0,3,,9e-6,1200,210,0.4,0.2\n")
	d, err := ReadDataset(strings.NewReader(b.String()))
	if err != nil {
		t.Fatal(err)
	}
	if d.Len() != 2 || d.Features[0][3] != 8e-6 || d.Metrics[1][0] != 1200 {
		t.Errorf("dataset = %+v", d)
	}
	if !math.IsNaN(d.Features[1][2]) {
		t.Errorf("empty field = %v, want NaN", d.Features[1][2])
	}
	if _, err := ReadDataset(strings.NewReader("Thickness\n1\n")); err == nil {
		t.Error("missing columns accepted")
	}
	if _, err := ReadDataset(strings.NewReader("")); !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("empty err = %v", err)
	}
}

func TestGaussianProcessInterpolates(t *testing.T) {
	x := [][]float64{{-1}, {0}, {1}}
	y := []float64{1, 0, 1}
	gp, err := fitGP(x, y)
	if err != nil {
		t.Fatal(err)
	}
	for i := range x {
		mean, std := gp.predict(x[i])
		if math.Abs(mean-y[i]) > 1e-3 {
			t.Errorf("mean at %v = %v, want %v", x[i], mean, y[i])
		}
		if std > 1e-2 {
			t.Errorf("std at training point = %v", std)
		}
	}
	if _, std := gp.predict([]float64{10}); std < 0.1 {
		t.Errorf("std far from data = %v", std)
	}
}

func TestOptimize(t *testing.T) {
	o := NewOptimizer(42)
	o.Candidates = 20
	if _, err := o.Optimize(context.Background(), 1, nil); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("unloaded err = %v", err)
	}
	if err := o.LoadData(Preprocess(syntheticDataset(20))); err != nil {
		t.Fatal(err)
	}
	var calls []int
	res, err := o.Optimize(context.Background(), 5, func(i int, best float64) {
		calls = append(calls, i)
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.History) != 5 || len(calls) != 5 {
		t.Fatalf("history = %v, calls = %v", res.History, calls)
	}
	for i := 1; i < len(res.History); i++ {
		if res.History[i] < res.History[i-1] {
			t.Errorf("best score decreased: %v", res.History)
		}
	}
	if !o.Bounds.Within(res.Best) {
		t.Errorf("best %+v outside bounds", res.Best)
	}
	if res.Score != res.History[4] {
		t.Errorf("score %v != last history %v", res.Score, res.History[4])
	}
	rows, y := o.TrainingSet()
	if len(rows) != 25 || len(y) != 25 {
		t.Errorf("training set = %d rows", len(rows))
	}
	if math.Abs(rows[0][0]-0.1) > 1e-9 {
		t.Errorf("inverse scaling = %v, want 0.1", rows[0][0])
	}
	if _, _, err := o.Predict(coating.Coating{Thickness: 1, Conductivity: 2, SpecificHeat: 700, CTE: 8e-6}); err != nil {
		t.Error(err)
	}
}

func TestOptimizeCancelled(t *testing.T) {
	o := NewOptimizer(1)
	if err := o.LoadData(syntheticDataset(10)); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := o.Optimize(ctx, 10, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v", err)
	}
	if len(res.History) != 0 {
		t.Errorf("history = %v", res.History)
	}
}

func ExampleObjective() {
	y := Objective([][]float64{{0, 0, 0, 0}, {1, 1, 1, 1}}, DefaultWeights)
	fmt.Printf("%.1f %.1f\n", y[0], y[1])
	// Output: 0.0 0.2
}
