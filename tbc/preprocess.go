package tbc

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Preprocess 缺失值用中位数填充, 无穷值用均值替换, 再按 IQR 截断异常值
// 返回新的 Dataset, 原数据不变
func Preprocess(d *Dataset) *Dataset {
	res := &Dataset{
		Features: copyRows(d.Features),
		Metrics:  copyRows(d.Metrics),
	}
	for _, rows := range [][][]float64{res.Features, res.Metrics} {
		if len(rows) == 0 {
			continue
		}
		for j := range rows[0] {
			setColumn(rows, j, cleanColumn(column(rows, j)))
		}
	}
	return res
}

func cleanColumn(values []float64) []float64 {
	// 1. 缺失值 -> 有限值的中位数
	var present []float64
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			present = append(present, v)
		}
	}
	if len(present) > 0 {
		median := quantile(0.5, present)
		for i, v := range values {
			if math.IsNaN(v) {
				values[i] = median
			}
		}
	}

	// 2. 无穷值 -> 有限值的均值
	var finite []float64
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return values
	}
	mean := stat.Mean(finite, nil)
	for i, v := range values {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			values[i] = mean
		}
	}

	// 3. IQR 截断
	q1, q3 := quantile(0.25, values), quantile(0.75, values)
	iqr := q3 - q1
	lower, upper := q1-1.5*iqr, q3+1.5*iqr
	for i, v := range values {
		values[i] = math.Min(math.Max(v, lower), upper)
	}
	return values
}

func quantile(p float64, values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.LinInterp, sorted, nil)
}

func copyRows(rows [][]float64) [][]float64 {
	res := make([][]float64, len(rows))
	for i, row := range rows {
		res[i] = append([]float64(nil), row...)
	}
	return res
}
