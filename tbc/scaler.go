package tbc

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// standardScaler 按列标准化为零均值单位方差(总体标准差)
type standardScaler struct {
	mean []float64
	std  []float64
}

func (s *standardScaler) fit(rows [][]float64) {
	if len(rows) == 0 {
		return
	}
	dims := len(rows[0])
	s.mean = make([]float64, dims)
	s.std = make([]float64, dims)
	for j := 0; j < dims; j++ {
		col := column(rows, j)
		mean, variance := stat.PopMeanVariance(col, nil)
		s.mean[j] = mean
		s.std[j] = math.Sqrt(variance)
		if s.std[j] == 0 {
			s.std[j] = 1
		}
	}
}

func (s *standardScaler) transform(row []float64) []float64 {
	res := make([]float64, len(row))
	for j, v := range row {
		res[j] = (v - s.mean[j]) / s.std[j]
	}
	return res
}

func (s *standardScaler) inverse(row []float64) []float64 {
	res := make([]float64, len(row))
	for j, v := range row {
		res[j] = v*s.std[j] + s.mean[j]
	}
	return res
}

func (s *standardScaler) transformAll(rows [][]float64) [][]float64 {
	res := make([][]float64, len(rows))
	for i, row := range rows {
		res[i] = s.transform(row)
	}
	return res
}
