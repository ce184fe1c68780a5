package tbc

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"enginecycle/coating"
)

var (
	MetricNames = [4]string{"Fatigue_Life", "Von_Mises_Stress", "Heat_Flux_Reduction", "Cracking_Probability"}

	ErrEmptyDataset = errors.New("dataset has no rows")
)

// Dataset 涂层参数(特征)和对应的性能指标(目标)
type Dataset struct {
	Features [][]float64 // n x 4, 顺序同 coating.ParameterNames
	Metrics  [][]float64 // n x 4, 顺序同 MetricNames
}

func (d *Dataset) Len() int {
	return len(d.Features)
}

func ReadDatasetFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadDataset(f)
}

// ReadDataset 逗号分隔, 表头需包含全部参数列和指标列, 空值记为 NaN
func ReadDataset(r io.Reader) (*Dataset, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	if len(records) < 2 {
		return nil, ErrEmptyDataset
	}
	index := make(map[string]int)
	for i, name := range records[0] {
		index[strings.TrimSpace(name)] = i
	}
	lookup := func(names []string) ([]int, error) {
		cols := make([]int, len(names))
		for i, name := range names {
			col, ok := index[name]
			if !ok {
				return nil, fmt.Errorf("missing required column %s", name)
			}
			cols[i] = col
		}
		return cols, nil
	}
	featureCols, err := lookup(coating.ParameterNames[:])
	if err != nil {
		return nil, err
	}
	metricCols, err := lookup(MetricNames[:])
	if err != nil {
		return nil, err
	}

	d := &Dataset{}
	for line, record := range records[1:] {
		features, err := parseRow(record, featureCols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+2, err)
		}
		metrics, err := parseRow(record, metricCols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+2, err)
		}
		d.Features = append(d.Features, features)
		d.Metrics = append(d.Metrics, metrics)
	}
	return d, nil
}

func parseRow(record []string, cols []int) ([]float64, error) {
	res := make([]float64, len(cols))
	for i, col := range cols {
		if col >= len(record) {
			res[i] = math.NaN()
			continue
		}
		field := strings.TrimSpace(record[col])
		if field == "" {
			res[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, err
		}
		res[i] = v
	}
	return res, nil
}

// column 取出第 j 列
func column(rows [][]float64, j int) []float64 {
	res := make([]float64, len(rows))
	for i, row := range rows {
		res[i] = row[j]
	}
	return res
}

func setColumn(rows [][]float64, j int, values []float64) {
	for i := range rows {
		rows[i][j] = values[i]
	}
}
