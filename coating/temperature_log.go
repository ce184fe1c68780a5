package coating

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	ColumnTime    = "Time [s]"
	ColumnMinimum = "Minimum [°C]"
	ColumnMaximum = "Maximum [°C]"
	ColumnAverage = "Average [°C]"
)

var (
	RequiredColumns = []string{ColumnTime, ColumnMinimum, ColumnMaximum, ColumnAverage}

	ErrUnsupportedFormat = errors.New("unsupported file format, please use CSV files")
	ErrEmptyLog          = errors.New("temperature log has no rows")
)

// Sample 温度记录中的一行
type Sample struct {
	Time    float64
	Minimum float64
	Maximum float64
	Average float64
}

type TemperatureLog struct {
	Samples []Sample
}

// ReadTemperatureLogFile 读取测温记录, 目前只支持以 tab 分隔的 .csv
func ReadTemperatureLogFile(path string) (*TemperatureLog, error) {
	if strings.ToLower(filepath.Ext(path)) != ".csv" {
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTemperatureLog(f)
}

// ReadTemperatureLog 第一列为索引列, 表头需包含 RequiredColumns
func ReadTemperatureLog(r io.Reader) (*TemperatureLog, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read temperature log: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyLog
	}

	// 表头可能省略索引列的空单元格, 此时各列整体右移一位
	offset := 0
	if len(records) > 1 && len(records[0]) == len(records[1])-1 {
		offset = 1
	}
	index := make(map[string]int)
	for i, name := range records[0] {
		index[strings.TrimSpace(name)] = i + offset
	}
	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	res := &TemperatureLog{Samples: make([]Sample, 0, len(records)-1)}
	for line, record := range records[1:] {
		var values [4]float64
		for i, name := range RequiredColumns {
			col := index[name]
			if col >= len(record) {
				return nil, fmt.Errorf("line %d: missing %s", line+2, name)
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(record[col]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d, %s: %w", line+2, name, err)
			}
			values[i] = v
		}
		res.Samples = append(res.Samples, Sample{
			Time:    values[0],
			Minimum: values[1],
			Maximum: values[2],
			Average: values[3],
		})
	}
	if len(res.Samples) == 0 {
		return nil, ErrEmptyLog
	}
	return res, nil
}

func (l *TemperatureLog) Times() []float64 {
	res := make([]float64, len(l.Samples))
	for i, s := range l.Samples {
		res[i] = s.Time
	}
	return res
}
