package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"enginecycle/coating"
	"enginecycle/model"
	"enginecycle/tbc"
)

var ErrEmptyData = errors.New("nothing to export")

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func format4(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func writeAll(w io.Writer, header []string, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// WriteTraceCSV 完整循环, 温度单位取 trace.Unit, 压力为 bar
func WriteTraceCSV(w io.Writer, trace *model.Trace) error {
	if trace == nil || len(trace.Points) == 0 {
		return ErrEmptyData
	}
	header := []string{
		"Crank Angle (degrees)",
		"Volume",
		fmt.Sprintf("Temperature (%s)", trace.Unit),
		"Pressure (bar)",
		"Time (seconds)",
		"Stroke",
	}
	records := make([][]string, 0, len(trace.Points))
	for _, p := range trace.Points {
		records = append(records, []string{
			formatFloat(p.Angle),
			formatFloat(p.Volume),
			formatFloat(p.Temperature),
			formatFloat(p.Pressure / 1e5),
			formatFloat(p.Time),
			p.Stroke,
		})
	}
	return writeAll(w, header, records)
}

// WriteSamplesCSV 采样表, 时间/温度/压力保留 4 位小数
func WriteSamplesCSV(w io.Writer, rows []model.SampleRow) error {
	if len(rows) == 0 {
		return ErrEmptyData
	}
	header := []string{"Time (seconds)", "Crank Angle (degrees)", "Temperature (°C)", "Pressure (bar)", "Stroke"}
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			format4(r.Time),
			formatFloat(r.Angle),
			format4(r.Temperature),
			format4(r.Pressure),
			r.Stroke,
		})
	}
	return writeAll(w, header, records)
}

// WriteSummaryCSV 两列: 指标名, 带单位的值
func WriteSummaryCSV(w io.Writer, s model.Summary) error {
	records := [][]string{
		{"Engine Speed", fmt.Sprintf("%s RPM", formatFloat(s.RPM))},
		{"Cycle Duration", fmt.Sprintf("%s seconds", format4(s.CycleDuration))},
		{"Number of Sample Points", fmt.Sprintf("%d points", s.SamplePoints)},
		{"Sampling Interval", fmt.Sprintf("%s degrees", formatFloat(s.SampleInterval))},
		{"Peak Temperature", fmt.Sprintf("%s °C", format4(s.PeakTemperature))},
		{"Minimum Temperature", fmt.Sprintf("%s °C", format4(s.MinTemperature))},
		{"Peak Pressure", fmt.Sprintf("%s bar", format4(s.PeakPressure))},
		{"Minimum Pressure", fmt.Sprintf("%s bar", format4(s.MinPressure))},
		{"Average Temperature", fmt.Sprintf("%s °C", format4(s.MeanTemperature))},
		{"Average Pressure", fmt.Sprintf("%s bar", format4(s.MeanPressure))},
	}
	return writeAll(w, []string{"Metric", "Value"}, records)
}

func WriteStrokeCSV(w io.Writer, stats []model.StrokeStat) error {
	if len(stats) == 0 {
		return ErrEmptyData
	}
	header := []string{
		"Stroke",
		"Temperature Mean (°C)", "Temperature Min (°C)", "Temperature Max (°C)",
		"Pressure Mean (bar)", "Pressure Min (bar)", "Pressure Max (bar)",
	}
	records := make([][]string, 0, len(stats))
	for _, s := range stats {
		records = append(records, []string{
			s.Stroke,
			format4(s.MeanTemperature), format4(s.MinTemperature), format4(s.MaxTemperature),
			format4(s.MeanPressure), format4(s.MinPressure), format4(s.MaxPressure),
		})
	}
	return writeAll(w, header, records)
}

func WriteTransientCSV(w io.Writer, series []model.TransientPoint) error {
	if len(series) == 0 {
		return ErrEmptyData
	}
	header := []string{"Time (seconds)", "Temperature (°C)", "Pressure (bar)"}
	records := make([][]string, 0, len(series))
	for _, p := range series {
		records = append(records, []string{
			formatFloat(p.Time),
			formatFloat(p.Temperature),
			formatFloat(p.Pressure / 1e5),
		})
	}
	return writeAll(w, header, records)
}

// WriteHistoryCSV 优化过程中每次迭代后的最优得分
func WriteHistoryCSV(w io.Writer, history []float64) error {
	if len(history) == 0 {
		return ErrEmptyData
	}
	records := make([][]string, 0, len(history))
	for i, v := range history {
		records = append(records, []string{strconv.Itoa(i), formatFloat(v)})
	}
	return writeAll(w, []string{"Iteration", "Best Score"}, records)
}

// WriteOptimumCSV 最优涂层参数和得分
func WriteOptimumCSV(w io.Writer, res *tbc.Result) error {
	if res == nil || len(res.History) == 0 {
		return ErrEmptyData
	}
	values := res.Best.Vector()
	records := make([][]string, 0, len(values)+1)
	for i, name := range coating.ParameterNames {
		records = append(records, []string{name, formatFloat(values[i])})
	}
	records = append(records, []string{"Score", formatFloat(res.Score)})
	return writeAll(w, []string{"Parameter", "Value"}, records)
}

// WriteFluxCSV 每个导热系数一组热流密度和传热量列
func WriteFluxCSV(w io.Writer, family []*coating.FluxSeries) error {
	if len(family) == 0 || len(family[0].Time) == 0 {
		return ErrEmptyData
	}
	header := []string{"Time [s]"}
	for _, s := range family {
		k := formatFloat(s.Conductivity)
		header = append(header, fmt.Sprintf("Heat Flux k=%s [W/m²]", k), fmt.Sprintf("Heat Transfer Rate k=%s [W]", k))
	}
	records := make([][]string, 0, len(family[0].Time))
	for i, t := range family[0].Time {
		record := []string{formatFloat(t)}
		for _, s := range family {
			record = append(record, formatFloat(s.Flux[i]), formatFloat(s.Rate[i]))
		}
		records = append(records, record)
	}
	return writeAll(w, header, records)
}
