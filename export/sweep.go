package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"enginecycle/calculator"
	"enginecycle/engine"

	log "github.com/sirupsen/logrus"
)

// SweepStep 转速扫描时的采样间隔, deg
const SweepStep = 10.0

// WriteFile 创建 path 所在目录并用 write 写入文件内容
func WriteFile(path string, write func(w io.Writer) error) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

// ExportRPMSweep 对每个转速计算一次循环, 输出采样表、指标汇总、冲程统计和循环曲线
// 返回写出的文件路径
func ExportRPMSweep(dir string, rpms []float64) ([]string, error) {
	if len(rpms) == 0 {
		return nil, ErrEmptyData
	}
	start := time.Now()
	params := calculator.DefaultCycleParams()
	var files []string
	for _, rpm := range rpms {
		e := engine.NewEngine()
		if err := e.SetRPM(rpm); err != nil {
			return files, err
		}
		trace, err := calculator.CalculateEngineCycle(e, params, calculator.MaxResamplePoints)
		if err != nil {
			return files, err
		}
		rows, err := calculator.SampleEvery(e, trace, SweepStep)
		if err != nil {
			return files, err
		}
		summary := calculator.Summarize(e, rows, SweepStep)
		strokes := calculator.StrokeSummary(rows)

		prefix := filepath.Join(dir, fmt.Sprintf("engine_%gRPM", rpm))
		outputs := []struct {
			path  string
			write func(w io.Writer) error
		}{
			{prefix + "_sampled.csv", func(w io.Writer) error { return WriteSamplesCSV(w, rows) }},
			{prefix + "_summary.csv", func(w io.Writer) error { return WriteSummaryCSV(w, summary) }},
			{prefix + "_strokes.csv", func(w io.Writer) error { return WriteStrokeCSV(w, strokes) }},
		}
		for _, out := range outputs {
			if err := WriteFile(out.path, out.write); err != nil {
				return files, err
			}
			files = append(files, out.path)
		}
		png := prefix + "_cycle.png"
		if err := PlotCycle(trace, png); err != nil {
			return files, err
		}
		files = append(files, png)
		log.WithFields(log.Fields{
			"rpm":      rpm,
			"peakTemp": summary.PeakTemperature,
			"peakBar":  summary.PeakPressure,
		}).Debug("转速数据导出")
	}
	log.WithFields(log.Fields{
		"dir":   dir,
		"rpms":  rpms,
		"files": len(files),
		"cost":  time.Since(start),
	}).Info("转速扫描导出完成")
	return files, nil
}
