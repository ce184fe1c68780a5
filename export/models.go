package export

import (
	"io"
	"path/filepath"

	"enginecycle/model"

	log "github.com/sirupsen/logrus"
)

// ExportTrace 写出循环的完整数据表 name.csv 和曲线 name.png
func ExportTrace(dir, name string, trace *model.Trace) ([]string, error) {
	if trace == nil || len(trace.Points) == 0 {
		return nil, ErrEmptyData
	}
	csvPath := filepath.Join(dir, name+".csv")
	if err := WriteFile(csvPath, func(w io.Writer) error { return WriteTraceCSV(w, trace) }); err != nil {
		return nil, err
	}
	pngPath := filepath.Join(dir, name+".png")
	if err := PlotCycle(trace, pngPath); err != nil {
		return []string{csvPath}, err
	}
	log.WithFields(log.Fields{
		"kind":   trace.Kind,
		"rpm":    trace.RPM,
		"points": len(trace.Points),
	}).Info("循环数据导出完成")
	return []string{csvPath, pngPath}, nil
}

// ExportTransient 写出瞬态传热的 transient.csv 和 transient.png
func ExportTransient(dir string, series []model.TransientPoint) ([]string, error) {
	if len(series) == 0 {
		return nil, ErrEmptyData
	}
	csvPath := filepath.Join(dir, "transient.csv")
	if err := WriteFile(csvPath, func(w io.Writer) error { return WriteTransientCSV(w, series) }); err != nil {
		return nil, err
	}
	pngPath := filepath.Join(dir, "transient.png")
	if err := PlotTransient(series, pngPath); err != nil {
		return []string{csvPath}, err
	}
	log.WithField("points", len(series)).Info("瞬态数据导出完成")
	return []string{csvPath, pngPath}, nil
}
