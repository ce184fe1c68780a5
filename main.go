package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"

	"enginecycle/calculator"
	"enginecycle/coating"
	"enginecycle/export"
	"enginecycle/server"
	"enginecycle/storage"
	"enginecycle/tbc"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

const configPath = "conf/config.ini"

func main() {
	cfg := calculator.LoadConfig(configPath)
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.Warn("日志级别错误: ", err)
	}

	// 配置中启用的离线任务先执行, 出错不影响服务启动
	if cfg.Sweep {
		if _, err := export.ExportRPMSweep(cfg.ExportDir, cfg.SweepRPMs); err != nil {
			log.Error("转速扫描导出错误: ", err)
		}
	}
	if cfg.SliderCrank || cfg.Transient {
		if err := runModels(cfg); err != nil {
			log.Error("模型数据导出错误: ", err)
		}
	}
	if cfg.FluxLog != "" {
		if err := runFlux(cfg); err != nil {
			log.Error("热流计算错误: ", err)
		}
	}
	if cfg.TBCDataset != "" {
		if err := runTBC(cfg); err != nil {
			log.Error("涂层优化错误: ", err)
		}
	}

	if err := serve(cfg); err != nil {
		log.Fatal("ListenAndServe: ", err)
	}
}

func serve(cfg calculator.Config) error {
	var store *storage.Store
	if cfg.DatabasePath != "" {
		s, err := storage.Open(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer s.Close()
		store = s
	}
	upgrader.CheckOrigin = func(r *http.Request) bool {
		return true
	}
	s := server.NewServer(cfg.Addr, upgrader, cfg, store)
	return s.Serve()
}

// runModels 导出曲柄连杆模型和瞬态传热模型的数据表和曲线
func runModels(cfg calculator.Config) error {
	c := calculator.NewCalculator(cfg)
	if cfg.SliderCrank {
		trace, err := c.SliderCrank()
		if err != nil {
			return err
		}
		name := fmt.Sprintf("slider_crank_%gRPM", trace.RPM)
		if _, err := export.ExportTrace(cfg.ExportDir, name, trace); err != nil {
			return err
		}
	}
	if cfg.Transient {
		series, err := c.Transient()
		if err != nil {
			return err
		}
		if _, err := export.ExportTransient(cfg.ExportDir, series); err != nil {
			return err
		}
	}
	return nil
}

func runFlux(cfg calculator.Config) error {
	l, err := coating.ReadTemperatureLogFile(cfg.FluxLog)
	if err != nil {
		return err
	}
	conductivities, err := coating.ParseConductivities(cfg.Conductivities)
	if err != nil {
		return err
	}
	family, err := coating.HeatFluxFamily(l, conductivities, cfg.Diameter)
	if err != nil {
		return err
	}
	ts, fs := l.Stats(), coating.FamilyStats(family)
	log.WithFields(log.Fields{
		"maxTemp":  ts.MaxTemperature,
		"minTemp":  ts.MinTemperature,
		"meanTemp": ts.MeanTemperature,
		"maxFlux":  fs.MaxFlux,
		"minFlux":  fs.MinFlux,
		"maxRate":  fs.MaxTransferRate,
	}).Info("热流统计")

	dir := cfg.ExportDir
	if err := export.WriteFile(filepath.Join(dir, "heat_flux.csv"), func(w io.Writer) error {
		return export.WriteFluxCSV(w, family)
	}); err != nil {
		return err
	}
	return export.PlotHeatFlux(family, filepath.Join(dir, "heat_flux.png"))
}

func runTBC(cfg calculator.Config) error {
	d, err := tbc.ReadDatasetFile(cfg.TBCDataset)
	if err != nil {
		return err
	}
	o := tbc.NewOptimizer(cfg.TBCSeed)
	o.Candidates = cfg.TBCCandidates
	if err := o.LoadData(tbc.Preprocess(d)); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	res, err := o.Optimize(ctx, cfg.TBCIterations, func(i int, best float64) {
		log.WithFields(log.Fields{"iteration": i, "best": best}).Debug("优化迭代")
	})
	if err != nil {
		log.Warn("优化中断: ", err)
		if res == nil || len(res.History) == 0 {
			return err
		}
	}
	log.WithFields(log.Fields{
		"thickness":    res.Best.Thickness,
		"conductivity": res.Best.Conductivity,
		"specificHeat": res.Best.SpecificHeat,
		"cte":          res.Best.CTE,
		"score":        res.Score,
	}).Info("最优涂层参数")

	if err := export.WriteFile(filepath.Join(cfg.ExportDir, "optimization_history.csv"), func(w io.Writer) error {
		return export.WriteHistoryCSV(w, res.History)
	}); err != nil {
		return err
	}
	if err := export.WriteFile(filepath.Join(cfg.ExportDir, "optimal_coating.csv"), func(w io.Writer) error {
		return export.WriteOptimumCSV(w, res)
	}); err != nil {
		return err
	}
	return export.PlotHistory(res.History, filepath.Join(cfg.ExportDir, "optimization_progress.png"))
}
