package calculator

import (
	"fmt"
	"time"

	"enginecycle/engine"
	"enginecycle/model"

	log "github.com/sirupsen/logrus"
)

// calculator 的接口定义

type Calculator interface {
	// 设置参数
	SetEnv(env model.Env) error
	GetEngine() *engine.Engine

	// 完整循环
	Cycle() (*model.Trace, error)
	// 重采样后的循环
	Resampled(n int) (*model.Trace, error)
	// 固定转角间隔采样
	Sampled() (*model.SampledData, error)
	// 曲柄连杆固定步长模型
	SliderCrank() (*model.Trace, error)
	// 瞬态传热
	Transient() ([]model.TransientPoint, error)
}

type calculator struct {
	cfg       Config
	engine    *engine.Engine
	cycle     CycleParams
	slider    SliderCrankParams
	transient TransientParams

	points          int
	transientTime   float64
	transientPoints int
}

func NewCalculator(cfg Config) *calculator {
	e := engine.NewEngine()
	if err := e.SetRPM(cfg.RPM); err != nil {
		log.Warn("使用默认转速: ", err)
	}
	if err := e.SetCompressionRatio(cfg.CompressionRatio); err != nil {
		log.Warn("使用默认压缩比: ", err)
	}
	if cfg.Bore > 0 && cfg.Stroke > 0 {
		if err := e.SetGeometry(cfg.Bore, cfg.Stroke, 1.5*cfg.Stroke/2); err != nil {
			log.Warn("使用默认几何尺寸: ", err)
		}
	}
	return &calculator{
		cfg:             cfg,
		engine:          e,
		cycle:           DefaultCycleParams(),
		slider:          DefaultSliderCrankParams(),
		transient:       DefaultTransientParams(),
		points:          cfg.Points,
		transientTime:   cfg.TransientTime,
		transientPoints: cfg.TransientPoints,
	}
}

func (c *calculator) GetEngine() *engine.Engine {
	return c.engine
}

// SetEnv 先在副本上设置并检查全部参数, 全部通过后才生效
func (c *calculator) SetEnv(env model.Env) error {
	e := *c.engine
	if env.RPM != 0 {
		if err := e.SetRPM(env.RPM); err != nil {
			return err
		}
	}
	if env.CompressionRatio != 0 {
		if err := e.SetCompressionRatio(env.CompressionRatio); err != nil {
			return err
		}
	}
	params := c.cycle
	params.Apply(env)
	if err := params.Check(&e); err != nil {
		return err
	}
	if env.Points < 0 || env.TransientPoints < 0 || env.TransientDuration < 0 {
		return fmt.Errorf("%w: points and durations must not be negative", ErrInvalidParams)
	}

	*c.engine = e
	c.cycle = params
	if env.Points > 0 {
		c.points = env.Points
	}
	if env.TransientDuration > 0 {
		c.transientTime = env.TransientDuration
	}
	if env.TransientPoints > 0 {
		c.transientPoints = env.TransientPoints
	}
	log.WithFields(log.Fields{
		"points":          c.points,
		"combustionStart": c.cycle.CombustionStart,
		"combustionSpan":  c.cycle.CombustionSpan,
		"peakTemp":        c.cycle.PeakTemp,
		"exhaustStart":    c.cycle.ExhaustStart,
	}).Info("设置循环参数")
	return nil
}

func (c *calculator) Cycle() (*model.Trace, error) {
	start := time.Now()
	trace, err := CalculateEngineCycle(c.engine, c.cycle, c.points)
	if err != nil {
		return nil, err
	}
	peakT, peakP := Peak(trace)
	log.WithFields(log.Fields{
		"points":   len(trace.Points),
		"peakTemp": peakT,
		"peakBar":  peakP / 1e5,
		"cost":     time.Since(start),
	}).Info("循环计算完成")
	return trace, nil
}

func (c *calculator) Resampled(n int) (*model.Trace, error) {
	full, err := CalculateEngineCycle(c.engine, c.cycle, MaxResamplePoints)
	if err != nil {
		return nil, err
	}
	return Resample(c.engine, full, n)
}

func (c *calculator) Sampled() (*model.SampledData, error) {
	full, err := CalculateEngineCycle(c.engine, c.cycle, MaxResamplePoints)
	if err != nil {
		return nil, err
	}
	rows, err := SampleEvery(c.engine, full, c.cfg.SampleStep)
	if err != nil {
		return nil, err
	}
	return &model.SampledData{
		Rows:    rows,
		Summary: Summarize(c.engine, rows, c.cfg.SampleStep),
		Strokes: StrokeSummary(rows),
	}, nil
}

func (c *calculator) SliderCrank() (*model.Trace, error) {
	return CalculateSliderCrank(c.engine, c.slider)
}

func (c *calculator) Transient() ([]model.TransientPoint, error) {
	return c.transient.Series(c.transientTime, c.transientPoints)
}
