package engine

import (
	"errors"
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
)

// 发动机的规格 + 转速配置

// 单位约定
// 1. 长度 m, 容积 m^3
// 2. 曲轴转角 deg, 一个工作循环 0 ~ 720 deg
// 3. 转速 rpm

const (
	CycleAngle  = 720.0 // 四冲程一个循环的曲轴转角
	StrokeAngle = 180.0 // 每个冲程的曲轴转角
)

var (
	ErrInvalidRPM              = errors.New("rpm must be positive")
	ErrInvalidCompressionRatio = errors.New("compression ratio must be greater than 1")
	ErrInvalidGeometry         = errors.New("bore, stroke and rod length must be positive")
)

type Engine struct {
	CompressionRatio float64
	Bore             float64 // 缸径
	Stroke           float64 // 行程
	RodLength        float64 // 连杆长度
	ClearanceVolume  float64 // 余隙容积
	ReferenceVolume  float64 // 下止点参考容积
	RPM              float64 // 转速
}

func NewEngine() *Engine {
	e := &Engine{
		CompressionRatio: 10.0,
		Bore:             80e-3,
		Stroke:           80e-3,
		ClearanceVolume:  50e-6,
		ReferenceVolume:  500e-6,
		RPM:              1200,
	}
	e.RodLength = 1.5 * e.CrankRadius()
	return e
}

func (e *Engine) CrankRadius() float64 {
	return e.Stroke / 2
}

func (e *Engine) SetRPM(rpm float64) error {
	if rpm <= 0 || math.IsNaN(rpm) || math.IsInf(rpm, 0) {
		return fmt.Errorf("set rpm %v: %w", rpm, ErrInvalidRPM)
	}
	e.RPM = rpm
	log.WithFields(log.Fields{
		"rpm":       e.RPM,
		"cycleTime": e.CycleTime(),
	}).Info("设置转速")
	return nil
}

func (e *Engine) SetCompressionRatio(ratio float64) error {
	if ratio <= 1 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return fmt.Errorf("set compression ratio %v: %w", ratio, ErrInvalidCompressionRatio)
	}
	e.CompressionRatio = ratio
	log.WithField("compressionRatio", ratio).Info("设置压缩比")
	return nil
}

// SetGeometry 设置缸径, 行程和连杆长度
func (e *Engine) SetGeometry(bore, stroke, rodLength float64) error {
	if bore <= 0 || stroke <= 0 || rodLength <= 0 {
		return ErrInvalidGeometry
	}
	e.Bore = bore
	e.Stroke = stroke
	e.RodLength = rodLength
	log.WithFields(log.Fields{
		"bore":      bore,
		"stroke":    stroke,
		"rodLength": rodLength,
	}).Info("设置几何尺寸")
	return nil
}

// NormalizedVolume 以上止点容积为 1 的无量纲容积, 下止点处等于压缩比
func (e *Engine) NormalizedVolume(theta float64) float64 {
	return 1 + 0.5*(e.CompressionRatio-1)*(1-math.Cos(radians(theta)))
}

// SliderCrankVolume 曲柄连杆机构的瞬时气缸容积
func (e *Engine) SliderCrankVolume(theta float64) float64 {
	r := e.CrankRadius()
	area := math.Pi * e.Bore * e.Bore / 4
	rad := radians(theta)
	return e.ClearanceVolume + area*(r*(1-math.Cos(rad))+(r*r/e.RodLength)*(1-math.Cos(2*rad)))
}

// AngularVelocity 曲轴角速度, deg/s
func (e *Engine) AngularVelocity() float64 {
	return e.RPM / 60 * 360
}

// CycleTime 一个工作循环(两转)所用时间, s
func (e *Engine) CycleTime() float64 {
	return 2 * 60 / e.RPM
}

func (e *Engine) TimeAt(theta float64) float64 {
	return theta / e.AngularVelocity()
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
