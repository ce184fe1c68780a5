package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"enginecycle/calculator"
	"enginecycle/model"

	"github.com/glebarez/sqlite"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	ErrRunNotFound = errors.New("run not found")
	ErrInvalidRun  = errors.New("run has non-finite temperature or pressure")
)

// Run 一次计算的记录, 只保存关键指标和计算参数
type Run struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	Kind            string    `json:"kind" gorm:"index"`
	RPM             float64   `json:"rpm"`
	Points          int       `json:"points"`
	PeakTemperature float64   `json:"peak_temperature"`
	MinTemperature  float64   `json:"min_temperature"`
	PeakPressure    float64   `json:"peak_pressure"` // Pa
	MinPressure     float64   `json:"min_pressure"`  // Pa
	Params          string    `json:"params"`        // model.Env 的 JSON
	CreatedAt       time.Time `json:"created_at"`
}

// NewRun 由计算结果生成记录
func NewRun(trace *model.Trace, env model.Env) (Run, error) {
	if trace == nil || len(trace.Points) == 0 {
		return Run{}, calculator.ErrEmptyTrace
	}
	params, err := json.Marshal(env)
	if err != nil {
		return Run{}, err
	}
	minT, maxT, minP, maxP := calculator.Bounds(trace)
	for _, v := range []float64{minT, maxT, minP, maxP} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Run{}, ErrInvalidRun
		}
	}
	return Run{
		Kind:            trace.Kind,
		RPM:             trace.RPM,
		Points:          len(trace.Points),
		PeakTemperature: maxT,
		MinTemperature:  minT,
		PeakPressure:    maxP,
		MinPressure:     minP,
		Params:          string(params),
	}, nil
}

// Env 还原计算参数
func (r Run) Env() (model.Env, error) {
	var env model.Env
	if r.Params == "" {
		return env, nil
	}
	err := json.Unmarshal([]byte(r.Params), &env)
	return env, err
}

type Store struct {
	db *gorm.DB
}

// Open 打开(或创建) sqlite 数据库并建表
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	if err := db.AutoMigrate(&Run{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	log.WithField("path", path).Info("数据库已连接")
	return &Store{db: db}, nil
}

func (s *Store) SaveRun(r *Run) error {
	return s.db.Create(r).Error
}

// RecentRuns 按创建时间倒序
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	var runs []Run
	result := s.db.Order("created_at desc").Order("id desc").Limit(limit).Find(&runs)
	return runs, result.Error
}

func (s *Store) GetRun(id uint) (Run, error) {
	var r Run
	err := s.db.First(&r, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r, fmt.Errorf("run %d: %w", id, ErrRunNotFound)
	}
	return r, err
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
