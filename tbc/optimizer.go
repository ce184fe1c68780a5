package tbc

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"enginecycle/coating"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

// UCB 采集函数的探索系数
const explorationWeight = 1.96

var ErrNotLoaded = errors.New("optimizer has no training data")

// Weights 目标函数中各指标的权重, 负权重表示越小越好
type Weights struct {
	FatigueLife       float64
	VonMises          float64
	HeatFluxReduction float64
	CrackingProb      float64
}

var DefaultWeights = Weights{
	FatigueLife:       0.4,
	VonMises:          -0.3,
	HeatFluxReduction: 0.2,
	CrackingProb:      -0.1,
}

func (w Weights) vector() [4]float64 {
	return [4]float64{w.FatigueLife, w.VonMises, w.HeatFluxReduction, w.CrackingProb}
}

type Result struct {
	Best    coating.Coating
	Score   float64
	History []float64 // 每次迭代后的最优得分
}

type Optimizer struct {
	Bounds     coating.Bounds
	Weights    Weights
	Candidates int

	scaler  standardScaler
	gp      *gaussianProcess
	xTrain  [][]float64 // 标准化后的特征
	yTrain  []float64
	history []float64
	rng     *rand.Rand
}

func NewOptimizer(seed int64) *Optimizer {
	return &Optimizer{
		Bounds:     coating.DefaultBounds,
		Weights:    DefaultWeights,
		Candidates: 100,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

// Objective 各指标按最小-最大归一化后加权求和
func Objective(metrics [][]float64, w Weights) []float64 {
	res := make([]float64, len(metrics))
	if len(metrics) == 0 {
		return res
	}
	weights := w.vector()
	for j, weight := range weights {
		col := column(metrics, j)
		lo, hi := floats.Min(col), floats.Max(col)
		for i, v := range col {
			if hi > lo {
				res[i] += weight * (v - lo) / (hi - lo)
			}
		}
	}
	return res
}

// LoadData 拟合标准化器和高斯过程
func (o *Optimizer) LoadData(d *Dataset) error {
	if d == nil || d.Len() == 0 {
		return ErrEmptyDataset
	}
	o.scaler.fit(d.Features)
	o.xTrain = o.scaler.transformAll(d.Features)
	o.yTrain = Objective(d.Metrics, o.Weights)
	o.history = nil
	gp, err := fitGP(o.xTrain, o.yTrain)
	if err != nil {
		return fmt.Errorf("fit surrogate: %w", err)
	}
	o.gp = gp
	log.WithFields(log.Fields{
		"rows":        d.Len(),
		"amplitude":   gp.amplitude,
		"lengthScale": gp.lengthScale,
	}).Info("训练数据加载完成")
	return nil
}

// Predict 代理模型对一组原始(未标准化)参数的预测均值和标准差
func (o *Optimizer) Predict(c coating.Coating) (mean, std float64, err error) {
	if o.gp == nil {
		return 0, 0, ErrNotLoaded
	}
	mean, std = o.gp.predict(o.scaler.transform(c.Vector()))
	return mean, std, nil
}

func (o *Optimizer) sample() []float64 {
	res := make([]float64, len(o.Bounds))
	for j, b := range o.Bounds {
		res[j] = b.Low + o.rng.Float64()*(b.High-b.Low)
	}
	return res
}

// Optimize 贝叶斯优化: 随机候选点 -> UCB 选点 -> 代理模型评估 -> 加入训练集并重新拟合
func (o *Optimizer) Optimize(ctx context.Context, iterations int, callback func(i int, best float64)) (*Result, error) {
	if o.gp == nil {
		return nil, ErrNotLoaded
	}
	start := time.Now()
	bestScore := math.Inf(-1)
	var bestParams []float64
	for i := 0; i < iterations; i++ {
		select {
		case <-ctx.Done():
			return o.result(bestParams, bestScore), ctx.Err()
		default:
		}

		var chosen, chosenScaled []float64
		bestAcq := math.Inf(-1)
		for c := 0; c < o.Candidates; c++ {
			candidate := o.sample()
			scaled := o.scaler.transform(candidate)
			mean, std := o.gp.predict(scaled)
			if acq := mean + explorationWeight*std; acq > bestAcq {
				bestAcq = acq
				chosen, chosenScaled = candidate, scaled
			}
		}
		if chosen == nil {
			return nil, fmt.Errorf("no candidates sampled, candidates = %d", o.Candidates)
		}

		yNew, _ := o.gp.predict(chosenScaled)
		o.xTrain = append(o.xTrain, chosenScaled)
		o.yTrain = append(o.yTrain, yNew)
		gp, err := fitGP(o.xTrain, o.yTrain)
		if err != nil {
			return o.result(bestParams, bestScore), fmt.Errorf("refit surrogate at iteration %d: %w", i, err)
		}
		o.gp = gp

		if yNew > bestScore {
			bestScore = yNew
			bestParams = chosen
		}
		o.history = append(o.history, bestScore)
		if callback != nil {
			callback(i, bestScore)
		}
	}
	log.WithFields(log.Fields{
		"iterations": iterations,
		"score":      bestScore,
		"cost":       time.Since(start),
	}).Info("优化完成")
	return o.result(bestParams, bestScore), nil
}

func (o *Optimizer) result(params []float64, score float64) *Result {
	res := &Result{
		Score:   score,
		History: append([]float64(nil), o.history...),
	}
	if params != nil {
		res.Best = coating.FromVector("optimal", params)
	}
	return res
}

// TrainingSet 还原为原始量纲的训练集及其目标值
func (o *Optimizer) TrainingSet() ([][]float64, []float64) {
	rows := make([][]float64, len(o.xTrain))
	for i, row := range o.xTrain {
		rows[i] = o.scaler.inverse(row)
	}
	return rows, append([]float64(nil), o.yTrain...)
}
